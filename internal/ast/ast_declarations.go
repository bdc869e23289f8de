package ast

import (
	"github.com/raccoon-lang/raccoon/internal/token"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// InterfacePropertySig and InterfaceMethodSig describe one member of an
// `interface` declaration (spec §3.1 Interface{name, properties,
// type_parameters}).
type InterfacePropertySig struct {
	Name string
	Type typesystem.Type
}

type InterfaceMethodSig struct {
	Name       string
	Params     []*Param
	ReturnType typesystem.Type
}

// InterfaceDecl declares a nominal structural contract.
type InterfaceDecl struct {
	Token      token.Token
	Name       string
	Properties []InterfacePropertySig
	Methods    []InterfaceMethodSig
	TypeParams []string
}

func (*InterfaceDecl) statementNode()          {}
func (i *InterfaceDecl) GetToken() token.Token { return i.Token }

// EnumMemberDecl is one `Name` or `Name = value` entry of an enum
// declaration (spec §4.4 "for enums, compute numeric values left-to-right
// with auto-increment starting at 0, accepting integer and string
// literal overrides").
type EnumMemberDecl struct {
	Name         string
	IntOverride  *int64
	StrOverride  *string
}

// EnumDecl declares a closed set of named, optionally-valued members.
type EnumDecl struct {
	Token   token.Token
	Name    string
	Members []EnumMemberDecl
}

func (*EnumDecl) statementNode()          {}
func (e *EnumDecl) GetToken() token.Token { return e.Token }

// TypeAliasDecl declares `type Name = T` (spec §3.4 symbol kind
// TypeAlias, resolved immediately in pass 1 per spec §4.4).
type TypeAliasDecl struct {
	Token token.Token
	Name  string
	Type  typesystem.Type
}

func (*TypeAliasDecl) statementNode()          {}
func (t *TypeAliasDecl) GetToken() token.Token { return t.Token }
