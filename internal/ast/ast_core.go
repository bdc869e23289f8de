// Package ast defines the AST contract consumed from the parser (spec
// §6.1). The lexer and parser that produce these nodes are external
// collaborators outside this repository's scope (spec §1); this package
// only needs to describe the node shapes the evaluator and analyzer
// walk. Grounded on the teacher's internal/ast package (ast_core.go /
// ast_expressions.go / ast_types.go), generalized from funxy's
// `:-`-binding/trait-heavy grammar to this spec's class-based grammar.
package ast

import (
	"github.com/raccoon-lang/raccoon/internal/token"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// Node is the base interface for every AST node.
type Node interface {
	GetToken() token.Token
}

// Statement is a Node that can appear in a statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that can appear in an expression position.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node produced for a single compilation unit.
type Program struct {
	Token token.Token
	File  string
	Stmts []Statement
}

func (p *Program) GetToken() token.Token { return p.Token }

// ---- Parameters & patterns (spec §6.1) ----

// ParamPattern is either a simple Identifier binding or a Destructuring
// pattern (ArrayPattern | ObjectPattern), spec §6.1.
type ParamPattern interface {
	paramPatternNode()
}

// Identifier as a binding target (the common case).
func (i *Identifier) paramPatternNode() {}

// ArrayPattern destructures a list positionally, with an optional single
// trailing rest element (spec §6.1).
type ArrayPattern struct {
	Elements []ParamPattern
	Rest     *Identifier // nil if no rest element
}

func (a *ArrayPattern) paramPatternNode() {}

// ObjectPatternField binds Value (or Key again if Value is nil) from
// the object key Key.
type ObjectPatternField struct {
	Key   string
	Value ParamPattern
}

// ObjectPattern destructures an object/instance by key, with an optional
// single trailing rest element collecting remaining keys.
type ObjectPattern struct {
	Fields []ObjectPatternField
	Rest   *Identifier
}

func (o *ObjectPattern) paramPatternNode() {}

// Param describes one function parameter (spec §6.1).
type Param struct {
	Pattern      ParamPattern
	Type         typesystem.Type
	DefaultValue Expression // nil if none
	IsRest       bool
	IsOptional   bool
}

// Decorator is a `@name(args)` prefix on a function or class declaration
// (SPEC_FULL §4.8).
type Decorator struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (d *Decorator) GetToken() token.Token { return d.Token }

// ---- Statements ----

type VarDecl struct {
	Token          token.Token
	Pattern        ParamPattern // usually *Identifier; may be a destructuring pattern
	TypeAnnotation typesystem.Type
	Init           Expression // nil if absent
	IsConstant     bool
}

func (*VarDecl) statementNode()          {}
func (v *VarDecl) GetToken() token.Token { return v.Token }

type FnDecl struct {
	Token      token.Token
	Name       string
	Params     []*Param
	ReturnType typesystem.Type // nil if not explicitly declared (inferred)
	Body       *Block
	IsAsync    bool
	TypeParams []string
	Decorators []*Decorator
}

func (*FnDecl) statementNode()          {}
func (f *FnDecl) GetToken() token.Token { return f.Token }

type PropertyDecl struct {
	Name     string
	Type     typesystem.Type
	Init     Expression // nil if none
	IsStatic bool
}

type MethodDecl struct {
	Fn         *FnDecl
	IsStatic   bool
	IsGetter   bool
	IsSetter   bool
}

type ClassDecl struct {
	Token          token.Token
	Name           string
	Superclass     string // "" if none
	Properties     []*PropertyDecl
	Methods        []*MethodDecl
	Constructor    *FnDecl // nil if none
	TypeParams     []string
	Decorators     []*Decorator
}

func (*ClassDecl) statementNode()          {}
func (c *ClassDecl) GetToken() token.Token { return c.Token }

type Block struct {
	Token token.Token
	Stmts []Statement
}

func (*Block) statementNode()          {}
func (b *Block) GetToken() token.Token { return b.Token }

type If struct {
	Token     token.Token
	Condition Expression
	Then      Statement
	Else      Statement // nil if absent
}

func (*If) statementNode()          {}
func (i *If) GetToken() token.Token { return i.Token }

type While struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

func (*While) statementNode()          {}
func (w *While) GetToken() token.Token { return w.Token }

type For struct {
	Token     token.Token
	Init      Statement // nil if absent
	Condition Expression
	Update    Expression
	Body      Statement
}

func (*For) statementNode()          {}
func (f *For) GetToken() token.Token { return f.Token }

type ForIn struct {
	Token      token.Token
	LoopVar    string
	IsConstant bool
	Iterable   Expression
	Body       Statement
}

func (*ForIn) statementNode()          {}
func (f *ForIn) GetToken() token.Token { return f.Token }

type Return struct {
	Token token.Token
	Value Expression // nil if bare `return`
}

func (*Return) statementNode()          {}
func (r *Return) GetToken() token.Token { return r.Token }

type Break struct{ Token token.Token }

func (*Break) statementNode()          {}
func (b *Break) GetToken() token.Token { return b.Token }

type Continue struct{ Token token.Token }

func (*Continue) statementNode()          {}
func (c *Continue) GetToken() token.Token { return c.Token }

type CatchClause struct {
	ParamName string
	ParamType typesystem.Type // defaults to any (spec §4.4)
	Body      *Block
}

type Try struct {
	Token   token.Token
	Body    *Block
	Catches []*CatchClause
	Finally *Block // nil if absent
}

func (*Try) statementNode()          {}
func (t *Try) GetToken() token.Token { return t.Token }

type Throw struct {
	Token token.Token
	Value Expression
}

func (*Throw) statementNode()          {}
func (t *Throw) GetToken() token.Token { return t.Token }

// ImportKind distinguishes the three import shapes (spec §6.3).
type ImportKind int

const (
	ImportNamespace ImportKind = iota // import * as ns from M
	ImportNamed                       // import {a, b as c} from M
	ImportDefault                     // import x from M
)

type ImportSpecifier struct {
	Name  string
	Alias string // "" if no alias
}

type Import struct {
	Token      token.Token
	Kind       ImportKind
	Module     string // module specifier, e.g. "std:math"
	Namespace  string // binding name, ImportNamespace only
	Default    string // binding name, ImportDefault only
	Specifiers []ImportSpecifier
}

func (*Import) statementNode()          {}
func (i *Import) GetToken() token.Token { return i.Token }

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Token token.Token
	Expr  Expression
}

func (*ExprStmt) statementNode()          {}
func (e *ExprStmt) GetToken() token.Token { return e.Token }
