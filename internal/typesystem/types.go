// Package typesystem implements the static Type tagged union (spec §3.1),
// assignability rules, common-type inference, and flow-sensitive
// narrowing (spec §4.5), grounded on the teacher's internal/typesystem
// package (types.go / unify.go / kinds.go), generalized from funxy's
// structural-row type system to this language's simpler nominal one.
package typesystem

import (
	"fmt"
	"strings"
)

// Kind tags which Type variant a value holds.
type Kind int

const (
	KindPrimitive Kind = iota
	KindList
	KindMap
	KindFunction
	KindFuture
	KindNullable
	KindUnion
	KindClass
	KindInterface
	KindEnum
	KindGeneric
	KindTypeRef
)

// Type is the tagged union described in spec §3.1. Every variant below
// implements it.
type Type interface {
	Kind() Kind
	String() string
}

// PrimitiveKind enumerates the primitive names from spec §3.1.
type PrimitiveKind int

const (
	Int PrimitiveKind = iota
	BigInt
	Float
	Decimal
	Str
	Bool
	Null
	Void
	Any
	Unknown
)

var primitiveNames = map[PrimitiveKind]string{
	Int: "int", BigInt: "bigint", Float: "float", Decimal: "decimal",
	Str: "str", Bool: "bool", Null: "null", Void: "void",
	Any: "any", Unknown: "unknown",
}

func (p PrimitiveKind) String() string { return primitiveNames[p] }

// Primitive is a primitive type, e.g. int, str, any.
type Primitive struct{ Name PrimitiveKind }

func (Primitive) Kind() Kind      { return KindPrimitive }
func (p Primitive) String() string { return p.Name.String() }

var (
	TInt     = Primitive{Int}
	TBigInt  = Primitive{BigInt}
	TFloat   = Primitive{Float}
	TDecimal = Primitive{Decimal}
	TStr     = Primitive{Str}
	TBool    = Primitive{Bool}
	TNull    = Primitive{Null}
	TVoid    = Primitive{Void}
	TAny     = Primitive{Any}
	TUnknown = Primitive{Unknown}
)

// IsPrimitive reports whether t is the Primitive with the given kind.
func IsPrimitive(t Type, k PrimitiveKind) bool {
	p, ok := t.(Primitive)
	return ok && p.Name == k
}

// List is a homogeneous list/array type.
type List struct{ Element Type }

func (List) Kind() Kind        { return KindList }
func (l List) String() string  { return fmt.Sprintf("List<%s>", l.Element) }

// Map is a string-keyed (per spec §4.1 Index contract) hash map type.
type Map struct {
	Key   Type
	Value Type
}

func (Map) Kind() Kind       { return KindMap }
func (m Map) String() string { return fmt.Sprintf("Map<%s, %s>", m.Key, m.Value) }

// Function is a callable signature.
type Function struct {
	Params   []Type
	Return   Type
	Variadic bool
}

func (Function) Kind() Kind { return KindFunction }
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	variadic := ""
	if f.Variadic && len(parts) > 0 {
		variadic = "..."
		parts[len(parts)-1] = variadic + parts[len(parts)-1]
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return fmt.Sprintf("fn(%s): %s", strings.Join(parts, ", "), ret)
}

// Future wraps the eventual result type of an async computation.
type Future struct{ Inner Type }

func (Future) Kind() Kind       { return KindFuture }
func (f Future) String() string { return fmt.Sprintf("Future<%s>", f.Inner) }

// Nullable means "Inner or null". Distinct at the tag level from
// Union{Inner, null} but equivalent for assignability (spec §3.1).
type Nullable struct{ Inner Type }

func (Nullable) Kind() Kind       { return KindNullable }
func (n Nullable) String() string { return fmt.Sprintf("%s?", n.Inner) }

// Union is a flattened, deduplicated set of member types (spec §3.1
// invariant: "Union flattens nested unions and deduplicates members").
type Union struct{ Members []Type }

func (Union) Kind() Kind { return KindUnion }
func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// NewUnion builds a Union honoring the flatten+dedup invariant. A
// resulting single-member union collapses to that member directly.
func NewUnion(members ...Type) Type {
	flat := make([]Type, 0, len(members))
	seen := make([]Type, 0, len(members))
	var flatten func(Type)
	flatten = func(t Type) {
		if u, ok := t.(Union); ok {
			for _, m := range u.Members {
				flatten(m)
			}
			return
		}
		for _, s := range seen {
			if Equal(s, t) {
				return
			}
		}
		seen = append(seen, t)
		flat = append(flat, t)
	}
	for _, m := range members {
		flatten(m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Union{Members: flat}
}

// Property is a named, typed class/interface member.
type Property struct {
	Name     string
	Type     Type
	IsStatic bool
}

// Method is a named function signature attached to a class or interface.
type Method struct {
	Name     string
	Sig      Function
	IsStatic bool
}

// Class is a nominal class type with single inheritance (spec §3.1/§9).
type Class struct {
	Name           string
	Superclass     *Class
	Properties     []Property
	Methods        []Method
	Constructor    *Function
	TypeParameters []string
}

func (Class) Kind() Kind        { return KindClass }
func (c Class) String() string  { return c.Name }

// FindProperty searches c and its superclass chain.
func (c *Class) FindProperty(name string) (Property, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		for _, p := range cls.Properties {
			if p.Name == name {
				return p, true
			}
		}
	}
	return Property{}, false
}

// FindMethod searches c and its superclass chain.
func (c *Class) FindMethod(name string) (Method, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		for _, m := range cls.Methods {
			if m.Name == name {
				return m, true
			}
		}
	}
	return Method{}, false
}

// IsSubclassOf reports whether c is cls or descends from it.
func (c *Class) IsSubclassOf(cls *Class) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur == cls || cur.Name == cls.Name {
			return true
		}
	}
	return false
}

// Interface is a nominal structural contract.
type Interface struct {
	Name           string
	Properties     []Property
	Methods        []Method
	TypeParameters []string
}

func (Interface) Kind() Kind       { return KindInterface }
func (i Interface) String() string { return i.Name }

// Enum is a closed set of named, optionally-valued members.
type EnumMember struct {
	Name  string
	Value interface{} // int64 or string, per spec §4.4 "integer and string literal overrides"
}

type Enum struct {
	Name    string
	Members []EnumMember
}

func (Enum) Kind() Kind       { return KindEnum }
func (e Enum) String() string { return e.Name }

// Generic applies concrete Args to a generic Base (class, interface, or
// function) by substitution (see SPEC_FULL §4.8).
type Generic struct {
	Base Type
	Args []Type
}

func (Generic) Kind() Kind { return KindGeneric }
func (g Generic) String() string {
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", g.Base, strings.Join(parts, ", "))
}

// TypeRef is an unresolved reference to a type by name, used during
// declaration-pass symbol registration before the referent exists.
type TypeRef struct{ Name string }

func (TypeRef) Kind() Kind       { return KindTypeRef }
func (t TypeRef) String() string { return t.Name }

// Equal performs structural equality over the Type union. Class and
// Interface compare by name (nominal), everything else structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case Primitive:
		return at.Name == b.(Primitive).Name
	case List:
		return Equal(at.Element, b.(List).Element)
	case Map:
		bm := b.(Map)
		return Equal(at.Key, bm.Key) && Equal(at.Value, bm.Value)
	case Function:
		bf := b.(Function)
		if len(at.Params) != len(bf.Params) || at.Variadic != bf.Variadic {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bf.Params[i]) {
				return false
			}
		}
		return Equal(at.Return, bf.Return)
	case Future:
		return Equal(at.Inner, b.(Future).Inner)
	case Nullable:
		return Equal(at.Inner, b.(Nullable).Inner)
	case Union:
		bu := b.(Union)
		if len(at.Members) != len(bu.Members) {
			return false
		}
		for _, m := range at.Members {
			found := false
			for _, bm := range bu.Members {
				if Equal(m, bm) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case Class:
		return at.Name == b.(Class).Name
	case Interface:
		return at.Name == b.(Interface).Name
	case Enum:
		return at.Name == b.(Enum).Name
	case Generic:
		bg := b.(Generic)
		if !Equal(at.Base, bg.Base) || len(at.Args) != len(bg.Args) {
			return false
		}
		for i := range at.Args {
			if !Equal(at.Args[i], bg.Args[i]) {
				return false
			}
		}
		return true
	case TypeRef:
		return at.Name == b.(TypeRef).Name
	}
	return false
}
