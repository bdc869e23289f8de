// Package runtime implements the runtime Value tagged union (spec §3.2)
// and the Environment scope chain (spec §3.3). Grounded on the teacher's
// internal/evaluator/object*.go (tagged-variant Object interface with a
// closed ObjectType enum) and environment.go (map+outer-pointer scope
// chain); generalized from funxy's dozens of FP/trait object kinds down
// to this spec's simpler class-instance-based value set.
package runtime

import (
	"fmt"
	"math/big"

	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// Kind tags which Value variant a value holds (spec §3.2).
type Kind int

const (
	KInt Kind = iota
	KBigInt
	KFloat
	KDecimal
	KStr
	KBool
	KNull
	KList
	KMap
	KObject
	KClass
	KClassInstance
	KFunction
	KNativeFunction
	KNativeAsyncFunction
	KFuture
	KEnum
	KEnumObject
	KPrimitiveTypeObject
	KType
	KDynamic
)

func (k Kind) String() string {
	names := [...]string{
		"Int", "BigInt", "Float", "Decimal", "Str", "Bool", "Null",
		"List", "Map", "Object", "Class", "ClassInstance", "Function",
		"NativeFunction", "NativeAsyncFunction", "Future", "Enum",
		"EnumObject", "PrimitiveTypeObject", "Type", "Dynamic",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Value is the runtime tagged union every concrete variant implements.
type Value interface {
	Kind() Kind
	// RuntimeType reports the static type this value carries at runtime,
	// used by typeof/instanceof and by the analyzer's type-of-literal
	// fast paths.
	RuntimeType() typesystem.Type
}

// ---- Scalars ----

type Int int64

func (Int) Kind() Kind                          { return KInt }
func (Int) RuntimeType() typesystem.Type        { return typesystem.TInt }

type BigInt struct{ V *big.Int }

func (BigInt) Kind() Kind                   { return KBigInt }
func (BigInt) RuntimeType() typesystem.Type { return typesystem.TBigInt }

type Float float64

func (Float) Kind() Kind                   { return KFloat }
func (Float) RuntimeType() typesystem.Type { return typesystem.TFloat }

// Decimal is a fixed-point number: Unscaled * 10^-Scale. No ecosystem
// decimal library appears anywhere in the retrieved example pack, so
// this is a small hand-rolled arbitrary-precision decimal built on
// math/big.Int (DESIGN.md justifies this as stdlib-only).
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

func (Decimal) Kind() Kind                   { return KDecimal }
func (Decimal) RuntimeType() typesystem.Type { return typesystem.TDecimal }

func (d Decimal) String() string {
	if d.Scale <= 0 {
		return new(big.Int).Mul(d.Unscaled, pow10(-d.Scale)).String()
	}
	s := d.Unscaled.String()
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for int32(len(s)) <= d.Scale {
		s = "0" + s
	}
	cut := int32(len(s)) - d.Scale
	out := s[:cut] + "." + s[cut:]
	if neg {
		out = "-" + out
	}
	return out
}

func pow10(n int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// Float64 converts the decimal to a float64 for numeric comparisons and
// promotions (spec §4.3 numeric cross-comparison).
func (d Decimal) Float64() float64 {
	num := new(big.Float).SetInt(d.Unscaled)
	if d.Scale > 0 {
		num.Quo(num, new(big.Float).SetInt(pow10(d.Scale)))
	} else if d.Scale < 0 {
		num.Mul(num, new(big.Float).SetInt(pow10(-d.Scale)))
	}
	out, _ := num.Float64()
	return out
}

type Str string

func (Str) Kind() Kind                   { return KStr }
func (Str) RuntimeType() typesystem.Type { return typesystem.TStr }

type Bool bool

func (Bool) Kind() Kind                   { return KBool }
func (Bool) RuntimeType() typesystem.Type { return typesystem.TBool }

type nullType struct{}

func (nullType) Kind() Kind                   { return KNull }
func (nullType) RuntimeType() typesystem.Type { return typesystem.TNull }

// Null is the single Null value instance.
var Null Value = nullType{}

// IsNull reports whether v is the Null value.
func IsNull(v Value) bool {
	_, ok := v.(nullType)
	return ok
}

// ---- Collections ----

// List is a mutable, reference-shared sequence (aliases of the same List
// observe each other's mutations, matching how array method calls like
// push/pop are expected to behave for any reference type in this
// language).
type List struct {
	Elements    *[]Value
	ElementType typesystem.Type
}

func NewList(elems []Value, elemType typesystem.Type) *List {
	return &List{Elements: &elems, ElementType: elemType}
}

func (*List) Kind() Kind { return KList }
func (l *List) RuntimeType() typesystem.Type {
	return typesystem.List{Element: l.ElementType}
}
func (l *List) Get() []Value { return *l.Elements }
func (l *List) Set(elems []Value) { *l.Elements = elems }

// Map is an insertion-ordered, reference-shared string-keyed map (spec
// §4.1 "Index on ... map (string key)").
type Map struct {
	keys      *[]string
	entries   *map[string]Value
	KeyType   typesystem.Type
	ValueType typesystem.Type
}

func NewMap(keyType, valueType typesystem.Type) *Map {
	keys := []string{}
	entries := map[string]Value{}
	return &Map{keys: &keys, entries: &entries, KeyType: keyType, ValueType: valueType}
}

func (*Map) Kind() Kind { return KMap }
func (m *Map) RuntimeType() typesystem.Type {
	return typesystem.Map{Key: m.KeyType, Value: m.ValueType}
}

func (m *Map) Get(key string) (Value, bool) {
	v, ok := (*m.entries)[key]
	return v, ok
}

func (m *Map) Set(key string, v Value) {
	if _, exists := (*m.entries)[key]; !exists {
		*m.keys = append(*m.keys, key)
	}
	(*m.entries)[key] = v
}

func (m *Map) Delete(key string) {
	if _, exists := (*m.entries)[key]; exists {
		delete(*m.entries, key)
		for i, k := range *m.keys {
			if k == key {
				*m.keys = append((*m.keys)[:i], (*m.keys)[i+1:]...)
				break
			}
		}
	}
}

func (m *Map) Keys() []string { return append([]string(nil), *m.keys...) }
func (m *Map) Len() int       { return len(*m.keys) }

// Object is a plain structural object value (distinct from a
// ClassInstance, spec §3.2).
type Object struct {
	Properties map[string]Value
}

func NewObject() *Object { return &Object{Properties: map[string]Value{}} }

func (*Object) Kind() Kind                   { return KObject }
func (*Object) RuntimeType() typesystem.Type { return typesystem.TAny }

// ---- Dynamic ----

type dynamicType struct{}

func (dynamicType) Kind() Kind                   { return KDynamic }
func (dynamicType) RuntimeType() typesystem.Type { return typesystem.TAny }

var Dynamic Value = dynamicType{}

// ---- Type objects ----

// TypeValue wraps a typesystem.Type as a first-class runtime value
// (spec §3.2 "Type(TypeObject)").
type TypeValue struct{ Type typesystem.Type }

func (TypeValue) Kind() Kind                   { return KType }
func (t TypeValue) RuntimeType() typesystem.Type { return typesystem.TAny }

// PrimitiveTypeObject represents a primitive kind (e.g. str) as a value
// carrying static methods/properties (spec §3.2, glossary "Primitive
// type object").
type PrimitiveTypeObject struct {
	Name             string
	StaticMethods    map[string]Value
	StaticProperties map[string]Value
}

func (*PrimitiveTypeObject) Kind() Kind                   { return KPrimitiveTypeObject }
func (*PrimitiveTypeObject) RuntimeType() typesystem.Type { return typesystem.TAny }

func fmtFloat(f float64) string { return fmt.Sprintf("%g", f) }
