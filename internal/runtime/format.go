package runtime

import (
	"fmt"
	"strings"
)

// IsTruthy implements spec §4.3's truthiness table.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case nullType:
		return false
	case Int:
		return x != 0
	case Float:
		return x != 0
	case Str:
		return x != ""
	case nil:
		return false
	default:
		return true
	}
}

// ToString renders v for string concatenation / template interpolation
// (spec §4.1 "Template string ... to_string of expression parts").
func ToString(v Value) string {
	switch x := v.(type) {
	case Int:
		return fmt.Sprintf("%d", int64(x))
	case BigInt:
		return x.V.String()
	case Float:
		return fmtFloat(float64(x))
	case Decimal:
		return x.String()
	case Str:
		return string(x)
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case nullType:
		return "null"
	case *List:
		parts := make([]string, 0, len(x.Get()))
		for _, e := range x.Get() {
			parts = append(parts, Inspect(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Map:
		parts := make([]string, 0, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			parts = append(parts, fmt.Sprintf("%q: %s", k, Inspect(val)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ClassInstance:
		return x.Name
	case *Class:
		return "class " + x.Name
	case *Enum:
		if x.Payload != nil {
			return fmt.Sprintf("%s.%s(%s)", x.EnumName, x.Variant, ToString(x.Payload))
		}
		return fmt.Sprintf("%s.%s", x.EnumName, x.Variant)
	case *Function:
		if x.Name != "" {
			return "fn " + x.Name
		}
		return "fn <anonymous>"
	case *Future:
		return "Future<" + x.Status().String() + ">"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Inspect is ToString but with quoted strings, used inside list/map
// literal rendering so nested strings are visually distinguishable.
func Inspect(v Value) string {
	if s, ok := v.(Str); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return ToString(v)
}

// TypeOfName produces the static kind name used by `typeof` (spec §4.1
// "Typeof"): qualified for classes/instances/enums/type objects.
func TypeOfName(v Value) string {
	switch x := v.(type) {
	case Int:
		return "int"
	case BigInt:
		return "bigint"
	case Float:
		return "float"
	case Decimal:
		return "decimal"
	case Str:
		return "str"
	case Bool:
		return "bool"
	case nullType:
		return "null"
	case *List:
		return "list"
	case *Map:
		return "map"
	case *Object:
		return "object"
	case *Class:
		return "class " + x.Name
	case *ClassInstance:
		return x.Name
	case *Function, *NativeFunction, *NativeAsyncFunction, *BoundMethod:
		return "function"
	case *Future:
		return "future"
	case *Enum:
		return "enum " + x.EnumName
	case *EnumObject:
		return "enum " + x.Name
	case TypeValue:
		return "type " + x.Type.String()
	case *PrimitiveTypeObject:
		return "type " + x.Name
	default:
		return "dynamic"
	}
}
