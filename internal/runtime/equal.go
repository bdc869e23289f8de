package runtime

import "math/big"

// StructuralEqual implements spec §4.3's "==/!= apply structural
// equality across compatible kinds (integers and floats cross-compare
// numerically)". Grounded on the teacher's internal/evaluator/
// objects_equal.go, which implements the same cross-kind numeric
// comparison pattern for its own Object variants.
func StructuralEqual(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	if af, aok := numericOf(a); aok {
		if bf, bok := numericOf(b); bok {
			return af == bf
		}
	}
	switch av := a.(type) {
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case *List:
		bv, ok := b.(*List)
		if !ok {
			return false
		}
		ae, be := av.Get(), bv.Get()
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !StructuralEqual(ae[i], be[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			ve, _ := av.Get(k)
			vb, ok := bv.Get(k)
			if !ok || !StructuralEqual(ve, vb) {
				return false
			}
		}
		return true
	case *ClassInstance:
		bv, ok := b.(*ClassInstance)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av.Name == bv.Name
	case *Enum:
		bv, ok := b.(*Enum)
		if !ok || av.EnumName != bv.EnumName || av.Variant != bv.Variant {
			return false
		}
		if av.Payload == nil || bv.Payload == nil {
			return av.Payload == nil && bv.Payload == nil
		}
		return StructuralEqual(av.Payload, bv.Payload)
	}
	return a == b
}

// numericOf returns a's value as a float64 if it is one of the numeric
// kinds, for cross-kind numeric comparison (int == float, etc).
func numericOf(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	case BigInt:
		f := new(big.Float).SetInt(n.V)
		out, _ := f.Float64()
		return out, true
	case Decimal:
		return n.Float64(), true
	}
	return 0, false
}
