package typesystem

// InferCommonType computes the least upper bound of a set of types
// (spec §4.5): identical types fold, numeric types widen (int+float ->
// float), T and Nullable<T> unify as Nullable<T>, otherwise a flattened,
// deduplicated union is produced.
//
// Testable properties (spec §8 invariant 5):
//   InferCommonType([]Type{t}) == t                         (singleton law)
//   InferCommonType([]Type{a,b}) == InferCommonType([]Type{b,a})  (commutative)
func InferCommonType(types []Type) Type {
	if len(types) == 0 {
		return TVoid
	}
	acc := types[0]
	for _, t := range types[1:] {
		acc = combine2(acc, t)
	}
	return acc
}

func combine2(a, b Type) Type {
	if Equal(a, b) {
		return a
	}

	// Numeric widening, symmetric.
	if isNumericWiden(a, b) {
		return widenedNumeric(a, b)
	}

	// T / Nullable<T> unification, symmetric.
	if na, ok := a.(Nullable); ok {
		if Equal(na.Inner, b) {
			return na
		}
	}
	if nb, ok := b.(Nullable); ok {
		if Equal(nb.Inner, a) {
			return nb
		}
	}
	if na, ok := a.(Nullable); ok {
		if nb, ok := b.(Nullable); ok {
			inner := combine2(na.Inner, nb.Inner)
			return Nullable{Inner: inner}
		}
	}

	// null unifies with anything as Nullable<other>.
	if IsPrimitive(a, Null) {
		if IsPrimitive(b, Null) {
			return TNull
		}
		if nb, ok := b.(Nullable); ok {
			return nb
		}
		return Nullable{Inner: b}
	}
	if IsPrimitive(b, Null) {
		return combine2(b, a)
	}

	// Fall back to a flattened, deduplicated union - always symmetric
	// because NewUnion dedups by structural equality regardless of order.
	return NewUnion(a, b)
}

func isNumericWiden(a, b Type) bool {
	pa, aok := a.(Primitive)
	pb, bok := b.(Primitive)
	if !aok || !bok {
		return false
	}
	numeric := func(k PrimitiveKind) bool {
		return k == Int || k == BigInt || k == Float || k == Decimal
	}
	return numeric(pa.Name) && numeric(pb.Name)
}

func widenedNumeric(a, b Type) Type {
	rank := func(k PrimitiveKind) int {
		switch k {
		case Int:
			return 0
		case BigInt:
			return 1
		case Float:
			return 2
		case Decimal:
			return 3
		}
		return -1
	}
	pa := a.(Primitive)
	pb := b.(Primitive)
	if rank(pa.Name) >= rank(pb.Name) {
		return pa
	}
	return pb
}

// InferListElementType unifies a list literal's element types (spec
// §4.4 "List literal"). An empty list infers element type unknown.
func InferListElementType(elems []Type) Type {
	if len(elems) == 0 {
		return TUnknown
	}
	return InferCommonType(elems)
}

// ReturnCollector accumulates the types of `return` statements
// encountered while walking a function body, used for return-type
// inference (spec §4.4/§4.5). The caller (analyzer) is responsible for
// recursing through nested control-flow blocks but NOT into nested
// function/arrow bodies, per spec.
type ReturnCollector struct {
	types []Type
}

func (c *ReturnCollector) Add(t Type) {
	c.types = append(c.types, t)
}

// Infer folds the collected return types via InferCommonType; an empty
// collection infers void (spec §4.5 "if none, infer void").
func (c *ReturnCollector) Infer() Type {
	if len(c.types) == 0 {
		return TVoid
	}
	return InferCommonType(c.types)
}

// WrapAsync wraps t in Future<t> unless it is already a Future (spec
// §4.4: "if is_async, wrap return type in Future<...> unless already
// wrapped").
func WrapAsync(t Type) Type {
	if _, ok := t.(Future); ok {
		return t
	}
	return Future{Inner: t}
}
