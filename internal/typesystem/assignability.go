package typesystem

// IsAssignableTo implements spec §3.1's is_assignable_to: reflexive,
// transitive along the class→superclass chain, lifts primitives to
// unions that contain them, unwraps Nullable when dst is any, and
// treats unknown as top for assignments *into* it only.
func IsAssignableTo(src, dst Type) bool {
	if src == nil || dst == nil {
		return false
	}
	// Reflexive.
	if Equal(src, dst) {
		return true
	}
	// unknown is top for assignments INTO it only: anything is assignable
	// to unknown.
	if IsPrimitive(dst, Unknown) {
		return true
	}
	// any accepts everything, including Nullable<T> (unwraps per spec).
	if IsPrimitive(dst, Any) {
		return true
	}
	// null is assignable to Nullable<T> for any T.
	if IsPrimitive(src, Null) {
		if _, ok := dst.(Nullable); ok {
			return true
		}
		if IsPrimitive(dst, Any) {
			return true
		}
	}
	// Nullable<T> source: assignable to dst if T is (dst absorbs null via
	// Nullable dst of same inner, or any).
	if ns, ok := src.(Nullable); ok {
		if nd, ok := dst.(Nullable); ok {
			return IsAssignableTo(ns.Inner, nd.Inner)
		}
		return false
	}
	if nd, ok := dst.(Nullable); ok {
		return IsAssignableTo(src, nd.Inner)
	}
	// Numeric widening: int -> float, int -> decimal.
	if sp, ok := src.(Primitive); ok {
		if dp, ok := dst.(Primitive); ok {
			if sp.Name == Int && (dp.Name == Float || dp.Name == Decimal || dp.Name == BigInt) {
				return true
			}
			if sp.Name == BigInt && dp.Name == Decimal {
				return true
			}
		}
	}
	// Lift primitives (and anything else) into a union containing them.
	if du, ok := dst.(Union); ok {
		for _, m := range du.Members {
			if IsAssignableTo(src, m) {
				return true
			}
		}
		return false
	}
	// A union source is assignable to dst iff every member is.
	if su, ok := src.(Union); ok {
		for _, m := range su.Members {
			if !IsAssignableTo(m, dst) {
				return false
			}
		}
		return true
	}
	// Class chain: transitive superclass walk.
	if sc, ok := src.(Class); ok {
		if dc, ok := dst.(Class); ok {
			return (&sc).IsSubclassOf(&dc)
		}
	}
	// List/Map covariance of element/value types (structural, used for
	// array literal element unification and map literals).
	if sl, ok := src.(List); ok {
		if dl, ok := dst.(List); ok {
			return IsAssignableTo(sl.Element, dl.Element)
		}
	}
	if sm, ok := src.(Map); ok {
		if dm, ok := dst.(Map); ok {
			return IsAssignableTo(sm.Key, dm.Key) && IsAssignableTo(sm.Value, dm.Value)
		}
	}
	if sf, ok := src.(Future); ok {
		if df, ok := dst.(Future); ok {
			return IsAssignableTo(sf.Inner, df.Inner)
		}
	}
	return false
}

// IsReflexive is a convenience wrapper exercised directly by the
// testable-property suite (spec §8 invariant 7: "T is assignable to T").
func IsReflexive(t Type) bool {
	return IsAssignableTo(t, t)
}
