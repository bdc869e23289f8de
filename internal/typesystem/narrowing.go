package typesystem

// NarrowMap maps a symbol name to its refined type along one branch of a
// conditional (spec §4.5).
type NarrowMap map[string]Type

// Narrowing holds the then/else refinements computed for an if-condition.
type Narrowing struct {
	Then NarrowMap
	Else NarrowMap
}

func emptyNarrowing() Narrowing {
	return Narrowing{Then: NarrowMap{}, Else: NarrowMap{}}
}

// merge combines two narrowings conjunctively (logical &&): both sets of
// refinements must hold on the "then" side, and De Morgan's gives the
// "else" side (negation of a conjunction is a disjunction, which cannot
// be expressed as a single refinement per name, so conflicting narrowings
// for the same name are dropped on the else side).
func mergeAnd(a, b Narrowing) Narrowing {
	out := emptyNarrowing()
	for k, v := range a.Then {
		out.Then[k] = v
	}
	for k, v := range b.Then {
		out.Then[k] = v
	}
	// else side: only keep a refinement if both sides agree on it, since
	// !(A && B) does not imply either A's or B's individual else-refinement
	// in general.
	for k, v := range a.Else {
		if bv, ok := b.Else[k]; ok && Equal(v, bv) {
			out.Else[k] = v
		}
	}
	return out
}

func mergeOr(a, b Narrowing) Narrowing {
	out := emptyNarrowing()
	for k, v := range a.Else {
		out.Else[k] = v
	}
	for k, v := range b.Else {
		out.Else[k] = v
	}
	for k, v := range a.Then {
		if bv, ok := b.Then[k]; ok && Equal(v, bv) {
			out.Then[k] = v
		}
	}
	return out
}

// NarrowingCondition is the minimal shape the analyzer feeds in to
// describe a condition expression without importing the ast package
// here (this package sits below ast in the dependency order, spec §2).
type NarrowingCondition struct {
	// Op is one of "==null", "!=null", "typeof==", "&&", "||", "" (opaque).
	Op string
	// Name is the narrowed symbol's name, when Op refers directly to one.
	Name string
	// DeclaredType is the symbol's declared (pre-narrowing) type, needed
	// to compute the "not null" refinement of a Nullable<T>.
	DeclaredType Type
	// TypeOfLiteral is the string literal compared against typeof x, for
	// Op == "typeof==".
	TypeOfLiteral string
	// TypeOfNameType is the concrete Type that TypeOfLiteral denotes,
	// resolved by the analyzer's type-name table.
	TypeOfNameType Type
	// Left/Right are the sub-conditions for "&&"/"||".
	Left, Right *NarrowingCondition
}

// Narrow computes the then/else NarrowMaps for a condition (spec §4.5:
// "x == null", "x != null", "typeof x == '...'", and logical
// conjunctions/disjunctions thereof).
func Narrow(c *NarrowingCondition) Narrowing {
	if c == nil {
		return emptyNarrowing()
	}
	switch c.Op {
	case "==null":
		out := emptyNarrowing()
		out.Then[c.Name] = TNull
		if nd, ok := c.DeclaredType.(Nullable); ok {
			out.Else[c.Name] = nd.Inner
		}
		return out
	case "!=null":
		out := emptyNarrowing()
		if nd, ok := c.DeclaredType.(Nullable); ok {
			out.Then[c.Name] = nd.Inner
		}
		out.Else[c.Name] = TNull
		return out
	case "typeof==":
		out := emptyNarrowing()
		if c.TypeOfNameType != nil {
			out.Then[c.Name] = c.TypeOfNameType
		}
		return out
	case "&&":
		return mergeAnd(Narrow(c.Left), Narrow(c.Right))
	case "||":
		return mergeOr(Narrow(c.Left), Narrow(c.Right))
	default:
		return emptyNarrowing()
	}
}

// Scope is a stack of narrowing layers over the symbol table's declared
// types, consulted by get_narrowed_type before falling back to the
// declared type (spec §4.5).
type Scope struct {
	layers []NarrowMap
}

func NewScope() *Scope { return &Scope{} }

func (s *Scope) Push(m NarrowMap) { s.layers = append(s.layers, m) }

func (s *Scope) Pop() {
	if len(s.layers) > 0 {
		s.layers = s.layers[:len(s.layers)-1]
	}
}

// GetNarrowedType searches innermost-first for a refinement of name,
// falling back to declared when none is found.
func (s *Scope) GetNarrowedType(name string, declared Type) Type {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if t, ok := s.layers[i][name]; ok {
			return t
		}
	}
	return declared
}
