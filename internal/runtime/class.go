package runtime

import (
	"sync"

	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// Class is the runtime value produced by evaluating a ClassDecl (spec
// §3.2). Decl is an opaque pointer to the declaring AST node; kept as
// interface{} here to avoid runtime -> ast (ast instead depends on
// typesystem only, keeping the dependency order of spec §2 acyclic).
type Class struct {
	Name             string
	Decl             interface{}
	StaticMethods    map[string]Value
	StaticProperties map[string]Value
	Type             typesystem.Type
}

func (*Class) Kind() Kind                   { return KClass }
func (c *Class) RuntimeType() typesystem.Type { return c.Type }

// Accessor holds an optional getter/setter pair for an instance
// property (spec §4.1 "Member access ... a matching getter accessor").
type Accessor struct {
	Getter Value // *Function or nil
	Setter Value // *Function or nil
}

// sharedProps is the interior-mutable, single-writer-locked property map
// backing every alias of a ClassInstance (spec §3.2 ownership &
// aliasing: "create-once, observe-all-aliases semantics").
type sharedProps struct {
	mu    sync.RWMutex
	props map[string]Value
}

// ClassInstance is a live object of some Class. Aliases of the same
// instance share the same *sharedProps, so a write through any alias is
// observed by every other alias (spec §3.2).
type ClassInstance struct {
	Name      string
	shared    *sharedProps
	Methods   map[string]Value
	Accessors map[string]*Accessor
	Type      typesystem.Type
}

func NewClassInstance(name string, typ typesystem.Type) *ClassInstance {
	return &ClassInstance{
		Name:      name,
		shared:    &sharedProps{props: map[string]Value{}},
		Methods:   map[string]Value{},
		Accessors: map[string]*Accessor{},
		Type:      typ,
	}
}

func (*ClassInstance) Kind() Kind                     { return KClassInstance }
func (ci *ClassInstance) RuntimeType() typesystem.Type { return ci.Type }

// Alias returns a new *ClassInstance value that shares the same
// underlying property map, methods, and accessors - i.e. the same
// semantic object under a second reference.
func (ci *ClassInstance) Alias() *ClassInstance {
	return &ClassInstance{Name: ci.Name, shared: ci.shared, Methods: ci.Methods, Accessors: ci.Accessors, Type: ci.Type}
}

func (ci *ClassInstance) GetProperty(name string) (Value, bool) {
	ci.shared.mu.RLock()
	defer ci.shared.mu.RUnlock()
	v, ok := ci.shared.props[name]
	return v, ok
}

func (ci *ClassInstance) SetProperty(name string, v Value) {
	ci.shared.mu.Lock()
	defer ci.shared.mu.Unlock()
	ci.shared.props[name] = v
}

// Properties returns a snapshot copy of the instance's properties, for
// iteration/inspection only - mutating the result has no effect on the
// instance.
func (ci *ClassInstance) Properties() map[string]Value {
	ci.shared.mu.RLock()
	defer ci.shared.mu.RUnlock()
	out := make(map[string]Value, len(ci.shared.props))
	for k, v := range ci.shared.props {
		out[k] = v
	}
	return out
}
