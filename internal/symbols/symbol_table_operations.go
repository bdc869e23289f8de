package symbols

import "fmt"

// Table is a stack of scoped frames mapping name -> Symbol. It mirrors
// the runtime Environment's declare/assign/get/push_scope/pop_scope
// contract (spec §3.4) but never mutates a value in place; it installs
// and replaces type bindings as analysis proceeds.
type Table struct {
	frames []map[string]*Symbol
}

// NewTable creates a table with a single global frame.
func NewTable() *Table {
	return &Table{frames: []map[string]*Symbol{{}}}
}

// PushScope pushes a fresh frame.
func (t *Table) PushScope() {
	t.frames = append(t.frames, map[string]*Symbol{})
}

// PopScope pops the innermost frame. No-op (defensive) if only the
// global frame remains.
func (t *Table) PopScope() {
	if len(t.frames) > 1 {
		t.frames = t.frames[:len(t.frames)-1]
	}
}

// Declare installs a new symbol in the innermost frame. It fails if the
// name already exists in that frame (spec §3.3 "declare" contract,
// mirrored here for symbols).
func (t *Table) Declare(sym *Symbol) error {
	top := t.frames[len(t.frames)-1]
	if _, exists := top[sym.Name]; exists {
		return fmt.Errorf("symbol %q already declared in this scope", sym.Name)
	}
	top[sym.Name] = sym
	return nil
}

// Define installs or overwrites a symbol in the innermost frame,
// bypassing the duplicate check. Used by the declaration pass for
// forward-declared classes/functions that are later filled in.
func (t *Table) Define(sym *Symbol) {
	top := t.frames[len(t.frames)-1]
	top[sym.Name] = sym
}

// Update rewrites an existing binding found by searching top-down,
// mirroring Environment.assign. Returns false if not found.
func (t *Table) Update(name string, sym *Symbol) bool {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if _, ok := t.frames[i][name]; ok {
			t.frames[i][name] = sym
			return true
		}
	}
	return false
}

// Find searches top-down for name, mirroring Environment.get.
func (t *Table) Find(name string) (*Symbol, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if sym, ok := t.frames[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// FindInCurrentScope searches only the innermost frame, used to reject
// "let x" shadowing within the same block when the language forbids it.
func (t *Table) FindInCurrentScope(name string) (*Symbol, bool) {
	top := t.frames[len(t.frames)-1]
	sym, ok := top[name]
	return sym, ok
}

// Depth reports the current frame count, used by tests asserting that
// scope pushes/pops are balanced (spec §8 invariant 1, mirrored here for
// the analyzer side).
func (t *Table) Depth() int {
	return len(t.frames)
}
