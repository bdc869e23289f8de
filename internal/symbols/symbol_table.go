// Package symbols implements the analysis-time symbol table (spec §3.4):
// a scoped name -> Symbol map that behaves like the runtime Environment
// (declare/assign/get, push/pop scope) but stores types instead of
// values. Grounded on the teacher's internal/symbols package, which
// splits the same responsibility across symbol_table_core.go /
// symbol_table_operations.go / symbol_table_resolution.go; here the
// responsibility is split across symbol_table.go and
// symbol_table_operations.go, for a simpler (nominal, non-trait) type
// system.
package symbols

import "github.com/raccoon-lang/raccoon/internal/typesystem"

// Kind classifies what a Symbol denotes (spec §3.4).
type Kind int

const (
	Variable Kind = iota
	Parameter
	Function
	Class
	Interface
	Enum
	TypeAlias
)

// Symbol is one entry of the symbol table.
type Symbol struct {
	Name       string
	SymKind    Kind
	Type       typesystem.Type
	IsConstant bool
	// Decl is an opaque handle to the declaring AST node, used by the
	// evaluator/analyzer for diagnostics; left untyped here to avoid a
	// dependency from symbols -> ast (symbols sits below ast in the
	// dependency order, spec §2... in practice it sits beside it; kept
	// as interface{} to avoid a cycle since ast does not need symbols).
	Decl interface{}
}
