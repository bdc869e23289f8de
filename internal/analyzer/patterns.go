// Match-arm pattern type binding (spec §4.1 "Pattern matching"),
// analyzer-side counterpart to the evaluator's runtime matcher in
// internal/evaluator/match.go. Grounded on the teacher's
// internal/analyzer/declarations_patterns.go.
package analyzer

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/symbols"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// bindMatchPattern declares the bindings a match-arm pattern introduces
// against the scrutinee's type scrutType, recursing structurally the
// same way the runtime matcher does.
func (a *Analyzer) bindMatchPattern(p ast.Pattern, scrutType typesystem.Type) {
	switch pat := p.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern:
		// No bindings.
	case *ast.VariablePattern:
		a.Symbols.Declare(&symbols.Symbol{Name: pat.Name, SymKind: symbols.Variable, Type: scrutType})
	case *ast.ListPattern:
		elemType := typesystem.Type(typesystem.TUnknown)
		if lt, ok := scrutType.(typesystem.List); ok {
			elemType = lt.Element
		}
		for _, sub := range pat.Elements {
			a.bindMatchPattern(sub, elemType)
		}
	case *ast.ObjectMatchPattern:
		for _, entry := range pat.Entries {
			fieldType := typesystem.Type(typesystem.TUnknown)
			if ct, ok := scrutType.(typesystem.Class); ok {
				if prop, ok := (&ct).FindProperty(entry.Key); ok {
					fieldType = prop.Type
				}
			}
			a.bindMatchPattern(entry.Pattern, fieldType)
		}
	case *ast.OrPattern:
		// Bindings from successful sub-patterns are merged (spec §4.1);
		// since only one alternative actually matches at runtime, bind
		// each alternative's names against the same scrutinee type so
		// every name is in scope regardless of which arm matched.
		for _, alt := range pat.Alternatives {
			a.bindMatchPattern(alt, scrutType)
		}
	}
}
