// Bridges if-condition expressions to typesystem.NarrowingCondition
// (spec §4.5 "Flow-sensitive narrowing"). Grounded on the teacher's
// internal/analyzer/inference_control.go, which performs the same
// condition-shape recognition (identifier ==/!= null, typeof ==, &&/||)
// ahead of narrowing-scope pushes.
package analyzer

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// narrowingConditionOf recognizes the condition shapes spec §4.5 names:
// "x == null", "x != null", "typeof x == '...'", and logical
// conjunctions/disjunctions thereof. Anything else narrows nothing.
func (a *Analyzer) narrowingConditionOf(cond ast.Expression) *typesystem.NarrowingCondition {
	switch c := cond.(type) {
	case *ast.LogicalExpr:
		left := a.narrowingConditionOf(c.Left)
		right := a.narrowingConditionOf(c.Right)
		return &typesystem.NarrowingCondition{Op: c.Op, Left: left, Right: right}
	case *ast.BinaryExpr:
		if c.Op == "==" || c.Op == "!=" {
			if name, declared, ok := a.identifierAndType(c.Left); ok {
				if _, isNull := c.Right.(*ast.NullLiteral); isNull {
					op := "==null"
					if c.Op == "!=" {
						op = "!=null"
					}
					return &typesystem.NarrowingCondition{Op: op, Name: name, DeclaredType: declared}
				}
			}
			if name, declared, ok := a.identifierAndType(c.Right); ok {
				if _, isNull := c.Left.(*ast.NullLiteral); isNull {
					op := "==null"
					if c.Op == "!=" {
						op = "!=null"
					}
					return &typesystem.NarrowingCondition{Op: op, Name: name, DeclaredType: declared}
				}
			}
			if to, ok := c.Left.(*ast.TypeofExpr); ok && c.Op == "==" {
				if name, declared, ok := a.identifierAndType(to.Operand); ok {
					if lit, ok := c.Right.(*ast.StringLiteral); ok {
						return &typesystem.NarrowingCondition{
							Op: "typeof==", Name: name, DeclaredType: declared,
							TypeOfLiteral: lit.Value, TypeOfNameType: a.resolveTypeName(lit.Value),
						}
					}
				}
			}
		}
	}
	return nil
}

func (a *Analyzer) identifierAndType(x ast.Expression) (string, typesystem.Type, bool) {
	id, ok := x.(*ast.Identifier)
	if !ok {
		return "", nil, false
	}
	sym, ok := a.Symbols.Find(id.Value)
	if !ok {
		return "", nil, false
	}
	return id.Value, sym.Type, true
}
