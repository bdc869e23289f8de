// Pattern matching for match expressions (spec §4.1 "Pattern matching",
// §9 open question #4: guards are evaluated after a structural match
// succeeds and, if falsy, matching continues to the next arm rather than
// raising - the redesigned behavior per REDESIGN FLAGS). Grounded on the
// teacher's internal/evaluator/pattern_match.go recursive-descent
// matcher shape.
package evaluator

import (
	"math"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/config"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

func (e *Evaluator) evalMatchExpr(x *ast.MatchExpr, env *runtime.Environment) (runtime.Value, error) {
	scrutinee, err := e.Eval(x.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range x.Arms {
		inner := env.PushScope()
		if !e.matchPattern(arm.Pattern, scrutinee, inner) {
			continue
		}
		if arm.Guard != nil {
			g, err := e.Eval(arm.Guard, inner)
			if err != nil {
				return nil, err
			}
			if !runtime.IsTruthy(g) {
				continue
			}
		}
		return e.Eval(arm.Body, inner)
	}
	return nil, e.err(x.Token.Position, "no match arm matched the value")
}

// matchPattern reports whether pat matches val, declaring any bindings
// introduced by the pattern into env as it goes.
func (e *Evaluator) matchPattern(pat ast.Pattern, val runtime.Value, env *runtime.Environment) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.VariablePattern:
		env.Declare(p.Name, val, false)
		return true
	case *ast.LiteralPattern:
		return matchLiteral(p, val)
	case *ast.ListPattern:
		list, ok := val.(*runtime.List)
		if !ok {
			return false
		}
		elems := list.Get()
		if len(elems) != len(p.Elements) {
			return false
		}
		for i, sub := range p.Elements {
			if !e.matchPattern(sub, elems[i], env) {
				return false
			}
		}
		return true
	case *ast.ObjectMatchPattern:
		for _, entry := range p.Entries {
			ok, fv := e.lookupObjectField(val, entry.Key)
			if !ok {
				return false
			}
			if !e.matchPattern(entry.Pattern, fv, env) {
				return false
			}
		}
		return true
	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			if e.matchPattern(alt, val, env) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchLiteral(p *ast.LiteralPattern, val runtime.Value) bool {
	switch p.LitKind {
	case ast.LitInt:
		n, ok := val.(runtime.Int)
		return ok && int64(n) == p.IntVal
	case ast.LitFloat:
		f, ok := val.(runtime.Float)
		return ok && math.Abs(float64(f)-p.FloatVal) < config.EpsilonFloat
	case ast.LitStr:
		s, ok := val.(runtime.Str)
		return ok && string(s) == p.StrVal
	case ast.LitBool:
		b, ok := val.(runtime.Bool)
		return ok && bool(b) == p.BoolVal
	case ast.LitNull:
		return runtime.IsNull(val)
	default:
		return false
	}
}
