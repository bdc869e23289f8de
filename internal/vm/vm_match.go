package vm

import (
	"math"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/config"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

// matchPattern is the register-VM's structural matcher, kept semantically
// identical to the tree-walker's internal/evaluator/match.go matchPattern
// over runtime.Value rather than ast-evaluated intermediate results.
func matchPattern(p ast.Pattern, v runtime.Value) (map[string]runtime.Value, bool) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return map[string]runtime.Value{}, true
	case *ast.VariablePattern:
		return map[string]runtime.Value{pat.Name: v}, true
	case *ast.LiteralPattern:
		return map[string]runtime.Value{}, matchLiteral(pat, v)
	case *ast.ListPattern:
		list, ok := v.(*runtime.List)
		if !ok {
			return nil, false
		}
		elems := list.Get()
		if len(elems) != len(pat.Elements) {
			return nil, false
		}
		out := map[string]runtime.Value{}
		for i, sub := range pat.Elements {
			bindings, ok := matchPattern(sub, elems[i])
			if !ok {
				return nil, false
			}
			mergeBindings(out, bindings)
		}
		return out, true
	case *ast.ObjectMatchPattern:
		out := map[string]runtime.Value{}
		for _, entry := range pat.Entries {
			var field runtime.Value
			var ok bool
			switch obj := v.(type) {
			case *runtime.ClassInstance:
				field, ok = obj.GetProperty(entry.Key)
			case *runtime.Object:
				field, ok = obj.Properties[entry.Key]
			case *runtime.Map:
				field, ok = obj.Get(entry.Key)
			}
			if !ok {
				return nil, false
			}
			bindings, matched := matchPattern(entry.Pattern, field)
			if !matched {
				return nil, false
			}
			mergeBindings(out, bindings)
		}
		return out, true
	case *ast.OrPattern:
		for _, alt := range pat.Alternatives {
			if bindings, ok := matchPattern(alt, v); ok {
				return bindings, true
			}
		}
		return nil, false
	}
	return nil, false
}

func mergeBindings(dst, src map[string]runtime.Value) {
	for k, v := range src {
		dst[k] = v
	}
}

func matchLiteral(pat *ast.LiteralPattern, v runtime.Value) bool {
	switch pat.LitKind {
	case ast.LitInt:
		i, ok := v.(runtime.Int)
		return ok && int64(i) == pat.IntVal
	case ast.LitFloat:
		f, ok := v.(runtime.Float)
		return ok && math.Abs(float64(f)-pat.FloatVal) < config.EpsilonFloat
	case ast.LitStr:
		s, ok := v.(runtime.Str)
		return ok && string(s) == pat.StrVal
	case ast.LitBool:
		b, ok := v.(runtime.Bool)
		return ok && bool(b) == pat.BoolVal
	case ast.LitNull:
		return runtime.IsNull(v)
	}
	return false
}
