// Expression evaluation (spec §4.1 "Expression contracts"). Grounded on
// the teacher's internal/evaluator/expressions_core.go dispatch shape,
// generalized to this spec's expression node set.
package evaluator

import (
	"strings"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// Eval evaluates expr against env and returns its value.
func (e *Evaluator) Eval(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch x := expr.(type) {
	case *ast.Identifier:
		v, ok := env.Get(x.Value)
		if !ok {
			return nil, e.err(x.Token.Position, "undefined variable %q", x.Value)
		}
		return v, nil
	case *ast.IntLiteral:
		return runtime.Int(x.Value), nil
	case *ast.BigIntLiteral:
		return runtime.BigInt{V: x.Value}, nil
	case *ast.FloatLiteral:
		return runtime.Float(x.Value), nil
	case *ast.StringLiteral:
		return runtime.Str(x.Value), nil
	case *ast.BoolLiteral:
		return runtime.Bool(x.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.ListLiteral:
		return e.evalListLiteral(x, env)
	case *ast.MapLiteral:
		return e.evalMapLiteral(x, env)
	case *ast.BinaryExpr:
		return e.evalBinaryExpr(x, env)
	case *ast.LogicalExpr:
		return e.evalLogicalExpr(x, env)
	case *ast.UnaryExpr:
		operand, err := e.Eval(x.Operand, env)
		if err != nil {
			return nil, err
		}
		return e.applyUnaryOp(x.Op, operand, x.Token.Position)
	case *ast.AssignExpr:
		return e.evalAssignExpr(x, env)
	case *ast.ThisExpr:
		v, ok := env.Get("this")
		if !ok {
			return nil, e.err(x.Token.Position, "'this' used outside a method")
		}
		return v, nil
	case *ast.CallExpr:
		return e.evalCallExpr(x, env)
	case *ast.MemberExpr:
		v, _, err := e.evalMemberExpr(x, env)
		return v, err
	case *ast.IndexExpr:
		return e.evalIndexExpr(x, env)
	case *ast.MethodCallExpr:
		return e.evalMethodCallExpr(x, env)
	case *ast.NullAssertExpr:
		v, err := e.Eval(x.Operand, env)
		if err != nil {
			return nil, err
		}
		if runtime.IsNull(v) {
			return nil, e.err(x.Token.Position, "null assertion failed")
		}
		return v, nil
	case *ast.NullCoalesceExpr:
		left, err := e.Eval(x.Left, env)
		if err != nil {
			return nil, err
		}
		if !runtime.IsNull(left) {
			return left, nil
		}
		return e.Eval(x.Right, env)
	case *ast.RangeExpr:
		return e.evalRangeExpr(x, env)
	case *ast.TypeofExpr:
		v, err := e.Eval(x.Operand, env)
		if err != nil {
			return nil, err
		}
		return runtime.Str(runtime.TypeOfName(v)), nil
	case *ast.InstanceofExpr:
		return e.evalInstanceofExpr(x, env)
	case *ast.TemplateStringExpr:
		return e.evalTemplateStringExpr(x, env)
	case *ast.TaggedTemplateExpr:
		return e.evalTaggedTemplateExpr(x, env)
	case *ast.MatchExpr:
		return e.evalMatchExpr(x, env)
	case *ast.ArrowFunctionExpr:
		return e.evalArrowFunctionExpr(x, env), nil
	case *ast.NewExpr:
		return e.evalNewExpr(x, env)
	case *ast.ClassExpr:
		return e.evalClassExpr(x, env)
	case *ast.AwaitExpr:
		return e.evalAwaitExpr(x, env)
	default:
		return nil, e.err(expr.GetToken().Position, "unsupported expression type %T", expr)
	}
}

func (e *Evaluator) evalListLiteral(x *ast.ListLiteral, env *runtime.Environment) (runtime.Value, error) {
	elems := make([]runtime.Value, 0, len(x.Elements))
	for _, el := range x.Elements {
		v, err := e.Eval(el, env)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return runtime.NewList(elems, nil), nil
}

func (e *Evaluator) evalMapLiteral(x *ast.MapLiteral, env *runtime.Environment) (runtime.Value, error) {
	m := runtime.NewMap(nil, nil)
	for _, entry := range x.Entries {
		kv, err := e.Eval(entry.Key, env)
		if err != nil {
			return nil, err
		}
		ks, ok := kv.(runtime.Str)
		if !ok {
			return nil, e.err(x.Token.Position, "map keys must be strings, got %s", runtime.TypeOfName(kv))
		}
		vv, err := e.Eval(entry.Value, env)
		if err != nil {
			return nil, err
		}
		m.Set(string(ks), vv)
	}
	return m, nil
}

func (e *Evaluator) evalBinaryExpr(x *ast.BinaryExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := e.Eval(x.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(x.Right, env)
	if err != nil {
		return nil, err
	}
	return e.applyBinaryOp(x.Op, left, right, x.Token.Position)
}

// evalLogicalExpr: "&&/|| short-circuit and return the unwrapped operand"
// (spec §4.3), not a coerced boolean.
func (e *Evaluator) evalLogicalExpr(x *ast.LogicalExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := e.Eval(x.Left, env)
	if err != nil {
		return nil, err
	}
	if x.Op == "&&" {
		if !runtime.IsTruthy(left) {
			return left, nil
		}
		return e.Eval(x.Right, env)
	}
	if runtime.IsTruthy(left) {
		return left, nil
	}
	return e.Eval(x.Right, env)
}

func (e *Evaluator) evalRangeExpr(x *ast.RangeExpr, env *runtime.Environment) (runtime.Value, error) {
	fromV, err := e.Eval(x.From, env)
	if err != nil {
		return nil, err
	}
	toV, err := e.Eval(x.To, env)
	if err != nil {
		return nil, err
	}
	from, ok := fromV.(runtime.Int)
	if !ok {
		return nil, e.err(x.Token.Position, "range bounds must be int")
	}
	to, ok := toV.(runtime.Int)
	if !ok {
		return nil, e.err(x.Token.Position, "range bounds must be int")
	}
	elems := []runtime.Value{}
	if from <= to {
		for i := from; i <= to; i++ {
			elems = append(elems, i)
		}
	}
	return runtime.NewList(elems, nil), nil
}

func (e *Evaluator) evalInstanceofExpr(x *ast.InstanceofExpr, env *runtime.Environment) (runtime.Value, error) {
	v, err := e.Eval(x.Operand, env)
	if err != nil {
		return nil, err
	}
	// "instanceof checks the runtime class name directly; it does not
	// walk the superclass chain" (spec §9 open question #1, resolved).
	ci, ok := v.(*runtime.ClassInstance)
	if !ok {
		return runtime.Bool(false), nil
	}
	return runtime.Bool(ci.Name == x.TypeName), nil
}

func (e *Evaluator) evalTemplateStringExpr(x *ast.TemplateStringExpr, env *runtime.Environment) (runtime.Value, error) {
	var sb strings.Builder
	for _, part := range x.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Literal)
			continue
		}
		v, err := e.Eval(part.Expr, env)
		if err != nil {
			return nil, err
		}
		sb.WriteString(runtime.ToString(v))
	}
	return runtime.Str(sb.String()), nil
}

// evalTaggedTemplateExpr: "builds a raw-strings list + a values list and
// invokes Tag(strings, ...values)" (spec §4.1).
func (e *Evaluator) evalTaggedTemplateExpr(x *ast.TaggedTemplateExpr, env *runtime.Environment) (runtime.Value, error) {
	tag, err := e.Eval(x.Tag, env)
	if err != nil {
		return nil, err
	}
	raws := make([]runtime.Value, len(x.Raw))
	for i, r := range x.Raw {
		raws[i] = runtime.Str(r)
	}
	args := []runtime.Value{runtime.NewList(raws, typesystem.TStr)}
	for _, ve := range x.Values {
		v, err := e.Eval(ve, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return e.callValue(tag, args, nil, x.Token.Position)
}
