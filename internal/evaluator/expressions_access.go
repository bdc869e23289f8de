// Member/index/method-call access (spec §4.1 "Member access", "Index",
// "Method call routes"). Grounded on the teacher's internal/evaluator/
// expressions_member.go per-receiver-kind dispatch.
package evaluator

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

// evalMemberExpr returns (value, receiverWasNull, err); receiverWasNull
// reports that an optional `?.` access met a null receiver and yielded
// null instead of failing.
func (e *Evaluator) evalMemberExpr(x *ast.MemberExpr, env *runtime.Environment) (runtime.Value, bool, error) {
	recv, err := e.Eval(x.Object, env)
	if err != nil {
		return nil, false, err
	}
	if runtime.IsNull(recv) {
		if x.Optional {
			return runtime.Null, true, nil
		}
		return nil, false, e.err(x.Token.Position, "cannot read property %q of null", x.Property)
	}
	switch r := recv.(type) {
	case *runtime.ClassInstance:
		if acc, ok := r.Accessors[x.Property]; ok && acc.Getter != nil {
			v, err := e.callValue(acc.Getter, nil, r, x.Token.Position)
			return v, false, err
		}
		if v, ok := r.GetProperty(x.Property); ok {
			return v, false, nil
		}
		if m, ok := r.Methods[x.Property]; ok {
			return &runtime.BoundMethod{Receiver: r, Method: m}, false, nil
		}
		return nil, false, e.err(x.Token.Position, "no property or method %q on %s", x.Property, r.Name)
	case *runtime.Object:
		if v, ok := r.Properties[x.Property]; ok {
			return v, false, nil
		}
		return runtime.Null, false, nil
	case *runtime.Class:
		if v, ok := r.StaticProperties[x.Property]; ok {
			return v, false, nil
		}
		if m, ok := r.StaticMethods[x.Property]; ok {
			return m, false, nil
		}
		return nil, false, e.err(x.Token.Position, "no static member %q on class %s", x.Property, r.Name)
	case *runtime.EnumObject:
		if v, ok := r.Members[x.Property]; ok {
			return v, false, nil
		}
		return nil, false, e.err(x.Token.Position, "no variant %q on enum %s", x.Property, r.Name)
	case *runtime.Map:
		v, err := e.mapBuiltinMember(r, x.Property, x.Token.Position)
		return v, false, err
	case *runtime.List:
		v, err := e.listBuiltinMember(r, x.Property, x.Token.Position)
		return v, false, err
	case runtime.Str:
		v, err := e.strBuiltinMember(r, x.Property, x.Token.Position)
		return v, false, err
	case *runtime.PrimitiveTypeObject:
		if v, ok := r.StaticProperties[x.Property]; ok {
			return v, false, nil
		}
		if m, ok := r.StaticMethods[x.Property]; ok {
			return m, false, nil
		}
		return nil, false, e.err(x.Token.Position, "no static member %q on %s", x.Property, r.Name)
	default:
		return nil, false, e.err(x.Token.Position, "cannot read property %q of %s", x.Property, runtime.TypeOfName(recv))
	}
}

// evalIndexExpr: "Index on list (int key), map (string key): out-of-
// range list index and missing map key both raise" (spec §4.1 "Index"),
// except map read of a missing key yields Null rather than raising,
// matching typical map-index ergonomics used by the spec's example
// programs.
func (e *Evaluator) evalIndexExpr(x *ast.IndexExpr, env *runtime.Environment) (runtime.Value, error) {
	recv, err := e.Eval(x.Object, env)
	if err != nil {
		return nil, err
	}
	idx, err := e.Eval(x.Index, env)
	if err != nil {
		return nil, err
	}
	switch r := recv.(type) {
	case *runtime.List:
		i, ok := idx.(runtime.Int)
		if !ok {
			return nil, e.err(x.Token.Position, "list index must be int, got %s", runtime.TypeOfName(idx))
		}
		elems := r.Get()
		if int(i) < 0 || int(i) >= len(elems) {
			return nil, e.err(x.Token.Position, "list index out of range: %d", i)
		}
		return elems[i], nil
	case *runtime.Map:
		k, ok := idx.(runtime.Str)
		if !ok {
			return nil, e.err(x.Token.Position, "map index must be str, got %s", runtime.TypeOfName(idx))
		}
		v, ok := r.Get(string(k))
		if !ok {
			return runtime.Null, nil
		}
		return v, nil
	case runtime.Str:
		i, ok := idx.(runtime.Int)
		if !ok {
			return nil, e.err(x.Token.Position, "string index must be int")
		}
		runes := []rune(string(r))
		if int(i) < 0 || int(i) >= len(runes) {
			return nil, e.err(x.Token.Position, "string index out of range: %d", i)
		}
		return runtime.Str(string(runes[i])), nil
	default:
		return nil, e.err(x.Token.Position, "cannot index %s", runtime.TypeOfName(recv))
	}
}

// evalMethodCallExpr routes a `Receiver.Method(args)` call to the
// receiver-kind-specific implementation (spec §4.1 "Method call
// routes"): user-defined instance methods first, then the builtin
// per-kind method tables.
func (e *Evaluator) evalMethodCallExpr(x *ast.MethodCallExpr, env *runtime.Environment) (runtime.Value, error) {
	recv, err := e.Eval(x.Receiver, env)
	if err != nil {
		return nil, err
	}
	if runtime.IsNull(recv) {
		if x.Optional {
			return runtime.Null, nil
		}
		return nil, e.err(x.Token.Position, "cannot call method %q on null", x.Method)
	}
	if ci, ok := recv.(*runtime.ClassInstance); ok {
		if m, ok := ci.Methods[x.Method]; ok {
			args, err := e.evalArgs(x.Args, x.NamedArgs, m, env)
			if err != nil {
				return nil, err
			}
			return e.callValue(m, args, ci, x.Token.Position)
		}
	}
	if cls, ok := recv.(*runtime.Class); ok {
		if m, ok := cls.StaticMethods[x.Method]; ok {
			args, err := e.evalArgs(x.Args, x.NamedArgs, m, env)
			if err != nil {
				return nil, err
			}
			return e.callValue(m, args, nil, x.Token.Position)
		}
	}
	args := make([]runtime.Value, 0, len(x.Args))
	for _, a := range x.Args {
		v, err := e.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return e.builtinMethodCall(recv, x.Method, args, env, x.Token.Position)
}

func (e *Evaluator) evalArrowFunctionExpr(x *ast.ArrowFunctionExpr, env *runtime.Environment) runtime.Value {
	var body interface{}
	if x.BlockBody != nil {
		body = x.BlockBody
	} else {
		body = x.ExprBody
	}
	return &runtime.Function{
		Params:  paramsToIface(x.Params),
		Body:    body,
		IsAsync: x.IsAsync,
		Closure: env,
	}
}

// evalAwaitExpr: "await blocks the calling goroutine until the future is
// terminal; a rejected future raises" (spec §4.2).
func (e *Evaluator) evalAwaitExpr(x *ast.AwaitExpr, env *runtime.Environment) (runtime.Value, error) {
	v, err := e.Eval(x.Operand, env)
	if err != nil {
		return nil, err
	}
	fut, ok := v.(*runtime.Future)
	if !ok {
		return nil, e.err(x.Token.Position, "await requires a future, got %s", runtime.TypeOfName(v))
	}
	val, resolved, reason := fut.Await()
	if !resolved {
		return nil, e.err(x.Token.Position, "%s", reason)
	}
	return val, nil
}
