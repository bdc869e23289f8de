// Call/new/member/index/method-call semantics (spec §4.1 "Call",
// "Member access", "Index", "Method call routes", "New"). Grounded on
// the teacher's internal/evaluator/expressions_call.go parameter-binding
// shape (positional + defaults + rest), generalized to add named
// arguments and class/method dispatch.
package evaluator

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/token"
)

func (e *Evaluator) evalCallExpr(x *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	if _, ok := x.Callee.(*ast.SuperExpr); ok {
		return e.evalSuperCall(x, env)
	}
	callee, err := e.Eval(x.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(x.Args, x.NamedArgs, callee, env)
	if err != nil {
		return nil, err
	}
	return e.callValue(callee, args, nil, x.Token.Position)
}

// evalSuperCall: "super(args) runs the superclass constructor against
// the current `this`, top-level `this.prop = expr` writes inside it
// apply directly to the (single, shared) instance" (spec §4.1 "New").
func (e *Evaluator) evalSuperCall(x *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	thisV, ok := env.Get("this")
	if !ok {
		return nil, e.err(x.Token.Position, "'super' used outside a constructor")
	}
	ci, ok := thisV.(*runtime.ClassInstance)
	if !ok {
		return nil, e.err(x.Token.Position, "'super' used outside a class")
	}
	superCtor, ok := env.Get("__super_ctor__")
	if !ok || superCtor == nil {
		return nil, e.err(x.Token.Position, "class has no superclass constructor")
	}
	fn, ok := superCtor.(*runtime.Function)
	if !ok {
		return nil, e.err(x.Token.Position, "superclass has no constructor")
	}
	args, err := e.evalArgs(x.Args, x.NamedArgs, fn, env)
	if err != nil {
		return nil, err
	}
	_, err = e.callValue(fn, args, ci, x.Token.Position)
	return runtime.Null, err
}

// evalArgs resolves positional + named arguments against the callee's
// declared parameters (when known), filling defaults and a trailing rest
// collector (spec §4.1 "Call: positional, named, default, optional, and
// rest parameters").
func (e *Evaluator) evalArgs(argExprs []ast.Expression, named []ast.NamedArg, callee runtime.Value, env *runtime.Environment) ([]runtime.Value, error) {
	positional := make([]runtime.Value, 0, len(argExprs))
	for _, a := range argExprs {
		v, err := e.Eval(a, env)
		if err != nil {
			return nil, err
		}
		positional = append(positional, v)
	}
	if len(named) == 0 {
		return positional, nil
	}
	fn, ok := callee.(*runtime.Function)
	if !ok {
		return positional, nil
	}
	params := fn.Params
	result := append([]runtime.Value(nil), positional...)
	for len(result) < len(params) {
		result = append(result, nil)
	}
	for _, na := range named {
		v, err := e.Eval(na.Value, env)
		if err != nil {
			return nil, err
		}
		for i, pi := range params {
			p, ok := pi.(*ast.Param)
			if !ok {
				continue
			}
			if ident, ok := p.Pattern.(*ast.Identifier); ok && ident.Value == na.Name {
				result[i] = v
				break
			}
		}
	}
	return result, nil
}

// callValue invokes fn with args, binding `this` (when non-nil) plus
// params via bindPattern with defaults applied for missing/optional
// args and a trailing rest param collecting overflow (spec §6.1 "Param").
func (e *Evaluator) callValue(fn runtime.Value, args []runtime.Value, this *runtime.ClassInstance, pos token.Position) (runtime.Value, error) {
	switch f := fn.(type) {
	case *runtime.NativeFunction:
		return f.Impl(args)
	case *runtime.NativeAsyncFunction:
		return e.callAsync(func() (runtime.Value, error) { return f.Impl(args) })
	case *runtime.BoundMethod:
		return e.callValue(f.Method, args, bindThis(f.Receiver), pos)
	case *runtime.Function:
		return e.callFunction(f, args, this, pos)
	default:
		return nil, e.err(pos, "value of type %s is not callable", runtime.TypeOfName(fn))
	}
}

func bindThis(v runtime.Value) *runtime.ClassInstance {
	if ci, ok := v.(*runtime.ClassInstance); ok {
		return ci
	}
	return nil
}

func (e *Evaluator) callFunction(fn *runtime.Function, args []runtime.Value, this *runtime.ClassInstance, pos token.Position) (runtime.Value, error) {
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	if err := e.pushCall(name, pos); err != nil {
		e.popCall()
		return nil, err
	}
	defer e.popCall()

	callEnv := fn.Closure.PushScope()
	if this != nil {
		callEnv.Declare("this", this, false)
	}
	if err := e.bindParams(fn.Params, args, callEnv); err != nil {
		return nil, e.err(pos, "%s", err.Error())
	}

	if fn.IsAsync {
		// Snapshot the scope chain before spawning (spec §4.2 steps 2/4):
		// the spawned task runs against its own clone so writes it makes to
		// closed-over outer bindings never become visible to the caller or
		// to a concurrent invocation sharing the same closure chain.
		snapshot := callEnv.Clone()
		return e.callAsync(func() (runtime.Value, error) {
			return e.runFunctionBody(fn, snapshot)
		})
	}
	return e.runFunctionBody(fn, callEnv)
}

func (e *Evaluator) runFunctionBody(fn *runtime.Function, callEnv *runtime.Environment) (runtime.Value, error) {
	switch body := fn.Body.(type) {
	case *ast.Block:
		res, err := e.execBlock(body, callEnv)
		if err != nil {
			return nil, err
		}
		if res.Kind == CtrlReturn {
			return res.Value, nil
		}
		return runtime.Null, nil
	case ast.Expression:
		return e.Eval(body, callEnv)
	default:
		return nil, e.err(token.Position{}, "function %q has no body", fn.Name)
	}
}

// callAsync runs body on the scheduler and returns the resulting Future
// immediately (spec §4.2 "calling an async function returns a Future
// that settles once its body completes").
func (e *Evaluator) callAsync(body func() (runtime.Value, error)) (runtime.Value, error) {
	fut := runtime.NewFuture(nil)
	e.Scheduler.SpawnLocal(func() {
		v, err := body()
		if err != nil {
			fut.Reject(err.Error())
			return
		}
		fut.Resolve(v)
	})
	return fut, nil
}

// bindParams binds positional args to fn's params, applying defaults for
// missing optional params and collecting a trailing rest param.
func (e *Evaluator) bindParams(params []interface{}, args []runtime.Value, env *runtime.Environment) error {
	for i, pi := range params {
		p, ok := pi.(*ast.Param)
		if !ok {
			continue
		}
		if p.IsRest {
			rest := []runtime.Value{}
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			return e.bindPattern(p.Pattern, runtime.NewList(rest, nil), env, false)
		}
		var v runtime.Value
		if i < len(args) && args[i] != nil {
			v = args[i]
		} else if p.DefaultValue != nil {
			dv, err := e.Eval(p.DefaultValue, env)
			if err != nil {
				return err
			}
			v = dv
		} else {
			v = runtime.Null
		}
		if err := e.bindPattern(p.Pattern, v, env, false); err != nil {
			return err
		}
	}
	return nil
}
