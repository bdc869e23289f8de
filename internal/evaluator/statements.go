package evaluator

import (
	"fmt"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

// ExecStmt executes a single statement against env, implementing the
// per-node contracts of spec §4.1's "Statement contracts" table.
func (e *Evaluator) ExecStmt(stmt ast.Statement, env *runtime.Environment) (ExecResult, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return e.execVarDecl(s, env)
	case *ast.FnDecl:
		return e.execFnDecl(s, env)
	case *ast.ClassDecl:
		return e.execClassDecl(s, env)
	case *ast.Block:
		return e.execBlock(s, env)
	case *ast.If:
		return e.execIf(s, env)
	case *ast.While:
		return e.execWhile(s, env)
	case *ast.For:
		return e.execFor(s, env)
	case *ast.ForIn:
		return e.execForIn(s, env)
	case *ast.Return:
		return e.execReturn(s, env)
	case *ast.Break:
		return breakResult(), nil
	case *ast.Continue:
		return continueResult(), nil
	case *ast.Try:
		return e.execTry(s, env)
	case *ast.Throw:
		return e.execThrow(s, env)
	case *ast.Import:
		return e.execImport(s, env)
	case *ast.ExprStmt:
		v, err := e.Eval(s.Expr, env)
		if err != nil {
			return ExecResult{}, err
		}
		return valueResult(v), nil
	default:
		return ExecResult{}, e.err(stmt.GetToken().Position, "unsupported statement type %T", stmt)
	}
}

// execVarDecl: "Evaluate initializer (if any, else Null); bind via
// pattern. Constants without initializers are rejected at analysis."
func (e *Evaluator) execVarDecl(s *ast.VarDecl, env *runtime.Environment) (ExecResult, error) {
	var val runtime.Value = runtime.Null
	if s.Init != nil {
		v, err := e.Eval(s.Init, env)
		if err != nil {
			return ExecResult{}, err
		}
		val = v
	}
	if err := e.bindPattern(s.Pattern, val, env, s.IsConstant); err != nil {
		return ExecResult{}, e.err(s.Token.Position, "%s", err.Error())
	}
	return valueResult(val), nil
}

// bindPattern declares name(s) from a ParamPattern against val, handling
// plain identifiers and array/object destructuring with a single
// trailing rest element (spec §6.1).
func (e *Evaluator) bindPattern(p ast.ParamPattern, val runtime.Value, env *runtime.Environment, isConstant bool) error {
	switch pat := p.(type) {
	case *ast.Identifier:
		return env.Declare(pat.Value, val, isConstant)
	case *ast.ArrayPattern:
		list, ok := val.(*runtime.List)
		if !ok {
			return fmt.Errorf("cannot destructure non-list value")
		}
		elems := list.Get()
		for i, sub := range pat.Elements {
			var ev runtime.Value = runtime.Null
			if i < len(elems) {
				ev = elems[i]
			}
			if err := e.bindPattern(sub, ev, env, isConstant); err != nil {
				return err
			}
		}
		if pat.Rest != nil {
			rest := []runtime.Value{}
			if len(elems) > len(pat.Elements) {
				rest = append(rest, elems[len(pat.Elements):]...)
			}
			if err := env.Declare(pat.Rest.Value, runtime.NewList(rest, list.ElementType), isConstant); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		used := map[string]bool{}
		for _, f := range pat.Fields {
			var fv runtime.Value = runtime.Null
			if ok, v := e.lookupObjectField(val, f.Key); ok {
				fv = v
			}
			used[f.Key] = true
			target := f.Value
			if target == nil {
				target = &ast.Identifier{Value: f.Key}
			}
			if err := e.bindPattern(target, fv, env, isConstant); err != nil {
				return err
			}
		}
		if pat.Rest != nil {
			restObj := runtime.NewObject()
			if obj, ok := val.(*runtime.Object); ok {
				for k, v := range obj.Properties {
					if !used[k] {
						restObj.Properties[k] = v
					}
				}
			} else if ci, ok := val.(*runtime.ClassInstance); ok {
				for k, v := range ci.Properties() {
					if !used[k] {
						restObj.Properties[k] = v
					}
				}
			}
			if err := env.Declare(pat.Rest.Value, restObj, isConstant); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported binding pattern %T", p)
	}
}

func (e *Evaluator) lookupObjectField(val runtime.Value, key string) (bool, runtime.Value) {
	switch v := val.(type) {
	case *runtime.Object:
		fv, ok := v.Properties[key]
		return ok, fv
	case *runtime.ClassInstance:
		fv, ok := v.GetProperty(key)
		return ok, fv
	case *runtime.Map:
		fv, ok := v.Get(key)
		return ok, fv
	}
	return false, nil
}

// execFnDecl: "Construct a Function value over body+params+fn_type;
// declare under name." Decorators wrap the resulting value before
// binding (SPEC_FULL §4.8).
func (e *Evaluator) execFnDecl(s *ast.FnDecl, env *runtime.Environment) (ExecResult, error) {
	fn := &runtime.Function{
		Params:  paramsToIface(s.Params),
		Body:    s.Body,
		IsAsync: s.IsAsync,
		Name:    s.Name,
		Closure: env,
	}
	decorated, err := e.applyDecorators(s.Decorators, fn, env)
	if err != nil {
		return ExecResult{}, err
	}
	if err := env.Declare(s.Name, decorated, false); err != nil {
		return ExecResult{}, e.err(s.Token.Position, "%s", err.Error())
	}
	return valueResult(decorated), nil
}

func paramsToIface(params []*ast.Param) []interface{} {
	out := make([]interface{}, len(params))
	for i, p := range params {
		out[i] = p
	}
	return out
}

// execBlock: "Push scope, execute statements, propagate the first
// non-Value outcome, pop scope on all exits" (spec §4.1, and the
// testable invariant in spec §8 #1 that scope depth is restored on
// every exit path, success or failure).
func (e *Evaluator) execBlock(s *ast.Block, env *runtime.Environment) (ExecResult, error) {
	inner := env.PushScope()
	for _, stmt := range s.Stmts {
		res, err := e.ExecStmt(stmt, inner)
		if err != nil {
			return ExecResult{}, err
		}
		if res.Kind != CtrlValue {
			return res, nil
		}
	}
	return valueResult(runtime.Null), nil
}

func (e *Evaluator) execIf(s *ast.If, env *runtime.Environment) (ExecResult, error) {
	cond, err := e.Eval(s.Condition, env)
	if err != nil {
		return ExecResult{}, err
	}
	if runtime.IsTruthy(cond) {
		return e.ExecStmt(s.Then, env)
	}
	if s.Else != nil {
		return e.ExecStmt(s.Else, env)
	}
	return valueResult(runtime.Null), nil
}

func (e *Evaluator) execWhile(s *ast.While, env *runtime.Environment) (ExecResult, error) {
	for {
		cond, err := e.Eval(s.Condition, env)
		if err != nil {
			return ExecResult{}, err
		}
		if !runtime.IsTruthy(cond) {
			return valueResult(runtime.Null), nil
		}
		res, err := e.ExecStmt(s.Body, env)
		if err != nil {
			return ExecResult{}, err
		}
		switch res.Kind {
		case CtrlBreak:
			return valueResult(runtime.Null), nil
		case CtrlReturn:
			return res, nil
		}
	}
}

func (e *Evaluator) execFor(s *ast.For, env *runtime.Environment) (ExecResult, error) {
	inner := env.PushScope()
	if s.Init != nil {
		if _, err := e.ExecStmt(s.Init, inner); err != nil {
			return ExecResult{}, err
		}
	}
	for {
		if s.Condition != nil {
			cond, err := e.Eval(s.Condition, inner)
			if err != nil {
				return ExecResult{}, err
			}
			if !runtime.IsTruthy(cond) {
				return valueResult(runtime.Null), nil
			}
		}
		res, err := e.ExecStmt(s.Body, inner)
		if err != nil {
			return ExecResult{}, err
		}
		switch res.Kind {
		case CtrlBreak:
			return valueResult(runtime.Null), nil
		case CtrlReturn:
			return res, nil
		}
		// Continue still runs the increment (spec §4.1 "For").
		if s.Update != nil {
			if _, err := e.Eval(s.Update, inner); err != nil {
				return ExecResult{}, err
			}
		}
	}
}

// execForIn evaluates the iterable, which must be a list or a string
// (a string yields one single-character string per rune), and iterates
// it by index, assigning each item to the one loop-variable binding.
func (e *Evaluator) execForIn(s *ast.ForIn, env *runtime.Environment) (ExecResult, error) {
	iterVal, err := e.Eval(s.Iterable, env)
	if err != nil {
		return ExecResult{}, err
	}
	var items []runtime.Value
	switch it := iterVal.(type) {
	case *runtime.List:
		items = it.Get()
	case runtime.Str:
		for _, r := range string(it) {
			items = append(items, runtime.Str(string(r)))
		}
	default:
		return ExecResult{}, e.err(s.Token.Position, "for-in requires a list or string, got %s", runtime.TypeOfName(iterVal))
	}
	inner := env.PushScope()
	inner.Declare(s.LoopVar, runtime.Null, s.IsConstant)
	for _, item := range items {
		inner.Assign(s.LoopVar, item) // reuse binding, spec §4.1
		res, err := e.ExecStmt(s.Body, inner)
		if err != nil {
			return ExecResult{}, err
		}
		switch res.Kind {
		case CtrlBreak:
			return valueResult(runtime.Null), nil
		case CtrlReturn:
			return res, nil
		}
	}
	return valueResult(runtime.Null), nil
}

func (e *Evaluator) execReturn(s *ast.Return, env *runtime.Environment) (ExecResult, error) {
	if s.Value == nil {
		return returnResult(runtime.Null), nil
	}
	v, err := e.Eval(s.Value, env)
	if err != nil {
		return ExecResult{}, err
	}
	return returnResult(v), nil
}

// execTry: "Run try-block; on error, select the first catch clause, bind
// the error message as a string into a fresh scope, run catch-body; a
// finally block always runs last. Errors inside catch/finally
// propagate."
func (e *Evaluator) execTry(s *ast.Try, env *runtime.Environment) (ExecResult, error) {
	res, tryErr := e.ExecStmt(s.Body, env)
	if tryErr != nil && len(s.Catches) > 0 {
		catch := s.Catches[0]
		inner := env.PushScope()
		inner.Declare(catch.ParamName, runtime.Str(tryErr.Error()), false)
		catchRes, catchErr := e.ExecStmt(catch.Body, inner)
		res, tryErr = catchRes, catchErr
	}
	if s.Finally != nil {
		finallyRes, finallyErr := e.ExecStmt(s.Finally, env)
		if finallyErr != nil {
			// "its own errors supersede prior errors" (spec §7).
			return ExecResult{}, finallyErr
		}
		if finallyRes.Kind != CtrlValue {
			return finallyRes, nil
		}
	}
	if tryErr != nil {
		return ExecResult{}, tryErr
	}
	return res, nil
}

func (e *Evaluator) execThrow(s *ast.Throw, env *runtime.Environment) (ExecResult, error) {
	v, err := e.Eval(s.Value, env)
	if err != nil {
		return ExecResult{}, err
	}
	return ExecResult{}, e.err(s.Token.Position, "%s", runtime.ToString(v))
}
