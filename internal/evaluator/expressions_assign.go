package evaluator

import (
	"strings"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

// evalAssignExpr handles plain `=` and compound ops (desugared to
// `target = target OP value` before dispatch, spec §4.1 "Assign").
func (e *Evaluator) evalAssignExpr(x *ast.AssignExpr, env *runtime.Environment) (runtime.Value, error) {
	rhs, err := e.Eval(x.Value, env)
	if err != nil {
		return nil, err
	}
	if x.Op != "=" {
		cur, err := e.Eval(x.Target, env)
		if err != nil {
			return nil, err
		}
		op := strings.TrimSuffix(x.Op, "=")
		rhs, err = e.applyBinaryOp(op, cur, rhs, x.Token.Position)
		if err != nil {
			return nil, err
		}
	}
	switch target := x.Target.(type) {
	case *ast.Identifier:
		if err := env.Assign(target.Value, rhs); err != nil {
			return nil, e.err(x.Token.Position, "%s", err.Error())
		}
		return rhs, nil
	case *ast.MemberExpr:
		return e.assignMember(target, rhs, env)
	case *ast.IndexExpr:
		return e.assignIndex(target, rhs, env)
	default:
		return nil, e.err(x.Token.Position, "invalid assignment target %T", x.Target)
	}
}

// assignMember: "a matching setter accessor runs in preference to a
// direct property write" (spec §4.1 "Member access").
func (e *Evaluator) assignMember(target *ast.MemberExpr, rhs runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	recv, err := e.Eval(target.Object, env)
	if err != nil {
		return nil, err
	}
	switch r := recv.(type) {
	case *runtime.ClassInstance:
		if acc, ok := r.Accessors[target.Property]; ok && acc.Setter != nil {
			if _, err := e.callValue(acc.Setter, []runtime.Value{rhs}, r, target.Token.Position); err != nil {
				return nil, err
			}
			return rhs, nil
		}
		r.SetProperty(target.Property, rhs)
		return rhs, nil
	case *runtime.Object:
		r.Properties[target.Property] = rhs
		return rhs, nil
	default:
		return nil, e.err(target.Token.Position, "cannot assign property %q on %s", target.Property, runtime.TypeOfName(recv))
	}
}

func (e *Evaluator) assignIndex(target *ast.IndexExpr, rhs runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	recv, err := e.Eval(target.Object, env)
	if err != nil {
		return nil, err
	}
	idx, err := e.Eval(target.Index, env)
	if err != nil {
		return nil, err
	}
	switch r := recv.(type) {
	case *runtime.List:
		i, ok := idx.(runtime.Int)
		if !ok {
			return nil, e.err(target.Token.Position, "list index must be int")
		}
		elems := r.Get()
		if int(i) < 0 || int(i) >= len(elems) {
			return nil, e.err(target.Token.Position, "list index out of range: %d", i)
		}
		elems[i] = rhs
		return rhs, nil
	case *runtime.Map:
		k, ok := idx.(runtime.Str)
		if !ok {
			return nil, e.err(target.Token.Position, "map index must be str")
		}
		r.Set(string(k), rhs)
		return rhs, nil
	default:
		return nil, e.err(target.Token.Position, "cannot index-assign on %s", runtime.TypeOfName(recv))
	}
}
