// Class declaration, instantiation, and method dispatch (spec §4.1
// "ClassDecl", "New", "Member access"). Grounded on the teacher's
// internal/evaluator/objects_class.go (single-inheritance copy-down
// construction), generalized from funxy's trait objects to nominal
// classes with getter/setter accessors.
package evaluator

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// execClassDecl: "Construct a Class value over the declaration; collect
// static members eagerly; instance members are materialized per-instance
// at `new` time. Declare the Class under its name." No instance is
// created here.
func (e *Evaluator) execClassDecl(s *ast.ClassDecl, env *runtime.Environment) (ExecResult, error) {
	cls := &runtime.Class{
		Name:             s.Name,
		Decl:             s,
		StaticMethods:    map[string]runtime.Value{},
		StaticProperties: map[string]runtime.Value{},
		Type:             typesystem.Class{Name: s.Name},
	}
	for _, m := range s.Methods {
		if !m.IsStatic {
			continue
		}
		cls.StaticMethods[m.Fn.Name] = &runtime.Function{
			Params:  paramsToIface(m.Fn.Params),
			Body:    m.Fn.Body,
			IsAsync: m.Fn.IsAsync,
			Name:    m.Fn.Name,
			Closure: env,
		}
	}
	for _, p := range s.Properties {
		if !p.IsStatic {
			continue
		}
		var v runtime.Value = runtime.Null
		if p.Init != nil {
			iv, err := e.Eval(p.Init, env)
			if err != nil {
				return ExecResult{}, err
			}
			v = iv
		}
		cls.StaticProperties[p.Name] = v
	}
	decorated, err := e.applyClassDecorators(s.Decorators, cls, env)
	if err != nil {
		return ExecResult{}, err
	}
	if err := env.Declare(s.Name, decorated, false); err != nil {
		return ExecResult{}, e.err(s.Token.Position, "%s", err.Error())
	}
	return valueResult(decorated), nil
}

func (e *Evaluator) evalClassExpr(x *ast.ClassExpr, env *runtime.Environment) (runtime.Value, error) {
	// "its synthesized name is __AnonymousClass_<pos>" (spec §9 open
	// question #2, preserved as-is rather than disambiguated further).
	decl := *x.Class
	if decl.Name == "" {
		decl.Name = "__AnonymousClass_" + x.Token.Position.String()
	}
	res, err := e.execClassDecl(&decl, env)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// classChain returns cls's ancestors from the root down to cls itself,
// resolving each superclass name in env.
func (e *Evaluator) classChain(cls *runtime.Class, env *runtime.Environment) []*runtime.Class {
	var chain []*runtime.Class
	for c := cls; c != nil; {
		chain = append([]*runtime.Class{c}, chain...)
		decl, ok := c.Decl.(*ast.ClassDecl)
		if !ok || decl.Superclass == "" {
			break
		}
		superV, ok := env.Get(decl.Superclass)
		if !ok {
			break
		}
		super, ok := superV.(*runtime.Class)
		if !ok {
			break
		}
		c = super
	}
	return chain
}

func (e *Evaluator) evalNewExpr(x *ast.NewExpr, env *runtime.Environment) (runtime.Value, error) {
	if x.IsMapCtor {
		keyT, valT := typesystem.Type(typesystem.TAny), typesystem.Type(typesystem.TAny)
		if len(x.TypeArgs) == 2 {
			keyT, valT = x.TypeArgs[0], x.TypeArgs[1]
		}
		return runtime.NewMap(keyT, valT), nil
	}
	classV, ok := env.Get(x.ClassName)
	if !ok {
		return nil, e.err(x.Token.Position, "undefined class %q", x.ClassName)
	}
	cls, ok := classV.(*runtime.Class)
	if !ok {
		return nil, e.err(x.Token.Position, "%q is not a class", x.ClassName)
	}

	ci := runtime.NewClassInstance(cls.Name, cls.Type)
	chain := e.classChain(cls, env)

	// Materialize properties/methods/accessors root-first so a derived
	// class's members override its ancestors' (spec §4.1 single
	// inheritance, copy-down semantics).
	for _, level := range chain {
		decl := level.Decl.(*ast.ClassDecl)
		for _, p := range decl.Properties {
			if p.IsStatic {
				continue
			}
			var v runtime.Value = runtime.Null
			if p.Init != nil {
				inner := e.GlobalEnv.PushScope()
				inner.Declare("this", ci, false)
				iv, err := e.Eval(p.Init, inner)
				if err != nil {
					return nil, err
				}
				v = iv
			}
			ci.SetProperty(p.Name, v)
		}
		for _, m := range decl.Methods {
			if m.IsStatic {
				continue
			}
			fn := &runtime.Function{
				Params:  paramsToIface(m.Fn.Params),
				Body:    m.Fn.Body,
				IsAsync: m.Fn.IsAsync,
				Name:    m.Fn.Name,
				Closure: e.GlobalEnv,
			}
			switch {
			case m.IsGetter:
				acc := ci.Accessors[m.Fn.Name]
				if acc == nil {
					acc = &runtime.Accessor{}
					ci.Accessors[m.Fn.Name] = acc
				}
				acc.Getter = fn
			case m.IsSetter:
				acc := ci.Accessors[m.Fn.Name]
				if acc == nil {
					acc = &runtime.Accessor{}
					ci.Accessors[m.Fn.Name] = acc
				}
				acc.Setter = fn
			default:
				ci.Methods[m.Fn.Name] = fn
			}
		}
	}

	// Run the constructor: the most-derived class's own constructor if
	// declared, else the nearest ancestor's (spec §4.1 "New").
	var ctor *ast.FnDecl
	var ctorSuper *runtime.Function
	for i := len(chain) - 1; i >= 0; i-- {
		decl := chain[i].Decl.(*ast.ClassDecl)
		if decl.Constructor != nil {
			ctor = decl.Constructor
			if i > 0 {
				if superDecl, ok := chain[i-1].Decl.(*ast.ClassDecl); ok && superDecl.Constructor != nil {
					ctorSuper = &runtime.Function{
						Params:  paramsToIface(superDecl.Constructor.Params),
						Body:    superDecl.Constructor.Body,
						Name:    superDecl.Constructor.Name,
						Closure: e.GlobalEnv,
					}
				}
			}
			break
		}
	}
	if ctor != nil {
		ctorFn := &runtime.Function{
			Params:  paramsToIface(ctor.Params),
			Body:    ctor.Body,
			Name:    "constructor",
			Closure: e.GlobalEnv,
		}
		args, err := e.evalArgs(x.Args, x.NamedArgs, ctorFn, env)
		if err != nil {
			return nil, err
		}
		callEnv := ctorFn.Closure.PushScope()
		callEnv.Declare("this", ci, false)
		if ctorSuper != nil {
			callEnv.Declare("__super_ctor__", ctorSuper, false)
		}
		if err := e.bindParams(ctorFn.Params, args, callEnv); err != nil {
			return nil, e.err(x.Token.Position, "%s", err.Error())
		}
		if _, err := e.runFunctionBody(ctorFn, callEnv); err != nil {
			return nil, err
		}
	}
	return ci, nil
}
