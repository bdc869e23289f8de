// Decorators (SPEC_FULL §4.8, grounded on original_source/semantic_
// analyzer.rs's decorator-as-higher-order-wrapper treatment): a
// `@name(args)` prefix evaluates name(args...) to a wrapper function,
// then calls wrapper(declaredValue) and uses the result as the bound
// value - applied innermost-first, matching textual declaration order.
package evaluator

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

func (e *Evaluator) applyDecorators(decorators []*ast.Decorator, value runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	for i := len(decorators) - 1; i >= 0; i-- {
		d := decorators[i]
		factory, ok := env.Get(d.Name)
		if !ok {
			return nil, e.err(d.Token.Position, "undefined decorator %q", d.Name)
		}
		args := make([]runtime.Value, 0, len(d.Args)+1)
		for _, a := range d.Args {
			v, err := e.Eval(a, env)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		wrapper, err := e.callValue(factory, args, nil, d.Token.Position)
		if err != nil {
			return nil, err
		}
		value, err = e.callValue(wrapper, []runtime.Value{value}, nil, d.Token.Position)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (e *Evaluator) applyClassDecorators(decorators []*ast.Decorator, cls *runtime.Class, env *runtime.Environment) (runtime.Value, error) {
	v, err := e.applyDecorators(decorators, cls, env)
	if err != nil {
		return nil, err
	}
	return v, nil
}
