package modules

import (
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// arrayModule wires list helpers over runtime.List (spec §4.7 "std:array
// -> stdlib"), grounded on the teacher's internal/evaluator/builtins_array.go
// free-function style (list-in, list/value-out) rather than method-call
// syntax, since `std:array` is imported as free functions per spec §6.4.
func arrayModule() *Module {
	listType := typesystem.List{Element: typesystem.TAny}
	fnType := typesystem.Function{Params: []typesystem.Type{listType}, Return: typesystem.TAny}

	values := map[string]runtime.Value{
		"length": native("length", fnType, func(args []runtime.Value) (runtime.Value, error) {
			l, err := asList("length", args)
			if err != nil {
				return nil, err
			}
			return runtime.Int(len(l.Get())), nil
		}),
		"isEmpty": native("isEmpty", fnType, func(args []runtime.Value) (runtime.Value, error) {
			l, err := asList("isEmpty", args)
			if err != nil {
				return nil, err
			}
			return runtime.Bool(len(l.Get()) == 0), nil
		}),
		"first": native("first", fnType, func(args []runtime.Value) (runtime.Value, error) {
			l, err := asList("first", args)
			if err != nil {
				return nil, err
			}
			e := l.Get()
			if len(e) == 0 {
				return runtime.Null, nil
			}
			return e[0], nil
		}),
		"last": native("last", fnType, func(args []runtime.Value) (runtime.Value, error) {
			l, err := asList("last", args)
			if err != nil {
				return nil, err
			}
			e := l.Get()
			if len(e) == 0 {
				return runtime.Null, nil
			}
			return e[len(e)-1], nil
		}),
		"reverse": native("reverse", fnType, func(args []runtime.Value) (runtime.Value, error) {
			l, err := asList("reverse", args)
			if err != nil {
				return nil, err
			}
			e := l.Get()
			out := make([]runtime.Value, len(e))
			for i, v := range e {
				out[len(e)-1-i] = v
			}
			return runtime.NewList(out, l.ElementType), nil
		}),
		"concat": native("concat", typesystem.Function{Params: []typesystem.Type{listType, listType}, Return: listType}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("concat", 2, len(args))
			}
			a, ok := args[0].(*runtime.List)
			if !ok {
				return nil, wrongArgCount("concat", 2, len(args))
			}
			b, ok := args[1].(*runtime.List)
			if !ok {
				return nil, wrongArgCount("concat", 2, len(args))
			}
			out := append(append([]runtime.Value{}, a.Get()...), b.Get()...)
			return runtime.NewList(out, a.ElementType), nil
		}),
		"contains": native("contains", typesystem.Function{Params: []typesystem.Type{listType, typesystem.TAny}, Return: typesystem.TBool}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("contains", 2, len(args))
			}
			l, ok := args[0].(*runtime.List)
			if !ok {
				return nil, wrongArgCount("contains", 2, len(args))
			}
			for _, e := range l.Get() {
				if runtime.StructuralEqual(e, args[1]) {
					return runtime.Bool(true), nil
				}
			}
			return runtime.Bool(false), nil
		}),
	}
	types := map[string]typesystem.Type{
		"length":   fnType,
		"isEmpty":  fnType,
		"first":    fnType,
		"last":     fnType,
		"reverse":  fnType,
		"concat":   typesystem.Function{Params: []typesystem.Type{listType, listType}, Return: listType},
		"contains": typesystem.Function{Params: []typesystem.Type{listType, typesystem.TAny}, Return: typesystem.TBool},
	}
	return &Module{Name: "array", Values: values, Types: types}
}

func asList(name string, args []runtime.Value) (*runtime.List, error) {
	if len(args) != 1 {
		return nil, wrongArgCount(name, 1, len(args))
	}
	l, ok := args[0].(*runtime.List)
	if !ok {
		return nil, wrongArgCount(name, 1, len(args))
	}
	return l, nil
}
