package modules

import (
	"math/rand/v2"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// randomModule wires stdlib math/rand/v2 (spec §4.7 "std:random -> stdlib
// math/rand/v2"), grounded on the teacher's internal/evaluator/builtins_random.go
// range-bounded integer/float helpers.
func randomModule() *Module {
	values := map[string]runtime.Value{
		"float": native("float", typesystem.Function{Return: typesystem.TFloat}, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Float(rand.Float64()), nil
		}),
		"int": native("int", typesystem.Function{Params: []typesystem.Type{typesystem.TInt, typesystem.TInt}, Return: typesystem.TInt}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("int", 2, len(args))
			}
			lo, ok1 := args[0].(runtime.Int)
			hi, ok2 := args[1].(runtime.Int)
			if !ok1 || !ok2 || hi < lo {
				return nil, wrongArgCount("int", 2, len(args))
			}
			span := int64(hi) - int64(lo) + 1
			return runtime.Int(int64(lo) + rand.Int64N(span)), nil
		}),
		"bool": native("bool", typesystem.Function{Return: typesystem.TBool}, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(rand.IntN(2) == 1), nil
		}),
		"choice": native("choice", typesystem.Function{Params: []typesystem.Type{typesystem.List{Element: typesystem.TAny}}, Return: typesystem.TAny}, func(args []runtime.Value) (runtime.Value, error) {
			l, err := asList("choice", args)
			if err != nil {
				return nil, err
			}
			elems := l.Get()
			if len(elems) == 0 {
				return runtime.Null, nil
			}
			return elems[rand.IntN(len(elems))], nil
		}),
	}
	types := map[string]typesystem.Type{
		"float":  typesystem.Function{Return: typesystem.TFloat},
		"int":    typesystem.Function{Params: []typesystem.Type{typesystem.TInt, typesystem.TInt}, Return: typesystem.TInt},
		"bool":   typesystem.Function{Return: typesystem.TBool},
		"choice": typesystem.Function{Params: []typesystem.Type{typesystem.List{Element: typesystem.TAny}}, Return: typesystem.TAny},
	}
	return &Module{Name: "random", Values: values, Types: types}
}
