package modules

import (
	"fmt"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// coreModule is the language-level prelude (print, typeof helpers),
// grounded on the teacher's internal/evaluator/builtins.go "always
// registered, no import needed" set, generalized to this spec's
// explicit `std:core` import rather than funxy's always-global prelude.
func coreModule() *Module {
	values := map[string]runtime.Value{
		"print": native("print", typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Variadic: true, Return: typesystem.TVoid}, func(args []runtime.Value) (runtime.Value, error) {
			for i, a := range args {
				if i > 0 {
					fmt.Print(" ")
				}
				fmt.Print(runtime.ToString(a))
			}
			fmt.Println()
			return runtime.Null, nil
		}),
		"typeOf": native("typeOf", typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, wrongArgCount("typeOf", 1, len(args))
			}
			return runtime.Str(runtime.TypeOfName(args[0])), nil
		}),
		"toString": native("toString", typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, wrongArgCount("toString", 1, len(args))
			}
			return runtime.Str(runtime.ToString(args[0])), nil
		}),
	}
	types := map[string]typesystem.Type{
		"print":    typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Variadic: true, Return: typesystem.TVoid},
		"typeOf":   typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr},
		"toString": typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr},
	}
	return &Module{Name: "core", Values: values, Types: types}
}
