package modules

import (
	"math"
	"math/big"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// mathModule wires stdlib math and math/big (spec §4.7 domain stack:
// "std:math -> stdlib math / math/big"), grounded on the teacher's
// internal/evaluator/builtins_math.go function set, generalized to this
// spec's BigInt/Decimal numeric tower (internal/runtime/value.go).
func mathModule() *Module {
	unaryFloat := func(name string, fn func(float64) float64) runtime.Value {
		return native(name, typesystem.Function{Params: []typesystem.Type{typesystem.TFloat}, Return: typesystem.TFloat}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, wrongArgCount(name, 1, len(args))
			}
			f, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			return runtime.Float(fn(f)), nil
		})
	}

	values := map[string]runtime.Value{
		"sqrt":  unaryFloat("sqrt", math.Sqrt),
		"sin":   unaryFloat("sin", math.Sin),
		"cos":   unaryFloat("cos", math.Cos),
		"tan":   unaryFloat("tan", math.Tan),
		"log":   unaryFloat("log", math.Log),
		"log2":  unaryFloat("log2", math.Log2),
		"log10": unaryFloat("log10", math.Log10),
		"floor": unaryFloat("floor", math.Floor),
		"ceil":  unaryFloat("ceil", math.Ceil),
		"round": unaryFloat("round", math.Round),
		"abs": native("abs", typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TAny}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, wrongArgCount("abs", 1, len(args))
			}
			switch n := args[0].(type) {
			case runtime.Int:
				if n < 0 {
					return -n, nil
				}
				return n, nil
			case runtime.Float:
				return runtime.Float(math.Abs(float64(n))), nil
			case runtime.BigInt:
				return runtime.BigInt{V: new(big.Int).Abs(n.V)}, nil
			}
			return nil, wrongArgCount("abs", 1, len(args))
		}),
		"pow": native("pow", typesystem.Function{Params: []typesystem.Type{typesystem.TFloat, typesystem.TFloat}, Return: typesystem.TFloat}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("pow", 2, len(args))
			}
			base, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			exp, err := toFloat(args[1])
			if err != nil {
				return nil, err
			}
			return runtime.Float(math.Pow(base, exp)), nil
		}),
		"max": native("max", typesystem.Function{Params: []typesystem.Type{typesystem.TFloat, typesystem.TFloat}, Return: typesystem.TFloat}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("max", 2, len(args))
			}
			a, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			b, err := toFloat(args[1])
			if err != nil {
				return nil, err
			}
			return runtime.Float(math.Max(a, b)), nil
		}),
		"min": native("min", typesystem.Function{Params: []typesystem.Type{typesystem.TFloat, typesystem.TFloat}, Return: typesystem.TFloat}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("min", 2, len(args))
			}
			a, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			b, err := toFloat(args[1])
			if err != nil {
				return nil, err
			}
			return runtime.Float(math.Min(a, b)), nil
		}),
		"pi": runtime.Float(math.Pi),
		"e":  runtime.Float(math.E),
	}
	types := map[string]typesystem.Type{
		"sqrt": typesystem.Function{Params: []typesystem.Type{typesystem.TFloat}, Return: typesystem.TFloat},
		"abs":  typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TAny},
		"pow":  typesystem.Function{Params: []typesystem.Type{typesystem.TFloat, typesystem.TFloat}, Return: typesystem.TFloat},
		"max":  typesystem.Function{Params: []typesystem.Type{typesystem.TFloat, typesystem.TFloat}, Return: typesystem.TFloat},
		"min":  typesystem.Function{Params: []typesystem.Type{typesystem.TFloat, typesystem.TFloat}, Return: typesystem.TFloat},
		"pi":   typesystem.TFloat,
		"e":    typesystem.TFloat,
	}
	return &Module{Name: "math", Values: values, Types: types}
}

func toFloat(v runtime.Value) (float64, error) {
	switch n := v.(type) {
	case runtime.Int:
		return float64(n), nil
	case runtime.Float:
		return float64(n), nil
	case runtime.BigInt:
		f, _ := new(big.Float).SetInt(n.V).Float64()
		return f, nil
	case runtime.Decimal:
		return n.Float64(), nil
	}
	return 0, wrongArgCount("<numeric argument>", 1, 0)
}
