package modules

import (
	"github.com/google/uuid"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// uuidModule wires github.com/google/uuid (spec §4.7 "std:uuid ->
// google/uuid"); no teacher precedent exists for this exact module, so
// it follows the same native-function registration shape as every other
// std: module in this package rather than a bespoke one.
func uuidModule() *Module {
	values := map[string]runtime.Value{
		"v4": native("v4", typesystem.Function{Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Str(uuid.NewString()), nil
		}),
		"isValid": native("isValid", typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TBool}, func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("isValid", args, 1)
			if err != nil {
				return nil, err
			}
			_, parseErr := uuid.Parse(string(s))
			return runtime.Bool(parseErr == nil), nil
		}),
		"nil": runtime.Str(uuid.Nil.String()),
	}
	types := map[string]typesystem.Type{
		"v4":      typesystem.Function{Return: typesystem.TStr},
		"isValid": typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TBool},
		"nil":     typesystem.TStr,
	}
	return &Module{Name: "uuid", Values: values, Types: types}
}
