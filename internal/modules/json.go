package modules

import (
	"encoding/json"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// jsonModule wires stdlib encoding/json (spec §4.7 "std:json ->
// encoding/json"), grounded on the teacher's internal/evaluator/builtins.go
// JSON encode/decode pair, using the shared fromGo/toGo conversion in
// convert.go rather than duplicating the traversal per-format.
func jsonModule() *Module {
	values := map[string]runtime.Value{
		"parse": native("parse", typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TAny}, func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("parse", args, 1)
			if err != nil {
				return nil, err
			}
			var data interface{}
			if err := json.Unmarshal([]byte(s), &data); err != nil {
				return nil, err
			}
			return fromGo(data)
		}),
		"stringify": native("stringify", typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, wrongArgCount("stringify", 1, len(args))
			}
			data, err := toGo(args[0])
			if err != nil {
				return nil, err
			}
			out, err := json.Marshal(data)
			if err != nil {
				return nil, err
			}
			return runtime.Str(out), nil
		}),
		"stringifyPretty": native("stringifyPretty", typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, wrongArgCount("stringifyPretty", 1, len(args))
			}
			data, err := toGo(args[0])
			if err != nil {
				return nil, err
			}
			out, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return nil, err
			}
			return runtime.Str(out), nil
		}),
	}
	types := map[string]typesystem.Type{
		"parse":           typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TAny},
		"stringify":       typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr},
		"stringifyPretty": typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr},
	}
	return &Module{Name: "json", Values: values, Types: types}
}
