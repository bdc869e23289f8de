package modules

import (
	"gopkg.in/yaml.v3"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// yamlModule wires gopkg.in/yaml.v3 (spec §4.7 "std:yaml -> gopkg.in/yaml.v3"),
// grounded directly on the teacher's internal/evaluator/builtins_yaml.go
// yamlDecode/yamlEncode pair.
func yamlModule() *Module {
	values := map[string]runtime.Value{
		"parse": native("parse", typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TAny}, func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("parse", args, 1)
			if err != nil {
				return nil, err
			}
			var data interface{}
			if err := yaml.Unmarshal([]byte(s), &data); err != nil {
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
			out, err := yaml.Marshal(data)
			if err != nil {
				return nil, err
			}
			return runtime.Str(out), nil
		}),
	}
	types := map[string]typesystem.Type{
		"parse":     typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TAny},
		"stringify": typesystem.Function{Params: []typesystem.Type{typesystem.TAny}, Return: typesystem.TStr},
	}
	return &Module{Name: "yaml", Values: values, Types: types}
}
