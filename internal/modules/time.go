package modules

import (
	"strings"
	"time"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// timeModule wires stdlib time (spec §4.7 "std:time -> stdlib time"),
// grounded on the teacher's internal/evaluator/builtins_time.go
// now()/sleep() pair, generalized with formatting since this spec's
// std:time is a full module rather than a couple of global builtins.
func timeModule() *Module {
	values := map[string]runtime.Value{
		"now": native("now", typesystem.Function{Return: typesystem.TInt}, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Int(time.Now().UnixMilli()), nil
		}),
		"sleep": nativeAsync("sleep", typesystem.Function{Params: []typesystem.Type{typesystem.TInt}, Return: typesystem.Future{Inner: typesystem.TVoid}}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 1 {
				return nil, wrongArgCount("sleep", 1, len(args))
			}
			ms, ok := args[0].(runtime.Int)
			if !ok {
				return nil, wrongArgCount("sleep", 1, len(args))
			}
			time.Sleep(time.Duration(ms) * time.Millisecond)
			return runtime.Null, nil
		}),
		"format": native("format", typesystem.Function{Params: []typesystem.Type{typesystem.TInt, typesystem.TStr}, Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("format", 2, len(args))
			}
			ms, ok1 := args[0].(runtime.Int)
			layout, ok2 := args[1].(runtime.Str)
			if !ok1 || !ok2 {
				return nil, wrongArgCount("format", 2, len(args))
			}
			t := time.UnixMilli(int64(ms)).UTC()
			return runtime.Str(t.Format(goLayout(string(layout)))), nil
		}),
	}
	types := map[string]typesystem.Type{
		"now":    typesystem.Function{Return: typesystem.TInt},
		"sleep":  typesystem.Function{Params: []typesystem.Type{typesystem.TInt}, Return: typesystem.Future{Inner: typesystem.TVoid}},
		"format": typesystem.Function{Params: []typesystem.Type{typesystem.TInt, typesystem.TStr}, Return: typesystem.TStr},
	}
	return &Module{Name: "time", Values: values, Types: types}
}

// goLayout translates a small set of common strftime-style tokens into
// Go's reference-time layout, since the language's surface uses the more
// familiar YYYY-MM-DD style rather than Go's "Mon Jan 2" reference date.
func goLayout(pattern string) string {
	replacer := map[string]string{
		"YYYY": "2006", "MM": "01", "DD": "02",
		"HH": "15", "mm": "04", "ss": "05",
	}
	out := pattern
	for token, repl := range replacer {
		out = strings.ReplaceAll(out, token, repl)
	}
	return out
}
