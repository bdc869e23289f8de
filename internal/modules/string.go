package modules

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// stringModule wires stdlib strings/unicode/utf8 plus golang.org/x/text/width
// for East-Asian-aware padStart/padEnd (spec §4.7 "std:string -> stdlib
// strings/unicode/utf8 + golang.org/x/text/width"), grounded on the
// teacher's internal/evaluator/builtins_string.go free-function set.
func stringModule() *Module {
	strFn := func(ret typesystem.Type, extra ...typesystem.Type) typesystem.Type {
		return typesystem.Function{Params: append([]typesystem.Type{typesystem.TStr}, extra...), Return: ret}
	}

	values := map[string]runtime.Value{
		"length": native("length", strFn(typesystem.TInt), func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("length", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.Int(utf8.RuneCountInString(string(s))), nil
		}),
		"isEmpty": native("isEmpty", strFn(typesystem.TBool), func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("isEmpty", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.Bool(len(s) == 0), nil
		}),
		"toUpperCase": native("toUpperCase", strFn(typesystem.TStr), func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("toUpperCase", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.Str(strings.ToUpper(string(s))), nil
		}),
		"toLowerCase": native("toLowerCase", strFn(typesystem.TStr), func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("toLowerCase", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.Str(strings.ToLower(string(s))), nil
		}),
		"trim": native("trim", strFn(typesystem.TStr), func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("trim", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.Str(strings.TrimSpace(string(s))), nil
		}),
		"split": native("split", typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.List{Element: typesystem.TStr}}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("split", 2, len(args))
			}
			s, ok1 := args[0].(runtime.Str)
			sep, ok2 := args[1].(runtime.Str)
			if !ok1 || !ok2 {
				return nil, wrongArgCount("split", 2, len(args))
			}
			parts := strings.Split(string(s), string(sep))
			out := make([]runtime.Value, len(parts))
			for i, p := range parts {
				out[i] = runtime.Str(p)
			}
			return runtime.NewList(out, typesystem.TStr), nil
		}),
		"includes": native("includes", typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.TBool}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("includes", 2, len(args))
			}
			s, ok1 := args[0].(runtime.Str)
			sub, ok2 := args[1].(runtime.Str)
			if !ok1 || !ok2 {
				return nil, wrongArgCount("includes", 2, len(args))
			}
			return runtime.Bool(strings.Contains(string(s), string(sub))), nil
		}),
		"padStart": native("padStart", typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TInt, typesystem.TStr}, Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			return padString(args, true)
		}),
		"padEnd": native("padEnd", typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TInt, typesystem.TStr}, Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			return padString(args, false)
		}),
	}
	types := map[string]typesystem.Type{
		"length":      strFn(typesystem.TInt),
		"isEmpty":     strFn(typesystem.TBool),
		"toUpperCase": strFn(typesystem.TStr),
		"toLowerCase": strFn(typesystem.TStr),
		"trim":        strFn(typesystem.TStr),
		"split":       typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.List{Element: typesystem.TStr}},
		"includes":    typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.TBool},
		"padStart":    typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TInt, typesystem.TStr}, Return: typesystem.TStr},
		"padEnd":      typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TInt, typesystem.TStr}, Return: typesystem.TStr},
	}
	return &Module{Name: "string", Values: values, Types: types}
}

func asStr(name string, args []runtime.Value, want int) (runtime.Str, error) {
	if len(args) != want {
		return "", wrongArgCount(name, want, len(args))
	}
	s, ok := args[0].(runtime.Str)
	if !ok {
		return "", wrongArgCount(name, want, len(args))
	}
	return s, nil
}

// displayWidth sums the East Asian display width of s's runes via
// golang.org/x/text/width, so padStart/padEnd align wide (fullwidth/wide)
// characters the way a terminal renders them rather than by rune count.
func displayWidth(s string) int {
	total := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += 2
		default:
			total++
		}
	}
	return total
}

func padString(args []runtime.Value, start bool) (runtime.Value, error) {
	if len(args) != 3 {
		return nil, wrongArgCount("pad", 3, len(args))
	}
	s, ok1 := args[0].(runtime.Str)
	target, ok2 := args[1].(runtime.Int)
	fill, ok3 := args[2].(runtime.Str)
	if !ok1 || !ok2 || !ok3 || len(fill) == 0 {
		return nil, wrongArgCount("pad", 3, len(args))
	}
	needed := int(target) - displayWidth(string(s))
	if needed <= 0 {
		return s, nil
	}
	var b strings.Builder
	for b.Len() < needed {
		b.WriteString(string(fill))
	}
	padding := b.String()
	padding = padding[:min(len(padding), needed)]
	if start {
		return runtime.Str(padding + string(s)), nil
	}
	return runtime.Str(string(s) + padding), nil
}
