package modules

import (
	"bufio"
	"os"
	"sync"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// ioModule wires stdlib os/bufio (spec §4.7 "std:io -> stdlib os/bufio"),
// grounded on the teacher's internal/evaluator/builtins_io.go: a shared
// buffered stdin reader (sync.Once) plus file read/write/exists helpers.
func ioModule() *Module {
	strToStr := typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TStr}

	values := map[string]runtime.Value{
		"readLine": native("readLine", typesystem.Function{Return: typesystem.TStr}, func(args []runtime.Value) (runtime.Value, error) {
			line, err := stdinReader().ReadString('\n')
			if err != nil && line == "" {
				return runtime.Str(""), nil
			}
			return runtime.Str(trimNewline(line)), nil
		}),
		"fileRead": native("fileRead", strToStr, func(args []runtime.Value) (runtime.Value, error) {
			path, err := asStr("fileRead", args, 1)
			if err != nil {
				return nil, err
			}
			data, err := os.ReadFile(string(path))
			if err != nil {
				return nil, err
			}
			return runtime.Str(data), nil
		}),
		"fileWrite": native("fileWrite", typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.TVoid}, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != 2 {
				return nil, wrongArgCount("fileWrite", 2, len(args))
			}
			path, ok1 := args[0].(runtime.Str)
			content, ok2 := args[1].(runtime.Str)
			if !ok1 || !ok2 {
				return nil, wrongArgCount("fileWrite", 2, len(args))
			}
			if err := os.WriteFile(string(path), []byte(content), 0o644); err != nil {
				return nil, err
			}
			return runtime.Null, nil
		}),
		"fileExists": native("fileExists", typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TBool}, func(args []runtime.Value) (runtime.Value, error) {
			path, err := asStr("fileExists", args, 1)
			if err != nil {
				return nil, err
			}
			_, statErr := os.Stat(string(path))
			return runtime.Bool(statErr == nil), nil
		}),
		"print": native("print", typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TVoid}, func(args []runtime.Value) (runtime.Value, error) {
			s, err := asStr("print", args, 1)
			if err != nil {
				return nil, err
			}
			os.Stdout.WriteString(string(s))
			return runtime.Null, nil
		}),
	}
	types := map[string]typesystem.Type{
		"readLine":   typesystem.Function{Return: typesystem.TStr},
		"fileRead":   strToStr,
		"fileWrite":  typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.TVoid},
		"fileExists": typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TBool},
		"print":      typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.TVoid},
	}
	return &Module{Name: "io", Values: values, Types: types}
}

var (
	stdin     *bufio.Reader
	stdinOnce sync.Once
)

func stdinReader() *bufio.Reader {
	stdinOnce.Do(func() { stdin = bufio.NewReader(os.Stdin) })
	return stdin
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
