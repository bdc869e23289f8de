package modules

import (
	"testing"

	"github.com/raccoon-lang/raccoon/internal/runtime"
)

func TestLoaderResolvesStdPrefixedSpecifier(t *testing.T) {
	l := NewLoader()
	values, err := l.Load("std:math")
	if err != nil {
		t.Fatalf("Load(std:math) error: %v", err)
	}
	if _, ok := values["sqrt"]; !ok {
		t.Fatalf("expected std:math to export sqrt")
	}
}

func TestLoaderUnknownModule(t *testing.T) {
	l := NewLoader()
	if _, err := l.Load("std:nope"); err == nil {
		t.Fatalf("expected an error for an unknown module")
	}
}

func TestLoaderTypesMirrorsValues(t *testing.T) {
	l := NewLoader()
	types := l.Types("std:json")
	if _, ok := types["parse"]; !ok {
		t.Fatalf("expected std:json's Types table to include parse")
	}
}

func TestCoreModulePrintAcceptsVariadicArgs(t *testing.T) {
	m := coreModule()
	printFn, ok := m.Values["print"].(*runtime.NativeFunction)
	if !ok {
		t.Fatalf("expected print to be a NativeFunction")
	}
	if _, err := printFn.Impl([]runtime.Value{runtime.Str("a"), runtime.Int(1)}); err != nil {
		t.Fatalf("print errored: %v", err)
	}
}

func TestMathModuleSqrt(t *testing.T) {
	m := mathModule()
	sqrtFn := m.Values["sqrt"].(*runtime.NativeFunction)
	result, err := sqrtFn.Impl([]runtime.Value{runtime.Float(16.0)})
	if err != nil {
		t.Fatalf("sqrt errored: %v", err)
	}
	if f, ok := result.(runtime.Float); !ok || float64(f) != 4.0 {
		t.Fatalf("expected sqrt(16) == 4.0, got %v", result)
	}
}

func TestArrayModuleReverse(t *testing.T) {
	m := arrayModule()
	reverseFn := m.Values["reverse"].(*runtime.NativeFunction)
	list := runtime.NewList([]runtime.Value{runtime.Int(1), runtime.Int(2), runtime.Int(3)}, nil)
	result, err := reverseFn.Impl([]runtime.Value{list})
	if err != nil {
		t.Fatalf("reverse errored: %v", err)
	}
	reversed := result.(*runtime.List).Get()
	if len(reversed) != 3 || reversed[0] != runtime.Int(3) || reversed[2] != runtime.Int(1) {
		t.Fatalf("unexpected reverse result: %v", reversed)
	}
}

func TestStringModulePadStart(t *testing.T) {
	m := stringModule()
	padFn := m.Values["padStart"].(*runtime.NativeFunction)
	result, err := padFn.Impl([]runtime.Value{runtime.Str("7"), runtime.Int(3), runtime.Str("0")})
	if err != nil {
		t.Fatalf("padStart errored: %v", err)
	}
	if string(result.(runtime.Str)) != "007" {
		t.Fatalf("expected \"007\", got %q", result)
	}
}

func TestJSONModuleRoundTrip(t *testing.T) {
	m := jsonModule()
	stringify := m.Values["stringify"].(*runtime.NativeFunction)
	parse := m.Values["parse"].(*runtime.NativeFunction)

	obj := runtime.NewObject()
	obj.Properties["name"] = runtime.Str("ok")
	obj.Properties["count"] = runtime.Int(3)

	encoded, err := stringify.Impl([]runtime.Value{obj})
	if err != nil {
		t.Fatalf("stringify errored: %v", err)
	}
	decoded, err := parse.Impl([]runtime.Value{encoded})
	if err != nil {
		t.Fatalf("parse errored: %v", err)
	}
	decodedObj, ok := decoded.(*runtime.Object)
	if !ok {
		t.Fatalf("expected parse to return an Object, got %T", decoded)
	}
	if string(decodedObj.Properties["name"].(runtime.Str)) != "ok" {
		t.Fatalf("round-trip lost the name field: %v", decodedObj.Properties)
	}
}

func TestYAMLModuleRoundTrip(t *testing.T) {
	m := yamlModule()
	stringify := m.Values["stringify"].(*runtime.NativeFunction)
	parse := m.Values["parse"].(*runtime.NativeFunction)

	list := runtime.NewList([]runtime.Value{runtime.Int(1), runtime.Int(2)}, nil)
	encoded, err := stringify.Impl([]runtime.Value{list})
	if err != nil {
		t.Fatalf("stringify errored: %v", err)
	}
	decoded, err := parse.Impl([]runtime.Value{encoded})
	if err != nil {
		t.Fatalf("parse errored: %v", err)
	}
	decodedList, ok := decoded.(*runtime.List)
	if !ok || len(decodedList.Get()) != 2 {
		t.Fatalf("unexpected round-trip result: %v", decoded)
	}
}

func TestUUIDModuleV4IsValid(t *testing.T) {
	m := uuidModule()
	v4 := m.Values["v4"].(*runtime.NativeFunction)
	isValid := m.Values["isValid"].(*runtime.NativeFunction)

	generated, err := v4.Impl(nil)
	if err != nil {
		t.Fatalf("v4 errored: %v", err)
	}
	valid, err := isValid.Impl([]runtime.Value{generated})
	if err != nil {
		t.Fatalf("isValid errored: %v", err)
	}
	if !bool(valid.(runtime.Bool)) {
		t.Fatalf("expected a freshly generated UUID to be valid, got %v", generated)
	}
}

func TestTermModuleIsInteractiveDoesNotPanic(t *testing.T) {
	m := termModule()
	isInteractive := m.Values["isInteractive"].(*runtime.NativeFunction)
	if _, err := isInteractive.Impl(nil); err != nil {
		t.Fatalf("isInteractive errored: %v", err)
	}
}
