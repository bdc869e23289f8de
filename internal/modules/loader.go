// Package modules implements the `std:` scheme host modules spec §6.4
// names ("std: modules are pre-registered, host-provided bindings; the
// evaluator resolves them without touching the filesystem"). Grounded on
// the teacher's internal/evaluator/builtins_*.go files (one file per
// domain concern, each registering a handful of native functions), and
// wiring every third-party dependency SPEC_FULL §4.7's domain stack table
// assigns a concrete home: encoding/json, gopkg.in/yaml.v3, google/uuid,
// grpc+protobuf+protoreflect, mattn/go-isatty, golang.org/x/text/width.
package modules

import (
	"fmt"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// Module is one `std:` package's exported bindings plus the static types
// the analyzer needs to type-check call sites against (spec §6.4).
type Module struct {
	Name    string
	Values  map[string]runtime.Value
	Types   map[string]typesystem.Type
}

// Loader resolves `std:<name>` specifiers to their Module, implementing
// both evaluator.ModuleLoader and vm.ModuleLoader's single-method
// contract (spec §6.4: both execution backends share one host-module
// surface).
type Loader struct {
	modules map[string]*Module
}

// NewLoader builds a Loader with every standard module registered.
func NewLoader() *Loader {
	l := &Loader{modules: map[string]*Module{}}
	for _, m := range []*Module{
		coreModule(), mathModule(), stringModule(), arrayModule(),
		timeModule(), randomModule(), ioModule(), httpModule(),
		jsonModule(), yamlModule(), uuidModule(), termModule(), grpcModule(),
	} {
		l.modules[m.Name] = m
	}
	return l
}

// Load implements evaluator.ModuleLoader / vm.ModuleLoader: specifier
// arrives with the "std:" scheme prefix already present (spec §6.4
// ModuleScheme).
func (l *Loader) Load(specifier string) (map[string]runtime.Value, error) {
	name := specifier
	if len(name) > 4 && name[:4] == "std:" {
		name = name[4:]
	}
	m, ok := l.modules[name]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", specifier)
	}
	return m.Values, nil
}

// Types returns a module's exported type signatures. The analyzer's
// checkImport does not consult it; imported names are bound as `any`.
func (l *Loader) Types(specifier string) map[string]typesystem.Type {
	name := specifier
	if len(name) > 4 && name[:4] == "std:" {
		name = name[4:]
	}
	if m, ok := l.modules[name]; ok {
		return m.Types
	}
	return nil
}

func native(name string, fnType typesystem.Type, impl runtime.NativeImpl) runtime.Value {
	return &runtime.NativeFunction{Name: name, Impl: impl, FnType: fnType}
}

func nativeAsync(name string, fnType typesystem.Type, impl runtime.NativeAsyncImpl) runtime.Value {
	return &runtime.NativeAsyncFunction{Name: name, Impl: impl, FnType: fnType}
}

func wrongArgCount(name string, want int, got int) error {
	return fmt.Errorf("%s expects %d argument(s), got %d", name, want, got)
}
