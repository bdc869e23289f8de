// Module imports (spec §6.3 "the three import shapes"). Grounded on the
// teacher's internal/pipeline module-resolution step, generalized to
// this spec's "std:"-prefixed registrar (spec §6.4).
package evaluator

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

func (e *Evaluator) execImport(s *ast.Import, env *runtime.Environment) (ExecResult, error) {
	if e.Loader == nil {
		return ExecResult{}, e.err(s.Token.Position, "no module loader configured")
	}
	exports, err := e.Loader.Load(s.Module)
	if err != nil {
		return ExecResult{}, e.err(s.Token.Position, "loading module %q: %s", s.Module, err.Error())
	}
	switch s.Kind {
	case ast.ImportNamespace:
		ns := runtime.NewObject()
		for k, v := range exports {
			ns.Properties[k] = v
		}
		if err := env.Declare(s.Namespace, ns, true); err != nil {
			return ExecResult{}, e.err(s.Token.Position, "%s", err.Error())
		}
	case ast.ImportDefault:
		v, ok := exports["default"]
		if !ok {
			return ExecResult{}, e.err(s.Token.Position, "module %q has no default export", s.Module)
		}
		if err := env.Declare(s.Default, v, false); err != nil {
			return ExecResult{}, e.err(s.Token.Position, "%s", err.Error())
		}
	case ast.ImportNamed:
		for _, spec := range s.Specifiers {
			v, ok := exports[spec.Name]
			if !ok {
				return ExecResult{}, e.err(s.Token.Position, "module %q has no export %q", s.Module, spec.Name)
			}
			name := spec.Name
			if spec.Alias != "" {
				name = spec.Alias
			}
			if err := env.Declare(name, v, false); err != nil {
				return ExecResult{}, e.err(s.Token.Position, "%s", err.Error())
			}
		}
	}
	return valueResult(runtime.Null), nil
}
