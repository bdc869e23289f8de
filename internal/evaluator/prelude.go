// RegisterPrelude populates a fresh global Environment with the
// language-level builtins that are always in scope without an explicit
// import (spec §6.3/§6.4 "std:core ... language-level prelude"):
// print, and the Future namespace's static combinators. Grounded on the
// teacher's internal/evaluator's registerBuiltins step.
package evaluator

import (
	"fmt"
	"io"
	"strings"

	"github.com/raccoon-lang/raccoon/internal/runtime"
)

func RegisterPrelude(env *runtime.Environment, out io.Writer) {
	env.Declare("print", &runtime.NativeFunction{
		Name: "print",
		Impl: func(args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = runtime.ToString(a)
			}
			fmt.Fprintln(out, strings.Join(parts, " "))
			return runtime.Null, nil
		},
	}, true)
	registerFutureStatics(env)
}
