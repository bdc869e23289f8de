package modules

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// termModule wires github.com/mattn/go-isatty (spec §4.7 "std:term ->
// mattn/go-isatty"), grounded on the teacher's
// internal/evaluator/builtins_term.go isTerminal check
// (isatty.IsTerminal || isatty.IsCygwinTerminal, covering both native
// ttys and MSYS/Cygwin pseudo-ttys on Windows).
func termModule() *Module {
	values := map[string]runtime.Value{
		"isInteractive": native("isInteractive", typesystem.Function{Return: typesystem.TBool}, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(isInteractive()), nil
		}),
		"width": native("width", typesystem.Function{Return: typesystem.TInt}, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Int(termWidth()), nil
		}),
	}
	types := map[string]typesystem.Type{
		"isInteractive": typesystem.Function{Return: typesystem.TBool},
		"width":         typesystem.Function{Return: typesystem.TInt},
	}
	return &Module{Name: "term", Values: values, Types: types}
}

func isInteractive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// termWidth returns a conservative default; true column detection needs an
// ioctl not exposed portably by go-isatty, so the driver (cmd/raccoon) may
// override this through the COLUMNS environment variable instead.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		width := 0
		for _, c := range cols {
			if c < '0' || c > '9' {
				return 80
			}
			width = width*10 + int(c-'0')
		}
		if width > 0 {
			return width
		}
	}
	return 80
}
