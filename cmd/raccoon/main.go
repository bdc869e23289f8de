// Command raccoon is the driver binary: it parses flags, picks an
// execution backend, and runs a source file or drops into an
// interactive prompt. Grounded on the teacher's cmd/funxy/main.go (a
// flag/stdlib-based driver with a selectable tree/vm backend), but using
// the standard "flag" package explicitly rather than the teacher's
// hand-rolled os.Args scanning, since SPEC_FULL §1.1 calls this out as a
// "flag/stdlib-based driver" without mandating the teacher's exact
// argument-parsing style. The lexer and parser that would turn source
// text into an *ast.Program are out of scope (spec §1 Non-goals); this
// driver wires everything downstream of that boundary (analyzer,
// evaluator, IR compiler, VM) and calls out the seam explicitly.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/raccoon-lang/raccoon/internal/analyzer"
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/config"
	"github.com/raccoon-lang/raccoon/internal/evaluator"
	"github.com/raccoon-lang/raccoon/internal/ir"
	"github.com/raccoon-lang/raccoon/internal/modules"
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/vm"

	"github.com/mattn/go-isatty"
)

// backend selects which of the two execution strategies spec §4.6
// describes runs a parsed program.
type backend string

const (
	backendTree backend = "tree"
	backendVM   backend = "vm"
)

func main() {
	var (
		backendFlag = flag.String("backend", string(backendVM), `execution backend: "tree" (evaluator) or "vm" (IR + register VM)`)
		versionFlag = flag.Bool("version", false, "print the interpreter version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println("raccoon " + config.Version)
		return
	}

	back := backend(*backendFlag)
	if back != backendTree && back != backendVM {
		fmt.Fprintf(os.Stderr, "raccoon: unknown -backend %q (want \"tree\" or \"vm\")\n", *backendFlag)
		os.Exit(2)
	}

	args := flag.Args()
	if len(args) == 0 {
		runREPL(back)
		return
	}

	if err := runFile(args[0], back); err != nil {
		fmt.Fprintln(os.Stderr, "raccoon:", err)
		os.Exit(1)
	}
}

// runFile parses, analyzes, and executes a single source file.
func runFile(path string, back backend) error {
	program, err := parseSource(path)
	if err != nil {
		return err
	}
	return runProgram(program, back)
}

// runREPL drops into an interactive loop, printing a prompt only when
// stdout is an interactive terminal (spec §1.1: "using go-isatty ... to
// decide whether the REPL prints a prompt"), grounded on the teacher's
// builtins_term.go isatty.IsTerminal/IsCygwinTerminal double check.
func runREPL(back backend) {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	reader := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("raccoon> ")
		}
		if !reader.Scan() {
			return
		}
		line := reader.Text()
		if line == "" {
			continue
		}
		program, err := parseSource(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if err := runProgram(program, back); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// runProgram runs the two-pass analyzer and then the selected backend,
// matching spec §4.5's "analyze before execute" ordering.
func runProgram(program *ast.Program, back backend) error {
	sema := analyzer.New()
	if errs := sema.Analyze(program); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("%d semantic error(s)", len(errs))
	}

	loader := modules.NewLoader()

	switch back {
	case backendTree:
		e := evaluator.New(os.Stdout)
		e.Loader = loader
		_, err := e.Interpret(program)
		return err
	case backendVM:
		compiled, err := ir.Compile(program)
		if err != nil {
			return err
		}
		machine := vm.New(evaluatorGlobals(), loader)
		_, err = machine.Run(compiled)
		return err
	}
	return fmt.Errorf("unreachable backend %q", back)
}

// evaluatorGlobals builds a fresh global environment for the VM backend,
// mirroring evaluator.New's own environment construction so std: imports
// and builtins resolve identically across both backends.
func evaluatorGlobals() *runtime.Environment {
	return evaluator.New(os.Stdout).GlobalEnv
}

// parseSource is the seam where source text becomes an *ast.Program.
// The lexer and parser are out of scope for this repository (spec §1
// Non-goals); callers upstream of this seam (an editor integration, a
// future lexer/parser package) are expected to produce the AST this
// driver consumes.
func parseSource(pathOrSource string) (*ast.Program, error) {
	return nil, fmt.Errorf("parseSource: no lexer/parser wired in this build (got %q); construct an *ast.Program upstream and call runProgram directly", pathOrSource)
}
