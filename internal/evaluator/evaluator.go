// Package evaluator implements the tree-walking interpreter (spec §4.1):
// it executes ast.Stmt/ast.Expr nodes against a runtime.Environment,
// producing runtime.Value results, with lexical scoping, closures, class
// instantiation, exception propagation, and cooperative async execution
// (spec §4.2). Grounded on the teacher's internal/evaluator package
// (evaluator.go's Evaluator struct + CallFrame, statements.go,
// expressions_*.go), generalized from funxy's trait/row-polymorphism
// dispatch to this spec's class + primitive-method-table dispatch (spec
// §4.3).
package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/async"
	"github.com/raccoon-lang/raccoon/internal/config"
	"github.com/raccoon-lang/raccoon/internal/rerr"
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/token"
)

// ModuleLoader resolves a "std:"-prefixed module specifier to its export
// table (spec §6.3/§6.4).
type ModuleLoader interface {
	Load(spec string) (map[string]runtime.Value, error)
}

// Evaluator holds the process-wide, mostly-immutable-after-setup state
// shared by every evaluation of a program: the module registrar, the
// recursion ceiling, the call stack, and the async scheduler (spec
// §4.1 "Recursion guard", §6.4).
type Evaluator struct {
	Out               io.Writer
	Loader            ModuleLoader
	Scheduler         *async.Scheduler
	GlobalEnv         *runtime.Environment
	CurrentFile       string
	MaxRecursionDepth int

	callStack []rerr.Frame
}

// New constructs an Evaluator with its global environment pre-populated
// with builtin primitive-type objects (spec §4.3) and freshly created
// async scheduler (spec §9 "Global state ... Keep them behind an
// interior-mutable map with an explicit freeze-after-setup discipline").
// out receives print() output; a nil out defaults to os.Stdout.
func New(out io.Writer) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	e := &Evaluator{
		Out:               out,
		Scheduler:         async.NewScheduler(),
		GlobalEnv:         runtime.NewEnvironment(),
		MaxRecursionDepth: config.DefaultMaxRecursionDepth,
	}
	RegisterPrelude(e.GlobalEnv, e.Out)
	return e
}

// ControlKind tags a statement's execution outcome (spec §4.1: "one of
// {Value, Return(Value), Break, Continue}").
type ControlKind int

const (
	CtrlValue ControlKind = iota
	CtrlReturn
	CtrlBreak
	CtrlContinue
)

// ExecResult is the outcome of executing one Statement.
type ExecResult struct {
	Kind  ControlKind
	Value runtime.Value
}

func valueResult(v runtime.Value) ExecResult { return ExecResult{Kind: CtrlValue, Value: v} }
func returnResult(v runtime.Value) ExecResult { return ExecResult{Kind: CtrlReturn, Value: v} }
func breakResult() ExecResult                { return ExecResult{Kind: CtrlBreak} }
func continueResult() ExecResult             { return ExecResult{Kind: CtrlContinue} }

// pushCall pushes a call-stack frame (spec §4.1 "Recursion guard": "On
// every function call push a frame ... after the call, pop"). It returns
// an error once MaxRecursionDepth is exceeded; the caller must still
// call popCall in that case via the usual defer, since the frame WAS
// pushed before the ceiling check runs (testable property: call_stack
// depth is restored to its pre-call value on every exit path, spec §8
// invariant 2).
func (e *Evaluator) pushCall(name string, pos token.Position) error {
	e.callStack = append(e.callStack, rerr.Frame{FunctionName: name, Position: pos, File: e.CurrentFile})
	if len(e.callStack) > e.MaxRecursionDepth {
		return rerr.New(
			fmt.Sprintf("maximum recursion depth exceeded (%d)", e.MaxRecursionDepth),
			pos,
		).WithStack(e.callStack)
	}
	return nil
}

func (e *Evaluator) popCall() {
	if len(e.callStack) > 0 {
		e.callStack = e.callStack[:len(e.callStack)-1]
	}
}

// CallStack returns a snapshot of the current call stack, innermost
// last, for attaching to errors raised mid-evaluation.
func (e *Evaluator) CallStack() []rerr.Frame {
	return append([]rerr.Frame(nil), e.callStack...)
}

func (e *Evaluator) err(pos token.Position, format string, args ...interface{}) error {
	return rerr.Newf(pos, format, args...).WithStack(e.CallStack()).WithFile(e.CurrentFile)
}

// Interpret runs program top-to-bottom in a fresh scope nested under the
// global environment, returning the value of the last expression
// statement (or Null), matching the CLI driver's expectations. It does
// not push an initial call-stack frame for the program itself - only
// user function calls count toward the recursion ceiling.
func (e *Evaluator) Interpret(program *ast.Program) (runtime.Value, error) {
	e.CurrentFile = program.File
	env := e.GlobalEnv.PushScope()
	var last runtime.Value = runtime.Null
	for _, stmt := range program.Stmts {
		res, err := e.ExecStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		switch res.Kind {
		case CtrlReturn:
			return res.Value, nil
		case CtrlBreak, CtrlContinue:
			return nil, e.err(stmt.GetToken().Position, "%s outside loop", map[ControlKind]string{CtrlBreak: "break", CtrlContinue: "continue"}[res.Kind])
		default:
			if res.Value != nil {
				last = res.Value
			}
		}
	}
	return last, nil
}
