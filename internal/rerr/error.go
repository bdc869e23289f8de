// Package rerr defines the error contract shared by the analyzer, the
// evaluator, and the register VM (spec §6.2). A *CoreError is a normal Go
// error; the CLI driver in cmd/raccoon prints it to stderr.
package rerr

import (
	"fmt"
	"strings"

	"github.com/raccoon-lang/raccoon/internal/token"
)

// Frame is one entry of a call stack captured at the point an error was
// raised, innermost call last.
type Frame struct {
	FunctionName string
	Position     token.Position
	File         string
}

func (f Frame) String() string {
	name := f.FunctionName
	if name == "" {
		name = "<anonymous>"
	}
	if f.File != "" {
		return fmt.Sprintf("%s (%s:%s)", name, f.File, f.Position)
	}
	return fmt.Sprintf("%s (%s)", name, f.Position)
}

// CoreError is the error shape produced by static analysis and by the
// evaluator/VM at runtime. CallStack is only populated when the failure
// originates from inside user-code execution (§6.2).
type CoreError struct {
	Message   string
	Position  token.Position
	File      string
	CallStack []Frame
}

func New(message string, pos token.Position) *CoreError {
	return &CoreError{Message: message, Position: pos}
}

func Newf(pos token.Position, format string, args ...interface{}) *CoreError {
	return &CoreError{Message: fmt.Sprintf(format, args...), Position: pos}
}

func (e *CoreError) Error() string {
	var b strings.Builder
	if e.File != "" {
		fmt.Fprintf(&b, "%s:%s: %s", e.File, e.Position, e.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", e.Position, e.Message)
	}
	for i := len(e.CallStack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n  at %s", e.CallStack[i])
	}
	return b.String()
}

// WithStack returns a shallow copy of e carrying the given call stack,
// innermost frame last. The original error is left untouched so the same
// *CoreError can be reused (e.g. a sentinel "division by zero") without
// accumulating stale stacks across calls.
func (e *CoreError) WithStack(stack []Frame) *CoreError {
	cp := *e
	cp.CallStack = append([]Frame(nil), stack...)
	return &cp
}

// WithFile returns a shallow copy of e with File set, for errors raised
// before the originating file was known (e.g. deep inside shared
// dispatch tables).
func (e *CoreError) WithFile(file string) *CoreError {
	cp := *e
	cp.File = file
	return &cp
}
