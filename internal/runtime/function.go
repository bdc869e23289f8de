package runtime

import "github.com/raccoon-lang/raccoon/internal/typesystem"

// Function is a user-defined closure (spec §3.2). Params/Body are
// opaque AST handles (interface{}) to avoid runtime -> ast, matching the
// same rationale as Class.Decl.
type Function struct {
	Params  []interface{} // []*ast.Param
	Body    interface{}   // *ast.Block or ast.Expression (arrow body)
	IsAsync bool
	FnType  typesystem.Type
	Name    string
	// Closure is the *Environment captured at creation time (see
	// environment.go).
	Closure *Environment
}

func (*Function) Kind() Kind                   { return KFunction }
func (f *Function) RuntimeType() typesystem.Type { return f.FnType }

// NativeImpl is the Go implementation behind a NativeFunction.
type NativeImpl func(args []Value) (Value, error)

// NativeAsyncImpl is the Go implementation behind a NativeAsyncFunction;
// it returns a result synchronously once its internal asynchronous work
// (if any) completes, and the evaluator wraps it in a Future the same
// way it wraps a user async function call (spec §4.2).
type NativeAsyncImpl func(args []Value) (Value, error)

type NativeFunction struct {
	Name   string
	Impl   NativeImpl
	FnType typesystem.Type
}

func (*NativeFunction) Kind() Kind                   { return KNativeFunction }
func (n *NativeFunction) RuntimeType() typesystem.Type { return n.FnType }

type NativeAsyncFunction struct {
	Name   string
	Impl   NativeAsyncImpl
	FnType typesystem.Type
}

func (*NativeAsyncFunction) Kind() Kind                   { return KNativeAsyncFunction }
func (n *NativeAsyncFunction) RuntimeType() typesystem.Type { return n.FnType }

// BoundMethod pairs a receiver instance with one of its methods, the
// shape produced by instance method-value expressions (e.g. passing
// `obj.method` as a callback).
type BoundMethod struct {
	Receiver Value
	Method   Value // *Function or *NativeFunction
}

func (*BoundMethod) Kind() Kind                   { return KFunction }
func (b *BoundMethod) RuntimeType() typesystem.Type { return b.Method.RuntimeType() }
