package evaluator

import (
	"testing"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/token"
)

// TestFutureThenInvokesOnRejectedCallback verifies that a rejected
// future's then(onFulfilled, onRejected) invokes onRejected rather than
// silently propagating the rejection, per spec §4.2.
func TestFutureThenInvokesOnRejectedCallback(t *testing.T) {
	e := New(nil)
	fut := runtime.NewRejectedFuture("boom", nil)

	recover := &runtime.NativeFunction{Name: "recover", Impl: func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			t.Fatalf("expected onRejected to receive the rejection reason, got %d args", len(args))
		}
		return runtime.Str("recovered: " + runtime.ToString(args[0])), nil
	}}

	result, err := e.futureMethod(fut, "then", []runtime.Value{runtime.Null, recover}, token.Position{})
	if err != nil {
		t.Fatalf("then errored: %v", err)
	}
	settled, ok := result.(*runtime.Future)
	if !ok {
		t.Fatalf("expected a Future, got %T", result)
	}
	v, resolved, _ := settled.Await()
	if !resolved {
		t.Fatalf("expected the new future to resolve once onRejected ran")
	}
	if string(v.(runtime.Str)) != "recovered: boom" {
		t.Fatalf("unexpected resolved value: %v", v)
	}
}

// TestFutureThenWithoutOnRejectedPropagatesRejection keeps the
// no-callback case behaving as before: the original future passes through.
func TestFutureThenWithoutOnRejectedPropagatesRejection(t *testing.T) {
	e := New(nil)
	fut := runtime.NewRejectedFuture("boom", nil)

	result, err := e.futureMethod(fut, "then", []runtime.Value{runtime.Null}, token.Position{})
	if err != nil {
		t.Fatalf("then errored: %v", err)
	}
	if result != runtime.Value(fut) {
		t.Fatalf("expected the original rejected future to pass through unchanged")
	}
}
