// Future thenable methods and static combinators (spec §4.2). Grounded
// on the teacher's internal/evaluator's AsyncHandler callback plumbing,
// reshaped into direct methods over runtime.Future now that Future is a
// first-class value rather than a callback parameter.
package evaluator

import (
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/token"
)

// futureMethod implements the instance thenable methods. Per spec §4.2,
// these operate only on an already-terminal future; calling one on a
// still-pending future raises (callers that want to wait should use
// `await` first).
func (e *Evaluator) futureMethod(f *runtime.Future, method string, args []runtime.Value, pos token.Position) (runtime.Value, error) {
	value, resolved, reason, terminal := f.Peek()
	if !terminal {
		return nil, e.err(pos, "Future.%s called on a pending future", method)
	}
	switch method {
	case "then":
		if !resolved {
			// onRejected, if supplied, derives the new future's resolution
			// from its return value (spec §4.2: "construct a new Future
			// whose resolution derives from the callback result"); with no
			// onRejected the rejection just propagates unchanged, matching
			// original_source/src/interpreter/expressions.rs's then handling.
			if len(args) < 2 || args[1] == nil {
				return f, nil
			}
			v, err := e.callValue(args[1], []runtime.Value{runtime.Str(reason)}, nil, pos)
			if err != nil {
				return runtime.NewRejectedFuture(err.Error(), nil), nil
			}
			return runtime.NewResolvedFuture(v, nil), nil
		}
		if len(args) == 0 {
			return f, nil
		}
		v, err := e.callValue(args[0], []runtime.Value{value}, nil, pos)
		if err != nil {
			return runtime.NewRejectedFuture(err.Error(), nil), nil
		}
		return runtime.NewResolvedFuture(v, nil), nil
	case "catch":
		if resolved {
			return f, nil
		}
		if len(args) == 0 {
			return f, nil
		}
		v, err := e.callValue(args[0], []runtime.Value{runtime.Str(reason)}, nil, pos)
		if err != nil {
			return runtime.NewRejectedFuture(err.Error(), nil), nil
		}
		return runtime.NewResolvedFuture(v, nil), nil
	case "finally":
		if len(args) > 0 {
			if _, err := e.callValue(args[0], nil, nil, pos); err != nil {
				return runtime.NewRejectedFuture(err.Error(), nil), nil
			}
		}
		return f, nil
	case "tap":
		if resolved && len(args) > 0 {
			if _, err := e.callValue(args[0], []runtime.Value{value}, nil, pos); err != nil {
				return runtime.NewRejectedFuture(err.Error(), nil), nil
			}
		}
		return f, nil
	case "map":
		if !resolved {
			return f, nil
		}
		if len(args) == 0 {
			return f, nil
		}
		v, err := e.callValue(args[0], []runtime.Value{value}, nil, pos)
		if err != nil {
			return runtime.NewRejectedFuture(err.Error(), nil), nil
		}
		return runtime.NewResolvedFuture(v, nil), nil
	default:
		return nil, e.err(pos, "no method %q on future", method)
	}
}

// registerFutureStatics wires the `Future` namespace's static
// combinators (spec §4.2: "resolve/reject/all/any/race/allSettled").
func registerFutureStatics(env *runtime.Environment) {
	obj := &runtime.PrimitiveTypeObject{
		Name:          "Future",
		StaticMethods: map[string]runtime.Value{},
	}
	obj.StaticMethods["resolve"] = &runtime.NativeFunction{Name: "Future.resolve", Impl: func(args []runtime.Value) (runtime.Value, error) {
		var v runtime.Value = runtime.Null
		if len(args) > 0 {
			v = args[0]
		}
		return runtime.NewResolvedFuture(v, nil), nil
	}}
	obj.StaticMethods["reject"] = &runtime.NativeFunction{Name: "Future.reject", Impl: func(args []runtime.Value) (runtime.Value, error) {
		reason := ""
		if len(args) > 0 {
			reason = runtime.ToString(args[0])
		}
		return runtime.NewRejectedFuture(reason, nil), nil
	}}
	obj.StaticMethods["all"] = &runtime.NativeFunction{Name: "Future.all", Impl: func(args []runtime.Value) (runtime.Value, error) {
		futs, err := futureList(args)
		if err != nil {
			return nil, err
		}
		out := make([]runtime.Value, len(futs))
		for i, fut := range futs {
			v, resolved, reason := fut.Await()
			if !resolved {
				return runtime.NewRejectedFuture(reason, nil), nil
			}
			out[i] = v
		}
		return runtime.NewResolvedFuture(runtime.NewList(out, nil), nil), nil
	}}
	obj.StaticMethods["allSettled"] = &runtime.NativeFunction{Name: "Future.allSettled", Impl: func(args []runtime.Value) (runtime.Value, error) {
		futs, err := futureList(args)
		if err != nil {
			return nil, err
		}
		out := make([]runtime.Value, len(futs))
		for i, fut := range futs {
			v, resolved, reason := fut.Await()
			entry := runtime.NewObject()
			if resolved {
				entry.Properties["status"] = runtime.Str("resolved")
				entry.Properties["value"] = v
			} else {
				entry.Properties["status"] = runtime.Str("rejected")
				entry.Properties["reason"] = runtime.Str(reason)
			}
			out[i] = entry
		}
		return runtime.NewResolvedFuture(runtime.NewList(out, nil), nil), nil
	}}
	obj.StaticMethods["any"] = &runtime.NativeFunction{Name: "Future.any", Impl: func(args []runtime.Value) (runtime.Value, error) {
		futs, err := futureList(args)
		if err != nil {
			return nil, err
		}
		type result struct {
			v        runtime.Value
			resolved bool
			reason   string
		}
		results := make(chan result, len(futs))
		for _, fut := range futs {
			fut := fut
			go func() {
				v, resolved, reason := fut.Await()
				results <- result{v, resolved, reason}
			}()
		}
		var lastReason string
		for range futs {
			r := <-results
			if r.resolved {
				return runtime.NewResolvedFuture(r.v, nil), nil
			}
			lastReason = r.reason
		}
		return runtime.NewRejectedFuture(lastReason, nil), nil
	}}
	obj.StaticMethods["race"] = &runtime.NativeFunction{Name: "Future.race", Impl: func(args []runtime.Value) (runtime.Value, error) {
		futs, err := futureList(args)
		if err != nil {
			return nil, err
		}
		type result struct {
			v        runtime.Value
			resolved bool
			reason   string
		}
		results := make(chan result, len(futs))
		for _, fut := range futs {
			fut := fut
			go func() {
				v, resolved, reason := fut.Await()
				results <- result{v, resolved, reason}
			}()
		}
		r := <-results
		if r.resolved {
			return runtime.NewResolvedFuture(r.v, nil), nil
		}
		return runtime.NewRejectedFuture(r.reason, nil), nil
	}}
	env.Declare("Future", obj, true)
}

func futureList(args []runtime.Value) ([]*runtime.Future, error) {
	if len(args) == 0 {
		return nil, nil
	}
	list, ok := args[0].(*runtime.List)
	if !ok {
		return nil, nil
	}
	out := make([]*runtime.Future, 0, len(list.Get()))
	for _, v := range list.Get() {
		if fut, ok := v.(*runtime.Future); ok {
			out = append(out, fut)
		}
	}
	return out, nil
}
