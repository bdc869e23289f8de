package vm

import (
	"github.com/raccoon-lang/raccoon/internal/ir"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

func (vm *VM) call(callee runtime.Value, args []runtime.Value, instr ir.Instr) (runtime.Value, error) {
	return vm.callValue(callee, args, instr)
}

// callValue dispatches across every callable runtime shape shared with
// the tree-walker (spec §4.1 "Method call routes"), plus this backend's
// own *CompiledFunction. Call depth is bounded the same way the
// evaluator bounds recursion (spec §4.4).
func (vm *VM) callValue(callee runtime.Value, args []runtime.Value, instr ir.Instr) (runtime.Value, error) {
	vm.callDepth++
	defer func() { vm.callDepth-- }()
	if vm.callDepth > MaxCallDepth {
		return nil, vm.errAt(instr, "maximum recursion depth exceeded")
	}

	switch fn := callee.(type) {
	case *CompiledFunction:
		callEnv := fn.Closure.PushScope()
		for i, name := range fn.ParamNames {
			if name == "" {
				continue
			}
			var v runtime.Value = runtime.Null
			if i < len(args) {
				v = args[i]
			}
			callEnv.Declare(name, v, false)
		}
		callFrame := newFrame(callEnv)
		result, err := vm.exec(fn.Body, callFrame)
		if err != nil {
			return nil, err
		}
		if fn.IsAsync {
			return runtime.NewResolvedFuture(result, nil), nil
		}
		return result, nil
	case *runtime.NativeFunction:
		return fn.Impl(args)
	case *runtime.NativeAsyncFunction:
		return fn.Impl(args)
	case *runtime.BoundMethod:
		return vm.callValue(fn.Method, prependReceiver(fn.Receiver, args), instr)
	}
	return nil, vm.errAt(instr, "%s is not callable", runtime.TypeOfName(callee))
}

func prependReceiver(receiver runtime.Value, args []runtime.Value) []runtime.Value {
	out := make([]runtime.Value, 0, len(args)+1)
	out = append(out, receiver)
	out = append(out, args...)
	return out
}

// methodCall routes `receiver.method(args)` the same way the tree-walker
// does (spec §4.1): Future thenables first, then class instance method
// tables, then the small built-in list/string method surfaces, falling
// back to an error.
func (vm *VM) methodCall(receiver runtime.Value, name string, args []runtime.Value, f *frame, instr ir.Instr) (runtime.Value, error) {
	if name == "__super_ctor__" {
		return vm.callSuperCtor(f, args, instr)
	}
	switch r := receiver.(type) {
	case *runtime.Future:
		return vm.futureThenable(r, name, args, instr)
	case *runtime.ClassInstance:
		if m, ok := r.Methods[name]; ok {
			return vm.callValue(m, prependBoundThis(r, args), instr)
		}
		return nil, vm.errAt(instr, "no method %q on %s", name, r.Name)
	case *runtime.List:
		return listMethod(r, name, args, instr)
	case runtime.Str:
		return stringMethod(r, name, args, instr)
	}
	return nil, vm.errAt(instr, "no method %q on %s", name, runtime.TypeOfName(receiver))
}

// prependBoundThis returns args unchanged: unlike prependReceiver it adds
// no receiver argument, for methods whose `this` is bound through the
// environment rather than passed as a leading argument.
func prependBoundThis(_ *runtime.ClassInstance, args []runtime.Value) []runtime.Value { return args }

func (vm *VM) callSuperCtor(f *frame, args []runtime.Value, instr ir.Instr) (runtime.Value, error) {
	ctor, ok := f.env.Get("__super_ctor__")
	if !ok {
		return nil, vm.errAt(instr, "super() used outside a constructor with a superclass")
	}
	return vm.callValue(ctor, args, instr)
}

func (vm *VM) futureThenable(fut *runtime.Future, name string, args []runtime.Value, instr ir.Instr) (runtime.Value, error) {
	value, resolved, reason, terminal := fut.Peek()
	switch name {
	case "then":
		if !terminal || !resolved || len(args) == 0 {
			return fut, nil
		}
		result, err := vm.callValue(args[0], []runtime.Value{value}, instr)
		if err != nil {
			return nil, err
		}
		return runtime.NewResolvedFuture(result, nil), nil
	case "catch":
		if !terminal || resolved || len(args) == 0 {
			return fut, nil
		}
		result, err := vm.callValue(args[0], []runtime.Value{runtime.Str(reason)}, instr)
		if err != nil {
			return nil, err
		}
		return runtime.NewResolvedFuture(result, nil), nil
	case "finally":
		if terminal && len(args) > 0 {
			if _, err := vm.callValue(args[0], nil, instr); err != nil {
				return nil, err
			}
		}
		return fut, nil
	case "tap":
		if terminal && resolved && len(args) > 0 {
			if _, err := vm.callValue(args[0], []runtime.Value{value}, instr); err != nil {
				return nil, err
			}
		}
		return fut, nil
	case "map":
		if !terminal || !resolved || len(args) == 0 {
			return fut, nil
		}
		result, err := vm.callValue(args[0], []runtime.Value{value}, instr)
		if err != nil {
			return nil, err
		}
		return runtime.NewResolvedFuture(result, nil), nil
	}
	return nil, vm.errAt(instr, "no thenable method %q on Future", name)
}

func (vm *VM) newInstance(className string, args []runtime.Value, instr ir.Instr) (runtime.Value, error) {
	classVal, ok := vm.Globals.Get(className)
	if !ok {
		return nil, vm.errAt(instr, "undefined class %q", className)
	}
	class, ok := classVal.(*runtime.Class)
	if !ok {
		return nil, vm.errAt(instr, "%q is not a class", className)
	}
	inst := runtime.NewClassInstance(class.Name, class.Type)
	if ctor, ok := class.StaticMethods["constructor"]; ok {
		if _, err := vm.callValue(ctor, prependReceiver(inst, args), instr); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (vm *VM) await(v runtime.Value, instr ir.Instr) (runtime.Value, error) {
	fut, ok := v.(*runtime.Future)
	if !ok {
		return nil, vm.errAt(instr, "await requires a future, got %s", runtime.TypeOfName(v))
	}
	value, resolved, reason := fut.Await()
	if !resolved {
		return nil, vm.errAt(instr, "%s", reason)
	}
	return value, nil
}

func (vm *VM) execMatch(instr ir.Instr, f *frame) (runtime.Value, error) {
	scrutinee := f.get(instr.Src1)
	for _, arm := range instr.Arms {
		bindings, ok := matchPattern(arm.Pattern, scrutinee)
		if !ok {
			continue
		}
		armEnv := f.env.PushScope()
		for name, val := range bindings {
			armEnv.Declare(name, val, false)
		}
		armFrame := newFrame(armEnv)
		if arm.Guard != nil {
			guardVal, err := vm.exec(arm.Guard, armFrame)
			if err != nil {
				return nil, err
			}
			if !runtime.IsTruthy(guardVal) {
				// Falls through to the next arm on guard failure (spec §9
				// open question #4's redesigned, corrected behavior).
				continue
			}
		}
		return vm.exec(arm.Body, armFrame)
	}
	return nil, vm.errAt(instr, "no match arm matched the scrutinee")
}

func (vm *VM) execTryCatch(instr ir.Instr, f *frame) (runtime.Value, error) {
	tryFrame := newFrame(f.env.PushScope())
	result, tryErr := vm.run(instr.Nested, tryFrame)
	var outErr error
	var out execResult
	if tryErr != nil && instr.Catch != nil {
		catchEnv := f.env.PushScope()
		catchEnv.Declare(instr.Name, runtime.Str(tryErr.Error()), false)
		catchFrame := newFrame(catchEnv)
		out, outErr = vm.run(instr.Catch, catchFrame)
	} else {
		out, outErr = result, tryErr
	}
	if instr.Finally != nil {
		finallyFrame := newFrame(f.env.PushScope())
		if _, ferr := vm.run(instr.Finally, finallyFrame); ferr != nil {
			return nil, ferr
		}
	}
	if outErr != nil {
		return nil, outErr
	}
	if out.signal == ctrlReturn {
		return out.value, nil
	}
	return out.lastVal, nil
}

func (vm *VM) execForIn(instr ir.Instr, f *frame) error {
	iterable := f.get(instr.Src1)
	var elems []runtime.Value
	switch it := iterable.(type) {
	case *runtime.List:
		elems = it.Get()
	case runtime.Str:
		for _, r := range string(it) {
			elems = append(elems, runtime.Str(string(r)))
		}
	default:
		return vm.errAt(instr, "for-in requires a list or string iterable, got %s", runtime.TypeOfName(iterable))
	}
	for _, el := range elems {
		iterEnv := f.env.PushScope()
		iterEnv.Declare(instr.Name, el, false)
		iterFrame := newFrame(iterEnv)
		out, err := vm.run(instr.Nested, iterFrame)
		if err != nil {
			return err
		}
		if out.signal == ctrlBreak {
			break
		}
		if out.signal == ctrlReturn {
			return nil
		}
	}
	return nil
}

func listMethod(l *runtime.List, name string, args []runtime.Value, instr ir.Instr) (runtime.Value, error) {
	elems := l.Get()
	switch name {
	case "push":
		l.Set(append(elems, args...))
		return l, nil
	case "pop":
		if len(elems) == 0 {
			return runtime.Null, nil
		}
		last := elems[len(elems)-1]
		l.Set(elems[:len(elems)-1])
		return last, nil
	case "includes":
		for _, e := range elems {
			if len(args) > 0 && runtime.StructuralEqual(e, args[0]) {
				return runtime.Bool(true), nil
			}
		}
		return runtime.Bool(false), nil
	case "reverse":
		out := make([]runtime.Value, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}
		l.Set(out)
		return l, nil
	case "join":
		sep := ""
		if len(args) > 0 {
			sep = runtime.ToString(args[0])
		}
		var b []byte
		for i, e := range elems {
			if i > 0 {
				b = append(b, sep...)
			}
			b = append(b, runtime.ToString(e)...)
		}
		return runtime.Str(b), nil
	}
	return nil, errAt(instr, "unsupported list method %q in the IR path", name)
}

func stringMethod(s runtime.Str, name string, args []runtime.Value, instr ir.Instr) (runtime.Value, error) {
	switch name {
	case "toUpperCase":
		return runtime.Str(upperASCII(string(s))), nil
	case "toLowerCase":
		return runtime.Str(lowerASCII(string(s))), nil
	}
	return nil, errAt(instr, "unsupported string method %q in the IR path", name)
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
