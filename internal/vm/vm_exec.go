package vm

import (
	"fmt"

	"github.com/raccoon-lang/raccoon/internal/ir"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

// execOne executes a single non-control-flow instruction, returning the
// value it produced (if any, for diagnostics/REPL display of the last
// statement's result) and advancing no instruction pointer itself -
// callers in run() handle ip advancement uniformly.
func (vm *VM) execOne(instr ir.Instr, f *frame) (runtime.Value, error) {
	switch instr.Op {
	case ir.OpLoadConst:
		v := constToValue(instr.Const)
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpMove:
		v := f.get(instr.Src1)
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpDeclare:
		if err := f.env.Declare(instr.Name, runtime.Null, false); err != nil {
			return nil, vm.errAt(instr, "%s", err)
		}
		return nil, nil

	case ir.OpStore:
		v := f.get(instr.Src1)
		if err := f.env.Assign(instr.Name, v); err != nil {
			if derr := f.env.Declare(instr.Name, v, false); derr != nil {
				return nil, vm.errAt(instr, "%s", derr)
			}
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpLoad:
		v, ok := f.env.Get(instr.Name)
		if !ok {
			return nil, vm.errAt(instr, "undefined variable %q", instr.Name)
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpBinaryOp:
		v, err := applyBinaryOp(instr.Operator, f.get(instr.Src1), f.get(instr.Src2), instr.Pos)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpUnaryOp:
		v, err := applyUnaryOp(instr.Operator, f.get(instr.Src1), instr.Pos)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpCreateArray:
		elems := make([]runtime.Value, 0, len(instr.Args))
		for _, r := range instr.Args {
			elems = append(elems, f.get(r))
		}
		list := runtime.NewList(elems, nil)
		f.set(instr.Dst, list)
		return list, nil

	case ir.OpCreateObject:
		m := runtime.NewMap(nil, nil)
		for i := 0; i+1 < len(instr.Args); i += 2 {
			k := runtime.ToString(f.get(instr.Args[i]))
			m.Set(k, f.get(instr.Args[i+1]))
		}
		f.set(instr.Dst, m)
		return m, nil

	case ir.OpLoadIndex:
		v, err := vm.loadIndex(f.get(instr.Src1), f.get(instr.Src2), instr)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpStoreIndex:
		return nil, vm.storeIndex(f.get(instr.Src1), f.get(instr.Src2), f.get(instr.Dst), instr)

	case ir.OpLoadProperty, ir.OpOptionalChain:
		obj := f.get(instr.Src1)
		if instr.Op == ir.OpOptionalChain && runtime.IsNull(obj) {
			f.set(instr.Dst, runtime.Null)
			return runtime.Null, nil
		}
		v, err := vm.loadProperty(obj, instr.Name, instr)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpStoreProperty:
		return nil, vm.storeProperty(f.get(instr.Src1), instr.Name, f.get(instr.Src2), instr)

	case ir.OpCreateFunction:
		fn := &CompiledFunction{Name: instr.Name, IsAsync: instr.IsAsync, Closure: f.env, Body: instr.Nested, ParamNames: instr.Params}
		f.set(instr.Dst, fn)
		return fn, nil

	case ir.OpCall:
		v, err := vm.call(f.get(instr.Src1), registerValues(f, instr.Args), instr)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpMethodCall:
		v, err := vm.methodCall(f.get(instr.Src1), instr.Name, registerValues(f, instr.Args), f, instr)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpNewInstance:
		v, err := vm.newInstance(instr.Name, registerValues(f, instr.Args), instr)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpAwait:
		v, err := vm.await(f.get(instr.Src1), instr)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpTypeOf:
		v := runtime.Str(runtime.TypeOfName(f.get(instr.Src1)))
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpInstanceOf:
		v := runtime.Bool(instanceOf(f.get(instr.Src1), instr.Name))
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpThrow:
		return nil, vm.errAt(instr, "%s", runtime.ToString(f.get(instr.Src1)))

	case ir.OpDestructureArray:
		list, ok := f.get(instr.Src1).(*runtime.List)
		if !ok {
			return nil, vm.errAt(instr, "cannot destructure non-list value as array pattern")
		}
		elems := list.Get()
		for i := range instr.Args {
			if i < len(elems) {
				f.set(instr.Args[i], elems[i])
			} else {
				f.set(instr.Args[i], runtime.Null)
			}
		}
		if instr.HasRest {
			var rest []runtime.Value
			if len(elems) > len(instr.Args) {
				rest = append(rest, elems[len(instr.Args):]...)
			}
			f.set(instr.RestDst, runtime.NewList(rest, nil))
		}
		return nil, nil

	case ir.OpDestructureObject:
		return nil, nil

	case ir.OpIncrement, ir.OpDecrement:
		cur, _ := asFloat(f.get(instr.Src1))
		delta := 1.0
		if instr.Op == ir.OpDecrement {
			delta = -1.0
		}
		if _, isInt := f.get(instr.Src1).(runtime.Int); isInt {
			v := runtime.Int(int64(cur) + int64(delta))
			f.set(instr.Dst, v)
			return v, nil
		}
		v := runtime.Float(cur + delta)
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpCreateTemplate:
		var sb []byte
		for _, r := range instr.Args {
			sb = append(sb, []byte(runtime.ToString(f.get(r)))...)
		}
		v := runtime.Str(sb)
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpCreateRange:
		from := f.get(instr.Src1)
		to := f.get(instr.Src2)
		fi, fok := from.(runtime.Int)
		ti, tok := to.(runtime.Int)
		if !fok || !tok {
			return nil, vm.errAt(instr, "range bounds must be int")
		}
		elems := make([]runtime.Value, 0)
		for i := fi; i <= ti; i++ {
			elems = append(elems, i)
		}
		v := runtime.NewList(elems, nil)
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpMatch:
		v, err := vm.execMatch(instr, f)
		if err != nil {
			return nil, err
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpNullCoalesce:
		v := f.get(instr.Src1)
		if runtime.IsNull(v) {
			v = f.get(instr.Src2)
		}
		f.set(instr.Dst, v)
		return v, nil

	case ir.OpTryCatch:
		return vm.execTryCatch(instr, f)

	case ir.OpForIn:
		return nil, vm.execForIn(instr, f)

	case ir.OpConditional:
		cond := runtime.IsTruthy(f.get(instr.Src1))
		if cond {
			f.set(instr.Dst, f.get(instr.Src2))
		}
		return f.get(instr.Dst), nil
	}
	return nil, fmt.Errorf("vm: unhandled op %s", instr.Op)
}

func constToValue(c interface{}) runtime.Value {
	switch v := c.(type) {
	case nil:
		return runtime.Null
	case int64:
		return runtime.Int(v)
	case float64:
		return runtime.Float(v)
	case string:
		return runtime.Str(v)
	case bool:
		return runtime.Bool(v)
	}
	return runtime.Null
}

func registerValues(f *frame, regs []ir.Register) []runtime.Value {
	out := make([]runtime.Value, 0, len(regs))
	for _, r := range regs {
		out = append(out, f.get(r))
	}
	return out
}

func instanceOf(v runtime.Value, typeName string) bool {
	ci, ok := v.(*runtime.ClassInstance)
	if !ok {
		return false
	}
	return ci.Name == typeName
}
