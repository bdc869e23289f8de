package vm

import (
	"github.com/raccoon-lang/raccoon/internal/ir"
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// CompiledFunction is the IR path's closure value (spec §4.6: "Closures
// store their compiled body as a nested IR block captured by the
// enclosing program"), the register-VM counterpart of the tree-walker's
// runtime.Function. Kept as a distinct type rather than widening
// runtime.Function with IR fields, since runtime.Function's Body is
// deliberately AST-shaped for the evaluator and the two execution
// backends are not expected to share closure representations (spec §4.6
// "Optionality": the VM is an alternative, not a replacement).
type CompiledFunction struct {
	Name       string
	ParamNames []string
	IsAsync    bool
	Closure    *runtime.Environment
	Body       *ir.Program
}

func (*CompiledFunction) Kind() runtime.Kind                     { return runtime.KFunction }
func (*CompiledFunction) RuntimeType() typesystem.Type           { return typesystem.TAny }

func (vm *VM) loadProperty(obj runtime.Value, name string, instr ir.Instr) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.ClassInstance:
		if acc, ok := o.Accessors[name]; ok && acc.Getter != nil {
			return vm.callValue(acc.Getter, nil, instr)
		}
		if v, ok := o.GetProperty(name); ok {
			return v, nil
		}
		if m, ok := o.Methods[name]; ok {
			return &runtime.BoundMethod{Receiver: o, Method: m}, nil
		}
		return nil, vm.errAt(instr, "no property %q on %s", name, o.Name)
	case *runtime.Object:
		if v, ok := o.Properties[name]; ok {
			return v, nil
		}
		return runtime.Null, nil
	case *runtime.Map:
		if v, ok := o.Get(name); ok {
			return v, nil
		}
		return runtime.Null, nil
	case *runtime.List:
		switch name {
		case "length":
			return runtime.Int(len(o.Get())), nil
		case "first":
			elems := o.Get()
			if len(elems) == 0 {
				return runtime.Null, nil
			}
			return elems[0], nil
		}
		return nil, vm.errAt(instr, "no property %q on list", name)
	case runtime.Str:
		switch name {
		case "length":
			return runtime.Int(len([]rune(string(o)))), nil
		case "isEmpty":
			return runtime.Bool(len(o) == 0), nil
		}
		return nil, vm.errAt(instr, "no property %q on str", name)
	}
	return nil, vm.errAt(instr, "cannot read property %q of %s", name, runtime.TypeOfName(obj))
}

func (vm *VM) storeProperty(obj runtime.Value, name string, value runtime.Value, instr ir.Instr) error {
	switch o := obj.(type) {
	case *runtime.ClassInstance:
		if acc, ok := o.Accessors[name]; ok && acc.Setter != nil {
			_, err := vm.callValue(acc.Setter, []runtime.Value{value}, instr)
			return err
		}
		o.SetProperty(name, value)
		return nil
	case *runtime.Object:
		o.Properties[name] = value
		return nil
	case *runtime.Map:
		o.Set(name, value)
		return nil
	}
	return vm.errAt(instr, "cannot set property %q on %s", name, runtime.TypeOfName(obj))
}

func (vm *VM) loadIndex(obj, index runtime.Value, instr ir.Instr) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.List:
		i, ok := index.(runtime.Int)
		if !ok {
			return nil, vm.errAt(instr, "list index must be int")
		}
		elems := o.Get()
		if int(i) < 0 || int(i) >= len(elems) {
			return nil, vm.errAt(instr, "list index %d out of range", i)
		}
		return elems[i], nil
	case *runtime.Map:
		key := runtime.ToString(index)
		if v, ok := o.Get(key); ok {
			return v, nil
		}
		return runtime.Null, nil
	case runtime.Str:
		i, ok := index.(runtime.Int)
		if !ok {
			return nil, vm.errAt(instr, "string index must be int")
		}
		runes := []rune(string(o))
		if int(i) < 0 || int(i) >= len(runes) {
			return nil, vm.errAt(instr, "string index %d out of range", i)
		}
		return runtime.Str(string(runes[i])), nil
	}
	return nil, vm.errAt(instr, "cannot index %s", runtime.TypeOfName(obj))
}

func (vm *VM) storeIndex(obj, index, value runtime.Value, instr ir.Instr) error {
	switch o := obj.(type) {
	case *runtime.List:
		i, ok := index.(runtime.Int)
		if !ok {
			return vm.errAt(instr, "list index must be int")
		}
		elems := o.Get()
		if int(i) < 0 || int(i) >= len(elems) {
			return vm.errAt(instr, "list index %d out of range", i)
		}
		elems[i] = value
		o.Set(elems)
		return nil
	case *runtime.Map:
		o.Set(runtime.ToString(index), value)
		return nil
	}
	return vm.errAt(instr, "cannot index-assign on %s", runtime.TypeOfName(obj))
}
