// Builtin property/method tables for primitive and collection values
// (spec §4.3 "Builtin method tables"). Grounded on the teacher's
// internal/evaluator/builtins_string.go / builtins_array.go per-kind
// table shape, generalized to this spec's method names.
package evaluator

import (
	"fmt"
	"strings"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/token"
)

func (e *Evaluator) listBuiltinMember(l *runtime.List, prop string, pos token.Position) (runtime.Value, error) {
	elems := l.Get()
	switch prop {
	case "length":
		return runtime.Int(len(elems)), nil
	case "first":
		if len(elems) == 0 {
			return runtime.Null, nil
		}
		return elems[0], nil
	case "last":
		if len(elems) == 0 {
			return runtime.Null, nil
		}
		return elems[len(elems)-1], nil
	default:
		return nil, e.err(pos, "no property %q on list", prop)
	}
}

func (e *Evaluator) mapBuiltinMember(m *runtime.Map, prop string, pos token.Position) (runtime.Value, error) {
	switch prop {
	case "size":
		return runtime.Int(m.Len()), nil
	default:
		return nil, e.err(pos, "no property %q on map", prop)
	}
}

func (e *Evaluator) strBuiltinMember(s runtime.Str, prop string, pos token.Position) (runtime.Value, error) {
	switch prop {
	case "length":
		return runtime.Int(len([]rune(string(s)))), nil
	case "isEmpty":
		return runtime.Bool(len(s) == 0), nil
	default:
		return nil, e.err(pos, "no property %q on str", prop)
	}
}

// builtinMethodCall dispatches `.method(args)` calls against values that
// have no user-defined method of that name: strings, lists, maps, and
// futures (spec §4.2 thenable methods, §4.3 builtin method tables).
func (e *Evaluator) builtinMethodCall(recv runtime.Value, method string, args []runtime.Value, env *runtime.Environment, pos token.Position) (runtime.Value, error) {
	switch r := recv.(type) {
	case runtime.Str:
		return e.strMethod(r, method, args, pos)
	case *runtime.List:
		switch method {
		case "map", "filter", "forEach", "find", "findIndex", "some", "every", "reduce":
			if len(args) == 0 {
				return nil, e.err(pos, "%s requires a callback", method)
			}
			return e.listMethodHO(r, method, args[0], args[1:], pos)
		default:
			return e.listMethod(r, method, args, pos)
		}
	case *runtime.Map:
		return e.mapMethod(r, method, args, pos)
	case *runtime.Future:
		return e.futureMethod(r, method, args, pos)
	default:
		return nil, e.err(pos, "no method %q on %s", method, runtime.TypeOfName(recv))
	}
}

func argStr(args []runtime.Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(runtime.Str)
	return string(s), ok
}

func argInt(args []runtime.Value, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, ok := args[i].(runtime.Int)
	return int(n), ok
}

func (e *Evaluator) strMethod(s runtime.Str, method string, args []runtime.Value, pos token.Position) (runtime.Value, error) {
	str := string(s)
	switch method {
	case "toUpper":
		return runtime.Str(strings.ToUpper(str)), nil
	case "toLower":
		return runtime.Str(strings.ToLower(str)), nil
	case "trim":
		return runtime.Str(strings.TrimSpace(str)), nil
	case "trimStart":
		return runtime.Str(strings.TrimLeft(str, " \t\n\r")), nil
	case "trimEnd":
		return runtime.Str(strings.TrimRight(str, " \t\n\r")), nil
	case "split":
		sep, _ := argStr(args, 0)
		parts := strings.Split(str, sep)
		out := make([]runtime.Value, len(parts))
		for i, p := range parts {
			out[i] = runtime.Str(p)
		}
		return runtime.NewList(out, nil), nil
	case "replace":
		old, _ := argStr(args, 0)
		nw, _ := argStr(args, 1)
		return runtime.Str(strings.ReplaceAll(str, old, nw)), nil
	case "startsWith":
		p, _ := argStr(args, 0)
		return runtime.Bool(strings.HasPrefix(str, p)), nil
	case "endsWith":
		p, _ := argStr(args, 0)
		return runtime.Bool(strings.HasSuffix(str, p)), nil
	case "contains":
		p, _ := argStr(args, 0)
		return runtime.Bool(strings.Contains(str, p)), nil
	case "indexOf":
		p, _ := argStr(args, 0)
		return runtime.Int(strings.Index(str, p)), nil
	case "lastIndexOf":
		p, _ := argStr(args, 0)
		return runtime.Int(strings.LastIndex(str, p)), nil
	case "slice":
		runes := []rune(str)
		start, _ := argInt(args, 0)
		end := len(runes)
		if e2, ok := argInt(args, 1); ok {
			end = e2
		}
		start, end = clampSlice(start, end, len(runes))
		return runtime.Str(string(runes[start:end])), nil
	case "repeat":
		n, _ := argInt(args, 0)
		if n < 0 {
			return nil, e.err(pos, "repeat count must be non-negative")
		}
		return runtime.Str(strings.Repeat(str, n)), nil
	case "padStart":
		n, _ := argInt(args, 0)
		pad, ok := argStr(args, 1)
		if !ok {
			pad = " "
		}
		return runtime.Str(padString(str, n, pad, true)), nil
	case "padEnd":
		n, _ := argInt(args, 0)
		pad, ok := argStr(args, 1)
		if !ok {
			pad = " "
		}
		return runtime.Str(padString(str, n, pad, false)), nil
	case "charCodeAt":
		i, _ := argInt(args, 0)
		runes := []rune(str)
		if i < 0 || i >= len(runes) {
			return nil, e.err(pos, "charCodeAt index out of range: %d", i)
		}
		return runtime.Int(runes[i]), nil
	default:
		return nil, e.err(pos, "no method %q on str", method)
	}
}

func clampSlice(start, end, n int) (int, int) {
	if start < 0 {
		start = n + start
	}
	if end < 0 {
		end = n + end
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

func padString(s string, n int, pad string, start bool) string {
	if pad == "" || len([]rune(s)) >= n {
		return s
	}
	need := n - len([]rune(s))
	var b strings.Builder
	for b.Len() < need*len(pad) {
		b.WriteString(pad)
	}
	padding := string([]rune(b.String())[:need])
	if start {
		return padding + s
	}
	return s + padding
}

func (e *Evaluator) listMethod(l *runtime.List, method string, args []runtime.Value, pos token.Position) (runtime.Value, error) {
	elems := l.Get()
	switch method {
	case "push":
		l.Set(append(elems, args...))
		return runtime.Int(len(l.Get())), nil
	case "pop":
		if len(elems) == 0 {
			return runtime.Null, nil
		}
		last := elems[len(elems)-1]
		l.Set(elems[:len(elems)-1])
		return last, nil
	case "slice":
		start, _ := argInt(args, 0)
		end := len(elems)
		if e2, ok := argInt(args, 1); ok {
			end = e2
		}
		start, end = clampSlice(start, end, len(elems))
		out := append([]runtime.Value(nil), elems[start:end]...)
		return runtime.NewList(out, l.ElementType), nil
	case "join":
		sep, ok := argStr(args, 0)
		if !ok {
			sep = ","
		}
		parts := make([]string, len(elems))
		for i, el := range elems {
			parts[i] = runtime.ToString(el)
		}
		return runtime.Str(strings.Join(parts, sep)), nil
	case "reverse":
		out := make([]runtime.Value, len(elems))
		for i, el := range elems {
			out[len(elems)-1-i] = el
		}
		return runtime.NewList(out, l.ElementType), nil
	case "indexOf":
		if len(args) == 0 {
			return runtime.Int(-1), nil
		}
		for i, el := range elems {
			if runtime.StructuralEqual(el, args[0]) {
				return runtime.Int(i), nil
			}
		}
		return runtime.Int(-1), nil
	case "contains":
		if len(args) == 0 {
			return runtime.Bool(false), nil
		}
		for _, el := range elems {
			if runtime.StructuralEqual(el, args[0]) {
				return runtime.Bool(true), nil
			}
		}
		return runtime.Bool(false), nil
	default:
		return nil, e.err(pos, "no method %q on list", method)
	}
}

// listMethodHO dispatches the higher-order array methods (map/filter/
// reduce/forEach/find/findIndex/some/every) that call back into a
// user-supplied function - kept separate from listMethod because it
// needs e.callValue rather than just the raw args; it receives the
// already-evaluated callback as fn and any further arguments as extra.
func (e *Evaluator) listMethodHO(l *runtime.List, method string, fn runtime.Value, extra []runtime.Value, pos token.Position) (runtime.Value, error) {
	elems := l.Get()
	switch method {
	case "map":
		out := make([]runtime.Value, len(elems))
		for i, el := range elems {
			v, err := e.callValue(fn, []runtime.Value{el, runtime.Int(i)}, nil, pos)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return runtime.NewList(out, nil), nil
	case "filter":
		out := []runtime.Value{}
		for i, el := range elems {
			v, err := e.callValue(fn, []runtime.Value{el, runtime.Int(i)}, nil, pos)
			if err != nil {
				return nil, err
			}
			if runtime.IsTruthy(v) {
				out = append(out, el)
			}
		}
		return runtime.NewList(out, l.ElementType), nil
	case "forEach":
		for i, el := range elems {
			if _, err := e.callValue(fn, []runtime.Value{el, runtime.Int(i)}, nil, pos); err != nil {
				return nil, err
			}
		}
		return runtime.Null, nil
	case "find":
		for i, el := range elems {
			v, err := e.callValue(fn, []runtime.Value{el, runtime.Int(i)}, nil, pos)
			if err != nil {
				return nil, err
			}
			if runtime.IsTruthy(v) {
				return el, nil
			}
		}
		return runtime.Null, nil
	case "findIndex":
		for i, el := range elems {
			v, err := e.callValue(fn, []runtime.Value{el, runtime.Int(i)}, nil, pos)
			if err != nil {
				return nil, err
			}
			if runtime.IsTruthy(v) {
				return runtime.Int(i), nil
			}
		}
		return runtime.Int(-1), nil
	case "some":
		for i, el := range elems {
			v, err := e.callValue(fn, []runtime.Value{el, runtime.Int(i)}, nil, pos)
			if err != nil {
				return nil, err
			}
			if runtime.IsTruthy(v) {
				return runtime.Bool(true), nil
			}
		}
		return runtime.Bool(false), nil
	case "every":
		for i, el := range elems {
			v, err := e.callValue(fn, []runtime.Value{el, runtime.Int(i)}, nil, pos)
			if err != nil {
				return nil, err
			}
			if !runtime.IsTruthy(v) {
				return runtime.Bool(false), nil
			}
		}
		return runtime.Bool(true), nil
	case "reduce":
		var acc runtime.Value
		start := 0
		if len(extra) > 0 {
			acc = extra[0]
		} else {
			if len(elems) == 0 {
				return nil, e.err(pos, "reduce of empty list with no initial value")
			}
			acc = elems[0]
			start = 1
		}
		for i := start; i < len(elems); i++ {
			v, err := e.callValue(fn, []runtime.Value{acc, elems[i], runtime.Int(i)}, nil, pos)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	default:
		return nil, fmt.Errorf("unsupported higher-order method %q", method)
	}
}

func (e *Evaluator) mapMethod(m *runtime.Map, method string, args []runtime.Value, pos token.Position) (runtime.Value, error) {
	switch method {
	case "get":
		k, _ := argStr(args, 0)
		v, ok := m.Get(k)
		if !ok {
			return runtime.Null, nil
		}
		return v, nil
	case "set":
		k, _ := argStr(args, 0)
		if len(args) < 2 {
			return nil, e.err(pos, "map.set requires a value")
		}
		m.Set(k, args[1])
		return m, nil
	case "has":
		k, _ := argStr(args, 0)
		_, ok := m.Get(k)
		return runtime.Bool(ok), nil
	case "delete":
		k, _ := argStr(args, 0)
		_, existed := m.Get(k)
		m.Delete(k)
		return runtime.Bool(existed), nil
	case "keys":
		keys := m.Keys()
		out := make([]runtime.Value, len(keys))
		for i, k := range keys {
			out[i] = runtime.Str(k)
		}
		return runtime.NewList(out, nil), nil
	case "values":
		keys := m.Keys()
		out := make([]runtime.Value, len(keys))
		for i, k := range keys {
			v, _ := m.Get(k)
			out[i] = v
		}
		return runtime.NewList(out, nil), nil
	default:
		return nil, e.err(pos, "no method %q on map", method)
	}
}
