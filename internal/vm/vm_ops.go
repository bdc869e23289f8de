// Binary/unary operator evaluation for the register VM (spec §4.3 "Binary
// operator table"). Duplicated from, and kept semantically identical to,
// the tree-walker's internal/evaluator/operators.go rather than shared
// across packages: those are unexported methods on *evaluator.Evaluator,
// and the teacher keeps its own vm_ops.go entirely separate from its
// evaluator package rather than exporting evaluator internals for reuse.
package vm

import (
	"math"
	"math/big"

	"github.com/raccoon-lang/raccoon/internal/rerr"
	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/token"
)

func applyBinaryOp(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	switch op {
	case "+":
		return opAdd(left, right, pos)
	case "-", "*", "/", "%", "**":
		return opArith(op, left, right, pos)
	case "&", "|", "^", "<<", ">>", ">>>":
		return opBitwise(op, left, right, pos)
	case "==":
		return runtime.Bool(runtime.StructuralEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.StructuralEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		return opCompare(op, left, right, pos)
	case "??":
		if runtime.IsNull(left) {
			return right, nil
		}
		return left, nil
	}
	return nil, rerr.Newf(pos, "unknown binary operator %q", op)
}

func opAdd(left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	if li, ok := left.(runtime.Int); ok {
		if ri, ok := right.(runtime.Int); ok {
			return li + ri, nil
		}
		if rf, ok := right.(runtime.Float); ok {
			return runtime.Float(float64(li)) + rf, nil
		}
	}
	if lf, ok := left.(runtime.Float); ok {
		if rf, ok := right.(runtime.Float); ok {
			return lf + rf, nil
		}
		if ri, ok := right.(runtime.Int); ok {
			return lf + runtime.Float(float64(ri)), nil
		}
	}
	if ls, ok := left.(runtime.Str); ok {
		if rs, ok := right.(runtime.Str); ok {
			return ls + rs, nil
		}
		return ls + runtime.Str(runtime.ToString(right)), nil
	}
	if rs, ok := right.(runtime.Str); ok {
		return runtime.Str(runtime.ToString(left)) + rs, nil
	}
	return nil, rerr.Newf(pos, "invalid operands for + : %s, %s", runtime.TypeOfName(left), runtime.TypeOfName(right))
}

func opArith(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	li, liok := left.(runtime.Int)
	ri, riok := right.(runtime.Int)
	lf, lfok := left.(runtime.Float)
	rf, rfok := right.(runtime.Float)

	switch op {
	case "/":
		var a, b float64
		switch {
		case liok && riok:
			a, b = float64(li), float64(ri)
		case liok && rfok:
			a, b = float64(li), float64(rf)
		case lfok && riok:
			a, b = float64(lf), float64(ri)
		case lfok && rfok:
			a, b = float64(lf), float64(rf)
		default:
			return nil, rerr.Newf(pos, "invalid operands for /")
		}
		if b == 0 {
			return nil, rerr.Newf(pos, "division by zero")
		}
		return runtime.Float(a / b), nil
	case "%":
		if !liok || !riok {
			return nil, rerr.Newf(pos, "modulo requires int operands")
		}
		if ri == 0 {
			return nil, rerr.Newf(pos, "modulo by zero")
		}
		return li % ri, nil
	case "**":
		return opExponent(li, liok, ri, riok, lf, lfok, rf, rfok, pos)
	case "-", "*":
		if liok && riok {
			if op == "-" {
				return li - ri, nil
			}
			return li * ri, nil
		}
		a, aok := asFloat(left)
		b, bok := asFloat(right)
		if !aok || !bok {
			return nil, rerr.Newf(pos, "invalid operands for %s: %s, %s", op, runtime.TypeOfName(left), runtime.TypeOfName(right))
		}
		if op == "-" {
			return runtime.Float(a - b), nil
		}
		return runtime.Float(a * b), nil
	}
	return nil, rerr.Newf(pos, "unsupported arithmetic operator %q", op)
}

func asFloat(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.Int:
		return float64(n), true
	case runtime.Float:
		return float64(n), true
	}
	return 0, false
}

func opExponent(li runtime.Int, liok bool, ri runtime.Int, riok bool, lf runtime.Float, lfok bool, rf runtime.Float, rfok bool, pos token.Position) (runtime.Value, error) {
	if liok && riok {
		if ri < 0 {
			return nil, rerr.Newf(pos, "int exponent must be non-negative")
		}
		result := big.NewInt(1)
		result.Exp(big.NewInt(int64(li)), big.NewInt(int64(ri)), nil)
		if result.IsInt64() {
			return runtime.Int(result.Int64()), nil
		}
		return runtime.BigInt{V: result}, nil
	}
	a, aok := asFloat2(li, liok, lf, lfok)
	b, bok := asFloat2(ri, riok, rf, rfok)
	if !aok || !bok {
		return nil, rerr.Newf(pos, "invalid operands for **")
	}
	return runtime.Float(math.Pow(a, b)), nil
}

func asFloat2(i runtime.Int, iok bool, f runtime.Float, fok bool) (float64, bool) {
	if iok {
		return float64(i), true
	}
	if fok {
		return float64(f), true
	}
	return 0, false
}

func opBitwise(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	li, liok := left.(runtime.Int)
	ri, riok := right.(runtime.Int)
	if !liok || !riok {
		return nil, rerr.Newf(pos, "bitwise operator %q requires int operands", op)
	}
	switch op {
	case "&":
		return li & ri, nil
	case "|":
		return li | ri, nil
	case "^":
		return li ^ ri, nil
	case "<<":
		return li << uint(ri), nil
	case ">>":
		return li >> uint(ri), nil
	case ">>>":
		return runtime.Int(uint64(li) >> uint(ri)), nil
	}
	return nil, rerr.Newf(pos, "unsupported bitwise operator %q", op)
}

func opCompare(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	a, aok := asFloat(left)
	b, bok := asFloat(right)
	if aok && bok {
		return runtime.Bool(compareFloats(op, a, b)), nil
	}
	ls, lsok := left.(runtime.Str)
	rs, rsok := right.(runtime.Str)
	if lsok && rsok {
		return runtime.Bool(compareStrings(op, string(ls), string(rs))), nil
	}
	return nil, rerr.Newf(pos, "invalid operands for %s: %s, %s", op, runtime.TypeOfName(left), runtime.TypeOfName(right))
}

func compareFloats(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func compareStrings(op string, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func applyUnaryOp(op string, operand runtime.Value, pos token.Position) (runtime.Value, error) {
	switch op {
	case "-":
		switch n := operand.(type) {
		case runtime.Int:
			return -n, nil
		case runtime.Float:
			return -n, nil
		}
		return nil, rerr.Newf(pos, "invalid operand for unary -: %s", runtime.TypeOfName(operand))
	case "!":
		return runtime.Bool(!runtime.IsTruthy(operand)), nil
	case "~":
		n, ok := operand.(runtime.Int)
		if !ok {
			return nil, rerr.Newf(pos, "invalid operand for ~: %s", runtime.TypeOfName(operand))
		}
		return ^n, nil
	case "!assert":
		if runtime.IsNull(operand) {
			return nil, rerr.Newf(pos, "null assertion failed")
		}
		return operand, nil
	}
	return nil, rerr.Newf(pos, "unknown unary operator %q", op)
}
