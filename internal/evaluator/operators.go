// Binary/unary operator dispatch (spec §4.3 "Binary operator table").
// Grounded on the teacher's internal/evaluator/expressions_operators.go,
// which implements the same per-operator type-pair switch shape.
package evaluator

import (
	"math"
	"math/big"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/token"
)

func (e *Evaluator) applyBinaryOp(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	switch op {
	case "+":
		return e.opAdd(left, right, pos)
	case "-", "*", "/", "%", "**":
		return e.opArith(op, left, right, pos)
	case "&", "|", "^", "<<", ">>", ">>>":
		return e.opBitwise(op, left, right, pos)
	case "==":
		return runtime.Bool(runtime.StructuralEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.StructuralEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		return e.opCompare(op, left, right, pos)
	case "??":
		if runtime.IsNull(left) {
			return right, nil
		}
		return left, nil
	default:
		return nil, e.err(pos, "unknown binary operator %q", op)
	}
}

// opAdd: "str+any and any+str concatenate via to_string for + only".
func (e *Evaluator) opAdd(left, right runtime.Value, pos token.Position) (runtime.Value, error) {
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
	if _, ok := right.(runtime.Str); ok {
		return runtime.Str(runtime.ToString(left)) + right.(runtime.Str), nil
	}
	return nil, e.err(pos, "invalid operands for + : %s, %s", runtime.TypeOfName(left), runtime.TypeOfName(right))
}

func (e *Evaluator) opArith(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	li, liok := left.(runtime.Int)
	ri, riok := right.(runtime.Int)
	lf, lfok := left.(runtime.Float)
	rf, rfok := right.(runtime.Float)

	switch op {
	case "/":
		// "division of two ints yields float" (spec §4.3).
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
			return nil, e.err(pos, "invalid operands for /")
		}
		if b == 0 {
			return nil, e.err(pos, "division by zero")
		}
		return runtime.Float(a / b), nil
	case "%":
		// "modulo requires int operands" (spec §4.3).
		if !liok || !riok {
			return nil, e.err(pos, "modulo requires int operands")
		}
		if ri == 0 {
			return nil, e.err(pos, "modulo by zero")
		}
		return li % ri, nil
	case "**":
		return e.opExponent(li, liok, ri, riok, lf, lfok, rf, rfok, pos)
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
			return nil, e.err(pos, "invalid operands for %s: %s, %s", op, runtime.TypeOfName(left), runtime.TypeOfName(right))
		}
		if op == "-" {
			return runtime.Float(a - b), nil
		}
		return runtime.Float(a * b), nil
	}
	return nil, e.err(pos, "unsupported arithmetic operator %q", op)
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

// opExponent: "int^int requires non-negative exponent; mixed with float
// promotes to float" (spec §4.3).
func (e *Evaluator) opExponent(li runtime.Int, liok bool, ri runtime.Int, riok bool, lf runtime.Float, lfok bool, rf runtime.Float, rfok bool, pos token.Position) (runtime.Value, error) {
	if liok && riok {
		if ri < 0 {
			return nil, e.err(pos, "int exponent must be non-negative")
		}
		result := big.NewInt(1)
		base := big.NewInt(int64(li))
		exp := big.NewInt(int64(ri))
		result.Exp(base, exp, nil)
		if result.IsInt64() {
			return runtime.Int(result.Int64()), nil
		}
		return runtime.BigInt{V: result}, nil
	}
	a, aok := asFloat2(li, liok, lf, lfok)
	b, bok := asFloat2(ri, riok, rf, rfok)
	if !aok || !bok {
		return nil, e.err(pos, "invalid operands for **")
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

func (e *Evaluator) opBitwise(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
	li, liok := left.(runtime.Int)
	ri, riok := right.(runtime.Int)
	if !liok || !riok {
		return nil, e.err(pos, "bitwise operator %q requires int operands", op)
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
		// "unsigned right shift performs an unsigned interpretation of
		// the signed integer" (spec §4.3).
		return runtime.Int(uint64(li) >> uint(ri)), nil
	}
	return nil, e.err(pos, "unsupported bitwise operator %q", op)
}

func (e *Evaluator) opCompare(op string, left, right runtime.Value, pos token.Position) (runtime.Value, error) {
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
	return nil, e.err(pos, "invalid operands for %s: %s, %s", op, runtime.TypeOfName(left), runtime.TypeOfName(right))
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

func (e *Evaluator) applyUnaryOp(op string, operand runtime.Value, pos token.Position) (runtime.Value, error) {
	switch op {
	case "-":
		switch n := operand.(type) {
		case runtime.Int:
			return -n, nil
		case runtime.Float:
			return -n, nil
		}
		return nil, e.err(pos, "invalid operand for unary -: %s", runtime.TypeOfName(operand))
	case "!":
		return runtime.Bool(!runtime.IsTruthy(operand)), nil
	case "~":
		n, ok := operand.(runtime.Int)
		if !ok {
			return nil, e.err(pos, "invalid operand for ~: %s", runtime.TypeOfName(operand))
		}
		return ^n, nil
	default:
		return nil, e.err(pos, "unknown unary operator %q", op)
	}
}
