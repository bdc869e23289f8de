package ir

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/token"
)

// compileExpr lowers one expression, returning the register holding its
// result. Every case allocates at most one fresh Temp register per
// evaluated subexpression (spec §4.6 "Compilation rules").
func (c *Compiler) compileExpr(expr ast.Expression, out *Program) (Register, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpLoad, Pos: e.Token.Position, Dst: dst, Name: e.Value})
		return dst, nil
	case *ast.IntLiteral:
		return c.emitConst(e.Token.Position, e.Value, out), nil
	case *ast.BigIntLiteral:
		return c.emitConst(e.Token.Position, e.Value, out), nil
	case *ast.FloatLiteral:
		return c.emitConst(e.Token.Position, e.Value, out), nil
	case *ast.StringLiteral:
		return c.emitConst(e.Token.Position, e.Value, out), nil
	case *ast.BoolLiteral:
		return c.emitConst(e.Token.Position, e.Value, out), nil
	case *ast.NullLiteral:
		return c.emitConst(e.Token.Position, nil, out), nil
	case *ast.ListLiteral:
		elems := make([]Register, 0, len(e.Elements))
		for _, el := range e.Elements {
			r, err := c.compileExpr(el, out)
			if err != nil {
				return Register{}, err
			}
			elems = append(elems, r)
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpCreateArray, Pos: e.Token.Position, Dst: dst, Args: elems})
		return dst, nil
	case *ast.MapLiteral:
		args := make([]Register, 0, len(e.Entries)*2)
		for _, entry := range e.Entries {
			k, err := c.compileExpr(entry.Key, out)
			if err != nil {
				return Register{}, err
			}
			v, err := c.compileExpr(entry.Value, out)
			if err != nil {
				return Register{}, err
			}
			args = append(args, k, v)
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpCreateObject, Pos: e.Token.Position, Dst: dst, Args: args})
		return dst, nil
	case *ast.BinaryExpr:
		left, err := c.compileExpr(e.Left, out)
		if err != nil {
			return Register{}, err
		}
		right, err := c.compileExpr(e.Right, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpBinaryOp, Pos: e.Token.Position, Dst: dst, Src1: left, Src2: right, Operator: e.Op})
		return dst, nil
	case *ast.LogicalExpr:
		return c.compileLogical(e, out)
	case *ast.UnaryExpr:
		operand, err := c.compileExpr(e.Operand, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpUnaryOp, Pos: e.Token.Position, Dst: dst, Src1: operand, Operator: e.Op})
		return dst, nil
	case *ast.AssignExpr:
		return c.compileAssign(e, out)
	case *ast.CallExpr:
		return c.compileCall(e, out)
	case *ast.ThisExpr:
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpLoad, Pos: e.Token.Position, Dst: dst, Name: "this"})
		return dst, nil
	case *ast.MemberExpr:
		obj, err := c.compileExpr(e.Object, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		instr := Instr{Op: OpLoadProperty, Pos: e.Token.Position, Dst: dst, Src1: obj, Name: e.Property}
		if e.Optional {
			instr.Op = OpOptionalChain
		}
		out.Emit(instr)
		return dst, nil
	case *ast.IndexExpr:
		obj, err := c.compileExpr(e.Object, out)
		if err != nil {
			return Register{}, err
		}
		idx, err := c.compileExpr(e.Index, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpLoadIndex, Pos: e.Token.Position, Dst: dst, Src1: obj, Src2: idx})
		return dst, nil
	case *ast.MethodCallExpr:
		recv, err := c.compileExpr(e.Receiver, out)
		if err != nil {
			return Register{}, err
		}
		args := make([]Register, 0, len(e.Args))
		for _, a := range e.Args {
			r, err := c.compileExpr(a, out)
			if err != nil {
				return Register{}, err
			}
			args = append(args, r)
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpMethodCall, Pos: e.Token.Position, Dst: dst, Src1: recv, Name: e.Method, Args: args})
		return dst, nil
	case *ast.NullAssertExpr:
		operand, err := c.compileExpr(e.Operand, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpUnaryOp, Pos: e.Token.Position, Dst: dst, Src1: operand, Operator: "!assert"})
		return dst, nil
	case *ast.NullCoalesceExpr:
		left, err := c.compileExpr(e.Left, out)
		if err != nil {
			return Register{}, err
		}
		right, err := c.compileExpr(e.Right, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpNullCoalesce, Pos: e.Token.Position, Dst: dst, Src1: left, Src2: right})
		return dst, nil
	case *ast.RangeExpr:
		from, err := c.compileExpr(e.From, out)
		if err != nil {
			return Register{}, err
		}
		to, err := c.compileExpr(e.To, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpCreateRange, Pos: e.Token.Position, Dst: dst, Src1: from, Src2: to})
		return dst, nil
	case *ast.TypeofExpr:
		operand, err := c.compileExpr(e.Operand, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpTypeOf, Pos: e.Token.Position, Dst: dst, Src1: operand})
		return dst, nil
	case *ast.InstanceofExpr:
		operand, err := c.compileExpr(e.Operand, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpInstanceOf, Pos: e.Token.Position, Dst: dst, Src1: operand, Name: e.TypeName})
		return dst, nil
	case *ast.TemplateStringExpr:
		return c.compileTemplate(e, out)
	case *ast.TaggedTemplateExpr:
		return c.compileTaggedTemplate(e, out)
	case *ast.MatchExpr:
		return c.compileMatch(e, out)
	case *ast.ArrowFunctionExpr:
		return c.compileArrow(e, out)
	case *ast.NewExpr:
		return c.compileNew(e, out)
	case *ast.AwaitExpr:
		operand, err := c.compileExpr(e.Operand, out)
		if err != nil {
			return Register{}, err
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpAwait, Pos: e.Token.Position, Dst: dst, Src1: operand})
		return dst, nil
	case *ast.ClassExpr:
		return Register{}, c.errf(e, "IR compilation of anonymous class expressions is not supported; use the tree-walking evaluator for this program")
	case *ast.SuperExpr:
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpLoad, Pos: e.Token.Position, Dst: dst, Name: "super"})
		return dst, nil
	}
	return Register{}, c.errf(expr, "ir: unhandled expression type %T", expr)
}

func (c *Compiler) emitConst(pos token.Position, value interface{}, out *Program) Register {
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpLoadConst, Pos: pos, Dst: dst, Const: value})
	return dst
}

// compileLogical short-circuits &&/|| by jumping around the right-hand
// side's evaluation, then moving whichever operand actually produced the
// result into Dst (spec §4.3: "&&/|| return the operand, not a bool").
func (c *Compiler) compileLogical(e *ast.LogicalExpr, out *Program) (Register, error) {
	left, err := c.compileExpr(e.Left, out)
	if err != nil {
		return Register{}, err
	}
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpMove, Pos: e.Token.Position, Dst: dst, Src1: left})
	skip := c.NewLabel("logical_skip")
	if e.Op == "&&" {
		out.Emit(Instr{Op: OpJumpIfFalse, Pos: e.Token.Position, Src1: left, Label: skip})
	} else {
		out.Emit(Instr{Op: OpJumpIfTrue, Pos: e.Token.Position, Src1: left, Label: skip})
	}
	right, err := c.compileExpr(e.Right, out)
	if err != nil {
		return Register{}, err
	}
	out.Emit(Instr{Op: OpMove, Pos: e.Token.Position, Dst: dst, Src1: right})
	out.Emit(Instr{Op: OpLabel, Label: skip})
	return dst, nil
}

func (c *Compiler) compileAssign(e *ast.AssignExpr, out *Program) (Register, error) {
	value, err := c.compileExpr(e.Value, out)
	if err != nil {
		return Register{}, err
	}
	result := value
	if e.Op != "=" {
		current, err := c.compileExpr(e.Target, out)
		if err != nil {
			return Register{}, err
		}
		combined := c.NewTemp()
		out.Emit(Instr{Op: OpBinaryOp, Pos: e.Token.Position, Dst: combined, Src1: current, Src2: value, Operator: compoundBaseOp(e.Op)})
		result = combined
	}
	switch target := e.Target.(type) {
	case *ast.Identifier:
		out.Emit(Instr{Op: OpStore, Pos: e.Token.Position, Dst: Local(target.Value), Src1: result, Name: target.Value})
	case *ast.MemberExpr:
		obj, err := c.compileExpr(target.Object, out)
		if err != nil {
			return Register{}, err
		}
		out.Emit(Instr{Op: OpStoreProperty, Pos: e.Token.Position, Src1: obj, Src2: result, Name: target.Property})
	case *ast.IndexExpr:
		obj, err := c.compileExpr(target.Object, out)
		if err != nil {
			return Register{}, err
		}
		idx, err := c.compileExpr(target.Index, out)
		if err != nil {
			return Register{}, err
		}
		out.Emit(Instr{Op: OpStoreIndex, Pos: e.Token.Position, Src1: obj, Src2: idx, Dst: result})
	default:
		return Register{}, c.errf(e, "ir: unsupported assignment target %T", e.Target)
	}
	return result, nil
}

// compoundBaseOp strips the trailing "=" from a compound assignment
// operator ("+=" -> "+"), matching how the tree-walker desugars these at
// evaluation time (evalAssignExpr in internal/evaluator/expressions_assign.go).
func compoundBaseOp(op string) string {
	if len(op) > 1 && op[len(op)-1] == '=' {
		return op[:len(op)-1]
	}
	return op
}

func (c *Compiler) compileCall(e *ast.CallExpr, out *Program) (Register, error) {
	if _, ok := e.Callee.(*ast.SuperExpr); ok {
		args := make([]Register, 0, len(e.Args))
		for _, a := range e.Args {
			r, err := c.compileExpr(a, out)
			if err != nil {
				return Register{}, err
			}
			args = append(args, r)
		}
		dst := c.NewTemp()
		out.Emit(Instr{Op: OpMethodCall, Pos: e.Token.Position, Dst: dst, Name: "__super_ctor__", Args: args})
		return dst, nil
	}
	callee, err := c.compileExpr(e.Callee, out)
	if err != nil {
		return Register{}, err
	}
	args := make([]Register, 0, len(e.Args))
	for _, a := range e.Args {
		r, err := c.compileExpr(a, out)
		if err != nil {
			return Register{}, err
		}
		args = append(args, r)
	}
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpCall, Pos: e.Token.Position, Dst: dst, Src1: callee, Args: args})
	return dst, nil
}

func (c *Compiler) compileTemplate(e *ast.TemplateStringExpr, out *Program) (Register, error) {
	parts := make([]Register, 0, len(e.Parts))
	for _, p := range e.Parts {
		if p.Expr == nil {
			parts = append(parts, c.emitConst(e.Token.Position, p.Literal, out))
			continue
		}
		r, err := c.compileExpr(p.Expr, out)
		if err != nil {
			return Register{}, err
		}
		parts = append(parts, r)
	}
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpCreateTemplate, Pos: e.Token.Position, Dst: dst, Args: parts})
	return dst, nil
}

// compileTaggedTemplate builds a raw-strings array and a values array and
// calls Tag(strings, ...values) (spec §4.1 "Tagged templates").
func (c *Compiler) compileTaggedTemplate(e *ast.TaggedTemplateExpr, out *Program) (Register, error) {
	rawRegs := make([]Register, 0, len(e.Raw))
	for _, s := range e.Raw {
		rawRegs = append(rawRegs, c.emitConst(e.Token.Position, s, out))
	}
	rawArr := c.NewTemp()
	out.Emit(Instr{Op: OpCreateArray, Pos: e.Token.Position, Dst: rawArr, Args: rawRegs})

	valueRegs := make([]Register, 0, len(e.Values))
	for _, v := range e.Values {
		r, err := c.compileExpr(v, out)
		if err != nil {
			return Register{}, err
		}
		valueRegs = append(valueRegs, r)
	}
	tag, err := c.compileExpr(e.Tag, out)
	if err != nil {
		return Register{}, err
	}
	dst := c.NewTemp()
	args := append([]Register{rawArr}, valueRegs...)
	out.Emit(Instr{Op: OpCall, Pos: e.Token.Position, Dst: dst, Src1: tag, Args: args})
	return dst, nil
}

// compileMatch lowers a match expression into a single Match instruction
// carrying compiled guard/body sub-programs per arm (spec §4.6 "Match{
// arms: {pattern, guard?, body: nested IR} }"). Fallthrough on guard
// failure (spec §9 open question #4's redesign) is a VM execution
// concern, not a compile-time one: the VM tries arms in order and moves
// to the next arm whenever a guard evaluates false.
func (c *Compiler) compileMatch(e *ast.MatchExpr, out *Program) (Register, error) {
	scrutinee, err := c.compileExpr(e.Scrutinee, out)
	if err != nil {
		return Register{}, err
	}
	arms := make([]MatchArm, 0, len(e.Arms))
	for _, arm := range e.Arms {
		var guardProg *Program
		if arm.Guard != nil {
			guardProg = &Program{}
			guardInner := &Compiler{Counters: c.Counters}
			if _, err := guardInner.compileExpr(arm.Guard, guardProg); err != nil {
				return Register{}, err
			}
			c.Counters = guardInner.Counters
		}
		bodyProg := &Program{}
		bodyInner := &Compiler{Counters: c.Counters}
		if _, err := bodyInner.compileExpr(arm.Body, bodyProg); err != nil {
			return Register{}, err
		}
		c.Counters = bodyInner.Counters
		arms = append(arms, MatchArm{Pattern: arm.Pattern, Guard: guardProg, Body: bodyProg})
	}
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpMatch, Pos: e.Token.Position, Dst: dst, Src1: scrutinee, Arms: arms})
	return dst, nil
}

func (c *Compiler) compileArrow(e *ast.ArrowFunctionExpr, out *Program) (Register, error) {
	nested := &Program{}
	inner := &Compiler{}
	names, err := inner.bindParams(e.Params, nested, e.Token.Position)
	if err != nil {
		return Register{}, err
	}
	if e.BlockBody != nil {
		for _, st := range e.BlockBody.Stmts {
			if err := inner.compileStmt(st, nested); err != nil {
				return Register{}, err
			}
		}
	} else {
		result, err := inner.compileExpr(e.ExprBody, nested)
		if err != nil {
			return Register{}, err
		}
		nested.Emit(Instr{Op: OpReturn, Pos: e.Token.Position, Src1: result})
	}
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpCreateFunction, Pos: e.Token.Position, Dst: dst, Nested: nested, IsAsync: e.IsAsync, Params: names})
	return dst, nil
}

func (c *Compiler) compileNew(e *ast.NewExpr, out *Program) (Register, error) {
	args := make([]Register, 0, len(e.Args))
	for _, a := range e.Args {
		r, err := c.compileExpr(a, out)
		if err != nil {
			return Register{}, err
		}
		args = append(args, r)
	}
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpNewInstance, Pos: e.Token.Position, Dst: dst, Name: e.ClassName, Args: args})
	return dst, nil
}
