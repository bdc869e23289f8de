// Compiler lowers an ast.Program into the linear IR of ir.go (spec §4.6
// "Compilation rules"). Grounded on the teacher's internal/vm/compiler.go
// (single Chunk-builder threaded recursively through statement/expression
// nodes) and compiler_loops.go (per-loop label generation), generalized
// from funxy's stack-push compilation model to this spec's named-register
// model: "one Temp register per evaluated subexpression; assignment
// lowers to Store/StoreProperty/StoreIndex."
//
// Optionality (spec §4.6): the IR path is an alternative to the
// tree-walking evaluator, not a replacement. Class, interface, enum and
// type-alias declarations and class expressions are not lowered: they are
// rejected with a compile error directing the caller to the tree-walker
// for that program.
package ir

import (
	"fmt"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/token"
)

// Compiler threads the counters and a per-loop label stack through the
// recursive lowering of one compilation unit.
type Compiler struct {
	Counters
	loopStack []loopLabels
}

type loopLabels struct {
	breakLabel    string
	continueLabel string
}

// NewCompiler creates a Compiler ready to lower a single Program.
func NewCompiler() *Compiler { return &Compiler{} }

// Compile lowers an entire ast.Program into one top-level Program.
func Compile(program *ast.Program) (*Program, error) {
	c := NewCompiler()
	out := &Program{}
	for _, stmt := range program.Stmts {
		if err := c.compileStmt(stmt, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Compiler) errf(n ast.Node, format string, args ...interface{}) error {
	return fmt.Errorf("ir compile at %s: %s", n.GetToken().Position, fmt.Sprintf(format, args...))
}

func (c *Compiler) compileStmt(stmt ast.Statement, out *Program) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return c.compileVarDecl(s, out)
	case *ast.FnDecl:
		return c.compileFnDecl(s, out)
	case *ast.Block:
		out.Emit(Instr{Op: OpPushScope, Pos: s.Token.Position})
		for _, inner := range s.Stmts {
			if err := c.compileStmt(inner, out); err != nil {
				return err
			}
		}
		out.Emit(Instr{Op: OpPopScope, Pos: s.Token.Position})
		return nil
	case *ast.If:
		return c.compileIf(s, out)
	case *ast.While:
		return c.compileWhile(s, out)
	case *ast.For:
		return c.compileFor(s, out)
	case *ast.ForIn:
		return c.compileForIn(s, out)
	case *ast.Return:
		var reg Register
		if s.Value != nil {
			r, err := c.compileExpr(s.Value, out)
			if err != nil {
				return err
			}
			reg = r
		}
		out.Emit(Instr{Op: OpReturn, Pos: s.Token.Position, Src1: reg})
		return nil
	case *ast.Break:
		if len(c.loopStack) == 0 {
			return c.errf(s, "break outside loop")
		}
		out.Emit(Instr{Op: OpBreak, Pos: s.Token.Position, Label: c.loopStack[len(c.loopStack)-1].breakLabel})
		return nil
	case *ast.Continue:
		if len(c.loopStack) == 0 {
			return c.errf(s, "continue outside loop")
		}
		out.Emit(Instr{Op: OpContinue, Pos: s.Token.Position, Label: c.loopStack[len(c.loopStack)-1].continueLabel})
		return nil
	case *ast.Try:
		return c.compileTry(s, out)
	case *ast.Throw:
		reg, err := c.compileExpr(s.Value, out)
		if err != nil {
			return err
		}
		out.Emit(Instr{Op: OpThrow, Pos: s.Token.Position, Src1: reg})
		return nil
	case *ast.Import:
		// Module resolution is a runtime/host concern (spec §6.3/§6.4);
		// the IR records only a marker Declare named "__import__:<module>"
		// and declares none of the imported binding names.
		out.Emit(Instr{Op: OpDeclare, Pos: s.Token.Position, Name: "__import__:" + s.Module})
		return nil
	case *ast.ExprStmt:
		_, err := c.compileExpr(s.Expr, out)
		return err
	case *ast.ClassDecl, *ast.InterfaceDecl, *ast.EnumDecl, *ast.TypeAliasDecl:
		// Full class semantics beyond property/method tables already
		// lowered in NewInstance/LoadProperty/MethodCall are an
		// acknowledged placeholder for the IR path (spec §4.6
		// "Optionality"); programs using classes run on the tree-walker.
		return c.errf(stmt, "IR compilation of class/interface/enum/type-alias declarations is not supported; use the tree-walking evaluator for this program")
	default:
		return c.errf(stmt, "ir: unhandled statement type %T", stmt)
	}
}

func (c *Compiler) compileVarDecl(s *ast.VarDecl, out *Program) error {
	var reg Register
	if s.Init != nil {
		r, err := c.compileExpr(s.Init, out)
		if err != nil {
			return err
		}
		reg = r
	} else {
		reg = c.NewTemp()
		out.Emit(Instr{Op: OpLoadConst, Pos: s.Token.Position, Dst: reg, Const: nil})
	}
	return c.compileDestructurePattern(s.Pattern, reg, out, s.Token)
}

func (c *Compiler) compileDestructurePattern(p ast.ParamPattern, src Register, out *Program, tok token.Token) error {
	switch pat := p.(type) {
	case *ast.Identifier:
		local := Local(pat.Value)
		out.Emit(Instr{Op: OpDeclare, Pos: tok.Position, Dst: local, Name: pat.Value})
		out.Emit(Instr{Op: OpStore, Pos: tok.Position, Dst: local, Src1: src, Name: pat.Value})
		return nil
	case *ast.ArrayPattern:
		elemRegs := make([]Register, len(pat.Elements))
		for i := range pat.Elements {
			elemRegs[i] = c.NewTemp()
		}
		instr := Instr{Op: OpDestructureArray, Pos: tok.Position, Src1: src, Args: elemRegs}
		var restReg Register
		if pat.Rest != nil {
			restReg = c.NewTemp()
			instr.RestDst = restReg
			instr.HasRest = true
		}
		out.Emit(instr)
		for i, el := range pat.Elements {
			if err := c.compileDestructurePattern(el, elemRegs[i], out, tok); err != nil {
				return err
			}
		}
		if pat.Rest != nil {
			if err := c.compileDestructurePattern(pat.Rest, restReg, out, tok); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		out.Emit(Instr{Op: OpDestructureObject, Pos: tok.Position, Src1: src})
		for _, f := range pat.Fields {
			tmp := c.NewTemp()
			out.Emit(Instr{Op: OpLoadProperty, Pos: tok.Position, Dst: tmp, Src1: src, Name: f.Key})
			target := f.Value
			if target == nil {
				target = &ast.Identifier{Value: f.Key}
			}
			if err := c.compileDestructurePattern(target, tmp, out, tok); err != nil {
				return err
			}
		}
		if pat.Rest != nil {
			tmp := c.NewTemp()
			if err := c.compileDestructurePattern(pat.Rest, tmp, out, tok); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// compileFnDecl lowers a function's body as a nested Program captured by
// CreateFunction (spec §4.6 "Closures store their compiled body as a
// nested IR block captured by the enclosing program").
func (c *Compiler) compileFnDecl(s *ast.FnDecl, out *Program) error {
	nested, paramNames, err := c.compileFunctionBody(s.Params, s.Body, s.Token.Position)
	if err != nil {
		return err
	}
	dst := c.NewTemp()
	out.Emit(Instr{Op: OpCreateFunction, Pos: s.Token.Position, Dst: dst, Name: s.Name, Nested: nested, IsAsync: s.IsAsync, Params: paramNames})
	local := Local(s.Name)
	out.Emit(Instr{Op: OpDeclare, Pos: s.Token.Position, Dst: local, Name: s.Name})
	out.Emit(Instr{Op: OpStore, Pos: s.Token.Position, Dst: local, Src1: dst, Name: s.Name})
	return nil
}

// compileFunctionBody lowers a function's statement list into a nested
// Program. Parameter binding is left to the VM's call sequence (spec
// §4.6 "VM execution"): the caller binds each argument value into the
// callee's fresh scope by name before executing body instructions; any
// parameter bound by a destructuring pattern is then unpacked by the
// prelude instructions bindParams emits at the top of the body.
func (c *Compiler) compileFunctionBody(params []*ast.Param, body *ast.Block, pos token.Position) (*Program, []string, error) {
	nested := &Program{}
	inner := &Compiler{}
	names, err := inner.bindParams(params, nested, pos)
	if err != nil {
		return nil, nil, err
	}
	for _, st := range body.Stmts {
		if err := inner.compileStmt(st, nested); err != nil {
			return nil, nil, err
		}
	}
	return nested, names, nil
}

// bindParams computes each parameter's callee-side binding name. A plain
// identifier parameter binds directly under its own name; a destructuring
// parameter (array/object pattern) is bound under a synthesized name and
// immediately unpacked by the same lowering VarDecl patterns use (spec
// §4.6's destructuring rules apply uniformly to both call sites), rather
// than silently dropping the argument the way an empty binding name
// previously did.
func (c *Compiler) bindParams(params []*ast.Param, nested *Program, pos token.Position) ([]string, error) {
	names := make([]string, 0, len(params))
	tok := token.Token{Position: pos}
	for i, p := range params {
		if id, ok := p.Pattern.(*ast.Identifier); ok {
			names = append(names, id.Value)
			continue
		}
		synthetic := fmt.Sprintf("__param%d", i)
		names = append(names, synthetic)
		tmp := c.NewTemp()
		nested.Emit(Instr{Op: OpLoad, Pos: pos, Dst: tmp, Name: synthetic})
		if err := c.compileDestructurePattern(p.Pattern, tmp, nested, tok); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func (c *Compiler) compileIf(s *ast.If, out *Program) error {
	cond, err := c.compileExpr(s.Condition, out)
	if err != nil {
		return err
	}
	elseLabel := c.NewLabel("else")
	endLabel := c.NewLabel("endif")
	out.Emit(Instr{Op: OpJumpIfFalse, Pos: s.Token.Position, Src1: cond, Label: elseLabel})
	if err := c.compileStmt(s.Then, out); err != nil {
		return err
	}
	out.Emit(Instr{Op: OpJump, Pos: s.Token.Position, Label: endLabel})
	out.Emit(Instr{Op: OpLabel, Label: elseLabel})
	if s.Else != nil {
		if err := c.compileStmt(s.Else, out); err != nil {
			return err
		}
	}
	out.Emit(Instr{Op: OpLabel, Label: endLabel})
	return nil
}

// compileWhile generates a fresh label pair per loop (spec §9 open
// question #3: the source's fixed "break"/"continue" labels would
// misroute in nested loops; this lowering scopes them per loop instead).
func (c *Compiler) compileWhile(s *ast.While, out *Program) error {
	startLabel := c.NewLabel("loop_start")
	endLabel := c.NewLabel("loop_end")
	c.loopStack = append(c.loopStack, loopLabels{breakLabel: endLabel, continueLabel: startLabel})
	defer func() { c.loopStack = c.loopStack[:len(c.loopStack)-1] }()

	out.Emit(Instr{Op: OpLabel, Label: startLabel})
	cond, err := c.compileExpr(s.Condition, out)
	if err != nil {
		return err
	}
	out.Emit(Instr{Op: OpJumpIfFalse, Pos: s.Token.Position, Src1: cond, Label: endLabel})
	if err := c.compileStmt(s.Body, out); err != nil {
		return err
	}
	out.Emit(Instr{Op: OpJump, Label: startLabel})
	out.Emit(Instr{Op: OpLabel, Label: endLabel})
	return nil
}

func (c *Compiler) compileFor(s *ast.For, out *Program) error {
	out.Emit(Instr{Op: OpPushScope, Pos: s.Token.Position})
	defer out.Emit(Instr{Op: OpPopScope, Pos: s.Token.Position})
	if s.Init != nil {
		if err := c.compileStmt(s.Init, out); err != nil {
			return err
		}
	}
	startLabel := c.NewLabel("for_start")
	continueLabel := c.NewLabel("for_continue")
	endLabel := c.NewLabel("for_end")
	c.loopStack = append(c.loopStack, loopLabels{breakLabel: endLabel, continueLabel: continueLabel})
	defer func() { c.loopStack = c.loopStack[:len(c.loopStack)-1] }()

	out.Emit(Instr{Op: OpLabel, Label: startLabel})
	if s.Condition != nil {
		cond, err := c.compileExpr(s.Condition, out)
		if err != nil {
			return err
		}
		out.Emit(Instr{Op: OpJumpIfFalse, Pos: s.Token.Position, Src1: cond, Label: endLabel})
	}
	if err := c.compileStmt(s.Body, out); err != nil {
		return err
	}
	// "Continue still runs the increment" (spec §4.1 "For").
	out.Emit(Instr{Op: OpLabel, Label: continueLabel})
	if s.Update != nil {
		if _, err := c.compileExpr(s.Update, out); err != nil {
			return err
		}
	}
	out.Emit(Instr{Op: OpJump, Label: startLabel})
	out.Emit(Instr{Op: OpLabel, Label: endLabel})
	return nil
}

func (c *Compiler) compileForIn(s *ast.ForIn, out *Program) error {
	iterable, err := c.compileExpr(s.Iterable, out)
	if err != nil {
		return err
	}
	nested := &Program{}
	inner := &Compiler{Counters: c.Counters}
	inner.loopStack = append([]loopLabels{}, loopLabels{breakLabel: "break", continueLabel: "continue"})
	if err := inner.compileStmt(s.Body, nested); err != nil {
		return err
	}
	c.Counters = inner.Counters
	out.Emit(Instr{Op: OpForIn, Pos: s.Token.Position, Src1: iterable, Name: s.LoopVar, Nested: nested})
	return nil
}

// compileTry materializes inner programs for try/catch/finally and
// sequences them (spec §4.6 "TryCatch materializes inner programs for
// try / catch / finally and executes them in sequence").
func (c *Compiler) compileTry(s *ast.Try, out *Program) error {
	tryProg := &Program{}
	if err := c.compileStmt(s.Body, tryProg); err != nil {
		return err
	}
	instr := Instr{Op: OpTryCatch, Pos: s.Token.Position, Nested: tryProg}
	if len(s.Catches) > 0 {
		cc := s.Catches[0]
		catchProg := &Program{}
		if err := c.compileStmt(cc.Body, catchProg); err != nil {
			return err
		}
		instr.Catch = catchProg
		instr.Name = cc.ParamName
	}
	if s.Finally != nil {
		finallyProg := &Program{}
		if err := c.compileStmt(s.Finally, finallyProg); err != nil {
			return err
		}
		instr.Finally = finallyProg
	}
	out.Emit(instr)
	return nil
}
