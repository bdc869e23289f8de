package ir

import (
	"testing"

	"github.com/raccoon-lang/raccoon/internal/ast"
)

func TestCompileVarDeclAndBinaryOp(t *testing.T) {
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("a"), Init: ast.Bin(ast.Int(1), "+", ast.Int(2))},
	)
	out, err := Compile(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawBinary, sawStore bool
	for _, instr := range out.Instrs {
		if instr.Op == OpBinaryOp {
			sawBinary = true
		}
		if instr.Op == OpStore {
			sawStore = true
		}
	}
	if !sawBinary || !sawStore {
		t.Fatalf("expected BinaryOp and Store instructions, got %+v", out.Instrs)
	}
}

func TestCompileWhileLoopUniqueLabels(t *testing.T) {
	prog := ast.Prog(
		&ast.While{Condition: ast.Bool(true), Body: ast.Blk(&ast.Break{})},
		&ast.While{Condition: ast.Bool(true), Body: ast.Blk(&ast.Break{})},
	)
	out, err := Compile(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	labels := map[string]bool{}
	for _, instr := range out.Instrs {
		if instr.Op == OpLabel {
			if labels[instr.Label] {
				t.Fatalf("duplicate label %q across independent loops", instr.Label)
			}
			labels[instr.Label] = true
		}
	}
}

func TestCompileBreakOutsideLoopRejected(t *testing.T) {
	prog := ast.Prog(&ast.Break{})
	if _, err := Compile(prog); err == nil {
		t.Fatalf("expected compile error for break outside loop")
	}
}

func TestCompileFnDeclNestedProgram(t *testing.T) {
	fn := &ast.FnDecl{
		Name: "f",
		Params: []*ast.Param{{Pattern: ast.Ident("x")}},
		Body: ast.Blk(&ast.Return{Value: ast.Ident("x")}),
	}
	prog := ast.Prog(fn)
	out, err := Compile(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, instr := range out.Instrs {
		if instr.Op == OpCreateFunction {
			found = true
			if instr.Nested == nil || len(instr.Nested.Instrs) == 0 {
				t.Fatalf("expected non-empty nested program for function body")
			}
		}
	}
	if !found {
		t.Fatalf("expected a CreateFunction instruction")
	}
}

func TestCompileClassDeclRejected(t *testing.T) {
	prog := ast.Prog(&ast.ClassDecl{Name: "C"})
	if _, err := Compile(prog); err == nil {
		t.Fatalf("expected class declarations to be rejected by the IR compiler")
	}
}

func TestCompileMatchExprArms(t *testing.T) {
	matchExpr := &ast.MatchExpr{
		Scrutinee: ast.Int(1),
		Arms: []ast.MatchArm{
			{Pattern: &ast.LiteralPattern{LitKind: ast.LitInt, IntVal: 1}, Body: ast.Str("one")},
			{Pattern: &ast.WildcardPattern{}, Body: ast.Str("other")},
		},
	}
	prog := ast.Prog(&ast.ExprStmt{Expr: matchExpr})
	out, err := Compile(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var arms []MatchArm
	for _, instr := range out.Instrs {
		if instr.Op == OpMatch {
			arms = instr.Arms
		}
	}
	if len(arms) != 2 {
		t.Fatalf("expected 2 compiled match arms, got %d", len(arms))
	}
}
