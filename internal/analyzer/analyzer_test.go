package analyzer

import (
	"testing"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// TestVarDeclInference mirrors spec example #1's declarations: untyped
// `let a = 2;` infers int.
func TestVarDeclInference(t *testing.T) {
	a := New()
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("a"), Init: ast.Int(2)},
	)
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sym, ok := a.Symbols.Find("a")
	if !ok {
		t.Fatalf("symbol a not declared")
	}
	if !typesystem.Equal(sym.Type, typesystem.TInt) {
		t.Fatalf("expected int, got %s", sym.Type)
	}
}

// TestVarDeclAnnotationMismatch rejects an initializer that doesn't
// match an explicit annotation.
func TestVarDeclAnnotationMismatch(t *testing.T) {
	a := New()
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("a"), TypeAnnotation: typesystem.TStr, Init: ast.Int(2)},
	)
	if errs := a.Analyze(prog); len(errs) == 0 {
		t.Fatalf("expected a type mismatch error")
	}
}

// TestConstantWithoutInitializerRejected: "Constants without initializers
// are rejected at analysis" (spec §4.1 VarDecl).
func TestConstantWithoutInitializerRejected(t *testing.T) {
	a := New()
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("a"), IsConstant: true},
	)
	if errs := a.Analyze(prog); len(errs) == 0 {
		t.Fatalf("expected an error for a constant without an initializer")
	}
}

// TestReturnTypeInference mirrors spec example #2's fact function: an
// undeclared return type is inferred from the body's return statements.
func TestReturnTypeInference(t *testing.T) {
	a := New()
	factBody := ast.Blk(
		&ast.If{
			Condition: ast.Bin(ast.Ident("n"), "<=", ast.Int(1)),
			Then:      &ast.Return{Value: ast.Int(1)},
		},
		&ast.Return{Value: ast.Bin(ast.Ident("n"), "*", ast.Call(ast.Ident("fact"), ast.Bin(ast.Ident("n"), "-", ast.Int(1))))},
	)
	fnDecl := &ast.FnDecl{
		Name:   "fact",
		Params: []*ast.Param{{Pattern: ast.Ident("n"), Type: typesystem.TInt}},
		Body:   factBody,
	}
	prog := ast.Prog(fnDecl)
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sym, _ := a.Symbols.Find("fact")
	fn := sym.Type.(typesystem.Function)
	if !typesystem.Equal(fn.Return, typesystem.TInt) {
		t.Fatalf("expected inferred return type int, got %s", fn.Return)
	}
}

// TestBreakOutsideLoopRejected: "break/continue outside loops is
// rejected" (spec §4.4).
func TestBreakOutsideLoopRejected(t *testing.T) {
	a := New()
	prog := ast.Prog(&ast.Break{})
	if errs := a.Analyze(prog); len(errs) == 0 {
		t.Fatalf("expected break-outside-loop error")
	}
}

func TestBreakInsideLoopAccepted(t *testing.T) {
	a := New()
	prog := ast.Prog(&ast.While{Condition: ast.Bool(true), Body: ast.Blk(&ast.Break{})})
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestReturnOutsideFunctionRejected: "Rejected outside functions" (spec
// §4.4 "Return").
func TestReturnOutsideFunctionRejected(t *testing.T) {
	a := New()
	prog := ast.Prog(&ast.Return{Value: ast.Int(1)})
	if errs := a.Analyze(prog); len(errs) == 0 {
		t.Fatalf("expected return-outside-function error")
	}
}

// TestForInOverList checks that a for-in over a list literal's variable,
// using the loop variable in the body, is accepted without errors.
func TestForInOverList(t *testing.T) {
	a := New()
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("xs"), Init: &ast.ListLiteral{Elements: []ast.Expression{ast.Int(1), ast.Int(2)}}},
		&ast.ForIn{LoopVar: "x", Iterable: ast.Ident("xs"), Body: ast.Blk(&ast.ExprStmt{Expr: ast.Ident("x")})},
	)
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestForInOverNonIterableRejected covers the "must be a list or a
// string" contract.
func TestForInOverNonIterableRejected(t *testing.T) {
	a := New()
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("n"), Init: ast.Int(1)},
		&ast.ForIn{LoopVar: "x", Iterable: ast.Ident("n"), Body: ast.Blk()},
	)
	if errs := a.Analyze(prog); len(errs) == 0 {
		t.Fatalf("expected a for-in-over-non-iterable error")
	}
}

// TestClassInheritanceAndMemberAccess mirrors spec example #6's single-
// inheritance class shape.
func TestClassInheritanceAndMemberAccess(t *testing.T) {
	a := New()
	pClass := &ast.ClassDecl{
		Name:       "P",
		Properties: []*ast.PropertyDecl{{Name: "x", Type: typesystem.TInt, Init: ast.Int(0)}},
		Constructor: &ast.FnDecl{
			Name:   "constructor",
			Params: []*ast.Param{{Pattern: ast.Ident("x"), Type: typesystem.TInt}},
			Body: ast.Blk(&ast.ExprStmt{Expr: &ast.AssignExpr{
				Target: &ast.MemberExpr{Object: &ast.ThisExpr{}, Property: "x"}, Op: "=", Value: ast.Ident("x"),
			}}),
		},
	}
	cClass := &ast.ClassDecl{
		Name:       "C",
		Superclass: "P",
		Constructor: &ast.FnDecl{
			Name:   "constructor",
			Params: []*ast.Param{{Pattern: ast.Ident("x"), Type: typesystem.TInt}},
			Body:   ast.Blk(&ast.ExprStmt{Expr: &ast.CallExpr{Callee: &ast.SuperExpr{}, Args: []ast.Expression{ast.Ident("x")}}}),
		},
	}
	prog := ast.Prog(
		pClass, cClass,
		&ast.VarDecl{Pattern: ast.Ident("c"), Init: &ast.NewExpr{ClassName: "C", Args: []ast.Expression{ast.Int(5)}}},
		&ast.ExprStmt{Expr: &ast.MemberExpr{Object: ast.Ident("c"), Property: "x"}},
	)
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestUndefinedSymbolRejected covers the core "undefined symbol" static
// error (spec §7 taxonomy).
func TestUndefinedSymbolRejected(t *testing.T) {
	a := New()
	prog := ast.Prog(&ast.ExprStmt{Expr: ast.Ident("nope")})
	if errs := a.Analyze(prog); len(errs) == 0 {
		t.Fatalf("expected undefined-symbol error")
	}
}

// TestAsyncFunctionReturnWrapsInFuture: "if is_async, wrap return type in
// Future<...> unless already wrapped" (spec §4.4 FnDecl).
func TestAsyncFunctionReturnWrapsInFuture(t *testing.T) {
	a := New()
	fnDecl := &ast.FnDecl{
		Name:    "f",
		IsAsync: true,
		Body:    ast.Blk(&ast.Return{Value: ast.Int(7)}),
	}
	prog := ast.Prog(fnDecl)
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sym, _ := a.Symbols.Find("f")
	fn := sym.Type.(typesystem.Function)
	fut, ok := fn.Return.(typesystem.Future)
	if !ok {
		t.Fatalf("expected Future return type, got %s", fn.Return)
	}
	if !typesystem.Equal(fut.Inner, typesystem.TInt) {
		t.Fatalf("expected Future<int>, got %s", fn.Return)
	}
}

// TestIfNarrowsNullable exercises the then-branch narrowing of a
// Nullable<T> to T after an `x != null` check (spec §4.5).
func TestIfNarrowsNullable(t *testing.T) {
	a := New()
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("v"), TypeAnnotation: typesystem.Nullable{Inner: typesystem.TInt}, Init: ast.Null()},
		&ast.If{
			Condition: ast.Bin(ast.Ident("v"), "!=", ast.Null()),
			Then:      ast.Blk(&ast.ExprStmt{Expr: ast.Bin(ast.Ident("v"), "+", ast.Int(1))}),
		},
	)
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestEnumAutoIncrement: "compute numeric values left-to-right with
// auto-increment starting at 0" (spec §4.4).
func TestEnumAutoIncrement(t *testing.T) {
	a := New()
	one := int64(5)
	prog := ast.Prog(&ast.EnumDecl{
		Name: "Color",
		Members: []ast.EnumMemberDecl{
			{Name: "Red"},
			{Name: "Green", IntOverride: &one},
			{Name: "Blue"},
		},
	})
	if errs := a.Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	e := a.enums["Color"]
	want := []int64{0, 5, 6}
	for i, m := range e.Members {
		if got := m.Value.(int64); got != want[i] {
			t.Fatalf("member %d: expected %d, got %d", i, want[i], got)
		}
	}
}
