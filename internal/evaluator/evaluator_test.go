package evaluator

import (
	"bytes"
	"testing"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

// TestArithmeticAndPrint mirrors spec's example program #1:
// `let a = 2; let b = 3; print(a + b * a);` -> prints 8.
func TestArithmeticAndPrint(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)

	prog := ast.Prog(
		&ast.VarDecl{Token: ast.Ident("a").Token, Pattern: ast.Ident("a"), Init: ast.Int(2)},
		&ast.VarDecl{Token: ast.Ident("b").Token, Pattern: ast.Ident("b"), Init: ast.Int(3)},
		&ast.ExprStmt{Expr: ast.Call(ast.Ident("print"), ast.Bin(ast.Ident("a"), "+", ast.Bin(ast.Ident("b"), "*", ast.Ident("a"))))},
	)
	if _, err := e.Interpret(prog); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if got := out.String(); got != "8\n" {
		t.Fatalf("expected \"8\\n\", got %q", got)
	}
}

// TestRecursiveFactorial mirrors example program #2.
func TestRecursiveFactorial(t *testing.T) {
	e := New(nil)

	factBody := ast.Blk(
		&ast.If{
			Condition: ast.Bin(ast.Ident("n"), "<=", ast.Int(1)),
			Then:      &ast.Return{Value: ast.Int(1)},
		},
		&ast.Return{Value: ast.Bin(ast.Ident("n"), "*", ast.Call(ast.Ident("fact"), ast.Bin(ast.Ident("n"), "-", ast.Int(1))))},
	)
	fnDecl := &ast.FnDecl{
		Name: "fact",
		Params: []*ast.Param{
			{Pattern: ast.Ident("n")},
		},
		Body: factBody,
	}
	prog := ast.Prog(
		fnDecl,
		&ast.ExprStmt{Expr: ast.Call(ast.Ident("fact"), ast.Int(5))},
	)
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if n, ok := v.(runtime.Int); !ok || n != 120 {
		t.Fatalf("expected 120, got %v", v)
	}
}

// TestListLengthAndIndex mirrors example program #3.
func TestListLengthAndIndex(t *testing.T) {
	e := New(nil)
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("xs"), Init: &ast.ListLiteral{Elements: []ast.Expression{ast.Int(3), ast.Int(1), ast.Int(2)}}},
		&ast.ExprStmt{Expr: &ast.MemberExpr{Object: ast.Ident("xs"), Property: "length"}},
	)
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if n, ok := v.(runtime.Int); !ok || n != 3 {
		t.Fatalf("expected length 3, got %v", v)
	}
}

// TestStringConcatAndToUpper mirrors example program #4.
func TestStringConcatAndToUpper(t *testing.T) {
	e := New(nil)
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("s"), Init: ast.Bin(ast.Str("ab"), "+", ast.Str("cd"))},
		&ast.ExprStmt{Expr: &ast.MethodCallExpr{Receiver: ast.Ident("s"), Method: "toUpper"}},
	)
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if s, ok := v.(runtime.Str); !ok || s != "ABCD" {
		t.Fatalf("expected ABCD, got %v", v)
	}
}

// TestAsyncAwait mirrors example program #5: an async fn returning a
// Future that settles to 7, observed via await.
func TestAsyncAwait(t *testing.T) {
	e := New(nil)
	fnDecl := &ast.FnDecl{
		Name:    "f",
		IsAsync: true,
		Body:    ast.Blk(&ast.Return{Value: ast.Int(7)}),
	}
	prog := ast.Prog(
		fnDecl,
		&ast.ExprStmt{Expr: &ast.AwaitExpr{Operand: ast.Call(ast.Ident("f"))}},
	)
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if n, ok := v.(runtime.Int); !ok || n != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
	e.Scheduler.Wait()
}

// TestClassInheritanceSuperCall mirrors example program #6.
func TestClassInheritanceSuperCall(t *testing.T) {
	e := New(nil)
	base := &ast.ClassDecl{
		Name: "P",
		Properties: []*ast.PropertyDecl{
			{Name: "x", Init: ast.Int(0)},
		},
		Constructor: &ast.FnDecl{
			Name:   "constructor",
			Params: []*ast.Param{{Pattern: ast.Ident("x")}},
			Body: ast.Blk(&ast.ExprStmt{Expr: &ast.AssignExpr{
				Target: &ast.MemberExpr{Object: &ast.ThisExpr{}, Property: "x"},
				Op:     "=",
				Value:  ast.Ident("x"),
			}}),
		},
	}
	derived := &ast.ClassDecl{
		Name:       "C",
		Superclass: "P",
		Constructor: &ast.FnDecl{
			Name:   "constructor",
			Params: []*ast.Param{{Pattern: ast.Ident("x")}},
			Body: ast.Blk(&ast.ExprStmt{Expr: ast.Call(&ast.SuperExpr{}, ast.Ident("x"))}),
		},
	}
	prog := ast.Prog(
		base,
		derived,
		&ast.VarDecl{Pattern: ast.Ident("c"), Init: &ast.NewExpr{ClassName: "C", Args: []ast.Expression{ast.Int(5)}}},
		&ast.ExprStmt{Expr: &ast.MemberExpr{Object: ast.Ident("c"), Property: "x"}},
	)
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if n, ok := v.(runtime.Int); !ok || n != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
}

// TestForLoopSum mirrors example program #7.
func TestForLoopSum(t *testing.T) {
	e := New(nil)
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("xs"), Init: &ast.ListLiteral{Elements: []ast.Expression{ast.Int(1), ast.Int(2), ast.Int(3)}}},
		&ast.VarDecl{Pattern: ast.Ident("t"), Init: ast.Int(0)},
		&ast.For{
			Init:      &ast.VarDecl{Pattern: ast.Ident("i"), Init: ast.Int(0)},
			Condition: ast.Bin(ast.Ident("i"), "<", &ast.MemberExpr{Object: ast.Ident("xs"), Property: "length"}),
			Update:    &ast.AssignExpr{Target: ast.Ident("i"), Op: "+=", Value: ast.Int(1)},
			Body: ast.Blk(&ast.ExprStmt{Expr: &ast.AssignExpr{
				Target: ast.Ident("t"),
				Op:     "+=",
				Value:  &ast.IndexExpr{Object: ast.Ident("xs"), Index: ast.Ident("i")},
			}}),
		},
		&ast.ExprStmt{Expr: ast.Ident("t")},
	)
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if n, ok := v.(runtime.Int); !ok || n != 6 {
		t.Fatalf("expected 6, got %v", v)
	}
}

// TestNullCoalesce mirrors example program #8.
func TestNullCoalesce(t *testing.T) {
	e := New(nil)
	prog := ast.Prog(
		&ast.VarDecl{Pattern: ast.Ident("v"), Init: ast.Null()},
		&ast.ExprStmt{Expr: &ast.NullCoalesceExpr{Left: ast.Ident("v"), Right: ast.Int(42)}},
	)
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if n, ok := v.(runtime.Int); !ok || n != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestRecursionGuardRaises(t *testing.T) {
	e := New(nil)
	e.MaxRecursionDepth = 5
	fnDecl := &ast.FnDecl{
		Name:   "loop",
		Params: []*ast.Param{{Pattern: ast.Ident("n")}},
		Body:   ast.Blk(&ast.Return{Value: ast.Call(ast.Ident("loop"), ast.Bin(ast.Ident("n"), "+", ast.Int(1)))}),
	}
	prog := ast.Prog(fnDecl, &ast.ExprStmt{Expr: ast.Call(ast.Ident("loop"), ast.Int(0))})
	_, err := e.Interpret(prog)
	if err == nil {
		t.Fatalf("expected recursion-depth error")
	}
	if len(e.CallStack()) != 0 {
		t.Fatalf("call stack should be restored to empty after the raise, got depth %d", len(e.CallStack()))
	}
}

func TestMatchExprWithGuard(t *testing.T) {
	e := New(nil)
	matchExpr := &ast.MatchExpr{
		Scrutinee: ast.Int(4),
		Arms: []ast.MatchArm{
			{
				Pattern: &ast.VariablePattern{Name: "n"},
				Guard:   ast.Bin(ast.Ident("n"), "<", ast.Int(0)),
				Body:    ast.Str("negative"),
			},
			{
				Pattern: &ast.VariablePattern{Name: "n"},
				Body:    ast.Str("non-negative"),
			},
		},
	}
	prog := ast.Prog(&ast.ExprStmt{Expr: matchExpr})
	v, err := e.Interpret(prog)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if s, ok := v.(runtime.Str); !ok || s != "non-negative" {
		t.Fatalf("expected non-negative (first arm's guard should fail over), got %v", v)
	}
}
