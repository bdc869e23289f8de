package vm

import (
	"testing"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/ir"
	"github.com/raccoon-lang/raccoon/internal/runtime"
)

// run is a small test harness compiling then executing an AST fixture,
// grounded on the teacher's own practice of building bundle_test.go/vm_test.go
// fixtures by hand (spec §1 excludes the parser, so tests build AST
// directly via internal/ast's constructor helpers).
func run(t *testing.T, stmts ...ast.Statement) runtime.Value {
	t.Helper()
	program, err := ir.Compile(ast.Prog(stmts...))
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	machine := New(runtime.NewEnvironment(), nil)
	result, err := machine.Run(program)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return result
}

func TestVMBinaryArithmetic(t *testing.T) {
	result := run(t, &ast.ExprStmt{Expr: ast.Bin(ast.Int(2), "+", ast.Int(3))})
	if i, ok := result.(runtime.Int); !ok || i != 5 {
		t.Fatalf("expected 5, got %v", result)
	}
}

func TestVMVarDeclAndLoad(t *testing.T) {
	result := run(t,
		&ast.VarDecl{Pattern: ast.Ident("x"), Init: ast.Int(10)},
		&ast.ExprStmt{Expr: ast.Bin(ast.Ident("x"), "*", ast.Int(2))},
	)
	if i, ok := result.(runtime.Int); !ok || i != 20 {
		t.Fatalf("expected 20, got %v", result)
	}
}

func TestVMWhileLoopAccumulates(t *testing.T) {
	result := run(t,
		&ast.VarDecl{Pattern: ast.Ident("i"), Init: ast.Int(0)},
		&ast.VarDecl{Pattern: ast.Ident("total"), Init: ast.Int(0)},
		&ast.While{
			Condition: ast.Bin(ast.Ident("i"), "<", ast.Int(5)),
			Body: ast.Blk(
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: ast.Ident("total"), Op: "=", Value: ast.Bin(ast.Ident("total"), "+", ast.Ident("i"))}},
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: ast.Ident("i"), Op: "=", Value: ast.Bin(ast.Ident("i"), "+", ast.Int(1))}},
			),
		},
		&ast.ExprStmt{Expr: ast.Ident("total")},
	)
	if i, ok := result.(runtime.Int); !ok || i != 10 {
		t.Fatalf("expected 10 (0+1+2+3+4), got %v", result)
	}
}

func TestVMBreakExitsLoop(t *testing.T) {
	result := run(t,
		&ast.VarDecl{Pattern: ast.Ident("i"), Init: ast.Int(0)},
		&ast.While{
			Condition: ast.Bool(true),
			Body: ast.Blk(
				&ast.If{
					Condition: ast.Bin(ast.Ident("i"), "==", ast.Int(3)),
					Then:      ast.Blk(&ast.Break{}),
				},
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: ast.Ident("i"), Op: "=", Value: ast.Bin(ast.Ident("i"), "+", ast.Int(1))}},
			),
		},
		&ast.ExprStmt{Expr: ast.Ident("i")},
	)
	if i, ok := result.(runtime.Int); !ok || i != 3 {
		t.Fatalf("expected 3, got %v", result)
	}
}

func TestVMFunctionCallReturnsValue(t *testing.T) {
	fn := &ast.FnDecl{
		Name:   "double",
		Params: []*ast.Param{{Pattern: ast.Ident("x")}},
		Body:   ast.Blk(&ast.Return{Value: ast.Bin(ast.Ident("x"), "*", ast.Int(2))}),
	}
	result := run(t,
		fn,
		&ast.ExprStmt{Expr: ast.Call(ast.Ident("double"), ast.Int(21))},
	)
	if i, ok := result.(runtime.Int); !ok || i != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestVMMatchGuardFallsThrough(t *testing.T) {
	matchExpr := &ast.MatchExpr{
		Scrutinee: ast.Int(5),
		Arms: []ast.MatchArm{
			{
				Pattern: &ast.VariablePattern{Name: "n"},
				Guard:   ast.Bin(ast.Ident("n"), ">", ast.Int(10)),
				Body:    ast.Str("big"),
			},
			{
				Pattern: &ast.WildcardPattern{},
				Body:    ast.Str("small"),
			},
		},
	}
	result := run(t, &ast.ExprStmt{Expr: matchExpr})
	if s, ok := result.(runtime.Str); !ok || string(s) != "small" {
		t.Fatalf("expected guard failure to fall through to the wildcard arm, got %v", result)
	}
}

func TestVMListLiteralAndIndex(t *testing.T) {
	result := run(t,
		&ast.VarDecl{Pattern: ast.Ident("xs"), Init: &ast.ListLiteral{Elements: []ast.Expression{ast.Int(1), ast.Int(2), ast.Int(3)}}},
		&ast.ExprStmt{Expr: &ast.IndexExpr{Object: ast.Ident("xs"), Index: ast.Int(1)}},
	)
	if i, ok := result.(runtime.Int); !ok || i != 2 {
		t.Fatalf("expected xs[1] == 2, got %v", result)
	}
}

func TestVMTryCatchCatchesThrow(t *testing.T) {
	result := run(t,
		&ast.Try{
			Body: ast.Blk(&ast.Throw{Value: ast.Str("boom")}),
			Catches: []*ast.CatchClause{
				{ParamName: "e", Body: ast.Blk(&ast.ExprStmt{Expr: ast.Ident("e")})},
			},
		},
	)
	if s, ok := result.(runtime.Str); !ok || string(s) == "" {
		t.Fatalf("expected try/catch to bind the thrown value into e, got %v", result)
	}
}

func TestVMUnresolvedLabelErrors(t *testing.T) {
	machine := New(runtime.NewEnvironment(), nil)
	bad := &ir.Program{Instrs: []ir.Instr{{Op: ir.OpJump, Label: "does_not_exist"}}}
	if _, err := machine.Run(bad); err == nil {
		t.Fatalf("expected an error for a jump to an unresolved label")
	}
}

// TestVMArrayDestructureBindsEachElement guards against each element
// register colliding on the same temp slot: every bound name must see
// its own list element, not the first element or Null.
func TestVMArrayDestructureBindsEachElement(t *testing.T) {
	result := run(t,
		&ast.VarDecl{
			Pattern: &ast.ArrayPattern{Elements: []ast.ParamPattern{ast.Ident("a"), ast.Ident("b"), ast.Ident("c")}},
			Init:    &ast.ListLiteral{Elements: []ast.Expression{ast.Int(10), ast.Int(20), ast.Int(30)}},
		},
		&ast.ExprStmt{Expr: ast.Bin(ast.Bin(ast.Ident("a"), "+", ast.Ident("b")), "+", ast.Ident("c"))},
	)
	if i, ok := result.(runtime.Int); !ok || i != 60 {
		t.Fatalf("expected a+b+c == 60 (10+20+30), got %v", result)
	}
}

// TestVMArrayDestructureRest verifies the rest element collects the
// remaining trailing list elements rather than staying unset/Null.
func TestVMArrayDestructureRest(t *testing.T) {
	result := run(t,
		&ast.VarDecl{
			Pattern: &ast.ArrayPattern{Elements: []ast.ParamPattern{ast.Ident("first")}, Rest: ast.Ident("rest")},
			Init:    &ast.ListLiteral{Elements: []ast.Expression{ast.Int(1), ast.Int(2), ast.Int(3)}},
		},
		&ast.ExprStmt{Expr: &ast.IndexExpr{Object: ast.Ident("rest"), Index: ast.Int(1)}},
	)
	if i, ok := result.(runtime.Int); !ok || i != 3 {
		t.Fatalf("expected rest[1] == 3 (rest == [2, 3]), got %v", result)
	}
}

// TestVMDestructuredParamBindsElements guards against the argument value
// being silently discarded for a non-identifier (destructuring) function
// parameter.
func TestVMDestructuredParamBindsElements(t *testing.T) {
	fn := &ast.FnDecl{
		Name: "sum",
		Params: []*ast.Param{
			{Pattern: &ast.ArrayPattern{Elements: []ast.ParamPattern{ast.Ident("x"), ast.Ident("y")}}},
		},
		Body: ast.Blk(&ast.Return{Value: ast.Bin(ast.Ident("x"), "+", ast.Ident("y"))}),
	}
	result := run(t,
		fn,
		&ast.ExprStmt{Expr: ast.Call(ast.Ident("sum"), &ast.ListLiteral{Elements: []ast.Expression{ast.Int(4), ast.Int(5)}})},
	)
	if i, ok := result.(runtime.Int); !ok || i != 9 {
		t.Fatalf("expected sum([4, 5]) == 9, got %v", result)
	}
}

// TestVMAwaitNonFutureErrors matches the tree-walker's documented runtime
// error for awaiting a non-future value (spec §4.2/§7).
func TestVMAwaitNonFutureErrors(t *testing.T) {
	machine := New(runtime.NewEnvironment(), nil)
	program, err := ir.Compile(ast.Prog(&ast.ExprStmt{Expr: &ast.AwaitExpr{Operand: ast.Int(5)}}))
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if _, err := machine.Run(program); err == nil {
		t.Fatalf("expected an error awaiting a non-future value")
	}
}
