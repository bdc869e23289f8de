package ast

import "github.com/raccoon-lang/raccoon/internal/token"

// This file is a small set of constructor helpers used only by tests in
// this repository to build AST fixtures without a parser (spec §1
// excludes the parser from scope). Grounded on the teacher's own
// practice of constructing IR/AST fixtures by hand in *_test.go files
// (internal/vm/vm_test.go, internal/vm/bundle_test.go).

func tok(lexeme string) token.Token {
	return token.Token{Kind: token.IDENT, Lexeme: lexeme}
}

func Ident(name string) *Identifier { return &Identifier{Token: tok(name), Value: name} }
func Int(v int64) *IntLiteral       { return &IntLiteral{Token: tok("int"), Value: v} }
func Float(v float64) *FloatLiteral { return &FloatLiteral{Token: tok("float"), Value: v} }
func Str(v string) *StringLiteral   { return &StringLiteral{Token: tok("str"), Value: v} }
func Bool(v bool) *BoolLiteral      { return &BoolLiteral{Token: tok("bool"), Value: v} }
func Null() *NullLiteral            { return &NullLiteral{Token: tok("null")} }

func Bin(left Expression, op string, right Expression) *BinaryExpr {
	return &BinaryExpr{Token: tok(op), Left: left, Op: op, Right: right}
}

func Call(callee Expression, args ...Expression) *CallExpr {
	return &CallExpr{Token: tok("call"), Callee: callee, Args: args}
}

func Blk(stmts ...Statement) *Block {
	return &Block{Token: tok("block"), Stmts: stmts}
}

func Prog(stmts ...Statement) *Program {
	return &Program{Token: tok("program"), Stmts: stmts}
}
