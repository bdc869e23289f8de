// Pass 2 statement checking (spec §4.4 "Pass 2 - checking"). Grounded on
// the teacher's internal/analyzer/statements.go, generalized to this
// spec's VarDecl/FnDecl/ClassDecl/control-flow/Try/Import shapes.
package analyzer

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/symbols"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

func (a *Analyzer) checkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		a.checkVarDecl(s)
	case *ast.FnDecl:
		a.checkFnDecl(s)
	case *ast.ClassDecl:
		a.checkClassDecl(s)
	case *ast.InterfaceDecl, *ast.EnumDecl, *ast.TypeAliasDecl:
		// Fully resolved during pass 1; nothing left to check.
	case *ast.Block:
		a.Symbols.PushScope()
		for _, st := range s.Stmts {
			a.checkStmt(st)
		}
		a.Symbols.PopScope()
	case *ast.If:
		a.checkIf(s)
	case *ast.While:
		a.checkCondition(s.Condition, "while condition")
		a.loopDepth++
		a.checkStmt(s.Body)
		a.loopDepth--
	case *ast.For:
		a.Symbols.PushScope()
		if s.Init != nil {
			a.checkStmt(s.Init)
		}
		if s.Condition != nil {
			a.checkCondition(s.Condition, "for condition")
		}
		if s.Update != nil {
			a.checkExpr(s.Update)
		}
		a.loopDepth++
		a.checkStmt(s.Body)
		a.loopDepth--
		a.Symbols.PopScope()
	case *ast.ForIn:
		a.checkForIn(s)
	case *ast.Return:
		a.checkReturn(s)
	case *ast.Break:
		if a.loopDepth == 0 {
			a.addErrNode(s, "break outside loop")
		}
	case *ast.Continue:
		if a.loopDepth == 0 {
			a.addErrNode(s, "continue outside loop")
		}
	case *ast.Try:
		a.checkTry(s)
	case *ast.Throw:
		a.checkExpr(s.Value)
	case *ast.Import:
		a.checkImport(s)
	case *ast.ExprStmt:
		a.checkExpr(s.Expr)
	default:
		a.addErrNode(stmt, "analyzer: unhandled statement type %T", stmt)
	}
}

// checkVarDecl: "If an explicit type annotation is present and
// non-unknown, verify init.type is assignable to annotation; otherwise
// infer the variable's type as init.type. Define the symbol." (spec
// §4.4). Constants without initializers are rejected (spec §4.1
// VarDecl contract).
func (a *Analyzer) checkVarDecl(s *ast.VarDecl) {
	var initType typesystem.Type = typesystem.TNull
	if s.Init != nil {
		initType = a.checkExpr(s.Init)
	} else if s.IsConstant {
		a.addErrNode(s, "constant %q must have an initializer", patternName(s.Pattern))
	}

	declared := typesystem.Type(nil)
	if s.TypeAnnotation != nil {
		resolved := a.resolveAnnotation(s.TypeAnnotation)
		if !typesystem.IsPrimitive(resolved, typesystem.Unknown) {
			declared = resolved
			if s.Init != nil && !typesystem.IsAssignableTo(initType, declared) {
				a.typeMismatch(s, "variable initializer", declared, initType)
			}
		}
	}
	finalType := declared
	if finalType == nil {
		finalType = initType
	}
	a.bindPattern(s.Pattern, finalType, symbols.Variable, s.IsConstant)
}

func patternName(p ast.ParamPattern) string {
	if id, ok := p.(*ast.Identifier); ok {
		return id.Value
	}
	return "<pattern>"
}

// bindPattern declares every name introduced by a (possibly
// destructuring) pattern against t (spec §6.1 Destructuring).
func (a *Analyzer) bindPattern(p ast.ParamPattern, t typesystem.Type, kind symbols.Kind, isConstant bool) {
	switch pat := p.(type) {
	case *ast.Identifier:
		a.Symbols.Declare(&symbols.Symbol{Name: pat.Value, SymKind: kind, Type: t, IsConstant: isConstant})
	case *ast.ArrayPattern:
		elemType := typesystem.Type(typesystem.TUnknown)
		if lt, ok := t.(typesystem.List); ok {
			elemType = lt.Element
		}
		for _, el := range pat.Elements {
			a.bindPattern(el, elemType, kind, isConstant)
		}
		if pat.Rest != nil {
			a.Symbols.Declare(&symbols.Symbol{Name: pat.Rest.Value, SymKind: kind, Type: typesystem.List{Element: elemType}, IsConstant: isConstant})
		}
	case *ast.ObjectPattern:
		for _, f := range pat.Fields {
			fieldType := typesystem.Type(typesystem.TUnknown)
			if ct, ok := t.(typesystem.Class); ok {
				if prop, ok := (&ct).FindProperty(f.Key); ok {
					fieldType = prop.Type
				}
			}
			target := f.Value
			if target == nil {
				target = &ast.Identifier{Value: f.Key}
			}
			a.bindPattern(target, fieldType, kind, isConstant)
		}
		if pat.Rest != nil {
			a.Symbols.Declare(&symbols.Symbol{Name: pat.Rest.Value, SymKind: kind, Type: typesystem.TAny, IsConstant: isConstant})
		}
	}
}

// checkFnDecl: enter a scope, bind parameters, check the body; if no
// explicit return type was declared, infer it from collected `return`
// statements and update the symbol (spec §4.4 "FnDecl").
func (a *Analyzer) checkFnDecl(s *ast.FnDecl) {
	sym, _ := a.Symbols.Find(s.Name)
	sig, _ := sigOf(sym)

	a.Symbols.PushScope()
	a.bindParams(s.Params)

	fc := &funcCtx{isAsync: s.IsAsync}
	if s.ReturnType != nil {
		fc.declaredReturn = a.resolveAnnotation(s.ReturnType)
	}
	a.pushFunc(fc)
	for _, st := range s.Body.Stmts {
		a.checkStmt(st)
	}
	a.popFunc()
	a.Symbols.PopScope()

	if s.ReturnType == nil {
		inferred := fc.collector.Infer()
		if s.IsAsync {
			inferred = typesystem.WrapAsync(inferred)
		}
		sig.Return = inferred
		if sym != nil {
			sym.Type = sig
			a.Symbols.Update(s.Name, sym)
		}
	}
}

func sigOf(sym *symbols.Symbol) (typesystem.Function, bool) {
	if sym == nil {
		return typesystem.Function{}, false
	}
	f, ok := sym.Type.(typesystem.Function)
	return f, ok
}

func (a *Analyzer) bindParams(params []*ast.Param) {
	for _, p := range params {
		t := a.resolveAnnotation(p.Type)
		if p.IsOptional {
			t = typesystem.Nullable{Inner: t}
		}
		if p.IsRest {
			t = typesystem.List{Element: t}
		}
		if p.DefaultValue != nil {
			dt := a.checkExpr(p.DefaultValue)
			if !typesystem.IsAssignableTo(dt, t) {
				a.typeMismatch(p.DefaultValue, "default value", t, dt)
			}
		}
		a.bindPattern(p.Pattern, t, symbols.Parameter, false)
	}
}

// checkClassDecl checks property initializers against their
// annotations; methods/constructor are checked as ordinary function
// bodies with `this` (and `super`, if a superclass exists) in scope
// (spec §4.4 "ClassDecl").
func (a *Analyzer) checkClassDecl(s *ast.ClassDecl) {
	ci := a.classes[s.Name]
	a.classStack = append(a.classStack, ci)
	a.Symbols.PushScope()
	a.Symbols.Declare(&symbols.Symbol{Name: "this", SymKind: symbols.Variable, Type: *ci.typ, IsConstant: true})

	for _, p := range s.Properties {
		if p.Init == nil {
			continue
		}
		initType := a.checkExpr(p.Init)
		declared := a.resolveAnnotation(p.Type)
		if !typesystem.IsAssignableTo(initType, declared) {
			a.typeMismatch(p.Init, "property "+p.Name+" initializer", declared, initType)
		}
	}
	for _, m := range s.Methods {
		a.checkFnDecl(m.Fn)
	}
	if s.Constructor != nil {
		a.checkFnDecl(s.Constructor)
	}

	a.Symbols.PopScope()
	a.classStack = a.classStack[:len(a.classStack)-1]
}

// checkIf computes narrowing maps from the condition and pushes a
// narrowing scope during each branch's analysis (spec §4.4/§4.5).
func (a *Analyzer) checkIf(s *ast.If) {
	a.checkCondition(s.Condition, "if condition")
	cond := a.narrowingConditionOf(s.Condition)
	n := typesystem.Narrow(cond)

	a.Narrowing.Push(n.Then)
	a.checkStmt(s.Then)
	a.Narrowing.Pop()

	if s.Else != nil {
		a.Narrowing.Push(n.Else)
		a.checkStmt(s.Else)
		a.Narrowing.Pop()
	}
}

func (a *Analyzer) checkCondition(cond ast.Expression, context string) {
	t := a.checkExpr(cond)
	if !typesystem.IsAssignableTo(t, typesystem.TBool) && !typesystem.IsPrimitive(t, typesystem.Any) && !typesystem.IsPrimitive(t, typesystem.Unknown) {
		a.typeMismatch(cond, context, typesystem.TBool, t)
	}
}

// checkForIn: "Iterable must be a list (element type used) or a string
// (element type is string)" (spec §4.4).
func (a *Analyzer) checkForIn(s *ast.ForIn) {
	it := a.checkExpr(s.Iterable)
	var elemType typesystem.Type = typesystem.TUnknown
	switch t := it.(type) {
	case typesystem.List:
		elemType = t.Element
	case typesystem.Primitive:
		if t.Name == typesystem.Str {
			elemType = typesystem.TStr
		} else {
			a.typeMismatch(s.Iterable, "for-in iterable", typesystem.List{Element: typesystem.TUnknown}, it)
		}
	default:
		a.typeMismatch(s.Iterable, "for-in iterable", typesystem.List{Element: typesystem.TUnknown}, it)
	}
	a.Symbols.PushScope()
	a.Symbols.Declare(&symbols.Symbol{Name: s.LoopVar, SymKind: symbols.Variable, Type: elemType, IsConstant: s.IsConstant})
	a.loopDepth++
	a.checkStmt(s.Body)
	a.loopDepth--
	a.Symbols.PopScope()
}

// checkReturn rejects `return` outside functions and surfaces the
// return expression's type for inference (spec §4.4 "Return").
func (a *Analyzer) checkReturn(s *ast.Return) {
	if !a.inFunction() {
		a.addErrNode(s, "return outside function")
		return
	}
	fc := a.currentFunc()
	var t typesystem.Type = typesystem.TVoid
	if s.Value != nil {
		t = a.checkExpr(s.Value)
	}
	fc.collector.Add(t)
	if fc.declaredReturn != nil {
		want := fc.declaredReturn
		if fc.isAsync {
			if fut, ok := want.(typesystem.Future); ok {
				want = fut.Inner
			}
		}
		if !typesystem.IsAssignableTo(t, want) {
			a.typeMismatch(s, "return value", want, t)
		}
	}
}

// checkTry: "Catch parameter defaults to any. declared type is used as
// the error binding's type." (spec §4.4).
func (a *Analyzer) checkTry(s *ast.Try) {
	a.checkStmt(s.Body)
	for _, c := range s.Catches {
		a.Symbols.PushScope()
		t := typesystem.Type(typesystem.TAny)
		if c.ParamType != nil {
			t = a.resolveAnnotation(c.ParamType)
		}
		a.Symbols.Declare(&symbols.Symbol{Name: c.ParamName, SymKind: symbols.Variable, Type: t})
		a.checkStmt(c.Body)
		a.Symbols.PopScope()
	}
	if s.Finally != nil {
		a.checkStmt(s.Finally)
	}
}

// checkImport declares the names introduced by the three import shapes
// (spec §6.3). Every imported name is bound as a constant of type `any`;
// no module registry is consulted here, since module resolution itself
// is a runtime (host) concern per spec §6.3/§6.4.
func (a *Analyzer) checkImport(s *ast.Import) {
	switch s.Kind {
	case ast.ImportNamespace:
		a.Symbols.Declare(&symbols.Symbol{Name: s.Namespace, SymKind: symbols.Variable, Type: typesystem.TAny, IsConstant: true})
	case ast.ImportDefault:
		a.Symbols.Declare(&symbols.Symbol{Name: s.Default, SymKind: symbols.Variable, Type: typesystem.TAny, IsConstant: true})
	case ast.ImportNamed:
		for _, spec := range s.Specifiers {
			name := spec.Alias
			if name == "" {
				name = spec.Name
			}
			a.Symbols.Declare(&symbols.Symbol{Name: name, SymKind: symbols.Variable, Type: typesystem.TAny, IsConstant: true})
		}
	}
}
