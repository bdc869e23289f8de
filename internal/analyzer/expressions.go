// Pass 2 expression checking (spec §4.4). Grounded on the teacher's
// internal/analyzer/expressions.go + inference*.go, generalized to this
// spec's binary/member/call/match/new expression shapes over a nominal
// type system rather than funxy's row-polymorphic one.
package analyzer

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// checkExpr type-checks x, returning its static type (TUnknown on error,
// with the error already recorded).
func (a *Analyzer) checkExpr(x ast.Expression) typesystem.Type {
	switch e := x.(type) {
	case *ast.Identifier:
		return a.checkIdentifier(e)
	case *ast.IntLiteral:
		return typesystem.TInt
	case *ast.BigIntLiteral:
		return typesystem.TBigInt
	case *ast.FloatLiteral:
		return typesystem.TFloat
	case *ast.StringLiteral:
		return typesystem.TStr
	case *ast.BoolLiteral:
		return typesystem.TBool
	case *ast.NullLiteral:
		return typesystem.TNull
	case *ast.ListLiteral:
		return a.checkListLiteral(e)
	case *ast.MapLiteral:
		return a.checkMapLiteral(e)
	case *ast.BinaryExpr:
		return a.checkBinaryExpr(e)
	case *ast.LogicalExpr:
		return a.checkLogicalExpr(e)
	case *ast.UnaryExpr:
		return a.checkUnaryExpr(e)
	case *ast.AssignExpr:
		return a.checkAssignExpr(e)
	case *ast.CallExpr:
		return a.checkCallExpr(e)
	case *ast.SuperExpr:
		return a.checkSuperExpr(e)
	case *ast.ThisExpr:
		return a.checkThisExpr(e)
	case *ast.MemberExpr:
		return a.checkMemberExpr(e)
	case *ast.IndexExpr:
		return a.checkIndexExpr(e)
	case *ast.MethodCallExpr:
		return a.checkMethodCallExpr(e)
	case *ast.NullAssertExpr:
		t := a.checkExpr(e.Operand)
		if nt, ok := t.(typesystem.Nullable); ok {
			return nt.Inner
		}
		return t
	case *ast.NullCoalesceExpr:
		return a.checkNullCoalesceExpr(e)
	case *ast.RangeExpr:
		return a.checkRangeExpr(e)
	case *ast.TypeofExpr:
		a.checkExpr(e.Operand)
		return typesystem.TStr
	case *ast.InstanceofExpr:
		a.checkExpr(e.Operand)
		return typesystem.TBool
	case *ast.TemplateStringExpr:
		for _, p := range e.Parts {
			if p.Expr != nil {
				a.checkExpr(p.Expr)
			}
		}
		return typesystem.TStr
	case *ast.TaggedTemplateExpr:
		a.checkExpr(e.Tag)
		for _, v := range e.Values {
			a.checkExpr(v)
		}
		return typesystem.TAny
	case *ast.MatchExpr:
		return a.checkMatchExpr(e)
	case *ast.ArrowFunctionExpr:
		return a.checkArrowFunction(e)
	case *ast.NewExpr:
		return a.checkNewExpr(e)
	case *ast.ClassExpr:
		return a.checkClassExprType(e)
	case *ast.AwaitExpr:
		return a.checkAwaitExpr(e)
	default:
		return a.errorf(x, "analyzer: unhandled expression type %T", x)
	}
}

func (a *Analyzer) checkIdentifier(e *ast.Identifier) typesystem.Type {
	sym, ok := a.Symbols.Find(e.Value)
	if !ok {
		return a.errorf(e, "undefined symbol %q", e.Value)
	}
	return a.Narrowing.GetNarrowedType(e.Value, sym.Type)
}

// checkListLiteral: "Infer element type as the common supertype of all
// elements via the inference engine" (spec §4.4 "List literal").
func (a *Analyzer) checkListLiteral(e *ast.ListLiteral) typesystem.Type {
	elemTypes := make([]typesystem.Type, len(e.Elements))
	for i, el := range e.Elements {
		elemTypes[i] = a.checkExpr(el)
	}
	return typesystem.List{Element: typesystem.InferListElementType(elemTypes)}
}

func (a *Analyzer) checkMapLiteral(e *ast.MapLiteral) typesystem.Type {
	var keyTypes, valTypes []typesystem.Type
	for _, entry := range e.Entries {
		keyTypes = append(keyTypes, a.checkExpr(entry.Key))
		valTypes = append(valTypes, a.checkExpr(entry.Value))
	}
	kt := typesystem.Type(typesystem.TStr)
	if len(keyTypes) > 0 {
		kt = typesystem.InferCommonType(keyTypes)
	}
	vt := typesystem.Type(typesystem.TUnknown)
	if len(valTypes) > 0 {
		vt = typesystem.InferCommonType(valTypes)
	}
	return typesystem.Map{Key: kt, Value: vt}
}

// checkBinaryExpr follows the canonical promotion table per operator
// (spec §4.3/§4.4 "Binary/Unary").
func (a *Analyzer) checkBinaryExpr(e *ast.BinaryExpr) typesystem.Type {
	lt := a.checkExpr(e.Left)
	rt := a.checkExpr(e.Right)
	numeric := func(t typesystem.Type) bool {
		p, ok := t.(typesystem.Primitive)
		return ok && (p.Name == typesystem.Int || p.Name == typesystem.BigInt || p.Name == typesystem.Float || p.Name == typesystem.Decimal)
	}
	// An operand whose type is not yet known (e.g. a recursive call to a
	// function whose return type is still being inferred) takes the type
	// of a numeric other operand.
	if typesystem.IsPrimitive(rt, typesystem.Unknown) && numeric(lt) {
		rt = lt
	}
	if typesystem.IsPrimitive(lt, typesystem.Unknown) && numeric(rt) {
		lt = rt
	}
	switch e.Op {
	case "+":
		if typesystem.IsPrimitive(lt, typesystem.Str) || typesystem.IsPrimitive(rt, typesystem.Str) {
			return typesystem.TStr
		}
		if numeric(lt) && numeric(rt) {
			return typesystem.InferCommonType([]typesystem.Type{lt, rt})
		}
		return a.errorf(e, "invalid operands for +: %s, %s", lt, rt)
	case "-", "*", "**":
		if numeric(lt) && numeric(rt) {
			return typesystem.InferCommonType([]typesystem.Type{lt, rt})
		}
		return a.errorf(e, "invalid operands for %s: %s, %s", e.Op, lt, rt)
	case "/":
		if numeric(lt) && numeric(rt) {
			return typesystem.TFloat
		}
		return a.errorf(e, "invalid operands for /: %s, %s", lt, rt)
	case "%":
		if typesystem.IsPrimitive(lt, typesystem.Int) && typesystem.IsPrimitive(rt, typesystem.Int) {
			return typesystem.TInt
		}
		return a.errorf(e, "modulo requires int operands, got %s, %s", lt, rt)
	case "&", "|", "^", "<<", ">>", ">>>":
		if typesystem.IsPrimitive(lt, typesystem.Int) && typesystem.IsPrimitive(rt, typesystem.Int) {
			return typesystem.TInt
		}
		return a.errorf(e, "bitwise operator %q requires int operands", e.Op)
	case "==", "!=":
		return typesystem.TBool
	case "<", "<=", ">", ">=":
		if (numeric(lt) && numeric(rt)) || (typesystem.IsPrimitive(lt, typesystem.Str) && typesystem.IsPrimitive(rt, typesystem.Str)) {
			return typesystem.TBool
		}
		return a.errorf(e, "invalid operands for %s: %s, %s", e.Op, lt, rt)
	case "??":
		return typesystem.InferCommonType([]typesystem.Type{lt, rt})
	default:
		return a.errorf(e, "unknown binary operator %q", e.Op)
	}
}

// checkLogicalExpr: &&/|| short-circuit and return the unwrapped operand
// type (spec §4.1 "Logical && / || short-circuit and return the operand
// (not coerced to bool)").
func (a *Analyzer) checkLogicalExpr(e *ast.LogicalExpr) typesystem.Type {
	lt := a.checkExpr(e.Left)
	rt := a.checkExpr(e.Right)
	return typesystem.InferCommonType([]typesystem.Type{lt, rt})
}

func (a *Analyzer) checkUnaryExpr(e *ast.UnaryExpr) typesystem.Type {
	t := a.checkExpr(e.Operand)
	switch e.Op {
	case "!":
		return typesystem.TBool
	case "-":
		if p, ok := t.(typesystem.Primitive); ok && (p.Name == typesystem.Int || p.Name == typesystem.Float || p.Name == typesystem.BigInt || p.Name == typesystem.Decimal) {
			return t
		}
		return a.errorf(e, "invalid operand for unary -: %s", t)
	case "~":
		if !typesystem.IsPrimitive(t, typesystem.Int) {
			return a.errorf(e, "invalid operand for ~: %s", t)
		}
		return typesystem.TInt
	default:
		return a.errorf(e, "unknown unary operator %q", e.Op)
	}
}

func (a *Analyzer) checkAssignExpr(e *ast.AssignExpr) typesystem.Type {
	targetType := a.checkExpr(e.Target)
	valType := a.checkExpr(e.Value)
	if id, ok := e.Target.(*ast.Identifier); ok {
		if sym, ok := a.Symbols.Find(id.Value); ok && sym.IsConstant {
			a.addErrNode(e, "cannot assign to constant %q", id.Value)
		}
	}
	if e.Op == "=" {
		if !typesystem.IsAssignableTo(valType, targetType) {
			a.typeMismatch(e, "assignment", targetType, valType)
		}
		return targetType
	}
	// Compound operators desugar to target = target OP value at eval
	// time (spec §4.1); check the implied binary op for a type error.
	return typesystem.InferCommonType([]typesystem.Type{targetType, valType})
}

// checkCallExpr: "Arity must match; each argument type assignable to
// parameter type" (spec §4.4). Super-call (`super(args)`) is recognized
// as a special callee shape (spec §4.1 "Call"): it is checked against
// the superclass's constructor signature rather than as an ordinary
// Function-typed value.
func (a *Analyzer) checkCallExpr(e *ast.CallExpr) typesystem.Type {
	if _, ok := e.Callee.(*ast.SuperExpr); ok {
		return a.checkSuperCall(e)
	}
	calleeType := a.checkExpr(e.Callee)
	for _, arg := range e.Args {
		a.checkExpr(arg)
	}
	for _, na := range e.NamedArgs {
		a.checkExpr(na.Value)
	}
	fn, ok := calleeType.(typesystem.Function)
	if !ok {
		if typesystem.IsPrimitive(calleeType, typesystem.Any) || typesystem.IsPrimitive(calleeType, typesystem.Unknown) {
			return typesystem.TAny
		}
		return a.errorf(e, "%s is not callable", calleeType)
	}
	minArgs := len(fn.Params)
	if fn.Variadic && minArgs > 0 {
		minArgs--
	}
	if len(e.Args) < minArgs && len(e.NamedArgs) == 0 {
		a.addErrNode(e, "call arity mismatch: expected at least %d arguments, got %d", minArgs, len(e.Args))
	}
	for i, arg := range e.Args {
		if i >= len(fn.Params) {
			if !fn.Variadic {
				break
			}
			continue
		}
		argType := a.exprTypeCached(arg)
		if !typesystem.IsAssignableTo(argType, fn.Params[i]) {
			a.typeMismatch(arg, "call argument", fn.Params[i], argType)
		}
	}
	return fn.Return
}

// exprTypeCached re-derives an expression's type for a second check pass
// (e.g. call-argument assignability) without emitting duplicate errors;
// the analyzer has no memoized type cache, so this simply re-checks.
func (a *Analyzer) exprTypeCached(x ast.Expression) typesystem.Type {
	before := len(a.errs)
	t := a.checkExpr(x)
	a.errs = a.errs[:before]
	return t
}

// checkSuperCall validates a `super(args)` call against the superclass's
// constructor signature (spec §4.1 "Super-call").
func (a *Analyzer) checkSuperCall(e *ast.CallExpr) typesystem.Type {
	for _, arg := range e.Args {
		a.checkExpr(arg)
	}
	cc := a.currentClass()
	if cc == nil || cc.typ.Superclass == nil {
		return a.errorf(e, "super requires a superclass")
	}
	ctor := cc.typ.Superclass.Constructor
	if ctor == nil {
		return typesystem.TVoid
	}
	minArgs := len(ctor.Params)
	if ctor.Variadic && minArgs > 0 {
		minArgs--
	}
	if len(e.Args) < minArgs {
		a.addErrNode(e, "super() call arity mismatch: expected at least %d arguments, got %d", minArgs, len(e.Args))
	}
	for i, arg := range e.Args {
		if i >= len(ctor.Params) {
			break
		}
		argType := a.exprTypeCached(arg)
		if !typesystem.IsAssignableTo(argType, ctor.Params[i]) {
			a.typeMismatch(arg, "super() argument", ctor.Params[i], argType)
		}
	}
	return typesystem.TVoid
}

func (a *Analyzer) checkSuperExpr(e *ast.SuperExpr) typesystem.Type {
	cc := a.currentClass()
	if cc == nil || cc.typ.Superclass == nil {
		return a.errorf(e, "super requires a superclass")
	}
	return *cc.typ.Superclass
}

func (a *Analyzer) checkThisExpr(e *ast.ThisExpr) typesystem.Type {
	cc := a.currentClass()
	if cc == nil {
		return a.errorf(e, "this is only available inside a class body")
	}
	return *cc.typ
}

// checkMemberExpr looks up the property/method on class, interface,
// primitive type, list, map, or string as appropriate (spec §4.4
// "Member/MethodCall/Index").
func (a *Analyzer) checkMemberExpr(e *ast.MemberExpr) typesystem.Type {
	objType := a.checkExpr(e.Object)
	t := a.lookupMember(objType, e.Property)
	if t == nil {
		return a.errorf(e, "no property %q on %s", e.Property, objType)
	}
	if e.Optional {
		return typesystem.Nullable{Inner: t}
	}
	return t
}

// lookupMember returns nil when the member does not exist; callers
// produce the diagnostic themselves so they can include the node.
func (a *Analyzer) lookupMember(objType typesystem.Type, name string) typesystem.Type {
	if nt, ok := objType.(typesystem.Nullable); ok {
		objType = nt.Inner
	}
	switch t := objType.(type) {
	case typesystem.Class:
		if p, ok := (&t).FindProperty(name); ok {
			return p.Type
		}
		if m, ok := (&t).FindMethod(name); ok {
			return m.Sig
		}
	case typesystem.Interface:
		for _, p := range t.Properties {
			if p.Name == name {
				return p.Type
			}
		}
		for _, m := range t.Methods {
			if m.Name == name {
				return m.Sig
			}
		}
	case typesystem.Primitive:
		switch t.Name {
		case typesystem.Str:
			if name == "length" {
				return typesystem.TInt
			}
			if name == "isEmpty" {
				return typesystem.TBool
			}
		case typesystem.Any, typesystem.Unknown:
			return typesystem.TAny
		}
	case typesystem.List:
		switch name {
		case "length":
			return typesystem.TInt
		case "first":
			return typesystem.Nullable{Inner: t.Element}
		}
	case typesystem.Map:
		if name == "size" {
			return typesystem.TInt
		}
	case typesystem.Future:
		// .then/.catch/.finally/.tap/.map are checked as method calls,
		// not plain member access (spec §4.2 thenables).
	}
	return nil
}

func (a *Analyzer) checkIndexExpr(e *ast.IndexExpr) typesystem.Type {
	objType := a.checkExpr(e.Object)
	idxType := a.checkExpr(e.Index)
	switch t := objType.(type) {
	case typesystem.List:
		if !typesystem.IsPrimitive(idxType, typesystem.Int) {
			a.addErrNode(e.Index, "list index must be int, got %s", idxType)
		}
		return t.Element
	case typesystem.Primitive:
		if t.Name == typesystem.Str {
			if !typesystem.IsPrimitive(idxType, typesystem.Int) {
				a.addErrNode(e.Index, "string index must be int, got %s", idxType)
			}
			return typesystem.TStr
		}
	case typesystem.Map:
		if !typesystem.IsAssignableTo(idxType, t.Key) {
			a.addErrNode(e.Index, "map key must be %s, got %s", t.Key, idxType)
		}
		return typesystem.Nullable{Inner: t.Value}
	case typesystem.Class, typesystem.Interface:
		return typesystem.Nullable{Inner: typesystem.TAny}
	}
	return a.errorf(e, "invalid index target %s", objType)
}

// checkMethodCallExpr routes class-static/instance methods, primitive
// per-type method tables, and Future thenables (spec §4.1 "Method call
// routes", §4.2 "Thenables"). Await requires Future<T> and yields T;
// here a bare `.then`/`.catch`/... call on a Future is the thenable path
// (spec §4.4 "Await requires Future<T> and yields T").
func (a *Analyzer) checkMethodCallExpr(e *ast.MethodCallExpr) typesystem.Type {
	recvType := a.checkExpr(e.Receiver)
	for _, arg := range e.Args {
		a.checkExpr(arg)
	}
	for _, na := range e.NamedArgs {
		a.checkExpr(na.Value)
	}
	result := a.resolveMethodCallType(e, recvType)
	if e.Optional {
		return typesystem.Nullable{Inner: result}
	}
	return result
}

func (a *Analyzer) resolveMethodCallType(e *ast.MethodCallExpr, recvType typesystem.Type) typesystem.Type {
	if _, ok := recvType.(typesystem.Future); ok {
		switch e.Method {
		case "then", "catch", "finally", "tap", "map":
			return typesystem.Future{Inner: typesystem.TAny}
		}
	}
	if t := a.lookupMember(recvType, e.Method); t != nil {
		if fn, ok := t.(typesystem.Function); ok {
			return fn.Return
		}
		return t
	}
	if builtinArrayMethod(e.Method) {
		if lt, ok := recvType.(typesystem.List); ok {
			return arrayMethodReturn(e.Method, lt)
		}
	}
	if stringMethodReturn, ok := stringInstanceMethod(e.Method); ok && typesystem.IsPrimitive(recvType, typesystem.Str) {
		return stringMethodReturn
	}
	if typesystem.IsPrimitive(recvType, typesystem.Any) || typesystem.IsPrimitive(recvType, typesystem.Unknown) {
		return typesystem.TAny
	}
	return a.errorf(e, "no method %q on %s", e.Method, recvType)
}

// builtinArrayMethod reports whether name is one of the list methods the
// analyzer accepts: the evaluator-assisted higher-order methods (spec
// §4.3 "map/filter/reduce/forEach/find/findIndex/some/every are
// evaluator-assisted") plus the plain per-type methods listed below.
func builtinArrayMethod(name string) bool {
	switch name {
	case "map", "filter", "reduce", "forEach", "find", "findIndex", "some", "every", "push", "pop", "slice", "join", "includes", "indexOf", "reverse", "sort", "concat", "flat":
		return true
	}
	return false
}

func arrayMethodReturn(name string, lt typesystem.List) typesystem.Type {
	switch name {
	case "map":
		return typesystem.List{Element: typesystem.TUnknown}
	case "filter", "reverse", "sort", "concat", "slice":
		return lt
	case "reduce":
		return typesystem.TUnknown
	case "forEach":
		return typesystem.TVoid
	case "find":
		return typesystem.Nullable{Inner: lt.Element}
	case "findIndex", "indexOf":
		return typesystem.TInt
	case "some", "every", "includes":
		return typesystem.TBool
	case "push":
		return typesystem.TInt
	case "pop":
		return typesystem.Nullable{Inner: lt.Element}
	case "flat":
		return lt
	}
	return typesystem.TUnknown
}

// stringInstanceMethod covers the authoritative string instance-method
// table (spec §4.3).
func stringInstanceMethod(name string) (typesystem.Type, bool) {
	switch name {
	case "toUpper", "toLower", "trim", "trimStart", "trimEnd", "replace", "slice", "repeat", "padStart", "padEnd":
		return typesystem.TStr, true
	case "split":
		return typesystem.List{Element: typesystem.TStr}, true
	case "startsWith", "endsWith", "contains":
		return typesystem.TBool, true
	case "indexOf", "lastIndexOf", "charCodeAt":
		return typesystem.TInt, true
	}
	return nil, false
}

func (a *Analyzer) checkNullCoalesceExpr(e *ast.NullCoalesceExpr) typesystem.Type {
	lt := a.checkExpr(e.Left)
	rt := a.checkExpr(e.Right)
	if nt, ok := lt.(typesystem.Nullable); ok {
		return typesystem.InferCommonType([]typesystem.Type{nt.Inner, rt})
	}
	return typesystem.InferCommonType([]typesystem.Type{lt, rt})
}

// checkRangeExpr: "require both integers; materialize an inclusive list"
// (spec §4.1).
func (a *Analyzer) checkRangeExpr(e *ast.RangeExpr) typesystem.Type {
	ft := a.checkExpr(e.From)
	tt := a.checkExpr(e.To)
	if !typesystem.IsPrimitive(ft, typesystem.Int) || !typesystem.IsPrimitive(tt, typesystem.Int) {
		a.addErrNode(e, "range bounds must be int, got %s, %s", ft, tt)
	}
	return typesystem.List{Element: typesystem.TInt}
}

// checkMatchExpr: no exhaustiveness analysis in this release (spec §4.4
// "Match"; open question in §9 of spec.md's source release notes).
func (a *Analyzer) checkMatchExpr(e *ast.MatchExpr) typesystem.Type {
	scrutType := a.checkExpr(e.Scrutinee)
	var armTypes []typesystem.Type
	for _, arm := range e.Arms {
		a.Symbols.PushScope()
		a.bindMatchPattern(arm.Pattern, scrutType)
		if arm.Guard != nil {
			a.checkExpr(arm.Guard)
		}
		armTypes = append(armTypes, a.checkExpr(arm.Body))
		a.Symbols.PopScope()
	}
	return typesystem.InferCommonType(armTypes)
}

func (a *Analyzer) checkArrowFunction(e *ast.ArrowFunctionExpr) typesystem.Type {
	a.Symbols.PushScope()
	a.bindParams(e.Params)
	fc := &funcCtx{isAsync: e.IsAsync}
	if e.ReturnType != nil {
		fc.declaredReturn = a.resolveAnnotation(e.ReturnType)
	}
	a.pushFunc(fc)
	var bodyType typesystem.Type = typesystem.TVoid
	if e.ExprBody != nil {
		bodyType = a.checkExpr(e.ExprBody)
		fc.collector.Add(bodyType)
	} else if e.BlockBody != nil {
		for _, st := range e.BlockBody.Stmts {
			a.checkStmt(st)
		}
	}
	a.popFunc()
	a.Symbols.PopScope()

	ret := fc.declaredReturn
	if ret == nil {
		ret = fc.collector.Infer()
	}
	if e.IsAsync {
		ret = typesystem.WrapAsync(ret)
	}
	params := make([]typesystem.Type, len(e.Params))
	variadic := false
	for i, p := range e.Params {
		params[i] = a.resolveAnnotation(p.Type)
		if p.IsRest {
			variadic = true
		}
	}
	return typesystem.Function{Params: params, Return: ret, Variadic: variadic}
}

// checkNewExpr: `new Map<K,V>()` is intrinsic; otherwise look up the
// class (spec §4.1 "New"), verifying the constructor's required
// arguments are supplied (spec §7 "class instantiation missing required
// argument").
func (a *Analyzer) checkNewExpr(e *ast.NewExpr) typesystem.Type {
	if e.IsMapCtor {
		kt, vt := typesystem.Type(typesystem.TAny), typesystem.Type(typesystem.TAny)
		if len(e.TypeArgs) == 2 {
			kt, vt = e.TypeArgs[0], e.TypeArgs[1]
		}
		return typesystem.Map{Key: kt, Value: vt}
	}
	for _, arg := range e.Args {
		a.checkExpr(arg)
	}
	ci, ok := a.classes[e.ClassName]
	if !ok {
		return a.errorf(e, "undefined class %q", e.ClassName)
	}
	if ci.typ.Constructor != nil {
		minArgs := len(ci.typ.Constructor.Params)
		if ci.typ.Constructor.Variadic && minArgs > 0 {
			minArgs--
		}
		if len(e.Args) < minArgs && len(e.NamedArgs) == 0 {
			a.addErrNode(e, "class %q constructor missing required argument", e.ClassName)
		}
	}
	return *ci.typ
}

func (a *Analyzer) checkClassExprType(e *ast.ClassExpr) typesystem.Type {
	decl := e.Class
	name := decl.Name
	if name == "" {
		name = "__AnonymousClass_" + e.Token.Position.String()
	}
	synthesized := *decl
	synthesized.Name = name
	a.declarePass([]ast.Statement{&synthesized})
	a.checkClassDecl(&synthesized)
	return *a.classes[name].typ
}

// checkAwaitExpr: "Await requires Future<T> and yields T" (spec §4.4).
func (a *Analyzer) checkAwaitExpr(e *ast.AwaitExpr) typesystem.Type {
	t := a.checkExpr(e.Operand)
	if fut, ok := t.(typesystem.Future); ok {
		return fut.Inner
	}
	if typesystem.IsPrimitive(t, typesystem.Any) || typesystem.IsPrimitive(t, typesystem.Unknown) {
		return typesystem.TAny
	}
	return a.errorf(e, "await operand must be a Future, got %s", t)
}
