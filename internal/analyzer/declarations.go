// Pass 1: declaration registration (spec §4.4 "Pass 1 - declarations").
// Grounded on the teacher's internal/analyzer/declarations.go, which
// performs the same two-stage (shell then fill-in) registration to let
// forward references between classes/functions resolve.
package analyzer

import (
	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/symbols"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// declarePass registers every top-level class/interface/enum/type-alias/
// function shell first (so mutually-recursive references resolve), then
// fills in each shell's resolved members.
func (a *Analyzer) declarePass(stmts []ast.Statement) {
	// Stage 1: shells, so name lookups during stage 2 always succeed.
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ClassDecl:
			a.classes[s.Name] = &classInfo{decl: s, typ: &typesystem.Class{Name: s.Name, TypeParameters: s.TypeParams}}
		case *ast.InterfaceDecl:
			a.interfaces[s.Name] = &interfaceInfo{decl: s, typ: &typesystem.Interface{Name: s.Name, TypeParameters: s.TypeParams}}
		}
	}
	// Stage 2: resolve superclass anchors, members, enum values, type
	// aliases, and function signatures.
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ClassDecl:
			a.declareClass(s)
		case *ast.InterfaceDecl:
			a.declareInterface(s)
		case *ast.EnumDecl:
			a.declareEnum(s)
		case *ast.TypeAliasDecl:
			a.declareTypeAlias(s)
		case *ast.FnDecl:
			a.declareFunction(s)
		}
	}
}

func (a *Analyzer) declareClass(s *ast.ClassDecl) {
	ci := a.classes[s.Name]
	if s.Superclass != "" {
		super, ok := a.classes[s.Superclass]
		if !ok {
			a.addErrNode(s, "superclass %q is not declared", s.Superclass)
		} else {
			ci.typ.Superclass = super.typ
		}
	}
	for _, p := range s.Properties {
		ci.typ.Properties = append(ci.typ.Properties, typesystem.Property{
			Name: p.Name, Type: a.resolveAnnotation(p.Type), IsStatic: p.IsStatic,
		})
	}
	for _, m := range s.Methods {
		if m.IsGetter || m.IsSetter {
			continue // accessors are resolved as properties, not methods, per spec §4.1 member access
		}
		ci.typ.Methods = append(ci.typ.Methods, typesystem.Method{
			Name: m.Fn.Name, Sig: a.fnSignature(m.Fn), IsStatic: m.IsStatic,
		})
	}
	if s.Constructor != nil {
		sig := a.fnSignature(s.Constructor)
		ci.typ.Constructor = &sig
	}
	sym := &symbols.Symbol{Name: s.Name, SymKind: symbols.Class, Type: *ci.typ, Decl: s}
	a.Symbols.Define(sym)
}

func (a *Analyzer) declareInterface(s *ast.InterfaceDecl) {
	ii := a.interfaces[s.Name]
	for _, p := range s.Properties {
		ii.typ.Properties = append(ii.typ.Properties, typesystem.Property{Name: p.Name, Type: a.resolveAnnotation(p.Type)})
	}
	for _, m := range s.Methods {
		ii.typ.Methods = append(ii.typ.Methods, typesystem.Method{Name: m.Name, Sig: a.methodSigFromInterface(m)})
	}
	a.Symbols.Define(&symbols.Symbol{Name: s.Name, SymKind: symbols.Interface, Type: *ii.typ, Decl: s})
}

func (a *Analyzer) methodSigFromInterface(m ast.InterfaceMethodSig) typesystem.Function {
	params := make([]typesystem.Type, len(m.Params))
	variadic := false
	for i, p := range m.Params {
		params[i] = a.resolveAnnotation(p.Type)
		if p.IsRest {
			variadic = true
		}
	}
	return typesystem.Function{Params: params, Return: a.resolveAnnotation(m.ReturnType), Variadic: variadic}
}

// declareEnum computes member values left-to-right with auto-increment
// starting at 0, accepting integer and string literal overrides (spec
// §4.4).
func (a *Analyzer) declareEnum(s *ast.EnumDecl) {
	e := &typesystem.Enum{Name: s.Name}
	next := int64(0)
	for _, m := range s.Members {
		switch {
		case m.IntOverride != nil:
			e.Members = append(e.Members, typesystem.EnumMember{Name: m.Name, Value: *m.IntOverride})
			next = *m.IntOverride + 1
		case m.StrOverride != nil:
			e.Members = append(e.Members, typesystem.EnumMember{Name: m.Name, Value: *m.StrOverride})
		default:
			e.Members = append(e.Members, typesystem.EnumMember{Name: m.Name, Value: next})
			next++
		}
	}
	a.enums[s.Name] = e
	a.Symbols.Define(&symbols.Symbol{Name: s.Name, SymKind: symbols.Enum, Type: *e, Decl: s})
}

func (a *Analyzer) declareTypeAlias(s *ast.TypeAliasDecl) {
	resolved := a.resolveAnnotation(s.Type)
	a.aliases[s.Name] = resolved
	a.Symbols.Define(&symbols.Symbol{Name: s.Name, SymKind: symbols.TypeAlias, Type: resolved, Decl: s})
}

// fnSignature resolves a function/method/constructor's parameter and
// return types. If no return type was declared, it defaults to unknown,
// to be replaced by the inferred type once pass 2 checks the body (spec
// §4.4 "default return type to unknown (to be inferred in pass 2)").
func (a *Analyzer) fnSignature(fn *ast.FnDecl) typesystem.Function {
	params := make([]typesystem.Type, len(fn.Params))
	variadic := false
	for i, p := range fn.Params {
		params[i] = a.resolveAnnotation(p.Type)
		if p.IsRest {
			variadic = true
		}
	}
	ret := typesystem.Type(typesystem.TUnknown)
	if fn.ReturnType != nil {
		ret = a.resolveAnnotation(fn.ReturnType)
	}
	if fn.IsAsync {
		ret = typesystem.WrapAsync(ret)
	}
	return typesystem.Function{Params: params, Return: ret, Variadic: variadic}
}

func (a *Analyzer) declareFunction(s *ast.FnDecl) {
	sig := a.fnSignature(s)
	a.Symbols.Define(&symbols.Symbol{Name: s.Name, SymKind: symbols.Function, Type: sig, Decl: s})
}
