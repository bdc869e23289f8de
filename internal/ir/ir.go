// Package ir implements the labeled, register-based intermediate
// representation spec §4.6 describes as an optional compilation target
// for the AST: an alternate, lower-level instruction stream executed by
// the register VM (internal/vm) instead of the tree-walking evaluator.
// Grounded on the teacher's internal/vm/opcodes.go (single-opcode,
// operand-per-field instruction shape) and compiler.go (single Temp
// counter + label counter threaded through a recursive lowering pass);
// generalized from funxy's stack-machine opcode set to this spec's
// named-register model (Temp/Local/Global), since spec §4.6 is explicit
// that the register file is addressed by register, not by stack depth.
package ir

import (
	"fmt"

	"github.com/raccoon-lang/raccoon/internal/ast"
	"github.com/raccoon-lang/raccoon/internal/token"
)

// RegisterKind tags which of the three register families (spec §4.6,
// glossary "Register") a Register names.
type RegisterKind int

const (
	RTemp RegisterKind = iota
	RLocal
	RGlobal
)

// Register is a name-tagged slot holding one value at execution time.
// Temp registers are numbered monotonically per compiled function body
// (SSA-ish, spec §4.6 "Compilation rules"); Local/Global registers are
// addressed by the source name they were declared under.
type Register struct {
	Kind RegisterKind
	Num  int    // meaningful only when Kind == RTemp
	Name string // meaningful only when Kind == RLocal or RGlobal
}

func Temp(n int) Register         { return Register{Kind: RTemp, Num: n} }
func Local(name string) Register  { return Register{Kind: RLocal, Name: name} }
func Global(name string) Register { return Register{Kind: RGlobal, Name: name} }

// Key returns the string this register is addressed by in the VM's flat
// register map (spec §4.6 "VM execution": "a flat map from register
// name (derived from the register tag) to value").
func (r Register) Key() string {
	switch r.Kind {
	case RTemp:
		return fmt.Sprintf("%%t%d", r.Num)
	case RLocal:
		return "local:" + r.Name
	case RGlobal:
		return "global:" + r.Name
	}
	return ""
}

func (r Register) String() string { return r.Key() }

// Op enumerates every instruction kind named in spec §4.6.
type Op int

const (
	OpLoadConst Op = iota
	OpMove
	OpDeclare
	OpStore
	OpLoad
	OpBinaryOp
	OpUnaryOp
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	OpLabel
	OpCall
	OpReturn
	OpCreateFunction
	OpCreateArray
	OpLoadIndex
	OpStoreIndex
	OpCreateObject
	OpLoadProperty
	OpStoreProperty
	OpMethodCall
	OpNewInstance
	OpAwait
	OpTypeOf
	OpInstanceOf
	OpThrow
	OpDestructureArray
	OpDestructureObject
	OpIncrement
	OpDecrement
	OpCreateTemplate
	OpMatch
	OpCreateRange
	OpConditional
	OpNullCoalesce
	OpOptionalChain
	OpPushScope
	OpPopScope
	OpTryCatch
	OpForIn
	OpForOf
	OpBreak
	OpContinue
)

var opNames = map[Op]string{
	OpLoadConst: "LoadConst", OpMove: "Move", OpDeclare: "Declare",
	OpStore: "Store", OpLoad: "Load", OpBinaryOp: "BinaryOp",
	OpUnaryOp: "UnaryOp", OpJump: "Jump", OpJumpIfTrue: "JumpIfTrue",
	OpJumpIfFalse: "JumpIfFalse", OpLabel: "Label", OpCall: "Call",
	OpReturn: "Return", OpCreateFunction: "CreateFunction",
	OpCreateArray: "CreateArray", OpLoadIndex: "LoadIndex",
	OpStoreIndex: "StoreIndex", OpCreateObject: "CreateObject",
	OpLoadProperty: "LoadProperty", OpStoreProperty: "StoreProperty",
	OpMethodCall: "MethodCall", OpNewInstance: "NewInstance",
	OpAwait: "Await", OpTypeOf: "TypeOf", OpInstanceOf: "InstanceOf",
	OpThrow: "Throw", OpDestructureArray: "DestructureArray",
	OpDestructureObject: "DestructureObject", OpIncrement: "Increment",
	OpDecrement: "Decrement", OpCreateTemplate: "CreateTemplate",
	OpMatch: "Match", OpCreateRange: "CreateRange",
	OpConditional: "Conditional", OpNullCoalesce: "NullCoalesce",
	OpOptionalChain: "OptionalChain", OpPushScope: "PushScope",
	OpPopScope: "PopScope", OpTryCatch: "TryCatch", OpForIn: "ForIn",
	OpForOf: "ForOf", OpBreak: "Break", OpContinue: "Continue",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "UNKNOWN"
}

// MatchArm is one compiled `pattern => body` rule (spec §4.6 "Match{arms:
// {pattern, guard?, body: nested IR}}").
type MatchArm struct {
	Pattern ast.Pattern
	Guard   *Program // nil if the arm carries no guard
	Body    *Program
}

// Instr is one instruction of the linear stream. Not every field is
// meaningful for every Op; unused fields are left zero, mirroring the
// teacher's single-struct-many-fields opcode encoding rather than one Go
// type per instruction (spec's "linear stream of instructions" reads
// naturally as a flat slice of one instruction shape).
type Instr struct {
	Op       Op
	Pos      token.Position
	Dst      Register
	Src1     Register
	Src2     Register
	Const    interface{} // literal payload for LoadConst
	Operator string      // for BinaryOp/UnaryOp
	Label    string      // target label for Jump*/Label
	Name     string      // property/method/variable name, as applicable
	Args     []Register  // Call/MethodCall/NewInstance/CreateArray/CreateObject elements
	Nested   *Program    // CreateFunction body / TryCatch sub-programs
	Catch    *Program    // TryCatch catch body
	Finally  *Program    // TryCatch finally body
	Arms     []MatchArm  // Match
	IsAsync  bool        // CreateFunction
	Params   []string    // CreateFunction parameter names, in call order
	RestDst  Register    // DestructureArray: register to receive the rest slice, meaningful only when HasRest
	HasRest  bool        // DestructureArray: whether the pattern carries a rest element
}

// Program is a compiled, linear instruction stream for one function body
// or top-level script.
type Program struct {
	Instrs []Instr
}

func (p *Program) Emit(i Instr) {
	p.Instrs = append(p.Instrs, i)
}

// nextTemp/nextLabel generate unique temp numbers and label names. One
// Counters value is shared by a compilation unit and the for-in bodies,
// match arms and try blocks nested in it; each function or arrow body is
// compiled by a fresh Compiler and so starts its own numbering. Labels are
// resolved per Program by the VM, so uniqueness within a unit suffices.
// Each while/for loop takes a fresh pair of labels from here (see the
// compiler's loopStack) rather than reusing fixed "break"/"continue" names.
type Counters struct {
	nextTemp  int
	nextLabel int
}

func (c *Counters) NewTemp() Register {
	r := Temp(c.nextTemp)
	c.nextTemp++
	return r
}

func (c *Counters) NewLabel(prefix string) string {
	c.nextLabel++
	return fmt.Sprintf("%s_%d", prefix, c.nextLabel)
}
