package runtime

import "github.com/raccoon-lang/raccoon/internal/typesystem"

// Enum is a constructed variant value of some enum type (spec §3.2).
type Enum struct {
	EnumName string
	Variant  string
	Payload  Value // nil if the variant carries no payload
	Type     typesystem.Type
}

func (*Enum) Kind() Kind                   { return KEnum }
func (e *Enum) RuntimeType() typesystem.Type { return e.Type }

// EnumObject is the enum type's own namespace value: accessing
// EnumObject.Variant constructs an Enum value for that variant (spec
// §4.1 "Member access ... enum objects").
type EnumObject struct {
	Name    string
	Members map[string]Value // variant name -> constructor (nullary Enum or NativeFunction for payload variants)
	Type    typesystem.Type
}

func (*EnumObject) Kind() Kind                   { return KEnumObject }
func (e *EnumObject) RuntimeType() typesystem.Type { return e.Type }
