package schema

import "strings"

// Kind is the element type of a field.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindChar
	KindText
	KindStruct
)

var kindNames = [...]string{
	KindBool:   "bool",
	KindU8:     "u8",
	KindS8:     "s8",
	KindU16:    "u16",
	KindS16:    "s16",
	KindU32:    "u32",
	KindS32:    "s32",
	KindU64:    "u64",
	KindS64:    "s64",
	KindF32:    "f32",
	KindF64:    "f64",
	KindChar:   "char",
	KindText:   "text",
	KindStruct: "struct",
}

// goTypes are the Go types values of each kind decode to.
var goTypes = [...]string{
	KindBool:   "bool",
	KindU8:     "uint8",
	KindS8:     "int8",
	KindU16:    "uint16",
	KindS16:    "int16",
	KindU32:    "uint32",
	KindS32:    "int32",
	KindU64:    "uint64",
	KindS64:    "int64",
	KindF32:    "float32",
	KindF64:    "float64",
	KindChar:   "[]byte",
	KindText:   "string",
	KindStruct: "struct",
}

// elemSizes holds the byte size of one element. Text is per character,
// structs are sized by their layout.
var elemSizes = [...]int{
	KindBool: 1,
	KindU8:   1,
	KindS8:   1,
	KindU16:  2,
	KindS16:  2,
	KindU32:  4,
	KindS32:  4,
	KindU64:  8,
	KindS64:  8,
	KindF32:  4,
	KindF64:  8,
	KindChar: 1,
	KindText: 1,
}

var kindAliases = map[string]Kind{
	"bool":    KindBool,
	"u8":      KindU8,
	"uint8":   KindU8,
	"ubyte":   KindU8,
	"s8":      KindS8,
	"int8":    KindS8,
	"byte":    KindS8,
	"u16":     KindU16,
	"uint16":  KindU16,
	"ushort":  KindU16,
	"s16":     KindS16,
	"int16":   KindS16,
	"short":   KindS16,
	"u32":     KindU32,
	"uint32":  KindU32,
	"s32":     KindS32,
	"int32":   KindS32,
	"u64":     KindU64,
	"uint64":  KindU64,
	"s64":     KindS64,
	"int64":   KindS64,
	"f32":     KindF32,
	"float32": KindF32,
	"float":   KindF32,
	"f64":     KindF64,
	"float64": KindF64,
	"double":  KindF64,
	"char":    KindChar,
	"text":    KindText,
	"string":  KindText,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// GoType returns the name of the Go type a decoded element has.
func (k Kind) GoType() string {
	if int(k) < len(goTypes) {
		return goTypes[k]
	}
	return "unknown"
}

// ElemSize returns the byte size of a single element, or 0 for structs and
// unknown kinds.
func (k Kind) ElemSize() int {
	if int(k) < len(elemSizes) {
		return elemSizes[k]
	}
	return 0
}

func (k Kind) Valid() bool {
	return k <= KindStruct
}

func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindS64
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// IsNumeric reports whether byte order applies to the kind's encoding.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// IsScalar reports whether fields of this kind are decoded rather than bound.
func (k Kind) IsScalar() bool {
	return k < KindStruct
}

// ParseKind resolves a scalar kind name. Accepted names include the short
// forms (u8, s32, f64), Go names (uint8, int32, float64) and the C-like
// aliases (ubyte, short, double).
func ParseKind(name string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}
