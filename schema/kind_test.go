package schema

import (
	"encoding/binary"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		expected string
		kind     Kind
	}{
		{"bool", KindBool},
		{"u8", KindU8},
		{"s64", KindS64},
		{"f32", KindF32},
		{"char", KindChar},
		{"text", KindText},
		{"struct", KindStruct},
		{"unknown", Kind(200)},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestKindSizes(t *testing.T) {
	sizes := map[Kind]int{
		KindBool: 1, KindU8: 1, KindS8: 1, KindU16: 2, KindS16: 2,
		KindU32: 4, KindS32: 4, KindU64: 8, KindS64: 8,
		KindF32: 4, KindF64: 8, KindChar: 1, KindText: 1, KindStruct: 0,
	}
	for k, want := range sizes {
		if got := k.ElemSize(); got != want {
			t.Errorf("%s.ElemSize() = %d, want %d", k, got, want)
		}
	}
}

func TestKindClasses(t *testing.T) {
	for _, k := range []Kind{KindU8, KindS16, KindU64, KindF32, KindF64} {
		if !k.IsNumeric() {
			t.Errorf("%s should be numeric", k)
		}
	}
	for _, k := range []Kind{KindBool, KindChar, KindText, KindStruct} {
		if k.IsNumeric() {
			t.Errorf("%s should not be numeric", k)
		}
	}
	if !KindS32.IsSigned() || KindU32.IsSigned() {
		t.Error("IsSigned")
	}
	if KindStruct.IsScalar() || !KindText.IsScalar() {
		t.Error("IsScalar")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"u8", KindU8},
		{"ubyte", KindU8},
		{"byte", KindS8},
		{"ushort", KindU16},
		{"short", KindS16},
		{"Int32", KindS32},
		{"float", KindF32},
		{"double", KindF64},
		{"string", KindText},
		{" char ", KindChar},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.name)
		if !ok || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", tt.name, got, ok, tt.want)
		}
	}
	if _, ok := ParseKind("Point"); ok {
		t.Error("struct names must not parse as kinds")
	}
}

func TestEndianness(t *testing.T) {
	if Little.ByteOrder() != binary.LittleEndian {
		t.Error("little should resolve to binary.LittleEndian")
	}
	if Big.ByteOrder() != binary.BigEndian || Network.ByteOrder() != binary.BigEndian {
		t.Error("big and network should resolve to binary.BigEndian")
	}
	if !SameOrder(Big, Network) {
		t.Error("big and network share a byte order")
	}
	if SameOrder(Little, Big) {
		t.Error("little and big differ")
	}

	for in, want := range map[string]Endianness{"": Native, "=": Native, "<": Little, "BIG": Big, "!": Network, "network": Network} {
		got, err := ParseEndianness(in)
		if err != nil || got != want {
			t.Errorf("ParseEndianness(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseEndianness("middle"); err == nil {
		t.Error("expected error for unknown endianness")
	}
}
