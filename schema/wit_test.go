package schema

import (
	"errors"
	"testing"

	"go.bytecodealliance.org/wit"

	sberrors "github.com/wippyai/structbuf/errors"
)

func witName(s string) *string { return &s }

func TestFromWIT(t *testing.T) {
	vec := &wit.TypeDef{
		Name: witName("vec2"),
		Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "x", Type: wit.F32{}},
				{Name: "y", Type: wit.F32{}},
			},
		},
	}
	alias := &wit.TypeDef{Name: witName("id"), Kind: wit.U64{}}
	body := &wit.TypeDef{
		Name: witName("body"),
		Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "id", Type: alias},
				{Name: "pos", Type: vec},
				{Name: "vel", Type: vec},
				{Name: "mass", Type: wit.F64{}},
				{Name: "alive", Type: wit.Bool{}},
				{Name: "kind", Type: wit.S8{}},
			},
		},
	}

	l, err := FromWIT(body, Big, NewCompiler())
	if err != nil {
		t.Fatalf("FromWIT failed: %v", err)
	}
	if l.Name() != "body" {
		t.Errorf("name: got %q", l.Name())
	}
	if l.Size() != 8+8+8+8+1+1 {
		t.Errorf("size: got %d, want 34", l.Size())
	}

	id, _ := l.FieldByName("id")
	if id.Kind != KindU64 {
		t.Errorf("alias should resolve to u64, got %s", id.Kind)
	}
	pos, _ := l.FieldByName("pos")
	vel, _ := l.FieldByName("vel")
	if pos.Kind != KindStruct || pos.Struct != vel.Struct || pos.Struct.Size() != 8 {
		t.Errorf("nested records: pos %+v vel %+v", pos, vel)
	}
	if pos.Struct.Endianness() != Big {
		t.Errorf("nested endianness: got %s", pos.Struct.Endianness())
	}
	mass, _ := l.FieldByName("mass")
	if mass.Offset != 24 {
		t.Errorf("mass offset: got %d, want 24 (packed, no alignment)", mass.Offset)
	}
}

func TestFromWITRejectsVariableSize(t *testing.T) {
	tests := []struct {
		typ  wit.Type
		name string
	}{
		{wit.String{}, "string"},
		{wit.Char{}, "char"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, "list"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			td := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{{Name: "f", Type: tc.typ}}}}
			_, err := FromWIT(td, Little, NewCompiler())
			if !errors.Is(err, sberrors.ErrSchema) {
				t.Errorf("expected schema error, got %v", err)
			}
		})
	}

	if _, err := FromWIT(&wit.TypeDef{Kind: &wit.Enum{}}, Little, nil); !errors.Is(err, sberrors.ErrSchema) {
		t.Errorf("non-record top level: got %v", err)
	}
}
