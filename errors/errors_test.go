package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseEncode,
				Kind:      KindTypeMismatch,
				Path:      []string{"header", "points[1]", "x"},
				GoType:    "string",
				FieldKind: "u32",
				Detail:    "cannot convert",
			},
			contains: []string{"[encode]", "type_mismatch", "header.points[1].x", "string", "u32", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidInput,
				Detail: "mmap failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_input", "mmap failed", "caused by", "underlying error"},
		},
		{
			name:     "sentinel without phase",
			err:      ErrNoBuffer,
			contains: []string{"no_buffer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindRange,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindRange}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("errors.Is should match the phase-less sentinel")
	}
	if errors.Is(err, ErrDimension) {
		t.Error("errors.Is should not match another sentinel")
	}
}

func TestError_WithPath(t *testing.T) {
	base := Range(PhaseEncode, []string{"x"}, 300, "u8")
	wrapped := base.WithPath("outer", "inner[0]")

	if got := strings.Join(wrapped.Path, "."); got != "outer.inner[0].x" {
		t.Errorf("Path = %q, want outer.inner[0].x", got)
	}
	if len(base.Path) != 1 {
		t.Errorf("WithPath mutated the original: %v", base.Path)
	}
	if base.WithPath() != base {
		t.Error("WithPath with no prefix should return the receiver")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("user", "name").
		GoType("string").
		FieldKind("u32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "uint32", "string").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.FieldKind != "u32" {
		t.Errorf("FieldKind = %v, want 'u32'", err.FieldKind)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected uint32, got string" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err      *Error
		name     string
		sentinel *Error
		contains string
	}{
		{name: "Schema", err: Schema([]string{"f"}, "dimension %d", -1), sentinel: ErrSchema, contains: "-1"},
		{name: "TypeMismatch", err: TypeMismatch(PhaseEncode, nil, "int", "bool"), sentinel: ErrTypeMismatch, contains: "bool"},
		{name: "Range", err: Range(PhaseEncode, nil, 300, "u8"), sentinel: ErrRange, contains: "300"},
		{name: "Length", err: Length(PhaseEncode, nil, 7, 5, "text"), sentinel: ErrLength, contains: "capacity 5"},
		{name: "Dimension", err: Dimension(PhaseEncode, nil, "got %d", 4), sentinel: ErrDimension, contains: "got 4"},
		{name: "InsufficientBuffer", err: InsufficientBuffer(nil, 0, 3, 2), sentinel: ErrInsufficientBuf, contains: "need 3"},
		{name: "NoBuffer", err: NoBuffer(PhaseDecode, nil), sentinel: ErrNoBuffer, contains: "detached"},
		{name: "ImmutableBuffer", err: ImmutableBuffer(PhaseEncode, nil), sentinel: ErrImmutableBuffer, contains: "read-only"},
		{name: "WriteNotSupported", err: WriteNotSupported([]string{"child"}), sentinel: ErrWriteNotSupported, contains: "child"},
		{name: "FieldUnknown", err: FieldUnknown(PhaseDecode, nil, "extra"), sentinel: ErrFieldUnknown, contains: "extra"},
		{name: "OutOfBounds", err: OutOfBounds(PhaseDecode, 10, 4, 12), sentinel: ErrOutOfBounds, contains: "[10, 14)"},
		{name: "InvalidUTF8", err: InvalidUTF8(PhaseDecode, nil, []byte{0xff}), sentinel: ErrInvalidUTF8, contains: "ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%v does not match sentinel %v", tt.err, tt.sentinel.Kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
