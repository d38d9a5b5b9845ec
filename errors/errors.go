package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile  Phase = "compile"  // schema compilation
	PhaseBind     Phase = "bind"     // attaching a layout to a buffer
	PhaseEncode   Phase = "encode"   // Go value to bytes
	PhaseDecode   Phase = "decode"   // bytes to Go value
	PhaseExchange Phase = "exchange" // bulk copy and map import/export
	PhaseLoad     Phase = "load"     // schema files and providers
)

// Kind categorizes the error
type Kind string

const (
	KindSchema            Kind = "schema"
	KindInsufficientBuf   Kind = "insufficient_buffer"
	KindNoBuffer          Kind = "no_buffer"
	KindImmutableBuffer   Kind = "immutable_buffer"
	KindTypeMismatch      Kind = "type_mismatch"
	KindRange             Kind = "range"
	KindLength            Kind = "length"
	KindDimension         Kind = "dimension"
	KindWriteNotSupported Kind = "write_not_supported"
	KindFieldUnknown      Kind = "field_unknown"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindInvalidInput      Kind = "invalid_input"
)

// Sentinels for errors.Is. They carry no phase, so they match any phase.
var (
	ErrSchema            = &Error{Kind: KindSchema}
	ErrInsufficientBuf   = &Error{Kind: KindInsufficientBuf}
	ErrNoBuffer          = &Error{Kind: KindNoBuffer}
	ErrImmutableBuffer   = &Error{Kind: KindImmutableBuffer}
	ErrTypeMismatch      = &Error{Kind: KindTypeMismatch}
	ErrRange             = &Error{Kind: KindRange}
	ErrLength            = &Error{Kind: KindLength}
	ErrDimension         = &Error{Kind: KindDimension}
	ErrWriteNotSupported = &Error{Kind: KindWriteNotSupported}
	ErrFieldUnknown      = &Error{Kind: KindFieldUnknown}
	ErrOutOfBounds       = &Error{Kind: KindOutOfBounds}
	ErrInvalidUTF8       = &Error{Kind: KindInvalidUTF8}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	GoType    string
	FieldKind string
	Detail    string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.FieldKind != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.FieldKind != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", field kind ")
			b.WriteString(e.FieldKind)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("field kind ")
			b.WriteString(e.FieldKind)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.FieldKind != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// WithPath returns a copy of e with prefix prepended to its path.
func (e *Error) WithPath(prefix ...string) *Error {
	if len(prefix) == 0 {
		return e
	}
	cp := *e
	cp.Path = make([]string, 0, len(prefix)+len(e.Path))
	cp.Path = append(cp.Path, prefix...)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// FieldKind sets the schema kind name
func (b *Builder) FieldKind(k string) *Builder {
	b.err.FieldKind = k
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Schema creates a schema definition error
func Schema(path []string, detail string, args ...any) *Error {
	return New(PhaseCompile, KindSchema).Path(path...).Detail(detail, args...).Build()
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, fieldKind string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTypeMismatch,
		Path:      path,
		GoType:    goType,
		FieldKind: fieldKind,
	}
}

// Range creates an out-of-range numeric value error
func Range(phase Phase, path []string, value any, fieldKind string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindRange,
		Path:      path,
		FieldKind: fieldKind,
		Detail:    fmt.Sprintf("value %v out of range for %s", value, fieldKind),
		Value:     value,
	}
}

// Length creates an encoded-length error for text and char values
func Length(phase Phase, path []string, got, limit int, fieldKind string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindLength,
		Path:      path,
		FieldKind: fieldKind,
		Detail:    fmt.Sprintf("encoded length %d exceeds capacity %d", got, limit),
		Value:     got,
	}
}

// Dimension creates a shape mismatch error
func Dimension(phase Phase, path []string, detail string, args ...any) *Error {
	return New(phase, KindDimension).Path(path...).Detail(detail, args...).Build()
}

// InsufficientBuffer creates a buffer-too-small error
func InsufficientBuffer(path []string, offset, need, have int) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindInsufficientBuf,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes at offset %d, buffer has %d", need, offset, have),
	}
}

// NoBuffer creates an access-after-detach error
func NoBuffer(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoBuffer,
		Path:   path,
		Detail: "instance is detached from its buffer",
	}
}

// ImmutableBuffer creates a write-to-read-only error
func ImmutableBuffer(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindImmutableBuffer,
		Path:   path,
		Detail: "buffer is read-only",
	}
}

// WriteNotSupported creates an error for direct writes to struct fields
func WriteNotSupported(path []string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindWriteNotSupported,
		Path:   path,
		Detail: "struct fields are written through their sub-instance",
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// OutOfBounds creates a provider range error
func OutOfBounds(phase Phase, offset, length, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) outside region of %d bytes", offset, offset+length, size),
		Value:  offset,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
