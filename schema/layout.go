package schema

import (
	"slices"
	"strconv"
	"strings"
)

// Shape holds the extents of an array field. An empty shape is a scalar. For
// text fields the first extent is the capacity in bytes of each string.
type Shape []int

// Count returns the product of all extents, 1 for an empty shape.
func (s Shape) Count() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

func (s Shape) String() string {
	if len(s) == 0 {
		return "()"
	}
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Field is a compiled field: its declaration plus its byte offset within the
// owning struct and its total byte size.
type Field struct {
	Struct *Layout
	Name   string
	Shape  Shape
	Offset int
	Size   int
	Kind   Kind
}

// Dims returns the array extents over whole elements. For text fields the
// capacity is dropped; for every other kind this is the shape itself.
func (f Field) Dims() Shape {
	if f.Kind == KindText && len(f.Shape) > 0 {
		return f.Shape[1:]
	}
	return f.Shape
}

// Count returns the number of elements (values, strings or sub-structs).
func (f Field) Count() int {
	return f.Dims().Count()
}

// Capacity returns the byte capacity of one text value, 0 for other kinds.
func (f Field) Capacity() int {
	if f.Kind != KindText {
		return 0
	}
	if len(f.Shape) == 0 {
		return 1
	}
	return f.Shape[0]
}

// ElemSize returns the byte size of one element.
func (f Field) ElemSize() int {
	switch f.Kind {
	case KindText:
		return f.Capacity()
	case KindStruct:
		if f.Struct == nil {
			return 0
		}
		return f.Struct.Size()
	default:
		return f.Kind.ElemSize()
	}
}

func (f Field) IsArray() bool {
	return len(f.Dims()) > 0
}

func (f Field) clone() Field {
	f.Shape = slices.Clone(f.Shape)
	return f
}

// Layout is the compiled, immutable offset and size table of a struct schema.
// A Layout is safe to share between any number of bindings and goroutines.
type Layout struct {
	index      map[string]int
	name       string
	key        string
	fields     []Field
	size       int
	endianness Endianness
}

func (l *Layout) Name() string { return l.name }

// Size returns the total byte size: the sum of all field sizes.
func (l *Layout) Size() int { return l.size }

func (l *Layout) Endianness() Endianness { return l.endianness }

func (l *Layout) NumFields() int { return len(l.fields) }

// Field returns the i-th field in declaration order.
func (l *Layout) Field(i int) Field { return l.fields[i].clone() }

// FieldByName looks up a field by name.
func (l *Layout) FieldByName(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i].clone(), true
}

// Index returns the declaration index of a field, or -1.
func (l *Layout) Index(name string) int {
	if i, ok := l.index[name]; ok {
		return i
	}
	return -1
}

// Fields returns a copy of the fields in declaration order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	for i := range l.fields {
		out[i] = l.fields[i].clone()
	}
	return out
}

// Key returns the canonical rendering of the declaration this layout was
// compiled from. Two layouts with equal keys have identical byte layouts.
func (l *Layout) Key() string { return l.key }

// Identical reports whether a and b describe the same schema.
func Identical(a, b *Layout) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || a.key == b.key
}

func (l *Layout) String() string {
	return l.name + "<" + strconv.Itoa(l.size) + " bytes, " + l.endianness.String() + ">"
}
