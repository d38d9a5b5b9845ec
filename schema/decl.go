package schema

import "slices"

// FieldDecl declares one field. Struct must be set for KindStruct and only then.
type FieldDecl struct {
	Struct *Layout
	Name   string
	Shape  Shape
	Kind   Kind
}

// Decl is an ordered struct declaration.
type Decl struct {
	Name       string
	Fields     []FieldDecl
	Endianness Endianness
}

// Builder assembles a Decl field by field.
type Builder struct {
	decl Decl
}

// New starts a declaration.
func New(name string, e Endianness) *Builder {
	return &Builder{decl: Decl{Name: name, Endianness: e}}
}

// Field appends a scalar or array field of the given kind. For KindText the
// first dimension is the capacity; prefer Text for readability.
func (b *Builder) Field(name string, kind Kind, dims ...int) *Builder {
	b.decl.Fields = append(b.decl.Fields, FieldDecl{Name: name, Kind: kind, Shape: slices.Clone(dims)})
	return b
}

// Text appends a fixed-capacity text field, optionally as an array of strings.
func (b *Builder) Text(name string, capacity int, dims ...int) *Builder {
	shape := make(Shape, 0, len(dims)+1)
	shape = append(shape, capacity)
	shape = append(shape, dims...)
	b.decl.Fields = append(b.decl.Fields, FieldDecl{Name: name, Kind: KindText, Shape: shape})
	return b
}

// Struct appends a nested struct field, optionally as an array of structs.
func (b *Builder) Struct(name string, l *Layout, dims ...int) *Builder {
	b.decl.Fields = append(b.decl.Fields, FieldDecl{Name: name, Kind: KindStruct, Struct: l, Shape: slices.Clone(dims)})
	return b
}

// Decl returns a copy of the declaration built so far.
func (b *Builder) Decl() Decl {
	d := b.decl
	d.Fields = slices.Clone(b.decl.Fields)
	return d
}

// Compile compiles the declaration with the default compiler.
func (b *Builder) Compile() (*Layout, error) {
	return Compile(b.decl)
}

// CompileWith compiles the declaration with c.
func (b *Builder) CompileWith(c *Compiler) (*Layout, error) {
	return c.Compile(b.decl)
}
