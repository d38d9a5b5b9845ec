package schema

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wippyai/structbuf/errors"
)

// Compiler turns declarations into layouts and caches the result per distinct
// declaration. A Compiler is safe for concurrent use.
type Compiler struct {
	group singleflight.Group
	cache sync.Map // declaration key -> *Layout
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// Compile compiles d with the process-wide default compiler.
func Compile(d Decl) (*Layout, error) {
	return defaultCompiler.Compile(d)
}

// Compile validates d and computes its layout. Equal declarations yield the
// same *Layout.
func (c *Compiler) Compile(d Decl) (*Layout, error) {
	key := declKey(d)
	if cached, ok := c.cache.Load(key); ok {
		Logger().Debug("layout cache hit", zap.String("struct", d.Name))
		return cached.(*Layout), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.cache.Load(key); ok {
			return cached, nil
		}
		l, err := compile(d, key)
		if err != nil {
			return nil, err
		}
		c.cache.Store(key, l)
		Logger().Debug("layout compiled",
			zap.String("struct", l.name),
			zap.Int("fields", len(l.fields)),
			zap.Int("size", l.size),
			zap.Stringer("endianness", l.endianness))
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Layout), nil
}

func compile(d Decl, key string) (*Layout, error) {
	l := &Layout{
		name:       d.Name,
		key:        key,
		endianness: d.Endianness,
		fields:     make([]Field, 0, len(d.Fields)),
		index:      make(map[string]int, len(d.Fields)),
	}

	var errs error
	if d.Endianness > Network {
		errs = multierr.Append(errs, errors.Schema([]string{d.Name}, "unknown endianness %d", d.Endianness))
	}

	offset := 0
	for _, fd := range d.Fields {
		path := []string{d.Name, fd.Name}
		if fd.Name == "" {
			errs = multierr.Append(errs, errors.Schema([]string{d.Name}, "field %d has no name", len(l.fields)))
			continue
		}
		if _, dup := l.index[fd.Name]; dup {
			errs = multierr.Append(errs, errors.Schema(path, "duplicate field name"))
			continue
		}

		size, err := fieldSize(d, fd, path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if offset > math.MaxInt-size {
			errs = multierr.Append(errs, errors.Schema(path, "struct size overflows"))
			continue
		}

		l.index[fd.Name] = len(l.fields)
		l.fields = append(l.fields, Field{
			Name:   fd.Name,
			Kind:   fd.Kind,
			Struct: fd.Struct,
			Shape:  append(Shape(nil), fd.Shape...),
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	if errs != nil {
		all := multierr.Errors(errs)
		if len(all) == 1 {
			return nil, all[0]
		}
		return nil, errors.New(errors.PhaseCompile, errors.KindSchema).
			Path(d.Name).
			Detail("%d invalid fields", len(all)).
			Cause(errs).
			Build()
	}

	l.size = offset
	return l, nil
}

func fieldSize(d Decl, fd FieldDecl, path []string) (int, error) {
	if !fd.Kind.Valid() {
		return 0, errors.Schema(path, "unknown kind %d", fd.Kind)
	}
	for i, dim := range fd.Shape {
		if dim <= 0 {
			return 0, errors.New(errors.PhaseCompile, errors.KindSchema).
				Path(path...).
				Value(dim).
				Detail("dimension %d is %d, dimensions must be positive integers", i, dim).
				Build()
		}
	}

	var elem int
	switch {
	case fd.Kind == KindStruct:
		if fd.Struct == nil {
			return 0, errors.Schema(path, "struct field without a nested layout")
		}
		if !SameOrder(fd.Struct.endianness, d.Endianness) {
			return 0, errors.New(errors.PhaseCompile, errors.KindSchema).
				Path(path...).
				Detail("nested struct %s is %s, owner %s is %s",
					fd.Struct.name, fd.Struct.endianness, d.Name, d.Endianness).
				Build()
		}
		elem = fd.Struct.size
	case fd.Struct != nil:
		return 0, errors.Schema(path, "nested layout set on a %s field", fd.Kind)
	default:
		elem = fd.Kind.ElemSize()
	}

	size := elem
	for _, dim := range fd.Shape {
		if size != 0 && dim > math.MaxInt/size {
			return 0, errors.Schema(path, "field size overflows")
		}
		size *= dim
	}
	return size, nil
}

// declKey renders a declaration canonically. Nested layouts contribute their
// own key so that structurally equal trees share cache entries.
func declKey(d Decl) string {
	var b strings.Builder
	writeDeclKey(&b, d.Name, d.Endianness, d.Fields)
	return b.String()
}

func writeDeclKey(b *strings.Builder, name string, e Endianness, fields []FieldDecl) {
	b.WriteString(strconv.Quote(name))
	b.WriteByte('/')
	b.WriteString(e.String())
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Quote(f.Name))
		b.WriteByte(':')
		b.WriteString(f.Kind.String())
		for _, dim := range f.Shape {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(dim))
			b.WriteByte(']')
		}
		if f.Struct != nil {
			b.WriteByte('=')
			b.WriteString(f.Struct.key)
		}
	}
	b.WriteByte('}')
}
