package binding

import (
	"fmt"
	"reflect"

	"github.com/wippyai/structbuf/codec"
	"github.com/wippyai/structbuf/errors"
	"github.com/wippyai/structbuf/schema"
)

// Read returns the value of the named field. Struct fields yield their
// sub-instance, or nested []any of sub-instances for arrays; nothing is
// copied. Other fields are decoded from the buffer.
func (in *Instance) Read(name string) (any, error) {
	idx, f, err := in.field(name, errors.PhaseDecode)
	if err != nil {
		return nil, err
	}
	path := childPath(in.path, name)
	if in.buf == nil {
		return nil, errors.NoBuffer(errors.PhaseDecode, path)
	}

	if f.Kind == schema.KindStruct {
		subs := in.subs[idx]
		if !f.IsArray() {
			return subs[0], nil
		}
		items := make([]any, len(subs))
		for i, s := range subs {
			items[i] = s
		}
		return reshape(items, f.Dims()), nil
	}

	data, err := in.span(f, path)
	if err != nil {
		return nil, err
	}
	if !f.IsArray() {
		v, err := codec.Decode(f.Kind, in.order, data)
		if err != nil {
			return nil, withPath(err, path)
		}
		return v, nil
	}

	dims := f.Dims()
	elem := f.ElemSize()
	flat := make([]any, f.Count())
	for i := range flat {
		v, err := codec.Decode(f.Kind, in.order, data[i*elem:(i+1)*elem])
		if err != nil {
			return nil, withPath(err, childPath(in.path, elemLabel(name, dims, i)))
		}
		flat[i] = v
	}
	return reshape(flat, dims), nil
}

// Write encodes value into the named field. Arrays take nested slices or
// arrays whose outermost level matches the last dimension. Every element is
// validated before any byte is written.
func (in *Instance) Write(name string, value any) error {
	_, f, err := in.field(name, errors.PhaseEncode)
	if err != nil {
		return err
	}
	path := childPath(in.path, name)
	if f.Kind == schema.KindStruct {
		return errors.WriteNotSupported(path)
	}
	if err := in.writable(path); err != nil {
		return err
	}

	values, err := in.validate(f, value)
	if err != nil {
		return err
	}
	return in.encode(f, values)
}

// Sub returns the sub-instance of a struct field. Arrays of structs take one
// index per dimension, outermost first, as in the nested lists Read returns.
func (in *Instance) Sub(name string, idx ...int) (*Instance, error) {
	i, f, err := in.field(name, errors.PhaseDecode)
	if err != nil {
		return nil, err
	}
	path := childPath(in.path, name)
	if f.Kind != schema.KindStruct {
		return nil, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Path(path...).
			FieldKind(f.Kind.String()).
			Detail("field is not a struct").
			Build()
	}
	dims := f.Dims()
	if len(idx) != len(dims) {
		return nil, errors.Dimension(errors.PhaseDecode, path,
			"%d indices for a field of shape %s", len(idx), dims)
	}
	flat := 0
	for k, x := range idx {
		dim := dims[len(dims)-1-k]
		if x < 0 || x >= dim {
			return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
				Path(path...).
				Value(x).
				Detail("index %d out of range [0, %d)", x, dim).
				Build()
		}
		flat = flat*dim + x
	}
	return in.subs[i][flat], nil
}

// Get reads the named field and asserts its decoded type.
func Get[T any](in *Instance, name string) (T, error) {
	var zero T
	v, err := in.Read(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		f, _ := in.layout.FieldByName(name)
		return zero, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Path(childPath(in.path, name)...).
			GoType(fmt.Sprintf("%T", zero)).
			FieldKind(f.Kind.String()).
			Detail("field decodes to %T", v).
			Build()
	}
	return t, nil
}

func (in *Instance) field(name string, phase errors.Phase) (int, schema.Field, error) {
	idx := in.layout.Index(name)
	if idx < 0 {
		return -1, schema.Field{}, errors.FieldUnknown(phase, in.path, name)
	}
	return idx, in.layout.Field(idx), nil
}

func (in *Instance) span(f schema.Field, path []string) ([]byte, error) {
	data, err := in.buf.Bytes(in.offset+f.Offset, f.Size)
	if err != nil {
		return nil, withPath(err, path)
	}
	return data, nil
}

func (in *Instance) writable(path []string) error {
	if in.buf == nil {
		return errors.NoBuffer(errors.PhaseEncode, path)
	}
	if !in.buf.Writable() {
		return errors.ImmutableBuffer(errors.PhaseEncode, path)
	}
	return nil
}

// validate flattens value to the field's element order and checks every
// element against the field kind.
func (in *Instance) validate(f schema.Field, value any) ([]any, error) {
	dims := f.Dims()
	values, err := flatten(value, dims, childPath(in.path, f.Name))
	if err != nil {
		return nil, err
	}
	capacity := f.Capacity()
	for i, v := range values {
		if err := codec.Validate(f.Kind, v, capacity); err != nil {
			return nil, withPath(err, childPath(in.path, elemLabel(f.Name, dims, i)))
		}
	}
	return values, nil
}

// encode writes already validated values.
func (in *Instance) encode(f schema.Field, values []any) error {
	data, err := in.span(f, childPath(in.path, f.Name))
	if err != nil {
		return err
	}
	elem := f.ElemSize()
	for i, v := range values {
		codec.Encode(f.Kind, in.order, data[i*elem:(i+1)*elem], v)
	}
	return nil
}

// flatten walks exactly len(dims) sequence levels of v, outermost level
// first, and returns the leaves with the first dimension varying fastest.
func flatten(v any, dims schema.Shape, path []string) ([]any, error) {
	if len(dims) == 0 {
		return []any{v}, nil
	}
	out := make([]any, 0, dims.Count())
	var walk func(v any, level int) error
	walk = func(v any, level int) error {
		if level < 0 {
			out = append(out, v)
			return nil
		}
		want := dims[level]
		if items, ok := v.([]any); ok {
			if len(items) != want {
				return errors.Dimension(errors.PhaseEncode, path,
					"level %d has %d elements, shape %s needs %d", len(dims)-1-level, len(items), dims, want)
			}
			for _, item := range items {
				if err := walk(item, level-1); err != nil {
					return err
				}
			}
			return nil
		}

		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return errors.New(errors.PhaseEncode, errors.KindDimension).
				Path(path...).
				GoType(fmt.Sprintf("%T", v)).
				Detail("level %d is not a sequence, shape %s", len(dims)-1-level, dims).
				Build()
		}
		if rv.Len() != want {
			return errors.Dimension(errors.PhaseEncode, path,
				"level %d has %d elements, shape %s needs %d", len(dims)-1-level, rv.Len(), dims, want)
		}
		for i := range rv.Len() {
			if err := walk(rv.Index(i).Interface(), level-1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(v, len(dims)-1); err != nil {
		return nil, err
	}
	return out, nil
}

// reshape groups a flat element list into nested []any, grouping by the first
// dimension first so that the last dimension ends up outermost.
func reshape(flat []any, dims schema.Shape) []any {
	level := flat
	for _, d := range dims[:len(dims)-1] {
		next := make([]any, len(level)/d)
		for i := range next {
			next[i] = level[i*d : (i+1)*d : (i+1)*d]
		}
		level = next
	}
	return level
}

func withPath(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithPath(path...)
	}
	return err
}
