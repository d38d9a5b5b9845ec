package binding

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/structbuf/errors"
	"github.com/wippyai/structbuf/schema"
)

// RawBytes returns the instance's bytes. The slice aliases the buffer.
func (in *Instance) RawBytes() ([]byte, error) {
	if in.buf == nil {
		return nil, errors.NoBuffer(errors.PhaseDecode, in.path)
	}
	data, err := in.buf.Bytes(in.offset, in.layout.Size())
	if err != nil {
		return nil, withPath(err, in.path)
	}
	return data, nil
}

// Clear zeroes the instance's bytes.
func (in *Instance) Clear() error {
	if err := in.writable(in.path); err != nil {
		return err
	}
	data, err := in.buf.Bytes(in.offset, in.layout.Size())
	if err != nil {
		return withPath(err, in.path)
	}
	clear(data)
	return nil
}

// FillFrom copies src's bytes into the instance. Both must share the same
// layout and byte order.
func (in *Instance) FillFrom(src *Instance) error {
	if src == nil {
		return errors.InvalidInput(errors.PhaseExchange, "nil source instance")
	}
	if !schema.Identical(in.layout, src.layout) || !schema.SameOrder(in.endian, src.endian) {
		return errors.New(errors.PhaseExchange, errors.KindTypeMismatch).
			Path(in.path...).
			Detail("cannot fill %s (%s) from %s (%s)", in.layout, in.endian, src.layout, src.endian).
			Build()
	}
	if err := in.writable(in.path); err != nil {
		return err
	}
	from, err := src.RawBytes()
	if err != nil {
		return err
	}
	to, err := in.buf.Bytes(in.offset, in.layout.Size())
	if err != nil {
		return withPath(err, in.path)
	}
	copy(to, from)
	Logger().Debug("fill from instance",
		zap.String("struct", in.layout.Name()),
		zap.Int("offset", in.offset),
		zap.Int("source", src.offset))
	return nil
}

// ToMap decodes every field. Struct fields become nested maps and arrays keep
// the nesting Read produces.
func (in *Instance) ToMap() (map[string]any, error) {
	if in.buf == nil {
		return nil, errors.NoBuffer(errors.PhaseExchange, in.path)
	}
	out := make(map[string]any, in.layout.NumFields())
	for i := 0; i < in.layout.NumFields(); i++ {
		f := in.layout.Field(i)
		if f.Kind != schema.KindStruct {
			v, err := in.Read(f.Name)
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
			continue
		}

		subs := in.subs[i]
		maps := make([]any, len(subs))
		for j, s := range subs {
			m, err := s.ToMap()
			if err != nil {
				return nil, err
			}
			maps[j] = m
		}
		if f.IsArray() {
			out[f.Name] = reshape(maps, f.Dims())
		} else {
			out[f.Name] = maps[0]
		}
	}
	return out, nil
}

// ToYAML decodes every field into a YAML mapping node that keeps declaration
// order.
func (in *Instance) ToYAML() (*yaml.Node, error) {
	if in.buf == nil {
		return nil, errors.NoBuffer(errors.PhaseExchange, in.path)
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < in.layout.NumFields(); i++ {
		f := in.layout.Field(i)
		v, err := in.Read(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := yamlValue(v)
		if err != nil {
			return nil, errors.New(errors.PhaseExchange, errors.KindInvalidInput).
				Path(childPath(in.path, f.Name)...).
				Cause(err).
				Build()
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

func yamlValue(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case *Instance:
		return v.ToYAML()
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, item := range v {
			n, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			if n.Kind == yaml.MappingNode {
				seq.Style = 0
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case []byte:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// FillFromMap writes the values of m into the fields they name. The whole map
// is validated first, nested maps included, so a failure writes nothing. With
// clearUnset the instance is zeroed before writing, leaving absent fields
// zero. Keys that name no field are ignored.
func (in *Instance) FillFromMap(m map[string]any, clearUnset bool) error {
	if err := in.writable(in.path); err != nil {
		return err
	}
	var plan []write
	if err := in.planMap(m, &plan); err != nil {
		return err
	}
	if clearUnset {
		if err := in.Clear(); err != nil {
			return err
		}
	}
	for _, w := range plan {
		if err := w.inst.encode(w.field, w.values); err != nil {
			return err
		}
	}
	Logger().Debug("fill from map",
		zap.String("struct", in.layout.Name()),
		zap.Int("writes", len(plan)),
		zap.Bool("clear", clearUnset))
	return nil
}

// write is a validated field update.
type write struct {
	inst   *Instance
	values []any
	field  schema.Field
}

func (in *Instance) planMap(m map[string]any, plan *[]write) error {
	for i := 0; i < in.layout.NumFields(); i++ {
		f := in.layout.Field(i)
		v, ok := m[f.Name]
		if !ok {
			continue
		}
		if f.Kind != schema.KindStruct {
			values, err := in.validate(f, v)
			if err != nil {
				return err
			}
			*plan = append(*plan, write{inst: in, field: f, values: values})
			continue
		}

		items, err := flatten(v, f.Dims(), childPath(in.path, f.Name))
		if err != nil {
			return err
		}
		for j, item := range items {
			sub, ok := item.(map[string]any)
			if !ok {
				return errors.New(errors.PhaseExchange, errors.KindTypeMismatch).
					Path(childPath(in.path, elemLabel(f.Name, f.Dims(), j))...).
					GoType(fmt.Sprintf("%T", item)).
					FieldKind(f.Kind.String()).
					Detail("struct values must be map[string]any").
					Build()
			}
			if err := in.subs[i][j].planMap(sub, plan); err != nil {
				return err
			}
		}
	}
	return nil
}
