package schema

import (
	"gopkg.in/yaml.v3"

	"github.com/wippyai/structbuf/errors"
)

// Set is a group of layouts loaded together, in declaration order.
type Set struct {
	layouts map[string]*Layout
	names   []string
}

// Lookup returns the layout declared under name.
func (s *Set) Lookup(name string) (*Layout, bool) {
	l, ok := s.layouts[name]
	return l, ok
}

// Names returns the struct names in declaration order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Last returns the last declared layout, usually the outermost struct.
func (s *Set) Last() *Layout {
	if len(s.names) == 0 {
		return nil
	}
	return s.layouts[s.names[len(s.names)-1]]
}

type setDoc struct {
	Endianness string      `yaml:"endianness"`
	Structs    []structDoc `yaml:"structs"`
}

type structDoc struct {
	Name       string     `yaml:"name"`
	Endianness string     `yaml:"endianness"`
	Fields     []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Shape shapeDoc `yaml:"shape"`
}

// shapeDoc accepts only integer nodes. A plain []int would let yaml.v3
// truncate 2.7 to 2.
type shapeDoc []int

func (s *shapeDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return errors.New(errors.PhaseLoad, errors.KindSchema).
			Detail("line %d: shape must be a list of integers", value.Line).
			Build()
	}
	dims := make(shapeDoc, 0, len(value.Content))
	for i, n := range value.Content {
		if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
			return errors.New(errors.PhaseLoad, errors.KindSchema).
				Value(n.Value).
				Detail("line %d: dimension %d is %q, dimensions must be integers", n.Line, i, n.Value).
				Build()
		}
		var dim int
		if err := n.Decode(&dim); err != nil {
			return errors.New(errors.PhaseLoad, errors.KindSchema).
				Value(n.Value).
				Detail("line %d: dimension %d", n.Line, i).
				Cause(err).
				Build()
		}
		dims = append(dims, dim)
	}
	*s = dims
	return nil
}

// LoadYAML compiles every struct declared in a YAML schema document:
//
//	endianness: little
//	structs:
//	  - name: Point
//	    fields:
//	      - {name: x, type: s32}
//	      - {name: label, type: string, shape: [8]}
//	  - name: Path
//	    fields:
//	      - {name: points, type: Point, shape: [4]}
//
// A field type is either a kind name accepted by ParseKind or the name of a
// struct declared earlier in the document. A struct may override the document
// endianness. A nil compiler uses the default compiler.
func LoadYAML(data []byte, c *Compiler) (*Set, error) {
	if c == nil {
		c = defaultCompiler
	}

	var doc setDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindSchema).
			Detail("parse schema document").
			Cause(err).
			Build()
	}

	defaultEndian, err := ParseEndianness(doc.Endianness)
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindSchema).Cause(err).Build()
	}

	set := &Set{layouts: make(map[string]*Layout, len(doc.Structs))}
	for _, sd := range doc.Structs {
		if sd.Name == "" {
			return nil, errors.New(errors.PhaseLoad, errors.KindSchema).
				Detail("struct %d has no name", len(set.names)).
				Build()
		}
		if _, dup := set.layouts[sd.Name]; dup {
			return nil, errors.New(errors.PhaseLoad, errors.KindSchema).
				Path(sd.Name).
				Detail("struct declared twice").
				Build()
		}

		endian := defaultEndian
		if sd.Endianness != "" {
			if endian, err = ParseEndianness(sd.Endianness); err != nil {
				return nil, errors.New(errors.PhaseLoad, errors.KindSchema).Path(sd.Name).Cause(err).Build()
			}
		}

		decl := Decl{Name: sd.Name, Endianness: endian}
		for _, fd := range sd.Fields {
			f := FieldDecl{Name: fd.Name, Shape: Shape(fd.Shape)}
			if kind, ok := ParseKind(fd.Type); ok {
				f.Kind = kind
			} else if nested, ok := set.layouts[fd.Type]; ok {
				f.Kind = KindStruct
				f.Struct = nested
			} else {
				return nil, errors.New(errors.PhaseLoad, errors.KindSchema).
					Path(sd.Name, fd.Name).
					Detail("unknown type %q", fd.Type).
					Build()
			}
			decl.Fields = append(decl.Fields, f)
		}

		l, err := c.Compile(decl)
		if err != nil {
			return nil, err
		}
		set.layouts[sd.Name] = l
		set.names = append(set.names, sd.Name)
	}
	return set, nil
}
