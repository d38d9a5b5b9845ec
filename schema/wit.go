package schema

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/structbuf/errors"
)

// FromWIT compiles a WIT record into a packed layout. Field types must be
// fixed-size: bool, u8..u64, s8..s64, f32, f64, or nested records. The WIT
// canonical ABI alignment is not applied; fields are packed in order.
//
// Nested records are compiled first and share endianness e. A nil compiler
// uses the default compiler.
func FromWIT(td *wit.TypeDef, e Endianness, c *Compiler) (*Layout, error) {
	if c == nil {
		c = defaultCompiler
	}
	w := witCompiler{c: c, e: e, seen: make(map[*wit.TypeDef]*Layout)}
	return w.record(td, nil)
}

type witCompiler struct {
	c    *Compiler
	seen map[*wit.TypeDef]*Layout
	e    Endianness
}

func (w *witCompiler) record(td *wit.TypeDef, path []string) (*Layout, error) {
	if td == nil {
		return nil, errors.Schema(path, "nil WIT type")
	}
	if l, ok := w.seen[td]; ok {
		return l, nil
	}

	rec, ok := td.Kind.(*wit.Record)
	if !ok {
		return nil, errors.Schema(path, "WIT type %T is not a record", td.Kind)
	}

	name := "record"
	if td.Name != nil {
		name = *td.Name
	}
	if path == nil {
		path = []string{name}
	}

	decl := Decl{Name: name, Endianness: w.e}
	for _, f := range rec.Fields {
		fd, err := w.field(f.Name, f.Type, append(path[:len(path):len(path)], f.Name))
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, fd)
	}

	l, err := w.c.Compile(decl)
	if err != nil {
		return nil, err
	}
	w.seen[td] = l
	return l, nil
}

func (w *witCompiler) field(name string, t wit.Type, path []string) (FieldDecl, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return FieldDecl{Name: name, Kind: KindBool}, nil
	case wit.U8:
		return FieldDecl{Name: name, Kind: KindU8}, nil
	case wit.S8:
		return FieldDecl{Name: name, Kind: KindS8}, nil
	case wit.U16:
		return FieldDecl{Name: name, Kind: KindU16}, nil
	case wit.S16:
		return FieldDecl{Name: name, Kind: KindS16}, nil
	case wit.U32:
		return FieldDecl{Name: name, Kind: KindU32}, nil
	case wit.S32:
		return FieldDecl{Name: name, Kind: KindS32}, nil
	case wit.U64:
		return FieldDecl{Name: name, Kind: KindU64}, nil
	case wit.S64:
		return FieldDecl{Name: name, Kind: KindS64}, nil
	case wit.F32:
		return FieldDecl{Name: name, Kind: KindF32}, nil
	case wit.F64:
		return FieldDecl{Name: name, Kind: KindF64}, nil
	case *wit.TypeDef:
		if _, isRecord := typ.Kind.(*wit.Record); !isRecord {
			// type aliases resolve to their target
			if alias, ok := typ.Kind.(wit.Type); ok {
				return w.field(name, alias, path)
			}
		}
		nested, err := w.record(typ, path)
		if err != nil {
			return FieldDecl{}, err
		}
		return FieldDecl{Name: name, Kind: KindStruct, Struct: nested}, nil
	default:
		return FieldDecl{}, errors.Schema(path, "WIT type %T has no fixed-size representation", t)
	}
}
