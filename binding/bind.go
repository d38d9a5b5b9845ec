package binding

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	structbuf "github.com/wippyai/structbuf"
	"github.com/wippyai/structbuf/errors"
	"github.com/wippyai/structbuf/schema"
)

// Instance is a layout bound to a region of a buffer.
type Instance struct {
	layout *schema.Layout
	buf    structbuf.Buffer
	order  binary.ByteOrder
	// subs holds, per field index, the flat sub-instances of struct fields.
	subs   [][]*Instance
	path   []string
	offset int
	endian schema.Endianness
}

type config struct {
	offset    int
	endian    schema.Endianness
	hasEndian bool
}

// Option configures Bind.
type Option func(*config)

// WithOffset binds the layout at byte offset n of the buffer.
func WithOffset(n int) Option {
	return func(c *config) { c.offset = n }
}

// WithEndianness overrides the layout's byte order for the whole instance tree.
func WithEndianness(e schema.Endianness) Option {
	return func(c *config) {
		c.endian = e
		c.hasEndian = true
	}
}

// Bind binds l to buf. The region [offset, offset+l.Size()) must lie inside
// the buffer.
func Bind(l *schema.Layout, buf structbuf.Buffer, opts ...Option) (*Instance, error) {
	if l == nil {
		return nil, errors.InvalidInput(errors.PhaseBind, "nil layout")
	}
	cfg := config{endian: l.Endianness()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasEndian && cfg.endian > schema.Network {
		return nil, errors.InvalidInput(errors.PhaseBind, fmt.Sprintf("unknown endianness %d", cfg.endian))
	}
	if buf == nil {
		return nil, errors.NoBuffer(errors.PhaseBind, []string{l.Name()})
	}
	if err := checkRegion(l, buf, cfg.offset, nil); err != nil {
		return nil, err
	}

	inst := newInstance(l, buf, cfg.offset, cfg.endian, nil)
	Logger().Debug("bind",
		zap.String("struct", l.Name()),
		zap.Int("offset", cfg.offset),
		zap.Int("size", l.Size()),
		zap.Stringer("endianness", cfg.endian))
	return inst, nil
}

func newInstance(l *schema.Layout, buf structbuf.Buffer, offset int, e schema.Endianness, path []string) *Instance {
	inst := &Instance{
		layout: l,
		buf:    buf,
		offset: offset,
		endian: e,
		order:  e.ByteOrder(),
		path:   path,
	}
	for i := 0; i < l.NumFields(); i++ {
		f := l.Field(i)
		if f.Kind != schema.KindStruct {
			continue
		}
		if inst.subs == nil {
			inst.subs = make([][]*Instance, l.NumFields())
		}
		n := f.Count()
		elem := f.Struct.Size()
		subs := make([]*Instance, n)
		for j := range n {
			subs[j] = newInstance(f.Struct, buf, offset+f.Offset+j*elem, e,
				childPath(path, elemLabel(f.Name, f.Dims(), j)))
		}
		inst.subs[i] = subs
	}
	return inst
}

func checkRegion(l *schema.Layout, buf structbuf.Buffer, offset int, path []string) error {
	if offset < 0 || offset > buf.Len()-l.Size() {
		return errors.InsufficientBuffer(path, offset, l.Size(), buf.Len())
	}
	return nil
}

// Rebind moves the instance tree to buf at offset. Every sub-instance keeps
// its position relative to the root.
func (in *Instance) Rebind(buf structbuf.Buffer, offset int) error {
	if buf == nil {
		return errors.NoBuffer(errors.PhaseBind, in.path)
	}
	if err := checkRegion(in.layout, buf, offset, in.path); err != nil {
		return err
	}
	delta := offset - in.offset
	in.walk(func(n *Instance) {
		n.buf = buf
		n.offset += delta
	})
	Logger().Debug("rebind",
		zap.String("struct", in.layout.Name()),
		zap.Int("offset", offset),
		zap.Int("delta", delta))
	return nil
}

// Attach binds the instance tree to buf at its current offset.
func (in *Instance) Attach(buf structbuf.Buffer) error {
	return in.Rebind(buf, in.offset)
}

// Detach drops the buffer from the whole tree. Field access fails with
// ErrNoBuffer until the instance is rebound.
func (in *Instance) Detach() {
	in.walk(func(n *Instance) { n.buf = nil })
	Logger().Debug("detach", zap.String("struct", in.layout.Name()))
}

func (in *Instance) walk(fn func(*Instance)) {
	fn(in)
	for _, subs := range in.subs {
		for _, s := range subs {
			s.walk(fn)
		}
	}
}

func (in *Instance) Layout() *schema.Layout { return in.layout }

// Offset returns the absolute byte offset of the instance in its buffer.
func (in *Instance) Offset() int { return in.offset }

func (in *Instance) Endianness() schema.Endianness { return in.endian }

// Buffer returns the bound buffer, nil when detached.
func (in *Instance) Buffer() structbuf.Buffer { return in.buf }

func (in *Instance) Bound() bool { return in.buf != nil }

func (in *Instance) String() string {
	return fmt.Sprintf("%s@%d", in.layout.Name(), in.offset)
}

func childPath(path []string, label string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, label)
}

// elemLabel renders the flat element index j of a field with the given dims
// as name[i]...[k], outermost index first.
func elemLabel(name string, dims schema.Shape, j int) string {
	if len(dims) == 0 {
		return name
	}
	idx := make([]int, len(dims))
	for d := range dims {
		idx[len(dims)-1-d] = j % dims[d]
		j /= dims[d]
	}
	label := name
	for _, i := range idx {
		label += fmt.Sprintf("[%d]", i)
	}
	return label
}
