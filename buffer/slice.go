package buffer

import (
	structbuf "github.com/wippyai/structbuf"
	"github.com/wippyai/structbuf/errors"
)

// Slice is a Buffer over a Go byte slice.
type Slice struct {
	data     []byte
	writable bool
}

// Bytes wraps b as a writable buffer.
func Bytes(b []byte) *Slice {
	return &Slice{data: b, writable: true}
}

// ReadOnly wraps b as a read-only buffer.
func ReadOnly(b []byte) *Slice {
	return &Slice{data: b}
}

func (s *Slice) Len() int { return len(s.data) }

func (s *Slice) Bytes(offset, length int) ([]byte, error) {
	if err := checkRange(offset, length, len(s.data)); err != nil {
		return nil, err
	}
	return s.data[offset : offset+length : offset+length], nil
}

func (s *Slice) Writable() bool { return s.writable }

func checkRange(offset, length, size int) error {
	if offset < 0 || length < 0 || offset > size-length {
		return errors.OutOfBounds(errors.PhaseDecode, offset, length, size)
	}
	return nil
}

var _ structbuf.Buffer = (*Slice)(nil)
