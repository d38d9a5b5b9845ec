package schema

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Endianness selects the byte order of multi-byte numeric fields. The zero
// value is Native.
type Endianness uint8

const (
	Native Endianness = iota
	Little
	Big
	Network
)

var nativeOrder binary.ByteOrder = func() binary.ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

func (e Endianness) String() string {
	switch e {
	case Native:
		return "native"
	case Little:
		return "little"
	case Big:
		return "big"
	case Network:
		return "network"
	default:
		return fmt.Sprintf("endianness(%d)", uint8(e))
	}
}

// ByteOrder resolves e to binary.LittleEndian or binary.BigEndian.
func (e Endianness) ByteOrder() binary.ByteOrder {
	switch e {
	case Little:
		return binary.LittleEndian
	case Big, Network:
		return binary.BigEndian
	default:
		return nativeOrder
	}
}

// IsLittle reports whether e resolves to little-endian order.
func (e Endianness) IsLittle() bool {
	return e.ByteOrder() == binary.LittleEndian
}

// SameOrder reports whether a and b resolve to the same byte order.
func SameOrder(a, b Endianness) bool {
	return a.IsLittle() == b.IsLittle()
}

// ParseEndianness accepts native, little, big and network (case-insensitive)
// and the struct-format characters =, <, > and !. An empty string is Native.
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "=":
		return Native, nil
	case "little", "le", "<":
		return Little, nil
	case "big", "be", ">":
		return Big, nil
	case "network", "!":
		return Network, nil
	}
	return Native, fmt.Errorf("unknown endianness %q", s)
}
