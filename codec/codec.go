package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/wippyai/structbuf/errors"
	"github.com/wippyai/structbuf/schema"
)

type entry struct {
	validate func(k schema.Kind, v any, capacity int) error
	encode   func(k schema.Kind, order binary.ByteOrder, dst []byte, v any)
	decode   func(k schema.Kind, order binary.ByteOrder, src []byte) (any, error)
}

var table = [...]entry{
	schema.KindBool: {validateBool, encodeBool, decodeBool},
	schema.KindU8:   {validateInt, encodeInt, decodeInt},
	schema.KindS8:   {validateInt, encodeInt, decodeInt},
	schema.KindU16:  {validateInt, encodeInt, decodeInt},
	schema.KindS16:  {validateInt, encodeInt, decodeInt},
	schema.KindU32:  {validateInt, encodeInt, decodeInt},
	schema.KindS32:  {validateInt, encodeInt, decodeInt},
	schema.KindU64:  {validateInt, encodeInt, decodeInt},
	schema.KindS64:  {validateInt, encodeInt, decodeInt},
	schema.KindF32:  {validateFloat, encodeFloat, decodeFloat},
	schema.KindF64:  {validateFloat, encodeFloat, decodeFloat},
	schema.KindChar: {validateChar, encodeChar, decodeChar},
	schema.KindText: {validateText, encodeText, decodeText},
}

func lookup(k schema.Kind) (entry, bool) {
	if int(k) >= len(table) {
		return entry{}, false
	}
	return table[k], true
}

// Validate reports whether v can be encoded as one element of kind k.
// capacity is the byte capacity of text values and is ignored otherwise.
func Validate(k schema.Kind, v any, capacity int) error {
	e, ok := lookup(k)
	if !ok {
		return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			FieldKind(k.String()).
			Detail("kind has no scalar codec").
			Build()
	}
	return e.validate(k, v, capacity)
}

// Encode writes v into dst, which must be exactly one element long. v must have
// passed Validate.
func Encode(k schema.Kind, order binary.ByteOrder, dst []byte, v any) {
	table[k].encode(k, order, dst, v)
}

// Decode reads one element of kind k from src.
func Decode(k schema.Kind, order binary.ByteOrder, src []byte) (any, error) {
	e, ok := lookup(k)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			FieldKind(k.String()).
			Detail("kind has no scalar codec").
			Build()
	}
	return e.decode(k, order, src)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func mismatch(k schema.Kind, v any) error {
	return errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), k.String())
}

// bool

func validateBool(k schema.Kind, v any, _ int) error {
	if _, ok := asBool(v); !ok {
		return mismatch(k, v)
	}
	return nil
}

func asBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func encodeBool(_ schema.Kind, _ binary.ByteOrder, dst []byte, v any) {
	b, _ := asBool(v)
	if b {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

func decodeBool(_ schema.Kind, _ binary.ByteOrder, src []byte) (any, error) {
	return src[0] != 0, nil
}

// integers

// integer holds a Go integer of any width without losing its sign.
type integer struct {
	u      uint64
	s      int64
	signed bool
}

func asInteger(v any) (integer, bool) {
	switch n := v.(type) {
	case int:
		return integer{s: int64(n), signed: true}, true
	case int8:
		return integer{s: int64(n), signed: true}, true
	case int16:
		return integer{s: int64(n), signed: true}, true
	case int32:
		return integer{s: int64(n), signed: true}, true
	case int64:
		return integer{s: n, signed: true}, true
	case uint:
		return integer{u: uint64(n)}, true
	case uint8:
		return integer{u: uint64(n)}, true
	case uint16:
		return integer{u: uint64(n)}, true
	case uint32:
		return integer{u: uint64(n)}, true
	case uint64:
		return integer{u: n}, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return integer{s: rv.Int(), signed: true}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return integer{u: rv.Uint()}, true
	}
	return integer{}, false
}

func intBounds(k schema.Kind) (lo int64, hi uint64) {
	switch k {
	case schema.KindU8:
		return 0, math.MaxUint8
	case schema.KindS8:
		return math.MinInt8, math.MaxInt8
	case schema.KindU16:
		return 0, math.MaxUint16
	case schema.KindS16:
		return math.MinInt16, math.MaxInt16
	case schema.KindU32:
		return 0, math.MaxUint32
	case schema.KindS32:
		return math.MinInt32, math.MaxInt32
	case schema.KindU64:
		return 0, math.MaxUint64
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func validateInt(k schema.Kind, v any, _ int) error {
	n, ok := asInteger(v)
	if !ok {
		return mismatch(k, v)
	}
	lo, hi := intBounds(k)
	if n.signed {
		if n.s < lo || (n.s > 0 && uint64(n.s) > hi) {
			return errors.Range(errors.PhaseEncode, nil, v, k.String())
		}
		return nil
	}
	if n.u > hi {
		return errors.Range(errors.PhaseEncode, nil, v, k.String())
	}
	return nil
}

func encodeInt(k schema.Kind, order binary.ByteOrder, dst []byte, v any) {
	n, _ := asInteger(v)
	bits := n.u
	if n.signed {
		bits = uint64(n.s)
	}
	switch k.ElemSize() {
	case 1:
		dst[0] = byte(bits)
	case 2:
		order.PutUint16(dst, uint16(bits))
	case 4:
		order.PutUint32(dst, uint32(bits))
	case 8:
		order.PutUint64(dst, bits)
	}
}

func decodeInt(k schema.Kind, order binary.ByteOrder, src []byte) (any, error) {
	switch k {
	case schema.KindU8:
		return src[0], nil
	case schema.KindS8:
		return int8(src[0]), nil
	case schema.KindU16:
		return order.Uint16(src), nil
	case schema.KindS16:
		return int16(order.Uint16(src)), nil
	case schema.KindU32:
		return order.Uint32(src), nil
	case schema.KindS32:
		return int32(order.Uint32(src)), nil
	case schema.KindU64:
		return order.Uint64(src), nil
	default:
		return int64(order.Uint64(src)), nil
	}
}

// floats

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		return rv.Float(), true
	}
	return 0, false
}

func validateFloat(k schema.Kind, v any, _ int) error {
	f, ok := asFloat(v)
	if !ok {
		return mismatch(k, v)
	}
	if k == schema.KindF32 && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return errors.Range(errors.PhaseEncode, nil, v, k.String())
	}
	return nil
}

func encodeFloat(k schema.Kind, order binary.ByteOrder, dst []byte, v any) {
	if k == schema.KindF32 {
		// float32 inputs keep their exact bits, including NaN payloads
		if f, ok := v.(float32); ok {
			order.PutUint32(dst, math.Float32bits(f))
			return
		}
		f, _ := asFloat(v)
		order.PutUint32(dst, math.Float32bits(float32(f)))
		return
	}
	f, _ := asFloat(v)
	order.PutUint64(dst, math.Float64bits(f))
}

func decodeFloat(k schema.Kind, order binary.ByteOrder, src []byte) (any, error) {
	if k == schema.KindF32 {
		return math.Float32frombits(order.Uint32(src)), nil
	}
	return math.Float64frombits(order.Uint64(src)), nil
}

// char

func asBytes(v any) ([]byte, bool) {
	if b, ok := v.([]byte); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Bytes(), true
	}
	return nil, false
}

func validateChar(k schema.Kind, v any, _ int) error {
	b, ok := asBytes(v)
	if !ok {
		return mismatch(k, v)
	}
	if len(b) != 1 {
		return errors.New(errors.PhaseEncode, errors.KindLength).
			FieldKind(k.String()).
			Value(len(b)).
			Detail("char values are exactly 1 byte, got %d", len(b)).
			Build()
	}
	return nil
}

func encodeChar(_ schema.Kind, _ binary.ByteOrder, dst []byte, v any) {
	b, _ := asBytes(v)
	dst[0] = b[0]
}

func decodeChar(_ schema.Kind, _ binary.ByteOrder, src []byte) (any, error) {
	return []byte{src[0]}, nil
}

// text

func asString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func validateText(k schema.Kind, v any, capacity int) error {
	s, ok := asString(v)
	if !ok {
		return mismatch(k, v)
	}
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, nil, []byte(s))
	}
	if len(s) > capacity {
		return errors.Length(errors.PhaseEncode, nil, len(s), capacity, k.String())
	}
	return nil
}

// encodeText copies the string and zero-fills the rest of its capacity.
func encodeText(_ schema.Kind, _ binary.ByteOrder, dst []byte, v any) {
	s, _ := asString(v)
	n := copy(dst, s)
	clear(dst[n:])
}

func decodeText(_ schema.Kind, _ binary.ByteOrder, src []byte) (any, error) {
	trimmed := bytes.TrimRight(src, "\x00")
	if !utf8.Valid(trimmed) {
		return nil, errors.InvalidUTF8(errors.PhaseDecode, nil, trimmed)
	}
	return string(trimmed), nil
}
