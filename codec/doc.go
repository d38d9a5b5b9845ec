// Package codec holds the per-kind encode, decode and validation routines used
// by the field accessor.
//
// Every scalar kind has exactly one entry in the table. Validation is strict:
// a value is accepted only when its Go type belongs to the kind's category
// (booleans for bool, integers for the integer kinds, floats for the float
// kinds, a one-byte []byte for char, a string for text). Integers are range
// checked against the exact bit width of the kind. Nothing is coerced.
//
// Encode assumes its value passed Validate. Endianness only affects
// multi-byte numeric kinds.
package codec
