// Package binding attaches compiled layouts to buffers and reads and writes
// fields in place.
//
// Bind produces an Instance: a layout, a buffer, an absolute offset and a byte
// order. Sub-instances for struct fields are created eagerly and share the
// parent's buffer, so reading a struct field returns a handle rather than a
// copy:
//
//	inst, err := binding.Bind(path, buffer.Bytes(data))
//	first, err := inst.Sub("points", 0)
//	err = first.Write("x", 10)
//
// Scalar fields decode to Go values (uint8..int64, float32, float64, bool,
// string for text, a one-byte []byte for char). Array fields read as nested
// []any whose outermost level is the last declared dimension, so the first
// dimension varies fastest in memory.
//
// Writes validate every element before encoding any byte, so a failed Write
// leaves the field unchanged.
//
// An Instance is not safe for concurrent mutation. Concurrent reads of a buffer
// nobody writes to are safe.
package binding
