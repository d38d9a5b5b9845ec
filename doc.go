// Package structbuf provides a fixed-binary-layout struct codec with zero-copy
// field access over caller-owned memory.
//
// A schema is an ordered list of typed, fixed-size fields: scalars, fixed-length
// text, fixed-size arrays and matrices, and nested sub-structs. It is compiled
// once into an immutable layout (offsets and sizes, packed, no padding) and then
// bound to any contiguous byte region: a plain slice, a memory-mapped file, a
// shared-memory segment, or WebAssembly linear memory. Reads and writes operate
// directly on the bound bytes.
//
// # Architecture Overview
//
//	structbuf/          Root package with the Buffer provider contract
//	├── schema/         Kind table, declarations, layout compiler and cache
//	├── codec/          Per-kind encode, decode and validation routines
//	├── binding/        Instances: bind, rebind, detach, field access, exchange
//	├── buffer/         Buffer providers (slices, mmap, shared memory, wazero)
//	├── report/         Human-readable layout tables
//	├── errors/         Structured error types
//	└── cmd/structview  Inspect a binary file through a YAML schema
//
// # Quick Start
//
//	point, err := schema.New("Point", schema.Little).
//	    Field("x", schema.KindS32).
//	    Field("y", schema.KindS32).
//	    Text("label", 8).
//	    Compile()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := binding.Bind(point, buffer.Bytes(make([]byte, point.Size())))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = inst.Write("x", int32(12))
//	x, _ := binding.Get[int32](inst, "x")
//
// # Byte Layout
//
// Fields are packed in declaration order with no implicit padding. Multi-byte
// scalars use the struct's endianness. Text occupies exactly its capacity and
// is zero-padded. For array fields the first dimension is the innermost,
// contiguous axis: a (2, 3) field reads back as three lists of two elements.
//
// # Thread Safety
//
// Layouts and compilers are safe for concurrent use. Instances are not: callers
// must synchronize access to instances that alias the same region, and must not
// use an instance while it, or one of its ancestors, is being rebound or detached.
package structbuf
