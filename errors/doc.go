// Package errors provides structured error types for structbuf.
//
// Errors are categorized by Phase (compile, bind, encode, decode, exchange,
// load) and Kind (error category). The Error type carries the field path
// through nested structs and arrays, the offending Go type and field kind,
// and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("header", "points[1]", "x").
//		GoType("string").
//		FieldKind("s32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Length(errors.PhaseEncode, path, 8, 5, "text")
//	err := errors.InsufficientBuffer(path, offset, need, have)
//
// Match categories with the phase-less sentinels:
//
//	if errors.Is(err, sberrors.ErrNoBuffer) { ... }
package errors
