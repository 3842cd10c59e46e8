// Package errors provides structured error types for the bobject codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: record type, field path, Go/field type names,
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("header", "seq").
//		GoType("string").
//		BobType("uint32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownType(errors.PhaseCompile, path, "geometry_msgs/Pose")
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level sentinels (ErrUnknownType, ErrUnsignedOverflow, ...) match
// an error of the same Kind in any phase.
package errors
