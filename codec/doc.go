// Package codec encodes plain values into Bob buffers and reads them back
// through lazy accessors.
//
// # Compilation
//
// A Compiler turns a schema.Map into a Program once: layout, field offsets
// and one store and one read closure per field. Programs are cached by the
// schema fingerprint, so compiling an equal map again is a lookup. The
// package level functions use DefaultCompiler.
//
//	p, err := codec.DefaultCompiler().Compile(m)
//	block, err := p.Encode("pkg/Msg", msgs...)
//	accessors, err := p.DecodeBlock(block)
//
// # Wire Format
//
// All integers are little-endian. Every record field has a fixed inline
// slot: primitives are stored directly, strings and json are a
// (length, offset) pair into the string table, arrays of any element type
// are a (length, offset) pair into the buffer, nested records are inlined
// and constants take no space. The string table deduplicates equal text.
//
// # Accessors
//
// Binary accessors decode one field per Get call. Wrap exposes a plain
// value through the same interface, and Overlay layers field overrides on
// any accessor without modifying it. Materialize turns any of them into
// plain maps and slices; equal logical content gives equal results.
//
// uint64 fields above 2^53-1 return an overflow error from Get, At and
// Materialize. Use GetWide, AtWide or MaterializeWide to read them.
//
// # Thread Safety
//
// Compiler and Program are safe for concurrent use. Accessors and array
// views are read-only. Writer and Encoder are single-owner.
package codec
