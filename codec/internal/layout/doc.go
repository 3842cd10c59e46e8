// Package layout computes Bob inline sizes and field offsets.
//
// # Layout Rules
//
//   - Primitives: fixed size (bool=1, uint32=4, float64=8, ...)
//   - string/json: 8 bytes, (length, offset) into the string table
//   - Arrays of any element type: 8 bytes, (length, offset) into the buffer
//   - Records: fields packed in declaration order, no padding
//   - Constants: 0 bytes
//
// Results are memoized per calculator, one calculator per schema map.
//
// This package is internal to the codec.
package layout
