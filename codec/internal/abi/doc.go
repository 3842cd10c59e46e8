// Package abi provides internal utilities for Bob encoding and decoding.
//
// # Contents
//
//   - coerce.go: coercion of plain Go and JSON values to field types
//   - helpers.go: overflow-safe arithmetic, limits and the safe integer bound
//
// This package is internal to the codec.
package abi
