// Package types defines the compiled record plans shared by the codec.
//
// A Record caches everything the encoder and the accessors need per
// schema record: inline size, per-field offsets, kinds and nested plans.
//
// This package is internal to the codec.
package types
