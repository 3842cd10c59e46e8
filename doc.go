// Package bobject provides a schema-driven binary message codec for the Bob format.
//
// Bob converts strongly-typed records (nested records, fixed and variable
// length arrays, strings, JSON blobs, 64-bit integers and fixed-width
// primitives) into a compact, offset-addressable buffer plus a side string
// table, and reads them back lazily: only the fields actually requested are
// decoded.
//
// # Architecture Overview
//
//	bobject/             Root package with the Accessor, ArrayView and Block contracts
//	├── schema/          Field/Record/Map model, schema files, identifiers, fingerprints
//	├── codec/           Writer, compiled encoders and accessors, wrap, overlay, materialize
//	├── rosmsg/          ROS1 serialized bytes to Bob rewriter
//	├── errors/          Structured error types for debugging
//	└── cmd/bob/         Command line layout dump, round trips and interactive browser
//
// # Quick Start
//
//	m := schema.Map{
//	    "pkg/Msg": {Fields: []schema.Field{
//	        {Name: "seq", Type: "uint32"},
//	        {Name: "label", Type: "string"},
//	    }},
//	}
//
//	block, err := codec.Encode(m, "pkg/Msg", map[string]any{"seq": 7, "label": "hi"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msgs, err := codec.DecodeBlock(m, block)
//	seq, err := msgs[0].Get("seq") // uint32(7), nothing else is read
//
// # Accessor Origins
//
// An Accessor is one of three things: a binary accessor over an encoded
// buffer, a wrapped plain value, or an overlay of field overrides on top of
// another accessor. All three share the same method set, so consumers never
// need to branch on origin. codec.Materialize produces equal plain trees for
// equal logical content regardless of origin.
//
// # Thread Safety
//
// Compiled programs and the compile cache are safe for concurrent use.
// Accessors and array views are read-only over finished buffers and may be
// shared freely. Writer, Encoder and rosmsg.Rewriter are single-owner.
package bobject
