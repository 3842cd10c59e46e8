// Package schema defines the record model the codec is driven by.
//
// A Map holds named Records; each Record is an ordered list of Fields whose
// order fixes the binary layout. Field types are either primitives (see
// PrimitiveSize) or the names of other records in the same Map. The
// pseudo-types time and duration are injected by AddTimeTypes.
//
// Schema maps can be loaded from YAML or JSON-with-comments files, checked
// with Validate, and identified by a content Fingerprint that is stable
// across processes.
package schema
