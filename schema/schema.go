package schema

import (
	"maps"
	"slices"
)

// Field describes one record field.
type Field struct {
	Name        string `json:"name" yaml:"name" cbor:"name"`
	Type        string `json:"type" yaml:"type" cbor:"type"`
	IsArray     bool   `json:"isArray,omitempty" yaml:"isArray,omitempty" cbor:"isArray,omitempty"`
	ArrayLength *int   `json:"arrayLength,omitempty" yaml:"arrayLength,omitempty" cbor:"arrayLength,omitempty"`
	IsConstant  bool   `json:"isConstant,omitempty" yaml:"isConstant,omitempty" cbor:"isConstant,omitempty"`
	Value       any    `json:"value,omitempty" yaml:"value,omitempty" cbor:"value,omitempty"`
}

// IsFixedArray reports whether the field is an array with a declared length.
func (f Field) IsFixedArray() bool {
	return f.IsArray && f.ArrayLength != nil
}

// Record is an ordered sequence of fields.
type Record struct {
	Fields []Field `json:"fields" yaml:"fields" cbor:"fields"`
}

// Field returns the field with the given name.
func (r Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Map maps type names to record definitions.
type Map map[string]Record

// Names returns the type names in sorted order.
func (m Map) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// Primitive type names.
const (
	Bool    = "bool"
	Int8    = "int8"
	Uint8   = "uint8"
	Int16   = "int16"
	Uint16  = "uint16"
	Int32   = "int32"
	Uint32  = "uint32"
	Int64   = "int64"
	Uint64  = "uint64"
	Float32 = "float32"
	Float64 = "float64"
	String  = "string"
	JSON    = "json"

	// ROS aliases
	Byte = "byte"
	Char = "char"

	Time     = "time"
	Duration = "duration"
)

var primitiveSizes = map[string]uint32{
	Bool:    1,
	Int8:    1,
	Uint8:   1,
	Int16:   2,
	Uint16:  2,
	Int32:   4,
	Uint32:  4,
	Float32: 4,
	Float64: 8,
	Int64:   8,
	Uint64:  8,
	String:  8,
	JSON:    8,
}

// Canonical resolves the ROS aliases byte and char to int8 and uint8.
func Canonical(typeName string) string {
	switch typeName {
	case Byte:
		return Int8
	case Char:
		return Uint8
	}
	return typeName
}

// PrimitiveSize returns the inline size of a primitive type.
func PrimitiveSize(typeName string) (uint32, bool) {
	size, ok := primitiveSizes[Canonical(typeName)]
	return size, ok
}

// IsPrimitive reports whether typeName is a primitive type or alias.
func IsPrimitive(typeName string) bool {
	_, ok := PrimitiveSize(typeName)
	return ok
}

// IsByteType reports whether arrays of typeName use the byte fast path.
func IsByteType(typeName string) bool {
	t := Canonical(typeName)
	return t == Int8 || t == Uint8
}

// IsStringType reports whether values of typeName live in the string table.
func IsStringType(typeName string) bool {
	return typeName == String || typeName == JSON
}

var timeRecord = Record{Fields: []Field{
	{Name: "sec", Type: Int32},
	{Name: "nsec", Type: Int32},
}}

// AddTimeTypes returns a copy of m with the time and duration records
// injected. Existing definitions of those names are replaced.
func AddTimeTypes(m Map) Map {
	out := make(Map, len(m)+2)
	maps.Copy(out, m)
	out[Time] = Record{Fields: slices.Clone(timeRecord.Fields)}
	out[Duration] = Record{Fields: slices.Clone(timeRecord.Fields)}
	return out
}

// HasTimeTypes reports whether m already contains the injected time records.
func HasTimeTypes(m Map) bool {
	_, t := m[Time]
	_, d := m[Duration]
	return t && d
}
