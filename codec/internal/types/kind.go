package types

import "github.com/wippyai/bobject/schema"

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindString
	KindJSON
	KindRecord
)

var kindNames = [...]string{
	KindBool:   schema.Bool,
	KindU8:     schema.Uint8,
	KindS8:     schema.Int8,
	KindU16:    schema.Uint16,
	KindS16:    schema.Int16,
	KindU32:    schema.Uint32,
	KindS32:    schema.Int32,
	KindU64:    schema.Uint64,
	KindS64:    schema.Int64,
	KindF32:    schema.Float32,
	KindF64:    schema.Float64,
	KindString: schema.String,
	KindJSON:   schema.JSON,
	KindRecord: "record",
}

var kindSizes = [...]uint32{
	KindBool:   1,
	KindU8:     1,
	KindS8:     1,
	KindU16:    2,
	KindS16:    2,
	KindU32:    4,
	KindS32:    4,
	KindU64:    8,
	KindS64:    8,
	KindF32:    4,
	KindF64:    8,
	KindString: 8,
	KindJSON:   8,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is stored inline without indirection.
func (k Kind) IsPrimitive() bool {
	return k <= KindF64
}

// IsText reports whether k is stored in the string table.
func (k Kind) IsText() bool {
	return k == KindString || k == KindJSON
}

// IsByte reports whether arrays of k use the byte fast path.
func (k Kind) IsByte() bool {
	return k == KindU8 || k == KindS8
}

// Size returns the inline size of a primitive kind, 0 for records.
func (k Kind) Size() uint32 {
	if int(k) < len(kindSizes) {
		return kindSizes[k]
	}
	return 0
}

// KindOf maps a schema type name to its kind. Non-primitive names are
// records.
func KindOf(typeName string) Kind {
	switch schema.Canonical(typeName) {
	case schema.Bool:
		return KindBool
	case schema.Uint8:
		return KindU8
	case schema.Int8:
		return KindS8
	case schema.Uint16:
		return KindU16
	case schema.Int16:
		return KindS16
	case schema.Uint32:
		return KindU32
	case schema.Int32:
		return KindS32
	case schema.Uint64:
		return KindU64
	case schema.Int64:
		return KindS64
	case schema.Float32:
		return KindF32
	case schema.Float64:
		return KindF64
	case schema.String:
		return KindString
	case schema.JSON:
		return KindJSON
	default:
		return KindRecord
	}
}
