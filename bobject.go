package bobject

import (
	"iter"

	"github.com/wippyai/bobject/schema"
)

// Accessor exposes the fields of one record value, decoding lazily.
type Accessor interface {
	// TypeName returns the schema type name of the record.
	TypeName() string
	// Fields returns the record's fields in schema order, constants included.
	Fields() []schema.Field
	// Get returns the value of the named field. uint64 values above
	// 2^53-1 produce an overflow error.
	Get(name string) (any, error)
	// GetWide is like Get but returns full 64-bit integer values.
	GetWide(name string) (any, error)
}

// ArrayView is a lazy, indexable and restartable sequence of array elements.
type ArrayView interface {
	// ElemType returns the schema type of the elements.
	ElemType() string
	Len() int
	At(i int) (any, error)
	AtWide(i int) (any, error)
	// All yields every element in order, stopping after the first error.
	All() iter.Seq2[any, error]
}

// Block is a batch of encoded messages of one type sharing a buffer and
// string table.
type Block struct {
	TypeName string
	Buffer   []byte
	Table    string
	Offsets  []int
}

// Len returns the number of messages in the block.
func (b Block) Len() int {
	return len(b.Offsets)
}

// Size returns the total bytes held by the buffer and the string table.
func (b Block) Size() int {
	return len(b.Buffer) + len(b.Table)
}
