package types

import "github.com/wippyai/bobject/schema"

// Record is the compiled plan for one schema record.
type Record struct {
	Name   string
	Ident  string
	Fields []Field
	Index  map[string]int
	Size   uint32
}

// Field is one compiled field with its resolved layout.
type Field struct {
	Schema schema.Field
	// Elem is the record plan when Kind is KindRecord.
	Elem *Record
	Name string
	// Offset is the inline offset within the parent record.
	Offset uint32
	// Size is the inline slot size: 0 for constants, 8 for arrays.
	Size uint32
	// ElemSize is the size of one value of the field's type.
	ElemSize uint32
	// FixedLen is the declared array length, -1 when variable.
	FixedLen int
	Kind     Kind
	IsArray  bool
	IsConst  bool
}

// Lookup returns the compiled field named name.
func (r *Record) Lookup(name string) (*Field, bool) {
	i, ok := r.Index[name]
	if !ok {
		return nil, false
	}
	return &r.Fields[i], true
}

// IsEmpty reports whether the record has no stored fields.
func (r *Record) IsEmpty() bool {
	return r.Size == 0
}

// IsFlat reports whether the record holds only inline primitives, so its
// bytes can be copied without following pointers.
func (r *Record) IsFlat() bool {
	for i := range r.Fields {
		f := &r.Fields[i]
		switch {
		case f.IsConst:
		case f.IsArray, f.Kind.IsText():
			return false
		case f.Kind == KindRecord:
			if !f.Elem.IsFlat() {
				return false
			}
		}
	}
	return true
}
