package layout

import (
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

// Info is the inline layout of one record type.
type Info struct {
	FieldOffs map[string]uint32
	Size      uint32
}

// Calculator memoizes inline sizes for one schema map. It is not safe for
// concurrent use; the compiler owns one per schema.
type Calculator struct {
	schema   schema.Map
	cache    map[string]Info
	visiting map[string]bool
}

func NewCalculator(m schema.Map) *Calculator {
	return &Calculator{
		schema:   m,
		cache:    make(map[string]Info),
		visiting: make(map[string]bool),
	}
}

// TypeSize returns the inline size of a primitive or record type.
func (c *Calculator) TypeSize(typeName string) (uint32, error) {
	if size, ok := schema.PrimitiveSize(typeName); ok {
		return size, nil
	}
	info, err := c.Record(typeName)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// FieldSize returns 0 for constants, 8 for arrays and the type size otherwise.
func (c *Calculator) FieldSize(f schema.Field) (uint32, error) {
	switch {
	case f.IsConstant:
		return 0, nil
	case f.IsArray:
		// Out of line; the slot holds (length, offset). The element type
		// only has to exist, which also allows self-referencing arrays.
		if _, ok := c.schema[f.Type]; !ok && !schema.IsPrimitive(f.Type) {
			return 0, errors.UnknownType(errors.PhaseCompile, nil, f.Type)
		}
		return 8, nil
	default:
		return c.TypeSize(f.Type)
	}
}

// Record returns the size and field offsets of a record type.
func (c *Calculator) Record(typeName string) (Info, error) {
	if cached, ok := c.cache[typeName]; ok {
		return cached, nil
	}
	rec, ok := c.schema[typeName]
	if !ok {
		return Info{}, errors.UnknownType(errors.PhaseCompile, nil, typeName)
	}
	if c.visiting[typeName] {
		return Info{}, errors.New(errors.PhaseCompile, errors.KindInvalidData).
			TypeName(typeName).
			Detail("record contains itself inline").
			Build()
	}
	c.visiting[typeName] = true
	defer delete(c.visiting, typeName)

	info := Info{FieldOffs: make(map[string]uint32, len(rec.Fields))}
	for _, f := range rec.Fields {
		size, err := c.FieldSize(f)
		if err != nil {
			if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
				return Info{}, e.WithPath(typeName, f.Name)
			}
			return Info{}, err
		}
		info.FieldOffs[f.Name] = info.Size
		info.Size += size
	}

	c.cache[typeName] = info
	return info, nil
}
