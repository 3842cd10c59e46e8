package codec

import (
	"bytes"
	"reflect"
	"slices"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

// Encode compiles m with the default compiler and encodes values as
// messages of typeName into one block.
func Encode(m schema.Map, typeName string, values ...any) (bobject.Block, error) {
	p, err := DefaultCompiler().Compile(m)
	if err != nil {
		return bobject.Block{}, err
	}
	return p.Encode(typeName, values...)
}

// Encode encodes values as messages of typeName into one block.
func (p *Program) Encode(typeName string, values ...any) (bobject.Block, error) {
	enc := p.Encoder()
	defer enc.Release()
	for _, v := range values {
		if _, err := enc.Encode(typeName, v); err != nil {
			return bobject.Block{}, err
		}
	}
	b := enc.Finish()
	b.TypeName = typeName
	return b, nil
}

// DecodeOne returns a lazy accessor for the message of typeName at offset.
func DecodeOne(m schema.Map, typeName string, buffer []byte, table string, offset int) (bobject.Accessor, error) {
	p, err := DefaultCompiler().Compile(m)
	if err != nil {
		return nil, err
	}
	return p.DecodeOne(typeName, buffer, table, offset)
}

// DecodeMany returns one accessor per offset, all sharing buffer and table.
func DecodeMany(m schema.Map, typeName string, buffer []byte, table string, offsets []int) ([]bobject.Accessor, error) {
	p, err := DefaultCompiler().Compile(m)
	if err != nil {
		return nil, err
	}
	return p.DecodeMany(typeName, buffer, table, offsets)
}

// DecodeBlock decodes every message of a block.
func DecodeBlock(m schema.Map, block bobject.Block) ([]bobject.Accessor, error) {
	return DecodeMany(m, block.TypeName, block.Buffer, block.Table, block.Offsets)
}

// Wrap compiles m with the default compiler and wraps value as typeName.
func Wrap(m schema.Map, typeName string, value any) (bobject.Accessor, error) {
	p, err := DefaultCompiler().Compile(m)
	if err != nil {
		return nil, err
	}
	return p.Wrap(typeName, value)
}

func (p *Program) DecodeOne(typeName string, buffer []byte, table string, offset int) (bobject.Accessor, error) {
	rp, err := p.record(typeName, errors.PhaseDecode)
	if err != nil {
		return nil, err
	}
	return p.topLevel(rp, &source{buf: buffer, table: table}, offset)
}

func (p *Program) DecodeMany(typeName string, buffer []byte, table string, offsets []int) ([]bobject.Accessor, error) {
	rp, err := p.record(typeName, errors.PhaseDecode)
	if err != nil {
		return nil, err
	}
	src := &source{buf: buffer, table: table}
	out := make([]bobject.Accessor, len(offsets))
	for i, off := range offsets {
		a, err := p.topLevel(rp, src, off)
		if err != nil {
			return nil, pathed(err, indexSeg(i))
		}
		out[i] = a
	}
	return out, nil
}

func (p *Program) DecodeBlock(block bobject.Block) ([]bobject.Accessor, error) {
	return p.DecodeMany(block.TypeName, block.Buffer, block.Table, block.Offsets)
}

func (p *Program) topLevel(rp *recordPlan, src *source, offset int) (bobject.Accessor, error) {
	if err := src.check(offset, int(rp.Size)); err != nil {
		return nil, err
	}
	return &binaryAccessor{prog: p, rec: rp, src: src, off: offset, top: true}, nil
}

// Materialize reads every field of an accessor or array view recursively
// and returns plain values: records become map[string]any without
// constants, arrays become []any, byte arrays are copied to []byte or
// []int8. uint64 values above 2^53-1 fail with an overflow error.
func Materialize(v any) (any, error) {
	return materializeRoot(v, false)
}

// MaterializeWide is Materialize with full 64-bit integer values.
func MaterializeWide(v any) (any, error) {
	return materializeRoot(v, true)
}

func materializeRoot(v any, wide bool) (any, error) {
	if !IsAccessor(v) && !IsArrayView(v) {
		return nil, errors.NotAccessor(errors.PhaseDecode, typeName(v))
	}
	return materialize(v, wide)
}

func materialize(v any, wide bool) (any, error) {
	switch x := v.(type) {
	case bobject.Accessor:
		out := make(map[string]any, len(x.Fields()))
		for _, f := range x.Fields() {
			if f.IsConstant {
				continue
			}
			val, err := getField(x, f.Name, wide)
			if err != nil {
				return nil, err
			}
			m, err := materialize(val, wide)
			if err != nil {
				return nil, pathed(err, f.Name)
			}
			out[f.Name] = m
		}
		return out, nil
	case bobject.ArrayView:
		out := make([]any, x.Len())
		for i := range out {
			val, err := at(x, i, wide)
			if err != nil {
				return nil, pathed(err, indexSeg(i))
			}
			m, err := materialize(val, wide)
			if err != nil {
				return nil, pathed(err, indexSeg(i))
			}
			out[i] = m
		}
		return out, nil
	case []byte:
		return bytes.Clone(x), nil
	case []int8:
		return slices.Clone(x), nil
	}
	return v, nil
}

func getField(a bobject.Accessor, name string, wide bool) (any, error) {
	if wide {
		return a.GetWide(name)
	}
	return a.Get(name)
}

func at(v bobject.ArrayView, i int, wide bool) (any, error) {
	if wide {
		return v.AtWide(i)
	}
	return v.At(i)
}

// ApproximateByteSize returns the inline size of a top-level binary
// accessor. Nested, wrapped and overlaid accessors have no standalone
// size and report size_unavailable.
func ApproximateByteSize(a bobject.Accessor) (int, error) {
	b, ok := a.(*binaryAccessor)
	if !ok {
		return 0, errors.SizeUnavailable("accessor is not decoded from a buffer")
	}
	if !b.top {
		return 0, errors.SizeUnavailable("accessor was reached through a parent")
	}
	return int(b.rec.Size), nil
}

// IsAccessor reports whether v is an Accessor.
func IsAccessor(v any) bool {
	_, ok := v.(bobject.Accessor)
	return ok
}

// IsArrayView reports whether v is an ArrayView.
func IsArrayView(v any) bool {
	_, ok := v.(bobject.ArrayView)
	return ok
}

// FieldNames returns the non-constant field names of a in schema order.
func FieldNames(a bobject.Accessor) []string {
	fields := a.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if !f.IsConstant {
			names = append(names, f.Name)
		}
	}
	return names
}

// GetField returns a field of an accessor or a string-keyed map, or nil
// when v has no such field.
func GetField(v any, name string) any {
	switch x := v.(type) {
	case bobject.Accessor:
		val, err := x.Get(name)
		if err != nil {
			return nil
		}
		return val
	case map[string]any:
		return x[name]
	}
	return nil
}

// GetIndex returns element i of an array view or slice, or nil when i is
// out of bounds or v is not indexable.
func GetIndex(v any, i int) any {
	if av, ok := v.(bobject.ArrayView); ok {
		val, err := av.At(i)
		if err != nil {
			return nil
		}
		return val
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			return nil
		}
		return rv.Index(i).Interface()
	}
	return nil
}

// GetFieldFromPath walks string (field) and int (index) segments over a
// mix of accessors and plain values. It returns nil as soon as a segment
// does not resolve.
func GetFieldFromPath(v any, path ...any) any {
	cur := v
	for _, seg := range path {
		if cur == nil {
			return nil
		}
		switch s := seg.(type) {
		case string:
			cur = GetField(cur, s)
		case int:
			cur = GetIndex(cur, s)
		default:
			return nil
		}
	}
	return cur
}
