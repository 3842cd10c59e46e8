package codec

import (
	"encoding/json"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/codec/internal/abi"
	"github.com/wippyai/bobject/codec/internal/types"
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

// Encoder appends messages into one buffer and string table. It owns a
// pooled Writer; call Release when done. Not safe for concurrent use.
type Encoder struct {
	prog     *Program
	w        *Writer
	offsets  []int
	typeName string
}

// NewEncoder returns an encoder for p.
func NewEncoder(p *Program) *Encoder {
	w := AcquireWriter()
	w.Grow(p.opts.InitialBufferSize)
	return &Encoder{prog: p, w: w}
}

// Encoder is shorthand for NewEncoder(p).
func (p *Program) Encoder() *Encoder {
	return NewEncoder(p)
}

// Encode appends value as a message of typeName and returns its offset.
// value may be a map[string]any, any Accessor, or nil for all defaults.
// Missing fields are written as zero values. On error nothing from this
// call remains in the buffer.
func (e *Encoder) Encode(typeName string, value any) (int, error) {
	rp, err := e.prog.record(typeName, errors.PhaseEncode)
	if err != nil {
		return 0, err
	}

	m := e.w.Mark()
	pos := e.w.Alloc(int(rp.Size))
	if err := e.storeRecord(rp, pos, value); err != nil {
		e.w.Rollback(m)
		if be, ok := err.(*errors.Error); ok && be.TypeName == "" {
			cp := *be
			cp.TypeName = typeName
			return 0, &cp
		}
		return 0, err
	}

	if len(e.offsets) == 0 {
		e.typeName = typeName
	} else if e.typeName != typeName {
		e.typeName = ""
	}
	e.offsets = append(e.offsets, pos)
	return pos, nil
}

// Len returns the number of messages encoded since the last Finish.
func (e *Encoder) Len() int {
	return len(e.offsets)
}

// Finish returns the encoded block and starts a new one. The block's
// TypeName is empty when messages of different types were encoded.
func (e *Encoder) Finish() bobject.Block {
	buf, table := e.w.Finish()
	b := bobject.Block{
		TypeName: e.typeName,
		Buffer:   buf,
		Table:    table,
		Offsets:  e.offsets,
	}
	e.offsets = nil
	e.typeName = ""
	return b
}

// Release returns the writer to the pool. The encoder must not be used
// afterwards.
func (e *Encoder) Release() {
	Release(e.w)
	e.w = nil
}

func (e *Encoder) storeRecord(rp *recordPlan, pos int, value any) error {
	if value == nil {
		// Allocations are zeroed, which is every field's default.
		return nil
	}
	get, err := fieldGetter(value, errors.PhaseEncode)
	if err != nil {
		return err
	}
	for i := range rp.Fields {
		f := &rp.Fields[i]
		if f.IsConst {
			continue
		}
		v, err := get(f.Name)
		if err != nil {
			return pathed(err, f.Name)
		}
		if err := rp.stores[i](e, pos+int(f.Offset), v); err != nil {
			return pathed(err, f.Name)
		}
	}
	return nil
}

func (p *Program) elemStore(f *types.Field) storeFunc {
	switch f.Kind {
	case types.KindRecord:
		sub := p.records[f.Schema.Type]
		return func(e *Encoder, pos int, v any) error {
			return e.storeRecord(sub, pos, v)
		}
	case types.KindString:
		return func(e *Encoder, pos int, v any) error {
			s, err := coerceScalar(types.KindString, v, errors.PhaseEncode)
			if err != nil {
				return err
			}
			return e.storeText(pos, s.(string))
		}
	case types.KindJSON:
		return func(e *Encoder, pos int, v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return errors.New(errors.PhaseEncode, errors.KindInvalidData).
					GoType(typeName(v)).
					BobType(schema.JSON).
					Cause(err).
					Detail("value is not JSON serializable").
					Build()
			}
			return e.storeText(pos, string(data))
		}
	default:
		k := f.Kind
		return func(e *Encoder, pos int, v any) error {
			return e.storeScalar(k, pos, v)
		}
	}
}

func (e *Encoder) storeText(pos int, s string) error {
	if len(s) > e.prog.opts.MaxStringSize {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Detail("string of %d bytes exceeds limit %d", len(s), e.prog.opts.MaxStringSize).
			Build()
	}
	if len(s) == 0 {
		return nil
	}
	e.w.PutPointer(pos, len(s), e.w.InternString(s))
	return nil
}

func (e *Encoder) storeScalar(k types.Kind, pos int, v any) error {
	if v == nil {
		return nil
	}
	c, err := coerceScalar(k, v, errors.PhaseEncode)
	if err != nil {
		return err
	}
	switch x := c.(type) {
	case bool:
		if x {
			e.w.PutUint8(pos, 1)
		}
	case uint8:
		e.w.PutUint8(pos, x)
	case int8:
		e.w.PutUint8(pos, uint8(x))
	case uint16:
		e.w.PutUint16(pos, x)
	case int16:
		e.w.PutUint16(pos, uint16(x))
	case uint32:
		e.w.PutUint32(pos, x)
	case int32:
		e.w.PutUint32(pos, uint32(x))
	case uint64:
		e.w.PutUint64(pos, x)
	case int64:
		e.w.PutUint64(pos, uint64(x))
	case float32:
		e.w.PutFloat32(pos, x)
	case float64:
		e.w.PutFloat64(pos, x)
	}
	return nil
}

func (p *Program) arrayStore(f *types.Field, elem storeFunc) storeFunc {
	size := int(f.ElemSize)
	isByte := f.Kind.IsByte()
	return func(e *Encoder, pos int, v any) error {
		if v == nil {
			return nil
		}

		if isByte {
			if data, ok := byteData(v); ok {
				if err := e.checkLength(f, len(data)); err != nil {
					return err
				}
				off := e.w.Alloc(len(data))
				e.w.PutBytes(off, data)
				e.w.PutPointer(pos, len(data), off)
				return nil
			}
		}

		n, at, err := sequence(v, errors.PhaseEncode)
		if err != nil {
			return err
		}
		if err := e.checkLength(f, n); err != nil {
			return err
		}
		total, ok := abi.SafeMulU32(uint32(n), uint32(size))
		if !ok {
			return errors.Overflow(errors.PhaseEncode, nil, n, f.Schema.Type+"[]")
		}

		off := e.w.Alloc(int(total))
		e.w.PutPointer(pos, n, off)
		for i := 0; i < n; i++ {
			x, err := at(i)
			if err != nil {
				return pathed(err, indexSeg(i))
			}
			if err := elem(e, off+i*size, x); err != nil {
				return pathed(err, indexSeg(i))
			}
		}
		return nil
	}
}

func (e *Encoder) checkLength(f *types.Field, n int) error {
	if n > e.prog.opts.MaxArrayLength {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Detail("array of %d elements exceeds limit %d", n, e.prog.opts.MaxArrayLength).
			Build()
	}
	if f.FixedLen >= 0 && n != f.FixedLen {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			BobType(f.Schema.Type).
			Detail("fixed array expects %d elements, got %d", f.FixedLen, n).
			Build()
	}
	return nil
}
