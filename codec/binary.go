package codec

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/wippyai/bobject/codec/internal/abi"
	"github.com/wippyai/bobject/codec/internal/types"
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

// source is the shared, read-only backing of every accessor decoded from
// one buffer.
type source struct {
	buf   []byte
	table string
}

func (s *source) check(pos, n int) error {
	if pos < 0 || n < 0 || pos > len(s.buf)-n {
		return errors.OutOfBounds(errors.PhaseDecode, nil, pos+n, len(s.buf))
	}
	return nil
}

// pointer reads a (length, offset) slot.
func (s *source) pointer(pos int) (int, int, error) {
	if err := s.check(pos, 8); err != nil {
		return 0, 0, err
	}
	n := binary.LittleEndian.Uint32(s.buf[pos:])
	off := binary.LittleEndian.Uint32(s.buf[pos+4:])
	return int(n), int(off), nil
}

func (s *source) text(pos int) (string, error) {
	n, off, err := s.pointer(pos)
	if err != nil {
		return "", err
	}
	if off > len(s.table)-n {
		return "", errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Detail("string [%d, %d) outside table of %d bytes", off, off+n, len(s.table)).
			Build()
	}
	return s.table[off : off+n], nil
}

func (s *source) scalar(k types.Kind, pos int, wide bool) (any, error) {
	if err := s.check(pos, int(k.Size())); err != nil {
		return nil, err
	}
	b := s.buf[pos:]
	switch k {
	case types.KindBool:
		return b[0] != 0, nil
	case types.KindU8:
		return b[0], nil
	case types.KindS8:
		return int8(b[0]), nil
	case types.KindU16:
		return binary.LittleEndian.Uint16(b), nil
	case types.KindS16:
		return int16(binary.LittleEndian.Uint16(b)), nil
	case types.KindU32:
		return binary.LittleEndian.Uint32(b), nil
	case types.KindS32:
		return int32(binary.LittleEndian.Uint32(b)), nil
	case types.KindU64:
		v := binary.LittleEndian.Uint64(b)
		if !wide && !abi.IsSafeUint(v) {
			return nil, errors.UnsignedOverflow(nil, v)
		}
		return v, nil
	case types.KindS64:
		return int64(binary.LittleEndian.Uint64(b)), nil
	case types.KindF32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case types.KindF64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	}
	return nil, errors.Unsupported(errors.PhaseDecode, "scalar read of "+k.String())
}

// parseJSON decodes a json field. Empty text is null; malformed text is
// returned as a readable string rather than failing the whole read.
func parseJSON(text string) any {
	if text == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return `Could not parse "` + text + `"`
	}
	return v
}

func constRead(value any) readFunc {
	return func(*source, int, bool) (any, error) {
		return value, nil
	}
}

func (p *Program) elemRead(f *types.Field) readFunc {
	switch f.Kind {
	case types.KindRecord:
		sub := p.records[f.Schema.Type]
		return func(src *source, pos int, _ bool) (any, error) {
			if err := src.check(pos, int(sub.Size)); err != nil {
				return nil, err
			}
			return &binaryAccessor{prog: p, rec: sub, src: src, off: pos}, nil
		}
	case types.KindString:
		return func(src *source, pos int, _ bool) (any, error) {
			return src.text(pos)
		}
	case types.KindJSON:
		return func(src *source, pos int, _ bool) (any, error) {
			s, err := src.text(pos)
			if err != nil {
				return nil, err
			}
			return parseJSON(s), nil
		}
	default:
		k := f.Kind
		return func(src *source, pos int, wide bool) (any, error) {
			return src.scalar(k, pos, wide)
		}
	}
}

func (p *Program) arrayRead(f *types.Field, elem readFunc) readFunc {
	size := int(f.ElemSize)
	kind := f.Kind
	elemType := f.Schema.Type
	return func(src *source, pos int, _ bool) (any, error) {
		n, off, err := src.pointer(pos)
		if err != nil {
			return nil, err
		}
		if n > p.opts.MaxArrayLength {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Detail("array of %d elements exceeds limit %d", n, p.opts.MaxArrayLength).
				Build()
		}
		total, ok := abi.SafeMulU32(uint32(n), uint32(size))
		if !ok {
			return nil, errors.Overflow(errors.PhaseDecode, nil, n, elemType+"[]")
		}
		if err := src.check(off, int(total)); err != nil {
			return nil, err
		}

		switch kind {
		case types.KindU8:
			return src.buf[off : off+n : off+n], nil
		case types.KindS8:
			return bytesAsInt8s(src.buf[off : off+n : off+n]), nil
		}
		return &binaryArray{src: src, read: elem, elemType: elemType, off: off, n: n, size: size}, nil
	}
}

// binaryAccessor reads fields of one record at a fixed offset of a shared
// source. Top-level accessors are the ones created by the decode
// functions; nested ones come from field and element reads.
type binaryAccessor struct {
	prog *Program
	rec  *recordPlan
	src  *source
	off  int
	top  bool
}

func (a *binaryAccessor) TypeName() string {
	return a.rec.Name
}

func (a *binaryAccessor) Fields() []schema.Field {
	return a.prog.schema[a.rec.Name].Fields
}

func (a *binaryAccessor) Get(name string) (any, error) {
	return a.get(name, false)
}

func (a *binaryAccessor) GetWide(name string) (any, error) {
	return a.get(name, true)
}

func (a *binaryAccessor) get(name string, wide bool) (any, error) {
	i, ok := a.rec.Index[name]
	if !ok {
		return nil, errors.FieldUnknown(errors.PhaseDecode, a.rec.Name, name)
	}
	f := &a.rec.Fields[i]
	v, err := a.rec.reads[i](a.src, a.off+int(f.Offset), wide)
	if err != nil {
		return nil, pathed(err, name)
	}
	return v, nil
}

func (a *binaryAccessor) planned() (*Program, *recordPlan) {
	return a.prog, a.rec
}
