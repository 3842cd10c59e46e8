package codec

import (
	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/codec/internal/abi"
	"github.com/wippyai/bobject/codec/internal/types"
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

// planned is implemented by every accessor this package creates.
type planned interface {
	planned() (*Program, *recordPlan)
}

// wrappedAccessor exposes a plain in-memory record through the Accessor
// contract. Values are coerced to the same Go types a binary accessor
// returns, and missing fields read as the defaults the encoder writes.
type wrappedAccessor struct {
	prog *Program
	rec  *recordPlan
	get  func(name string) (any, error)
}

// Wrap wraps a plain value as an accessor of typeName. value may be a
// map[string]any or nil; an Accessor of the same type is returned as is.
func (p *Program) Wrap(typeName string, value any) (bobject.Accessor, error) {
	rp, err := p.record(typeName, errors.PhaseWrap)
	if err != nil {
		return nil, err
	}
	if a, ok := value.(bobject.Accessor); ok {
		if a.TypeName() != typeName {
			return nil, errors.New(errors.PhaseWrap, errors.KindTypeMismatch).
				TypeName(typeName).
				Detail("accessor is a %s", a.TypeName()).
				Build()
		}
		return a, nil
	}
	return p.wrapRecord(rp, value)
}

func (p *Program) wrapRecord(rp *recordPlan, value any) (bobject.Accessor, error) {
	get, err := fieldGetter(value, errors.PhaseWrap)
	if err != nil {
		return nil, err
	}
	return &wrappedAccessor{prog: p, rec: rp, get: get}, nil
}

func (a *wrappedAccessor) TypeName() string {
	return a.rec.Name
}

func (a *wrappedAccessor) Fields() []schema.Field {
	return a.prog.schema[a.rec.Name].Fields
}

func (a *wrappedAccessor) Get(name string) (any, error) {
	return a.field(name, false)
}

func (a *wrappedAccessor) GetWide(name string) (any, error) {
	return a.field(name, true)
}

func (a *wrappedAccessor) field(name string, wide bool) (any, error) {
	f, ok := a.rec.Lookup(name)
	if !ok {
		return nil, errors.FieldUnknown(errors.PhaseWrap, a.rec.Name, name)
	}
	if f.IsConst {
		return f.Schema.Value, nil
	}
	raw, err := a.get(name)
	if err != nil {
		return nil, pathed(err, name)
	}
	v, err := a.prog.wrapField(f, raw, wide)
	if err != nil {
		return nil, pathed(err, name)
	}
	return v, nil
}

func (a *wrappedAccessor) planned() (*Program, *recordPlan) {
	return a.prog, a.rec
}

// wrapField converts a plain field value to what a binary accessor would
// return for the same logical content.
func (p *Program) wrapField(f *types.Field, raw any, wide bool) (any, error) {
	if f.IsArray {
		return p.wrapArray(f, raw)
	}
	return p.wrapElem(f, raw, wide)
}

func (p *Program) wrapElem(f *types.Field, raw any, wide bool) (any, error) {
	switch f.Kind {
	case types.KindRecord:
		if a, ok := raw.(bobject.Accessor); ok {
			return a, nil
		}
		return p.wrapRecord(p.records[f.Schema.Type], raw)
	case types.KindJSON:
		return normalizeJSON(raw, errors.PhaseWrap)
	}

	v, err := coerceScalar(f.Kind, raw, errors.PhaseWrap)
	if err != nil {
		return nil, err
	}
	if u, ok := v.(uint64); ok && !wide && !abi.IsSafeUint(u) {
		return nil, errors.UnsignedOverflow(nil, u)
	}
	return v, nil
}

func (p *Program) wrapArray(f *types.Field, raw any) (any, error) {
	if av, ok := raw.(bobject.ArrayView); ok {
		return av, nil
	}

	if f.Kind.IsByte() {
		return p.wrapBytes(f, raw)
	}

	if raw == nil {
		return &wrappedArray{elemType: f.Schema.Type}, nil
	}
	n, item, err := sequence(raw, errors.PhaseWrap)
	if err != nil {
		return nil, err
	}
	return &wrappedArray{
		item:     item,
		conv:     func(v any, wide bool) (any, error) { return p.wrapElem(f, v, wide) },
		elemType: f.Schema.Type,
		n:        n,
	}, nil
}

// wrapBytes normalizes byte array values to []byte for uint8 and []int8
// for int8, matching the binary fast path.
func (p *Program) wrapBytes(f *types.Field, raw any) (any, error) {
	var data []byte
	if raw == nil {
		data = []byte{}
	} else if b, ok := byteData(raw); ok {
		data = b
	} else {
		n, item, err := sequence(raw, errors.PhaseWrap)
		if err != nil {
			return nil, err
		}
		data = make([]byte, n)
		for i := range data {
			x, err := item(i)
			if err != nil {
				return nil, pathed(err, indexSeg(i))
			}
			c, err := coerceScalar(f.Kind, x, errors.PhaseWrap)
			if err != nil {
				return nil, pathed(err, indexSeg(i))
			}
			switch b := c.(type) {
			case uint8:
				data[i] = b
			case int8:
				data[i] = byte(b)
			}
		}
	}

	if f.Kind == types.KindS8 {
		return bytesAsInt8s(data), nil
	}
	return data, nil
}
