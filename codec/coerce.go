package codec

import (
	"encoding/json"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/codec/internal/abi"
	"github.com/wippyai/bobject/codec/internal/types"
	"github.com/wippyai/bobject/errors"
)

// Local wrappers for abi package functions
var (
	typeName       = abi.TypeName
	coerceSigned   = abi.CoerceSigned
	coerceUnsigned = abi.CoerceUnsigned
)

// zeroValue is what a missing field of kind k reads as.
func zeroValue(k types.Kind) any {
	switch k {
	case types.KindBool:
		return false
	case types.KindU8:
		return uint8(0)
	case types.KindS8:
		return int8(0)
	case types.KindU16:
		return uint16(0)
	case types.KindS16:
		return int16(0)
	case types.KindU32:
		return uint32(0)
	case types.KindS32:
		return int32(0)
	case types.KindU64:
		return uint64(0)
	case types.KindS64:
		return int64(0)
	case types.KindF32:
		return float32(0)
	case types.KindF64:
		return float64(0)
	case types.KindString:
		return ""
	}
	return nil
}

// coerceScalar converts a plain value to the canonical Go type of k.
// nil becomes the zero value.
func coerceScalar(k types.Kind, v any, phase errors.Phase) (any, error) {
	if v == nil {
		return zeroValue(k), nil
	}
	switch k {
	case types.KindBool:
		if b, ok := abi.CoerceToBool(v); ok {
			return b, nil
		}
	case types.KindU8:
		n, err := unsigned(v, 8, k, phase)
		return uint8(n), err
	case types.KindS8:
		n, err := signed(v, 8, k, phase)
		return int8(n), err
	case types.KindU16:
		n, err := unsigned(v, 16, k, phase)
		return uint16(n), err
	case types.KindS16:
		n, err := signed(v, 16, k, phase)
		return int16(n), err
	case types.KindU32:
		n, err := unsigned(v, 32, k, phase)
		return uint32(n), err
	case types.KindS32:
		n, err := signed(v, 32, k, phase)
		return int32(n), err
	case types.KindU64:
		return unsigned(v, 64, k, phase)
	case types.KindS64:
		return signed(v, 64, k, phase)
	case types.KindF32:
		if f, ok := abi.CoerceToFloat64(v); ok {
			return float32(f), nil
		}
	case types.KindF64:
		if f, ok := abi.CoerceToFloat64(v); ok {
			return f, nil
		}
	case types.KindString:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
	}
	return nil, errors.TypeMismatch(phase, nil, typeName(v), k.String())
}

func unsigned(v any, bits int, k types.Kind, phase errors.Phase) (uint64, error) {
	if n, ok := coerceUnsigned(v, bits); ok {
		return n, nil
	}
	return 0, rangeError(v, k, phase)
}

func signed(v any, bits int, k types.Kind, phase errors.Phase) (int64, error) {
	if n, ok := coerceSigned(v, bits); ok {
		return n, nil
	}
	return 0, rangeError(v, k, phase)
}

// rangeError distinguishes numbers that do not fit from non-numbers.
func rangeError(v any, k types.Kind, phase errors.Phase) error {
	if _, isNumber := abi.CoerceToFloat64(v); isNumber {
		return errors.Overflow(phase, nil, v, k.String())
	}
	return errors.TypeMismatch(phase, nil, typeName(v), k.String())
}

// normalizeJSON gives a wrapped json field the same shape it has after an
// encode and decode round trip.
func normalizeJSON(v any, phase errors.Phase) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.New(phase, errors.KindInvalidData).
			GoType(typeName(v)).
			Cause(err).
			Detail("value is not JSON serializable").
			Build()
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(phase, errors.KindInvalidData, err, "re-reading JSON")
	}
	return out, nil
}

// fieldGetter returns a lookup over the fields of a plain record value.
// Accessors are read wide so 64-bit values survive re-encoding.
func fieldGetter(value any, phase errors.Phase) (func(name string) (any, error), error) {
	switch v := value.(type) {
	case nil:
		return func(string) (any, error) { return nil, nil }, nil
	case map[string]any:
		return func(name string) (any, error) { return v[name], nil }, nil
	case bobject.Accessor:
		return func(name string) (any, error) {
			x, err := v.GetWide(name)
			if errors.Is(err, errors.ErrFieldUnknown) {
				return nil, nil
			}
			return x, err
		}, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		keyType := rv.Type().Key()
		return func(name string) (any, error) {
			x := rv.MapIndex(reflect.ValueOf(name).Convert(keyType))
			if !x.IsValid() {
				return nil, nil
			}
			return x.Interface(), nil
		}, nil
	}
	return nil, errors.TypeMismatch(phase, nil, typeName(value), "record")
}

// sequence returns the length and an element getter for slices, arrays
// and array views.
func sequence(value any, phase errors.Phase) (int, func(i int) (any, error), error) {
	switch v := value.(type) {
	case []any:
		return len(v), func(i int) (any, error) { return v[i], nil }, nil
	case bobject.ArrayView:
		return v.Len(), v.AtWide, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), func(i int) (any, error) { return rv.Index(i).Interface(), nil }, nil
	}
	return 0, nil, errors.TypeMismatch(phase, nil, typeName(value), "array")
}

// byteData returns the raw bytes of byte-like values without copying.
func byteData(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case []int8:
		return int8sAsBytes(v), true
	case string:
		return []byte(v), true
	}
	return nil, false
}

func int8sAsBytes(v []int8) []byte {
	if len(v) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v))), len(v))
}

func bytesAsInt8s(v []byte) []int8 {
	if len(v) == 0 {
		return []int8{}
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(unsafe.SliceData(v))), len(v))
}

// pathed prefixes err's field path with seg.
func pathed(err error, seg string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithPath(seg)
	}
	return err
}

func indexSeg(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
