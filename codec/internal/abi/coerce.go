package abi

import (
	"encoding/json"
	"math"
	"strconv"
)

// CoerceToInt64 handles JSON decoded numbers (float64, json.Number) and
// every Go integer width.
func CoerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		return CoerceToInt64(float64(v))
	case json.Number:
		if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return CoerceToInt64(f)
		}
	}
	return 0, false
}

// CoerceToUint64 is the unsigned counterpart of CoerceToInt64.
func CoerceToUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case int, int8, int16, int32, int64:
		n, _ := CoerceToInt64(v)
		if n >= 0 {
			return uint64(n), true
		}
	case float64:
		if v >= 0 && v < math.MaxUint64 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		return CoerceToUint64(float64(v))
	case json.Number:
		if n, err := strconv.ParseUint(string(v), 10, 64); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return CoerceToUint64(f)
		}
	}
	return 0, false
}

// CoerceSigned coerces value to a signed integer that fits in bits.
func CoerceSigned(value any, bits int) (int64, bool) {
	n, ok := CoerceToInt64(value)
	if !ok {
		return 0, false
	}
	if bits < 64 {
		limit := int64(1) << (bits - 1)
		if n < -limit || n >= limit {
			return 0, false
		}
	}
	return n, true
}

// CoerceUnsigned coerces value to an unsigned integer that fits in bits.
func CoerceUnsigned(value any, bits int) (uint64, bool) {
	n, ok := CoerceToUint64(value)
	if !ok {
		return 0, false
	}
	if bits < 64 && n >= uint64(1)<<bits {
		return 0, false
	}
	return n, true
}

// CoerceToFloat64 accepts any numeric value. Integers beyond 2^53 lose
// precision as they would in a float64 field.
func CoerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case uint64:
		return float64(v), true
	case uint:
		return float64(v), true
	}
	if n, ok := CoerceToInt64(value); ok {
		return float64(n), true
	}
	return 0, false
}

// CoerceToBool accepts bool and numbers, where any non-zero number is true.
func CoerceToBool(value any) (bool, bool) {
	if b, ok := value.(bool); ok {
		return b, true
	}
	if f, ok := CoerceToFloat64(value); ok {
		return f != 0, true
	}
	return false, false
}
