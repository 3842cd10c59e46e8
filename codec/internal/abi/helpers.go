package abi

import (
	"math"
	"reflect"
)

// MaxSafeInteger is the largest integer a float64 holds exactly (2^53-1).
const MaxSafeInteger = 1<<53 - 1

const (
	MaxStringSize  = 1 << 30 // 1 GB max string size
	MaxArrayLength = 1 << 27 // 128M max elements
)

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

// IsSafeUint reports whether v converts to float64 without precision loss.
func IsSafeUint(v uint64) bool {
	return v <= MaxSafeInteger
}
