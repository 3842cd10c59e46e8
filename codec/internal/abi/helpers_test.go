package abi

import (
	"math"
	"testing"
)

func TestSafeMulU32(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint32
		want   uint32
		wantOK bool
	}{
		{"zero * zero", 0, 0, 0, true},
		{"zero * max", 0, math.MaxUint32, 0, true},
		{"small * small", 100, 200, 20000, true},
		{"max * one", math.MaxUint32, 1, math.MaxUint32, true},
		{"overflow", math.MaxUint32, 2, 0, false},
		{"edge case ok", 65536, 65535, 65536 * 65535, true},
		{"edge case overflow", 65536, 65537, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeMulU32(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Errorf("SafeMulU32(%d, %d) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SafeMulU32(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSafeAddU32(t *testing.T) {
	if _, ok := SafeAddU32(math.MaxUint32, 1); ok {
		t.Error("MaxUint32+1 should overflow")
	}
	if got, ok := SafeAddU32(math.MaxUint32-1, 1); !ok || got != math.MaxUint32 {
		t.Errorf("SafeAddU32 = %d, %v", got, ok)
	}
}

func TestTypeName(t *testing.T) {
	if TypeName(nil) != "nil" {
		t.Error("TypeName(nil)")
	}
	if TypeName(map[string]any{}) != "map[string]interface {}" {
		t.Errorf("TypeName(map) = %s", TypeName(map[string]any{}))
	}
}

func TestIsSafeUint(t *testing.T) {
	if !IsSafeUint(9007199254740991) {
		t.Error("2^53-1 should be safe")
	}
	if IsSafeUint(9007199254740992) {
		t.Error("2^53 should not be safe")
	}
}
