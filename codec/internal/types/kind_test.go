package types

import "testing"

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"bool", KindBool},
		{"uint8", KindU8},
		{"char", KindU8},
		{"int8", KindS8},
		{"byte", KindS8},
		{"uint16", KindU16},
		{"int16", KindS16},
		{"uint32", KindU32},
		{"int32", KindS32},
		{"uint64", KindU64},
		{"int64", KindS64},
		{"float32", KindF32},
		{"float64", KindF64},
		{"string", KindString},
		{"json", KindJSON},
		{"time", KindRecord},
		{"geometry_msgs/Pose", KindRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.name); got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	for k := KindBool; k <= KindF64; k++ {
		if !k.IsPrimitive() {
			t.Errorf("%v should be primitive", k)
		}
		if k.Size() == 0 {
			t.Errorf("%v has no size", k)
		}
	}
	for _, k := range []Kind{KindString, KindJSON, KindRecord} {
		if k.IsPrimitive() {
			t.Errorf("%v should not be primitive", k)
		}
	}
	if !KindJSON.IsText() || KindU8.IsText() {
		t.Error("IsText mismatch")
	}
	if !KindU8.IsByte() || !KindS8.IsByte() || KindU16.IsByte() {
		t.Error("IsByte mismatch")
	}
	if Kind(200).String() != "unknown" {
		t.Error("out of range kind should be unknown")
	}
}
