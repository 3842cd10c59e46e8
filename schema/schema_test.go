package schema

import (
	"errors"
	"testing"

	bobErrors "github.com/wippyai/bobject/errors"
)

func intPtr(n int) *int { return &n }

func TestPrimitiveSize(t *testing.T) {
	tests := []struct {
		name string
		want uint32
		ok   bool
	}{
		{"bool", 1, true},
		{"int8", 1, true},
		{"uint8", 1, true},
		{"byte", 1, true},
		{"char", 1, true},
		{"int16", 2, true},
		{"uint16", 2, true},
		{"int32", 4, true},
		{"uint32", 4, true},
		{"float32", 4, true},
		{"float64", 8, true},
		{"int64", 8, true},
		{"uint64", 8, true},
		{"string", 8, true},
		{"json", 8, true},
		{"time", 0, false},
		{"std_msgs/Header", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PrimitiveSize(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("PrimitiveSize(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsByteType(t *testing.T) {
	for _, name := range []string{"int8", "uint8", "byte", "char"} {
		if !IsByteType(name) {
			t.Errorf("IsByteType(%q) = false", name)
		}
	}
	if IsByteType("int16") {
		t.Error("IsByteType(int16) = true")
	}
}

func TestAddTimeTypes(t *testing.T) {
	m := Map{"pkg/A": {Fields: []Field{{Name: "t", Type: "time"}}}}
	out := AddTimeTypes(m)

	if HasTimeTypes(m) {
		t.Error("AddTimeTypes mutated its input")
	}
	if !HasTimeTypes(out) {
		t.Fatal("time types missing from result")
	}
	for _, name := range []string{Time, Duration} {
		fields := out[name].Fields
		if len(fields) != 2 || fields[0].Name != "sec" || fields[1].Name != "nsec" {
			t.Errorf("%s fields = %+v", name, fields)
		}
		for _, f := range fields {
			if f.Type != Int32 {
				t.Errorf("%s.%s type = %s, want int32", name, f.Name, f.Type)
			}
		}
	}
}

func TestFriendlyName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"geometry_msgs/Pose", "geometry_msgs_Pose"},
		{"a.b-c", "a_b_c"},
		{"9lives", "_9lives"},
		{"plain", "plain"},
		{"", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FriendlyName(tt.in); got != tt.want {
				t.Errorf("FriendlyName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIdentifiersInjective(t *testing.T) {
	m := Map{
		"a/b": {},
		"a_b": {},
		"a.b": {},
		"c":   {},
	}
	ids := Identifiers(m)

	seen := make(map[string]string)
	for name, id := range ids {
		if other, dup := seen[id]; dup {
			t.Errorf("%q and %q share identifier %q", name, other, id)
		}
		seen[id] = name
	}
	if ids["a.b"] != "a_b" {
		t.Errorf("first sorted name should keep the plain friendly name, got %q", ids["a.b"])
	}
	if again := Identifiers(m); again["a_b"] != ids["a_b"] {
		t.Error("Identifiers is not deterministic")
	}
}

func TestFingerprint(t *testing.T) {
	a := Map{
		"pkg/A": {Fields: []Field{{Name: "x", Type: "uint32"}, {Name: "b", Type: "pkg/B"}}},
		"pkg/B": {Fields: []Field{{Name: "s", Type: "string"}}},
	}
	b := Map{
		"pkg/B": {Fields: []Field{{Name: "s", Type: "string"}}},
		"pkg/A": {Fields: []Field{{Name: "x", Type: "uint32"}, {Name: "b", Type: "pkg/B"}}},
	}
	c := Map{
		"pkg/A": {Fields: []Field{{Name: "b", Type: "pkg/B"}, {Name: "x", Type: "uint32"}}},
		"pkg/B": {Fields: []Field{{Name: "s", Type: "string"}}},
	}

	fa, err := FingerprintOf(a)
	if err != nil {
		t.Fatalf("FingerprintOf: %v", err)
	}
	fb, _ := FingerprintOf(b)
	fc, _ := FingerprintOf(c)

	if fa != fb {
		t.Errorf("equal maps have different fingerprints: %s vs %s", fa, fb)
	}
	if fa == fc {
		t.Error("field order change did not change the fingerprint")
	}
	if len(fa.String()) != 64 || len(fa.Short()) != 12 {
		t.Errorf("unexpected fingerprint encoding %q", fa.String())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    Map
		kind bobErrors.Kind
	}{
		{
			name: "valid",
			m: Map{"pkg/A": {Fields: []Field{
				{Name: "x", Type: "uint32"},
				{Name: "K", Type: "uint8", IsConstant: true, Value: 3},
				{Name: "arr", Type: "float64", IsArray: true, ArrayLength: intPtr(3)},
			}}},
		},
		{
			name: "unknown type",
			m:    Map{"pkg/A": {Fields: []Field{{Name: "x", Type: "pkg/Missing"}}}},
			kind: bobErrors.KindUnknownType,
		},
		{
			name: "duplicate field",
			m:    Map{"pkg/A": {Fields: []Field{{Name: "x", Type: "bool"}, {Name: "x", Type: "bool"}}}},
			kind: bobErrors.KindInvalidData,
		},
		{
			name: "empty name",
			m:    Map{"pkg/A": {Fields: []Field{{Type: "bool"}}}},
			kind: bobErrors.KindInvalidData,
		},
		{
			name: "constant without value",
			m:    Map{"pkg/A": {Fields: []Field{{Name: "K", Type: "int8", IsConstant: true}}}},
			kind: bobErrors.KindInvalidData,
		},
		{
			name: "length on scalar",
			m:    Map{"pkg/A": {Fields: []Field{{Name: "x", Type: "int8", ArrayLength: intPtr(2)}}}},
			kind: bobErrors.KindInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.m)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			var e *bobErrors.Error
			if !errors.As(err, &e) || e.Kind != tt.kind {
				t.Errorf("Validate error = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestClosure(t *testing.T) {
	m := AddTimeTypes(Map{
		"pkg/A": {Fields: []Field{{Name: "b", Type: "pkg/B"}, {Name: "t", Type: "time"}}},
		"pkg/B": {Fields: []Field{{Name: "cs", Type: "pkg/C", IsArray: true}}},
		"pkg/C": {Fields: []Field{{Name: "x", Type: "int8"}}},
		"pkg/D": {},
	})

	got, err := Closure(m, "pkg/A")
	if err != nil {
		t.Fatalf("Closure: %v", err)
	}
	want := []string{"pkg/A", "pkg/B", "time", "pkg/C"}
	if len(got) != len(want) {
		t.Fatalf("Closure = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Closure[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := Closure(m, "pkg/Nope"); !errors.Is(err, bobErrors.ErrUnknownType) {
		t.Errorf("Closure of missing root: %v", err)
	}
}
