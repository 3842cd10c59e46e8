package layout

import (
	"errors"
	"testing"

	bobErrors "github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

func testSchema() schema.Map {
	return schema.AddTimeTypes(schema.Map{
		"std_msgs/Header": {Fields: []schema.Field{
			{Name: "seq", Type: "uint32"},
			{Name: "stamp", Type: "time"},
			{Name: "frame_id", Type: "string"},
		}},
		"pkg/Msg": {Fields: []schema.Field{
			{Name: "header", Type: "std_msgs/Header"},
			{Name: "K", Type: "uint8", IsConstant: true, Value: 1},
			{Name: "flag", Type: "bool"},
			{Name: "points", Type: "pkg/Point", IsArray: true},
			{Name: "big", Type: "uint64"},
		}},
		"pkg/Point": {Fields: []schema.Field{
			{Name: "x", Type: "float32"},
			{Name: "y", Type: "float32"},
		}},
		"pkg/Empty": {Fields: []schema.Field{
			{Name: "A", Type: "int8", IsConstant: true, Value: 1},
		}},
	})
}

func TestTypeSizePrimitives(t *testing.T) {
	c := NewCalculator(schema.Map{})

	tests := []struct {
		name string
		size uint32
	}{
		{"bool", 1}, {"int8", 1}, {"uint8", 1},
		{"int16", 2}, {"uint16", 2},
		{"int32", 4}, {"uint32", 4}, {"float32", 4},
		{"float64", 8}, {"int64", 8}, {"uint64", 8},
		{"string", 8}, {"json", 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			size, err := c.TypeSize(tc.name)
			if err != nil {
				t.Fatalf("TypeSize: %v", err)
			}
			if size != tc.size {
				t.Errorf("size: got %d, want %d", size, tc.size)
			}
		})
	}
}

func TestTypeSizeRecords(t *testing.T) {
	c := NewCalculator(testSchema())

	tests := []struct {
		name string
		size uint32
	}{
		{"time", 8},
		{"duration", 8},
		{"std_msgs/Header", 4 + 8 + 8},
		{"pkg/Point", 8},
		{"pkg/Msg", 20 + 0 + 1 + 8 + 8},
		{"pkg/Empty", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			size, err := c.TypeSize(tc.name)
			if err != nil {
				t.Fatalf("TypeSize: %v", err)
			}
			if size != tc.size {
				t.Errorf("size: got %d, want %d", size, tc.size)
			}
		})
	}
}

func TestFieldOffsets(t *testing.T) {
	c := NewCalculator(testSchema())

	info, err := c.Record("pkg/Msg")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	want := map[string]uint32{"header": 0, "K": 20, "flag": 20, "points": 21, "big": 29}
	for name, off := range want {
		if info.FieldOffs[name] != off {
			t.Errorf("offset of %s: got %d, want %d", name, info.FieldOffs[name], off)
		}
	}
}

func TestFieldSize(t *testing.T) {
	c := NewCalculator(testSchema())

	tests := []struct {
		name  string
		field schema.Field
		size  uint32
	}{
		{"constant", schema.Field{Name: "K", Type: "float64", IsConstant: true, Value: 1.5}, 0},
		{"array of records", schema.Field{Name: "h", Type: "std_msgs/Header", IsArray: true}, 8},
		{"byte array", schema.Field{Name: "d", Type: "uint8", IsArray: true}, 8},
		{"nested", schema.Field{Name: "h", Type: "std_msgs/Header"}, 20},
		{"string", schema.Field{Name: "s", Type: "string"}, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			size, err := c.FieldSize(tc.field)
			if err != nil {
				t.Fatalf("FieldSize: %v", err)
			}
			if size != tc.size {
				t.Errorf("size: got %d, want %d", size, tc.size)
			}
		})
	}
}

func TestUnknownType(t *testing.T) {
	c := NewCalculator(schema.Map{
		"pkg/A": {Fields: []schema.Field{{Name: "b", Type: "pkg/Missing"}}},
	})

	if _, err := c.TypeSize("pkg/Nope"); !errors.Is(err, bobErrors.ErrUnknownType) {
		t.Errorf("TypeSize(pkg/Nope) error = %v", err)
	}

	_, err := c.TypeSize("pkg/A")
	var e *bobErrors.Error
	if !errors.As(err, &e) || e.Kind != bobErrors.KindUnknownType {
		t.Fatalf("TypeSize(pkg/A) error = %v", err)
	}
	if len(e.Path) != 2 || e.Path[0] != "pkg/A" || e.Path[1] != "b" {
		t.Errorf("error path = %v", e.Path)
	}

	if _, err := c.FieldSize(schema.Field{Name: "x", Type: "pkg/Missing", IsArray: true}); err == nil {
		t.Error("array of unknown type should fail")
	}
}

func TestRecursiveRecord(t *testing.T) {
	c := NewCalculator(schema.Map{
		"pkg/Node": {Fields: []schema.Field{{Name: "next", Type: "pkg/Node"}}},
		"pkg/List": {Fields: []schema.Field{{Name: "items", Type: "pkg/List", IsArray: true}}},
	})

	if _, err := c.TypeSize("pkg/Node"); err == nil {
		t.Error("inline recursion should fail")
	}
	size, err := c.TypeSize("pkg/List")
	if err != nil || size != 8 {
		t.Errorf("array recursion: size=%d err=%v", size, err)
	}
}

func TestMemoized(t *testing.T) {
	c := NewCalculator(testSchema())
	first, _ := c.Record("pkg/Msg")
	second, _ := c.Record("pkg/Msg")
	if len(c.cache) == 0 {
		t.Fatal("cache empty after Record")
	}
	if first.Size != second.Size {
		t.Error("memoized result differs")
	}
}
