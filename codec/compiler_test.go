package codec

import (
	"testing"

	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

func pointSchema() schema.Map {
	return schema.Map{
		"geometry_msgs/Point": {Fields: []schema.Field{
			{Name: "x", Type: schema.Float64},
			{Name: "y", Type: schema.Float64},
			{Name: "z", Type: schema.Float64},
		}},
	}
}

func TestCompiler_Cache(t *testing.T) {
	c := NewCompiler(DefaultOptions())

	p1, err := c.Compile(pointSchema())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	p2, err := c.Compile(pointSchema())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p1 != p2 {
		t.Error("equal schema maps should share one program")
	}
	if !c.Cached(p1.Fingerprint()) {
		t.Error("program should be cached")
	}

	c.Evict(p1.Fingerprint())
	if c.Cached(p1.Fingerprint()) {
		t.Error("program still cached after Evict")
	}
	p3, err := c.Compile(pointSchema())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p3 == p1 {
		t.Error("Evict should force a recompile")
	}

	c.Purge()
	if c.Cached(p3.Fingerprint()) {
		t.Error("program still cached after Purge")
	}
}

func TestCompiler_RedefinedSchema(t *testing.T) {
	c := NewCompiler(DefaultOptions())

	p1, err := c.Compile(pointSchema())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	m := pointSchema()
	m["geometry_msgs/Point"] = schema.Record{Fields: []schema.Field{
		{Name: "x", Type: schema.Float32},
	}}
	p2, err := c.Compile(m)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p1 == p2 || p1.Fingerprint() == p2.Fingerprint() {
		t.Error("a redefined schema must not reuse the old program")
	}

	l, err := p2.Layout("geometry_msgs/Point")
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if l.Size != 4 {
		t.Errorf("Size = %d, want 4", l.Size)
	}
}

func TestCompiler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		schema schema.Map
		target error
	}{
		{
			name: "unknown field type",
			schema: schema.Map{"a/A": {Fields: []schema.Field{
				{Name: "b", Type: "a/Missing"},
			}}},
			target: errors.ErrUnknownType,
		},
		{
			name: "unknown array element type",
			schema: schema.Map{"a/A": {Fields: []schema.Field{
				{Name: "b", Type: "a/Missing", IsArray: true},
			}}},
			target: errors.ErrUnknownType,
		},
		{
			name: "record inlines itself",
			schema: schema.Map{
				"a/A": {Fields: []schema.Field{{Name: "b", Type: "a/B"}}},
				"a/B": {Fields: []schema.Field{{Name: "a", Type: "a/A"}}},
			},
			target: &errors.Error{Kind: errors.KindInvalidData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompiler(DefaultOptions())
			p, err := c.Compile(tt.schema)
			if err == nil {
				t.Fatal("expected error")
			}
			if p != nil {
				t.Error("no program should be produced")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("error %v does not match %v", err, tt.target)
			}
		})
	}
}

func TestCompiler_Layout(t *testing.T) {
	m := schema.Map{
		"test/Stamped": {Fields: []schema.Field{
			{Name: "TYPE", Type: schema.Uint8, IsConstant: true, Value: 3},
			{Name: "stamp", Type: schema.Time},
			{Name: "flag", Type: schema.Bool},
			{Name: "label", Type: schema.String},
			{Name: "point", Type: "geometry_msgs/Point"},
			{Name: "raw", Type: schema.Byte, IsArray: true},
		}},
		"geometry_msgs/Point": pointSchema()["geometry_msgs/Point"],
		"test/Tree": {Fields: []schema.Field{
			{Name: "value", Type: schema.Int32},
			{Name: "children", Type: "test/Tree", IsArray: true},
		}},
	}

	p, err := NewCompiler(DefaultOptions()).Compile(m)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		typeName string
		size     uint32
		offsets  map[string]uint32
		flat     bool
	}{
		{"geometry_msgs/Point", 24, map[string]uint32{"x": 0, "y": 8, "z": 16}, true},
		{"time", 8, map[string]uint32{"sec": 0, "nsec": 4}, true},
		{"test/Tree", 12, map[string]uint32{"value": 0, "children": 4}, false},
		{
			"test/Stamped", 8 + 1 + 8 + 24 + 8,
			map[string]uint32{"TYPE": 0, "stamp": 0, "flag": 8, "label": 9, "point": 17, "raw": 41},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			l, err := p.Layout(tt.typeName)
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if l.Size != tt.size {
				t.Errorf("Size = %d, want %d", l.Size, tt.size)
			}
			if l.Flat != tt.flat {
				t.Errorf("Flat = %v, want %v", l.Flat, tt.flat)
			}
			for _, f := range l.Fields {
				if want := tt.offsets[f.Name]; f.Offset != want {
					t.Errorf("%s offset = %d, want %d", f.Name, f.Offset, want)
				}
			}
		})
	}

	if _, err := p.Layout("test/Missing"); !errors.Is(err, errors.ErrUnknownType) {
		t.Errorf("Layout of unknown type: %v", err)
	}
}

func TestCompiler_InjectsTimeTypes(t *testing.T) {
	m := schema.Map{
		"time": {Fields: []schema.Field{{Name: "whatever", Type: schema.Float64}}},
		"test/Stamp": {Fields: []schema.Field{
			{Name: "at", Type: schema.Time},
			{Name: "for", Type: schema.Duration},
		}},
	}
	p, err := NewCompiler(DefaultOptions()).Compile(m)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	l, err := p.Layout("time")
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(l.Fields) != 2 || l.Fields[0].Name != "sec" || l.Fields[1].Name != "nsec" {
		t.Errorf("time fields = %+v", l.Fields)
	}
	if _, ok := m["duration"]; ok {
		t.Error("Compile modified the caller's map")
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{MaxArrayLength: 10}.withDefaults()
	d := DefaultOptions()
	if o.MaxArrayLength != 10 {
		t.Errorf("MaxArrayLength = %d, want 10", o.MaxArrayLength)
	}
	if o.MaxStringSize != d.MaxStringSize || o.InitialBufferSize != d.InitialBufferSize {
		t.Errorf("zero fields not defaulted: %+v", o)
	}
}
