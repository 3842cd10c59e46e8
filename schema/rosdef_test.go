package schema

import "testing"

const poseStamped = `# A Pose with reference coordinate frame and timestamp
Header header
Pose pose
uint8 MODE_A=1 # first mode
string NAME=hello # world
float64[4] quat
int32[] ids
================================================================================
MSG: std_msgs/Header
uint32 seq
time stamp
string frame_id
================================================================================
MSG: geometry_msgs/Pose
geometry_msgs/Point position
================================================================================
MSG: geometry_msgs/Point
float64 x
float64 y
float64 z
`

func TestParseROS(t *testing.T) {
	m, err := ParseROS("geometry_msgs/PoseStamped", poseStamped)
	if err != nil {
		t.Fatalf("ParseROS: %v", err)
	}

	root := m["geometry_msgs/PoseStamped"]
	if len(root.Fields) != 6 {
		t.Fatalf("root fields = %+v", root.Fields)
	}

	tests := []struct {
		name  string
		check func(Field) bool
	}{
		{"header", func(f Field) bool { return f.Type == "std_msgs/Header" }},
		{"pose", func(f Field) bool { return f.Type == "geometry_msgs/Pose" }},
		{"MODE_A", func(f Field) bool { return f.IsConstant && f.Value == 1 }},
		{"NAME", func(f Field) bool { return f.IsConstant && f.Value == "hello # world" }},
		{"quat", func(f Field) bool { return f.IsFixedArray() && *f.ArrayLength == 4 && f.Type == "float64" }},
		{"ids", func(f Field) bool { return f.IsArray && f.ArrayLength == nil && f.Type == "int32" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := root.Field(tt.name)
			if !ok || !tt.check(f) {
				t.Errorf("field %s = %+v", tt.name, f)
			}
		})
	}

	if _, ok := m["geometry_msgs/Point"]; !ok {
		t.Error("nested definition missing")
	}
	if !HasTimeTypes(m) {
		t.Error("time types not injected")
	}
}

func TestParseROSMalformed(t *testing.T) {
	if _, err := ParseROS("pkg/A", "uint32"); err == nil {
		t.Error("expected error for line without a name")
	}
	if _, err := ParseROS("pkg/A", "int32[x] bad"); err == nil {
		t.Error("expected error for bad array length")
	}
}
