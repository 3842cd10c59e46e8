// Package rosmsg rewrites ROS1 serialized messages into Bob blocks without
// building intermediate Go values.
//
// A Definition is a small command program recorded once per message type
// from the compiled layout:
//
//	ReadFixed(n)          copy n bytes into the current record slot
//	ReadString            uint32 length + bytes -> string table slot
//	ReadDynamicData(size) uint32 length + length*size bytes -> array slot
//	ConstantArray(n, sub) allocate n elements, run sub over them
//	DynamicArray(sub)     uint32 length, allocate, run sub per element
//
// Records whose fields are all fixed-size primitives have identical bytes
// in both formats, so whole runs of them collapse into one ReadFixed.
// Adjacent fixed reads are merged.
//
// Usage:
//
//	def, err := rosmsg.Compile(m, "sensor_msgs/Imu")
//	rw := rosmsg.NewRewriter()
//	defer rw.Release()
//	for _, raw := range messages {
//		if _, err := rw.Write(def, raw); err != nil {
//			return err
//		}
//	}
//	block := rw.Finish()
//
// The resulting block decodes with codec.DecodeBlock against the same
// schema and reads exactly like one produced by codec.Encode.
//
// json fields have no ROS1 encoding and are rejected at compile time.
package rosmsg
