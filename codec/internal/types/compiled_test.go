package types

import "testing"

func TestRecordLookup(t *testing.T) {
	r := &Record{
		Fields: []Field{{Name: "a", Kind: KindU32}, {Name: "b", Kind: KindString, Offset: 4}},
		Index:  map[string]int{"a": 0, "b": 1},
	}
	f, ok := r.Lookup("b")
	if !ok || f.Offset != 4 {
		t.Errorf("Lookup(b) = %+v, %v", f, ok)
	}
	if _, ok := r.Lookup("c"); ok {
		t.Error("Lookup(c) should fail")
	}
}

func TestRecordIsFlat(t *testing.T) {
	point := &Record{Fields: []Field{{Kind: KindF64}, {Kind: KindF64}}, Size: 16}

	t.Run("primitives", func(t *testing.T) {
		if !point.IsFlat() {
			t.Error("record of primitives should be flat")
		}
	})

	t.Run("nested_flat", func(t *testing.T) {
		r := &Record{Fields: []Field{{Kind: KindRecord, Elem: point}, {IsConst: true, Kind: KindString}}}
		if !r.IsFlat() {
			t.Error("record of flat records and constants should be flat")
		}
	})

	t.Run("string", func(t *testing.T) {
		r := &Record{Fields: []Field{{Kind: KindString}}}
		if r.IsFlat() {
			t.Error("string field is not flat")
		}
	})

	t.Run("array", func(t *testing.T) {
		r := &Record{Fields: []Field{{Kind: KindU8, IsArray: true}}}
		if r.IsFlat() {
			t.Error("array field is not flat")
		}
	})

	t.Run("empty", func(t *testing.T) {
		r := &Record{Fields: []Field{{IsConst: true, Kind: KindU8}}}
		if !r.IsEmpty() {
			t.Error("record of constants should be empty")
		}
	})
}
