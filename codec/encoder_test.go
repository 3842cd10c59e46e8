package codec

import (
	"testing"

	"github.com/wippyai/bobject/schema"
)

func TestEncoder_RollbackOnError(t *testing.T) {
	m := schema.Map{"test/Pair": {Fields: []schema.Field{
		{Name: "name", Type: schema.String},
		{Name: "values", Type: schema.Uint16, IsArray: true},
	}}}
	p, err := NewCompiler(DefaultOptions()).Compile(m)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	enc := p.Encoder()
	defer enc.Release()

	if _, err := enc.Encode("test/Pair", map[string]any{"name": "ok", "values": []any{1, 2}}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	bufLen, tableLen := enc.w.Len(), enc.w.TableLen()

	// The string and the first array element are written before the
	// bad element is reached.
	_, err = enc.Encode("test/Pair", map[string]any{"name": "partial", "values": []any{1, 70000}})
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if enc.w.Len() != bufLen || enc.w.TableLen() != tableLen {
		t.Errorf("writer not rolled back: Len %d->%d, TableLen %d->%d",
			bufLen, enc.w.Len(), tableLen, enc.w.TableLen())
	}
	if enc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", enc.Len())
	}

	off, err := enc.Encode("test/Pair", map[string]any{"name": "partial"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if off != bufLen {
		t.Errorf("offset = %d, want %d", off, bufLen)
	}
	block := enc.Finish()
	if block.Table != "okpartial" {
		t.Errorf("table = %q, want %q", block.Table, "okpartial")
	}
}

func TestEncoder_Limits(t *testing.T) {
	m := schema.Map{"test/Pair": {Fields: []schema.Field{
		{Name: "name", Type: schema.String},
		{Name: "values", Type: schema.Uint16, IsArray: true},
	}}}
	p, err := NewCompiler(Options{MaxStringSize: 4, MaxArrayLength: 2}).Compile(m)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		name  string
		value map[string]any
	}{
		{"long string", map[string]any{"name": "too long"}},
		{"long array", map[string]any{"values": []any{1, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Encode("test/Pair", tt.value); err == nil {
				t.Error("expected limit error")
			}
		})
	}

	if _, err := p.Encode("test/Pair", map[string]any{"name": "ok", "values": []any{1, 2}}); err != nil {
		t.Errorf("within limits: %v", err)
	}
}
