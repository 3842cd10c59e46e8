package codec

import (
	"encoding/binary"
	"math"
	"strings"
)

// Writer accumulates one buffer and its deduplicated string table.
// Regions are zero-filled on allocation and written in place through the
// Put methods at absolute offsets. Not safe for concurrent use.
type Writer struct {
	buf      []byte
	table    strings.Builder
	interned map[string]int
	order    []string
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf:      make([]byte, 0, capacity),
		interned: make(map[string]int),
	}
}

// Alloc reserves n zeroed bytes and returns their offset. Capacity doubles
// when exhausted.
func (w *Writer) Alloc(n int) int {
	off := len(w.buf)
	end := off + n
	if end > cap(w.buf) {
		newCap := 2 * cap(w.buf)
		if newCap < end {
			newCap = end
		}
		grown := make([]byte, off, newCap)
		copy(grown, w.buf)
		w.buf = grown
	}
	w.buf = w.buf[:end]
	clear(w.buf[off:end])
	return off
}

// Grow ensures room for n more bytes without another allocation.
func (w *Writer) Grow(n int) {
	if len(w.buf)+n <= cap(w.buf) {
		return
	}
	grown := make([]byte, len(w.buf), len(w.buf)+n)
	copy(grown, w.buf)
	w.buf = grown
}

func (w *Writer) PutUint8(off int, v uint8) {
	w.buf[off] = v
}

func (w *Writer) PutUint16(off int, v uint16) {
	binary.LittleEndian.PutUint16(w.buf[off:], v)
}

func (w *Writer) PutUint32(off int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[off:], v)
}

func (w *Writer) PutUint64(off int, v uint64) {
	binary.LittleEndian.PutUint64(w.buf[off:], v)
}

func (w *Writer) PutFloat32(off int, v float32) {
	w.PutUint32(off, math.Float32bits(v))
}

func (w *Writer) PutFloat64(off int, v float64) {
	w.PutUint64(off, math.Float64bits(v))
}

func (w *Writer) PutBytes(off int, data []byte) {
	copy(w.buf[off:], data)
}

// PutPointer writes a (length, offset) slot.
func (w *Writer) PutPointer(off, length, target int) {
	w.PutUint32(off, uint32(length))
	w.PutUint32(off+4, uint32(target))
}

// InternString returns the table offset of s, appending it only the first
// time it is seen in this generation. Offsets count bytes of the table.
func (w *Writer) InternString(s string) int {
	if off, ok := w.interned[s]; ok {
		return off
	}
	off := w.table.Len()
	w.table.WriteString(s)
	w.interned[s] = off
	w.order = append(w.order, s)
	return off
}

// Len returns the number of buffer bytes in use.
func (w *Writer) Len() int {
	return len(w.buf)
}

// TableLen returns the string table length in bytes.
func (w *Writer) TableLen() int {
	return w.table.Len()
}

// Finish returns a trimmed copy of the buffer and the string table, then
// resets the writer for the next generation.
func (w *Writer) Finish() ([]byte, string) {
	buf := make([]byte, len(w.buf))
	copy(buf, w.buf)
	table := w.table.String()
	w.Reset()
	return buf, table
}

// Reset discards all state while keeping the buffer capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.table = strings.Builder{}
	clear(w.interned)
	w.order = w.order[:0]
}

// Mark is a position in a writer's buffer and string table.
type Mark struct {
	bufLen   int
	tableLen int
	strings  int
}

// Mark records the current position for a later Rollback.
func (w *Writer) Mark() Mark {
	return Mark{bufLen: len(w.buf), tableLen: w.table.Len(), strings: len(w.order)}
}

// Rollback drops everything allocated or interned after m. Marks taken
// before the last Finish or Reset are invalid.
func (w *Writer) Rollback(m Mark) {
	w.buf = w.buf[:m.bufLen]
	if len(w.order) == m.strings {
		return
	}
	for _, s := range w.order[m.strings:] {
		delete(w.interned, s)
	}
	w.order = w.order[:m.strings]
	kept := w.table.String()[:m.tableLen]
	w.table = strings.Builder{}
	w.table.WriteString(kept)
}
