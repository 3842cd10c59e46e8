package codec

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxBuffer = 16 << 20
	poolInitCap   = 4096
)

var writerPool = sync.Pool{
	New: func() any {
		return NewWriter(poolInitCap)
	},
}

// AcquireWriter returns a reset writer from the pool.
func AcquireWriter() *Writer {
	return writerPool.Get().(*Writer)
}

// Release returns w to the pool. w must not be used afterwards.
func Release(w *Writer) {
	if w == nil || cap(w.buf) > poolMaxBuffer {
		return // reject oversized
	}
	w.Reset()
	writerPool.Put(w)
}
