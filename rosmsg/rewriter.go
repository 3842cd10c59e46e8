package rosmsg

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/codec"
	"github.com/wippyai/bobject/errors"
)

// reader walks one ROS1 serialized message.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) read(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, errors.OutOfBounds(errors.PhaseRewrite, nil, r.pos+n, len(r.data))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) length() (int, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint32(b)), nil
}

// Rewriter appends ROS1 messages to one Bob block. It owns a pooled
// codec.Writer; call Release when done. Not safe for concurrent use.
type Rewriter struct {
	w        *codec.Writer
	offsets  []int
	typeName string
}

func NewRewriter() *Rewriter {
	return &Rewriter{w: codec.AcquireWriter()}
}

// Reserve grows the buffer for count messages of def whose serialized
// sizes add up to totalBytes.
func (rw *Rewriter) Reserve(def *Definition, count, totalBytes int) {
	rw.w.Grow(count*int(def.Size) + 4*totalBytes)
}

// Write rewrites one serialized message and returns its offset in the
// block. On error nothing from this call remains in the block.
func (rw *Rewriter) Write(def *Definition, data []byte) (int, error) {
	m := rw.w.Mark()
	pos := rw.w.Alloc(int(def.Size))
	src := &reader{data: data}
	if err := rw.dispatch(def, def.Commands, src, pos); err != nil {
		rw.w.Rollback(m)
		Logger().Debug("rewrite failed",
			zap.String("type", def.TypeName),
			zap.Int("input_bytes", len(data)),
			zap.Int("input_pos", src.pos),
			zap.Error(err))
		if be, ok := err.(*errors.Error); ok && be.TypeName == "" {
			cp := *be
			cp.TypeName = def.TypeName
			return 0, &cp
		}
		return 0, err
	}

	if len(rw.offsets) == 0 {
		rw.typeName = def.TypeName
	} else if rw.typeName != def.TypeName {
		rw.typeName = ""
	}
	rw.offsets = append(rw.offsets, pos)
	return pos, nil
}

// dispatch runs cmds, writing consecutive slots starting at dst.
func (rw *Rewriter) dispatch(def *Definition, cmds []Command, src *reader, dst int) error {
	for i := range cmds {
		c := &cmds[i]
		next, err := rw.exec(def, c, src, dst)
		if err != nil {
			if be, ok := err.(*errors.Error); ok && len(be.Path) == 0 && c.Label != "" {
				return be.WithPath(c.Label)
			}
			return err
		}
		dst = next
	}
	return nil
}

func (rw *Rewriter) exec(def *Definition, c *Command, src *reader, dst int) (int, error) {
	switch c.Op {
	case OpReadFixed:
		b, err := src.read(int(c.Size))
		if err != nil {
			return 0, err
		}
		rw.w.PutBytes(dst, b)
		return dst + int(c.Size), nil

	case OpReadString:
		n, err := src.length()
		if err != nil {
			return 0, err
		}
		b, err := src.read(n)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			rw.w.PutPointer(dst, n, rw.w.InternString(string(b)))
		}
		return dst + 8, nil

	case OpReadDynamicData:
		n, err := rw.arrayLength(def, src)
		if err != nil {
			return 0, err
		}
		b, err := src.read(n * int(c.Size))
		if err != nil {
			return 0, err
		}
		off := rw.w.Alloc(len(b))
		rw.w.PutBytes(off, b)
		rw.w.PutPointer(dst, n, off)
		return dst + 8, nil

	case OpConstantArray:
		n := int(c.Length)
		off := rw.w.Alloc(n * int(c.Size))
		rw.w.PutPointer(dst, n, off)
		if err := rw.dispatch(def, c.Sub, src, off); err != nil {
			return 0, err
		}
		return dst + 8, nil

	case OpDynamicArray:
		n, err := rw.arrayLength(def, src)
		if err != nil {
			return 0, err
		}
		size := int(c.Size)
		off := rw.w.Alloc(n * size)
		rw.w.PutPointer(dst, n, off)
		for i := 0; i < n; i++ {
			if err := rw.dispatch(def, c.Sub, src, off+i*size); err != nil {
				return 0, err
			}
		}
		return dst + 8, nil
	}
	return 0, errors.Unsupported(errors.PhaseRewrite, "command "+c.Op.String())
}

func (rw *Rewriter) arrayLength(def *Definition, src *reader) (int, error) {
	n, err := src.length()
	if err != nil {
		return 0, err
	}
	limit := def.maxArray
	if limit <= 0 {
		limit = codec.DefaultOptions().MaxArrayLength
	}
	if n > limit {
		return 0, errors.New(errors.PhaseRewrite, errors.KindInvalidData).
			Detail("array of %d elements exceeds limit %d", n, limit).
			Build()
	}
	return n, nil
}

// Len returns the number of messages written since the last Finish.
func (rw *Rewriter) Len() int {
	return len(rw.offsets)
}

// Finish returns the block and starts a new one.
func (rw *Rewriter) Finish() bobject.Block {
	buf, table := rw.w.Finish()
	b := bobject.Block{
		TypeName: rw.typeName,
		Buffer:   buf,
		Table:    table,
		Offsets:  rw.offsets,
	}
	rw.offsets = nil
	rw.typeName = ""
	return b
}

// Release returns the writer to the pool. The rewriter must not be used
// afterwards.
func (rw *Rewriter) Release() {
	codec.Release(rw.w)
	rw.w = nil
}
