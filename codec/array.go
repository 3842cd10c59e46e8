package codec

import (
	"iter"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/errors"
)

// binaryArray is a lazy view over array elements laid out contiguously in
// a buffer. Elements are read on every access; nothing is cached.
type binaryArray struct {
	src      *source
	read     readFunc
	elemType string
	off      int
	n        int
	size     int
}

func (v *binaryArray) ElemType() string {
	return v.elemType
}

func (v *binaryArray) Len() int {
	return v.n
}

func (v *binaryArray) At(i int) (any, error) {
	return v.at(i, false)
}

func (v *binaryArray) AtWide(i int) (any, error) {
	return v.at(i, true)
}

func (v *binaryArray) at(i int, wide bool) (any, error) {
	if i < 0 || i >= v.n {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, i, v.n)
	}
	return v.read(v.src, v.off+i*v.size, wide)
}

func (v *binaryArray) All() iter.Seq2[any, error] {
	return all(v)
}

// wrappedArray presents a plain slice through the ArrayView contract,
// coercing each element on access.
type wrappedArray struct {
	item     func(i int) (any, error)
	conv     func(v any, wide bool) (any, error)
	elemType string
	n        int
}

func (v *wrappedArray) ElemType() string {
	return v.elemType
}

func (v *wrappedArray) Len() int {
	return v.n
}

func (v *wrappedArray) At(i int) (any, error) {
	return v.at(i, false)
}

func (v *wrappedArray) AtWide(i int) (any, error) {
	return v.at(i, true)
}

func (v *wrappedArray) at(i int, wide bool) (any, error) {
	if i < 0 || i >= v.n {
		return nil, errors.OutOfBounds(errors.PhaseWrap, nil, i, v.n)
	}
	raw, err := v.item(i)
	if err != nil {
		return nil, err
	}
	return v.conv(raw, wide)
}

func (v *wrappedArray) All() iter.Seq2[any, error] {
	return all(v)
}

func all(v bobject.ArrayView) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for i := 0; i < v.Len(); i++ {
			x, err := v.At(i)
			if !yield(x, err) || err != nil {
				return
			}
		}
	}
}
