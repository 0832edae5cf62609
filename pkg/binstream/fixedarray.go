package binstream

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/wavesplatform/binstream/pkg/errs"
)

// FixedArray is a lazy random-access array of fixed-size elements bound to a StreamRef.
// Elements are decoded on every access; nothing is cached.
type FixedArray[T any] struct {
	ref    StreamRef
	stride uint32
}

// NewFixedArray binds an array to ref. T must have a fixed binary size.
func NewFixedArray[T any](ref StreamRef) FixedArray[T] {
	stride, err := elementSize[T]()
	if err != nil {
		panic(err.Error())
	}
	return FixedArray[T]{ref: ref, stride: stride}
}

func (a FixedArray[T]) StreamRef() StreamRef {
	return a.ref
}

// Len returns the number of whole elements in the view.
func (a FixedArray[T]) Len() uint32 {
	if a.stride == 0 {
		return 0
	}
	return a.ref.Length() / a.stride
}

func (a FixedArray[T]) Empty() bool {
	return a.Len() == 0
}

// At decodes the element at index i.
func (a FixedArray[T]) At(i uint32) (T, error) {
	var v T
	if i >= a.Len() {
		return v, errs.NewInvalidOffset(fmt.Sprintf("index %d is out of range of %d elements", i, a.Len()))
	}
	b, err := a.ref.ReadBytes(i*a.stride, a.stride)
	if err != nil {
		return v, err
	}
	if _, err := binary.Decode(b, a.ref.Endianness().ByteOrder(), &v); err != nil {
		return v, errs.NewUnspecified(fmt.Sprintf("failed to decode element %d: %v", i, err))
	}
	return v, nil
}

func (a FixedArray[T]) Equal(o FixedArray[T]) bool {
	return a.ref.Equal(o.ref)
}

func (a FixedArray[T]) Begin() FixedArrayIterator[T] {
	return FixedArrayIterator[T]{array: a}
}

func (a FixedArray[T]) End() FixedArrayIterator[T] {
	return FixedArrayIterator[T]{array: a, index: a.Len()}
}

// All yields index and element pairs, stopping at the first element that fails to decode.
func (a FixedArray[T]) All() iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		n := a.Len()
		for i := uint32(0); i < n; i++ {
			v, err := a.At(i)
			if err != nil || !yield(i, v) {
				return
			}
		}
	}
}

// FixedArrayIterator is a random-access position in a FixedArray. Moving it is index arithmetic
// only; the element is decoded by Value.
type FixedArrayIterator[T any] struct {
	array FixedArray[T]
	index uint32
}

func (it FixedArrayIterator[T]) Index() uint32 {
	return it.index
}

func (it FixedArrayIterator[T]) Value() (T, error) {
	return it.array.At(it.index)
}

// Add moves the iterator by n elements, which may be negative. The index saturates at the
// array bounds.
func (it FixedArrayIterator[T]) Add(n int) FixedArrayIterator[T] {
	idx, l := int64(it.index), int64(it.array.Len())
	switch {
	case int64(n) >= l-idx:
		idx = l
	case int64(n) <= -idx:
		idx = 0
	default:
		idx += int64(n)
	}
	it.index = uint32(idx)
	return it
}

// Distance returns the number of elements from o to it.
func (it FixedArrayIterator[T]) Distance(o FixedArrayIterator[T]) int {
	return int(int64(it.index) - int64(o.index))
}

func (it FixedArrayIterator[T]) Less(o FixedArrayIterator[T]) bool {
	return it.index < o.index
}

func (it FixedArrayIterator[T]) Equal(o FixedArrayIterator[T]) bool {
	return it.array.Equal(o.array) && it.index == o.index
}
