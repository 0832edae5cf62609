package binstream

import (
	"fmt"
	"iter"

	"github.com/wavesplatform/binstream/pkg/errs"
)

// Extractor decodes the record at the start of ref and reports how many bytes it occupies.
type Extractor[T any] func(ref StreamRef) (uint32, T, error)

// VarArray is a lazy forward-only sequence of variable-length records bound to a StreamRef.
type VarArray[T any] struct {
	ref     StreamRef
	extract Extractor[T]
}

func NewVarArray[T any](ref StreamRef, extract Extractor[T]) VarArray[T] {
	return VarArray[T]{ref: ref, extract: extract}
}

func (a VarArray[T]) StreamRef() StreamRef {
	return a.ref
}

func (a VarArray[T]) Length() uint32 {
	return a.ref.Length()
}

func (a VarArray[T]) Empty() bool {
	return a.ref.Empty()
}

// Begin returns an iterator positioned at the first record.
func (a VarArray[T]) Begin() *VarArrayIterator[T] {
	return a.At(0)
}

// End returns the end sentinel.
func (a VarArray[T]) End() *VarArrayIterator[T] {
	return &VarArrayIterator[T]{array: a, offset: a.ref.Length(), atEnd: true}
}

// At returns an iterator at offset. The caller asserts that a record starts there; it is not
// verified beyond decoding whatever is found.
func (a VarArray[T]) At(offset uint32) *VarArrayIterator[T] {
	it := &VarArrayIterator[T]{array: a, remaining: a.ref.DropFront(offset), offset: offset}
	it.extract()
	return it
}

// Substream returns the bytes between two iterators of this array.
func (a VarArray[T]) Substream(begin, end *VarArrayIterator[T]) StreamRef {
	return a.ref.Slice(begin.Offset(), end.Offset()-begin.Offset())
}

// All yields every record with a nil error. If a record fails to decode, it yields the zero value
// with the error and stops.
func (a VarArray[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := a.Begin()
		for ; !it.AtEnd(); it.Next() {
			if !yield(it.Value(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// VarArrayIterator walks a VarArray. It is not restartable: every step re-runs the extractor on
// what remains after the previous record.
type VarArrayIterator[T any] struct {
	array     VarArray[T]
	remaining StreamRef
	offset    uint32
	thisLen   uint32
	value     T
	atEnd     bool
	err       error
}

func (it *VarArrayIterator[T]) extract() {
	if it.remaining.Empty() {
		it.moveToEnd()
		return
	}
	n, v, err := it.array.extract(it.remaining)
	switch {
	case err != nil:
	case n == 0:
		err = errs.NewUnspecified(fmt.Sprintf("record at offset %d has zero length", it.offset))
	case n > it.remaining.Length():
		err = errs.NewStreamTooShort(
			fmt.Sprintf("record at offset %d claims %d bytes, %d remaining", it.offset, n, it.remaining.Length()),
		)
	}
	if err != nil {
		it.err = err
		it.moveToEnd()
		return
	}
	it.thisLen = n
	it.value = v
}

func (it *VarArrayIterator[T]) moveToEnd() {
	var zero T
	it.remaining = StreamRef{}
	it.thisLen = 0
	it.value = zero
	it.atEnd = true
}

// Next advances to the following record. At the end it does nothing.
func (it *VarArrayIterator[T]) Next() {
	if it.atEnd {
		return
	}
	it.remaining = it.remaining.DropFront(it.thisLen)
	it.offset += it.thisLen
	it.extract()
}

// Advance performs k single steps.
func (it *VarArrayIterator[T]) Advance(k int) {
	for i := 0; i < k && !it.atEnd; i++ {
		it.Next()
	}
}

func (it *VarArrayIterator[T]) Value() T {
	return it.value
}

// RecordLength returns the size of the current record.
func (it *VarArrayIterator[T]) RecordLength() uint32 {
	return it.thisLen
}

func (it *VarArrayIterator[T]) AtEnd() bool {
	return it.atEnd
}

// Err returns the extraction error that ended the iteration, if any.
func (it *VarArrayIterator[T]) Err() error {
	return it.err
}

// Offset returns the position of the current record relative to the start of the array.
func (it *VarArrayIterator[T]) Offset() uint32 {
	return it.offset
}

// Equal reports whether both iterators are at the end, or both point at the same remaining view.
func (it *VarArrayIterator[T]) Equal(o *VarArrayIterator[T]) bool {
	if it.atEnd || o.atEnd {
		return it.atEnd == o.atEnd
	}
	return it.remaining.Equal(o.remaining)
}
