package binstream

import (
	"fmt"
	"math"

	"github.com/wavesplatform/binstream/pkg/errs"
)

// view is the window shared by StreamRef and WritableStreamRef. A view without a fixed length
// tracks the stream: its length is whatever the stream holds past the view offset.
type view[S Stream] struct {
	stream S
	offset uint32
	length uint32
	fixed  bool
}

// fixedView limits length so that every byte of the view stays addressable by a uint32 offset.
func fixedView[S Stream](s S, offset, length uint32) view[S] {
	return view[S]{stream: s, offset: offset, length: min(length, math.MaxUint32-offset), fixed: true}
}

func (v view[S]) valid() bool {
	return any(v.stream) != nil
}

func (v view[S]) len() uint32 {
	if v.fixed {
		return v.length
	}
	if !v.valid() {
		return 0
	}
	l := v.stream.Length()
	if l < v.offset {
		return 0
	}
	return l - v.offset
}

func (v view[S]) dropFront(n uint32) view[S] {
	if !v.valid() {
		return v
	}
	n = min(n, v.len())
	v.offset += n
	if v.fixed {
		v.length -= n
	}
	return v
}

func (v view[S]) dropBack(n uint32) view[S] {
	if !v.valid() || n == 0 {
		return v
	}
	l := v.len()
	n = min(n, l)
	v.length = l - n
	v.fixed = true
	return v
}

func (v view[S]) freeze() view[S] {
	if !v.valid() {
		return v
	}
	v.length = v.len()
	v.fixed = true
	return v
}

func (v view[S]) keepFront(n uint32) view[S] {
	l := v.len()
	if n >= l {
		return v
	}
	return v.dropBack(l - n)
}

func (v view[S]) keepBack(n uint32) view[S] {
	l := v.len()
	if n >= l {
		return v
	}
	return v.dropFront(l - n)
}

func (v view[S]) equal(o view[S]) bool {
	return any(v.stream) == any(o.stream) && v.offset == o.offset && v.len() == o.len()
}

func (v view[S]) endianness() Endianness {
	if !v.valid() {
		return LittleEndian
	}
	return v.stream.Endianness()
}

func (v view[S]) readBytes(offset, size uint32) ([]byte, error) {
	if !v.valid() {
		return nil, errs.NewUnspecified("read from an invalid stream view")
	}
	if err := checkOffsetForRead(v.len(), offset, size); err != nil {
		return nil, err
	}
	return v.stream.ReadBytes(v.offset+offset, size)
}

// readLongestContiguousChunk requires at least one byte at offset and trims the chunk to the view.
func (v view[S]) readLongestContiguousChunk(offset uint32) ([]byte, error) {
	if !v.valid() {
		return nil, errs.NewUnspecified("read from an invalid stream view")
	}
	l := v.len()
	if err := checkOffsetForRead(l, offset, 1); err != nil {
		return nil, err
	}
	chunk, err := v.stream.ReadLongestContiguousChunk(v.offset + offset)
	if err != nil {
		return nil, err
	}
	if rest := l - offset; uint64(len(chunk)) > uint64(rest) {
		chunk = chunk[:rest:rest]
	}
	return chunk, nil
}

func (v view[S]) String() string {
	if !v.valid() {
		return "{invalid}"
	}
	mode := "tracking"
	if v.fixed {
		mode = "fixed"
	}
	return fmt.Sprintf("{offset: %d, length: %d, %s}", v.offset, v.len(), mode)
}

// StreamRef is a read-only window over a Stream. The zero value is an invalid, empty view.
// Two refs are equal when they share the stream, the offset and the length; streams are compared
// by identity, so every Stream implementation used with refs must be comparable (a pointer type).
type StreamRef struct {
	v view[Stream]
}

// NewStreamRef returns a view of the whole stream that grows together with it.
func NewStreamRef(s Stream) StreamRef {
	return StreamRef{v: view[Stream]{stream: s}}
}

// NewStreamRefRange returns a view of length bytes at offset. Its length does not follow the stream.
// A range reaching past the 4GiB address space is cut at its end.
func NewStreamRefRange(s Stream, offset, length uint32) StreamRef {
	return StreamRef{v: fixedView(s, offset, length)}
}

// NewStreamRefFromBytes wraps data into a ByteStream and returns a view over it.
func NewStreamRefFromBytes(data []byte, e Endianness) StreamRef {
	return NewStreamRef(NewByteStream(data, WithEndianness(e)))
}

func (r StreamRef) Valid() bool {
	return r.v.valid()
}

func (r StreamRef) Length() uint32 {
	return r.v.len()
}

func (r StreamRef) Empty() bool {
	return r.v.len() == 0
}

func (r StreamRef) Endianness() Endianness {
	return r.v.endianness()
}

// Tracking reports whether the length follows the underlying stream.
func (r StreamRef) Tracking() bool {
	return r.v.valid() && !r.v.fixed
}

func (r StreamRef) Equal(o StreamRef) bool {
	return r.v.equal(o.v)
}

// DropFront removes n bytes from the start. A tracking view keeps tracking.
func (r StreamRef) DropFront(n uint32) StreamRef {
	return StreamRef{v: r.v.dropFront(n)}
}

// DropBack removes n bytes from the end. Dropping a non-zero amount fixes the length.
func (r StreamRef) DropBack(n uint32) StreamRef {
	return StreamRef{v: r.v.dropBack(n)}
}

// Freeze fixes the length at its current value, so the view stops following the stream.
func (r StreamRef) Freeze() StreamRef {
	return StreamRef{v: r.v.freeze()}
}

func (r StreamRef) KeepFront(n uint32) StreamRef {
	return StreamRef{v: r.v.keepFront(n)}
}

func (r StreamRef) KeepBack(n uint32) StreamRef {
	return StreamRef{v: r.v.keepBack(n)}
}

func (r StreamRef) DropSymmetric(n uint32) StreamRef {
	return r.DropFront(n).DropBack(n)
}

func (r StreamRef) Slice(offset, length uint32) StreamRef {
	return r.DropFront(offset).KeepFront(length)
}

func (r StreamRef) ReadBytes(offset, size uint32) ([]byte, error) {
	return r.v.readBytes(offset, size)
}

func (r StreamRef) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	return r.v.readLongestContiguousChunk(offset)
}

func (r StreamRef) String() string {
	return r.v.String()
}

// WritableStreamRef is a window over a WritableStream.
type WritableStreamRef struct {
	v view[WritableStream]
}

func NewWritableStreamRef(s WritableStream) WritableStreamRef {
	return WritableStreamRef{v: view[WritableStream]{stream: s}}
}

func NewWritableStreamRefRange(s WritableStream, offset, length uint32) WritableStreamRef {
	return WritableStreamRef{v: fixedView(s, offset, length)}
}

// NewWritableStreamRefFromBytes wraps data into a MutableByteStream and returns a view over it.
func NewWritableStreamRefFromBytes(data []byte, e Endianness) WritableStreamRef {
	return NewWritableStreamRef(NewMutableByteStream(data, WithEndianness(e)))
}

// StreamRef widens the view to a read-only one over the same window.
func (r WritableStreamRef) StreamRef() StreamRef {
	var s Stream
	if r.v.valid() {
		s = r.v.stream
	}
	return StreamRef{v: view[Stream]{stream: s, offset: r.v.offset, length: r.v.length, fixed: r.v.fixed}}
}

func (r WritableStreamRef) Valid() bool {
	return r.v.valid()
}

func (r WritableStreamRef) Length() uint32 {
	return r.v.len()
}

func (r WritableStreamRef) Empty() bool {
	return r.v.len() == 0
}

func (r WritableStreamRef) Endianness() Endianness {
	return r.v.endianness()
}

func (r WritableStreamRef) Tracking() bool {
	return r.v.valid() && !r.v.fixed
}

func (r WritableStreamRef) Equal(o WritableStreamRef) bool {
	return r.v.equal(o.v)
}

func (r WritableStreamRef) DropFront(n uint32) WritableStreamRef {
	return WritableStreamRef{v: r.v.dropFront(n)}
}

func (r WritableStreamRef) DropBack(n uint32) WritableStreamRef {
	return WritableStreamRef{v: r.v.dropBack(n)}
}

func (r WritableStreamRef) Freeze() WritableStreamRef {
	return WritableStreamRef{v: r.v.freeze()}
}

func (r WritableStreamRef) KeepFront(n uint32) WritableStreamRef {
	return WritableStreamRef{v: r.v.keepFront(n)}
}

func (r WritableStreamRef) KeepBack(n uint32) WritableStreamRef {
	return WritableStreamRef{v: r.v.keepBack(n)}
}

func (r WritableStreamRef) DropSymmetric(n uint32) WritableStreamRef {
	return r.DropFront(n).DropBack(n)
}

func (r WritableStreamRef) Slice(offset, length uint32) WritableStreamRef {
	return r.DropFront(offset).KeepFront(length)
}

func (r WritableStreamRef) ReadBytes(offset, size uint32) ([]byte, error) {
	return r.v.readBytes(offset, size)
}

func (r WritableStreamRef) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	return r.v.readLongestContiguousChunk(offset)
}

// WriteBytes writes data at offset relative to the view. Over an append-capable stream the write
// may extend past the view as long as it starts within it.
func (r WritableStreamRef) WriteBytes(offset uint32, data []byte) error {
	if !r.v.valid() {
		return errs.NewUnspecified("write to an invalid stream view")
	}
	size, err := sizeOf(data)
	if err != nil {
		return err
	}
	if err := checkOffsetForWrite(r.v.stream.Flags(), r.v.len(), offset, size); err != nil {
		return err
	}
	return r.v.stream.WriteBytes(r.v.offset+offset, data)
}

func (r WritableStreamRef) Commit() error {
	if !r.v.valid() {
		return errs.NewUnspecified("commit of an invalid stream view")
	}
	return r.v.stream.Commit()
}

func (r WritableStreamRef) String() string {
	return r.v.String()
}
