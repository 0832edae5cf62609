package binstream

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/ccoveille/go-safecast"
	"golang.org/x/exp/constraints"

	"github.com/wavesplatform/binstream/pkg/errs"
	"github.com/wavesplatform/binstream/pkg/leb128"
)

// Writer encodes values sequentially into a WritableStreamRef. It grows the destination only when
// the underlying stream is append-capable. A failed write leaves the offset unchanged.
type Writer struct {
	ref    WritableStreamRef
	offset uint32
}

func NewWriter(ref WritableStreamRef) *Writer {
	return &Writer{ref: ref}
}

// NewWriterToStream writes to the whole stream, following its growth.
func NewWriterToStream(s WritableStream) *Writer {
	return NewWriter(NewWritableStreamRef(s))
}

func NewWriterToBytes(data []byte, e Endianness) *Writer {
	return NewWriter(NewWritableStreamRefFromBytes(data, e))
}

func (w *Writer) StreamRef() WritableStreamRef {
	return w.ref
}

func (w *Writer) Endianness() Endianness {
	return w.ref.Endianness()
}

func (w *Writer) Offset() uint32 {
	return w.offset
}

func (w *Writer) SetOffset(offset uint32) {
	w.offset = offset
}

func (w *Writer) Length() uint32 {
	return w.ref.Length()
}

func (w *Writer) BytesRemaining() uint32 {
	l := w.ref.Length()
	if w.offset > l {
		return 0
	}
	return l - w.offset
}

func (w *Writer) WriteBytes(data []byte) error {
	if err := w.ref.WriteBytes(w.offset, data); err != nil {
		return err
	}
	w.offset += uint32(len(data))
	return nil
}

// fits checks that size bytes at the cursor fit a destination that cannot grow, so that a
// write made of several parts fails before touching it.
func (w *Writer) fits(size uint64) error {
	if !w.ref.Valid() || w.ref.v.stream.Flags().Appendable() {
		return nil
	}
	l := w.ref.Length()
	if w.offset > l {
		return errs.NewInvalidOffset(fmt.Sprintf("offset %d is beyond stream length %d", w.offset, l))
	}
	if uint64(w.offset)+size > uint64(l) {
		return errs.NewStreamTooShort(
			fmt.Sprintf("not enough bytes, expected %d at offset %d, found %d", size, w.offset, l-w.offset),
		)
	}
	return nil
}

// WriteInteger encodes a fixed-width integer in the stream's byte order.
func WriteInteger[T constraints.Integer](w *Writer, v T) error {
	var buf [8]byte
	size := unsafe.Sizeof(v)
	order := w.Endianness().ByteOrder()
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		order.PutUint16(buf[:], uint16(v))
	case 4:
		order.PutUint32(buf[:], uint32(v))
	default:
		order.PutUint64(buf[:], uint64(v))
	}
	if err := w.WriteBytes(buf[:size]); err != nil {
		return errs.Extend(err, fmt.Sprintf("failed to write %T", v))
	}
	return nil
}

// WriteEnum encodes an enumeration as its underlying integer type.
func WriteEnum[T constraints.Integer](w *Writer, v T) error {
	return WriteInteger(w, v)
}

func (w *Writer) WriteUint8(v uint8) error   { return WriteInteger(w, v) }
func (w *Writer) WriteUint16(v uint16) error { return WriteInteger(w, v) }
func (w *Writer) WriteUint32(v uint32) error { return WriteInteger(w, v) }
func (w *Writer) WriteUint64(v uint64) error { return WriteInteger(w, v) }
func (w *Writer) WriteInt8(v int8) error     { return WriteInteger(w, v) }
func (w *Writer) WriteInt16(v int16) error   { return WriteInteger(w, v) }
func (w *Writer) WriteInt32(v int32) error   { return WriteInteger(w, v) }
func (w *Writer) WriteInt64(v int64) error   { return WriteInteger(w, v) }

func (w *Writer) WriteULEB128(v uint64) error {
	return w.WriteULEB128Padded(v, 0)
}

// WriteULEB128Padded writes v padded to at least padTo bytes.
func (w *Writer) WriteULEB128Padded(v uint64, padTo int) error {
	var buf [leb128.MaxLen]byte
	return w.WriteBytes(leb128.AppendULEB128(buf[:0], v, padTo))
}

func (w *Writer) WriteSLEB128(v int64) error {
	return w.WriteSLEB128Padded(v, 0)
}

func (w *Writer) WriteSLEB128Padded(v int64, padTo int) error {
	var buf [leb128.MaxLen]byte
	return w.WriteBytes(leb128.AppendSLEB128(buf[:0], v, padTo))
}

// WriteCString writes s followed by a NUL terminator.
func (w *Writer) WriteCString(s string) error {
	if err := w.fits(uint64(len(s)) + 1); err != nil {
		return err
	}
	start := w.offset
	if err := w.WriteFixedString(s); err != nil {
		return err
	}
	if err := w.WriteUint8(0); err != nil {
		w.offset = start
		return err
	}
	return nil
}

// WriteFixedString writes the bytes of s without a terminator.
func (w *Writer) WriteFixedString(s string) error {
	return w.WriteBytes([]byte(s))
}

// WriteStreamRef copies the whole content of ref.
func (w *Writer) WriteStreamRef(ref StreamRef) error {
	return w.WriteStreamRefN(ref, ref.Length())
}

// WriteStreamRefN copies the first n bytes of ref one contiguous chunk at a time, since the
// source may be discontiguous.
func (w *Writer) WriteStreamRefN(ref StreamRef, n uint32) error {
	if ref.Length() < n {
		return errs.NewStreamTooShort(fmt.Sprintf("source holds %d bytes, %d requested", ref.Length(), n))
	}
	if err := w.fits(uint64(n)); err != nil {
		return err
	}
	start := w.offset
	src := NewReader(ref.KeepFront(n))
	for !src.Empty() {
		chunk, err := src.ReadLongestContiguousChunk()
		if err == nil {
			err = w.WriteBytes(chunk)
		}
		if err != nil {
			w.offset = start
			return err
		}
	}
	return nil
}

// WriteObject encodes one fixed-layout value in the stream's byte order.
func WriteObject[T any](w *Writer, v T) error {
	if _, err := elementSize[T](); err != nil {
		return err
	}
	b, err := binary.Append(nil, w.Endianness().ByteOrder(), v)
	if err != nil {
		return errs.NewUnspecified(fmt.Sprintf("failed to encode %T: %v", v, err))
	}
	return w.WriteBytes(b)
}

// WriteArray encodes fixed-size elements in the stream's byte order.
func WriteArray[T any](w *Writer, items []T) error {
	elem, err := elementSize[T]()
	if err != nil {
		return err
	}
	count, err := safecast.ToUint32(len(items))
	if err != nil {
		return errs.NewInvalidArraySize(fmt.Sprintf("array of %d elements is too long: %v", len(items), err))
	}
	if _, err := arraySize(count, elem); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	b, err := binary.Append(nil, w.Endianness().ByteOrder(), items)
	if err != nil {
		return errs.NewUnspecified(fmt.Sprintf("failed to encode array: %v", err))
	}
	return w.WriteBytes(b)
}

// WriteFixedArray copies the bytes a lazy fixed array is bound to.
func WriteFixedArray[T any](w *Writer, a FixedArray[T]) error {
	return w.WriteStreamRef(a.StreamRef())
}

// WriteVarArray copies the bytes a lazy variable-length array is bound to.
func WriteVarArray[T any](w *Writer, a VarArray[T]) error {
	return w.WriteStreamRef(a.StreamRef())
}

func (w *Writer) Skip(n uint32) error {
	if w.BytesRemaining() < n {
		return errs.NewStreamTooShort(fmt.Sprintf("cannot skip %d bytes, %d remaining", n, w.BytesRemaining()))
	}
	w.offset += n
	return nil
}

// PadToAlignment writes zeroes up to the next multiple of align.
func (w *Writer) PadToAlignment(align uint32) error {
	aligned, err := alignTo(w.offset, align)
	if err != nil {
		return err
	}
	if aligned == w.offset {
		return nil
	}
	return w.WriteBytes(make([]byte, aligned-w.offset))
}

// Split partitions the unwritten part into two independent writers.
func (w *Writer) Split(offset uint32) (*Writer, *Writer, error) {
	if offset > w.BytesRemaining() {
		return nil, nil, errs.NewStreamTooShort(fmt.Sprintf("cannot split at %d, %d remaining", offset, w.BytesRemaining()))
	}
	first := w.ref.DropFront(w.offset)
	second := first.DropFront(offset)
	first = first.KeepFront(offset)
	return NewWriter(first), NewWriter(second), nil
}

// Commit flushes the underlying stream.
func (w *Writer) Commit() error {
	return w.ref.Commit()
}
