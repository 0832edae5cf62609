package binstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/wavesplatform/binstream/pkg/errs"
	"github.com/wavesplatform/binstream/pkg/leb128"
)

// Reader decodes values sequentially from a StreamRef. A failed read leaves the offset unchanged.
type Reader struct {
	ref    StreamRef
	offset uint32
}

func NewReader(ref StreamRef) *Reader {
	return &Reader{ref: ref}
}

// NewReaderFromStream reads the whole stream, following its growth.
func NewReaderFromStream(s Stream) *Reader {
	return NewReader(NewStreamRef(s))
}

func NewReaderFromBytes(data []byte, e Endianness) *Reader {
	return NewReader(NewStreamRefFromBytes(data, e))
}

func (r *Reader) StreamRef() StreamRef {
	return r.ref
}

func (r *Reader) Endianness() Endianness {
	return r.ref.Endianness()
}

func (r *Reader) Offset() uint32 {
	return r.offset
}

// SetOffset moves the cursor without validation; the next read reports an out of range offset.
func (r *Reader) SetOffset(offset uint32) {
	r.offset = offset
}

func (r *Reader) Length() uint32 {
	return r.ref.Length()
}

func (r *Reader) BytesRemaining() uint32 {
	l := r.ref.Length()
	if r.offset > l {
		return 0
	}
	return l - r.offset
}

func (r *Reader) Empty() bool {
	return r.BytesRemaining() == 0
}

// ReadBytes returns the next n bytes, zero-copy where the stream allows it.
func (r *Reader) ReadBytes(n uint32) ([]byte, error) {
	b, err := r.ref.ReadBytes(r.offset, n)
	if err != nil {
		return nil, err
	}
	r.offset += n
	return b, nil
}

// ReadLongestContiguousChunk returns the rest of the contiguous region at the cursor.
func (r *Reader) ReadLongestContiguousChunk() ([]byte, error) {
	b, err := r.ref.ReadLongestContiguousChunk(r.offset)
	if err != nil {
		return nil, err
	}
	r.offset += uint32(len(b))
	return b, nil
}

// ReadInteger decodes a fixed-width integer in the stream's byte order.
func ReadInteger[T constraints.Integer](r *Reader) (T, error) {
	var v T
	size := uint32(unsafe.Sizeof(v))
	b, err := r.ReadBytes(size)
	if err != nil {
		return 0, errs.Extend(err, fmt.Sprintf("failed to read %T", v))
	}
	order := r.Endianness().ByteOrder()
	switch size {
	case 1:
		v = T(b[0])
	case 2:
		v = T(order.Uint16(b))
	case 4:
		v = T(order.Uint32(b))
	default:
		v = T(order.Uint64(b))
	}
	return v, nil
}

// ReadEnum decodes an enumeration stored as its underlying integer type.
func ReadEnum[T constraints.Integer](r *Reader) (T, error) {
	return ReadInteger[T](r)
}

func (r *Reader) ReadUint8() (uint8, error)   { return ReadInteger[uint8](r) }
func (r *Reader) ReadUint16() (uint16, error) { return ReadInteger[uint16](r) }
func (r *Reader) ReadUint32() (uint32, error) { return ReadInteger[uint32](r) }
func (r *Reader) ReadUint64() (uint64, error) { return ReadInteger[uint64](r) }
func (r *Reader) ReadInt8() (int8, error)     { return ReadInteger[int8](r) }
func (r *Reader) ReadInt16() (int16, error)   { return ReadInteger[int16](r) }
func (r *Reader) ReadInt32() (int32, error)   { return ReadInteger[int32](r) }
func (r *Reader) ReadInt64() (int64, error)   { return ReadInteger[int64](r) }

// readLEB128 collects the bytes of one LEB128 value, up to and including the terminal byte.
func (r *Reader) readLEB128() ([]byte, error) {
	start := r.offset
	enc := make([]byte, 0, leb128.MaxLen)
	for {
		b, err := r.ReadUint8()
		if err != nil {
			r.offset = start
			return nil, err
		}
		enc = append(enc, b)
		if b < 0x80 {
			return enc, nil
		}
	}
}

func (r *Reader) ReadULEB128() (uint64, error) {
	start := r.offset
	enc, err := r.readLEB128()
	if err != nil {
		return 0, errs.Extend(err, "failed to read ULEB128")
	}
	v, _, err := leb128.DecodeULEB128(enc)
	if err != nil {
		r.offset = start
		return 0, errors.Wrap(err, "failed to read ULEB128")
	}
	return v, nil
}

func (r *Reader) ReadSLEB128() (int64, error) {
	start := r.offset
	enc, err := r.readLEB128()
	if err != nil {
		return 0, errs.Extend(err, "failed to read SLEB128")
	}
	v, _, err := leb128.DecodeSLEB128(enc)
	if err != nil {
		r.offset = start
		return 0, errors.Wrap(err, "failed to read SLEB128")
	}
	return v, nil
}

// ReadCString reads a NUL-terminated string and moves past the terminator. The terminator may
// lie in a later contiguous chunk than the start of the string.
func (r *Reader) ReadCString() (string, error) {
	start := r.offset
	var length uint32
	for {
		chunk, err := r.ReadLongestContiguousChunk()
		if err != nil {
			r.offset = start
			return "", errs.Extend(err, "failed to find string terminator")
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			length += uint32(i)
			break
		}
		length += uint32(len(chunk))
	}
	r.offset = start
	s, err := r.ReadFixedString(length)
	if err != nil {
		return "", err
	}
	r.offset++
	return s, nil
}

func (r *Reader) ReadFixedString(n uint32) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadWideString reads NUL-terminated 16-bit code units, returning them without the terminator.
func (r *Reader) ReadWideString() ([]uint16, error) {
	start := r.offset
	var units []uint16
	for {
		u, err := r.ReadUint16()
		if err != nil {
			r.offset = start
			return nil, errs.Extend(err, "failed to find wide string terminator")
		}
		if u == 0 {
			return units, nil
		}
		units = append(units, u)
	}
}

// ReadStreamRef returns a zero-copy view of the next n bytes.
func (r *Reader) ReadStreamRef(n uint32) (StreamRef, error) {
	if r.BytesRemaining() < n {
		return StreamRef{}, errs.NewStreamTooShort(
			fmt.Sprintf("not enough bytes for a sub-stream, expected %d, found %d", n, r.BytesRemaining()),
		)
	}
	ref := r.ref.Slice(r.offset, n).Freeze()
	r.offset += n
	return ref, nil
}

// Substream is a view together with its offset in the stream it was read from.
type Substream struct {
	Offset uint32
	Data   StreamRef
}

func (r *Reader) ReadSubstream(n uint32) (Substream, error) {
	offset := r.offset
	ref, err := r.ReadStreamRef(n)
	if err != nil {
		return Substream{}, err
	}
	return Substream{Offset: offset, Data: ref}, nil
}

func elementSize[T any]() (uint32, error) {
	var v T
	size := binary.Size(v)
	if size <= 0 {
		return 0, errs.NewUnspecified(fmt.Sprintf("type %T has no fixed binary size", v))
	}
	return uint32(size), nil
}

func arraySize(count, elem uint32) (uint32, error) {
	total := uint64(count) * uint64(elem)
	if total > math.MaxUint32 {
		return 0, errs.NewInvalidArraySize(fmt.Sprintf("%d elements of %d bytes overflow 32 bits", count, elem))
	}
	return uint32(total), nil
}

// ReadArray decodes n fixed-size elements in the stream's byte order.
func ReadArray[T any](r *Reader, n uint32) ([]T, error) {
	elem, err := elementSize[T]()
	if err != nil {
		return nil, err
	}
	size, err := arraySize(n, elem)
	if err != nil {
		return nil, err
	}
	start := r.offset
	b, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	if _, err := binary.Decode(b, r.Endianness().ByteOrder(), out); err != nil {
		r.offset = start
		return nil, errs.NewUnspecified(fmt.Sprintf("failed to decode array: %v", err))
	}
	return out, nil
}

// ReadObject decodes one fixed-layout value, such as a struct of fixed-width fields.
func ReadObject[T any](r *Reader) (T, error) {
	var v T
	elem, err := elementSize[T]()
	if err != nil {
		return v, err
	}
	start := r.offset
	b, err := r.ReadBytes(elem)
	if err != nil {
		return v, err
	}
	if _, err := binary.Decode(b, r.Endianness().ByteOrder(), &v); err != nil {
		r.offset = start
		return v, errs.NewUnspecified(fmt.Sprintf("failed to decode %T: %v", v, err))
	}
	return v, nil
}

// ReadFixedArray binds a lazy array over the next n elements without decoding them.
func ReadFixedArray[T any](r *Reader, n uint32) (FixedArray[T], error) {
	elem, err := elementSize[T]()
	if err != nil {
		return FixedArray[T]{}, err
	}
	size, err := arraySize(n, elem)
	if err != nil {
		return FixedArray[T]{}, err
	}
	ref, err := r.ReadStreamRef(size)
	if err != nil {
		return FixedArray[T]{}, err
	}
	return NewFixedArray[T](ref), nil
}

// ReadVarArray binds a lazy array of variable-length records over the next size bytes.
func ReadVarArray[T any](r *Reader, size uint32, extract Extractor[T]) (VarArray[T], error) {
	ref, err := r.ReadStreamRef(size)
	if err != nil {
		return VarArray[T]{}, err
	}
	return NewVarArray(ref, extract), nil
}

func (r *Reader) Skip(n uint32) error {
	if r.BytesRemaining() < n {
		return errs.NewStreamTooShort(fmt.Sprintf("cannot skip %d bytes, %d remaining", n, r.BytesRemaining()))
	}
	r.offset += n
	return nil
}

// Peek returns the next byte without consuming it.
func (r *Reader) Peek() (byte, error) {
	b, err := r.ref.ReadBytes(r.offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// PadToAlignment skips to the next multiple of align.
func (r *Reader) PadToAlignment(align uint32) error {
	aligned, err := alignTo(r.offset, align)
	if err != nil {
		return err
	}
	return r.Skip(aligned - r.offset)
}

// Split partitions the unread part into two independent readers: the first covers the next
// offset bytes and the second everything after them.
func (r *Reader) Split(offset uint32) (*Reader, *Reader, error) {
	if offset > r.BytesRemaining() {
		return nil, nil, errs.NewStreamTooShort(fmt.Sprintf("cannot split at %d, %d remaining", offset, r.BytesRemaining()))
	}
	first := r.ref.DropFront(r.offset)
	second := first.DropFront(offset)
	first = first.KeepFront(offset).Freeze()
	return NewReader(first), NewReader(second), nil
}

func alignTo(offset, align uint32) (uint32, error) {
	if align <= 1 {
		return offset, nil
	}
	aligned := (uint64(offset) + uint64(align) - 1) / uint64(align) * uint64(align)
	if aligned > math.MaxUint32 {
		return 0, errs.NewStreamTooShort(fmt.Sprintf("aligning %d to %d overflows 32 bits", offset, align))
	}
	return uint32(aligned), nil
}
