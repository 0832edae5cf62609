package binstream

import (
	"fmt"
	"math"

	"github.com/ccoveille/go-safecast"

	"github.com/wavesplatform/binstream/pkg/errs"
)

// Flags describe the write capabilities of a stream.
type Flags uint8

const FlagNone Flags = 0

const (
	FlagWrite Flags = 1 << iota
	FlagAppend
)

func (f Flags) Writable() bool {
	return f&FlagWrite != 0
}

func (f Flags) Appendable() bool {
	return f&FlagAppend != 0
}

// Stream is an offset-addressed source of bytes.
type Stream interface {
	// ReadBytes returns size bytes starting at offset. The result aliases the backing storage
	// when it is contiguous at that range.
	ReadBytes(offset, size uint32) ([]byte, error)
	// ReadLongestContiguousChunk returns all bytes from offset up to the end of the contiguous
	// region containing offset.
	ReadLongestContiguousChunk(offset uint32) ([]byte, error)
	Length() uint32
	Endianness() Endianness
	Flags() Flags
}

// WritableStream is a Stream that also accepts writes.
//
// Streams without FlagAppend only overwrite bytes inside their current length. Append-capable
// streams accept a write at any offset up to and including the current length and grow to cover it.
type WritableStream interface {
	Stream
	WriteBytes(offset uint32, data []byte) error
	// Commit flushes the content to durable storage. In-memory streams do nothing.
	Commit() error
}

func checkOffsetForRead(length, offset, size uint32) error {
	if offset > length {
		return errs.NewInvalidOffset(fmt.Sprintf("offset %d is beyond stream length %d", offset, length))
	}
	if uint64(offset)+uint64(size) > uint64(length) {
		return errs.NewStreamTooShort(
			fmt.Sprintf("not enough bytes, expected %d at offset %d, found %d", size, offset, length-offset),
		)
	}
	return nil
}

func checkOffsetForWrite(flags Flags, length, offset, size uint32) error {
	if !flags.Appendable() {
		return checkOffsetForRead(length, offset, size)
	}
	if offset > length {
		return errs.NewInvalidOffset(fmt.Sprintf("write offset %d would leave a gap after length %d", offset, length))
	}
	return nil
}

// lengthOf clamps a buffer length to what a stream can address.
func lengthOf(b []byte) uint32 {
	l, err := safecast.ToUint32(len(b))
	if err != nil {
		return math.MaxUint32
	}
	return l
}

func sizeOf(data []byte) (uint32, error) {
	l, err := safecast.ToUint32(len(data))
	if err != nil {
		return 0, errs.NewStreamTooShort(fmt.Sprintf("data does not fit a stream: %v", err))
	}
	return l, nil
}

func endOf(offset uint32, data []byte) (uint32, error) {
	size, err := sizeOf(data)
	if err != nil {
		return 0, err
	}
	end, err := safecast.ToUint32(uint64(offset) + uint64(size))
	if err != nil {
		return 0, errs.NewStreamTooShort(fmt.Sprintf("stream would exceed 4GiB: %v", err))
	}
	return end, nil
}
