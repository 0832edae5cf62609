package binstream

import (
	"github.com/valyala/bytebufferpool"
)

// BufferStream is an append-capable stream over a pooled byte buffer. The buffer stays owned by
// the caller, who returns it to its pool once the content is no longer needed.
type BufferStream struct {
	buf        *bytebufferpool.ByteBuffer
	endianness Endianness
}

func NewBufferStream(buf *bytebufferpool.ByteBuffer, opts ...Option) *BufferStream {
	o := newOptions(opts)
	return &BufferStream{buf: buf, endianness: o.endianness}
}

func (a *BufferStream) ReadBytes(offset, size uint32) ([]byte, error) {
	return readBytes(a.buf.B, offset, size)
}

func (a *BufferStream) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	return readLongestContiguousChunk(a.buf.B, offset)
}

func (a *BufferStream) WriteBytes(offset uint32, data []byte) error {
	if _, err := endOf(offset, data); err != nil {
		return err
	}
	if err := checkOffsetForWrite(a.Flags(), a.Length(), offset, 0); err != nil {
		return err
	}
	n := copy(a.buf.B[offset:], data)
	_, err := a.buf.Write(data[n:])
	return err
}

func (a *BufferStream) Commit() error {
	return nil
}

func (a *BufferStream) Length() uint32 {
	return lengthOf(a.buf.B)
}

func (a *BufferStream) Endianness() Endianness {
	return a.endianness
}

func (a *BufferStream) Flags() Flags {
	return FlagWrite | FlagAppend
}
