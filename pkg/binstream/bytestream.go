package binstream

// ByteStream is a read-only stream over a caller-owned slice. The caller keeps the slice alive
// and unchanged for as long as the stream and its views are in use.
type ByteStream struct {
	data       []byte
	endianness Endianness
}

func NewByteStream(data []byte, opts ...Option) *ByteStream {
	o := newOptions(opts)
	return &ByteStream{
		data:       data[:lengthOf(data)],
		endianness: o.endianness,
	}
}

func (a *ByteStream) ReadBytes(offset, size uint32) ([]byte, error) {
	return readBytes(a.data, offset, size)
}

func (a *ByteStream) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	return readLongestContiguousChunk(a.data, offset)
}

func (a *ByteStream) Length() uint32 {
	return lengthOf(a.data)
}

func (a *ByteStream) Endianness() Endianness {
	return a.endianness
}

func (a *ByteStream) Flags() Flags {
	return FlagNone
}

// Data returns the backing slice.
func (a *ByteStream) Data() []byte {
	return a.data
}

// MutableByteStream is a fixed-size writable stream over a caller-owned slice. Writes are
// bounds-checked copies; the stream never resizes.
type MutableByteStream struct {
	data       []byte
	endianness Endianness
}

func NewMutableByteStream(data []byte, opts ...Option) *MutableByteStream {
	o := newOptions(opts)
	return &MutableByteStream{
		data:       data[:lengthOf(data)],
		endianness: o.endianness,
	}
}

func (a *MutableByteStream) ReadBytes(offset, size uint32) ([]byte, error) {
	return readBytes(a.data, offset, size)
}

func (a *MutableByteStream) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	return readLongestContiguousChunk(a.data, offset)
}

func (a *MutableByteStream) WriteBytes(offset uint32, data []byte) error {
	size, err := sizeOf(data)
	if err != nil {
		return err
	}
	if err := checkOffsetForWrite(a.Flags(), a.Length(), offset, size); err != nil {
		return err
	}
	copy(a.data[offset:], data)
	return nil
}

func (a *MutableByteStream) Commit() error {
	return nil
}

func (a *MutableByteStream) Length() uint32 {
	return lengthOf(a.data)
}

func (a *MutableByteStream) Endianness() Endianness {
	return a.endianness
}

func (a *MutableByteStream) Flags() Flags {
	return FlagWrite
}

func (a *MutableByteStream) Data() []byte {
	return a.data
}

func readBytes(data []byte, offset, size uint32) ([]byte, error) {
	if err := checkOffsetForRead(lengthOf(data), offset, size); err != nil {
		return nil, err
	}
	end := offset + size
	return data[offset:end:end], nil
}

func readLongestContiguousChunk(data []byte, offset uint32) ([]byte, error) {
	if err := checkOffsetForRead(lengthOf(data), offset, 0); err != nil {
		return nil, err
	}
	return data[offset:len(data):len(data)], nil
}
