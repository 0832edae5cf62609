package binstream

const minGrowingCapacity = 64

// AppendByteStream is an owned, append-capable stream. Every write that extends it reallocates
// the storage to exactly the new length.
type AppendByteStream struct {
	data       []byte
	endianness Endianness
}

func NewAppendByteStream(opts ...Option) *AppendByteStream {
	o := newOptions(opts)
	return &AppendByteStream{endianness: o.endianness}
}

func (a *AppendByteStream) ReadBytes(offset, size uint32) ([]byte, error) {
	return readBytes(a.data, offset, size)
}

func (a *AppendByteStream) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	return readLongestContiguousChunk(a.data, offset)
}

func (a *AppendByteStream) WriteBytes(offset uint32, data []byte) error {
	end, err := endOf(offset, data)
	if err != nil {
		return err
	}
	if err := checkOffsetForWrite(a.Flags(), a.Length(), offset, 0); err != nil {
		return err
	}
	if int(end) > len(a.data) {
		grown := make([]byte, end)
		copy(grown, a.data)
		a.data = grown
	}
	copy(a.data[offset:], data)
	return nil
}

func (a *AppendByteStream) Commit() error {
	return nil
}

func (a *AppendByteStream) Length() uint32 {
	return lengthOf(a.data)
}

func (a *AppendByteStream) Endianness() Endianness {
	return a.endianness
}

func (a *AppendByteStream) Flags() Flags {
	return FlagWrite | FlagAppend
}

// Data returns the current content. The slice is invalidated by the next growing write.
func (a *AppendByteStream) Data() []byte {
	return a.data
}

// GrowingByteStream is an owned, append-capable stream whose capacity grows geometrically, so a
// long run of small appends reallocates only a logarithmic number of times.
type GrowingByteStream struct {
	data       []byte
	endianness Endianness
}

func NewGrowingByteStream(opts ...Option) *GrowingByteStream {
	o := newOptions(opts)
	return &GrowingByteStream{endianness: o.endianness}
}

// NewGrowingByteStreamFrom takes ownership of data as the initial content; its spare capacity is
// used before the stream reallocates.
func NewGrowingByteStreamFrom(data []byte, opts ...Option) *GrowingByteStream {
	s := NewGrowingByteStream(opts...)
	s.data = data[:lengthOf(data)]
	return s
}

// Reserve makes room for at least hint bytes in total without changing the length.
func (a *GrowingByteStream) Reserve(hint uint32) {
	if int(hint) <= cap(a.data) {
		return
	}
	a.realloc(int(hint))
}

func (a *GrowingByteStream) Capacity() int {
	return cap(a.data)
}

func (a *GrowingByteStream) realloc(capacity int) {
	grown := make([]byte, len(a.data), capacity)
	copy(grown, a.data)
	a.data = grown
}

func (a *GrowingByteStream) ReadBytes(offset, size uint32) ([]byte, error) {
	return readBytes(a.data, offset, size)
}

func (a *GrowingByteStream) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	return readLongestContiguousChunk(a.data, offset)
}

func (a *GrowingByteStream) WriteBytes(offset uint32, data []byte) error {
	end, err := endOf(offset, data)
	if err != nil {
		return err
	}
	if err := checkOffsetForWrite(a.Flags(), a.Length(), offset, 0); err != nil {
		return err
	}
	if n := int(end); n > len(a.data) {
		if n > cap(a.data) {
			a.realloc(max(n, 2*cap(a.data), minGrowingCapacity))
		}
		a.data = a.data[:n]
	}
	copy(a.data[offset:], data)
	return nil
}

func (a *GrowingByteStream) Commit() error {
	return nil
}

func (a *GrowingByteStream) Length() uint32 {
	return lengthOf(a.data)
}

func (a *GrowingByteStream) Endianness() Endianness {
	return a.endianness
}

func (a *GrowingByteStream) Flags() Flags {
	return FlagWrite | FlagAppend
}

// Data returns the current content. The slice is invalidated by the next reallocating write.
func (a *GrowingByteStream) Data() []byte {
	return a.data
}

// Reset truncates the stream to zero length, keeping the capacity.
func (a *GrowingByteStream) Reset() {
	a.data = a.data[:0]
}
