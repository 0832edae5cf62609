package binstream

import (
	"github.com/wavesplatform/binstream/pkg/libs/bytespool"
)

// ChunkedStream is an append-capable stream that stores its content in fixed-size chunks taken
// from a bytespool.Pool. Its storage is discontiguous: ReadLongestContiguousChunk never crosses a
// chunk boundary and a ReadBytes spanning two chunks returns a copy. Chunks are never moved, so a
// zero-copy slice stays valid across later writes until Release is called.
type ChunkedStream struct {
	pool       bytespool.Pool
	chunks     [][]byte
	length     uint32
	endianness Endianness
}

// NewChunkedStream creates an empty stream. Without WithChunkPool the chunks come from a
// private pool of 4KiB chunks.
func NewChunkedStream(opts ...Option) *ChunkedStream {
	o := newOptions(opts)
	pool := o.pool
	if pool == nil {
		pool = bytespool.NewBytesPool(defaultPoolSize, defaultChunkSize)
	}
	return &ChunkedStream{
		pool:       pool,
		endianness: o.endianness,
	}
}

func (a *ChunkedStream) chunkSize() uint32 {
	return uint32(a.pool.BytesLen())
}

func (a *ChunkedStream) ReadBytes(offset, size uint32) ([]byte, error) {
	if err := checkOffsetForRead(a.length, offset, size); err != nil {
		return nil, err
	}
	cs := a.chunkSize()
	ci, co := offset/cs, offset%cs
	if co+size <= cs {
		if size == 0 {
			return []byte{}, nil
		}
		return a.chunks[ci][co : co+size : co+size], nil
	}
	out := make([]byte, size)
	for n := uint32(0); n < size; ci, co = ci+1, 0 {
		n += uint32(copy(out[n:], a.chunks[ci][co:]))
	}
	return out, nil
}

func (a *ChunkedStream) ReadLongestContiguousChunk(offset uint32) ([]byte, error) {
	if err := checkOffsetForRead(a.length, offset, 0); err != nil {
		return nil, err
	}
	if offset == a.length {
		return []byte{}, nil
	}
	cs := a.chunkSize()
	ci, co := offset/cs, offset%cs
	end := min(cs, a.length-ci*cs)
	return a.chunks[ci][co:end:end], nil
}

func (a *ChunkedStream) WriteBytes(offset uint32, data []byte) error {
	end, err := endOf(offset, data)
	if err != nil {
		return err
	}
	if err := checkOffsetForWrite(a.Flags(), a.length, offset, 0); err != nil {
		return err
	}
	cs := a.chunkSize()
	for uint64(len(a.chunks))*uint64(cs) < uint64(end) {
		a.chunks = append(a.chunks, a.pool.Get())
	}
	ci, co := offset/cs, offset%cs
	for len(data) > 0 {
		n := copy(a.chunks[ci][co:], data)
		data = data[n:]
		ci, co = ci+1, 0
	}
	a.length = max(a.length, end)
	return nil
}

func (a *ChunkedStream) Commit() error {
	return nil
}

func (a *ChunkedStream) Length() uint32 {
	return a.length
}

func (a *ChunkedStream) Endianness() Endianness {
	return a.endianness
}

func (a *ChunkedStream) Flags() Flags {
	return FlagWrite | FlagAppend
}

// Chunks returns the number of chunks currently held.
func (a *ChunkedStream) Chunks() int {
	return len(a.chunks)
}

// Release returns every chunk to the pool and truncates the stream to zero length.
// Slices obtained before Release must not be used afterwards.
func (a *ChunkedStream) Release() {
	for i, c := range a.chunks {
		a.pool.Put(c)
		a.chunks[i] = nil
	}
	a.chunks = a.chunks[:0]
	a.length = 0
}
