package binstream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/wavesplatform/binstream/pkg/errs"
	"github.com/wavesplatform/binstream/pkg/libs/bytespool"
)

// Every stream implementation holding the same content must answer reads the same way.
type readStreamSuite struct {
	suite.Suite
	content []byte
	newFn   func(content []byte) Stream
}

func (s *readStreamSuite) TestReadBytes() {
	st := s.newFn(s.content)
	s.Require().EqualValues(len(s.content), st.Length())
	b, err := st.ReadBytes(2, 1)
	s.Require().NoError(err)
	s.Equal([]byte{3}, b)

	_, err = st.ReadBytes(4, 2)
	s.ErrorIs(err, errs.StreamTooShort{})

	_, err = st.ReadBytes(6, 0)
	s.ErrorIs(err, errs.InvalidOffset{})

	b, err = st.ReadBytes(5, 0)
	s.Require().NoError(err)
	s.Empty(b)
}

func (s *readStreamSuite) TestBoundsProperty() {
	st := s.newFn(s.content)
	length := uint32(len(s.content))
	for offset := uint32(0); offset <= length+2; offset++ {
		for size := uint32(0); size <= length+2; size++ {
			b, err := st.ReadBytes(offset, size)
			if offset > length || offset+size > length {
				s.Error(err, "offset %d size %d", offset, size)
				continue
			}
			s.Require().NoError(err, "offset %d size %d", offset, size)
			s.Equal(s.content[offset:offset+size], b)
		}
	}
}

func (s *readStreamSuite) TestReadLongestContiguousChunk() {
	st := s.newFn(s.content)
	var got []byte
	for offset := uint32(0); offset < st.Length(); {
		chunk, err := st.ReadLongestContiguousChunk(offset)
		s.Require().NoError(err)
		s.Require().NotEmpty(chunk)
		got = append(got, chunk...)
		offset += uint32(len(chunk))
	}
	s.Equal(s.content, got)
	_, err := st.ReadLongestContiguousChunk(st.Length() + 1)
	s.ErrorIs(err, errs.InvalidOffset{})
}

func TestReadStreams(t *testing.T) {
	content := []byte{1, 2, 3, 4, 5}
	for name, newFn := range map[string]func([]byte) Stream{
		"ByteStream": func(b []byte) Stream { return NewByteStream(b) },
		"MutableByteStream": func(b []byte) Stream {
			return NewMutableByteStream(append([]byte(nil), b...))
		},
		"AppendByteStream": func(b []byte) Stream {
			s := NewAppendByteStream()
			require.NoError(t, s.WriteBytes(0, b))
			return s
		},
		"GrowingByteStream": func(b []byte) Stream {
			s := NewGrowingByteStream()
			require.NoError(t, s.WriteBytes(0, b))
			return s
		},
		"ChunkedStream": func(b []byte) Stream {
			s := NewChunkedStream(WithChunkPool(bytespool.NewBytesPool(4, 2)))
			require.NoError(t, s.WriteBytes(0, b))
			return s
		},
	} {
		t.Run(name, func(t *testing.T) {
			suite.Run(t, &readStreamSuite{content: content, newFn: newFn})
		})
	}
}

func TestByteStreamZeroCopy(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	s := NewByteStream(data, WithEndianness(BigEndian))
	assert.Equal(t, BigEndian, s.Endianness())
	assert.Equal(t, FlagNone, s.Flags())
	b, err := s.ReadBytes(1, 2)
	require.NoError(t, err)
	data[1] = 42
	assert.Equal(t, []byte{42, 3}, b)
	assert.Equal(t, 2, cap(b))
}

func TestMutableByteStreamWrite(t *testing.T) {
	data := make([]byte, 4)
	s := NewMutableByteStream(data)
	assert.True(t, s.Flags().Writable())
	assert.False(t, s.Flags().Appendable())
	require.NoError(t, s.WriteBytes(1, []byte{7, 8}))
	assert.Equal(t, []byte{0, 7, 8, 0}, data)

	err := s.WriteBytes(3, []byte{1, 2})
	assert.ErrorIs(t, err, errs.StreamTooShort{})
	err = s.WriteBytes(5, nil)
	assert.ErrorIs(t, err, errs.InvalidOffset{})
	assert.Equal(t, []byte{0, 7, 8, 0}, data)
	assert.EqualValues(t, 4, s.Length())
	assert.NoError(t, s.Commit())
}

func TestEndianness(t *testing.T) {
	assert.Equal(t, "little-endian", LittleEndian.String())
	assert.Equal(t, "big-endian", BigEndian.String())
	assert.Equal(t, "Endianness(7)", Endianness(7).String())
	assert.Contains(t, []Endianness{LittleEndian, BigEndian}, NativeEndianness())
	var b [2]byte
	BigEndian.ByteOrder().PutUint16(b[:], 0x0102)
	assert.Equal(t, [2]byte{1, 2}, b)
	LittleEndian.ByteOrder().PutUint16(b[:], 0x0102)
	assert.Equal(t, [2]byte{2, 1}, b)
}

func ExampleByteStream() {
	s := NewByteStream([]byte{1, 2, 3, 4, 5})
	b, err := s.ReadBytes(2, 1)
	fmt.Println(b, err)
	_, err = s.ReadBytes(4, 2)
	fmt.Println(err)
	// Output:
	// [3] <nil>
	// not enough bytes, expected 2 at offset 4, found 1
}
