package binstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/binstream/pkg/errs"
	"github.com/wavesplatform/binstream/pkg/leb128"
)

func TestWriterIntegers(t *testing.T) {
	for _, test := range []struct {
		e        Endianness
		expected []byte
	}{
		{LittleEndian, []byte{0x01, 0x03, 0x02, 0x07, 0x06, 0x05, 0x04, 0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{BigEndian, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}},
	} {
		t.Run(test.e.String(), func(t *testing.T) {
			buf := make([]byte, len(test.expected))
			w := NewWriterToBytes(buf, test.e)
			require.NoError(t, w.WriteUint8(1))
			require.NoError(t, w.WriteUint16(0x0203))
			require.NoError(t, w.WriteUint32(0x04050607))
			require.NoError(t, w.WriteInt64(-2))
			assert.Equal(t, test.expected, buf)
			assert.EqualValues(t, 0, w.BytesRemaining())

			err := w.WriteUint8(0)
			assert.ErrorIs(t, err, errs.StreamTooShort{})
			assert.EqualValues(t, len(buf), w.Offset())
		})
	}
}

func TestWriterFixedBufferFailureKeepsOffset(t *testing.T) {
	buf := make([]byte, 3)
	w := NewWriterToBytes(buf, LittleEndian)
	require.NoError(t, w.WriteUint8(7))
	for name, op := range map[string]func() error{
		"WriteUint32":  func() error { return w.WriteUint32(1) },
		"WriteCString": func() error { return w.WriteCString("abc") },
		"WriteArray":   func() error { return WriteArray(w, []uint16{1, 2}) },
		"WriteObject":  func() error { return WriteObject(w, header{}) },
		"Skip":         func() error { return w.Skip(3) },
		"PadToAlign":   func() error { return w.PadToAlignment(8) },
		"StreamRef":    func() error { return w.WriteStreamRef(NewStreamRefFromBytes([]byte{1, 2, 3}, LittleEndian)) },
	} {
		t.Run(name, func(t *testing.T) {
			require.Error(t, op())
			assert.EqualValues(t, 1, w.Offset())
		})
	}
	assert.Equal(t, []byte{7, 0, 0}, buf)
}

func TestWriterFixedBufferFailureLeavesContent(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	w := NewWriterToBytes(buf, BigEndian)
	require.NoError(t, w.Skip(1))
	src := NewStreamRef(chunked(t, 1, []byte{1, 2, 3, 4}))
	for name, op := range map[string]func() error{
		"WriteCString":             func() error { return w.WriteCString("abc") },
		"WriteStringWithUint16Len": func() error { return w.WriteStringWithUint16Len("ab") },
		"WriteBytesWithUint32Len":  func() error { return w.WriteBytesWithUint32Len(nil) },
		"WriteStreamRefN":          func() error { return w.WriteStreamRefN(src, 4) },
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), errs.StreamTooShort{})
			assert.EqualValues(t, 1, w.Offset())
			assert.Equal(t, []byte{9, 9, 9, 9}, buf)
		})
	}
	require.NoError(t, w.WriteCString("ab"))
	assert.Equal(t, []byte{9, 'a', 'b', 0}, buf)
}

func TestWriterAppends(t *testing.T) {
	s := NewAppendByteStream()
	w := NewWriterToStream(s)
	require.NoError(t, w.WriteCString("ab"))
	require.NoError(t, w.WriteULEB128(624485))
	require.NoError(t, w.WriteSLEB128(-1))
	require.NoError(t, w.WriteULEB128Padded(1, 3))
	require.NoError(t, w.WriteSLEB128Padded(-1, 2))
	assert.Equal(t, []byte{'a', 'b', 0, 0xe5, 0x8e, 0x26, 0x7f, 0x81, 0x80, 0x00, 0xff, 0x7f}, s.Data())
	assert.EqualValues(t, s.Length(), w.Offset())

	r := NewReaderFromStream(s)
	str, err := r.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "ab", str)
	u, err := r.ReadULEB128()
	require.NoError(t, err)
	assert.EqualValues(t, 624485, u)
	i, err := r.ReadSLEB128()
	require.NoError(t, err)
	assert.EqualValues(t, -1, i)
}

func TestWriterGapRejected(t *testing.T) {
	s := NewAppendByteStream()
	w := NewWriterToStream(s)
	require.NoError(t, w.WriteUint8(1))
	w.SetOffset(5)
	err := w.WriteUint8(2)
	assert.ErrorIs(t, err, errs.InvalidOffset{})
	assert.EqualValues(t, 1, s.Length())
}

func TestWriterPadToAlignment(t *testing.T) {
	s := NewGrowingByteStream()
	w := NewWriterToStream(s)
	require.NoError(t, w.WriteUint8(0xaa))
	require.NoError(t, w.PadToAlignment(4))
	require.NoError(t, w.PadToAlignment(4))
	require.NoError(t, w.WriteUint8(0xbb))
	assert.Equal(t, []byte{0xaa, 0, 0, 0, 0xbb}, s.Data())
}

func TestWriterSplit(t *testing.T) {
	buf := make([]byte, 6)
	w := NewWriterToBytes(buf, BigEndian)
	require.NoError(t, w.Skip(1))
	first, second, err := w.Split(2)
	require.NoError(t, err)
	require.NoError(t, second.WriteUint16(0x0304))
	require.NoError(t, first.WriteUint16(0x0102))
	assert.ErrorIs(t, first.WriteUint8(9), errs.StreamTooShort{})
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 0}, buf)
	assert.EqualValues(t, 1, w.Offset())
}

func TestWriterStreamRefFromChunks(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	src := NewStreamRef(chunked(t, 5, data))

	dst := NewGrowingByteStream()
	w := NewWriterToStream(dst)
	require.NoError(t, w.WriteUint8('>'))
	require.NoError(t, w.WriteStreamRef(src.DropFront(4)))
	require.NoError(t, w.WriteStreamRefN(src, 3))
	assert.Equal(t, ">"+string(data[4:])+"the", string(dst.Data()))

	err := w.WriteStreamRefN(src, src.Length()+1)
	assert.ErrorIs(t, err, errs.StreamTooShort{})
}

func TestWriterObjectsAndArrays(t *testing.T) {
	s := NewGrowingByteStream(WithEndianness(LittleEndian))
	w := NewWriterToStream(s)
	require.NoError(t, WriteObject(w, header{Magic: [2]byte{'B', 'T'}, Version: 1, Size: 2}))
	require.NoError(t, WriteArray(w, []int16{-1, 2}))
	require.NoError(t, WriteArray(w, []int16{}))
	require.NoError(t, WriteEnum(w, green))
	assert.Equal(t, []byte{'B', 'T', 1, 0, 2, 0, 0, 0, 0xff, 0xff, 2, 0, 2, 0}, s.Data())

	assert.ErrorIs(t, WriteObject(w, "string"), errs.Unspecified{})
	assert.ErrorIs(t, WriteArray(w, []int{1}), errs.Unspecified{})
}

func TestWriterLazyArraysCopy(t *testing.T) {
	src := NewReaderFromBytes([]byte{1, 0, 2, 0, 1, 'x', 2, 'y', 'z'}, LittleEndian)
	fixed, err := ReadFixedArray[uint16](src, 2)
	require.NoError(t, err)
	vars, err := ReadVarArray(src, src.BytesRemaining(), lengthPrefixed)
	require.NoError(t, err)

	s := NewAppendByteStream()
	w := NewWriterToStream(s)
	require.NoError(t, WriteVarArray(w, vars))
	require.NoError(t, WriteFixedArray(w, fixed))
	assert.Equal(t, []byte{1, 'x', 2, 'y', 'z', 1, 0, 2, 0}, s.Data())
}

func TestWriterOverMutableView(t *testing.T) {
	buf := make([]byte, 8)
	ref := NewWritableStreamRefFromBytes(buf, LittleEndian).Slice(2, 4)
	w := NewWriter(ref)
	require.NoError(t, w.WriteUint32(0xdeadbeef))
	assert.ErrorIs(t, w.WriteUint8(1), errs.StreamTooShort{})
	assert.Equal(t, []byte{0, 0, 0xef, 0xbe, 0xad, 0xde, 0, 0}, buf)
	require.NoError(t, w.Commit())
}

func TestWriterLEB128Sizes(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 1 << 35, 1<<64 - 1} {
		s := NewAppendByteStream()
		w := NewWriterToStream(s)
		require.NoError(t, w.WriteULEB128(v))
		assert.Len(t, s.Data(), leb128.SizeULEB128(v))
	}
}
