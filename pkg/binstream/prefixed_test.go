package binstream

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/binstream/pkg/errs"
)

func TestWriter_StringWithUint16Len(t *testing.T) {
	s := NewAppendByteStream(WithEndianness(BigEndian))
	w := NewWriterToStream(s)
	require.NoError(t, w.WriteStringWithUint16Len("abc"))
	require.Equal(t, []byte{0, 3, 'a', 'b', 'c'}, s.Data())

	r := NewReaderFromStream(s)
	str, err := r.ReadStringWithUint16Len()
	require.NoError(t, err)
	require.Equal(t, "abc", str)
	require.True(t, r.Empty())
}

func TestWriter_BytesWithUint32Len(t *testing.T) {
	s := NewAppendByteStream(WithEndianness(LittleEndian))
	w := NewWriterToStream(s)
	require.NoError(t, w.WriteBytesWithUint32Len([]byte{9, 8}))
	require.NoError(t, w.WriteStringWithUint32Len(""))
	require.Equal(t, []byte{2, 0, 0, 0, 9, 8, 0, 0, 0, 0}, s.Data())

	r := NewReaderFromStream(s)
	b, err := r.ReadBytesWithUint32Len()
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8}, b)
	str, err := r.ReadStringWithUint32Len()
	require.NoError(t, err)
	require.Equal(t, "", str)
}

func TestWriter_BytesWithUint16LenTooLong(t *testing.T) {
	w := NewWriterToStream(NewAppendByteStream())
	err := w.WriteBytesWithUint16Len(make([]byte, math.MaxUint16+1))
	require.Error(t, err)
	require.EqualValues(t, 0, w.Offset())
}

func TestPrefixedFailuresKeepOffset(t *testing.T) {
	buf := make([]byte, 4)
	w := NewWriterToBytes(buf, BigEndian)
	require.ErrorIs(t, w.WriteStringWithUint16Len("abc"), errs.StreamTooShort{})
	require.EqualValues(t, 0, w.Offset())

	r := NewReaderFromBytes([]byte{0, 5, 'a', 'b'}, BigEndian)
	_, err := r.ReadBytesWithUint16Len()
	require.ErrorIs(t, err, errs.StreamTooShort{})
	require.EqualValues(t, 0, r.Offset())
}

func TestBool(t *testing.T) {
	s := NewAppendByteStream()
	w := NewWriterToStream(s)
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteBool(false))
	require.NoError(t, w.WriteUint8(2))
	require.Equal(t, []byte{1, 0, 2}, s.Data())

	r := NewReaderFromStream(s)
	b, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, b)
	b, err = r.ReadBool()
	require.NoError(t, err)
	require.False(t, b)
	_, err = r.ReadBool()
	require.ErrorIs(t, err, errs.Unspecified{})
	require.EqualValues(t, 2, r.Offset())
}

func TestReaderIO(t *testing.T) {
	data := []byte(strings.Repeat("0123456789", 5))
	r := NewReaderFromStream(chunked(t, 7, data))
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	r.SetOffset(10)
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 40, n)
	assert.Equal(t, data[10:], buf.Bytes())
}

func TestWriterIO(t *testing.T) {
	s := NewChunkedStream()
	defer s.Release()
	w := NewWriterToStream(s)
	_, err := fmt.Fprintf(w, "%d-%s", 42, "answer")
	require.NoError(t, err)
	require.EqualValues(t, 9, s.Length())

	var buf bytes.Buffer
	_, err = io.Copy(&buf, NewReaderFromStream(s))
	require.NoError(t, err)
	assert.Equal(t, "42-answer", buf.String())
}
