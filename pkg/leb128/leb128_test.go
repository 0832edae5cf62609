package leb128

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeULEB128(t *testing.T) {
	for _, test := range []struct {
		v     uint64
		padTo int
		exp   []byte
	}{
		{0, 0, []byte{0x00}},
		{1, 0, []byte{0x01}},
		{63, 0, []byte{0x3f}},
		{64, 0, []byte{0x40}},
		{0x7f, 0, []byte{0x7f}},
		{0x80, 0, []byte{0x80, 0x01}},
		{0x81, 0, []byte{0x81, 0x01}},
		{0x90, 0, []byte{0x90, 0x01}},
		{0xff, 0, []byte{0xff, 0x01}},
		{0x100, 0, []byte{0x80, 0x02}},
		{0x101, 0, []byte{0x81, 0x02}},
		{624485, 0, []byte{0xe5, 0x8e, 0x26}},
		{0, 1, []byte{0x00}},
		{0, 2, []byte{0x80, 0x00}},
		{0x7f, 2, []byte{0xff, 0x00}},
		{0x7f, 3, []byte{0xff, 0x80, 0x00}},
		{0x80, 3, []byte{0x80, 0x81, 0x00}},
		{math.MaxUint64, 0, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	} {
		t.Run(fmt.Sprintf("%d/%d", test.v, test.padTo), func(t *testing.T) {
			assert.Equal(t, test.exp, EncodeULEB128(test.v, test.padTo))
		})
	}
}

func TestEncodeSLEB128(t *testing.T) {
	for _, test := range []struct {
		v     int64
		padTo int
		exp   []byte
	}{
		{0, 0, []byte{0x00}},
		{1, 0, []byte{0x01}},
		{-1, 0, []byte{0x7f}},
		{63, 0, []byte{0x3f}},
		{-64, 0, []byte{0x40}},
		{64, 0, []byte{0xc0, 0x00}},
		{-65, 0, []byte{0xbf, 0x7f}},
		{-123456, 0, []byte{0xc0, 0xbb, 0x78}},
		{-1, 3, []byte{0xff, 0xff, 0x7f}},
		{1, 3, []byte{0x81, 0x80, 0x00}},
		{-64, 2, []byte{0xc0, 0x7f}},
	} {
		t.Run(fmt.Sprintf("%d/%d", test.v, test.padTo), func(t *testing.T) {
			assert.Equal(t, test.exp, EncodeSLEB128(test.v, test.padTo))
		})
	}
}

func TestDecodeULEB128(t *testing.T) {
	v, n, err := DecodeULEB128([]byte{0x80, 0x01})
	require.NoError(t, err)
	assert.EqualValues(t, 128, v)
	assert.Equal(t, 2, n)

	v, n, err = DecodeULEB128([]byte{0xe5, 0x8e, 0x26, 0xff})
	require.NoError(t, err)
	assert.EqualValues(t, 624485, v)
	assert.Equal(t, 3, n)

	_, _, err = DecodeULEB128([]byte{0x80, 0x80})
	assert.ErrorIs(t, err, ErrUnterminated)
	_, _, err = DecodeULEB128(nil)
	assert.ErrorIs(t, err, ErrUnterminated)

	tooBig := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	_, _, err = DecodeULEB128(tooBig)
	assert.ErrorIs(t, err, ErrOverflow)

	// Zero payload beyond 64 bits is tolerated.
	v, n, err = DecodeULEB128([]byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00})
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	assert.Equal(t, 11, n)
}

func TestDecodeSLEB128(t *testing.T) {
	v, n, err := DecodeSLEB128([]byte{0xc0, 0xbb, 0x78})
	require.NoError(t, err)
	assert.EqualValues(t, -123456, v)
	assert.Equal(t, 3, n)

	v, _, err = DecodeSLEB128([]byte{0x7f})
	require.NoError(t, err)
	assert.EqualValues(t, -1, v)

	_, _, err = DecodeSLEB128([]byte{0xff})
	assert.ErrorIs(t, err, ErrUnterminated)

	tooBig := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02}
	_, _, err = DecodeSLEB128(tooBig)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestRoundTrip(t *testing.T) {
	unsigned := []uint64{0, 1, 127, 128, 255, 16383, 16384, 1<<32 - 1, 1 << 32, 1<<63 - 1, 1 << 63, math.MaxUint64}
	for _, v := range unsigned {
		enc := EncodeULEB128(v, 0)
		assert.Len(t, enc, SizeULEB128(v))
		dec, n, err := DecodeULEB128(enc)
		require.NoError(t, err)
		assert.Equal(t, v, dec)
		assert.Equal(t, len(enc), n)
		for _, pad := range []int{1, 5, 10, 12} {
			p := EncodeULEB128(v, pad)
			assert.Len(t, p, max(pad, len(enc)))
			dec, n, err = DecodeULEB128(p)
			require.NoError(t, err)
			assert.Equal(t, v, dec)
			assert.Equal(t, len(p), n)
		}
	}
	signed := []int64{0, 1, -1, 63, -64, 64, -65, 8191, -8192, 1<<31 - 1, -1 << 31, math.MaxInt64, math.MinInt64}
	for _, v := range signed {
		enc := EncodeSLEB128(v, 0)
		assert.Len(t, enc, SizeSLEB128(v))
		dec, n, err := DecodeSLEB128(enc)
		require.NoError(t, err)
		assert.Equal(t, v, dec)
		assert.Equal(t, len(enc), n)
		for _, pad := range []int{1, 4, 10} {
			p := EncodeSLEB128(v, pad)
			assert.Len(t, p, max(pad, len(enc)))
			dec, n, err = DecodeSLEB128(p)
			require.NoError(t, err)
			assert.Equal(t, v, dec)
			assert.Equal(t, len(p), n)
		}
	}
}
