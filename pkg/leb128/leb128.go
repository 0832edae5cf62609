// Package leb128 implements the Little Endian Base 128 variable-length integer encoding.
//
// Every byte carries seven payload bits, least significant group first; the high bit marks
// continuation. The signed form sign-extends from bit 0x40 of the terminal byte.
// Both encoders accept a minimum output length and pad with continuation-marked bytes.
package leb128

import "github.com/pkg/errors"

const (
	payloadMask  = 0x7f
	continuation = 0x80
	signBit      = 0x40

	// MaxLen is the longest unpadded encoding of a 64-bit value.
	MaxLen = 10
)

var (
	ErrUnterminated = errors.New("malformed LEB128, extends past end")
	ErrOverflow     = errors.New("LEB128 value too big for 64 bits")
)

// AppendULEB128 appends the encoding of v to dst, padding the encoding to at least padTo bytes.
func AppendULEB128(dst []byte, v uint64, padTo int) []byte {
	count := 0
	for {
		b := byte(v & payloadMask)
		v >>= 7
		count++
		if v != 0 || count < padTo {
			b |= continuation
		}
		dst = append(dst, b)
		if v == 0 {
			break
		}
	}
	if count < padTo {
		for ; count < padTo-1; count++ {
			dst = append(dst, continuation)
		}
		dst = append(dst, 0x00)
	}
	return dst
}

// AppendSLEB128 appends the signed encoding of v to dst, padding it to at least padTo bytes.
func AppendSLEB128(dst []byte, v int64, padTo int) []byte {
	count := 0
	for {
		b := byte(v & payloadMask)
		v >>= 7
		more := !((v == 0 && b&signBit == 0) || (v == -1 && b&signBit != 0))
		count++
		if more || count < padTo {
			b |= continuation
		}
		dst = append(dst, b)
		if !more {
			break
		}
	}
	if count < padTo {
		var pad byte = 0x00
		if v < 0 {
			pad = payloadMask
		}
		for ; count < padTo-1; count++ {
			dst = append(dst, pad|continuation)
		}
		dst = append(dst, pad)
	}
	return dst
}

func EncodeULEB128(v uint64, padTo int) []byte {
	return AppendULEB128(make([]byte, 0, max(SizeULEB128(v), padTo)), v, padTo)
}

func EncodeSLEB128(v int64, padTo int) []byte {
	return AppendSLEB128(make([]byte, 0, max(SizeSLEB128(v), padTo)), v, padTo)
}

// DecodeULEB128 decodes an unsigned value from the beginning of b and returns it with the number of bytes consumed.
func DecodeULEB128(b []byte) (uint64, int, error) {
	var (
		value uint64
		shift uint
	)
	for i := 0; ; i++ {
		if i == len(b) {
			return 0, 0, ErrUnterminated
		}
		slice := uint64(b[i] & payloadMask)
		if (shift >= 64 && slice != 0) || (slice<<shift)>>shift != slice {
			return 0, 0, ErrOverflow
		}
		value += slice << shift
		shift += 7
		if b[i] < continuation {
			return value, i + 1, nil
		}
	}
}

// DecodeSLEB128 decodes a signed value from the beginning of b and returns it with the number of bytes consumed.
func DecodeSLEB128(b []byte) (int64, int, error) {
	var (
		value int64
		shift uint
		last  byte
		n     int
	)
	for {
		if n == len(b) {
			return 0, 0, ErrUnterminated
		}
		last = b[n]
		slice := uint64(last & payloadMask)
		var ext uint64
		if value < 0 {
			ext = payloadMask
		}
		if (shift >= 64 && slice != ext) || (shift == 63 && slice != 0 && slice != payloadMask) {
			return 0, 0, ErrOverflow
		}
		value |= int64(slice << shift)
		shift += 7
		n++
		if last < continuation {
			break
		}
	}
	if shift < 64 && last&signBit != 0 {
		value |= -1 << shift
	}
	return value, n, nil
}

// SizeULEB128 returns the length of the unpadded encoding of v.
func SizeULEB128(v uint64) int {
	size := 0
	for {
		v >>= 7
		size++
		if v == 0 {
			return size
		}
	}
}

// SizeSLEB128 returns the length of the unpadded signed encoding of v.
func SizeSLEB128(v int64) int {
	size := 0
	for {
		b := v & payloadMask
		v >>= 7
		size++
		if (v == 0 && b&signBit == 0) || (v == -1 && b&signBit != 0) {
			return size
		}
	}
}
