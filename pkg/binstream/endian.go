package binstream

import (
	"encoding/binary"
	"fmt"
)

// Endianness tags the byte order of multi-byte values in a stream.
type Endianness byte

const (
	LittleEndian Endianness = iota
	BigEndian
)

var nativeEndianness = func() Endianness {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// NativeEndianness returns the byte order of the host.
func NativeEndianness() Endianness {
	return nativeEndianness
}

// ByteOrder returns the encoding/binary order that performs the byte swap when the endianness
// differs from the host's.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	default:
		return fmt.Sprintf("Endianness(%d)", byte(e))
	}
}
