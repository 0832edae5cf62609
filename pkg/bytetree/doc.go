// Package bytetree implements ByteTree, a versioned binary encoding of typed object graphs.
//
// A ByteTree stream is a 4-byte protocol version followed by the root value. Every value is
// either an object or a scalar:
//
//	object := u32(fieldCount | 0x80000000) field{fieldCount}
//	scalar := u32(byteLength) byte{byteLength}
//
// All header words use the byte order of the underlying stream. The encoding of a Go value is
// selected by the first strategy it satisfies: Object, Scalar, a directly encodable unsigned
// integer, or Wrapper.
//
// Field discipline is enforced on every ObjectWriter: an object declaring k fields must write
// fields 0..k-1 exactly once and in order. Breaking it is a programming error and panics with
// a *Violation; I/O failures are returned as errors.
package bytetree
