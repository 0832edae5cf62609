package binstream

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/wavesplatform/binstream/pkg/errs"
)

func (w *Writer) WriteBool(b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return w.WriteUint8(v)
}

// ReadBool reads a byte that must be 0 or 1.
func (r *Reader) ReadBool() (bool, error) {
	start := r.offset
	v, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		r.offset = start
		return false, errs.NewUnspecified(fmt.Sprintf("invalid boolean value %d", v))
	}
}

// WriteBytesWithUint16Len writes a two-byte length followed by data.
func (w *Writer) WriteBytesWithUint16Len(data []byte) error {
	if len(data) > math.MaxUint16 {
		return errors.Errorf("too long byte string, expected max %d, found %d", math.MaxUint16, len(data))
	}
	return w.writePrefixed(2, data)
}

// WriteBytesWithUint32Len writes a four-byte length followed by data.
func (w *Writer) WriteBytesWithUint32Len(data []byte) error {
	if _, err := sizeOf(data); err != nil {
		return err
	}
	return w.writePrefixed(4, data)
}

func (w *Writer) WriteStringWithUint16Len(s string) error {
	return w.WriteBytesWithUint16Len([]byte(s))
}

func (w *Writer) WriteStringWithUint32Len(s string) error {
	return w.WriteBytesWithUint32Len([]byte(s))
}

func (w *Writer) writePrefixed(width int, data []byte) error {
	if err := w.fits(uint64(width) + uint64(len(data))); err != nil {
		return err
	}
	start := w.offset
	var err error
	if width == 2 {
		err = w.WriteUint16(uint16(len(data)))
	} else {
		err = w.WriteUint32(uint32(len(data)))
	}
	if err != nil {
		return err
	}
	if err := w.WriteBytes(data); err != nil {
		w.offset = start
		return err
	}
	return nil
}

// ReadBytesWithUint16Len reads a two-byte length and that many bytes.
func (r *Reader) ReadBytesWithUint16Len() ([]byte, error) {
	start := r.offset
	l, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	return r.readPrefixed(start, uint32(l))
}

// ReadBytesWithUint32Len reads a four-byte length and that many bytes.
func (r *Reader) ReadBytesWithUint32Len() ([]byte, error) {
	start := r.offset
	l, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	return r.readPrefixed(start, l)
}

func (r *Reader) ReadStringWithUint16Len() (string, error) {
	b, err := r.ReadBytesWithUint16Len()
	return string(b), err
}

func (r *Reader) ReadStringWithUint32Len() (string, error) {
	b, err := r.ReadBytesWithUint32Len()
	return string(b), err
}

func (r *Reader) readPrefixed(start, l uint32) ([]byte, error) {
	b, err := r.ReadBytes(l)
	if err != nil {
		r.offset = start
		return nil, errs.Extend(err, "failed to read length-prefixed bytes")
	}
	return b, nil
}

// Read implements io.Reader over the remaining bytes, copying at most one contiguous chunk.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.Empty() {
		return 0, io.EOF
	}
	chunk, err := r.ref.ReadLongestContiguousChunk(r.offset)
	if err != nil {
		return 0, err
	}
	n := copy(p, chunk)
	r.offset += uint32(n)
	return n, nil
}

// WriteTo implements io.WriterTo, writing the remaining bytes chunk by chunk.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for !r.Empty() {
		chunk, err := r.ref.ReadLongestContiguousChunk(r.offset)
		if err != nil {
			return total, err
		}
		n, err := w.Write(chunk)
		total += int64(n)
		r.offset += uint32(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Write implements io.Writer. It writes all of p or nothing.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.WriteBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
