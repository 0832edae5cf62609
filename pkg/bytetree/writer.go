package bytetree

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/wavesplatform/binstream/pkg/binstream"
)

const objectFlag uint32 = 1 << 31

// encoding is shared by all object writers of one tree. The first I/O error sticks: later
// fields are still checked for discipline but nothing more is written.
type encoding struct {
	w        *binstream.Writer
	info     UserInfo
	maxDepth int
	err      error
}

func (e *encoding) fail(err error, path string) {
	if e.err == nil {
		e.err = errors.Wrapf(err, "failed to encode %s", path)
	}
}

func (e *encoding) writeHeader(word uint32, path string) {
	if e.err != nil {
		return
	}
	if err := e.w.WriteUint32(word); err != nil {
		e.fail(err, path)
	}
}

// ObjectWriter writes the fields of one object. It is handed to Object.WriteFields and must
// receive exactly the declared number of fields, in index order.
type ObjectWriter struct {
	enc       *encoding
	path      string
	depth     int
	numFields uint32
	next      uint32
}

// UserInfo returns the dictionary of the current encoding.
func (o *ObjectWriter) UserInfo() UserInfo {
	return o.enc.info
}

// Err returns the first I/O error of the current encoding.
func (o *ObjectWriter) Err() error {
	return o.enc.err
}

// Write encodes value as field index. index must be the next field of the object.
func (o *ObjectWriter) Write(index uint32, value any) {
	path := fmt.Sprintf("%s.%d", o.path, index)
	switch {
	case index >= o.numFields:
		violate(path, "object declares %d fields, field %d written", o.numFields, index)
	case index < o.next:
		violate(path, "field %d written twice or out of order, next expected field is %d", index, o.next)
	case index > o.next:
		violate(path, "field %d written before field %d", index, o.next)
	}
	o.next++
	o.writeValue(path, value, false)
}

func (o *ObjectWriter) finish() {
	if o.next != o.numFields {
		violate(o.path, "object declares %d fields, %d written", o.numFields, o.next)
	}
}

func (o *ObjectWriter) writeValue(path string, value any, wrapped bool) {
	switch strategyOf(value) {
	case strategyObject:
		o.writeObject(path, value.(Object))
	case strategyScalar:
		o.writeScalar(path, asScalar(value))
	case strategyDirect:
		o.writeScalar(path, builtinScalar(directBytes(value)))
	case strategyWrapper:
		if wrapped {
			violate(path, "wrapped value %T is itself a wrapper", value)
		}
		inner := unwrap(value, o.enc.info)
		if strategyOf(inner) == strategyWrapper {
			violate(path, "%T wraps %T, which is itself a wrapper", value, inner)
		}
		o.writeValue(path, inner, true)
	default:
		violate(path, "type %T has no ByteTree encoding", value)
	}
}

func (o *ObjectWriter) writeObject(path string, obj Object) {
	if o.depth+1 > o.enc.maxDepth {
		violate(path, "object nesting exceeds %d levels", o.enc.maxDepth)
	}
	n := obj.FieldCount(o.enc.info)
	if n&objectFlag != 0 {
		violate(path, "field count %d of %T does not fit the header", n, obj)
	}
	o.enc.writeHeader(n|objectFlag, path)
	child := &ObjectWriter{enc: o.enc, path: path, depth: o.depth + 1, numFields: n}
	obj.WriteFields(child, o.enc.info)
	child.finish()
}

func (o *ObjectWriter) writeScalar(path string, s Scalar) {
	size := s.ScalarSize()
	if size&objectFlag != 0 {
		o.enc.fail(errors.Errorf("scalar of %d bytes exceeds the %d bytes limit", size, objectFlag-1), path)
		return
	}
	o.enc.writeHeader(size, path)
	if o.enc.err != nil {
		return
	}
	start := o.enc.w.Offset()
	if err := s.WriteScalar(o.enc.w); err != nil {
		o.enc.fail(err, path)
		return
	}
	if written := o.enc.w.Offset() - start; written != size {
		violate(path, "scalar %T declares %d bytes, %d written", s, size, written)
	}
}

// Write encodes root as a ByteTree stream with the given protocol version. The root is the only
// field of an implicit object that has no header of its own. On error the writer offset is
// restored; bytes already written to the stream are left in place.
func Write(w *binstream.Writer, version uint32, root any, info UserInfo) error {
	return write(w, version, root, options{info: info, maxDepth: DefaultMaxDepth})
}

func write(w *binstream.Writer, version uint32, root any, o options) error {
	start := w.Offset()
	if err := w.WriteUint32(version); err != nil {
		return errors.Wrap(err, "failed to write protocol version")
	}
	enc := &encoding{w: w, info: o.info, maxDepth: o.maxDepth}
	top := &ObjectWriter{enc: enc, path: "root", numFields: 1}
	top.Write(0, root)
	top.finish()
	if enc.err != nil {
		w.SetOffset(start)
		return enc.err
	}
	return nil
}

// Marshal encodes root into a new byte slice.
func Marshal(version uint32, root any, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	w := binstream.NewWriterToStream(binstream.NewBufferStream(buf, binstream.WithEndianness(o.endianness)))
	if err := write(w, version, root, o); err != nil {
		return nil, err
	}
	return slices.Clone(buf.B), nil
}
