package bytetree

import (
	"unsafe"

	"github.com/pkg/errors"
)

// ObjectReader reads the fields of a decoded object in order, the way a schema-aware consumer
// mirrors the WriteFields of the encoded type.
type ObjectReader struct {
	node Node
	next int
}

func NewObjectReader(n Node) (*ObjectReader, error) {
	if !n.Object {
		return nil, ErrNotObject
	}
	return &ObjectReader{node: n}, nil
}

// Remaining returns the number of unread fields.
func (o *ObjectReader) Remaining() int {
	return len(o.node.Fields) - o.next
}

// Next returns the next field.
func (o *ObjectReader) Next() (Node, error) {
	if o.Remaining() == 0 {
		return Node{}, errors.Errorf("object has %d fields, field %d requested", len(o.node.Fields), o.next)
	}
	n := o.node.Fields[o.next]
	o.next++
	return n, nil
}

// Object returns a reader over the next field, which must be an object.
func (o *ObjectReader) Object() (*ObjectReader, error) {
	n, err := o.Next()
	if err != nil {
		return nil, err
	}
	r, err := NewObjectReader(n)
	if err != nil {
		return nil, errors.Wrapf(err, "field %d", o.next-1)
	}
	return r, nil
}

func (o *ObjectReader) Bytes() ([]byte, error) {
	n, err := o.Next()
	if err != nil {
		return nil, err
	}
	b, err := n.Bytes()
	if err != nil {
		return nil, errors.Wrapf(err, "field %d", o.next-1)
	}
	return b, nil
}

func (o *ObjectReader) Text() (string, error) {
	b, err := o.Bytes()
	return string(b), err
}

func (o *ObjectReader) Bool() (bool, error) {
	n, err := o.Next()
	if err != nil {
		return false, err
	}
	v, err := n.Bool()
	if err != nil {
		return false, errors.Wrapf(err, "field %d", o.next-1)
	}
	return v, nil
}

// ReadUint decodes the next field as a directly encoded integer of exactly the size of T.
func ReadUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](o *ObjectReader) (T, error) {
	n, err := o.Next()
	if err != nil {
		return 0, err
	}
	var zero T
	if size := int(unsafe.Sizeof(zero)); n.Object || n.Len() != size {
		return 0, errors.Errorf("field %d is not a %d-byte integer", o.next-1, size)
	}
	v, err := n.Uint()
	if err != nil {
		return 0, errors.Wrapf(err, "field %d", o.next-1)
	}
	return T(v), nil
}

// Done reports an error if fields remain unread.
func (o *ObjectReader) Done() error {
	if r := o.Remaining(); r != 0 {
		return errors.Errorf("%d of %d fields left unread", r, len(o.node.Fields))
	}
	return nil
}
