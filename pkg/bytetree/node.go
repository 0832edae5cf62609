package bytetree

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/wavesplatform/binstream/pkg/binstream"
	"github.com/wavesplatform/binstream/pkg/errs"
)

var (
	ErrNotObject = errors.New("node is not an object")
	ErrNotScalar = errors.New("node is not a scalar")
)

// Node is a decoded ByteTree value. Objects hold their fields, scalars a view of their content
// in the decoded stream.
type Node struct {
	Object bool
	Fields []Node
	Data   binstream.StreamRef
}

// Len returns the number of fields of an object and the byte length of a scalar.
func (n Node) Len() int {
	if n.Object {
		return len(n.Fields)
	}
	return int(n.Data.Length())
}

// Field returns field i of an object.
func (n Node) Field(i int) (Node, error) {
	if !n.Object {
		return Node{}, ErrNotObject
	}
	if i < 0 || i >= len(n.Fields) {
		return Node{}, errs.NewInvalidOffset(fmt.Sprintf("field %d requested from an object of %d fields", i, len(n.Fields)))
	}
	return n.Fields[i], nil
}

// Bytes returns the content of a scalar.
func (n Node) Bytes() ([]byte, error) {
	if n.Object {
		return nil, ErrNotScalar
	}
	return n.Data.ReadBytes(0, n.Data.Length())
}

// Text returns the content of a scalar as a string.
func (n Node) Text() (string, error) {
	b, err := n.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Uint decodes a directly encoded unsigned integer of 1, 2, 4 or 8 bytes in host byte order.
func (n Node) Uint() (uint64, error) {
	b, err := n.Bytes()
	if err != nil {
		return 0, err
	}
	switch len(b) {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.NativeEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.NativeEndian.Uint32(b)), nil
	case 8:
		return binary.NativeEndian.Uint64(b), nil
	default:
		return 0, errors.Errorf("scalar of %d bytes is not an integer", len(b))
	}
}

// Bool decodes a one-byte boolean scalar.
func (n Node) Bool() (bool, error) {
	b, err := n.Bytes()
	if err != nil {
		return false, err
	}
	if len(b) != 1 || b[0] > 1 {
		return false, errors.Errorf("scalar %v is not a boolean", b)
	}
	return b[0] == 1, nil
}

// Decode reads a ByteTree stream from r and returns its protocol version and root value.
// Scalars are zero-copy views into r's stream. On error the reader offset is unchanged.
func Decode(r *binstream.Reader, opts ...Option) (uint32, Node, error) {
	o := newOptions(opts)
	start := r.Offset()
	version, err := r.ReadUint32()
	if err != nil {
		return 0, Node{}, errors.Wrap(err, "failed to read protocol version")
	}
	root, err := decodeNode(r, 0, o.maxDepth, "root")
	if err != nil {
		r.SetOffset(start)
		return 0, Node{}, err
	}
	return version, root, nil
}

// Unmarshal decodes a ByteTree stream held in data.
func Unmarshal(data []byte, opts ...Option) (uint32, Node, error) {
	o := newOptions(opts)
	return Decode(binstream.NewReaderFromBytes(data, o.endianness), opts...)
}

func decodeNode(r *binstream.Reader, depth, maxDepth int, path string) (Node, error) {
	header, err := r.ReadUint32()
	if err != nil {
		return Node{}, errors.Wrapf(err, "failed to read header of %s", path)
	}
	if header&objectFlag == 0 {
		data, err := r.ReadStreamRef(header)
		if err != nil {
			return Node{}, errors.Wrapf(err, "failed to read scalar %s", path)
		}
		return Node{Data: data}, nil
	}
	if depth >= maxDepth {
		return Node{}, errors.Errorf("object %s nests deeper than %d levels", path, maxDepth)
	}
	count := header &^ objectFlag
	// Every field needs at least its header word.
	if count > r.BytesRemaining()/4 {
		return Node{}, errs.NewStreamTooShort(
			fmt.Sprintf("object %s declares %d fields, only %d bytes remain", path, count, r.BytesRemaining()),
		)
	}
	node := Node{Object: true, Fields: make([]Node, 0, count)}
	for i := range count {
		field, err := decodeNode(r, depth+1, maxDepth, fmt.Sprintf("%s.%d", path, i))
		if err != nil {
			return Node{}, err
		}
		node.Fields = append(node.Fields, field)
	}
	return node, nil
}
