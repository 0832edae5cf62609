package bytetree

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// tree converts a node into nested []any of []byte leaves.
func (n Node) tree() (any, error) {
	if !n.Object {
		return n.Bytes()
	}
	fields := make([]any, len(n.Fields))
	for i, f := range n.Fields {
		v, err := f.tree()
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return fields, nil
}

// ToCBOR exports a node in deterministic CBOR: objects become arrays and scalars byte strings.
func ToCBOR(n Node) ([]byte, error) {
	v, err := n.tree()
	if err != nil {
		return nil, err
	}
	b, err := cborMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode CBOR")
	}
	return b, nil
}

// DiagnoseCBOR renders CBOR produced by ToCBOR in extended diagnostic notation.
func DiagnoseCBOR(data []byte) (string, error) {
	s, err := cbor.Diagnose(data)
	if err != nil {
		return "", errors.Wrap(err, "failed to diagnose CBOR")
	}
	return s, nil
}

// MarshalJSON renders objects as arrays and scalars as Base58 strings.
func (n Node) MarshalJSON() ([]byte, error) {
	if !n.Object {
		b, err := n.Bytes()
		if err != nil {
			return nil, err
		}
		return json.Marshal(base58.Encode(b))
	}
	if n.Fields == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n.Fields)
}

// Format writes an indented text dump of the node. Printable scalars are shown quoted, others in hex.
func (n Node) Format(w io.Writer) error {
	return n.format(w, "", "root")
}

func (n Node) format(w io.Writer, indent, name string) error {
	if n.Object {
		if _, err := fmt.Fprintf(w, "%s%s: object(%d)\n", indent, name, len(n.Fields)); err != nil {
			return err
		}
		for i, f := range n.Fields {
			if err := f.format(w, indent+"  ", strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	}
	b, err := n.Bytes()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s%s: scalar(%d) %s\n", indent, name, len(b), renderScalar(b))
	return err
}

func renderScalar(b []byte) string {
	if len(b) == 0 {
		return `""`
	}
	if utf8.Valid(b) && strings.IndexFunc(string(b), func(r rune) bool { return !unicode.IsPrint(r) }) < 0 {
		return strconv.Quote(string(b))
	}
	return "0x" + hex.EncodeToString(b)
}
