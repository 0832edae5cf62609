// Package digest provides named hash functions over byte slices and stream views.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/wavesplatform/binstream/pkg/binstream"
)

// Func maps a byte sequence to its digest.
type Func func(data []byte) []byte

func MD5(data []byte) []byte {
	d := md5.Sum(data)
	return d[:]
}

func SHA1(data []byte) []byte {
	d := sha1.Sum(data)
	return d[:]
}

func SHA256(data []byte) []byte {
	d := sha256.Sum256(data)
	return d[:]
}

// XXHash64 returns the 64-bit xxHash of data in big-endian order.
func XXHash64(data []byte) []byte {
	return binary.BigEndian.AppendUint64(nil, xxhash.Sum64(data))
}

func Blake2b256(data []byte) []byte {
	d := blake2b.Sum256(data)
	return d[:]
}

type named struct {
	fn  Func
	new func() hash.Hash
}

var registry = map[string]named{
	"md5":     {MD5, md5.New},
	"sha1":    {SHA1, sha1.New},
	"sha256":  {SHA256, sha256.New},
	"xxhash":  {XXHash64, func() hash.Hash { return xxhash.New() }},
	"blake2b": {Blake2b256, newBlake2b256},
}

func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // unreachable without a key
	}
	return h
}

// Names returns the registered hash names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the hash function and a streaming constructor registered under name, ignoring case.
func Lookup(name string) (Func, func() hash.Hash, error) {
	n, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, nil, errors.Errorf("unknown hash %q, supported: %s", name, strings.Join(Names(), ", "))
	}
	return n.fn, n.new, nil
}

// Stream feeds every contiguous chunk of ref into h and returns the resulting sum.
// h is not reset first.
func Stream(ref binstream.StreamRef, h hash.Hash) ([]byte, error) {
	r := binstream.NewReader(ref)
	for !r.Empty() {
		chunk, err := r.ReadLongestContiguousChunk()
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash stream")
		}
		if _, err := h.Write(chunk); err != nil {
			return nil, errors.Wrap(err, "failed to hash stream")
		}
	}
	return h.Sum(nil), nil
}
