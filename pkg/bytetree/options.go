package bytetree

import "github.com/wavesplatform/binstream/pkg/binstream"

// DefaultMaxDepth bounds the nesting of objects accepted by the encoder and the decoder.
const DefaultMaxDepth = 256

type options struct {
	endianness binstream.Endianness
	info       UserInfo
	maxDepth   int
}

func newOptions(opts []Option) options {
	o := options{
		endianness: binstream.LittleEndian,
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures Marshal, Unmarshal and Decode.
type Option func(*options)

// WithEndianness sets the byte order of header words. The default is little-endian.
func WithEndianness(e binstream.Endianness) Option {
	return func(o *options) {
		o.endianness = e
	}
}

// WithUserInfo sets the dictionary passed to every Object and Wrapper.
func WithUserInfo(info UserInfo) Option {
	return func(o *options) {
		o.info = info
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}
