package binstream

import (
	"log/slog"
	"os"

	"github.com/wavesplatform/binstream/pkg/libs/bytespool"
)

const (
	defaultFileMode  os.FileMode = 0o644
	defaultChunkSize             = 4096
	defaultPoolSize              = 64
)

type options struct {
	endianness Endianness
	logger     *slog.Logger
	fileMode   os.FileMode
	pool       bytespool.Pool
}

func newOptions(opts []Option) options {
	o := options{
		endianness: LittleEndian,
		fileMode:   defaultFileMode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Option configures a stream at construction.
type Option func(*options)

// WithEndianness sets the byte order the stream reports for multi-byte values. Little-endian by default.
func WithEndianness(e Endianness) Option {
	return func(o *options) {
		o.endianness = e
	}
}

// WithLogger sets the logger used by streams that touch durable storage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFileMode sets the permissions of files created by FileStream.Commit.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// WithChunkPool sets the pool ChunkedStream takes its chunks from.
func WithChunkPool(pool bytespool.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}
