package binstream

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/wavesplatform/binstream/pkg/errs"
	"github.com/wavesplatform/binstream/pkg/logging"
)

const tempSuffix = ".tmp"

// FileStream is an append-capable in-memory buffer bound to a file. The file content is loaded
// when the stream is opened and replaced atomically on Commit.
type FileStream struct {
	*GrowingByteStream
	fs     afero.Fs
	path   string
	mode   os.FileMode
	logger *slog.Logger
}

// OpenFileStream loads the file at path, or starts empty if it does not exist yet.
func OpenFileStream(fs afero.Fs, path string, opts ...Option) (*FileStream, error) {
	o := newOptions(opts)
	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		data = nil
	case err != nil:
		return nil, errs.NewFilesystemError(err, "failed to load file stream")
	}
	if len(data) != int(lengthOf(data)) {
		return nil, errs.NewFilesystemError(nil, "file is too large for a stream")
	}
	o.logger.Debug("File stream opened", slog.String("path", path), slog.Int("size", len(data)))
	return &FileStream{
		GrowingByteStream: NewGrowingByteStreamFrom(data, WithEndianness(o.endianness)),
		fs:                fs,
		path:              path,
		mode:              o.fileMode,
		logger:            o.logger,
	}, nil
}

// Commit writes the content to a temporary file next to the target and renames it over the target.
func (a *FileStream) Commit() error {
	tmp := a.path + tempSuffix
	if err := afero.WriteFile(a.fs, tmp, a.Data(), a.mode); err != nil {
		a.logger.Error("Failed to write file stream", slog.String("path", tmp), logging.Error(err))
		return errs.NewFilesystemError(err, "failed to commit file stream")
	}
	if err := a.fs.Rename(tmp, a.path); err != nil {
		a.logger.Error("Failed to replace file", slog.String("path", a.path), logging.Error(err))
		_ = a.fs.Remove(tmp)
		return errs.NewFilesystemError(err, "failed to commit file stream")
	}
	a.logger.Debug("File stream committed", slog.String("path", a.path), slog.Int("size", len(a.Data())))
	return nil
}

func (a *FileStream) Path() string {
	return a.path
}
