package binstream

import (
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/binstream/pkg/errs"
)

func TestFileStreamCommit(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := OpenFileStream(fs, "/data/tree.bin", WithLogger(slogt.New(t)))
	require.NoError(t, err)
	assert.EqualValues(t, 0, s.Length())
	assert.Equal(t, "/data/tree.bin", s.Path())

	w := NewWriterToStream(s)
	require.NoError(t, w.WriteCString("hello"))
	require.NoError(t, w.WriteUint32(0xdeadbeef))
	require.NoError(t, w.Commit())

	b, err := afero.ReadFile(fs, "/data/tree.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{'h', 'e', 'l', 'l', 'o', 0, 0xef, 0xbe, 0xad, 0xde}, b)
	exists, err := afero.Exists(fs, "/data/tree.bin"+tempSuffix)
	require.NoError(t, err)
	assert.False(t, exists)

	reopened, err := OpenFileStream(fs, "/data/tree.bin")
	require.NoError(t, err)
	r := NewReaderFromStream(reopened)
	str, err := r.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "hello", str)
	v, err := r.ReadUint32()
	require.NoError(t, err)
	assert.EqualValues(t, 0xdeadbeef, v)
}

func TestFileStreamCommitFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/tree.bin", []byte{1, 2}, 0o644))
	s, err := OpenFileStream(afero.NewReadOnlyFs(base), "/tree.bin", WithLogger(slogt.New(t)))
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.Length())
	require.NoError(t, s.WriteBytes(2, []byte{3}))

	err = s.Commit()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.FilesystemError{})
	assert.True(t, errs.IsStreamError(err))
}
