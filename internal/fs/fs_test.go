package fs_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/mediadecoder/internal/fs"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bmp")
	require.NoError(t, os.WriteFile(path, []byte("BM0123456789"), 0644))

	f, err := fs.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	require.Equal(t, int64(12), info.Size())

	var buf [4]byte
	_, err = f.ReadAt(buf[:], 2)
	require.NoError(t, err)
	require.Equal(t, "0123", string(buf[:]))

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "BM0123456789", string(data))

	_, err = fs.Open(filepath.Join(t.TempDir(), "missing.jpg"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
