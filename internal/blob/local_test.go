package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/files-manager/internal/config"
)

func TestLocal_PutGetDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(filepath.Join(dir, "nested", "files"))
	require.NoError(t, err)
	ctx := context.Background()

	key := NewKey()
	require.NoError(t, s.Put(ctx, key, []byte("Hello Webstack!\n")))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!\n", string(got))

	// overwrite keeps a single file
	require.NoError(t, s.Put(ctx, key, []byte("v2")))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	entries, err := os.ReadDir(filepath.Join(dir, "nested", "files"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocal_InvalidKeys(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, k := range []string{"", ".", "..", "../etc/passwd", `a\b`, "a/b"} {
		assert.ErrorIs(t, s.Put(ctx, k, []byte("x")), ErrInvalidKey, k)
		_, err := s.Get(ctx, k)
		assert.ErrorIs(t, err, ErrInvalidKey, k)
	}
}

func TestNewKey_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		k := NewKey()
		assert.False(t, seen[k])
		seen[k] = true
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), config.StorageConfig{Driver: "local", FolderPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	_, err = Open(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
