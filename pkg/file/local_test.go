package file_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/winery/pkg/file"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLocalSource(t *testing.T) {
	t.Parallel()

	_, err := file.NewLocalSource("")
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	src, err := file.NewLocalSource(".")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(src.BaseDir()))
}

func TestLocalSource_Open(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	abs := writeFile(t, dir, "tanks/t7.csv", "hello")
	src, err := file.NewLocalSource(dir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("relative path", func(t *testing.T) {
		rc, err := src.Open(ctx, "tanks/t7.csv")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("absolute path inside base", func(t *testing.T) {
		rc, err := src.Open(ctx, abs)
		require.NoError(t, err)
		_ = rc.Close()
	})

	t.Run("traversal", func(t *testing.T) {
		_, err := src.Open(ctx, "../etc/passwd")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})

	t.Run("absolute path outside base", func(t *testing.T) {
		_, err := src.Open(ctx, filepath.Join(os.TempDir(), "elsewhere.csv"))
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := src.Open(ctx, "missing.csv")
		assert.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := src.Open(ctx, "tanks")
		assert.ErrorIs(t, err, file.ErrIsDirectory)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := src.Open(cctx, "tanks/t7.csv")
		assert.ErrorIs(t, err, file.ErrOperationCanceled)
	})
}
