package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecursiveWatcher_Add(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755))

	rw, err := NewRecursiveWatcher()
	require.NoError(t, err)
	defer rw.Close()

	require.NoError(t, rw.Add(root))
	assert.Equal(t, 4, rw.Watched())

	require.NoError(t, rw.Add(root))
	assert.Equal(t, 4, rw.Watched())
}

func TestRecursiveWatcher_AddRejectsFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	rw, err := NewRecursiveWatcher()
	require.NoError(t, err)
	defer rw.Close()

	assert.ErrorIs(t, rw.Add(file), ErrNotADirectory)
	assert.Error(t, rw.Add(filepath.Join(t.TempDir(), "missing")))
}

func TestRecursiveWatcher_CloseTwice(t *testing.T) {
	rw, err := NewRecursiveWatcher()
	require.NoError(t, err)
	assert.NoError(t, rw.Close())
	assert.NoError(t, rw.Close())
}

func TestWatcher_RealFilesystem(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "sub", "deeper")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	rec := newRecorder()
	w, err := New(50*time.Millisecond, rec.onChange)
	require.NoError(t, err)
	require.NoError(t, w.Add(root))
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(deep, "test.txt"), []byte("data"), 0o644))
	assert.Eventually(t, func() bool { return rec.count(root) >= 1 }, 3*time.Second, 20*time.Millisecond)

	// Directories created after Add are picked up.
	fresh := filepath.Join(root, "fresh")
	require.NoError(t, os.Mkdir(fresh, 0o755))
	time.Sleep(150 * time.Millisecond)
	before := rec.count(root)
	require.NoError(t, os.WriteFile(filepath.Join(fresh, "new.txt"), []byte("data"), 0o644))
	assert.Eventually(t, func() bool { return rec.count(root) > before }, 3*time.Second, 20*time.Millisecond)
}
