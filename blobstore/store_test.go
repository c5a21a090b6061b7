package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/discogo/internal/fs"
	"github.com/hupe1980/discogo/internal/mmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	data := []byte("hello world, this is a test blob")
	require.NoError(t, store.Put(ctx, "nested/index.ddb", data))

	_, err := os.Stat(filepath.Join(tmpDir, "nested", "index.ddb"))
	require.NoError(t, err)

	before := mmap.Live()
	blob, err := store.Open(ctx, "nested/index.ddb")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, all)

	require.NoError(t, blob.Close())
	assert.Equal(t, before, mmap.Live())

	// Overwrite is atomic and leaves no temp files behind.
	require.NoError(t, store.Put(ctx, "nested/index.ddb", []byte("v2")))
	entries, err := os.ReadDir(filepath.Join(tmpDir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_EmptyBlob(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "empty", nil))
	blob, err := store.Open(ctx, "empty")
	require.NoError(t, err)
	defer blob.Close()

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLocalStore_PutFailure(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "index.ddb", []byte("v1")))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
	store.fsys = ffs

	err := store.Put(ctx, "index.ddb", []byte("v2"))
	assert.ErrorIs(t, err, fs.ErrInjected)

	data, err := os.ReadFile(filepath.Join(dir, "index.ddb"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("payload")
	require.NoError(t, store.Put(ctx, "a/1", data))
	require.NoError(t, store.Put(ctx, "a/2", nil))
	require.NoError(t, store.Put(ctx, "b/1", nil))
	data[0] = 'X'

	assert.Equal(t, []string{"a/1", "a/2"}, store.Names("a/"))

	blob, err := store.Open(ctx, "a/1")
	require.NoError(t, err)
	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(all))

	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 3)
	assert.Equal(t, 4, n)
	assert.Equal(t, io.EOF, err)

	_, err = store.Open(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

// readerBlob hides Mappable so ReadAll takes the ReadAt path.
type readerBlob struct{ Blob }

func TestReadAll_ReadAt(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "x", []byte("0123456789")))

	blob, err := store.Open(ctx, "x")
	require.NoError(t, err)

	all, err := ReadAll(ctx, readerBlob{blob})
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(all))
}
