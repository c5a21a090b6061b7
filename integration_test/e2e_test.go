package integration_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/discogo"
	"github.com/hupe1980/discogo/blobstore"
	"github.com/hupe1980/discogo/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapes = `
red apple red cherry yellow banana
round apple round cherry round orange
long banana long orange
`

func pack(t *testing.T) []byte {
	t.Helper()
	b := index.NewBuilder()
	defer b.Release()

	n, err := discogo.ReadPairs(strings.NewReader(shapes), b)
	require.NoError(t, err)
	require.Equal(t, 8, n)

	data, err := b.Finalize(func(o *index.FinalizeOptions) { o.UniqueItems = true })
	require.NoError(t, err)
	return data
}

func TestEndToEnd_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.ddb")
	require.NoError(t, discogo.WriteFile(path, pack(t)))

	db, err := discogo.Open(path)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	cur, err := db.QueryString(ctx, "round & ~red", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"orange"}, drain(t, cur))

	info := db.Info()
	assert.Equal(t, uint64(4), info.NumKeys)
	assert.Equal(t, uint64(4), info.NumUniqueValues)
}

func TestEndToEnd_BlobStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "indexes/shapes.ddb", pack(t)))
	require.NoError(t, store.Put(ctx, "views/citrus", []byte("orange\nbanana\n")))

	db, err := discogo.OpenBlob(ctx, store, "indexes/shapes.ddb")
	require.NoError(t, err)
	defer db.Close()

	v, err := db.LoadViewBlob(ctx, store, "views/citrus")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Size())

	cur, err := db.QueryString(ctx, "round long", v)
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "orange"}, drain(t, cur))

	cur, err = db.Get(ctx, []byte("long"))
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "orange"}, drain(t, cur))

	_, err = db.QueryString(ctx, "round &", nil)
	assert.ErrorIs(t, err, discogo.ErrInvalidQuery)
}
