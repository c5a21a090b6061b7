package discogo

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/discogo/blobstore"
	"github.com/hupe1980/discogo/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyStore serves blobs that must be copied out, like a remote store.
type copyStore struct {
	*blobstore.MemoryStore
	closed *int
}

type copyBlob struct {
	data   []byte
	closed *int
}

func (s copyStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return nil, err
	}
	return &copyBlob{data: data, closed: s.closed}, nil
}

func (b *copyBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return copy(p, b.data[off:]), nil
}

func (b *copyBlob) Close() error {
	if b.closed != nil {
		*b.closed++
	}
	return nil
}
func (b *copyBlob) Size() int64  { return int64(len(b.data)) }

func newCopyStore(t *testing.T) (copyStore, int64) {
	t.Helper()
	data := buildFruits(t)
	store := copyStore{MemoryStore: blobstore.NewMemoryStore(), closed: new(int)}
	require.NoError(t, store.Put(context.Background(), "fruits.ddb", data))
	return store, int64(len(data))
}

func TestOpenBlob_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	store, size := newCopyStore(t)

	_, err := OpenBlob(ctx, store, "fruits.ddb", WithMemoryLimit(size-1))
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	var oe *ErrOpen
	assert.ErrorAs(t, err, &oe)

	db, err := OpenBlob(ctx, store, "fruits.ddb", WithMemoryLimit(size), WithBlobReadLimit(1<<20))
	require.NoError(t, err)
	assert.Equal(t, size, db.opts.resources.MemoryUsage())

	cur, err := db.QueryString(ctx, "sour", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"lemon"}, collect(t, cur))

	require.NoError(t, db.Close())
	assert.Equal(t, int64(0), db.opts.resources.MemoryUsage())
}

func TestOpenBlob_FailureReleases(t *testing.T) {
	ctx := context.Background()
	store, size := newCopyStore(t)

	corrupt := buildFruits(t)
	corrupt[len(corrupt)-1] ^= 0xff
	require.NoError(t, store.Put(ctx, "corrupt.ddb", corrupt))

	opts := applyOptions([]Option{WithMemoryLimit(size)})
	_, err := openBlob(ctx, store, "corrupt.ddb", opts)
	assert.ErrorIs(t, err, index.ErrChecksum)
	var oe *ErrOpen
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, int64(0), opts.resources.MemoryUsage())
	assert.Equal(t, 1, *store.closed)

	_, err = openBlob(ctx, store, "fruits.ddb", applyOptions([]Option{WithMemoryLimit(size - 1)}))
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, 2, *store.closed)

	db, err := openBlob(ctx, store, "fruits.ddb", opts)
	require.NoError(t, err)
	assert.Equal(t, size, opts.resources.MemoryUsage())
	assert.Equal(t, 2, *store.closed)
	require.NoError(t, db.Close())
	assert.Equal(t, 3, *store.closed)
}

func TestDB_MaxConcurrentQueries(t *testing.T) {
	db, err := Open(writeFruits(t), WithMaxConcurrentQueries(1))
	require.NoError(t, err)
	defer db.Close()

	rc := db.opts.resources
	require.NoError(t, rc.AcquireQuery(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = db.QueryString(ctx, "red", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	rc.ReleaseQuery()
	cur, err := db.QueryString(context.Background(), "red", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cur.Size())
	assert.Equal(t, int64(0), rc.QueriesInFlight())
}
