package resource

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/discogo/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	rc := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, rc.AcquireMemory(60))
	assert.Equal(t, int64(60), rc.MemoryUsage())

	err := rc.AcquireMemory(50)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(60), rc.MemoryUsage())

	rc.ReleaseMemory(60)
	require.NoError(t, rc.AcquireMemory(100))
	assert.Equal(t, int64(100), rc.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	rc := NewController(Config{})
	assert.True(t, rc.Config().Unlimited())
	require.NoError(t, rc.AcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), rc.MemoryUsage())
}

func TestController_Queries(t *testing.T) {
	rc := NewController(Config{MaxConcurrentQueries: 2})
	ctx := context.Background()

	require.NoError(t, rc.AcquireQuery(ctx))
	require.NoError(t, rc.AcquireQuery(ctx))
	assert.Equal(t, int64(2), rc.QueriesInFlight())

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rc.AcquireQuery(short), context.DeadlineExceeded)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, rc.AcquireQuery(ctx))
		rc.ReleaseQuery()
	}()
	rc.ReleaseQuery()
	wg.Wait()
	rc.ReleaseQuery()
	assert.Equal(t, int64(0), rc.QueriesInFlight())
}

func TestController_NilChecks(t *testing.T) {
	var rc *Controller
	ctx := context.Background()

	assert.NoError(t, rc.AcquireMemory(10))
	rc.ReleaseMemory(10)
	assert.Equal(t, int64(0), rc.MemoryUsage())
	assert.NoError(t, rc.AcquireQuery(ctx))
	rc.ReleaseQuery()
	assert.NoError(t, rc.AcquireIO(ctx, 10))
	assert.Equal(t, Config{}, rc.Config())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, rc.AcquireQuery(canceled), context.Canceled)
}

// chunkedBlob hides Bytes so reads go through ReadAt.
type chunkedBlob struct {
	data  []byte
	reads int
}

func (b *chunkedBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	b.reads++
	return copy(p, b.data[off:]), nil
}

func (b *chunkedBlob) Close() error { return nil }
func (b *chunkedBlob) Size() int64  { return int64(len(b.data)) }

func TestController_ReadAll(t *testing.T) {
	data := make([]byte, 10_000)
	for i := range data {
		data[i] = byte(i)
	}

	rc := NewController(Config{ReadBytesPerSec: 1 << 30})
	rc.chunk = 4096

	blob := &chunkedBlob{data: data}
	got, err := rc.ReadAll(context.Background(), blob)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, 3, blob.reads)
}

func TestController_ReadAllCanceled(t *testing.T) {
	rc := NewController(Config{ReadBytesPerSec: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rc.ReadAll(ctx, &chunkedBlob{data: make([]byte, 64)})
	assert.Error(t, err)
}

func TestController_ReadAllMappable(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "b", []byte("hello")))
	blob, err := store.Open(ctx, "b")
	require.NoError(t, err)

	rc := NewController(Config{ReadBytesPerSec: 1})
	got, err := rc.ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}
