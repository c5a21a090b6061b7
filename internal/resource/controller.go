package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/hupe1980/discogo/blobstore"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// DefaultReadChunk is the largest single read issued by ReadAll when a rate
// limit is configured.
const DefaultReadChunk = 1 << 20

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MemoryLimitBytes caps the bytes held by blob-backed indexes.
	MemoryLimitBytes int64

	// MaxConcurrentQueries caps the number of queries evaluated at once.
	MaxConcurrentQueries int64

	// ReadBytesPerSec caps the throughput of blob reads.
	ReadBytesPerSec int64
}

// Unlimited reports whether cfg imposes no limit at all.
func (cfg Config) Unlimited() bool {
	return cfg.MemoryLimitBytes <= 0 && cfg.MaxConcurrentQueries <= 0 && cfg.ReadBytesPerSec <= 0
}

// Controller enforces a Config.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	querySem *semaphore.Weighted // nil if unlimited
	inFlight atomic.Int64

	ioLimiter *rate.Limiter // nil if unlimited
	chunk     int
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg, chunk: DefaultReadChunk}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.MaxConcurrentQueries > 0 {
		c.querySem = semaphore.NewWeighted(cfg.MaxConcurrentQueries)
	}
	if cfg.ReadBytesPerSec > 0 {
		burst := int(min(cfg.ReadBytesPerSec, int64(DefaultReadChunk)))
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.ReadBytesPerSec), burst)
		c.chunk = burst
	}
	return c
}

// Config returns the limits the controller enforces.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves bytes without blocking.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrMemoryLimitExceeded, bytes, c.memUsed.Load(), c.cfg.MemoryLimitBytes)
	}
	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireQuery blocks until a query slot is free or ctx is done.
func (c *Controller) AcquireQuery(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	if c.querySem != nil {
		if err := c.querySem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.inFlight.Add(1)
	return nil
}

// ReleaseQuery frees a slot taken by AcquireQuery.
func (c *Controller) ReleaseQuery() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	if c.querySem != nil {
		c.querySem.Release(1)
	}
}

// QueriesInFlight returns the number of held query slots.
func (c *Controller) QueriesInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireIO waits until the read limit admits n bytes. n must not exceed
// the limiter burst; ReadAll splits reads accordingly.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, n)
}

// ReadAll reads the full content of b, pacing reads to the configured rate.
// Mappable blobs and unlimited controllers defer to blobstore.ReadAll.
func (c *Controller) ReadAll(ctx context.Context, b blobstore.Blob) ([]byte, error) {
	if _, ok := b.(blobstore.Mappable); ok || c == nil || c.ioLimiter == nil {
		return blobstore.ReadAll(ctx, b)
	}

	size := b.Size()
	if size < 0 {
		return nil, fmt.Errorf("resource: negative blob size %d", size)
	}
	buf := make([]byte, size)
	for off := int64(0); off < size; {
		n := int(min(int64(c.chunk), size-off))
		if err := c.AcquireIO(ctx, n); err != nil {
			return nil, err
		}
		got, err := b.ReadAt(ctx, buf[off:off+int64(n)], off)
		off += int64(got)
		if err != nil && !(errors.Is(err, io.EOF) && off == size) {
			return nil, err
		}
		if got == 0 && off < size {
			return nil, io.ErrUnexpectedEOF
		}
	}
	return buf, nil
}
