// Package resource enforces per-DB limits on memory, query concurrency and
// blob read throughput.
//
//	┌──────────────────────────────────────────────────────────┐
//	│                        Controller                        │
//	├──────────────────┬──────────────────┬────────────────────┤
//	│  Memory limit    │  Query slots     │  Read rate limiter │
//	│  (fail-fast)     │  (semaphore)     │  (token bucket)    │
//	├──────────────────┼──────────────────┼────────────────────┤
//	│  AcquireMemory   │  AcquireQuery    │  AcquireIO         │
//	│  ReleaseMemory   │  ReleaseQuery    │  ReadAll           │
//	└──────────────────┴──────────────────┴────────────────────┘
//
// Memory accounts for index and view data copied out of a blob store.
// AcquireMemory never blocks; it fails with ErrMemoryLimitExceeded and the
// caller decides what to do.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:     1 << 30,
//	    MaxConcurrentQueries: 8,
//	    ReadBytesPerSec:      64 << 20,
//	})
//
// All methods are safe for concurrent use and a nil *Controller is valid: it
// imposes no limits.
package resource
