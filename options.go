package discogo

import (
	"log/slog"

	"github.com/hupe1980/discogo/internal/resource"
	"github.com/hupe1980/discogo/view"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	viewOptions      []func(*view.Options)
	limits           resource.Config
	resources        *resource.Controller
}

// Option configures Open and OpenBlob.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &discogo.BasicMetricsCollector{}
//	db, _ := discogo.Open("fruits.ddb", discogo.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := discogo.NewJSONLogger(slog.LevelInfo)
//	db, _ := discogo.Open("fruits.ddb", discogo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithViewOptions configures how LoadView builds views.
func WithViewOptions(optFns ...func(*view.Options)) Option {
	return func(o *options) {
		o.viewOptions = append(o.viewOptions, optFns...)
	}
}

// WithMemoryLimit caps the bytes OpenBlob may copy out of a blob store.
// Opening an index that does not fit fails with ErrMemoryLimitExceeded.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.limits.MemoryLimitBytes = bytes
	}
}

// WithMaxConcurrentQueries caps the number of queries evaluated at once.
// Further queries wait for a free slot or for their context to end.
func WithMaxConcurrentQueries(n int) Option {
	return func(o *options) {
		o.limits.MaxConcurrentQueries = int64(n)
	}
}

// WithBlobReadLimit paces blob reads to bytesPerSec.
func WithBlobReadLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.limits.ReadBytesPerSec = bytesPerSec
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if !o.limits.Unlimited() {
		o.resources = resource.NewController(o.limits)
	}
	return o
}
