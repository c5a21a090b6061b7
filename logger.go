package discogo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/discogo/cnf"
)

// Logger wraps slog.Logger with discogo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithIndex adds the index name to the logger.
func (l *Logger) WithIndex(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", name),
	}
}

// LogOpen logs opening an index.
func (l *Logger) LogOpen(ctx context.Context, name string, keys, values int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "index opened",
		"name", name,
		"keys", keys,
		"unique_values", values,
	)
}

// LogLookup logs a key, value, or item listing.
func (l *Logger) LogLookup(ctx context.Context, kind string, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lookup failed",
			"kind", kind,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "lookup completed",
		"kind", kind,
		"results", results,
	)
}

// LogQuery logs a CNF query.
func (l *Logger) LogQuery(ctx context.Context, q *cnf.Query, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"clauses", q.NumClauses(),
		"terms", q.NumTerms(),
		"results", results,
	)
}

// LogParsedQuery dumps every clause of q at debug level.
func (l *Logger) LogParsedQuery(ctx context.Context, q *cnf.Query) {
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	for i, clause := range q.Clauses() {
		terms := make([]string, len(clause))
		for j, t := range clause {
			terms[j] = t.Token()
		}
		l.DebugContext(ctx, "clause",
			"index", i,
			"terms", terms,
		)
	}
}

// LogViewLoad logs building a view.
func (l *Logger) LogViewLoad(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "view load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "view loaded",
		"name", name,
		"size", size,
	)
}
