package discogo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package prom
// provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordOpen is called after an index is opened.
	RecordOpen(duration time.Duration, err error)

	// RecordLookup is called after Get, Keys, Values, or UniqueValues.
	// kind is one of "item", "keys", "values", "unique_values".
	RecordLookup(kind string, duration time.Duration, err error)

	// RecordQuery is called after each CNF query. clauses is the number of
	// parsed clauses (0 if parsing failed), results the size of the result set.
	RecordQuery(clauses, results int, duration time.Duration, err error)

	// RecordViewLoad is called after a view is built. size is the number of
	// distinct index values the view admits.
	RecordViewLoad(size int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)            {}
func (NoopMetricsCollector) RecordLookup(string, time.Duration, error)  {}
func (NoopMetricsCollector) RecordQuery(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordViewLoad(int, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount       atomic.Int64
	OpenErrors      atomic.Int64
	LookupCount     atomic.Int64
	LookupErrors    atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryResults    atomic.Int64
	QueryTotalNanos atomic.Int64
	ViewLoadCount   atomic.Int64
	ViewLoadErrors  atomic.Int64
	ViewEntries     atomic.Int64
	ViewTotalNanos  atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(_ time.Duration, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(_ string, _ time.Duration, err error) {
	b.LookupCount.Add(1)
	if err != nil {
		b.LookupErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_, results int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryResults.Add(int64(results))
}

// RecordViewLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordViewLoad(size int, duration time.Duration, err error) {
	b.ViewLoadCount.Add(1)
	b.ViewTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ViewLoadErrors.Add(1)
		return
	}
	b.ViewEntries.Add(int64(size))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:        b.OpenCount.Load(),
		OpenErrors:       b.OpenErrors.Load(),
		LookupCount:      b.LookupCount.Load(),
		LookupErrors:     b.LookupErrors.Load(),
		QueryCount:       b.QueryCount.Load(),
		QueryErrors:      b.QueryErrors.Load(),
		QueryResults:     b.QueryResults.Load(),
		QueryAvgNanos:    avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		ViewLoadCount:    b.ViewLoadCount.Load(),
		ViewLoadErrors:   b.ViewLoadErrors.Load(),
		ViewEntries:      b.ViewEntries.Load(),
		ViewLoadAvgNanos: avg(b.ViewTotalNanos.Load(), b.ViewLoadCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount        int64
	OpenErrors       int64
	LookupCount      int64
	LookupErrors     int64
	QueryCount       int64
	QueryErrors      int64
	QueryResults     int64
	QueryAvgNanos    int64
	ViewLoadCount    int64
	ViewLoadErrors   int64
	ViewEntries      int64
	ViewLoadAvgNanos int64
}
