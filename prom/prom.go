// Package prom exports discogo operation metrics to Prometheus.
package prom

import (
	"time"

	"github.com/hupe1980/discogo"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements discogo.MetricsCollector with Prometheus collectors.
type Collector struct {
	OpensTotal      *prometheus.CounterVec
	LookupsTotal    *prometheus.CounterVec
	QueriesTotal    *prometheus.CounterVec
	QueryLatency    prometheus.Histogram
	QueryClauses    prometheus.Histogram
	QueryResults    prometheus.Histogram
	ViewLoadsTotal  *prometheus.CounterVec
	ViewLoadLatency prometheus.Histogram
	ViewSize        prometheus.Gauge
}

var _ discogo.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers it with reg. A nil reg registers with
// the default registry.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		OpensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discogo_opens_total",
				Help: "Total index opens by status.",
			},
			[]string{"status"},
		),
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discogo_lookups_total",
				Help: "Total lookups by kind (item, keys, values, unique_values) and status.",
			},
			[]string{"kind", "status"},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discogo_queries_total",
				Help: "Total CNF queries by status (ok, empty, error).",
			},
			[]string{"status"},
		),
		QueryLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "discogo_query_latency_seconds",
				Help:    "CNF query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
			},
		),
		QueryClauses: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "discogo_query_clauses",
				Help:    "Number of clauses per parsed query.",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
			},
		),
		QueryResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "discogo_query_results",
				Help:    "Number of values returned per query.",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
		),
		ViewLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "discogo_view_loads_total",
				Help: "Total view loads by status.",
			},
			[]string{"status"},
		),
		ViewLoadLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "discogo_view_load_latency_seconds",
				Help:    "View load latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
		ViewSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "discogo_view_size",
				Help: "Number of index values admitted by the most recently loaded view.",
			},
		),
	}

	reg.MustRegister(
		c.OpensTotal,
		c.LookupsTotal,
		c.QueriesTotal,
		c.QueryLatency,
		c.QueryClauses,
		c.QueryResults,
		c.ViewLoadsTotal,
		c.ViewLoadLatency,
		c.ViewSize,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordOpen implements discogo.MetricsCollector.
func (c *Collector) RecordOpen(_ time.Duration, err error) {
	c.OpensTotal.WithLabelValues(status(err)).Inc()
}

// RecordLookup implements discogo.MetricsCollector.
func (c *Collector) RecordLookup(kind string, _ time.Duration, err error) {
	c.LookupsTotal.WithLabelValues(kind, status(err)).Inc()
}

// RecordQuery implements discogo.MetricsCollector.
func (c *Collector) RecordQuery(clauses, results int, duration time.Duration, err error) {
	c.QueryLatency.Observe(duration.Seconds())
	if err != nil {
		c.QueriesTotal.WithLabelValues("error").Inc()
		return
	}
	if results == 0 {
		c.QueriesTotal.WithLabelValues("empty").Inc()
	} else {
		c.QueriesTotal.WithLabelValues("ok").Inc()
	}
	c.QueryClauses.Observe(float64(clauses))
	c.QueryResults.Observe(float64(results))
}

// RecordViewLoad implements discogo.MetricsCollector.
func (c *Collector) RecordViewLoad(size int, duration time.Duration, err error) {
	c.ViewLoadsTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	c.ViewLoadLatency.Observe(duration.Seconds())
	c.ViewSize.Set(float64(size))
}

// WriteTextfile writes all metrics gathered by g to filename in the text
// exposition format, for pickup by the node exporter textfile collector.
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(filename, g)
}
