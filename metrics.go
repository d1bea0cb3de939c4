package tablix

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics
// from the index catalog. Implement it to integrate with monitoring
// systems; see PrometheusCollector for a ready-made implementation.
type MetricsCollector interface {
	// RecordAdd is called after chunks are indexed.
	// indexed is the number of chunks newly covered (skipped chunks excluded).
	RecordAdd(indexed int, duration time.Duration)

	// RecordRemove is called after chunks are dropped from an index.
	RecordRemove(removed int, duration time.Duration)

	// RecordQuery is called after an equality or inequality lookup.
	// rows is the number of RowIDs produced.
	RecordQuery(op string, rows int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(int, time.Duration)           {}
func (NoopMetricsCollector) RecordRemove(int, time.Duration)        {}
func (NoopMetricsCollector) RecordQuery(string, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	AddCalls         atomic.Int64
	ChunksIndexed    atomic.Int64
	AddTotalNanos    atomic.Int64
	RemoveCalls      atomic.Int64
	ChunksRemoved    atomic.Int64
	RemoveTotalNanos atomic.Int64
	QueryCalls       atomic.Int64
	QueryRows        atomic.Int64
	QueryTotalNanos  atomic.Int64
}

func (c *BasicMetricsCollector) RecordAdd(indexed int, d time.Duration) {
	c.AddCalls.Add(1)
	c.ChunksIndexed.Add(int64(indexed))
	c.AddTotalNanos.Add(int64(d))
}

func (c *BasicMetricsCollector) RecordRemove(removed int, d time.Duration) {
	c.RemoveCalls.Add(1)
	c.ChunksRemoved.Add(int64(removed))
	c.RemoveTotalNanos.Add(int64(d))
}

func (c *BasicMetricsCollector) RecordQuery(_ string, rows int, d time.Duration) {
	c.QueryCalls.Add(1)
	c.QueryRows.Add(int64(rows))
	c.QueryTotalNanos.Add(int64(d))
}
