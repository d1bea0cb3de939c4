package tablix

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector is a MetricsCollector backed by prometheus metrics.
type PrometheusCollector struct {
	addChunks      prometheus.Counter
	addDuration    prometheus.Histogram
	removeChunks   prometheus.Counter
	removeDuration prometheus.Histogram
	queryRows      *prometheus.CounterVec
	queryLatency   *prometheus.HistogramVec
}

// NewPrometheusCollector creates a collector and registers its metrics
// with reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		addChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tablix",
			Subsystem: "index",
			Name:      "chunks_indexed_total",
		}),
		addDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tablix",
			Subsystem: "index",
			Name:      "add_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		removeChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tablix",
			Subsystem: "index",
			Name:      "chunks_removed_total",
		}),
		removeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tablix",
			Subsystem: "index",
			Name:      "remove_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		queryRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tablix",
			Subsystem: "index",
			Name:      "query_rows_total",
		}, []string{"op"}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tablix",
			Subsystem: "index",
			Name:      "query_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(c.addChunks, c.addDuration, c.removeChunks, c.removeDuration, c.queryRows, c.queryLatency)
	return c
}

func (c *PrometheusCollector) RecordAdd(indexed int, d time.Duration) {
	c.addChunks.Add(float64(indexed))
	c.addDuration.Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordRemove(removed int, d time.Duration) {
	c.removeChunks.Add(float64(removed))
	c.removeDuration.Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordQuery(op string, rows int, d time.Duration) {
	c.queryRows.WithLabelValues(op).Add(float64(rows))
	c.queryLatency.WithLabelValues(op).Observe(d.Seconds())
}
