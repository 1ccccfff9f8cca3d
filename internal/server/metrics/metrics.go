// Package metrics exposes backup and restore counters in Prometheus format.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OpExport  = "export"
	OpRestore = "restore"
	OpStats   = "stats"
	OpInfo    = "info"

	ResultOK    = "ok"
	ResultError = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	operations        *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	restoredRecords   *prometheus.CounterVec
	lastExportRecords prometheus.Gauge
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: common.AppName,
		Subsystem: "backup",
		Name:      "operations_total",
		Help:      "Backup operations by kind and result",
	}, []string{"op", "result"})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: common.AppName,
		Subsystem: "backup",
		Name:      "operation_duration_seconds",
		Help:      "Backup operation latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	m.restoredRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: common.AppName,
		Subsystem: "backup",
		Name:      "restored_records_total",
		Help:      "Records written by restore, per entity kind",
	}, []string{"kind"})

	m.lastExportRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: common.AppName,
		Subsystem: "backup",
		Name:      "last_export_records",
		Help:      "Total records in the most recent export",
	})

	m.registry.MustRegister(
		m.operations,
		m.duration,
		m.restoredRecords,
		m.lastExportRecords,
		collectors.NewGoCollector(),
	)
	return m
}

// Observe records one finished operation started at start.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Restored(kind string, n int) {
	if m == nil {
		return
	}
	m.restoredRecords.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) Exported(total int) {
	if m == nil {
		return
	}
	m.lastExportRecords.Set(float64(total))
}

// Registry returns the underlying registry, or nil for a nil receiver.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
