// Package metrics provides Prometheus instrumentation for cleaning jobs:
// rows in and out per connector, per-stage durations, imputed cells,
// capped outliers, removed rows and the estimated table footprint.
//
// The metric vectors are registered once at package init; a Collector
// binds them to a job label so concurrent jobs in one process stay
// distinguishable.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rowsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_rows_loaded_total",
		Help: "Rows loaded from source connectors",
	}, []string{"job", "connector"})

	rowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_rows_written_total",
		Help: "Rows written to destination connectors",
	}, []string{"job", "connector"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scour_stage_duration_seconds",
		Help:    "Wall time per cleaning stage",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"job", "stage"})

	cellsImputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_cells_imputed_total",
		Help: "Missing cells filled by the imputation stage",
	}, []string{"job"})

	outliersCapped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_outliers_capped_total",
		Help: "Cells winsorized by the outlier stage",
	}, []string{"job"})

	rowsRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scour_rows_removed_total",
		Help: "Rows removed, by reason (duplicate, empty, outlier)",
	}, []string{"job", "reason"})

	tableBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scour_table_estimated_bytes",
		Help: "Estimated heap footprint of the owned table",
	}, []string{"job"})
)

// Collector records cleaning metrics under a fixed job label.
type Collector struct {
	job string
}

// NewCollector creates a collector for the named job.
func NewCollector(job string) *Collector {
	return &Collector{job: job}
}

// RecordLoad counts rows produced by a source connector.
func (c *Collector) RecordLoad(connector string, rows int) {
	rowsLoaded.WithLabelValues(c.job, connector).Add(float64(rows))
}

// RecordWrite counts rows consumed by a destination connector.
func (c *Collector) RecordWrite(connector string, rows int) {
	rowsWritten.WithLabelValues(c.job, connector).Add(float64(rows))
}

// ObserveStage records the wall time of one stage execution.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(c.job, stage).Observe(d.Seconds())
}

// RecordImputed counts cells filled by imputation.
func (c *Collector) RecordImputed(cells int) {
	cellsImputed.WithLabelValues(c.job).Add(float64(cells))
}

// RecordCapped counts winsorized cells.
func (c *Collector) RecordCapped(cells int) {
	outliersCapped.WithLabelValues(c.job).Add(float64(cells))
}

// RecordRemoved counts removed rows under a reason label.
func (c *Collector) RecordRemoved(reason string, rows int) {
	rowsRemoved.WithLabelValues(c.job, reason).Add(float64(rows))
}

// SetTableBytes publishes the estimated table footprint.
func (c *Collector) SetTableBytes(n int64) {
	tableBytes.WithLabelValues(c.job).Set(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr. Blocks until the listener fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
