// Package metrics collects Prometheus metrics of a report run. A run is a batch job, so
// the metrics are written in the node exporter textfile format instead of being served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Document outcomes.
const (
	StatusRendered = "rendered"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
)

// Recorder holds the metrics of one run. A nil *Recorder discards everything.
type Recorder struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	warnings  *prometheus.CounterVec
	pages     prometheus.Histogram
	rows      prometheus.Histogram
	splits    prometheus.Counter
	duration  prometheus.Histogram
	lastRun   prometheus.Gauge
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weeklyreport_documents_total",
			Help: "Number of customer reports by outcome.",
		}, []string{"status"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weeklyreport_resource_warnings_total",
			Help: "Missing or unusable resources that were replaced by a fallback.",
		}, []string{"resource"}),
		pages: newHist("weeklyreport_document_pages", "Pages per rendered report.", prometheus.LinearBuckets(1, 1, 10)),
		rows:  newHist("weeklyreport_document_rows", "Worklog rows per rendered report.", prometheus.ExponentialBuckets(1, 2, 10)),
		splits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weeklyreport_row_splits_total",
			Help: "Table rows continued on a following page.",
		}),
		duration: newHist("weeklyreport_render_duration_seconds", "Time spent rendering one report.",
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weeklyreport_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run.",
		}),
	}
	r.registry.MustRegister(r.documents, r.warnings, r.pages, r.rows, r.splits, r.duration, r.lastRun)
	return r
}

func newHist(name, desc string, buckets []float64) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    desc,
		Buckets: buckets,
	})
}

// Rendered records a successfully written report.
func (r *Recorder) Rendered(pages, rows, splits int, d time.Duration) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(StatusRendered).Inc()
	r.pages.Observe(float64(pages))
	r.rows.Observe(float64(rows))
	r.splits.Add(float64(splits))
	r.duration.Observe(d.Seconds())
}

// Failed records a report that could not be written.
func (r *Recorder) Failed() {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(StatusFailed).Inc()
}

// Skipped records a packet that was not rendered, e.g. in a dry run.
func (r *Recorder) Skipped() {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(StatusSkipped).Inc()
}

// Warning records a resource fallback; resource is "font", "logo", "letterhead" or
// "barcode".
func (r *Recorder) Warning(resource string) {
	if r == nil {
		return
	}
	r.warnings.WithLabelValues(resource).Inc()
}

// Done stamps the end of the run.
func (r *Recorder) Done(t time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(t.Unix()))
}

// Gatherer exposes the registry, e.g. for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in the textfile collector format. The file
// is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
