// Package metrics counts merge runs. The CLI is a batch job, so the numbers
// are written to a node exporter textfile instead of being scraped.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "f42_merge"

// Outcomes of a merge run.
const (
	OutcomeSuccess = "success"
	OutcomeNoFiles = "no_files"
	OutcomeFailure = "failure"
)

// Collector owns its registry. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	files    *prometheus.CounterVec
	rows     prometheus.Counter
	duration prometheus.Histogram
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Merge runs by outcome.",
		}, []string{"outcome"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Source files processed by result (read or skipped).",
		}, []string{"result"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Rows written to merged files.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Duration of merge runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	c.registry.MustRegister(c.runs, c.files, c.rows, c.duration)
	return c
}

func (c *Collector) Run(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.runs.WithLabelValues(outcome).Inc()
	c.duration.Observe(d.Seconds())
}

func (c *Collector) FileRead() {
	if c == nil {
		return
	}
	c.files.WithLabelValues("read").Inc()
}

func (c *Collector) FileSkipped() {
	if c == nil {
		return
	}
	c.files.WithLabelValues("skipped").Inc()
}

func (c *Collector) Rows(n int) {
	if c == nil {
		return
	}
	c.rows.Add(float64(n))
}

// Gatherer exposes the registry, e.g. for promhttp or tests.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return prometheus.NewRegistry()
	}
	return c.registry
}

// WriteTextfile writes all metrics in text exposition format to path.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.Gatherer())
}
