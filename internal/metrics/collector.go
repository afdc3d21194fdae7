// Package metrics exposes run statistics in Prometheus format. A Collector
// owns its registry, so several collectors can coexist in one process and
// nothing is registered globally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperr "log-analyzer/internal/errors"
	"log-analyzer/internal/model"
)

// Namespace prefixes every metric name.
const Namespace = "log_analyzer"

// Collector records run observations into Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	linesProcessed prometheus.Counter
	errorsTotal    *prometheus.CounterVec
	levelCount     *prometheus.GaugeVec
	stageDuration  *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		linesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "lines_processed_total",
			Help:      "Total number of log lines read.",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of failed run stages.",
		}, []string{"stage", "kind"}),
		levelCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "level_count",
			Help:      "Markers counted per level in the last run.",
		}, []string{"level"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each run stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}

	c.registry.MustRegister(c.linesProcessed, c.errorsTotal, c.levelCount, c.stageDuration)

	// Every level is exported from the start, even before a run.
	for _, l := range model.Levels {
		c.levelCount.WithLabelValues(string(l)).Set(0)
	}
	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// LinesRead adds n to the processed lines counter.
func (c *Collector) LinesRead(n int) {
	if n > 0 {
		c.linesProcessed.Add(float64(n))
	}
}

// LevelCounted sets the gauge for level.
func (c *Collector) LevelCounted(level model.Level, n int) {
	c.levelCount.WithLabelValues(string(level)).Set(float64(n))
}

// StageFailed counts a failure of stage, labelled with the error kind.
func (c *Collector) StageFailed(stage string, err error) {
	c.errorsTotal.WithLabelValues(stage, apperr.KindOf(err).String()).Inc()
}

// StageDone observes how long stage took.
func (c *Collector) StageDone(stage string, d time.Duration) {
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
