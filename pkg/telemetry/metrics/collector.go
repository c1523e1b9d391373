package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"formloft-hq/curator/pkg/config"
)

// Collector owns all Prometheus metrics for the retention job. It
// manages registration against an injectable registry so tests can
// isolate their metric state.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// purgeRuns counts completed runs by outcome (success, skipped, error).
	purgeRuns *prometheus.CounterVec

	// rowsDeleted counts deleted rows by table.
	rowsDeleted *prometheus.CounterVec

	// purgeDuration observes wall time per run.
	purgeDuration prometheus.Histogram

	// lastRun is the unix timestamp of the most recent run.
	lastRun prometheus.Gauge

	// nextFire is the unix timestamp of the pending trigger.
	nextFire prometheus.Gauge
}

// NewCollector creates a metrics collector registered against the given
// registry. If registry is nil a fresh one is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		purgeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "purge_runs_total",
			Help:      "Completed purge runs by outcome.",
		}, []string{"result"}),

		rowsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "purge_rows_deleted_total",
			Help:      "Rows deleted by purge runs, per table.",
		}, []string{"table"}),

		purgeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "purge_duration_seconds",
			Help:      "Wall time of purge runs.",
			// Purge runs are short relative to the daily interval;
			// buckets cover 10ms to 5m.
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60, 300},
		}),

		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "purge_last_run_timestamp_seconds",
			Help:      "Unix timestamp of the most recent purge run.",
		}),

		nextFire: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "schedule_next_fire_timestamp_seconds",
			Help:      "Unix timestamp of the pending purge trigger, 0 when disarmed.",
		}),
	}

	registry.MustRegister(
		c.purgeRuns,
		c.rowsDeleted,
		c.purgeDuration,
		c.lastRun,
		c.nextFire,
	)

	return c
}

// RecordPurgeRun records the outcome of one purge run. outcome is one
// of "success", "skipped" or "error"; row counts are zero for skipped
// and failed runs.
func (c *Collector) RecordPurgeRun(outcome string, actionLogs, fieldValues, submissions int64, elapsed time.Duration) {
	c.purgeRuns.WithLabelValues(outcome).Inc()
	c.purgeDuration.Observe(elapsed.Seconds())
	c.lastRun.SetToCurrentTime()

	if actionLogs > 0 {
		c.rowsDeleted.WithLabelValues("action_logs").Add(float64(actionLogs))
	}
	if fieldValues > 0 {
		c.rowsDeleted.WithLabelValues("field_values").Add(float64(fieldValues))
	}
	if submissions > 0 {
		c.rowsDeleted.WithLabelValues("submissions").Add(float64(submissions))
	}
}

// SetNextFire publishes the pending trigger time. Pass the zero time
// when the trigger is cancelled.
func (c *Collector) SetNextFire(t time.Time) {
	if t.IsZero() {
		c.nextFire.Set(0)
		return
	}
	c.nextFire.Set(float64(t.Unix()))
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
