package retention

import (
	"context"
	"log/slog"
	"time"

	"formloft-hq/curator/pkg/telemetry/metrics"
)

// ThresholdSource reads and writes the configured retention threshold.
// Implemented by settings.Settings.
type ThresholdSource interface {
	// RetentionDays returns the configured threshold in days. ok is
	// false when the setting was never configured, which is distinct
	// from an explicit 0 ("retention disabled").
	RetentionDays(ctx context.Context) (days int, ok bool, err error)

	// SetRetentionDays normalizes and persists a threshold. Negative
	// input is clamped to 0. Returns the stored value.
	SetRetentionDays(ctx context.Context, raw int) (int, error)
}

// TriggerControl arms and disarms the recurring purge trigger.
// Implemented by schedule.Scheduler.
type TriggerControl interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
}

// Job ties the retention engine to its host integration points. The
// host calls Activate/Deactivate from its plugin lifecycle, the
// scheduler calls RunScheduled on each fire, and the admin settings
// surface writes through SaveSettings.
type Job struct {
	settings  ThresholdSource
	scheduler TriggerControl
	engine    *Engine
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewJob creates a retention job. metrics may be nil.
func NewJob(settings ThresholdSource, scheduler TriggerControl, engine *Engine, collector *metrics.Collector) *Job {
	return &Job{
		settings:  settings,
		scheduler: scheduler,
		engine:    engine,
		metrics:   collector,
		logger:    slog.Default().With("component", "retention.job"),
	}
}

// Activate arms the recurring purge trigger. Activating an already
// armed job is a no-op; an existing pending fire time is honored.
func (j *Job) Activate(ctx context.Context) error {
	if err := j.scheduler.Enable(ctx); err != nil {
		return err
	}
	j.logger.Info("retention job activated")
	return nil
}

// Deactivate cancels the pending trigger unconditionally. Deactivating
// when nothing is pending is a no-op.
func (j *Job) Deactivate(ctx context.Context) error {
	if err := j.scheduler.Disable(ctx); err != nil {
		return err
	}
	j.logger.Info("retention job deactivated")
	return nil
}

// RunScheduled is the periodic-trigger entry point. It reads the
// threshold from settings and runs one purge against the current time.
func (j *Job) RunScheduled(ctx context.Context) error {
	result, err := j.Run(ctx, time.Now())
	if err != nil {
		j.logger.Error("scheduled purge failed", "error", err)
		return err
	}

	if result.Skipped {
		j.logger.Debug("scheduled purge skipped, retention disabled")
	}
	return nil
}

// Run executes one purge for the given reference time and records the
// outcome. A never-configured or disabled threshold yields a Skipped
// result, not an error.
func (j *Job) Run(ctx context.Context, now time.Time) (*PurgeResult, error) {
	start := time.Now()

	days, ok, err := j.settings.RetentionDays(ctx)
	if err != nil {
		j.recordRun("error", nil, time.Since(start))
		return nil, err
	}
	if !ok {
		days = 0
	}

	result, err := j.engine.PurgeExpired(ctx, now, days)
	if err != nil {
		j.recordRun("error", nil, time.Since(start))
		return nil, err
	}

	if result.Skipped {
		j.recordRun("skipped", result, time.Since(start))
	} else {
		j.recordRun("success", result, time.Since(start))
	}
	return result, nil
}

// SaveSettings is the settings-save entry point: the host's admin
// surface writes the threshold through here. Returns the stored,
// normalized value.
func (j *Job) SaveSettings(ctx context.Context, raw int) (int, error) {
	stored, err := j.settings.SetRetentionDays(ctx, raw)
	if err != nil {
		return 0, err
	}
	j.logger.Info("retention setting saved",
		"raw_days", raw,
		"stored_days", stored,
	)
	return stored, nil
}

func (j *Job) recordRun(outcome string, result *PurgeResult, elapsed time.Duration) {
	if j.metrics == nil {
		return
	}
	var counts PurgeCounts
	if result != nil {
		counts = result.Counts
	}
	j.metrics.RecordPurgeRun(outcome, counts.ActionLogs, counts.FieldValues, counts.Submissions, elapsed)
}
