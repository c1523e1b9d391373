package retention

import (
	"context"
	"log/slog"
	"time"
)

// EngineConfig contains configuration for the purge engine.
type EngineConfig struct {
	// PurgeTimeout bounds a single purge run. A run that exceeds it
	// fails and rolls back instead of hanging. 0 disables the bound.
	PurgeTimeout time.Duration
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		PurgeTimeout: 5 * time.Minute,
	}
}

// Engine deletes expired submissions and their child rows. It is
// read-only with respect to the retention setting; the threshold is
// passed in per invocation.
type Engine struct {
	store  Store
	config *EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new purge engine.
func NewEngine(store Store, config *EngineConfig) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}

	return &Engine{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "retention.engine"),
	}
}

// PurgeExpired deletes all submissions created strictly before
// now - retentionDays days, together with their action log entries and
// field values, children first.
//
// retentionDays <= 0 means retention is disabled (or was never
// configured); the run is a no-op and the result reports Skipped. A
// misconfigured threshold must never cause unbounded deletion.
//
// Re-running with the same inputs is idempotent: the second run finds
// no remaining eligible rows and reports zero deletions.
func (e *Engine) PurgeExpired(ctx context.Context, now time.Time, retentionDays int) (*PurgeResult, error) {
	if retentionDays <= 0 {
		e.logger.Debug("retention disabled, skipping purge",
			"retention_days", retentionDays,
		)
		return &PurgeResult{Skipped: true}, nil
	}

	cutoff := now.AddDate(0, 0, -retentionDays)

	if e.config.PurgeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.PurgeTimeout)
		defer cancel()
	}

	e.logger.Debug("purging expired submissions",
		"cutoff", cutoff,
		"retention_days", retentionDays,
	)

	counts, err := e.store.DeleteExpired(ctx, cutoff)
	if err != nil {
		return nil, NewPurgeError(cutoff, err)
	}

	result := &PurgeResult{
		Cutoff: cutoff,
		Counts: counts,
	}

	if counts.Total() == 0 {
		e.logger.Debug("no expired submissions",
			"cutoff", cutoff,
		)
	} else {
		e.logger.Info("expired submissions purged",
			"cutoff", cutoff,
			"submissions_deleted", counts.Submissions,
			"field_values_deleted", counts.FieldValues,
			"action_logs_deleted", counts.ActionLogs,
		)
	}

	return result, nil
}

// CountExpired reports what PurgeExpired would delete for the given
// threshold without deleting anything. Used by the dry-run path.
func (e *Engine) CountExpired(ctx context.Context, now time.Time, retentionDays int) (*PurgeResult, error) {
	if retentionDays <= 0 {
		return &PurgeResult{Skipped: true}, nil
	}

	cutoff := now.AddDate(0, 0, -retentionDays)

	counts, err := e.store.CountExpired(ctx, cutoff)
	if err != nil {
		return nil, NewPurgeError(cutoff, err)
	}

	return &PurgeResult{Cutoff: cutoff, Counts: counts}, nil
}
