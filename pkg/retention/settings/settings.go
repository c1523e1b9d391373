package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"formloft-hq/curator/pkg/retention"
)

// OptionRetentionDays is the option name holding the retention threshold.
const OptionRetentionDays = "retention_days"

// OptionStore persists named scalar options. Implemented by the storage
// backends.
type OptionStore interface {
	// GetOption reads a named option. ok is false when the option was
	// never set.
	GetOption(ctx context.Context, name string) (value string, ok bool, err error)

	// SetOption writes a named option, replacing any existing value.
	SetOption(ctx context.Context, name, value string) error
}

// Settings reads and writes the retention configuration values. The
// purge engine only ever reads through here; writes come from the
// host's admin surface and the settings file watcher.
type Settings struct {
	store  OptionStore
	logger *slog.Logger
}

// New creates a Settings accessor over the given option store.
func New(store OptionStore) *Settings {
	return &Settings{
		store:  store,
		logger: slog.Default().With("component", "retention.settings"),
	}
}

// RetentionDays returns the configured threshold in days. ok is false
// when the setting was never configured, which is distinct from an explicit 0,
// which means "retention disabled". Both make the purge a no-op.
func (s *Settings) RetentionDays(ctx context.Context) (int, bool, error) {
	raw, ok, err := s.store.GetOption(ctx, OptionRetentionDays)
	if err != nil {
		return 0, false, retention.NewSettingsError(OptionRetentionDays, err)
	}
	if !ok {
		return 0, false, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, retention.NewSettingsError(OptionRetentionDays,
			fmt.Errorf("stored value %q is not an integer: %w", raw, err))
	}
	if days < 0 {
		// Stored values predate clamping only if written out of band;
		// normalize on read the same way writes do.
		days = 0
	}

	return days, true, nil
}

// SetRetentionDays normalizes and persists a threshold. Negative input
// is clamped to 0 rather than rejected: the admin surface treats any
// negative value as "disable retention". Returns the stored value.
func (s *Settings) SetRetentionDays(ctx context.Context, raw int) (int, error) {
	days := raw
	if days < 0 {
		days = 0
	}

	if err := s.store.SetOption(ctx, OptionRetentionDays, strconv.Itoa(days)); err != nil {
		return 0, retention.NewSettingsError(OptionRetentionDays, err)
	}

	if days != raw {
		s.logger.Debug("negative retention threshold clamped",
			"raw_days", raw,
			"stored_days", days,
		)
	}

	return days, nil
}
