package config

import "time"

// Config is the root configuration for Curator.
type Config struct {
	// Storage configures the SQLite database holding submissions,
	// options and schedules.
	Storage StorageConfig `yaml:"storage"`

	// Retention configures the purge threshold, schedule and bounds.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StorageConfig contains configuration for the storage backend.
type StorageConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// Driver selects the SQLite driver: "sqlite3" (cgo) or
	// "sqlite" (pure Go).
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// DisableWAL turns off Write-Ahead Logging mode.
	DisableWAL bool `yaml:"disable_wal"`

	// BusyTimeout is how long to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Tables resolves the three table identifiers the purge operates
	// on. They are fixed at startup, never computed per call.
	Tables TablesConfig `yaml:"tables"`
}

// TablesConfig names the submission tables.
type TablesConfig struct {
	Submissions string `yaml:"submissions"`
	FieldValues string `yaml:"field_values"`
	ActionLogs  string `yaml:"action_logs"`
}

// RetentionConfig contains configuration for the retention job.
type RetentionConfig struct {
	// Days is the retention threshold written to the options store at
	// startup (and re-applied on file change when WatchSettings is
	// set). nil leaves the stored setting untouched; the admin surface
	// owns it then. 0 disables purging.
	Days *int `yaml:"days"`

	// Schedule is the recurrence of the purge trigger in cron syntax.
	// The default "@every 24h" fires daily, anchored to the enable
	// time rather than a wall-clock hour.
	Schedule string `yaml:"schedule"`

	// PurgeTimeout bounds a single purge run.
	PurgeTimeout time.Duration `yaml:"purge_timeout"`

	// WatchSettings re-applies retention.days when the config file
	// changes on disk, without a restart.
	WatchSettings bool `yaml:"watch_settings"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`
}

// MetricsConfig contains configuration for Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns the metrics listener on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the /metrics endpoint is served.
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`

	// Subsystem is the second metric name segment.
	Subsystem string `yaml:"subsystem"`
}
