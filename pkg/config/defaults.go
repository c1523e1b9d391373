package config

import "time"

// Default values for configuration fields.
const (
	// Storage defaults
	DefaultStoragePath         = "data/curator.db"
	DefaultStorageDriver       = "sqlite3"
	DefaultStorageMaxOpenConns = 10
	DefaultStorageMaxIdleConns = 5
	DefaultStorageBusyTimeout  = 5 * time.Second

	// Table defaults
	DefaultTableSubmissions = "submissions"
	DefaultTableFieldValues = "submission_fields"
	DefaultTableActionLogs  = "submission_logs"

	// Retention defaults
	DefaultRetentionSchedule     = "@every 24h"
	DefaultRetentionPurgeTimeout = 5 * time.Minute

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"

	// Metrics defaults
	DefaultMetricsListenAddress = "127.0.0.1:9109"
	DefaultMetricsNamespace     = "curator"
	DefaultMetricsSubsystem     = "retention"
)

// DefaultConfig returns a configuration populated with all defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any unset configuration
// fields. It is called after YAML parsing and before validation.
func ApplyDefaults(cfg *Config) {
	// Storage defaults
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Storage.MaxOpenConns == 0 {
		cfg.Storage.MaxOpenConns = DefaultStorageMaxOpenConns
	}
	if cfg.Storage.MaxIdleConns == 0 {
		cfg.Storage.MaxIdleConns = DefaultStorageMaxIdleConns
	}
	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultStorageBusyTimeout
	}
	if cfg.Storage.Tables.Submissions == "" {
		cfg.Storage.Tables.Submissions = DefaultTableSubmissions
	}
	if cfg.Storage.Tables.FieldValues == "" {
		cfg.Storage.Tables.FieldValues = DefaultTableFieldValues
	}
	if cfg.Storage.Tables.ActionLogs == "" {
		cfg.Storage.Tables.ActionLogs = DefaultTableActionLogs
	}

	// Retention defaults
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.Retention.PurgeTimeout == 0 {
		cfg.Retention.PurgeTimeout = DefaultRetentionPurgeTimeout
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
