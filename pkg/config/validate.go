package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "storage.driver").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// identifierPattern matches plain SQL identifiers. Table names are
// interpolated into statements, so anything else is rejected here.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate validates the entire configuration and returns a
// ValidationError if any rules fail. All errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{"storage.path", "must not be empty"})
	}

	switch cfg.Driver {
	case "sqlite3", "sqlite":
	default:
		errs = append(errs, FieldError{"storage.driver",
			fmt.Sprintf("unknown driver %q (expected \"sqlite3\" or \"sqlite\")", cfg.Driver)})
	}

	if cfg.MaxOpenConns < 1 {
		errs = append(errs, FieldError{"storage.max_open_conns", "must be at least 1"})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{"storage.max_idle_conns", "must not be negative"})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{"storage.busy_timeout", "must not be negative"})
	}

	tables := map[string]string{
		"storage.tables.submissions":  cfg.Tables.Submissions,
		"storage.tables.field_values": cfg.Tables.FieldValues,
		"storage.tables.action_logs":  cfg.Tables.ActionLogs,
	}
	for field, name := range tables {
		if !identifierPattern.MatchString(name) {
			errs = append(errs, FieldError{field,
				fmt.Sprintf("%q is not a valid table identifier", name)})
		}
	}
	if cfg.Tables.Submissions == cfg.Tables.FieldValues ||
		cfg.Tables.Submissions == cfg.Tables.ActionLogs ||
		cfg.Tables.FieldValues == cfg.Tables.ActionLogs {
		errs = append(errs, FieldError{"storage.tables", "table names must be distinct"})
	}

	return errs
}

func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		errs = append(errs, FieldError{"retention.schedule",
			fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err)})
	}
	if cfg.PurgeTimeout < 0 {
		errs = append(errs, FieldError{"retention.purge_timeout", "must not be negative"})
	}
	// Negative days are not an error: the settings layer clamps them
	// to 0 on write, matching the admin-surface contract.

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level",
			fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format",
			fmt.Sprintf("unknown format %q", cfg.Logging.Format)})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{"telemetry.metrics.listen_address",
			"must not be empty when metrics are enabled"})
	}

	return errs
}
