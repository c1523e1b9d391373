package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curator.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("DefaultConfig() does not validate: %v", err)
	}

	if cfg.Storage.Driver != "sqlite3" {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, "sqlite3")
	}
	if cfg.Retention.Schedule != "@every 24h" {
		t.Errorf("Retention.Schedule = %q, want %q", cfg.Retention.Schedule, "@every 24h")
	}
	if cfg.Retention.Days != nil {
		t.Errorf("Retention.Days = %v, want nil (setting owned by admin surface)", *cfg.Retention.Days)
	}
	if cfg.Retention.PurgeTimeout != 5*time.Minute {
		t.Errorf("Retention.PurgeTimeout = %v, want 5m", cfg.Retention.PurgeTimeout)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  path: /var/lib/curator/curator.db
retention:
  days: 30
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Storage.Path != "/var/lib/curator/curator.db" {
		t.Errorf("Storage.Path = %q, want file value", cfg.Storage.Path)
	}
	if cfg.Storage.Driver != DefaultStorageDriver {
		t.Errorf("Storage.Driver = %q, want default %q", cfg.Storage.Driver, DefaultStorageDriver)
	}
	if cfg.Storage.Tables.Submissions != DefaultTableSubmissions {
		t.Errorf("Tables.Submissions = %q, want default %q", cfg.Storage.Tables.Submissions, DefaultTableSubmissions)
	}
	if cfg.Retention.Days == nil || *cfg.Retention.Days != 30 {
		t.Errorf("Retention.Days = %v, want 30", cfg.Retention.Days)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Telemetry.Logging.Level, DefaultLoggingLevel)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "storage: [not a map\n")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Driver = "postgres"
	cfg.Retention.Schedule = "bogus"
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("collected %d errors, want 3: %v", len(verr.Errors), verr)
	}

	fields := make(map[string]bool)
	for _, fe := range verr.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"storage.driver", "retention.schedule", "telemetry.logging.level"} {
		if !fields[want] {
			t.Errorf("missing error for field %q", want)
		}
	}
}

func TestValidate_TableIdentifiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Tables.Submissions = "entries; DROP TABLE users"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid identifier")
	}
	if !strings.Contains(err.Error(), "storage.tables.submissions") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestValidate_DistinctTableNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Tables.FieldValues = cfg.Storage.Tables.Submissions

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for duplicate table names")
	}
}

func TestValidate_NegativeDaysAllowed(t *testing.T) {
	cfg := DefaultConfig()
	days := -7
	cfg.Retention.Days = &days

	// Negative thresholds are clamped at write time, not rejected here.
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() rejected negative days: %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  path: /tmp/file-value.db
retention:
  days: 10
`)

	t.Setenv("CURATOR_STORAGE_PATH", "/tmp/env-value.db")
	t.Setenv("CURATOR_RETENTION_DAYS", "45")
	t.Setenv("CURATOR_RETENTION_SCHEDULE", "0 3 * * *")
	t.Setenv("CURATOR_LOGGING_LEVEL", "debug")
	t.Setenv("CURATOR_METRICS_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Storage.Path != "/tmp/env-value.db" {
		t.Errorf("Storage.Path = %q, want env override", cfg.Storage.Path)
	}
	if cfg.Retention.Days == nil || *cfg.Retention.Days != 45 {
		t.Errorf("Retention.Days = %v, want 45", cfg.Retention.Days)
	}
	if cfg.Retention.Schedule != "0 3 * * *" {
		t.Errorf("Retention.Schedule = %q, want env override", cfg.Retention.Schedule)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "debug")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want env override true")
	}
}

func TestLoadConfigWithEnvOverrides_EmptyPath(t *testing.T) {
	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides(\"\") failed: %v", err)
	}
	if cfg.Storage.Path != DefaultStoragePath {
		t.Errorf("Storage.Path = %q, want default", cfg.Storage.Path)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	t.Setenv("CURATOR_RETENTION_SCHEDULE", "every day at dawn")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("expected validation error for invalid schedule override")
	}
}
