// Package config provides configuration management for Curator.
//
// Configuration is loaded from a YAML file, filled with defaults,
// overridden from CURATOR_* environment variables, and validated, in
// that order. Later stages win.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("curator.yaml")
//
// # Environment Variable Overrides
//
// Variables follow the convention CURATOR_SECTION_FIELD:
//
//   - CURATOR_STORAGE_PATH overrides storage.path
//   - CURATOR_RETENTION_DAYS overrides retention.days
//   - CURATOR_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Example
//
//	storage:
//	  path: data/curator.db
//	  driver: sqlite3
//	retention:
//	  days: 30
//	  schedule: "@every 24h"
//	  purge_timeout: 5m
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    listen_address: 127.0.0.1:9109
package config
