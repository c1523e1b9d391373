package main

import (
	"fmt"

	"formloft-hq/curator/pkg/config"
	"formloft-hq/curator/pkg/retention"
	"formloft-hq/curator/pkg/retention/storage"
	"formloft-hq/curator/pkg/telemetry/logging"
)

// loadConfig loads configuration from the --config flag path (or
// defaults when unset) and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := logging.Setup(&cfg.Telemetry.Logging); err != nil {
		return nil, err
	}

	return cfg, nil
}

// openStore opens the SQLite store described by the configuration.
func openStore(cfg *config.Config) (*storage.SQLiteStore, error) {
	return storage.NewSQLiteStore(&storage.SQLiteConfig{
		Path:         cfg.Storage.Path,
		Driver:       cfg.Storage.Driver,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
		WALMode:      !cfg.Storage.DisableWAL,
		BusyTimeout:  cfg.Storage.BusyTimeout,
		Tables: storage.TableSet{
			Submissions: cfg.Storage.Tables.Submissions,
			FieldValues: cfg.Storage.Tables.FieldValues,
			ActionLogs:  cfg.Storage.Tables.ActionLogs,
		},
	})
}

// newEngine builds the purge engine from the configuration.
func newEngine(cfg *config.Config, store retention.Store) *retention.Engine {
	return retention.NewEngine(store, &retention.EngineConfig{
		PurgeTimeout: cfg.Retention.PurgeTimeout,
	})
}
