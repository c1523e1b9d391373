package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"formloft-hq/curator/pkg/retention"
	"formloft-hq/curator/pkg/retention/schedule"
	"formloft-hq/curator/pkg/retention/settings"
	"formloft-hq/curator/pkg/telemetry/metrics"
)

var runFlags struct {
	dryRun bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the retention daemon",
	Long: `Start the retention daemon.

The daemon arms the daily purge trigger and fires it from a persistent
schedule: a pending fire time registered by a previous process is
honored, so restarts never cause an immediate or duplicate run.

Examples:
  # Start with default config
  curator run

  # Start with custom config
  curator run --config /etc/curator/config.yaml

  # Validate config without starting
  curator run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the daemon")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	setting := settings.New(store)
	engine := newEngine(cfg, store)

	ctx := context.Background()

	// Seed the stored threshold from the config file when one is set
	// there; the admin surface owns it otherwise.
	if cfg.Retention.Days != nil {
		stored, err := setting.SetRetentionDays(ctx, *cfg.Retention.Days)
		if err != nil {
			return err
		}
		slog.Info("retention threshold applied from config", "days", stored)
	}

	var job *retention.Job
	sched, err := schedule.New(store, func(ctx context.Context) error {
		return job.RunScheduled(ctx)
	}, &schedule.Config{Spec: cfg.Retention.Schedule}, nil)
	if err != nil {
		return err
	}
	sched.SetNextFireListener(collector.SetNextFire)
	job = retention.NewJob(setting, sched, engine, collector)

	if err := job.Activate(ctx); err != nil {
		return err
	}

	if next, err := sched.NextFire(ctx); err == nil && next != nil {
		fmt.Printf("✓ Purge trigger armed, next fire %s\n", next.Format(time.RFC3339))
	}

	// Metrics listener
	var metricsSrv *http.Server
	if cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		metricsSrv = &http.Server{
			Addr:    cfg.Telemetry.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			slog.Info("metrics listener started", "address", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics listener failed", "error", err)
			}
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Telemetry.Metrics.ListenAddress)
	}

	// Settings file watcher
	var watcher *settings.FileWatcher
	if cfg.Retention.WatchSettings && cfgFile != "" {
		watcher, err = settings.NewFileWatcher(cfgFile, 0)
		if err != nil {
			return err
		}
		go func() {
			err := watcher.Watch(ctx, func() error {
				return reapplySettings(ctx, job)
			})
			if err != nil {
				slog.Error("settings watcher failed", "error", err)
			}
		}()
	}

	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			slog.Warn("failed to stop settings watcher", "error", err)
		}
	}
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics listener shutdown failed", "error", err)
		}
	}
	if err := job.Deactivate(ctx); err != nil {
		return err
	}

	fmt.Println("✓ Shutdown complete")
	return nil
}

// reapplySettings reloads the config file and writes its retention
// threshold through the save-settings hook.
func reapplySettings(ctx context.Context, job *retention.Job) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Retention.Days == nil {
		slog.Debug("config file has no retention.days, leaving stored setting")
		return nil
	}
	stored, err := job.SaveSettings(ctx, *cfg.Retention.Days)
	if err != nil {
		return err
	}
	slog.Info("retention threshold re-applied from config", "days", stored)
	return nil
}
