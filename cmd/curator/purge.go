package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"formloft-hq/curator/pkg/retention"
	"formloft-hq/curator/pkg/retention/settings"
)

var purgeFlags struct {
	dryRun bool
	days   int
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Run a single purge now",
	Long: `Run a single purge against the current time, outside the schedule.

The stored retention threshold is used unless --days overrides it.
With --dry-run, the eligible rows are counted but nothing is deleted.

Examples:
  # Purge using the stored threshold
  curator purge

  # Preview what a 30-day threshold would delete
  curator purge --days 30 --dry-run`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolVar(&purgeFlags.dryRun, "dry-run", false, "count eligible rows without deleting")
	purgeCmd.Flags().IntVar(&purgeFlags.days, "days", -1, "override the stored retention threshold")
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := newEngine(cfg, store)
	ctx := context.Background()

	days := purgeFlags.days
	if days < 0 {
		stored, ok, err := settings.New(store).RetentionDays(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Retention threshold not configured; nothing to purge")
			return nil
		}
		days = stored
	}

	now := time.Now()

	var result *retention.PurgeResult
	if purgeFlags.dryRun {
		result, err = engine.CountExpired(ctx, now, days)
	} else {
		result, err = engine.PurgeExpired(ctx, now, days)
	}
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Println("Retention disabled; nothing purged")
		return nil
	}

	verb := "Deleted"
	if purgeFlags.dryRun {
		verb = "Would delete"
	}
	fmt.Printf("Cutoff: %s (%d days)\n", result.Cutoff.Format(time.RFC3339), days)
	fmt.Printf("%s %d submissions, %d field values, %d action log entries\n",
		verb, result.Counts.Submissions, result.Counts.FieldValues, result.Counts.ActionLogs)

	return nil
}
