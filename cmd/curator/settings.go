package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"formloft-hq/curator/pkg/retention/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or write the retention threshold",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored retention threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		days, ok, err := settings.New(store).RetentionDays(context.Background())
		if err != nil {
			return err
		}

		switch {
		case !ok:
			fmt.Println("retention threshold: not configured")
		case days == 0:
			fmt.Println("retention threshold: 0 (retention disabled)")
		default:
			fmt.Printf("retention threshold: %d days\n", days)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <days>",
	Short: "Store a retention threshold",
	Long: `Store a retention threshold in days.

0 disables retention. Negative values are normalized to 0.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid day count %q: %w", args[0], err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := settings.New(store).SetRetentionDays(context.Background(), raw)
		if err != nil {
			return err
		}

		if stored == 0 {
			fmt.Println("retention threshold set to 0 (retention disabled)")
		} else {
			fmt.Printf("retention threshold set to %d days\n", stored)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
