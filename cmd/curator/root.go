package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Curator - submission retention daemon",
	Long: `Curator enforces the age-based retention policy of the Formloft forms
backend. Submissions older than the configured threshold are deleted
together with their field values and action log entries, children
first, inside a single transaction.

A threshold of 0, or one that was never configured, disables purging.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}
