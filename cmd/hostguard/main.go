// Package main is the CLI entry point for hostguard.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/quietlane/hostguard/internal/config"
	"github.com/quietlane/hostguard/internal/history"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env next to the binary can supply HOSTGUARD_* overrides.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "hostguard",
		Short: "Host security posture snapshots, risk scoring, and regression detection",
		Long: `hostguard captures a snapshot of a machine's security posture
(firewall, disk encryption, automatic updates, backups, listening ports),
scores the risk, and compares snapshots over time to catch regressions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	rootCmd.AddCommand(
		newSnapshotCmd(),
		newScoreCmd(),
		newDiffCmd(),
		newRegressionsCmd(),
		newRemediateCmd(),
		newHistoryCmd(),
		newServeCmd(),
		newScheduleCmd(),
		newUpdateCmd(version),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// openStore opens the snapshot history database from the configuration.
func openStore(cfg *config.Config) (*history.Store, error) {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}
