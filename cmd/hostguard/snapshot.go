package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietlane/hostguard/internal/history"
	"github.com/quietlane/hostguard/internal/orchestrator"
)

func newSnapshotCmd() *cobra.Command {
	var (
		onlyStr string
		quiet   bool
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a posture snapshot, score it, and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")

			var only []string
			for _, s := range strings.Split(onlyStr, ",") {
				if s = strings.TrimSpace(s); s != "" {
					only = append(only, s)
				}
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var store *history.Store
			if !noStore {
				if store, err = openStore(cfg); err != nil {
					return err
				}
				defer store.Close()
			}

			orch := orchestrator.New(cfg, store, orchestrator.Options{
				Only:    only,
				Verbose: verbose,
				Quiet:   quiet,
			})
			return orch.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&onlyStr, "only", "", "run specific host probes only (comma-separated)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress the summary (for cron use)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the snapshot in history")
	return cmd
}
