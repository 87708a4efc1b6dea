package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quietlane/hostguard/internal/diff"
	"github.com/quietlane/hostguard/internal/history"
	"github.com/quietlane/hostguard/internal/regress"
	"github.com/quietlane/hostguard/internal/report"
	"github.com/quietlane/hostguard/internal/risk"
)

// resolveRef loads a stored snapshot by id, or by the aliases "latest"
// and "previous".
func resolveRef(ctx context.Context, store *history.Store, ref string) (*history.Entry, error) {
	switch ref {
	case "latest":
		return store.Latest(ctx)
	case "previous":
		prev, _, err := store.LastTwo(ctx)
		if err != nil {
			return nil, err
		}
		if prev == nil {
			return nil, fmt.Errorf("no previous snapshot recorded")
		}
		return prev, nil
	default:
		return store.Get(ctx, ref)
	}
}

func newScoreCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "score [id]",
		Short: "Show the risk score of a stored snapshot (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ref := "latest"
			if len(args) == 1 {
				ref = args[0]
			}
			entry, err := resolveRef(cmd.Context(), store, ref)
			if err != nil {
				return err
			}

			assessment := risk.Score(entry.Snapshot)
			if format != "text" {
				return report.Export(os.Stdout, assessment, format)
			}
			report.WriteSummary(os.Stdout, entry.Snapshot, assessment)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff <id> <id>",
		Short: "Show structural differences between two stored snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			a, err := resolveRef(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			b, err := resolveRef(cmd.Context(), store, args[1])
			if err != nil {
				return err
			}

			ta, tb, err := diff.Trees(a.Snapshot, b.Snapshot)
			if err != nil {
				return err
			}
			entries := diff.Diff(ta, tb)

			if format != "text" {
				return report.Export(os.Stdout, entries, format)
			}
			report.WriteDiff(os.Stdout, entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}

func newRegressionsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "regressions",
		Short: "Compare the two most recent snapshots for posture regressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			prev, latest, err := store.LastTwo(cmd.Context())
			if err != nil {
				return err
			}

			regs := []regress.Regression{}
			if prev != nil {
				regs = regress.Detect(prev.Snapshot, latest.Snapshot)
			}

			if format != "text" {
				return report.Export(os.Stdout, regs, format)
			}
			if prev == nil {
				fmt.Println("Only one snapshot recorded; nothing to compare yet.")
				return nil
			}
			report.WriteRegressions(os.Stdout, regs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			metas, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				fmt.Println("No snapshots recorded yet. Run: hostguard snapshot")
				return nil
			}

			fmt.Printf("%-36s  %-25s  %s\n", "ID", "COLLECTED AT", "SCORE")
			for _, m := range metas {
				fmt.Printf("%-36s  %-25s  %5d\n",
					m.ID, m.CollectedAt.Format(time.RFC3339), m.Score)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of snapshots to list (0 = all)")
	return cmd
}
