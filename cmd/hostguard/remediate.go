package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietlane/hostguard/internal/remedy"
	"github.com/quietlane/hostguard/internal/report"
)

func newRemediateCmd() *cobra.Command {
	var (
		dryRun bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "remediate",
		Short: "Plan (and optionally apply) fixes for weak posture signals",
		Long: `remediate builds a remediation plan from the latest stored snapshot.
Each step is shown with its command, rollback, and caveats; nothing runs
without an explicit per-step confirmation. Use --dry-run to only print
the plan.`,
		Args: cobra.NoArgs,
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

			entry, err := store.Latest(cmd.Context())
			if err != nil {
				return err
			}

			steps := remedy.Plan(entry.Snapshot)

			if format != "text" {
				return report.Export(os.Stdout, steps, format)
			}
			if len(steps) == 0 {
				fmt.Println("All posture signals are on. Nothing to remediate.")
				return nil
			}

			report.WritePlan(os.Stdout, steps)
			if dryRun {
				return nil
			}

			return applySteps(steps)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without applying anything")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}

// applySteps walks the plan interactively. Every step requires a typed
// confirmation; a skipped step never blocks the rest of the plan.
func applySteps(steps []remedy.Step) error {
	reader := bufio.NewReader(os.Stdin)

	for i, step := range steps {
		fmt.Printf("\nApply step %d (%s)? [y/N] ", i+1, step.Title)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			fmt.Println("Skipped.")
			continue
		}

		fmt.Printf("Running: %s\n", step.Command)
		c := exec.Command("sh", "-c", step.Command)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		c.Stdin = os.Stdin
		if err := c.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Step failed: %v\n", err)
			fmt.Fprintf(os.Stderr, "Rollback if needed: %s\n", step.Rollback)
			continue
		}
		fmt.Println("Done.")
	}
	return nil
}
