package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietlane/hostguard/internal/schedule"
)

func newScheduleCmd() *cobra.Command {
	var interval string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print a crontab line for recurring snapshots",
		Long: `schedule prints a crontab entry that captures a quiet snapshot on the
given interval. Install it with:

  hostguard schedule --interval daily | crontab -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			binary, err := os.Executable()
			if err != nil {
				binary = "hostguard"
			}

			line, err := schedule.CronLine(interval, binary)
			if err != nil {
				return err
			}
			fmt.Println(line)
			return nil
		},
	}

	cmd.Flags().StringVarP(&interval, "interval", "i", "daily",
		"snapshot interval (hourly, daily, weekly, or \"every <n>m\")")
	return cmd
}
