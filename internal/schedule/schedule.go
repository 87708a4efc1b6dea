// Package schedule generates crontab entries for periodic snapshot
// collection. It only produces strings; installing them is up to the
// operator.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// CronSpec returns the five-field cron time spec for an interval keyword.
// Supported intervals: hourly, daily, weekly, and "every <N>m" for
// N in 1..59.
func CronSpec(interval string) (string, error) {
	switch interval {
	case "hourly":
		return "0 * * * *", nil
	case "daily":
		return "0 3 * * *", nil
	case "weekly":
		return "0 3 * * 1", nil
	}

	if rest, ok := strings.CutPrefix(interval, "every "); ok {
		if mins, ok := strings.CutSuffix(rest, "m"); ok {
			n, err := strconv.Atoi(mins)
			if err == nil && n >= 1 && n <= 59 {
				return fmt.Sprintf("*/%d * * * *", n), nil
			}
		}
	}

	return "", fmt.Errorf("schedule: unsupported interval %q (hourly, daily, weekly, every <1-59>m)", interval)
}

// CronLine returns a full crontab line that records a snapshot at the
// given interval using the given binary path.
func CronLine(interval, binary string) (string, error) {
	spec, err := CronSpec(interval)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s snapshot --quiet", spec, binary), nil
}
