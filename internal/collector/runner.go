package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/quietlane/hostguard/internal/platform"
)

// stderr captured into Meta is capped so one noisy tool cannot bloat a snapshot.
const stderrMetaLimit = 4096

// Run executes a single probe and returns its Result.
// Timeouts, missing binaries, and non-zero exits are all downgraded to
// Result{OK:false}; this function never returns a Go error.
func Run(ctx context.Context, probe platform.Probe) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, probe.Timeout)
	defer cancel()

	if len(probe.Argv) == 0 {
		return Fail(fmt.Sprintf("probe %s: empty argv", probe.ID))
	}

	cmd := exec.CommandContext(ctx, probe.Argv[0], probe.Argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Meta: map[string]string{
			"duration": time.Since(start).Round(time.Millisecond).String(),
		},
	}
	if s := stderr.String(); s != "" {
		if len(s) > stderrMetaLimit {
			s = s[:stderrMetaLimit]
		}
		result.Meta["stderr"] = s
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.Err = fmt.Sprintf("timeout after %s", probe.Timeout)
		result.Meta["failure_kind"] = FailureTimeout
		return result
	}

	if err != nil {
		result.Err = fmt.Sprintf("exec %s: %v", probe.Argv[0], err)
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.Meta["exit_code"] = strconv.Itoa(exitErr.ExitCode())
			result.Meta["failure_kind"] = classifyExit(exitErr.ExitCode(), stderr.String())
		} else if errors.Is(err, exec.ErrNotFound) {
			result.Meta["failure_kind"] = FailureNotFound
		} else {
			result.Meta["failure_kind"] = FailureUnknown
		}
		return result
	}

	result.OK = true
	result.Value = stdout.String()
	result.Meta["exit_code"] = "0"
	return result
}

// classifyExit maps a non-zero exit code and stderr content to a failure kind.
func classifyExit(code int, stderr string) string {
	switch code {
	case 126: // POSIX: cannot execute (permission denied)
		return FailurePermission
	case 127: // POSIX: command not found
		return FailureNotFound
	}
	lower := strings.ToLower(stderr)
	if strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted") ||
		strings.Contains(lower, "must be run as root") {
		return FailurePermission
	}
	return FailureExit
}
