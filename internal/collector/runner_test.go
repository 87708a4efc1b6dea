package collector

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/quietlane/hostguard/internal/platform"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("probe runner tests use POSIX commands")
	}
}

func TestRun_Success(t *testing.T) {
	skipOnWindows(t)
	probe := platform.Probe{
		ID:      "echo_test",
		Name:    "Echo",
		Argv:    []string{"echo", "hello"},
		Timeout: 5 * time.Second,
	}

	res := Run(context.Background(), probe)

	if !res.OK {
		t.Fatalf("Run: OK = false, err = %q", res.Err)
	}
	if res.Value != "hello\n" {
		t.Errorf("Value = %q, want %q", res.Value, "hello\n")
	}
	if res.Meta["exit_code"] != "0" {
		t.Errorf("exit_code = %q, want %q", res.Meta["exit_code"], "0")
	}
}

func TestRun_CommandNotFound(t *testing.T) {
	skipOnWindows(t)
	probe := platform.Probe{
		ID:      "missing",
		Name:    "Missing Binary",
		Argv:    []string{"definitely-not-a-real-command-xyz"},
		Timeout: 5 * time.Second,
	}

	res := Run(context.Background(), probe)

	if res.OK {
		t.Fatal("Run: OK = true for missing binary")
	}
	if res.Err == "" {
		t.Error("expected non-empty error for missing binary")
	}
	if res.Meta["failure_kind"] != FailureNotFound {
		t.Errorf("failure_kind = %q, want %q", res.Meta["failure_kind"], FailureNotFound)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	probe := platform.Probe{
		ID:      "false_test",
		Name:    "False",
		Argv:    []string{"false"},
		Timeout: 5 * time.Second,
	}

	res := Run(context.Background(), probe)

	if res.OK {
		t.Fatal("Run: OK = true for non-zero exit")
	}
	if res.Meta["failure_kind"] != FailureExit {
		t.Errorf("failure_kind = %q, want %q", res.Meta["failure_kind"], FailureExit)
	}
}

func TestRun_Timeout(t *testing.T) {
	skipOnWindows(t)
	probe := platform.Probe{
		ID:      "slow",
		Name:    "Slow Command",
		Argv:    []string{"sleep", "30"},
		Timeout: 200 * time.Millisecond,
	}

	start := time.Now()
	res := Run(context.Background(), probe)
	elapsed := time.Since(start)

	if res.OK {
		t.Fatal("Run: OK = true for timed-out command")
	}
	if res.Meta["failure_kind"] != FailureTimeout {
		t.Errorf("failure_kind = %q, want %q", res.Meta["failure_kind"], FailureTimeout)
	}
	if elapsed > 5*time.Second {
		t.Errorf("timeout was not enforced: took %s", elapsed)
	}
}

func TestClassifyExit(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		stderr string
		want   string
	}{
		{"permission exit code", 126, "", FailurePermission},
		{"not found exit code", 127, "", FailureNotFound},
		{"permission in stderr", 1, "ufw: permission denied", FailurePermission},
		{"root required in stderr", 1, "this must be run as root", FailurePermission},
		{"plain failure", 2, "bad flag", FailureExit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyExit(tt.code, tt.stderr); got != tt.want {
				t.Errorf("classifyExit(%d, %q) = %q, want %q", tt.code, tt.stderr, got, tt.want)
			}
		})
	}
}
