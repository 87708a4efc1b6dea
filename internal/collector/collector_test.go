package collector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quietlane/hostguard/internal/platform"
)

func TestCollect_Parallel(t *testing.T) {
	skipOnWindows(t)

	const numProbes = 4
	probes := make([]platform.Probe, numProbes)
	for i := 0; i < numProbes; i++ {
		probes[i] = platform.Probe{
			ID:      fmt.Sprintf("probe_%d", i),
			Name:    fmt.Sprintf("Probe %d", i),
			Argv:    []string{"echo", fmt.Sprintf("out-%d", i)},
			Timeout: 5 * time.Second,
		}
	}

	coll := New(false)
	results := coll.Collect(context.Background(), probes)

	if len(results) != numProbes {
		t.Fatalf("expected %d results, got %d", numProbes, len(results))
	}
	for i := 0; i < numProbes; i++ {
		id := fmt.Sprintf("probe_%d", i)
		res, ok := results[id]
		if !ok {
			t.Fatalf("missing result for %s", id)
		}
		if !res.OK {
			t.Errorf("%s: OK = false, err = %q", id, res.Err)
		}
		want := fmt.Sprintf("out-%d\n", i)
		if res.Value != want {
			t.Errorf("%s: Value = %q, want %q", id, res.Value, want)
		}
	}
}

func TestCollect_OneFailureDoesNotAffectOthers(t *testing.T) {
	skipOnWindows(t)

	probes := []platform.Probe{
		{ID: "good", Name: "Good", Argv: []string{"echo", "fine"}, Timeout: 5 * time.Second},
		{ID: "bad", Name: "Bad", Argv: []string{"no-such-binary-qq"}, Timeout: 5 * time.Second},
		{ID: "slow", Name: "Slow", Argv: []string{"sleep", "10"}, Timeout: 200 * time.Millisecond},
	}

	coll := New(false)
	results := coll.Collect(context.Background(), probes)

	if !results["good"].OK {
		t.Errorf("good probe failed: %q", results["good"].Err)
	}
	if results["bad"].OK {
		t.Error("bad probe reported OK")
	}
	if results["slow"].OK {
		t.Error("slow probe reported OK despite timeout")
	}
	if results["slow"].Meta["failure_kind"] != FailureTimeout {
		t.Errorf("slow probe failure_kind = %q, want %q",
			results["slow"].Meta["failure_kind"], FailureTimeout)
	}
}

func TestCollect_Empty(t *testing.T) {
	coll := New(false)
	results := coll.Collect(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected empty result map, got %d entries", len(results))
	}
}
