// Package orchestrator coordinates the Collect → Assemble → Score → Compare
// pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/quietlane/hostguard/internal/collector"
	"github.com/quietlane/hostguard/internal/config"
	"github.com/quietlane/hostguard/internal/history"
	"github.com/quietlane/hostguard/internal/platform"
	"github.com/quietlane/hostguard/internal/posture"
	"github.com/quietlane/hostguard/internal/regress"
	"github.com/quietlane/hostguard/internal/report"
	"github.com/quietlane/hostguard/internal/risk"
)

// Options holds CLI flags for the orchestrator.
type Options struct {
	Only    []string // run specific host probes only
	Verbose bool
	Quiet   bool // suppress the summary (cron use)
}

// Orchestrator runs the snapshot pipeline.
type Orchestrator struct {
	cfg   *config.Config
	opts  Options
	store *history.Store
}

// New creates an Orchestrator. store may be nil for collect-only use.
func New(cfg *config.Config, store *history.Store, opts Options) *Orchestrator {
	return &Orchestrator{cfg: cfg, store: store, opts: opts}
}

// CollectSnapshot gathers all signals and assembles a snapshot.
// Host probes and agent probes run as two independent concurrent groups
// whose results are joined before assembly; each group fans out further
// per probe. Collection never fails; probes degrade to unknown signals.
func (o *Orchestrator) CollectSnapshot(ctx context.Context) posture.Snapshot {
	osName := platform.DetectOS()

	hostProbes := platform.HostProbes()
	hostProbes = platform.FilterEnabled(hostProbes, o.cfg.Probes)
	hostProbes = platform.FilterProbes(hostProbes, o.opts.Only)
	agentProbes := platform.AgentProbes(o.cfg.Agent.Bin)

	coll := collector.New(o.opts.Verbose)

	var hostResults, agentResults map[string]collector.Result
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hostResults = coll.Collect(ctx, hostProbes)
	}()
	go func() {
		defer wg.Done()
		agentResults = coll.Collect(ctx, agentProbes)
	}()
	wg.Wait()

	portFormat := posture.FormatSS
	if osName == "darwin" {
		portFormat = posture.FormatLsof
	}

	return posture.Assemble(posture.Inputs{
		Platform:   osName,
		Arch:       runtime.GOARCH,
		PortFormat: portFormat,
		Host:       hostResults,
		Tools: posture.ToolStatus{
			SecurityAudit: agentResults[platform.ProbeSecurityAudit],
			UpdateStatus:  agentResults[platform.ProbeUpdateStatus],
			StatusDeep:    agentResults[platform.ProbeStatusDeep],
		},
	})
}

// Run executes the full pipeline: collect, score, persist, and compare
// against the previous snapshot.
func (o *Orchestrator) Run(ctx context.Context) error {
	fmt.Fprintf(os.Stderr, "[*] Collecting posture signals...\n")
	snap := o.CollectSnapshot(ctx)
	assessment := risk.Score(snap)

	// What was latest before the save is the comparison baseline.
	var prev *history.Entry
	if o.store != nil {
		var err error
		prev, err = o.store.Latest(ctx)
		if err != nil && !errors.Is(err, history.ErrEmpty) {
			return fmt.Errorf("load previous snapshot: %w", err)
		}

		id, err := o.store.Save(ctx, snap, assessment.Score)
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(os.Stderr, "[*] Snapshot stored: %s\n", id)
	}

	if o.opts.Quiet {
		return nil
	}

	report.WriteSummary(os.Stdout, snap, assessment)

	if prev != nil {
		fmt.Println()
		report.WriteRegressions(os.Stdout, regress.Detect(prev.Snapshot, snap))
	}
	return nil
}
