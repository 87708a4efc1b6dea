// Package report renders assessment results for the CLI and exports
// snapshots in interchange formats. The core packages hand it plain data
// and know nothing about presentation.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/quietlane/hostguard/internal/diff"
	"github.com/quietlane/hostguard/internal/posture"
	"github.com/quietlane/hostguard/internal/regress"
	"github.com/quietlane/hostguard/internal/remedy"
	"github.com/quietlane/hostguard/internal/risk"
)

// Export writes v to w as "json" or "yaml".
func Export(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("report: unsupported format %q (json, yaml)", format)
	}
}

// WriteSummary prints a one-screen posture summary.
func WriteSummary(w io.Writer, snap posture.Snapshot, a risk.Assessment) {
	fmt.Fprintf(w, "Host: %s %s (%s)\n", snap.Host.OS.Platform, snap.Host.OS.Release, snap.Host.OS.Arch)
	fmt.Fprintf(w, "Collected: %s\n", snap.CollectedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Score: %d/100\n\n", a.Score)

	fmt.Fprintf(w, "Signals:\n")
	fmt.Fprintf(w, "  firewall        %s\n", snap.Host.Firewall.State)
	fmt.Fprintf(w, "  diskEncryption  %s\n", snap.Host.DiskEncryption.State)
	fmt.Fprintf(w, "  autoUpdates     %s\n", snap.Host.AutoUpdates.State)
	fmt.Fprintf(w, "  backups         %s\n", snap.Host.Backups.State)
	fmt.Fprintf(w, "  listening ports %d\n", len(snap.Host.Listening.TCPPorts))

	if len(a.Deductions) > 0 {
		fmt.Fprintf(w, "\nDeductions:\n")
		for _, d := range a.Deductions {
			fmt.Fprintf(w, "  [%-6s] %4d  %s\n", risk.SeverityFor(d.Points), d.Points, d.Reason)
		}
	}
}

// WriteRegressions prints detected regressions, or a quiet all-clear.
func WriteRegressions(w io.Writer, regs []regress.Regression) {
	if len(regs) == 0 {
		fmt.Fprintln(w, "No regressions detected.")
		return
	}
	fmt.Fprintf(w, "Regressions (%d):\n", len(regs))
	for _, r := range regs {
		fmt.Fprintf(w, "  [%-6s] %s: %s -> %s\n", r.Severity, r.Field, r.Was, r.Now)
		if len(r.NewPorts) > 0 {
			fmt.Fprintf(w, "           new ports: %v (%d -> %d)\n", r.NewPorts, r.WasCount, r.NowCount)
		}
	}
}

// WriteDiff prints a raw structural diff.
func WriteDiff(w io.Writer, entries []diff.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Snapshots are identical.")
		return
	}
	for _, e := range entries {
		switch e.Kind {
		case diff.KindAdded:
			fmt.Fprintf(w, "  + %s = %v\n", e.Path, e.New)
		case diff.KindRemoved:
			fmt.Fprintf(w, "  - %s = %v\n", e.Path, e.Old)
		case diff.KindChanged:
			fmt.Fprintf(w, "  ~ %s: %v -> %v\n", e.Path, e.Old, e.New)
		}
	}
}

// WritePlan prints remediation steps with their rollback commands.
func WritePlan(w io.Writer, steps []remedy.Step) {
	if len(steps) == 0 {
		fmt.Fprintln(w, "Nothing to remediate.")
		return
	}
	for i, s := range steps {
		fmt.Fprintf(w, "%d. %s [%s]\n", i+1, s.Title, s.Signal)
		fmt.Fprintf(w, "   run:      %s\n", s.Command)
		fmt.Fprintf(w, "   rollback: %s\n", s.Rollback)
		for _, c := range s.Caveats {
			fmt.Fprintf(w, "   caveat:   %s\n", c)
		}
	}
}
