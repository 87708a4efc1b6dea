package posture

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/quietlane/hostguard/internal/collector"
	"github.com/quietlane/hostguard/internal/platform"
)

func sampleInputs() Inputs {
	return Inputs{
		Platform:   "linux",
		Arch:       "amd64",
		PortFormat: FormatSS,
		Host: map[string]collector.Result{
			platform.ProbeKernel:         collector.Ok("6.8.0-45-generic\n"),
			platform.ProbeFirewall:       collector.Ok("Status: active\n"),
			platform.ProbeDiskEncryption: collector.Ok("NAME TYPE\nsda disk\ncr0 crypt\n"),
			platform.ProbeAutoUpdates:    collector.Ok(`APT::Periodic::Unattended-Upgrade "1";`),
			platform.ProbeBackups:        collector.Fail("exec systemctl: not found"),
			platform.ProbeListeningPorts: collector.Ok(ssSample),
		},
		Tools: ToolStatus{
			SecurityAudit: collector.Ok("audit passed"),
			UpdateStatus:  collector.Ok("up to date"),
			StatusDeep:    collector.Fail("timeout after 60s"),
		},
	}
}

func TestAssemble(t *testing.T) {
	before := time.Now().UTC()
	snap := Assemble(sampleInputs())

	if snap.CollectedAt.Before(before) {
		t.Errorf("CollectedAt %v is before assembly start %v", snap.CollectedAt, before)
	}
	if snap.Host.OS.Platform != "linux" || snap.Host.OS.Arch != "amd64" {
		t.Errorf("OS info = %+v", snap.Host.OS)
	}
	if snap.Host.OS.Release != "6.8.0-45-generic" {
		t.Errorf("Release = %q, want trimmed kernel release", snap.Host.OS.Release)
	}
	if snap.Host.Firewall.State != StateOn {
		t.Errorf("Firewall = %s, want on", snap.Host.Firewall.State)
	}
	if snap.Host.DiskEncryption.State != StateOn {
		t.Errorf("DiskEncryption = %s, want on", snap.Host.DiskEncryption.State)
	}
	if snap.Host.AutoUpdates.State != StateOn {
		t.Errorf("AutoUpdates = %s, want on", snap.Host.AutoUpdates.State)
	}
	// Failed probe degrades to unknown, never to off or on.
	if snap.Host.Backups.State != StateUnknown {
		t.Errorf("Backups = %s, want unknown for failed probe", snap.Host.Backups.State)
	}
	if len(snap.Host.Listening.TCPPorts) != 2 {
		t.Errorf("parsed %d ports, want 2", len(snap.Host.Listening.TCPPorts))
	}
	if snap.Host.Listening.RawText == "" {
		t.Error("raw port listing not preserved")
	}
	if !snap.ToolStatus.SecurityAudit.OK || snap.ToolStatus.StatusDeep.OK {
		t.Errorf("tool status not carried through: %+v", snap.ToolStatus)
	}
}

func TestAssemble_MissingProbesDegrade(t *testing.T) {
	snap := Assemble(Inputs{Platform: "linux", Arch: "arm64", PortFormat: FormatSS})

	if snap.Host.OS.Release != "unknown" {
		t.Errorf("Release = %q, want unknown", snap.Host.OS.Release)
	}
	for _, sig := range []Signal{SignalFirewall, SignalDiskEncryption, SignalAutoUpdates, SignalBackups} {
		if snap.SignalFor(sig).State != StateUnknown {
			t.Errorf("%s = %s, want unknown", sig, snap.SignalFor(sig).State)
		}
	}
	if len(snap.Host.Listening.TCPPorts) != 0 {
		t.Errorf("expected no ports, got %d", len(snap.Host.Listening.TCPPorts))
	}
}

// The JSON field names and nesting are the interchange contract for stored
// history; anything reading old snapshots depends on them.
func TestSnapshot_JSONContract(t *testing.T) {
	snap := Assemble(sampleInputs())
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	js := string(data)

	for _, field := range []string{
		`"collectedAt"`, `"toolStatus"`, `"securityAudit"`, `"updateStatus"`,
		`"statusDeep"`, `"host"`, `"os"`, `"platform"`, `"release"`, `"arch"`,
		`"listening"`, `"tcpPorts"`, `"rawText"`, `"firewall"`,
		`"diskEncryption"`, `"autoUpdates"`, `"backups"`, `"state"`,
		`"port"`, `"pid"`, `"process"`, `"ok"`,
	} {
		if !strings.Contains(js, field) {
			t.Errorf("serialized snapshot missing field %s", field)
		}
	}
}

func TestSnapshot_PIDSerializesAsNull(t *testing.T) {
	rec := PortRecord{Port: 6379, Process: "unknown"}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"pid":null`) {
		t.Errorf("missing pid null: %s", data)
	}
}
