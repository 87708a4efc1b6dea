// Package posture defines the posture snapshot model and the parsing and
// normalization that turn raw probe output into typed signals.
package posture

import (
	"strings"
	"time"

	"github.com/quietlane/hostguard/internal/collector"
	"github.com/quietlane/hostguard/internal/platform"
)

// State is the tri-state classification of one security signal.
type State string

const (
	StateOn      State = "on"
	StateOff     State = "off"
	StateUnknown State = "unknown"
)

// Signal identifies one tri-state security fact on a host.
type Signal string

const (
	SignalFirewall       Signal = "firewall"
	SignalDiskEncryption Signal = "diskEncryption"
	SignalAutoUpdates    Signal = "autoUpdates"
	SignalBackups        Signal = "backups"
)

// SignalState pairs a classified state with the raw text it was derived from.
// The state is derived solely from RawText by fixed pattern rules; unknown is
// the safe default and the model never guesses toward on.
type SignalState struct {
	State   State  `json:"state"`
	RawText string `json:"rawText"`
}

// PortRecord is one listening TCP port with its owning process, if known.
type PortRecord struct {
	Port    int    `json:"port"`
	PID     *int   `json:"pid"`
	Process string `json:"process"`
}

// Listening holds the parsed listening-port table plus the raw listing text.
type Listening struct {
	TCPPorts []PortRecord `json:"tcpPorts"`
	RawText  string       `json:"rawText"`
}

// OSInfo identifies the host operating system.
type OSInfo struct {
	Platform string `json:"platform"`
	Release  string `json:"release"`
	Arch     string `json:"arch"`
}

// Host groups all host-level signals of a snapshot.
type Host struct {
	OS             OSInfo      `json:"os"`
	Listening      Listening   `json:"listening"`
	Firewall       SignalState `json:"firewall"`
	DiskEncryption SignalState `json:"diskEncryption"`
	AutoUpdates    SignalState `json:"autoUpdates"`
	Backups        SignalState `json:"backups"`
}

// ToolStatus holds the raw results of the external agent CLI invocations.
type ToolStatus struct {
	SecurityAudit collector.Result `json:"securityAudit"`
	UpdateStatus  collector.Result `json:"updateStatus"`
	StatusDeep    collector.Result `json:"statusDeep"`
}

// Snapshot is one point-in-time capture of all security signals for a host.
// Snapshots are immutable after assembly and self-contained; the field names
// and nesting here are the interchange contract for stored history.
type Snapshot struct {
	CollectedAt time.Time  `json:"collectedAt"`
	ToolStatus  ToolStatus `json:"toolStatus"`
	Host        Host       `json:"host"`
}

// Inputs bundles the raw probe results a snapshot is assembled from.
type Inputs struct {
	Platform   string
	Arch       string
	PortFormat PortFormat
	Host       map[string]collector.Result // keyed by platform.Probe ID
	Tools      ToolStatus
}

// Assemble builds a Snapshot from raw probe results. It never fails: missing
// or failed probes degrade to unknown signals and empty port sets.
func Assemble(in Inputs) Snapshot {
	release := "unknown"
	if kr, ok := in.Host[platform.ProbeKernel]; ok && kr.OK {
		if v := strings.TrimSpace(kr.Value); v != "" {
			release = v
		}
	}

	listening := Listening{}
	if pr, ok := in.Host[platform.ProbeListeningPorts]; ok {
		listening.RawText = pr.Value
		if pr.OK {
			listening.TCPPorts = ParsePorts(pr.Value, in.PortFormat)
		}
	}

	return Snapshot{
		CollectedAt: time.Now().UTC(),
		ToolStatus:  in.Tools,
		Host: Host{
			OS: OSInfo{
				Platform: in.Platform,
				Release:  release,
				Arch:     in.Arch,
			},
			Listening:      listening,
			Firewall:       Classify(SignalFirewall, in.Platform, in.Host[platform.ProbeFirewall]),
			DiskEncryption: Classify(SignalDiskEncryption, in.Platform, in.Host[platform.ProbeDiskEncryption]),
			AutoUpdates:    Classify(SignalAutoUpdates, in.Platform, in.Host[platform.ProbeAutoUpdates]),
			Backups:        Classify(SignalBackups, in.Platform, in.Host[platform.ProbeBackups]),
		},
	}
}

// SignalFor returns the named signal state from a snapshot.
// Unrecognized names return an unknown state so comparison logic can treat
// structurally missing fields as absent values.
func (s Snapshot) SignalFor(sig Signal) SignalState {
	switch sig {
	case SignalFirewall:
		return s.Host.Firewall
	case SignalDiskEncryption:
		return s.Host.DiskEncryption
	case SignalAutoUpdates:
		return s.Host.AutoUpdates
	case SignalBackups:
		return s.Host.Backups
	default:
		return SignalState{State: StateUnknown}
	}
}
