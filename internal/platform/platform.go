// Package platform provides OS detection and posture probe definitions.
package platform

import (
	"runtime"
	"time"
)

// Probe defines a single read-only command whose output feeds one posture signal.
type Probe struct {
	// ID is the unique identifier matching config.toml keys and snapshot fields.
	ID string
	// Name is the human-readable display name.
	Name string
	// Argv is the command and its arguments, executed without a shell.
	Argv []string
	// Timeout is the maximum execution time before the process is killed.
	Timeout time.Duration
}

// Probe IDs for host signals. These are also the keys of the probe enable map
// in config.toml.
const (
	ProbeFirewall       = "firewall"
	ProbeDiskEncryption = "disk_encryption"
	ProbeAutoUpdates    = "auto_updates"
	ProbeBackups        = "backups"
	ProbeListeningPorts = "listening_ports"
	ProbeKernel         = "kernel"
)

// Probe IDs for the third-party agent CLI.
const (
	ProbeSecurityAudit = "security_audit"
	ProbeUpdateStatus  = "update_status"
	ProbeStatusDeep    = "status_deep"
)

// DetectOS returns the current operating system identifier.
func DetectOS() string {
	return runtime.GOOS
}

// HostProbes returns the OS-signal probes for the current OS.
// Unsupported platforms return nil; signal classification degrades to
// unknown rather than failing.
func HostProbes() []Probe {
	switch DetectOS() {
	case "darwin":
		return DarwinProbes()
	case "linux":
		return LinuxProbes()
	default:
		return nil
	}
}

// AgentProbes returns the probes for the external agent CLI.
// agentBin is the binary name or path of the agent (configurable).
func AgentProbes(agentBin string) []Probe {
	return []Probe{
		{
			ID:      ProbeSecurityAudit,
			Name:    "Agent Security Audit",
			Argv:    []string{agentBin, "audit"},
			Timeout: 60 * time.Second,
		},
		{
			ID:      ProbeUpdateStatus,
			Name:    "Agent Update Status",
			Argv:    []string{agentBin, "update", "status"},
			Timeout: 30 * time.Second,
		},
		{
			ID:      ProbeStatusDeep,
			Name:    "Agent Deep Status",
			Argv:    []string{agentBin, "status", "--deep"},
			Timeout: 60 * time.Second,
		},
	}
}

// FilterEnabled returns only probes that are enabled in the config.
// If enabledMap is nil, all probes are returned. Probes not mentioned in the
// map are treated as enabled.
func FilterEnabled(probes []Probe, enabledMap map[string]bool) []Probe {
	if enabledMap == nil {
		return probes
	}
	var filtered []Probe
	for _, p := range probes {
		enabled, exists := enabledMap[p.ID]
		if !exists || enabled {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterProbes returns only probes whose IDs are in the allowed list.
// If allowed is nil or empty, all probes are returned.
func FilterProbes(probes []Probe, allowed []string) []Probe {
	if len(allowed) == 0 {
		return probes
	}
	set := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		set[id] = true
	}
	var filtered []Probe
	for _, p := range probes {
		if set[p.ID] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
