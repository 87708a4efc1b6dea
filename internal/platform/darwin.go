package platform

import "time"

// DarwinProbes returns the macOS posture probes.
// All probes are read-only and safe to run without elevation; some report
// less detail when unprivileged, which classification treats as unknown.
func DarwinProbes() []Probe {
	return []Probe{
		{
			ID:      ProbeFirewall,
			Name:    "Application Firewall",
			Argv:    []string{"/usr/libexec/ApplicationFirewall/socketfilterfw", "--getglobalstate"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeDiskEncryption,
			Name:    "FileVault Disk Encryption",
			Argv:    []string{"fdesetup", "status"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeAutoUpdates,
			Name:    "Automatic Software Updates",
			Argv:    []string{"defaults", "read", "/Library/Preferences/com.apple.SoftwareUpdate", "AutomaticCheckEnabled"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeBackups,
			Name:    "Time Machine Backups",
			Argv:    []string{"tmutil", "destinationinfo"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeListeningPorts,
			Name:    "Listening TCP Ports",
			Argv:    []string{"lsof", "-nP", "-iTCP", "-sTCP:LISTEN"},
			Timeout: 15 * time.Second,
		},
		{
			ID:      ProbeKernel,
			Name:    "Kernel Release",
			Argv:    []string{"uname", "-r"},
			Timeout: 5 * time.Second,
		},
	}
}
