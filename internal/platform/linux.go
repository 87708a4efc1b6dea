package platform

import "time"

// LinuxProbes returns the Linux posture probes.
// Commands target the Debian/Ubuntu family; on other distributions a probe
// may fail or match no pattern, which classification reports as unknown.
func LinuxProbes() []Probe {
	return []Probe{
		{
			ID:      ProbeFirewall,
			Name:    "UFW Firewall",
			Argv:    []string{"ufw", "status"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeDiskEncryption,
			Name:    "Block Device Encryption",
			Argv:    []string{"lsblk", "-o", "NAME,TYPE,MOUNTPOINT"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeAutoUpdates,
			Name:    "Unattended Upgrades",
			Argv:    []string{"apt-config", "dump", "APT::Periodic::Unattended-Upgrade"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeBackups,
			Name:    "Backup Timers",
			Argv:    []string{"systemctl", "list-timers", "--all", "--no-pager"},
			Timeout: 10 * time.Second,
		},
		{
			ID:      ProbeListeningPorts,
			Name:    "Listening TCP Ports",
			Argv:    []string{"ss", "-tlnp"},
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
