// Package remedy maps weak posture signals to concrete remediation steps.
package remedy

import (
	"github.com/quietlane/hostguard/internal/posture"
)

// Step is one remediation action. Command and Rollback are exact shell
// commands; Caveats list consequences an operator should read before
// confirming. The planner only produces steps; applying them is the
// CLI's guarded confirmation loop.
type Step struct {
	Signal   string   `json:"signal"`
	Title    string   `json:"title"`
	Command  string   `json:"command"`
	Rollback string   `json:"rollback"`
	Caveats  []string `json:"caveats,omitempty"`
}

// planOrder lists signals most severe first, matching the scoring weights.
var planOrder = []posture.Signal{
	posture.SignalFirewall,
	posture.SignalDiskEncryption,
	posture.SignalAutoUpdates,
	posture.SignalBackups,
}

// stepTable is the per-platform remediation catalog. A (platform, signal)
// pair without an entry simply produces no step.
var stepTable = map[string]map[posture.Signal]Step{
	"darwin": {
		posture.SignalFirewall: {
			Signal:   string(posture.SignalFirewall),
			Title:    "Enable the application firewall",
			Command:  "sudo /usr/libexec/ApplicationFirewall/socketfilterfw --setglobalstate on",
			Rollback: "sudo /usr/libexec/ApplicationFirewall/socketfilterfw --setglobalstate off",
		},
		posture.SignalDiskEncryption: {
			Signal:   string(posture.SignalDiskEncryption),
			Title:    "Enable FileVault disk encryption",
			Command:  "sudo fdesetup enable",
			Rollback: "sudo fdesetup disable",
			Caveats: []string{
				"Store the recovery key somewhere safe; losing it makes the disk unrecoverable.",
				"Initial encryption runs in the background and can take hours.",
			},
		},
		posture.SignalAutoUpdates: {
			Signal:   string(posture.SignalAutoUpdates),
			Title:    "Enable automatic update checks",
			Command:  "sudo defaults write /Library/Preferences/com.apple.SoftwareUpdate AutomaticCheckEnabled -bool true",
			Rollback: "sudo defaults write /Library/Preferences/com.apple.SoftwareUpdate AutomaticCheckEnabled -bool false",
		},
		posture.SignalBackups: {
			Signal:   string(posture.SignalBackups),
			Title:    "Configure a Time Machine destination",
			Command:  "sudo tmutil setdestination /Volumes/Backup",
			Rollback: "sudo tmutil removedestination $(tmutil destinationinfo | awk '/^ID/ {print $3}')",
			Caveats: []string{
				"Replace /Volumes/Backup with an attached volume or network share before running.",
			},
		},
	},
	"linux": {
		posture.SignalFirewall: {
			Signal:   string(posture.SignalFirewall),
			Title:    "Enable the UFW firewall",
			Command:  "sudo ufw enable",
			Rollback: "sudo ufw disable",
			Caveats: []string{
				"Allow SSH first (sudo ufw allow OpenSSH) or a remote session may be cut off.",
			},
		},
		posture.SignalDiskEncryption: {
			Signal:   string(posture.SignalDiskEncryption),
			Title:    "Encrypt data volumes with LUKS",
			Command:  "sudo cryptsetup luksFormat /dev/sdX && sudo cryptsetup open /dev/sdX secure-data",
			Rollback: "sudo cryptsetup close secure-data",
			Caveats: []string{
				"luksFormat DESTROYS existing data on the target device; back up first.",
				"The root filesystem cannot be encrypted in place; this applies to secondary volumes.",
			},
		},
		posture.SignalAutoUpdates: {
			Signal:   string(posture.SignalAutoUpdates),
			Title:    "Enable unattended security upgrades",
			Command:  "sudo apt-get install -y unattended-upgrades && sudo dpkg-reconfigure -f noninteractive unattended-upgrades",
			Rollback: "sudo apt-get remove -y unattended-upgrades",
		},
		posture.SignalBackups: {
			Signal:   string(posture.SignalBackups),
			Title:    "Schedule restic backups",
			Command:  "sudo apt-get install -y restic && sudo systemctl enable --now restic-backup.timer",
			Rollback: "sudo systemctl disable --now restic-backup.timer",
			Caveats: []string{
				"Requires a restic repository and a restic-backup.service unit configured beforehand.",
			},
		},
	},
}

// Plan returns the remediation steps for every signal that is off or
// unknown in the snapshot, ordered most severe first. A fully hardened
// snapshot yields an empty plan; unsupported platforms yield an empty
// plan rather than an error.
func Plan(snap posture.Snapshot) []Step {
	platformSteps := stepTable[snap.Host.OS.Platform]
	if platformSteps == nil {
		return nil
	}

	var steps []Step
	for _, sig := range planOrder {
		if snap.SignalFor(sig).State == posture.StateOn {
			continue
		}
		if step, ok := platformSteps[sig]; ok {
			steps = append(steps, step)
		}
	}
	return steps
}
