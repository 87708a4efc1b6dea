// Package risk scores a posture snapshot with a fixed, explainable
// deduction model.
package risk

import (
	"fmt"
	"sort"

	"github.com/quietlane/hostguard/internal/posture"
)

// Deduction is one named point adjustment applied to the base score of 100.
// Deductions are transient display values and are not persisted with the
// snapshot.
type Deduction struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// Assessment is the result of scoring one snapshot.
type Assessment struct {
	Score      int         `json:"score"`
	Deductions []Deduction `json:"deductions"`
}

// Severity buckets a deduction's magnitude for display.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Deduction weights. These are product-tuned policy values, not derived
// constants; changing them is a tuning decision, not a bug fix.
const (
	firewallOffPoints       = -30
	firewallUnknownPoints   = -15
	encryptionOffPoints     = -25
	encryptionUnknownPoints = -10
	updatesOffPoints        = -15
	updatesUnknownPoints    = -5
	openPortsPoints         = -10
	auditFailedPoints       = -20
	updateCheckFailedPoints = -5

	// openPortThreshold is the listening-port count above which the single
	// flat port deduction applies.
	openPortThreshold = 5
)

// Score evaluates the fixed deduction table against a snapshot.
// The result is clamped to [0,100] and its deductions are ordered most
// severe first, independent of evaluation order. Pure and stateless; safe
// to call concurrently on distinct inputs.
func Score(snap posture.Snapshot) Assessment {
	var deductions []Deduction
	add := func(reason string, points int) {
		deductions = append(deductions, Deduction{Reason: reason, Points: points})
	}

	// At most one branch fires per signal. Anything that is not a clear
	// on or off (including an absent field in older stored snapshots)
	// counts as unknown.
	switch snap.Host.Firewall.State {
	case posture.StateOn:
	case posture.StateOff:
		add("Firewall is disabled", firewallOffPoints)
	default:
		add("Firewall state could not be determined", firewallUnknownPoints)
	}

	switch snap.Host.DiskEncryption.State {
	case posture.StateOn:
	case posture.StateOff:
		add("Disk encryption is disabled", encryptionOffPoints)
	default:
		add("Disk encryption state could not be determined", encryptionUnknownPoints)
	}

	switch snap.Host.AutoUpdates.State {
	case posture.StateOn:
	case posture.StateOff:
		add("Automatic updates are disabled", updatesOffPoints)
	default:
		add("Automatic update state could not be determined", updatesUnknownPoints)
	}

	if n := len(snap.Host.Listening.TCPPorts); n > openPortThreshold {
		add(fmt.Sprintf("%d listening TCP ports (more than %d)", n, openPortThreshold), openPortsPoints)
	}

	if !snap.ToolStatus.SecurityAudit.OK {
		add("Agent security audit failed", auditFailedPoints)
	}
	if !snap.ToolStatus.UpdateStatus.OK {
		add("Agent update status check failed", updateCheckFailedPoints)
	}

	score := 100
	for _, d := range deductions {
		score += d.Points
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	// Most negative first for display; stable so equal weights keep
	// evaluation order.
	sort.SliceStable(deductions, func(i, j int) bool {
		return deductions[i].Points < deductions[j].Points
	})

	return Assessment{Score: score, Deductions: deductions}
}

// SeverityFor buckets a deduction's point magnitude. It is recomputed
// wherever severity is shown rather than stored, so display stays in sync
// with the weights.
func SeverityFor(points int) Severity {
	switch {
	case points <= -25:
		return SeverityHigh
	case points <= -10:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
