// Package regress flags security-relevant regressions between two posture
// snapshots using a fixed rule set over named fields.
//
// It deliberately shares no code with the generic diff engine: that engine
// is a syntax-level utility, while these rules encode severity policy for
// specific fields.
package regress

import (
	"fmt"

	"github.com/quietlane/hostguard/internal/posture"
)

// Severity ranks how urgent a regression is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Regression is one good-to-bad transition between two snapshots.
// NewPorts and the counts are populated only for the listening-ports rule.
type Regression struct {
	Field    string   `json:"field"`
	Was      string   `json:"wasValue"`
	Now      string   `json:"nowValue"`
	Severity Severity `json:"severity"`
	NewPorts []int    `json:"newPorts,omitempty"`
	WasCount int      `json:"wasCount,omitempty"`
	NowCount int      `json:"nowCount,omitempty"`
}

// signalRule is one "previously on, no longer on" rule.
type signalRule struct {
	field    string
	signal   posture.Signal
	severity Severity
}

// Rules fire independently, in declaration order. Only transitions away
// from the good state are newsworthy: a host that was already off or
// unknown stays quiet, which avoids alert fatigue on chronically-bad hosts.
var signalRules = []signalRule{
	{"host.firewall", posture.SignalFirewall, SeverityHigh},
	{"host.diskEncryption", posture.SignalDiskEncryption, SeverityHigh},
	{"host.autoUpdates", posture.SignalAutoUpdates, SeverityMedium},
}

// Detect compares two snapshots and returns regressions in fixed rule
// order (not severity order). It is stateless and pure: the same inputs
// always produce the same output, and neither snapshot is modified.
func Detect(previous, latest posture.Snapshot) []Regression {
	var regs []Regression

	for _, rule := range signalRules {
		was := previous.SignalFor(rule.signal).State
		now := latest.SignalFor(rule.signal).State
		if was == posture.StateOn && now != posture.StateOn {
			regs = append(regs, Regression{
				Field:    rule.field,
				Was:      string(was),
				Now:      string(now),
				Severity: rule.severity,
			})
		}
	}

	if r := detectNewPorts(previous, latest); r != nil {
		regs = append(regs, *r)
	}

	// A recovered audit (false -> true) is never reported.
	if previous.ToolStatus.SecurityAudit.OK && !latest.ToolStatus.SecurityAudit.OK {
		regs = append(regs, Regression{
			Field:    "toolStatus.securityAudit",
			Was:      "ok",
			Now:      "failed",
			Severity: SeverityHigh,
		})
	}

	return regs
}

// detectNewPorts reports ports present in latest but not in previous.
// Port removal is never a regression; fewer open ports is neutral-or-good.
func detectNewPorts(previous, latest posture.Snapshot) *Regression {
	prevSet := make(map[int]bool, len(previous.Host.Listening.TCPPorts))
	for _, rec := range previous.Host.Listening.TCPPorts {
		prevSet[rec.Port] = true
	}

	var newPorts []int
	for _, rec := range latest.Host.Listening.TCPPorts {
		if !prevSet[rec.Port] {
			newPorts = append(newPorts, rec.Port)
		}
	}
	if len(newPorts) == 0 {
		return nil
	}

	wasCount := len(previous.Host.Listening.TCPPorts)
	nowCount := len(latest.Host.Listening.TCPPorts)
	return &Regression{
		Field:    "host.listening.tcpPorts",
		Was:      fmt.Sprintf("%d ports", wasCount),
		Now:      fmt.Sprintf("%d ports", nowCount),
		Severity: SeverityMedium,
		NewPorts: newPorts,
		WasCount: wasCount,
		NowCount: nowCount,
	}
}
