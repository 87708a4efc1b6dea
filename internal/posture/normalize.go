package posture

import (
	"regexp"

	"github.com/quietlane/hostguard/internal/collector"
)

// patternRule maps a text pattern in raw probe output to a signal state.
// Rules are evaluated in order; the first match wins.
type patternRule struct {
	re    *regexp.Regexp
	state State
}

// signalRules is the (platform, signal) classification table. Every pair not
// present here classifies as unknown, so unsupported platforms degrade
// gracefully instead of failing. Adding a platform or signal is a data
// change, not a control-flow change.
var signalRules = map[string]map[Signal][]patternRule{
	"darwin": {
		SignalFirewall: {
			{regexp.MustCompile(`(?i)enabled`), StateOn},
			{regexp.MustCompile(`(?i)disabled`), StateOff},
		},
		SignalDiskEncryption: {
			{regexp.MustCompile(`is On`), StateOn},
			{regexp.MustCompile(`Off`), StateOff},
		},
		SignalAutoUpdates: {
			{regexp.MustCompile(`^\s*1\s*$`), StateOn},
			{regexp.MustCompile(`^\s*0\s*$`), StateOff},
		},
		SignalBackups: {
			// The off rule comes first: destinationinfo prints a header line
			// even when reporting that no destinations are configured.
			{regexp.MustCompile(`(?i)no destinations configured`), StateOff},
			{regexp.MustCompile(`(?im)^\s*(Kind|Name|Mount Point)\s*:`), StateOn},
		},
	},
	"linux": {
		SignalFirewall: {
			{regexp.MustCompile(`(?i)status:\s*active`), StateOn},
			{regexp.MustCompile(`(?i)status:\s*inactive`), StateOff},
		},
		SignalDiskEncryption: {
			// lsblk output always lists disk rows, so the crypt rule must
			// come first; its absence on a successful listing means off.
			{regexp.MustCompile(`\bcrypt\b`), StateOn},
			{regexp.MustCompile(`\bdisk\b`), StateOff},
		},
		SignalAutoUpdates: {
			{regexp.MustCompile(`Unattended-Upgrade\s+"1"`), StateOn},
			{regexp.MustCompile(`Unattended-Upgrade\s+"0"`), StateOff},
		},
		SignalBackups: {
			{regexp.MustCompile(`(?i)(borg|restic|rsnapshot|timeshift|duplicity|backup)`), StateOn},
			{regexp.MustCompile(`\d+ timers listed`), StateOff},
		},
	},
}

// Classify derives a SignalState from one raw probe result.
// A failed invocation is always unknown, never inferred from partial text.
// Output that matches no rule for the (platform, signal) pair is unknown.
func Classify(sig Signal, platformName string, res collector.Result) SignalState {
	state := SignalState{State: StateUnknown, RawText: res.Value}
	if !res.OK {
		return state
	}
	for _, rule := range signalRules[platformName][sig] {
		if rule.re.MatchString(res.Value) {
			state.State = rule.state
			return state
		}
	}
	return state
}
