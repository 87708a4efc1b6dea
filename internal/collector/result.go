// Package collector executes posture probes and captures their outcomes.
package collector

// Result is the outcome of one external command invocation.
// It is the universal fallible-fact wrapper consumed throughout the pipeline:
// OK=true guarantees Value holds the captured stdout; OK=false guarantees
// Err describes the failure. A failed invocation is data, never a Go error.
type Result struct {
	// OK reports whether the command ran to completion with exit code 0.
	OK bool `json:"ok"`
	// Value is the raw stdout text (present when OK).
	Value string `json:"value,omitempty"`
	// Err is the failure description (present when !OK).
	Err string `json:"error,omitempty"`
	// Meta carries execution details: duration, exit_code, failure_kind,
	// and truncated stderr when present.
	Meta map[string]string `json:"meta,omitempty"`
}

// Failure kinds recorded in Meta["failure_kind"].
const (
	FailureTimeout    = "timeout"
	FailureNotFound   = "not_found"
	FailurePermission = "permission_denied"
	FailureExit       = "exit_error"
	FailureUnknown    = "unknown"
)

// Ok constructs a successful Result.
func Ok(value string) Result {
	return Result{OK: true, Value: value}
}

// Fail constructs a failed Result with the given reason.
func Fail(reason string) Result {
	return Result{OK: false, Err: reason}
}
