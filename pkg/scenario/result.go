package scenario

import "time"

// Status constants for scenario execution outcomes.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusPassed   = "passed"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
	StatusTimedOut = "timed_out"
	StatusStuck    = "stuck"
	StatusError    = "error"
)

// Result captures the complete outcome of one scenario
// execution: verdict, timing, process exit state, and
// references to archived output streams.
type Result struct {
	// ScenarioID is the unique identifier of the scenario.
	ScenarioID ID `json:"scenario_id"`

	// ScenarioName is the human-readable name.
	ScenarioName string `json:"scenario_name"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// Check names the expectation check that failed, empty
	// when the scenario passed.
	Check string `json:"check,omitempty"`

	// Verdict is the full diagnostic for a failed check or
	// execution error.
	Verdict string `json:"verdict,omitempty"`

	// ExitCode is the process exit code, nil when the process
	// did not exit normally or never ran.
	ExitCode *int `json:"exit_code,omitempty"`

	// ProcessState describes how the process finished (e.g.
	// "exit status 0", "signal: killed").
	ProcessState string `json:"process_state,omitempty"`

	// StdoutDigest and StderrDigest reference archived stream
	// artifacts, set only when streams were persisted.
	StdoutDigest string `json:"stdout_digest,omitempty"`
	StderrDigest string `json:"stderr_digest,omitempty"`

	// StartTime is when execution began.
	StartTime time.Time `json:"start_time"`

	// EndTime is when execution finished.
	EndTime time.Time `json:"end_time"`

	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration"`
}

// Passed reports whether the scenario ended in StatusPassed.
func (r *Result) Passed() bool {
	return r.Status == StatusPassed
}

// IsFinal reports whether the status is a terminal state.
func (r *Result) IsFinal() bool {
	switch r.Status {
	case StatusPassed, StatusFailed, StatusSkipped,
		StatusTimedOut, StatusStuck, StatusError:
		return true
	}
	return false
}
