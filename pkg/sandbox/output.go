package sandbox

import "fmt"

// Output is the captured result of one finished process: the
// exit code, a human-readable process state, and the raw bytes
// of both streams. It is produced once per run and never
// mutated afterwards; the assertion engine consumes it as-is.
// A nil ExitCode means the process did not exit normally (for
// example it was killed by a signal); State describes what
// happened either way.
type Output struct {
	ExitCode *int
	State    string
	Stdout   []byte
	Stderr   []byte
}

// Code returns the exit code and whether the process exited
// normally.
func (o *Output) Code() (int, bool) {
	if o.ExitCode == nil {
		return 0, false
	}
	return *o.ExitCode, true
}

// ExecError reports that a process could not be started or
// completed at all, as opposed to completing with unwanted
// output. Output carries whatever was captured before the
// failure, so expectations can still be matched against
// partial output.
type ExecError struct {
	Cause  error
	Output *Output
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("process execution failed: %v", e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is checks.
func (e *ExecError) Unwrap() error {
	return e.Cause
}
