package expect

// Check identifies which declared expectation a failure came
// from, so reporters can group and label verdicts without
// parsing message text.
type Check string

const (
	CheckExitCode          Check = "exit_code"
	CheckStdout            Check = "exact_stdout"
	CheckStderr            Check = "exact_stderr"
	CheckStdoutContains    Check = "stdout_contains"
	CheckStderrContains    Check = "stderr_contains"
	CheckEitherContains    Check = "either_contains"
	CheckStdoutContainsN   Check = "stdout_contains_n"
	CheckStdoutNotContains Check = "stdout_not_contains"
	CheckStderrNotContains Check = "stderr_not_contains"
	CheckStderrUnordered   Check = "stderr_unordered"
	CheckNeitherContains   Check = "neither_contains"
	CheckJSON              Check = "json"
	CheckEncoding          Check = "encoding"
	CheckExecution         Check = "execution"
)

// Failure is the diagnostic produced when one check fails.
// Message is the full human-readable report: the expected
// pattern, the relevant stream content, and context. One
// evaluation produces at most one Failure; checks after the
// first failing one do not run.
type Failure struct {
	Check   Check
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}
