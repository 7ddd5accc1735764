// Package expect declares and evaluates expectations against
// the captured output of a finished process. An Expectation is
// assembled with the With* builder methods and then applied to
// a sandbox.Output; the first check that fails yields a typed
// *Failure describing the difference. An Expectation with no
// declared checks accepts any output.
package expect

// countedPattern pairs a multi-line pattern with the exact
// number of times it must appear.
type countedPattern struct {
	pattern string
	count   int
}

// Expectation is an ordered collection of checks against exit
// code, stdout and stderr. The zero value (or New()) declares
// nothing and therefore always passes. Builder methods append;
// declaring the same kind twice keeps both checks.
//
// Expectation is not safe for concurrent mutation. Once built
// it is read-only and may be evaluated from multiple
// goroutines.
type Expectation struct {
	exitCode *int
	stdout   *string
	stderr   *string

	stdoutContains    []string
	stderrContains    []string
	eitherContains    []string
	stdoutContainsN   []countedPattern
	stdoutNotContains []string
	stderrNotContains []string
	stderrUnordered   []string
	neitherContains   []string

	jsonBlobs []string
}

// New returns an empty Expectation.
func New() *Expectation {
	return &Expectation{}
}

// WithExitCode requires the process to have exited with the
// given code. Without this check the exit code is
// unconstrained.
func (e *Expectation) WithExitCode(code int) *Expectation {
	e.exitCode = &code
	return e
}

// WithStdout requires stdout to match the pattern exactly,
// line by line.
func (e *Expectation) WithStdout(expected string) *Expectation {
	e.stdout = &expected
	return e
}

// WithStderr requires stderr to match the pattern exactly,
// line by line.
func (e *Expectation) WithStderr(expected string) *Expectation {
	e.stderr = &expected
	return e
}

// WithStdoutContains requires stdout to contain the pattern as
// a contiguous run of lines, anywhere in the stream.
func (e *Expectation) WithStdoutContains(expected string) *Expectation {
	e.stdoutContains = append(e.stdoutContains, expected)
	return e
}

// WithStderrContains requires stderr to contain the pattern as
// a contiguous run of lines, anywhere in the stream.
func (e *Expectation) WithStderrContains(expected string) *Expectation {
	e.stderrContains = append(e.stderrContains, expected)
	return e
}

// WithEitherContains requires at least one of stdout or stderr
// to contain the pattern.
func (e *Expectation) WithEitherContains(expected string) *Expectation {
	e.eitherContains = append(e.eitherContains, expected)
	return e
}

// WithStdoutContainsN requires the pattern to appear in stdout
// exactly n times, counting every window position that
// matches.
func (e *Expectation) WithStdoutContainsN(expected string, n int) *Expectation {
	e.stdoutContainsN = append(e.stdoutContainsN, countedPattern{expected, n})
	return e
}

// WithStdoutNotContains requires the pattern to appear nowhere
// in stdout.
func (e *Expectation) WithStdoutNotContains(expected string) *Expectation {
	e.stdoutNotContains = append(e.stdoutNotContains, expected)
	return e
}

// WithStderrNotContains requires the pattern to appear nowhere
// in stderr.
func (e *Expectation) WithStderrNotContains(expected string) *Expectation {
	e.stderrNotContains = append(e.stderrNotContains, expected)
	return e
}

// WithStderrUnordered requires stderr to contain exactly the
// pattern's lines, in any order. Wildcard lines consume the
// first actual line that matches them.
func (e *Expectation) WithStderrUnordered(expected string) *Expectation {
	e.stderrUnordered = append(e.stderrUnordered, expected)
	return e
}

// WithNeitherContains requires the pattern to appear in
// neither stdout nor stderr.
func (e *Expectation) WithNeitherContains(expected string) *Expectation {
	e.neitherContains = append(e.neitherContains, expected)
	return e
}

// WithJSON requires the machine-readable lines of stdout
// (those starting with '{') to match the given documents,
// in order. The blob holds one JSON document per
// blank-line-separated fragment. Objects compare by exact key
// set, arrays ignore order, and string values support the same
// wildcards as line patterns. The documents are parsed during
// evaluation; a syntactically invalid fragment fails the check
// rather than the build.
func (e *Expectation) WithJSON(blob string) *Expectation {
	e.jsonBlobs = append(e.jsonBlobs, blob)
	return e
}
