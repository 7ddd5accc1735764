package expect

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"digital.vasic.harness/pkg/jsondiff"
	"digital.vasic.harness/pkg/sandbox"
	"digital.vasic.harness/pkg/textdiff"
)

// Evaluate applies every declared check to the output and
// returns nil if all pass. The first failing check stops
// evaluation and its *Failure is returned. Checks run in
// declaration-kind order: exit code, exact stdout, exact
// stderr, the containment checks, then JSON.
func (e *Expectation) Evaluate(out *sandbox.Output) error {
	if err := e.matchStatus(out); err != nil {
		return err
	}
	if err := e.matchExact(CheckStdout, e.stdout, out.Stdout, "stdout", out.Stderr); err != nil {
		return err
	}
	if err := e.matchExact(CheckStderr, e.stderr, out.Stderr, "stderr", out.Stdout); err != nil {
		return err
	}
	for _, expected := range e.stdoutContains {
		if err := matchContains(CheckStdoutContains, expected, out.Stdout, "stdout"); err != nil {
			return err
		}
	}
	for _, expected := range e.stderrContains {
		if err := matchContains(CheckStderrContains, expected, out.Stderr, "stderr"); err != nil {
			return err
		}
	}
	for _, cp := range e.stdoutContainsN {
		if err := matchContainsN(cp, out.Stdout, "stdout"); err != nil {
			return err
		}
	}
	for _, expected := range e.stdoutNotContains {
		if err := matchNotContains(CheckStdoutNotContains, expected, out.Stdout, "stdout"); err != nil {
			return err
		}
	}
	for _, expected := range e.stderrNotContains {
		if err := matchNotContains(CheckStderrNotContains, expected, out.Stderr, "stderr"); err != nil {
			return err
		}
	}
	for _, expected := range e.stderrUnordered {
		if err := matchUnordered(expected, out.Stderr, "stderr"); err != nil {
			return err
		}
	}
	for _, expected := range e.neitherContains {
		if err := matchNotContains(CheckNeitherContains, expected, out.Stdout, "stdout"); err != nil {
			return err
		}
		if err := matchNotContains(CheckNeitherContains, expected, out.Stderr, "stderr"); err != nil {
			return err
		}
	}
	for _, expected := range e.eitherContains {
		outErr := matchContains(CheckEitherContains, expected, out.Stdout, "stdout")
		errErr := matchContains(CheckEitherContains, expected, out.Stderr, "stderr")
		if outErr != nil && errErr != nil {
			return &Failure{
				Check: CheckEitherContains,
				Message: fmt.Sprintf(
					"expected to find:\n%s\n\ndid not find in either output.",
					expected),
			}
		}
	}
	for _, blob := range e.jsonBlobs {
		if err := e.matchJSON(blob, out); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateRun folds the (output, error) pair of sandbox.Run
// into a single verdict. A clean run is evaluated directly.
// An execution error is always a failure: when partial output
// was captured it is still run through the checks and the
// outcome is appended to the diagnostic, but passing checks
// cannot turn a killed or unstartable process into a success.
func (e *Expectation) EvaluateRun(out *sandbox.Output, runErr error) error {
	if runErr == nil {
		return e.Evaluate(out)
	}
	var execErr *sandbox.ExecError
	if errors.As(runErr, &execErr) && execErr.Output != nil {
		msg := execErr.Error()
		if matchErr := e.Evaluate(execErr.Output); matchErr != nil {
			msg += "\n" + matchErr.Error()
		} else {
			msg += "\npartial output matched all declared checks"
		}
		return &Failure{Check: CheckExecution, Message: msg}
	}
	return &Failure{Check: CheckExecution, Message: runErr.Error()}
}

func (e *Expectation) matchStatus(out *sandbox.Output) error {
	if e.exitCode == nil {
		return nil
	}
	if code, ok := out.Code(); ok && code == *e.exitCode {
		return nil
	}
	return &Failure{
		Check: CheckExitCode,
		Message: fmt.Sprintf(
			"exited with %s\n--- stdout\n%s\n--- stderr\n%s",
			out.State, out.Stdout, out.Stderr),
	}
}

func (e *Expectation) matchExact(check Check, expected *string, raw []byte, desc string, extra []byte) error {
	if expected == nil {
		return nil
	}
	actual, err := decode(raw, desc)
	if err != nil {
		return err
	}
	changes := textdiff.Exact(
		textdiff.SplitLines(actual),
		textdiff.SplitLines(*expected))
	if len(changes) == 0 {
		return nil
	}
	return &Failure{
		Check: check,
		Message: fmt.Sprintf(
			"differences:\n%s\n\nother output:\n`%s`",
			textdiff.Render(changes), extra),
	}
}

func matchContains(check Check, expected string, raw []byte, desc string) error {
	actual, err := decode(raw, desc)
	if err != nil {
		return err
	}
	if textdiff.Contains(textdiff.SplitLines(actual), textdiff.SplitLines(expected)) {
		return nil
	}
	return &Failure{
		Check: check,
		Message: fmt.Sprintf(
			"expected to find:\n%s\n\ndid not find in output:\n%s",
			expected, actual),
	}
}

func matchContainsN(cp countedPattern, raw []byte, desc string) error {
	actual, err := decode(raw, desc)
	if err != nil {
		return err
	}
	number := textdiff.Count(
		textdiff.SplitLines(actual),
		textdiff.SplitLines(cp.pattern))
	if number == cp.count {
		return nil
	}
	return &Failure{
		Check: CheckStdoutContainsN,
		Message: fmt.Sprintf(
			"expected to find %d occurrences:\n%s\n\nfound %d in output:\n%s",
			cp.count, cp.pattern, number, actual),
	}
}

func matchNotContains(check Check, expected string, raw []byte, desc string) error {
	actual, err := decode(raw, desc)
	if err != nil {
		return err
	}
	if textdiff.NotContains(textdiff.SplitLines(actual), textdiff.SplitLines(expected)) {
		return nil
	}
	return &Failure{
		Check: check,
		Message: fmt.Sprintf(
			"expected not to find:\n%s\n\nbut found in output:\n%s",
			expected, actual),
	}
}

func matchUnordered(expected string, raw []byte, desc string) error {
	actual, err := decode(raw, desc)
	if err != nil {
		return err
	}
	mismatch := textdiff.Unordered(
		textdiff.SplitLines(actual),
		textdiff.SplitLines(expected))
	if mismatch == nil {
		return nil
	}
	if len(mismatch.ExtraActual) > 0 {
		return &Failure{
			Check: CheckStderrUnordered,
			Message: fmt.Sprintf(
				"output included extra lines:\n%s\n",
				strings.Join(mismatch.ExtraActual, "\n")),
		}
	}
	return &Failure{
		Check: CheckStderrUnordered,
		Message: fmt.Sprintf(
			"did not find expected line:\n%s\nremaining available output:\n%s\n",
			mismatch.MissingExpected,
			strings.Join(mismatch.Remaining, "\n")),
	}
}

// matchJSON compares one blob of expected documents against
// the machine-readable lines of stdout. The raw stream is used
// here: JSON strings may legitimately contain tabs, so the
// text normalization applied by the line checks would corrupt
// them.
func (e *Expectation) matchJSON(blob string, out *sandbox.Output) error {
	if !utf8.Valid(out.Stdout) {
		return &Failure{
			Check:   CheckEncoding,
			Message: "stdout was not utf8 encoded",
		}
	}
	stdout := string(out.Stdout)
	var lines []string
	for _, line := range textdiff.SplitLines(stdout) {
		if strings.HasPrefix(line, "{") {
			lines = append(lines, line)
		}
	}
	fragments := jsondiff.SplitFragments(blob)
	if len(lines) != len(fragments) {
		return &Failure{
			Check: CheckJSON,
			Message: fmt.Sprintf(
				"expected %d json lines, got %d, stdout:\n%s",
				len(fragments), len(lines), stdout),
		}
	}
	for i, fragment := range fragments {
		if err := matchJSONLine(fragment, lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func matchJSONLine(fragment, line string) error {
	var expected any
	if err := json.Unmarshal([]byte(fragment), &expected); err != nil {
		return &Failure{
			Check:   CheckJSON,
			Message: fmt.Sprintf("invalid json, %v:\n`%s`", err, fragment),
		}
	}
	var actual any
	if err := json.Unmarshal([]byte(line), &actual); err != nil {
		return &Failure{
			Check:   CheckJSON,
			Message: fmt.Sprintf("invalid json, %v:\n`%s`", err, line),
		}
	}
	mismatch := jsondiff.FindMismatch(expected, actual)
	if mismatch == nil {
		return nil
	}
	return &Failure{
		Check: CheckJSON,
		Message: fmt.Sprintf(
			"JSON mismatch\nExpected:\n%s\nWas:\n%s\nExpected part:\n%s\nActual part:\n%s\n",
			jsondiff.Render(expected), jsondiff.Render(actual),
			jsondiff.Canonical(mismatch.Expected),
			jsondiff.Canonical(mismatch.Actual)),
	}
}

// decode validates and normalizes one captured stream for the
// line-oriented checks. Carriage returns are dropped and tabs
// made visible so patterns stay platform-neutral.
func decode(raw []byte, desc string) (string, error) {
	if !utf8.Valid(raw) {
		return "", &Failure{
			Check:   CheckEncoding,
			Message: fmt.Sprintf("%s was not utf8 encoded", desc),
		}
	}
	return textdiff.Normalize(string(raw)), nil
}
