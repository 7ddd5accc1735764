package expect

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.harness/pkg/sandbox"
)

func captured(code int, stdout, stderr string) *sandbox.Output {
	return &sandbox.Output{
		ExitCode: &code,
		State:    fmt.Sprintf("exit status %d", code),
		Stdout:   []byte(stdout),
		Stderr:   []byte(stderr),
	}
}

func TestEvaluate_EmptyExpectationPassesAnything(t *testing.T) {
	out := captured(42, "garbage\n", "more garbage\n")
	assert.NoError(t, New().Evaluate(out))

	signalled := &sandbox.Output{State: "signal: killed"}
	assert.NoError(t, New().Evaluate(signalled))
}

func TestEvaluate_ExitCode(t *testing.T) {
	out := captured(0, "", "")
	assert.NoError(t, New().WithExitCode(0).Evaluate(out))

	err := New().WithExitCode(101).Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckExitCode, failure.Check)
	assert.Contains(t, failure.Message, "--- stdout")
	assert.Contains(t, failure.Message, "--- stderr")
}

func TestEvaluate_ExitCodeAbsent(t *testing.T) {
	signalled := &sandbox.Output{State: "signal: killed"}

	err := New().WithExitCode(0).Evaluate(signalled)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckExitCode, failure.Check)
	assert.Contains(t, failure.Message, "signal: killed")
}

func TestEvaluate_CompilationTranscript(t *testing.T) {
	out := captured(0,
		"hi!\n",
		"   Compiling foo v0.0.1\n    Finished dev\n")

	exp := New().
		WithExitCode(0).
		WithStdout("hi!").
		WithStderrContains("[COMPILING] foo[..]")
	assert.NoError(t, exp.Evaluate(out))
}

func TestEvaluate_ExactStdoutDiff(t *testing.T) {
	out := captured(0, "hello\nworld\n", "noise\n")

	err := New().WithStdout("hello\nplanet").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckStdout, failure.Check)
	assert.Contains(t, failure.Message, "differences:")
	assert.Contains(t, failure.Message, "  2 - |planet|\n    + |world|\n")
	assert.Contains(t, failure.Message, "other output:\n`noise\n`")
}

func TestEvaluate_ExactStderr(t *testing.T) {
	out := captured(0, "", "error: it broke\n")

	assert.NoError(t, New().WithStderr("[ERROR] it broke").Evaluate(out))
	assert.Error(t, New().WithStderr("[ERROR] it worked").Evaluate(out))
}

func TestEvaluate_StdoutContains(t *testing.T) {
	out := captured(0, "a\nb\nc\n", "")

	assert.NoError(t, New().WithStdoutContains("b\nc").Evaluate(out))

	err := New().WithStdoutContains("b\nd").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckStdoutContains, failure.Check)
	assert.Contains(t, failure.Message, "expected to find:\nb\nd")
	assert.Contains(t, failure.Message, "did not find in output:")
}

func TestEvaluate_StdoutContainsN(t *testing.T) {
	out := captured(0, "x\ny\nx\n", "")

	assert.NoError(t, New().WithStdoutContainsN("x", 2).Evaluate(out))

	err := New().WithStdoutContainsN("x", 3).Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckStdoutContainsN, failure.Check)
	assert.Contains(t, failure.Message, "expected to find 3 occurrences:")
	assert.Contains(t, failure.Message, "found 2 in output:")
}

func TestEvaluate_NotContains(t *testing.T) {
	out := captured(0, "keep\n", "warning: old style\n")

	exp := New().
		WithStdoutNotContains("drop").
		WithStderrNotContains("[ERROR][..]")
	assert.NoError(t, exp.Evaluate(out))

	err := New().WithStderrNotContains("[WARNING][..]").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckStderrNotContains, failure.Check)
	assert.Contains(t, failure.Message, "expected not to find:")
	assert.Contains(t, failure.Message, "but found in output:")
}

func TestEvaluate_StderrUnordered(t *testing.T) {
	out := captured(0, "", "one\ntwo\nthree\n")

	assert.NoError(t, New().WithStderrUnordered("three\none\ntwo").Evaluate(out))

	err := New().WithStderrUnordered("one\ntwo").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckStderrUnordered, failure.Check)
	assert.Contains(t, failure.Message, "output included extra lines:\nthree")

	err = New().WithStderrUnordered("one\ntwo\nfour").Evaluate(out)
	require.Error(t, err)
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, failure.Message, "did not find expected line:\nfour")
	assert.Contains(t, failure.Message, "remaining available output:\nthree")
}

func TestEvaluate_NeitherContains(t *testing.T) {
	out := captured(0, "fine\n", "also fine\n")

	assert.NoError(t, New().WithNeitherContains("fatal").Evaluate(out))

	err := New().WithNeitherContains("also fine").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckNeitherContains, failure.Check)
}

func TestEvaluate_EitherContains(t *testing.T) {
	out := captured(0, "on stdout\n", "on stderr\n")

	assert.NoError(t, New().WithEitherContains("on stdout").Evaluate(out))
	assert.NoError(t, New().WithEitherContains("on stderr").Evaluate(out))

	err := New().WithEitherContains("nowhere").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckEitherContains, failure.Check)
	assert.Contains(t, failure.Message, "did not find in either output.")
}

func TestEvaluate_JSON(t *testing.T) {
	out := captured(0,
		`{"name":"x","deps":["b","a"]}`+"\n", "")

	exp := New().WithJSON(`{"name":"x","deps":["a","b"]}`)
	assert.NoError(t, exp.Evaluate(out))

	other := New().WithJSON(`{"name":"y","deps":["a","b"]}`)
	assert.Error(t, other.Evaluate(out))
}

func TestEvaluate_JSONWildcardValue(t *testing.T) {
	out := captured(0,
		`{"path":"/tmp/build-9f2/Cargo.toml"}`+"\n", "")

	exp := New().WithJSON(`{"path":"[..]/Cargo.toml"}`)
	assert.NoError(t, exp.Evaluate(out))
}

func TestEvaluate_JSONMultipleFragments(t *testing.T) {
	out := captured(0,
		`{"seq":1}`+"\n"+`{"seq":2}`+"\n"+"plain trailer\n", "")

	exp := New().WithJSON("{\"seq\":1}\n\n{\"seq\":2}")
	assert.NoError(t, exp.Evaluate(out))
}

func TestEvaluate_JSONCountMismatch(t *testing.T) {
	out := captured(0, `{"seq":1}`+"\n", "")

	err := New().WithJSON("{\"seq\":1}\n\n{\"seq\":2}").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckJSON, failure.Check)
	assert.Contains(t, failure.Message, "expected 2 json lines, got 1")
}

func TestEvaluate_JSONMismatchReport(t *testing.T) {
	out := captured(0, `{"a":1,"b":{"c":2}}`+"\n", "")

	err := New().WithJSON(`{"a":1,"b":{"c":3}}`).Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckJSON, failure.Check)
	assert.Contains(t, failure.Message, "JSON mismatch")
	assert.Contains(t, failure.Message, "Expected part:\n3")
	assert.Contains(t, failure.Message, "Actual part:\n2")
}

func TestEvaluate_JSONInvalidExpected(t *testing.T) {
	out := captured(0, `{"a":1}`+"\n", "")

	err := New().WithJSON(`{"a":`).Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckJSON, failure.Check)
	assert.Contains(t, failure.Message, "invalid json")
	assert.Contains(t, failure.Message, "`{\"a\":`")
}

func TestEvaluate_NonUTF8Stream(t *testing.T) {
	out := &sandbox.Output{
		Stdout: []byte{0xff, 0xfe, 'x'},
	}

	err := New().WithStdout("x").Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckEncoding, failure.Check)
	assert.Equal(t, "stdout was not utf8 encoded", failure.Message)
}

func TestEvaluate_NormalizesActualOutput(t *testing.T) {
	out := captured(0, "col1\tcol2\r\n", "C:\\work\\proj\n")

	exp := New().
		WithStdout("col1<tab>col2").
		WithStderr("C:/work/proj")
	assert.NoError(t, exp.Evaluate(out))
}

func TestEvaluateRun_CleanRun(t *testing.T) {
	out := captured(0, "done\n", "")
	assert.NoError(t, New().WithStdout("done").EvaluateRun(out, nil))
}

func TestEvaluateRun_ExecutionErrorAlwaysFails(t *testing.T) {
	partial := &sandbox.Output{
		State:  "signal: killed",
		Stdout: []byte("alive\n"),
	}
	runErr := &sandbox.ExecError{
		Cause:  sandbox.ErrIdleTimeout,
		Output: partial,
	}

	err := New().WithStdoutContains("alive").EvaluateRun(nil, runErr)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckExecution, failure.Check)
	assert.Contains(t, failure.Message, "partial output matched all declared checks")
}

func TestEvaluateRun_ExecutionErrorReportsMismatch(t *testing.T) {
	partial := &sandbox.Output{
		State:  "signal: killed",
		Stdout: []byte("alive\n"),
	}
	runErr := &sandbox.ExecError{
		Cause:  sandbox.ErrIdleTimeout,
		Output: partial,
	}

	err := New().WithStdoutContains("finished").EvaluateRun(nil, runErr)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckExecution, failure.Check)
	assert.Contains(t, failure.Message, "did not find in output:")
}

func TestEvaluateRun_BareError(t *testing.T) {
	err := New().EvaluateRun(nil, errors.New("fork failed"))
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckExecution, failure.Check)
	assert.Equal(t, "fork failed", failure.Message)
}

func TestEvaluate_ChecksDeclarationOrder(t *testing.T) {
	out := captured(1, "wrong\n", "also wrong\n")

	err := New().
		WithExitCode(0).
		WithStdout("right").
		Evaluate(out)
	require.Error(t, err)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CheckExitCode, failure.Check)
}
