// Package sandbox spawns processes under test with a
// controlled environment and working directory and captures
// their exit code and output streams. Capture is byte
// faithful; a streaming mode additionally echoes output as it
// arrives, and an idle watchdog can kill processes that stop
// producing output. The package produces finished, immutable
// Output values; deciding whether an Output is acceptable
// belongs to the expectation engine.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"digital.vasic.harness/pkg/env"
)

// commandContext is the function used to create exec.Cmd
// instances. It can be overridden in tests for dependency
// injection.
var commandContext = exec.CommandContext

// ErrIdleTimeout reports that the watchdog killed the process
// because no output arrived within the idle window.
var ErrIdleTimeout = errors.New("no output within idle timeout")

// Command builds one process invocation. Configure it with the
// With* methods, then call Run. A Command can be run multiple
// times; every Run spawns a fresh process.
type Command struct {
	program string
	args    []string
	dir     string
	scrub   *env.Scrubber
	extra   map[string]string
	removed []string
	stream  io.Writer
	idle    time.Duration
	timeout time.Duration
}

// New creates a Command for the given program and arguments.
func New(program string, args ...string) *Command {
	return &Command{
		program: program,
		args:    args,
		extra:   make(map[string]string),
	}
}

// WithDir sets the working directory for the process.
func (c *Command) WithDir(dir string) *Command {
	c.dir = dir
	return c
}

// WithArg appends arguments.
func (c *Command) WithArg(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// AddArgLine splits a whitespace-separated argument line and
// appends each piece. Shell-style quoting is not supported:
// a quote character anywhere in the line is an error.
func (c *Command) AddArgLine(line string) error {
	args, err := SplitArgs(line)
	if err != nil {
		return err
	}
	c.args = append(c.args, args...)
	return nil
}

// WithEnv sets one environment variable for the process.
func (c *Command) WithEnv(key, value string) *Command {
	c.extra[key] = value
	return c
}

// WithEnvRemoved removes variables from the process
// environment.
func (c *Command) WithEnvRemoved(names ...string) *Command {
	c.removed = append(c.removed, names...)
	return c
}

// WithScrubber applies a controlled-environment scrubber to
// the inherited environment before explicit WithEnv values.
func (c *Command) WithScrubber(s *env.Scrubber) *Command {
	c.scrub = s
	return c
}

// WithStream echoes output to w as it arrives, in addition to
// capturing it. Both streams share the writer; chunks appear
// in arrival order.
func (c *Command) WithStream(w io.Writer) *Command {
	c.stream = w
	return c
}

// WithIdleTimeout arms a watchdog that kills the process when
// no output arrives within d. Zero disables it.
func (c *Command) WithIdleTimeout(d time.Duration) *Command {
	c.idle = d
	return c
}

// WithTimeout bounds the total run time. Zero means no bound
// beyond the caller's context.
func (c *Command) WithTimeout(d time.Duration) *Command {
	c.timeout = d
	return c
}

// String renders the invocation for logs.
func (c *Command) String() string {
	if len(c.args) == 0 {
		return c.program
	}
	return c.program + " " + strings.Join(c.args, " ")
}

// SplitArgs splits a whitespace-separated argument line.
// Shell-style quoting is not supported; a quote character
// anywhere in the line is an error rather than a silently
// wrong parse.
func SplitArgs(line string) ([]string, error) {
	if strings.ContainsAny(line, `"'`) {
		return nil, fmt.Errorf(
			"shell-style argument parsing is not supported: %q",
			line)
	}
	return strings.Fields(line), nil
}

// Run spawns the process and blocks until it finishes, the
// context is cancelled, or a configured timeout fires. A
// process that completes with a non-zero exit code or dies on
// a signal is a normal Output, not an error; *ExecError is
// returned only when the process could not be started or
// completed, and it carries whatever output was captured.
func (c *Command) Run(ctx context.Context) (*Output, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	runCtx := ctx
	var idleCancel context.CancelFunc
	if c.idle > 0 {
		runCtx, idleCancel = context.WithCancel(ctx)
		defer idleCancel()
	}

	cmd := commandContext(runCtx, c.program, c.args...)
	cmd.WaitDelay = 2 * time.Second
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	cmd.Env = c.environ()

	var stdout, stderr bytes.Buffer
	var stuck <-chan struct{}
	stop := func() {}

	if c.stream != nil || c.idle > 0 {
		beats := make(chan struct{}, 1)
		echoMu := &sync.Mutex{}
		cmd.Stdout = &pulseWriter{
			buf: &stdout, echo: c.stream,
			echoMu: echoMu, beats: beats,
		}
		cmd.Stderr = &pulseWriter{
			buf: &stderr, echo: c.stream,
			echoMu: echoMu, beats: beats,
		}
		stop, stuck = startWatchdog(beats, c.idle, idleCancel)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	runErr := cmd.Run()
	stop()

	out := &Output{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if cmd.ProcessState != nil {
		out.State = cmd.ProcessState.String()
		if cmd.ProcessState.Exited() {
			code := cmd.ProcessState.ExitCode()
			out.ExitCode = &code
		}
	}

	if stuck != nil {
		select {
		case <-stuck:
			return nil, &ExecError{
				Cause: ErrIdleTimeout, Output: out}
		default:
		}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return nil, &ExecError{
			Cause: context.DeadlineExceeded, Output: out}
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Completed abnormally; the expectation engine
			// decides whether that is acceptable.
			return out, nil
		}
		return nil, &ExecError{Cause: runErr, Output: out}
	}
	return out, nil
}

// pulseWriter captures one stream, echoes it to a shared
// writer, and pulses the watchdog on every chunk. The capture
// buffer is owned by a single stream; only the echo writer is
// shared, under its mutex.
type pulseWriter struct {
	buf    *bytes.Buffer
	echo   io.Writer
	echoMu *sync.Mutex
	beats  chan<- struct{}
}

func (w *pulseWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	if w.echo != nil {
		w.echoMu.Lock()
		w.echo.Write(p)
		w.echoMu.Unlock()
	}
	select {
	case w.beats <- struct{}{}:
	default:
	}
	return len(p), nil
}

// environ builds the child environment: the inherited
// environment, scrubbed if a scrubber is set, minus removed
// variables, plus explicit values in sorted key order so the
// result is deterministic.
func (c *Command) environ() []string {
	base := os.Environ()
	if c.scrub != nil {
		base = c.scrub.Apply(base)
	}

	if len(c.removed) > 0 {
		drop := make(map[string]bool, len(c.removed))
		for _, name := range c.removed {
			drop[name] = true
		}
		kept := base[:0]
		for _, entry := range base {
			key := entry
			if i := strings.IndexByte(entry, '='); i >= 0 {
				key = entry[:i]
			}
			if !drop[key] {
				kept = append(kept, entry)
			}
		}
		base = kept
	}

	if len(c.extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(c.extra))
	for k := range c.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		base = append(base, k+"="+c.extra[k])
	}
	return base
}
