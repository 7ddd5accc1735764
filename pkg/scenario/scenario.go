// Package scenario holds the shared vocabulary of the harness:
// the declarative description of one verification case, the
// result of running it, execution configuration, and the
// narrow logging interface consumed downstream. Scenarios are
// data, not code; the suite package compiles them from YAML
// and the runner executes them.
package scenario

import (
	"time"

	"digital.vasic.harness/pkg/expect"
	"digital.vasic.harness/pkg/fixture"
)

// ID uniquely identifies a scenario within a suite.
type ID string

// Command describes the external process a scenario runs. Dir
// is relative to the fixture root; empty means the root
// itself. Env entries are added on top of the scrubbed base
// environment.
type Command struct {
	Program string            `json:"program"`
	Args    []string          `json:"args,omitempty"`
	Dir     string            `json:"dir,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Scenario binds a fixture tree, a command and an expectation
// into one executable verification case.
type Scenario struct {
	// ID is the unique identifier for this scenario.
	ID ID `json:"id"`

	// Name is the human-readable name.
	Name string `json:"name"`

	// Description explains what this scenario verifies.
	Description string `json:"description,omitempty"`

	// Tags group scenarios for filtering (e.g. "smoke",
	// "slow", "json").
	Tags []string `json:"tags,omitempty"`

	// Fixture declares the directory tree materialized before
	// the command runs. Nil means the command runs without a
	// prepared tree.
	Fixture *fixture.Builder `json:"-"`

	// Command is the process to execute.
	Command Command `json:"command"`

	// Expected is evaluated against the captured output. Nil
	// or empty accepts any output.
	Expected *expect.Expectation `json:"-"`

	// Timeout caps total execution time. Zero falls back to
	// the runner's default.
	Timeout time.Duration `json:"timeout,omitempty"`

	// IdleTimeout kills the process when no output arrives
	// for this long. Zero disables the watchdog.
	IdleTimeout time.Duration `json:"idle_timeout,omitempty"`
}

// HasTag reports whether the scenario carries the given tag.
func (s *Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Logger defines the minimal logging interface used across
// the harness. Implementations are provided by the logging
// package.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, args ...any)

	// Warn logs a warning message.
	Warn(msg string, args ...any)

	// Error logs an error message.
	Error(msg string, args ...any)

	// Debug logs a debug-level message.
	Debug(msg string, args ...any)

	// Close flushes and closes the logger.
	Close() error
}
