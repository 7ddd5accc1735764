package scenario

import "time"

// Config holds runtime configuration shared by scenario
// executions. Per-scenario values take precedence over the
// corresponding Config fields.
type Config struct {
	// WorkDir is the directory under which fixture trees are
	// materialized, one subdirectory per scenario.
	WorkDir string `json:"work_dir"`

	// Timeout is the default maximum duration for one
	// execution. A zero value means no timeout.
	Timeout time.Duration `json:"timeout"`

	// IdleTimeout is the default idle-output watchdog window.
	// A zero value disables the watchdog.
	IdleTimeout time.Duration `json:"idle_timeout"`

	// Stream echoes child output live while capturing it.
	Stream bool `json:"stream"`

	// Verbose enables detailed logging output.
	Verbose bool `json:"verbose"`

	// Environment holds key-value pairs injected into every
	// child process environment.
	Environment map[string]string `json:"environment"`
}

// NewConfig creates a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		WorkDir:     "work",
		Timeout:     5 * time.Minute,
		Environment: make(map[string]string),
	}
}

// GetEnv returns the value of an environment variable from
// the config, or the fallback if not set.
func (c *Config) GetEnv(key, fallback string) string {
	if c.Environment == nil {
		return fallback
	}
	if v, ok := c.Environment[key]; ok {
		return v
	}
	return fallback
}
