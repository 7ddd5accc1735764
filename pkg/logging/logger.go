// Package logging provides structured logging for the
// verification harness with JSON, console, and
// multi-destination output.
package logging

// Logger defines the interface for structured harness logging.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning message.
	Warn(msg string, fields ...Field)

	// Error logs an error message.
	Error(msg string, fields ...Field)

	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// WithFields returns a Logger with additional default
	// fields attached to every subsequent log entry.
	WithFields(fields ...Field) Logger

	// LogExec logs a process launch.
	LogExec(exec ExecLog)

	// LogVerdict logs an evaluation outcome.
	LogVerdict(verdict VerdictLog)

	// Close flushes any buffers and releases resources.
	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// ExecLog captures the details of one process launch.
type ExecLog struct {
	Timestamp  string            `json:"timestamp"`
	RunID      string            `json:"run_id"`
	ScenarioID string            `json:"scenario_id"`
	Program    string            `json:"program"`
	Args       []string          `json:"args,omitempty"`
	Dir        string            `json:"dir,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
}

// VerdictLog captures the outcome of one scenario evaluation.
type VerdictLog struct {
	Timestamp      string `json:"timestamp"`
	RunID          string `json:"run_id"`
	ScenarioID     string `json:"scenario_id"`
	Status         string `json:"status"`
	Check          string `json:"check,omitempty"`
	VerdictPreview string `json:"verdict_preview,omitempty"`
	VerdictLength  int    `json:"verdict_length"`
	DurationMs     int64  `json:"duration_ms"`
}

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn indicates potential issues.
	LevelWarn
	// LevelError indicates failures.
	LevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
