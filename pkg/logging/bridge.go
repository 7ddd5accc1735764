package logging

import "fmt"

// Bridge exposes a Logger through the plain variadic key/value
// calling convention the runner and monitor expect. Arguments
// are consumed in pairs; a trailing key without a value is kept
// with a nil value.
type Bridge struct {
	inner Logger
}

// NewBridge wraps a Logger for key/value style callers.
func NewBridge(inner Logger) *Bridge {
	return &Bridge{inner: inner}
}

// Info logs an informational message.
func (b *Bridge) Info(msg string, args ...any) {
	b.inner.Info(msg, pairFields(args)...)
}

// Warn logs a warning message.
func (b *Bridge) Warn(msg string, args ...any) {
	b.inner.Warn(msg, pairFields(args)...)
}

// Error logs an error message.
func (b *Bridge) Error(msg string, args ...any) {
	b.inner.Error(msg, pairFields(args)...)
}

// Debug logs a debug-level message.
func (b *Bridge) Debug(msg string, args ...any) {
	b.inner.Debug(msg, pairFields(args)...)
}

// Close closes the wrapped logger.
func (b *Bridge) Close() error {
	return b.inner.Close()
}

// pairFields converts alternating key/value arguments into
// Fields. Non-string keys are stringified.
func pairFields(args []any) []Field {
	fields := make([]Field, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		var value any
		if i+1 < len(args) {
			value = args[i+1]
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields
}
