// Package logging defines the logger contract used across the converter.
package logging

// Logger takes a message followed by alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// Named returns a child logger for a component.
	Named(name string) Logger
}

// NoOp returns a logger that drops every entry.
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) Named(string) Logger { return n }

// OrNoOp returns l, or a no-op logger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOp()
	}
	return l
}
