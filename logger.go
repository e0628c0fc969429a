package graft

import (
	"fmt"
	"io"
	"os"
)

// Logger handles diagnostic logging for Graft. Debug output carries
// the interpreter's optional diagnostic channel: silently-recovered
// paths (stale merges, replaced or discarded branches, wrong-variant
// pushes) report here without ever aborting execution.
type Logger struct {
	enabled bool
	out     io.Writer
	errOut  io.Writer
}

// NewLogger creates a new logger
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
		errOut:  os.Stderr,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[DEBUG] "+format+"\n", args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.errOut, "[Graft WARN] "+format+"\n", args...)
	}
}

// Error logs an error message (always visible)
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.errOut, "[Graft ERROR] "+format+"\n", args...)
}

// SetEnabled enables or disables debug logging
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// SetOutput redirects both log streams
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
	l.errOut = w
}
