package helpers

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger provides simplified logging with prefixes
type Logger struct {
	prefix string
	debug  bool
	out    *log.Logger
}

// NewLogger creates a new logger with a prefix, writing to stderr
func NewLogger(prefix string) *Logger {
	return NewLoggerTo(os.Stderr, prefix)
}

// NewLoggerTo creates a new logger with a prefix, writing to w
func NewLoggerTo(w io.Writer, prefix string) *Logger {
	return &Logger{
		prefix: "[" + prefix + "]",
		out:    log.New(w, "", log.LstdFlags),
	}
}

// SetDebug enables or disables debug messages
func (l *Logger) SetDebug(on bool) {
	l.debug = on
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.printf("INFO", msg, args)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.printf("WARN", msg, args)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, args ...interface{}) {
	l.printf("ERROR", fmt.Sprintf("%s - %v", msg, err), args)
}

// Debug logs a debug message if debug is enabled
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.printf("DEBUG", msg, args)
	}
}

func (l *Logger) printf(level, msg string, args []interface{}) {
	if len(args) == 0 {
		l.out.Printf("%s %s: %s", l.prefix, level, msg)
		return
	}
	l.out.Printf("%s %s: %s %v", l.prefix, level, msg, args)
}
