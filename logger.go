// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"
)

// MaxLogValueLength limits the length of a single logged value. Longer
// values are truncated.
const MaxLogValueLength = 1024

// Logger interface for pluggable logging support
//
// Implementations should use structured logging with key-value pairs.
// Two implementations are provided:
//   - DefaultLogger: level-filtered output through the standard log package
//   - NoOpLogger: discards everything (the client default)
//
// Example slog adapter:
//
//	type SlogAdapter struct {
//	    logger *slog.Logger
//	}
//
//	func (s *SlogAdapter) Debug(ctx context.Context, msg string, keysAndValues ...any) {
//	    s.logger.DebugContext(ctx, msg, keysAndValues...)
//	}
//	// ... Info, Warn, Error likewise
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...any)
	Info(ctx context.Context, msg string, keysAndValues ...any)
	Warn(ctx context.Context, msg string, keysAndValues ...any)
	Error(ctx context.Context, msg string, keysAndValues ...any)
}

// LogLevel represents the severity threshold for logging
type LogLevel int

const (
	// LogLevelDebug enables all log levels
	LogLevelDebug LogLevel = iota

	// LogLevelInfo enables Info, Warn, and Error logs
	LogLevelInfo

	// LogLevelWarn enables Warn and Error logs
	LogLevelWarn

	// LogLevelError enables only Error logs
	LogLevelError

	// LogLevelNone disables all logging
	LogLevelNone
)

// String returns the string representation of a LogLevel
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// ParseLogLevel converts a level name (case-insensitive) to a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug, nil
	case "INFO":
		return LogLevelInfo, nil
	case "WARN", "WARNING":
		return LogLevelWarn, nil
	case "ERROR":
		return LogLevelError, nil
	case "NONE", "OFF":
		return LogLevelNone, nil
	default:
		return LogLevelNone, fmt.Errorf("invalid log level: %q (valid values: debug, info, warn, error, none)", s)
	}
}

// DefaultLogger writes level-filtered messages through a *log.Logger
//
// Output format: [LEVEL] message key1=value1 key2=value2
//
// Example:
//
//	client, _ := cgminer.NewClient("192.168.1.50",
//	    cgminer.WithLogger(cgminer.NewDefaultLogger(cgminer.LogLevelDebug)))
type DefaultLogger struct {
	level LogLevel
	out   *log.Logger
}

// NewDefaultLogger creates a DefaultLogger writing to the standard logger
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{level: level}
}

// NewDefaultLoggerTo creates a DefaultLogger writing to w
func NewDefaultLoggerTo(w io.Writer, level LogLevel) *DefaultLogger {
	return &DefaultLogger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// Debug logs a debug message with structured key-value pairs
func (l *DefaultLogger) Debug(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelDebug, msg, keysAndValues)
}

// Info logs an informational message with structured key-value pairs
func (l *DefaultLogger) Info(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelInfo, msg, keysAndValues)
}

// Warn logs a warning message with structured key-value pairs
func (l *DefaultLogger) Warn(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelWarn, msg, keysAndValues)
}

// Error logs an error message with structured key-value pairs
func (l *DefaultLogger) Error(_ context.Context, msg string, keysAndValues ...any) {
	l.log(LogLevelError, msg, keysAndValues)
}

// log formats and outputs one line. Keys and values are sanitized, the
// message is not: it always comes from library code.
func (l *DefaultLogger) log(level LogLevel, msg string, keysAndValues []any) {
	if level < l.level || l.level == LogLevelNone {
		return
	}

	var builder strings.Builder
	builder.Grow(len(msg) + 10 + len(keysAndValues)*25)
	builder.WriteString("[")
	builder.WriteString(level.String())
	builder.WriteString("] ")
	builder.WriteString(msg)

	for i := 0; i < len(keysAndValues); i += 2 {
		builder.WriteString(" ")
		builder.WriteString(sanitizeLogValue(keysAndValues[i]))
		if i+1 < len(keysAndValues) {
			builder.WriteString("=")
			builder.WriteString(sanitizeLogValue(keysAndValues[i+1]))
		} else {
			builder.WriteString("=<MISSING>")
		}
	}

	if l.out != nil {
		l.out.Println(builder.String())
		return
	}
	log.Println(builder.String())
}

// sanitizeLogValue renders a value on a single line
//
// Daemon replies are untrusted input: newlines and other control
// characters are replaced so a crafted "Msg" cannot forge log lines, and
// zero-width or direction-override runes are dropped.
func sanitizeLogValue(val any) string {
	str := fmt.Sprintf("%v", val)
	if len(str) > MaxLogValueLength {
		str = str[:MaxLogValueLength] + "...[TRUNCATED]"
	}

	var builder strings.Builder
	builder.Grow(len(str))
	for i := 0; i < len(str); {
		r, size := utf8.DecodeRuneInString(str[i:])
		i += size
		switch {
		case r == utf8.RuneError && size <= 1:
			builder.WriteByte('.')
		case r == '\n' || r == '\r' || r == '\t' || r == '\f':
			builder.WriteByte(' ')
		case r == 0x200B || r == 0x200C || r == 0x200D || r == 0xFEFF:
			// zero-width, dropped
		case r == 0x202E:
			builder.WriteByte(' ')
		case r < 32 || r == 127:
			builder.WriteByte('.')
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// NoOpLogger discards all log messages. It is the client default.
type NoOpLogger struct{}

// Debug discards the log message
func (n *NoOpLogger) Debug(_ context.Context, _ string, _ ...any) {}

// Info discards the log message
func (n *NoOpLogger) Info(_ context.Context, _ string, _ ...any) {}

// Warn discards the log message
func (n *NoOpLogger) Warn(_ context.Context, _ string, _ ...any) {}

// Error discards the log message
func (n *NoOpLogger) Error(_ context.Context, _ string, _ ...any) {}
