// Package logging contains the structured logger used across the search
// planner and trajectory executor. It carries the same Logger surface as
// the wider viam logging package, backed by zap, but drops the
// remote-log-appender and pattern-config machinery that only makes sense
// inside a running robot process rather than a standalone planning core.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level describes the minimum severity a Logger will emit.
type Level int8

// The severities a Logger can be configured at, ordered least to most severe.
const (
	DEBUG Level = iota - 1
	INFO
	WARN
	ERROR
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	default:
		return "Unknown"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the logging surface every component in this module takes as a
// constructor argument, rather than reaching for a package-global logger.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a Logger scoped under name, e.g. logger.Sublogger("bfs3d").
	Sublogger(name string) Logger

	// SetLevel changes the minimum severity emitted by this logger and its sub-loggers.
	SetLevel(level Level)
	// GetLevel returns the minimum severity currently emitted.
	GetLevel() Level

	// AsZap exposes the underlying zap.SugaredLogger for callers that need it directly.
	AsZap() *zap.SugaredLogger
}

// NewLogger returns a new logger that outputs Info+ logs to stdout.
func NewLogger(name string) Logger {
	return newImpl(name, INFO)
}

// NewDebugLogger returns a new logger that outputs Debug+ logs to stdout.
func NewDebugLogger(name string) Logger {
	return newImpl(name, DEBUG)
}

// NewTestLogger returns a new logger suitable for use inside a *testing.T,
// emitting Debug+ logs to stdout in local time.
func NewTestLogger(tb testing.TB) Logger {
	return newImpl(tb.Name(), DEBUG)
}
