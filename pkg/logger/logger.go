// Package logger provides the package-level structured logger used
// throughout the webauth token codec and keyring subsystem. It wraps
// log/slog behind a small singleton so call sites can log without
// threading a logger through every function signature, while tests can
// still swap in a buffer-backed logger to assert on output.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

var singleton atomic.Pointer[slog.Logger]

func init() {
	singleton.Store(newSlogLogger(os.Stderr, slog.LevelInfo, true))
}

// unstructuredLogsEnvVar controls whether log output is rendered as
// human-readable text (the default, convenient for interactive CLI use)
// or as structured JSON (convenient for log aggregation).
const unstructuredLogsEnvVar = "WEBAUTH_UNSTRUCTURED_LOGS"

// Initialize configures the package-level logger by reading
// WEBAUTH_UNSTRUCTURED_LOGS from the real process environment.
func Initialize() {
	InitializeWithEnv(osEnv{})
}

// InitializeWithEnv configures the package-level logger using env as the
// source of WEBAUTH_UNSTRUCTURED_LOGS. Exposed for tests that need to
// control the environment without mutating process state.
func InitializeWithEnv(env EnvReader) {
	unstructured := unstructuredLogsWithEnv(env)
	singleton.Store(newSlogLogger(os.Stderr, slog.LevelInfo, unstructured))
}

// unstructuredLogsWithEnv reports whether unstructured (text) logging is
// enabled. Only a value strconv.ParseBool reads as false ("false", "0",
// "f", "F", "FALSE", "False") disables it; an empty or unparsable value
// is treated as enabled, matching the fail-open default of the module: a
// misconfigured or absent environment variable should not silently switch
// log format on an operator mid-incident.
func unstructuredLogsWithEnv(env EnvReader) bool {
	v := env.Getenv(unstructuredLogsEnvVar)
	if v == "" {
		return true
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return parsed
}

func newSlogLogger(w io.Writer, level slog.Level, unstructured bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if unstructured {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// options configures New.
type options struct {
	output       io.Writer
	level        slog.Level
	unstructured bool
}

// Option configures a logger built by New.
type Option func(*options)

// WithOutput sets the destination writer for log output.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithLevel sets the minimum level that will be logged.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithJSON switches the logger to structured JSON output.
func WithJSON() Option {
	return func(o *options) { o.unstructured = false }
}

// New builds a standalone *slog.Logger without touching the package
// singleton. Useful for tests and for callers (such as the CLI) that want
// a logger scoped to a single command invocation.
func New(opts ...Option) *slog.Logger {
	o := &options{output: os.Stderr, level: slog.LevelInfo, unstructured: true}
	for _, opt := range opts {
		opt(o)
	}
	return newSlogLogger(o.output, o.level, o.unstructured)
}

// Get returns the current package-level logger.
func Get() *slog.Logger {
	return singleton.Load()
}

// SetForTest installs l as the package-level logger and returns a restore
// function. It exists for tests outside this package that need to capture
// log output (e.g. the CLI's error-path tests).
func SetForTest(l *slog.Logger) (restore func()) {
	prev := singleton.Load()
	singleton.Store(l)
	return func() { singleton.Store(prev) }
}

// Debug logs msg at debug level.
func Debug(msg string) { Get().Debug(msg) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { Get().Debug(fmt.Sprintf(format, args...)) }

// Debugw logs msg at debug level with structured key-value pairs.
func Debugw(msg string, kv ...any) { Get().Debug(msg, kv...) }

// Info logs msg at info level.
func Info(msg string) { Get().Info(msg) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { Get().Info(fmt.Sprintf(format, args...)) }

// Infow logs msg at info level with structured key-value pairs.
func Infow(msg string, kv ...any) { Get().Info(msg, kv...) }

// Warn logs msg at warn level.
func Warn(msg string) { Get().Warn(msg) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { Get().Warn(fmt.Sprintf(format, args...)) }

// Warnw logs msg at warn level with structured key-value pairs.
func Warnw(msg string, kv ...any) { Get().Warn(msg, kv...) }

// Error logs msg at error level.
func Error(msg string) { Get().Error(msg) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { Get().Error(fmt.Sprintf(format, args...)) }

// Errorw logs msg at error level with structured key-value pairs.
func Errorw(msg string, kv ...any) { Get().Error(msg, kv...) }

// DPanic logs msg at error level and panics; intended for conditions that
// are bugs in development but should only be logged (not crash) were they
// to somehow occur in production builds. This module treats DPanic the
// same as Panic since it ships as a library, not a long-running server.
func DPanic(msg string) { Get().Error(msg); panic(msg) }

// DPanicf formats and behaves like DPanic.
func DPanicf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	Get().Error(msg)
	panic(msg)
}

// DPanicw logs msg with key-value pairs at error level and panics.
func DPanicw(msg string, kv ...any) {
	Get().Error(msg, kv...)
	panic(msg)
}

// Panic logs msg at error level and panics.
func Panic(msg string) { Get().Error(msg); panic(msg) }

// Panicf formats and behaves like Panic.
func Panicf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	Get().Error(msg)
	panic(msg)
}

// Panicw logs msg with key-value pairs at error level and panics.
func Panicw(msg string, kv ...any) {
	Get().Error(msg, kv...)
	panic(msg)
}
