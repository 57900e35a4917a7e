// Package logging provides the leveled, component-scoped logger used
// across the service.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
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

// ParseLevel resolves a level name from configuration. Accepts
// debug, info, warn and error in any case. An empty name means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines a minimal, printf-style logging contract. Code takes
// this interface so tests and the CLI can swap the destination.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// sink is the shared destination behind component loggers. One mutex
// serializes the writes of every component derived from it.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

var defaultSink = &sink{out: os.Stderr, level: LevelInfo}

// Configure sets the level and destination of the default sink.
// Component loggers created before and after share the sink, so a
// single call at startup covers them all.
func Configure(level Level, out io.Writer) {
	defaultSink.mu.Lock()
	defer defaultSink.mu.Unlock()
	defaultSink.level = level
	if out != nil {
		defaultSink.out = out
	}
}

// NewComponentLogger returns a logger scoped to a component, writing
// to the default sink.
func NewComponentLogger(component string) Logger {
	return &componentLogger{s: defaultSink, component: component}
}

// New returns a logger with its own destination, independent of the
// default sink.
func New(component string, level Level, out io.Writer) Logger {
	return &componentLogger{s: &sink{out: out, level: level}, component: component}
}

type componentLogger struct {
	s         *sink
	component string
}

func (l *componentLogger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *componentLogger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *componentLogger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *componentLogger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

func (l *componentLogger) log(level Level, format string, args ...any) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if level < l.s.level || l.s.out == nil {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	} else {
		file = "???"
		line = 0
	}

	component := l.component
	if component == "" {
		component = "wordalign"
	}

	// Format: 2025-09-30 12:34:56 [INFO] [matcher] file.go:123 - message
	fmt.Fprintf(l.s.out, "%s [%s] [%s] %s:%d - %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level, component, file, line,
		fmt.Sprintf(format, args...))
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// IsNil reports whether logger is nil or wraps a nil pointer receiver.
func IsNil(logger Logger) bool {
	if logger == nil {
		return true
	}
	val := reflect.ValueOf(logger)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return val.IsNil()
	default:
		return false
	}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if IsNil(logger) {
		return Nop()
	}
	return logger
}
