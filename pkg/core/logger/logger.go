package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents logging levels
type LogLevel int

const (
	// OffLevel turns off logging
	OffLevel LogLevel = iota
	// ErrorLevel is for failed operations
	ErrorLevel
	// WarnLevel is for rejected input that the caller can correct
	WarnLevel
	// InfoLevel is for registry lifecycle events
	InfoLevel
	// DebugLevel is for per-record detail
	DebugLevel
)

func (l LogLevel) String() string {
	switch l {
	case OffLevel:
		return "off"
	case ErrorLevel:
		return "error"
	case WarnLevel:
		return "warn"
	case InfoLevel:
		return "info"
	case DebugLevel:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel, defaulting to info
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "none":
		return OffLevel
	case "error":
		return ErrorLevel
	case "warn", "warning":
		return WarnLevel
	case "debug", "trace":
		return DebugLevel
	default:
		return InfoLevel
	}
}

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger interface defines the logging contract
type Logger interface {
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger
}

// Options configures a DefaultLogger
type Options struct {
	Level  LogLevel
	Format string // "json" (default) or "text"
	Output io.Writer
}

// DefaultLogger is the logrus-backed Logger
type DefaultLogger struct {
	entry *logrus.Entry
	level LogLevel
}

// NewDefaultLogger creates a JSON logger writing to stdout
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return New(Options{Level: level})
}

// New creates a logger from options
func New(opts Options) *DefaultLogger {
	l := logrus.New()
	l.SetLevel(opts.Level.logrusLevel())

	if strings.EqualFold(opts.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z",
		})
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Level == OffLevel {
		out = io.Discard
	}
	l.SetOutput(out)

	return &DefaultLogger{entry: logrus.NewEntry(l), level: opts.Level}
}

func (l *DefaultLogger) enabled(level LogLevel) bool {
	return l.level != OffLevel && l.level >= level
}

func (l *DefaultLogger) Error(args ...interface{}) {
	if l.enabled(ErrorLevel) {
		l.entry.Error(args...)
	}
}

func (l *DefaultLogger) Errorf(template string, args ...interface{}) {
	if l.enabled(ErrorLevel) {
		l.entry.Errorf(template, args...)
	}
}

func (l *DefaultLogger) Warn(args ...interface{}) {
	if l.enabled(WarnLevel) {
		l.entry.Warn(args...)
	}
}

func (l *DefaultLogger) Warnf(template string, args ...interface{}) {
	if l.enabled(WarnLevel) {
		l.entry.Warnf(template, args...)
	}
}

func (l *DefaultLogger) Info(args ...interface{}) {
	if l.enabled(InfoLevel) {
		l.entry.Info(args...)
	}
}

func (l *DefaultLogger) Infof(template string, args ...interface{}) {
	if l.enabled(InfoLevel) {
		l.entry.Infof(template, args...)
	}
}

func (l *DefaultLogger) Debug(args ...interface{}) {
	if l.enabled(DebugLevel) {
		l.entry.Debug(args...)
	}
}

func (l *DefaultLogger) Debugf(template string, args ...interface{}) {
	if l.enabled(DebugLevel) {
		l.entry.Debugf(template, args...)
	}
}

func (l *DefaultLogger) with(entry *logrus.Entry) Logger {
	return &DefaultLogger{entry: entry, level: l.level}
}

func (l *DefaultLogger) WithField(key string, value interface{}) Logger {
	return l.with(l.entry.WithField(key, value))
}

func (l *DefaultLogger) WithFields(fields map[string]interface{}) Logger {
	return l.with(l.entry.WithFields(fields))
}

func (l *DefaultLogger) WithError(err error) Logger {
	return l.with(l.entry.WithError(err))
}

func (l *DefaultLogger) WithContext(ctx context.Context) Logger {
	return l.with(l.entry.WithContext(ctx))
}

// NoopLogger drops everything
type NoopLogger struct{}

func (NoopLogger) Error(args ...interface{})                         {}
func (NoopLogger) Errorf(template string, args ...interface{})       {}
func (NoopLogger) Warn(args ...interface{})                          {}
func (NoopLogger) Warnf(template string, args ...interface{})        {}
func (NoopLogger) Info(args ...interface{})                          {}
func (NoopLogger) Infof(template string, args ...interface{})        {}
func (NoopLogger) Debug(args ...interface{})                         {}
func (NoopLogger) Debugf(template string, args ...interface{})       {}
func (n NoopLogger) WithField(key string, value interface{}) Logger  { return n }
func (n NoopLogger) WithFields(fields map[string]interface{}) Logger { return n }
func (n NoopLogger) WithError(err error) Logger                      { return n }
func (n NoopLogger) WithContext(ctx context.Context) Logger          { return n }

// Global logger instance
var defaultLogger Logger = NewDefaultLogger(InfoLevel)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the global default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// OrDefault returns l, or the global logger when l is nil
func OrDefault(l Logger) Logger {
	if l == nil {
		return defaultLogger
	}
	return l
}
