// Package log is a thin structured-logging facade over logrus. The rest
// of the application logs through the package-level functions or through
// field-scoped entries built with LogWithFields.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = NewLogger()

// Field is a single structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field for LogWithFields and Entry.With
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus logger
type Logger struct {
	l *logrus.Logger
}

// Option configures a Logger
type Option func(*Logger)

// WithOutput directs log output to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(lg *Logger) {
		lg.l.SetOutput(w)
	}
}

// NewLogger creates a new Logger writing to stdout at info level
func NewLogger(opts ...Option) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	lg := &Logger{l: l}
	for _, opt := range opts {
		opt(lg)
	}
	return lg
}

// SetDebug toggles debug-level logging on the default logger
func SetDebug(debug bool) {
	if debug {
		std.l.SetLevel(logrus.DebugLevel)
	} else {
		std.l.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects the default logger, mainly for tests
func SetOutput(w io.Writer) {
	std.l.SetOutput(w)
}

// Entry is a field-scoped logger
type Entry struct {
	e *logrus.Entry
}

// LogWithFields returns an Entry carrying the given fields on the
// default logger
func LogWithFields(fields ...Field) *Entry {
	return std.WithFields(fields...)
}

// WithFields returns an Entry carrying the given fields
func (lg *Logger) WithFields(fields ...Field) *Entry {
	fs := make(logrus.Fields, len(fields))
	for _, f := range fields {
		fs[f.Key] = f.Value
	}
	return &Entry{e: lg.l.WithFields(fs)}
}

// With adds more fields to an existing entry
func (e *Entry) With(fields ...Field) *Entry {
	fs := make(logrus.Fields, len(fields))
	for _, f := range fields {
		fs[f.Key] = f.Value
	}
	return &Entry{e: e.e.WithFields(fs)}
}

// Info logs at info level
func (e *Entry) Info(args ...interface{}) { e.e.Info(args...) }

// Infof logs a formatted message at info level
func (e *Entry) Infof(format string, args ...interface{}) { e.e.Infof(format, args...) }

// Debug logs at debug level
func (e *Entry) Debug(args ...interface{}) { e.e.Debug(args...) }

// Debugf logs a formatted message at debug level
func (e *Entry) Debugf(format string, args ...interface{}) { e.e.Debugf(format, args...) }

// Warn logs at warning level
func (e *Entry) Warn(args ...interface{}) { e.e.Warn(args...) }

// Warnf logs a formatted message at warning level
func (e *Entry) Warnf(format string, args ...interface{}) { e.e.Warnf(format, args...) }

// Error logs at error level
func (e *Entry) Error(args ...interface{}) { e.e.Error(args...) }

// Errorf logs a formatted message at error level
func (e *Entry) Errorf(format string, args ...interface{}) { e.e.Errorf(format, args...) }

// ErrorWithStack logs an error with its chain attached as a field
func (e *Entry) ErrorWithStack(err error, msg string) {
	e.e.WithError(err).Error(msg)
}

// Info logs a formatted message at info level on the default logger
func Info(format string, args ...interface{}) {
	std.l.Infof(format, args...)
}

// Debug logs a formatted message at debug level on the default logger
func Debug(format string, args ...interface{}) {
	std.l.Debugf(format, args...)
}

// Warn logs a formatted message at warning level on the default logger
func Warn(format string, args ...interface{}) {
	std.l.Warnf(format, args...)
}

// Error logs a formatted message at error level on the default logger
func Error(format string, args ...interface{}) {
	std.l.Errorf(format, args...)
}
