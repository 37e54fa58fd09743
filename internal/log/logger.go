package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"fetchlist/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sets the primary writer. Defaults to stderr so logs never mix
// with command output on stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends every entry to the file at path.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{}
	out := o.out
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0755); err == nil {
			f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				l.file = f
				out = io.MultiWriter(o.out, f)
			} else {
				fmt.Fprintf(o.out, "log: cannot open %s: %v\n", o.file, err)
			}
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	old := logger
	logger = NewLogger(opts...)
	if old != nil && old.file != nil {
		old.file.Close()
	}
}

// Close releases the log file, if any.
func Close() {
	if logger.file != nil {
		logger.file.Close()
		logger.file = nil
	}
}

func SetDebug(debug bool) {
	isDebug = debug
}

// IsDebug reports whether debug output is enabled.
func IsDebug() bool {
	return isDebug
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithContext attaches ctx to subsequent entries.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

// WithError attaches err and, for application errors, its kind and the
// kind-specific context.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error())}

	var netErr *errors.NetworkError
	var configErr *errors.ConfigError
	var appErr *errors.ApplicationError
	switch {
	case errors.As(err, &netErr):
		fields = append(fields, F("error_kind", netErr.Kind().String()))
		if netErr.URL() != "" {
			fields = append(fields, F("url", netErr.URL()))
		}
		if netErr.Status() != 0 {
			fields = append(fields, F("status", netErr.Status()))
		}
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", configErr.Kind().String()))
		if configErr.Param() != "" {
			fields = append(fields, F("param", configErr.Param()))
		}
	case errors.As(err, &appErr):
		fields = append(fields, F("error_kind", appErr.Kind().String()))
	}
	return l.With(fields...)
}

func (l *Logger) Info(msg string)                           { l.log(logrus.InfoLevel, msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(logrus.InfoLevel, format, args...) }
func (l *Logger) Warn(msg string)                           { l.log(logrus.WarnLevel, msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(logrus.WarnLevel, format, args...) }
func (l *Logger) Error(msg string)                          { l.log(logrus.ErrorLevel, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(logrus.ErrorLevel, format, args...) }

func (l *Logger) Debug(msg string) {
	if isDebug {
		l.log(logrus.DebugLevel, msg)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.log(logrus.DebugLevel, format, args...)
	}
}

// log must be called directly by every exported logging method so the
// caller lookup below lands on the user's frame.
func (l *Logger) log(level logrus.Level, format string, args ...interface{}) {
	entry := l.entry
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	entry.Log(level, msg)
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger with err attached.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	logger.WithError(err).log(logrus.ErrorLevel, msg)
}

func Info(msg string) {
	logger.log(logrus.InfoLevel, msg)
}

func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, format, args...)
}

// Debug logs a message when debug output is enabled
func Debug(msg string) {
	if isDebug {
		logger.log(logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	if isDebug {
		logger.log(logrus.DebugLevel, format, args...)
	}
}

// Error logs an error message
func Error(msg string) {
	logger.log(logrus.ErrorLevel, msg)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, format, args...)
}

// Warn logs a warning message
func Warn(msg string) {
	logger.log(logrus.WarnLevel, msg)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, format, args...)
}
