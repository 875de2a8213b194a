// Package logger is the bot's leveled, prefixed logger. It sits on top of
// logrus: every entry goes to the console with colors, to logs/combined.log,
// to logs/error.log when it is an error, and to the Discord webhooks.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

// Entry field keys
const (
	fieldKind   = "kind"
	fieldPrefix = "prefix"
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelSuccess:
		return "SUCCESS"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	switch l {
	case LevelCritical:
		return "\033[1;31m"
	case LevelError:
		return "\033[31m"
	case LevelWarn:
		return "\033[33m"
	case LevelSuccess:
		return "\033[32m"
	case LevelInfo:
		return "\033[36m"
	case LevelDebug:
		return "\033[35m"
	case LevelSystem:
		return "\033[34m"
	default:
		return colorReset
	}
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	switch l {
	case LevelCritical, LevelError:
		return 0xFF0000
	case LevelWarn:
		return 0xFFFF00
	case LevelSuccess:
		return 0x00FF00
	case LevelInfo:
		return 0x0000FF
	case LevelDebug:
		return 0x800080
	case LevelSystem:
		return 0x808080
	default:
		return 0xFFFFFF
	}
}

// logrusLevel maps the bot levels onto logrus severities
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelCritical, LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

const colorReset = "\033[0m"

// Logger is the main logging structure
type Logger struct {
	logrus  *logrus.Logger
	files   *fileHook
	webhook *webhookHook
}

// Option customizes a Logger
type Option func(*options)

type options struct {
	dir    string
	output io.Writer
	debug  bool
}

// WithDir sets the directory for log files. An empty dir disables file logging.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithOutput replaces the console writer
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithDebug enables DEBUG entries
func WithDebug(enabled bool) Option {
	return func(o *options) { o.debug = enabled }
}

var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(errorWebhook, logsWebhook string, opts ...Option) *Logger {
	once.Do(func() {
		logger = NewLogger(errorWebhook, logsWebhook, opts...)
	})
	return logger
}

// Get returns the global logger, creating a console-only one if Init was not called
func Get() *Logger {
	once.Do(func() {
		logger = NewLogger("", "", WithDir(""))
	})
	return logger
}

// NewLogger creates a new Logger instance
func NewLogger(errorWebhook, logsWebhook string, opts ...Option) *Logger {
	o := options{
		dir:    filepath.Join(".", "logs"),
		output: os.Stdout,
		debug:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	lr := logrus.New()
	lr.SetOutput(o.output)
	lr.SetFormatter(&lineFormatter{colors: true})
	if o.debug {
		lr.SetLevel(logrus.DebugLevel)
	} else {
		lr.SetLevel(logrus.InfoLevel)
	}

	l := &Logger{logrus: lr}

	if o.dir != "" {
		files, err := newFileHook(o.dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error abriendo archivos de log: %v\n", err)
		} else {
			l.files = files
			lr.AddHook(files)
		}
	}

	if errorWebhook != "" || logsWebhook != "" {
		l.webhook = newWebhookHook(errorWebhook, logsWebhook)
		lr.AddHook(l.webhook)
	}

	return l
}

// Logrus exposes the underlying logrus logger for libraries that accept one
func (l *Logger) Logrus() *logrus.Logger {
	return l.logrus
}

func (l *Logger) log(level LogLevel, message string, prefix string) {
	l.logrus.WithFields(logrus.Fields{
		fieldKind:   level,
		fieldPrefix: prefix,
	}).Log(level.logrusLevel(), message)
}

// Close flushes pending webhooks and closes the log files
func (l *Logger) Close() {
	if l.webhook != nil {
		l.webhook.close()
	}
	if l.files != nil {
		l.files.close()
	}
}

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix)
}

// Critical logs a critical message using the global logger
func Critical(message string, prefix string) {
	Get().Critical(message, prefix)
}

// Error logs an error message using the global logger
func Error(message string, prefix string) {
	Get().Error(message, prefix)
}

// Warn logs a warning message using the global logger
func Warn(message string, prefix string) {
	Get().Warn(message, prefix)
}

// Success logs a success message using the global logger
func Success(message string, prefix string) {
	Get().Success(message, prefix)
}

// Info logs an info message using the global logger
func Info(message string, prefix string) {
	Get().Info(message, prefix)
}

// Debug logs a debug message using the global logger
func Debug(message string, prefix string) {
	Get().Debug(message, prefix)
}

// System logs a system message using the global logger
func System(message string, prefix string) {
	Get().System(message, prefix)
}
