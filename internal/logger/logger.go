package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorRed    = "\033[31m"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	GlobalLogLevel = LogLevelInfo

	output io.Writer = os.Stdout
)

func (l LogLevel) rank() int {
	switch l {
	case LogLevelDebug:
		return 0
	case LogLevelWarn:
		return 2
	case LogLevelError:
		return 3
	default:
		return 1
	}
}

// ParseLevel maps a config string onto a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch lvl := LogLevel(strings.ToLower(strings.TrimSpace(s))); lvl {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return lvl, nil
	case "warning":
		return LogLevelWarn, nil
	case "":
		return LogLevelInfo, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetOutput redirects every logger created afterwards.
func SetOutput(w io.Writer) {
	output = w
}

type Log struct {
	level LogLevel
	err   error
	out   io.Writer
}

func New() *Log {
	return &Log{
		level: GlobalLogLevel,
		out:   output,
	}
}

// NewWithWriter returns a logger writing to w regardless of the package output.
func NewWithWriter(w io.Writer) *Log {
	return &Log{
		level: GlobalLogLevel,
		out:   w,
	}
}

func (l *Log) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Log) WithError(err error) *Log {
	return &Log{level: l.level, err: err, out: l.out}
}

func (l *Log) timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Log) enabled(level LogLevel) bool {
	return level.rank() >= l.level.rank()
}

func (l *Log) write(color, icon, msg string) {
	if l.err != nil {
		fmt.Fprintf(l.out, "%s[%s]%s %s %s: %v%s\n", color, l.timestamp(), ColorReset, icon, msg, l.err, ColorReset)
		return
	}
	fmt.Fprintf(l.out, "%s[%s]%s %s %s%s\n", color, l.timestamp(), ColorReset, icon, msg, ColorReset)
}

func (l *Log) Debug(msg string) {
	if !l.enabled(LogLevelDebug) {
		return
	}
	l.write(ColorCyan, "🔎", msg)
}

func (l *Log) Info(msg string) {
	if !l.enabled(LogLevelInfo) {
		return
	}
	l.write(ColorBlue, "ℹ️ ", msg)
}

// Success is an info-level line in green, used for end-of-run summaries.
func (l *Log) Success(msg string) {
	if !l.enabled(LogLevelInfo) {
		return
	}
	l.write(ColorGreen, "✅", msg)
}

func (l *Log) Warn(msg string) {
	if !l.enabled(LogLevelWarn) {
		return
	}
	l.write(ColorYellow, "⚠️ ", msg)
}

// Error is never filtered.
func (l *Log) Error(msg string) {
	l.write(ColorRed, "❌", msg)
}
