package main

import (
	"log"
	"strings"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	}
	return "unknown"
}

// parseLogLevel is case-insensitive and falls back to info.
func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	}
	return LogLevelInfo
}

// Logger writes leveled messages through the standard log package, which
// goes to stderr so command output stays clean.
type Logger struct {
	level LogLevel
}

func NewLogger(level string) *Logger {
	return &Logger{level: parseLogLevel(level)}
}

func (l *Logger) logf(level LogLevel, prefix, format string, v ...any) {
	if level >= l.level {
		log.Printf(prefix+format, v...)
	}
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LogLevelDebug, "[DEBUG] ", format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LogLevelInfo, "[INFO] ", format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LogLevelWarn, "[WARN] ", format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LogLevelError, "[ERROR] ", format, v...) }
