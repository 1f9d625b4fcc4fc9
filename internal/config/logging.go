package config

import "strings"

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogLevels lists every accepted log level.
var LogLevels = []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}

// NormalizeLogLevel lowercases and trims raw; "warning" is accepted as warn.
func NormalizeLogLevel(raw string) LogLevel {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "warning" {
		return LogLevelWarn
	}
	return LogLevel(s)
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// LogFormats lists every accepted log format.
var LogFormats = []LogFormat{LogFormatText, LogFormatJSON}

func NormalizeLogFormat(raw string) LogFormat {
	return LogFormat(strings.ToLower(strings.TrimSpace(raw)))
}
