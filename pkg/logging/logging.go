// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging is the leveled, structured logger used by the tree
// operations and the CLI. Per-file outcomes are reported through it with
// the file path attached as a field.
package logging

import (
	"fmt"
	"io"
	"strings"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo reports per-file successes and skips.
	LevelInfo
	// LevelWarn reports recoverable oddities.
	LevelWarn
	// LevelError reports per-file failures.
	LevelError
	// LevelSilent disables all output.
	LevelSilent
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a level name. Unknown names are an error so that a
// mistyped --log-level is reported instead of ignored.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "silent", "none", "off":
		return LevelSilent, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// LogFormat represents the output format for log messages.
type LogFormat int

const (
	// FormatText outputs human-readable lines.
	FormatText LogFormat = iota
	// FormatJSON outputs one JSON object per line.
	FormatJSON
)

// String returns the string representation of a log format.
func (f LogFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseLogFormat parses a format name.
func ParseLogFormat(s string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", s)
	}
}

// Logger is the logging interface accepted throughout the module.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})

	// Enabled reports whether messages at level are written.
	Enabled(level LogLevel) bool

	// WithField returns a Logger that attaches key=value to every entry.
	WithField(key string, value interface{}) Logger
	// WithFields returns a Logger that attaches all fields to every entry.
	WithFields(fields map[string]interface{}) Logger
}

// Default returns an info-level text logger on stderr.
func Default() Logger {
	return NewLogger(DefaultLoggerOptions())
}

// Discard returns a logger that writes nothing.
func Discard() Logger {
	opts := DefaultLoggerOptions()
	opts.Level = LevelSilent
	opts.Output = io.Discard
	return NewLogger(opts)
}

// EnsureLogger returns l if non-nil, otherwise Default().
func EnsureLogger(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}
