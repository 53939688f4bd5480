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

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var _ Logger = (*DefaultLogger)(nil)

// LoggerOptions configures a DefaultLogger.
type LoggerOptions struct {
	// Level is the minimum level written.
	Level LogLevel
	// Format selects the built-in formatter. Ignored if Formatter is set.
	Format LogFormat
	// Formatter overrides Format.
	Formatter Formatter
	// Output defaults to os.Stderr.
	Output io.Writer
	// TimeFormat adds a timestamp to text output when non-empty.
	TimeFormat string
	// ShowLevel prefixes text output with the level.
	ShowLevel bool
}

// DefaultLoggerOptions returns info-level text logging to stderr with the
// level shown.
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    os.Stderr,
		ShowLevel: true,
	}
}

// sink is shared by a logger and every logger derived from it with
// WithField, so they serialize writes to the same output.
type sink struct {
	mu        sync.Mutex
	out       io.Writer
	formatter Formatter
}

// DefaultLogger writes formatted entries to an io.Writer.
type DefaultLogger struct {
	level  LogLevel
	sink   *sink
	fields map[string]interface{}
}

// NewLogger creates a DefaultLogger from opts.
func NewLogger(opts LoggerOptions) *DefaultLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	formatter := opts.Formatter
	if formatter == nil {
		switch opts.Format {
		case FormatJSON:
			formatter = &JSONFormatter{}
		default:
			formatter = &TextFormatter{TimeFormat: opts.TimeFormat, ShowLevel: opts.ShowLevel}
		}
	}

	return &DefaultLogger{
		level: opts.Level,
		sink:  &sink{out: out, formatter: formatter},
	}
}

// WithFields returns a derived logger; l is not modified.
func (l *DefaultLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &DefaultLogger{level: l.level, sink: l.sink, fields: merged}
}

// WithField returns a derived logger with one more field.
func (l *DefaultLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// GetLevel returns the minimum level written.
func (l *DefaultLogger) GetLevel() LogLevel {
	return l.level
}

// Enabled reports whether level is written.
func (l *DefaultLogger) Enabled(level LogLevel) bool {
	return level >= l.level && l.level != LevelSilent
}

func (l *DefaultLogger) log(level LogLevel, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
		Fields:    l.fields,
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	data, err := l.sink.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(l.sink.out, "logging error: %v\n", err)
		return
	}
	_, _ = l.sink.out.Write(data)
}

// Debug logs at debug level.
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs at info level.
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs at warn level.
func (l *DefaultLogger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs at error level.
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}
