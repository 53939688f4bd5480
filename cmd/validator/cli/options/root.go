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

// Package options defines the command-line options and flags for the
// validator CLI.
package options

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigstore/validator/pkg/logging"
)

// RootOptions defines flags available to every subcommand.
type RootOptions struct {
	// OutputFile redirects log output to a file instead of stderr.
	OutputFile string
	// LogLevel sets the minimum log level (debug, info, warn, error, silent).
	LogLevel string
	// LogFormat sets the log output format (text, json).
	LogFormat string

	// Output is where logs go; set by the root command.
	Output io.Writer
}

// ValidLogLevels lists the valid log level strings.
var ValidLogLevels = []string{"debug", "info", "warn", "error", "silent"}

// ValidLogFormats lists the valid log format strings.
var ValidLogFormats = []string{"text", "json"}

var logExts = []string{"log", "txt", "json"}

var _ FlagAdder = (*RootOptions)(nil)

// AddFlags adds the root-level flags.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.OutputFile, "output-file", "",
		"log output to a file")
	_ = cmd.MarkPersistentFlagFilename("output-file", logExts...)

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "info",
		"set the minimum log level (debug, info, warn, error, silent)")
	_ = cmd.RegisterFlagCompletionFunc("log-level", cobra.FixedCompletions(ValidLogLevels, cobra.ShellCompDirectiveNoFileComp))

	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		"set the log output format (text, json)")
	_ = cmd.RegisterFlagCompletionFunc("log-format", cobra.FixedCompletions(ValidLogFormats, cobra.ShellCompDirectiveNoFileComp))
}

// Validate checks the log flags.
func (o *RootOptions) Validate() error {
	if _, err := logging.ParseLogLevel(o.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	if _, err := logging.ParseLogFormat(o.LogFormat); err != nil {
		return fmt.Errorf("--log-format: %w", err)
	}
	return nil
}

// GetLogLevel returns the effective log level, info if the flag is invalid.
func (o *RootOptions) GetLogLevel() logging.LogLevel {
	level, _ := logging.ParseLogLevel(o.LogLevel)
	return level
}

// GetLogFormat returns the log format, text if the flag is invalid.
func (o *RootOptions) GetLogFormat() logging.LogFormat {
	format, _ := logging.ParseLogFormat(o.LogFormat)
	return format
}

// NewLogger creates a logger from the root options.
func (o *RootOptions) NewLogger() logging.Logger {
	opts := logging.DefaultLoggerOptions()
	opts.Level = o.GetLogLevel()
	opts.Format = o.GetLogFormat()
	opts.Output = o.Output
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return logging.NewLogger(opts)
}
