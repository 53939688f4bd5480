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
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sigstore/validator/cmd/validator/cli/options"
	"github.com/sigstore/validator/pkg/config"
	"github.com/sigstore/validator/pkg/install"
)

// Install creates the install command.
func Install() *cobra.Command {
	o := &options.InstallOptions{}
	long := `Validate files and install them into a destination directory.

With positional arguments, every SOURCE is validated and copied into
DESTINATION. Directory sources (with --recursive) are installed without
their own name, keeping the layout below them. Nothing that fails
validation is written, and no directory is created for it.

Install config files given with --config, or found in --config-dir, each
describe one more install. A config that names no keys of its own uses
the keys given on the command line.`

	cmd := &cobra.Command{
		Use:   "install [OPTIONS] [SOURCE... DESTINATION]",
		Short: "Validate and install files.",
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ro.NewObservability().Logger

			jobs, err := installJobs(o, args)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				logger.Warn("Nothing to install")
				return nil
			}

			_, err = install.RunJobs(cmd.Context(), jobs, logger)
			return exitStatus("install", err)
		},
	}

	o.AddFlags(cmd)
	return cmd
}

// installJobs collects the command line install, if any, followed by one
// job per config file. Unreadable config files fail the command before
// anything is installed.
func installJobs(o *options.InstallOptions, args []string) ([]install.Job, error) {
	var jobs []install.Job

	switch len(args) {
	case 0:
	case 1:
		return nil, errors.New("no destination given")
	default:
		jobs = append(jobs, o.ToJob(args[:len(args)-1], args[len(args)-1]))
	}

	var errs []error
	fallback := o.ToKeyConfig()
	for _, path := range o.Configs {
		cfg, err := config.LoadInstallConfig(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cfg != nil {
			jobs = append(jobs, install.JobFromConfig(cfg, fallback))
		}
	}
	for _, dir := range o.ConfigDirs {
		configs, err := config.LoadInstallConfigDir(dir)
		if err != nil {
			errs = append(errs, err)
		}
		for _, cfg := range configs {
			jobs = append(jobs, install.JobFromConfig(cfg, fallback))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return jobs, nil
}
