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

package options

import (
	"github.com/spf13/cobra"

	"github.com/sigstore/validator/pkg/install"
)

// InstallOptions are the flags of the install command.
type InstallOptions struct {
	TreeFlags
	PublicKeyFlags
	Force      bool     // -f, --force
	Configs    []string // --config
	ConfigDirs []string // --config-dir
}

// AddFlags adds the install flags.
func (o *InstallOptions) AddFlags(cmd *cobra.Command) {
	AddAllFlags(cmd, &o.TreeFlags, &o.PublicKeyFlags)
	cmd.Flags().BoolVarP(&o.Force, "force", "f", false, "Overwrite existing files in the destination.")
	cmd.Flags().StringArrayVar(&o.Configs, "config", nil, "Install config file. May be repeated.")
	_ = cmd.MarkFlagFilename("config", "conf", "ini")
	cmd.Flags().StringArrayVar(&o.ConfigDirs, "config-dir", nil, "Directory of install config files. May be repeated.")
	_ = cmd.MarkFlagDirname("config-dir")
}

// ToJob converts the command line form, SOURCE... DESTINATION, to an
// install job.
func (o *InstallOptions) ToJob(sources []string, destination string) install.Job {
	return install.Job{
		Sources:     sources,
		Destination: destination,
		Options:     o.ToTreeOptions(o.Force),
		Keys:        o.ToKeyConfig(),
	}
}
