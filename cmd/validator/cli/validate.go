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
	"github.com/spf13/cobra"

	"github.com/sigstore/validator/cmd/validator/cli/options"
	key "github.com/sigstore/validator/pkg/verify/key"
)

// Validate creates the validate command.
func Validate() *cobra.Command {
	o := &options.ValidateOptions{}
	long := `Validate signed files against a set of public keys.

Every file and symlink given, or found below a directory given with
--recursive, must have a PATH.sig signature made by one of the trusted
keys for the path it has relative to the trust root. Use --relative-to
and --path-prefix to compute the same paths that were used at signing.

All files are checked; the command fails if any one of them does not
validate.`

	cmd := &cobra.Command{
		Use:   "validate [OPTIONS] PATH...",
		Short: "Validate signed files.",
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := o.ToStandardOptions(args)
			opts.Logger = ro.NewObservability().Logger

			verifier, err := key.NewKeyVerifier(opts)
			if err != nil {
				return err
			}

			_, err = verifier.Verify(cmd.Context())
			return exitStatus("validate", err)
		},
	}

	o.AddFlags(cmd)
	return cmd
}
