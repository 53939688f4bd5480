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
	key "github.com/sigstore/validator/pkg/signing/key"
)

// Sign creates the sign command.
func Sign() *cobra.Command {
	o := &options.SignOptions{}
	long := `Sign files with a private key.

Writes a detached signature PATH.sig next to every file and symlink given,
or below every directory given when --recursive is set. The signature
covers the file type, the file's path relative to the trust root and the
SHA-512 of its contents (or the symlink target), so a signed file only
validates at the location it was signed for.

Files that already have a signature are skipped unless --force is set.
The key is a PEM file or a pkcs11: URI.`

	cmd := &cobra.Command{
		Use:   "sign [OPTIONS] --key KEY PATH...",
		Short: "Sign files with a private key.",
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := o.ToStandardOptions(args)
			opts.Logger = ro.NewObservability().Logger

			signer, err := key.NewKeySigner(opts)
			if err != nil {
				return err
			}
			defer func() { _ = signer.Close() }()

			_, err = signer.Sign(cmd.Context())
			return exitStatus("sign", err)
		},
	}

	o.AddFlags(cmd)
	return cmd
}
