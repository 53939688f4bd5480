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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigstore/validator/cmd/validator/cli/options"
	"github.com/sigstore/validator/pkg/keys"
	"github.com/sigstore/validator/pkg/signing"
)

// Keys creates the keys command.
func Keys() *cobra.Command {
	o := &options.KeysOptions{}
	var showPEM bool

	cmd := &cobra.Command{
		Use:   "keys [OPTIONS]",
		Short: "List the public keys that would be trusted.",
		Long: `List the public keys loaded from --key and --key-dir, one per line
with the SHA-256 fingerprint of the key and its algorithm. Duplicate keys
are listed once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := o.ToKeyConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			set, err := keys.ReadPublicKeys(cfg.PublicKeys, cfg.KeyDirs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fingerprints := set.Fingerprints()
			for i, pub := range set.Keys() {
				fmt.Fprintf(out, "%s %s\n", fingerprints[i], signing.KeyAlgorithm(pub))
				if showPEM {
					pemKey, err := signing.GetPublicKeyPEM(pub)
					if err != nil {
						return err
					}
					fmt.Fprint(out, pemKey)
				}
			}
			return nil
		},
	}

	o.AddFlags(cmd)
	cmd.Flags().BoolVar(&showPEM, "pem", false, "Also print every key in PEM form.")
	return cmd
}
