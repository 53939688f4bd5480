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

	key "github.com/sigstore/validator/pkg/signing/key"
)

// SignOptions are the flags of the sign command.
type SignOptions struct {
	TreeFlags
	Force      bool   // -f, --force
	PrivateKey string // --key KEY (required)
	Password   string // --password
}

// AddFlags adds the sign flags.
func (o *SignOptions) AddFlags(cmd *cobra.Command) {
	o.TreeFlags.AddFlags(cmd)
	cmd.Flags().BoolVarP(&o.Force, "force", "f", false, "Re-sign files that already have a signature.")
	cmd.Flags().StringVar(&o.PrivateKey, "key", "", "PEM private key or pkcs11: URI to sign with. [required]")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagFilename("key", "pem", "key")
	cmd.Flags().StringVar(&o.Password, "password", "", "Password for the key encryption, if any.")
}

// ToStandardOptions converts CLI options to library options for signing.
func (o *SignOptions) ToStandardOptions(paths []string) key.KeySignerOptions {
	return key.KeySignerOptions{
		KeySignerConfig: key.KeySignerConfig{
			PrivateKey: o.PrivateKey,
			Password:   o.Password,
		},
		Options: o.ToTreeOptions(o.Force),
		Paths:   paths,
	}
}
