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

	"github.com/sigstore/validator/pkg/tree"
	verifykey "github.com/sigstore/validator/pkg/verify/key"
)

// FlagAdder is implemented by any flag group that can register itself to a cobra command.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// TreeFlags control how roots are walked and how logical paths are
// computed. They are shared by sign, validate and install.
type TreeFlags struct {
	Recursive  bool   // -r, --recursive
	RelativeTo string // --relative-to
	PathPrefix string // --path-prefix
}

// AddFlags adds the tree flags.
func (o *TreeFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.Recursive, "recursive", "r", false, "Recurse into directories.")
	cmd.Flags().StringVar(&o.RelativeTo, "relative-to", "", "Compute signed paths relative to this directory instead of each root.")
	_ = cmd.MarkFlagDirname("relative-to")
	cmd.Flags().StringVar(&o.PathPrefix, "path-prefix", "", "Prefix prepended to every signed path.")
}

// ToTreeOptions converts the flags to walker options.
func (o *TreeFlags) ToTreeOptions(force bool) tree.Options {
	return tree.Options{
		Recursive:  o.Recursive,
		Force:      force,
		RelativeTo: o.RelativeTo,
		PathPrefix: o.PathPrefix,
	}
}

// PublicKeyFlags name the trusted public keys.
type PublicKeyFlags struct {
	PublicKeys []string // --key
	KeyDirs    []string // --key-dir
}

// AddFlags adds the public key flags.
func (o *PublicKeyFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.PublicKeys, "key", nil, "PEM public key to trust. May be repeated.")
	_ = cmd.MarkFlagFilename("key", "pem", "pub")
	cmd.Flags().StringArrayVar(&o.KeyDirs, "key-dir", nil, "Directory of PEM public keys to trust. May be repeated.")
	_ = cmd.MarkFlagDirname("key-dir")
}

// ToKeyConfig converts the flags to a verifier key config.
func (o *PublicKeyFlags) ToKeyConfig() verifykey.KeyVerifierConfig {
	return verifykey.KeyVerifierConfig{PublicKeys: o.PublicKeys, KeyDirs: o.KeyDirs}
}

// AddAllFlags is a helper function to register multiple flag groups at once.
func AddAllFlags(cmd *cobra.Command, flagGroups ...FlagAdder) {
	for _, fg := range flagGroups {
		fg.AddFlags(cmd)
	}
}
