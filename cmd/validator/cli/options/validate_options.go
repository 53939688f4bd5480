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

	key "github.com/sigstore/validator/pkg/verify/key"
)

// ValidateOptions are the flags of the validate command.
type ValidateOptions struct {
	TreeFlags
	PublicKeyFlags
}

// AddFlags adds the validate flags.
func (o *ValidateOptions) AddFlags(cmd *cobra.Command) {
	AddAllFlags(cmd, &o.TreeFlags, &o.PublicKeyFlags)
}

// ToStandardOptions converts CLI options to library options for
// validation.
func (o *ValidateOptions) ToStandardOptions(paths []string) key.KeyVerifierOptions {
	return key.KeyVerifierOptions{
		KeyVerifierConfig: o.ToKeyConfig(),
		Options:           o.ToTreeOptions(false),
		Paths:             paths,
	}
}

// KeysOptions are the flags of the keys command.
type KeysOptions struct {
	PublicKeyFlags
}

// AddFlags adds the keys flags.
func (o *KeysOptions) AddFlags(cmd *cobra.Command) {
	o.PublicKeyFlags.AddFlags(cmd)
}
