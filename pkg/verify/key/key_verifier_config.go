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

package key

import (
	"fmt"

	"github.com/sigstore/validator/pkg/keys"
	"github.com/sigstore/validator/pkg/utils"
	"github.com/sigstore/validator/pkg/verify"
)

// KeyVerifierConfig names the trusted public keys.
//
//nolint:revive
type KeyVerifierConfig struct {
	// PublicKeys are PEM public key files.
	PublicKeys []string
	// KeyDirs are directories of PEM public key files. A missing
	// directory contributes no keys.
	KeyDirs []string
}

// Validate checks that at least one key source is named, that every
// explicit key file exists and that key dirs, if present, are directories.
func (c KeyVerifierConfig) Validate() error {
	if len(c.PublicKeys) == 0 && len(c.KeyDirs) == 0 {
		return fmt.Errorf("no public keys given")
	}
	if err := utils.ValidateMultiple("public key", c.PublicKeys, utils.PathTypeFile); err != nil {
		return err
	}
	return utils.ValidateOptionalDirs("key dir", c.KeyDirs)
}

// Load reads all keys and prepares a verifier for them.
func (c KeyVerifierConfig) Load() (*keys.KeySet, *verify.Verifier, error) {
	set, err := keys.ReadPublicKeys(c.PublicKeys, c.KeyDirs)
	if err != nil {
		return nil, nil, err
	}
	v, err := verify.NewVerifier(set)
	if err != nil {
		return nil, nil, err
	}
	return set, v, nil
}
