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
	"github.com/sigstore/validator/pkg/keys"
	"github.com/sigstore/validator/pkg/signing"
	"github.com/sigstore/validator/pkg/utils"
)

// KeySignerConfig names the private key used for signing.
//
//nolint:revive
type KeySignerConfig struct {
	// PrivateKey is a PEM file or a pkcs11: URI.
	PrivateKey string
	// Password decrypts an encrypted PEM key. Ignored for PKCS#11 keys.
	Password string
}

// Validate checks that a PEM key file exists. PKCS#11 URIs are checked
// when the token is opened.
func (c KeySignerConfig) Validate() error {
	if keys.IsPKCS11URI(c.PrivateKey) {
		return nil
	}
	return utils.ValidateFileExists("private key", c.PrivateKey)
}

// Load opens the private key and wraps it in a signing.Signer. The
// returned key must be closed by the caller.
func (c KeySignerConfig) Load() (*keys.PrivateKey, *signing.Signer, error) {
	pk, err := keys.LoadPrivateKey(c.PrivateKey, c.Password)
	if err != nil {
		return nil, nil, err
	}
	signer, err := signing.NewSigner(pk.Signer())
	if err != nil {
		_ = pk.Close()
		return nil, nil, err
	}
	return pk, signer, nil
}
