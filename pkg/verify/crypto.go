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

package verify

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	sigstoresig "github.com/sigstore/sigstore/pkg/signature"
)

// CreateSignatureVerifier creates a sigstore signature.Verifier matching
// the signer's choice of digest: pure Ed25519, RSA PKCS#1 v1.5 over
// SHA-256, or ECDSA over SHA-256 on every curve.
func CreateSignatureVerifier(pubKey crypto.PublicKey) (sigstoresig.Verifier, error) {
	switch k := pubKey.(type) {
	case *ecdsa.PublicKey:
		return sigstoresig.LoadECDSAVerifier(k, crypto.SHA256)
	case *rsa.PublicKey:
		return sigstoresig.LoadRSAPKCS1v15Verifier(k, crypto.SHA256)
	case ed25519.PublicKey:
		return sigstoresig.LoadED25519Verifier(k)
	default:
		return nil, fmt.Errorf("unsupported public key type: %T", pubKey)
	}
}
