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

package signing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// HashFor returns the digest applied to a blob before it is signed with
// pub. Ed25519 signs the message itself and gets crypto.Hash(0); RSA and
// ECDSA use SHA-256.
func HashFor(pub crypto.PublicKey) (crypto.Hash, error) {
	switch pub.(type) {
	case ed25519.PublicKey:
		return crypto.Hash(0), nil
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return crypto.SHA256, nil
	default:
		return 0, fmt.Errorf("unsupported key type: %T", pub)
	}
}

// KeyAlgorithm describes pub, e.g. "ECDSA P-256", "RSA 3072", "ED25519".
func KeyAlgorithm(pub crypto.PublicKey) string {
	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		return "ECDSA " + k.Curve.Params().Name
	case *rsa.PublicKey:
		return fmt.Sprintf("RSA %d", k.N.BitLen())
	case ed25519.PublicKey:
		return "ED25519"
	default:
		return fmt.Sprintf("%T", pub)
	}
}

// GetPublicKeyPEM returns the public key in PEM format as a string.
func GetPublicKeyPEM(pub crypto.PublicKey) (string, error) {
	pubKeyPEM, err := cryptoutils.MarshalPublicKeyToPEM(pub)
	if err != nil {
		return "", err
	}
	return string(pubKeyPEM), nil
}

// ComputeDigest hashes data with hashFunc. crypto.Hash(0) returns data
// unchanged.
func ComputeDigest(data []byte, hashFunc crypto.Hash) []byte {
	if hashFunc == crypto.Hash(0) {
		return data
	}
	hasher := hashFunc.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}
