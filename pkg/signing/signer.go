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

// Package signing produces signature artifacts for single files.
package signing

import (
	"crypto"
	"crypto/rand"

	"github.com/sigstore/validator/pkg/blob"
	"github.com/sigstore/validator/pkg/sigerr"
	"github.com/sigstore/validator/pkg/signature"
)

// Signer signs canonical blobs with one private key.
type Signer struct {
	key      crypto.Signer
	hashFunc crypto.Hash
}

// NewSigner returns a Signer for key. The key type decides the digest, see
// HashFor.
func NewSigner(key crypto.Signer) (*Signer, error) {
	hf, err := HashFor(key.Public())
	if err != nil {
		return nil, sigerr.New(sigerr.KindKeyLoad, "Unsupported signing key", err)
	}
	return &Signer{key: key, hashFunc: hf}, nil
}

// Public returns the public half of the signing key.
func (s *Signer) Public() crypto.PublicKey {
	return s.key.Public()
}

// SignBlob signs an already built canonical blob and returns the raw
// signature.
func (s *Signer) SignBlob(message []byte) ([]byte, error) {
	sig, err := s.key.Sign(rand.Reader, ComputeDigest(message, s.hashFunc), s.hashFunc)
	if err != nil {
		return nil, sigerr.New(sigerr.KindCrypto, "Failed to sign", err)
	}
	return sig, nil
}

// Sign builds the blob for one file and returns the encoded artifact.
func (s *Signer) Sign(t blob.FileType, relPath string, content []byte) ([]byte, error) {
	message, err := blob.Build(t, relPath, content)
	if err != nil {
		return nil, err
	}
	sig, err := s.SignBlob(message)
	if err != nil {
		return nil, err
	}
	return signature.Encode(sig), nil
}
