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

// Package verify checks signature artifacts of single files against a set
// of trusted public keys.
package verify

import (
	"bytes"

	sigstoresig "github.com/sigstore/sigstore/pkg/signature"

	"github.com/sigstore/validator/pkg/blob"
	"github.com/sigstore/validator/pkg/keys"
	"github.com/sigstore/validator/pkg/sigerr"
	"github.com/sigstore/validator/pkg/signature"
)

// Verifier accepts an artifact if any trusted key verifies it.
type Verifier struct {
	verifiers []sigstoresig.Verifier
}

// NewVerifier prepares one verification primitive per key in set. A key
// the primitive cannot be built for is a KindCrypto error. An empty set
// is allowed and verifies nothing.
func NewVerifier(set *keys.KeySet) (*Verifier, error) {
	v := &Verifier{}
	for _, pub := range set.Keys() {
		sv, err := CreateSignatureVerifier(pub)
		if err != nil {
			return nil, sigerr.New(sigerr.KindCrypto, "Failed to initialise verifier", err)
		}
		v.verifiers = append(v.verifiers, sv)
	}
	return v, nil
}

// Len returns the number of trusted keys.
func (v *Verifier) Len() int {
	return len(v.verifiers)
}

// VerifyBlob reports whether raw is a signature over message by any
// trusted key. Keys are tried in order and the first match wins.
func (v *Verifier) VerifyBlob(message, raw []byte) bool {
	for _, sv := range v.verifiers {
		if err := sv.VerifySignature(bytes.NewReader(raw), bytes.NewReader(message)); err == nil {
			return true
		}
	}
	return false
}

// Verify decodes artifact and checks it against the blob for one file.
// A malformed artifact is a KindBadFormat error; a signature no key
// accepts is (false, nil).
func (v *Verifier) Verify(relPath string, t blob.FileType, content, artifact []byte) (bool, error) {
	raw, err := signature.Decode(artifact)
	if err != nil {
		return false, err
	}
	message, err := blob.Build(t, relPath, content)
	if err != nil {
		return false, err
	}
	return v.VerifyBlob(message, raw), nil
}
