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

package keys

import (
	"crypto"
	"crypto/sha256"
	"encoding/hex"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// KeySet is a set of trusted public keys. Keys are identified by the
// SHA-256 fingerprint of their PKIX DER encoding, so adding the same key
// twice keeps one copy.
type KeySet struct {
	keys         []crypto.PublicKey
	fingerprints []string
	index        map[string]struct{}
}

// NewKeySet returns an empty set.
func NewKeySet() *KeySet {
	return &KeySet{index: make(map[string]struct{})}
}

// Fingerprint returns the hex SHA-256 of the key's PKIX DER encoding.
func Fingerprint(pub crypto.PublicKey) (string, error) {
	der, err := cryptoutils.MarshalPublicKeyToDER(pub)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:]), nil
}

// Add inserts pub and reports whether it was new.
func (s *KeySet) Add(pub crypto.PublicKey) (bool, error) {
	if _, err := validatePublicKey(pub); err != nil {
		return false, err
	}
	fp, err := Fingerprint(pub)
	if err != nil {
		return false, err
	}
	if _, ok := s.index[fp]; ok {
		return false, nil
	}
	s.index[fp] = struct{}{}
	s.keys = append(s.keys, pub)
	s.fingerprints = append(s.fingerprints, fp)
	return true, nil
}

// Len returns the number of distinct keys.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *KeySet) Keys() []crypto.PublicKey {
	if s == nil {
		return nil
	}
	return append([]crypto.PublicKey(nil), s.keys...)
}

// Fingerprints returns the key fingerprints, in the same order as Keys.
func (s *KeySet) Fingerprints() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.fingerprints...)
}
