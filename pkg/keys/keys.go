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

// Package keys loads the key material used to sign and validate trees.
//
// Private keys come from PEM files (optionally password protected) or
// from a PKCS#11 token addressed by a "pkcs11:" URI. Public keys come from
// PEM files, either listed explicitly or collected from key directories.
package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sigstore/sigstore/pkg/cryptoutils"

	"github.com/sigstore/validator/pkg/keys/pkcs11"
	"github.com/sigstore/validator/pkg/sigerr"
)

// PrivateKey is a loaded signing key. Keys backed by a token hold an open
// session and must be closed.
type PrivateKey struct {
	signer crypto.Signer
	closer io.Closer
	source string
}

// NewPrivateKey wraps an in-memory signer.
func NewPrivateKey(signer crypto.Signer) *PrivateKey {
	return &PrivateKey{signer: signer}
}

// Signer returns the underlying crypto.Signer.
func (k *PrivateKey) Signer() crypto.Signer {
	return k.signer
}

// Public returns the public half of the key.
func (k *PrivateKey) Public() crypto.PublicKey {
	return k.signer.Public()
}

// Source returns the path or URI the key was loaded from.
func (k *PrivateKey) Source() string {
	return k.source
}

// Close releases any token session held by the key.
func (k *PrivateKey) Close() error {
	if k == nil || k.closer == nil {
		return nil
	}
	err := k.closer.Close()
	k.closer = nil
	return err
}

// IsPKCS11URI reports whether a key reference addresses a PKCS#11 token.
func IsPKCS11URI(ref string) bool {
	return strings.HasPrefix(ref, pkcs11.Scheme)
}

// LoadPrivateKey loads the signing key referenced by ref, which is either
// a PEM file path or a pkcs11: URI. password is only consulted for
// encrypted PEM files; an empty password means none.
func LoadPrivateKey(ref, password string) (*PrivateKey, error) {
	if IsPKCS11URI(ref) {
		key, err := pkcs11.LoadKey(ref)
		if err != nil {
			return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, ref, "Failed to load private key", err)
		}
		return &PrivateKey{signer: key.Signer(), closer: key, source: ref}, nil
	}

	pemBytes, err := os.ReadFile(ref)
	if err != nil {
		return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, ref, "Failed to load private key", err)
	}

	var pass cryptoutils.PassFunc
	if password != "" {
		pass = func(bool) ([]byte, error) {
			return []byte(password), nil
		}
	}

	priv, err := cryptoutils.UnmarshalPEMToPrivateKey(pemBytes, pass)
	if err != nil {
		return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, ref, "Failed to parse private key", err)
	}

	signer, ok := priv.(crypto.Signer)
	if !ok {
		return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, ref, "Unsupported private key",
			fmt.Errorf("%T cannot sign", priv))
	}
	if _, err := validatePublicKey(signer.Public()); err != nil {
		return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, ref, "Unsupported private key", err)
	}

	return &PrivateKey{signer: signer, source: ref}, nil
}

// LoadPublicKey loads a PEM encoded public key (PKIX or PKCS#1).
func LoadPublicKey(path string) (crypto.PublicKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, path, "Failed to load public key", err)
	}

	pub, err := cryptoutils.UnmarshalPEMToPublicKey(pemBytes)
	if err != nil {
		return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, path, "Failed to parse public key", err)
	}

	pub, err = validatePublicKey(pub)
	if err != nil {
		return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, path, "Unsupported public key", err)
	}
	return pub, nil
}

// LoadPublicKeysFromDir adds every public key found directly inside dir to
// a new KeySet. A missing directory yields an empty set. Entries that
// vanish or turn out to be directories, including dangling links, are
// skipped; any other failure aborts the load.
func LoadPublicKeysFromDir(dir string) (*KeySet, error) {
	set := NewKeySet()
	if err := set.addDir(dir); err != nil {
		return nil, err
	}
	return set, nil
}

// ReadPublicKeys builds the trusted key set from explicit key files and
// key directories.
func ReadPublicKeys(files, dirs []string) (*KeySet, error) {
	set := NewKeySet()
	for _, f := range files {
		pub, err := LoadPublicKey(f)
		if err != nil {
			return nil, err
		}
		if _, err := set.Add(pub); err != nil {
			return nil, sigerr.NewWithPath(sigerr.KindKeyLoad, f, "Unsupported public key", err)
		}
	}
	for _, d := range dirs {
		if err := set.addDir(d); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *KeySet) addDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return sigerr.NewWithPath(sigerr.KindKeyLoad, dir, "Failed to read key directory", err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		pub, err := LoadPublicKey(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.EISDIR) {
				continue
			}
			return err
		}
		if _, err := s.Add(pub); err != nil {
			return sigerr.NewWithPath(sigerr.KindKeyLoad, path, "Unsupported public key", err)
		}
	}
	return nil
}

// validatePublicKey checks that the key type is one the verifier can use.
func validatePublicKey(key crypto.PublicKey) (crypto.PublicKey, error) {
	switch k := key.(type) {
	case *ecdsa.PublicKey:
		curveName := k.Curve.Params().Name
		if curveName != "P-256" && curveName != "P-384" && curveName != "P-521" {
			return nil, fmt.Errorf("unsupported elliptic curve: %s (supported: P-256, P-384, P-521)", curveName)
		}
		return k, nil
	case *rsa.PublicKey:
		return k, nil
	case ed25519.PublicKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported public key type: %T", key)
	}
}
