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

// Package pkcs11 loads signing keys held in a PKCS#11 token.
//
// The key is addressed by an RFC 7512 URI such as
// "pkcs11:token=signing;object=release?module-name=softhsm2". The token
// session stays open for the lifetime of the returned Key.
package pkcs11

import (
	"crypto"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ThalesGroup/crypto11"
)

// DefaultModuleDirs are searched for module-name when the URI carries no
// module-path.
var DefaultModuleDirs = []string{
	"/usr/lib64/pkcs11/",
	"/usr/lib/pkcs11/",
	"/usr/lib/x86_64-linux-gnu/softhsm/",
	"/usr/lib/softhsm/",
	"/usr/lib64/softhsm/",
	"/usr/local/lib/softhsm/",
	"/opt/homebrew/lib/softhsm/",
}

const defaultModule = "libsofthsm2.so"

// Key is a private key inside an open token session.
type Key struct {
	ctx    *crypto11.Context
	signer crypto.Signer
}

// Signer returns the token-backed signer.
func (k *Key) Signer() crypto.Signer {
	return k.signer
}

// Close ends the token session.
func (k *Key) Close() error {
	if k.ctx == nil {
		return nil
	}
	err := k.ctx.Close()
	k.ctx = nil
	return err
}

// LoadKey opens the token named by uri and finds its key pair.
func LoadKey(uri string) (*Key, error) {
	parsed, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	module, err := FindModule(parsed, DefaultModuleDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to find PKCS#11 module: %w", err)
	}

	pin, err := parsed.PIN()
	if err != nil {
		return nil, err
	}

	cfg := &crypto11.Config{
		Path: module,
		Pin:  pin,
	}
	switch {
	case parsed.TokenLabel() != "":
		cfg.TokenLabel = parsed.TokenLabel()
	case parsed.SlotID() != nil:
		cfg.SlotNumber = parsed.SlotID()
	default:
		return nil, fmt.Errorf("PKCS#11 URI must name a token or a slot-id")
	}

	ctx, err := crypto11.Configure(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure PKCS#11 context: %w", err)
	}

	signer, err := findSigner(ctx, parsed)
	if err != nil {
		_ = ctx.Close()
		return nil, err
	}
	return &Key{ctx: ctx, signer: signer}, nil
}

// findSigner looks the key up by id, then by label. Without either it
// takes the only key pair in the token.
func findSigner(ctx *crypto11.Context, uri *URI) (crypto.Signer, error) {
	id, label := uri.KeyID(), uri.KeyLabel()
	if id != nil || label != "" {
		var labelBytes []byte
		if label != "" {
			labelBytes = []byte(label)
		}
		signer, err := ctx.FindKeyPair(id, labelBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to find key pair: %w", err)
		}
		if signer == nil {
			return nil, fmt.Errorf("no key pair matches id=%x object=%q", id, label)
		}
		return signer, nil
	}

	signers, err := ctx.FindAllKeyPairs()
	if err != nil {
		return nil, fmt.Errorf("failed to find key pairs: %w", err)
	}
	switch len(signers) {
	case 0:
		return nil, fmt.Errorf("no key pairs found in PKCS#11 token")
	case 1:
		return signers[0], nil
	default:
		return nil, fmt.Errorf("%d key pairs found in PKCS#11 token, set id or object", len(signers))
	}
}

// FindModule resolves the PKCS#11 module library for uri. An explicit
// module-path file wins; a module-path directory or dirs is searched for
// a file containing module-name, or the SoftHSM library when no name is
// given.
func FindModule(uri *URI, dirs []string) (string, error) {
	if p := uri.ModulePath(); p != "" {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("module-path error: %w", err)
		}
		if info.Mode().IsRegular() {
			return p, nil
		}
		if !info.IsDir() {
			return "", fmt.Errorf("module-path '%s' points to an invalid file type", p)
		}
		dirs = []string{p}
	}

	name := uri.ModuleName()
	if name == "" {
		name = defaultModule
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.Contains(strings.ToLower(entry.Name()), name) {
				return filepath.Join(dir, entry.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("no module '%s' could be found in %v", name, dirs)
}
