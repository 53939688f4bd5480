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
	"os"
	"path/filepath"
	"testing"

	"github.com/sigstore/validator/pkg/sigerr"
)

func TestKeySignerConfigValidate(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(keyFile, []byte("dummy"), 0600); err != nil {
		t.Fatalf("Failed to create key file: %v", err)
	}

	tests := []struct {
		name    string
		cfg     KeySignerConfig
		wantErr bool
	}{
		{"existing file", KeySignerConfig{PrivateKey: keyFile}, false},
		{"pkcs11 uri", KeySignerConfig{PrivateKey: "pkcs11:token=t;object=k"}, false},
		{"empty", KeySignerConfig{}, true},
		{"missing", KeySignerConfig{PrivateKey: filepath.Join(dir, "nope.pem")}, true},
		{"directory", KeySignerConfig{PrivateKey: dir}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeySignerConfigLoad(t *testing.T) {
	dir := t.TempDir()

	pk, signer, err := KeySignerConfig{PrivateKey: writeEd25519Key(t, dir)}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer pk.Close()
	if signer == nil {
		t.Fatal("Load() returned a nil signer")
	}

	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a key"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := (KeySignerConfig{PrivateKey: garbage}).Load(); !sigerr.Is(err, sigerr.KindKeyLoad) {
		t.Errorf("Load(garbage) error = %v, want KeyLoadError", err)
	}
}
