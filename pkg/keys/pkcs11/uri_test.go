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

package pkcs11

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantErr    bool
		wantToken  string
		wantObject string
		wantID     string
	}{
		{
			name:       "token and object",
			uri:        "pkcs11:token=mytoken;object=mykey",
			wantToken:  "mytoken",
			wantObject: "mykey",
		},
		{
			name:      "percent encoded",
			uri:       "pkcs11:token=Software%20PKCS%2311%20softtoken;id=%01%02",
			wantToken: "Software PKCS#11 softtoken",
			wantID:    "\x01\x02",
		},
		{
			name:       "with query",
			uri:        "pkcs11:object=release;type=private?module-name=softhsm2&pin-value=1234",
			wantObject: "release",
		},
		{name: "missing prefix", uri: "token=mytoken", wantErr: true},
		{name: "empty", uri: "pkcs11:", wantErr: true},
		{name: "malformed attribute", uri: "pkcs11:token", wantErr: true},
		{name: "bad slot", uri: "pkcs11:token=t;slot-id=abc", wantErr: true},
		{name: "public type", uri: "pkcs11:object=k;type=public", wantErr: true},
		{name: "relative module path", uri: "pkcs11:token=t?module-path=lib.so", wantErr: true},
		{name: "two pins", uri: "pkcs11:token=t?pin-value=1&pin-source=/pin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := u.TokenLabel(); got != tt.wantToken {
				t.Errorf("TokenLabel() = %q, want %q", got, tt.wantToken)
			}
			if got := u.KeyLabel(); got != tt.wantObject {
				t.Errorf("KeyLabel() = %q, want %q", got, tt.wantObject)
			}
			if tt.wantID != "" && string(u.KeyID()) != tt.wantID {
				t.Errorf("KeyID() = %x, want %x", u.KeyID(), tt.wantID)
			}
		})
	}
}

func TestURI_SlotID(t *testing.T) {
	u, err := ParseURI("pkcs11:slot-id=3;object=k")
	if err != nil {
		t.Fatalf("ParseURI() error = %v", err)
	}
	if got := u.SlotID(); got == nil || *got != 3 {
		t.Errorf("SlotID() = %v, want 3", got)
	}

	u, err = ParseURI("pkcs11:token=t")
	if err != nil {
		t.Fatalf("ParseURI() error = %v", err)
	}
	if u.SlotID() != nil {
		t.Error("SlotID() should be nil when absent")
	}
}

func TestURI_PIN(t *testing.T) {
	pinFile := filepath.Join(t.TempDir(), "pin")
	if err := os.WriteFile(pinFile, []byte("4321\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("PKCS11_PIN", "env-pin")

	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "pin-value", uri: "pkcs11:token=t?pin-value=1234", want: "1234"},
		{name: "pin-source file", uri: "pkcs11:token=t?pin-source=file:" + pinFile, want: "4321"},
		{name: "pin-source path", uri: "pkcs11:token=t?pin-source=" + pinFile, want: "4321"},
		{name: "environment", uri: "pkcs11:token=t", want: "env-pin"},
		{name: "unsupported scheme", uri: "pkcs11:token=t?pin-source=https://example.com/pin", wantErr: true},
		{name: "missing file", uri: "pkcs11:token=t?pin-source=/nonexistent/pin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURI(tt.uri)
			if err != nil {
				t.Fatalf("ParseURI() error = %v", err)
			}
			got, err := u.PIN()
			if (err != nil) != tt.wantErr {
				t.Fatalf("PIN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PIN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindModule(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "libsofthsm2.so")
	other := filepath.Join(dir, "libvendor-pkcs11.so")
	for _, f := range []string{lib, other} {
		if err := os.WriteFile(f, nil, 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		uri     string
		dirs    []string
		want    string
		wantErr bool
	}{
		{name: "explicit file", uri: "pkcs11:token=t?module-path=" + other, want: other},
		{name: "module-path dir default name", uri: "pkcs11:token=t?module-path=" + dir, want: lib},
		{name: "module-name search", uri: "pkcs11:token=t?module-name=VENDOR", dirs: []string{dir}, want: other},
		{name: "default name search", uri: "pkcs11:token=t", dirs: []string{"/nonexistent", dir}, want: lib},
		{name: "not found", uri: "pkcs11:token=t?module-name=missing", dirs: []string{dir}, wantErr: true},
		{name: "missing module-path", uri: "pkcs11:token=t?module-path=/nonexistent/lib.so", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURI(tt.uri)
			if err != nil {
				t.Fatalf("ParseURI() error = %v", err)
			}
			got, err := FindModule(u, tt.dirs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindModule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FindModule() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadKeyInvalidURI(t *testing.T) {
	if _, err := LoadKey("not-a-uri"); err == nil {
		t.Error("LoadKey() expected error for malformed URI")
	}
	if _, err := LoadKey("pkcs11:token=t?module-path=/nonexistent/lib.so"); err == nil {
		t.Error("LoadKey() expected error for missing module")
	}
}
