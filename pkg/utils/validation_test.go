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
package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathValidator(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key.pub")
	if err := os.WriteFile(file, []byte("k"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.pub")
	if err := os.Symlink("key.pub", link); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing")

	tests := []struct {
		name    string
		v       *PathValidator
		wantErr string
	}{
		{"file", NewPathValidator("key", file, PathTypeFile), ""},
		{"symlink to file", NewPathValidator("key", link, PathTypeFile), ""},
		{"dir", NewPathValidator("dir", dir, PathTypeDir), ""},
		{"empty", NewPathValidator("key", "", PathTypeFile), "key is required"},
		{"empty optional", NewPathValidator("dir", "", PathTypeDir).Optional(), "dir is required"},
		{"missing", NewPathValidator("key", missing, PathTypeFile), "does not exist"},
		{"missing optional", NewPathValidator("dir", missing, PathTypeDir).Optional(), ""},
		{"dir for file", NewPathValidator("key", dir, PathTypeFile), "is not a file"},
		{"file for dir", NewPathValidator("dir", file, PathTypeDir).Optional(), "is not a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMultiple(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.pub")
	if err := os.WriteFile(file, []byte("k"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateMultiple("public key", []string{file, file}, PathTypeFile); err != nil {
		t.Errorf("ValidateMultiple() error = %v", err)
	}
	if err := ValidateMultiple("public key", nil, PathTypeFile); err != nil {
		t.Errorf("ValidateMultiple(nil) error = %v", err)
	}

	err := ValidateMultiple("public key", []string{file, ""}, PathTypeFile)
	if err == nil || !strings.Contains(err.Error(), "public key[1]") {
		t.Errorf("ValidateMultiple() error = %v, want the failing index", err)
	}
}

func TestValidateOptionalDirs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateOptionalDirs("key dir", []string{dir, filepath.Join(dir, "missing")}); err != nil {
		t.Errorf("ValidateOptionalDirs() error = %v", err)
	}
	if err := ValidateOptionalDirs("key dir", []string{file}); err == nil {
		t.Error("expected an error for a regular file")
	}
}
