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

package signature

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigstore/validator/pkg/sigerr"
)

func TestEncodeDecode(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	artifact := Encode(raw)

	if !bytes.HasPrefix(artifact, Magic) {
		t.Fatalf("Encode() does not start with magic: %q", artifact)
	}
	if len(artifact) != len(Magic)+len(raw) {
		t.Errorf("len(Encode()) = %d, want %d", len(artifact), len(Magic)+len(raw))
	}

	got, err := Decode(artifact)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Decode() = %v, want %v", got, raw)
	}
}

func TestDecodeEmptySignature(t *testing.T) {
	got, err := Decode(Magic)
	if err != nil {
		t.Fatalf("Decode(Magic) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decode(Magic) = %v, want empty", got)
	}
}

func TestDecodeRejectsBadFormat(t *testing.T) {
	tests := []struct {
		name     string
		artifact []byte
	}{
		{"empty", nil},
		{"shorter than magic", Magic[:len(Magic)-1]},
		{"wrong prefix", append([]byte("-----BEGIN PGP-"), 0, 1, 2)},
		{"one flipped byte", func() []byte {
			a := Encode([]byte("sig"))
			a[3] ^= 0xff
			return a
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.artifact)
			if !sigerr.Is(err, sigerr.KindBadFormat) {
				t.Errorf("Decode() error = %v, want BadFormat", err)
			}
		})
	}
}

func TestPathAndIsArtifact(t *testing.T) {
	if got := Path("/a/b.txt"); got != "/a/b.txt.sig" {
		t.Errorf("Path() = %q", got)
	}
	if !IsArtifact("b.txt.sig") {
		t.Error("IsArtifact(b.txt.sig) = false")
	}
	if IsArtifact("b.signature") {
		t.Error("IsArtifact(b.signature) = true")
	}
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.sig")

	_, err := Read(path)
	if !sigerr.Is(err, sigerr.KindMissingSignature) {
		t.Fatalf("Read() on missing file error = %v, want MissingSignature", err)
	}
	if Exists(path) {
		t.Error("Exists() = true for missing file")
	}

	artifact := Encode([]byte("raw"))
	if err := Write(path, artifact); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !Exists(path) {
		t.Error("Exists() = false after Write()")
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, artifact) {
		t.Errorf("Read() = %q, want %q", got, artifact)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("artifact mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestReadDirectoryIsIOError(t *testing.T) {
	dir := t.TempDir()
	_, err := Read(dir)
	if !sigerr.Is(err, sigerr.KindIO) {
		t.Errorf("Read(dir) error = %v, want IOError", err)
	}
}
