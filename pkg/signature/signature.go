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

// Package signature encodes and stores detached signature artifacts.
//
// An artifact is the fixed Magic prefix followed by the raw signature
// bytes, stored next to the signed file as "<name>.sig". There is no
// version field; a format change requires a new magic.
package signature

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/sigstore/validator/pkg/sigerr"
)

// Suffix is appended to a file name to form its artifact name.
const Suffix = ".sig"

// Magic identifies validator signature artifacts.
var Magic = []byte("\x89VALIDATOR-SIG\x00\x01")

// Encode prefixes a raw signature with Magic.
func Encode(raw []byte) []byte {
	out := make([]byte, 0, len(Magic)+len(raw))
	out = append(out, Magic...)
	return append(out, raw...)
}

// Decode strips Magic from an artifact and returns the raw signature.
// Artifacts shorter than Magic or with a different prefix are rejected
// with a KindBadFormat error.
func Decode(artifact []byte) ([]byte, error) {
	if len(artifact) < len(Magic) || !bytes.Equal(artifact[:len(Magic)], Magic) {
		return nil, sigerr.New(sigerr.KindBadFormat, "Invalid signature", nil)
	}
	return artifact[len(Magic):], nil
}

// Path returns the artifact path for a signed file.
func Path(file string) string {
	return file + Suffix
}

// IsArtifact reports whether a directory entry name is an artifact and
// must not be treated as a signable file.
func IsArtifact(name string) bool {
	return strings.HasSuffix(name, Suffix)
}

// Exists reports whether anything is present at path, without following a
// final symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Read loads the artifact stored at path. A missing file yields a
// KindMissingSignature error, any other failure a KindIO error.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, sigerr.NewWithPath(sigerr.KindMissingSignature, path, "No signature", nil)
		}
		return nil, sigerr.IO(path, "Failed to load", err)
	}
	return data, nil
}

// Write atomically replaces the file at path with artifact. Signatures are
// public, so the file is world readable.
func Write(path string, artifact []byte) error {
	//nolint:gosec // G306: signature files are public artifacts
	if err := renameio.WriteFile(path, artifact, 0644); err != nil {
		return sigerr.IO(path, "Failed to write file", err)
	}
	return nil
}
