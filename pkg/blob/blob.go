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

// Package blob builds the canonical message that is signed for a file.
//
// The message is
//
//	type_tag (1 byte) || relative path || 0x00 || content
//
// where content is the SHA-512 digest of a regular file or the raw target
// of a symbolic link. Signer and verifier must build byte-identical blobs
// for the same (type, path, content) triple.
package blob

import (
	"fmt"
	"io/fs"

	"github.com/sigstore/validator/pkg/sigerr"
)

// FileType is the type tag embedded as the first byte of a blob.
type FileType uint8

const (
	// Regular is the tag for regular files.
	Regular FileType = 0
	// Symlink is the tag for symbolic links.
	Symlink FileType = 1
)

// String returns a readable name for the type.
func (t FileType) String() string {
	switch t {
	case Regular:
		return "regular"
	case Symlink:
		return "symlink"
	default:
		return fmt.Sprintf("unsupported(%d)", uint8(t))
	}
}

// Valid reports whether t is a signable type.
func (t FileType) Valid() bool {
	return t == Regular || t == Symlink
}

// FileTypeFromMode maps a file mode to a FileType. The second return
// value is false for every mode other than regular file or symlink.
func FileTypeFromMode(mode fs.FileMode) (FileType, bool) {
	switch {
	case mode.IsRegular():
		return Regular, true
	case mode&fs.ModeSymlink != 0:
		return Symlink, true
	default:
		return 0, false
	}
}

// Build returns the canonical blob for the triple. The result has length
// 1 + len(relPath) + 1 + len(content).
func Build(t FileType, relPath string, content []byte) ([]byte, error) {
	if !t.Valid() {
		return nil, sigerr.New(sigerr.KindUnsupportedType, "Unsupported file type", nil)
	}

	out := make([]byte, 0, 1+len(relPath)+1+len(content))
	out = append(out, byte(t))
	out = append(out, relPath...)
	out = append(out, 0)
	out = append(out, content...)
	return out, nil
}
