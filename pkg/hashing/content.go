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

package hashing

import (
	"io"
	"io/fs"
	"os"

	"github.com/sigstore/validator/pkg/blob"
	"github.com/sigstore/validator/pkg/sigerr"
)

// Content is what gets embedded in the blob for one file.
type Content struct {
	// Type is the blob type tag of the file.
	Type blob.FileType
	// Data is the SHA-512 digest for regular files and the raw link
	// target for symlinks.
	Data []byte
	// File is the digested regular file, rewound to offset 0. It is only
	// set when LoadContent was asked to keep it open.
	File *os.File
}

// Close releases File, if any. It is safe to call on a nil Content.
func (c *Content) Close() error {
	if c == nil || c.File == nil {
		return nil
	}
	err := c.File.Close()
	c.File = nil
	return err
}

// LoadContent produces the content bytes for path. info is the lstat
// result for path; when nil, path is lstat'ed here.
//
// When keepOpen is set and path is a regular file, the returned Content
// holds the open descriptor, positioned at offset 0, so callers can reuse
// exactly the bytes that were digested without reopening the path. The
// caller must Close the Content.
func LoadContent(path string, info fs.FileInfo, keepOpen bool) (*Content, error) {
	if info == nil {
		var err error
		info, err = os.Lstat(path)
		if err != nil {
			return nil, sigerr.IO(path, "Can't stat", err)
		}
	}

	typ, ok := blob.FileTypeFromMode(info.Mode())
	if !ok {
		return nil, sigerr.NewWithPath(sigerr.KindUnsupportedType, path, "Unsupported file type", nil)
	}

	if typ == blob.Symlink {
		target, err := os.Readlink(path)
		if err != nil {
			return nil, sigerr.IO(path, "Can't read link", err)
		}
		return &Content{Type: typ, Data: []byte(target)}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, sigerr.IO(path, "Can't open", err)
	}

	digest, err := NewSHA512FileHasher().Compute(f)
	if err != nil {
		_ = f.Close()
		return nil, sigerr.IO(path, "Can't read", err)
	}

	content := &Content{Type: typ, Data: digest.Value()}
	if !keepOpen {
		_ = f.Close()
		return content, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, sigerr.IO(path, "Can't rewind", err)
	}
	content.File = f
	return content, nil
}
