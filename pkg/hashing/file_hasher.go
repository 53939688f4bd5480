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
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
)

const (
	// AlgorithmSHA512 names the only content digest used in blobs.
	AlgorithmSHA512 = "sha512"
	// DefaultChunkSize is the read buffer used when streaming files.
	DefaultChunkSize = 16 * 1024
)

// FileHasher streams a reader into a hash in fixed-size chunks.
type FileHasher struct {
	name      string
	newHash   func() hash.Hash
	chunkSize int
}

// NewFileHasher returns a hasher using newHash. A chunkSize of 0 selects
// DefaultChunkSize.
func NewFileHasher(name string, newHash func() hash.Hash, chunkSize int) (*FileHasher, error) {
	if chunkSize < 0 {
		return nil, fmt.Errorf("chunk size must be non-negative, got %d", chunkSize)
	}
	if newHash == nil {
		return nil, errors.New("hash constructor must not be nil")
	}
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	return &FileHasher{name: name, newHash: newHash, chunkSize: chunkSize}, nil
}

// NewSHA512FileHasher returns the hasher used for regular file content.
func NewSHA512FileHasher() *FileHasher {
	return &FileHasher{name: AlgorithmSHA512, newHash: sha512.New, chunkSize: DefaultChunkSize}
}

// DigestName returns the algorithm name.
func (h *FileHasher) DigestName() string {
	return h.name
}

// Compute reads r until EOF and returns its digest. Short reads are
// normal; the loop only ends on EOF or a read error. Interrupted system
// calls are retried by the os package and never surface here.
func (h *FileHasher) Compute(r io.Reader) (Digest, error) {
	state := h.newHash()
	buf := make([]byte, h.chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = state.Write(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Digest{}, err
		}
	}
	return NewDigest(h.name, state.Sum(nil)), nil
}
