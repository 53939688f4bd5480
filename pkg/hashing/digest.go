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

// Package hashing produces the content bytes embedded in a signed blob:
// the SHA-512 digest of a regular file, or the target of a symlink.
package hashing

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Digest is an immutable digest value together with its algorithm name.
type Digest struct {
	algorithm string
	value     []byte
}

// NewDigest returns a Digest holding a copy of value.
func NewDigest(algorithm string, value []byte) Digest {
	return Digest{algorithm: algorithm, value: bytes.Clone(value)}
}

// Algorithm returns the algorithm name, e.g. "sha512".
func (d Digest) Algorithm() string {
	return d.algorithm
}

// Value returns a copy of the raw digest bytes.
func (d Digest) Value() []byte {
	return bytes.Clone(d.value)
}

// Size returns the digest length in bytes.
func (d Digest) Size() int {
	return len(d.value)
}

// Hex returns the lowercase hex encoding of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.value)
}

// String formats the digest as "algorithm:hex".
func (d Digest) String() string {
	return fmt.Sprintf("%s:%s", d.algorithm, d.Hex())
}

// Equal reports whether both algorithm and value match.
func (d Digest) Equal(other Digest) bool {
	return d.algorithm == other.algorithm && bytes.Equal(d.value, other.value)
}
