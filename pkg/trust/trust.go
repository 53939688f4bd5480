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

// Package trust computes the logical path of a file below a trust root.
//
// The logical path is what gets embedded in the signed blob, so a file
// signed as "bin/tool" cannot be moved to "sbin/tool" (or to a sibling
// named "bin-tool") and still validate.
package trust

import (
	"strings"

	"github.com/sigstore/validator/pkg/sigerr"
)

// Root is the directory logical paths are computed against, plus an
// optional logical prefix prepended to every computed path.
type Root struct {
	// RelativeTo is the trust root directory.
	RelativeTo string
	// Prefix, when non-empty, is joined in front of the computed path.
	Prefix string
}

// Resolve returns the logical path of path. Files that do not lie under
// RelativeTo are rejected with a KindOutsideTrustRoot error; no
// best-effort guess is ever returned.
//
// Only separator collapsing is applied: no "." or ".." processing, no
// symlink resolution. A path equal to RelativeTo resolves to the empty
// string (or to Prefix alone).
func (r Root) Resolve(path string) (string, error) {
	rest, ok := trimPathPrefix(path, r.RelativeTo)
	if !ok {
		return "", sigerr.NewWithPath(sigerr.KindOutsideTrustRoot, path, "File not inside relative dir", nil)
	}
	rel := strings.TrimLeft(rest, "/")

	if r.Prefix == "" {
		return rel, nil
	}
	return joinPath(r.Prefix, rel), nil
}

// HasPathPrefix reports whether prefix is a path-element-wise prefix of
// candidate. Consecutive separators collapse, and every element of prefix
// has to match an entire element of candidate, so "/a/foo" is a prefix of
// "/a//foo/bar" but not of "/a/foobar".
func HasPathPrefix(candidate, prefix string) bool {
	_, ok := trimPathPrefix(candidate, prefix)
	return ok
}

// trimPathPrefix matches prefix against candidate element by element and
// returns the unmatched remainder of candidate.
func trimPathPrefix(candidate, prefix string) (string, bool) {
	s, p := candidate, prefix
	for {
		s = strings.TrimLeft(s, "/")
		p = strings.TrimLeft(p, "/")

		if p == "" {
			return s, true
		}

		pElem, pRest := splitElement(p)
		sElem, sRest := splitElement(s)
		if pElem != sElem {
			return "", false
		}
		s, p = sRest, pRest
	}
}

// splitElement splits off the first path element of s, which must not
// start with a separator.
func splitElement(s string) (string, string) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// joinPath joins two path pieces with exactly one separator between them.
func joinPath(prefix, rel string) string {
	if rel == "" {
		return prefix
	}
	trimmed := strings.TrimRight(prefix, "/")
	if trimmed == "" && strings.HasPrefix(prefix, "/") {
		return "/" + rel
	}
	return trimmed + "/" + rel
}
