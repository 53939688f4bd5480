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

package verify

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/sigstore/validator/pkg/hashing"
	"github.com/sigstore/validator/pkg/sigerr"
	"github.com/sigstore/validator/pkg/signature"
	"github.com/sigstore/validator/pkg/tree"
	"github.com/sigstore/validator/pkg/trust"
)

// TreeVerifier validates every file below a set of roots.
type TreeVerifier interface {
	Verify(ctx context.Context) (tree.Result, error)
}

// CheckFile validates the node at path against its .sig artifact and
// returns the digested content together with the logical path.
//
// The artifact is read first, so a file without one fails with
// KindMissingSignature before its content is touched. When keepOpen is
// set, the returned Content keeps the regular file open at offset 0 so
// the caller can consume exactly the validated bytes; the caller must
// Close it. On error no descriptor is left open.
func (v *Verifier) CheckFile(path string, info fs.FileInfo, root trust.Root, keepOpen bool) (*hashing.Content, string, error) {
	sigPath := signature.Path(path)
	artifact, err := signature.Read(sigPath)
	if err != nil {
		return nil, "", err
	}

	content, err := hashing.LoadContent(path, info, keepOpen)
	if err != nil {
		return nil, "", err
	}

	relPath, err := root.Resolve(path)
	if err != nil {
		_ = content.Close()
		return nil, "", err
	}

	ok, err := v.Verify(relPath, content.Type, content.Data, artifact)
	if err != nil {
		_ = content.Close()
		return nil, relPath, sigerr.NewWithPath(sigerr.KindOf(err), sigPath, "Failed to load", err)
	}
	if !ok {
		_ = content.Close()
		return nil, relPath, sigerr.New(sigerr.KindInvalidSignature,
			fmt.Sprintf("Signature of '%s' (as '%s') is invalid", path, relPath), nil)
	}
	return content, relPath, nil
}
