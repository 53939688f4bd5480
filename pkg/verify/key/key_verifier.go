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

// Package key validates file trees against a set of trusted public keys.
package key

import (
	"context"
	"fmt"

	"github.com/sigstore/validator/pkg/logging"
	"github.com/sigstore/validator/pkg/tree"
	"github.com/sigstore/validator/pkg/trust"
	"github.com/sigstore/validator/pkg/verify"
)

// Ensure KeyVerifier implements verify.TreeVerifier at compile time.
var _ verify.TreeVerifier = (*KeyVerifier)(nil)

// KeyVerifierOptions contains options for validating file trees.
type KeyVerifierOptions struct {
	KeyVerifierConfig
	tree.Options

	// Paths are the files and directories to validate.
	Paths []string
	// Logger defaults to logging.Default().
	Logger logging.Logger
}

// KeyVerifier checks the .sig artifact of every file below its roots.
type KeyVerifier struct {
	opts     KeyVerifierOptions
	verifier *verify.Verifier
	logger   logging.Logger
}

// NewKeyVerifier loads the trusted keys. An empty key set is allowed but
// logged, since every file will then fail.
func NewKeyVerifier(opts KeyVerifierOptions) (*KeyVerifier, error) {
	if len(opts.Paths) == 0 {
		return nil, fmt.Errorf("no paths to validate")
	}
	if err := opts.KeyVerifierConfig.Validate(); err != nil {
		return nil, err
	}

	set, v, err := opts.KeyVerifierConfig.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.EnsureLogger(opts.Logger)
	if set.Len() == 0 {
		logger.Warn("No public keys loaded, nothing will validate")
	}
	return &KeyVerifier{opts: opts, verifier: v, logger: logger}, nil
}

// NewKeyVerifierFromVerifier wraps an already prepared verifier.
func NewKeyVerifierFromVerifier(opts KeyVerifierOptions, v *verify.Verifier) *KeyVerifier {
	return &KeyVerifier{opts: opts, verifier: v, logger: logging.EnsureLogger(opts.Logger)}
}

// Verify validates every root. A directory root without Recursive fails
// before any file is read.
func (kv *KeyVerifier) Verify(ctx context.Context) (tree.Result, error) {
	kv.logger.Debug("Validating %d roots against %d keys", len(kv.opts.Paths), kv.verifier.Len())

	res, err := tree.ForEachRoot(ctx, "validate", kv.opts.Paths, kv.opts.Options, func(ctx context.Context, root tree.Root) tree.Result {
		return tree.NewWalker(kv.visitor(root.Trust), kv.logger).Walk(ctx, root.Path)
	})
	if err != nil {
		return res, err
	}
	return res, res.Err()
}

func (kv *KeyVerifier) visitor(root trust.Root) tree.VisitFunc {
	return func(_ context.Context, e tree.Entry) error {
		kv.logger.Debug("Validating %s", e.Path)
		content, relPath, err := kv.verifier.CheckFile(e.Path, e.Info, root, false)
		if err != nil {
			return err
		}
		_ = content.Close()
		kv.logger.Info("%s is valid (as %s)", e.Path, relPath)
		return nil
	}
}
