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

// Package key signs file trees with a single private key.
package key

import (
	"context"
	"fmt"

	"github.com/sigstore/validator/pkg/hashing"
	"github.com/sigstore/validator/pkg/keys"
	"github.com/sigstore/validator/pkg/logging"
	"github.com/sigstore/validator/pkg/signature"
	"github.com/sigstore/validator/pkg/signing"
	"github.com/sigstore/validator/pkg/tree"
	"github.com/sigstore/validator/pkg/trust"
)

var _ signing.TreeSigner = (*KeySigner)(nil)

//nolint:revive
type KeySignerOptions struct {
	KeySignerConfig
	tree.Options

	// Paths are the files and directories to sign.
	Paths []string
	// Logger defaults to logging.Default().
	Logger logging.Logger
}

// KeySigner writes a .sig artifact next to every file below its roots.
//
//nolint:revive
type KeySigner struct {
	opts   KeySignerOptions
	key    *keys.PrivateKey
	signer *signing.Signer
	logger logging.Logger
}

// NewKeySigner loads the private key. Key problems are reported here,
// before any file is touched.
func NewKeySigner(opts KeySignerOptions) (*KeySigner, error) {
	if len(opts.Paths) == 0 {
		return nil, fmt.Errorf("no paths to sign")
	}
	if err := opts.KeySignerConfig.Validate(); err != nil {
		return nil, err
	}

	pk, signer, err := opts.KeySignerConfig.Load()
	if err != nil {
		return nil, err
	}
	return &KeySigner{
		opts:   opts,
		key:    pk,
		signer: signer,
		logger: logging.EnsureLogger(opts.Logger),
	}, nil
}

// NewKeySignerFromSigner wraps an already loaded signer, for callers that
// manage key material themselves.
func NewKeySignerFromSigner(opts KeySignerOptions, signer *signing.Signer) *KeySigner {
	return &KeySigner{
		opts:   opts,
		signer: signer,
		logger: logging.EnsureLogger(opts.Logger),
	}
}

// Sign signs every root. A directory root without Recursive fails before
// any file is signed.
func (s *KeySigner) Sign(ctx context.Context) (tree.Result, error) {
	s.logger.Debug("Signing %d roots with %s key %s", len(s.opts.Paths),
		signing.KeyAlgorithm(s.signer.Public()), s.opts.PrivateKey)

	res, err := tree.ForEachRoot(ctx, "sign", s.opts.Paths, s.opts.Options, func(ctx context.Context, root tree.Root) tree.Result {
		return tree.NewWalker(s.visitor(root.Trust), s.logger).Walk(ctx, root.Path)
	})
	if err != nil {
		return res, err
	}
	return res, res.Err()
}

// SignFile signs a single node and writes its artifact. Nodes that
// already have an artifact are left alone unless Force is set.
func (s *KeySigner) SignFile(e tree.Entry, root trust.Root) error {
	sigPath := signature.Path(e.Path)
	if !s.opts.Force && signature.Exists(sigPath) {
		s.logger.Info("File '%s' already signed, ignoring", e.Path)
		return nil
	}

	content, err := hashing.LoadContent(e.Path, e.Info, false)
	if err != nil {
		return err
	}

	relPath, err := root.Resolve(e.Path)
	if err != nil {
		return err
	}

	artifact, err := s.signer.Sign(content.Type, relPath, content.Data)
	if err != nil {
		return err
	}

	if err := signature.Write(sigPath, artifact); err != nil {
		return err
	}
	s.logger.Info("Wrote signature '%s' (for path %s)", sigPath, relPath)
	return nil
}

func (s *KeySigner) visitor(root trust.Root) tree.VisitFunc {
	return func(_ context.Context, e tree.Entry) error {
		s.logger.Debug("Signing %s", e.Path)
		return s.SignFile(e, root)
	}
}

// Close releases the private key, including any HSM session.
func (s *KeySigner) Close() error {
	return s.key.Close()
}
