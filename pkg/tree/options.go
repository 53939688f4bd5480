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

package tree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sigstore/validator/pkg/tracing"
	"github.com/sigstore/validator/pkg/trust"
)

// ErrNotRecursive is returned when a directory root is given without
// Options.Recursive.
var ErrNotRecursive = errors.New("is a directory and not in recursive mode")

// Options are the per-invocation settings shared by all operations.
type Options struct {
	// Recursive must be set to accept directory roots.
	Recursive bool
	// Force re-signs files that already have an artifact, or overwrites
	// existing destination files on install.
	Force bool
	// RelativeTo overrides the trust root for every root.
	RelativeTo string
	// PathPrefix is prepended to every logical path.
	PathPrefix string
}

// Root is one canonicalised top-level path and its trust root.
type Root struct {
	// Path is absolute and lexically clean.
	Path string
	// IsDir reports whether Path resolves to a directory.
	IsDir bool
	// Trust resolves logical paths for everything below Path.
	Trust trust.Root
}

// ResolveRoots canonicalises paths and derives their trust roots. The
// trust root is opts.RelativeTo when set, else the directory itself for a
// directory root and its parent directory for any other root. A directory
// root without opts.Recursive fails the whole call before any root is
// processed.
func ResolveRoots(paths []string, opts Options) ([]Root, error) {
	relativeTo := ""
	if opts.RelativeTo != "" {
		abs, err := filepath.Abs(opts.RelativeTo)
		if err != nil {
			return nil, fmt.Errorf("resolving relative-to %q: %w", opts.RelativeTo, err)
		}
		relativeTo = abs
	}

	roots := make([]Root, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", p, err)
		}

		root := Root{Path: abs}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			if !opts.Recursive {
				return nil, fmt.Errorf("'%s' %w", abs, ErrNotRecursive)
			}
			root.IsDir = true
		}

		root.Trust = trust.Root{RelativeTo: relativeTo, Prefix: opts.PathPrefix}
		if relativeTo == "" {
			if root.IsDir {
				root.Trust.RelativeTo = abs
			} else {
				root.Trust.RelativeTo = filepath.Dir(abs)
			}
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// RootFunc processes one root.
type RootFunc func(ctx context.Context, root Root) Result

// ForEachRoot resolves paths and runs fn for each root inside a span
// named op. It stops early only when a root's walk was aborted.
func ForEachRoot(ctx context.Context, op string, paths []string, opts Options, fn RootFunc) (Result, error) {
	roots, err := ResolveRoots(paths, opts)
	if err != nil {
		return Result{}, err
	}

	var total Result
	for _, root := range roots {
		attrs := map[string]interface{}{
			"root":        root.Path,
			"relative_to": root.Trust.RelativeTo,
			"recursive":   opts.Recursive,
			"force":       opts.Force,
		}
		_ = tracing.Run(ctx, op, attrs, func(ctx context.Context, span tracing.Span) error {
			res := fn(ctx, root)
			span.SetAttribute("visited", res.Visited)
			span.SetAttribute("failures", len(res.Failures))
			total.Merge(res)
			return res.Err()
		})
		if total.Aborted {
			break
		}
	}
	return total, nil
}
