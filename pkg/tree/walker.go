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

// Package tree walks file trees for the sign, validate and install
// operations.
//
// The walker never follows symlinks: a symlink is a leaf that is signed
// by its target string. Directories are traversed, never signed, and
// signature artifacts found in them are skipped. A failure on one node is
// recorded and the walk goes on with its siblings.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sigstore/validator/pkg/logging"
	"github.com/sigstore/validator/pkg/sigerr"
	"github.com/sigstore/validator/pkg/signature"
)

// Kind classifies a filesystem node.
type Kind int

const (
	KindUnsupported Kind = iota
	KindRegular
	KindSymlink
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindSymlink:
		return "symlink"
	case KindDirectory:
		return "directory"
	default:
		return "unsupported"
	}
}

// Classify maps an lstat mode to a Kind.
func Classify(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindRegular
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDirectory
	default:
		return KindUnsupported
	}
}

// Entry is a regular file or symlink handed to a VisitFunc.
type Entry struct {
	// Path is the absolute path of the node.
	Path string
	// Kind is KindRegular or KindSymlink.
	Kind Kind
	// Info is the lstat result for Path.
	Info fs.FileInfo
	// Dir holds the directory names between the walk root and the node.
	// It is empty for nodes directly inside the root and for a file root.
	Dir []string
}

// VisitFunc processes one leaf node. A returned error is recorded as a
// failure of that node.
type VisitFunc func(ctx context.Context, e Entry) error

// Failure is one node that could not be processed.
type Failure struct {
	Path string
	Err  error
}

// Result aggregates the outcome of one or more walks.
type Result struct {
	// Visited counts the leaf nodes handed to the VisitFunc.
	Visited int
	// Failures lists every node that failed, in walk order.
	Failures []Failure
	// Aborted is set when a cryptographic failure stopped the walk early.
	Aborted bool
}

// OK reports whether every node succeeded.
func (r Result) OK() bool {
	return len(r.Failures) == 0 && !r.Aborted
}

// Merge adds o to r.
func (r *Result) Merge(o Result) {
	r.Visited += o.Visited
	r.Failures = append(r.Failures, o.Failures...)
	r.Aborted = r.Aborted || o.Aborted
}

// Err summarizes a failed result as an error, or returns nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	if r.Aborted && len(r.Failures) > 0 {
		return fmt.Errorf("aborted: %w", r.Failures[len(r.Failures)-1].Err)
	}
	return fmt.Errorf("%d of %d files failed", len(r.Failures), r.Visited)
}

// Walker applies a VisitFunc to every leaf below a root.
type Walker struct {
	visit  VisitFunc
	logger logging.Logger
}

// NewWalker returns a Walker. A nil logger logs to stderr.
func NewWalker(visit VisitFunc, logger logging.Logger) *Walker {
	return &Walker{visit: visit, logger: logging.EnsureLogger(logger)}
}

// Walk processes root and, if it is a directory, everything below it.
func (w *Walker) Walk(ctx context.Context, root string) Result {
	var res Result
	w.walk(ctx, root, nil, true, &res)
	return res
}

func (w *Walker) fail(res *Result, path string, err error) {
	res.Failures = append(res.Failures, Failure{Path: path, Err: err})
	if sigerr.Is(err, sigerr.KindCrypto) {
		res.Aborted = true
	}
	w.logger.WithField("kind", sigerr.KindOf(err).String()).Error("%v", err)
}

func (w *Walker) walk(ctx context.Context, path string, dir []string, top bool, res *Result) {
	info, err := os.Lstat(path)
	if err != nil {
		w.fail(res, path, sigerr.IO(path, "Can't access", err))
		return
	}

	switch kind := Classify(info.Mode()); kind {
	case KindRegular, KindSymlink:
		res.Visited++
		if err := w.visit(ctx, Entry{Path: path, Kind: kind, Info: info, Dir: dir}); err != nil {
			w.fail(res, path, err)
		}

	case KindDirectory:
		entries, err := os.ReadDir(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.logger.Debug("Directory %s vanished, skipping", path)
				return
			}
			w.fail(res, path, sigerr.IO(path, "Failed to open dir", err))
			return
		}

		childDir := dir
		if !top {
			childDir = append(append([]string(nil), dir...), filepath.Base(path))
		}
		for _, entry := range entries {
			if res.Aborted {
				return
			}
			if signature.IsArtifact(entry.Name()) {
				continue
			}
			w.walk(ctx, filepath.Join(path, entry.Name()), childDir, false, res)
		}

	default:
		w.fail(res, path, sigerr.NewWithPath(sigerr.KindUnsupportedType, path, "Unsupported file type for", nil))
	}
}
