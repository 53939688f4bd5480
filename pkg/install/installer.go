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

// Package install copies validated file trees into a destination
// directory.
//
// Nothing reaches the destination unless its signature validated, and no
// destination directory is created before a file inside it validated, so
// an attacker cannot use install to create arbitrary directory names.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/sigstore/validator/pkg/blob"
	"github.com/sigstore/validator/pkg/hashing"
	"github.com/sigstore/validator/pkg/logging"
	"github.com/sigstore/validator/pkg/sigerr"
	"github.com/sigstore/validator/pkg/tree"
	"github.com/sigstore/validator/pkg/trust"
	"github.com/sigstore/validator/pkg/utils"
	"github.com/sigstore/validator/pkg/verify"
)

const (
	// FileMode is the mode of installed regular files.
	FileMode fs.FileMode = 0644
	// DirMode is the mode of created destination directories.
	DirMode fs.FileMode = 0755
)

// InstallerOptions configures one install run.
//
//nolint:revive
type InstallerOptions struct {
	tree.Options

	// Sources are the files and directories to install.
	Sources []string
	// Destination is the directory files are installed into. Directory
	// sources are installed below it without their own name.
	Destination string
	// Logger defaults to logging.Default().
	Logger logging.Logger
}

// Installer validates source trees and copies them to a destination.
type Installer struct {
	opts     InstallerOptions
	verifier *verify.Verifier
	logger   logging.Logger
}

// NewInstaller returns an Installer that trusts the keys of v.
func NewInstaller(opts InstallerOptions, v *verify.Verifier) (*Installer, error) {
	if len(opts.Sources) == 0 {
		return nil, fmt.Errorf("no sources to install")
	}
	if opts.Destination == "" {
		return nil, fmt.Errorf("no destination given")
	}
	if err := utils.NewPathValidator("destination", opts.Destination, utils.PathTypeDir).Optional().Validate(); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("no verifier given")
	}
	return &Installer{opts: opts, verifier: v, logger: logging.EnsureLogger(opts.Logger)}, nil
}

// Install installs every source. A directory source without Recursive
// fails before anything is installed.
func (in *Installer) Install(ctx context.Context) (tree.Result, error) {
	in.logger.Debug("Installing %d sources to %s", len(in.opts.Sources), in.opts.Destination)

	res, err := tree.ForEachRoot(ctx, "install", in.opts.Sources, in.opts.Options, func(ctx context.Context, root tree.Root) tree.Result {
		return tree.NewWalker(in.visitor(root.Trust), in.logger).Walk(ctx, root.Path)
	})
	if err != nil {
		return res, err
	}
	return res, res.Err()
}

func (in *Installer) visitor(root trust.Root) tree.VisitFunc {
	return func(_ context.Context, e tree.Entry) error {
		in.logger.Debug("Installing %s", e.Path)
		return in.InstallFile(e, root)
	}
}

// Destination returns where e is installed: the destination directory,
// then the directories between the walk root and e, then e's name.
func (in *Installer) Destination(e tree.Entry) string {
	parts := make([]string, 0, len(e.Dir)+2)
	parts = append(parts, in.opts.Destination)
	parts = append(parts, e.Dir...)
	parts = append(parts, filepath.Base(e.Path))
	return filepath.Join(parts...)
}

// InstallFile validates one node and installs it. Regular files are
// copied from the descriptor that was digested during validation, so a
// file swapped after validation is never installed.
func (in *Installer) InstallFile(e tree.Entry, root trust.Root) error {
	content, _, err := in.verifier.CheckFile(e.Path, e.Info, root, true)
	if err != nil {
		return err
	}
	defer content.Close()

	dest := in.Destination(e)
	if !in.opts.Force && exists(dest) {
		in.logger.Info("File '%s' already exist, ignoring", dest)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), DirMode); err != nil {
		return sigerr.IO(filepath.Dir(dest), "Unable to create dir", err)
	}

	switch content.Type {
	case blob.Symlink:
		if err := replaceSymlink(dest, string(content.Data)); err != nil {
			return err
		}
	default:
		if err := replaceFile(dest, content); err != nil {
			return err
		}
	}

	in.logger.Info("Installed file '%s'", dest)
	return nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// replaceSymlink atomically points dest at target.
func replaceSymlink(dest, target string) error {
	if err := renameio.Symlink(target, dest); err != nil {
		return sigerr.IO(dest, "Can't create symlink", err)
	}
	return nil
}

// replaceFile copies the open content into a temporary file next to dest
// and renames it over dest.
func replaceFile(dest string, content *hashing.Content) error {
	if content.File == nil {
		return sigerr.NewWithPath(sigerr.KindIO, dest, "No open content for", errors.New("file was not kept open"))
	}

	pending, err := renameio.NewPendingFile(dest, renameio.WithPermissions(FileMode))
	if err != nil {
		return sigerr.IO(dest, "Can't open tempfile for", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := io.Copy(pending, content.File); err != nil {
		return sigerr.IO(dest, "Can't write to", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return sigerr.IO(dest, "Can't create", err)
	}
	return nil
}
