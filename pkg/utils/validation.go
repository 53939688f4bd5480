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
// Package utils checks paths named on the command line or in configs
// before any key or tree is opened.
package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// PathType is the kind of object an option has to name.
type PathType int

const (
	// PathTypeFile expects anything but a directory.
	PathTypeFile PathType = iota
	// PathTypeDir expects a directory.
	PathTypeDir
)

func (t PathType) String() string {
	if t == PathTypeDir {
		return "directory"
	}
	return "file"
}

// PathValidator checks one option path. Symlinks are followed since the
// key loaders read through them.
type PathValidator struct {
	fieldName string
	path      string
	pathType  PathType
	optional  bool
}

// NewPathValidator returns a validator for a path that must exist.
func NewPathValidator(fieldName, path string, pathType PathType) *PathValidator {
	return &PathValidator{fieldName: fieldName, path: path, pathType: pathType}
}

// Optional lets the path be missing. It still has to be non-empty.
func (v *PathValidator) Optional() *PathValidator {
	v.optional = true
	return v
}

// Validate returns nil when the path is usable.
func (v *PathValidator) Validate() error {
	if v.path == "" {
		return fmt.Errorf("%s is required", v.fieldName)
	}

	info, err := os.Stat(v.path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && v.optional:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s '%s' does not exist", v.fieldName, v.path)
	case err != nil:
		return fmt.Errorf("checking %s '%s': %w", v.fieldName, v.path, err)
	}

	if info.IsDir() != (v.pathType == PathTypeDir) {
		return fmt.Errorf("%s '%s' is not a %s", v.fieldName, v.path, v.pathType)
	}
	return nil
}

// ValidateFileExists checks that path exists and is not a directory.
func ValidateFileExists(fieldName, path string) error {
	return NewPathValidator(fieldName, path, PathTypeFile).Validate()
}

// ValidateMultiple checks every path, naming failing entries by index.
func ValidateMultiple(fieldName string, paths []string, pathType PathType) error {
	for i, path := range paths {
		if err := NewPathValidator(fmt.Sprintf("%s[%d]", fieldName, i), path, pathType).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOptionalDirs checks that each path is either missing or a
// directory. Key and config directories may legitimately be absent.
func ValidateOptionalDirs(fieldName string, paths []string) error {
	for i, path := range paths {
		if err := NewPathValidator(fmt.Sprintf("%s[%d]", fieldName, i), path, PathTypeDir).Optional().Validate(); err != nil {
			return err
		}
	}
	return nil
}
