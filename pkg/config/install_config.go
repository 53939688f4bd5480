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

// Package config loads install configuration files.
//
// An install config is a key file with an [install] section:
//
//	[install]
//	destination=/usr/lib/app
//	sources=/run/staging/app;/run/staging/extra.conf
//	recursive=true
//	force=true
//	path_relative=/run/staging
//	path_prefix=/usr/lib
//	keys=/etc/validator/app.pub
//	key_dirs=/etc/validator/keys.d
//
// Lists are separated by ';'. recursive and force default to true.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	// InstallSection is the section holding install settings.
	InstallSection = "install"
	// ListSeparator separates entries of list values.
	ListSeparator = ";"
)

// InstallConfig is one parsed install config file.
type InstallConfig struct {
	// Path is the file the config was read from.
	Path string

	Destination  string
	Sources      []string
	Recursive    bool
	Force        bool
	PathRelative string
	PathPrefix   string
	Keys         []string
	KeyDirs      []string
}

// NewInstallConfig returns a config with the file defaults applied.
func NewInstallConfig() *InstallConfig {
	return &InstallConfig{Recursive: true, Force: true}
}

// HasKeys reports whether the config names its own key sources.
func (c *InstallConfig) HasKeys() bool {
	return len(c.Keys) > 0 || len(c.KeyDirs) > 0
}

// LoadInstallConfig reads the config file at path. A missing file is not
// an error and yields (nil, nil).
func LoadInstallConfig(path string) (*InstallConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("can't load config file '%s': %w", path, err)
	}

	cfg, err := ParseInstallConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadInstallConfigDir reads every config file directly inside dir, in
// name order. A missing directory yields no configs. Files that fail to
// load are reported in the joined error while the remaining configs are
// still returned.
func LoadInstallConfigDir(dir string) ([]*InstallConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("can't enumerate config dir %s: %w", dir, err)
	}

	var (
		configs []*InstallConfig
		errs    []error
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		cfg, err := LoadInstallConfig(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cfg != nil {
			configs = append(configs, cfg)
		}
	}
	return configs, errors.Join(errs...)
}

// ParseInstallConfig parses config file contents.
func ParseInstallConfig(data []byte) (*InstallConfig, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		// ';' separates list entries and must not start a comment
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("can't parse: %w", err)
	}

	section, err := file.GetSection(InstallSection)
	if err != nil {
		return nil, fmt.Errorf("missing [%s] section", InstallSection)
	}

	cfg := NewInstallConfig()

	if !section.HasKey("destination") {
		return nil, fmt.Errorf("can't get destination: key not found")
	}
	cfg.Destination = strings.TrimSpace(section.Key("destination").String())
	if cfg.Destination == "" {
		return nil, fmt.Errorf("can't get destination: empty value")
	}

	if !section.HasKey("sources") {
		return nil, fmt.Errorf("can't get sources: key not found")
	}
	cfg.Sources = splitList(section.Key("sources").String())

	if cfg.Recursive, err = boolWithDefault(section, "recursive", true); err != nil {
		return nil, err
	}
	if cfg.Force, err = boolWithDefault(section, "force", true); err != nil {
		return nil, err
	}

	cfg.PathRelative = section.Key("path_relative").String()
	cfg.PathPrefix = section.Key("path_prefix").String()
	cfg.Keys = splitList(section.Key("keys").String())
	cfg.KeyDirs = splitList(section.Key("key_dirs").String())

	return cfg, nil
}

func boolWithDefault(section *ini.Section, key string, def bool) (bool, error) {
	if !section.HasKey(key) {
		return def, nil
	}
	v, err := section.Key(key).Bool()
	if err != nil {
		return false, fmt.Errorf("can't parse %s option: %w", key, err)
	}
	return v, nil
}

// splitList splits a ';' separated value, dropping empty entries such as
// the one after a trailing separator.
func splitList(value string) []string {
	var out []string
	for _, s := range strings.Split(value, ListSeparator) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
