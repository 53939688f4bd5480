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

package pkcs11

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Scheme is the prefix of every PKCS#11 URI.
const Scheme = "pkcs11:"

// URI is a parsed RFC 7512 PKCS#11 URI. Only the attributes needed to
// locate a signing key are interpreted.
type URI struct {
	path  map[string]string
	query map[string]string
}

// ParseURI parses s and checks that it names a token or a key.
func ParseURI(s string) (*URI, error) {
	if !strings.HasPrefix(s, Scheme) {
		return nil, fmt.Errorf("malformed pkcs11 URI: missing '%s' prefix: %s", Scheme, s)
	}

	u := &URI{path: make(map[string]string), query: make(map[string]string)}
	pathPart, queryPart, hasQuery := strings.Cut(s[len(Scheme):], "?")

	if err := parseAttributes(pathPart, ";", u.path); err != nil {
		return nil, fmt.Errorf("malformed pkcs11 URI: path: %w", err)
	}
	if hasQuery {
		if err := parseAttributes(queryPart, "&", u.query); err != nil {
			return nil, fmt.Errorf("malformed pkcs11 URI: query: %w", err)
		}
	}

	if err := u.validate(); err != nil {
		return nil, err
	}
	if u.TokenLabel() == "" && u.path["id"] == "" && u.path["object"] == "" {
		return nil, fmt.Errorf("PKCS#11 URI must specify at least one of: token, id, or object (key label)")
	}
	return u, nil
}

func parseAttributes(s, sep string, into map[string]string) error {
	if s == "" {
		return nil
	}
	for _, part := range strings.Split(s, sep) {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("malformed attribute %q", part)
		}
		decoded, err := url.PathUnescape(v)
		if err != nil {
			return fmt.Errorf("failed to decode attribute %s: %w", k, err)
		}
		into[k] = decoded
	}
	return nil
}

func (u *URI) validate() error {
	if slotID, ok := u.path["slot-id"]; ok {
		if _, err := strconv.ParseUint(slotID, 10, 32); err != nil {
			return fmt.Errorf("slot-id must be a number: %s", slotID)
		}
	}
	if typ, ok := u.path["type"]; ok && typ != "private" {
		return fmt.Errorf("type '%s' does not name a private key", typ)
	}
	_, hasSource := u.query["pin-source"]
	_, hasValue := u.query["pin-value"]
	if hasSource && hasValue {
		return fmt.Errorf("URI must not contain both pin-source and pin-value")
	}
	if modulePath, ok := u.query["module-path"]; ok && !filepath.IsAbs(modulePath) {
		return fmt.Errorf("path %s of module-path attribute must be absolute", modulePath)
	}
	return nil
}

// TokenLabel returns the token attribute.
func (u *URI) TokenLabel() string {
	return u.path["token"]
}

// KeyID returns the raw id attribute, or nil.
func (u *URI) KeyID() []byte {
	if id, ok := u.path["id"]; ok {
		return []byte(id)
	}
	return nil
}

// KeyLabel returns the object attribute.
func (u *URI) KeyLabel() string {
	return u.path["object"]
}

// SlotID returns the slot-id attribute, or nil when absent.
func (u *URI) SlotID() *int {
	s, ok := u.path["slot-id"]
	if !ok {
		return nil
	}
	// Range checked in validate.
	n, _ := strconv.Atoi(s)
	return &n
}

// PIN returns the user PIN from pin-value or pin-source. The PKCS11_PIN
// environment variable is used when the URI carries neither.
func (u *URI) PIN() (string, error) {
	if v, ok := u.query["pin-value"]; ok {
		return v, nil
	}
	if src, ok := u.query["pin-source"]; ok {
		parsed, err := url.Parse(src)
		if err != nil {
			return "", fmt.Errorf("failed to parse pin-source URI: %w", err)
		}
		if parsed.Scheme != "" && parsed.Scheme != "file" {
			return "", fmt.Errorf("PIN URI scheme %s is not supported", parsed.Scheme)
		}
		if !filepath.IsAbs(parsed.Path) {
			return "", fmt.Errorf("PIN URI path '%s' is not absolute", parsed.Path)
		}
		data, err := os.ReadFile(parsed.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read PIN from file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv("PKCS11_PIN"), nil
}

// ModulePath returns the module-path attribute, or "".
func (u *URI) ModulePath() string {
	return u.query["module-path"]
}

// ModuleName returns the lowercased module-name attribute, or "".
func (u *URI) ModuleName() string {
	return strings.ToLower(u.query["module-name"])
}
