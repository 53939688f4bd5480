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

// Package sigerr defines the error kinds reported while signing, validating
// and installing file trees.
package sigerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindUnknown is the zero value and is never produced deliberately.
	KindUnknown Kind = iota
	// KindIO covers open, read, write and stat failures.
	KindIO
	// KindKeyLoad covers malformed or unreadable key material.
	KindKeyLoad
	// KindCrypto covers failures of the signing or verification primitive.
	// A signature that does not match a key is not a KindCrypto error.
	KindCrypto
	// KindBadFormat covers artifacts with a missing or wrong magic prefix.
	KindBadFormat
	// KindUnsupportedType covers nodes that are neither regular files nor
	// symbolic links.
	KindUnsupportedType
	// KindOutsideTrustRoot covers files that do not lie below the trust root.
	KindOutsideTrustRoot
	// KindMissingSignature covers files without a .sig artifact.
	KindMissingSignature
	// KindInvalidSignature marks a file whose artifact no trusted key
	// accepts. Only the tree operations produce it; the verifier itself
	// reports a mismatch as a plain false.
	KindInvalidSignature
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IOError"
	case KindKeyLoad:
		return "KeyLoadError"
	case KindCrypto:
		return "CryptoError"
	case KindBadFormat:
		return "BadFormat"
	case KindUnsupportedType:
		return "UnsupportedType"
	case KindOutsideTrustRoot:
		return "OutsideTrustRoot"
	case KindMissingSignature:
		return "MissingSignature"
	case KindInvalidSignature:
		return "InvalidSignature"
	default:
		return "UnknownError"
	}
}

// Error is the error type returned by the validator packages.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Path is the filesystem path the failure relates to, if any.
	Path string
	// Message is a human readable description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error without a path.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NewWithPath creates an Error for a filesystem path.
func NewWithPath(kind Kind, path, message string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: message, Cause: cause}
}

// IO is shorthand for an KindIO error on path.
func IO(path, message string, cause error) *Error {
	return NewWithPath(KindIO, path, message, cause)
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err's chain contains an *Error of the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}
