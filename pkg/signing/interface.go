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

package signing

import (
	"context"

	"github.com/sigstore/validator/pkg/tree"
)

// TreeSigner signs every file below a set of roots.
//
// The returned Result covers all roots. The error is non-nil when any
// file failed or when the roots could not be resolved at all.
type TreeSigner interface {
	Sign(ctx context.Context) (tree.Result, error)
	Close() error
}
