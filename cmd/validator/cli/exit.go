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
package cli

import (
	"fmt"
)

// ExitError is returned when a command ran but some node failed. main
// turns it into the process exit status.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// exitStatus turns a failed run into an ExitError with status 1.
func exitStatus(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Err: fmt.Errorf("%s failed: %w", op, err), Code: 1}
}
