// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tombee/reportctl/internal/pyenv"
)

// RuntimeMissingError reports that no usable Python interpreter was found.
type RuntimeMissingError struct {
	Candidates []string
	MinVersion string
	Cause      error
}

func (e *RuntimeMissingError) Error() string {
	var tooOld *pyenv.TooOldError
	if errors.As(e.Cause, &tooOld) {
		return tooOld.Error()
	}
	return fmt.Sprintf("python %s or newer not found on PATH (tried %s)",
		e.MinVersion, strings.Join(e.Candidates, ", "))
}

func (e *RuntimeMissingError) Unwrap() error { return e.Cause }

// IsUserVisible implements errors.UserVisibleError.
func (e *RuntimeMissingError) IsUserVisible() bool { return true }

// UserMessage implements errors.UserVisibleError.
func (e *RuntimeMissingError) UserMessage() string { return e.Error() }

// Suggestion implements errors.UserVisibleError.
func (e *RuntimeMissingError) Suggestion() string {
	name := "python3"
	if len(e.Candidates) > 0 {
		name = e.Candidates[0]
	}
	return fmt.Sprintf("Install Python %s or newer from https://www.python.org/downloads/ and make sure %s is on PATH",
		e.MinVersion, name)
}
