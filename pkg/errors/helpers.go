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

package errors

import (
	"errors"
	"fmt"
)

// Wrap creates a new error that wraps the given error with additional context.
// If err is nil, returns nil.
//
// Usage:
//
//	if err := venv.Create(ctx, runner, interp); err != nil {
//	    return errors.Wrap(err, "creating virtual environment")
//	}
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf creates a new error that wraps the given error with formatted context.
// If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// SuggestionOf walks the error chain and returns the suggestion of the first
// user-visible error it finds. Returns "" when there is none.
func SuggestionOf(err error) string {
	for err != nil {
		if userErr, ok := err.(UserVisibleError); ok {
			if userErr.IsUserVisible() {
				return userErr.Suggestion()
			}
			return ""
		}
		err = errors.Unwrap(err)
	}
	return ""
}
