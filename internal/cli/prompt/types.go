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

package prompt

// InputType is the kind of value a prompt collects.
type InputType string

const (
	// InputTypeString represents free-text inputs
	InputTypeString InputType = "string"

	// InputTypeSecret represents text that must not be echoed
	InputTypeSecret InputType = "secret"

	// InputTypeNumber represents numeric inputs (integers and floats)
	InputTypeNumber InputType = "number"

	// InputTypeEnum represents enumerated value inputs
	InputTypeEnum InputType = "enum"
)

// PromptConfig holds configuration for a single prompt.
type PromptConfig struct {
	Name        string
	Description string
	Type        InputType
	Options     []string // For enum types
	Default     any

	// Validate, when set, checks the collected value. A failure counts as an
	// attempt and the prompt is shown again.
	Validate func(value any) error
}

// ValidationError represents an input validation failure.
type ValidationError struct {
	InputName string
	InputType string
	Reason    string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// MaxRetries is the maximum number of validation retry attempts per input.
const MaxRetries = 3

// MaxInputSize is the maximum allowed input size in bytes.
const MaxInputSize = 65536
