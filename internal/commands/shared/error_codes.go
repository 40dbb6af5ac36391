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

package shared

// Error codes for structured JSON output
const (
	// Runtime errors (E001-E099)
	ErrorCodeRuntimeMissing = "E001" // No usable Python interpreter
	ErrorCodeRuntimeTooOld  = "E002" // Interpreter below the minimum version

	// Step errors (E100-E199)
	ErrorCodeStepFailed    = "E101" // A bootstrap step failed
	ErrorCodeCommandFailed = "E102" // python or pip exited non-zero
	ErrorCodeProjectLocked = "E103" // Another install holds the lock

	// Configuration errors (E200-E299)
	ErrorCodeConfigNotFound = "E201" // config.json or settings file not found
	ErrorCodeInvalidConfig  = "E202" // config.json failed validation
	ErrorCodeInvalidJSON    = "E203" // config.json is not valid JSON

	// Resource errors (E400-E499)
	ErrorCodeNotFound = "E401" // Resource not found
	ErrorCodeInternal = "E402" // Internal error
)

// ErrorCodeFor maps an ExitError to a JSON error code.
func ErrorCodeFor(exitErr *ExitError) string {
	if exitErr == nil {
		return ""
	}

	if exitErr.ErrorCode != "" {
		return exitErr.ErrorCode
	}

	switch exitErr.Code {
	case ExitStepFailed:
		return ErrorCodeStepFailed
	case ExitInvalidConfig:
		return ErrorCodeInvalidConfig
	default:
		return ErrorCodeInternal
	}
}
