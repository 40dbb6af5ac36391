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

import (
	"errors"
	"fmt"
	"io"
	"os"

	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// Exit codes for reportctl commands
const (
	ExitSuccess         = 0
	ExitExecutionFailed = 1
	// ExitRuntimeMissing is returned when no usable Python interpreter exists.
	// It matches the plain failure code so scripts checking for 1 keep working.
	ExitRuntimeMissing = 1
	ExitStepFailed     = 2
	ExitInvalidConfig  = 3
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error

	// ErrorCode overrides the JSON error code derived from Code.
	ErrorCode string
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewExecutionError creates an error for general command failures
func NewExecutionError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitExecutionFailed, Message: msg, Cause: cause}
}

// NewRuntimeMissingError creates an error for a missing Python runtime
func NewRuntimeMissingError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitRuntimeMissing, Message: msg, Cause: cause, ErrorCode: ErrorCodeRuntimeMissing}
}

// NewStepFailedError creates an error for an install that finished with
// failed steps
func NewStepFailedError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitStepFailed, Message: msg, Cause: cause}
}

// NewInvalidConfigError creates an error for invalid configuration files
func NewInvalidConfigError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitInvalidConfig, Message: msg, Cause: cause}
}

// SilentExit carries an exit code for output that was already printed.
func SilentExit(code int) *ExitError {
	return &ExitError{Code: code}
}

// exit is replaced in tests.
var exit = os.Exit

// HandleExitError reports err for command and exits with the mapped code.
// In JSON mode the error is written to stdout as an error envelope.
func HandleExitError(command string, err error) {
	if err == nil {
		return
	}
	if GetJSON() {
		exit(writeJSONExitError(os.Stdout, command, err))
		return
	}
	exit(writeExitError(os.Stderr, err))
}

// exitCodeOf returns the exit code carried by err.
func exitCodeOf(err error) (int, *ExitError) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, exitErr
	}
	return ExitExecutionFailed, nil
}

// writeExitError prints err with any suggestion and returns the exit code.
func writeExitError(w io.Writer, err error) int {
	code, _ := exitCodeOf(err)

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(w, "Error:", msg)
	}
	if suggestion := reporterrors.SuggestionOf(err); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
	return code
}

// writeJSONExitError writes err as an error envelope and returns the exit
// code. Silent exits already printed their JSON and write nothing.
func writeJSONExitError(w io.Writer, command string, err error) int {
	code, exitErr := exitCodeOf(err)
	msg := err.Error()
	if msg == "" {
		return code
	}

	errorCode := ErrorCodeInternal
	if exitErr != nil {
		errorCode = ErrorCodeFor(exitErr)
	}
	_ = EmitJSONError(w, command, []JSONError{{
		Code:       errorCode,
		Message:    msg,
		Suggestion: reporterrors.SuggestionOf(err),
	}})
	return code
}
