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

// Package format decides how reportctl renders output for the current
// terminal.
package format

import (
	"os"

	"golang.org/x/term"
)

// isTerminal is replaced in tests.
var isTerminal = func(fd int) bool { return term.IsTerminal(fd) }

// IsTTY reports whether stdout is an interactive terminal that accepts
// color. NO_COLOR and TERM=dumb disable it.
func IsTTY() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	termEnv := os.Getenv("TERM")
	if termEnv == "dumb" || termEnv == "" {
		return false
	}

	return isTerminal(int(os.Stdout.Fd()))
}

// ColorEnabled reports whether styled output should be used on stdout.
func ColorEnabled() bool {
	return IsTTY()
}

// StderrIsTerminal reports whether stderr is a terminal. Spinners draw on
// stderr so they never mix with piped stdout.
func StderrIsTerminal() bool {
	return isTerminal(int(os.Stderr.Fd()))
}
