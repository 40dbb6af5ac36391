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
	"os"

	"golang.org/x/term"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsNonInteractive reports whether prompts must be avoided. Indicators, in
// priority order:
//
//  1. REPORTCTL_NON_INTERACTIVE=true
//  2. CI environment variables (CI, GITHUB_ACTIONS, GITLAB_CI, CIRCLECI, JENKINS_HOME)
//  3. stdin is not a TTY
func IsNonInteractive() bool {
	if os.Getenv("REPORTCTL_NON_INTERACTIVE") == "true" {
		return true
	}
	if isCIEnvironment() {
		return true
	}
	return !stdinIsTerminal()
}

// isCIEnvironment checks for common CI environment variables.
func isCIEnvironment() bool {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI"} {
		if v := os.Getenv(envVar); v == "true" || v == "1" {
			return true
		}
	}
	// JENKINS_HOME is set to a path
	return os.Getenv("JENKINS_HOME") != ""
}
