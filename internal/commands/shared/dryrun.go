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
	"fmt"
	"strings"
)

// DryRunAction represents the type of action that would be performed.
type DryRunAction string

const (
	// DryRunActionCreate indicates a file or directory would be created.
	DryRunActionCreate DryRunAction = "CREATE"
	// DryRunActionRun indicates an external command would be run.
	DryRunActionRun DryRunAction = "RUN"
	// DryRunActionKeep indicates an existing file would be left as-is.
	DryRunActionKeep DryRunAction = "KEEP"
	// DryRunActionCheck indicates a read-only check would be made.
	DryRunActionCheck DryRunAction = "CHECK"
)

// DryRunOutput collects the actions an install would take.
type DryRunOutput struct {
	actions []string
}

// NewDryRunOutput creates a new dry-run output formatter.
func NewDryRunOutput() *DryRunOutput {
	return &DryRunOutput{actions: make([]string, 0)}
}

// Add records an action on target. description is optional.
func (d *DryRunOutput) Add(action DryRunAction, target, description string) {
	line := fmt.Sprintf("%s: %s", action, target)
	if description != "" {
		line = fmt.Sprintf("%s (%s)", line, description)
	}
	d.actions = append(d.actions, line)
}

// Len returns the number of recorded actions.
func (d *DryRunOutput) Len() int {
	return len(d.actions)
}

// String returns the formatted dry-run output.
// Format:
//
//	Dry run: The following actions would be performed:
//
//	CHECK: python3 (>= 3.8)
//	CREATE: venv/
//	KEEP: .env (already exists)
//
//	Run without --dry-run to execute.
func (d *DryRunOutput) String() string {
	if len(d.actions) == 0 {
		return "Dry run: No actions would be performed."
	}

	var sb strings.Builder
	sb.WriteString("Dry run: The following actions would be performed:\n\n")
	for _, action := range d.actions {
		sb.WriteString(action)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRun without --dry-run to execute.")
	return sb.String()
}

// PlaceholderPath replaces baseDir at the start of fullPath with placeholder
// so dry-run output does not leak home directories.
//   - /home/ann/reports/.env -> <project>/.env
func PlaceholderPath(fullPath, baseDir, placeholder string) string {
	if baseDir == "" || !strings.HasPrefix(fullPath, baseDir) {
		return fullPath
	}
	rest := strings.TrimPrefix(fullPath, baseDir)
	if rest != "" && !strings.HasPrefix(rest, "/") && !strings.HasPrefix(rest, `\`) {
		return fullPath
	}
	return placeholder + rest
}
