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

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/reportctl/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for reportctl
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportctl",
		Short: "reportctl - set up the MoySklad reporting app",
		Long: `reportctl prepares a project directory for the MoySklad to Google Sheets
reporting app: it checks for Python, creates the virtual environment,
installs dependencies, and scaffolds .env and config.json.

Run 'reportctl install' in the project directory to get started.
Run 'reportctl doctor' to check an existing setup.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shared.GetVerbose() && shared.GetQuiet() {
				return errors.New("--verbose and --quiet cannot be used together")
			}
			return nil
		},
	}

	// Get flag pointers from shared package
	verbose, quiet, json, config, dir := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to a reportctl settings file (default: <project>/.reportctl.yaml)")
	cmd.PersistentFlags().StringVarP(dir, "dir", "C", "", "Project directory (default: current directory)")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	_ = cmd.MarkPersistentFlagDirname("dir")

	return cmd
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError handles exit errors with proper exit codes. cmd is the
// command that ran, as returned by ExecuteContextC.
func HandleExitError(cmd *cobra.Command, err error) {
	shared.HandleExitError(CommandName(cmd), err)
}

// CommandName is the command path below the root, used in JSON envelopes.
func CommandName(cmd *cobra.Command) string {
	if cmd == nil || !cmd.HasParent() {
		return "reportctl"
	}
	return strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
}
