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

/*
Package cli provides the root command and shared configuration for reportctl.

This package creates the Cobra command tree and handles global concerns like
version information, persistent flags, and exit codes. Individual commands
are implemented in the internal/commands subpackages.

# Command Tree

	reportctl
	├── install       Prepare the project (venv, deps, .env, config.json)
	├── doctor        Check the project without changing it
	├── config        Inspect config.json
	│   ├── show
	│   ├── path
	│   └── validate
	├── completion    Generate shell completion scripts
	├── version       Show version
	└── help          Show help

# Usage

From main.go:

	cli.SetVersion(version, commit, date)
	rootCmd := cli.NewRootCommand()
	rootCmd.AddCommand(install.NewCommand())
	rootCmd.SetHelpCommand(cli.NewHelpCommand(rootCmd))
	if cmd, err := rootCmd.ExecuteContextC(ctx); err != nil {
	    cli.HandleExitError(cmd, err)
	}

# Global Flags

	--verbose, -v    Stream subprocess output and debug logs
	--quiet, -q      Suppress non-error output
	--json           Output in JSON format
	--config         Path to the reportctl settings file
	--dir, -C        Project directory

# Exit Codes

  - 0: Success (a missing credentials.json is only a warning)
  - 1: Python interpreter missing or too old, or a general error
  - 2: One or more install steps failed
  - 3: Invalid configuration

With --json, failures are written to stdout as an envelope with
"success": false and an "errors" list carrying codes such as E103.
*/
package cli
