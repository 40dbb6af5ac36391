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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tombee/reportctl/internal/cli"
	"github.com/tombee/reportctl/internal/commands/completion"
	"github.com/tombee/reportctl/internal/commands/config"
	"github.com/tombee/reportctl/internal/commands/diagnostics"
	"github.com/tombee/reportctl/internal/commands/install"
	versioncmd "github.com/tombee/reportctl/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()

	// Setup
	rootCmd.AddCommand(install.NewCommand())
	rootCmd.AddCommand(diagnostics.NewDoctorCommand())

	// Configuration
	rootCmd.AddCommand(config.NewConfigCommand())

	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	// Custom help command with JSON support
	rootCmd.SetHelpCommand(cli.NewHelpCommand(rootCmd))

	// Interrupts cancel the running subprocess through the context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err != nil {
		cli.HandleExitError(cmd, err)
	}
}
