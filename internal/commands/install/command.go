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

// Package install implements "reportctl install", which prepares a project
// directory for the reporting app.
package install

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/bootstrap"
	"github.com/tombee/reportctl/internal/cli/prompt"
	"github.com/tombee/reportctl/internal/commands/completion"
	"github.com/tombee/reportctl/internal/commands/shared"
	"github.com/tombee/reportctl/internal/config"
	"github.com/tombee/reportctl/internal/pyenv"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// Replaced in tests.
var (
	lookPath    = exec.LookPath
	newRunner   = func(logger *slog.Logger) pyenv.Runner { return pyenv.NewExecRunner(logger) }
	newPrompter = func() prompt.Prompter { return prompt.NewSurveyPrompter(!shared.IsNonInteractive()) }
	newProgress = func() bootstrap.Progress { return shared.NewSpinner() }
)

type options struct {
	dryRun      bool
	failFast    bool
	interactive bool
	skipDeps    bool
	ciWorkflow  bool
	python      string
	schedule    string
}

// NewCommand creates the install command.
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Set up the project for the reporting app",
		Long: `Install prepares the current project for the MoySklad reporting app.

It checks for Python, creates the virtual environment, installs
requirements.txt, and creates .env and config.json from templates.
Files that already exist are never overwritten, so install can be run
again at any time.

A missing credentials.json is reported with instructions but does not
fail the install. Without Python nothing is written and the exit status
is 1. If any other step fails the exit status is 2.`,
		Example: `  # Set up the project in the current directory
  reportctl install

  # Show what would happen without changing anything
  reportctl install --dry-run

  # Ask for config.json values and add a scheduled sync workflow
  reportctl install --interactive --ci-workflow`,
		Annotations: map[string]string{
			"group": "setup",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show planned actions without changing anything")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first failed step")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for config.json values when creating it")
	cmd.Flags().BoolVar(&opts.skipDeps, "skip-deps", false, "Do not install requirements")
	cmd.Flags().BoolVar(&opts.ciWorkflow, "ci-workflow", false, "Also write a scheduled sync workflow")
	cmd.Flags().StringVar(&opts.python, "python", "", "Python interpreter to use (name or path)")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "sync_schedule for a new config.json (daily, weekly, manual)")
	_ = cmd.RegisterFlagCompletionFunc("python", completion.CompletePython)
	_ = cmd.RegisterFlagCompletionFunc("schedule", completion.CompleteSchedules)

	return cmd
}

func runInstall(cmd *cobra.Command, opts options) error {
	dir, err := shared.ProjectDir()
	if err != nil {
		return shared.NewExecutionError("cannot determine project directory", err)
	}

	settings, err := config.Load(dir, shared.GetConfigPath())
	if err != nil {
		return shared.NewInvalidConfigError("cannot load reportctl settings", err)
	}
	if opts.python != "" {
		settings.Python.Candidates = []string{opts.python}
	}
	var schedule appconfig.Schedule
	if opts.schedule != "" {
		name, err := prompt.ValidateEnum(opts.schedule, scheduleNames())
		if err != nil {
			return shared.NewInvalidConfigError(fmt.Sprintf("invalid --schedule %q", opts.schedule),
				&reporterrors.ValidationError{Field: "schedule", Message: err.Error()})
		}
		schedule = appconfig.Schedule(name)
	}

	logger := shared.NewLogger()
	ws := &bootstrap.Workspace{
		Dir:      dir,
		Settings: settings,
		Runner:   newRunner(logger),
		LookPath: lookPath,
		Logger:   logger,
		DryRun:   opts.dryRun,
	}

	jsonMode := shared.GetJSON()
	switch {
	case jsonMode || shared.GetQuiet():
	case shared.GetVerbose():
		ws.Stream = cmd.ErrOrStderr()
	default:
		ws.Progress = newProgress()
	}

	stepOpts := bootstrap.Options{SkipDeps: opts.skipDeps, CIWorkflow: opts.ciWorkflow, Schedule: schedule}
	if opts.interactive {
		p := newPrompter()
		if p.IsInteractive() && !jsonMode {
			stepOpts.AskConfig = askConfig(p, cmd.ErrOrStderr())
		} else {
			logger.Warn("ignoring --interactive in a non-interactive session")
		}
	}

	out := newPrinter(cmd.OutOrStdout(), dir, opts.dryRun, shared.GetQuiet())
	pipeline := &bootstrap.Pipeline{
		Steps:    bootstrap.DefaultSteps(settings, stepOpts),
		FailFast: opts.failFast,
	}
	if !jsonMode {
		pipeline.OnResult = out.step
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var report *bootstrap.Report
	execute := func() error {
		report = pipeline.Run(ctx, ws)
		return nil
	}
	if opts.dryRun {
		err = execute()
	} else {
		err = config.NewProjectLock(dir).WithLock(execute)
	}
	if errors.Is(err, config.ErrLockTimeout) {
		return &shared.ExitError{
			Code:      shared.ExitExecutionFailed,
			Message:   err.Error(),
			ErrorCode: shared.ErrorCodeProjectLocked,
		}
	}
	if err != nil {
		return shared.NewExecutionError("cannot lock project", err)
	}

	if jsonMode {
		if err := shared.EmitJSONTo(cmd.OutOrStdout(), newResponse(report, ws)); err != nil {
			return err
		}
		return exitFor(report, true)
	}

	out.summary(report, ws)
	return exitFor(report, false)
}

// exitFor maps a finished run to the command result. silent is set when the
// outcome was already written as JSON.
func exitFor(report *bootstrap.Report, silent bool) error {
	if missing, ok := report.RuntimeMissing(); ok {
		if silent {
			return shared.SilentExit(shared.ExitRuntimeMissing)
		}
		exitErr := shared.NewRuntimeMissingError("python runtime check failed", missing)
		exitErr.ErrorCode = runtimeErrorCode(missing)
		return exitErr
	}

	if report.Aborted && len(report.Failed()) == 0 {
		if silent {
			return shared.SilentExit(shared.ExitExecutionFailed)
		}
		return shared.NewExecutionError("install interrupted", nil)
	}

	failed := report.Failed()
	if len(failed) == 0 {
		return nil
	}
	if silent {
		return shared.SilentExit(shared.ExitStepFailed)
	}
	names := make([]string, len(failed))
	for i, r := range failed {
		names[i] = r.Step
	}
	return shared.NewStepFailedError(
		fmt.Sprintf("%d step(s) failed: %s", len(failed), strings.Join(names, ", ")), nil)
}
