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

// Package bootstrap prepares a project directory for the MoySklad reporting
// app. It runs an ordered list of steps, each checking for its artifact and
// creating it only when missing.
package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tombee/reportctl/internal/config"
	"github.com/tombee/reportctl/internal/log"
	"github.com/tombee/reportctl/internal/pyenv"
)

// Status is the outcome of a step.
type Status string

const (
	// StatusOK means a check passed or a command succeeded.
	StatusOK Status = "ok"
	// StatusCreated means the step created its artifact.
	StatusCreated Status = "created"
	// StatusSkipped means the artifact already existed and was left alone.
	StatusSkipped Status = "skipped"
	// StatusWarning means the step needs user attention but is not a failure.
	StatusWarning Status = "warning"
	// StatusFailed means the step could not do its job.
	StatusFailed Status = "failed"
	// StatusPlanned is reported in dry-run mode for work that would happen.
	StatusPlanned Status = "planned"
)

// Action describes what a step does, or would do in dry-run mode.
type Action string

const (
	ActionCreate Action = "create"
	ActionRun    Action = "run"
	ActionCheck  Action = "check"
)

// Result is what one step reports.
type Result struct {
	Step   string
	Status Status

	// Path is the project-relative artifact, if any.
	Path string

	Message string

	// Detail holds extra lines such as setup instructions.
	Detail []string

	// Next are follow-up actions for the summary.
	Next []string

	// Action is set on planned results.
	Action Action

	// Fatal stops the pipeline regardless of fail-fast.
	Fatal bool

	Duration time.Duration
	Err      error
}

// Step is one bootstrap stage.
type Step interface {
	Name() string
	Run(ctx context.Context, ws *Workspace) Result
}

// Progress reports long-running work such as pip.
type Progress interface {
	Start(message string)
	Stop() time.Duration
}

type noProgress struct{}

func (noProgress) Start(string)        {}
func (noProgress) Stop() time.Duration { return 0 }

// Workspace is the project being bootstrapped and the tools used on it.
type Workspace struct {
	// Dir is the absolute project directory.
	Dir      string
	Settings *config.Settings

	Runner   pyenv.Runner
	LookPath func(file string) (string, error)
	Logger   *slog.Logger

	// DryRun makes every step read-only.
	DryRun bool

	// Stream receives pip output. Nil discards it.
	Stream   io.Writer
	Progress Progress

	// Interpreter is set once the Python check passes.
	Interpreter *pyenv.Interpreter
}

// NewWorkspace returns a workspace for dir with the default tools.
func NewWorkspace(dir string, settings *config.Settings, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = log.Discard()
	}
	return &Workspace{
		Dir:      dir,
		Settings: settings,
		Runner:   pyenv.NewExecRunner(logger),
		LookPath: exec.LookPath,
		Logger:   logger,
	}
}

// Path resolves a project-relative path.
func (ws *Workspace) Path(rel string) string {
	return filepath.Join(ws.Dir, rel)
}

// Venv returns the project's virtual environment.
func (ws *Workspace) Venv() pyenv.Venv {
	return pyenv.Venv{Dir: ws.Path(ws.Settings.VenvDir)}
}

// ActivateCommand is the activation line relative to the project directory.
func (ws *Workspace) ActivateCommand() string {
	return pyenv.Venv{Dir: ws.Settings.VenvDir}.ActivateCommand()
}

func (ws *Workspace) progress() Progress {
	if ws.Progress == nil {
		return noProgress{}
	}
	return ws.Progress
}
