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

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/tombee/reportctl/internal/pyenv"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// maxDetailLines bounds how much pip output is echoed on failure.
const maxDetailLines = 5

// DependenciesStep installs the requirements file into the venv. It runs on
// every install since pip is itself idempotent.
type DependenciesStep struct {
	// Skip leaves dependencies alone (--skip-deps).
	Skip bool
}

func (s *DependenciesStep) Name() string { return StepDependencies }

func (s *DependenciesStep) Run(ctx context.Context, ws *Workspace) Result {
	rel := ws.Settings.Requirements

	if s.Skip {
		return Result{Status: StatusSkipped, Path: rel, Message: "dependency install skipped"}
	}

	if _, err := os.Stat(ws.Path(rel)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{
				Status:  StatusWarning,
				Path:    rel,
				Message: fmt.Sprintf("%s not found, no dependencies installed", rel),
				Next:    []string{fmt.Sprintf("Add %s and run reportctl install again", rel)},
			}
		}
		return Result{Status: StatusFailed, Path: rel, Message: "cannot read requirements file", Err: err}
	}

	venv := ws.Venv()
	if ws.DryRun {
		return Result{Status: StatusPlanned, Action: ActionRun, Path: rel, Message: shellquote.Join("pip", "install", "-r", rel)}
	}
	if !venv.Valid() {
		return Result{
			Status:  StatusFailed,
			Path:    rel,
			Message: "virtual environment is not ready",
			Err:     fmt.Errorf("%s is not a virtual environment", ws.Settings.VenvDir),
		}
	}

	opts := pyenv.InstallOptions{
		UpgradePip: ws.Settings.UpgradePip,
		Timeout:    ws.Settings.PipTimeout,
		Stream:     ws.Stream,
	}

	p := ws.progress()
	if ws.Stream == nil {
		p.Start("Installing dependencies from " + rel)
	}
	err := venv.InstallRequirements(ctx, ws.Runner, ws.Path(rel), opts)
	if ws.Stream == nil {
		p.Stop()
	}

	if err != nil {
		return Result{
			Status:  StatusFailed,
			Path:    rel,
			Message: "pip install failed",
			Detail:  pipDetail(err),
			Next:    []string{"Fix the pip error above and run reportctl install again"},
			Err:     err,
		}
	}
	return Result{Status: StatusOK, Path: rel, Message: "dependencies installed"}
}

// pipDetail returns the last lines of pip's output.
func pipDetail(err error) []string {
	var cmdErr *reporterrors.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Stderr == "" {
		return nil
	}
	lines := strings.Split(cmdErr.Stderr, "\n")
	if len(lines) > maxDetailLines {
		lines = lines[len(lines)-maxDetailLines:]
	}
	return lines
}
