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
	"fmt"

	"github.com/tombee/reportctl/internal/pyenv"
)

// Step names, in run order.
const (
	StepPython       = "python"
	StepVenv         = "venv"
	StepDependencies = "dependencies"
	StepEnvFile      = "env"
	StepCredentials  = "credentials"
	StepAppConfig    = "config"
	StepWorkflowDir  = "workflow"
)

// PythonStep checks for an interpreter. Failure is fatal: nothing after it
// runs, so a host without Python is left untouched.
type PythonStep struct {
	Candidates []string
	MinVersion string
}

func (s *PythonStep) Name() string { return StepPython }

func (s *PythonStep) Run(ctx context.Context, ws *Workspace) Result {
	d := &pyenv.Detector{LookPath: ws.LookPath, Runner: ws.Runner}
	in, err := d.Detect(ctx, s.Candidates, s.MinVersion)
	if err != nil {
		missing := &RuntimeMissingError{Candidates: s.Candidates, MinVersion: s.minVersion(), Cause: err}
		return Result{
			Status:  StatusFailed,
			Message: missing.Error(),
			Detail:  []string{missing.Suggestion()},
			Fatal:   true,
			Err:     missing,
		}
	}

	ws.Interpreter = in
	return Result{
		Status:  StatusOK,
		Action:  ActionCheck,
		Path:    in.Path,
		Message: fmt.Sprintf("Python %s (%s)", in.Version, in.Name),
	}
}

func (s *PythonStep) minVersion() string {
	if s.MinVersion == "" {
		return pyenv.DefaultMinVersion
	}
	return s.MinVersion
}
