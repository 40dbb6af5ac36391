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
)

// VenvStep creates the virtual environment when its directory is absent.
// An existing directory is never touched.
type VenvStep struct{}

func (s *VenvStep) Name() string { return StepVenv }

func (s *VenvStep) Run(ctx context.Context, ws *Workspace) Result {
	rel := ws.Settings.VenvDir
	venv := ws.Venv()

	if venv.Exists() {
		if !venv.Valid() {
			return Result{
				Status:  StatusWarning,
				Path:    rel,
				Message: fmt.Sprintf("%s exists but is not a virtual environment (no pyvenv.cfg)", rel),
				Next:    []string{fmt.Sprintf("Remove %s and run reportctl install again to recreate it", rel)},
			}
		}
		return Result{Status: StatusSkipped, Path: rel, Message: "virtual environment already exists"}
	}

	if ws.DryRun {
		return Result{Status: StatusPlanned, Action: ActionCreate, Path: rel, Message: "create virtual environment"}
	}

	if ws.Interpreter == nil {
		return Result{Status: StatusFailed, Path: rel, Message: "no Python interpreter to create the venv with",
			Err: errors.New("python check did not run")}
	}

	p := ws.progress()
	p.Start(fmt.Sprintf("Creating virtual environment in %s", rel))
	err := venv.Create(ctx, ws.Runner, ws.Interpreter.Path)
	p.Stop()
	if err != nil {
		return Result{
			Status:  StatusFailed,
			Path:    rel,
			Message: "failed to create virtual environment",
			Detail:  []string{"On Debian and Ubuntu install the python3-venv package"},
			Err:     err,
		}
	}
	return Result{Status: StatusCreated, Path: rel, Message: "virtual environment created"}
}
