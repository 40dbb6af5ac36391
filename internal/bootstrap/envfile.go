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
	"path/filepath"

	"github.com/tombee/reportctl/internal/envfile"
	"github.com/tombee/reportctl/internal/templates"
)

// EnvFileStep creates .env from the project's template, or from the
// built-in one when the project has none. An existing .env is kept.
type EnvFileStep struct{}

func (s *EnvFileStep) Name() string { return StepEnvFile }

func (s *EnvFileStep) Run(ctx context.Context, ws *Workspace) Result {
	rel := ws.Settings.Env.File
	dst := ws.Path(rel)

	if _, err := os.Lstat(dst); err == nil {
		return Result{Status: StatusSkipped, Path: rel, Message: rel + " already exists"}
	}

	tmpl, err := envfile.FindTemplate(ws.Dir, ws.Settings.Env.Templates)
	if err != nil {
		return Result{Status: StatusFailed, Path: rel, Message: "cannot search for a .env template", Err: err}
	}

	source := "built-in template"
	if tmpl != "" {
		source = filepath.Base(tmpl)
	}

	if ws.DryRun {
		return Result{Status: StatusPlanned, Action: ActionCreate, Path: rel, Message: "create from " + source}
	}

	if tmpl != "" {
		err = envfile.CopyNew(tmpl, dst)
	} else {
		err = envfile.WriteNew(dst, templates.EnvTemplate())
	}
	if errors.Is(err, envfile.ErrExists) {
		return Result{Status: StatusSkipped, Path: rel, Message: rel + " already exists"}
	}
	if err != nil {
		return Result{Status: StatusFailed, Path: rel, Message: "failed to create " + rel, Err: err}
	}

	return Result{
		Status:  StatusCreated,
		Path:    rel,
		Message: "created from " + source,
		Next:    []string{fmt.Sprintf("Fill in MOYSKLAD_TOKEN and the other values in %s", rel)},
	}
}
