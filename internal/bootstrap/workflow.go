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

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/templates"
)

// WorkflowDirStep creates the CI workflow directory. With Render set it also
// writes the scheduled sync workflow, again only if absent.
type WorkflowDirStep struct {
	Render bool
}

func (s *WorkflowDirStep) Name() string { return StepWorkflowDir }

func (s *WorkflowDirStep) Run(ctx context.Context, ws *Workspace) Result {
	dirRel := ws.Settings.WorkflowsDir
	dir := ws.Path(dirRel)
	fileRel := filepath.Join(dirRel, ws.Settings.WorkflowFile)

	dirExists := false
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return Result{Status: StatusFailed, Path: dirRel, Message: dirRel + " exists and is not a directory",
				Err: fmt.Errorf("%s is not a directory", dir)}
		}
		dirExists = true
	}

	fileExists := false
	if s.Render {
		if _, err := os.Lstat(ws.Path(fileRel)); err == nil {
			fileExists = true
		}
	}

	needDir := !dirExists
	needFile := s.Render && !fileExists

	if !needDir && !needFile {
		return Result{Status: StatusSkipped, Path: dirRel, Message: dirRel + " already exists"}
	}

	if ws.DryRun {
		target := dirRel
		if needFile {
			target = fileRel
		}
		return Result{Status: StatusPlanned, Action: ActionCreate, Path: target, Message: "create " + target}
	}

	if needDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Result{Status: StatusFailed, Path: dirRel, Message: "failed to create " + dirRel, Err: err}
		}
	}

	if !needFile {
		return Result{Status: StatusCreated, Path: dirRel, Message: dirRel + " created"}
	}

	if err := s.writeWorkflow(ws, ws.Path(fileRel)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return Result{Status: StatusSkipped, Path: fileRel, Message: fileRel + " already exists"}
		}
		return Result{Status: StatusFailed, Path: fileRel, Message: "failed to write " + fileRel, Err: err}
	}

	return Result{
		Status:  StatusCreated,
		Path:    fileRel,
		Message: fileRel + " created",
		Next:    []string{"Add MOYSKLAD_TOKEN and GOOGLE_CREDENTIALS repository secrets for the scheduled sync"},
	}
}

// writeWorkflow renders the sync workflow from config.json, or from the
// defaults if config.json is unreadable.
func (s *WorkflowDirStep) writeWorkflow(ws *Workspace, path string) error {
	cfg, err := appconfig.Load(ws.Path(ws.Settings.ConfigFile))
	if err != nil {
		ws.Logger.Warn("rendering workflow from default settings", "error", err)
		cfg = appconfig.Default()
	}

	cron, _, err := appconfig.CronSpec(cfg)
	if err != nil {
		return err
	}

	data, err := templates.RenderWorkflow(templates.WorkflowData{
		Cron:            cron,
		PythonVersion:   ws.pythonMinor(),
		Requirements:    ws.Settings.Requirements,
		ConfigFile:      ws.Settings.ConfigFile,
		CredentialsFile: cfg.GoogleCredentialsFile,
		SpreadsheetName: cfg.SpreadsheetName,
		SyncSchedule:    string(cfg.SyncSchedule),
		SyncTime:        cfg.SyncTime,
		DaysBack:        cfg.DaysBack,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// pythonMinor is the local interpreter as "X.Y", so CI matches it.
func (ws *Workspace) pythonMinor() string {
	if ws.Interpreter == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", ws.Interpreter.Version.Major, ws.Interpreter.Version.Minor)
}
