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

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/log"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// AskFunc lets the user adjust the defaults before config.json is written.
type AskFunc func(ctx context.Context, defaults appconfig.Config) (appconfig.Config, error)

// AppConfigStep writes config.json with default settings when absent. An
// existing file is validated but never rewritten.
type AppConfigStep struct {
	Ask AskFunc

	// Schedule overrides the default sync_schedule when set.
	Schedule appconfig.Schedule
}

func (s *AppConfigStep) Name() string { return StepAppConfig }

func (s *AppConfigStep) Run(ctx context.Context, ws *Workspace) Result {
	rel := ws.Settings.ConfigFile
	path := ws.Path(rel)

	if _, err := os.Lstat(path); err == nil {
		return s.checkExisting(rel, path)
	}

	if ws.DryRun {
		return Result{Status: StatusPlanned, Action: ActionCreate, Path: rel, Message: "create with default settings"}
	}

	cfg := appconfig.Default()
	cfg.GoogleCredentialsFile = ws.Settings.CredentialsFile
	if s.Schedule != "" {
		cfg.SyncSchedule = s.Schedule
	}

	message := "created with default settings"
	if s.Ask != nil {
		asked, err := s.Ask(ctx, cfg)
		if err != nil {
			return Result{Status: StatusFailed, Path: rel, Message: "failed to collect settings", Err: err}
		}
		v, err := appconfig.ValidateConfig(asked)
		if err != nil {
			return Result{Status: StatusFailed, Path: rel, Message: "failed to check settings", Err: err}
		}
		if !v.Valid() {
			return Result{
				Status:  StatusFailed,
				Path:    rel,
				Message: "entered settings are invalid",
				Detail:  issueLines(v.Errors),
				Err:     &reporterrors.ConfigError{Key: v.Errors[0].Key, Reason: v.Errors[0].Message},
			}
		}
		ws.Logger.Debug("collected settings",
			"moysklad_token", log.SanitizeSecret(asked.MoySkladToken),
			"spreadsheet_name", asked.SpreadsheetName,
			"sync_schedule", string(asked.SyncSchedule),
			"days_back", asked.DaysBack)
		cfg = asked
		message = "created"
	}

	err := appconfig.CreateNew(path, cfg)
	if errors.Is(err, appconfig.ErrExists) {
		return s.checkExisting(rel, path)
	}
	if err != nil {
		return Result{Status: StatusFailed, Path: rel, Message: "failed to write " + rel, Err: err}
	}

	res := Result{Status: StatusCreated, Path: rel, Message: message}
	if cfg.MoySkladToken == "" {
		res.Next = []string{fmt.Sprintf("Set moysklad_token in %s", rel)}
	}
	return res
}

func (s *AppConfigStep) checkExisting(rel, path string) Result {
	raw, err := appconfig.LoadRaw(path)
	if err != nil {
		return Result{
			Status:  StatusWarning,
			Path:    rel,
			Message: rel + " exists but cannot be parsed",
			Detail:  []string{err.Error()},
			Next:    []string{"Fix " + rel + " or remove it and run reportctl install again"},
		}
	}

	v := appconfig.Validate(raw)
	if !v.Valid() {
		return Result{
			Status:  StatusWarning,
			Path:    rel,
			Message: rel + " already exists but has errors",
			Detail:  issueLines(v.Errors),
			Next:    []string{"Run reportctl config validate for details"},
		}
	}
	return Result{Status: StatusSkipped, Path: rel, Message: rel + " already exists"}
}

func issueLines(issues []appconfig.Issue) []string {
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return lines
}
