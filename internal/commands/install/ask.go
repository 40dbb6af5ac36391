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

package install

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/bootstrap"
	"github.com/tombee/reportctl/internal/cli/prompt"
)

// askConfig prompts for each config.json value, offering defaults.
func askConfig(p prompt.Prompter, out io.Writer) bootstrap.AskFunc {
	return func(ctx context.Context, defaults appconfig.Config) (appconfig.Config, error) {
		ic := prompt.NewInputCollector(p)
		ic.SetOutput(out)

		values, err := ic.CollectInputs(ctx, configPrompts(defaults))
		if err != nil {
			return appconfig.Config{}, err
		}

		cfg := defaults
		cfg.MoySkladToken = stringValue(values["moysklad_token"], cfg.MoySkladToken)
		cfg.GoogleCredentialsFile = stringValue(values["google_credentials_file"], cfg.GoogleCredentialsFile)
		cfg.SpreadsheetName = stringValue(values["spreadsheet_name"], cfg.SpreadsheetName)
		cfg.SyncSchedule = appconfig.Schedule(stringValue(values["sync_schedule"], string(cfg.SyncSchedule)))
		cfg.SyncTime = stringValue(values["sync_time"], cfg.SyncTime)
		if n, ok := values["days_back"].(float64); ok && validateDaysBack(n) == nil {
			cfg.DaysBack = int(n)
		}
		return cfg, nil
	}
}

func scheduleNames() []string {
	names := make([]string, len(appconfig.Schedules))
	for i, s := range appconfig.Schedules {
		names[i] = string(s)
	}
	return names
}

func configPrompts(def appconfig.Config) []prompt.PromptConfig {
	schedules := scheduleNames()

	return []prompt.PromptConfig{
		{
			Name:        "moysklad_token",
			Description: "MoySklad API token, leave empty to fill in later",
			Type:        prompt.InputTypeSecret,
			Validate:    validateText(true),
		},
		{
			Name:        "google_credentials_file",
			Description: "service account key file",
			Type:        prompt.InputTypeString,
			Default:     def.GoogleCredentialsFile,
			Validate:    validateText(false),
		},
		{
			Name:        "spreadsheet_name",
			Description: "Google Sheets document to write to",
			Type:        prompt.InputTypeString,
			Default:     def.SpreadsheetName,
			Validate:    validateText(false),
		},
		{
			Name:        "sync_schedule",
			Description: "how often to sync",
			Type:        prompt.InputTypeEnum,
			Options:     schedules,
			Default:     string(def.SyncSchedule),
		},
		{
			Name:        "sync_time",
			Description: "HH:MM, 24-hour",
			Type:        prompt.InputTypeString,
			Default:     def.SyncTime,
			Validate:    validateSyncTime,
		},
		{
			Name:        "days_back",
			Description: "days of history to load",
			Type:        prompt.InputTypeNumber,
			Default:     def.DaysBack,
			Validate:    validateDaysBack,
		},
	}
}

func validateText(allowEmpty bool) func(any) error {
	return func(v any) error {
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" && !allowEmpty {
			return fmt.Errorf("must not be empty")
		}
		return prompt.ValidateString(s)
	}
}

func validateSyncTime(v any) error {
	s, _ := v.(string)
	if !appconfig.ValidSyncTime(s) {
		return fmt.Errorf("must be HH:MM, for example 09:00")
	}
	return nil
}

func validateDaysBack(v any) error {
	n, ok := v.(float64)
	if !ok || n < 1 || n > appconfig.MaxDaysBack || n != math.Trunc(n) {
		return fmt.Errorf("must be a whole number from 1 to %d", appconfig.MaxDaysBack)
	}
	return nil
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fallback
}
