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

// Package appconfig reads and writes config.json, the settings file of the
// MoySklad to Google Sheets reporting application.
package appconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// ErrExists is returned by CreateNew when the file is already present.
var ErrExists = errors.New("config file already exists")

// Schedule is how often the sync job runs.
type Schedule string

const (
	ScheduleDaily  Schedule = "daily"
	ScheduleWeekly Schedule = "weekly"
	ScheduleManual Schedule = "manual"
)

// Schedules lists the accepted schedule values.
var Schedules = []Schedule{ScheduleDaily, ScheduleWeekly, ScheduleManual}

// Valid reports whether s is a known schedule.
func (s Schedule) Valid() bool {
	switch s {
	case ScheduleDaily, ScheduleWeekly, ScheduleManual:
		return true
	}
	return false
}

// Config is the content of config.json. Field order is the on-disk key order.
type Config struct {
	MoySkladToken         string   `json:"moysklad_token"`
	GoogleCredentialsFile string   `json:"google_credentials_file"`
	SpreadsheetName       string   `json:"spreadsheet_name"`
	SyncSchedule          Schedule `json:"sync_schedule"`
	SyncTime              string   `json:"sync_time"`
	DaysBack              int      `json:"days_back"`
}

// Keys are the top-level keys every config.json carries.
var Keys = []string{
	"moysklad_token",
	"google_credentials_file",
	"spreadsheet_name",
	"sync_schedule",
	"sync_time",
	"days_back",
}

// Default returns the values written on first install.
func Default() Config {
	return Config{
		MoySkladToken:         "",
		GoogleCredentialsFile: "credentials.json",
		SpreadsheetName:       "Финансовый отчёт",
		SyncSchedule:          ScheduleDaily,
		SyncTime:              "09:00",
		DaysBack:              30,
	}
}

// Encode renders cfg as four-space indented JSON with a trailing newline.
// Non-ASCII text is written as-is.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(cfg); err != nil {
		return nil, reporterrors.Wrap(err, "failed to encode config")
	}
	return buf.Bytes(), nil
}

// CreateNew writes cfg to path only if nothing exists there. The file is
// created with mode 0600 since it holds the API token.
func CreateNew(path string, cfg Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrExists
		}
		return reporterrors.Wrapf(err, "failed to create %s", path)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return reporterrors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, reporterrors.Wrapf(err, "failed to parse %s", path)
	}
	return cfg, nil
}

// LoadRaw reads path as a generic JSON object for validation and queries.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, reporterrors.Wrapf(err, "failed to parse %s", path)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: top level must be a JSON object", path)
	}
	return raw, nil
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
