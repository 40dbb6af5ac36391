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

package appconfig

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// maxDaysBack is the window above which a warning is raised. The MoySklad
// report API gets slow past a year of documents.
const maxDaysBack = 365

// MaxDaysBack is the largest days_back accepted at all.
const MaxDaysBack = 36500

var syncTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidSyncTime reports whether s is a 24-hour HH:MM time.
func ValidSyncTime(s string) bool {
	return syncTimeRegex.MatchString(s)
}

// Issue is one validation finding.
type Issue struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Key == "" {
		return i.Message
	}
	return i.Key + ": " + i.Message
}

// ValidationResult collects errors, which make the file unusable, and
// warnings, which the app tolerates.
type ValidationResult struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Valid reports whether there are no errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) errorf(key, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Key: key, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(key, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Key: key, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a decoded config.json.
func Validate(raw map[string]any) ValidationResult {
	r := ValidationResult{Errors: []Issue{}, Warnings: []Issue{}}

	for _, key := range Keys {
		if _, ok := raw[key]; !ok {
			r.errorf(key, "missing required key")
		}
	}

	if v, ok := raw["moysklad_token"]; ok {
		if s, isStr := v.(string); !isStr {
			r.errorf("moysklad_token", "must be a string")
		} else if strings.TrimSpace(s) == "" {
			r.warnf("moysklad_token", "token is empty; set it before running a sync")
		}
	}

	for _, key := range []string{"google_credentials_file", "spreadsheet_name"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if s, isStr := v.(string); !isStr {
			r.errorf(key, "must be a string")
		} else if strings.TrimSpace(s) == "" {
			r.errorf(key, "must not be empty")
		}
	}

	if v, ok := raw["sync_schedule"]; ok {
		s, isStr := v.(string)
		switch {
		case !isStr:
			r.errorf("sync_schedule", "must be a string")
		case !Schedule(s).Valid():
			r.errorf("sync_schedule", "%q is not one of %s", s, scheduleList())
		}
	}

	if v, ok := raw["sync_time"]; ok {
		s, isStr := v.(string)
		switch {
		case !isStr:
			r.errorf("sync_time", "must be a string")
		case !syncTimeRegex.MatchString(s):
			r.errorf("sync_time", "%q is not a valid HH:MM time", s)
		}
	}

	if v, ok := raw["days_back"]; ok {
		n, isNum := v.(float64)
		switch {
		case !isNum:
			r.errorf("days_back", "must be a number")
		case n != math.Trunc(n):
			r.errorf("days_back", "must be a whole number of days")
		case n < 1:
			r.errorf("days_back", "must be at least 1")
		case n > MaxDaysBack:
			r.errorf("days_back", "must be at most %d", MaxDaysBack)
		case n > maxDaysBack:
			r.warnf("days_back", "%d days is a long window; syncs may be slow", int(n))
		}
	}

	var unknown []string
	for key := range raw {
		if !slices.Contains(Keys, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		r.warnf(key, "unknown key is ignored by the application")
	}

	return r
}

// ValidateConfig runs Validate on the JSON form of cfg.
func ValidateConfig(cfg Config) (ValidationResult, error) {
	data, err := Encode(cfg)
	if err != nil {
		return ValidationResult{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ValidationResult{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return Validate(raw), nil
}

func scheduleList() string {
	names := make([]string, len(Schedules))
	for i, s := range Schedules {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
