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
	"fmt"
	"strconv"
	"strings"
)

// CronSpec returns the GitHub Actions cron expression for the configured
// schedule. Weekly runs on Mondays. ok is false for the manual schedule.
// Actions evaluates cron in UTC, so sync_time is taken as UTC.
func CronSpec(cfg Config) (spec string, ok bool, err error) {
	if cfg.SyncSchedule == ScheduleManual {
		return "", false, nil
	}
	if !cfg.SyncSchedule.Valid() {
		return "", false, fmt.Errorf("unknown sync_schedule %q", cfg.SyncSchedule)
	}

	hour, minute, err := parseSyncTime(cfg.SyncTime)
	if err != nil {
		return "", false, err
	}

	dow := "*"
	if cfg.SyncSchedule == ScheduleWeekly {
		dow = "1"
	}
	return fmt.Sprintf("%d %d * * %s", minute, hour, dow), true, nil
}

func parseSyncTime(s string) (hour, minute int, err error) {
	if !syncTimeRegex.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid sync_time %q, expected HH:MM", s)
	}
	h, m, _ := strings.Cut(s, ":")
	hour, _ = strconv.Atoi(h)
	minute, _ = strconv.Atoi(m)
	return hour, minute, nil
}
