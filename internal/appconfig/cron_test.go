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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSpec(t *testing.T) {
	tests := []struct {
		schedule Schedule
		time     string
		want     string
		ok       bool
		wantErr  bool
	}{
		{ScheduleDaily, "09:00", "0 9 * * *", true, false},
		{ScheduleDaily, "23:45", "45 23 * * *", true, false},
		{ScheduleWeekly, "06:30", "30 6 * * 1", true, false},
		{ScheduleManual, "bogus", "", false, false},
		{ScheduleDaily, "9am", "", false, true},
		{Schedule("hourly"), "09:00", "", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.schedule)+" "+tt.time, func(t *testing.T) {
			cfg := Default()
			cfg.SyncSchedule = tt.schedule
			cfg.SyncTime = tt.time

			spec, ok, err := CronSpec(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, spec)
		})
	}
}
