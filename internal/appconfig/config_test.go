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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.MoySkladToken)
	assert.Equal(t, "credentials.json", cfg.GoogleCredentialsFile)
	assert.Equal(t, "Финансовый отчёт", cfg.SpreadsheetName)
	assert.Equal(t, ScheduleDaily, cfg.SyncSchedule)
	assert.Equal(t, "09:00", cfg.SyncTime)
	assert.Equal(t, 30, cfg.DaysBack)
}

func TestScheduleValid(t *testing.T) {
	for _, s := range Schedules {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Schedule("hourly").Valid())
	assert.False(t, Schedule("").Valid())
}

func TestEncode(t *testing.T) {
	data, err := Encode(Default())
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n    \"moysklad_token\": \"\",\n"), "four-space indent, key order kept")
	assert.Contains(t, text, "Финансовый отчёт", "non-ASCII is not escaped")
	assert.True(t, strings.HasSuffix(text, "}\n"))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, len(Keys))
	for _, key := range Keys {
		assert.Contains(t, raw, key)
	}
}

func TestCreateNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, CreateNew(path, Default()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// A second create never touches the existing file.
	require.NoError(t, os.WriteFile(path, []byte(`{"days_back": 7}`), 0600))
	err = CreateNew(path, Default())
	assert.ErrorIs(t, err, ErrExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"days_back": 7}`, string(data))
}

func TestCreateNewMissingDir(t *testing.T) {
	err := CreateNew(filepath.Join(t.TempDir(), "nope", "config.json"), Default())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrExists)
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"moysklad_token": "abc", "days_back": 7}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.MoySkladToken)
	assert.Equal(t, 7, cfg.DaysBack)
	assert.Equal(t, "09:00", cfg.SyncTime)
}

func TestLoadRaw(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"days_back": 7}`), 0600))
	raw, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, float64(7), raw["days_back"])

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"days_back": `), 0600))
	_, err = LoadRaw(bad)
	assert.ErrorContains(t, err, "failed to parse")

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte(`null`), 0600))
	_, err = LoadRaw(null)
	assert.ErrorContains(t, err, "JSON object")

	_, err = LoadRaw(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", MaskToken(""))
	assert.Equal(t, "****", MaskToken("short"))
	assert.Equal(t, "****cdef", MaskToken("0123456789abcdef"))
}
