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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/config"
	"github.com/tombee/reportctl/internal/log"
	"github.com/tombee/reportctl/internal/testing/mock"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

func newWorkspace(t *testing.T, fake *mock.Python, onPath ...string) *Workspace {
	t.Helper()
	return &Workspace{
		Dir:      t.TempDir(),
		Settings: config.Default(),
		Runner:   fake,
		LookPath: mock.LookPath(onPath...),
		Logger:   log.Discard(),
	}
}

func writeFile(t *testing.T, ws *Workspace, rel, content string) {
	t.Helper()
	path := ws.Path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func statuses(r *Report) map[string]Status {
	out := make(map[string]Status, len(r.Results))
	for _, res := range r.Results {
		out[res.Step] = res.Status
	}
	return out
}

func run(t *testing.T, ws *Workspace, opts Options, failFast bool) *Report {
	t.Helper()
	p := &Pipeline{Steps: DefaultSteps(ws.Settings, opts), FailFast: failFast}
	return p.Run(context.Background(), ws)
}

func TestPipeline_FreshProject(t *testing.T) {
	fake := mock.NewPython("3.11.4")
	ws := newWorkspace(t, fake, "python3")
	writeFile(t, ws, "requirements.txt", "gspread\npandas\n")

	var seen []string
	p := &Pipeline{
		Steps:    DefaultSteps(ws.Settings, Options{}),
		OnResult: func(r Result) { seen = append(seen, r.Step) },
	}
	report := p.Run(context.Background(), ws)

	assert.Equal(t, map[string]Status{
		StepPython:       StatusOK,
		StepVenv:         StatusCreated,
		StepDependencies: StatusOK,
		StepEnvFile:      StatusCreated,
		StepCredentials:  StatusWarning,
		StepAppConfig:    StatusCreated,
		StepWorkflowDir:  StatusCreated,
	}, statuses(report))
	assert.Equal(t, []string{StepPython, StepVenv, StepDependencies, StepEnvFile, StepCredentials, StepAppConfig, StepWorkflowDir}, seen)
	assert.True(t, report.Succeeded())
	assert.NotEmpty(t, report.RunID)

	// config.json is a flat object with exactly the six keys.
	data, err := os.ReadFile(ws.Path("config.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 6)
	for _, key := range appconfig.Keys {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "credentials.json", raw["google_credentials_file"])
	assert.Equal(t, float64(30), raw["days_back"])

	env, err := os.ReadFile(ws.Path(".env"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "MOYSKLAD_TOKEN=")

	info, err := os.Stat(ws.Path(filepath.Join(".github", "workflows")))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	pip := fake.CallsMatching("-m", "pip", "-r")
	require.Len(t, pip, 1)
	assert.Equal(t, ws.Venv().Python(), pip[0].Name)
}

func TestPipeline_Idempotent(t *testing.T) {
	fake := mock.NewPython("3.11.4")
	ws := newWorkspace(t, fake, "python3")
	writeFile(t, ws, "requirements.txt", "gspread\n")

	first := run(t, ws, Options{}, false)
	require.True(t, first.Succeeded())

	// The user edits the scaffolded files between runs.
	writeFile(t, ws, ".env", "MOYSKLAD_TOKEN=real\n")
	writeFile(t, ws, "config.json", `{"moysklad_token": "real", "google_credentials_file": "credentials.json", "spreadsheet_name": "S", "sync_schedule": "weekly", "sync_time": "07:00", "days_back": 7}`)
	cfgBefore, err := os.ReadFile(ws.Path("config.json"))
	require.NoError(t, err)
	venvCfgBefore, err := os.ReadFile(ws.Path(filepath.Join("venv", "pyvenv.cfg")))
	require.NoError(t, err)

	second := run(t, ws, Options{}, false)
	require.True(t, second.Succeeded())

	st := statuses(second)
	assert.Equal(t, StatusSkipped, st[StepVenv])
	assert.Equal(t, StatusSkipped, st[StepEnvFile])
	assert.Equal(t, StatusSkipped, st[StepAppConfig])
	assert.Equal(t, StatusSkipped, st[StepWorkflowDir])

	env, err := os.ReadFile(ws.Path(".env"))
	require.NoError(t, err)
	assert.Equal(t, "MOYSKLAD_TOKEN=real\n", string(env))

	cfgAfter, err := os.ReadFile(ws.Path("config.json"))
	require.NoError(t, err)
	assert.Equal(t, cfgBefore, cfgAfter)

	venvCfgAfter, err := os.ReadFile(ws.Path(filepath.Join("venv", "pyvenv.cfg")))
	require.NoError(t, err)
	assert.Equal(t, venvCfgBefore, venvCfgAfter)

	assert.Len(t, fake.CallsMatching("-m", "venv"), 1, "venv is created once")
}

func TestPipeline_MissingPythonWritesNothing(t *testing.T) {
	fake := mock.NewPython("3.11.4")
	ws := newWorkspace(t, fake) // nothing on PATH

	report := run(t, ws, Options{CIWorkflow: true}, false)

	assert.True(t, report.Aborted)
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.True(t, report.Results[0].Fatal)

	missing, ok := report.RuntimeMissing()
	require.True(t, ok)
	var notFound *reporterrors.NotFoundError
	assert.ErrorAs(t, missing, &notFound)
	assert.NotEmpty(t, reporterrors.SuggestionOf(report.Results[0].Err))

	entries, err := os.ReadDir(ws.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no files are written when Python is missing")
	assert.Empty(t, fake.Calls())
	assert.Nil(t, report.NextSteps(ws))
}

func TestPipeline_FailureLoggedAtDebug(t *testing.T) {
	tests := []struct {
		level   string
		wantLog bool
	}{
		{"warn", false},
		{"debug", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			ws := newWorkspace(t, mock.NewPython("3.11.4")) // nothing on PATH
			ws.Logger = log.New(&log.Config{Level: tt.level, Format: log.FormatText, Output: &buf})

			report := run(t, ws, Options{}, false)
			require.True(t, report.Aborted)

			if tt.wantLog {
				assert.Contains(t, buf.String(), "step failed")
			} else {
				assert.Empty(t, buf.String(), "the printed result is the only report of a missing runtime")
			}
		})
	}
}

func TestPipeline_PythonTooOld(t *testing.T) {
	ws := newWorkspace(t, mock.NewPython("3.6.9"), "python3")

	report := run(t, ws, Options{}, false)
	require.Len(t, report.Results, 1)

	missing, ok := report.RuntimeMissing()
	require.True(t, ok)
	assert.Contains(t, missing.Error(), "3.8 or newer")
	assert.Contains(t, missing.Error(), "python3 3.6.9")
}

func TestPipeline_CredentialsAreAdvisory(t *testing.T) {
	ws := newWorkspace(t, mock.NewPython("3.11.4"), "python3")
	writeFile(t, ws, "requirements.txt", "gspread\n")

	report := run(t, ws, Options{}, false)
	res, ok := report.Result(StepCredentials)
	require.True(t, ok)

	assert.Equal(t, StatusWarning, res.Status)
	assert.Contains(t, res.Message, "credentials.json not found")
	assert.NotEmpty(t, res.Detail, "setup instructions are included")
	assert.NoError(t, res.Err)
	assert.True(t, report.Succeeded())
}

func TestPipeline_DependencyFailureContinues(t *testing.T) {
	fake := mock.NewPython("3.11.4")
	fake.PipErr = errors.New("ERROR: No matching distribution found for gspread==99")
	ws := newWorkspace(t, fake, "python3")
	writeFile(t, ws, "requirements.txt", "gspread==99\n")

	report := run(t, ws, Options{}, false)

	assert.False(t, report.Aborted)
	assert.False(t, report.Succeeded())
	st := statuses(report)
	assert.Equal(t, StatusFailed, st[StepDependencies])
	assert.Equal(t, StatusCreated, st[StepAppConfig], "later steps still run")

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Detail[0], "No matching distribution")

	next := report.NextSteps(ws)
	assert.NotContains(t, next, "Start the app: streamlit run app.py")
}

func TestPipeline_FailFast(t *testing.T) {
	fake := mock.NewPython("3.11.4")
	fake.PipErr = errors.New("boom")
	ws := newWorkspace(t, fake, "python3")
	writeFile(t, ws, "requirements.txt", "gspread\n")

	report := run(t, ws, Options{}, true)

	assert.True(t, report.Aborted)
	require.Len(t, report.Results, 3)
	_, err := os.Stat(ws.Path("config.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestPipeline_DryRun(t *testing.T) {
	fake := mock.NewPython("3.11.4")
	ws := newWorkspace(t, fake, "python3")
	ws.DryRun = true
	writeFile(t, ws, "requirements.txt", "gspread\n")

	report := run(t, ws, Options{CIWorkflow: true}, false)

	assert.Equal(t, map[string]Status{
		StepPython:       StatusOK,
		StepVenv:         StatusPlanned,
		StepDependencies: StatusPlanned,
		StepEnvFile:      StatusPlanned,
		StepCredentials:  StatusWarning,
		StepAppConfig:    StatusPlanned,
		StepWorkflowDir:  StatusPlanned,
	}, statuses(report))

	res, _ := report.Result(StepDependencies)
	assert.Equal(t, ActionRun, res.Action)

	entries, err := os.ReadDir(ws.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only requirements.txt exists")
	assert.Len(t, fake.Calls(), 1, "only the version check runs")
}

func TestPipeline_ContextCancelled(t *testing.T) {
	ws := newWorkspace(t, mock.NewPython("3.11.4"), "python3")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{Steps: DefaultSteps(ws.Settings, Options{})}
	report := p.Run(ctx, ws)
	assert.True(t, report.Aborted)
	assert.Empty(t, report.Results)
}

func TestReport_NextSteps(t *testing.T) {
	ws := newWorkspace(t, mock.NewPython("3.11.4"), "python3")
	writeFile(t, ws, "requirements.txt", "gspread\n")

	report := run(t, ws, Options{}, false)
	next := report.NextSteps(ws)

	require.NotEmpty(t, next)
	assert.Equal(t, "Activate the virtual environment: "+ws.ActivateCommand(), next[0])
	assert.Contains(t, next, "Set moysklad_token in config.json")
	assert.Contains(t, next, "Download a Google service account key to credentials.json")
	assert.Equal(t, "Start the app: streamlit run app.py", next[len(next)-1])
}
