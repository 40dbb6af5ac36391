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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// isolate points the user settings lookup at an empty directory and clears
// environment overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("REPORTCTL_PYTHON", "")
	t.Setenv("REPORTCTL_VENV_DIR", "")
	t.Setenv("REPORTCTL_REQUIREMENTS", "")
}

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, []string{"python3", "python"}, s.Python.Candidates)
	assert.Equal(t, "3.8", s.Python.MinVersion)
	assert.Equal(t, "venv", s.VenvDir)
	assert.Equal(t, "requirements.txt", s.Requirements)
	assert.Equal(t, ".env", s.Env.File)
	assert.Equal(t, "config.json", s.ConfigFile)
	assert.Equal(t, "credentials.json", s.CredentialsFile)
	assert.Equal(t, filepath.Join(".github", "workflows"), s.WorkflowsDir)
	assert.True(t, s.UpgradePip)
	require.NoError(t, s.Validate())
}

func TestLoadWithoutFiles(t *testing.T) {
	isolate(t)

	s, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadProjectFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	content := `
venv_dir: .venv
upgrade_pip: false
pip_timeout: 2m
python:
  candidates: [python3.12]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0644))

	s, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, ".venv", s.VenvDir)
	assert.False(t, s.UpgradePip)
	assert.Equal(t, 2*time.Minute, s.PipTimeout)
	assert.Equal(t, []string{"python3.12"}, s.Python.Candidates)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "3.8", s.Python.MinVersion)
	assert.Equal(t, "config.json", s.ConfigFile)
}

func TestLoadLayering(t *testing.T) {
	isolate(t)
	xdg := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "reportctl"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "reportctl", "settings.yaml"),
		[]byte("venv_dir: user-venv\nrequirements: user-req.txt\n"), 0600))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("venv_dir: project-venv\n"), 0644))

	t.Setenv("REPORTCTL_REQUIREMENTS", "env-req.txt")

	s, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "project-venv", s.VenvDir, "project file overrides user file")
	assert.Equal(t, "env-req.txt", s.Requirements, "environment overrides files")
}

func TestLoadExplicitPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := Load(dir, filepath.Join(dir, "missing.yaml"))
	var notFound *reporterrors.NotFoundError
	require.ErrorAs(t, err, &notFound)

	explicit := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("config_file: report.json\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("config_file: ignored.json\n"), 0644))

	s, err := Load(dir, explicit)
	require.NoError(t, err)
	assert.Equal(t, "report.json", s.ConfigFile)
}

func TestLoadInvalidYAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("venv_dir: [unclosed\n"), 0644))

	_, err := Load(dir, "")
	var cfgErr *reporterrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "settings", cfgErr.Key)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantKey string
	}{
		{name: "defaults are valid", mutate: func(s *Settings) {}},
		{name: "no candidates", mutate: func(s *Settings) { s.Python.Candidates = nil }, wantKey: "python.candidates"},
		{name: "blank candidate", mutate: func(s *Settings) { s.Python.Candidates = []string{" "} }, wantKey: "python.candidates"},
		{name: "empty venv", mutate: func(s *Settings) { s.VenvDir = "" }, wantKey: "venv_dir"},
		{name: "escaping config", mutate: func(s *Settings) { s.ConfigFile = "../config.json" }, wantKey: "config_file"},
		{name: "absolute credentials", mutate: func(s *Settings) { s.CredentialsFile = "/etc/creds.json" }, wantKey: "credentials_file"},
		{name: "workflow file with dir", mutate: func(s *Settings) { s.WorkflowFile = "ci/sync.yml" }, wantKey: "workflow_file"},
		{name: "negative timeout", mutate: func(s *Settings) { s.PipTimeout = -time.Second }, wantKey: "pip_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *reporterrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "reportctl"), dir)

	path, err := UserSettingsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "reportctl", "settings.yaml"), path)
}

func TestProjectLock(t *testing.T) {
	dir := t.TempDir()
	lock := NewProjectLock(dir)

	assert.Equal(t, lock.Path(), NewProjectLock(dir).Path(), "lock path is stable per project")
	assert.NotEqual(t, lock.Path(), NewProjectLock(t.TempDir()).Path())

	ran := false
	require.NoError(t, lock.WithLock(func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	// Nothing is written into the project itself.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, lock.Unlock(), "unlock without lock is a no-op")
}

func TestProjectLockContention(t *testing.T) {
	defer SetLockTimeoutForTest(200 * time.Millisecond)()

	dir := t.TempDir()
	held := NewProjectLock(dir)
	require.NoError(t, held.Lock())
	defer held.Unlock()

	start := time.Now()
	err := NewProjectLock(dir).Lock()
	require.ErrorIs(t, err, ErrLockTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond, "waits for the timeout before giving up")

	ran := false
	err = NewProjectLock(dir).WithLock(func() error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, ran, "fn does not run without the lock")

	require.NoError(t, held.Unlock())
	assert.NoError(t, NewProjectLock(dir).WithLock(func() error { return nil }), "lock is free after unlock")
}
