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

// Package config loads reportctl's own settings: where the virtual
// environment lives, which interpreter to look for, and the names of the
// files the installer scaffolds.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// ProjectFileName is the optional per-project settings file.
const ProjectFileName = ".reportctl.yaml"

// PythonSettings controls interpreter discovery.
type PythonSettings struct {
	// Candidates are tried in order with exec.LookPath.
	Candidates []string `yaml:"candidates"`

	// MinVersion is the oldest acceptable "major.minor".
	MinVersion string `yaml:"min_version"`
}

// EnvSettings controls .env scaffolding.
type EnvSettings struct {
	File string `yaml:"file"`

	// Templates are glob patterns (brace expansion allowed) relative to the
	// project directory. The first match is copied to File.
	Templates []string `yaml:"templates"`
}

// Settings is the merged reportctl configuration.
type Settings struct {
	Python          PythonSettings `yaml:"python"`
	VenvDir         string         `yaml:"venv_dir"`
	Requirements    string         `yaml:"requirements"`
	UpgradePip      bool           `yaml:"upgrade_pip"`
	PipTimeout      time.Duration  `yaml:"pip_timeout"`
	Env             EnvSettings    `yaml:"env"`
	ConfigFile      string         `yaml:"config_file"`
	CredentialsFile string         `yaml:"credentials_file"`
	WorkflowsDir    string         `yaml:"workflows_dir"`
	WorkflowFile    string         `yaml:"workflow_file"`
	AppEntry        string         `yaml:"app_entry"`
}

// Default returns the built-in settings. They match the layout the
// reporting application expects.
func Default() *Settings {
	return &Settings{
		Python: PythonSettings{
			Candidates: []string{"python3", "python"},
			MinVersion: "3.8",
		},
		VenvDir:      "venv",
		Requirements: "requirements.txt",
		UpgradePip:   true,
		PipTimeout:   15 * time.Minute,
		Env: EnvSettings{
			File:      ".env",
			Templates: []string{".env.{example,template,sample}", "env.example"},
		},
		ConfigFile:      "config.json",
		CredentialsFile: "credentials.json",
		WorkflowsDir:    filepath.Join(".github", "workflows"),
		WorkflowFile:    "sync.yml",
		AppEntry:        "app.py",
	}
}

// Load merges settings in precedence order: defaults, user settings file,
// project settings file, environment. If explicitPath is set it replaces the
// project file lookup and must exist.
func Load(projectDir, explicitPath string) (*Settings, error) {
	s := Default()

	if userPath, err := UserSettingsPath(); err == nil {
		if err := s.mergeFileIfExists(userPath); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			if os.IsNotExist(err) {
				return nil, &reporterrors.NotFoundError{Resource: "settings file", ID: explicitPath}
			}
			return nil, &reporterrors.ConfigError{Key: "config_file", Reason: "cannot stat settings file", Cause: err}
		}
		if err := s.mergeFile(explicitPath); err != nil {
			return nil, err
		}
	} else if err := s.mergeFileIfExists(filepath.Join(projectDir, ProjectFileName)); err != nil {
		return nil, err
	}

	s.applyEnv()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) mergeFileIfExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return s.mergeFile(path)
}

// mergeFile decodes a YAML file over the current values. Keys absent from
// the file keep their previous value.
func (s *Settings) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &reporterrors.ConfigError{Key: "settings", Reason: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return &reporterrors.ConfigError{Key: "settings", Reason: fmt.Sprintf("failed to parse %s", path), Cause: err}
	}
	return nil
}

// applyEnv applies REPORTCTL_* overrides.
func (s *Settings) applyEnv() {
	if v := os.Getenv("REPORTCTL_PYTHON"); v != "" {
		s.Python.Candidates = []string{v}
	}
	if v := os.Getenv("REPORTCTL_VENV_DIR"); v != "" {
		s.VenvDir = v
	}
	if v := os.Getenv("REPORTCTL_REQUIREMENTS"); v != "" {
		s.Requirements = v
	}
}

// Validate checks that every scaffolded path is set and stays inside the
// project directory.
func (s *Settings) Validate() error {
	if len(s.Python.Candidates) == 0 {
		return &reporterrors.ConfigError{Key: "python.candidates", Reason: "at least one interpreter name is required"}
	}
	for _, c := range s.Python.Candidates {
		if strings.TrimSpace(c) == "" {
			return &reporterrors.ConfigError{Key: "python.candidates", Reason: "interpreter name must not be empty"}
		}
	}
	if s.PipTimeout < 0 {
		return &reporterrors.ConfigError{Key: "pip_timeout", Reason: "must not be negative"}
	}

	paths := []struct {
		key   string
		value string
	}{
		{"venv_dir", s.VenvDir},
		{"requirements", s.Requirements},
		{"env.file", s.Env.File},
		{"config_file", s.ConfigFile},
		{"credentials_file", s.CredentialsFile},
		{"workflows_dir", s.WorkflowsDir},
		{"workflow_file", s.WorkflowFile},
	}
	for _, p := range paths {
		if p.value == "" {
			return &reporterrors.ConfigError{Key: p.key, Reason: "must not be empty"}
		}
		if !filepath.IsLocal(p.value) {
			return &reporterrors.ConfigError{Key: p.key, Reason: fmt.Sprintf("%q must be a relative path inside the project", p.value)}
		}
	}
	if strings.ContainsAny(s.WorkflowFile, `/\`) {
		return &reporterrors.ConfigError{Key: "workflow_file", Reason: "must be a file name, not a path"}
	}
	return nil
}

// Resolve joins a settings path onto the project directory.
func Resolve(projectDir, rel string) string {
	return filepath.Join(projectDir, rel)
}
