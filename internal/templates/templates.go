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

// Package templates holds the files reportctl scaffolds when a project does
// not ship its own.
package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/kballard/go-shellquote"
)

//go:embed env.example
var envTemplate []byte

//go:embed sync.yml.tmpl
var workflowTemplate string

// EnvTemplate returns the default .env content.
func EnvTemplate() []byte {
	return bytes.Clone(envTemplate)
}

// EnvKeys are the variables the default .env template declares.
var EnvKeys = []string{"MOYSKLAD_TOKEN", "GOOGLE_CREDENTIALS_FILE", "SPREADSHEET_NAME"}

// WorkflowData fills the sync workflow template.
type WorkflowData struct {
	// Cron is the schedule expression. Empty leaves only manual dispatch.
	Cron string

	PythonVersion   string
	Requirements    string
	Script          string
	ConfigFile      string
	CredentialsFile string
	SpreadsheetName string
	SyncSchedule    string
	SyncTime        string
	DaysBack        int
}

// GitHub expressions use ${{ }}, so the template uses [[ ]] instead.
var workflow = template.Must(template.New("sync.yml").
	Delims("[[", "]]").
	Funcs(template.FuncMap{"quote": quote}).
	Option("missingkey=error").
	Parse(workflowTemplate))

// RenderWorkflow renders the scheduled sync workflow.
func RenderWorkflow(data WorkflowData) ([]byte, error) {
	if data.PythonVersion == "" {
		data.PythonVersion = "3.11"
	}
	if data.Script == "" {
		data.Script = "sync_script.py"
	}

	var buf bytes.Buffer
	if err := workflow.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render workflow: %w", err)
	}
	return buf.Bytes(), nil
}

// quote makes a value safe as a single shell word.
func quote(s string) string {
	return shellquote.Join(s)
}
