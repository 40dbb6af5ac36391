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

package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnvTemplate(t *testing.T) {
	content := string(EnvTemplate())
	for _, key := range EnvKeys {
		assert.Contains(t, content, key+"=")
	}

	// Callers get a copy.
	b := EnvTemplate()
	b[0] = 'X'
	assert.NotEqual(t, b[0], EnvTemplate()[0])
}

func sampleData() WorkflowData {
	return WorkflowData{
		Cron:            "0 9 * * *",
		Requirements:    "requirements.txt",
		ConfigFile:      "config.json",
		CredentialsFile: "credentials.json",
		SpreadsheetName: "Финансовый отчёт",
		SyncSchedule:    "daily",
		SyncTime:        "09:00",
		DaysBack:        30,
	}
}

func TestRenderWorkflow(t *testing.T) {
	out, err := RenderWorkflow(sampleData())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, `- cron: "0 9 * * *"`)
	assert.Contains(t, text, "workflow_dispatch:")
	assert.Contains(t, text, `python-version: "3.11"`)
	assert.Contains(t, text, "pip install -r requirements.txt")
	assert.Contains(t, text, "python sync_script.py")
	assert.Contains(t, text, "${{ secrets.MOYSKLAD_TOKEN }}", "GitHub expressions pass through")
	assert.Contains(t, text, "--argjson days 30")
	assert.Contains(t, text, "Финансовый")

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc), "rendered workflow is valid YAML")
	assert.Equal(t, "MoySklad sync", doc["name"])

	on, ok := doc["on"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, on, "schedule")
	assert.Contains(t, on, "workflow_dispatch")
}

func TestRenderWorkflowManual(t *testing.T) {
	data := sampleData()
	data.Cron = ""
	data.Script = "app_sync.py"
	data.PythonVersion = "3.12"

	out, err := RenderWorkflow(data)
	require.NoError(t, err)
	text := string(out)

	assert.NotContains(t, text, "schedule:")
	assert.NotContains(t, text, "cron:")
	assert.Contains(t, text, "python app_sync.py")
	assert.Contains(t, text, `python-version: "3.12"`)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	on := doc["on"].(map[string]any)
	assert.NotContains(t, on, "schedule")
}

func TestRenderWorkflowYAMLSensitivePaths(t *testing.T) {
	data := sampleData()
	data.Requirements = "deps/base: #1.txt"
	data.Script = "jobs/sync: main.py"

	out, err := RenderWorkflow(data)
	require.NoError(t, err)

	var doc struct {
		Jobs map[string]struct {
			Steps []struct {
				Name string `yaml:"name"`
				Run  string `yaml:"run"`
			} `yaml:"steps"`
		} `yaml:"jobs"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))

	runs := map[string]string{}
	for _, s := range doc.Jobs["sync"].Steps {
		runs[s.Name] = s.Run
	}
	assert.Equal(t, "pip install -r 'deps/base: #1.txt'\n", runs["Install dependencies"])
	assert.Equal(t, "python 'jobs/sync: main.py'\n", runs["Sync"])
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "config.json", quote("config.json"))
	q := quote("my report; rm -rf /")
	assert.NotEqual(t, "my report; rm -rf /", q)
}
