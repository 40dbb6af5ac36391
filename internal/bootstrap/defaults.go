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
	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/config"
)

// Options selects optional behavior of the default steps.
type Options struct {
	SkipDeps   bool
	CIWorkflow bool
	AskConfig  AskFunc

	// Schedule replaces the default sync_schedule of a new config.json.
	Schedule appconfig.Schedule
}

// DefaultSteps returns the install sequence.
func DefaultSteps(settings *config.Settings, opts Options) []Step {
	return []Step{
		&PythonStep{Candidates: settings.Python.Candidates, MinVersion: settings.Python.MinVersion},
		&VenvStep{},
		&DependenciesStep{Skip: opts.SkipDeps},
		&EnvFileStep{},
		&CredentialsStep{},
		&AppConfigStep{Ask: opts.AskConfig, Schedule: opts.Schedule},
		&WorkflowDirStep{Render: opts.CIWorkflow},
	}
}
