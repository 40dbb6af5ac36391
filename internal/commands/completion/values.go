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

package completion

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/commands/shared"
	"github.com/tombee/reportctl/internal/config"
)

// SafeCompletionWrapper wraps a completion function with panic recovery.
// Returns empty completion list on panic or error.
func SafeCompletionWrapper(fn func() ([]string, cobra.ShellCompDirective)) (results []string, directive cobra.ShellCompDirective) {
	results = []string{}
	directive = cobra.ShellCompDirectiveNoFileComp

	defer func() {
		if r := recover(); r != nil {
			results = []string{}
			directive = cobra.ShellCompDirectiveNoFileComp
		}
	}()

	results, directive = fn()
	if results == nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return results, directive
}

// CompletePython suggests interpreter names for --python from the project
// settings. Paths are completed by the shell.
func CompletePython(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		candidates := config.Default().Python.Candidates
		if dir, err := shared.ProjectDir(); err == nil {
			if s, err := config.Load(dir, shared.GetConfigPath()); err == nil {
				candidates = s.Python.Candidates
			}
		}
		return filterPrefix(candidates, toComplete), cobra.ShellCompDirectiveDefault
	})
}

// CompleteConfigKeys suggests jq paths for the config.json keys.
func CompleteConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		keys := make([]string, len(appconfig.Keys))
		for i, k := range appconfig.Keys {
			keys[i] = "." + k
		}
		return filterPrefix(keys, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// scheduleHelp describes each schedule in completion output.
var scheduleHelp = map[appconfig.Schedule]string{
	appconfig.ScheduleDaily:  "Sync every day at sync_time",
	appconfig.ScheduleWeekly: "Sync every Monday at sync_time",
	appconfig.ScheduleManual: "Only sync when started by hand",
}

// CompleteSchedules suggests sync_schedule values.
func CompleteSchedules(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(appconfig.Schedules))
		for i, s := range appconfig.Schedules {
			names[i] = string(s)
		}

		matches := filterPrefix(names, toComplete)
		for i, name := range matches {
			if help, ok := scheduleHelp[appconfig.Schedule(name)]; ok {
				matches[i] = name + "\t" + help
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	})
}

func filterPrefix(values []string, prefix string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}
