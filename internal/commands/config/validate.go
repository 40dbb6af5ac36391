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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/commands/shared"
)

// ValidationResponse is the JSON output of config validate.
type ValidationResponse struct {
	shared.JSONResponse
	Path     string            `json:"path"`
	Valid    bool              `json:"valid"`
	Errors   []appconfig.Issue `json:"errors"`
	Warnings []appconfig.Issue `json:"warnings"`
}

// NewValidateCommand creates the 'config validate' subcommand.
func NewValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate config.json",
		Long: `Validate config.json.

Checks performed:
  - All six keys are present with the right types
  - sync_schedule is daily, weekly or manual
  - sync_time is HH:MM
  - days_back is a whole number of at least 1

An empty moysklad_token, a days_back above 365 and unknown keys are
warnings. With --strict, warnings are treated as errors.`,
		Example: `  # Validate configuration
  reportctl config validate

  # Validate with warnings as errors
  reportctl config validate --strict

  # Get validation result as JSON
  reportctl config validate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, strict bool) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	var result appconfig.ValidationResult
	raw, err := appconfig.LoadRaw(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		_, err = loadRaw(path)
		return err
	case err != nil:
		result.Errors = []appconfig.Issue{{Key: "config.json", Message: err.Error()}}
	default:
		result = appconfig.Validate(raw)
	}

	failed := !result.Valid() || (strict && len(result.Warnings) > 0)

	out := cmd.OutOrStdout()
	if shared.GetJSON() {
		resp := ValidationResponse{
			JSONResponse: shared.NewJSONResponse("config validate", !failed),
			Path:         path,
			Valid:        result.Valid(),
			Errors:       nonNil(result.Errors),
			Warnings:     nonNil(result.Warnings),
		}
		if err := shared.EmitJSONTo(out, resp); err != nil {
			return err
		}
	} else {
		outputValidationText(out, result, strict)
	}

	if failed {
		if shared.GetJSON() {
			return shared.SilentExit(shared.ExitInvalidConfig)
		}
		if result.Valid() {
			return shared.NewInvalidConfigError("validation failed (strict mode: warnings treated as errors)", nil)
		}
		return shared.NewInvalidConfigError(fmt.Sprintf("%s has %d error(s)", path, len(result.Errors)), nil)
	}
	return nil
}

func outputValidationText(w io.Writer, result appconfig.ValidationResult, strict bool) {
	if result.Valid() {
		fmt.Fprintln(w, shared.RenderOK("Configuration is valid"))
	} else {
		fmt.Fprintln(w, shared.RenderError("Configuration validation failed"))
	}
	fmt.Fprintln(w)

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, shared.Header.Render("Errors:"))
		for _, issue := range result.Errors {
			fmt.Fprintf(w, "  %s %s\n", shared.StatusError.Render(shared.SymbolError), issue)
		}
		fmt.Fprintln(w)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, shared.Header.Render("Warnings:"))
		for _, issue := range result.Warnings {
			fmt.Fprintf(w, "  %s %s\n", shared.StatusWarn.Render(shared.SymbolWarn), issue)
		}
		fmt.Fprintln(w)
	}

	if result.Valid() && len(result.Warnings) == 0 {
		fmt.Fprintln(w, "No issues found.")
	}
}

func nonNil(issues []appconfig.Issue) []appconfig.Issue {
	if issues == nil {
		return []appconfig.Issue{}
	}
	return issues
}
