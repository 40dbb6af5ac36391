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

// Package config implements "reportctl config", which inspects the
// application's config.json.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/commands/completion"
	"github.com/tombee/reportctl/internal/commands/shared"
	"github.com/tombee/reportctl/internal/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the app's config.json",
		Long: `Inspect the reporting app's config.json.

Subcommands:
  show     - Display config.json with the token masked
  path     - Show the config.json location
  validate - Check config.json for errors`,
		Annotations: map[string]string{
			"group": "configuration",
		},
	}

	show := newConfigShowCommand()
	cmd.AddCommand(show)
	cmd.AddCommand(newConfigPathCommand())
	cmd.AddCommand(NewValidateCommand())

	// If no subcommand provided, default to 'show'
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd, "")
	}

	return cmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display config.json",
		Long: `Display config.json.

The MoySklad token is masked. Use --query to extract values with a jq
expression, evaluated against the masked document.`,
		Example: `  # Show the whole file
  reportctl config show

  # Print the spreadsheet name
  reportctl config show --query .spreadsheet_name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, query)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "jq expression to evaluate")
	_ = cmd.RegisterFlagCompletionFunc("query", completion.CompleteConfigKeys)

	return cmd
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config.json location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// resolveConfigPath returns the absolute config.json path for the project.
func resolveConfigPath() (string, error) {
	dir, err := shared.ProjectDir()
	if err != nil {
		return "", shared.NewExecutionError("cannot determine project directory", err)
	}
	settings, err := config.Load(dir, shared.GetConfigPath())
	if err != nil {
		return "", shared.NewInvalidConfigError("cannot load reportctl settings", err)
	}
	return config.Resolve(dir, settings.ConfigFile), nil
}

// loadRaw reads config.json, mapping failures to exit errors.
func loadRaw(path string) (map[string]any, error) {
	raw, err := appconfig.LoadRaw(path)
	if err == nil {
		return raw, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil, &shared.ExitError{
			Code:      shared.ExitExecutionFailed,
			Message:   fmt.Sprintf("no config.json found at %s", path),
			Cause:     &missingConfigError{path: path},
			ErrorCode: shared.ErrorCodeConfigNotFound,
		}
	}
	return nil, &shared.ExitError{
		Code:      shared.ExitInvalidConfig,
		Message:   "cannot read config.json",
		Cause:     err,
		ErrorCode: shared.ErrorCodeInvalidJSON,
	}
}

// missingConfigError carries the install suggestion for a missing file.
type missingConfigError struct {
	path string
}

func (e *missingConfigError) Error() string       { return "file does not exist" }
func (e *missingConfigError) IsUserVisible() bool { return true }
func (e *missingConfigError) UserMessage() string { return "config.json not found at " + e.path }
func (e *missingConfigError) Suggestion() string {
	return "Run 'reportctl install' to create config.json with default settings"
}

func runConfigShow(cmd *cobra.Command, query string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	raw, err := loadRaw(path)
	if err != nil {
		return err
	}

	masked := appconfig.Masked(raw)
	out := cmd.OutOrStdout()

	if query != "" {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		result, err := appconfig.Query(ctx, masked, query)
		if err != nil {
			return shared.NewExecutionError("query failed", err)
		}
		return printQueryResult(out, result)
	}

	if shared.GetJSON() {
		return shared.EmitJSONTo(out, masked)
	}
	return outputConfigYAML(out, path, masked)
}

// printQueryResult prints strings raw, like jq -r, and anything else as JSON.
func printQueryResult(w io.Writer, result any) error {
	if s, ok := result.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	return shared.EmitJSONTo(w, result)
}

// outputConfigYAML outputs config in YAML format
func outputConfigYAML(w io.Writer, path string, cfg map[string]any) error {
	fmt.Fprintf(w, "Configuration: %s\n", path)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return encoder.Close()
}
