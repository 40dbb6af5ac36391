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

// Package diagnostics implements "reportctl doctor".
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/reportctl/internal/appconfig"
	"github.com/tombee/reportctl/internal/commands/shared"
	"github.com/tombee/reportctl/internal/config"
	"github.com/tombee/reportctl/internal/credentials"
	"github.com/tombee/reportctl/internal/envfile"
	"github.com/tombee/reportctl/internal/log"
	"github.com/tombee/reportctl/internal/pyenv"
	"github.com/tombee/reportctl/internal/templates"
)

// Replaced in tests.
var (
	lookPath  = exec.LookPath
	newRunner = func(logger *slog.Logger) pyenv.Runner { return pyenv.NewExecRunner(logger) }
)

const doctorTimeout = 30 * time.Second

// CheckStatus is the outcome of one doctor check.
type CheckStatus string

const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// Check is one line of the health report.
type Check struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Path     string      `json:"path,omitempty"`
	Message  string      `json:"message"`
	Detail   []string    `json:"detail,omitempty"`
	Fix      string      `json:"fix,omitempty"`
	Required bool        `json:"required"`
}

// DoctorResult contains the overall health check results
type DoctorResult struct {
	shared.JSONResponse
	ProjectDir      string   `json:"project_dir"`
	Checks          []Check  `json:"checks"`
	Recommendations []string `json:"recommendations"`
	OverallHealthy  bool     `json:"overall_healthy"`
}

func (r *DoctorResult) add(c Check) {
	r.Checks = append(r.Checks, c)
	if c.Status == CheckFail && c.Required {
		r.OverallHealthy = false
	}
	if c.Fix != "" && c.Status != CheckOK {
		r.Recommendations = append(r.Recommendations, c.Fix)
	}
}

// NewDoctorCommand creates the doctor command
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "doctor",
		Annotations: map[string]string{
			"group": "diagnostics",
		},
		Short: "Check the project setup",
		Long: `Check that the project is ready to run the reporting app.

This command checks:
  - A Python 3 interpreter is on PATH
  - The virtual environment exists and its interpreter runs
  - requirements.txt is present
  - .env parses and has no empty template keys
  - credentials.json looks like a service account key
  - config.json is valid
  - The CI workflow directory exists

Nothing is created or changed. The exit status is 1 when a required check
fails.`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}

	return cmd
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	dir, err := shared.ProjectDir()
	if err != nil {
		return shared.NewExecutionError("cannot determine project directory", err)
	}
	settings, err := config.Load(dir, shared.GetConfigPath())
	if err != nil {
		return shared.NewInvalidConfigError("cannot load reportctl settings", err)
	}

	logger := shared.NewLogger()
	d := &doctor{
		dir:      dir,
		settings: settings,
		runner:   newRunner(logger),
	}
	result := d.run(ctx)

	checkLogger := log.WithComponent(logger, "doctor")
	for _, c := range result.Checks {
		checkLogger.Debug("check finished",
			slog.String("check", c.Name),
			slog.String("status", string(c.Status)))
	}

	out := cmd.OutOrStdout()
	if shared.GetJSON() {
		if err := shared.EmitJSONTo(out, result); err != nil {
			return err
		}
		if !result.OverallHealthy {
			return shared.SilentExit(shared.ExitExecutionFailed)
		}
		return nil
	}

	outputDoctorText(out, result)
	if !result.OverallHealthy {
		return shared.NewExecutionError("one or more required checks failed", nil)
	}
	return nil
}

type doctor struct {
	dir      string
	settings *config.Settings
	runner   pyenv.Runner
}

func (d *doctor) path(rel string) string {
	return config.Resolve(d.dir, rel)
}

func (d *doctor) run(ctx context.Context) DoctorResult {
	result := DoctorResult{
		JSONResponse:    shared.NewJSONResponse("doctor", true),
		ProjectDir:      d.dir,
		Recommendations: []string{},
		OverallHealthy:  true,
	}

	result.add(d.checkPython(ctx))
	result.add(d.checkVenv(ctx))
	result.add(d.checkRequirements())
	result.add(d.checkEnv())
	result.add(d.checkCredentials())
	result.add(d.checkConfig())
	result.add(d.checkWorkflowDir())

	result.Success = result.OverallHealthy
	return result
}

func (d *doctor) checkPython(ctx context.Context) Check {
	c := Check{Name: "python", Required: true}
	det := &pyenv.Detector{LookPath: lookPath, Runner: d.runner}
	in, err := det.Detect(ctx, d.settings.Python.Candidates, d.settings.Python.MinVersion)
	if err != nil {
		c.Status = CheckFail
		c.Message = err.Error()
		c.Fix = "Install Python 3 from https://www.python.org/downloads/"
		return c
	}
	c.Status = CheckOK
	c.Path = in.Path
	c.Message = fmt.Sprintf("%s %s", in.Name, in.Version)
	return c
}

func (d *doctor) checkVenv(ctx context.Context) Check {
	rel := d.settings.VenvDir
	c := Check{Name: "venv", Path: rel, Required: true, Fix: "Run 'reportctl install' to create the virtual environment"}
	venv := pyenv.Venv{Dir: d.path(rel)}

	switch {
	case !venv.Exists():
		c.Status = CheckFail
		c.Message = rel + " not found"
		return c
	case !venv.Valid():
		c.Status = CheckFail
		c.Message = rel + " is not a virtual environment (no pyvenv.cfg)"
		c.Fix = fmt.Sprintf("Remove %s and run 'reportctl install'", rel)
		return c
	}

	out, err := d.runner.Run(ctx, pyenv.Command{Name: venv.Python(), Args: []string{"--version"}, Timeout: 10 * time.Second})
	if err != nil {
		c.Status = CheckFail
		c.Message = "venv interpreter does not run"
		c.Detail = []string{err.Error()}
		c.Fix = fmt.Sprintf("Remove %s and run 'reportctl install' to recreate it", rel)
		return c
	}
	c.Status = CheckOK
	c.Message = strings.TrimSpace(string(out))
	return c
}

func (d *doctor) checkRequirements() Check {
	rel := d.settings.Requirements
	c := Check{Name: "requirements", Path: rel}
	if _, err := os.Stat(d.path(rel)); err != nil {
		c.Status = CheckWarn
		c.Message = rel + " not found"
		c.Fix = fmt.Sprintf("Add %s listing the app's dependencies", rel)
		return c
	}
	c.Status = CheckOK
	c.Message = "present"
	return c
}

func (d *doctor) checkEnv() Check {
	rel := d.settings.Env.File
	c := Check{Name: "env", Path: rel}

	actual, err := envfile.Read(d.path(rel))
	if errors.Is(err, os.ErrNotExist) {
		c.Status = CheckWarn
		c.Message = rel + " not found"
		c.Fix = "Run 'reportctl install' to create " + rel
		return c
	}
	if err != nil {
		c.Status = CheckWarn
		c.Message = rel + " cannot be parsed"
		c.Detail = []string{err.Error()}
		c.Fix = "Fix the syntax of " + rel
		return c
	}

	tmpl, err := d.envTemplate()
	if err != nil {
		c.Status = CheckWarn
		c.Message = "cannot read the .env template"
		c.Detail = []string{err.Error()}
		return c
	}

	if empty := envfile.EmptyKeys(tmpl, actual); len(empty) > 0 {
		c.Status = CheckWarn
		c.Message = "empty values: " + strings.Join(empty, ", ")
		c.Fix = fmt.Sprintf("Fill in %s in %s", strings.Join(empty, ", "), rel)
		return c
	}
	c.Status = CheckOK
	c.Message = fmt.Sprintf("%d variables set", len(actual))
	return c
}

// envTemplate returns the project's .env template, or the built-in one.
func (d *doctor) envTemplate() (map[string]string, error) {
	path, err := envfile.FindTemplate(d.dir, d.settings.Env.Templates)
	if err != nil {
		return nil, err
	}
	if path != "" {
		return envfile.Read(path)
	}
	return envfile.Parse(templates.EnvTemplate())
}

func (d *doctor) checkCredentials() Check {
	rel := d.settings.CredentialsFile
	c := Check{Name: "credentials", Path: rel}

	r, err := credentials.Inspect(d.path(rel))
	switch {
	case err != nil:
		c.Status = CheckWarn
		c.Message = "cannot read " + rel
		c.Detail = []string{err.Error()}
	case !r.Exists:
		c.Status = CheckWarn
		c.Message = rel + " not found"
		c.Detail = credentials.Guidance(rel)
		c.Fix = fmt.Sprintf("Download a Google service account key to %s", rel)
	case !r.Valid:
		c.Status = CheckWarn
		c.Message = "not a service account key"
		c.Detail = r.Problems
		c.Fix = fmt.Sprintf("Replace %s with a service account JSON key", rel)
	default:
		c.Status = CheckOK
		c.Message = r.ClientEmail
		c.Fix = fmt.Sprintf("Share the spreadsheet with %s", r.ClientEmail)
	}
	return c
}

func (d *doctor) checkConfig() Check {
	rel := d.settings.ConfigFile
	c := Check{Name: "config", Path: rel, Required: true}

	raw, err := appconfig.LoadRaw(d.path(rel))
	if errors.Is(err, os.ErrNotExist) {
		c.Status = CheckFail
		c.Message = rel + " not found"
		c.Fix = "Run 'reportctl install' to create " + rel
		return c
	}
	if err != nil {
		c.Status = CheckFail
		c.Message = rel + " cannot be parsed"
		c.Detail = []string{err.Error()}
		c.Fix = "Fix the JSON syntax of " + rel
		return c
	}

	v := appconfig.Validate(raw)
	for _, issue := range v.Errors {
		c.Detail = append(c.Detail, issue.String())
	}
	for _, issue := range v.Warnings {
		c.Detail = append(c.Detail, issue.String())
	}
	switch {
	case !v.Valid():
		c.Status = CheckFail
		c.Message = fmt.Sprintf("%d error(s)", len(v.Errors))
		c.Fix = "Run 'reportctl config validate' and fix the reported keys"
	case len(v.Warnings) > 0:
		c.Status = CheckWarn
		c.Message = fmt.Sprintf("valid with %d warning(s)", len(v.Warnings))
		c.Fix = "Run 'reportctl config validate' for details"
	default:
		c.Status = CheckOK
		c.Message = "valid"
	}
	return c
}

func (d *doctor) checkWorkflowDir() Check {
	rel := d.settings.WorkflowsDir
	c := Check{Name: "workflow", Path: rel}
	info, err := os.Stat(d.path(rel))
	switch {
	case err != nil:
		c.Status = CheckWarn
		c.Message = rel + " not found"
		c.Fix = "Run 'reportctl install --ci-workflow' to add a scheduled sync"
	case !info.IsDir():
		c.Status = CheckWarn
		c.Message = rel + " is not a directory"
	default:
		c.Status = CheckOK
		c.Message = "present"
	}
	return c
}

// outputDoctorText outputs results in human-readable format
func outputDoctorText(w io.Writer, result DoctorResult) {
	fmt.Fprintln(w, shared.Header.Render("reportctl health check"))
	fmt.Fprintln(w, shared.RenderLabel(result.ProjectDir))
	fmt.Fprintln(w)

	for _, c := range result.Checks {
		line := fmt.Sprintf("%-13s %s", c.Name, c.Message)
		switch c.Status {
		case CheckOK:
			fmt.Fprintln(w, shared.RenderOK(line))
		case CheckWarn:
			fmt.Fprintln(w, shared.RenderWarn(line))
		default:
			fmt.Fprintln(w, shared.RenderError(line))
		}
		if c.Status != CheckOK {
			for _, l := range c.Detail {
				fmt.Fprintln(w, "    "+shared.RenderLabel(l))
			}
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, shared.Bold.Render("Recommendations:"))
		for _, r := range result.Recommendations {
			fmt.Fprintln(w, "  "+shared.RenderInfo(r))
		}
	}

	fmt.Fprintln(w)
	if result.OverallHealthy {
		fmt.Fprintln(w, shared.RenderStatus(true, "HEALTHY"))
	} else {
		fmt.Fprintln(w, shared.RenderStatus(false, "UNHEALTHY"))
	}
}
