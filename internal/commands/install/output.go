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

package install

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tombee/reportctl/internal/bootstrap"
	"github.com/tombee/reportctl/internal/commands/shared"
	"github.com/tombee/reportctl/internal/pyenv"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// stepWidth aligns step names in status lines.
const stepWidth = 13

// printer writes live step lines and the closing summary.
type printer struct {
	w      io.Writer
	dir    string
	dryRun bool
	quiet  bool
	plan   *shared.DryRunOutput
}

func newPrinter(w io.Writer, dir string, dryRun, quiet bool) *printer {
	return &printer{w: w, dir: dir, dryRun: dryRun, quiet: quiet, plan: shared.NewDryRunOutput()}
}

func (p *printer) step(r bootstrap.Result) {
	if p.dryRun && r.Status != bootstrap.StatusFailed {
		p.plan.Add(dryRunAction(r), shared.PlaceholderPath(target(r), p.dir, "<project>"), r.Message)
		return
	}
	if p.quiet && r.Status != bootstrap.StatusFailed {
		return
	}

	line := fmt.Sprintf("%-*s %s", stepWidth, r.Step, r.Message)
	switch r.Status {
	case bootstrap.StatusOK, bootstrap.StatusCreated:
		fmt.Fprintln(p.w, shared.RenderOK(line))
	case bootstrap.StatusSkipped:
		fmt.Fprintln(p.w, shared.RenderSkip(line))
	case bootstrap.StatusWarning:
		fmt.Fprintln(p.w, shared.RenderWarn(line))
		p.detail(r.Detail)
	case bootstrap.StatusFailed:
		fmt.Fprintln(p.w, shared.RenderError(line))
		if !r.Fatal {
			p.detail(r.Detail)
			if r.Err != nil {
				p.detail([]string{r.Err.Error()})
			}
		}
	default:
		fmt.Fprintln(p.w, shared.RenderInfo(line))
	}
}

func (p *printer) detail(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(p.w, "    "+shared.RenderLabel(l))
	}
}

func (p *printer) summary(report *bootstrap.Report, ws *bootstrap.Workspace) {
	if p.dryRun {
		fmt.Fprintln(p.w, p.plan.String())
		return
	}
	if _, missing := report.RuntimeMissing(); missing {
		return
	}
	if p.quiet {
		return
	}

	counts := map[bootstrap.Status]int{}
	for _, r := range report.Results {
		counts[r.Status]++
	}

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, shared.Header.Render("Summary"))
	fmt.Fprintf(p.w, "  %d created, %d ok, %d unchanged, %d warnings, %d failed\n",
		counts[bootstrap.StatusCreated], counts[bootstrap.StatusOK], counts[bootstrap.StatusSkipped],
		counts[bootstrap.StatusWarning], counts[bootstrap.StatusFailed])

	next := report.NextSteps(ws)
	if len(next) == 0 {
		return
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, shared.Bold.Render("Next steps:"))
	for i, s := range next {
		fmt.Fprintf(p.w, "  %d. %s\n", i+1, s)
	}
}

func dryRunAction(r bootstrap.Result) shared.DryRunAction {
	if r.Status == bootstrap.StatusSkipped {
		return shared.DryRunActionKeep
	}
	switch r.Action {
	case bootstrap.ActionCreate:
		return shared.DryRunActionCreate
	case bootstrap.ActionRun:
		return shared.DryRunActionRun
	case bootstrap.ActionCheck:
		return shared.DryRunActionCheck
	}
	// Warnings and failures in a dry run come from read-only checks.
	return shared.DryRunActionCheck
}

func target(r bootstrap.Result) string {
	if r.Path != "" {
		return r.Path
	}
	return r.Step
}

// StepJSON is one step in the JSON report.
type StepJSON struct {
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	Path       string   `json:"path,omitempty"`
	Message    string   `json:"message"`
	Detail     []string `json:"detail,omitempty"`
	Error      string   `json:"error,omitempty"`
	ErrorCode  string   `json:"error_code,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// Response is the JSON report for install.
type Response struct {
	shared.JSONResponse
	RunID     string            `json:"run_id"`
	DryRun    bool              `json:"dry_run,omitempty"`
	Steps     []StepJSON        `json:"steps"`
	NextSteps []string          `json:"next_steps"`
	Error     *shared.JSONError `json:"error,omitempty"`
}

func newResponse(report *bootstrap.Report, ws *bootstrap.Workspace) Response {
	resp := Response{
		JSONResponse: shared.NewJSONResponse("install", report.Succeeded()),
		RunID:        report.RunID,
		DryRun:       ws.DryRun,
		Steps:        make([]StepJSON, 0, len(report.Results)),
		NextSteps:    report.NextSteps(ws),
	}
	if resp.NextSteps == nil {
		resp.NextSteps = []string{}
	}

	for _, r := range report.Results {
		s := StepJSON{
			Name:       r.Step,
			Status:     string(r.Status),
			Path:       r.Path,
			Message:    r.Message,
			Detail:     r.Detail,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		if r.Status == bootstrap.StatusFailed {
			s.ErrorCode = stepErrorCode(r.Err)
		}
		resp.Steps = append(resp.Steps, s)
	}

	if missing, ok := report.RuntimeMissing(); ok {
		resp.Error = &shared.JSONError{
			Code:       runtimeErrorCode(missing),
			Message:    missing.Error(),
			Suggestion: missing.Suggestion(),
		}
	} else if failed := report.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, r := range failed {
			names[i] = r.Step
		}
		resp.Error = &shared.JSONError{
			Code:    shared.ErrorCodeStepFailed,
			Message: "failed steps: " + strings.Join(names, ", "),
		}
	}
	return resp
}

// runtimeErrorCode distinguishes an old interpreter from a missing one.
func runtimeErrorCode(missing *bootstrap.RuntimeMissingError) string {
	var tooOld *pyenv.TooOldError
	if errors.As(missing, &tooOld) {
		return shared.ErrorCodeRuntimeTooOld
	}
	return shared.ErrorCodeRuntimeMissing
}

// stepErrorCode is E102 when python or pip exited non-zero, E101 otherwise.
func stepErrorCode(err error) string {
	var cmdErr *reporterrors.CommandError
	if errors.As(err, &cmdErr) {
		return shared.ErrorCodeCommandFailed
	}
	return shared.ErrorCodeStepFailed
}
