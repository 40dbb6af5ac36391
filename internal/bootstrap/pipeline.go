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
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tombee/reportctl/internal/log"
)

// Pipeline runs steps in order.
type Pipeline struct {
	Steps []Step

	// FailFast stops after the first failed step.
	FailFast bool

	// OnResult is called after each step, for live output.
	OnResult func(Result)
}

// Report is the outcome of a pipeline run.
type Report struct {
	RunID   string
	Results []Result

	// Aborted is true when steps were left unrun.
	Aborted bool
}

// Run executes the steps. A fatal result, a failure under FailFast, or a
// cancelled context stops the run; any other failure is recorded and the
// next step runs.
func (p *Pipeline) Run(ctx context.Context, ws *Workspace) *Report {
	report := &Report{RunID: uuid.NewString()}
	logger := log.WithRunContext(ws.Logger, report.RunID)
	logger.Debug("starting bootstrap", slog.String(log.PathKey, ws.Dir), slog.Bool("dry_run", ws.DryRun))

	for _, step := range p.Steps {
		if ctx.Err() != nil {
			report.Aborted = true
			logger.Warn("bootstrap cancelled", log.Error(ctx.Err()))
			break
		}

		stepLogger := log.WithStep(logger, step.Name())
		start := time.Now()
		r := step.Run(ctx, ws)
		r.Step = step.Name()
		r.Duration = time.Since(start)
		report.Results = append(report.Results, r)

		attrs := []any{
			slog.String("status", string(r.Status)),
			log.Duration("duration", r.Duration.Milliseconds()),
		}
		if r.Path != "" {
			attrs = append(attrs, slog.String(log.PathKey, r.Path))
		}
		// Failures reach the user through the report, so they are only
		// logged at debug level.
		if r.Err != nil {
			attrs = append(attrs, log.Error(r.Err))
			stepLogger.Debug("step failed", attrs...)
		} else {
			stepLogger.Info("step finished", attrs...)
		}

		if p.OnResult != nil {
			p.OnResult(r)
		}

		if r.Status == StatusFailed && (r.Fatal || p.FailFast) {
			report.Aborted = true
			break
		}
	}
	return report
}

// Failed returns the failed results.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Succeeded reports whether every step ran without failing.
func (r *Report) Succeeded() bool {
	return !r.Aborted && len(r.Failed()) == 0
}

// Result returns the result of the named step.
func (r *Report) Result(step string) (Result, bool) {
	for _, res := range r.Results {
		if res.Step == step {
			return res, true
		}
	}
	return Result{}, false
}

// RuntimeMissing returns the runtime error if the run stopped on it.
func (r *Report) RuntimeMissing() (*RuntimeMissingError, bool) {
	for _, res := range r.Results {
		var missing *RuntimeMissingError
		if errors.As(res.Err, &missing) {
			return missing, true
		}
	}
	return nil, false
}

// NextSteps lists what the user should do after the run: activate the
// venv, the follow-ups each step reported, then start the app.
func (r *Report) NextSteps(ws *Workspace) []string {
	if _, missing := r.RuntimeMissing(); missing {
		return nil
	}

	var next []string
	if venv, ok := r.Result(StepVenv); ok && venv.Status != StatusFailed {
		next = append(next, "Activate the virtual environment: "+ws.ActivateCommand())
	}
	for _, res := range r.Results {
		next = append(next, res.Next...)
	}
	if r.Succeeded() {
		next = append(next, "Start the app: streamlit run "+ws.Settings.AppEntry)
	}
	return next
}
