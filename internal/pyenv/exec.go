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

package pyenv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/tombee/reportctl/internal/log"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// maxStderrTail bounds how much output is kept on a CommandError.
const maxStderrTail = 2048

// waitDelay bounds how long Run waits for output after the process is killed.
const waitDelay = 5 * time.Second

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env replaces the process environment when non-nil.
	Env []string

	// Timeout bounds the run. Zero means no limit beyond ctx.
	Timeout time.Duration

	// Stream, when set, receives output as it is produced.
	Stream io.Writer
}

// Runner executes external commands.
type Runner interface {
	// Run executes cmd and returns its combined stdout and stderr. A failed
	// run returns a *errors.CommandError.
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Logger *slog.Logger
}

// NewExecRunner creates a runner that logs each invocation at debug level
// and its output at trace level.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExecRunner{Logger: log.WithComponent(logger, "exec")}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	if c.Env != nil {
		cmd.Env = c.Env
	}

	var out bytes.Buffer
	var w io.Writer = &out
	if c.Stream != nil {
		w = io.MultiWriter(&out, c.Stream)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	start := time.Now()
	r.Logger.Debug("running command",
		slog.String(log.CommandKey, c.Name),
		slog.Any("args", c.Args),
		slog.String("dir", c.Dir))

	err := cmd.Run()
	r.Logger.Debug("command finished",
		slog.String(log.CommandKey, c.Name),
		log.Duration("duration", time.Since(start).Milliseconds()),
		slog.Bool("ok", err == nil))
	log.Trace(r.Logger, "command output",
		slog.String(log.CommandKey, c.Name),
		slog.String("output", tail(out.String(), maxStderrTail)))

	if err != nil {
		cmdErr := &reporterrors.CommandError{
			Command:  c.Name,
			Args:     c.Args,
			ExitCode: -1,
			Stderr:   tail(out.String(), maxStderrTail),
			Cause:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			cmdErr.Cause = ctx.Err()
		}
		return out.Bytes(), cmdErr
	}
	return out.Bytes(), nil
}

// tail keeps the last n bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
