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
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/reportctl/internal/log"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunnerLogging(t *testing.T) {
	skipWithoutShell(t)

	tests := []struct {
		level      string
		wantOutput bool
	}{
		{"debug", false},
		{"trace", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewExecRunner(log.New(&log.Config{Level: tt.level, Format: log.FormatText, Output: &buf}))

			_, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo collected"}})
			require.NoError(t, err)

			logs := buf.String()
			assert.Contains(t, logs, "running command")
			assert.Contains(t, logs, "component=exec")
			assert.Equal(t, tt.wantOutput, strings.Contains(logs, "output=collected"))
		})
	}
}

func TestExecRunner(t *testing.T) {
	skipWithoutShell(t)
	r := NewExecRunner(nil)
	ctx := context.Background()

	t.Run("combined output", func(t *testing.T) {
		out, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
		require.NoError(t, err)
		assert.Contains(t, string(out), "out")
		assert.Contains(t, string(out), "err")
	})

	t.Run("stream", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo streamed"}, Stream: &buf})
		require.NoError(t, err)
		assert.Equal(t, "streamed\n", buf.String())
	})

	t.Run("env and dir", func(t *testing.T) {
		dir := t.TempDir()
		out, err := r.Run(ctx, Command{
			Name: "sh",
			Args: []string{"-c", "echo $REPORT_VAR; pwd"},
			Dir:  dir,
			Env:  []string{"REPORT_VAR=hello", "PATH=/usr/bin:/bin"},
		})
		require.NoError(t, err)
		assert.Contains(t, string(out), "hello")
		assert.Contains(t, string(out), dir)
	})

	t.Run("exit code", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
		var cmdErr *reporterrors.CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, 3, cmdErr.ExitCode)
		assert.Equal(t, "boom", cmdErr.Stderr)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "reportctl-no-such-binary"})
		var cmdErr *reporterrors.CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, -1, cmdErr.ExitCode)
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "exec sleep 5"}, Timeout: 50 * time.Millisecond})
		var cmdErr *reporterrors.CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short\n", 10))
	long := strings.Repeat("a", 20) + "END"
	got := tail(long, 5)
	assert.Equal(t, "...aaEND", got)
}
