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

// Package mock provides fakes for external tools used during bootstrap.
package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tombee/reportctl/internal/pyenv"
	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// Python is a pyenv.Runner that imitates a Python interpreter. Creating a
// venv writes a minimal venv layout to disk so later runs see it.
type Python struct {
	// VersionOutput is printed for --version.
	VersionOutput string

	// VenvErr fails `-m venv` when set.
	VenvErr error

	// PipErr fails `pip install -r` when set.
	PipErr error

	mu    sync.Mutex
	calls []pyenv.Command
}

// NewPython returns a fake reporting the given version, e.g. "3.11.4".
func NewPython(version string) *Python {
	return &Python{VersionOutput: "Python " + version}
}

// Run implements pyenv.Runner.
func (p *Python) Run(ctx context.Context, c pyenv.Command) ([]byte, error) {
	p.mu.Lock()
	p.calls = append(p.calls, c)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case slices.Equal(c.Args, []string{"--version"}):
		return []byte(p.VersionOutput + "\n"), nil

	case len(c.Args) == 3 && c.Args[0] == "-m" && c.Args[1] == "venv":
		if p.VenvErr != nil {
			return nil, p.fail(c, p.VenvErr)
		}
		return nil, writeVenv(c.Args[2])

	case len(c.Args) >= 2 && c.Args[0] == "-m" && c.Args[1] == "pip":
		if slices.Contains(c.Args, "-r") && p.PipErr != nil {
			return []byte(p.PipErr.Error()), p.fail(c, p.PipErr)
		}
		out := "Successfully installed\n"
		if c.Stream != nil {
			fmt.Fprint(c.Stream, out)
		}
		return []byte(out), nil
	}

	return nil, p.fail(c, fmt.Errorf("unexpected invocation: %s", strings.Join(c.Args, " ")))
}

func (p *Python) fail(c pyenv.Command, cause error) error {
	return &reporterrors.CommandError{
		Command:  c.Name,
		Args:     c.Args,
		ExitCode: 1,
		Stderr:   cause.Error(),
		Cause:    cause,
	}
}

// Calls returns every command run so far.
func (p *Python) Calls() []pyenv.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

// CallsMatching returns calls whose arguments contain every element of args.
func (p *Python) CallsMatching(args ...string) []pyenv.Command {
	var out []pyenv.Command
	for _, c := range p.Calls() {
		ok := true
		for _, a := range args {
			if !slices.Contains(c.Args, a) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// LookPath returns a resolver that finds only the named executables.
func LookPath(available ...string) func(string) (string, error) {
	return func(file string) (string, error) {
		if slices.Contains(available, file) {
			return filepath.Join("/usr/bin", file), nil
		}
		return "", &reporterrors.NotFoundError{Resource: "executable", ID: file}
	}
}

func writeVenv(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "bin", "python"), nil, 0755)
}
