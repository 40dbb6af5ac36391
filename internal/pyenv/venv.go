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
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Venv is a Python virtual environment rooted at Dir.
type Venv struct {
	Dir string

	// GOOS selects the bin layout. Empty means runtime.GOOS.
	GOOS string
}

func (v Venv) windows() bool {
	goos := v.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	return goos == "windows"
}

// Exists reports whether the venv directory is present.
func (v Venv) Exists() bool {
	info, err := os.Stat(v.Dir)
	return err == nil && info.IsDir()
}

// Valid reports whether Dir looks like a venv created by `python -m venv`.
func (v Venv) Valid() bool {
	_, err := os.Stat(filepath.Join(v.Dir, "pyvenv.cfg"))
	return err == nil
}

// BinDir is the directory holding the venv executables.
func (v Venv) BinDir() string {
	if v.windows() {
		return filepath.Join(v.Dir, "Scripts")
	}
	return filepath.Join(v.Dir, "bin")
}

// Python is the venv interpreter.
func (v Venv) Python() string {
	if v.windows() {
		return filepath.Join(v.BinDir(), "python.exe")
	}
	return filepath.Join(v.BinDir(), "python")
}

// ActivateCommand is the shell line a user runs to enter the venv. The
// path is quoted when it contains spaces or shell metacharacters.
func (v Venv) ActivateCommand() string {
	if v.windows() {
		script := strings.ReplaceAll(filepath.Join(v.BinDir(), "activate"), "/", `\`)
		if strings.ContainsAny(script, " &()^") {
			return `"` + script + `"`
		}
		return script
	}
	return shellquote.Join("source", filepath.ToSlash(filepath.Join(v.BinDir(), "activate")))
}

// Environ returns base with the venv activated: VIRTUAL_ENV set, the bin
// directory first on PATH, and PYTHONHOME removed.
func (v Venv) Environ(base []string) []string {
	abs, err := filepath.Abs(v.Dir)
	if err != nil {
		abs = v.Dir
	}
	bin := Venv{Dir: abs, GOOS: v.GOOS}.BinDir()

	env := make([]string, 0, len(base)+2)
	path := ""
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch strings.ToUpper(key) {
		case "VIRTUAL_ENV", "PYTHONHOME":
			continue
		case "PATH":
			path = value
			continue
		}
		env = append(env, kv)
	}

	if path != "" {
		path = bin + string(os.PathListSeparator) + path
	} else {
		path = bin
	}
	return append(env, "VIRTUAL_ENV="+abs, "PATH="+path)
}

// Create runs `python -m venv Dir` with the given base interpreter.
func (v Venv) Create(ctx context.Context, r Runner, python string) error {
	_, err := r.Run(ctx, Command{
		Name: python,
		Args: []string{"-m", "venv", v.Dir},
	})
	return err
}

// InstallOptions controls InstallRequirements.
type InstallOptions struct {
	// UpgradePip runs `pip install --upgrade pip` first.
	UpgradePip bool

	Timeout time.Duration

	// Stream receives pip output as it runs.
	Stream io.Writer
}

// InstallRequirements installs a requirements file with the venv's pip.
// pip is invoked as `python -m pip` so a stale pip launcher is never used.
func (v Venv) InstallRequirements(ctx context.Context, r Runner, requirements string, opts InstallOptions) error {
	env := v.Environ(os.Environ())

	if opts.UpgradePip {
		if _, err := r.Run(ctx, Command{
			Name:    v.Python(),
			Args:    []string{"-m", "pip", "install", "--upgrade", "pip"},
			Env:     env,
			Timeout: opts.Timeout,
			Stream:  opts.Stream,
		}); err != nil {
			return err
		}
	}

	_, err := r.Run(ctx, Command{
		Name:    v.Python(),
		Args:    []string{"-m", "pip", "install", "-r", requirements},
		Env:     env,
		Timeout: opts.Timeout,
		Stream:  opts.Stream,
	})
	return err
}
