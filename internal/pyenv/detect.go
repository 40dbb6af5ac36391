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

// Package pyenv finds a Python interpreter and manages the project's
// virtual environment.
package pyenv

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// DefaultMinVersion is the oldest interpreter the reporting app supports.
const DefaultMinVersion = "3.8"

const versionTimeout = 5 * time.Second

var versionRegex = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// Version is a parsed interpreter version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String renders the version as "X.Y.Z".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v is min or newer. Patch is ignored.
func (v Version) AtLeast(min Version) bool {
	if v.Major != min.Major {
		return v.Major > min.Major
	}
	return v.Minor >= min.Minor
}

// Interpreter is a usable Python executable.
type Interpreter struct {
	// Name is the candidate that matched, e.g. "python3".
	Name string

	// Path is the resolved executable.
	Path string

	Version Version
}

// TooOldError reports interpreters that exist but are below the minimum.
type TooOldError struct {
	Found []Interpreter
	Min   Version
}

func (e *TooOldError) Error() string {
	found := make([]string, len(e.Found))
	for i, in := range e.Found {
		found[i] = fmt.Sprintf("%s %s", in.Name, in.Version)
	}
	return fmt.Sprintf("python %d.%d or newer is required, found %s",
		e.Min.Major, e.Min.Minor, strings.Join(found, ", "))
}

// ParseVersion extracts the version from `python --version` output.
// Python 2 wrote it to stderr, so callers pass combined output.
func ParseVersion(output string) (Version, bool) {
	m := versionRegex.FindStringSubmatch(output)
	if m == nil {
		return Version{}, false
	}
	var v Version
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, true
}

// ParseMinVersion parses a "major.minor" requirement.
func ParseMinVersion(s string) (Version, error) {
	if s == "" {
		s = DefaultMinVersion
	}
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		minor = "0"
	}
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(major); err != nil {
		return Version{}, fmt.Errorf("invalid minimum python version %q", s)
	}
	if v.Minor, err = strconv.Atoi(minor); err != nil {
		return Version{}, fmt.Errorf("invalid minimum python version %q", s)
	}
	return v, nil
}

// Detector looks for an interpreter on PATH.
type Detector struct {
	LookPath func(file string) (string, error)
	Runner   Runner
}

// Detect returns the first candidate that resolves on PATH and reports a
// version of at least min. When nothing is on PATH it returns a
// *errors.NotFoundError; when only old interpreters exist it returns a
// *TooOldError.
func (d *Detector) Detect(ctx context.Context, candidates []string, min string) (*Interpreter, error) {
	minVersion, err := ParseMinVersion(min)
	if err != nil {
		return nil, err
	}

	var tooOld []Interpreter
	for _, name := range candidates {
		path, err := d.LookPath(name)
		if err != nil {
			continue
		}

		out, err := d.Runner.Run(ctx, Command{
			Name:    path,
			Args:    []string{"--version"},
			Timeout: versionTimeout,
		})
		if err != nil {
			continue
		}

		v, ok := ParseVersion(string(out))
		if !ok {
			continue
		}

		in := Interpreter{Name: name, Path: path, Version: v}
		if !v.AtLeast(minVersion) {
			tooOld = append(tooOld, in)
			continue
		}
		return &in, nil
	}

	if len(tooOld) > 0 {
		return nil, &TooOldError{Found: tooOld, Min: minVersion}
	}
	return nil, &reporterrors.NotFoundError{
		Resource: "python interpreter",
		ID:       strings.Join(candidates, ", "),
	}
}
