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

// Package envfile scaffolds and reads the project's .env file.
package envfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"

	reporterrors "github.com/tombee/reportctl/pkg/errors"
)

// ErrExists is returned when the destination file is already present.
var ErrExists = errors.New("file already exists")

// FindTemplate returns the first file in dir matching patterns, tried in
// order. Matches of a single pattern are taken in lexical order. It returns
// "" when nothing matches.
func FindTemplate(dir string, patterns []string) (string, error) {
	fsys := os.DirFS(dir)
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return "", fmt.Errorf("invalid template pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return "", reporterrors.Wrapf(err, "failed to search for %q", pattern)
		}
		if len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return filepath.Join(dir, filepath.FromSlash(matches[0])), nil
	}
	return "", nil
}

// CopyNew copies src to dst byte for byte. dst must not exist.
func CopyNew(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return reporterrors.Wrap(err, "failed to open template")
	}
	defer in.Close()

	out, err := createNew(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return reporterrors.Wrapf(err, "failed to copy %s", src)
	}
	return out.Close()
}

// WriteNew writes data to dst. dst must not exist.
func WriteNew(dst string, data []byte) error {
	out, err := createNew(dst)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		os.Remove(dst)
		return reporterrors.Wrapf(err, "failed to write %s", dst)
	}
	return out.Close()
}

// createNew opens dst exclusively. .env holds secrets, so it is 0600.
func createNew(dst string) (*os.File, error) {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrExists
		}
		return nil, reporterrors.Wrapf(err, "failed to create %s", dst)
	}
	return f, nil
}

// Read parses a dotenv file.
func Read(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, reporterrors.Wrapf(err, "failed to parse %s", path)
	}
	return values, nil
}

// Parse parses dotenv content.
func Parse(data []byte) (map[string]string, error) {
	return godotenv.UnmarshalBytes(data)
}

// EmptyKeys returns the keys declared in template that are missing or blank
// in actual, sorted.
func EmptyKeys(template, actual map[string]string) []string {
	var keys []string
	for key := range template {
		if strings.TrimSpace(actual[key]) == "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
