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

package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/tombee/reportctl/internal/commands/shared"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "reportctl" {
		t.Errorf("expected use 'reportctl', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected long description to be set")
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"verbose", "quiet", "json", "config", "dir"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("%s flag not registered", name)
		}
	}

	if f := cmd.PersistentFlags().Lookup("dir"); f != nil && f.Shorthand != "C" {
		t.Errorf("expected -C shorthand for --dir, got %q", f.Shorthand)
	}
}

func TestDirFlagSetsProjectDir(t *testing.T) {
	defer shared.ResetFlagsForTest()

	dir := t.TempDir()
	root := NewRootCommand()
	root.AddCommand(&cobra.Command{Use: "noop", RunE: func(*cobra.Command, []string) error { return nil }})
	root.SetArgs([]string{"-C", dir, "noop"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	got, err := shared.ProjectDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("expected project dir %q, got %q", dir, got)
	}
}

func TestVerboseAndQuietConflict(t *testing.T) {
	defer shared.ResetFlagsForTest()

	root := NewRootCommand()
	root.AddCommand(&cobra.Command{Use: "noop", RunE: func(*cobra.Command, []string) error { return nil }})
	root.SetArgs([]string{"-v", "-q", "noop"})
	if err := root.Execute(); err == nil {
		t.Error("expected an error for --verbose with --quiet")
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2025-12-22")
	defer SetVersion("dev", "unknown", "unknown")

	v, c, b := GetVersion()
	if v != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", v)
	}
	if c != "abc123" {
		t.Errorf("expected commit 'abc123', got %q", c)
	}
	if b != "2025-12-22" {
		t.Errorf("expected build date '2025-12-22', got %q", b)
	}
}

func TestCommandName(t *testing.T) {
	root := NewRootCommand()
	config := &cobra.Command{Use: "config"}
	validate := &cobra.Command{Use: "validate"}
	config.AddCommand(validate)
	root.AddCommand(config)

	tests := []struct {
		cmd  *cobra.Command
		want string
	}{
		{nil, "reportctl"},
		{root, "reportctl"},
		{config, "config"},
		{validate, "config validate"},
	}
	for _, tt := range tests {
		if got := CommandName(tt.cmd); got != tt.want {
			t.Errorf("CommandName() = %q, want %q", got, tt.want)
		}
	}
}
