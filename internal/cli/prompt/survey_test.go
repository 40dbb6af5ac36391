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

package prompt

import (
	"context"
	"errors"
	"testing"
)

func TestSurveyPrompter_NonInteractive(t *testing.T) {
	sp := NewSurveyPrompter(false)
	ctx := context.Background()

	if sp.IsInteractive() {
		t.Fatal("expected non-interactive prompter")
	}
	if _, err := sp.PromptString(ctx, "a", "", ""); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptString() error = %v", err)
	}
	if _, err := sp.PromptSecret(ctx, "a", ""); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptSecret() error = %v", err)
	}
	if _, err := sp.PromptNumber(ctx, "a", "", 0); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptNumber() error = %v", err)
	}
	if _, err := sp.PromptEnum(ctx, "a", "", []string{"x"}, ""); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("PromptEnum() error = %v", err)
	}
}

func TestSurveyPrompter_EnumWithoutOptions(t *testing.T) {
	sp := NewSurveyPrompter(true)
	if _, err := sp.PromptEnum(context.Background(), "a", "", nil, ""); err == nil {
		t.Error("expected error for empty options")
	}
}

func TestMessage(t *testing.T) {
	if got := message("days_back", ""); got != "days_back" {
		t.Errorf("message() = %q", got)
	}
	if got := message("days_back", "days to sync"); got != "days_back (days to sync)" {
		t.Errorf("message() = %q", got)
	}
}
