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
	"fmt"
)

// MockPrompter implements Prompter with scripted responses for testing.
// When the script runs out each prompt returns its default.
type MockPrompter struct {
	responses    []any
	currentIndex int
	interactive  bool
	callLog      []string
}

// NewMockPrompter creates a new mock prompter with pre-scripted responses.
func NewMockPrompter(interactive bool, responses ...any) *MockPrompter {
	return &MockPrompter{
		responses:   responses,
		interactive: interactive,
		callLog:     make([]string, 0),
	}
}

func (mp *MockPrompter) next(call, name string) (any, bool) {
	mp.callLog = append(mp.callLog, fmt.Sprintf("%s(%s)", call, name))
	if mp.currentIndex >= len(mp.responses) {
		return nil, false
	}
	resp := mp.responses[mp.currentIndex]
	mp.currentIndex++
	return resp, true
}

// PromptString returns the next string response.
func (mp *MockPrompter) PromptString(ctx context.Context, name, desc string, def string) (string, error) {
	resp, ok := mp.next("PromptString", name)
	if !ok {
		return def, nil
	}
	if err, isErr := resp.(error); isErr {
		return "", err
	}
	if str, isStr := resp.(string); isStr {
		return str, nil
	}
	return "", fmt.Errorf("mock response is not a string")
}

// PromptSecret returns the next string response.
func (mp *MockPrompter) PromptSecret(ctx context.Context, name, desc string) (string, error) {
	resp, ok := mp.next("PromptSecret", name)
	if !ok {
		return "", nil
	}
	if err, isErr := resp.(error); isErr {
		return "", err
	}
	if str, isStr := resp.(string); isStr {
		return str, nil
	}
	return "", fmt.Errorf("mock response is not a string")
}

// PromptNumber returns the next numeric response.
func (mp *MockPrompter) PromptNumber(ctx context.Context, name, desc string, def float64) (float64, error) {
	resp, ok := mp.next("PromptNumber", name)
	if !ok {
		return def, nil
	}
	switch v := resp.(type) {
	case error:
		return 0, v
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("mock response is not a number")
}

// PromptEnum returns the next enum response.
func (mp *MockPrompter) PromptEnum(ctx context.Context, name, desc string, options []string, def string) (string, error) {
	resp, ok := mp.next("PromptEnum", name)
	if !ok {
		return def, nil
	}
	if err, isErr := resp.(error); isErr {
		return "", err
	}
	if str, isStr := resp.(string); isStr {
		return str, nil
	}
	return "", fmt.Errorf("mock response is not a string")
}

// IsInteractive returns the configured interactive state.
func (mp *MockPrompter) IsInteractive() bool {
	return mp.interactive
}

// GetCallLog returns the log of all prompt calls made.
func (mp *MockPrompter) GetCallLog() []string {
	return mp.callLog
}
