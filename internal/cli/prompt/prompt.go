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

// Package prompt collects values interactively, with validation, retries,
// and a scripted implementation for tests.
package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Prompter defines the interface for interactive input collection.
// Implementations include SurveyPrompter (production) and MockPrompter (testing).
type Prompter interface {
	// PromptString collects a string input from the user
	PromptString(ctx context.Context, name, desc string, def string) (string, error)

	// PromptSecret collects a string without echoing it
	PromptSecret(ctx context.Context, name, desc string) (string, error)

	// PromptNumber collects a numeric input from the user
	PromptNumber(ctx context.Context, name, desc string, def float64) (float64, error)

	// PromptEnum presents a list of options and collects the user's selection
	PromptEnum(ctx context.Context, name, desc string, options []string, def string) (string, error)

	// IsInteractive returns true if prompts can be displayed
	IsInteractive() bool
}

// InputCollector runs a sequence of prompts.
type InputCollector struct {
	prompter Prompter
	out      io.Writer
	current  int
	total    int
}

// NewInputCollector creates a new input collector with the given prompter.
// Retry messages go to stderr.
func NewInputCollector(p Prompter) *InputCollector {
	return &InputCollector{prompter: p, out: os.Stderr}
}

// SetOutput redirects retry messages.
func (ic *InputCollector) SetOutput(w io.Writer) {
	ic.out = w
}

// FormatProgressPrefix returns a formatted progress indicator string.
func (ic *InputCollector) FormatProgressPrefix() string {
	if ic.total > 0 {
		return fmt.Sprintf("[%d/%d] ", ic.current, ic.total)
	}
	return ""
}

// CollectInput prompts for a single input with retry logic.
// Returns the collected value or an error after MaxRetries attempts.
func (ic *InputCollector) CollectInput(ctx context.Context, config PromptConfig) (any, error) {
	if !ic.prompter.IsInteractive() {
		return nil, fmt.Errorf("cannot prompt for %s in non-interactive mode", config.Name)
	}

	var lastErr error
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, err := ic.ask(ctx, config)
		if err == nil && config.Validate != nil {
			err = config.Validate(value)
		}
		if err == nil {
			return value, nil
		}
		lastErr = err

		// Never echo the rejected value; it may be a token.
		if attempt < MaxRetries {
			fmt.Fprintf(ic.out, "Invalid %s: %v\n", config.Name, err)
		}
	}

	return nil, fmt.Errorf("failed to collect %s after %d attempts: %w", config.Name, MaxRetries, lastErr)
}

func (ic *InputCollector) ask(ctx context.Context, config PromptConfig) (any, error) {
	name := ic.FormatProgressPrefix() + config.Name

	switch config.Type {
	case InputTypeString:
		def := ""
		if config.Default != nil {
			def = fmt.Sprintf("%v", config.Default)
		}
		return ic.prompter.PromptString(ctx, name, config.Description, def)

	case InputTypeSecret:
		return ic.prompter.PromptSecret(ctx, name, config.Description)

	case InputTypeNumber:
		def := 0.0
		switch d := config.Default.(type) {
		case float64:
			def = d
		case int:
			def = float64(d)
		}
		return ic.prompter.PromptNumber(ctx, name, config.Description, def)

	case InputTypeEnum:
		def := ""
		if config.Default != nil {
			def = fmt.Sprintf("%v", config.Default)
		}
		return ic.prompter.PromptEnum(ctx, name, config.Description, config.Options, def)
	}

	return nil, fmt.Errorf("unsupported input type: %s", config.Type)
}

// CollectInputs prompts for multiple inputs in sequence.
func (ic *InputCollector) CollectInputs(ctx context.Context, configs []PromptConfig) (map[string]any, error) {
	results := make(map[string]any, len(configs))
	ic.total = len(configs)
	defer func() { ic.current, ic.total = 0, 0 }()

	for i, config := range configs {
		ic.current = i + 1
		value, err := ic.CollectInput(ctx, config)
		if err != nil {
			return nil, err
		}
		results[config.Name] = value
	}
	return results, nil
}
