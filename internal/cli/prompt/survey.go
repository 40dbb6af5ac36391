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
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
)

// ErrNonInteractive is returned when a prompt is attempted without a terminal.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// SurveyPrompter implements Prompter using the survey library.
type SurveyPrompter struct {
	interactive bool
}

// NewSurveyPrompter creates a new survey-based prompter.
func NewSurveyPrompter(interactive bool) *SurveyPrompter {
	return &SurveyPrompter{interactive: interactive}
}

func message(name, desc string) string {
	if desc == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, desc)
}

// PromptString collects a string input using survey.Input.
func (sp *SurveyPrompter) PromptString(ctx context.Context, name, desc string, def string) (string, error) {
	if !sp.interactive {
		return "", ErrNonInteractive
	}

	var result string
	prompt := &survey.Input{Message: message(name, desc), Default: def}
	err := survey.AskOne(prompt, &result, survey.WithValidator(func(ans any) error {
		if str, ok := ans.(string); ok {
			return ValidateString(str)
		}
		return nil
	}))
	return result, err
}

// PromptSecret collects a hidden string using survey.Password.
func (sp *SurveyPrompter) PromptSecret(ctx context.Context, name, desc string) (string, error) {
	if !sp.interactive {
		return "", ErrNonInteractive
	}

	var result string
	prompt := &survey.Password{Message: message(name, desc)}
	err := survey.AskOne(prompt, &result, survey.WithValidator(func(ans any) error {
		if str, ok := ans.(string); ok {
			return ValidateString(str)
		}
		return nil
	}))
	return result, err
}

// PromptNumber collects a numeric input using survey.Input with validation.
func (sp *SurveyPrompter) PromptNumber(ctx context.Context, name, desc string, def float64) (float64, error) {
	if !sp.interactive {
		return 0, ErrNonInteractive
	}

	var input string
	prompt := &survey.Input{
		Message: message(name, desc),
		Default: strconv.FormatFloat(def, 'f', -1, 64),
	}
	err := survey.AskOne(prompt, &input, survey.WithValidator(func(ans any) error {
		if str, ok := ans.(string); ok {
			_, err := ValidateNumber(str)
			return err
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}
	return ValidateNumber(input)
}

// PromptEnum collects an enum selection using survey.Select.
func (sp *SurveyPrompter) PromptEnum(ctx context.Context, name, desc string, options []string, def string) (string, error) {
	if !sp.interactive {
		return "", ErrNonInteractive
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided for %s", name)
	}

	var result string
	prompt := &survey.Select{Message: message(name, desc), Options: options}
	for _, opt := range options {
		if opt == def {
			prompt.Default = def
			break
		}
	}
	err := survey.AskOne(prompt, &result)
	return result, err
}

// IsInteractive returns whether the prompter can display interactive prompts.
func (sp *SurveyPrompter) IsInteractive() bool {
	return sp.interactive
}
