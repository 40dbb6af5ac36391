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
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ValidateString validates a string input.
// Rejects null bytes, control characters, and oversized inputs.
func ValidateString(input string) error {
	if len(input) > MaxInputSize {
		return fmt.Errorf("input exceeds maximum size of %d bytes", MaxInputSize)
	}

	for i, r := range input {
		if r == 0 {
			return fmt.Errorf("input contains null byte at position %d", i)
		}
		if unicode.IsControl(r) && r != '\t' {
			return fmt.Errorf("input contains invalid control character at position %d", i)
		}
	}
	return nil
}

// ValidateNumber validates and parses a numeric input.
func ValidateNumber(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("input is empty")
	}

	num, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("input must be a number")
	}
	return num, nil
}

// ValidateEnum validates an enum selection given as an option or a
// 1-indexed position.
func ValidateEnum(input string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options available")
	}

	input = strings.TrimSpace(input)
	if idx, err := strconv.Atoi(input); err == nil {
		if idx < 1 || idx > len(options) {
			return "", fmt.Errorf("selection must be between 1 and %d", len(options))
		}
		return options[idx-1], nil
	}

	for _, opt := range options {
		if strings.EqualFold(input, opt) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("input must be one of %s", strings.Join(options, ", "))
}
