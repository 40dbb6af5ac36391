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
	"strings"
	"testing"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Финансовый отчёт", false},
		{"tab", "a\tb", false},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"escape", "\x1b[31m", true},
		{"oversized", strings.Repeat("a", MaxInputSize+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateString(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateString() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"30", 30, false},
		{" 7 ", 7, false},
		{"1.5", 1.5, false},
		{"", 0, true},
		{"thirty", 0, true},
	}
	for _, tt := range tests {
		got, err := ValidateNumber(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidateEnum(t *testing.T) {
	options := []string{"daily", "weekly", "manual"}
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"daily", "daily", false},
		{"WEEKLY", "weekly", false},
		{"3", "manual", false},
		{"0", "", true},
		{"4", "", true},
		{"hourly", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateEnum(tt.input, options)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEnum(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateEnum(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := ValidateEnum("x", nil); err == nil {
		t.Error("expected error for empty options")
	}
}
