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

// Package credentials inspects the Google service account key used by the
// reporting application. It never modifies the key file.
package credentials

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
)

// Scopes are the OAuth scopes the reporting app requests with the key.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// RequiredFields are the keys a service account key must carry.
var RequiredFields = []string{
	"type",
	"project_id",
	"private_key_id",
	"private_key",
	"client_email",
	"token_uri",
}

// Report is the result of inspecting a key file.
type Report struct {
	Path        string   `json:"path"`
	Exists      bool     `json:"exists"`
	Valid       bool     `json:"valid"`
	ClientEmail string   `json:"client_email,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	Problems    []string `json:"problems,omitempty"`
}

// Inspect reads path and checks it looks like a service account key. A
// missing file is not an error: Exists is false.
func Inspect(path string) (Report, error) {
	r := Report{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return r, fmt.Errorf("failed to read %s: %w", path, err)
	}
	r.Exists = true

	var key map[string]any
	if err := json.Unmarshal(data, &key); err != nil || key == nil {
		r.Problems = append(r.Problems, "file is not a JSON object")
		return r, nil
	}

	for _, field := range RequiredFields {
		v, ok := key[field].(string)
		if !ok || strings.TrimSpace(v) == "" {
			r.Problems = append(r.Problems, fmt.Sprintf("missing field %q", field))
		}
	}
	r.ClientEmail, _ = key["client_email"].(string)
	r.ProjectID, _ = key["project_id"].(string)

	if t, ok := key["type"].(string); ok && t != "" && t != "service_account" {
		r.Problems = append(r.Problems, fmt.Sprintf("type is %q, expected \"service_account\"", t))
		return r, nil
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, Scopes...)
	if err != nil {
		r.Problems = append(r.Problems, fmt.Sprintf("key cannot be loaded: %v", err))
		return r, nil
	}
	if len(jwtConfig.PrivateKey) > 0 {
		if err := checkPrivateKey(jwtConfig.PrivateKey); err != nil {
			r.Problems = append(r.Problems, err.Error())
		}
	}

	r.Valid = len(r.Problems) == 0
	return r, nil
}

// checkPrivateKey parses a PEM encoded RSA key the way the Google token
// exchange does: PKCS#8 first, then PKCS#1.
func checkPrivateKey(data []byte) error {
	block, _ := pem.Decode(data)
	if block == nil {
		return errors.New("private_key is not a PEM block")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		rsaKey, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return fmt.Errorf("private_key cannot be parsed: %v", err)
		}
		parsed = rsaKey
	}
	if _, ok := parsed.(*rsa.PrivateKey); !ok {
		return fmt.Errorf("private_key is a %T, expected an RSA key", parsed)
	}
	return nil
}

// Guidance returns the steps for obtaining a key file at path.
func Guidance(path string) []string {
	return []string{
		"Open https://console.cloud.google.com/ and create or select a project",
		"Enable the Google Sheets API and the Google Drive API",
		"Create a service account under IAM & Admin > Service Accounts",
		"Create a JSON key for it and download the file",
		fmt.Sprintf("Save the key as %s in the project directory", path),
		"Share the spreadsheet with the service account email (Editor access)",
	}
}
