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

package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/tombee/reportctl/internal/credentials"
)

// CredentialsStep checks for the Google service account key. It only
// advises: a missing or malformed key is a warning, never a failure.
type CredentialsStep struct{}

func (s *CredentialsStep) Name() string { return StepCredentials }

func (s *CredentialsStep) Run(ctx context.Context, ws *Workspace) Result {
	rel := ws.Settings.CredentialsFile

	r, err := credentials.Inspect(ws.Path(rel))
	if err != nil {
		return Result{Status: StatusWarning, Path: rel, Message: "cannot read " + rel, Detail: []string{err.Error()}}
	}

	if !r.Exists {
		return Result{
			Status:  StatusWarning,
			Path:    rel,
			Message: rel + " not found",
			Detail:  credentials.Guidance(rel),
			Next:    []string{fmt.Sprintf("Download a Google service account key to %s", rel)},
		}
	}

	if !r.Valid {
		return Result{
			Status:  StatusWarning,
			Path:    rel,
			Message: rel + " does not look like a service account key: " + strings.Join(r.Problems, "; "),
			Detail:  credentials.Guidance(rel),
		}
	}

	return Result{
		Status:  StatusOK,
		Action:  ActionCheck,
		Path:    rel,
		Message: "service account " + r.ClientEmail,
		Next:    []string{fmt.Sprintf("Share the spreadsheet with %s (Editor access)", r.ClientEmail)},
	}
}
