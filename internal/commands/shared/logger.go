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

package shared

import (
	"log/slog"

	"github.com/tombee/reportctl/internal/log"
)

// NewLogger builds the command logger from the environment and the global
// flags. --verbose lowers the level to debug and --quiet raises it to error.
func NewLogger() *slog.Logger {
	cfg := log.FromEnv()
	switch {
	case verboseFlag:
		cfg.Level = "debug"
	case quietFlag:
		cfg.Level = "error"
	}
	return log.New(cfg)
}
