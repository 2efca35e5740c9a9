// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogLogger is the default Logger, a thin adapter onto log/slog - the
// process installs its handler (plain text, JSON, or the otelslog bridge)
// once at startup via slog.SetDefault. NewSlogLogger(nil) captures
// slog.Default() as it is at construction; a later slog.SetDefault does not
// change an existing SlogLogger.
type SlogLogger struct {
	base *slog.Logger
}

// NewSlogLogger wraps l, or slog.Default() if l is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{base: l}
}

// Warning implements runtime.Logger.
func (s *SlogLogger) Warning(ctx context.Context, format string, args ...any) {
	s.base.WarnContext(ctx, fmt.Sprintf(format, args...))
}

// Error implements runtime.Logger.
func (s *SlogLogger) Error(ctx context.Context, format string, args ...any) {
	s.base.ErrorContext(ctx, fmt.Sprintf(format, args...))
}
