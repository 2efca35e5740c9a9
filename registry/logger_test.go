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
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
}

func (s *LoggerTestSuite) TestWarningWritesThroughToBase() {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, nil))
	logger := NewSlogLogger(base)

	logger.Warning(context.Background(), "rule %s matched with %d actions", "r1", 2)
	s.Contains(buf.String(), "rule r1 matched with 2 actions")
	s.Contains(buf.String(), "WARN")
}

func (s *LoggerTestSuite) TestErrorWritesThroughToBase() {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, nil))
	logger := NewSlogLogger(base)

	logger.Error(context.Background(), "boom: %v", "reason")
	s.Contains(buf.String(), "boom: reason")
	s.Contains(buf.String(), "ERROR")
}

func (s *LoggerTestSuite) TestNilBaseDefaultsToSlogDefault() {
	logger := NewSlogLogger(nil)
	s.NotNil(logger.base)
}

func TestLoggerTestSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}
