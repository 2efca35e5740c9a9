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
	"testing"

	"github.com/stretchr/testify/suite"
)

type TopicsTestSuite struct {
	suite.Suite
}

func (s *TopicsTestSuite) TestSingleLevelWildcard() {
	m, err := NewGlobTopicMatcher(16)
	s.Require().NoError(err)
	s.True(m.Match("sensors/1/temp", "sensors/+/temp"))
	s.False(m.Match("sensors/1/2/temp", "sensors/+/temp"))
}

func (s *TopicsTestSuite) TestTrailingMultiLevelWildcard() {
	m, err := NewGlobTopicMatcher(16)
	s.Require().NoError(err)
	s.True(m.Match("sensors/1/2/temp", "sensors/#"))
	s.True(m.Match("sensors", "sensors/#"))
}

func (s *TopicsTestSuite) TestBareMultiLevelWildcard() {
	m, err := NewGlobTopicMatcher(16)
	s.Require().NoError(err)
	s.True(m.Match("anything/at/all", "#"))
}

func (s *TopicsTestSuite) TestExactMatch() {
	m, err := NewGlobTopicMatcher(16)
	s.Require().NoError(err)
	s.True(m.Match("sensors/1/temp", "sensors/1/temp"))
	s.False(m.Match("sensors/1/temp", "sensors/2/temp"))
}

func (s *TopicsTestSuite) TestCompiledPatternIsCached() {
	m, err := NewGlobTopicMatcher(16)
	s.Require().NoError(err)
	s.True(m.Match("a/b", "a/+"))
	g, ok := m.cache.Get("a/+")
	s.True(ok)
	s.NotNil(g)
}

func TestTopicsTestSuite(t *testing.T) {
	suite.Run(t, new(TopicsTestSuite))
}
