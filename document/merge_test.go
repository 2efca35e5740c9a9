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

package document

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MergeTestSuite struct {
	suite.Suite
}

func (s *MergeTestSuite) TestOverlayWinsOnCollision() {
	base := map[string]any{"a": 1, "b": 2}
	overlay := map[string]any{"b": 99}

	out := Merge(base, overlay)
	s.Equal(1, out["a"])
	s.Equal(99, out["b"])
}

func (s *MergeTestSuite) TestNeitherArgumentMutated() {
	base := map[string]any{"a": 1}
	overlay := map[string]any{"b": 2}

	Merge(base, overlay)
	s.Len(base, 1)
	s.Len(overlay, 1)
}

func (s *MergeTestSuite) TestEmptyOverlayKeepsBase() {
	base := map[string]any{"a": 1}
	out := Merge(base, map[string]any{})
	s.Equal(1, out["a"])
}

func TestMergeTestSuite(t *testing.T) {
	suite.Run(t, new(MergeTestSuite))
}
