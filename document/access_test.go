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

type AccessTestSuite struct {
	suite.Suite
}

func (s *AccessTestSuite) TestGetSingleLevel() {
	doc := map[string]any{"name": "alice"}
	s.Equal("alice", Get([]string{"name"}, doc))
}

func (s *AccessTestSuite) TestGetNested() {
	doc := map[string]any{
		"device": map[string]any{
			"id": "d1",
		},
	}
	s.Equal("d1", Get([]string{"device", "id"}, doc))
}

func (s *AccessTestSuite) TestGetMissingKeyReturnsUndefined() {
	doc := map[string]any{"name": "alice"}
	s.True(IsUndefined(Get([]string{"missing"}, doc)))
}

func (s *AccessTestSuite) TestGetIntoNonMapReturnsUndefined() {
	doc := map[string]any{"name": "alice"}
	s.True(IsUndefined(Get([]string{"name", "first"}, doc)))
}

func (s *AccessTestSuite) TestGetEmptyPathReturnsUndefined() {
	doc := map[string]any{"name": "alice"}
	s.True(IsUndefined(Get(nil, doc)))
}

func (s *AccessTestSuite) TestGetNilDocReturnsUndefined() {
	s.True(IsUndefined(Get([]string{"name"}, nil)))
}

func (s *AccessTestSuite) TestPutDoesNotMutateOriginal() {
	original := map[string]any{"a": 1}
	updated := Put([]string{"b"}, 2, original)

	s.Len(original, 1, "original document must be untouched")
	s.Equal(1, original["a"])
	s.Equal(2, updated["b"])
	s.Equal(1, updated["a"])
}

func (s *AccessTestSuite) TestPutCreatesIntermediateMaps() {
	original := map[string]any{}
	updated := Put([]string{"device", "meta", "region"}, "us-east", original)

	s.Len(original, 0)
	device, ok := updated["device"].(map[string]any)
	s.True(ok)
	meta, ok := device["meta"].(map[string]any)
	s.True(ok)
	s.Equal("us-east", meta["region"])
}

func (s *AccessTestSuite) TestPutPreservesSiblings() {
	original := map[string]any{
		"device": map[string]any{
			"id":   "d1",
			"name": "thermostat",
		},
	}
	updated := Put([]string{"device", "name"}, "sensor", original)

	s.Equal("thermostat", original["device"].(map[string]any)["name"], "original sibling untouched")
	device := updated["device"].(map[string]any)
	s.Equal("d1", device["id"], "sibling preserved")
	s.Equal("sensor", device["name"])
}

func TestAccessTestSuite(t *testing.T) {
	suite.Run(t, new(AccessTestSuite))
}
