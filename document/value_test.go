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

type ValueTestSuite struct {
	suite.Suite
}

func (s *ValueTestSuite) TestAtomDoesNotEqualEquivalentString() {
	var a any = Atom("ok")
	var t any = "ok"
	s.NotEqual(a, t, "atom and text with the same spelling must stay distinguishable")
	s.Equal("ok", AtomToText(Atom("ok")))
}

func (s *ValueTestSuite) TestUndefinedIsDistinctFromNil() {
	s.True(IsUndefined(Undefined))
	s.False(IsUndefined(nil))
	s.False(IsUndefined("undefined"))
}

func (s *ValueTestSuite) TestAsIntCoercions() {
	s.EqualValues(3, AsInt(3))
	s.EqualValues(3, AsInt(int64(3)))
	s.EqualValues(3, AsInt(3.9))
	s.EqualValues(0, AsInt("nope"))
	s.EqualValues(0, AsInt(Undefined))
}

func (s *ValueTestSuite) TestAsFloatCoercions() {
	s.InDelta(3.5, AsFloat(3.5), 0.0001)
	s.InDelta(3, AsFloat(3), 0.0001)
	s.InDelta(0, AsFloat("nope"), 0.0001)
}

func (s *ValueTestSuite) TestAsStringDoesNotCoerceAtom() {
	s.Equal("", AsString(Atom("ok")), "atom-to-text must go through AtomToText explicitly")
	s.Equal("hello", AsString("hello"))
}

func (s *ValueTestSuite) TestIsNumeric() {
	s.True(IsNumeric(1))
	s.True(IsNumeric(int64(1)))
	s.True(IsNumeric(1.5))
	s.False(IsNumeric("1"))
	s.False(IsNumeric(Atom("1")))
}

func TestValueTestSuite(t *testing.T) {
	suite.Run(t, new(ValueTestSuite))
}
