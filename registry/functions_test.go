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
	"testing"

	"github.com/ruleforge/ruleforge/ast"
	"github.com/stretchr/testify/suite"
)

type FunctionsTestSuite struct {
	suite.Suite
}

func (s *FunctionsTestSuite) TestBuiltinArithmetic() {
	lib, err := NewJSFunctionLibrary("", 2)
	s.Require().NoError(err)

	v, err := lib.Call(context.Background(), "+", []any{int64(2), int64(3)})
	s.NoError(err)
	s.EqualValues(5, v)

	v, err = lib.Call(context.Background(), "mod", []any{int64(7), int64(3)})
	s.NoError(err)
	s.EqualValues(1, v)
}

func (s *FunctionsTestSuite) TestDivisionByZeroErrors() {
	lib, err := NewJSFunctionLibrary("", 2)
	s.Require().NoError(err)
	_, err = lib.Call(context.Background(), "/", []any{1.0, 0.0})
	s.Error(err)
}

func (s *FunctionsTestSuite) TestAuthoredFunctionCalledThroughVMPool() {
	source := `exports.double = function(x) { return x * 2; };`
	lib, err := NewJSFunctionLibrary(source, 2)
	s.Require().NoError(err)

	v, err := lib.Call(context.Background(), "double", []any{21.0})
	s.NoError(err)
	s.EqualValues(42, v)
}

func (s *FunctionsTestSuite) TestAuthoredFunctionReturningFunctionBecomesDocumentCallable() {
	source := `exports.withField = function(key) { return function(doc) { return doc[key]; }; };`
	lib, err := NewJSFunctionLibrary(source, 2)
	s.Require().NoError(err)

	v, err := lib.Call(context.Background(), "withField", []any{"region"})
	s.NoError(err)

	callable, ok := v.(ast.DocumentCallable)
	s.Require().True(ok, "a JS function returning a function must surface as an ast.DocumentCallable")

	result, err := callable(map[string]any{"region": "us-east"})
	s.NoError(err)
	s.Equal("us-east", result)
}

func (s *FunctionsTestSuite) TestUndefinedAuthoredFunctionErrors() {
	lib, err := NewJSFunctionLibrary(`exports.foo = function() { return 1; };`, 2)
	s.Require().NoError(err)
	_, err = lib.Call(context.Background(), "bar", nil)
	s.Error(err)
}

func (s *FunctionsTestSuite) TestNoAuthorModuleErrorsOnUnknownCall() {
	lib, err := NewJSFunctionLibrary("", 2)
	s.Require().NoError(err)
	_, err = lib.Call(context.Background(), "whatever", nil)
	s.Error(err)
}

func TestFunctionsTestSuite(t *testing.T) {
	suite.Run(t, new(FunctionsTestSuite))
}
