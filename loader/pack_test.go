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

package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruleforge/ruleforge/registry"
	"github.com/stretchr/testify/suite"
)

const validManifest = `
schema_version = "1"
name = "demo"
version = "0.1.0"
rules = ["rules/r1.json"]

[engines]
ruleforge = "^1.0.0"

[[actions]]
id = "a1"
kind = "console"
`

const validRule = `{
	"id": "r1",
	"enabled": true,
	"fields": [{"wildcard": true}],
	"actions": ["a1"]
}`

func writePack(t *testing.T, dir, manifest string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, PackFileName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "rules"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rules", "r1.json"), []byte(validRule), 0o644); err != nil {
		t.Fatal(err)
	}
}

type LoaderTestSuite struct {
	suite.Suite
}

func (s *LoaderTestSuite) TestLoadPackParsesManifest() {
	dir := s.T().TempDir()
	writePack(s.T(), dir, validManifest)

	p, err := LoadPack(context.Background(), dir)
	s.Require().NoError(err)
	s.Equal("demo", p.Name)
	s.Equal(dir, p.Location)
}

func (s *LoaderTestSuite) TestLoadPackWalksUpFromSubdirectory() {
	dir := s.T().TempDir()
	writePack(s.T(), dir, validManifest)
	sub := filepath.Join(dir, "nested")
	s.Require().NoError(os.MkdirAll(sub, 0o755))

	p, err := LoadPack(context.Background(), sub)
	s.Require().NoError(err)
	s.Equal("demo", p.Name)
}

func (s *LoaderTestSuite) TestLoadPackMissingManifestErrors() {
	dir := s.T().TempDir()
	_, err := LoadPack(context.Background(), dir)
	s.Error(err)
}

func (s *LoaderTestSuite) TestLoadPackIncompatibleEngineErrors() {
	dir := s.T().TempDir()
	manifest := `
schema_version = "1"
name = "demo"
rules = []

[engines]
ruleforge = "^99.0.0"
`
	writePack(s.T(), dir, manifest)
	os.Remove(filepath.Join(dir, "rules", "r1.json"))

	_, err := LoadPack(context.Background(), dir)
	s.Error(err)
	s.ErrorIs(err, ErrEngineIncompatible)
}

func (s *LoaderTestSuite) TestLoadIndexCompilesRulesAndBindsActions() {
	dir := s.T().TempDir()
	writePack(s.T(), dir, validManifest)

	idx, actions, err := LoadIndex(context.Background(), dir, map[string]registry.ActionKind{
		"console": registry.NewConsoleActionKind(),
	}, 16)
	s.Require().NoError(err)
	s.Len(idx.Rules(), 1)

	applier, err := actions.GetActionInstanceParams(context.Background(), "a1")
	s.NoError(err)
	s.NotNil(applier)
}

func (s *LoaderTestSuite) TestLoadIndexUnknownActionKindErrorsOnResolve() {
	dir := s.T().TempDir()
	writePack(s.T(), dir, validManifest)

	_, actions, err := LoadIndex(context.Background(), dir, map[string]registry.ActionKind{}, 16)
	s.Require().NoError(err, "loading must succeed even if no kind is registered yet")

	_, err = actions.GetActionInstanceParams(context.Background(), "a1")
	s.Error(err)
}

func TestLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}
