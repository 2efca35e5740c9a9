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

// Package pack describes a rule pack's manifest: the TOML file that names
// a pack, its engine compatibility, and the compiled rule files it bundles.
// The manifest never carries rule-author source text - the spec places the
// SQL-like surface syntax out of scope, so a pack's rules/ files hold the
// already-compiled ast.Rule form, JSON-encoded.
package pack

// PackFile is a rule pack's manifest, conventionally named
// "ruleforge.pack.toml".
type PackFile struct {
	SchemaVersion string            `toml:"schema_version"`
	Name          string            `toml:"name"`
	Version       string            `toml:"version,omitempty"`
	Description   string            `toml:"description,omitempty"`
	License       string            `toml:"license,omitempty"`
	Repository    string            `toml:"repository,omitempty"`
	Engines       Engines           `toml:"engines"`
	Authors       map[string]string `toml:"authors,omitempty"`
	Rules         []string          `toml:"rules"`   // JSON rule files, relative to Location
	Actions       []ActionEntry     `toml:"actions"` // action bindings this pack supplies
	Metadata      map[string]any    `toml:"metadata,omitempty"`
	Location      string            `toml:"-"`
}

// Engines names the engine version range a pack was written against.
type Engines struct {
	Ruleforge string `toml:"ruleforge"`
}

// ActionEntry binds one action id to the kind that implements it and the
// params that kind is instantiated with, as TOML-decoded data - the
// loader hands Params straight to registry.ActionBinding.
type ActionEntry struct {
	ID     string         `toml:"id"`
	Kind   string         `toml:"kind"`
	Params map[string]any `toml:"params,omitempty"`
}

// NewPackFile returns a fresh manifest for `ruleforge init`, naming name
// and declaring compatibility with the current engine release line.
func NewPackFile(name string) *PackFile {
	return &PackFile{
		SchemaVersion: "1",
		Name:          name,
		Version:       "0.1.0",
		Engines:       Engines{Ruleforge: "^1.0.0"},
		Rules:         []string{},
		Actions:       []ActionEntry{},
	}
}
