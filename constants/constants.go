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

// Package constants collects the small fixed strings shared across the
// loader, the CLI, and otel setup, so they are defined exactly once.
package constants

const (
	APPNAME           = "ruleforge"
	PackFileExtension = "pack.toml"
)

// EngineVersion is the compiled engine version, checked against a pack
// manifest's Engines.Ruleforge constraint at load time.
const EngineVersion = "1.0.0"

// APPVERSION is the default service.version resource attribute when the
// build didn't otherwise stamp one in.
const APPVERSION = EngineVersion
