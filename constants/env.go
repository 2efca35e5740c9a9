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

package constants

const (
	EnvLogLevel           = "RULEFORGE_LOG_LEVEL"
	EnvDebug              = "RULEFORGE_DEBUG"
	EnvOtelEnabled        = "RULEFORGE_OTEL_ENABLED"
	EnvOtelEndpoint       = "RULEFORGE_OTEL_ENDPOINT"
	EnvOtelProtocol       = "RULEFORGE_OTEL_PROTOCOL"
	EnvOtelTraceExecution = "RULEFORGE_OTEL_TRACE_EXECUTION"
)
