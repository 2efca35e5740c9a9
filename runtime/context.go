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

package runtime

import (
	"sync"

	"github.com/ruleforge/ruleforge/document"
)

// ExecContext is the per-input evaluation context: it owns the scratch
// cache (C6) for the duration of one apply_rules call and carries the
// collaborators every stage reads through.
//
// There is no global or package-level singleton here. A host driving many
// inputs in parallel across goroutines constructs one ExecContext per
// input; because each lives only on that goroutine's call stack (or is
// passed explicitly down it), isolation across inputs and across threads
// of execution falls out of ordinary Go scoping rather than requiring
// actual thread-local storage.
type ExecContext struct {
	collab collaborators

	mu      sync.Mutex
	payload map[string]any
	loaded  bool
}

// NewExecContext builds a fresh per-input context. Call ClearRulePayload
// when done with it, including on error - defer it immediately.
func NewExecContext(functions FunctionLibrary, topics TopicMatcher, codec document.JSONCodec) *ExecContext {
	return &ExecContext{
		collab: collaborators{
			functions: functions,
			topics:    topics,
			codec:     codec,
		},
	}
}

// ClearRulePayload releases the scratch cache. Idempotent, and safe to call
// even if no payload.* read ever happened.
func (ec *ExecContext) ClearRulePayload() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.payload = nil
	ec.loaded = false
}

// payloadOf returns the memoized decoded payload map for the given input,
// decoding and storing it on first use. Every subsequent call within the
// same ExecContext - regardless of which rule or which subpath of payload
// is being read - returns the same map, satisfying the "repeated reads
// observe the same decoded mapping" invariant.
func (ec *ExecContext) payloadOf(input map[string]any) map[string]any {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.loaded {
		return ec.payload
	}

	raw := document.Get([]string{"payload"}, input)
	ec.payload = document.EnsureMap(raw, ec.collab.codec)
	ec.loaded = true
	return ec.payload
}
