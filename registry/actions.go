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
	"fmt"
	"sync"

	"github.com/fatih/structs"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/pkg/errors"
	"github.com/ruleforge/ruleforge/runtime"
)

// ActionKind builds an Applier from a typed, author-supplied params value.
// Registered once per action kind (e.g. "republish", "webhook", "console").
type ActionKind func(params any) (runtime.Applier, error)

// ActionBinding is one action id's static configuration: which kind it
// instantiates and the params it was configured with. Pack manifests
// decode into this shape.
type ActionBinding struct {
	ID     string
	Kind   string
	Params any
}

// CachedActionRegistry is the default ActionRegistry. Building an Applier
// can be non-trivial (dialing a client, compiling a template), so resolved
// appliers are memoized in an LRU keyed by a structural hash of the
// binding - re-resolving only when an id's configuration actually changes.
type CachedActionRegistry struct {
	mu       sync.RWMutex
	bindings map[string]ActionBinding
	kinds    map[string]ActionKind

	resolved *lru.Cache[uint64, runtime.Applier]
}

// NewCachedActionRegistry constructs an empty registry with an LRU of the
// given size for resolved appliers.
func NewCachedActionRegistry(cacheSize int) (*CachedActionRegistry, error) {
	c, err := lru.New[uint64, runtime.Applier](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "constructing action applier cache")
	}
	return &CachedActionRegistry{
		bindings: map[string]ActionBinding{},
		kinds:    map[string]ActionKind{},
		resolved: c,
	}, nil
}

// RegisterKind installs the factory for an action kind, e.g. registering
// "webhook" before any pack referencing a webhook action is loaded.
func (r *CachedActionRegistry) RegisterKind(kind string, fn ActionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[kind] = fn
}

// Bind installs or replaces the configuration for one action id. Loaders
// call this once per pack action entry.
func (r *CachedActionRegistry) Bind(b ActionBinding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.ID] = b
}

// GetActionInstanceParams implements runtime.ActionRegistry: it resolves
// actionID to its bound kind's Applier, building it at most once per
// distinct configuration.
func (r *CachedActionRegistry) GetActionInstanceParams(ctx context.Context, actionID string) (runtime.Applier, error) {
	r.mu.RLock()
	binding, ok := r.bindings[actionID]
	kindFn, kindOK := r.kinds[binding.Kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("action %q is not bound to any kind", actionID)
	}
	if !kindOK {
		return nil, fmt.Errorf("action %q is bound to unknown kind %q", actionID, binding.Kind)
	}

	key, err := hashstructure.Hash(binding, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "hashing action binding %q", actionID)
	}

	if applier, ok := r.resolved.Get(key); ok {
		return applier, nil
	}

	applier, err := kindFn(binding.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "constructing action %q of kind %q", actionID, binding.Kind)
	}
	r.resolved.Add(key, applier)
	return applier, nil
}

// fieldMap exposes a struct-typed action params value as a plain map, for
// kinds that want to log or template against named fields without a type
// assertion on every one.
func fieldMap(params any) map[string]any {
	if m, ok := params.(map[string]any); ok {
		return m
	}
	if !structs.IsStruct(params) {
		return nil
	}
	return structs.Map(params)
}

// NewConsoleActionKind builds the "console" action kind: it prints the
// projected record to stdout and returns it unchanged, serving both as a
// default action for packs with no real side effect wired yet and as a
// worked example for authors writing their own kind.
func NewConsoleActionKind() ActionKind {
	return func(params any) (runtime.Applier, error) {
		label, _ := fieldMap(params)["label"].(string)
		return func(ctx context.Context, projected, input map[string]any) (any, error) {
			fmt.Printf("[%s] %v\n", label, projected)
			return projected, nil
		}, nil
	}
}
