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

// Package index holds the compiled rule set a pack loads: an id-addressable,
// order-preserving set of rules, with resolution against a pack's optional
// namespace-qualified ids (ns/rule).
package index

import (
	"context"
	"strings"
	"sync"

	"github.com/binaek/gocoll/collection"
	"github.com/pkg/errors"
	"github.com/ruleforge/ruleforge/ast"
	"github.com/ruleforge/ruleforge/pack"
)

// ErrIndex is the sentinel wrapped by every index-layer error.
var ErrIndex = errors.New("index_error")

// Index is the compiled view of one loaded pack: its manifest plus the
// rules it declared, addressable by id and still in author-declared order.
type Index struct {
	mu    sync.RWMutex
	Pack  *pack.PackFile
	order []string
	rules map[string]*ast.Rule
}

// New builds an empty index.
func New() *Index {
	return &Index{
		order: make([]string, 0),
		rules: make(map[string]*ast.Rule),
	}
}

// SetPack attaches the manifest an index's rules were loaded from.
func (idx *Index) SetPack(p *pack.PackFile) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.Pack = p
}

// AddRule inserts r, preserving declaration order. A duplicate id is a
// conflict - packs do not shadow rules by re-declaring an id.
func (idx *Index) AddRule(ctx context.Context, r *ast.Rule) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.rules[r.ID]; ok {
		return errors.Wrapf(ErrIndex, "rule id conflict: %q", r.ID)
	}
	idx.rules[r.ID] = r
	idx.order = append(idx.order, r.ID)
	return nil
}

// Resolve looks a rule up by its bare id, or by a namespace-qualified
// "ns/id" form; the namespace part before the first '/' is dropped without
// being checked against the pack name.
func (idx *Index) Resolve(id string) (*ast.Rule, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if r, ok := idx.rules[id]; ok {
		return r, nil
	}

	if _, rest, found := strings.Cut(id, "/"); found {
		if r, ok := idx.rules[rest]; ok {
			return r, nil
		}
	}

	return nil, errors.Wrapf(ErrIndex, "rule %q not found", id)
}

// Rules returns every indexed rule in declaration order.
func (idx *Index) Rules() []*ast.Rule {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ordered := collection.Map(
		collection.From(idx.order...),
		func(id string) *ast.Rule { return idx.rules[id] },
	).Elements()
	return ordered
}

// Enabled returns only the rules whose Enabled flag is set, still in
// declaration order - the slice ApplyRules is meant to be driven with.
func (idx *Index) Enabled() []*ast.Rule {
	all := collection.From(idx.Rules()...)
	return collection.Filter(all, func(r *ast.Rule) bool { return r.Enabled }).Elements()
}
