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
	"context"
	"fmt"

	"github.com/ruleforge/ruleforge/ast"
	"github.com/ruleforge/ruleforge/document"
)

// CollectionBinding is the (key, items) pair FOREACH produces: the key is
// either the last field's alias, its derived key, or the literal "item"
// when neither applies. WasList records whether the raw collection value
// was actually a []any before EnsureList's coercion - a non-list value
// coerces to zero Items too, and callers that need to tell "genuinely
// empty list" from "not a list at all" (spec.md Testable Property #3)
// must consult this rather than len(Items).
type CollectionBinding struct {
	Key     string
	Items   []any
	WasList bool
}

// Transform runs a field list in SELECT mode (no FOREACH): a fold over the
// list that builds an output map while threading an in-flight copy of the
// input so aliases defined earlier are visible to expressions evaluated
// later in the same list. This ordering is an explicit contract, not an
// accidental side effect of implementation.
func Transform(ctx context.Context, ec *ExecContext, fields []ast.FieldEntry, input map[string]any) (map[string]any, error) {
	output := map[string]any{}
	working := input

	for _, f := range fields {
		switch {
		case f.Wildcard:
			for k, v := range working {
				output[k] = v
			}

		case f.Aliased():
			v, _, err := Eval(ctx, ec, f.Expr, working)
			if err != nil {
				return nil, err
			}
			path := []string{f.Alias}
			output = document.Put(path, v, output)
			working = document.Put(path, v, working)

		default:
			v, _, err := Eval(ctx, ec, f.Expr, working)
			if err != nil {
				return nil, err
			}
			key, ok := deriveKey(f.Expr, v)
			if !ok {
				return nil, fmt.Errorf("field %s has no alias and no derivable key", f.Expr)
			}
			output[key] = v
		}
	}

	return output, nil
}

// Collect runs a field list in FOREACH mode: identical traversal to
// Transform, except the LAST entry determines the collection rather than
// just populating the output.
func Collect(ctx context.Context, ec *ExecContext, fields []ast.FieldEntry, input map[string]any) (map[string]any, CollectionBinding, error) {
	output := map[string]any{}
	working := input
	var binding CollectionBinding

	for i, f := range fields {
		last := i == len(fields)-1

		switch {
		case f.Wildcard:
			for k, v := range working {
				output[k] = v
			}
			if last {
				return nil, CollectionBinding{}, fmt.Errorf("FOREACH collection field cannot be the wildcard")
			}

		case f.Aliased():
			v, _, err := Eval(ctx, ec, f.Expr, working)
			if err != nil {
				return nil, CollectionBinding{}, err
			}
			if last {
				_, wasList := v.([]any)
				binding = CollectionBinding{Key: f.Alias, Items: document.EnsureList(v), WasList: wasList}
				continue
			}
			path := []string{f.Alias}
			output = document.Put(path, v, output)
			working = document.Put(path, v, working)

		default:
			v, _, err := Eval(ctx, ec, f.Expr, working)
			if err != nil {
				return nil, CollectionBinding{}, err
			}
			if last {
				key, ok := deriveKey(f.Expr, v)
				if !ok {
					key = "item"
				}
				_, wasList := v.([]any)
				binding = CollectionBinding{Key: key, Items: document.EnsureList(v), WasList: wasList}
				continue
			}
			key, ok := deriveKey(f.Expr, v)
			if !ok {
				return nil, CollectionBinding{}, fmt.Errorf("field %s has no alias and no derivable key", f.Expr)
			}
			output[key] = v
		}
	}

	return output, binding, nil
}

// deriveKey implements alias/2's fallback: Var derives its path's last
// component, Const derives the literal value itself (only well-defined for
// textual/atom values). Anything else has no derivable key.
func deriveKey(expr ast.Expression, value any) (string, bool) {
	switch e := expr.(type) {
	case *ast.Var:
		if len(e.Path) == 0 {
			return "", false
		}
		return e.Path[len(e.Path)-1], true
	case *ast.Const:
		switch v := e.Value.(type) {
		case string:
			return v, true
		case document.Atom:
			return document.AtomToText(v), true
		default:
			return "", false
		}
	default:
		return "", false
	}
}
