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

package pack

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/ruleforge/ruleforge/ast"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// wireRule is the on-disk shape of a compiled rule: every Expression and
// Predicate field is deferred as raw JSON until its "type" discriminator
// tells decodeExpr/decodePred which concrete node to build.
type wireRule struct {
	ID        string          `json:"id"`
	Enabled   bool            `json:"enabled"`
	Fields    []wireField     `json:"fields"`
	Condition json.RawMessage `json:"condition,omitempty"`
	Actions   []string        `json:"actions"`
	ForEach   *wireForEach    `json:"foreach,omitempty"`
}

type wireField struct {
	Wildcard bool            `json:"wildcard,omitempty"`
	Expr     json.RawMessage `json:"expr,omitempty"`
	Alias    string          `json:"alias,omitempty"`
}

type wireForEach struct {
	Collection []wireField     `json:"collection"`
	InCase     json.RawMessage `json:"incase,omitempty"`
	DoEach     []wireField     `json:"doeach,omitempty"`
}

// DecodeRule parses one compiled rule out of its JSON form.
func DecodeRule(data []byte) (*ast.Rule, error) {
	var w wireRule
	if err := jsonAPI.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decoding rule envelope")
	}

	fields, err := decodeFields(w.Fields)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q: fields", w.ID)
	}

	cond, err := decodeOptionalPred(w.Condition)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q: condition", w.ID)
	}

	actions := make([]ast.ActionRef, 0, len(w.Actions))
	for _, id := range w.Actions {
		actions = append(actions, ast.ActionRef{ID: id})
	}

	r := &ast.Rule{
		ID:        w.ID,
		Enabled:   w.Enabled,
		Fields:    fields,
		Condition: cond,
		Actions:   actions,
	}

	if w.ForEach != nil {
		collection, err := decodeFields(w.ForEach.Collection)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q: foreach collection", w.ID)
		}
		incase, err := decodeOptionalPred(w.ForEach.InCase)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q: foreach incase", w.ID)
		}
		doeach, err := decodeFields(w.ForEach.DoEach)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q: foreach doeach", w.ID)
		}
		r.ForEach = &ast.ForEachSpec{Collection: collection, InCase: incase, DoEach: doeach}
	}

	return r, nil
}

func decodeOptionalPred(raw json.RawMessage) (ast.Predicate, error) {
	if len(raw) == 0 {
		return &ast.True{}, nil
	}
	return decodePred(raw)
}

func decodeFields(in []wireField) ([]ast.FieldEntry, error) {
	out := make([]ast.FieldEntry, 0, len(in))
	for _, f := range in {
		entry := ast.FieldEntry{Wildcard: f.Wildcard, Alias: f.Alias}
		if !f.Wildcard {
			expr, err := decodeExpr(f.Expr)
			if err != nil {
				return nil, err
			}
			entry.Expr = expr
		}
		out = append(out, entry)
	}
	return out, nil
}

func nodeType(raw json.RawMessage) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := jsonAPI.Unmarshal(raw, &head); err != nil {
		return "", errors.Wrap(err, "reading node discriminator")
	}
	if head.Type == "" {
		return "", fmt.Errorf("node missing \"type\" discriminator: %s", raw)
	}
	return head.Type, nil
}

func decodeExpr(raw json.RawMessage) (ast.Expression, error) {
	kind, err := nodeType(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "var":
		var n struct {
			Path []string `json:"path"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.Var{Path: n.Path}, nil

	case "const":
		var n struct {
			Value any `json:"value"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.Const{Value: n.Value}, nil

	case "arith":
		var n struct {
			Op string          `json:"op"`
			L  json.RawMessage `json:"l"`
			R  json.RawMessage `json:"r"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		l, err := decodeExpr(n.L)
		if err != nil {
			return nil, err
		}
		r, err := decodeExpr(n.R)
		if err != nil {
			return nil, err
		}
		return &ast.Arith{Op: n.Op, L: l, R: r}, nil

	case "call":
		var n struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		args, err := decodeExprList(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Name: n.Name, Args: args}, nil

	case "case":
		var n struct {
			Subject json.RawMessage `json:"subject,omitempty"`
			Clauses []struct {
				Cond     json.RawMessage `json:"cond,omitempty"`
				CondExpr json.RawMessage `json:"condExpr,omitempty"`
				Body     json.RawMessage `json:"body"`
			} `json:"clauses"`
			Else json.RawMessage `json:"else,omitempty"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}

		c := &ast.Case{}
		if len(n.Subject) > 0 {
			subj, err := decodeExpr(n.Subject)
			if err != nil {
				return nil, err
			}
			c.Subject = subj
		}
		for _, wc := range n.Clauses {
			clause := ast.CaseClause{}
			body, err := decodeExpr(wc.Body)
			if err != nil {
				return nil, err
			}
			clause.Body = body
			if len(wc.Cond) > 0 {
				cond, err := decodePred(wc.Cond)
				if err != nil {
					return nil, err
				}
				clause.Cond = cond
			}
			if len(wc.CondExpr) > 0 {
				ce, err := decodeExpr(wc.CondExpr)
				if err != nil {
					return nil, err
				}
				clause.CondExpr = ce
			}
			c.Clauses = append(c.Clauses, clause)
		}
		if len(n.Else) > 0 {
			elseExpr, err := decodeExpr(n.Else)
			if err != nil {
				return nil, err
			}
			c.Else = elseExpr
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown expression node type %q", kind)
	}
}

func decodeExprList(in []json.RawMessage) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(in))
	for _, raw := range in {
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodePred(raw json.RawMessage) (ast.Predicate, error) {
	kind, err := nodeType(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "true":
		return &ast.True{}, nil

	case "and", "or":
		var n struct {
			L json.RawMessage `json:"l"`
			R json.RawMessage `json:"r"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		l, err := decodePred(n.L)
		if err != nil {
			return nil, err
		}
		r, err := decodePred(n.R)
		if err != nil {
			return nil, err
		}
		if kind == "and" {
			return &ast.And{L: l, R: r}, nil
		}
		return &ast.Or{L: l, R: r}, nil

	case "not":
		var n struct {
			X json.RawMessage `json:"x"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return &ast.Not{X: x}, nil

	case "in":
		var n struct {
			X    json.RawMessage   `json:"x"`
			List []json.RawMessage `json:"list"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		list, err := decodeExprList(n.List)
		if err != nil {
			return nil, err
		}
		return &ast.In{X: x, List: list}, nil

	case "predicate-call":
		var n struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		args, err := decodeExprList(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.PredicateCall{Name: n.Name, Args: args}, nil

	case "cmp":
		var n struct {
			Op string          `json:"op"`
			L  json.RawMessage `json:"l"`
			R  json.RawMessage `json:"r"`
		}
		if err := jsonAPI.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		l, err := decodeExpr(n.L)
		if err != nil {
			return nil, err
		}
		r, err := decodeExpr(n.R)
		if err != nil {
			return nil, err
		}
		return &ast.Cmp{Op: ast.CmpOp(n.Op), L: l, R: r}, nil

	default:
		return nil, fmt.Errorf("unknown predicate node type %q", kind)
	}
}
