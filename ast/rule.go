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

package ast

// FieldEntry is one entry of a SELECT/FOREACH/DOEACH field list: the
// wildcard, a bare expression, or an aliased expression.
type FieldEntry struct {
	Wildcard bool
	Expr     Expression
	Alias    string // empty when the author gave no alias
}

// Aliased reports whether this entry carries an explicit alias.
func (f FieldEntry) Aliased() bool {
	return f.Alias != ""
}

// ForEachSpec is the FOREACH clause of a rule: a collection-producing field
// list, a per-item INCASE guard, and a per-item DOEACH projection.
type ForEachSpec struct {
	Collection []FieldEntry
	InCase     Predicate // True{} when the author supplied no INCASE
	DoEach     []FieldEntry
}

// ActionRef binds a rule to one action by id, in the order the rule's
// author listed it.
type ActionRef struct {
	ID string
}

// Rule is an immutable, pre-compiled rule. The SQL-like text an author
// wrote for it has already been parsed and validated upstream; the
// evaluator only ever sees this structural form.
type Rule struct {
	ID        string
	Enabled   bool
	Fields    []FieldEntry
	Condition Predicate // True{} when the author supplied no WHERE
	Actions   []ActionRef
	ForEach   *ForEachSpec // non-nil iff IsForEach
}

// IsForEach reports whether this rule carries a FOREACH set. Per the data
// model invariant, this is exactly whether ForEach is populated.
func (r *Rule) IsForEach() bool {
	return r.ForEach != nil
}
