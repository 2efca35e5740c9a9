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

// Predicate is the closed set of boolean AST nodes used by a rule's WHERE
// clause and by a FOREACH's INCASE guard.
type Predicate interface {
	predicateNode()
}

// And short-circuits: R is never evaluated once L is false.
type And struct {
	L Predicate
	R Predicate
}

func (*And) predicateNode() {}

// Or short-circuits: R is never evaluated once L is true.
type Or struct {
	L Predicate
	R Predicate
}

func (*Or) predicateNode() {}

// Not negates X, which is evaluated as an expression rather than a nested
// predicate. A non-boolean result is not an error - it yields false, so
// authors must produce an actual boolean to participate in negation.
type Not struct {
	X Expression
}

func (*Not) predicateNode() {}

// In is set membership: X is evaluated once, each member of List is
// evaluated, and the predicate matches if X equals any of them.
type In struct {
	X    Expression
	List []Expression
}

func (*In) predicateNode() {}

// PredicateCall is a function call used directly as a boolean. The callee's
// return value is evaluated for truthiness; a non-boolean return fails
// (see compare/truthiness rules), matching the "filters fail closed" intent.
type PredicateCall struct {
	Name string
	Args []Expression
}

func (*PredicateCall) predicateNode() {}

// CmpOp enumerates the comparison operators recognized by Cmp.
type CmpOp string

const (
	CmpEq     CmpOp = "="
	CmpNeq    CmpOp = "<>"
	CmpNeqAlt CmpOp = "!="
	CmpGt     CmpOp = ">"
	CmpLt     CmpOp = "<"
	CmpGte    CmpOp = ">="
	CmpLte    CmpOp = "<="
	CmpMatch  CmpOp = "=~"
)

// Cmp compares two evaluated expressions under compare()'s cross-type
// coercion rules. CmpMatch delegates to the external topic-pattern matcher.
type Cmp struct {
	Op CmpOp
	L  Expression
	R  Expression
}

func (*Cmp) predicateNode() {}

// True is the distinguished trivially-true predicate used when a rule's
// author supplied no WHERE clause.
type True struct{}

func (*True) predicateNode() {}
