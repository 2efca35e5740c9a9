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
	"github.com/ruleforge/ruleforge/runtime/trace"
	"github.com/ruleforge/ruleforge/xerr"
)

// Matches evaluates a boolean AST node against doc, dispatching by variant.
// A coercion failure inside compare() surfaces as a match_conditions_error,
// per the spec's deliberate choice to let authors see type misuse rather
// than silently failing the comparison closed.
func Matches(ctx context.Context, ec *ExecContext, pred ast.Predicate, doc map[string]any) (bool, *trace.Node, error) {
	switch p := pred.(type) {

	case *ast.True:
		tn, done := trace.New("true", "", nil)
		defer done()
		return true, tn.SetResult(true), nil

	case *ast.And:
		tn, done := trace.New("and", "", nil)
		defer done()

		l, ln, err := Matches(ctx, ec, p.L, doc)
		tn.Attach(ln)
		if err != nil || !l {
			return false, tn.SetResult(false).SetErr(err), err
		}
		r, rn, err := Matches(ctx, ec, p.R, doc)
		tn.Attach(rn)
		return r, tn.SetResult(r).SetErr(err), err

	case *ast.Or:
		tn, done := trace.New("or", "", nil)
		defer done()

		l, ln, err := Matches(ctx, ec, p.L, doc)
		tn.Attach(ln)
		if err != nil || l {
			return l, tn.SetResult(l).SetErr(err), err
		}
		r, rn, err := Matches(ctx, ec, p.R, doc)
		tn.Attach(rn)
		return r, tn.SetResult(r).SetErr(err), err

	case *ast.Not:
		tn, done := trace.New("not", "", nil)
		defer done()

		v, vn, err := Eval(ctx, ec, p.X, doc)
		tn.Attach(vn)
		if err != nil {
			return false, tn.SetErr(err), err
		}
		b, ok := v.(bool)
		if !ok {
			// Intentional: a non-boolean result fails the Not silently.
			return false, tn.SetResult(false), nil
		}
		result := !b
		return result, tn.SetResult(result), nil

	case *ast.In:
		tn, done := trace.New("in", "", nil)
		defer done()

		x, xn, err := Eval(ctx, ec, p.X, doc)
		tn.Attach(xn)
		if err != nil {
			return false, tn.SetErr(err), err
		}
		for _, member := range p.List {
			m, mn, err := Eval(ctx, ec, member, doc)
			tn.Attach(mn)
			if err != nil {
				return false, tn.SetErr(err), err
			}
			if valueEqual(x, m) {
				return true, tn.SetResult(true), nil
			}
		}
		return false, tn.SetResult(false), nil

	case *ast.Cmp:
		tn, done := trace.New("cmp", string(p.Op), nil)
		defer done()

		l, ln, err := Eval(ctx, ec, p.L, doc)
		tn.Attach(ln)
		if err != nil {
			return false, tn.SetErr(err), err
		}
		r, rn, err := Eval(ctx, ec, p.R, doc)
		tn.Attach(rn)
		if err != nil {
			return false, tn.SetErr(err), err
		}

		result, err := compare(ec, p.Op, l, r)
		if err != nil {
			err = xerr.ErrMatchConditions(err)
			return false, tn.SetErr(err), err
		}
		return result, tn.SetResult(result), nil

	case *ast.PredicateCall:
		tn, done := trace.New("predicate-call", p.Name, nil)
		defer done()

		args := make([]any, 0, len(p.Args))
		for _, a := range p.Args {
			v, an, err := Eval(ctx, ec, a, doc)
			tn.Attach(an)
			if err != nil {
				return false, tn.SetErr(err), err
			}
			args = append(args, v)
		}
		v, err := callFunction(ctx, ec, p.Name, args)
		if err != nil {
			return false, tn.SetErr(err), err
		}
		v, err = resolveCallable(v, doc)
		if err != nil {
			return false, tn.SetErr(err), err
		}
		b, ok := v.(bool)
		if !ok {
			// Non-boolean call result used as a predicate fails closed.
			return false, tn.SetResult(false), nil
		}
		return b, tn.SetResult(b), nil

	default:
		err := fmt.Errorf("unsupported predicate node %T", pred)
		return false, (&trace.Node{Kind: "unsupported"}).SetErr(err), err
	}
}

// compare applies the cross-type coercion rules, then the operator.
//
//  1. numeric vs textual: the textual side is coerced via document.Number;
//     coercion failure fails the whole comparison.
//  2. atom vs textual: the atom side is coerced to text.
//  3. otherwise: compare directly.
func compare(ec *ExecContext, op ast.CmpOp, l, r any) (bool, error) {
	if op == ast.CmpMatch {
		return matchTopic(ec, l, r)
	}

	l, r, err := coerceOperands(l, r)
	if err != nil {
		return false, err
	}

	switch op {
	case ast.CmpEq:
		return valuesEq(l, r), nil
	case ast.CmpNeq, ast.CmpNeqAlt:
		return !valuesEq(l, r), nil
	case ast.CmpGt:
		return lessOrGreater(l, r) > 0, nil
	case ast.CmpLt:
		return lessOrGreater(l, r) < 0, nil
	case ast.CmpGte:
		return lessOrGreater(l, r) >= 0, nil
	case ast.CmpLte:
		return lessOrGreater(l, r) <= 0, nil
	default:
		return false, fmt.Errorf("unsupported comparison operator %q", op)
	}
}

func matchTopic(ec *ExecContext, l, r any) (bool, error) {
	if ec.collab.topics == nil {
		return false, fmt.Errorf("no topic matcher bound: cannot evaluate =~")
	}
	text, ok1 := l.(string)
	pattern, ok2 := r.(string)
	if !ok1 || !ok2 {
		return false, fmt.Errorf("=~ requires textual operands, got %T and %T", l, r)
	}
	return ec.collab.topics.Match(text, pattern), nil
}

func coerceOperands(l, r any) (any, any, error) {
	lNum, rNum := document.IsNumeric(l), document.IsNumeric(r)

	if lNum && !rNum {
		if s, ok := r.(string); ok {
			n, err := document.Number(s)
			if err != nil {
				return nil, nil, err
			}
			r = n
		}
	} else if rNum && !lNum {
		if s, ok := l.(string); ok {
			n, err := document.Number(s)
			if err != nil {
				return nil, nil, err
			}
			l = n
		}
	}

	l, r = coerceForCompare(l, r)
	return l, r, nil
}

func valuesEq(l, r any) bool {
	if document.IsNumeric(l) && document.IsNumeric(r) {
		return document.AsFloat(l) == document.AsFloat(r)
	}
	return l == r
}

// lessOrGreater returns -1, 0, or 1. Numbers use natural numeric order,
// text uses lexicographic order. Ordering between incompatible types falls
// back to comparing their default %v text representation, which is deterministic
// even though it carries no particular semantic meaning - the spec leaves
// this policy to the host as long as it is deterministic.
func lessOrGreater(l, r any) int {
	if document.IsNumeric(l) && document.IsNumeric(r) {
		lf, rf := document.AsFloat(l), document.AsFloat(r)
		switch {
		case lf < rf:
			return -1
		case lf > rf:
			return 1
		default:
			return 0
		}
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			switch {
			case ls < rs:
				return -1
			case ls > rs:
				return 1
			default:
				return 0
			}
		}
	}
	ls, rs := fmt.Sprintf("%v", l), fmt.Sprintf("%v", r)
	switch {
	case ls < rs:
		return -1
	case ls > rs:
		return 1
	default:
		return 0
	}
}
