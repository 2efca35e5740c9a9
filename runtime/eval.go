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
)

// Eval evaluates an expression AST node against doc, dispatching by
// variant. It never panics on absent values; arithmetic and calls over an
// absent operand propagate whatever the function library's own semantics
// dictate.
func Eval(ctx context.Context, ec *ExecContext, node ast.Expression, doc map[string]any) (any, *trace.Node, error) {
	switch n := node.(type) {

	case *ast.Var:
		tn, done := trace.New("var", n.String(), nil)
		defer done()
		v := evalVar(ec, n, doc)
		return v, tn.SetResult(v), nil

	case *ast.Const:
		tn, done := trace.New("const", fmt.Sprintf("%v", n.Value), nil)
		defer done()
		return n.Value, tn.SetResult(n.Value), nil

	case *ast.Arith:
		tn, done := trace.New("arith", n.Op, nil)
		defer done()

		l, ln, err := Eval(ctx, ec, n.L, doc)
		tn.Attach(ln)
		if err != nil {
			return nil, tn.SetErr(err), err
		}
		r, rn, err := Eval(ctx, ec, n.R, doc)
		tn.Attach(rn)
		if err != nil {
			return nil, tn.SetErr(err), err
		}

		v, err := callFunction(ctx, ec, n.Op, []any{l, r})
		if err != nil {
			return nil, tn.SetErr(err), err
		}
		v, err = resolveCallable(v, doc)
		return v, tn.SetResult(v).SetErr(err), err

	case *ast.Case:
		return evalCase(ctx, ec, n, doc)

	case *ast.Call:
		tn, done := trace.New("call", n.Name, nil)
		defer done()

		args := make([]any, 0, len(n.Args))
		for _, a := range n.Args {
			v, an, err := Eval(ctx, ec, a, doc)
			tn.Attach(an)
			if err != nil {
				return nil, tn.SetErr(err), err
			}
			args = append(args, v)
		}

		v, err := callFunction(ctx, ec, n.Name, args)
		if err != nil {
			return nil, tn.SetErr(err), err
		}
		v, err = resolveCallable(v, doc)
		return v, tn.SetResult(v).SetErr(err), err

	default:
		err := fmt.Errorf("unsupported expression node %T", node)
		return nil, (&trace.Node{Kind: "unsupported"}).SetErr(err), err
	}
}

func evalVar(ec *ExecContext, v *ast.Var, doc map[string]any) any {
	if len(v.Path) > 0 && v.Path[0] == "payload" {
		payload := ec.payloadOf(doc)
		if len(v.Path) == 1 {
			return payload
		}
		return document.Get(v.Path[1:], payload)
	}
	return document.Get(v.Path, doc)
}

func callFunction(ctx context.Context, ec *ExecContext, name string, args []any) (any, error) {
	if ec.collab.functions == nil {
		return nil, fmt.Errorf("no function library bound: cannot call %q", name)
	}
	return ec.collab.functions.Call(ctx, name, args)
}

// resolveCallable applies the special rule: if the function library
// returned a unary closure awaiting the document, apply it exactly once.
func resolveCallable(v any, doc map[string]any) (any, error) {
	if fn, ok := v.(ast.DocumentCallable); ok {
		return fn(doc)
	}
	return v, nil
}

func evalCase(ctx context.Context, ec *ExecContext, n *ast.Case, doc map[string]any) (any, *trace.Node, error) {
	tn, done := trace.New("case", "", nil)
	defer done()

	if n.Subject == nil {
		for _, clause := range n.Clauses {
			matched, mn, err := Matches(ctx, ec, clause.Cond, doc)
			tn.Attach(mn)
			if err != nil {
				return nil, tn.SetErr(err), err
			}
			if matched {
				v, bn, err := Eval(ctx, ec, clause.Body, doc)
				tn.Attach(bn)
				return v, tn.SetResult(v).SetErr(err), err
			}
		}
		return caseElse(ctx, ec, n, doc, tn)
	}

	subject, sn, err := Eval(ctx, ec, n.Subject, doc)
	tn.Attach(sn)
	if err != nil {
		return nil, tn.SetErr(err), err
	}

	for _, clause := range n.Clauses {
		cond, cn, err := Eval(ctx, ec, clause.CondExpr, doc)
		tn.Attach(cn)
		if err != nil {
			return nil, tn.SetErr(err), err
		}
		if valueEqual(subject, cond) {
			v, bn, err := Eval(ctx, ec, clause.Body, doc)
			tn.Attach(bn)
			return v, tn.SetResult(v).SetErr(err), err
		}
	}
	return caseElse(ctx, ec, n, doc, tn)
}

func caseElse(ctx context.Context, ec *ExecContext, n *ast.Case, doc map[string]any, tn *trace.Node) (any, *trace.Node, error) {
	if n.Else == nil {
		return document.Undefined, tn.SetResult(document.Undefined), nil
	}
	v, en, err := Eval(ctx, ec, n.Else, doc)
	tn.Attach(en)
	return v, tn.SetResult(v).SetErr(err), err
}
