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

package engine

import (
	"context"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/ruleforge/ruleforge/ast"
	"github.com/ruleforge/ruleforge/document"
	"github.com/ruleforge/ruleforge/runtime"
	"github.com/ruleforge/ruleforge/xerr"
)

// Driver is the rule driver (C8): for each input, it sequences projection,
// predicate matching, and action dispatch across a rule list, isolating
// each rule's failures from its siblings.
type Driver struct {
	Dispatcher *Dispatcher
	Logger     runtime.Logger
	Metrics    runtime.MetricsSink
	Functions  runtime.FunctionLibrary
	Topics     runtime.TopicMatcher
	Codec      document.JSONCodec
}

// ApplyRules drives the rule list for one input. Rule order is strictly
// sequential, preserving author-visible action ordering. A failure in one
// rule is logged and evaluation proceeds to the next; ApplyRules itself
// never raises out to the host. The scratch cache is cleared
// unconditionally when the last rule has run.
func (d *Driver) ApplyRules(ctx context.Context, rules []*ast.Rule, input map[string]any) error {
	ec := runtime.NewExecContext(d.Functions, d.Topics, d.Codec)
	defer ec.ClearRulePayload()

	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		d.applyRuleIsolated(ctx, ec, r, input)
	}

	return nil
}

// applyRuleIsolated runs one rule under a failure-isolation scope: the
// four named per-rule error kinds are logged as warnings, everything else
// (including a panic) is logged as an error with a stack trace. Either way
// control returns to the caller so the next rule still runs.
func (d *Driver) applyRuleIsolated(ctx context.Context, ec *runtime.ExecContext, r *ast.Rule, input map[string]any) {
	defer func() {
		if rec := recover(); rec != nil {
			d.Logger.Error(ctx, "rule %s panicked: %v\n%s", r.ID, rec, debug.Stack())
		}
	}()

	_, err := d.ApplyRule(ctx, ec, r, input)
	if err == nil {
		return
	}
	if isIsolatedFailure(err) {
		d.Logger.Warning(ctx, "rule %s: %v", r.ID, err)
		return
	}
	d.Logger.Error(ctx, "rule %s: %+v", r.ID, err)
}

func isIsolatedFailure(err error) bool {
	var transformErr *xerr.SelectAndTransformError
	var collectErr *xerr.SelectAndCollectError
	var conditionsErr *xerr.MatchConditionsError
	var incaseErr *xerr.MatchIncaseError
	return errors.As(err, &transformErr) ||
		errors.As(err, &collectErr) ||
		errors.As(err, &conditionsErr) ||
		errors.As(err, &incaseErr)
}

// ApplyRule runs a single rule against input and reports whether it
// matched. Unlike ApplyRules, it raises the named error kinds rather than
// swallowing them - it exists for hosts that want to test one rule at a
// time.
func (d *Driver) ApplyRule(ctx context.Context, ec *runtime.ExecContext, r *ast.Rule, input map[string]any) (bool, error) {
	if r.IsForEach() {
		return d.applyForEach(ctx, ec, r, input)
	}
	return d.applyPlain(ctx, ec, r, input)
}

func (d *Driver) applyPlain(ctx context.Context, ec *runtime.ExecContext, r *ast.Rule, input map[string]any) (bool, error) {
	projected, err := runtime.Transform(ctx, ec, r.Fields, input)
	if err != nil {
		return false, xerr.ErrSelectAndTransform(err)
	}

	predicateCtx := document.Merge(input, projected)
	matched, _, err := runtime.Matches(ctx, ec, r.Condition, predicateCtx)
	if err != nil {
		return false, xerr.ErrMatchConditions(err)
	}
	if !matched {
		return false, nil
	}

	d.Metrics.Inc(r.ID, runtime.MetricRulesMatched)

	if _, err := d.Dispatcher.Dispatch(ctx, r.Actions, projected, input); err != nil {
		return true, err
	}
	return true, nil
}

func (d *Driver) applyForEach(ctx context.Context, ec *runtime.ExecContext, r *ast.Rule, input map[string]any) (bool, error) {
	selected, binding, err := runtime.Collect(ctx, ec, r.ForEach.Collection, input)
	if err != nil {
		return false, xerr.ErrSelectAndCollect(err)
	}

	outerCtx := document.Merge(input, selected)
	matched, _, err := runtime.Matches(ctx, ec, r.Condition, outerCtx)
	if err != nil {
		return false, xerr.ErrMatchConditions(err)
	}
	if !matched {
		return false, nil
	}

	// A FOREACH collection field that wasn't actually list-typed - a
	// string, number, or map that EnsureList silently coerced to an empty
	// slice - is not a match: spec.md Testable Property #3 requires zero
	// action invocations AND no rules.matched increment in that case,
	// distinct from a genuinely empty list (Property #7, N=0).
	if !binding.WasList {
		return false, nil
	}

	d.Metrics.Inc(r.ID, runtime.MetricRulesMatched)

	for _, item := range binding.Items {
		itemCtx := document.Merge(input, map[string]any{binding.Key: item})

		incase := r.ForEach.InCase
		if incase == nil {
			incase = &ast.True{}
		}
		passed, _, err := runtime.Matches(ctx, ec, incase, itemCtx)
		if err != nil {
			return true, xerr.ErrMatchIncase(err)
		}
		if !passed {
			continue
		}

		perItem := itemCtx
		if len(r.ForEach.DoEach) > 0 {
			perItem, err = runtime.Transform(ctx, ec, r.ForEach.DoEach, itemCtx)
			if err != nil {
				d.Logger.Error(ctx, "rule %s: %v", r.ID, xerr.ErrDoEach(err))
				continue
			}
		}

		if _, err := d.Dispatcher.Dispatch(ctx, r.Actions, perItem, input); err != nil {
			return true, err
		}
	}

	return true, nil
}
