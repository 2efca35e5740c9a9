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

// Package engine sequences the expression evaluator, predicate matcher,
// and projector across a rule list for one input, and invokes the actions
// a matched rule binds.
package engine

import (
	"context"

	"github.com/ruleforge/ruleforge/ast"
	"github.com/ruleforge/ruleforge/runtime"
	"github.com/ruleforge/ruleforge/xerr"
)

// Dispatcher is the action dispatcher (C7): it resolves each action
// reference in order and invokes it with the projected record and the
// original input.
type Dispatcher struct {
	Registry runtime.ActionRegistry
	Metrics  runtime.MetricsSink
}

// Dispatch invokes every action bound to a matched rule, in list order.
// Any failure raises take_action_failed and stops - later actions in this
// same binding are NOT attempted. Whether a sibling rule still runs is the
// rule driver's call, not this dispatcher's.
func (d *Dispatcher) Dispatch(ctx context.Context, actions []ast.ActionRef, projected, input map[string]any) ([]any, error) {
	results := make([]any, 0, len(actions))

	for _, action := range actions {
		applier, err := d.Registry.GetActionInstanceParams(ctx, action.ID)
		if err != nil {
			d.Metrics.Inc(action.ID, runtime.MetricActionsFailure)
			return results, xerr.ErrTakeActionFailed(action.ID, err)
		}

		v, err := applier(ctx, projected, input)
		if err != nil {
			d.Metrics.Inc(action.ID, runtime.MetricActionsFailure)
			return results, xerr.ErrTakeActionFailed(action.ID, err)
		}

		d.Metrics.Inc(action.ID, runtime.MetricActionsSuccess)
		results = append(results, v)
	}

	return results, nil
}
