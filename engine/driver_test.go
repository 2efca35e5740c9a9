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
	"fmt"
	"testing"

	"github.com/ruleforge/ruleforge/ast"
	"github.com/ruleforge/ruleforge/runtime"
	"github.com/stretchr/testify/suite"
)

type driverFunctions struct{}

func (driverFunctions) Call(ctx context.Context, name string, args []any) (any, error) {
	switch name {
	case ">":
		return toFloat(args[0]) > toFloat(args[1]), nil
	default:
		return nil, fmt.Errorf("unknown function %q", name)
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	default:
		return 0
	}
}

type recordingLogger struct {
	warnings []string
	errors   []string
}

func (l *recordingLogger) Warning(ctx context.Context, format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Error(ctx context.Context, format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

type capturingRegistry struct {
	captured []map[string]any
}

func (r *capturingRegistry) GetActionInstanceParams(ctx context.Context, actionID string) (runtime.Applier, error) {
	return func(ctx context.Context, projected, input map[string]any) (any, error) {
		r.captured = append(r.captured, projected)
		return nil, nil
	}, nil
}

func newTestDriver(logger runtime.Logger, metrics runtime.MetricsSink, registry runtime.ActionRegistry) *Driver {
	return &Driver{
		Dispatcher: &Dispatcher{Registry: registry, Metrics: metrics},
		Logger:     logger,
		Metrics:    metrics,
		Functions:  driverFunctions{},
	}
}

type DriverTestSuite struct {
	suite.Suite
}

func (s *DriverTestSuite) TestApplyRulePlainMatchDispatchesAction() {
	registry := &capturingRegistry{}
	metrics := newStubMetrics()
	logger := &recordingLogger{}
	driver := newTestDriver(logger, metrics, registry)

	rule := &ast.Rule{
		ID:      "r1",
		Enabled: true,
		Fields:  []ast.FieldEntry{{Wildcard: true}},
		Condition: &ast.PredicateCall{
			Name: ">",
			Args: []ast.Expression{&ast.Var{Path: []string{"temp"}}, &ast.Const{Value: 10.0}},
		},
		Actions: []ast.ActionRef{{ID: "a1"}},
	}

	ec := runtime.NewExecContext(driverFunctions{}, nil, nil)
	matched, err := driver.ApplyRule(context.Background(), ec, rule, map[string]any{"temp": 20.0})
	s.NoError(err)
	s.True(matched)
	s.Len(registry.captured, 1)
	s.Equal(1, metrics.counts["r1:"+runtime.MetricRulesMatched])
}

func (s *DriverTestSuite) TestApplyRulePlainNoMatchSkipsAction() {
	registry := &capturingRegistry{}
	metrics := newStubMetrics()
	driver := newTestDriver(&recordingLogger{}, metrics, registry)

	rule := &ast.Rule{
		ID:      "r1",
		Enabled: true,
		Fields:  []ast.FieldEntry{{Wildcard: true}},
		Condition: &ast.PredicateCall{
			Name: ">",
			Args: []ast.Expression{&ast.Var{Path: []string{"temp"}}, &ast.Const{Value: 100.0}},
		},
		Actions: []ast.ActionRef{{ID: "a1"}},
	}

	ec := runtime.NewExecContext(driverFunctions{}, nil, nil)
	matched, err := driver.ApplyRule(context.Background(), ec, rule, map[string]any{"temp": 20.0})
	s.NoError(err)
	s.False(matched)
	s.Empty(registry.captured)
}

func (s *DriverTestSuite) TestApplyRuleForEachDispatchesOncePerPassingItem() {
	registry := &capturingRegistry{}
	metrics := newStubMetrics()
	driver := newTestDriver(&recordingLogger{}, metrics, registry)

	rule := &ast.Rule{
		ID:      "r1",
		Enabled: true,
		Fields:  []ast.FieldEntry{{Wildcard: true}},
		Condition: &ast.True{},
		ForEach: &ast.ForEachSpec{
			Collection: []ast.FieldEntry{{Expr: &ast.Const{Value: []any{5.0, 15.0, 25.0}}, Alias: "reading"}},
			InCase: &ast.PredicateCall{
				Name: ">",
				Args: []ast.Expression{&ast.Var{Path: []string{"reading"}}, &ast.Const{Value: 10.0}},
			},
		},
		Actions: []ast.ActionRef{{ID: "a1"}},
	}

	ec := runtime.NewExecContext(driverFunctions{}, nil, nil)
	matched, err := driver.ApplyRule(context.Background(), ec, rule, map[string]any{})
	s.NoError(err)
	s.True(matched)
	s.Len(registry.captured, 2, "only the two items greater than 10 should dispatch an action")
}

func (s *DriverTestSuite) TestApplyRuleForEachZeroItemsStillMatchesButDispatchesNothing() {
	registry := &capturingRegistry{}
	metrics := newStubMetrics()
	driver := newTestDriver(&recordingLogger{}, metrics, registry)

	rule := &ast.Rule{
		ID:        "r1",
		Enabled:   true,
		Fields:    []ast.FieldEntry{{Wildcard: true}},
		Condition: &ast.True{},
		ForEach: &ast.ForEachSpec{
			Collection: []ast.FieldEntry{{Expr: &ast.Const{Value: []any{}}, Alias: "reading"}},
		},
		Actions: []ast.ActionRef{{ID: "a1"}},
	}

	ec := runtime.NewExecContext(driverFunctions{}, nil, nil)
	matched, err := driver.ApplyRule(context.Background(), ec, rule, map[string]any{})
	s.NoError(err)
	s.True(matched)
	s.Empty(registry.captured)
}

func (s *DriverTestSuite) TestApplyRuleForEachNonListCollectionDoesNotMatch() {
	registry := &capturingRegistry{}
	metrics := newStubMetrics()
	driver := newTestDriver(&recordingLogger{}, metrics, registry)

	rule := &ast.Rule{
		ID:        "r1",
		Enabled:   true,
		Fields:    []ast.FieldEntry{{Wildcard: true}},
		Condition: &ast.True{},
		ForEach: &ast.ForEachSpec{
			// "reading" resolves to a string, not a list: EnsureList
			// coerces it to an empty slice, but this must still be
			// distinguished from a genuinely empty list (see the test
			// immediately above).
			Collection: []ast.FieldEntry{{Expr: &ast.Const{Value: "not-a-list"}, Alias: "reading"}},
		},
		Actions: []ast.ActionRef{{ID: "a1"}},
	}

	ec := runtime.NewExecContext(driverFunctions{}, nil, nil)
	matched, err := driver.ApplyRule(context.Background(), ec, rule, map[string]any{})
	s.NoError(err)
	s.False(matched, "a non-list, non-coercible collection value must not count as a match")
	s.Empty(registry.captured)
	s.Equal(0, metrics.counts["r1:"+runtime.MetricRulesMatched], "rules.matched must not increment when the collection was never list-typed")
}

func (s *DriverTestSuite) TestApplyRulesIsolatesOneRuleFailureFromSiblings() {
	registry := &capturingRegistry{}
	metrics := newStubMetrics()
	logger := &recordingLogger{}
	driver := newTestDriver(logger, metrics, registry)

	badRule := &ast.Rule{
		ID:      "bad",
		Enabled: true,
		// No alias and no derivable key: Transform fails with
		// select_and_transform_error, an isolated failure kind.
		Fields:    []ast.FieldEntry{{Expr: &ast.Const{Value: 42.0}}},
		Condition: &ast.True{},
	}
	goodRule := &ast.Rule{
		ID:        "good",
		Enabled:   true,
		Fields:    []ast.FieldEntry{{Wildcard: true}},
		Condition: &ast.True{},
		Actions:   []ast.ActionRef{{ID: "a1"}},
	}

	err := driver.ApplyRules(context.Background(), []*ast.Rule{badRule, goodRule}, map[string]any{})
	s.NoError(err, "ApplyRules never raises out to the host")
	s.Len(registry.captured, 1, "the good rule after the bad one must still run")
	s.Len(logger.warnings, 1, "the bad rule's isolated failure is logged as a warning")
	s.Empty(logger.errors)
}

func (s *DriverTestSuite) TestApplyRulesSkipsDisabledRules() {
	registry := &capturingRegistry{}
	metrics := newStubMetrics()
	driver := newTestDriver(&recordingLogger{}, metrics, registry)

	rule := &ast.Rule{
		ID:        "r1",
		Enabled:   false,
		Fields:    []ast.FieldEntry{{Wildcard: true}},
		Condition: &ast.True{},
		Actions:   []ast.ActionRef{{ID: "a1"}},
	}

	err := driver.ApplyRules(context.Background(), []*ast.Rule{rule}, map[string]any{})
	s.NoError(err)
	s.Empty(registry.captured)
}

func TestDriverTestSuite(t *testing.T) {
	suite.Run(t, new(DriverTestSuite))
}
