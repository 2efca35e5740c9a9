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

// Package xerr names the core's error taxonomy as distinct types so the
// rule driver can recover specific failure kinds by errors.As rather than
// by string matching.
package xerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// SelectAndTransformError wraps a failure inside the projector's Transform
// mode for a plain SELECT. A Transform failure in a FOREACH item's DOEACH
// list is reported as DoEachError instead.
type SelectAndTransformError struct{ cause error }

func (e *SelectAndTransformError) Error() string { return "select_and_transform_error: " + e.cause.Error() }
func (e *SelectAndTransformError) Unwrap() error  { return e.cause }

func ErrSelectAndTransform(cause error) error {
	return errors.WithStack(&SelectAndTransformError{cause: cause})
}

// SelectAndCollectError wraps a failure inside the projector's Collect mode
// (the FOREACH field list itself).
type SelectAndCollectError struct{ cause error }

func (e *SelectAndCollectError) Error() string { return "select_and_collect_error: " + e.cause.Error() }
func (e *SelectAndCollectError) Unwrap() error  { return e.cause }

func ErrSelectAndCollect(cause error) error {
	return errors.WithStack(&SelectAndCollectError{cause: cause})
}

// MatchConditionsError wraps an evaluator failure raised while matching a
// rule's WHERE predicate, including a coercion failure inside compare().
type MatchConditionsError struct{ cause error }

func (e *MatchConditionsError) Error() string { return "match_conditions_error: " + e.cause.Error() }
func (e *MatchConditionsError) Unwrap() error  { return e.cause }

func ErrMatchConditions(cause error) error {
	return errors.WithStack(&MatchConditionsError{cause: cause})
}

// MatchIncaseError wraps an evaluator failure raised while matching a
// FOREACH item's INCASE predicate.
type MatchIncaseError struct{ cause error }

func (e *MatchIncaseError) Error() string { return "match_incase_error: " + e.cause.Error() }
func (e *MatchIncaseError) Unwrap() error  { return e.cause }

func ErrMatchIncase(cause error) error {
	return errors.WithStack(&MatchIncaseError{cause: cause})
}

// DoEachError wraps a failure projecting a single FOREACH item's DOEACH
// list. It is scoped to that one item - it does not abort the rest of the
// FOREACH loop.
type DoEachError struct{ cause error }

func (e *DoEachError) Error() string { return "doeach_error: " + e.cause.Error() }
func (e *DoEachError) Unwrap() error  { return e.cause }

func ErrDoEach(cause error) error {
	return errors.WithStack(&DoEachError{cause: cause})
}

// TakeActionFailedError is raised by the action dispatcher when an action
// cannot be resolved or its applier returns an error. It is NOT one of the per-rule isolated
// kinds - it bubbles until the rule driver's catch-all recovers it.
type TakeActionFailedError struct {
	ActionID string
	cause    error
}

func (e *TakeActionFailedError) Error() string {
	return fmt.Sprintf("take_action_failed(%s): %s", e.ActionID, e.cause.Error())
}
func (e *TakeActionFailedError) Unwrap() error { return e.cause }

func ErrTakeActionFailed(actionID string, cause error) error {
	return errors.WithStack(&TakeActionFailedError{ActionID: actionID, cause: cause})
}

// RuleNotFoundError names a lookup of a rule id that the index doesn't
// carry. index.Resolve reports that case with its own ErrIndex-wrapped
// error, not with this type.
type RuleNotFoundError struct{ RuleID string }

func (e *RuleNotFoundError) Error() string { return "rule not found: " + e.RuleID }

func ErrRuleNotFound(ruleID string) error {
	return errors.WithStack(&RuleNotFoundError{RuleID: ruleID})
}

// ActionNotFoundError names an action id referenced by a rule that the
// action registry has no binding for. registry.CachedActionRegistry reports
// that case with a plain formatted error, not with this type.
type ActionNotFoundError struct{ ActionID string }

func (e *ActionNotFoundError) Error() string { return "action not found: " + e.ActionID }

func ErrActionNotFound(actionID string) error {
	return errors.WithStack(&ActionNotFoundError{ActionID: actionID})
}

// InvalidRuleError names a rule that violates a structural invariant. The
// pack decoder and loader do not check such invariants and do not return
// this type.
type InvalidRuleError struct {
	RuleID string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid rule %q: %s", e.RuleID, e.Reason)
}

func ErrInvalidRule(ruleID, reason string) error {
	return errors.WithStack(&InvalidRuleError{RuleID: ruleID, Reason: reason})
}
