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
)

// FunctionLibrary is the external function library the evaluator delegates
// Arith and Call nodes to. Arithmetic operators are invoked through the
// same Call path under their operator name, e.g. "+" or "mod".
//
// A call may resolve to a plain value, or to an ast.DocumentCallable the
// evaluator applies exactly once to the current document - this is how the
// library does partial application over the evaluation's input context.
type FunctionLibrary interface {
	Call(ctx context.Context, name string, args []any) (any, error)
}

// TopicMatcher is the external collaborator backing the =~ comparison
// operator. It is only specified for textual, topic-like operands.
type TopicMatcher interface {
	Match(text, pattern string) bool
}

// Logger is the subset of logging the core needs: a warning for isolated,
// recoverable rule failures and an error for everything else.
type Logger interface {
	Warning(ctx context.Context, format string, args ...any)
	Error(ctx context.Context, format string, args ...any)
}

// MetricsSink is the external counters collaborator. Implementations must
// never raise.
type MetricsSink interface {
	Inc(id, counter string)
}

const (
	MetricRulesMatched   = "rules.matched"
	MetricActionsSuccess = "actions.success"
	MetricActionsFailure = "actions.failure"
)

// Applier is the resolved effect an action binding invokes on a match. It
// is called with the projected record and the original input.
type Applier func(ctx context.Context, projected, input map[string]any) (any, error)

// ActionRegistry resolves action ids to their applier closures. It must be
// safely callable any number of times for the same id.
type ActionRegistry interface {
	GetActionInstanceParams(ctx context.Context, actionID string) (Applier, error)
}

// collaborators bundles everything the evaluator, predicate matcher, and
// projector read through while walking a single rule list. It is
// deliberately not exported as a struct field set of ExecContext so that
// construction stays centralized in NewExecContext.
type collaborators struct {
	functions FunctionLibrary
	topics    TopicMatcher
	codec     jsonDecoder
}

// jsonDecoder matches document.JSONCodec's shape without importing the
// document package from this file - avoids a needless import cycle risk if
// document ever wants runtime types. Both interfaces describe the same
// external JSON collaborator.
type jsonDecoder interface {
	Decode(text string) (any, error)
}
