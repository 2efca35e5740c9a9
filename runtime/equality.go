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

import "github.com/ruleforge/ruleforge/document"

// valueEqual is value equality after the same atom/text coercion compare()
// applies, used by CASE-with-subject matching and by In membership tests.
func valueEqual(l, r any) bool {
	l, r = coerceForCompare(l, r)
	return l == r
}

// coerceForCompare applies the cross-type coercion rules shared by
// equality and ordering: a symbolic atom compared against text coerces to
// text. Numeric/textual coercion is handled separately by compare(),
// because it can fail and equality callers (CASE, IN) are specified to
// fall back to plain comparison rather than raising.
func coerceForCompare(l, r any) (any, any) {
	if a, ok := l.(document.Atom); ok {
		if _, ok := r.(string); ok {
			l = document.AtomToText(a)
		}
	}
	if a, ok := r.(document.Atom); ok {
		if _, ok := l.(string); ok {
			r = document.AtomToText(a)
		}
	}
	return l, r
}
