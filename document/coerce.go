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

package document

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrCoercion is the sentinel wrapped by Number when text cannot be parsed
// as either an integer or a float.
var ErrCoercion = errors.New("coercion_error")

// JSONCodec is the external JSON collaborator ensure-map uses for
// opportunistic payload decoding. A failed decode is swallowed by
// EnsureMap, never by the codec itself.
type JSONCodec interface {
	Decode(text string) (any, error)
}

// Number attempts an integer parse first, then a float parse, failing with
// ErrCoercion only if both fail.
func Number(text string) (any, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}
	return nil, errors.Wrapf(ErrCoercion, "cannot parse %q as a number", text)
}

// EnsureMap returns v as a map[string]any if it already is one; otherwise
// it attempts to decode v as textual JSON via codec. Decode failure, or a
// successful decode of something that isn't a map, yields an empty map -
// EnsureMap never fails.
func EnsureMap(v any, codec JSONCodec) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}

	text, ok := v.(string)
	if !ok || codec == nil {
		return map[string]any{}
	}

	decoded, err := codec.Decode(text)
	if err != nil {
		return map[string]any{}
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// EnsureList returns v as a []any if it already is one, otherwise the
// empty list.
func EnsureList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{}
}
