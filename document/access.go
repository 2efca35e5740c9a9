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

// Get walks path left-to-right through nested maps. Any missing key, or a
// traversal into a non-map, yields Undefined rather than an error - the
// accessor never raises. The single-element path is the common case and is
// handled without allocating a sub-slice.
func Get(path []string, doc map[string]any) any {
	if len(path) == 0 || doc == nil {
		return Undefined
	}

	v, ok := doc[path[0]]
	if !ok {
		return Undefined
	}
	if len(path) == 1 {
		return v
	}

	next, ok := v.(map[string]any)
	if !ok {
		return Undefined
	}
	return Get(path[1:], next)
}

// Put returns a document with value created/overwritten at path,
// intermediate maps created as needed. Put is pure: it copies every map it
// descends through so the caller's original document, and any map it
// shares with other in-flight data, is left untouched. Existing siblings at
// every level are preserved.
func Put(path []string, value any, doc map[string]any) map[string]any {
	out := shallowCopy(doc)
	if len(path) == 0 {
		return out
	}

	if len(path) == 1 {
		out[path[0]] = value
		return out
	}

	var child map[string]any
	if existing, ok := out[path[0]].(map[string]any); ok {
		child = existing
	}
	out[path[0]] = Put(path[1:], value, child)
	return out
}

func shallowCopy(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	return out
}
