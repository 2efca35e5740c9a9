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

package registry

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// GlobTopicMatcher is the default TopicMatcher: it translates MQTT-style
// topic filters ('+' one level, '#' trailing multi-level) into gobwas/glob
// patterns and caches the compiled form, since the same filter is matched
// against many inputs over a rule's lifetime.
type GlobTopicMatcher struct {
	mu    sync.Mutex
	cache *lru.Cache[string, glob.Glob]
}

// NewGlobTopicMatcher builds a matcher backed by an LRU of the given size.
func NewGlobTopicMatcher(cacheSize int) (*GlobTopicMatcher, error) {
	c, err := lru.New[string, glob.Glob](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "constructing topic filter cache")
	}
	return &GlobTopicMatcher{cache: c}, nil
}

// Match implements runtime.TopicMatcher, reporting whether text satisfies
// the MQTT-style filter pattern: '+' matches exactly one '/'-delimited
// level, a trailing '#' matches that level and everything after it. A
// malformed pattern fails the match rather than raising, matching
// TopicMatcher's no-error contract.
func (m *GlobTopicMatcher) Match(text, pattern string) bool {
	g, err := m.compiled(pattern)
	if err != nil {
		return false
	}
	return g.Match(text)
}

func (m *GlobTopicMatcher) compiled(filter string) (glob.Glob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.cache.Get(filter); ok {
		return g, nil
	}

	g, err := glob.Compile(toGlobPattern(filter), '/')
	if err != nil {
		return nil, errors.Wrapf(err, "compiling topic filter %q", filter)
	}
	m.cache.Add(filter, g)
	return g, nil
}

// toGlobPattern rewrites an MQTT topic filter into the pattern syntax
// gobwas/glob understands under the '/' separator: '+' becomes a
// single-level wildcard ('*' under a separator), the bare '#' becomes '**',
// and a filter ending in '/#' becomes the alternation '{parent,parent/**}'
// so that it matches the parent level itself as well as everything below it.
func toGlobPattern(filter string) string {
	if filter == "#" {
		return "**"
	}

	levels := strings.Split(filter, "/")
	for i, lvl := range levels {
		switch lvl {
		case "+":
			levels[i] = "*"
		case "#":
			if i == len(levels)-1 {
				levels[i] = "**"
			}
		}
	}
	if n := len(levels); n > 1 && levels[n-1] == "**" {
		parent := strings.Join(levels[:n-1], "/")
		return "{" + parent + "," + parent + "/**}"
	}
	return strings.Join(levels, "/")
}
