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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ruleforge/ruleforge/ast"
	"github.com/ruleforge/ruleforge/engine"
	"github.com/ruleforge/ruleforge/runtime"
	"github.com/stretchr/testify/suite"
)

type stubRuleSource struct {
	rules []*ast.Rule
}

func (s *stubRuleSource) Enabled() []*ast.Rule { return s.rules }

type stubEventFunctions struct{}

func (stubEventFunctions) Call(ctx context.Context, name string, args []any) (any, error) {
	return nil, nil
}

type stubEventMetrics struct{}

func (stubEventMetrics) Inc(id, counter string) {}

type stubEventRegistry struct {
	dispatched []map[string]any
}

func (r *stubEventRegistry) GetActionInstanceParams(ctx context.Context, actionID string) (runtime.Applier, error) {
	return func(ctx context.Context, projected, input map[string]any) (any, error) {
		r.dispatched = append(r.dispatched, projected)
		return nil, nil
	}, nil
}

type noopLogger struct{}

func (noopLogger) Warning(ctx context.Context, format string, args ...any) {}
func (noopLogger) Error(ctx context.Context, format string, args ...any)   {}

func newTestAPIDriver(registry runtime.ActionRegistry) *engine.Driver {
	return &engine.Driver{
		Dispatcher: &engine.Dispatcher{Registry: registry, Metrics: stubEventMetrics{}},
		Logger:     noopLogger{},
		Metrics:    stubEventMetrics{},
		Functions:  stubEventFunctions{},
	}
}

type HandleEventTestSuite struct {
	suite.Suite
}

func (s *HandleEventTestSuite) postEvent(hapi *HTTPAPI, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	hapi.handleEvent(rec, req)
	return rec
}

func (s *HandleEventTestSuite) TestHandleEventMalformedJSONReturnsBadRequest() {
	hapi := NewHTTPAPI(newTestAPIDriver(&stubEventRegistry{}), &stubRuleSource{})

	rec := s.postEvent(hapi, `not json`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("application/problem+json", rec.Header().Get("Content-Type"))
}

func (s *HandleEventTestSuite) TestHandleEventDispatchesMatchingRuleAndReportsAccepted() {
	registry := &stubEventRegistry{}
	rules := []*ast.Rule{
		{
			ID:        "r1",
			Enabled:   true,
			Fields:    []ast.FieldEntry{{Wildcard: true}},
			Condition: &ast.True{},
			Actions:   []ast.ActionRef{{ID: "a1"}},
		},
	}
	hapi := NewHTTPAPI(newTestAPIDriver(registry), &stubRuleSource{rules: rules})

	rec := s.postEvent(hapi, `{"payload": {"temp": 42}}`)
	s.Equal(http.StatusOK, rec.Code)

	var resp EventResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Accepted)
	s.Equal(1, resp.RuleCount)
	s.Empty(resp.Error)
	s.Len(registry.dispatched, 1)
}

func (s *HandleEventTestSuite) TestHandleEventWithNoRulesStillAccepts() {
	hapi := NewHTTPAPI(newTestAPIDriver(&stubEventRegistry{}), &stubRuleSource{})

	rec := s.postEvent(hapi, `{"payload": {}}`)
	s.Equal(http.StatusOK, rec.Code)

	var resp EventResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Accepted)
	s.Equal(0, resp.RuleCount)
}

func (s *HandleEventTestSuite) TestHandleEventUsesRequestContext() {
	registry := &stubEventRegistry{}
	hapi := NewHTTPAPI(newTestAPIDriver(registry), &stubRuleSource{})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(`{"payload": {}}`))
	req = req.WithContext(context.Background())
	rec := httptest.NewRecorder()
	hapi.handleEvent(rec, req)

	s.Equal(http.StatusOK, rec.Code)
}

func TestHandleEventTestSuite(t *testing.T) {
	suite.Run(t, new(HandleEventTestSuite))
}
