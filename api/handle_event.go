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
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// EventRequest is the request body for POST /events: the broker-event
// payload every enabled rule is evaluated against.
type EventRequest struct {
	Payload map[string]any `json:"payload"`
}

// EventResponse reports that an event was driven through the rule list.
// Per ApplyRules' contract, individual rule failures never surface here -
// they are isolated, logged, and counted; this only reports whether the
// request itself was well-formed and accepted.
type EventResponse struct {
	Accepted   bool   `json:"accepted"`
	RuleCount  int    `json:"rule_count"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// handleEvent handles POST /events.
func (api *HTTPAPI) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := api.tracer.Start(ctx, "event.dispatch")
	defer span.End()

	start := time.Now()

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.RecordError(err)
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON", "the request body could not be parsed as valid JSON")
		return
	}

	rules := api.rules.Enabled()
	if err := api.driver.ApplyRules(ctx, rules, req.Payload); err != nil {
		span.RecordError(err)
		api.writeErrorResponse(w, r, http.StatusInternalServerError, "Evaluation Failed", err.Error())
		return
	}

	resp := EventResponse{
		Accepted:   true,
		RuleCount:  len(rules),
		DurationMS: time.Since(start).Milliseconds(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "error encoding event response", "error", err)
	}
}
