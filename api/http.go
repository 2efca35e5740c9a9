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

// Package api exposes the rule engine over HTTP: one endpoint accepts a
// broker-event-shaped document and runs it through the driver's rule list,
// returning how many rules were applied and how long that took (the
// actions' own results are not included in the response).
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/binaek/gocoll/collection"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slices"

	"github.com/ruleforge/ruleforge/ast"
	"github.com/ruleforge/ruleforge/engine"
)

// ListenerServerPair pairs a bound listener with the server driving it, so
// both can be torn down together.
type ListenerServerPair struct {
	Listener net.Listener
	Server   *http.Server
}

// Close shuts the pair down; the listener first, then the server.
func (p *ListenerServerPair) Close() error {
	if err := p.Listener.Close(); err != nil {
		return err
	}
	return p.Server.Close()
}

// RuleSource supplies the rule list an incoming event is evaluated
// against - ordinarily an *index.Index, abstracted here so the handler
// doesn't import the index package directly.
type RuleSource interface {
	Enabled() []*ast.Rule
}

// HTTPAPI serves the event-evaluation endpoint.
type HTTPAPI struct {
	driver *engine.Driver
	rules  RuleSource
	tracer trace.Tracer

	listeners []*ListenerServerPair
}

// NewHTTPAPI constructs the API around a driver and the rule source it
// drives.
func NewHTTPAPI(driver *engine.Driver, rules RuleSource) *HTTPAPI {
	return &HTTPAPI{
		driver: driver,
		rules:  rules,
		tracer: otel.Tracer("ruleforge/api"),
	}
}

// Setup builds the mux and opens a listener on every resolved binding, but
// does not start serving - call StartServer for that.
func (api *HTTPAPI) Setup(ctx context.Context, port int, listen []string) error {
	mux := http.NewServeMux()
	mux.Handle("POST /events", http.HandlerFunc(api.handleEvent))
	mux.Handle("GET /health", http.HandlerFunc(api.handleHealth))

	bindings, err := resolveBindings(port, listen)
	if err != nil {
		return err
	}

	api.listeners = make([]*ListenerServerPair, 0, len(bindings))
	for _, binding := range bindings {
		ln, err := net.Listen("tcp", binding)
		if err != nil {
			for _, l := range api.listeners {
				l.Close()
			}
			api.listeners = nil
			return fmt.Errorf("failed to listen on %s: %w", binding, err)
		}
		api.listeners = append(api.listeners, &ListenerServerPair{
			Listener: ln,
			Server: &http.Server{
				Handler:      mux,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				BaseContext: func(net.Listener) context.Context {
					return ctx
				},
			},
		})
		slog.DebugContext(ctx, "listening", "binding", binding)
	}
	return nil
}

// StartServer serves every opened listener until it closes or errors.
func (api *HTTPAPI) StartServer(ctx context.Context) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(api.listeners))

	for _, ln := range api.listeners {
		server := ln.Server
		addr := ln.Listener.Addr().String()
		listener := ln.Listener
		wg.Go(func() {
			slog.DebugContext(ctx, "events endpoint available", "method", "POST", "url", fmt.Sprintf("http://%s/events", addr))
			if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		})
	}

	defer func() {
		wg.Wait()
		close(errChan)
	}()
}

// StopServer closes every listener/server pair.
func (api *HTTPAPI) StopServer(context.Context) error {
	for _, ln := range api.listeners {
		ln.Close()
	}
	api.listeners = nil
	return nil
}

func (api *HTTPAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (api *HTTPAPI) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(NewProblemDetails(
		fmt.Sprintf("https://ruleforge.dev/problems/%d", statusCode),
		title, detail, r.URL.Path, statusCode,
		map[string]any{"timestamp": time.Now().UTC().Format(time.RFC3339)},
	))
}

func resolveBindings(port int, listen []string) ([]string, error) {
	predefined := [...]string{"local", "local4", "local6", "network", "network4", "network6"}

	for _, listenAddr := range listen {
		if slices.Contains(predefined[:], listenAddr) && len(listen) != 1 {
			return nil, fmt.Errorf("when using predefined listen addresses, there must be exactly one address")
		}
	}

	if slices.Contains(predefined[:], listen[0]) {
		switch listen[0] {
		case "local":
			return []string{net.JoinHostPort("localhost", fmt.Sprintf("%d", port))}, nil
		case "local4":
			return []string{net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port))}, nil
		case "local6":
			return []string{net.JoinHostPort("[::1]", fmt.Sprintf("%d", port))}, nil
		case "network":
			return []string{net.JoinHostPort("", fmt.Sprintf("%d", port))}, nil
		case "network4":
			return []string{net.JoinHostPort("0.0.0.0", fmt.Sprintf("%d", port))}, nil
		case "network6":
			return []string{net.JoinHostPort("[::]", fmt.Sprintf("%d", port))}, nil
		}
	}

	return collection.Map(
		collection.From(listen...),
		func(listenAddr string) string { return net.JoinHostPort(listenAddr, fmt.Sprintf("%d", port)) },
	).Elements(), nil
}
