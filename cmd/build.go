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

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/binaek/cling"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ruleforge/ruleforge/engine"
	"github.com/ruleforge/ruleforge/index"
	"github.com/ruleforge/ruleforge/loader"
	"github.com/ruleforge/ruleforge/registry"
)

func addBuildCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("build", buildCmd).
			WithFlag(cling.
				NewStringCmdInput("pack-location").
				WithDefault(".").
				WithDescription("Pack directory to compile").
				AsFlag(),
			),
	)
}

type buildCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
}

// buildCmd loads and compiles a pack without running anything against it -
// every decode error or engine-incompatibility surfaces here, distinct from
// validate's "is this pack well-formed" report. Action bindings are only
// resolved when first dispatched, so an unknown action kind does not fail
// the build.
func buildCmd(ctx context.Context, args []string) error {
	input := buildCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	loaded, err := buildEngine(ctx, input.PackLocation)
	if err != nil {
		return err
	}

	fmt.Printf("built pack %q: %d rule(s) compiled\n", loaded.Index.Pack.Name, len(loaded.Index.Rules()))
	return nil
}

// loadedEngine bundles everything a CLI subcommand needs to drive a pack.
type loadedEngine struct {
	Index  *index.Index
	Driver *engine.Driver
}

// buildEngine loads the pack at packLocation and wires the default
// collaborator set - a JS function library (seeded from functions.js in
// the pack directory if present), an MQTT-style topic matcher, a
// json-iterator codec, a process-local Prometheus registry, and an slog
// logger - into a ready-to-drive index and engine.
func buildEngine(ctx context.Context, packLocation string) (*loadedEngine, error) {
	functionsPath := filepath.Join(packLocation, "functions.js")
	authorSource := ""
	if b, err := os.ReadFile(functionsPath); err == nil {
		authorSource = string(b)
	}

	functions, err := registry.NewJSFunctionLibrary(authorSource, 4)
	if err != nil {
		return nil, err
	}

	topics, err := registry.NewGlobTopicMatcher(256)
	if err != nil {
		return nil, err
	}

	codec := registry.NewIterCodec()
	logger := registry.NewSlogLogger(nil)

	metrics, err := registry.NewPromMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	idx, actions, err := loader.LoadIndex(ctx, packLocation, defaultActionKinds(), 64)
	if err != nil {
		return nil, err
	}

	driver := &engine.Driver{
		Dispatcher: &engine.Dispatcher{Registry: actions, Metrics: metrics},
		Logger:     logger,
		Metrics:    metrics,
		Functions:  functions,
		Topics:     topics,
		Codec:      codec,
	}

	return &loadedEngine{Index: idx, Driver: driver}, nil
}

// defaultActionKinds registers the action kinds the CLI and server know how
// to build out of the box.
func defaultActionKinds() map[string]registry.ActionKind {
	return map[string]registry.ActionKind{
		"console": registry.NewConsoleActionKind(),
	}
}
