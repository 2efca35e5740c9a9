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

// Package cmd wires the ruleforge CLI: serve, exec, validate, build, init,
// and list, all built on the cling command framework.
package cmd

import (
	"context"
	"log/slog"

	"github.com/binaek/cling"
)

// Setup builds the CLI with every subcommand registered.
func Setup(ctx context.Context, version string) *cling.CLI {
	cli := cling.NewCLI("ruleforge", version).
		WithDescription("ruleforge evaluates SQL-like broker rules against JSON events").
		WithPreRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> starting ruleforge", slog.String("version", version))
			return nil
		}).
		WithPostRun(func(ctx context.Context, args []string) error {
			slog.DebugContext(ctx, "==> exiting ruleforge")
			return nil
		})

	addServeCmd(cli)
	addInitCmd(cli)
	addExecCmd(cli)
	addValidateCmd(cli)
	addBuildCmd(cli)
	addListCmd(cli)

	return cli
}

// Execute runs the CLI against args.
func Execute(ctx context.Context, cli *cling.CLI, args []string) error {
	if cli == nil {
		panic("CLI cannot be NIL")
	}
	return cli.Run(ctx, args)
}
