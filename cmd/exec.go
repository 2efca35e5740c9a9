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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"

	"github.com/binaek/cling"
	"github.com/ruleforge/ruleforge/runtime"
)

func addExecCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("exec", execCmd).
			WithArgument(cling.NewStringCmdInput("rule").
				WithDescription("Rule id to execute").
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("pack-location").
				WithDefault(".").
				WithDescription("Pack directory to load").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("output").
				WithDefault("table").
				WithValidator(cling.NewEnumValidator("table", "json")).
				WithDescription("Output format to use. One of: table, json").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("fact-file").
				WithDefault("").
				WithDescription("File to load the input payload from").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("facts").
				WithDefault("{}").
				WithDescription("Input payload to execute the rule with").
				AsFlag(),
			),
	)
}

type execCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
	Rule         string `cling-name:"rule"`
	Facts        string `cling-name:"facts"`
	FactFile     string `cling-name:"fact-file"`
	Output       string `cling-name:"output"`
}

func execCmd(ctx context.Context, args []string) error {
	input := execCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	fileFacts := make(map[string]any)
	if input.FactFile != "" {
		content, err := os.ReadFile(input.FactFile)
		if err != nil {
			return err
		}
		if err := json.NewDecoder(bytes.NewReader(content)).Decode(&fileFacts); err != nil {
			return err
		}
	}

	var flagFacts map[string]any
	if err := json.NewDecoder(bytes.NewReader([]byte(input.Facts))).Decode(&flagFacts); err != nil {
		return err
	}

	payload := make(map[string]any)
	maps.Copy(payload, fileFacts)
	maps.Copy(payload, flagFacts)

	loaded, err := buildEngine(ctx, input.PackLocation)
	if err != nil {
		return err
	}

	rule, err := loaded.Index.Resolve(input.Rule)
	if err != nil {
		return err
	}

	ec := runtime.NewExecContext(loaded.Driver.Functions, loaded.Driver.Topics, loaded.Driver.Codec)
	defer ec.ClearRulePayload()

	matched, err := loaded.Driver.ApplyRule(ctx, ec, rule, payload)
	if err != nil {
		return err
	}

	if input.Output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"rule": rule.ID, "matched": matched})
	}

	symbol := "⨯"
	if matched {
		symbol = "✓"
	}
	fmt.Printf("%s %s: matched=%t\n", symbol, rule.ID, matched)
	return nil
}
