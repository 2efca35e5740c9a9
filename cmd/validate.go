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

	"github.com/binaek/cling"
)

func addValidateCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("validate", validateCmd).
			WithFlag(cling.
				NewStringCmdInput("pack-location").
				WithDefault(".").
				WithDescription("Pack directory to validate").
				AsFlag(),
			),
	)
}

type validateCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
}

// validateCmd loads the pack's manifest, decodes every declared rule file,
// and binds its action entries - any malformed rule, engine incompatibility,
// or duplicate id surfaces here rather than at serve time.
func validateCmd(ctx context.Context, args []string) error {
	input := validateCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	loaded, err := buildEngine(ctx, input.PackLocation)
	if err != nil {
		return err
	}

	fmt.Printf("pack %q is valid: %d rule(s)\n", loaded.Index.Pack.Name, len(loaded.Index.Rules()))
	return nil
}
