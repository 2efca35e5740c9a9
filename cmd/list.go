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
	"strings"

	"github.com/binaek/cling"
)

func addListCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("list", listCmd).
			WithFlag(cling.
				NewStringCmdInput("pack-location").
				WithDefault(".").
				WithDescription("Pack directory to list rules from").
				AsFlag(),
			).
			WithFlag(cling.
				NewBoolCmdInput("enabled-only").
				WithDefault(false).
				WithDescription("Only list enabled rules").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("id-prefix").
				WithDefault("").
				WithDescription("Only list rules whose id starts with this prefix").
				AsFlag(),
			),
	)
}

type listCmdArgs struct {
	PackLocation string `cling-name:"pack-location"`
	EnabledOnly  bool   `cling-name:"enabled-only"`
	IDPrefix     string `cling-name:"id-prefix"`
}

func listCmd(ctx context.Context, args []string) error {
	input := listCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	loaded, err := buildEngine(ctx, input.PackLocation)
	if err != nil {
		return err
	}

	for _, r := range loaded.Index.Rules() {
		if input.EnabledOnly && !r.Enabled {
			continue
		}
		if input.IDPrefix != "" && !strings.HasPrefix(r.ID, input.IDPrefix) {
			continue
		}
		kind := "select"
		if r.IsForEach() {
			kind = "foreach"
		}
		fmt.Printf("%-32s enabled=%-5t kind=%-8s actions=%d\n", r.ID, r.Enabled, kind, len(r.Actions))
	}

	return nil
}
