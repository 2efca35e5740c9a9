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

// Package loader locates a pack manifest on disk, parses it, checks its
// declared engine compatibility, and compiles its rule files into an
// index.Index ready to drive.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/ruleforge/ruleforge/constants"
	"github.com/ruleforge/ruleforge/index"
	"github.com/ruleforge/ruleforge/pack"
	"github.com/ruleforge/ruleforge/registry"
)

var (
	ErrPackFileNotFound   = errors.New("pack file not found")
	ErrPackFileLoadFailed = errors.New("pack file load failed")
	ErrEngineIncompatible = errors.New("pack is incompatible with this engine version")
)

// PackFileName is the conventional manifest filename, "ruleforge.pack.toml".
var PackFileName = constants.APPNAME + "." + constants.PackFileExtension

// LoadPack parses the manifest found by walking up from root, without
// compiling its rules. Callers that only need Engines/Metadata can stop
// here; LoadIndex goes the rest of the way.
func LoadPack(ctx context.Context, root string) (_ *pack.PackFile, e error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	packPath, err := locatePackFile(ctx, root)
	if err != nil {
		return nil, errors.Wrap(err, "locate pack file")
	}

	b, err := os.ReadFile(packPath)
	if err != nil {
		return nil, errors.Wrap(err, "read pack")
	}
	var p pack.PackFile
	if err := toml.Unmarshal(b, &p); err != nil {
		return nil, errors.Wrap(err, "parse pack file failed")
	}
	p.Location = filepath.Dir(packPath)

	if err := checkEngineCompat(p.Engines.Ruleforge); err != nil {
		return nil, err
	}

	return &p, nil
}

func checkEngineCompat(constraint string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "parsing engine constraint %q", constraint)
	}
	v, err := semver.NewVersion(constants.EngineVersion)
	if err != nil {
		return errors.Wrap(err, "parsing engine version")
	}
	if !c.Check(v) {
		return errors.Wrapf(ErrEngineIncompatible, "pack requires ruleforge %q, engine is %s", constraint, constants.EngineVersion)
	}
	return nil
}

// LoadIndex loads the manifest at/above root, then compiles every rule file
// it names and binds every action entry against actionKinds, returning a
// ready-to-drive index.Index.
func LoadIndex(ctx context.Context, root string, actionKinds map[string]registry.ActionKind, actionCacheSize int) (*index.Index, *registry.CachedActionRegistry, error) {
	p, err := LoadPack(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	idx := index.New()
	idx.SetPack(p)

	for _, relPath := range p.Rules {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		data, err := os.ReadFile(filepath.Join(p.Location, relPath))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "reading rule file %q", relPath)
		}
		r, err := pack.DecodeRule(data)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "decoding rule file %q", relPath)
		}
		if err := idx.AddRule(ctx, r); err != nil {
			return nil, nil, err
		}
	}

	actions, err := registry.NewCachedActionRegistry(actionCacheSize)
	if err != nil {
		return nil, nil, err
	}
	for kind, fn := range actionKinds {
		actions.RegisterKind(kind, fn)
	}
	for _, entry := range p.Actions {
		actions.Bind(registry.ActionBinding{ID: entry.ID, Kind: entry.Kind, Params: entry.Params})
	}

	return idx, actions, nil
}

func locatePackFile(ctx context.Context, root string) (string, error) {
	if root == "/" {
		return "", errors.New("cannot search from filesystem root")
	}
	if len(strings.TrimSpace(root)) == 0 {
		return "", errors.New("root is empty")
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "failed to get absolute path to root")
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", errors.Wrap(err, "failed to locate pack file")
	}

	if info.Name() == PackFileName {
		return root, nil
	}

	if _, err := os.Stat(filepath.Join(root, PackFileName)); err == nil {
		return filepath.Join(root, PackFileName), nil
	}

	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		root = filepath.Dir(root)
		if root == "/" || (runtime.GOOS == "windows" && strings.HasSuffix(root, `:\`)) {
			break
		}
		if _, err := os.Stat(filepath.Join(root, PackFileName)); err == nil {
			return filepath.Join(root, PackFileName), nil
		}
	}

	return "", ErrPackFileNotFound
}
