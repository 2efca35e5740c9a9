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

// Package registry holds the default, in-process implementations of the
// core's external collaborators: the function library, the topic-pattern
// matcher, the JSON codec, the metrics sink, the logger, and the action
// registry. The core (ast/document/runtime/engine) never imports this
// package - it only consumes the interfaces runtime and document declare.
package registry

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/jackc/puddle/v2"
	"github.com/pkg/errors"
	"github.com/ruleforge/ruleforge/ast"
)

// GoFunction is a function library entry implemented natively in Go rather
// than loaded as authored JS. Arithmetic operators are registered this way.
type GoFunction func(args []any) (any, error)

// JSFunctionLibrary is the default FunctionLibrary: built-in arithmetic
// plus author-defined functions loaded from a single bundled JS module,
// evaluated in a small pool of goja VMs so concurrent inputs don't
// serialize on one interpreter.
type JSFunctionLibrary struct {
	goFns map[string]GoFunction

	pool    *puddle.Pool[*goja.Runtime]
	program *goja.Program // compiled author functions module, nil if none supplied
}

// NewJSFunctionLibrary compiles authorSource (author-defined functions,
// written as a JS module that assigns named functions onto `exports`)
// through esbuild, and prepares a VM pool of the given size. An empty
// authorSource is valid - only the built-in arithmetic operators will be
// available.
func NewJSFunctionLibrary(authorSource string, poolSize int32) (*JSFunctionLibrary, error) {
	lib := &JSFunctionLibrary{
		goFns: defaultArithmetic(),
	}

	if authorSource != "" {
		result := api.Transform(authorSource, api.TransformOptions{
			Loader: api.LoaderJS,
			Target: api.ES2020,
			Format: api.FormatCommonJS,
		})
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("compiling author functions: %s", result.Errors[0].Text)
		}

		program, err := goja.Compile("functions", string(result.Code), false)
		if err != nil {
			return nil, errors.Wrap(err, "compiling author functions bytecode")
		}
		lib.program = program
	}

	pool, err := puddle.NewPool(&puddle.Config[*goja.Runtime]{
		Constructor: func(ctx context.Context) (*goja.Runtime, error) {
			return lib.newVM()
		},
		Destructor: func(vm *goja.Runtime) { vm.ClearInterrupt() },
		MaxSize:    poolSize,
	})
	if err != nil {
		return nil, err
	}
	lib.pool = pool

	return lib, nil
}

func (l *JSFunctionLibrary) newVM() (*goja.Runtime, error) {
	vm := goja.New()
	if l.program == nil {
		return vm, nil
	}

	exports := vm.NewObject()
	module := vm.NewObject()
	_ = module.Set("exports", exports)
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, err
	}
	if _, err := vm.RunProgram(l.program); err != nil {
		return nil, errors.Wrap(err, "evaluating author functions module")
	}
	return vm, nil
}

// Call implements runtime.FunctionLibrary. Go-native functions (arithmetic
// operators) are checked first; anything else is dispatched to the
// compiled author functions module. A JS function that itself returns a
// function is surfaced as an ast.DocumentCallable, honoring the partial-
// application contract.
func (l *JSFunctionLibrary) Call(ctx context.Context, name string, args []any) (any, error) {
	if fn, ok := l.goFns[name]; ok {
		return fn(args)
	}
	return l.callAuthored(ctx, name, args)
}

func (l *JSFunctionLibrary) callAuthored(ctx context.Context, name string, args []any) (any, error) {
	if l.program == nil {
		return nil, fmt.Errorf("function library has no author functions module: %q is undefined", name)
	}

	res, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquiring function VM")
	}
	defer res.Release()
	vm := res.Value()

	exportsVal := vm.Get("exports")
	exports, ok := exportsVal.(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("author functions module has no exports")
	}
	fnVal := exports.Get(name)
	if fnVal == nil || goja.IsUndefined(fnVal) {
		return nil, fmt.Errorf("function %q is not defined", name)
	}
	callable, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, fmt.Errorf("%q is not callable", name)
	}

	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jsArgs[i] = vm.ToValue(a)
	}

	out, err := callable(goja.Undefined(), jsArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "calling function %q", name)
	}

	if resultCallable, ok := goja.AssertFunction(out); ok {
		return ast.DocumentCallable(func(doc map[string]any) (any, error) {
			res2, err := l.pool.Acquire(ctx)
			if err != nil {
				return nil, err
			}
			defer res2.Release()
			innerVM := res2.Value()
			docVal := innerVM.ToValue(doc)
			v, err := resultCallable(goja.Undefined(), docVal)
			if err != nil {
				return nil, err
			}
			return v.Export(), nil
		}), nil
	}

	return out.Export(), nil
}

func defaultArithmetic() map[string]GoFunction {
	num := func(v any) float64 {
		switch t := v.(type) {
		case int64:
			return float64(t)
		case int:
			return float64(t)
		case float64:
			return t
		default:
			return 0
		}
	}
	isInt := func(vs ...any) bool {
		for _, v := range vs {
			switch v.(type) {
			case int64, int:
			default:
				return false
			}
		}
		return true
	}
	binary := func(name string, f func(a, b float64) float64) GoFunction {
		return func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
			}
			result := f(num(args[0]), num(args[1]))
			if isInt(args[0], args[1]) && result == float64(int64(result)) {
				return int64(result), nil
			}
			return result, nil
		}
	}

	return map[string]GoFunction{
		"+": binary("+", func(a, b float64) float64 { return a + b }),
		"-": binary("-", func(a, b float64) float64 { return a - b }),
		"*": binary("*", func(a, b float64) float64 { return a * b }),
		"/": func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("/ expects 2 arguments, got %d", len(args))
			}
			b := num(args[1])
			if b == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return num(args[0]) / b, nil
		},
		"mod": func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("mod expects 2 arguments, got %d", len(args))
			}
			a, b := int64(num(args[0])), int64(num(args[1]))
			if b == 0 {
				return nil, fmt.Errorf("modulo by zero")
			}
			return a % b, nil
		},
	}
}
