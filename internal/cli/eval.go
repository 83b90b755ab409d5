// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gx-org/loopir/build/ir"
	"github.com/gx-org/loopir/build/ir/irstring"
	"github.com/gx-org/loopir/build/irparse"
	"github.com/gx-org/loopir/interp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// EvalOptions holds the flags of the eval command.
type EvalOptions struct {
	*RootOptions
	Set           map[string]string
	MaxIterations int
}

// EvalResult is the value of a result of a listing.
type EvalResult struct {
	Expr  string `yaml:"expr"`
	Value string `yaml:"value"`
}

// parseValue returns the constant of type typ written in s.
func parseValue(typ ir.Type, s string) (ir.Expr, error) {
	switch {
	case typ.IsBool():
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return ir.Bool(b), nil
	case typ.IsUInt():
		u, err := strconv.ParseUint(s, 0, typ.Bits())
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return ir.NewCast(typ, ir.Uint64(u))
	case typ.IsInt():
		i, err := strconv.ParseInt(s, 0, typ.Bits())
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return ir.MakeConst(typ, i)
	case typ.IsFloat():
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return ir.MakeFloatConst(typ, f)
	}
	return nil, errors.Errorf("cannot set a value of type %s", typ)
}

// Bindings returns the values of the variables of a listing given as
// identifier=value pairs.
func Bindings(listing *irparse.Listing, set map[string]string) (map[*ir.Var]ir.Expr, error) {
	env := make(map[*ir.Var]ir.Expr)
	var errs error
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		v, ok := listing.Var(name)
		if !ok {
			errs = multierr.Append(errs, errors.Errorf("undefined variable %s", name))
			continue
		}
		val, err := parseValue(v.Type(), set[name])
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "invalid value for %s", name))
			continue
		}
		env[v] = val
	}
	return env, errs
}

// Evaluate evaluates all the results of a listing.
func Evaluate(itp *interp.Interpreter, listing *irparse.Listing, env map[*ir.Var]ir.Expr) ([]EvalResult, error) {
	p := irstring.NewPrinter()
	for _, decl := range listing.Decls {
		if _, err := p.Decl(decl); err != nil {
			return nil, err
		}
	}
	results := make([]EvalResult, len(listing.Results))
	var errs error
	for i, res := range listing.Results {
		results[i].Expr = p.Expr(res)
		val, err := itp.Eval(res, env)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "result %d", i))
			continue
		}
		results[i].Value = val.String()
	}
	return results, errs
}

func formatResults(results []EvalResult) string {
	var b strings.Builder
	for _, res := range results {
		fmt.Fprintf(&b, "%s = %s\n", res.Expr, res.Value)
	}
	return b.String()
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate the results of a listing",
		Long: `Evaluate every result of a listing. The variables of the listing that are
not bound by a reduction are set with --set name=value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := parseListing(cmd, opts.RootOptions, args)
			if err != nil {
				return err
			}
			env, err := Bindings(listing, opts.Set)
			if err != nil {
				return err
			}
			itp, err := interp.New(interp.MaxIterations(opts.MaxIterations))
			if err != nil {
				return err
			}
			results, evalErr := Evaluate(itp, listing, env)
			if evalErr != nil {
				return evalErr
			}
			opts.Logger().Debug("listing evaluated", "results", len(results))
			return output(cmd, opts.RootOptions, formatResults(results), results)
		},
	}
	cmd.Flags().StringToStringVar(&opts.Set, "set", nil, "values of the free variables (name=value)")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", interp.DefaultMaxIterations, "maximum number of iterations of an evaluation")
	return cmd
}
