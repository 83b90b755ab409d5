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
// Package interp evaluates loop IR expressions to constants.
//
// The interpreter is a reference implementation of the semantics of the IR:
// a reduction combines its source evaluated over the cross product of the
// domains of its axes, starting from the identity of its combiner.
package interp

import (
	"github.com/gx-org/loopir/build/ir"
	"github.com/gx-org/loopir/internal/exprdeps"
	"github.com/pkg/errors"
)

// Interpreter evaluates expressions.
// An interpreter is never modified after creation and can be used from
// multiple goroutines.
type Interpreter struct {
	maxIterations int
}

// New returns a new interpreter.
func New(opts ...Option) (*Interpreter, error) {
	itp := &Interpreter{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		if err := opt(itp); err != nil {
			return nil, err
		}
	}
	return itp, nil
}

// Eval evaluates an expression given the values of its free variables.
// Values are constants of the type of their variable.
func (itp *Interpreter) Eval(x ir.Expr, env map[*ir.Var]ir.Expr) (ir.Expr, error) {
	var unbound []string
	for _, v := range exprdeps.FreeVars(x) {
		if _, ok := env[v]; !ok {
			unbound = append(unbound, v.Name())
		}
	}
	if len(unbound) > 0 {
		return nil, errors.Errorf("cannot evaluate %s: unbound variables %v", x.String(), unbound)
	}
	for v, val := range env {
		if val == nil || !ir.IsConst(val) {
			return nil, errors.Errorf("value of variable %s is not a constant", v.Name())
		}
		if val.Type() != v.Type() {
			return nil, errors.Errorf("variable %s of type %s has a value %s of type %s", v.Name(), v.Type(), val.String(), val.Type())
		}
	}
	ev := &evaluation{
		itp:   itp,
		frame: &frame{vals: env},
	}
	return ev.eval(x)
}

// Eval evaluates an expression with a new interpreter.
func Eval(x ir.Expr, env map[*ir.Var]ir.Expr, opts ...Option) (ir.Expr, error) {
	itp, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return itp.Eval(x, env)
}
