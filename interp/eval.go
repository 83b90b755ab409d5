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
package interp

import (
	"github.com/gx-org/loopir/build/ir"
	"github.com/pkg/errors"
)

type frame struct {
	parent *frame
	vals   map[*ir.Var]ir.Expr
}

func (fr *frame) find(v *ir.Var) (ir.Expr, bool) {
	for ; fr != nil; fr = fr.parent {
		if val, ok := fr.vals[v]; ok {
			return val, true
		}
	}
	return nil, false
}

type evaluation struct {
	itp        *Interpreter
	frame      *frame
	iterations int
}

// fold builds a node from constant operands and folds it into a constant.
func fold(x ir.Expr, err error) (ir.Expr, error) {
	if err != nil {
		return nil, err
	}
	c := ir.Simplify(x)
	if !ir.IsConst(c) {
		return nil, errors.Errorf("cannot evaluate %s", x.String())
	}
	return c, nil
}

func (ev *evaluation) eval(x ir.Expr) (ir.Expr, error) {
	if lanes := x.Type().Lanes(); lanes != 1 {
		return nil, errors.Errorf("cannot evaluate %s: vector of %d lanes not supported", x.String(), lanes)
	}
	switch xT := x.(type) {
	case *ir.IntImm, *ir.UIntImm, *ir.FloatImm:
		return x, nil
	case *ir.Var:
		val, ok := ev.frame.find(xT)
		if !ok {
			return nil, errors.Errorf("variable %s is not bound", xT.Name())
		}
		return val, nil
	case *ir.Cast:
		v, err := ev.eval(xT.X())
		if err != nil {
			return nil, err
		}
		return fold(ir.NewCast(xT.Type(), v))
	case *ir.Binary:
		a, b, err := ev.eval2(xT.X(), xT.Y())
		if err != nil {
			return nil, err
		}
		if (xT.Op() == ir.OpDiv || xT.Op() == ir.OpMod) && !b.Type().IsFloat() {
			if v, ok := ir.AsConstInt(b); ok && v == 0 {
				return nil, errors.Errorf("integer division by zero in %s", xT.String())
			}
		}
		return fold(ir.NewBinary(xT.Op(), a, b))
	case *ir.Compare:
		a, b, err := ev.eval2(xT.X(), xT.Y())
		if err != nil {
			return nil, err
		}
		return fold(ir.NewCompare(xT.Op(), a, b))
	case *ir.Logical:
		a, err := ev.eval(xT.X())
		if err != nil {
			return nil, err
		}
		// Short-circuit.
		if v, _ := ir.AsConstInt(a); (v != 0) == (xT.Op() == ir.OpOr) {
			return a, nil
		}
		return ev.eval(xT.Y())
	case *ir.Not:
		a, err := ev.eval(xT.X())
		if err != nil {
			return nil, err
		}
		return fold(ir.NewNot(a))
	case *ir.Select:
		cond, err := ev.eval(xT.Cond())
		if err != nil {
			return nil, err
		}
		if v, _ := ir.AsConstInt(cond); v != 0 {
			return ev.eval(xT.True())
		}
		return ev.eval(xT.False())
	case *ir.Reduce:
		return ev.reduce(xT)
	}
	return nil, errors.Errorf("cannot evaluate %T", x)
}

func (ev *evaluation) eval2(x, y ir.Expr) (ir.Expr, ir.Expr, error) {
	a, err := ev.eval(x)
	if err != nil {
		return nil, nil, err
	}
	b, err := ev.eval(y)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (ev *evaluation) reduce(r *ir.Reduce) (ir.Expr, error) {
	parent := ev.frame
	ev.frame = &frame{parent: parent, vals: make(map[*ir.Var]ir.Expr)}
	defer func() { ev.frame = parent }()
	acc := r.Identity()
	if err := ev.loop(r, 0, &acc); err != nil {
		return nil, errors.Wrapf(err, "cannot evaluate %s", r.String())
	}
	return acc, nil
}

// loop iterates over the domain of the i-th axis of a reduction.
// The domains of the inner axes are evaluated within the outer loops.
func (ev *evaluation) loop(r *ir.Reduce, i int, acc *ir.Expr) error {
	if i == r.NumAxes() {
		val, err := ev.eval(r.Source())
		if err != nil {
			return err
		}
		*acc, err = fold(ir.NewBinary(r.Combiner().Op(), *acc, val))
		return err
	}
	axis := r.Axis(i)
	if axis.Dom() == nil {
		return errors.Errorf("axis %s has no domain", axis.Var().Name())
	}
	minV, err := ev.evalInt(axis.Dom().Min())
	if err != nil {
		return errors.Wrapf(err, "cannot evaluate the domain of axis %s", axis.Var().Name())
	}
	extent, err := ev.evalInt(axis.Dom().Extent())
	if err != nil {
		return errors.Wrapf(err, "cannot evaluate the domain of axis %s", axis.Var().Name())
	}
	if extent < 0 {
		return errors.Errorf("axis %s has a negative extent %d", axis.Var().Name(), extent)
	}
	for it := minV; it < minV+extent; it++ {
		ev.iterations++
		if ev.iterations > ev.itp.maxIterations {
			return errors.Errorf("evaluation exceeds the maximum number of iterations (%d)", ev.itp.maxIterations)
		}
		val, err := ir.MakeConst(axis.Var().Type(), it)
		if err != nil {
			return err
		}
		ev.frame.vals[axis.Var()] = val
		if err := ev.loop(r, i+1, acc); err != nil {
			return err
		}
	}
	delete(ev.frame.vals, axis.Var())
	return nil
}

func (ev *evaluation) evalInt(x ir.Expr) (int64, error) {
	c, err := ev.eval(x)
	if err != nil {
		return 0, err
	}
	v, ok := ir.AsConstInt(c)
	if !ok {
		return 0, errors.Errorf("%s is not an integer constant", c.String())
	}
	return v, nil
}
