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

package ir

import (
	"maps"

	"github.com/pkg/errors"
)

// Walk traverses a node tree in depth-first order.
// It calls f for each node; children are visited only if f returns true.
// The axes of a reduction are visited before its source and the domain of
// an axis before its variable.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch nT := n.(type) {
	case *Range:
		Walk(nT.min, f)
		Walk(nT.extent, f)
	case *IterVar:
		if nT.dom != nil {
			Walk(nT.dom, f)
		}
		Walk(nT.v, f)
	case *Cast:
		Walk(nT.x, f)
	case *Binary:
		Walk(nT.x, f)
		Walk(nT.y, f)
	case *Compare:
		Walk(nT.x, f)
		Walk(nT.y, f)
	case *Logical:
		Walk(nT.x, f)
		Walk(nT.y, f)
	case *Not:
		Walk(nT.x, f)
	case *Select:
		Walk(nT.cond, f)
		Walk(nT.t, f)
		Walk(nT.f, f)
	case *Reduce:
		for _, ax := range nT.axis {
			Walk(ax, f)
		}
		Walk(nT.source, f)
	}
}

// Substitute replaces the free occurrences of variables in an expression.
// A replacement must have the type of the variable it replaces.
// Variables bound by a reduction are not replaced in its source.
// Sub-expressions without substitutions are shared with x.
func Substitute(x Expr, with map[*Var]Expr) (Expr, error) {
	for v, e := range with {
		if e == nil {
			return nil, errors.Errorf("no replacement for variable %s", v.Name())
		}
		if v.Type() != e.Type() {
			return nil, errors.Errorf("cannot replace %s of type %s with %s of type %s", v.Name(), v.Type(), e.String(), e.Type())
		}
	}
	return substitute(x, with)
}

func substitute2(x, y Expr, with map[*Var]Expr) (Expr, Expr, bool, error) {
	xs, err := substitute(x, with)
	if err != nil {
		return nil, nil, false, err
	}
	ys, err := substitute(y, with)
	if err != nil {
		return nil, nil, false, err
	}
	return xs, ys, xs != x || ys != y, nil
}

func substituteRange(r *Range, with map[*Var]Expr) (*Range, error) {
	if r == nil {
		return nil, nil
	}
	lo, ext, changed, err := substitute2(r.min, r.extent, with)
	if err != nil || !changed {
		return r, err
	}
	return NewRangeMinExtent(lo, ext)
}

func substitute(x Expr, with map[*Var]Expr) (Expr, error) {
	switch xT := x.(type) {
	case *Var:
		if e, ok := with[xT]; ok {
			return e, nil
		}
		return xT, nil
	case *Cast:
		a, err := substitute(xT.x, with)
		if err != nil || a == xT.x {
			return xT, err
		}
		return &Cast{typ: xT.typ, x: a}, nil
	case *Binary:
		a, b, changed, err := substitute2(xT.x, xT.y, with)
		if err != nil || !changed {
			return xT, err
		}
		return &Binary{op: xT.op, x: a, y: b}, nil
	case *Compare:
		a, b, changed, err := substitute2(xT.x, xT.y, with)
		if err != nil || !changed {
			return xT, err
		}
		return &Compare{op: xT.op, x: a, y: b}, nil
	case *Logical:
		a, b, changed, err := substitute2(xT.x, xT.y, with)
		if err != nil || !changed {
			return xT, err
		}
		return &Logical{op: xT.op, x: a, y: b}, nil
	case *Not:
		a, err := substitute(xT.x, with)
		if err != nil || a == xT.x {
			return xT, err
		}
		return &Not{x: a}, nil
	case *Select:
		cond, err := substitute(xT.cond, with)
		if err != nil {
			return nil, err
		}
		t, f, changed, err := substitute2(xT.t, xT.f, with)
		if err != nil {
			return nil, err
		}
		if !changed && cond == xT.cond {
			return xT, nil
		}
		return &Select{cond: cond, t: t, f: f}, nil
	case *Reduce:
		return substituteReduce(xT, with)
	}
	return x, nil
}

func substituteReduce(r *Reduce, with map[*Var]Expr) (Expr, error) {
	changed := false
	axes := make([]*IterVar, len(r.axis))
	inner, cloned := with, false
	for i, ax := range r.axis {
		dom, err := substituteRange(ax.dom, with)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot substitute in the domain of axis %s", ax.v.Name())
		}
		axes[i] = ax
		if dom != ax.dom {
			if axes[i], err = ax.WithDom(dom); err != nil {
				return nil, err
			}
			changed = true
		}
		if _, bound := inner[ax.v]; bound {
			if !cloned {
				inner, cloned = maps.Clone(with), true
			}
			delete(inner, ax.v)
		}
	}
	src, err := substitute(r.source, inner)
	if err != nil {
		return nil, err
	}
	if !changed && src == r.source {
		return r, nil
	}
	return &Reduce{combiner: r.combiner, source: src, axis: axes, identity: r.identity}, nil
}
