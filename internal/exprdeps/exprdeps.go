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
// Package exprdeps extracts the declarations IR nodes depend on.
package exprdeps

import (
	"slices"

	"github.com/gx-org/loopir/base/ordered"
	"github.com/gx-org/loopir/build/ir"
	"github.com/pkg/errors"
)

type collector struct {
	axes     map[*ir.Var]*ir.IterVar
	done     *ordered.Map[*ir.Var, ir.Node]
	visiting map[*ir.Var]bool
	err      error
}

// Decls returns the variables and the axes used by a set of nodes in order
// of first use. Each declaration is either a *ir.Var or a *ir.IterVar.
// An axis always comes after the declarations its domain refers to.
//
// An error is returned if two different axes bind the same variable or if
// the domain of an axis refers to its own variable.
func Decls(nodes ...ir.Node) ([]ir.Node, error) {
	c := &collector{
		axes:     make(map[*ir.Var]*ir.IterVar),
		done:     ordered.NewMap[*ir.Var, ir.Node](),
		visiting: make(map[*ir.Var]bool),
	}
	for _, node := range nodes {
		ir.Walk(node, c.registerAxis)
	}
	if c.err != nil {
		return nil, c.err
	}
	for _, node := range nodes {
		ir.Walk(node, c.visit)
	}
	if c.err != nil {
		return nil, c.err
	}
	return slices.Collect(c.done.Values()), nil
}

func (c *collector) registerAxis(node ir.Node) bool {
	iv, ok := node.(*ir.IterVar)
	if !ok {
		return true
	}
	prev, ok := c.axes[iv.Var()]
	if !ok {
		c.axes[iv.Var()] = iv
		return true
	}
	if !prev.Equal(iv) && c.err == nil {
		c.err = errors.Errorf("variable %s is bound by two different axes: %s and %s", iv.Var().Name(), prev, iv)
	}
	return true
}

func (c *collector) visit(node ir.Node) bool {
	switch nodeT := node.(type) {
	case *ir.IterVar:
		c.axis(nodeT)
		return false
	case *ir.Var:
		if iv, isAxis := c.axes[nodeT]; isAxis {
			c.axis(iv)
		} else {
			c.done.Store(nodeT, nodeT)
		}
		return false
	}
	return true
}

func (c *collector) axis(iv *ir.IterVar) {
	v := iv.Var()
	if c.done.Has(v) {
		return
	}
	if c.visiting[v] {
		if c.err == nil {
			c.err = errors.Errorf("domain of axis %s refers to its own variable", v.Name())
		}
		return
	}
	c.visiting[v] = true
	if iv.Dom() != nil {
		ir.Walk(iv.Dom(), c.visit)
	}
	delete(c.visiting, v)
	c.done.Store(v, iv)
}

// FreeVars returns the variables used by an expression that are not bound
// by one of its reductions, in order of first use.
func FreeVars(x ir.Expr) []*ir.Var {
	bound := make(map[*ir.Var]bool)
	ir.Walk(x, func(node ir.Node) bool {
		if r, ok := node.(*ir.Reduce); ok {
			for _, ax := range r.Axes() {
				bound[ax.Var()] = true
			}
		}
		return true
	})
	free := ordered.NewMap[*ir.Var, bool]()
	ir.Walk(x, func(node ir.Node) bool {
		if v, ok := node.(*ir.Var); ok && !bound[v] {
			free.Store(v, true)
		}
		return true
	})
	return slices.Collect(free.Keys())
}
