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
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type validator struct {
	errs error
	// reduced maps variables bound by a reduction to their axis.
	reduced map[*Var]*IterVar
	// scope is the set of variables bound by the enclosing reductions.
	scope map[*Var]bool
}

// Validate checks the scoping rules of a set of nodes and returns all the
// violations combined in a single error:
//   - a reduction axis must have a domain,
//   - the domain of a reduction axis cannot refer to the variables of the
//     reduction,
//   - a reduction variable cannot be used outside of its reduction,
//   - a nested reduction cannot reduce over an axis of an enclosing reduction.
//
// Returns nil if the nodes are valid.
func Validate(nodes ...Node) error {
	v := &validator{
		reduced: make(map[*Var]*IterVar),
		scope:   make(map[*Var]bool),
	}
	for _, n := range nodes {
		Walk(n, func(n Node) bool {
			if r, ok := n.(*Reduce); ok {
				for _, ax := range r.axis {
					v.reduced[ax.v] = ax
				}
			}
			return true
		})
	}
	for _, n := range nodes {
		v.node(n)
	}
	return v.errs
}

func (v *validator) append(err error) {
	v.errs = multierr.Append(v.errs, err)
}

func (v *validator) node(n Node) {
	switch nT := n.(type) {
	case *IterVar:
		v.iterVar(nT)
	case *Range:
		v.node(nT.min)
		v.node(nT.extent)
	case *Var:
		if _, isReduced := v.reduced[nT]; isReduced && !v.scope[nT] {
			v.append(errors.Errorf("reduction variable %s used outside of its reduction", nT.Name()))
		}
	case *Reduce:
		v.reduce(nT)
	case Expr:
		Walk(nT, func(child Node) bool {
			if child == n {
				return true
			}
			v.node(child)
			return false
		})
	}
}

func (v *validator) iterVar(iv *IterVar) {
	if iv.threadTag != "" && iv.iterType != ThreadIndex {
		v.append(errors.WithStack(&InvalidAxisRoleError{
			Axis:   iv.v.Name(),
			Role:   iv.iterType,
			Want:   ThreadIndex,
			Reason: "thread tag " + iv.threadTag + " requires a thread index axis",
		}))
	}
	if iv.dom == nil {
		return
	}
	if ext, ok := iv.dom.extent.(*IntImm); ok && ext.val < 0 {
		v.append(errors.WithStack(&InvalidRangeError{Min: iv.dom.min, Extent: ext, Reason: "negative extent"}))
	}
	v.node(iv.dom)
}

func (v *validator) reduce(r *Reduce) {
	if err := checkReduceAxes(r.axis); err != nil {
		v.append(err)
	}
	var bound []*Var
	for _, ax := range r.axis {
		if ax == nil {
			continue
		}
		if ax.dom == nil {
			v.append(errors.Errorf("reduction axis %s has no domain", ax.v.Name()))
		} else {
			for _, other := range r.axis {
				if other != nil && refersTo(ax.dom, other.v) {
					v.append(errors.Errorf("domain %s of reduction axis %s refers to reduction variable %s", ax.dom.String(), ax.v.Name(), other.v.Name()))
				}
			}
			v.iterVar(ax)
		}
		if v.scope[ax.v] {
			v.append(errors.Errorf("axis %s is reduced by both a reduction and an enclosing reduction", ax.v.Name()))
			continue
		}
		bound = append(bound, ax.v)
	}
	for _, b := range bound {
		v.scope[b] = true
	}
	v.node(r.source)
	for _, b := range bound {
		delete(v.scope, b)
	}
}

func refersTo(n Node, target *Var) bool {
	found := false
	Walk(n, func(n Node) bool {
		if n == target {
			found = true
		}
		return !found
	})
	return found
}
