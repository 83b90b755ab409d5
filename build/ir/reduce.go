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
	"slices"

	"github.com/gx-org/loopir/base/ordered"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Combiner is the commutative and associative operation of a reduction.
type Combiner int

// Reduction combiners.
const (
	CombineSum Combiner = iota
	CombineMax
	CombineMin
)

// String returns the name of the combiner.
func (c Combiner) String() string {
	switch c {
	case CombineSum:
		return "Sum"
	case CombineMax:
		return "Max"
	case CombineMin:
		return "Min"
	}
	return "Unknown"
}

// CombinerFromString returns a combiner given its name.
func CombinerFromString(s string) (Combiner, error) {
	for _, c := range []Combiner{CombineSum, CombineMax, CombineMin} {
		if c.String() == s {
			return c, nil
		}
	}
	return CombineSum, errors.Errorf("unknown reduction combiner %q", s)
}

// Op returns the binary operator combining two partial results.
func (c Combiner) Op() BinaryOp {
	switch c {
	case CombineMax:
		return OpMax
	case CombineMin:
		return OpMin
	}
	return OpAdd
}

// Identity returns the identity element of the combiner for a type.
func (c Combiner) Identity(typ Type) (Expr, error) {
	switch c {
	case CombineSum:
		return MakeZero(typ)
	case CombineMax:
		return MinValue(typ)
	case CombineMin:
		return MaxValue(typ)
	}
	return nil, errors.Errorf("unknown reduction combiner %d", int(c))
}

// checkReduceAxes returns an error for every axis that cannot be used in a
// reduction. All the errors are returned at once.
func checkReduceAxes(axes []*IterVar) error {
	if len(axes) == 0 {
		return errors.Errorf("a reduction requires at least one axis")
	}
	seen := ordered.NewMap[*IterVar, int]()
	var errs error
	for i, ax := range axes {
		if ax == nil {
			errs = multierr.Append(errs, errors.Errorf("reduction axis %d is nil", i))
			continue
		}
		if !seen.StoreNew(ax, i) {
			first, _ := seen.Load(ax)
			errs = multierr.Append(errs, errors.Errorf("axis %s appears at positions %d and %d of the reduction", ax.Var().Name(), first, i))
			continue
		}
		if ax.IterType() != CommReduce {
			errs = multierr.Append(errs, errors.WithStack(&InvalidAxisRoleError{
				Axis:   ax.Var().Name(),
				Role:   ax.IterType(),
				Want:   CommReduce,
				Reason: "reductions are only defined over reduction axes",
			}))
		}
	}
	return errs
}

// NewReduce returns the reduction of a source expression over a set of axes.
// Every axis must be a CommReduce axis.
func NewReduce(combiner Combiner, source Expr, axes []*IterVar) (*Reduce, error) {
	if source == nil {
		return nil, errors.Errorf("reduction has no source expression")
	}
	if err := checkReduceAxes(axes); err != nil {
		return nil, err
	}
	typ := source.Type()
	if !typ.IsValid() || typ.IsHandle() {
		return nil, errors.Errorf("cannot reduce %s of type %s", source.String(), typ)
	}
	identity, err := combiner.Identity(typ.Element())
	if err != nil {
		return nil, err
	}
	return &Reduce{
		combiner: combiner,
		source:   source,
		axis:     slices.Clone(axes),
		identity: identity,
	}, nil
}

// Sum returns the sum of source over the domains of the axes.
func Sum(source Expr, axes []*IterVar) (*Reduce, error) {
	return NewReduce(CombineSum, source, axes)
}

// Max returns the maximum of source over the domains of the axes.
func Max(source Expr, axes []*IterVar) (*Reduce, error) {
	return NewReduce(CombineMax, source, axes)
}

// Min returns the minimum of source over the domains of the axes.
func Min(source Expr, axes []*IterVar) (*Reduce, error) {
	return NewReduce(CombineMin, source, axes)
}

// Combiner returns the reduction operation.
func (r *Reduce) Combiner() Combiner { return r.combiner }

// Source returns the expression being reduced.
func (r *Reduce) Source() Expr { return r.source }

// Axes returns the reduction axes, outermost first.
// The returned slice is a copy.
func (r *Reduce) Axes() []*IterVar { return slices.Clone(r.axis) }

// NumAxes returns the number of reduction axes.
func (r *Reduce) NumAxes() int { return len(r.axis) }

// Axis returns the i-th reduction axis.
func (r *Reduce) Axis(i int) *IterVar { return r.axis[i] }

// Identity returns the identity element of the reduction.
func (r *Reduce) Identity() Expr { return r.identity }

// Type of the reduction result.
func (r *Reduce) Type() Type { return r.source.Type() }
