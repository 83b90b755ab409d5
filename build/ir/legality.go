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
	"strings"

	"github.com/pkg/errors"
)

// Transform is a loop transform a scheduler can apply to an axis.
type Transform int

// Loop transforms.
const (
	Split Transform = iota
	Fuse
	Reorder
	Vectorize
	Parallelize
	Unroll
	Bind
	ComputeAt

	numTransforms
)

// String returns the name of the transform.
func (t Transform) String() string {
	switch t {
	case Split:
		return "split"
	case Fuse:
		return "fuse"
	case Reorder:
		return "reorder"
	case Vectorize:
		return "vectorize"
	case Parallelize:
		return "parallelize"
	case Unroll:
		return "unroll"
	case Bind:
		return "bind"
	case ComputeAt:
		return "compute_at"
	}
	return "unknown"
}

// Transforms returns all the transforms.
func Transforms() []Transform {
	all := make([]Transform, numTransforms)
	for i := range all {
		all[i] = Transform(i)
	}
	return all
}

// TransformFromString returns a transform given its name.
func TransformFromString(s string) (Transform, error) {
	for _, t := range Transforms() {
		if t.String() == s {
			return t, nil
		}
	}
	return Split, errors.Errorf("unknown transform %q", s)
}

// TransformSet is a set of transforms.
type TransformSet uint16

// NewTransformSet returns a set with the given transforms.
func NewTransformSet(ts ...Transform) TransformSet {
	var s TransformSet
	for _, t := range ts {
		s |= 1 << t
	}
	return s
}

// Has returns true if the set contains a transform.
func (s TransformSet) Has(t Transform) bool {
	return t >= 0 && t < numTransforms && s&(1<<t) != 0
}

// Empty returns true if the set has no transform.
func (s TransformSet) Empty() bool { return s == 0 }

// Transforms returns the transforms in the set in declaration order.
func (s TransformSet) Transforms() []Transform {
	var ts []Transform
	for _, t := range Transforms() {
		if s.Has(t) {
			ts = append(ts, t)
		}
	}
	return ts
}

// String representation of the set.
func (s TransformSet) String() string {
	ts := s.Transforms()
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Disallowed returns the transforms a scheduler must not apply to an axis
// with the given role. Transforms not in the set are legal.
func Disallowed(t IterVarType) TransformSet {
	switch t {
	case DataPar:
		return 0
	case ThreadIndex:
		// Already bound to a launch dimension.
		return NewTransformSet(Split, Fuse, Vectorize, Parallelize)
	case CommReduce:
		// Requires a reduction tree lowering.
		return NewTransformSet(Parallelize, Vectorize)
	case Ordered:
		// Loop carried dependencies.
		return NewTransformSet(Reorder, Parallelize, Vectorize)
	case Opaque:
		return NewTransformSet(Transforms()...)
	case Unrolled:
		return NewTransformSet(Unroll)
	case Vectorized:
		return NewTransformSet(Vectorize)
	case Parallelized:
		return NewTransformSet(Parallelize)
	}
	return NewTransformSet(Transforms()...)
}

// Allows returns true if a transform is legal for an axis with the role.
func (t IterVarType) Allows(tr Transform) bool {
	return !Disallowed(t).Has(tr)
}

// CheckTransform returns an IllegalTransformError if the role of an axis
// disallows a transform. Scheduling passes call it before rewriting an axis.
func CheckTransform(iv *IterVar, tr Transform) error {
	if iv == nil {
		return errors.Errorf("cannot check transform %s on a nil axis", tr)
	}
	if iv.IterType().Allows(tr) {
		return nil
	}
	return errors.WithStack(&IllegalTransformError{Axis: iv, Transform: tr})
}
