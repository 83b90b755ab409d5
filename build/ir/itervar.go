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
)

// IterVarType is the role of an iteration variable.
// The role determines which loop transforms are legal (see Disallowed).
type IterVarType int

const (
	// DataPar is a data parallel axis, normally an axis of a tensor.
	// All manipulations are allowed. It does not mean that the loop
	// has to be executed in parallel.
	DataPar IterVarType = iota
	// ThreadIndex is the index of a thread in a fixed thread launching group.
	// The axis is already parallelised.
	ThreadIndex
	// CommReduce is a commutative reduction axis.
	CommReduce
	// Ordered is a serial axis with loop carried dependencies:
	// iterations must execute in order.
	Ordered
	// Opaque is an axis that may not correspond to any generated loop,
	// for example the axis of an external operator.
	Opaque
	// Unrolled is an axis whose loop has been unrolled.
	Unrolled
	// Vectorized is an axis whose loop has been vectorised.
	Vectorized
	// Parallelized is an axis whose loop has been parallelised.
	Parallelized

	numIterVarTypes
)

// LegacyCommReduceName is the misspelled name of CommReduce printed by
// earlier versions of the IR. It is still accepted by IterVarTypeFromString.
const LegacyCommReduceName = "CommRedude"

// String returns the display name of the role.
func (t IterVarType) String() string {
	switch t {
	case DataPar:
		return "DataPar"
	case ThreadIndex:
		return "ThreadIndex"
	case CommReduce:
		return "CommReduce"
	case Ordered:
		return "Ordered"
	case Opaque:
		return "Opaque"
	case Unrolled:
		return "Unrolled"
	case Vectorized:
		return "Vectorized"
	case Parallelized:
		return "Parallelized"
	}
	return "Unknown"
}

// IsValid returns true if the role is one of the defined roles.
func (t IterVarType) IsValid() bool {
	return t >= DataPar && t < numIterVarTypes
}

// IterVarTypes returns all the roles.
func IterVarTypes() []IterVarType {
	all := make([]IterVarType, numIterVarTypes)
	for i := range all {
		all[i] = IterVarType(i)
	}
	return all
}

// IterVarTypeFromString returns a role given its display name.
func IterVarTypeFromString(s string) (IterVarType, error) {
	if s == LegacyCommReduceName {
		return CommReduce, nil
	}
	for _, t := range IterVarTypes() {
		if t.String() == s {
			return t, nil
		}
	}
	return DataPar, errors.Errorf("unknown iteration variable role %q", s)
}

// IterVar is an iteration variable: a variable iterating over a one
// dimensional domain with a role.
//
// An IterVar never changes after construction. Changing the role of an
// axis builds a new IterVar (see Derive).
type IterVar struct {
	dom       *Range
	v         *Var
	iterType  IterVarType
	threadTag string
}

// NewIterVar returns a new iteration variable.
// The domain may be nil if it is not known yet.
// A non-empty thread tag requires the ThreadIndex role.
func NewIterVar(dom *Range, v *Var, iterType IterVarType, threadTag string) (*IterVar, error) {
	if v == nil {
		return nil, errors.Errorf("iteration variable has no variable")
	}
	if !iterType.IsValid() {
		return nil, errors.Errorf("iteration variable %s has an invalid role %d", v.Name(), int(iterType))
	}
	if threadTag != "" && iterType != ThreadIndex {
		return nil, errors.WithStack(&InvalidAxisRoleError{
			Axis:   v.Name(),
			Role:   iterType,
			Want:   ThreadIndex,
			Reason: "thread tag " + threadTag + " requires a thread index axis",
		})
	}
	if dom != nil && dom.Type() != v.Type() {
		return nil, errors.Errorf("iteration variable %s has type %s but its domain %s has type %s", v.Name(), v.Type(), dom.String(), dom.Type())
	}
	return &IterVar{dom: dom, v: v, iterType: iterType, threadTag: threadTag}, nil
}

func axisVarType(dom *Range) Type {
	if dom == nil {
		return Int32Type()
	}
	return dom.Type()
}

// ThreadAxis returns a new axis bound to a thread launching dimension,
// for example "threadIdx.x". The variable is named after the tag.
// The domain may be nil.
func ThreadAxis(dom *Range, tag string) (*IterVar, error) {
	if tag == "" {
		return nil, errors.WithStack(&InvalidAxisRoleError{
			Role:   ThreadIndex,
			Want:   ThreadIndex,
			Reason: "a thread axis requires a thread tag",
		})
	}
	return NewIterVar(dom, NewVar(tag, axisVarType(dom)), ThreadIndex, tag)
}

// DefaultReduceAxisName is the name of reduction axes created without a name.
const DefaultReduceAxisName = "rv"

// ReduceAxis returns a new commutative reduction axis.
// An empty name is replaced by DefaultReduceAxisName.
func ReduceAxis(dom *Range, name string) (*IterVar, error) {
	if name == "" {
		name = DefaultReduceAxisName
	}
	return NewIterVar(dom, NewVar(name, axisVarType(dom)), CommReduce, "")
}

// DataParAxis returns a new data parallel axis.
func DataParAxis(dom *Range, name string) (*IterVar, error) {
	return NewIterVar(dom, NewVar(name, axisVarType(dom)), DataPar, "")
}

// Dom returns the domain of the axis. Returns nil if the domain is unknown.
func (iv *IterVar) Dom() *Range { return iv.dom }

// Var returns the variable bound by the axis.
func (iv *IterVar) Var() *Var { return iv.v }

// IterType returns the role of the axis.
func (iv *IterVar) IterType() IterVarType { return iv.iterType }

// ThreadTag returns the thread tag. Empty if the axis is not bound to a thread.
func (iv *IterVar) ThreadTag() string { return iv.threadTag }

// AsExpr returns the variable of the axis as an expression.
func (iv *IterVar) AsExpr() Expr { return iv.v }

// Derive returns a new axis with the same variable and domain but a different
// role and thread tag. The variable is shared so that expressions referring
// to it remain valid for the new axis. The receiver is not modified.
func (iv *IterVar) Derive(iterType IterVarType, threadTag string) (*IterVar, error) {
	return NewIterVar(iv.dom, iv.v, iterType, threadTag)
}

// WithDom returns a new axis with the same variable, role and tag
// but a different domain.
func (iv *IterVar) WithDom(dom *Range) (*IterVar, error) {
	return NewIterVar(dom, iv.v, iv.iterType, iv.threadTag)
}

// String representation of the axis.
func (iv *IterVar) String() string {
	return formatIterVar(iv, nameHint)
}
