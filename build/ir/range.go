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

// Range is the half-open interval [min, min+extent).
// A range with a zero extent is empty.
type Range struct {
	min, extent Expr
}

func checkBound(name string, x Expr) error {
	if x == nil {
		return errors.Errorf("missing range %s", name)
	}
	typ := x.Type()
	if !typ.IsScalar() || !typ.IsInteger() {
		return errors.Errorf("range %s %s has type %s but a scalar integer is required", name, x.String(), typ)
	}
	return nil
}

func constLess(x, y Expr) bool {
	switch xT := x.(type) {
	case *IntImm:
		yT, ok := y.(*IntImm)
		return ok && xT.val < yT.val
	case *UIntImm:
		yT, ok := y.(*UIntImm)
		return ok && xT.val < yT.val
	}
	return false
}

// constExtentOverflows returns true if the extent between two signed integer
// constants with lo <= hi does not fit their type.
func constExtentOverflows(lo, hi Expr) bool {
	l, ok := lo.(*IntImm)
	if !ok {
		return false
	}
	h, ok := hi.(*IntImm)
	if !ok || h.val < l.val {
		return false
	}
	_, maxV := intBounds(l.typ.Bits())
	return uint64(h.val)-uint64(l.val) > uint64(maxV)
}

// NewRangeMinExtent returns the range [min, min+extent).
// An error is returned if the extent is a negative constant.
// Bounds that are not constants are accepted without checks.
func NewRangeMinExtent(min, extent Expr) (*Range, error) {
	if err := checkBound("min", min); err != nil {
		return nil, errors.WithStack(&InvalidRangeError{Min: min, Extent: extent, Reason: err.Error()})
	}
	if err := checkBound("extent", extent); err != nil {
		return nil, errors.WithStack(&InvalidRangeError{Min: min, Extent: extent, Reason: err.Error()})
	}
	lo, ext, err := matchTypes(min, extent)
	if err != nil {
		return nil, errors.WithStack(&InvalidRangeError{Min: min, Extent: extent, Reason: err.Error()})
	}
	if v, ok := ext.(*IntImm); ok && v.val < 0 {
		return nil, errors.WithStack(&InvalidRangeError{Min: lo, Extent: ext, Reason: "negative extent"})
	}
	return &Range{min: lo, extent: ext}, nil
}

// NewRange returns the range [begin, end).
// The extent is computed as end - begin.
// An error is returned if both bounds are constants and end is less than
// begin, or if the extent of constant bounds does not fit their type.
func NewRange(begin, end Expr) (*Range, error) {
	if err := checkBound("begin", begin); err != nil {
		return nil, errors.WithStack(&InvalidRangeError{Min: begin, Reason: err.Error()})
	}
	if err := checkBound("end", end); err != nil {
		return nil, errors.WithStack(&InvalidRangeError{Min: begin, Reason: err.Error()})
	}
	lo, hi, err := matchTypes(begin, end)
	if err != nil {
		return nil, errors.WithStack(&InvalidRangeError{Min: begin, Reason: err.Error()})
	}
	if constExtentOverflows(lo, hi) {
		return nil, errors.WithStack(&InvalidRangeError{
			Min:    lo,
			Reason: "extent " + hi.String() + " - " + lo.String() + " overflows " + lo.Type().String(),
		})
	}
	extent := Simplify(&Binary{op: OpSub, x: hi, y: lo})
	if constLess(hi, lo) {
		return nil, errors.WithStack(&InvalidRangeError{
			Min:    lo,
			Extent: extent,
			Reason: "end " + hi.String() + " is less than begin " + lo.String(),
		})
	}
	return NewRangeMinExtent(lo, extent)
}

// Min returns the first value of the range.
func (r *Range) Min() Expr { return r.min }

// Extent returns the number of values in the range.
func (r *Range) Extent() Expr { return r.extent }

// Type of the range bounds.
func (r *Range) Type() Type { return r.min.Type() }

// End returns the first value after the range, that is min + extent.
func (r *Range) End() Expr {
	return Simplify(&Binary{op: OpAdd, x: r.min, y: r.extent})
}

// IsEmpty returns true if the range is provably empty.
// The second value is false if the emptiness of the range cannot be decided
// because its extent is not a constant.
func (r *Range) IsEmpty() (empty, known bool) {
	v, ok := AsConstInt(r.extent)
	if !ok {
		return false, false
	}
	return v == 0, true
}

// Equal returns true if two ranges have structurally equal bounds.
func (r *Range) Equal(other *Range) bool {
	if r == nil || other == nil {
		return r == other
	}
	return Equal(r.min, other.min) && Equal(r.extent, other.extent)
}

// String representation of the range.
func (r *Range) String() string {
	return formatRange(r, nameHint)
}
