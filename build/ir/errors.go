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
	"fmt"
)

type (
	// InvalidRangeError is returned when a range has a provably negative
	// extent or bounds that are not integers.
	InvalidRangeError struct {
		Min, Extent Expr
		Reason      string
	}

	// InvalidAxisRoleError is returned when an axis is used in a way its role
	// does not permit, for example a reduction over a data parallel axis or
	// a thread tag on an axis that is not a thread index.
	InvalidAxisRoleError struct {
		Axis   string
		Role   IterVarType
		Want   IterVarType
		Reason string
	}

	// IllegalTransformError is returned by CheckTransform when the legality
	// table of the axis role disallows a transform.
	IllegalTransformError struct {
		Axis      *IterVar
		Transform Transform
	}
)

func exprString(x Expr) string {
	if x == nil {
		return "<nil>"
	}
	return x.String()
}

func (err *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range Range{Min: %s, Extent: %s}: %s", exprString(err.Min), exprString(err.Extent), err.Reason)
}

func (err *InvalidAxisRoleError) Error() string {
	return fmt.Sprintf("axis %s has role %s but role %s is required: %s", err.Axis, err.Role, err.Want, err.Reason)
}

func (err *IllegalTransformError) Error() string {
	return fmt.Sprintf("transform %s is not allowed on axis %s with role %s", err.Transform, err.Axis.Var().Name(), err.Axis.IterType())
}
