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

import "math"

// Equal returns true if two expressions are structurally equal.
// Variables are only equal to themselves.
func Equal(x, y Expr) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	switch xT := x.(type) {
	case *IntImm:
		yT, ok := y.(*IntImm)
		return ok && xT.typ == yT.typ && xT.val == yT.val
	case *UIntImm:
		yT, ok := y.(*UIntImm)
		return ok && xT.typ == yT.typ && xT.val == yT.val
	case *FloatImm:
		yT, ok := y.(*FloatImm)
		return ok && xT.typ == yT.typ && math.Float64bits(xT.val) == math.Float64bits(yT.val)
	case *Cast:
		yT, ok := y.(*Cast)
		return ok && xT.typ == yT.typ && Equal(xT.x, yT.x)
	case *Binary:
		yT, ok := y.(*Binary)
		return ok && xT.op == yT.op && Equal(xT.x, yT.x) && Equal(xT.y, yT.y)
	case *Compare:
		yT, ok := y.(*Compare)
		return ok && xT.op == yT.op && Equal(xT.x, yT.x) && Equal(xT.y, yT.y)
	case *Logical:
		yT, ok := y.(*Logical)
		return ok && xT.op == yT.op && Equal(xT.x, yT.x) && Equal(xT.y, yT.y)
	case *Not:
		yT, ok := y.(*Not)
		return ok && Equal(xT.x, yT.x)
	case *Select:
		yT, ok := y.(*Select)
		return ok && Equal(xT.cond, yT.cond) && Equal(xT.t, yT.t) && Equal(xT.f, yT.f)
	case *Reduce:
		yT, ok := y.(*Reduce)
		if !ok || xT.combiner != yT.combiner || len(xT.axis) != len(yT.axis) {
			return false
		}
		for i, ax := range xT.axis {
			if !ax.Equal(yT.axis[i]) {
				return false
			}
		}
		return Equal(xT.source, yT.source)
	}
	return false
}

// Equal returns true if two axes bind the same variable with the same
// role, thread tag and structurally equal domains.
func (iv *IterVar) Equal(other *IterVar) bool {
	if iv == other {
		return true
	}
	if iv == nil || other == nil {
		return false
	}
	return iv.v == other.v &&
		iv.iterType == other.iterType &&
		iv.threadTag == other.threadTag &&
		iv.dom.Equal(other.dom)
}
