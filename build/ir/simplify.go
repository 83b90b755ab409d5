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
	"math"

	"golang.org/x/exp/constraints"
)

// Simplify returns an expression equivalent to x where constant
// sub-expressions are folded and trivial arithmetic identities are applied.
// Sub-expressions that cannot be simplified are shared with x.
func Simplify(x Expr) Expr {
	switch xT := x.(type) {
	case *Binary:
		a, b := Simplify(xT.x), Simplify(xT.y)
		if s := simplifyBinary(xT.op, a, b); s != nil {
			return s
		}
		if a == xT.x && b == xT.y {
			return xT
		}
		return &Binary{op: xT.op, x: a, y: b}
	case *Compare:
		a, b := Simplify(xT.x), Simplify(xT.y)
		if s := simplifyCompare(xT.op, a, b); s != nil {
			return s
		}
		if a == xT.x && b == xT.y {
			return xT
		}
		return &Compare{op: xT.op, x: a, y: b}
	case *Logical:
		a, b := Simplify(xT.x), Simplify(xT.y)
		if s := simplifyLogical(xT.op, a, b); s != nil {
			return s
		}
		if a == xT.x && b == xT.y {
			return xT
		}
		return &Logical{op: xT.op, x: a, y: b}
	case *Not:
		a := Simplify(xT.x)
		if c, ok := a.(*UIntImm); ok {
			return newUIntImm(c.typ, boolToUint(c.val == 0))
		}
		if n, ok := a.(*Not); ok {
			return n.x
		}
		if a == xT.x {
			return xT
		}
		return &Not{x: a}
	case *Select:
		cond := Simplify(xT.cond)
		t, f := Simplify(xT.t), Simplify(xT.f)
		if c, ok := cond.(*UIntImm); ok {
			if c.val != 0 {
				return t
			}
			return f
		}
		if cond == xT.cond && t == xT.t && f == xT.f {
			return xT
		}
		return &Select{cond: cond, t: t, f: f}
	case *Cast:
		a := Simplify(xT.x)
		if c, ok := castConst(xT.typ, a); ok {
			return c
		}
		if a == xT.x {
			return xT
		}
		return castTo(xT.typ, a)
	case *Reduce:
		src := Simplify(xT.source)
		if src == xT.source {
			return xT
		}
		return &Reduce{combiner: xT.combiner, source: src, axis: xT.axis, identity: xT.identity}
	}
	return x
}

func floorDiv[T constraints.Integer](a, b T) T {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod[T constraints.Integer](a, b T) T {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// foldInt folds an arithmetic operation on integer constants.
// Returns false on a division by zero.
func foldInt[T constraints.Integer](op BinaryOp, a, b T) (T, bool) {
	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpDiv:
		if b == 0 {
			return 0, false
		}
		return floorDiv(a, b), true
	case OpMod:
		if b == 0 {
			return 0, false
		}
		return floorMod(a, b), true
	case OpMin:
		return min(a, b), true
	case OpMax:
		return max(a, b), true
	}
	return 0, false
}

func foldFloat[T constraints.Float](op BinaryOp, a, b T) (T, bool) {
	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpDiv:
		return a / b, true
	case OpMod:
		return a - b*T(math.Floor(float64(a/b))), true
	case OpMin:
		return min(a, b), true
	case OpMax:
		return max(a, b), true
	}
	return 0, false
}

func foldCompare[T constraints.Ordered](op CompareOp, a, b T) bool {
	switch op {
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	}
	return false
}

// foldBinary folds an operation on two constants of the same type.
// Returns nil if the operation cannot be folded.
func foldBinary(op BinaryOp, x, y Expr) Expr {
	switch xT := x.(type) {
	case *IntImm:
		yT, ok := y.(*IntImm)
		if !ok {
			return nil
		}
		if v, ok := foldInt(op, xT.val, yT.val); ok {
			return newIntImm(xT.typ, v)
		}
	case *UIntImm:
		yT, ok := y.(*UIntImm)
		if !ok {
			return nil
		}
		if v, ok := foldInt(op, xT.val, yT.val); ok {
			return newUIntImm(xT.typ, v)
		}
	case *FloatImm:
		yT, ok := y.(*FloatImm)
		if !ok {
			return nil
		}
		if v, ok := foldFloat(op, xT.val, yT.val); ok {
			return newFloatImm(xT.typ, v)
		}
	}
	return nil
}

func simplifyBinary(op BinaryOp, x, y Expr) Expr {
	if c := foldBinary(op, x, y); c != nil {
		return c
	}
	isInt := !x.Type().IsFloat()
	switch op {
	case OpAdd:
		if isConstValue(y, 0) {
			return x
		}
		if isConstValue(x, 0) {
			return y
		}
		// (a - b) + b
		if sub, ok := x.(*Binary); ok && sub.op == OpSub && Equal(sub.y, y) {
			return sub.x
		}
	case OpSub:
		if isConstValue(y, 0) {
			return x
		}
		if isInt && Equal(x, y) {
			return newIntOrUint(x.Type(), 0)
		}
		// (a + b) - a and (a + b) - b
		if add, ok := x.(*Binary); ok && add.op == OpAdd {
			if Equal(add.x, y) {
				return add.y
			}
			if Equal(add.y, y) {
				return add.x
			}
		}
	case OpMul:
		if isConstValue(y, 1) {
			return x
		}
		if isConstValue(x, 1) {
			return y
		}
		if isInt && (isConstValue(x, 0) || isConstValue(y, 0)) {
			return newIntOrUint(x.Type(), 0)
		}
	case OpDiv:
		if isConstValue(y, 1) {
			return x
		}
	case OpMin, OpMax:
		if Equal(x, y) {
			return x
		}
	}
	return nil
}

func newIntOrUint(typ Type, v int64) Expr {
	if typ.IsUInt() {
		return newUIntImm(typ, uint64(v))
	}
	return newIntImm(typ, v)
}

func simplifyCompare(op CompareOp, x, y Expr) Expr {
	switch xT := x.(type) {
	case *IntImm:
		if yT, ok := y.(*IntImm); ok {
			return Bool(foldCompare(op, xT.val, yT.val))
		}
	case *UIntImm:
		if yT, ok := y.(*UIntImm); ok {
			return Bool(foldCompare(op, xT.val, yT.val))
		}
	case *FloatImm:
		if yT, ok := y.(*FloatImm); ok {
			return Bool(foldCompare(op, xT.val, yT.val))
		}
	}
	if x.Type().IsFloat() || !x.Type().IsScalar() || !Equal(x, y) {
		return nil
	}
	switch op {
	case OpEQ, OpLE, OpGE:
		return Bool(true)
	default:
		return Bool(false)
	}
}

func simplifyLogical(op LogicalOp, x, y Expr) Expr {
	cx, xConst := x.(*UIntImm)
	cy, yConst := y.(*UIntImm)
	switch op {
	case OpAnd:
		if xConst {
			if cx.val == 0 {
				return x
			}
			return y
		}
		if yConst {
			if cy.val == 0 {
				return y
			}
			return x
		}
	case OpOr:
		if xConst {
			if cx.val != 0 {
				return x
			}
			return y
		}
		if yConst {
			if cy.val != 0 {
				return y
			}
			return x
		}
	}
	return nil
}
