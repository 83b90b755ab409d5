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

// BinaryOp is an arithmetic operator.
type BinaryOp int

// Arithmetic operators.
// Integer division and modulo round towards negative infinity.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpMin
	OpMax
)

// String returns the operator symbol, or the function name for min and max.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	}
	return "?"
}

// CompareOp is a comparison operator.
type CompareOp int

// Comparison operators.
const (
	OpEQ CompareOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

// String returns the operator symbol.
func (op CompareOp) String() string {
	switch op {
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	}
	return "?"
}

// LogicalOp is a boolean operator.
type LogicalOp int

// Boolean operators.
const (
	OpAnd LogicalOp = iota
	OpOr
)

// String returns the operator symbol.
func (op LogicalOp) String() string {
	switch op {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

func checkOperand(x Expr) error {
	if x == nil {
		return errors.Errorf("missing operand")
	}
	if !x.Type().IsValid() {
		return errors.Errorf("operand %s has an invalid type", x.String())
	}
	return nil
}

// matchTypes converts two operands to a common type.
// A constant operand takes the type of the other operand unless a floating
// point constant meets an integer operand. Otherwise, integers
// are promoted to floats, narrow types are widened, and mixing signed with
// unsigned integers gives a signed integer.
func matchTypes(x, y Expr) (Expr, Expr, error) {
	if err := checkOperand(x); err != nil {
		return nil, nil, err
	}
	if err := checkOperand(y); err != nil {
		return nil, nil, err
	}
	tx, ty := x.Type(), y.Type()
	if tx == ty {
		return x, y, nil
	}
	if tx.Lanes() != ty.Lanes() {
		return nil, nil, errors.Errorf("cannot match types %s and %s: different number of lanes", tx, ty)
	}
	if tx.IsHandle() || ty.IsHandle() {
		return nil, nil, errors.Errorf("cannot match types %s and %s: handles do not support arithmetic", tx, ty)
	}
	if c, ok := castConst(ty, x); ok && keepsFloat(tx, ty) {
		return c, y, nil
	}
	if c, ok := castConst(tx, y); ok && keepsFloat(ty, tx) {
		return x, c, nil
	}
	var target Type
	switch {
	case tx.IsFloat() && !ty.IsFloat():
		target = tx
	case ty.IsFloat() && !tx.IsFloat():
		target = ty
	case tx.Code() == ty.Code():
		target = tx
		if ty.Bits() > tx.Bits() {
			target = ty
		}
	default:
		target = IntType(uint8(max(tx.Bits(), ty.Bits()))).WithLanes(uint16(tx.Lanes()))
	}
	return castTo(target, x), castTo(target, y), nil
}

// keepsFloat returns false if converting from to to drops a floating point
// type for an integer type.
func keepsFloat(from, to Type) bool {
	return !from.IsFloat() || to.IsFloat()
}

func castTo(typ Type, x Expr) Expr {
	if x.Type() == typ {
		return x
	}
	if c, ok := castConst(typ, x); ok {
		return c
	}
	return &Cast{typ: typ, x: x}
}

// NewCast converts an expression into another type.
// Converting a constant returns a new constant.
// Converting to the type of the expression returns the expression.
func NewCast(typ Type, x Expr) (Expr, error) {
	if err := checkOperand(x); err != nil {
		return nil, err
	}
	if !typ.IsValid() {
		return nil, errors.Errorf("cannot cast %s to an invalid type", x.String())
	}
	if typ.Lanes() != x.Type().Lanes() {
		return nil, errors.Errorf("cannot cast %s of type %s to %s: different number of lanes", x.String(), x.Type(), typ)
	}
	if typ.IsHandle() != x.Type().IsHandle() {
		return nil, errors.Errorf("cannot cast %s of type %s to %s", x.String(), x.Type(), typ)
	}
	return castTo(typ, x), nil
}

// NewBinary returns an arithmetic operation.
func NewBinary(op BinaryOp, x, y Expr) (Expr, error) {
	if op < OpAdd || op > OpMax {
		return nil, errors.Errorf("invalid arithmetic operator %d", op)
	}
	x, y, err := matchTypes(x, y)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid operands for %s", op)
	}
	if x.Type().Element().IsBool() && op != OpMin && op != OpMax {
		return nil, errors.Errorf("arithmetic operator %s not supported on booleans", op)
	}
	return &Binary{op: op, x: x, y: y}, nil
}

// Add returns x + y.
func Add(x, y Expr) (Expr, error) { return NewBinary(OpAdd, x, y) }

// Sub returns x - y.
func Sub(x, y Expr) (Expr, error) { return NewBinary(OpSub, x, y) }

// Mul returns x * y.
func Mul(x, y Expr) (Expr, error) { return NewBinary(OpMul, x, y) }

// Div returns x / y.
func Div(x, y Expr) (Expr, error) { return NewBinary(OpDiv, x, y) }

// Mod returns x % y.
func Mod(x, y Expr) (Expr, error) { return NewBinary(OpMod, x, y) }

// MinOf returns the minimum of x and y.
func MinOf(x, y Expr) (Expr, error) { return NewBinary(OpMin, x, y) }

// MaxOf returns the maximum of x and y.
func MaxOf(x, y Expr) (Expr, error) { return NewBinary(OpMax, x, y) }

// NewCompare returns a comparison between two operands.
func NewCompare(op CompareOp, x, y Expr) (Expr, error) {
	if op < OpEQ || op > OpGE {
		return nil, errors.Errorf("invalid comparison operator %d", op)
	}
	x, y, err := matchTypes(x, y)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid operands for %s", op)
	}
	return &Compare{op: op, x: x, y: y}, nil
}

// EQ returns x == y.
func EQ(x, y Expr) (Expr, error) { return NewCompare(OpEQ, x, y) }

// NE returns x != y.
func NE(x, y Expr) (Expr, error) { return NewCompare(OpNE, x, y) }

// LT returns x < y.
func LT(x, y Expr) (Expr, error) { return NewCompare(OpLT, x, y) }

// LE returns x <= y.
func LE(x, y Expr) (Expr, error) { return NewCompare(OpLE, x, y) }

// GT returns x > y.
func GT(x, y Expr) (Expr, error) { return NewCompare(OpGT, x, y) }

// GE returns x >= y.
func GE(x, y Expr) (Expr, error) { return NewCompare(OpGE, x, y) }

func checkBool(x Expr) error {
	if err := checkOperand(x); err != nil {
		return err
	}
	if !x.Type().Element().IsBool() {
		return errors.Errorf("%s has type %s but a boolean is required", x.String(), x.Type())
	}
	return nil
}

// NewLogical returns a boolean operation between two boolean operands.
func NewLogical(op LogicalOp, x, y Expr) (Expr, error) {
	if op != OpAnd && op != OpOr {
		return nil, errors.Errorf("invalid logical operator %d", op)
	}
	if err := checkBool(x); err != nil {
		return nil, err
	}
	if err := checkBool(y); err != nil {
		return nil, err
	}
	if x.Type() != y.Type() {
		return nil, errors.Errorf("cannot apply %s to %s and %s: mismatched types %s and %s", op, x.String(), y.String(), x.Type(), y.Type())
	}
	return &Logical{op: op, x: x, y: y}, nil
}

// And returns x && y.
func And(x, y Expr) (Expr, error) { return NewLogical(OpAnd, x, y) }

// Or returns x || y.
func Or(x, y Expr) (Expr, error) { return NewLogical(OpOr, x, y) }

// NewNot returns !x.
func NewNot(x Expr) (Expr, error) {
	if err := checkBool(x); err != nil {
		return nil, err
	}
	return &Not{x: x}, nil
}

// NewSelect returns t if cond is true, f otherwise.
func NewSelect(cond, t, f Expr) (Expr, error) {
	if err := checkBool(cond); err != nil {
		return nil, errors.Wrapf(err, "invalid select condition")
	}
	t, f, err := matchTypes(t, f)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid select operands")
	}
	if cond.Type().Lanes() != t.Type().Lanes() {
		return nil, errors.Errorf("select condition %s has %d lanes but operands have %d", cond.String(), cond.Type().Lanes(), t.Type().Lanes())
	}
	return &Select{cond: cond, t: t, f: f}, nil
}
