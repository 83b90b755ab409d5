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

	"github.com/gx-org/loopir/build/ir/irkind"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// wrapInt truncates a value to a number of bits and sign-extends it.
func wrapInt(v int64, bits int) int64 {
	if bits >= 64 || bits <= 0 {
		return v
	}
	shift := 64 - bits
	return (v << shift) >> shift
}

func wrapUint(v uint64, bits int) uint64 {
	return v & uintMax(bits)
}

// roundFloat rounds a value to the precision of a floating point type.
func roundFloat(v float64, typ Type) float64 {
	switch {
	case typ.code == irkind.BFloat:
		return roundBFloat16(v)
	case typ.bits == 16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	case typ.bits <= 32:
		return float64(float32(v))
	}
	return v
}

// roundBFloat16 keeps the upper 16 bits of the float32 representation,
// rounding to nearest even.
func roundBFloat16(v float64) float64 {
	f := float32(v)
	if f != f {
		return v
	}
	b := math.Float32bits(f)
	b += 0x7fff + (b>>16)&1
	return float64(math.Float32frombits(b &^ 0xffff))
}

func newIntImm(typ Type, v int64) *IntImm {
	return &IntImm{typ: typ, val: wrapInt(v, typ.Bits())}
}

func newUIntImm(typ Type, v uint64) *UIntImm {
	return &UIntImm{typ: typ, val: wrapUint(v, typ.Bits())}
}

func newFloatImm(typ Type, v float64) *FloatImm {
	return &FloatImm{typ: typ, val: roundFloat(v, typ)}
}

// Int32 returns an int32 constant.
func Int32(v int32) *IntImm { return newIntImm(Int32Type(), int64(v)) }

// Int64 returns an int64 constant.
func Int64(v int64) *IntImm { return newIntImm(Int64Type(), v) }

// Uint32 returns an uint32 constant.
func Uint32(v uint32) *UIntImm { return newUIntImm(UIntType(32), uint64(v)) }

// Uint64 returns an uint64 constant.
func Uint64(v uint64) *UIntImm { return newUIntImm(UIntType(64), v) }

// Float32 returns a float32 constant.
func Float32(v float32) *FloatImm { return newFloatImm(Float32Type(), float64(v)) }

// Float64 returns a float64 constant.
func Float64(v float64) *FloatImm { return newFloatImm(Float64Type(), v) }

var (
	trueValue  = newUIntImm(BoolType(), 1)
	falseValue = newUIntImm(BoolType(), 0)
)

// Bool returns a boolean constant.
func Bool(b bool) *UIntImm {
	if b {
		return trueValue
	}
	return falseValue
}

// MakeConst returns a constant of a given type from an integer value.
// The value wraps around if it does not fit in the type.
func MakeConst(typ Type, v int64) (Expr, error) {
	switch {
	case typ.IsInt():
		return newIntImm(typ, v), nil
	case typ.IsUInt():
		return newUIntImm(typ, uint64(v)), nil
	case typ.IsFloat():
		return newFloatImm(typ, float64(v)), nil
	}
	return nil, errors.Errorf("cannot build a constant of type %s", typ)
}

// MakeFloatConst returns a constant of a given type from a float value.
// The value is truncated for integer types.
func MakeFloatConst(typ Type, v float64) (Expr, error) {
	if typ.IsFloat() {
		return newFloatImm(typ, v), nil
	}
	return MakeConst(typ, int64(v))
}

// MakeZero returns the zero constant of a type.
func MakeZero(typ Type) (Expr, error) {
	return MakeConst(typ, 0)
}

// Type of the constant.
func (c *IntImm) Type() Type { return c.typ }

// Value of the constant.
func (c *IntImm) Value() int64 { return c.val }

// Type of the constant.
func (c *UIntImm) Type() Type { return c.typ }

// Value of the constant.
func (c *UIntImm) Value() uint64 { return c.val }

// Type of the constant.
func (c *FloatImm) Type() Type { return c.typ }

// Value of the constant.
func (c *FloatImm) Value() float64 { return c.val }

// IsConst returns true if the expression is a constant.
func IsConst(x Expr) bool {
	switch x.(type) {
	case *IntImm, *UIntImm, *FloatImm:
		return true
	}
	return false
}

// AsConstInt returns the value of an integer constant.
// Returns false if the expression is not an integer constant
// or if an unsigned value does not fit in an int64.
func AsConstInt(x Expr) (int64, bool) {
	switch xT := x.(type) {
	case *IntImm:
		return xT.val, true
	case *UIntImm:
		if xT.val > math.MaxInt64 {
			return 0, false
		}
		return int64(xT.val), true
	}
	return 0, false
}

// AsConstFloat returns the value of a constant as a float.
func AsConstFloat(x Expr) (float64, bool) {
	switch xT := x.(type) {
	case *IntImm:
		return float64(xT.val), true
	case *UIntImm:
		return float64(xT.val), true
	case *FloatImm:
		return xT.val, true
	}
	return 0, false
}

// isConstValue returns true if x is a constant equal to v.
func isConstValue(x Expr, v int64) bool {
	switch xT := x.(type) {
	case *IntImm:
		return xT.val == v
	case *UIntImm:
		return v >= 0 && xT.val == uint64(v)
	case *FloatImm:
		return xT.val == float64(v)
	}
	return false
}

// castConst converts a constant to another type.
// Returns false if x is not a constant or if the target type has no constants.
func castConst(typ Type, x Expr) (Expr, bool) {
	if typ.IsBool() {
		switch xT := x.(type) {
		case *IntImm:
			return newUIntImm(typ, boolToUint(xT.val != 0)), true
		case *UIntImm:
			return newUIntImm(typ, boolToUint(xT.val != 0)), true
		case *FloatImm:
			return newUIntImm(typ, boolToUint(xT.val != 0)), true
		}
		return nil, false
	}
	switch xT := x.(type) {
	case *IntImm:
		switch {
		case typ.IsInt():
			return newIntImm(typ, xT.val), true
		case typ.IsUInt():
			return newUIntImm(typ, uint64(xT.val)), true
		case typ.IsFloat():
			return newFloatImm(typ, float64(xT.val)), true
		}
	case *UIntImm:
		switch {
		case typ.IsInt():
			return newIntImm(typ, int64(xT.val)), true
		case typ.IsUInt():
			return newUIntImm(typ, xT.val), true
		case typ.IsFloat():
			return newFloatImm(typ, float64(xT.val)), true
		}
	case *FloatImm:
		switch {
		case typ.IsInt():
			return newIntImm(typ, int64(xT.val)), true
		case typ.IsUInt():
			return newUIntImm(typ, uint64(int64(xT.val))), true
		case typ.IsFloat():
			return newFloatImm(typ, xT.val), true
		}
	}
	return nil, false
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
