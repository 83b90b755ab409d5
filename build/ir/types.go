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
	"math"
	"strconv"
	"strings"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/loopir/build/ir/irkind"
	"github.com/pkg/errors"
)

// Type of an expression: a type code, a number of bits and a number of lanes.
// A type with more than one lane is a vector type.
// Type is a comparable value.
type Type struct {
	code  irkind.Code
	bits  uint8
	lanes uint16
}

// NewType returns a type given a code, a number of bits and a number of lanes.
func NewType(code irkind.Code, bits uint8, lanes uint16) Type {
	return Type{code: code, bits: bits, lanes: lanes}
}

// IntType returns a scalar signed integer type.
func IntType(bits uint8) Type { return NewType(irkind.Int, bits, 1) }

// UIntType returns a scalar unsigned integer type.
func UIntType(bits uint8) Type { return NewType(irkind.UInt, bits, 1) }

// FloatType returns a scalar floating point type.
func FloatType(bits uint8) Type { return NewType(irkind.Float, bits, 1) }

// BFloat16Type returns the brain float type.
func BFloat16Type() Type { return NewType(irkind.BFloat, 16, 1) }

// BoolType returns the boolean type, that is a 1-bit unsigned integer.
func BoolType() Type { return UIntType(1) }

// HandleType returns the type of opaque pointers.
func HandleType() Type { return NewType(irkind.Handle, 64, 1) }

// Int32Type returns the default type of loop variables.
func Int32Type() Type { return IntType(32) }

// Int64Type returns a 64-bit signed integer type.
func Int64Type() Type { return IntType(64) }

// Float32Type returns a 32-bit float type.
func Float32Type() Type { return FloatType(32) }

// Float64Type returns a 64-bit float type.
func Float64Type() Type { return FloatType(64) }

// Code of the type.
func (t Type) Code() irkind.Code { return t.code }

// Bits returns the number of bits of an element.
func (t Type) Bits() int { return int(t.bits) }

// Lanes returns the number of lanes.
func (t Type) Lanes() int { return int(t.lanes) }

// WithLanes returns the same type with a different number of lanes.
func (t Type) WithLanes(lanes uint16) Type {
	t.lanes = lanes
	return t
}

// Element returns the scalar type of an element.
func (t Type) Element() Type { return t.WithLanes(1) }

// IsValid returns true if the type has a valid code.
func (t Type) IsValid() bool { return t.code != irkind.Invalid && t.bits > 0 && t.lanes > 0 }

// IsScalar returns true if the type has a single lane.
func (t Type) IsScalar() bool { return t.lanes == 1 }

// IsBool returns true if the type is a boolean.
func (t Type) IsBool() bool { return t.code == irkind.UInt && t.bits == 1 }

// IsInt returns true if the type is a signed integer.
func (t Type) IsInt() bool { return t.code == irkind.Int }

// IsUInt returns true if the type is an unsigned integer (including booleans).
func (t Type) IsUInt() bool { return t.code == irkind.UInt }

// IsInteger returns true if the type is a signed or unsigned integer, but not a boolean.
func (t Type) IsInteger() bool { return (t.IsInt() || t.IsUInt()) && !t.IsBool() }

// IsFloat returns true if the type is a floating point type.
func (t Type) IsFloat() bool { return irkind.IsFloatCode(t.code) }

// IsHandle returns true if the type is an opaque handle.
func (t Type) IsHandle() bool { return t.code == irkind.Handle }

// String representation of the type.
func (t Type) String() string {
	var base string
	switch {
	case !t.IsValid():
		return "invalid"
	case t.IsBool():
		base = "bool"
	case t.IsHandle():
		base = "handle"
	default:
		base = t.code.String() + strconv.Itoa(int(t.bits))
	}
	if t.lanes == 1 {
		return base
	}
	return fmt.Sprintf("%sx%d", base, t.lanes)
}

// ParseType returns the type given its string representation.
func ParseType(s string) (Type, error) {
	base, lanesS, isVector := strings.Cut(s, "x")
	lanes := uint16(1)
	if isVector {
		l, err := strconv.ParseUint(lanesS, 10, 16)
		if err != nil || l < 2 {
			return Type{}, errors.Errorf("invalid number of lanes in type %q", s)
		}
		lanes = uint16(l)
	}
	switch base {
	case "bool":
		return BoolType().WithLanes(lanes), nil
	case "handle":
		return HandleType().WithLanes(lanes), nil
	}
	digits := strings.IndexAny(base, "0123456789")
	if digits <= 0 {
		return Type{}, errors.Errorf("unknown type %q", s)
	}
	code := irkind.CodeFromString(base[:digits])
	if code == irkind.Invalid {
		return Type{}, errors.Errorf("unknown type %q", s)
	}
	bits, err := strconv.ParseUint(base[digits:], 10, 8)
	if err != nil || bits == 0 || bits > 64 {
		return Type{}, errors.Errorf("invalid number of bits in type %q", s)
	}
	typ := NewType(code, uint8(bits), lanes)
	if code == irkind.BFloat && bits != 16 {
		return Type{}, errors.Errorf("invalid brain float type %q", s)
	}
	if code == irkind.Float && bits != 16 && bits != 32 && bits != 64 {
		return Type{}, errors.Errorf("invalid floating point type %q", s)
	}
	return typ, nil
}

// TypeFromDType returns the scalar type of a backend data type.
func TypeFromDType(dt dtype.DataType) (Type, error) {
	code := irkind.FromDType(dt)
	if code == irkind.Invalid {
		return Type{}, errors.Errorf("data type %v has no IR type", dt)
	}
	if dt == dtype.Bool {
		return BoolType(), nil
	}
	return NewType(code, uint8(8*dtype.Sizeof(dt)), 1), nil
}

// DType returns the backend data type of the type elements.
// Returns dtype.Invalid if the backend does not support the type.
func (t Type) DType() dtype.DataType {
	return irkind.DType(t.code, int(t.bits))
}

func intBounds(bits int) (int64, int64) {
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	return -(int64(1) << (bits - 1)), (int64(1) << (bits - 1)) - 1
}

func uintMax(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return (uint64(1) << bits) - 1
}

func floatMax(t Type) (float64, error) {
	switch {
	case t.code == irkind.BFloat:
		return 3.3895313892515355e+38, nil
	case t.bits == 16:
		return 65504, nil
	case t.bits == 32:
		return math.MaxFloat32, nil
	case t.bits == 64:
		return math.MaxFloat64, nil
	}
	return 0, errors.Errorf("no maximum value for type %s", t)
}

// MinValue returns the smallest value of a scalar type as a constant.
// For floating point types, this is the lowest finite value.
func MinValue(t Type) (Expr, error) {
	switch {
	case t.IsInt():
		lo, _ := intBounds(t.Bits())
		return newIntImm(t, lo), nil
	case t.IsUInt():
		return newUIntImm(t, 0), nil
	case t.IsFloat():
		hi, err := floatMax(t)
		if err != nil {
			return nil, err
		}
		return newFloatImm(t, -hi), nil
	}
	return nil, errors.Errorf("type %s has no minimum value", t)
}

// MaxValue returns the largest value of a scalar type as a constant.
// For floating point types, this is the largest finite value.
func MaxValue(t Type) (Expr, error) {
	switch {
	case t.IsInt():
		_, hi := intBounds(t.Bits())
		return newIntImm(t, hi), nil
	case t.IsUInt():
		return newUIntImm(t, uintMax(t.Bits())), nil
	case t.IsFloat():
		hi, err := floatMax(t)
		if err != nil {
			return nil, err
		}
		return newFloatImm(t, hi), nil
	}
	return nil, errors.Errorf("type %s has no maximum value", t)
}
