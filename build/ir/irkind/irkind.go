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

// Package irkind defines the type codes of the loop intermediate representation (IR).
package irkind

import "github.com/gx-org/backend/dtype"

// Code of a scalar type.
type Code uint8

// Type codes supported by the IR.
const (
	Invalid Code = iota
	// Int is a signed integer.
	Int
	// UInt is an unsigned integer. A 1-bit unsigned integer is a boolean.
	UInt
	// Float is an IEEE floating point number.
	Float
	// BFloat is a brain floating point number.
	BFloat
	// Handle is an opaque pointer.
	Handle
)

// String returns a string representation of a code.
func (c Code) String() string {
	switch c {
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Float:
		return "float"
	case BFloat:
		return "bfloat"
	case Handle:
		return "handle"
	}
	return "invalid"
}

// CodeFromString returns a code given its string representation.
func CodeFromString(s string) Code {
	switch s {
	case "int":
		return Int
	case "uint":
		return UInt
	case "float":
		return Float
	case "bfloat":
		return BFloat
	case "handle":
		return Handle
	}
	return Invalid
}

// IsNumeric returns true if values of the code support arithmetic.
func IsNumeric(c Code) bool {
	switch c {
	case Int, UInt, Float, BFloat:
		return true
	}
	return false
}

// IsFloatCode returns true if the code is a floating point code.
func IsFloatCode(c Code) bool {
	return c == Float || c == BFloat
}

// FromDType returns the code of a backend data type.
// Bool maps to UInt: the number of bits tells booleans apart.
func FromDType(dt dtype.DataType) Code {
	switch dt {
	case dtype.Bool:
		return UInt
	case dtype.Int32, dtype.Int64:
		return Int
	case dtype.Uint32, dtype.Uint64:
		return UInt
	case dtype.Float32, dtype.Float64:
		return Float
	case dtype.Bfloat16:
		return BFloat
	}
	return Invalid
}

// DType returns the backend data type given a code and a number of bits.
// Returns dtype.Invalid if the backend has no matching data type.
func DType(c Code, bits int) dtype.DataType {
	switch {
	case c == UInt && bits == 1:
		return dtype.Bool
	case c == Int && bits == 32:
		return dtype.Int32
	case c == Int && bits == 64:
		return dtype.Int64
	case c == UInt && bits == 32:
		return dtype.Uint32
	case c == UInt && bits == 64:
		return dtype.Uint64
	case c == Float && bits == 32:
		return dtype.Float32
	case c == Float && bits == 64:
		return dtype.Float64
	case c == BFloat && bits == 16:
		return dtype.Bfloat16
	}
	return dtype.Invalid
}
