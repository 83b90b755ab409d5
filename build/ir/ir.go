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

// Package ir is the loop Intermediate Representation (IR) core:
// expression nodes, iteration domains and iteration variables.
//
// All nodes are immutable once constructed and can be shared between
// goroutines without synchronisation. Nodes are only built through the
// functions of this package so that invariants are checked on construction.
// A change, for example of the role of an iteration variable, always builds
// a new node.
package ir

// ----------------------------------------------------------------------------
// Types of node in the tree.
type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// Expr is an expression computing a value.
	Expr interface {
		Node

		// Type of the value computed by the expression.
		Type() Type

		// String representation of the expression.
		String() string

		expr()
	}
)

// ----------------------------------------------------------------------------
// Expressions.
type (
	// Var is a named variable. Two variables are equal only if they are the
	// same node: the name is a hint used for display.
	Var struct {
		name string
		typ  Type
	}

	// IntImm is a signed integer constant.
	IntImm struct {
		typ Type
		val int64
	}

	// UIntImm is an unsigned integer or a boolean constant.
	UIntImm struct {
		typ Type
		val uint64
	}

	// FloatImm is a floating point constant.
	FloatImm struct {
		typ Type
		val float64
	}

	// Cast converts a value into another type.
	Cast struct {
		typ Type
		x   Expr
	}

	// Binary is an arithmetic operation between two operands of the same type.
	Binary struct {
		op   BinaryOp
		x, y Expr
	}

	// Compare compares two operands of the same type.
	Compare struct {
		op   CompareOp
		x, y Expr
	}

	// Logical is a boolean operation between two boolean operands.
	Logical struct {
		op   LogicalOp
		x, y Expr
	}

	// Not is a boolean negation.
	Not struct {
		x Expr
	}

	// Select returns t if cond is true, f otherwise.
	Select struct {
		cond, t, f Expr
	}

	// Reduce combines a source expression over the domains of a set of
	// reduction axes.
	Reduce struct {
		combiner Combiner
		source   Expr
		axis     []*IterVar
		identity Expr
	}
)

var (
	_ Expr = (*Var)(nil)
	_ Expr = (*IntImm)(nil)
	_ Expr = (*UIntImm)(nil)
	_ Expr = (*FloatImm)(nil)
	_ Expr = (*Cast)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*Compare)(nil)
	_ Expr = (*Logical)(nil)
	_ Expr = (*Not)(nil)
	_ Expr = (*Select)(nil)
	_ Expr = (*Reduce)(nil)

	_ Node = (*Range)(nil)
	_ Node = (*IterVar)(nil)
)

func (*Var) node()      {}
func (*IntImm) node()   {}
func (*UIntImm) node()  {}
func (*FloatImm) node() {}
func (*Cast) node()     {}
func (*Binary) node()   {}
func (*Compare) node()  {}
func (*Logical) node()  {}
func (*Not) node()      {}
func (*Select) node()   {}
func (*Reduce) node()   {}
func (*Range) node()    {}
func (*IterVar) node()  {}

func (*Var) expr()      {}
func (*IntImm) expr()   {}
func (*UIntImm) expr()  {}
func (*FloatImm) expr() {}
func (*Cast) expr()     {}
func (*Binary) expr()   {}
func (*Compare) expr()  {}
func (*Logical) expr()  {}
func (*Not) expr()      {}
func (*Select) expr()   {}
func (*Reduce) expr()   {}

// ----------------------------------------------------------------------------
// Var.

// DefaultVarName is the name given to variables created with an empty name.
const DefaultVarName = "v"

// NewVar returns a new variable. Each call returns a distinct variable,
// even if the name and the type are the same.
// An empty name is replaced by DefaultVarName.
func NewVar(name string, typ Type) *Var {
	if name == "" {
		name = DefaultVarName
	}
	return &Var{name: name, typ: typ}
}

// IndexVar returns a new int32 variable, the default type for loop variables.
func IndexVar(name string) *Var {
	return NewVar(name, Int32Type())
}

// DefaultVar returns a new int32 variable named DefaultVarName.
func DefaultVar() *Var {
	return IndexVar(DefaultVarName)
}

// CopyWithSuffix returns a new variable with the same type and a name
// formed by appending a suffix to the name of v.
func (v *Var) CopyWithSuffix(suffix string) *Var {
	return &Var{name: v.name + suffix, typ: v.typ}
}

// Name returns the name hint of the variable.
func (v *Var) Name() string { return v.name }

// Type of the variable.
func (v *Var) Type() Type { return v.typ }

// String returns the name of the variable.
func (v *Var) String() string { return v.name }

// ----------------------------------------------------------------------------
// Cast.

// Type of the cast result.
func (c *Cast) Type() Type { return c.typ }

// X returns the expression being cast.
func (c *Cast) X() Expr { return c.x }

// ----------------------------------------------------------------------------
// Binary.

// Op returns the operator.
func (b *Binary) Op() BinaryOp { return b.op }

// X returns the left operand.
func (b *Binary) X() Expr { return b.x }

// Y returns the right operand.
func (b *Binary) Y() Expr { return b.y }

// Type of the result, that is the type of the operands.
func (b *Binary) Type() Type { return b.x.Type() }

// ----------------------------------------------------------------------------
// Compare.

// Op returns the operator.
func (c *Compare) Op() CompareOp { return c.op }

// X returns the left operand.
func (c *Compare) X() Expr { return c.x }

// Y returns the right operand.
func (c *Compare) Y() Expr { return c.y }

// Type of the result: a boolean with as many lanes as the operands.
func (c *Compare) Type() Type { return BoolType().WithLanes(uint16(c.x.Type().Lanes())) }

// ----------------------------------------------------------------------------
// Logical.

// Op returns the operator.
func (l *Logical) Op() LogicalOp { return l.op }

// X returns the left operand.
func (l *Logical) X() Expr { return l.x }

// Y returns the right operand.
func (l *Logical) Y() Expr { return l.y }

// Type of the result.
func (l *Logical) Type() Type { return l.x.Type() }

// ----------------------------------------------------------------------------
// Not.

// X returns the negated operand.
func (n *Not) X() Expr { return n.x }

// Type of the result.
func (n *Not) Type() Type { return n.x.Type() }

// ----------------------------------------------------------------------------
// Select.

// Cond returns the condition.
func (s *Select) Cond() Expr { return s.cond }

// True returns the value when the condition is true.
func (s *Select) True() Expr { return s.t }

// False returns the value when the condition is false.
func (s *Select) False() Expr { return s.f }

// Type of the result.
func (s *Select) Type() Type { return s.t.Type() }
