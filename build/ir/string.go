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
)

// Namer returns the identifier used to print a variable.
type Namer func(*Var) string

func nameHint(v *Var) string { return v.name }

// Format returns the string representation of a node where variables
// are printed with name.
// A nil namer prints variables with their name hint.
func Format(n Node, name Namer) string {
	if name == nil {
		name = nameHint
	}
	switch nT := n.(type) {
	case *Range:
		return formatRange(nT, name)
	case *IterVar:
		return formatIterVar(nT, name)
	case Expr:
		return formatExpr(nT, name)
	}
	return fmt.Sprintf("%T", n)
}

func formatRange(r *Range, name Namer) string {
	if r == nil {
		return "Range{}"
	}
	return fmt.Sprintf("Range{Min: %s, Extent: %s}", formatExpr(r.min, name), formatExpr(r.extent, name))
}

func formatIterVar(iv *IterVar, name Namer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IterVar{Name: %s, Type: %s", strconv.Quote(iv.v.name), iv.v.typ)
	if iv.dom != nil {
		fmt.Fprintf(&b, ", Dom: %s", formatRange(iv.dom, name))
	}
	fmt.Fprintf(&b, ", Role: %s", iv.iterType)
	if iv.threadTag != "" {
		fmt.Fprintf(&b, ", Tag: %s", strconv.Quote(iv.threadTag))
	}
	b.WriteString("}")
	return b.String()
}

func formatFloat(typ Type, v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	bits := 64
	if typ.Bits() <= 32 {
		bits = 32
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}

func formatExpr(x Expr, name Namer) string {
	switch xT := x.(type) {
	case nil:
		return "<nil>"
	case *Var:
		return name(xT)
	case *IntImm:
		s := strconv.FormatInt(xT.val, 10)
		if xT.typ == Int32Type() {
			return s
		}
		return fmt.Sprintf("%s(%s)", xT.typ, s)
	case *UIntImm:
		if xT.typ == BoolType() {
			return strconv.FormatBool(xT.val != 0)
		}
		return fmt.Sprintf("%s(%d)", xT.typ, xT.val)
	case *FloatImm:
		return fmt.Sprintf("%s(%s)", xT.typ, formatFloat(xT.typ, xT.val))
	case *Cast:
		return fmt.Sprintf("%s(%s)", xT.typ, formatExpr(xT.x, name))
	case *Binary:
		if xT.op == OpMin || xT.op == OpMax {
			return fmt.Sprintf("%s(%s, %s)", xT.op, formatExpr(xT.x, name), formatExpr(xT.y, name))
		}
		return fmt.Sprintf("(%s %s %s)", formatExpr(xT.x, name), xT.op, formatExpr(xT.y, name))
	case *Compare:
		return fmt.Sprintf("(%s %s %s)", formatExpr(xT.x, name), xT.op, formatExpr(xT.y, name))
	case *Logical:
		return fmt.Sprintf("(%s %s %s)", formatExpr(xT.x, name), xT.op, formatExpr(xT.y, name))
	case *Not:
		return "!" + formatExpr(xT.x, name)
	case *Select:
		return fmt.Sprintf("select(%s, %s, %s)", formatExpr(xT.cond, name), formatExpr(xT.t, name), formatExpr(xT.f, name))
	case *Reduce:
		axes := make([]string, len(xT.axis))
		for i, ax := range xT.axis {
			axes[i] = name(ax.v)
		}
		return fmt.Sprintf("Reduce{Op: %s, Source: %s, Axis: []IterVar{%s}}", xT.combiner, formatExpr(xT.source, name), strings.Join(axes, ", "))
	}
	return fmt.Sprintf("%T", x)
}

func (c *IntImm) String() string   { return formatExpr(c, nameHint) }
func (c *UIntImm) String() string  { return formatExpr(c, nameHint) }
func (c *FloatImm) String() string { return formatExpr(c, nameHint) }
func (c *Cast) String() string     { return formatExpr(c, nameHint) }
func (b *Binary) String() string   { return formatExpr(b, nameHint) }
func (c *Compare) String() string  { return formatExpr(c, nameHint) }
func (l *Logical) String() string  { return formatExpr(l, nameHint) }
func (n *Not) String() string      { return formatExpr(n, nameHint) }
func (s *Select) String() string   { return formatExpr(s, nameHint) }

// String representation of the reduction.
// Axes are printed with the name of their variable.
func (r *Reduce) String() string { return formatExpr(r, nameHint) }
