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
// Package irstring prints IR nodes as listings that can be parsed back.
//
// A listing declares every variable and axis before using it:
//
//	n := Var{Name: "n", Type: int32}
//	k := IterVar{Name: "k", Type: int32, Dom: Range{Min: 0, Extent: n}, Role: CommReduce}
//	_ = Reduce{Op: Sum, Source: k, Axis: []IterVar{k}}
package irstring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gx-org/loopir/base/uname"
	"github.com/gx-org/loopir/build/ir"
	"github.com/gx-org/loopir/internal/exprdeps"
	"github.com/pkg/errors"
)

// Reserved are the identifiers a listing never uses for a variable.
var Reserved = []string{"true", "false", "Inf", "NaN"}

// Printer prints IR nodes. The printer assigns an identifier to each
// variable the first time it is printed: two different variables with the
// same name are printed with different identifiers.
//
// A printer can be embedded by a larger IR printer to share the naming
// state across calls.
type Printer struct {
	names  *uname.Unique
	idents map[*ir.Var]string
}

// NewPrinter returns a new printer.
func NewPrinter() *Printer {
	names := uname.New()
	for _, r := range Reserved {
		names.Register(r)
	}
	return &Printer{
		names:  names,
		idents: make(map[*ir.Var]string),
	}
}

// Name returns the identifier of a variable.
func (p *Printer) Name(v *ir.Var) string {
	if id, ok := p.idents[v]; ok {
		return id
	}
	id := p.names.Ident(v.Name())
	p.idents[v] = id
	return id
}

// Expr returns the string representation of an expression.
func (p *Printer) Expr(x ir.Expr) string {
	return ir.Format(x, p.Name)
}

// Node returns the string representation of any node.
func (p *Printer) Node(n ir.Node) string {
	return ir.Format(n, p.Name)
}

// Decl returns the declaration of a variable or an axis.
func (p *Printer) Decl(n ir.Node) (string, error) {
	switch nT := n.(type) {
	case *ir.Var:
		return fmt.Sprintf("%s := Var{Name: %s, Type: %s}", p.Name(nT), strconv.Quote(nT.Name()), nT.Type()), nil
	case *ir.IterVar:
		// Assign the identifier of the axis before the identifiers used
		// by its domain.
		id := p.Name(nT.Var())
		return fmt.Sprintf("%s := %s", id, p.Node(nT)), nil
	}
	return "", errors.Errorf("cannot declare %T", n)
}

// Listing returns a listing of a set of root nodes.
// Expressions are printed as results after the declarations they depend on.
// Axes and variables are only declared.
func (p *Printer) Listing(roots ...ir.Node) (string, error) {
	decls, err := exprdeps.Decls(roots...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, decl := range decls {
		s, err := p.Decl(decl)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteString("\n")
	}
	for _, root := range roots {
		switch rootT := root.(type) {
		case *ir.Var, *ir.IterVar:
		case ir.Expr:
			fmt.Fprintf(&b, "_ = %s\n", p.Expr(rootT))
		default:
			return "", errors.Errorf("cannot list %T: only expressions, variables and axes are supported", root)
		}
	}
	return b.String(), nil
}

// Listing returns the listing of a set of nodes using a new printer.
func Listing(roots ...ir.Node) (string, error) {
	return NewPrinter().Listing(roots...)
}
