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
// Package irparse parses listings printed by the irstring package.
//
// A listing is a sequence of statements:
//
//	name := Var{Name: "n", Type: int32}
//	name := IterVar{Name: "k", Type: int32, Dom: Range{Min: 0, Extent: n}, Role: CommReduce, Tag: ""}
//	name := <expression>
//	_ = <expression>
//
// The last form declares a result of the listing. The other forms bind an
// identifier to a variable, an axis or an expression.
// All nodes are built with the ir constructors: a listing cannot describe
// an invalid node.
package irparse

import (
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/gx-org/loopir/base/ordered"
	"github.com/gx-org/loopir/build/fmterr"
	"github.com/gx-org/loopir/build/ir"
)

// Listing is the result of parsing a listing.
type Listing struct {
	// Decls are the variables and axes in declaration order.
	// Each declaration is either a *ir.Var or a *ir.IterVar.
	Decls []ir.Node
	// Results are the expressions of the listing.
	Results []ir.Expr

	names *ordered.Map[string, ir.Node]
}

// Lookup returns the node bound to an identifier:
// a *ir.Var, a *ir.IterVar or an ir.Expr for an alias.
func (l *Listing) Lookup(name string) (ir.Node, bool) {
	return l.names.Load(name)
}

// Var returns the variable bound to an identifier.
// The variable of an axis is returned for an axis identifier.
func (l *Listing) Var(name string) (*ir.Var, bool) {
	node, ok := l.names.Load(name)
	if !ok {
		return nil, false
	}
	switch nodeT := node.(type) {
	case *ir.Var:
		return nodeT, true
	case *ir.IterVar:
		return nodeT.Var(), true
	}
	return nil, false
}

// Axis returns the axis bound to an identifier.
func (l *Listing) Axis(name string) (*ir.IterVar, bool) {
	node, ok := l.names.Load(name)
	if !ok {
		return nil, false
	}
	iv, ok := node.(*ir.IterVar)
	return iv, ok
}

// Names returns the identifiers declared by the listing in declaration order.
func (l *Listing) Names() []string {
	names := make([]string, 0, l.names.Size())
	for name := range l.names.Keys() {
		names = append(names, name)
	}
	return names
}

const header = "package listing\nfunc _() {\n"

// Parse a listing. The name is used in error positions.
// All the errors found in the listing are returned.
func Parse(name, src string) (*Listing, error) {
	fset := token.NewFileSet()
	code := header + "//line " + name + ":1:1\n" + src + "\n}\n"
	file, err := parser.ParseFile(fset, name, code, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	var errs fmterr.Errors
	p := &listingParser{
		app: errs.NewAppender(fset),
		listing: &Listing{
			names: ordered.NewMap[string, ir.Node](),
		},
		failed: make(map[string]bool),
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		for _, stmt := range fn.Body.List {
			p.stmt(stmt)
		}
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return p.listing, nil
}
