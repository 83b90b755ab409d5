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
package irparse

import (
	"go/ast"
	"go/token"
	"math"
	"strconv"

	"github.com/gx-org/loopir/build/fmterr"
	"github.com/gx-org/loopir/build/ir"
)

type listingParser struct {
	app     *fmterr.Appender
	listing *Listing
	// failed are identifiers whose declaration failed.
	// Errors are not reported again when they are used.
	failed map[string]bool
}

func (p *listingParser) stmt(stmt ast.Stmt) {
	assign, ok := stmt.(*ast.AssignStmt)
	if !ok {
		p.app.Appendf(stmt, "unsupported statement: only declarations and results are supported")
		return
	}
	if len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
		p.app.Appendf(assign, "assignment with %d identifiers and %d values: only one is supported", len(assign.Lhs), len(assign.Rhs))
		return
	}
	lhs, ok := assign.Lhs[0].(*ast.Ident)
	if !ok {
		p.app.Appendf(assign.Lhs[0], "left-hand side of an assignment must be an identifier")
		return
	}
	switch assign.Tok {
	case token.ASSIGN:
		if lhs.Name != "_" {
			p.app.Appendf(lhs, "cannot assign to %s: use %s := ... to declare an identifier or _ = ... for a result", lhs.Name, lhs.Name)
			return
		}
		if x, ok := p.expr(assign.Rhs[0]); ok {
			p.listing.Results = append(p.listing.Results, x)
		}
	case token.DEFINE:
		p.define(lhs, assign.Rhs[0])
	default:
		p.app.Appendf(assign, "unsupported assignment %s", assign.Tok)
	}
}

func (p *listingParser) define(lhs *ast.Ident, rhs ast.Expr) {
	name := lhs.Name
	if name == "_" {
		p.app.Appendf(lhs, "no new identifier on the left side of :=")
		return
	}
	if p.listing.names.Has(name) || p.failed[name] {
		p.app.Appendf(lhs, "%s redeclared in this listing", name)
		return
	}
	p.app.Push(fmterr.PrefixWith("declaration of %s: ", name))
	node, ok := p.declValue(lhs, rhs)
	p.app.Pop()
	if !ok {
		p.failed[name] = true
		return
	}
	p.listing.names.Store(name, node)
	switch node.(type) {
	case *ir.Var, *ir.IterVar:
		p.listing.Decls = append(p.listing.Decls, node)
	}
}

func compositeName(lit *ast.CompositeLit) string {
	id, ok := lit.Type.(*ast.Ident)
	if !ok {
		return ""
	}
	return id.Name
}

func (p *listingParser) declValue(lhs *ast.Ident, rhs ast.Expr) (ir.Node, bool) {
	if lit, ok := rhs.(*ast.CompositeLit); ok {
		switch compositeName(lit) {
		case "Var":
			return p.varDecl(lhs, lit)
		case "IterVar":
			return p.iterVarDecl(lhs, lit)
		}
	}
	return p.expr(rhs)
}

// fields returns the values of the fields of a composite literal.
func (p *listingParser) fields(lit *ast.CompositeLit, allowed ...string) (map[string]ast.Expr, bool) {
	fields := make(map[string]ast.Expr)
	ok := true
	for _, elt := range lit.Elts {
		kv, isKV := elt.(*ast.KeyValueExpr)
		if !isKV {
			ok = p.app.Appendf(elt, "missing field name in %s literal", compositeName(lit))
			continue
		}
		key, isIdent := kv.Key.(*ast.Ident)
		if !isIdent {
			ok = p.app.Appendf(kv.Key, "invalid field name in %s literal", compositeName(lit))
			continue
		}
		known := false
		for _, name := range allowed {
			known = known || name == key.Name
		}
		if !known {
			ok = p.app.Appendf(key, "unknown field %s in %s literal", key.Name, compositeName(lit))
			continue
		}
		if _, dup := fields[key.Name]; dup {
			ok = p.app.Appendf(key, "duplicate field %s in %s literal", key.Name, compositeName(lit))
			continue
		}
		fields[key.Name] = kv.Value
	}
	return fields, ok
}

func (p *listingParser) stringField(x ast.Expr) (string, bool) {
	lit, ok := x.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", p.app.Appendf(x, "expected a string literal")
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", p.app.AppendAt(x, err)
	}
	return s, true
}

func (p *listingParser) typeField(x ast.Expr) (ir.Type, bool) {
	id, ok := x.(*ast.Ident)
	if !ok {
		return ir.Type{}, p.app.Appendf(x, "expected a type name")
	}
	typ, err := ir.ParseType(id.Name)
	if err != nil {
		return ir.Type{}, p.app.AppendAt(x, err)
	}
	return typ, true
}

func (p *listingParser) varDecl(lhs *ast.Ident, lit *ast.CompositeLit) (ir.Node, bool) {
	fields, ok := p.fields(lit, "Name", "Type")
	if !ok {
		return nil, false
	}
	name := lhs.Name
	if x, has := fields["Name"]; has {
		if name, ok = p.stringField(x); !ok {
			return nil, false
		}
	}
	typ := ir.Int32Type()
	if x, has := fields["Type"]; has {
		if typ, ok = p.typeField(x); !ok {
			return nil, false
		}
	}
	return ir.NewVar(name, typ), true
}

func (p *listingParser) rangeLit(x ast.Expr) (*ir.Range, bool) {
	lit, ok := x.(*ast.CompositeLit)
	if !ok || compositeName(lit) != "Range" {
		return nil, p.app.Appendf(x, "expected a Range literal")
	}
	fields, ok := p.fields(lit, "Min", "Extent")
	if !ok {
		return nil, false
	}
	minX, hasMin := fields["Min"]
	extentX, hasExtent := fields["Extent"]
	if !hasMin || !hasExtent {
		return nil, p.app.Appendf(lit, "a Range literal requires both Min and Extent")
	}
	lo, loOk := p.expr(minX)
	extent, extentOk := p.expr(extentX)
	if !loOk || !extentOk {
		return nil, false
	}
	r, err := ir.NewRangeMinExtent(lo, extent)
	if err != nil {
		return nil, p.app.AppendAt(lit, err)
	}
	return r, true
}

func (p *listingParser) iterVarDecl(lhs *ast.Ident, lit *ast.CompositeLit) (ir.Node, bool) {
	fields, ok := p.fields(lit, "Name", "Type", "Dom", "Role", "Tag")
	if !ok {
		return nil, false
	}
	name := lhs.Name
	if x, has := fields["Name"]; has {
		if name, ok = p.stringField(x); !ok {
			return nil, false
		}
	}
	var dom *ir.Range
	if x, has := fields["Dom"]; has {
		if dom, ok = p.rangeLit(x); !ok {
			return nil, false
		}
	}
	typ := ir.Int32Type()
	if dom != nil {
		typ = dom.Type()
	}
	if x, has := fields["Type"]; has {
		if typ, ok = p.typeField(x); !ok {
			return nil, false
		}
	}
	role := ir.DataPar
	if x, has := fields["Role"]; has {
		id, isIdent := x.(*ast.Ident)
		if !isIdent {
			return nil, p.app.Appendf(x, "expected a role name")
		}
		var err error
		if role, err = ir.IterVarTypeFromString(id.Name); err != nil {
			return nil, p.app.AppendAt(x, err)
		}
	}
	var tag string
	if x, has := fields["Tag"]; has {
		if tag, ok = p.stringField(x); !ok {
			return nil, false
		}
	}
	iv, err := ir.NewIterVar(dom, ir.NewVar(name, typ), role, tag)
	if err != nil {
		return nil, p.app.AppendAt(lit, err)
	}
	return iv, true
}

func (p *listingParser) ident(id *ast.Ident) (ir.Expr, bool) {
	switch id.Name {
	case "true":
		return ir.Bool(true), true
	case "false":
		return ir.Bool(false), true
	}
	node, ok := p.listing.names.Load(id.Name)
	if !ok {
		if p.failed[id.Name] {
			return nil, false
		}
		return nil, p.app.Appendf(id, "undefined: %s", id.Name)
	}
	switch nodeT := node.(type) {
	case *ir.IterVar:
		return nodeT.AsExpr(), true
	case ir.Expr:
		return nodeT, true
	}
	return nil, p.app.Appendf(id, "%s is not an expression", id.Name)
}

var binaryOps = map[token.Token]ir.BinaryOp{
	token.ADD: ir.OpAdd,
	token.SUB: ir.OpSub,
	token.MUL: ir.OpMul,
	token.QUO: ir.OpDiv,
	token.REM: ir.OpMod,
}

var compareOps = map[token.Token]ir.CompareOp{
	token.EQL: ir.OpEQ,
	token.NEQ: ir.OpNE,
	token.LSS: ir.OpLT,
	token.LEQ: ir.OpLE,
	token.GTR: ir.OpGT,
	token.GEQ: ir.OpGE,
}

var logicalOps = map[token.Token]ir.LogicalOp{
	token.LAND: ir.OpAnd,
	token.LOR:  ir.OpOr,
}

// check returns a function appending the error of a constructor at the
// position of a node.
func (p *listingParser) check(node ast.Node) func(ir.Expr, error) (ir.Expr, bool) {
	return func(x ir.Expr, err error) (ir.Expr, bool) {
		if err != nil {
			return nil, p.app.AppendAt(node, err)
		}
		return x, true
	}
}

func (p *listingParser) expr(expr ast.Expr) (ir.Expr, bool) {
	switch exprT := expr.(type) {
	case *ast.Ident:
		return p.ident(exprT)
	case *ast.BasicLit:
		return p.untypedLit(exprT, "")
	case *ast.ParenExpr:
		return p.expr(exprT.X)
	case *ast.UnaryExpr:
		return p.unaryExpr(exprT)
	case *ast.BinaryExpr:
		return p.binaryExpr(exprT)
	case *ast.CallExpr:
		return p.callExpr(exprT)
	case *ast.CompositeLit:
		if compositeName(exprT) == "Reduce" {
			return p.reduce(exprT)
		}
		return nil, p.app.Appendf(exprT, "%s literal cannot be used as an expression", compositeName(exprT))
	}
	return nil, p.app.Appendf(expr, "unsupported expression %T", expr)
}

// untypedLit returns a constant from a literal without type:
// integers are int32 and floats are float32.
func (p *listingParser) untypedLit(lit *ast.BasicLit, sign string) (ir.Expr, bool) {
	switch lit.Kind {
	case token.INT:
		v, err := strconv.ParseInt(sign+lit.Value, 0, 32)
		if err != nil {
			return nil, p.app.Appendf(lit, "invalid int32 constant %s%s: %v", sign, lit.Value, err)
		}
		return ir.Int32(int32(v)), true
	case token.FLOAT:
		v, err := strconv.ParseFloat(sign+lit.Value, 32)
		if err != nil {
			return nil, p.app.Appendf(lit, "invalid float32 constant %s%s: %v", sign, lit.Value, err)
		}
		return ir.Float32(float32(v)), true
	}
	return nil, p.app.Appendf(lit, "unsupported literal %s", lit.Value)
}

func (p *listingParser) unaryExpr(expr *ast.UnaryExpr) (ir.Expr, bool) {
	switch expr.Op {
	case token.NOT:
		x, ok := p.expr(expr.X)
		if !ok {
			return nil, false
		}
		return p.check(expr)(ir.NewNot(x))
	case token.ADD:
		return p.expr(expr.X)
	case token.SUB:
		if lit, isLit := expr.X.(*ast.BasicLit); isLit {
			return p.untypedLit(lit, "-")
		}
		x, ok := p.expr(expr.X)
		if !ok {
			return nil, false
		}
		zero, err := ir.MakeZero(x.Type().Element())
		if err != nil {
			return nil, p.app.AppendAt(expr, err)
		}
		return p.check(expr)(ir.Sub(zero, x))
	}
	return nil, p.app.Appendf(expr, "unsupported unary operator %s", expr.Op)
}

func (p *listingParser) binaryExpr(expr *ast.BinaryExpr) (ir.Expr, bool) {
	x, xOk := p.expr(expr.X)
	y, yOk := p.expr(expr.Y)
	if !xOk || !yOk {
		return nil, false
	}
	if op, ok := binaryOps[expr.Op]; ok {
		return p.check(expr)(ir.NewBinary(op, x, y))
	}
	if op, ok := compareOps[expr.Op]; ok {
		return p.check(expr)(ir.NewCompare(op, x, y))
	}
	if op, ok := logicalOps[expr.Op]; ok {
		return p.check(expr)(ir.NewLogical(op, x, y))
	}
	return nil, p.app.Appendf(expr, "unsupported binary operator %s", expr.Op)
}

func (p *listingParser) args(call *ast.CallExpr, name string, n int) ([]ir.Expr, bool) {
	if len(call.Args) != n {
		return nil, p.app.Appendf(call, "%s requires %d arguments but got %d", name, n, len(call.Args))
	}
	args := make([]ir.Expr, n)
	ok := true
	for i, arg := range call.Args {
		var argOk bool
		args[i], argOk = p.expr(arg)
		ok = ok && argOk
	}
	return args, ok
}

func (p *listingParser) callExpr(call *ast.CallExpr) (ir.Expr, bool) {
	fun, ok := call.Fun.(*ast.Ident)
	if !ok {
		return nil, p.app.Appendf(call.Fun, "unsupported function expression")
	}
	switch fun.Name {
	case "min", "max":
		args, ok := p.args(call, fun.Name, 2)
		if !ok {
			return nil, false
		}
		op := ir.OpMin
		if fun.Name == "max" {
			op = ir.OpMax
		}
		return p.check(call)(ir.NewBinary(op, args[0], args[1]))
	case "select":
		args, ok := p.args(call, fun.Name, 3)
		if !ok {
			return nil, false
		}
		return p.check(call)(ir.NewSelect(args[0], args[1], args[2]))
	}
	typ, err := ir.ParseType(fun.Name)
	if err != nil {
		return nil, p.app.Appendf(fun, "unknown function or type %s", fun.Name)
	}
	if len(call.Args) != 1 {
		return nil, p.app.Appendf(call, "conversion to %s requires 1 argument but got %d", typ, len(call.Args))
	}
	if c, isConst, ok := p.typedConst(typ, call.Args[0]); isConst {
		return c, ok
	}
	x, ok := p.expr(call.Args[0])
	if !ok {
		return nil, false
	}
	return p.check(call)(ir.NewCast(typ, x))
}

// typedConst parses a literal converted to a type, for example int64(3) or
// float32(-Inf). The second value is false if the argument is not a literal.
func (p *listingParser) typedConst(typ ir.Type, arg ast.Expr) (ir.Expr, bool, bool) {
	sign := ""
	if unary, ok := arg.(*ast.UnaryExpr); ok && unary.Op == token.SUB {
		sign = "-"
		arg = unary.X
	}
	if paren, ok := arg.(*ast.ParenExpr); ok && sign == "" {
		return p.typedConst(typ, paren.X)
	}
	switch argT := arg.(type) {
	case *ast.Ident:
		var v float64
		switch argT.Name {
		case "Inf":
			v = math.Inf(1)
			if sign != "" {
				v = math.Inf(-1)
			}
		case "NaN":
			v = math.NaN()
		default:
			return nil, false, false
		}
		if !typ.IsFloat() {
			return nil, true, p.app.Appendf(argT, "%s%s cannot be converted to %s", sign, argT.Name, typ)
		}
		c, err := ir.MakeFloatConst(typ, v)
		if err != nil {
			return nil, true, p.app.AppendAt(argT, err)
		}
		return c, true, true
	case *ast.BasicLit:
		c, ok := p.literal(typ, sign, argT)
		return c, true, ok
	}
	return nil, false, false
}

func (p *listingParser) literal(typ ir.Type, sign string, lit *ast.BasicLit) (ir.Expr, bool) {
	s := sign + lit.Value
	switch {
	case typ.IsFloat() && (lit.Kind == token.INT || lit.Kind == token.FLOAT):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, p.app.Appendf(lit, "invalid %s constant %s: %v", typ, s, err)
		}
		c, err := ir.MakeFloatConst(typ, v)
		return p.check(lit)(c, err)
	case lit.Kind != token.INT:
		return nil, p.app.Appendf(lit, "invalid %s constant %s", typ, s)
	case typ.IsUInt() && sign == "":
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, p.app.Appendf(lit, "invalid %s constant %s: %v", typ, s, err)
		}
		return p.intConst(lit, typ, int64(v))
	case typ.IsInt() || typ.IsUInt():
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, p.app.Appendf(lit, "invalid %s constant %s: %v", typ, s, err)
		}
		return p.intConst(lit, typ, v)
	}
	return nil, p.app.Appendf(lit, "cannot build a %s constant", typ)
}

// intConst builds an integer constant of a scalar or vector type.
// Unsigned values are passed with their bits unchanged.
func (p *listingParser) intConst(lit *ast.BasicLit, typ ir.Type, v int64) (ir.Expr, bool) {
	if typ.Element().IsBool() && v != 0 {
		v = 1
	}
	return p.check(lit)(ir.MakeConst(typ, v))
}

func (p *listingParser) reduce(lit *ast.CompositeLit) (ir.Expr, bool) {
	fields, ok := p.fields(lit, "Op", "Source", "Axis")
	if !ok {
		return nil, false
	}
	opX, hasOp := fields["Op"]
	srcX, hasSrc := fields["Source"]
	axisX, hasAxis := fields["Axis"]
	if !hasOp || !hasSrc || !hasAxis {
		return nil, p.app.Appendf(lit, "a Reduce literal requires Op, Source and Axis")
	}
	opID, isIdent := opX.(*ast.Ident)
	if !isIdent {
		return nil, p.app.Appendf(opX, "expected a reduction operator")
	}
	combiner, err := ir.CombinerFromString(opID.Name)
	if err != nil {
		return nil, p.app.AppendAt(opX, err)
	}
	axes, axesOk := p.axes(axisX)
	src, srcOk := p.expr(srcX)
	if !axesOk || !srcOk {
		return nil, false
	}
	r, err := ir.NewReduce(combiner, src, axes)
	if err != nil {
		return nil, p.app.AppendAt(lit, err)
	}
	return r, true
}

func (p *listingParser) axes(x ast.Expr) ([]*ir.IterVar, bool) {
	lit, ok := x.(*ast.CompositeLit)
	if !ok {
		return nil, p.app.Appendf(x, "expected a []IterVar literal")
	}
	arr, ok := lit.Type.(*ast.ArrayType)
	if !ok || arr.Len != nil {
		return nil, p.app.Appendf(x, "expected a []IterVar literal")
	}
	if elt, isIdent := arr.Elt.(*ast.Ident); !isIdent || elt.Name != "IterVar" {
		return nil, p.app.Appendf(arr.Elt, "expected a []IterVar literal")
	}
	axes := make([]*ir.IterVar, 0, len(lit.Elts))
	ok = true
	for _, elt := range lit.Elts {
		id, isIdent := elt.(*ast.Ident)
		if !isIdent {
			ok = p.app.Appendf(elt, "reduction axes must be axis identifiers")
			continue
		}
		iv, isAxis := p.listing.Axis(id.Name)
		if !isAxis {
			if !p.failed[id.Name] {
				p.app.Appendf(id, "%s is not an axis", id.Name)
			}
			ok = false
			continue
		}
		axes = append(axes, iv)
	}
	return axes, ok
}
