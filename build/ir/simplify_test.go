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

package ir_test

import (
	"fmt"
	"testing"

	"github.com/gx-org/loopir/build/ir"
)

func TestSimplify(t *testing.T) {
	must := mustExpr(t)
	x := ir.NewVar("x", ir.Int32Type())
	y := ir.NewVar("y", ir.Int32Type())
	f := ir.NewVar("f", ir.Float32Type())
	b := ir.NewVar("b", ir.BoolType())
	tests := []struct {
		expr ir.Expr
		want string
	}{
		{expr: must(ir.Add(ir.Int32(3), ir.Int32(4))), want: "7"},
		{expr: must(ir.Div(ir.Int32(-7), ir.Int32(2))), want: "-4"},
		{expr: must(ir.Mod(ir.Int32(-7), ir.Int32(2))), want: "1"},
		{expr: must(ir.Mod(ir.Int32(7), ir.Int32(-2))), want: "-1"},
		{expr: must(ir.Div(ir.Int32(1), ir.Int32(0))), want: "(1 / 0)"},
		{expr: must(ir.Add(ir.Int32(2147483647), ir.Int32(1))), want: "-2147483648"},
		{expr: must(ir.Sub(ir.Uint32(0), ir.Uint32(1))), want: "uint32(4294967295)"},
		{expr: must(ir.Div(ir.Float32(1), ir.Float32(4))), want: "float32(0.25)"},
		{expr: must(ir.Add(x, ir.Int32(0))), want: "x"},
		{expr: must(ir.Mul(ir.Int32(1), x)), want: "x"},
		{expr: must(ir.Mul(x, ir.Int32(0))), want: "0"},
		{expr: must(ir.Mul(f, ir.Float32(0))), want: "(f * float32(0))"},
		{expr: must(ir.Div(x, ir.Int32(1))), want: "x"},
		{expr: must(ir.Sub(x, x)), want: "0"},
		{expr: must(ir.Sub(must(ir.Add(x, y)), x)), want: "y"},
		{expr: must(ir.Sub(must(ir.Add(x, y)), y)), want: "x"},
		{expr: must(ir.Add(must(ir.Sub(x, y)), y)), want: "x"},
		{expr: must(ir.MinOf(x, x)), want: "x"},
		{expr: must(ir.MaxOf(ir.Int32(3), ir.Int32(9))), want: "9"},
		{expr: must(ir.Add(must(ir.Add(x, ir.Int32(0))), must(ir.Mul(ir.Int32(2), ir.Int32(3))))), want: "(x + 6)"},
		{expr: must(ir.LT(ir.Int32(1), ir.Int32(2))), want: "true"},
		{expr: must(ir.LE(x, x)), want: "true"},
		{expr: must(ir.NE(x, x)), want: "false"},
		{expr: must(ir.And(b, ir.Bool(true))), want: "b"},
		{expr: must(ir.Or(b, ir.Bool(true))), want: "true"},
		{expr: must(ir.NewNot(must(ir.NewNot(b)))), want: "b"},
		{expr: must(ir.NewSelect(ir.Bool(false), x, y)), want: "y"},
		{expr: must(ir.NewCast(ir.Int64Type(), must(ir.Add(ir.Int32(1), ir.Int32(2))))), want: "int64(3)"},
		{expr: must(ir.NewCast(ir.BoolType(), ir.Int32(2))), want: "true"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("test%d", i), func(t *testing.T) {
			got := ir.Simplify(test.expr)
			if got.String() != test.want {
				t.Errorf("Simplify(%s) = %s but want %s", test.expr, got, test.want)
			}
			if got.Type() != test.expr.Type() {
				t.Errorf("Simplify(%s) changed the type from %s to %s", test.expr, test.expr.Type(), got.Type())
			}
		})
	}
}

func TestSimplifyShares(t *testing.T) {
	x := ir.NewVar("x", ir.Int32Type())
	y := ir.NewVar("y", ir.Int32Type())
	e := mustExpr(t)(ir.Mul(mustExpr(t)(ir.Add(x, y)), x))
	if got := ir.Simplify(e); got != e {
		t.Errorf("Simplify(%s) returned a new expression %s", e, got)
	}
}

func TestEqual(t *testing.T) {
	must := mustExpr(t)
	x := ir.NewVar("x", ir.Int32Type())
	y := ir.NewVar("y", ir.Int32Type())
	build := func(v *ir.Var) ir.Expr {
		return must(ir.NewSelect(must(ir.LT(v, ir.Int32(4))), must(ir.MinOf(v, ir.Int32(2))), ir.Int32(0)))
	}
	if !ir.Equal(build(x), build(x)) {
		t.Errorf("expressions built twice from the same variable are not equal")
	}
	if ir.Equal(build(x), build(y)) {
		t.Errorf("expressions built from different variables are equal")
	}
	if ir.Equal(ir.Int32(1), ir.Int64(1)) {
		t.Errorf("constants of different types are equal")
	}
	if ir.Equal(nil, x) || !ir.Equal(nil, nil) {
		t.Errorf("unexpected equality with nil")
	}
	k := mustAxis(t)(ir.ReduceAxis(mustRange(t, 0, 4), "k"))
	r1, err := ir.Sum(k.AsExpr(), []*ir.IterVar{k})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := ir.Sum(k.AsExpr(), []*ir.IterVar{k})
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(r1, r2) {
		t.Errorf("%s and %s are not equal", r1, r2)
	}
	r3, err := ir.Max(k.AsExpr(), []*ir.IterVar{k})
	if err != nil {
		t.Fatal(err)
	}
	if ir.Equal(r1, r3) {
		t.Errorf("%s and %s are equal", r1, r3)
	}
}
