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
package irparse_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/loopir/build/ir"
	"github.com/gx-org/loopir/build/ir/irstring"
	"github.com/gx-org/loopir/build/irparse"
)

func checkAxis(t *testing.T, got, want *ir.IterVar) {
	t.Helper()
	if got.Var().Name() != want.Var().Name() || got.Var().Type() != want.Var().Type() {
		t.Errorf("got variable %s of type %s but want %s of type %s", got.Var().Name(), got.Var().Type(), want.Var().Name(), want.Var().Type())
	}
	if got.IterType() != want.IterType() {
		t.Errorf("got role %s but want %s", got.IterType(), want.IterType())
	}
	if got.ThreadTag() != want.ThreadTag() {
		t.Errorf("got thread tag %q but want %q", got.ThreadTag(), want.ThreadTag())
	}
	if (got.Dom() == nil) != (want.Dom() == nil) {
		t.Fatalf("got domain %v but want %v", got.Dom(), want.Dom())
	}
	if want.Dom() == nil {
		return
	}
	if got.Dom().String() != want.Dom().String() {
		t.Errorf("got domain %s but want %s", got.Dom(), want.Dom())
	}
}

func TestAxisRoundTrip(t *testing.T) {
	n := ir.NewVar("n", ir.Int32Type())
	m := ir.NewVar("m", ir.Int64Type())
	var axes []*ir.IterVar
	for i, role := range ir.IterVarTypes() {
		dom, err := ir.NewRange(ir.Int32(0), ir.Int32(int32(4*i+1)))
		if err != nil {
			t.Fatal(err)
		}
		tag := ""
		if role == ir.ThreadIndex {
			tag = "threadIdx.x"
		}
		iv, err := ir.NewIterVar(dom, ir.IndexVar(fmt.Sprintf("ax%d", i)), role, tag)
		if err != nil {
			t.Fatal(err)
		}
		axes = append(axes, iv)
	}
	symbolic, err := ir.NewRangeMinExtent(ir.Int32(1), n)
	if err != nil {
		t.Fatal(err)
	}
	k, err := ir.ReduceAxis(symbolic, "k")
	if err != nil {
		t.Fatal(err)
	}
	wide, err := ir.NewRange(ir.Int64(0), m)
	if err != nil {
		t.Fatal(err)
	}
	j, err := ir.DataParAxis(wide, "j")
	if err != nil {
		t.Fatal(err)
	}
	noDom, err := ir.ThreadAxis(nil, "blockIdx.y")
	if err != nil {
		t.Fatal(err)
	}
	axes = append(axes, k, j, noDom)
	for _, axis := range axes {
		t.Run(axis.Var().Name(), func(t *testing.T) {
			p := irstring.NewPrinter()
			src, err := p.Listing(axis)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			listing, err := irparse.Parse("test", src)
			if err != nil {
				t.Fatalf("cannot parse:\n%s\nerror: %+v", src, err)
			}
			got, ok := listing.Axis(p.Name(axis.Var()))
			if !ok {
				t.Fatalf("axis %s not found in:\n%s", p.Name(axis.Var()), src)
			}
			checkAxis(t, got, axis)
		})
	}
}

func TestExprRoundTrip(t *testing.T) {
	a := ir.NewVar("a", ir.Float32Type())
	b := ir.NewVar("b", ir.Int64Type())
	c := ir.NewVar("c", ir.BoolType())
	u := ir.NewVar("u", ir.UIntType(8))
	v := ir.NewVar("v", ir.Float32Type().WithLanes(4))
	w := ir.NewVar("w", ir.Int32Type().WithLanes(4))
	n := ir.NewVar("n", ir.Int32Type())
	dom, err := ir.NewRange(ir.Int32(0), n)
	if err != nil {
		t.Fatal(err)
	}
	k, err := ir.ReduceAxis(dom, "k")
	if err != nil {
		t.Fatal(err)
	}
	inner, err := ir.NewRange(ir.Int32(0), k.AsExpr())
	if err != nil {
		t.Fatal(err)
	}
	j, err := ir.ReduceAxis(inner, "j")
	if err != nil {
		t.Fatal(err)
	}
	must := func(x ir.Expr, err error) ir.Expr {
		t.Helper()
		if err != nil {
			t.Fatalf("%+v", err)
		}
		return x
	}
	reduce := func(r *ir.Reduce, err error) ir.Expr {
		t.Helper()
		if err != nil {
			t.Fatalf("%+v", err)
		}
		return r
	}
	tests := []ir.Expr{
		must(ir.Add(a, ir.Float32(1.5))),
		must(ir.Mul(b, ir.Int32(-3))),
		must(ir.Div(must(ir.Mod(b, ir.Int64(7))), ir.Int64(math.MaxInt64))),
		must(ir.MinOf(u, ir.Uint32(255))),
		must(ir.MaxOf(a, ir.Float32(float32(math.Inf(-1))))),
		must(ir.NewSelect(c, a, ir.Float32(float32(math.NaN())))),
		must(ir.And(c, must(ir.NewNot(must(ir.GE(b, ir.Int64(0))))))),
		must(ir.Or(ir.Bool(false), must(ir.NE(u, ir.Uint32(0))))),
		must(ir.NewCast(ir.Int64Type(), a)),
		must(ir.Mul(v, must(ir.NewCast(ir.Float32Type().WithLanes(4), v)))),
		must(ir.Add(ir.Float64(0.1), must(ir.NewCast(ir.Float64Type(), a)))),
		ir.Int32(math.MinInt32),
		must(ir.Add(w, must(ir.MakeConst(ir.Int32Type().WithLanes(4), 1)))),
		must(ir.Mul(v, must(ir.MakeFloatConst(ir.Float32Type().WithLanes(4), -0.5)))),
		must(ir.And(
			must(ir.LT(v, must(ir.MakeFloatConst(ir.Float32Type().WithLanes(4), 2)))),
			must(ir.MakeConst(ir.BoolType().WithLanes(4), 1)),
		)),
		must(ir.MakeConst(ir.UIntType(64).WithLanes(2), -1)),
		reduce(ir.Sum(must(ir.Mul(a, must(ir.NewCast(ir.Float32Type(), k.AsExpr())))), []*ir.IterVar{k})),
		reduce(ir.Max(reduce(ir.Min(must(ir.Add(k.AsExpr(), j.AsExpr())), []*ir.IterVar{j})), []*ir.IterVar{k})),
	}
	for i, want := range tests {
		t.Run(fmt.Sprintf("test%d", i), func(t *testing.T) {
			src, err := irstring.Listing(want)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			listing, err := irparse.Parse("test", src)
			if err != nil {
				t.Fatalf("cannot parse:\n%s\nerror: %+v", src, err)
			}
			if len(listing.Results) != 1 {
				t.Fatalf("got %d results but want 1", len(listing.Results))
			}
			got := listing.Results[0]
			if got.Type() != want.Type() {
				t.Errorf("got type %s but want %s", got.Type(), want.Type())
			}
			reprinted, err := irstring.Listing(got)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if diff := cmp.Diff(src, reprinted); diff != "" {
				t.Errorf("listing changed after a round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAlias(t *testing.T) {
	src := `
n := Var{Name: "n", Type: int32}
k := IterVar{Name: "k", Dom: Range{Min: 0, Extent: n}, Role: CommRedude}
twice := (k * 2)
_ = Reduce{Op: Sum, Source: twice, Axis: []IterVar{k}}
_ = twice
`
	listing, err := irparse.Parse("alias", src)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	k, ok := listing.Axis("k")
	if !ok {
		t.Fatalf("axis k not found")
	}
	if k.IterType() != ir.CommReduce {
		t.Errorf("got role %s but want %s", k.IterType(), ir.CommReduce)
	}
	if k.Var().Type() != ir.Int32Type() {
		t.Errorf("got type %s but want int32", k.Var().Type())
	}
	if diff := cmp.Diff([]string{"n", "k", "twice"}, listing.Names()); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
	if len(listing.Decls) != 2 {
		t.Errorf("got %d declarations but want 2", len(listing.Decls))
	}
	var got []string
	for _, r := range listing.Results {
		got = append(got, r.String())
	}
	want := []string{
		"Reduce{Op: Sum, Source: (k * 2), Axis: []IterVar{k}}",
		"(k * 2)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected results (-want +got):\n%s", diff)
	}
	n, ok := listing.Var("n")
	if !ok || k.Dom().Extent() != ir.Expr(n) {
		t.Errorf("domain of k does not refer to variable n")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		errs []string
	}{
		{
			src:  `_ = x`,
			errs: []string{"input:1:5: undefined: x"},
		},
		{
			src: `i := IterVar{Name: "i", Dom: Range{Min: 0, Extent: 8}, Role: DataPar, Tag: "threadIdx.x"}
_ = (i + 1)`,
			errs: []string{"declaration of i: input:1:6: axis i has role DataPar but role ThreadIndex is required: thread tag threadIdx.x requires a thread index axis"},
		},
		{
			src:  `r := IterVar{Name: "r", Dom: Range{Min: 4, Extent: -1}, Role: CommReduce}`,
			errs: []string{"declaration of r: input:1:30: invalid range Range{Min: 4, Extent: -1}: negative extent"},
		},
		{
			src: `i := IterVar{Name: "i", Dom: Range{Min: 0, Extent: 8}}
_ = Reduce{Op: Sum, Source: i, Axis: []IterVar{i}}
_ = Reduce{Op: Prod, Source: i, Axis: []IterVar{i}}`,
			errs: []string{
				"input:2:5: axis i has role DataPar but role CommReduce is required: reductions are only defined over reduction axes",
				`input:3:16: unknown reduction combiner "Prod"`,
			},
		},
		{
			src: `a := Var{Name: "a", Type: float33}
a := Var{Name: "a"}
_ = foo(a)
_ = !3`,
			errs: []string{
				`declaration of a: input:1:27: invalid floating point type "float33"`,
				"input:2:1: a redeclared in this listing",
				"input:3:5: unknown function or type foo",
				"input:4:5: 3 has type int32 but a boolean is required",
			},
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("test%d", i), func(t *testing.T) {
			_, err := irparse.Parse("input", test.src)
			if err == nil {
				t.Fatalf("expected an error")
			}
			got := strings.Split(err.Error(), "\n")
			if diff := cmp.Diff(test.errs, got); diff != "" {
				t.Errorf("unexpected errors (-want +got):\n%s", diff)
			}
		})
	}
}
