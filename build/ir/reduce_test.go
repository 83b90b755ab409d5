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
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

func TestReduce(t *testing.T) {
	a := ir.NewVar("a", ir.Float32Type())
	k := mustAxis(t)(ir.ReduceAxis(mustRange(t, 0, 10), "k"))
	j := mustAxis(t)(ir.ReduceAxis(mustRange(t, 0, 4), "j"))
	src := mustExpr(t)(ir.Mul(a, mustExpr(t)(ir.NewCast(ir.Float32Type(), k.AsExpr()))))
	tests := []struct {
		build    func(ir.Expr, []*ir.IterVar) (*ir.Reduce, error)
		want     string
		identity string
	}{
		{
			build:    ir.Sum,
			want:     "Reduce{Op: Sum, Source: (a * float32(k)), Axis: []IterVar{k, j}}",
			identity: "float32(0)",
		},
		{
			build:    ir.Max,
			want:     "Reduce{Op: Max, Source: (a * float32(k)), Axis: []IterVar{k, j}}",
			identity: "float32(-3.4028235e+38)",
		},
		{
			build:    ir.Min,
			want:     "Reduce{Op: Min, Source: (a * float32(k)), Axis: []IterVar{k, j}}",
			identity: "float32(3.4028235e+38)",
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("test%d", i), func(t *testing.T) {
			axes := []*ir.IterVar{k, j}
			r, err := test.build(src, axes)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if r.String() != test.want {
				t.Errorf("got %s but want %s", r.String(), test.want)
			}
			if r.Identity().String() != test.identity {
				t.Errorf("got identity %s but want %s", r.Identity(), test.identity)
			}
			if r.Type() != ir.Float32Type() {
				t.Errorf("got type %s but want float32", r.Type())
			}
			axes[0] = nil
			if r.Axis(0) != k {
				t.Errorf("reduction axes changed when the input slice changed")
			}
		})
	}
}

func TestReduceIntIdentity(t *testing.T) {
	k := mustAxis(t)(ir.ReduceAxis(mustRange(t, 0, 10), "k"))
	r, err := ir.Max(k.AsExpr(), []*ir.IterVar{k})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got, want := r.Identity().String(), "-2147483648"; got != want {
		t.Errorf("got identity %s but want %s", got, want)
	}
}

func TestReduceInvalidAxes(t *testing.T) {
	dom := mustRange(t, 0, 8)
	k := mustAxis(t)(ir.ReduceAxis(dom, "k"))
	i := mustAxis(t)(ir.DataParAxis(dom, "i"))
	tx := mustAxis(t)(ir.ThreadAxis(dom, "threadIdx.x"))
	tests := []struct {
		axes    []*ir.IterVar
		numErrs int
		isRole  bool
	}{
		{axes: nil, numErrs: 1},
		{axes: []*ir.IterVar{i}, numErrs: 1, isRole: true},
		{axes: []*ir.IterVar{k, i}, numErrs: 1, isRole: true},
		{axes: []*ir.IterVar{k, k}, numErrs: 1},
		{axes: []*ir.IterVar{i, k, tx}, numErrs: 2, isRole: true},
		{axes: []*ir.IterVar{k, nil}, numErrs: 1},
	}
	for n, test := range tests {
		t.Run(fmt.Sprintf("test%d", n), func(t *testing.T) {
			_, err := ir.Sum(k.AsExpr(), test.axes)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got := len(multierr.Errors(err)); got != test.numErrs {
				t.Errorf("got %d errors but want %d: %v", got, test.numErrs, err)
			}
			var roleErr *ir.InvalidAxisRoleError
			if got := errors.As(err, &roleErr); got != test.isRole {
				t.Errorf("got errors.As(%v, *ir.InvalidAxisRoleError) = %t but want %t", err, got, test.isRole)
			}
		})
	}
}
