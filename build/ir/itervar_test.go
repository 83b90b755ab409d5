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

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/loopir/build/ir"
	"github.com/pkg/errors"
)

func TestReduceAxis(t *testing.T) {
	k := mustAxis(t)(ir.ReduceAxis(mustRange(t, 0, 10), "k"))
	if k.IterType() != ir.CommReduce {
		t.Errorf("got role %s but want %s", k.IterType(), ir.CommReduce)
	}
	if min, _ := ir.AsConstInt(k.Dom().Min()); min != 0 {
		t.Errorf("got min %d but want 0", min)
	}
	if extent, _ := ir.AsConstInt(k.Dom().Extent()); extent != 10 {
		t.Errorf("got extent %d but want 10", extent)
	}
	if k.Var().Name() != "k" || k.Var().Type() != ir.Int32Type() {
		t.Errorf("got variable %s of type %s but want k of type int32", k.Var().Name(), k.Var().Type())
	}
	if k.ThreadTag() != "" {
		t.Errorf("got thread tag %q on a reduction axis", k.ThreadTag())
	}
	if k.AsExpr() != ir.Expr(k.Var()) {
		t.Errorf("axis expression %s is not the axis variable", k.AsExpr())
	}
	rv := mustAxis(t)(ir.ReduceAxis(mustRange(t, 0, 10), ""))
	if rv.Var().Name() != ir.DefaultReduceAxisName {
		t.Errorf("got name %q but want %q", rv.Var().Name(), ir.DefaultReduceAxisName)
	}
}

func TestThreadAxis(t *testing.T) {
	tx := mustAxis(t)(ir.ThreadAxis(mustRange(t, 0, 256), "threadIdx.x"))
	if tx.IterType() != ir.ThreadIndex {
		t.Errorf("got role %s but want %s", tx.IterType(), ir.ThreadIndex)
	}
	if tx.ThreadTag() != "threadIdx.x" {
		t.Errorf("got thread tag %q but want %q", tx.ThreadTag(), "threadIdx.x")
	}
	err := ir.CheckTransform(tx, ir.Split)
	var illegal *ir.IllegalTransformError
	if !errors.As(err, &illegal) {
		t.Fatalf("got error %v but want *ir.IllegalTransformError", err)
	}
	if illegal.Axis != tx || illegal.Transform != ir.Split {
		t.Errorf("got error on transform %s of axis %s", illegal.Transform, illegal.Axis)
	}
	if err := ir.CheckTransform(tx, ir.Reorder); err != nil {
		t.Errorf("reordering a thread axis should be legal: %+v", err)
	}
	if _, err := ir.ThreadAxis(nil, ""); err == nil {
		t.Errorf("expected an error when creating a thread axis without tag")
	}
	noDom := mustAxis(t)(ir.ThreadAxis(nil, "blockIdx.x"))
	if noDom.Dom() != nil || noDom.Var().Type() != ir.Int32Type() {
		t.Errorf("got axis %s but want an int32 axis without domain", noDom)
	}
}

// TestThreadTagRole checks that a thread tag can only be set on thread
// index axes, whatever the constructor.
func TestThreadTagRole(t *testing.T) {
	dom := mustRange(t, 0, 4)
	for _, role := range ir.IterVarTypes() {
		for _, tag := range []string{"", "threadIdx.y"} {
			t.Run(fmt.Sprintf("%s/%q", role, tag), func(t *testing.T) {
				iv, err := ir.NewIterVar(dom, ir.IndexVar("i"), role, tag)
				wantOK := tag == "" || role == ir.ThreadIndex
				if !wantOK {
					var roleErr *ir.InvalidAxisRoleError
					if !errors.As(err, &roleErr) {
						t.Errorf("got error %v but want *ir.InvalidAxisRoleError", err)
					}
					return
				}
				if err != nil {
					t.Fatalf("%+v", err)
				}
				if iv.ThreadTag() != "" && iv.IterType() != ir.ThreadIndex {
					t.Errorf("axis %s has a thread tag but role %s", iv, iv.IterType())
				}
				data := mustAxis(t)(ir.DataParAxis(dom, "d"))
				derived, err := data.Derive(role, tag)
				if err != nil {
					t.Fatalf("%+v", err)
				}
				if derived.IterType() != role || derived.ThreadTag() != tag {
					t.Errorf("got derived axis %s", derived)
				}
			})
		}
	}
}

func TestIterVarErrors(t *testing.T) {
	dom := mustRange(t, 0, 4)
	if _, err := ir.NewIterVar(dom, nil, ir.DataPar, ""); err == nil {
		t.Errorf("expected an error for an axis without variable")
	}
	if _, err := ir.NewIterVar(dom, ir.IndexVar("i"), ir.IterVarType(42), ""); err == nil {
		t.Errorf("expected an error for an axis with an invalid role")
	}
	if _, err := ir.NewIterVar(dom, ir.NewVar("i", ir.Int64Type()), ir.DataPar, ""); err == nil {
		t.Errorf("expected an error for an axis whose variable type does not match its domain")
	}
}

func TestDerive(t *testing.T) {
	i := mustAxis(t)(ir.DataParAxis(mustRange(t, 0, 16), "i"))
	vi, err := i.Derive(ir.Vectorized, "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if vi == i {
		t.Errorf("Derive returned the original axis")
	}
	if vi.Var() != i.Var() {
		t.Errorf("derived axis does not share the variable of the original axis")
	}
	if !vi.Dom().Equal(i.Dom()) {
		t.Errorf("derived axis domain %s differs from %s", vi.Dom(), i.Dom())
	}
	if i.IterType() != ir.DataPar {
		t.Errorf("original axis role changed to %s", i.IterType())
	}
	if vi.IterType().Allows(ir.Vectorize) {
		t.Errorf("a vectorized axis cannot be vectorized again")
	}
	if _, err := i.Derive(ir.DataPar, "blockIdx.x"); err == nil {
		t.Errorf("expected an error when deriving a data parallel axis with a thread tag")
	}
}

func TestIterVarTypeString(t *testing.T) {
	var got []string
	for _, role := range ir.IterVarTypes() {
		got = append(got, role.String())
		parsed, err := ir.IterVarTypeFromString(role.String())
		if err != nil || parsed != role {
			t.Errorf("role %s parsed as %s (error: %v)", role, parsed, err)
		}
	}
	want := []string{
		"DataPar",
		"ThreadIndex",
		"CommReduce",
		"Ordered",
		"Opaque",
		"Unrolled",
		"Vectorized",
		"Parallelized",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected role names (-want +got):\n%s", diff)
	}
	legacy, err := ir.IterVarTypeFromString(ir.LegacyCommReduceName)
	if err != nil || legacy != ir.CommReduce {
		t.Errorf("legacy name %q parsed as %s (error: %v)", ir.LegacyCommReduceName, legacy, err)
	}
	if _, err := ir.IterVarTypeFromString("Serial"); err == nil {
		t.Errorf("expected an error when parsing an unknown role")
	}
}

func TestLegalityTable(t *testing.T) {
	got := make(map[string][]string)
	for _, role := range ir.IterVarTypes() {
		var names []string
		for _, tr := range ir.Disallowed(role).Transforms() {
			names = append(names, tr.String())
		}
		got[role.String()] = names
	}
	want := map[string][]string{
		"DataPar":      nil,
		"ThreadIndex":  {"split", "fuse", "vectorize", "parallelize"},
		"CommReduce":   {"vectorize", "parallelize"},
		"Ordered":      {"reorder", "vectorize", "parallelize"},
		"Opaque":       {"split", "fuse", "reorder", "vectorize", "parallelize", "unroll", "bind", "compute_at"},
		"Unrolled":     {"unroll"},
		"Vectorized":   {"vectorize"},
		"Parallelized": {"parallelize"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected legality table (-want +got):\n%s", diff)
	}
	if got := ir.Disallowed(ir.IterVarType(-1)); got != ir.NewTransformSet(ir.Transforms()...) {
		t.Errorf("got disallowed transforms %s for an unknown role but want all transforms", got)
	}
}

func TestTransformFromString(t *testing.T) {
	for _, tr := range ir.Transforms() {
		got, err := ir.TransformFromString(tr.String())
		if err != nil || got != tr {
			t.Errorf("transform %s parsed as %s (error: %v)", tr, got, err)
		}
	}
	if _, err := ir.TransformFromString("tile"); err == nil {
		t.Errorf("expected an error when parsing an unknown transform")
	}
	if got, want := ir.NewTransformSet(ir.Fuse, ir.Split).String(), "{split, fuse}"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}
