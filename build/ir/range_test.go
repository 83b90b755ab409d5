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
	"math"
	"strings"
	"testing"

	"github.com/gx-org/loopir/build/ir"
	"github.com/pkg/errors"
)

func TestRangeConstant(t *testing.T) {
	tests := []struct {
		begin, end int32
		empty      bool
	}{
		{begin: 0, end: 10},
		{begin: -5, end: 3},
		{begin: 4, end: 4, empty: true},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("[%d,%d)", test.begin, test.end), func(t *testing.T) {
			r := mustRange(t, test.begin, test.end)
			extent, ok := ir.AsConstInt(r.Extent())
			if !ok {
				t.Fatalf("extent %s is not a constant", r.Extent())
			}
			if want := int64(test.end - test.begin); extent != want {
				t.Errorf("got extent %d but want %d", extent, want)
			}
			empty, known := r.IsEmpty()
			if !known {
				t.Errorf("emptiness of %s is unknown", r)
			}
			if empty != test.empty {
				t.Errorf("got empty=%t for %s but want %t", empty, r, test.empty)
			}
			end, _ := ir.AsConstInt(r.End())
			if end != int64(test.end) {
				t.Errorf("got end %d but want %d", end, test.end)
			}
		})
	}
}

func TestRangeInvalid(t *testing.T) {
	f := ir.NewVar("f", ir.Float32Type())
	tests := []func() (*ir.Range, error){
		func() (*ir.Range, error) { return ir.NewRange(ir.Int32(10), ir.Int32(0)) },
		func() (*ir.Range, error) { return ir.NewRangeMinExtent(ir.Int32(0), ir.Int32(-1)) },
		func() (*ir.Range, error) { return ir.NewRangeMinExtent(ir.Int32(0), f) },
		func() (*ir.Range, error) { return ir.NewRange(f, ir.Int32(3)) },
		func() (*ir.Range, error) { return ir.NewRangeMinExtent(nil, ir.Int32(3)) },
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("test%d", i), func(t *testing.T) {
			r, err := test()
			if err == nil {
				t.Fatalf("expected an error but got range %s", r)
			}
			var rangeErr *ir.InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Errorf("got error %T but want *ir.InvalidRangeError: %v", err, err)
			}
		})
	}
}

func TestRangeExtentOverflow(t *testing.T) {
	tests := []struct {
		begin, end ir.Expr
		want       string
	}{
		{
			begin: ir.Int32(math.MinInt32),
			end:   ir.Int32(math.MaxInt32),
			want:  "overflows int32",
		},
		{
			begin: ir.Int32(-1),
			end:   ir.Int32(math.MaxInt32),
			want:  "overflows int32",
		},
		{
			begin: ir.Int64(math.MinInt64),
			end:   ir.Int64(1),
			want:  "overflows int64",
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("test%d", i), func(t *testing.T) {
			r, err := ir.NewRange(test.begin, test.end)
			if err == nil {
				t.Fatalf("expected an error but got range %s", r)
			}
			var rangeErr *ir.InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("got error %T but want *ir.InvalidRangeError: %v", err, err)
			}
			if !strings.Contains(rangeErr.Reason, test.want) {
				t.Errorf("got reason %q but want %q", rangeErr.Reason, test.want)
			}
		})
	}
	r, err := ir.NewRange(ir.Int32(0), ir.Int32(math.MaxInt32))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got, ok := ir.AsConstInt(r.Extent()); !ok || got != math.MaxInt32 {
		t.Errorf("got extent %s but want %d", r.Extent(), math.MaxInt32)
	}
}

func TestRangeSymbolic(t *testing.T) {
	n := ir.NewVar("n", ir.Int32Type())
	r, err := ir.NewRange(ir.Int32(0), n)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if r.Extent() != ir.Expr(n) {
		t.Errorf("got extent %s but want %s", r.Extent(), n)
	}
	if _, known := r.IsEmpty(); known {
		t.Errorf("emptiness of %s is known but its extent is symbolic", r)
	}
	if got, want := r.String(), "Range{Min: 0, Extent: n}"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestRangeMinExtentEquivalence(t *testing.T) {
	m := ir.NewVar("m", ir.Int32Type())
	e := ir.NewVar("e", ir.Int32Type())
	tests := []struct {
		min, extent ir.Expr
	}{
		{min: ir.Int32(0), extent: ir.Int32(10)},
		{min: ir.Int32(3), extent: e},
		{min: m, extent: ir.Int32(7)},
		{min: m, extent: e},
		{min: ir.Int64(2), extent: ir.Int64(5)},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("test%d", i), func(t *testing.T) {
			want, err := ir.NewRangeMinExtent(test.min, test.extent)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			end := mustExpr(t)(ir.Add(test.min, test.extent))
			got, err := ir.NewRange(test.min, end)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !got.Equal(want) {
				t.Errorf("NewRange(%s, %s) = %s is not equal to %s", test.min, end, got, want)
			}
		})
	}
}
