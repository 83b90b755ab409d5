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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/loopir/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{
				{k: "i", v: 1},
				{k: "j", v: 2},
				{k: "k", v: 3},
			},
			want: []entry{
				{k: "i", v: 1},
				{k: "j", v: 2},
				{k: "k", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "k", v: 1},
				{k: "i", v: 2},
				{k: "k", v: 3},
			},
			want: []entry{
				{k: "k", v: 3},
				{k: "i", v: 2},
			},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, e := range test.entries {
			m.Store(e.k, e.v)
		}
		var got []entry
		for k := range m.Keys() {
			v, _ := m.Load(k)
			got = append(got, entry{k: k, v: v})
		}
		if !cmp.Equal(got, test.want, cmp.AllowUnexported(entry{})) {
			t.Errorf("test %d: got %v but want %v", ti, got, test.want)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
		}
		var wantKeys []string
		for _, e := range test.want {
			wantKeys = append(wantKeys, e.k)
		}
		if gotKeys := slices.Collect(m.Keys()); !cmp.Equal(gotKeys, wantKeys) {
			t.Errorf("test %d: got keys %v but want %v", ti, gotKeys, wantKeys)
		}
	}
}

func TestStoreNew(t *testing.T) {
	m := ordered.NewMap[string, int]()
	if !m.StoreNew("k", 1) {
		t.Fatal("first StoreNew returned false")
	}
	if m.StoreNew("k", 2) {
		t.Error("second StoreNew returned true")
	}
	if v, _ := m.Load("k"); v != 1 {
		t.Errorf("got %d but want 1", v)
	}
	if !m.Has("k") || m.Has("j") {
		t.Error("Has reports incorrect membership")
	}
	if got := slices.Collect(m.Values()); !cmp.Equal(got, []int{1}) {
		t.Errorf("got values %v but want [1]", got)
	}
}
