// Copyright 2026 go-gsply Authors
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
package sort

import (
	"math/rand"
	stdsort "sort"
	"testing"

	"github.com/ajroetker/go-gsply/gs"
)

func TestSortKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []uint32
	}{
		{name: "empty", keys: nil},
		{name: "single", keys: []uint32{7}},
		{name: "sorted", keys: []uint32{1, 2, 3, 4}},
		{name: "reversed", keys: []uint32{4, 3, 2, 1}},
		{name: "duplicates", keys: []uint32{5, 1, 5, 1, 5}},
		{name: "high digits", keys: []uint32{1 << 29, 1 << 24, 1 << 16, 1 << 8, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm := SortKeys(tt.keys)
			if len(perm) != len(tt.keys) {
				t.Fatalf("len(perm) = %d, want %d", len(perm), len(tt.keys))
			}
			for k := 1; k < len(perm); k++ {
				a, b := tt.keys[perm[k-1]], tt.keys[perm[k]]
				if a > b || (a == b && perm[k-1] > perm[k]) {
					t.Errorf("perm not stable-sorted at %d: keys %d, %d (indices %d, %d)", k, a, b, perm[k-1], perm[k])
				}
			}
		})
	}
}

func TestSortKeysRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	keys := make([]uint32, 5000)
	for i := range keys {
		keys[i] = rng.Uint32() >> 2
	}

	perm := SortKeys(keys)
	want := make([]int, len(keys))
	for i := range want {
		want[i] = i
	}
	stdsort.SliceStable(want, func(a, b int) bool { return keys[want[a]] < keys[want[b]] })

	for k := range perm {
		if perm[k] != want[k] {
			t.Fatalf("perm[%d] = %d, want %d", k, perm[k], want[k])
		}
	}
}

func TestInvert(t *testing.T) {
	perm := []int{2, 0, 3, 1}
	inv := Invert(perm)
	for k, i := range perm {
		if inv[i] != k {
			t.Errorf("inv[%d] = %d, want %d", i, inv[i], k)
		}
	}
}

func TestMorton(t *testing.T) {
	tests := []struct {
		x, y, z uint32
		want    uint32
	}{
		{0, 0, 0, 0},
		{0, 0, 1, 1},
		{0, 1, 0, 2},
		{1, 0, 0, 4},
		{1, 1, 1, 7},
		{1023, 1023, 1023, 1<<30 - 1},
	}
	for _, tt := range tests {
		if got := Morton(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("Morton(%d, %d, %d) = %#x, want %#x", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestMortonKeysGroupNeighbours(t *testing.T) {
	// Two clusters interleaved in the array end up contiguous after sorting.
	d := gs.New(8, gs.Degree0)
	for i := range 8 {
		v := float32(0)
		if i%2 == 1 {
			v = 100
		}
		row := d.Means().Row(i)
		row[0], row[1], row[2] = v, v, v
	}

	keys := MortonKeys(d.Means(), [3]float32{}, [3]float32{100, 100, 100})
	perm := SortKeys(keys)
	for k, i := range perm {
		if (k < 4) != (i%2 == 0) {
			t.Errorf("perm = %v, want even indices first", perm)
			break
		}
	}
}
