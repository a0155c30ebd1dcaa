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
	"github.com/ajroetker/go-gsply/gs"
	"github.com/ajroetker/go-gsply/gs/contrib/bitpack"
)

// MortonBits is the number of bits per axis in a Morton key.
const MortonBits = 10

// spread inserts two zero bits between each of the low 10 bits of v.
func spread(v uint32) uint32 {
	v &= 0x3FF
	v = (v | v<<16) & 0x030000FF
	v = (v | v<<8) & 0x0300F00F
	v = (v | v<<4) & 0x030C30C3
	v = (v | v<<2) & 0x09249249
	return v
}

// Morton interleaves three 10-bit coordinates into a 30-bit Z-order key.
func Morton(x, y, z uint32) uint32 {
	return spread(x)<<2 | spread(y)<<1 | spread(z)
}

// MortonKeys quantizes every row of means against [lo, hi] and returns its Morton key.
func MortonKeys(means gs.View, lo, hi [3]float32) []uint32 {
	keys := make([]uint32, means.Rows())
	var ext [3]float32
	for a := range 3 {
		ext[a] = bitpack.Extent(lo[a], hi[a])
	}
	for i := range keys {
		m := means.Row(i)
		keys[i] = Morton(
			bitpack.Quantize(m[0], lo[0], ext[0], MortonBits),
			bitpack.Quantize(m[1], lo[1], ext[1], MortonBits),
			bitpack.Quantize(m[2], lo[2], ext[2], MortonBits),
		)
	}
	return keys
}
