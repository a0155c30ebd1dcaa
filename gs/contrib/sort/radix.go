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

// radixPass scatters idx by the 8-bit digit of keys at shift into dst.
func radixPass(keys []uint32, idx, dst []int, shift uint) {
	var count [256]int
	for _, i := range idx {
		count[keys[i]>>shift&0xFF]++
	}

	// Compute prefix sum to get bucket offsets
	offset := 0
	for b := range count {
		c := count[b]
		count[b] = offset
		offset += c
	}

	for _, i := range idx {
		digit := keys[i] >> shift & 0xFF
		dst[count[digit]] = i
		count[digit]++
	}
}

// SortKeys returns the permutation that orders keys ascending. perm[k] is the input
// index of the k-th smallest key; equal keys keep their input order.
func SortKeys(keys []uint32) []int {
	n := len(keys)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if n < 2 {
		return perm
	}

	// Skip passes over digits that are zero in every key.
	var all uint32
	for _, k := range keys {
		all |= k
	}

	tmp := make([]int, n)
	for shift := uint(0); shift < 32; shift += 8 {
		if all>>shift&0xFF == 0 {
			continue
		}
		radixPass(keys, perm, tmp, shift)
		perm, tmp = tmp, perm
	}
	return perm
}

// Invert returns the inverse permutation: inv[perm[k]] = k.
func Invert(perm []int) []int {
	inv := make([]int, len(perm))
	for k, i := range perm {
		inv[i] = k
	}
	return inv
}
