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
// Package sort orders Gaussians for spatial locality before chunking.
//
// Chunk membership in the compressed format is positional, so records that are far
// apart in space but adjacent in the array share one set of quantization bounds. Sorting
// records along a Morton (Z-order) curve first keeps each 256-record chunk spatially
// compact and its bounds tight.
//
// # Algorithm
//
// Morton keys interleave 10 bits of each quantized axis into a 30-bit key.
// SortKeys is an LSD radix sort over 8-bit digits that carries a permutation instead
// of moving records: four O(N) passes of histogram, prefix sum and scatter.
// The sort is stable, so equal keys keep their input order.
//
// # Example Usage
//
//	keys := sort.MortonKeys(data.Means(), lo, hi)
//	perm := sort.SortKeys(keys)  // perm[k] is the input index of output record k
//	sorted, _ := data.Take(perm)
package sort
