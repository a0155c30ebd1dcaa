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
// Package bitpack provides the fixed-width packing used by the compressed PLY vertex
// record.
//
// # Layouts
//
// Positions and scales pack three axes into one uint32 as 11/10/11 bits, most
// significant first:
//
//	bit  31      21 20      11 10       0
//	    [  x (11)  ][  y (10)  ][  z (11)  ]
//
// The 10-bit axis is always Y. Colors pack four bytes, red in the most significant
// byte and opacity in the least:
//
//	[ r (8) ][ g (8) ][ b (8) ][ a (8) ]
//
// # Quantization
//
// A value v with range [lo, lo+extent] maps to
//
//	q = round(clamp((v - lo) / extent, 0, 1) * (2^bits - 1))
//
// and back to lo + q/(2^bits - 1) * extent. Encode rounds to nearest and decode is
// plain linear, so the worst-case error is half a step, extent/(2*(2^bits - 1)). A
// normalized value of exactly 1 encodes to 2^bits - 1 and never wraps.
//
// # Example Usage
//
//	lo, hi := [3]float32{-1, -1, -1}, [3]float32{1, 1, 1}
//	w := bitpack.EncodeVec3([3]float32{0.25, 0, -0.5}, lo, hi)
//	v := bitpack.DecodeVec3(w, lo, hi) // within 1/2047 of the input per axis
package bitpack
