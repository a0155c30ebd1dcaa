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
// Package rotation compresses unit quaternions into one uint32 with the
// largest-component-drop scheme of the compressed PLY format.
//
// The largest-magnitude component L is dropped and its index stored in the top two
// bits. The quaternion is negated if needed so the dropped component is non-negative;
// q and -q are the same rotation. The three remaining components keep their relative
// order, each lies in [-1/sqrt(2), 1/sqrt(2)] and is stored in 10 bits:
//
//	bit 31 30 29      20 19      10 9        0
//	   [ L  ][  a (10)  ][  b (10)  ][  c (10)  ]
//
// Decoding rebuilds the dropped component as sqrt(max(0, 1 - a^2 - b^2 - c^2)).
package rotation

import (
	"math"

	"github.com/ajroetker/go-gsply/gs/contrib/bitpack"
)

// Bits is the width of each stored component.
const Bits = 10

const (
	halfSqrt2 = math.Sqrt2 / 2
	fieldMask = 1<<Bits - 1
)

// Identity is the quaternion zero-length or non-finite inputs encode as.
var Identity = [4]float32{1, 0, 0, 0}

// Normalize returns q scaled to unit length, or Identity when q has no direction.
func Normalize(q [4]float32) [4]float32 {
	var sum float64
	for _, c := range q {
		sum += float64(c) * float64(c)
	}
	norm := math.Sqrt(sum)
	if !(norm > 0) || math.IsInf(norm, 0) {
		return Identity
	}
	for i := range q {
		q[i] = float32(float64(q[i]) / norm)
	}
	return q
}

// Largest returns the index of the component with the largest magnitude. Ties go to
// the lowest index.
func Largest(q [4]float32) int {
	l := 0
	best := abs(q[0])
	for i := 1; i < 4; i++ {
		if a := abs(q[i]); a > best {
			l, best = i, a
		}
	}
	return l
}

// Encode packs q, which need not be normalized.
func Encode(q [4]float32) uint32 {
	q = Normalize(q)
	l := Largest(q)
	if q[l] < 0 {
		for i := range q {
			q[i] = -q[i]
		}
	}

	w := uint32(l) << (3 * Bits)
	shift := 2 * Bits
	for i, c := range q {
		if i == l {
			continue
		}
		n := c*halfSqrt2 + 0.5
		w |= bitpack.Quantize(n, 0, 1, Bits) << shift
		shift -= Bits
	}
	return w
}

// EncodeRow packs the 4-value quaternion row q.
func EncodeRow(q []float32) uint32 {
	return Encode([4]float32{q[0], q[1], q[2], q[3]})
}

// Decode unpacks a quaternion. The result has unit norm up to quantization error and
// a non-negative component at the dropped index.
func Decode(w uint32) [4]float32 {
	l := int(w >> (3 * Bits))
	var q [4]float32
	var sum float32
	shift := 2 * Bits
	for i := range q {
		if i == l {
			continue
		}
		n := bitpack.Dequantize(w>>shift&fieldMask, 0, 1, Bits)
		c := (n - 0.5) / halfSqrt2
		q[i] = c
		sum += c * c
		shift -= Bits
	}
	q[l] = float32(math.Sqrt(math.Max(0, float64(1-sum))))
	return q
}

// DecodeRow unpacks w into the 4-value row dst.
func DecodeRow(dst []float32, w uint32) {
	q := Decode(w)
	copy(dst[:4], q[:])
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
