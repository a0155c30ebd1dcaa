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
package bitpack

import "math"

// Quantize maps v from [lo, lo+extent] to an integer code of the given width.
// Values outside the range clamp to the end codes; NaN maps to 0.
func Quantize(v, lo, extent float32, bits uint) uint32 {
	t := (v - lo) / extent
	if !(t > 0) {
		return 0
	}
	top := MaxCode(bits)
	if t >= 1 {
		return top
	}
	return uint32(math.Round(float64(t) * float64(top)))
}

// Dequantize maps a code back to [lo, lo+extent].
func Dequantize(q uint32, lo, extent float32, bits uint) float32 {
	return lo + float32(q)/float32(MaxCode(bits))*extent
}

// EncodeVec3 quantizes v against the per-axis range [lo, hi] into an 11/10/11 word.
// Degenerate axes (hi == lo) encode as 0.
func EncodeVec3(v []float32, lo, hi [3]float32) uint32 {
	_ = v[2]
	return Pack111011(
		Quantize(v[0], lo[0], Extent(lo[0], hi[0]), WideBits),
		Quantize(v[1], lo[1], Extent(lo[1], hi[1]), NarrowBits),
		Quantize(v[2], lo[2], Extent(lo[2], hi[2]), WideBits),
	)
}

// DecodeVec3 reverses EncodeVec3, writing the three axes into dst.
func DecodeVec3(dst []float32, w uint32, lo, hi [3]float32) {
	_ = dst[2]
	x, y, z := Unpack111011(w)
	dst[0] = Dequantize(x, lo[0], Extent(lo[0], hi[0]), WideBits)
	dst[1] = Dequantize(y, lo[1], Extent(lo[1], hi[1]), NarrowBits)
	dst[2] = Dequantize(z, lo[2], Extent(lo[2], hi[2]), WideBits)
}

// EncodeColor quantizes rgb against the per-channel range [lo, hi] and alpha against
// the fixed range [0, 1] into an 8/8/8/8 word.
func EncodeColor(rgb []float32, alpha float32, lo, hi [3]float32) uint32 {
	_ = rgb[2]
	return Pack8888(
		Quantize(rgb[0], lo[0], Extent(lo[0], hi[0]), ByteBits),
		Quantize(rgb[1], lo[1], Extent(lo[1], hi[1]), ByteBits),
		Quantize(rgb[2], lo[2], Extent(lo[2], hi[2]), ByteBits),
		Quantize(alpha, 0, 1, ByteBits),
	)
}

// DecodeColor reverses EncodeColor, writing the channels into rgb and returning alpha.
func DecodeColor(rgb []float32, w uint32, lo, hi [3]float32) (alpha float32) {
	_ = rgb[2]
	r, g, b, a := Unpack8888(w)
	rgb[0] = Dequantize(r, lo[0], Extent(lo[0], hi[0]), ByteBits)
	rgb[1] = Dequantize(g, lo[1], Extent(lo[1], hi[1]), ByteBits)
	rgb[2] = Dequantize(b, lo[2], Extent(lo[2], hi[2]), ByteBits)
	return Dequantize(a, 0, 1, ByteBits)
}

// Extent returns hi - lo, or 1 when that is zero or not finite. With the fallback
// every value of a degenerate axis quantizes to 0 and decodes exactly to lo.
func Extent(lo, hi float32) float32 {
	r := hi - lo
	if !(r > 0) || math.IsInf(float64(r), 0) {
		return 1
	}
	return r
}
