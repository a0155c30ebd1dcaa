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
// Package shquant quantizes higher-order spherical harmonics coefficients to one byte
// each.
//
// Coefficients are assumed to lie in [-Range/2, Range/2] = [-8, 8]. Two schemes exist:
//
//	ModeCompatible  encode  b = min(255, trunc(clamp(v/16 + 0.5, 0, 1) * 256))
//	                decode  v = ((b + 0.5)/256 - 0.5) * 16
//
//	ModeSymmetric   encode  b = round(clamp(v/16 + 0.5, 0, 1) * 255)
//	                decode  v = (b/255 - 0.5) * 16
//
// ModeCompatible is what existing compressed PLY readers and writers use: truncation
// on encode paired with a half-bin offset on decode. It is the default. ModeSymmetric
// maps -8 and 8 exactly but its files decode with a small bias in other tools.
//
// Every byte decodes; there is no invalid code.
package shquant

// Range is the width of the coefficient domain.
const Range = 16

// Mode selects the quantization scheme.
type Mode int

const (
	// ModeCompatible matches the established wire format.
	ModeCompatible Mode = iota

	// ModeSymmetric rounds to nearest and decodes linearly.
	ModeSymmetric
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeCompatible:
		return "compatible"
	case ModeSymmetric:
		return "symmetric"
	default:
		return "unknown"
	}
}

// Encode quantizes one coefficient.
func (m Mode) Encode(v float32) uint8 {
	n := v/Range + 0.5
	if !(n > 0) { // also catches NaN
		n = 0
	} else if n > 1 {
		n = 1
	}
	if m == ModeSymmetric {
		return uint8(n*255 + 0.5)
	}
	return uint8(min(255, int(n*256)))
}

// Decode reverses Encode.
func (m Mode) Decode(b uint8) float32 {
	if m == ModeSymmetric {
		return (float32(b)/255 - 0.5) * Range
	}
	return ((float32(b)+0.5)/256 - 0.5) * Range
}

// EncodeSlice quantizes src into dst.
func (m Mode) EncodeSlice(dst []uint8, src []float32) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = m.Encode(src[i])
	}
}

// DecodeSlice dequantizes src into dst.
func (m Mode) DecodeSlice(dst []float32, src []uint8) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = m.Decode(src[i])
	}
}
