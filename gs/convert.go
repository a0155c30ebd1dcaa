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

package gs

import (
	"math"

	"github.com/ajroetker/go-highway/hwy/contrib/algo"
)

// SHC0 is the zeroth-order spherical harmonics basis constant, 1/(2*sqrt(pi)).
const SHC0 = 0.28209479177387814

// LogitEpsilon is the default clamp used by Logit.
const LogitEpsilon = 1e-6

// MinLinearScale is the smallest linear scale Normalize takes the log of.
const MinLinearScale = 1e-7

// SH2RGB converts a DC coefficient to a color in [0, 1] (for in-gamut inputs).
func SH2RGB(sh float32) float32 {
	return sh*SHC0 + 0.5
}

// RGB2SH converts a color to its DC coefficient.
func RGB2SH(rgb float32) float32 {
	return (rgb - 0.5) / SHC0
}

// Sigmoid computes 1 / (1 + e^-x) without overflowing for large |x|.
func Sigmoid(x float32) float32 {
	v := float64(x)
	if v >= 0 {
		return float32(1 / (1 + math.Exp(-v)))
	}
	z := math.Exp(v)
	return float32(z / (1 + z))
}

// Logit computes log(p / (1 - p)) with p clamped to [eps, 1-eps].
func Logit(p float32, eps float64) float32 {
	v := clampProbability(p, eps)
	return float32(math.Log(v / (1 - v)))
}

func clampProbability(p float32, eps float64) float64 {
	v := float64(p)
	if !(v >= eps) { // also catches NaN
		return eps
	}
	return min(v, 1-eps)
}

// SigmoidSlice applies Sigmoid elementwise from src into dst. dst may alias src.
func SigmoidSlice(dst, src []float32) {
	n := min(len(dst), len(src))
	algo.SigmoidTransform(src[:n], dst[:n])
}

// LogitSlice applies Logit elementwise from src into dst. dst may alias src.
func LogitSlice(dst, src []float32, eps float64) {
	n := min(len(dst), len(src))
	for i := range n {
		v := clampProbability(src[i], eps)
		dst[i] = float32(v / (1 - v))
	}
	algo.LogTransform(dst[:n], dst[:n])
}
