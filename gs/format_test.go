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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmoidLogit(t *testing.T) {
	tests := []struct {
		x    float32
		want float32
	}{
		{0, 0.5},
		{100, 1},
		{-100, 0},
		{2, 0.880797},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Sigmoid(tt.x), 1e-6, "Sigmoid(%v)", tt.x)
	}

	for _, p := range []float32{0.01, 0.25, 0.5, 0.9} {
		assert.InDelta(t, p, Sigmoid(Logit(p, LogitEpsilon)), 1e-6)
	}

	// Clamped at both ends and for NaN.
	lo := Logit(0, LogitEpsilon)
	hi := Logit(1, LogitEpsilon)
	assert.False(t, math.IsInf(float64(lo), 0))
	assert.False(t, math.IsInf(float64(hi), 0))
	assert.InDelta(t, -hi, lo, 1e-3)
	assert.Equal(t, lo, Logit(float32(math.NaN()), LogitEpsilon))
}

func TestSHRGB(t *testing.T) {
	assert.InDelta(t, 0.5, SH2RGB(0), 1e-7)
	for _, v := range []float32{-1.5, 0, 0.3, 2} {
		assert.InDelta(t, v, RGB2SH(SH2RGB(v)), 1e-5)
	}
}

func TestSliceHelpers(t *testing.T) {
	src := []float32{-1, 0, 1}
	dst := make([]float32, 2)
	SigmoidSlice(dst, src)
	assert.InDelta(t, Sigmoid(-1), dst[0], 1e-6)
	assert.InDelta(t, 0.5, dst[1], 1e-6)

	out := make([]float32, 3)
	LogitSlice(out, []float32{0.5, 0.5, 0.5}, LogitEpsilon)
	assert.InDeltaSlice(t, []float32{0, 0, 0}, out, 1e-6)

	// In place, with the clamped ends matching the scalar form.
	p := []float32{0, 1e-9, 0.25, 1, float32(math.NaN())}
	want := make([]float32, len(p))
	for i, x := range p {
		want[i] = Logit(x, LogitEpsilon)
	}
	LogitSlice(p, p, LogitEpsilon)
	assert.InDeltaSlice(t, want, p, 1e-4)

	back := append([]float32(nil), p...)
	SigmoidSlice(back, back)
	for i, x := range p {
		assert.InDelta(t, Sigmoid(x), back[i], 1e-6, "index %d", i)
	}
}

func TestContiguousMatchesStrided(t *testing.T) {
	independent := sample(t, 40, Degree0).MakeContiguous()
	base := sample(t, 40, Degree0).Consolidate()
	require.True(t, independent.Scales().IsContiguous())
	require.False(t, base.Scales().IsContiguous())

	for _, d := range []*GSData{independent, base} {
		d.Denormalize()
	}
	assert.InDeltaSlice(t, base.Scales().Dense(), independent.Scales().Dense(), 1e-6)
	assert.InDeltaSlice(t, base.Opacities().Dense(), independent.Opacities().Dense(), 1e-6)

	for _, d := range []*GSData{independent, base} {
		d.Normalize()
	}
	assert.InDeltaSlice(t, base.Scales().Dense(), independent.Scales().Dense(), 1e-4)
	assert.InDeltaSlice(t, base.Opacities().Dense(), independent.Opacities().Dense(), 1e-3)
}

func TestEmptyNormalize(t *testing.T) {
	for _, d := range []*GSData{New(0, Degree1), New(0, Degree1).MakeContiguous()} {
		assert.NotPanics(t, func() { d.Denormalize().Normalize() })
		assert.Empty(t, d.Scales().Dense())
	}
}

func TestNormalizeDenormalize(t *testing.T) {
	for _, d := range []*GSData{sample(t, 5, Degree1), sample(t, 5, Degree1).Consolidate()} {
		orig := d.Clone()

		d.Denormalize()
		assert.Equal(t, LinearFormat(), d.Format())
		assert.InDelta(t, math.Exp(-2), d.Scales().At(2, 0), 1e-6)
		assert.InDelta(t, Sigmoid(3), d.Opacities().At(3, 0), 1e-6)

		// Denormalizing twice is a no-op.
		before := d.At(4)
		d.Denormalize()
		assert.Equal(t, before, d.At(4))

		d.Normalize()
		require.Equal(t, PLYFormat(), d.Format())
		for i := range 5 {
			want, got := orig.At(i), d.At(i)
			for a := range 3 {
				assert.InDelta(t, want.Scale[a], got.Scale[a], 1e-4)
			}
			assert.InDelta(t, want.Opacity, got.Opacity, 1e-3)
			assert.Equal(t, want.Mean, got.Mean)
		}
	}
}

func TestNormalizeClampsZeroScale(t *testing.T) {
	d := New(1, Degree0).SetFormat(LinearFormat())
	d.Opacities().Set(0, 0, 1)
	d.Normalize()
	assert.InDelta(t, math.Log(MinLinearScale), d.Scales().At(0, 0), 1e-3)
	assert.False(t, math.IsInf(float64(d.Opacities().At(0, 0)), 0))
}

func TestToRGBToSH(t *testing.T) {
	d := sample(t, 3, Degree0)
	orig := d.SH0().Dense()
	d.ToRGB()
	assert.Equal(t, SH0RGB, d.Format().SH0)
	assert.InDelta(t, SH2RGB(orig[3]), d.SH0().At(1, 0), 1e-7)
	d.ToRGB()
	assert.InDelta(t, SH2RGB(orig[3]), d.SH0().At(1, 0), 1e-7)
	d.ToSH()
	assert.InDeltaSlice(t, orig, d.SH0().Dense(), 1e-5)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "format(scales=log, opacities=logit, sh0=sh)", PLYFormat().String())
	assert.Equal(t, "format(scales=linear, opacities=linear, sh0=sh)", RasterizerFormat().String())
}
