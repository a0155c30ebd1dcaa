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

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns n Gaussians in independent form whose values encode their index.
func sample(t *testing.T, n int, degree SHDegree) *GSData {
	t.Helper()
	c := degree.Coefficients()
	means := make([]float32, n*3)
	scales := make([]float32, n*3)
	quats := make([]float32, n*4)
	opacities := make([]float32, n)
	sh0 := make([]float32, n*3)
	var shN []float32
	if c > 0 {
		shN = make([]float32, n*c)
	}
	for i := range n {
		f := float32(i)
		for a := range 3 {
			means[i*3+a] = f + float32(a)/10
			scales[i*3+a] = -f
			sh0[i*3+a] = f / 100
		}
		quats[i*4] = 1
		opacities[i] = f
		for k := range c {
			shN[i*c+k] = f + float32(k)/100
		}
	}
	d, err := FromArrays(means, scales, quats, opacities, sh0, shN)
	require.NoError(t, err)
	return d
}

func TestFromArraysDetectsDegree(t *testing.T) {
	for d := Degree0; d <= Degree3; d++ {
		data := sample(t, 5, d)
		assert.Equal(t, d, data.SHDegree())
		assert.Equal(t, 5, data.Len())
		assert.False(t, data.IsConsolidated())
	}
}

func TestFromArraysShapeMismatch(t *testing.T) {
	_, err := FromArrays(make([]float32, 6), make([]float32, 3), make([]float32, 8), make([]float32, 2), make([]float32, 6), nil)
	assert.True(t, errors.Is(err, ErrShapeMismatch), "err = %v", err)

	_, err = FromArrays(make([]float32, 7), nil, nil, nil, nil, nil)
	assert.True(t, errors.Is(err, ErrShapeMismatch), "err = %v", err)
}

func TestFromArraysUnsupportedDegree(t *testing.T) {
	n := 2
	_, err := FromArrays(make([]float32, n*3), make([]float32, n*3), make([]float32, n*4),
		make([]float32, n), make([]float32, n*3), make([]float32, n*10))
	assert.True(t, errors.Is(err, ErrUnsupportedSHDegree), "err = %v", err)
}

func TestFromBaseRejectsWrongLength(t *testing.T) {
	_, err := FromBase(make([]float32, 27), 2, Degree0)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestViewsAliasBase(t *testing.T) {
	d := New(4, Degree1)
	require.True(t, d.IsConsolidated())

	d.Means().Set(2, 1, 42)
	p := Degree1.PropertyCount()
	assert.Equal(t, float32(42), d.Base()[2*p+1])

	// A write through the buffer shows up in the view.
	d.Base()[3*p+d.SHDegree().Columns().Opacities[0]] = 7
	assert.Equal(t, float32(7), d.Opacities().At(3, 0))

	// Row slices alias too.
	d.Quats().Row(0)[3] = 0.5
	assert.Equal(t, float32(0.5), d.Base()[p-1])
}

func TestConsolidate(t *testing.T) {
	for deg := Degree0; deg <= Degree3; deg++ {
		d := sample(t, 9, deg)
		c := d.Consolidate()
		require.True(t, c.IsConsolidated())
		assert.Len(t, c.Base(), 9*deg.PropertyCount())
		for i := range 9 {
			assert.Equal(t, d.At(i), c.At(i))
		}
		// Consolidating again is free.
		assert.Same(t, c, c.Consolidate())

		// The consolidated copy no longer aliases the original arrays.
		c.Means().Set(0, 0, -1)
		assert.NotEqual(t, float32(-1), d.Means().At(0, 0))
	}
}

func TestMakeContiguous(t *testing.T) {
	d := sample(t, 6, Degree2).Consolidate()
	c := d.MakeContiguous()
	assert.False(t, c.IsConsolidated())
	for _, v := range []View{c.Means(), c.Scales(), c.Quats(), c.Opacities(), c.SH0(), c.SHN()} {
		assert.True(t, v.IsContiguous())
		assert.Equal(t, 6, v.Rows())
	}
	for i := range 6 {
		assert.Equal(t, d.At(i), c.At(i))
	}
}

func TestSliceAliases(t *testing.T) {
	for _, d := range []*GSData{sample(t, 10, Degree1), sample(t, 10, Degree1).Consolidate()} {
		s := d.Slice(3, 7)
		require.Equal(t, 4, s.Len())
		assert.Equal(t, d.At(3), s.At(0))

		s.Means().Set(0, 0, 99)
		assert.Equal(t, float32(99), d.Means().At(3, 0))
		assert.Equal(t, d.IsConsolidated(), s.IsConsolidated())
	}
}

func TestSlicePanicsOutOfRange(t *testing.T) {
	d := sample(t, 3, Degree0)
	assert.Panics(t, func() { d.Slice(2, 4) })
	assert.Panics(t, func() { d.Slice(2, 1) })
}

func TestTakeAndFilter(t *testing.T) {
	for _, d := range []*GSData{sample(t, 8, Degree3), sample(t, 8, Degree3).Consolidate()} {
		got, err := d.Take([]int{5, 0, 5})
		require.NoError(t, err)
		assert.Equal(t, d.IsConsolidated(), got.IsConsolidated())
		assert.Equal(t, d.At(5), got.At(0))
		assert.Equal(t, d.At(0), got.At(1))
		assert.Equal(t, d.At(5), got.At(2))

		// Gathers copy.
		got.Means().Set(0, 0, -5)
		assert.NotEqual(t, float32(-5), d.Means().At(5, 0))

		mask := []bool{true, false, false, true, false, false, false, true}
		f, err := d.Filter(mask)
		require.NoError(t, err)
		require.Equal(t, 3, f.Len())
		assert.Equal(t, d.At(7), f.At(2))
	}
}

func TestTakeErrors(t *testing.T) {
	d := sample(t, 3, Degree0)
	_, err := d.Take([]int{3})
	assert.Error(t, err)
	_, err = d.Filter([]bool{true})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestConcatenate(t *testing.T) {
	a := sample(t, 3, Degree1)
	b := sample(t, 2, Degree1).Consolidate()
	c := sample(t, 4, Degree1)

	out, err := Concatenate(a, b, c)
	require.NoError(t, err)
	require.Equal(t, 9, out.Len())
	assert.True(t, out.IsConsolidated())
	assert.Equal(t, a.At(2), out.At(2))
	assert.Equal(t, b.At(0), out.At(3))
	assert.Equal(t, c.At(3), out.At(8))

	added, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, 5, added.Len())
}

func TestConcatenateRejectsMismatch(t *testing.T) {
	_, err := Concatenate(sample(t, 2, Degree0), sample(t, 2, Degree1))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	linear := sample(t, 2, Degree0).SetFormat(LinearFormat())
	_, err = Concatenate(sample(t, 2, Degree0), linear)
	assert.True(t, errors.Is(err, ErrFormatMismatch))

	_, err = sample(t, 2, Degree0).Add(linear)
	require.True(t, errors.Is(err, ErrFormatMismatch))
	assert.Contains(t, err.Error(), "Normalize")

	_, err = Concatenate()
	assert.Error(t, err)
}

func TestAtCopies(t *testing.T) {
	d := sample(t, 2, Degree1)
	r := d.At(1)
	r.SHN[0] = 1000
	r.Mean[0] = 1000
	assert.NotEqual(t, float32(1000), d.SHN().At(1, 0))
	assert.NotEqual(t, float32(1000), d.Means().At(1, 0))
}

func TestSHCoeffChannelMajor(t *testing.T) {
	d := sample(t, 1, Degree1)
	// Row is [R0 R1 R2 G0 G1 G2 B0 B1 B2].
	assert.Equal(t, d.SHN().At(0, 4), d.SHCoeff(0, 1, 1))
	assert.Equal(t, d.SHN().At(0, 8), d.SHCoeff(0, 2, 2))
}

func TestValidate(t *testing.T) {
	d := sample(t, 3, Degree0)
	require.NoError(t, d.Validate())

	d.Means().Set(1, 2, float32(math.Inf(-1)))
	err := d.Validate()
	assert.True(t, errors.Is(err, ErrDataIntegrity), "err = %v", err)
}

func TestEmpty(t *testing.T) {
	d, err := FromArrays(nil, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, d.Consolidate().Len())
	assert.Equal(t, 0, d.MakeContiguous().Len())
}

func TestClone(t *testing.T) {
	for _, d := range []*GSData{sample(t, 4, Degree2), sample(t, 4, Degree2).Consolidate()} {
		c := d.Clone()
		assert.Equal(t, d.IsConsolidated(), c.IsConsolidated())
		c.Scales().Set(0, 0, 123)
		assert.NotEqual(t, float32(123), d.Scales().At(0, 0))
	}
}
