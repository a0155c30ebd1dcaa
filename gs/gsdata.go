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

	"github.com/pkg/errors"
)

// GSData is a collection of N Gaussians.
//
// All six field views share the leading dimension N. When the collection is in
// base-buffer form (IsConsolidated), every view aliases Base() and a write through one
// of them is visible through the others and through the buffer itself.
//
// A GSData is not safe for concurrent mutation.
type GSData struct {
	means     View
	scales    View
	quats     View
	opacities View
	sh0       View
	shN       View

	// base is nil in independent form.
	base   []float32
	n      int
	degree SHDegree
	format Format

	mask   []bool
	layers *maskLayers
}

// Record is a copy of one Gaussian.
type Record struct {
	Mean    [3]float32
	Scale   [3]float32
	Quat    [4]float32
	Opacity float32
	SH0     [3]float32
	SHN     []float32
}

// New returns n zeroed Gaussians in base-buffer form.
func New(n int, degree SHDegree) *GSData {
	if !degree.Valid() {
		panic("gs: invalid SH degree")
	}
	d, err := FromBase(make([]float32, n*degree.PropertyCount()), n, degree)
	if err != nil {
		panic(err)
	}
	return d
}

// FromBase wraps base, an n x PropertyCount row-major buffer in PLY property order,
// without copying. The returned fields alias base.
func FromBase(base []float32, n int, degree SHDegree) (*GSData, error) {
	if !degree.Valid() {
		return nil, errors.Wrapf(ErrUnsupportedSHDegree, "degree %d", degree)
	}
	p := degree.PropertyCount()
	if n < 0 || len(base) != n*p {
		return nil, errors.Wrapf(ErrShapeMismatch, "base buffer has %d values, want %d x %d", len(base), n, p)
	}
	d := &GSData{n: n, degree: degree, format: PLYFormat()}
	d.bindBase(base)
	return d, nil
}

func (d *GSData) bindBase(base []float32) {
	p := d.degree.PropertyCount()
	cols := d.degree.Columns()
	view := func(r [2]int) View {
		return View{data: base, offset: r[0], stride: p, cols: r[1] - r[0], rows: d.n}
	}
	d.base = base
	d.means = view(cols.Means)
	d.sh0 = view(cols.SH0)
	d.shN = view(cols.SHN)
	d.opacities = view(cols.Opacities)
	d.scales = view(cols.Scales)
	d.quats = view(cols.Quats)
}

// FromArrays builds a collection in independent form from row-major slices:
// means (N*3), scales (N*3), quats (N*4), opacities (N), sh0 (N*3) and shN (N*C, nil
// for degree 0). The slices are used as-is, not copied. The SH degree is detected from
// the length of shN.
func FromArrays(means, scales, quats, opacities, sh0, shN []float32) (*GSData, error) {
	if len(means)%3 != 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "means has %d values, not a multiple of 3", len(means))
	}
	n := len(means) / 3
	check := func(name string, got, cols int) error {
		if got != n*cols {
			return errors.Wrapf(ErrShapeMismatch, "%s has %d values, want %d x %d", name, got, n, cols)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		got  int
		cols int
	}{
		{"scales", len(scales), 3},
		{"quats", len(quats), 4},
		{"opacities", len(opacities), 1},
		{"sh0", len(sh0), 3},
	} {
		if err := check(c.name, c.got, c.cols); err != nil {
			return nil, err
		}
	}

	degree := Degree0
	if len(shN) > 0 {
		if n == 0 || len(shN)%n != 0 {
			return nil, errors.Wrapf(ErrShapeMismatch, "shN has %d values for %d gaussians", len(shN), n)
		}
		var err error
		if degree, err = DegreeFromCoefficients(len(shN) / n); err != nil {
			return nil, err
		}
	}

	d := &GSData{
		means:     denseView(means, 3, n),
		scales:    denseView(scales, 3, n),
		quats:     denseView(quats, 4, n),
		opacities: denseView(opacities, 1, n),
		sh0:       denseView(sh0, 3, n),
		shN:       denseView(shN, degree.Coefficients(), n),
		n:         n,
		degree:    degree,
		format:    PLYFormat(),
	}
	return d, nil
}

// Len returns the number of Gaussians.
func (d *GSData) Len() int { return d.n }

// SHDegree returns the spherical harmonics degree.
func (d *GSData) SHDegree() SHDegree { return d.degree }

// Means returns the N x 3 position view.
func (d *GSData) Means() View { return d.means }

// Scales returns the N x 3 scale view.
func (d *GSData) Scales() View { return d.scales }

// Quats returns the N x 4 rotation view.
func (d *GSData) Quats() View { return d.quats }

// Opacities returns the N x 1 opacity view.
func (d *GSData) Opacities() View { return d.opacities }

// SH0 returns the N x 3 DC color view.
func (d *GSData) SH0() View { return d.sh0 }

// SHN returns the N x C higher-order SH view, channel-major within a row.
func (d *GSData) SHN() View { return d.shN }

// SHCoeff returns higher-order coefficient band of channel ch (0=R, 1=G, 2=B) for
// Gaussian i.
func (d *GSData) SHCoeff(i, band, ch int) float32 {
	return d.shN.At(i, ch*d.degree.Bands()+band)
}

// Base returns the shared buffer, or nil in independent form.
func (d *GSData) Base() []float32 { return d.base }

// IsConsolidated reports whether all fields alias one base buffer.
func (d *GSData) IsConsolidated() bool { return d.base != nil }

// At returns a copy of Gaussian i.
func (d *GSData) At(i int) Record {
	if i < 0 || i >= d.n {
		panic("gs: index out of range")
	}
	var r Record
	copy(r.Mean[:], d.means.Row(i))
	copy(r.Scale[:], d.scales.Row(i))
	copy(r.Quat[:], d.quats.Row(i))
	r.Opacity = d.opacities.At(i, 0)
	copy(r.SH0[:], d.sh0.Row(i))
	if d.shN.cols > 0 {
		r.SHN = append([]float32(nil), d.shN.Row(i)...)
	}
	return r
}

// fields returns the views in base-buffer column order.
func (d *GSData) fields() [6]View {
	return [6]View{d.means, d.sh0, d.shN, d.opacities, d.scales, d.quats}
}

// writeRows copies all fields of d into dst, a Len() x PropertyCount row-major buffer.
func (d *GSData) writeRows(dst []float32) {
	if d.base != nil {
		copy(dst, d.base[:d.n*d.degree.PropertyCount()])
		return
	}
	p := d.degree.PropertyCount()
	col := 0
	for _, f := range d.fields() {
		if f.cols == 0 {
			continue
		}
		for i := range d.n {
			copy(dst[i*p+col:i*p+col+f.cols], f.Row(i))
		}
		col += f.cols
	}
}

// Consolidate returns the collection in base-buffer form. Collections already in that
// form are returned unchanged; otherwise all fields are copied once into a new buffer.
// Masks carry over.
func (d *GSData) Consolidate() *GSData {
	if d.base != nil {
		return d
	}
	base := make([]float32, d.n*d.degree.PropertyCount())
	d.writeRows(base)
	out := &GSData{n: d.n, degree: d.degree, format: d.format}
	out.bindBase(base)
	out.copyMasksFrom(d)
	return out
}

// MakeContiguous returns a copy in which every field owns a dense slice. Elementwise
// math over one field touches fewer cache lines in this form, at the price of the copy.
func (d *GSData) MakeContiguous() *GSData {
	out := &GSData{
		means:     denseView(d.means.Dense(), 3, d.n),
		scales:    denseView(d.scales.Dense(), 3, d.n),
		quats:     denseView(d.quats.Dense(), 4, d.n),
		opacities: denseView(d.opacities.Dense(), 1, d.n),
		sh0:       denseView(d.sh0.Dense(), 3, d.n),
		shN:       denseView(d.shN.Dense(), d.shN.cols, d.n),
		n:         d.n,
		degree:    d.degree,
		format:    d.format,
	}
	out.copyMasksFrom(d)
	return out
}

// Clone returns a deep copy in the same form as d.
func (d *GSData) Clone() *GSData {
	if d.base == nil {
		return d.MakeContiguous()
	}
	base := make([]float32, len(d.base))
	copy(base, d.base)
	out := &GSData{n: d.n, degree: d.degree, format: d.format}
	out.bindBase(base)
	out.copyMasksFrom(d)
	return out
}

// Validate checks that every position is finite.
func (d *GSData) Validate() error {
	for i := range d.n {
		for j, v := range d.means.Row(i) {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return errors.Wrapf(ErrDataIntegrity, "gaussian %d: position axis %d is %v", i, j, v)
			}
		}
	}
	return nil
}
