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
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Slice returns Gaussians [start, end) without copying. The result aliases d: writes
// through either collection are visible in both. Masks are sliced along with the data.
// It panics if the range is out of bounds, like slicing a Go slice.
func (d *GSData) Slice(start, end int) *GSData {
	if start < 0 || end > d.n || start > end {
		panic("gs: slice bounds out of range")
	}
	out := &GSData{n: end - start, degree: d.degree, format: d.format}
	if d.base != nil {
		p := d.degree.PropertyCount()
		out.bindBase(d.base[start*p : end*p : end*p])
	} else {
		out.means = d.means.Slice(start, end)
		out.scales = d.scales.Slice(start, end)
		out.quats = d.quats.Slice(start, end)
		out.opacities = d.opacities.Slice(start, end)
		out.sh0 = d.sh0.Slice(start, end)
		out.shN = d.shN.Slice(start, end)
	}
	if d.mask != nil {
		out.mask = d.mask[start:end:end]
	}
	if d.layers != nil {
		out.layers = d.layers.slice(start, end)
	}
	return out
}

// Take gathers the Gaussians at indices into a new collection. A consolidated source
// is gathered row by row into one new buffer; an independent source is gathered per
// field. Masks are not carried over.
func (d *GSData) Take(indices []int) (*GSData, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= d.n {
			return nil, errors.Errorf("gs: index %d out of range [0, %d)", idx, d.n)
		}
	}
	return d.gather(indices), nil
}

// Filter keeps the Gaussians whose mask entry is true. The mask must have Len() entries.
func (d *GSData) Filter(mask []bool) (*GSData, error) {
	if len(mask) != d.n {
		return nil, errors.Wrapf(ErrShapeMismatch, "mask has %d entries for %d gaussians", len(mask), d.n)
	}
	indices := make([]int, 0, lo.Count(mask, true))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return d.gather(indices), nil
}

func (d *GSData) gather(indices []int) *GSData {
	n := len(indices)
	if d.base != nil {
		p := d.degree.PropertyCount()
		base := make([]float32, n*p)
		for k, idx := range indices {
			copy(base[k*p:(k+1)*p], d.base[idx*p:(idx+1)*p])
		}
		out := &GSData{n: n, degree: d.degree, format: d.format}
		out.bindBase(base)
		return out
	}

	take := func(v View) View {
		dst := make([]float32, n*v.cols)
		for k, idx := range indices {
			copy(dst[k*v.cols:(k+1)*v.cols], v.Row(idx))
		}
		return denseView(dst, v.cols, n)
	}
	return &GSData{
		means:     take(d.means),
		scales:    take(d.scales),
		quats:     take(d.quats),
		opacities: take(d.opacities),
		sh0:       take(d.sh0),
		shN:       take(d.shN),
		n:         n,
		degree:    d.degree,
		format:    d.format,
	}
}
