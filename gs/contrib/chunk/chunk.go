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
package chunk

import (
	"math"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/ajroetker/go-gsply/gs/contrib/workerpool"
	"github.com/ajroetker/go-highway/hwy/contrib/vec"
)

const (
	// Size is the number of records sharing one bounds record.
	Size = 256

	// ScaleLimit bounds the log-scale range stored per chunk. Extreme or infinite
	// scales clamp to it instead of stretching the quantization range.
	ScaleLimit = 20

	// Floats is the number of float32 values of a serialized Bounds.
	Floats = 18
)

// Index returns the chunk holding record i.
func Index(i int) int {
	return i / Size
}

// Count returns the number of chunks needed for n records.
func Count(n int) int {
	return (n + Size - 1) / Size
}

// Range returns the records [start, end) of chunk c in a collection of n records.
func Range(c, n int) (start, end int) {
	start = c * Size
	end = min(start+Size, n)
	return start, end
}

// Bounds is the quantization range of one chunk.
type Bounds struct {
	PosMin, PosMax     [3]float32
	ScaleMin, ScaleMax [3]float32
	ColorMin, ColorMax [3]float32
}

// Put writes b in file order (min_x min_y min_z max_x max_y max_z, then the same for
// scale and for r g b) into dst, which must hold Floats values.
func (b *Bounds) Put(dst []float32) {
	_ = dst[Floats-1]
	copy(dst[0:3], b.PosMin[:])
	copy(dst[3:6], b.PosMax[:])
	copy(dst[6:9], b.ScaleMin[:])
	copy(dst[9:12], b.ScaleMax[:])
	copy(dst[12:15], b.ColorMin[:])
	copy(dst[15:18], b.ColorMax[:])
}

// FromFloats reads a bounds record written by Put.
func FromFloats(src []float32) Bounds {
	_ = src[Floats-1]
	var b Bounds
	copy(b.PosMin[:], src[0:3])
	copy(b.PosMax[:], src[3:6])
	copy(b.ScaleMin[:], src[6:9])
	copy(b.ScaleMax[:], src[9:12])
	copy(b.ColorMin[:], src[12:15])
	copy(b.ColorMax[:], src[15:18])
	return b
}

// ComputeBounds returns the bounds of every chunk of d. A nil pool computes them
// serially. Every chunk is finished when it returns.
func ComputeBounds(d *gs.GSData, pool *workerpool.Pool) []Bounds {
	n := d.Len()
	out := make([]Bounds, Count(n))
	pool.ParallelChunks(len(out), func(first, last int) {
		for c := first; c < last; c++ {
			start, end := Range(c, n)
			out[c] = Of(d, start, end)
		}
	})
	return out
}

// Of reduces records [start, end) of d to one Bounds.
//
// Non-finite positions and colors are skipped. Scales take part in the reduction
// even when infinite and are clamped afterwards. An axis with no usable value
// collapses to [0, 0].
func Of(d *gs.GSData, start, end int) Bounds {
	pos, scale, color := newReducer(end-start), newReducer(end-start), newReducer(end-start)

	means, scales, sh0 := d.Means(), d.Scales(), d.SH0()
	for i := start; i < end; i++ {
		m, s, c := means.Row(i), scales.Row(i), sh0.Row(i)
		for a := range 3 {
			if finite(m[a]) {
				pos.add(a, m[a])
			}
			if !isNaN(s[a]) {
				scale.add(a, s[a])
			}
			if rgb := gs.SH2RGB(c[a]); finite(rgb) {
				color.add(a, rgb)
			}
		}
	}

	var b Bounds
	b.PosMin, b.PosMax = pos.result()
	b.ScaleMin, b.ScaleMax = scale.result()
	b.ColorMin, b.ColorMax = color.result()
	for a := range 3 {
		b.ScaleMin[a] = clamp(b.ScaleMin[a], -ScaleLimit, ScaleLimit)
		b.ScaleMax[a] = clamp(b.ScaleMax[a], -ScaleLimit, ScaleLimit)
	}
	return b
}

// reducer gathers the usable values of each axis for one min/max pass.
type reducer struct {
	vals [3][]float32
}

func newReducer(n int) *reducer {
	buf := make([]float32, 3*n)
	r := &reducer{}
	for a := range r.vals {
		r.vals[a] = buf[a*n : a*n : (a+1)*n]
	}
	return r
}

func (r *reducer) add(axis int, v float32) {
	r.vals[axis] = append(r.vals[axis], v)
}

func (r *reducer) result() (lo, hi [3]float32) {
	for a, vals := range r.vals {
		if len(vals) == 0 {
			continue
		}
		lo[a], hi[a] = vec.BaseMinMax(vals)
	}
	return lo, hi
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

func isNaN(v float32) bool {
	return v != v
}
