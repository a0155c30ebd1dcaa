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

// View is a strided 2-D window over a []float32.
//
// Row i occupies data[offset+i*stride : offset+i*stride+cols]. A View never owns its
// data: copying a View copies the descriptor, not the values, and both copies alias
// the same memory.
type View struct {
	data   []float32
	offset int
	stride int
	cols   int
	rows   int
}

// NewView returns a view of rows x cols values of data starting at offset with the
// given row stride. It panics if the window does not fit in data.
func NewView(data []float32, offset, stride, cols, rows int) View {
	if rows > 0 && cols > 0 && offset+(rows-1)*stride+cols > len(data) {
		panic("gs: view out of range")
	}
	return View{data: data, offset: offset, stride: stride, cols: cols, rows: rows}
}

// denseView wraps data as a rows x cols row-major view.
func denseView(data []float32, cols, rows int) View {
	return View{data: data, stride: cols, cols: cols, rows: rows}
}

// Rows returns the leading dimension.
func (v View) Rows() int { return v.rows }

// Cols returns the number of values per row.
func (v View) Cols() int { return v.cols }

// Stride returns the distance between consecutive rows in the backing slice.
func (v View) Stride() int { return v.stride }

// Offset returns the position of element (0, 0) in the backing slice.
func (v View) Offset() int { return v.offset }

// Data returns the backing slice.
func (v View) Data() []float32 { return v.data }

// IsContiguous reports whether rows are packed back to back.
func (v View) IsContiguous() bool { return v.stride == v.cols || v.rows <= 1 }

// flat returns the view's values as one slice when its rows are packed back to back.
func (v View) flat() ([]float32, bool) {
	if !v.IsContiguous() {
		return nil, false
	}
	if v.rows == 0 || v.cols == 0 {
		return nil, true
	}
	return v.data[v.offset : v.offset+v.rows*v.cols], true
}

// At returns element (i, j).
func (v View) At(i, j int) float32 {
	return v.data[v.offset+i*v.stride+j]
}

// Set stores x at element (i, j).
func (v View) Set(i, j int, x float32) {
	v.data[v.offset+i*v.stride+j] = x
}

// Row returns row i as a slice aliasing the backing data.
func (v View) Row(i int) []float32 {
	start := v.offset + i*v.stride
	return v.data[start : start+v.cols : start+v.cols]
}

// Slice returns rows [start, end) as a view aliasing the same data.
func (v View) Slice(start, end int) View {
	if start < 0 || end > v.rows || start > end {
		panic("gs: view slice out of range")
	}
	return View{
		data:   v.data,
		offset: v.offset + start*v.stride,
		stride: v.stride,
		cols:   v.cols,
		rows:   end - start,
	}
}

// CopyTo writes the view densely (row-major) into dst and returns the number of values
// written. dst must hold Rows()*Cols() values.
func (v View) CopyTo(dst []float32) int {
	if flat, ok := v.flat(); ok {
		return copy(dst, flat)
	}
	n := 0
	for i := range v.rows {
		n += copy(dst[n:], v.Row(i))
	}
	return n
}

// Dense returns a freshly allocated row-major copy of the view.
func (v View) Dense() []float32 {
	out := make([]float32, v.rows*v.cols)
	v.CopyTo(out)
	return out
}

// Apply replaces every element x with fn(x), in place.
func (v View) Apply(fn func(float32) float32) {
	for i := range v.rows {
		row := v.Row(i)
		for j, x := range row {
			row[j] = fn(x)
		}
	}
}
