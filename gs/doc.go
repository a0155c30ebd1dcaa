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

// Package gs provides the in-memory data model for 3D Gaussian Splatting scenes.
//
// # Data Model
//
// A Gaussian (splat) carries a position, a log-space scale, a rotation quaternion,
// a logit-space opacity, a DC color term (sh0) and optional higher-order spherical
// harmonics (shN). A GSData holds N of them as six field views:
//
//	Means     N x 3
//	Scales    N x 3
//	Quats     N x 4
//	Opacities N x 1
//	SH0       N x 3
//	SHN       N x C   (C = 0, 9, 24 or 45)
//
// # Zero-Copy Views
//
// Fields are View values describing (offset, stride, cols) over a backing []float32.
// In base-buffer form all six views alias one N x P buffer whose columns follow the PLY
// property order, so a row of the buffer is exactly one file record:
//
//	x y z f_dc_0..2 f_rest_0..C-1 opacity scale_0..2 rot_0..3
//
// Writes through any view are visible through every alias of the same buffer. There is
// no copy-on-write.
//
// Data read from disk arrives in base-buffer form. Data built from separate slices
// (FromArrays) is in independent form until Consolidate merges it:
//
//	d, err := gs.FromArrays(means, scales, quats, opacities, sh0, nil)
//	if err != nil {
//	    return err
//	}
//	d = d.Consolidate() // one O(N*P) copy, then all fields alias d.Base()
//
// MakeContiguous goes the other way and gives every field its own dense slice.
//
// # SH Degrees
//
// SHDegree is a closed set (Degree0..Degree3) backed by a lookup table of layouts,
// see Layout.
package gs
