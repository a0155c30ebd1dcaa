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
// Package ply reads and writes Gaussian Splatting scenes stored as binary
// little-endian PLY files.
//
// Two layouts are supported. The uncompressed layout is one vertex element whose
// float properties follow gs.SHDegree.PropertyNames. The compressed layout is the
// chunked format used by PlayCanvas and SuperSplat:
//
//	element chunk  ceil(N/256)   18 x float   per-chunk quantization bounds
//	element vertex N              4 x uint     packed position, rotation, scale, color
//	element sh     N              C x uchar    higher-order SH, only when C > 0
//
// The element order is fixed. Files are decoded into base-buffer gs.GSData values,
// always in gs.PLYFormat.
//
// The codec is lossy. Positions and scales keep 11/10/11 bits per chunk range,
// colors and opacity 8 bits, rotations 10 bits per stored component and SH
// coefficients 8 bits over [-8, 8].
package ply
