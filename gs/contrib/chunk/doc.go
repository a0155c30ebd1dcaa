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
// Package chunk partitions a collection into fixed 256-record chunks and computes the
// per-chunk quantization bounds of the compressed PLY format.
//
// # Partitioning
//
// Chunk membership is defined purely by array position:
//
//	Index(i) = i / 256
//
// so chunk c is the contiguous slice [c*256, min(N, (c+1)*256)) and only the last
// chunk can be partial. The chunk size is a compatibility constant of the file format,
// not a tuning knob.
//
// # Bounds
//
// Each chunk gets 18 float32 values: position min/max per axis, scale min/max per axis
// clamped to [-ScaleLimit, ScaleLimit], and color min/max per channel, where color is
// sh0*SHC0 + 0.5. Because chunks are contiguous, bounds are a plain min/max reduction
// per slice; ComputeBounds shards that reduction by chunk range across a worker pool.
//
// All bounds must be computed before any record of a chunk is packed. ComputeBounds
// returns only once every chunk is finished.
package chunk
