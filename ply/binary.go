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
package ply

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ajroetker/go-gsply/gs/contrib/workerpool"
	"github.com/pkg/errors"
)

// batchValues is how many 4-byte values are staged per Write call.
const batchValues = 16 * 1024

func getFloat32s(pool *workerpool.Pool, dst []float32, src []byte) {
	_ = src[:4*len(dst)]
	pool.ParallelFor(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
		}
	})
}

func getUint32s(pool *workerpool.Pool, dst []uint32, src []byte) {
	_ = src[:4*len(dst)]
	pool.ParallelFor(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = binary.LittleEndian.Uint32(src[4*i:])
		}
	})
}

func writeFloat32s(w io.Writer, src []float32) error {
	var buf [4 * batchValues]byte
	for len(src) > 0 {
		n := min(len(src), batchValues)
		for i, v := range src[:n] {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
		if _, err := w.Write(buf[:4*n]); err != nil {
			return errors.Wrap(err, "ply: write")
		}
		src = src[n:]
	}
	return nil
}

func writeUint32s(w io.Writer, src []uint32) error {
	var buf [4 * batchValues]byte
	for len(src) > 0 {
		n := min(len(src), batchValues)
		for i, v := range src[:n] {
			binary.LittleEndian.PutUint32(buf[4*i:], v)
		}
		if _, err := w.Write(buf[:4*n]); err != nil {
			return errors.Wrap(err, "ply: write")
		}
		src = src[n:]
	}
	return nil
}
