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
	"bufio"
	"io"
	"time"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// writeBatch is the number of Gaussians staged per batch by WriteUncompressed.
const writeBatch = 4096

// WriteUncompressed writes d as an uncompressed PLY file. Data in a format other than
// gs.PLYFormat is converted on a copy first.
func WriteUncompressed(w io.Writer, d *gs.GSData) error {
	if d.Format() != gs.PLYFormat() {
		d = d.Clone().ToSH().Normalize()
	}
	bw := bufio.NewWriterSize(w, 1<<16)
	if _, err := uncompressedHeader(d.Len(), d.SHDegree()).WriteTo(bw); err != nil {
		return err
	}
	// Consolidate is free on base-buffer data and copies one batch otherwise.
	for start := 0; start < d.Len(); start += writeBatch {
		end := min(start+writeBatch, d.Len())
		if err := writeFloat32s(bw, d.Slice(start, end).Consolidate().Base()); err != nil {
			return err
		}
	}
	return errors.Wrap(bw.Flush(), "ply: flush")
}

// ReadUncompressed decodes an uncompressed PLY file held in memory. The result is in
// base-buffer form; its field views alias one newly allocated buffer, not data.
func ReadUncompressed(data []byte, opts ...Option) (*gs.GSData, error) {
	h, info, err := parseInfo(data)
	if err != nil {
		return nil, err
	}
	if info.Compressed {
		return nil, errors.Wrap(gs.ErrFormat, "ply: file is compressed")
	}
	return readUncompressedBody(data[h.Len():], info, newOptions(opts))
}

func readUncompressedBody(body []byte, info Info, o *options) (*gs.GSData, error) {
	start := time.Now()
	n, degree := info.NumGaussians, info.SHDegree
	base := make([]float32, n*degree.PropertyCount())

	pool, release := o.acquirePool(n)
	defer release()
	getFloat32s(pool, base, body)

	d, err := gs.FromBase(base, n, degree)
	if err != nil {
		return nil, err
	}
	o.logger.WithFields(logrus.Fields{
		"gaussians": n,
		"sh_degree": int(degree),
		"took":      time.Since(start),
	}).Debug("read uncompressed gaussians")
	return d, nil
}
