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
	"bytes"
	"io"
	"time"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/ajroetker/go-gsply/gs/contrib/bitpack"
	"github.com/ajroetker/go-gsply/gs/contrib/chunk"
	"github.com/ajroetker/go-gsply/gs/contrib/rotation"
	"github.com/ajroetker/go-gsply/gs/contrib/shquant"
	gssort "github.com/ajroetker/go-gsply/gs/contrib/sort"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Compressed holds the three regions of a compressed file in memory.
type Compressed struct {
	// N is the number of Gaussians.
	N      int
	Degree gs.SHDegree

	// ChunkBounds holds chunk.Floats values per chunk, in file order.
	ChunkBounds []float32
	// Vertices holds packed position, rotation, scale and color per Gaussian.
	Vertices []uint32
	// SH holds Degree.Coefficients() bytes per Gaussian, channel-major.
	SH []uint8

	// Permutation is set when the Gaussians were spatially sorted before encoding:
	// stored record k is input record Permutation[k]. It is not written to files.
	Permutation []int
}

// NumChunks returns the number of chunk records.
func (c *Compressed) NumChunks() int { return len(c.ChunkBounds) / chunk.Floats }

// Bounds returns the bounds of chunk i.
func (c *Compressed) Bounds(i int) chunk.Bounds {
	return chunk.FromFloats(c.ChunkBounds[i*chunk.Floats : (i+1)*chunk.Floats])
}

// Header returns the PLY header describing c.
func (c *Compressed) Header() *Header { return compressedHeader(c.N, c.Degree) }

// Size returns the encoded size in bytes, header included.
func (c *Compressed) Size() int {
	h := c.Header()
	h.WriteTo(io.Discard)
	return h.Len() + h.DataSize()
}

// CompressToArrays encodes d into the compressed regions.
//
// Positions must be finite (gs.ErrDataIntegrity otherwise). Data in a format other
// than gs.PLYFormat is converted on a copy; d itself is never modified. Every chunk's
// bounds are computed before any record is packed.
func CompressToArrays(d *gs.GSData, opts ...Option) (*Compressed, error) {
	o := newOptions(opts)
	start := time.Now()

	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Format() != gs.PLYFormat() {
		d = d.Clone().ToSH().Normalize()
	}

	n := d.Len()
	degree := d.SHDegree()
	out := &Compressed{
		N:           n,
		Degree:      degree,
		ChunkBounds: make([]float32, chunk.Count(n)*chunk.Floats),
		Vertices:    make([]uint32, n*4),
		SH:          make([]uint8, n*degree.Coefficients()),
	}

	if o.spatialSort && n > 1 {
		all := chunk.Of(d, 0, n)
		out.Permutation = gssort.SortKeys(gssort.MortonKeys(d.Means(), all.PosMin, all.PosMax))
		sorted, err := d.Take(out.Permutation)
		if err != nil {
			return nil, err
		}
		d = sorted
	}

	pool, release := o.acquirePool(n)
	defer release()

	bounds := chunk.ComputeBounds(d, pool)
	pool.ParallelChunks(len(bounds), func(first, last int) {
		for c := first; c < last; c++ {
			packChunk(out, d, c, &bounds[c], o.shMode)
		}
	})

	o.logger.WithFields(logrus.Fields{
		"gaussians":    n,
		"chunks":       len(bounds),
		"sh_degree":    int(degree),
		"spatial_sort": out.Permutation != nil,
		"took":         time.Since(start),
	}).Debug("compressed gaussians")
	return out, nil
}

// packChunk encodes the records of chunk c against b.
func packChunk(out *Compressed, d *gs.GSData, c int, b *chunk.Bounds, mode shquant.Mode) {
	b.Put(out.ChunkBounds[c*chunk.Floats : (c+1)*chunk.Floats])

	means, scales, quats := d.Means(), d.Scales(), d.Quats()
	opacities, sh0, shN := d.Opacities(), d.SH0(), d.SHN()
	coeffs := d.SHDegree().Coefficients()

	var scale, rgb [3]float32
	start, end := chunk.Range(c, d.Len())
	for i := start; i < end; i++ {
		s, dc := scales.Row(i), sh0.Row(i)
		for a := range 3 {
			// Values outside the clamped range pin to its ends, even when the
			// range is degenerate.
			scale[a] = clampTo(s[a], b.ScaleMin[a], b.ScaleMax[a])
			rgb[a] = clampTo(gs.SH2RGB(dc[a]), b.ColorMin[a], b.ColorMax[a])
		}
		v := out.Vertices[i*4 : i*4+4 : i*4+4]
		v[0] = bitpack.EncodeVec3(means.Row(i), b.PosMin, b.PosMax)
		v[1] = rotation.EncodeRow(quats.Row(i))
		v[2] = bitpack.EncodeVec3(scale[:], b.ScaleMin, b.ScaleMax)
		v[3] = bitpack.EncodeColor(rgb[:], gs.Sigmoid(opacities.At(i, 0)), b.ColorMin, b.ColorMax)
		if coeffs > 0 {
			mode.EncodeSlice(out.SH[i*coeffs:(i+1)*coeffs], shN.Row(i))
		}
	}
}

// clampTo limits v to [lo, hi]. NaN passes through.
func clampTo(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Decompress decodes c into a new base-buffer collection in gs.PLYFormat. If c carries
// a Permutation the Gaussians come back in their original order.
func (c *Compressed) Decompress(opts ...Option) (*gs.GSData, error) {
	return c.decompress(newOptions(opts))
}

func (c *Compressed) decompress(o *options) (*gs.GSData, error) {
	start := time.Now()

	if err := c.check(); err != nil {
		return nil, err
	}

	d := gs.New(c.N, c.Degree)
	pool, release := o.acquirePool(c.N)
	defer release()

	pool.ParallelChunks(c.NumChunks(), func(first, last int) {
		for k := first; k < last; k++ {
			unpackChunk(d, c, k, o.shMode)
		}
	})

	if c.Permutation != nil {
		restored, err := d.Take(gssort.Invert(c.Permutation))
		if err != nil {
			return nil, err
		}
		d = restored
	}

	o.logger.WithFields(logrus.Fields{
		"gaussians": c.N,
		"chunks":    c.NumChunks(),
		"sh_degree": int(c.Degree),
		"took":      time.Since(start),
	}).Debug("decompressed gaussians")
	return d, nil
}

// check verifies that the regions have the sizes N and Degree imply.
func (c *Compressed) check() error {
	if !c.Degree.Valid() {
		return errors.Wrapf(gs.ErrUnsupportedSHDegree, "degree %d", c.Degree)
	}
	switch {
	case len(c.ChunkBounds) != chunk.Count(c.N)*chunk.Floats:
		return errors.Wrapf(gs.ErrShapeMismatch, "ply: %d chunk values for %d gaussians", len(c.ChunkBounds), c.N)
	case len(c.Vertices) != c.N*4:
		return errors.Wrapf(gs.ErrShapeMismatch, "ply: %d vertex words for %d gaussians", len(c.Vertices), c.N)
	case len(c.SH) != c.N*c.Degree.Coefficients():
		return errors.Wrapf(gs.ErrShapeMismatch, "ply: %d sh bytes for %d gaussians of SH %s", len(c.SH), c.N, c.Degree)
	case c.Permutation != nil && len(c.Permutation) != c.N:
		return errors.Wrapf(gs.ErrShapeMismatch, "ply: permutation has %d entries for %d gaussians", len(c.Permutation), c.N)
	}
	return nil
}

// unpackChunk decodes the records of chunk k into d's base buffer.
func unpackChunk(d *gs.GSData, c *Compressed, k int, mode shquant.Mode) {
	b := c.Bounds(k)
	cols := c.Degree.Columns()
	p := c.Degree.PropertyCount()
	coeffs := c.Degree.Coefficients()
	base := d.Base()

	start, end := chunk.Range(k, c.N)
	for i := start; i < end; i++ {
		row := base[i*p : (i+1)*p : (i+1)*p]
		v := c.Vertices[i*4 : i*4+4 : i*4+4]

		bitpack.DecodeVec3(row[cols.Means[0]:cols.Means[1]], v[0], b.PosMin, b.PosMax)
		rotation.DecodeRow(row[cols.Quats[0]:cols.Quats[1]], v[1])
		bitpack.DecodeVec3(row[cols.Scales[0]:cols.Scales[1]], v[2], b.ScaleMin, b.ScaleMax)

		dc := row[cols.SH0[0]:cols.SH0[1]]
		alpha := bitpack.DecodeColor(dc, v[3], b.ColorMin, b.ColorMax)
		for a := range dc {
			dc[a] = gs.RGB2SH(dc[a])
		}
		row[cols.Opacities[0]] = gs.Logit(alpha, gs.LogitEpsilon)

		if coeffs > 0 {
			mode.DecodeSlice(row[cols.SHN[0]:cols.SHN[1]], c.SH[i*coeffs:(i+1)*coeffs])
		}
	}
}

// WriteTo writes c as a compressed PLY file.
func (c *Compressed) WriteTo(w io.Writer) (int64, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	bw := bufio.NewWriterSize(w, 1<<16)
	cw := &countingWriter{w: bw}
	if _, err := c.Header().WriteTo(cw); err != nil {
		return cw.n, err
	}
	if err := writeFloat32s(cw, c.ChunkBounds); err != nil {
		return cw.n, err
	}
	if err := writeUint32s(cw, c.Vertices); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(c.SH); err != nil {
		return cw.n, errors.Wrap(err, "ply: write sh")
	}
	return cw.n, errors.Wrap(bw.Flush(), "ply: flush")
}

// CompressToBytes encodes d into a complete compressed PLY file in memory.
func CompressToBytes(d *gs.GSData, opts ...Option) ([]byte, error) {
	c, err := CompressToArrays(d, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(c.Size())
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressFromBytes decodes a complete compressed PLY file held in memory.
// Uncompressed files are rejected with gs.ErrFormat; use ReadBytes for either layout.
func DecompressFromBytes(data []byte, opts ...Option) (*gs.GSData, error) {
	o := newOptions(opts)
	c, err := parseCompressed(data, o)
	if err != nil {
		return nil, err
	}
	return c.decompress(o)
}

// ParseCompressed splits a compressed PLY file into its regions without decoding the
// packed values. The header is validated and the declared sizes checked against
// len(data) before anything is allocated.
func ParseCompressed(data []byte, opts ...Option) (*Compressed, error) {
	return parseCompressed(data, newOptions(opts))
}

func parseCompressed(data []byte, o *options) (*Compressed, error) {
	h, info, err := parseInfo(data)
	if err != nil {
		return nil, err
	}
	if !info.Compressed {
		return nil, errors.Wrap(gs.ErrFormat, "ply: not a compressed file")
	}
	return parseCompressedBody(data[h.Len():], info, o)
}

// parseInfo parses and classifies the header at the start of data and checks that
// the data it declares is present.
func parseInfo(data []byte) (*Header, Info, error) {
	h, err := ParseHeader(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, Info{}, err
	}
	info, err := DetectHeader(h)
	if err != nil {
		return nil, Info{}, err
	}
	if have, want := len(data)-h.Len(), h.DataSize(); have < want {
		return nil, Info{}, errors.Wrapf(gs.ErrTruncatedFile, "ply: header declares %d data bytes, file has %d", want, have)
	}
	return h, info, nil
}

// parseCompressedBody decodes the three regions concurrently.
func parseCompressedBody(body []byte, info Info, o *options) (*Compressed, error) {
	n, coeffs := info.NumGaussians, info.SHDegree.Coefficients()
	c := &Compressed{
		N:           n,
		Degree:      info.SHDegree,
		ChunkBounds: make([]float32, info.NumChunks*chunk.Floats),
		Vertices:    make([]uint32, n*4),
		SH:          make([]uint8, n*coeffs),
	}
	chunkBytes := 4 * len(c.ChunkBounds)
	vertexBytes := 4 * len(c.Vertices)
	region := func(name string, off, size int) ([]byte, error) {
		if off+size > len(body) {
			return nil, errors.Wrapf(gs.ErrTruncatedFile, "ply: %s region needs %d bytes at offset %d, body has %d", name, size, off, len(body))
		}
		return body[off : off+size], nil
	}

	pool, release := o.acquirePool(n)
	defer release()

	var g errgroup.Group
	g.Go(func() error {
		src, err := region(ChunkElement, 0, chunkBytes)
		if err != nil {
			return err
		}
		getFloat32s(pool, c.ChunkBounds, src)
		return nil
	})
	g.Go(func() error {
		src, err := region(VertexElement, chunkBytes, vertexBytes)
		if err != nil {
			return err
		}
		getUint32s(pool, c.Vertices, src)
		return nil
	})
	g.Go(func() error {
		src, err := region(SHElement, chunkBytes+vertexBytes, len(c.SH))
		if err != nil {
			return err
		}
		copy(c.SH, src)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
