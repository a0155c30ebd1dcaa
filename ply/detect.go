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
	"fmt"
	"os"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/ajroetker/go-gsply/gs/contrib/chunk"
	"github.com/pkg/errors"
)

// Element names of the compressed layout, in file order.
const (
	ChunkElement  = "chunk"
	VertexElement = "vertex"
	SHElement     = "sh"
)

// chunkProperties are the float properties of one chunk record, in file order.
var chunkProperties = []string{
	"min_x", "min_y", "min_z", "max_x", "max_y", "max_z",
	"min_scale_x", "min_scale_y", "min_scale_z", "max_scale_x", "max_scale_y", "max_scale_z",
	"min_r", "min_g", "min_b", "max_r", "max_g", "max_b",
}

// packedProperties are the uint properties of one compressed vertex, in file order.
var packedProperties = []string{"packed_position", "packed_rotation", "packed_scale", "packed_color"}

// Info describes a Gaussian Splatting PLY file.
type Info struct {
	Compressed   bool
	SHDegree     gs.SHDegree
	NumGaussians int
	// NumChunks is zero for uncompressed files.
	NumChunks int
}

func (i Info) String() string {
	kind := "uncompressed"
	if i.Compressed {
		kind = "compressed"
	}
	return fmt.Sprintf("%s, %d gaussians, SH %s, %d chunks", kind, i.NumGaussians, i.SHDegree, i.NumChunks)
}

// DetectFormat reads the header of the file at path and describes its layout.
func DetectFormat(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, errors.Wrap(err, "ply: open")
	}
	defer f.Close()

	h, err := ParseHeader(bufio.NewReader(f))
	if err != nil {
		return Info{}, errors.Wrapf(err, "ply: %s", path)
	}
	return DetectHeader(h)
}

// DetectHeader classifies a parsed header. A header whose first element is "chunk"
// must follow the compressed layout exactly; any other header must be a single vertex
// element with the uncompressed properties of one SH degree. Everything else is a
// gs.ErrFormat.
func DetectHeader(h *Header) (Info, error) {
	if len(h.Elements) > 0 && h.Elements[0].Name == ChunkElement {
		return detectCompressed(h)
	}
	return detectUncompressed(h)
}

func detectCompressed(h *Header) (Info, error) {
	names := make([]string, len(h.Elements))
	for i, e := range h.Elements {
		names[i] = e.Name
	}
	if len(names) < 2 || len(names) > 3 || names[1] != VertexElement || (len(names) == 3 && names[2] != SHElement) {
		return Info{}, errors.Wrapf(gs.ErrFormat, "ply: compressed elements must be chunk, vertex[, sh], got %v", names)
	}

	chunks, vertex := &h.Elements[0], &h.Elements[1]
	if err := expectProperties(chunks, chunkProperties, "float"); err != nil {
		return Info{}, err
	}
	if err := expectProperties(vertex, packedProperties, "uint"); err != nil {
		return Info{}, err
	}
	if want := chunk.Count(vertex.Count); chunks.Count != want {
		return Info{}, errors.Wrapf(gs.ErrFormat, "ply: %d chunks declared for %d gaussians, want %d", chunks.Count, vertex.Count, want)
	}

	info := Info{Compressed: true, SHDegree: gs.Degree0, NumGaussians: vertex.Count, NumChunks: chunks.Count}
	if len(h.Elements) == 3 {
		sh := &h.Elements[2]
		if sh.Count != vertex.Count {
			return Info{}, errors.Wrapf(gs.ErrFormat, "ply: sh element has %d records for %d gaussians", sh.Count, vertex.Count)
		}
		degree, err := gs.DegreeFromCoefficients(len(sh.Properties))
		if err != nil {
			return Info{}, err
		}
		if degree == gs.Degree0 {
			return Info{}, errors.Wrap(gs.ErrFormat, "ply: empty sh element")
		}
		if err := expectProperties(sh, restNames(degree.Coefficients()), "uchar"); err != nil {
			return Info{}, err
		}
		info.SHDegree = degree
	}
	return info, nil
}

func detectUncompressed(h *Header) (Info, error) {
	if len(h.Elements) != 1 || h.Elements[0].Name != VertexElement {
		return Info{}, errors.Wrap(gs.ErrFormat, "ply: expected a single vertex element")
	}
	vertex := &h.Elements[0]
	degree, err := gs.DegreeFromPropertyCount(len(vertex.Properties))
	if err != nil {
		return Info{}, errors.Wrapf(gs.ErrFormat, "ply: %d vertex properties match no SH degree", len(vertex.Properties))
	}
	if err := expectProperties(vertex, degree.PropertyNames(), "float"); err != nil {
		return Info{}, err
	}
	return Info{SHDegree: degree, NumGaussians: vertex.Count}, nil
}

func expectProperties(e *Element, names []string, typ string) error {
	if len(e.Properties) != len(names) {
		return errors.Wrapf(gs.ErrFormat, "ply: element %q has %d properties, want %d", e.Name, len(e.Properties), len(names))
	}
	for i, p := range e.Properties {
		if p.Name != names[i] || canonicalType(p.Type) != typ {
			return errors.Wrapf(gs.ErrFormat, "ply: element %q property %d is %s %s, want %s %s",
				e.Name, i, p.Type, p.Name, typ, names[i])
		}
	}
	return nil
}

func restNames(c int) []string {
	names := make([]string, c)
	for i := range names {
		names[i] = fmt.Sprintf("f_rest_%d", i)
	}
	return names
}

func properties(names []string, typ string) []Property {
	out := make([]Property, len(names))
	for i, n := range names {
		out[i] = Property{Name: n, Type: typ}
	}
	return out
}

// compressedHeader returns the header of a compressed file holding n Gaussians.
func compressedHeader(n int, degree gs.SHDegree) *Header {
	h := &Header{
		Format:   FormatBinaryLittleEndian,
		Version:  "1.0",
		Comments: []string{"generated by gsply"},
		Elements: []Element{
			{Name: ChunkElement, Count: chunk.Count(n), Properties: properties(chunkProperties, "float")},
			{Name: VertexElement, Count: n, Properties: properties(packedProperties, "uint")},
		},
	}
	if c := degree.Coefficients(); c > 0 {
		h.Elements = append(h.Elements, Element{Name: SHElement, Count: n, Properties: properties(restNames(c), "uchar")})
	}
	return h
}

// uncompressedHeader returns the header of an uncompressed file holding n Gaussians.
func uncompressedHeader(n int, degree gs.SHDegree) *Header {
	return &Header{
		Format:  FormatBinaryLittleEndian,
		Version: "1.0",
		Elements: []Element{
			{Name: VertexElement, Count: n, Properties: properties(degree.PropertyNames(), "float")},
		},
	}
}
