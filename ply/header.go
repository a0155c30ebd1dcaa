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
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/pkg/errors"
)

// FormatBinaryLittleEndian is the only PLY storage format this package handles.
const FormatBinaryLittleEndian = "binary_little_endian"

// maxHeaderSize caps how much is read while looking for end_header.
const maxHeaderSize = 1 << 16

// typeSizes maps PLY scalar type names, including the sized aliases, to their byte
// width.
var typeSizes = map[string]int{
	"char": 1, "int8": 1,
	"uchar": 1, "uint8": 1,
	"short": 2, "int16": 2,
	"ushort": 2, "uint16": 2,
	"int": 4, "int32": 4,
	"uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

var typeAliases = map[string]string{
	"int8": "char", "uint8": "uchar",
	"int16": "short", "uint16": "ushort",
	"int32": "int", "uint32": "uint",
	"float32": "float", "float64": "double",
}

// canonicalType returns the classic PLY name of a scalar type.
func canonicalType(t string) string {
	if c, ok := typeAliases[t]; ok {
		return c
	}
	return t
}

// Property is one scalar property of an element.
type Property struct {
	Name string
	Type string
}

// Size returns the byte width of the property.
func (p Property) Size() int { return typeSizes[p.Type] }

// Element is a named table of Count records.
type Element struct {
	Name       string
	Count      int
	Properties []Property
}

// Stride returns the number of bytes per record.
func (e *Element) Stride() int {
	s := 0
	for _, p := range e.Properties {
		s += p.Size()
	}
	return s
}

// Size returns the number of bytes of the element's data.
func (e *Element) Size() int { return e.Count * e.Stride() }

// Header is a parsed PLY header.
type Header struct {
	Format   string
	Version  string
	Comments []string
	Elements []Element

	size int
}

// Len returns the size in bytes of the header text, up to and including the newline
// after end_header. It is zero for headers that were neither parsed nor written.
func (h *Header) Len() int { return h.size }

// Element returns the element called name.
func (h *Header) Element(name string) (*Element, bool) {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i], true
		}
	}
	return nil, false
}

// DataSize returns the number of bytes the elements declare after the header.
func (h *Header) DataSize() int {
	s := 0
	for i := range h.Elements {
		s += h.Elements[i].Size()
	}
	return s
}

// checkSize rejects element counts whose data cannot be addressed, so that Size and
// DataSize never overflow on a parsed header.
func (h *Header) checkSize() error {
	total := h.size
	for i := range h.Elements {
		e := &h.Elements[i]
		stride := e.Stride()
		if stride > 0 && e.Count > (math.MaxInt-total)/stride {
			return errors.Wrapf(gs.ErrTruncatedFile, "ply: element %q declares %d records of %d bytes", e.Name, e.Count, stride)
		}
		total += e.Count * stride
	}
	return nil
}

// ParseHeader reads a PLY header from r, leaving r positioned at the first data byte.
// Only binary little-endian files with scalar properties are accepted; anything else
// is a gs.ErrFormat.
func ParseHeader(r *bufio.Reader) (*Header, error) {
	h := &Header{}
	var cur *Element
	for lineNo := 0; ; lineNo++ {
		line, err := r.ReadString('\n')
		h.size += len(line)
		if err != nil {
			if err == io.EOF {
				return nil, errors.Wrap(gs.ErrTruncatedFile, "ply: header ends before end_header")
			}
			return nil, errors.Wrap(err, "ply: read header")
		}
		if h.size > maxHeaderSize {
			return nil, errors.Wrapf(gs.ErrFormat, "ply: header longer than %d bytes", maxHeaderSize)
		}
		line = strings.TrimRight(line, "\r\n")

		if lineNo == 0 {
			if line != "ply" {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: bad magic %q", line)
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) != 3 {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: line %d: malformed format %q", lineNo+1, line)
			}
			if fields[1] != FormatBinaryLittleEndian {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: unsupported format %q", fields[1])
			}
			h.Format, h.Version = fields[1], fields[2]

		case "comment", "obj_info":
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, fields[0])))

		case "element":
			if len(fields) != 3 {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: line %d: malformed element %q", lineNo+1, line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: line %d: bad element count %q", lineNo+1, fields[2])
			}
			h.Elements = append(h.Elements, Element{Name: fields[1], Count: count})
			cur = &h.Elements[len(h.Elements)-1]

		case "property":
			if cur == nil {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: line %d: property outside of an element", lineNo+1)
			}
			if len(fields) >= 2 && fields[1] == "list" {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: list property in element %q is not supported", cur.Name)
			}
			if len(fields) != 3 {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: line %d: malformed property %q", lineNo+1, line)
			}
			if _, ok := typeSizes[fields[1]]; !ok {
				return nil, errors.Wrapf(gs.ErrFormat, "ply: line %d: unknown property type %q", lineNo+1, fields[1])
			}
			cur.Properties = append(cur.Properties, Property{Name: fields[2], Type: fields[1]})

		case "end_header":
			if h.Format == "" {
				return nil, errors.Wrap(gs.ErrFormat, "ply: header has no format line")
			}
			if err := h.checkSize(); err != nil {
				return nil, err
			}
			return h, nil

		default:
			return nil, errors.Wrapf(gs.ErrFormat, "ply: line %d: unknown keyword %q", lineNo+1, fields[0])
		}
	}
}

// WriteTo writes the header text to w.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("ply\n")
	format, version := h.Format, h.Version
	if format == "" {
		format = FormatBinaryLittleEndian
	}
	if version == "" {
		version = "1.0"
	}
	fmt.Fprintf(&b, "format %s %s\n", format, version)
	for _, c := range h.Comments {
		fmt.Fprintf(&b, "comment %s\n", c)
	}
	for _, e := range h.Elements {
		fmt.Fprintf(&b, "element %s %d\n", e.Name, e.Count)
		for _, p := range e.Properties {
			fmt.Fprintf(&b, "property %s %s\n", p.Type, p.Name)
		}
	}
	b.WriteString("end_header\n")

	h.size = b.Len()
	n, err := io.WriteString(w, b.String())
	return int64(n), errors.Wrap(err, "ply: write header")
}
