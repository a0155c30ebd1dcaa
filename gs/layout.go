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

import (
	"strconv"

	"github.com/pkg/errors"
)

// SHDegree is the spherical harmonics order of a collection.
type SHDegree int

const (
	// Degree0 stores only the DC color term.
	Degree0 SHDegree = iota

	// Degree1 adds 3 bands per channel (9 coefficients).
	Degree1

	// Degree2 adds 8 bands per channel (24 coefficients).
	Degree2

	// Degree3 adds 15 bands per channel (45 coefficients).
	Degree3
)

// BaseProperties is the number of float properties of a record without higher-order SH.
const BaseProperties = 14

// Layout describes how one SH degree lays out a record.
type Layout struct {
	Degree SHDegree

	// Bands is the number of higher-order coefficients per color channel.
	Bands int

	// Coefficients is Bands*3, the length of a shN row.
	Coefficients int

	// Properties is the number of float32 columns of an uncompressed record.
	Properties int
}

var layouts = [...]Layout{
	{Degree: Degree0, Bands: 0, Coefficients: 0, Properties: BaseProperties},
	{Degree: Degree1, Bands: 3, Coefficients: 9, Properties: BaseProperties + 9},
	{Degree: Degree2, Bands: 8, Coefficients: 24, Properties: BaseProperties + 24},
	{Degree: Degree3, Bands: 15, Coefficients: 45, Properties: BaseProperties + 45},
}

// Columns gives the half-open column range of each field inside a base-buffer row.
type Columns struct {
	Means     [2]int
	SH0       [2]int
	SHN       [2]int
	Opacities [2]int
	Scales    [2]int
	Quats     [2]int
}

// Valid reports whether d is one of Degree0..Degree3.
func (d SHDegree) Valid() bool {
	return d >= Degree0 && d <= Degree3
}

// Layout returns the layout of d. It panics if d is not valid.
func (d SHDegree) Layout() Layout {
	if !d.Valid() {
		panic("gs: invalid SH degree " + strconv.Itoa(int(d)))
	}
	return layouts[d]
}

// Bands returns the number of higher-order coefficients per color channel.
func (d SHDegree) Bands() int { return d.Layout().Bands }

// Coefficients returns the length of a shN row.
func (d SHDegree) Coefficients() int { return d.Layout().Coefficients }

// PropertyCount returns the number of float32 properties of an uncompressed record.
func (d SHDegree) PropertyCount() int { return d.Layout().Properties }

// String returns a human-readable name for the degree.
func (d SHDegree) String() string {
	if !d.Valid() {
		return "degree(" + strconv.Itoa(int(d)) + ")"
	}
	return "degree" + strconv.Itoa(int(d))
}

// Columns returns the field column ranges of a base-buffer row.
func (d SHDegree) Columns() Columns {
	c := d.Coefficients()
	return Columns{
		Means:     [2]int{0, 3},
		SH0:       [2]int{3, 6},
		SHN:       [2]int{6, 6 + c},
		Opacities: [2]int{6 + c, 7 + c},
		Scales:    [2]int{7 + c, 10 + c},
		Quats:     [2]int{10 + c, 14 + c},
	}
}

// PropertyNames returns the uncompressed vertex property names in file order.
func (d SHDegree) PropertyNames() []string {
	c := d.Coefficients()
	names := make([]string, 0, BaseProperties+c)
	names = append(names, "x", "y", "z", "f_dc_0", "f_dc_1", "f_dc_2")
	for i := range c {
		names = append(names, "f_rest_"+strconv.Itoa(i))
	}
	names = append(names, "opacity", "scale_0", "scale_1", "scale_2", "rot_0", "rot_1", "rot_2", "rot_3")
	return names
}

// DegreeFromCoefficients maps a shN row length to its degree.
func DegreeFromCoefficients(coeffs int) (SHDegree, error) {
	for _, l := range layouts {
		if l.Coefficients == coeffs {
			return l.Degree, nil
		}
	}
	return Degree0, errors.Wrapf(ErrUnsupportedSHDegree, "%d coefficients, want 0, 9, 24 or 45", coeffs)
}

// DegreeFromBands maps a per-channel band count to its degree.
func DegreeFromBands(bands int) (SHDegree, error) {
	for _, l := range layouts {
		if l.Bands == bands {
			return l.Degree, nil
		}
	}
	return Degree0, errors.Wrapf(ErrUnsupportedSHDegree, "%d bands per channel, want 0, 3, 8 or 15", bands)
}

// DegreeFromPropertyCount maps an uncompressed property count to its degree.
func DegreeFromPropertyCount(props int) (SHDegree, error) {
	for _, l := range layouts {
		if l.Properties == props {
			return l.Degree, nil
		}
	}
	return Degree0, errors.Wrapf(ErrUnsupportedSHDegree, "%d vertex properties, want 14, 23, 38 or 59", props)
}
