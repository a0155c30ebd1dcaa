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
	"testing"

	"github.com/pkg/errors"
)

func TestLayouts(t *testing.T) {
	tests := []struct {
		degree       SHDegree
		bands        int
		coefficients int
		properties   int
	}{
		{Degree0, 0, 0, 14},
		{Degree1, 3, 9, 23},
		{Degree2, 8, 24, 38},
		{Degree3, 15, 45, 59},
	}

	for _, tt := range tests {
		t.Run(tt.degree.String(), func(t *testing.T) {
			if got := tt.degree.Bands(); got != tt.bands {
				t.Errorf("Bands() = %d, want %d", got, tt.bands)
			}
			if got := tt.degree.Coefficients(); got != tt.coefficients {
				t.Errorf("Coefficients() = %d, want %d", got, tt.coefficients)
			}
			if got := tt.degree.PropertyCount(); got != tt.properties {
				t.Errorf("PropertyCount() = %d, want %d", got, tt.properties)
			}
			if got := len(tt.degree.PropertyNames()); got != tt.properties {
				t.Errorf("len(PropertyNames()) = %d, want %d", got, tt.properties)
			}
			if got, err := DegreeFromCoefficients(tt.coefficients); err != nil || got != tt.degree {
				t.Errorf("DegreeFromCoefficients(%d) = %v, %v", tt.coefficients, got, err)
			}
			if got, err := DegreeFromBands(tt.bands); err != nil || got != tt.degree {
				t.Errorf("DegreeFromBands(%d) = %v, %v", tt.bands, got, err)
			}
			if got, err := DegreeFromPropertyCount(tt.properties); err != nil || got != tt.degree {
				t.Errorf("DegreeFromPropertyCount(%d) = %v, %v", tt.properties, got, err)
			}
		})
	}
}

func TestUnsupportedCoefficients(t *testing.T) {
	for _, c := range []int{1, 3, 8, 15, 46, -1} {
		if _, err := DegreeFromCoefficients(c); !errors.Is(err, ErrUnsupportedSHDegree) {
			t.Errorf("DegreeFromCoefficients(%d) error = %v, want ErrUnsupportedSHDegree", c, err)
		}
	}
}

func TestColumnsCoverRow(t *testing.T) {
	for d := Degree0; d <= Degree3; d++ {
		cols := d.Columns()
		ranges := [][2]int{cols.Means, cols.SH0, cols.SHN, cols.Opacities, cols.Scales, cols.Quats}
		next := 0
		for _, r := range ranges {
			if r[0] != next {
				t.Fatalf("%s: range %v starts at %d, want %d", d, r, r[0], next)
			}
			next = r[1]
		}
		if next != d.PropertyCount() {
			t.Errorf("%s: columns end at %d, want %d", d, next, d.PropertyCount())
		}

		names := d.PropertyNames()
		if names[cols.Opacities[0]] != "opacity" || names[cols.Scales[0]] != "scale_0" || names[cols.Quats[0]] != "rot_0" {
			t.Errorf("%s: column ranges disagree with property names %v", d, names)
		}
	}
}
