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
	"fmt"
	"math"

	"github.com/ajroetker/go-highway/hwy/contrib/algo"
)

// ScaleFormat tells how scale values are stored.
type ScaleFormat uint8

const (
	// ScalesLog stores log(scale), as PLY files do.
	ScalesLog ScaleFormat = iota
	// ScalesLinear stores the scale itself, as rasterizers consume it.
	ScalesLinear
)

// OpacityFormat tells how opacity values are stored.
type OpacityFormat uint8

const (
	// OpacitiesLogit stores logit(opacity), as PLY files do.
	OpacitiesLogit OpacityFormat = iota
	// OpacitiesLinear stores opacity in [0, 1].
	OpacitiesLinear
)

// SH0Format tells how the DC color term is stored.
type SH0Format uint8

const (
	// SH0SH stores the spherical harmonics DC coefficient.
	SH0SH SH0Format = iota
	// SH0RGB stores the color in [0, 1].
	SH0RGB
)

// Format records the value space of each convertible field.
type Format struct {
	Scales    ScaleFormat
	Opacities OpacityFormat
	SH0       SH0Format
}

// PLYFormat is the format fields are stored in on disk.
func PLYFormat() Format {
	return Format{Scales: ScalesLog, Opacities: OpacitiesLogit, SH0: SH0SH}
}

// LinearFormat is the format rasterizers consume: linear scales and opacities.
func LinearFormat() Format {
	return Format{Scales: ScalesLinear, Opacities: OpacitiesLinear, SH0: SH0SH}
}

// RasterizerFormat is an alias of LinearFormat.
func RasterizerFormat() Format { return LinearFormat() }

func (f Format) String() string {
	scales, opacities, sh0 := "log", "logit", "sh"
	if f.Scales == ScalesLinear {
		scales = "linear"
	}
	if f.Opacities == OpacitiesLinear {
		opacities = "linear"
	}
	if f.SH0 == SH0RGB {
		sh0 = "rgb"
	}
	return fmt.Sprintf("format(scales=%s, opacities=%s, sh0=%s)", scales, opacities, sh0)
}

// Format returns the current value format.
func (d *GSData) Format() Format { return d.format }

// SetFormat declares the value format of the fields without converting them, for
// collections built from arrays whose format is known to the caller.
func (d *GSData) SetFormat(f Format) *GSData {
	d.format = f
	return d
}

// Normalize converts linear scales and opacities to log and logit space, in place.
// Fields already in PLY space are left alone. Contiguous fields, as produced by
// MakeContiguous, are transformed with the vector kernels.
func (d *GSData) Normalize() *GSData {
	if d.format.Scales == ScalesLinear {
		if s, ok := d.scales.flat(); ok {
			for i, x := range s {
				s[i] = max(x, MinLinearScale)
			}
			algo.LogTransform(s, s)
		} else {
			d.scales.Apply(func(s float32) float32 {
				return float32(math.Log(math.Max(float64(s), MinLinearScale)))
			})
		}
		d.format.Scales = ScalesLog
	}
	if d.format.Opacities == OpacitiesLinear {
		if o, ok := d.opacities.flat(); ok {
			LogitSlice(o, o, LogitEpsilon)
		} else {
			d.opacities.Apply(func(o float32) float32 { return Logit(o, LogitEpsilon) })
		}
		d.format.Opacities = OpacitiesLogit
	}
	return d
}

// Denormalize converts log scales and logit opacities to linear space, in place.
func (d *GSData) Denormalize() *GSData {
	if d.format.Scales == ScalesLog {
		if s, ok := d.scales.flat(); ok {
			algo.ExpTransform(s, s)
		} else {
			d.scales.Apply(func(s float32) float32 { return float32(math.Exp(float64(s))) })
		}
		d.format.Scales = ScalesLinear
	}
	if d.format.Opacities == OpacitiesLogit {
		if o, ok := d.opacities.flat(); ok {
			SigmoidSlice(o, o)
		} else {
			d.opacities.Apply(Sigmoid)
		}
		d.format.Opacities = OpacitiesLinear
	}
	return d
}

// ToRGB converts the DC term to RGB colors, in place.
func (d *GSData) ToRGB() *GSData {
	if d.format.SH0 == SH0SH {
		d.sh0.Apply(SH2RGB)
		d.format.SH0 = SH0RGB
	}
	return d
}

// ToSH converts RGB colors back to DC coefficients, in place.
func (d *GSData) ToSH() *GSData {
	if d.format.SH0 == SH0RGB {
		d.sh0.Apply(RGB2SH)
		d.format.SH0 = SH0SH
	}
	return d
}
