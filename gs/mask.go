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
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MaskMode selects how mask layers are combined.
type MaskMode int

const (
	// MaskAnd keeps a Gaussian only if every layer keeps it.
	MaskAnd MaskMode = iota
	// MaskOr keeps a Gaussian if any layer keeps it.
	MaskOr
)

// maskLayers holds named boolean layers in insertion order.
type maskLayers struct {
	names  []string
	layers map[string][]bool
}

func (m *maskLayers) slice(start, end int) *maskLayers {
	out := &maskLayers{names: append([]string(nil), m.names...), layers: make(map[string][]bool, len(m.layers))}
	for name, l := range m.layers {
		out.layers[name] = l[start:end:end]
	}
	return out
}

func (d *GSData) copyMasksFrom(src *GSData) {
	if src.mask != nil {
		d.mask = append([]bool(nil), src.mask...)
	}
	if src.layers != nil {
		d.layers = &maskLayers{names: append([]string(nil), src.layers.names...), layers: make(map[string][]bool, len(src.layers.layers))}
		for name, l := range src.layers.layers {
			d.layers.layers[name] = append([]bool(nil), l...)
		}
	}
}

// SetMask attaches a primary filter mask. Masks only select records; they never change
// the data and are not written to files. A nil mask clears it.
func (d *GSData) SetMask(mask []bool) error {
	if mask != nil && len(mask) != d.n {
		return errors.Wrapf(ErrShapeMismatch, "mask has %d entries for %d gaussians", len(mask), d.n)
	}
	d.mask = mask
	return nil
}

// Mask returns the primary mask, or nil.
func (d *GSData) Mask() []bool { return d.mask }

// ApplyMask returns the Gaussians selected by the primary mask. Without a mask it
// returns d itself.
func (d *GSData) ApplyMask() (*GSData, error) {
	if d.mask == nil {
		return d, nil
	}
	return d.Filter(d.mask)
}

// AddMaskLayer stores mask under name, replacing a previous layer of the same name.
func (d *GSData) AddMaskLayer(name string, mask []bool) error {
	if len(mask) != d.n {
		return errors.Wrapf(ErrShapeMismatch, "mask layer %q has %d entries for %d gaussians", name, len(mask), d.n)
	}
	if d.layers == nil {
		d.layers = &maskLayers{layers: make(map[string][]bool)}
	}
	if _, ok := d.layers.layers[name]; !ok {
		d.layers.names = append(d.layers.names, name)
	}
	d.layers.layers[name] = mask
	return nil
}

// MaskLayer returns the layer stored under name.
func (d *GSData) MaskLayer(name string) ([]bool, bool) {
	if d.layers == nil {
		return nil, false
	}
	l, ok := d.layers.layers[name]
	return l, ok
}

// RemoveMaskLayer deletes the layer stored under name, if any.
func (d *GSData) RemoveMaskLayer(name string) {
	if d.layers == nil {
		return
	}
	delete(d.layers.layers, name)
	d.layers.names = lo.Without(d.layers.names, name)
}

// MaskLayerNames returns layer names in insertion order.
func (d *GSData) MaskLayerNames() []string {
	if d.layers == nil {
		return nil
	}
	return append([]string(nil), d.layers.names...)
}

// CombineMasks merges the named layers (all layers if names is empty) into one mask.
// With no layers at all, every Gaussian is kept.
func (d *GSData) CombineMasks(mode MaskMode, names ...string) ([]bool, error) {
	if mode != MaskAnd && mode != MaskOr {
		return nil, errors.Errorf("gs: unknown mask mode %d", mode)
	}
	if len(names) == 0 {
		names = d.MaskLayerNames()
	}
	out := make([]bool, d.n)
	if len(names) == 0 {
		for i := range out {
			out[i] = true
		}
		return out, nil
	}
	for k, name := range names {
		l, ok := d.MaskLayer(name)
		if !ok {
			return nil, errors.Wrapf(ErrMaskNotFound, "%q", name)
		}
		if k == 0 {
			copy(out, l)
			continue
		}
		if mode == MaskAnd {
			for i, b := range l {
				out[i] = out[i] && b
			}
		} else {
			for i, b := range l {
				out[i] = out[i] || b
			}
		}
	}
	return out, nil
}

// ApplyMaskLayers filters d by CombineMasks(mode, names...).
func (d *GSData) ApplyMaskLayers(mode MaskMode, names ...string) (*GSData, error) {
	mask, err := d.CombineMasks(mode, names...)
	if err != nil {
		return nil, err
	}
	return d.Filter(mask)
}
