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

// Concatenate joins collections in order into one new consolidated collection.
//
// The output buffer is allocated once and every input is copied into it once, so the
// cost is O(sum of N). Prefer it over repeated Add calls, which copy the accumulated
// prefix again on every step.
//
// All inputs must share the SH degree (ErrShapeMismatch otherwise) and the value
// format (ErrFormatMismatch otherwise). Masks are not carried over.
func Concatenate(list ...*GSData) (*GSData, error) {
	if len(list) == 0 {
		return nil, errors.New("gs: concatenate needs at least one collection")
	}
	first := list[0]
	for i, d := range list[1:] {
		if d.degree != first.degree {
			return nil, errors.Wrapf(ErrShapeMismatch, "collection %d has SH %s, collection 0 has %s", i+1, d.degree, first.degree)
		}
		if d.format != first.format {
			return nil, errors.Wrapf(ErrFormatMismatch,
				"collection %d is %s, collection 0 is %s; all collections must have the same format, call Normalize or Denormalize first",
				i+1, d.format, first.format)
		}
	}

	total := lo.SumBy(list, func(d *GSData) int { return d.n })
	p := first.degree.PropertyCount()
	base := make([]float32, total*p)
	off := 0
	for _, d := range list {
		d.writeRows(base[off*p : (off+d.n)*p])
		off += d.n
	}

	out := &GSData{n: total, degree: first.degree, format: first.format}
	out.bindBase(base)
	return out, nil
}

// Add returns d followed by other as a new consolidated collection.
func (d *GSData) Add(other *GSData) (*GSData, error) {
	if d.format != other.format {
		return nil, errors.Wrapf(ErrFormatMismatch,
			"cannot add collections with different formats (%s and %s), call Normalize or Denormalize first",
			d.format, other.format)
	}
	return Concatenate(d, other)
}
