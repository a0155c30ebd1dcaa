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

import "github.com/pkg/errors"

// Error kinds. Functions in this module wrap these with context, so compare with
// errors.Is rather than ==.
var (
	// ErrFormat reports an unrecognized header or property layout.
	ErrFormat = errors.New("unrecognized ply format")

	// ErrDataIntegrity reports non-finite values where finiteness is required.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrUnsupportedSHDegree reports a higher-order SH coefficient count outside {0, 9, 24, 45}.
	ErrUnsupportedSHDegree = errors.New("unsupported spherical harmonics degree")

	// ErrShapeMismatch reports fields disagreeing on their leading dimension.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrTruncatedFile reports declared element counts needing more bytes than remain.
	ErrTruncatedFile = errors.New("truncated file")

	// ErrFormatMismatch reports combining collections stored in different value formats.
	ErrFormatMismatch = errors.New("format mismatch")

	// ErrMaskNotFound reports a lookup of an unknown mask layer.
	ErrMaskNotFound = errors.New("mask layer not found")
)
