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
package bitpack

const (
	// WideBits is the width of the X and Z fields of an 11/10/11 word.
	WideBits = 11

	// NarrowBits is the width of the Y field of an 11/10/11 word.
	NarrowBits = 10

	// ByteBits is the width of each field of an 8/8/8/8 word.
	ByteBits = 8
)

const (
	wideMask   = 1<<WideBits - 1
	narrowMask = 1<<NarrowBits - 1
	byteMask   = 1<<ByteBits - 1
)

// MaxCode returns the largest value representable in bits bits.
func MaxCode(bits uint) uint32 {
	return 1<<bits - 1
}

// Pack111011 packs x into bits 21..31, y into bits 11..20 and z into bits 0..10.
// Inputs are masked to their field width.
func Pack111011(x, y, z uint32) uint32 {
	return (x&wideMask)<<(WideBits+NarrowBits) | (y&narrowMask)<<WideBits | z&wideMask
}

// Unpack111011 reverses Pack111011.
func Unpack111011(w uint32) (x, y, z uint32) {
	return w >> (WideBits + NarrowBits) & wideMask, w >> WideBits & narrowMask, w & wideMask
}

// Pack8888 packs four bytes, a into the most significant byte.
func Pack8888(a, b, c, d uint32) uint32 {
	return (a&byteMask)<<24 | (b&byteMask)<<16 | (c&byteMask)<<8 | d&byteMask
}

// Unpack8888 reverses Pack8888.
func Unpack8888(w uint32) (a, b, c, d uint32) {
	return w >> 24 & byteMask, w >> 16 & byteMask, w >> 8 & byteMask, w & byteMask
}
