// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package ints provides integer helpers shared by
// the bit-level codecs.
package ints

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// SignedWidth returns the number of bits needed to
// store every value in vals as a two's complement
// field. The result is never smaller than min.
func SignedWidth[T constraints.Signed](min int, vals ...T) int {
	w := min
	for _, v := range vals {
		x := int64(v)
		if x < 0 {
			x = ^x
		}
		if n := bits.Len64(uint64(x)) + 1; n > w {
			w = n
		}
	}
	return w
}

// UnsignedWidth returns the number of bits needed to
// store every value in vals as an unsigned field.
// Negative values are treated as their two's complement
// bit pattern. The result is never smaller than min.
func UnsignedWidth[T constraints.Integer](min int, vals ...T) int {
	w := min
	for _, v := range vals {
		if n := bits.Len64(uint64(v)); n > w {
			w = n
		}
	}
	return w
}

// Mask returns a mask covering the low width bits.
func Mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// SignExtend interprets the low width bits of v
// as a two's complement number.
func SignExtend(v uint64, width int) int64 {
	if width <= 0 {
		return 0
	}
	shift := 64 - uint(width)
	return int64(v<<shift) >> shift
}
