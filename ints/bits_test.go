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

package ints

import (
	"math"
	"testing"
)

func TestSignedWidth(t *testing.T) {
	testcases := []struct {
		vals []int
		min  int
		want int
	}{
		{vals: []int{0}, min: 1, want: 1},
		{vals: []int{-1}, min: 1, want: 1},
		{vals: []int{1}, min: 1, want: 2},
		{vals: []int{-2}, min: 1, want: 2},
		{vals: []int{3, -4}, min: 1, want: 3},
		{vals: []int{4}, min: 1, want: 4},
		{vals: []int{65535, -65536}, min: 2, want: 17},
		{vals: []int{0, 0}, min: 2, want: 2},
		{vals: []int{math.MaxInt32}, min: 1, want: 32},
		{vals: []int{math.MinInt32}, min: 1, want: 32},
	}
	for i := range testcases {
		tc := testcases[i]
		if got := SignedWidth(tc.min, tc.vals...); got != tc.want {
			t.Errorf("case %d: SignedWidth(%d, %v) = %d, want %d", i, tc.min, tc.vals, got, tc.want)
		}
	}
}

func TestUnsignedWidth(t *testing.T) {
	testcases := []struct {
		got, want int
	}{
		{UnsignedWidth[uint](0), 0},
		{UnsignedWidth(0, 0), 0},
		{UnsignedWidth(0, 1), 1},
		{UnsignedWidth(0, 1, 7, 4), 3},
		{UnsignedWidth(5, 1), 5},
		{UnsignedWidth(0, uint32(math.MaxUint32)), 32},
	}
	for i, tc := range testcases {
		if tc.got != tc.want {
			t.Errorf("case %d: got %d, want %d", i, tc.got, tc.want)
		}
	}
}

func TestSignExtend(t *testing.T) {
	testcases := []struct {
		v     uint64
		width int
		want  int64
	}{
		{0x1, 1, -1},
		{0x0, 1, 0},
		{0x8, 4, -8},
		{0x7, 4, 7},
		{0x80000000, 32, math.MinInt32},
		{0xffffffff, 32, -1},
		// bits above width are ignored
		{0xf1, 4, 1},
	}
	for _, tc := range testcases {
		if got := SignExtend(tc.v, tc.width); got != tc.want {
			t.Errorf("SignExtend(%#x, %d) = %d, want %d", tc.v, tc.width, got, tc.want)
		}
	}
}

func TestAlignment(t *testing.T) {
	if got := AlignUp(9, 8); got != 16 {
		t.Errorf("AlignUp(9, 8) = %d", got)
	}
	if got := AlignUp(8, 8); got != 8 {
		t.Errorf("AlignUp(8, 8) = %d", got)
	}
	if got := AlignUp(0, 8); got != 0 {
		t.Errorf("AlignUp(0, 8) = %d", got)
	}
	if !IsAligned(24, 8) || IsAligned(25, 8) {
		t.Error("IsAligned is wrong")
	}
	if got := ChunkCount(9, 8); got != 2 {
		t.Errorf("ChunkCount(9, 8) = %d", got)
	}
	if got := ChunkCount(0, 8); got != 0 {
		t.Errorf("ChunkCount(0, 8) = %d", got)
	}
}

func TestMask(t *testing.T) {
	for _, tc := range []struct {
		width int
		want  uint64
	}{
		{0, 0},
		{1, 1},
		{13, 0x1fff},
		{64, math.MaxUint64},
		{70, math.MaxUint64},
	} {
		if got := Mask(tc.width); got != tc.want {
			t.Errorf("Mask(%d) = %#x, want %#x", tc.width, got, tc.want)
		}
	}
}
