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

// Package bitstream implements a bit cursor over
// a fixed byte buffer.
//
// Bit fields are packed most-significant bit first
// and may straddle byte boundaries. Multi-byte words
// are little-endian. A Stream is owned by exactly one
// encode or decode session and is not safe for
// concurrent use.
package bitstream

import (
	"fmt"

	"github.com/SnellerInc/swfcodec/ints"
)

// MaxWidth is the widest field that can be
// read or written in one call.
const MaxWidth = 32

// Stream is a bit cursor over a fixed buffer.
//
// The same type is used for decoding (New)
// and for encoding into a pre-sized buffer (Make).
type Stream struct {
	buf []byte
	pos int // bit offset into buf
}

// New returns a Stream positioned at the
// first bit of buf. The Stream references
// buf directly; writes modify it in place.
func New(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// Make returns a Stream over a zeroed
// buffer of size bytes.
func Make(size int) *Stream {
	return &Stream{buf: make([]byte, size)}
}

// Bytes returns the underlying buffer.
func (s *Stream) Bytes() []byte { return s.buf }

// Len returns the size of the buffer in bits.
func (s *Stream) Len() int { return len(s.buf) * 8 }

// Pos returns the absolute bit offset of the cursor.
func (s *Stream) Pos() int { return s.pos }

// Remaining returns the number of bits
// between the cursor and the end of the buffer.
func (s *Stream) Remaining() int { return s.Len() - s.pos }

// AtEnd returns true if every bit of the
// buffer has been consumed.
func (s *Stream) AtEnd() bool { return s.pos == s.Len() }

// Aligned returns true if the cursor is on
// a byte boundary.
func (s *Stream) Aligned() bool { return ints.IsAligned(s.pos, 8) }

// Seek moves the cursor to the absolute bit offset pos.
// pos may equal Len(), which positions the cursor at the end.
func (s *Stream) Seek(pos int) error {
	if pos < 0 || pos > s.Len() {
		return &OverrunError{Pos: s.pos, Want: pos - s.pos, Have: s.Remaining(), Seek: true}
	}
	s.pos = pos
	return nil
}

// Skip advances the cursor by n bits.
func (s *Stream) Skip(n int) error {
	if n < 0 || n > s.Remaining() {
		return &OverrunError{Pos: s.pos, Want: n, Have: s.Remaining(), Seek: true}
	}
	s.pos += n
	return nil
}

// Align advances the cursor to the next
// byte boundary. The skipped bits are left
// untouched in the buffer, so a freshly
// made Stream pads with zeros.
func (s *Stream) Align() {
	s.pos = ints.AlignUp(s.pos, 8)
}

func (s *Stream) check(width int, write bool) error {
	if width < 0 || width > MaxWidth {
		return fmt.Errorf("bitstream: field width %d out of range 0..%d", width, MaxWidth)
	}
	if rem := s.Remaining(); width > rem {
		return &OverrunError{Pos: s.pos, Want: width, Have: rem, Write: write}
	}
	return nil
}

// get reads width bits without validation.
func (s *Stream) get(width int) uint64 {
	var v uint64
	for width > 0 {
		avail := 8 - (s.pos & 7)
		n := avail
		if width < n {
			n = width
		}
		b := uint64(s.buf[s.pos>>3]) >> (avail - n)
		v = (v << n) | (b & ints.Mask(n))
		width -= n
		s.pos += n
	}
	return v
}

// put writes the low width bits of v without validation.
func (s *Stream) put(v uint64, width int) {
	for width > 0 {
		avail := 8 - (s.pos & 7)
		n := avail
		if width < n {
			n = width
		}
		shift := uint(avail - n)
		m := byte(ints.Mask(n) << shift)
		b := byte(((v >> (width - n)) & ints.Mask(n)) << shift)
		idx := s.pos >> 3
		s.buf[idx] = (s.buf[idx] &^ m) | b
		width -= n
		s.pos += n
	}
}

// ReadBits reads a width-bit field (0..32) and
// advances the cursor. If signed is true, the field
// is interpreted as a two's complement number.
// A zero width reads nothing and returns 0.
func (s *Stream) ReadBits(width int, signed bool) (int64, error) {
	if err := s.check(width, false); err != nil {
		return 0, err
	}
	v := s.get(width)
	if signed {
		return ints.SignExtend(v, width), nil
	}
	return int64(v), nil
}

// PeekBits reads an unsigned width-bit field
// without moving the cursor.
func (s *Stream) PeekBits(width int) (int64, error) {
	if err := s.check(width, false); err != nil {
		return 0, err
	}
	pos := s.pos
	v := s.get(width)
	s.pos = pos
	return int64(v), nil
}

// WriteBits writes the low width bits of v and
// advances the cursor. Bits of v above width are
// discarded; callers validate value ranges.
func (s *Stream) WriteBits(v int64, width int) error {
	if err := s.check(width, true); err != nil {
		return err
	}
	s.put(uint64(v), width)
	return nil
}

// ReadBool reads a one-bit flag.
func (s *Stream) ReadBool() (bool, error) {
	v, err := s.ReadBits(1, false)
	return v != 0, err
}

// WriteBool writes a one-bit flag.
func (s *Stream) WriteBool(b bool) error {
	var v int64
	if b {
		v = 1
	}
	return s.WriteBits(v, 1)
}

func checkWord(n int) error {
	if n < 1 || n > MaxWidth/8 {
		return fmt.Errorf("bitstream: word size %d out of range 1..%d", n, MaxWidth/8)
	}
	return nil
}

// ReadWord reads an n-byte (1..4) little-endian word.
// The cursor does not need to be byte aligned.
func (s *Stream) ReadWord(n int, signed bool) (int64, error) {
	if err := checkWord(n); err != nil {
		return 0, err
	}
	if err := s.check(n*8, false); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < n; i++ {
		v |= s.get(8) << (8 * i)
	}
	if signed {
		return ints.SignExtend(v, n*8), nil
	}
	return int64(v), nil
}

// WriteWord writes the low n bytes (1..4) of v
// as a little-endian word.
func (s *Stream) WriteWord(v int64, n int) error {
	if err := checkWord(n); err != nil {
		return err
	}
	if err := s.check(n*8, true); err != nil {
		return err
	}
	u := uint64(v)
	for i := 0; i < n; i++ {
		s.put(u>>(8*i), 8)
	}
	return nil
}

// ReadBytes reads n bytes into a new slice.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n*8 > s.Remaining() {
		return nil, &OverrunError{Pos: s.pos, Want: n * 8, Have: s.Remaining()}
	}
	out := make([]byte, n)
	if s.Aligned() {
		copy(out, s.buf[s.pos>>3:])
		s.pos += n * 8
		return out, nil
	}
	for i := range out {
		out[i] = byte(s.get(8))
	}
	return out, nil
}

// WriteBytes writes p verbatim.
func (s *Stream) WriteBytes(p []byte) error {
	if len(p)*8 > s.Remaining() {
		return &OverrunError{Pos: s.pos, Want: len(p) * 8, Have: s.Remaining(), Write: true}
	}
	if s.Aligned() {
		copy(s.buf[s.pos>>3:], p)
		s.pos += len(p) * 8
		return nil
	}
	for _, b := range p {
		s.put(uint64(b), 8)
	}
	return nil
}

// ReadString reads a NUL-terminated string.
// The terminator is consumed but not returned.
func (s *Stream) ReadString() (string, error) {
	start := s.pos
	var out []byte
	for {
		if s.Remaining() < 8 {
			err := &OverrunError{Pos: start, Want: s.pos - start + 8, Have: s.Len() - start}
			s.pos = start
			return "", err
		}
		b := byte(s.get(8))
		if b == 0 {
			return string(out), nil
		}
		out = append(out, b)
	}
}

// WriteString writes str followed by a NUL terminator.
func (s *Stream) WriteString(str string) error {
	if (len(str)+1)*8 > s.Remaining() {
		return &OverrunError{Pos: s.pos, Want: (len(str) + 1) * 8, Have: s.Remaining(), Write: true}
	}
	for i := 0; i < len(str); i++ {
		s.put(uint64(str[i]), 8)
	}
	s.put(0, 8)
	return nil
}
