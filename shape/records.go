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

package shape

import (
	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
	"github.com/SnellerInc/swfcodec/ints"
)

// Edges store their field width minus two in four bits.
const (
	widthBits = 4
	minWidth  = 2
)

func readWidth(src *bitstream.Stream) (int, error) {
	w, err := src.ReadBits(widthBits, false)
	return int(w) + minWidth, err
}

// Line is a straight edge from the current
// drawing position, in twips.
type Line struct {
	DX, DY int32
}

// NewLine validates the edge deltas.
func NewLine(dx, dy int32) (*Line, error) {
	if err := checkCoord("line dx", dx); err != nil {
		return nil, err
	}
	if err := checkCoord("line dy", dy); err != nil {
		return nil, err
	}
	return &Line{DX: dx, DY: dy}, nil
}

func DecodeLine(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	if err := src.Skip(2); err != nil {
		return nil, err
	}
	w, err := readWidth(src)
	if err != nil {
		return nil, err
	}
	general, err := src.ReadBool()
	if err != nil {
		return nil, err
	}
	l := &Line{}
	if general {
		dx, err := src.ReadBits(w, true)
		if err != nil {
			return nil, err
		}
		dy, err := src.ReadBits(w, true)
		if err != nil {
			return nil, err
		}
		l.DX, l.DY = int32(dx), int32(dy)
		return l, nil
	}
	vertical, err := src.ReadBool()
	if err != nil {
		return nil, err
	}
	v, err := src.ReadBits(w, true)
	if err != nil {
		return nil, err
	}
	if vertical {
		l.DY = int32(v)
	} else {
		l.DX = int32(v)
	}
	return l, nil
}

func (l *Line) general() bool { return l.DX != 0 && l.DY != 0 }

func (l *Line) width() int { return ints.SignedWidth(minWidth, l.DX, l.DY) }

func (l *Line) Probe(ctx *codec.Context) (codec.Size, error) {
	if err := checkCoord("line dx", l.DX); err != nil {
		return 0, err
	}
	if err := checkCoord("line dy", l.DY); err != nil {
		return 0, err
	}
	bits := 2 + widthBits + 1
	if l.general() {
		bits += 2 * l.width()
	} else {
		bits += 1 + l.width()
	}
	return probed(ctx, bits)
}

func (l *Line) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	w := l.width()
	if err := dst.WriteBits(3, 2); err != nil {
		return err
	}
	if err := dst.WriteBits(int64(w-minWidth), widthBits); err != nil {
		return err
	}
	if err := dst.WriteBool(l.general()); err != nil {
		return err
	}
	if l.general() {
		if err := dst.WriteBits(int64(l.DX), w); err != nil {
			return err
		}
		return dst.WriteBits(int64(l.DY), w)
	}
	vertical := l.DX == 0
	if err := dst.WriteBool(vertical); err != nil {
		return err
	}
	if vertical {
		return dst.WriteBits(int64(l.DY), w)
	}
	return dst.WriteBits(int64(l.DX), w)
}

// Curve is a quadratic Bezier edge. The anchor
// deltas are relative to the control point.
type Curve struct {
	ControlX, ControlY int32
	AnchorX, AnchorY   int32
}

func (c *Curve) coords() [4]int32 {
	return [4]int32{c.ControlX, c.ControlY, c.AnchorX, c.AnchorY}
}

var curveFields = [4]string{"control x", "control y", "anchor x", "anchor y"}

// NewCurve validates the control and anchor deltas.
func NewCurve(cx, cy, ax, ay int32) (*Curve, error) {
	c := &Curve{ControlX: cx, ControlY: cy, AnchorX: ax, AnchorY: ay}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Curve) check() error {
	for i, v := range c.coords() {
		if err := checkCoord(curveFields[i], v); err != nil {
			return err
		}
	}
	return nil
}

func DecodeCurve(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	if err := src.Skip(2); err != nil {
		return nil, err
	}
	w, err := readWidth(src)
	if err != nil {
		return nil, err
	}
	var v [4]int32
	for i := range v {
		x, err := src.ReadBits(w, true)
		if err != nil {
			return nil, err
		}
		v[i] = int32(x)
	}
	return &Curve{ControlX: v[0], ControlY: v[1], AnchorX: v[2], AnchorY: v[3]}, nil
}

func (c *Curve) width() int {
	v := c.coords()
	return ints.SignedWidth(minWidth, v[:]...)
}

func (c *Curve) Probe(ctx *codec.Context) (codec.Size, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	return probed(ctx, 2+widthBits+4*c.width())
}

func (c *Curve) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	w := c.width()
	if err := dst.WriteBits(2, 2); err != nil {
		return err
	}
	if err := dst.WriteBits(int64(w-minWidth), widthBits); err != nil {
		return err
	}
	for _, v := range c.coords() {
		if err := dst.WriteBits(int64(v), w); err != nil {
			return err
		}
	}
	return nil
}

// Point is an absolute drawing position.
type Point struct {
	X, Y int32
}

// Style changes the drawing position or the
// selected fill and line styles. Nil fields
// are left unchanged.
type Style struct {
	Move  *Point
	Fill0 *uint16
	Fill1 *uint16
	Line  *uint16
}

// style change flags, after the leading zero bit
const (
	flagNewStyles = 1 << (4 - iota)
	flagLine
	flagFill1
	flagFill0
	flagMove
)

const moveWidthBits = 5

func DecodeStyle(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	start := src.Pos()
	if err := src.Skip(1); err != nil {
		return nil, err
	}
	flags, err := src.ReadBits(5, false)
	if err != nil {
		return nil, err
	}
	if flags&flagNewStyles != 0 {
		src.Seek(start)
		return nil, &codec.UnsupportedKindError{Category: Category, Code: KeyStyle, Pos: start, Variant: "new styles"}
	}
	s := &Style{}
	if flags&flagMove != 0 {
		w, err := src.ReadBits(moveWidthBits, false)
		if err != nil {
			return nil, err
		}
		x, err := src.ReadBits(int(w), true)
		if err != nil {
			return nil, err
		}
		y, err := src.ReadBits(int(w), true)
		if err != nil {
			return nil, err
		}
		s.Move = &Point{X: int32(x), Y: int32(y)}
	}
	index := func(v codec.Var) (*uint16, error) {
		n, err := src.ReadBits(ctx.Get(v), false)
		if err != nil {
			return nil, err
		}
		i := uint16(n)
		return &i, nil
	}
	if flags&flagFill0 != 0 {
		if s.Fill0, err = index(FillBits); err != nil {
			return nil, err
		}
	}
	if flags&flagFill1 != 0 {
		if s.Fill1, err = index(FillBits); err != nil {
			return nil, err
		}
	}
	if flags&flagLine != 0 {
		if s.Line, err = index(LineBits); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Style) flags() int64 {
	var f int64
	if s.Move != nil {
		f |= flagMove
	}
	if s.Fill0 != nil {
		f |= flagFill0
	}
	if s.Fill1 != nil {
		f |= flagFill1
	}
	if s.Line != nil {
		f |= flagLine
	}
	return f
}

func (s *Style) moveWidth() int {
	if s.Move == nil {
		return 0
	}
	return ints.SignedWidth(1, s.Move.X, s.Move.Y)
}

func (s *Style) checkIndex(field string, p *uint16, v codec.Var, ctx *codec.Context) error {
	if p == nil {
		return nil
	}
	return codec.CheckRange(field, int64(*p), 0, int64(ints.Mask(ctx.Get(v))))
}

// Probe reads the index widths from ctx; an index
// that does not fit is a validation error.
func (s *Style) Probe(ctx *codec.Context) (codec.Size, error) {
	// all flags clear would read back as End
	if err := codec.CheckRange("style flags", s.flags(), 1, 0x0f); err != nil {
		return 0, err
	}
	bits := 6
	if s.Move != nil {
		if err := checkCoord("move x", s.Move.X); err != nil {
			return 0, err
		}
		if err := checkCoord("move y", s.Move.Y); err != nil {
			return 0, err
		}
		bits += moveWidthBits + 2*s.moveWidth()
	}
	if err := s.checkIndex("fill0", s.Fill0, FillBits, ctx); err != nil {
		return 0, err
	}
	if err := s.checkIndex("fill1", s.Fill1, FillBits, ctx); err != nil {
		return 0, err
	}
	if err := s.checkIndex("line", s.Line, LineBits, ctx); err != nil {
		return 0, err
	}
	if s.Fill0 != nil {
		bits += ctx.Get(FillBits)
	}
	if s.Fill1 != nil {
		bits += ctx.Get(FillBits)
	}
	if s.Line != nil {
		bits += ctx.Get(LineBits)
	}
	return probed(ctx, bits)
}

func (s *Style) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteBits(s.flags(), 6); err != nil {
		return err
	}
	if s.Move != nil {
		w := s.moveWidth()
		if err := dst.WriteBits(int64(w), moveWidthBits); err != nil {
			return err
		}
		if err := dst.WriteBits(int64(s.Move.X), w); err != nil {
			return err
		}
		if err := dst.WriteBits(int64(s.Move.Y), w); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		p *uint16
		v codec.Var
	}{{s.Fill0, FillBits}, {s.Fill1, FillBits}, {s.Line, LineBits}} {
		if f.p == nil {
			continue
		}
		if err := dst.WriteBits(int64(*f.p), ctx.Get(f.v)); err != nil {
			return err
		}
	}
	return nil
}
