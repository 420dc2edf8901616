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

package tags

import (
	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
	"github.com/SnellerInc/swfcodec/shape"
)

// DefineFontCode is the type code of DefineFont.
const DefineFontCode = 10

// DefineFont defines the glyph outlines of a font.
//
// The payload is the font identifier, a table of
// 16-bit glyph offsets relative to the start of
// the table, and the glyph shapes.
type DefineFont struct {
	codec.Extended
	ID     uint16
	Glyphs []*shape.Shape
}

func DecodeDefineFont(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	f := &DefineFont{Extended: codec.Extended{Long: h.Forced()}}
	var err error
	if f.ID, err = readID(src); err != nil {
		return nil, err
	}
	if src.Pos() == h.End() {
		return f, nil
	}
	table := src.Pos()
	first, err := src.ReadWord(2, false)
	if err != nil {
		return nil, err
	}
	if err := codec.CheckRange("glyph table", first, 2, 0xffff); err != nil {
		return nil, err
	}
	n := int(first) / 2
	offsets := make([]int, n)
	offsets[0] = int(first)
	for i := 1; i < n; i++ {
		v, err := src.ReadWord(2, false)
		if err != nil {
			return nil, err
		}
		offsets[i] = int(v)
	}
	f.Glyphs = make([]*shape.Shape, n)
	for i := range f.Glyphs {
		// glyphs must be contiguous and in table order
		if err := codec.Verify("DefineFont glyph", table, 0, table+offsets[i]*8, src.Pos()); err != nil {
			return nil, err
		}
		if f.Glyphs[i], err = shape.DecodeShape(src, ctx); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *DefineFont) Code() uint16 { return DefineFontCode }

func (f *DefineFont) Probe(ctx *codec.Context) (codec.Size, error) {
	if len(f.Glyphs) == 0 {
		return codec.Bytes(2), nil
	}
	_, total, err := f.offsets(ctx)
	if err != nil {
		return 0, err
	}
	return codec.Bytes(2) + total, nil
}

// offsets probes the glyphs and returns the
// offset table and the size of table and glyphs.
func (f *DefineFont) offsets(ctx *codec.Context) ([]int, codec.Size, error) {
	offsets := make([]int, len(f.Glyphs))
	total := codec.Bytes(2 * len(f.Glyphs))
	for i, g := range f.Glyphs {
		offsets[i] = total.Bytes()
		n, err := g.Probe(ctx)
		if err != nil {
			return nil, 0, err
		}
		total += n
	}
	if err := codec.CheckRange("glyph offset", int64(offsets[len(offsets)-1]), 0, 0xffff); err != nil {
		return nil, 0, err
	}
	return offsets, total, nil
}

func (f *DefineFont) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteWord(int64(f.ID), 2); err != nil {
		return err
	}
	if len(f.Glyphs) == 0 {
		return nil
	}
	offsets, _, err := f.offsets(ctx)
	if err != nil {
		return err
	}
	for _, off := range offsets {
		if err := dst.WriteWord(int64(off), 2); err != nil {
			return err
		}
	}
	return codec.EncodeAll(dst, ctx, f.Glyphs)
}
