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

// Package shape implements the bit-packed
// outline records of a shape: edges, style
// changes and the end-of-shape marker.
//
// Shape records are not byte aligned. Their
// discriminant is read from the leading bits
// of each record (see Key), and style changes
// depend on the fill and line index widths
// that the enclosing Shape stores in the
// coding context.
package shape

import (
	"errors"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
	"github.com/SnellerInc/swfcodec/ints"
)

// Category is the registry category of shape records.
const Category codec.Category = "shape"

// Context counters used by shape records.
const (
	// SizeVar accumulates the number of bits
	// probed by the records of the current shape,
	// index widths included. It is informational:
	// Shape.Probe sizes the shape from the values
	// its records return, and callers may read the
	// counter after probing a shape.
	SizeVar codec.Var = "shape.size"
	// FillBits is the width of fill style indices.
	FillBits codec.Var = "shape.fill_bits"
	// LineBits is the width of line style indices.
	LineBits codec.Var = "shape.line_bits"
)

// Record discriminants returned by Key.
const (
	KeyEnd   = 0
	KeyStyle = 1
	KeyCurve = 2
	KeyLine  = 3
)

// Coordinate range of edges and move-to points.
const (
	MinCoord = -65536
	MaxCoord = 65535
)

// Key returns the discriminant of the
// next shape record without consuming it.
func Key(src *bitstream.Stream, ctx *codec.Context) (int, error) {
	edge, err := src.PeekBits(1)
	if err != nil {
		return 0, err
	}
	if edge == 1 {
		v, err := src.PeekBits(2)
		return int(v), err
	}
	flags, err := src.PeekBits(6)
	if err != nil {
		return 0, err
	}
	if flags == 0 {
		return KeyEnd, nil
	}
	return KeyStyle, nil
}

// Registry returns a registry populated
// with every shape record kind.
func Registry() *codec.Registry[codec.Decoder] {
	r := codec.NewRegistry[codec.Decoder]()
	r.Register(KeyEnd, DecodeEnd)
	r.Register(KeyStyle, DecodeStyle)
	r.Register(KeyCurve, DecodeCurve)
	r.Register(KeyLine, DecodeLine)
	return r
}

func checkCoord(field string, v int32) error {
	return codec.CheckRange(field, int64(v), MinCoord, MaxCoord)
}

// probed records the size of a shape record
// in the running shape size counter.
func probed(ctx *codec.Context, bits int) (codec.Size, error) {
	ctx.Add(SizeVar, bits)
	return codec.Size(bits), nil
}

const maxIndexBits = 15

// Shape is a list of shape records
// followed by an implicit End record.
type Shape struct {
	Records []codec.Record
}

var errNoEnd = errors.New("shape: records end without an end-of-shape record")

var sequence = codec.Sequence{
	Category: Category,
	Key:      Key,
	Stop: func(r codec.Record) bool {
		_, ok := r.(End)
		return ok
	},
}

// DecodeShape decodes the index widths and the
// records of a shape, up to and including the
// End record, then skips to the next byte boundary.
func DecodeShape(src *bitstream.Stream, ctx *codec.Context) (*Shape, error) {
	fill, err := src.ReadBits(4, false)
	if err != nil {
		return nil, err
	}
	line, err := src.ReadBits(4, false)
	if err != nil {
		return nil, err
	}
	ctx.Set(FillBits, int(fill))
	ctx.Set(LineBits, int(line))
	recs, err := sequence.Decode(src, ctx, src.Len())
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errNoEnd
	}
	if _, ok := recs[len(recs)-1].(End); !ok {
		return nil, errNoEnd
	}
	src.Align()
	return &Shape{Records: recs[:len(recs)-1]}, nil
}

// widths returns the index widths needed for
// the largest style indices used by the shape.
func (s *Shape) widths() (fill, line int) {
	var maxFill, maxLine uint16
	for _, r := range s.Records {
		st, ok := r.(*Style)
		if !ok {
			continue
		}
		for _, p := range []*uint16{st.Fill0, st.Fill1} {
			if p != nil && *p > maxFill {
				maxFill = *p
			}
		}
		if st.Line != nil && *st.Line > maxLine {
			maxLine = *st.Line
		}
	}
	return ints.UnsignedWidth(0, maxFill), ints.UnsignedWidth(0, maxLine)
}

// Probe sets the index widths in ctx, resets
// SizeVar and probes every record. The result
// is rounded up to a whole number of bytes.
func (s *Shape) Probe(ctx *codec.Context) (codec.Size, error) {
	fill, line := s.widths()
	if err := codec.CheckRange("fill bits", int64(fill), 0, maxIndexBits); err != nil {
		return 0, err
	}
	if err := codec.CheckRange("line bits", int64(line), 0, maxIndexBits); err != nil {
		return 0, err
	}
	ctx.Set(FillBits, fill)
	ctx.Set(LineBits, line)
	ctx.Set(SizeVar, 8)
	total := codec.Size(8)
	for _, r := range s.Records {
		n, err := r.Probe(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	n, _ := End{}.Probe(ctx)
	total += n
	return codec.Bytes(total.Bytes()), nil
}

func (s *Shape) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	start := dst.Pos()
	fill, line := s.widths()
	if err := dst.WriteBits(int64(fill), 4); err != nil {
		return err
	}
	if err := dst.WriteBits(int64(line), 4); err != nil {
		return err
	}
	ctx.Set(FillBits, fill)
	ctx.Set(LineBits, line)
	if err := codec.EncodeAll(dst, ctx, s.Records); err != nil {
		return err
	}
	if err := codec.EncodeRecord(dst, ctx, End{}); err != nil {
		return err
	}
	if pad := start + size.Bits() - dst.Pos(); pad > 0 {
		return dst.WriteBits(0, pad)
	}
	return nil
}

// End marks the end of a shape.
type End struct{}

func DecodeEnd(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	if err := src.Skip(6); err != nil {
		return nil, err
	}
	return End{}, nil
}

func (End) Probe(ctx *codec.Context) (codec.Size, error) { return probed(ctx, 6) }

func (End) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	return dst.WriteBits(0, 6)
}
