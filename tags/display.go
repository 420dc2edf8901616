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
	"fmt"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

// ShowFrame displays the current frame.
// It has no payload.
type ShowFrame struct {
	codec.Extended
}

func DecodeShowFrame(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	return &ShowFrame{Extended: codec.Extended{Long: h.Forced()}}, nil
}

func (s *ShowFrame) Code() uint16 { return ShowFrameCode }

func (s *ShowFrame) Probe(ctx *codec.Context) (codec.Size, error) { return 0, nil }

func (s *ShowFrame) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	return nil
}

// Remove removes the object with the given
// identifier from a display list layer.
type Remove struct {
	codec.Extended
	ID    uint16
	Layer uint16
}

// NewRemove validates the identifier and layer.
func NewRemove(id, layer int) (*Remove, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := codec.CheckRange("layer", int64(layer), MinLayer, MaxLayer); err != nil {
		return nil, err
	}
	return &Remove{ID: uint16(id), Layer: uint16(layer)}, nil
}

func DecodeRemove(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	r := &Remove{Extended: codec.Extended{Long: h.Forced()}}
	var err error
	if r.ID, err = readID(src); err != nil {
		return nil, err
	}
	v, err := src.ReadWord(2, false)
	if err != nil {
		return nil, err
	}
	r.Layer = uint16(v)
	return r, nil
}

func (r *Remove) Code() uint16 { return RemoveCode }

func (r *Remove) Probe(ctx *codec.Context) (codec.Size, error) { return codec.Bytes(4), nil }

func (r *Remove) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteWord(int64(r.ID), 2); err != nil {
		return err
	}
	return dst.WriteWord(int64(r.Layer), 2)
}

func (r *Remove) String() string {
	return fmt.Sprintf("Remove: { identifier=%d; layer=%d }", r.ID, r.Layer)
}

// FrameLabel names the current frame. A named
// anchor label can be addressed from a URL.
type FrameLabel struct {
	codec.Extended
	Name   string
	Anchor bool
}

// DecodeFrameLabel reads the label and, if
// the payload continues, the anchor flag,
// which must be 1.
func DecodeFrameLabel(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	f := &FrameLabel{Extended: codec.Extended{Long: h.Forced()}}
	var err error
	if f.Name, err = src.ReadString(); err != nil {
		return nil, err
	}
	if src.Pos() < h.End() {
		v, err := src.ReadWord(1, false)
		if err != nil {
			return nil, err
		}
		// the flag byte is only ever written as 1
		if err := codec.CheckRange("anchor", v, 1, 1); err != nil {
			return nil, err
		}
		f.Anchor = true
	}
	return f, nil
}

func (f *FrameLabel) Code() uint16 { return FrameLabelCode }

func (f *FrameLabel) Probe(ctx *codec.Context) (codec.Size, error) {
	n := codec.StringSize(f.Name)
	if f.Anchor {
		n++
	}
	return codec.Bytes(n), nil
}

func (f *FrameLabel) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteString(f.Name); err != nil {
		return err
	}
	if f.Anchor {
		return dst.WriteWord(1, 1)
	}
	return nil
}

func (f *FrameLabel) String() string {
	return fmt.Sprintf("FrameLabel: { label=%s; anchor=%t }", f.Name, f.Anchor)
}
