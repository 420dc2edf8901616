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

package action

import (
	"fmt"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

// Basic is an action that consists of its opcode alone.
type Basic uint8

// NewBasic returns the single-byte action with the given opcode.
func NewBasic(code int) (Basic, error) {
	if err := codec.CheckRange("basic opcode", int64(code), 0, 0x7f); err != nil {
		return 0, err
	}
	return Basic(code), nil
}

// DecodeBasic decodes a single-byte action.
func DecodeBasic(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	code, _, err := readHeader(src)
	if err != nil {
		return nil, err
	}
	if code >= 0x80 {
		return nil, fmt.Errorf("action: opcode 0x%x has a payload", code)
	}
	return Basic(code), nil
}

func (b Basic) Opcode() uint8 { return uint8(b) }

func (b Basic) Probe(ctx *codec.Context) (codec.Size, error) {
	if b >= 0x80 {
		return 0, codec.CheckRange("basic opcode", int64(b), 0, 0x7f)
	}
	return codec.Bytes(shortSize), nil
}

func (b Basic) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	return writeHeader(dst, int(b), 0)
}

func (b Basic) String() string {
	switch b {
	case End:
		return "End"
	case NextFrame:
		return "NextFrame"
	case PrevFrame:
		return "PrevFrame"
	case Play:
		return "Play"
	case Stop:
		return "Stop"
	case ToggleQuality:
		return "ToggleQuality"
	case StopSounds:
		return "StopSounds"
	}
	return fmt.Sprintf("Basic(0x%02x)", uint8(b))
}

// GotoFrame moves the playhead to a frame number.
type GotoFrame struct {
	Frame uint16
}

// NewGotoFrame validates frame and returns a GotoFrame.
func NewGotoFrame(frame int) (*GotoFrame, error) {
	if err := codec.CheckRange("frame", int64(frame), 0, 0xffff); err != nil {
		return nil, err
	}
	return &GotoFrame{Frame: uint16(frame)}, nil
}

func DecodeGotoFrame(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	g := &GotoFrame{}
	err := decodePayload(src, "GotoFrame", GotoFrameCode, func(int) error {
		v, err := src.ReadWord(2, false)
		g.Frame = uint16(v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GotoFrame) Opcode() uint8 { return GotoFrameCode }

func (g *GotoFrame) Probe(ctx *codec.Context) (codec.Size, error) { return payloadSize(2) }

func (g *GotoFrame) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := writeHeader(dst, GotoFrameCode, size.Bytes()-longSize); err != nil {
		return err
	}
	return dst.WriteWord(int64(g.Frame), 2)
}

// GetURL loads a URL into a target window or level.
type GetURL struct {
	URL    string
	Target string
}

func DecodeGetURL(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	g := &GetURL{}
	err := decodePayload(src, "GetURL", GetURLCode, func(int) error {
		var err error
		if g.URL, err = src.ReadString(); err != nil {
			return err
		}
		g.Target, err = src.ReadString()
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GetURL) Opcode() uint8 { return GetURLCode }

func (g *GetURL) Probe(ctx *codec.Context) (codec.Size, error) {
	return payloadSize(codec.StringSize(g.URL) + codec.StringSize(g.Target))
}

func (g *GetURL) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := writeHeader(dst, GetURLCode, size.Bytes()-longSize); err != nil {
		return err
	}
	if err := dst.WriteString(g.URL); err != nil {
		return err
	}
	return dst.WriteString(g.Target)
}

// SetTarget directs subsequent actions at a named movie clip.
type SetTarget struct {
	Target string
}

func DecodeSetTarget(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	s := &SetTarget{}
	err := decodePayload(src, "SetTarget", SetTargetCode, func(int) error {
		var err error
		s.Target, err = src.ReadString()
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SetTarget) Opcode() uint8 { return SetTargetCode }

func (s *SetTarget) Probe(ctx *codec.Context) (codec.Size, error) {
	return payloadSize(codec.StringSize(s.Target))
}

func (s *SetTarget) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := writeHeader(dst, SetTargetCode, size.Bytes()-longSize); err != nil {
		return err
	}
	return dst.WriteString(s.Target)
}

// GotoLabel moves the playhead to a labelled frame.
type GotoLabel struct {
	Label string
}

func DecodeGotoLabel(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	g := &GotoLabel{}
	err := decodePayload(src, "GotoLabel", GotoLabelCode, func(int) error {
		var err error
		g.Label, err = src.ReadString()
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GotoLabel) Opcode() uint8 { return GotoLabelCode }

func (g *GotoLabel) Probe(ctx *codec.Context) (codec.Size, error) {
	return payloadSize(codec.StringSize(g.Label))
}

func (g *GotoLabel) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := writeHeader(dst, GotoLabelCode, size.Bytes()-longSize); err != nil {
		return err
	}
	return dst.WriteString(g.Label)
}

// Data is an action, or a run of actions, kept
// as its encoded bytes, header included.
type Data []byte

// DecodeData reads one action of any opcode verbatim.
func DecodeData(src *bitstream.Stream, ctx *codec.Context) (codec.Record, error) {
	start := src.Pos()
	_, length, err := readHeader(src)
	if err != nil {
		return nil, err
	}
	if err := src.Skip(length * 8); err != nil {
		src.Seek(start)
		return nil, err
	}
	n := (src.Pos() - start) / 8
	src.Seek(start)
	buf, err := src.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return Data(buf), nil
}

// Opcode returns the first opcode in d,
// or End if d is empty.
func (d Data) Opcode() uint8 {
	if len(d) == 0 {
		return End
	}
	return d[0]
}

func (d Data) Probe(ctx *codec.Context) (codec.Size, error) { return codec.Bytes(len(d)), nil }

func (d Data) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	return dst.WriteBytes(d)
}

// Digest returns a keyed hash of the action bytes.
func (d Data) Digest() uint64 { return codec.Raw(d).Digest() }
