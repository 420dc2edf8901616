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

// Package action implements the action opcode
// records carried by script tags.
//
// An action is either a single opcode byte
// (opcodes below 0x80) or an opcode byte followed
// by a 16-bit little-endian payload length and
// the payload.
package action

import (
	"fmt"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

// Category is the registry category of actions.
const Category codec.Category = "action"

// Opcodes of the actions implemented in this package.
const (
	End           = 0x00
	NextFrame     = 0x04
	PrevFrame     = 0x05
	Play          = 0x06
	Stop          = 0x07
	ToggleQuality = 0x08
	StopSounds    = 0x09

	GotoFrameCode = 0x81
	GetURLCode    = 0x83
	SetTargetCode = 0x8b
	GotoLabelCode = 0x8c
)

// Action is a record in an action list.
type Action interface {
	codec.Record
	Opcode() uint8
}

var (
	_ Action = Basic(0)
	_ Action = &GotoFrame{}
	_ Action = &GetURL{}
	_ Action = &SetTarget{}
	_ Action = &GotoLabel{}
	_ Action = Data(nil)
)

// header sizes in bytes
const (
	shortSize = 1
	longSize  = 3
)

// readHeader reads the opcode and, for opcodes
// with a payload, the payload length.
func readHeader(src *bitstream.Stream) (code, length int, err error) {
	c, err := src.ReadWord(1, false)
	if err != nil {
		return 0, 0, err
	}
	if c < 0x80 {
		return int(c), 0, nil
	}
	n, err := src.ReadWord(2, false)
	if err != nil {
		return 0, 0, err
	}
	return int(c), int(n), nil
}

func writeHeader(dst *bitstream.Stream, code, length int) error {
	if err := dst.WriteWord(int64(code), 1); err != nil {
		return err
	}
	if code < 0x80 {
		return nil
	}
	return dst.WriteWord(int64(length), 2)
}

// payloadSize returns the total size of
// an action with the given payload length.
func payloadSize(length int) (codec.Size, error) {
	if err := codec.CheckRange("action length", int64(length), 0, 0xffff); err != nil {
		return 0, err
	}
	return codec.Bytes(longSize + length), nil
}

// decodePayload reads the header of an action with the
// expected opcode, calls body and verifies that body
// consumed exactly the declared payload length.
func decodePayload(src *bitstream.Stream, name string, want int, body func(length int) error) error {
	start := src.Pos()
	code, length, err := readHeader(src)
	if err != nil {
		return err
	}
	if code != want {
		return fmt.Errorf("action: %s decoder got opcode 0x%x", name, code)
	}
	end := src.Pos() + length*8
	if err := body(length); err != nil {
		return err
	}
	return codec.Verify(name, start, length, end, src.Pos())
}

// Key returns the opcode of the next action
// without consuming it.
func Key(src *bitstream.Stream, ctx *codec.Context) (int, error) {
	v, err := src.PeekBits(8)
	return int(v), err
}

// Registry returns a registry populated with
// every action implemented by this package.
func Registry() *codec.Registry[codec.Decoder] {
	r := codec.NewRegistry[codec.Decoder]()
	for _, code := range []int{End, NextFrame, PrevFrame, Play, Stop, ToggleQuality, StopSounds} {
		r.Register(code, DecodeBasic)
	}
	r.Register(GotoFrameCode, DecodeGotoFrame)
	r.Register(GetURLCode, DecodeGetURL)
	r.Register(SetTargetCode, DecodeSetTarget)
	r.Register(GotoLabelCode, DecodeGotoLabel)
	return r
}

var sequence = codec.Sequence{
	Category: Category,
	Key:      Key,
	Fallback: DecodeData,
}

// DecodeList decodes actions until the cursor
// reaches end. Unregistered opcodes are kept as
// Data. If ctx has no action registry at all,
// the whole list is kept as a single Data record.
func DecodeList(src *bitstream.Stream, ctx *codec.Context, end int) ([]Action, error) {
	if ctx.Registry(Category) == nil {
		if src.Pos() == end {
			return []Action{}, nil
		}
		buf, err := src.ReadBytes((end - src.Pos()) / 8)
		if err != nil {
			return nil, err
		}
		return []Action{Data(buf)}, nil
	}
	recs, err := sequence.Decode(src, ctx, end)
	if err != nil {
		return nil, err
	}
	out := make([]Action, 0, len(recs))
	for _, r := range recs {
		a, ok := r.(Action)
		if !ok {
			return nil, fmt.Errorf("action: decoder returned %T, which is not an Action", r)
		}
		out = append(out, a)
	}
	return out, nil
}

// ProbeList returns the encoded size of actions.
func ProbeList(ctx *codec.Context, actions []Action) (codec.Size, error) {
	return codec.ProbeAll(ctx, actions)
}

// EncodeList encodes actions in order.
func EncodeList(dst *bitstream.Stream, ctx *codec.Context, actions []Action) error {
	return codec.EncodeAll(dst, ctx, actions)
}
