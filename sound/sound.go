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

// Package sound implements the sound playback
// records embedded in sound tags.
package sound

import (
	"fmt"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

// Mode selects how a sound is started or stopped.
type Mode uint8

const (
	// Start plays the sound, possibly
	// overlapping an instance already playing.
	Start Mode = iota
	// Continue plays the sound unless
	// it is already playing.
	Continue
	// Stop stops the sound.
	Stop
)

func (m Mode) String() string {
	switch m {
	case Start:
		return "Start"
	case Continue:
		return "Continue"
	case Stop:
		return "Stop"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// MaxVolume is the largest channel level of an envelope.
const MaxVolume = 32768

// Level is one point of a sound envelope.
type Level struct {
	// Mark44 is the position of the point
	// in samples at 44.1 kHz.
	Mark44 uint32
	Left   uint16
	Right  uint16
}

// NewLevel validates the channel levels.
func NewLevel(mark44 uint32, left, right int) (Level, error) {
	if err := codec.CheckRange("left level", int64(left), 0, MaxVolume); err != nil {
		return Level{}, err
	}
	if err := codec.CheckRange("right level", int64(right), 0, MaxVolume); err != nil {
		return Level{}, err
	}
	return Level{Mark44: mark44, Left: uint16(left), Right: uint16(right)}, nil
}

const levelSize = 8

// Envelope controls the channel levels of a sound over time.
type Envelope struct {
	Levels []Level
}

// DecodeEnvelope decodes a level count followed by the levels.
func DecodeEnvelope(src *bitstream.Stream, ctx *codec.Context) (*Envelope, error) {
	n, err := src.ReadWord(1, false)
	if err != nil {
		return nil, err
	}
	e := &Envelope{Levels: make([]Level, n)}
	for i := range e.Levels {
		l := &e.Levels[i]
		v, err := src.ReadWord(4, false)
		if err != nil {
			return nil, err
		}
		l.Mark44 = uint32(v)
		if v, err = src.ReadWord(2, false); err != nil {
			return nil, err
		}
		l.Left = uint16(v)
		if v, err = src.ReadWord(2, false); err != nil {
			return nil, err
		}
		l.Right = uint16(v)
	}
	return e, nil
}

func (e *Envelope) Probe(ctx *codec.Context) (codec.Size, error) {
	if err := codec.CheckRange("envelope levels", int64(len(e.Levels)), 0, 0xff); err != nil {
		return 0, err
	}
	return codec.Bytes(1 + len(e.Levels)*levelSize), nil
}

func (e *Envelope) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteWord(int64(len(e.Levels)), 1); err != nil {
		return err
	}
	for _, l := range e.Levels {
		if err := dst.WriteWord(int64(l.Mark44), 4); err != nil {
			return err
		}
		if err := dst.WriteWord(int64(l.Left), 2); err != nil {
			return err
		}
		if err := dst.WriteWord(int64(l.Right), 2); err != nil {
			return err
		}
	}
	return nil
}

// Info describes how an event sound is played.
//
// The optional fields are encoded only when non-nil.
type Info struct {
	ID        uint16
	Mode      Mode
	InPoint   *uint32
	OutPoint  *uint32
	LoopCount *uint16
	Envelope  *Envelope
}

// NewInfo validates the sound identifier and mode.
func NewInfo(id int, mode Mode) (*Info, error) {
	if err := codec.CheckRange("sound id", int64(id), 1, 0xffff); err != nil {
		return nil, err
	}
	if err := codec.CheckRange("sound mode", int64(mode), int64(Start), int64(Stop)); err != nil {
		return nil, err
	}
	return &Info{ID: uint16(id), Mode: mode}, nil
}

const (
	hasEnvelope = 1 << (3 - iota)
	hasLoopCount
	hasOutPoint
	hasInPoint
)

// DecodeInfo decodes an Info record.
func DecodeInfo(src *bitstream.Stream, ctx *codec.Context) (*Info, error) {
	id, err := src.ReadWord(2, false)
	if err != nil {
		return nil, err
	}
	mode, err := src.ReadBits(4, false)
	if err != nil {
		return nil, err
	}
	if err := codec.CheckRange("sound mode", mode, int64(Start), int64(Stop)); err != nil {
		return nil, err
	}
	flags, err := src.ReadBits(4, false)
	if err != nil {
		return nil, err
	}
	info := &Info{ID: uint16(id), Mode: Mode(mode)}
	if flags&hasInPoint != 0 {
		v, err := src.ReadWord(4, false)
		if err != nil {
			return nil, err
		}
		p := uint32(v)
		info.InPoint = &p
	}
	if flags&hasOutPoint != 0 {
		v, err := src.ReadWord(4, false)
		if err != nil {
			return nil, err
		}
		p := uint32(v)
		info.OutPoint = &p
	}
	if flags&hasLoopCount != 0 {
		v, err := src.ReadWord(2, false)
		if err != nil {
			return nil, err
		}
		n := uint16(v)
		info.LoopCount = &n
	}
	if flags&hasEnvelope != 0 {
		if info.Envelope, err = DecodeEnvelope(src, ctx); err != nil {
			return nil, err
		}
	}
	return info, nil
}

func (s *Info) flags() int64 {
	var f int64
	if s.Envelope != nil {
		f |= hasEnvelope
	}
	if s.LoopCount != nil {
		f |= hasLoopCount
	}
	if s.OutPoint != nil {
		f |= hasOutPoint
	}
	if s.InPoint != nil {
		f |= hasInPoint
	}
	return f
}

func (s *Info) Probe(ctx *codec.Context) (codec.Size, error) {
	if err := codec.CheckRange("sound mode", int64(s.Mode), int64(Start), int64(Stop)); err != nil {
		return 0, err
	}
	n := codec.Bytes(3)
	if s.InPoint != nil {
		n += codec.Bytes(4)
	}
	if s.OutPoint != nil {
		n += codec.Bytes(4)
	}
	if s.LoopCount != nil {
		n += codec.Bytes(2)
	}
	if s.Envelope != nil {
		e, err := s.Envelope.Probe(ctx)
		if err != nil {
			return 0, err
		}
		n += e
	}
	return n, nil
}

func (s *Info) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteWord(int64(s.ID), 2); err != nil {
		return err
	}
	if err := dst.WriteBits(int64(s.Mode), 4); err != nil {
		return err
	}
	if err := dst.WriteBits(s.flags(), 4); err != nil {
		return err
	}
	if s.InPoint != nil {
		if err := dst.WriteWord(int64(*s.InPoint), 4); err != nil {
			return err
		}
	}
	if s.OutPoint != nil {
		if err := dst.WriteWord(int64(*s.OutPoint), 4); err != nil {
			return err
		}
	}
	if s.LoopCount != nil {
		if err := dst.WriteWord(int64(*s.LoopCount), 2); err != nil {
			return err
		}
	}
	if s.Envelope != nil {
		return codec.EncodeRecord(dst, ctx, s.Envelope)
	}
	return nil
}
