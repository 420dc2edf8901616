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
	"errors"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
	"github.com/SnellerInc/swfcodec/sound"
)

// StartSound starts or stops an event sound.
type StartSound struct {
	codec.Extended
	Sound *sound.Info
}

func DecodeStartSound(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	info, err := sound.DecodeInfo(src, ctx)
	if err != nil {
		return nil, err
	}
	return &StartSound{Extended: codec.Extended{Long: h.Forced()}, Sound: info}, nil
}

func (s *StartSound) Code() uint16 { return StartSoundCode }

var errNoSound = errors.New("tags: StartSound without sound info")

func (s *StartSound) Probe(ctx *codec.Context) (codec.Size, error) {
	if s.Sound == nil {
		return 0, errNoSound
	}
	return s.Sound.Probe(ctx)
}

func (s *StartSound) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	return codec.EncodeRecord(dst, ctx, s.Sound)
}
