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
	"github.com/SnellerInc/swfcodec/action"
	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

// DoAction holds actions executed when the
// frame containing the tag is displayed.
type DoAction struct {
	codec.Extended
	Actions []action.Action
}

func DecodeDoAction(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	list, err := action.DecodeList(src, ctx, h.End())
	if err != nil {
		return nil, err
	}
	return &DoAction{Extended: codec.Extended{Long: h.Forced()}, Actions: list}, nil
}

func (d *DoAction) Code() uint16 { return DoActionCode }

func (d *DoAction) Probe(ctx *codec.Context) (codec.Size, error) {
	return action.ProbeList(ctx, d.Actions)
}

func (d *DoAction) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	return action.EncodeList(dst, ctx, d.Actions)
}

// InitializeMovieClip holds actions that
// initialize a movie clip before its first
// frame is displayed.
type InitializeMovieClip struct {
	codec.Extended
	ID      uint16
	Actions []action.Action
}

// NewInitializeMovieClip validates the movie clip identifier.
func NewInitializeMovieClip(id int, actions []action.Action) (*InitializeMovieClip, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return &InitializeMovieClip{ID: uint16(id), Actions: actions}, nil
}

// DecodeInitializeMovieClip reads the movie clip
// identifier followed by actions up to the end
// of the tag. Without an action registry in ctx
// the actions are kept as a single action.Data.
func DecodeInitializeMovieClip(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	id, err := readID(src)
	if err != nil {
		return nil, err
	}
	list, err := action.DecodeList(src, ctx, h.End())
	if err != nil {
		return nil, err
	}
	return &InitializeMovieClip{
		Extended: codec.Extended{Long: h.Forced()},
		ID:       id,
		Actions:  list,
	}, nil
}

func (m *InitializeMovieClip) Code() uint16 { return InitializeMovieClipCode }

func (m *InitializeMovieClip) Probe(ctx *codec.Context) (codec.Size, error) {
	n, err := action.ProbeList(ctx, m.Actions)
	if err != nil {
		return 0, err
	}
	return codec.Bytes(2) + n, nil
}

func (m *InitializeMovieClip) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteWord(int64(m.ID), 2); err != nil {
		return err
	}
	return action.EncodeList(dst, ctx, m.Actions)
}
