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

// Package tags implements a set of top-level
// tags and wires them, together with the action
// and shape record families, into a codec.Context.
//
// Every tag embeds codec.Extended so that a tag
// read with an unnecessarily long header is
// written back with the same header form.
package tags

import (
	"github.com/SnellerInc/swfcodec/action"
	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
	"github.com/SnellerInc/swfcodec/shape"
)

// Tag type codes.
const (
	ShowFrameCode           = 1
	RemoveCode              = 5
	DoActionCode            = 12
	StartSoundCode          = 15
	FrameLabelCode          = 43
	ExportCode              = 56
	InitializeMovieClipCode = 59
)

// Identifier and layer ranges.
const (
	MinID    = 1
	MaxID    = 0xffff
	MinLayer = 1
	MaxLayer = 0xffff
)

var (
	_ codec.Tag = &ShowFrame{}
	_ codec.Tag = &Remove{}
	_ codec.Tag = &DoAction{}
	_ codec.Tag = &StartSound{}
	_ codec.Tag = &FrameLabel{}
	_ codec.Tag = &Export{}
	_ codec.Tag = &InitializeMovieClip{}
	_ codec.Tag = &DefineFont{}
)

// Registry returns a tag registry populated
// with every tag implemented by this package.
func Registry() *codec.Registry[codec.TagDecoder] {
	r := codec.NewRegistry[codec.TagDecoder]()
	r.Register(ShowFrameCode, DecodeShowFrame)
	r.Register(RemoveCode, DecodeRemove)
	r.Register(DefineFontCode, DecodeDefineFont)
	r.Register(DoActionCode, DecodeDoAction)
	r.Register(StartSoundCode, DecodeStartSound)
	r.Register(FrameLabelCode, DecodeFrameLabel)
	r.Register(ExportCode, DecodeExport)
	r.Register(InitializeMovieClipCode, DecodeInitializeMovieClip)
	return r
}

// Register installs the tag, action and shape
// registries in ctx, replacing any already set.
func Register(ctx *codec.Context) {
	r := Registry()
	for _, code := range r.Codes() {
		dec, _ := r.Resolve(code)
		ctx.Tags().Register(code, dec)
	}
	ctx.SetRegistry(action.Category, action.Registry())
	ctx.SetRegistry(shape.Category, shape.Registry())
}

// NewContext returns a context with every record
// family of this module registered. The options
// are applied after the defaults.
func NewContext(opts ...codec.Option) *codec.Context {
	defaults := []codec.Option{
		codec.WithTags(Registry()),
		codec.WithRegistry(action.Category, action.Registry()),
		codec.WithRegistry(shape.Category, shape.Registry()),
	}
	return codec.NewContext(append(defaults, opts...)...)
}

func readID(src *bitstream.Stream) (uint16, error) {
	v, err := src.ReadWord(2, false)
	return uint16(v), err
}

func checkID(v int) error {
	return codec.CheckRange("identifier", int64(v), MinID, MaxID)
}
