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

// Package codec implements the framing, two-phase
// encoding and decoder dispatch shared by every
// record of the tag-structured binary format.
//
// A session is one call to Encode, Decode,
// EncodeStream or DecodeStream (or a sequence of
// ProbeTag/WriteTag/ReadTag calls made by the caller)
// with one bitstream.Stream and one Context.
package codec

import (
	"fmt"

	"github.com/SnellerInc/swfcodec/bitstream"
)

// Encode encodes one tag, header included.
// The counters of ctx are reset first.
func Encode(t Tag, ctx *Context) ([]byte, error) {
	ctx.Reset()
	h, err := ProbeTag(ctx, t)
	if err != nil {
		return nil, err
	}
	dst := bitstream.Make(h.Total())
	if err := WriteTag(dst, ctx, t, h); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

// Decode decodes buf, which must hold exactly one tag.
// The counters of ctx are reset first.
func Decode(buf []byte, ctx *Context) (Tag, error) {
	ctx.Reset()
	src := bitstream.New(buf)
	t, err := ReadTag(src, ctx)
	if err != nil {
		return nil, err
	}
	if !src.AtEnd() {
		return nil, fmt.Errorf("swfcodec: %d trailing bytes after %s", src.Remaining()/8, recordName(t))
	}
	return t, nil
}

// EncodeStream encodes a sequence of tags back to back.
// A first probe pass over every tag sizes the output.
// Each tag is then probed again immediately before it
// is written, so its Encode sees the counters left by
// its own Probe; a tag whose second probe disagrees
// with the first produces a *FramingError.
func EncodeStream(tags []Tag, ctx *Context) ([]byte, error) {
	ctx.Reset()
	headers := make([]Header, len(tags))
	total := 0
	for i := range tags {
		h, err := ProbeTag(ctx, tags[i])
		if err != nil {
			return nil, err
		}
		headers[i] = h
		total += h.Total()
	}
	ctx.clearVars()
	dst := bitstream.Make(total)
	for i := range tags {
		h, err := ProbeTag(ctx, tags[i])
		if err != nil {
			return nil, err
		}
		if h.Length != headers[i].Length || h.Long != headers[i].Long {
			return nil, ctx.framing(&FramingError{
				Record: recordName(tags[i]),
				Start:  dst.Pos(),
				Length: headers[i].Length,
				Delta:  (h.Total() - headers[i].Total()) * 8,
			})
		}
		if err := WriteTag(dst, ctx, tags[i], h); err != nil {
			return nil, err
		}
	}
	return dst.Bytes(), nil
}

// DecodeStream decodes every tag in buf.
// Tags without a registered decoder are kept as
// *Opaque; in strict mode they abort the stream.
func DecodeStream(buf []byte, ctx *Context) ([]Tag, error) {
	ctx.Reset()
	src := bitstream.New(buf)
	var out []Tag
	for !src.AtEnd() {
		t, err := ReadTag(src, ctx)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}
