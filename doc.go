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

// Package swfcodec is the root of a codec for a
// tag-structured binary container format.
//
// The engine lives in package codec, the bit-level
// cursor in package bitstream, and the record
// families in packages tags, action, shape and sound.
// Use tags.NewContext to get a context with every
// record family registered:
//
//	ctx := tags.NewContext(codec.WithLogger(logger))
//	list, err := codec.DecodeStream(buf, ctx)
//	...
//	out, err := codec.EncodeStream(list, ctx)
package swfcodec
