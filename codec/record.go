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

package codec

import (
	"fmt"
	"strings"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/ints"
)

// Size is an encoded length in bits.
type Size int

// Bytes returns the Size of n bytes.
func Bytes(n int) Size { return Size(n * 8) }

// Bits returns the size in bits.
func (s Size) Bits() int { return int(s) }

// Bytes returns the size in bytes, rounded up.
func (s Size) Bytes() int { return ints.ChunkCount(int(s), 8) }

// Whole returns true if the size is a whole number of bytes.
func (s Size) Whole() bool { return ints.IsAligned(int(s), 8) }

// Record is implemented by every record kind.
//
// Encoding is two-phase. Probe computes the exact
// encoded size given the current context and may
// update context counters that later sibling records
// depend on. Encode writes the record; the size it is
// given must be the value returned by the immediately
// preceding Probe of the same record in the same session.
// Probe must be deterministic for identical context state.
type Record interface {
	Probe(ctx *Context) (Size, error)
	Encode(dst *bitstream.Stream, ctx *Context, size Size) error
}

// Tag is a top-level framed record.
//
// For a Tag, Probe reports the payload size
// (excluding the header) and Encode writes only
// the payload; the header is written by WriteTag.
type Tag interface {
	Record
	// Code returns the 10-bit tag type code.
	Code() uint16
}

// Decoder decodes one un-framed sub-record.
type Decoder func(src *bitstream.Stream, ctx *Context) (Record, error)

// TagDecoder decodes the payload of a tag whose
// header has already been read. The caller verifies
// that the decoder stopped exactly at h.End().
type TagDecoder func(src *bitstream.Stream, ctx *Context, h Header) (Tag, error)

// EncodeRecord probes r and writes it to dst,
// checking that the number of bits written
// matches the probed size.
func EncodeRecord(dst *bitstream.Stream, ctx *Context, r Record) error {
	size, err := r.Probe(ctx)
	if err != nil {
		return err
	}
	start := dst.Pos()
	if err := r.Encode(dst, ctx, size); err != nil {
		return err
	}
	if n := dst.Pos() - start; n != size.Bits() {
		return ctx.framing(&FramingError{Record: recordName(r), Start: start, Length: size.Bytes(), Delta: n - size.Bits()})
	}
	return nil
}

// StringSize returns the encoded size in bytes
// of a NUL-terminated string.
func StringSize(s string) int { return len(s) + 1 }

func recordName(r any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", r), "*")
}
