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
	"math"

	"github.com/SnellerInc/swfcodec/bitstream"
)

const (
	// MaxCode is the largest tag type code.
	MaxCode = 0x3ff
	// MaxShortLength is the largest payload length
	// that fits in the 6-bit inline length field.
	MaxShortLength = 62
	// MaxLength is the largest payload length
	// representable in the extended form.
	MaxLength = math.MaxUint32

	lengthEscape = 0x3f
	lengthBits   = 6
)

// Header is a decoded or pending tag header.
//
// The 16-bit little-endian header word holds the
// type code in its high 10 bits and the payload
// length in its low 6 bits. A length field of 0x3f
// means a 32-bit length follows the header word.
type Header struct {
	Code   uint16
	Length int  // payload length in bytes
	Long   bool // extended length form
	Start  int  // bit offset of the header word
}

// NewHeader returns the header for a payload of
// length bytes. The extended form is selected when
// long is set or when length does not fit inline.
func NewHeader(code uint16, length int, long bool) Header {
	return Header{
		Code:   code,
		Length: length,
		Long:   long || length > MaxShortLength,
	}
}

// Size returns the encoded size of the header in bytes.
func (h Header) Size() int {
	if h.Long {
		return 6
	}
	return 2
}

// Total returns the encoded size of the
// header plus payload in bytes.
func (h Header) Total() int { return h.Size() + h.Length }

// End returns the bit offset just past the payload.
func (h Header) End() int { return h.Start + h.Total()*8 }

// Payload returns the bit offset of the first payload bit.
func (h Header) Payload() int { return h.Start + h.Size()*8 }

// Forced returns true if h uses the extended form
// for a length that would have fit inline. Tags
// keep this flag to re-encode the same header.
func (h Header) Forced() bool { return h.Long && h.Length <= MaxShortLength }

func (h Header) check() error {
	if err := CheckRange("tag code", int64(h.Code), 0, MaxCode); err != nil {
		return err
	}
	return CheckRange("tag length", int64(h.Length), 0, MaxLength)
}

// ReadHeader reads a tag header from src.
func ReadHeader(src *bitstream.Stream) (Header, error) {
	h := Header{Start: src.Pos()}
	w, err := src.ReadWord(2, false)
	if err != nil {
		return h, err
	}
	h.Code = uint16(w >> lengthBits)
	h.Length = int(w & lengthEscape)
	if h.Length == lengthEscape {
		n, err := src.ReadWord(4, false)
		if err != nil {
			return h, err
		}
		h.Length = int(n)
		h.Long = true
	}
	return h, nil
}

// WriteHeader writes h to dst and returns h
// with Start set to the header offset.
func WriteHeader(dst *bitstream.Stream, h Header) (Header, error) {
	if err := h.check(); err != nil {
		return h, err
	}
	h.Start = dst.Pos()
	code := int64(h.Code) << lengthBits
	if !h.Long {
		if h.Length > MaxShortLength {
			return h, fmt.Errorf("swfcodec: length %d needs the extended header", h.Length)
		}
		return h, dst.WriteWord(code|int64(h.Length), 2)
	}
	if err := dst.WriteWord(code|lengthEscape, 2); err != nil {
		return h, err
	}
	return h, dst.WriteWord(int64(h.Length), 4)
}

// Verify returns a *FramingError if pos is not the
// declared end of the record that started at start.
func Verify(name string, start, length, end, pos int) error {
	if pos == end {
		return nil
	}
	return &FramingError{Record: name, Start: start, Length: length, Delta: pos - end}
}

// LongHeader is implemented by tags that must
// be written with the extended header form
// regardless of their payload length.
type LongHeader interface {
	LongHeader() bool
}

// Extended can be embedded in a tag to
// implement LongHeader.
type Extended struct {
	Long bool
}

func (e Extended) LongHeader() bool { return e.Long }

// ProbeTag runs the size probe of t and returns
// the header that WriteTag will write for it.
func ProbeTag(ctx *Context, t Tag) (Header, error) {
	size, err := t.Probe(ctx)
	if err != nil {
		return Header{}, err
	}
	if !size.Whole() {
		return Header{}, fmt.Errorf("swfcodec: %s payload is %d bits, not a whole number of bytes", recordName(t), size.Bits())
	}
	long := false
	if l, ok := t.(LongHeader); ok {
		long = l.LongHeader()
	}
	h := NewHeader(t.Code(), size.Bytes(), long)
	return h, h.check()
}

// WriteTag writes the header h followed by the
// payload of t. h must come from ProbeTag(ctx, t)
// in the same session. WriteTag returns a
// *FramingError if the payload codec did not write
// exactly h.Length bytes.
func WriteTag(dst *bitstream.Stream, ctx *Context, t Tag, h Header) error {
	if h.Code != t.Code() {
		return fmt.Errorf("swfcodec: header code %d does not match %s code %d", h.Code, recordName(t), t.Code())
	}
	h, err := WriteHeader(dst, h)
	if err != nil {
		return err
	}
	if err := t.Encode(dst, ctx, Bytes(h.Length)); err != nil {
		return err
	}
	if err := Verify(recordName(t), h.Start, h.Length, h.End(), dst.Pos()); err != nil {
		return ctx.framing(err.(*FramingError))
	}
	ctx.metrics.tag(opEncode, h)
	return nil
}

// ReadTag reads one tag from src, dispatching on
// its type code through the context's tag registry.
// Tags without a registered decoder are returned as
// *Opaque, or rejected with *UnsupportedKindError
// in strict mode (the cursor is then left past the
// tag so the caller may continue). A registered
// decoder that fails with a non-fatal error is
// treated the same way: the tag is kept as *Opaque,
// or in strict mode the error is returned with the
// cursor past the tag.
func ReadTag(src *bitstream.Stream, ctx *Context) (Tag, error) {
	h, err := ReadHeader(src)
	if err != nil {
		return nil, err
	}
	if rem := src.Remaining(); h.Length*8 > rem {
		return nil, &OverrunError{Pos: src.Pos(), Want: h.Length * 8, Have: rem}
	}
	dec, ok := ctx.Tags().Resolve(int(h.Code))
	if !ok {
		if ctx.Strict() {
			src.Seek(h.End())
			return nil, ctx.unsupported(TagCategory, int(h.Code), h.Start)
		}
		dec = DecodeOpaque
	}
	t, err := dec(src, ctx, h)
	if err != nil {
		err = fmt.Errorf("decoding tag %d at bit %d: %w", h.Code, h.Start, err)
		if IsFatal(err) {
			return nil, err
		}
		// the header is still trustworthy, so the
		// tag can be skipped or kept verbatim
		if ctx.Strict() {
			src.Seek(h.End())
			return nil, err
		}
		ctx.fallback(int(h.Code), h.Start, err)
		src.Seek(h.Payload())
		if t, err = DecodeOpaque(src, ctx, h); err != nil {
			return nil, err
		}
	}
	if err := Verify(recordName(t), h.Start, h.Length, h.End(), src.Pos()); err != nil {
		return nil, ctx.framing(err.(*FramingError))
	}
	ctx.metrics.tag(opDecode, h)
	return t, nil
}
