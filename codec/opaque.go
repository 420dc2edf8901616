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

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"

	"github.com/SnellerInc/swfcodec/bitstream"
)

// digest keys; fixed so that digests are
// comparable across processes
const (
	digestK0 = 0x736e656c6c657220
	digestK1 = 0x7377666f70617175
)

func digest(p []byte) uint64 {
	return siphash.Hash(digestK0, digestK1, p)
}

// Opaque is a tag whose payload was preserved
// verbatim because no decoder was registered for
// its type code. Re-encoding an Opaque reproduces
// the original bytes, including the header form.
type Opaque struct {
	Type uint16
	Data []byte
	// Long records that the tag was read with the
	// extended header form although its payload would
	// have fit inline.
	Long bool
}

// NewOpaque returns an Opaque tag with the
// given type code and payload.
func NewOpaque(code int, data []byte) (*Opaque, error) {
	if err := CheckRange("tag code", int64(code), 0, MaxCode); err != nil {
		return nil, err
	}
	return &Opaque{Type: uint16(code), Data: slices.Clone(data)}, nil
}

// DecodeOpaque is the TagDecoder used for
// tags without a registered decoder.
func DecodeOpaque(src *bitstream.Stream, ctx *Context, h Header) (Tag, error) {
	data, err := src.ReadBytes(h.Length)
	if err != nil {
		return nil, err
	}
	o := &Opaque{Type: h.Code, Data: data, Long: h.Forced()}
	ctx.opaque(TagCategory, int(h.Code), h.Start, h.Length, o.Digest())
	return o, nil
}

func (o *Opaque) Code() uint16 { return o.Type }

func (o *Opaque) LongHeader() bool { return o.Long }

func (o *Opaque) Probe(ctx *Context) (Size, error) {
	return Bytes(len(o.Data)), nil
}

func (o *Opaque) Encode(dst *bitstream.Stream, ctx *Context, size Size) error {
	return dst.WriteBytes(o.Data)
}

// Digest returns a keyed hash of the payload,
// useful for recognizing the same unknown tag
// across inputs.
func (o *Opaque) Digest() uint64 { return digest(o.Data) }

func (o *Opaque) String() string {
	return fmt.Sprintf("Opaque: { type=%d; length=%d }", o.Type, len(o.Data))
}

// Raw is an un-framed sub-record preserved
// verbatim. Record families use it as the
// fallback for discriminants they do not know.
type Raw []byte

// DecodeRaw returns a Decoder that captures the
// next n bytes as a Raw record.
func DecodeRaw(n int) Decoder {
	return func(src *bitstream.Stream, ctx *Context) (Record, error) {
		buf, err := src.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		return Raw(buf), nil
	}
}

func (r Raw) Probe(ctx *Context) (Size, error) { return Bytes(len(r)), nil }

func (r Raw) Encode(dst *bitstream.Stream, ctx *Context, size Size) error {
	return dst.WriteBytes(r)
}

// Digest returns a keyed hash of the bytes.
func (r Raw) Digest() uint64 { return digest(r) }
