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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SnellerInc/swfcodec/bitstream"
)

const opcodes Category = "test.opcode"

// op is a one-byte record; op 0 ends a sequence
type op byte

func (o op) Probe(ctx *Context) (Size, error) { return Bytes(1), nil }

func (o op) Encode(dst *bitstream.Stream, ctx *Context, size Size) error {
	return dst.WriteWord(int64(o), 1)
}

func decodeOp(src *bitstream.Stream, ctx *Context) (Record, error) {
	v, err := src.ReadWord(1, false)
	return op(v), err
}

func peekByte(src *bitstream.Stream, ctx *Context) (int, error) {
	v, err := src.PeekBits(8)
	return int(v), err
}

// nibbles is a 4-bit record that counts its bits
type nibbles uint8

const nibbleBits Var = "test.nibbles"

func (n nibbles) Probe(ctx *Context) (Size, error) {
	ctx.Add(nibbleBits, 4)
	return 4, nil
}

func (n nibbles) Encode(dst *bitstream.Stream, ctx *Context, size Size) error {
	return dst.WriteBits(int64(n), size.Bits())
}

func opContext(opts ...Option) *Context {
	reg := NewRegistry[Decoder]()
	for _, code := range []int{0, 1, 2} {
		reg.Register(code, decodeOp)
	}
	return NewContext(append([]Option{WithRegistry(opcodes, reg)}, opts...)...)
}

func TestSequence(t *testing.T) {
	seq := Sequence{
		Category: opcodes,
		Key:      peekByte,
		Fallback: DecodeRaw(1),
		Stop:     func(r Record) bool { return r == op(0) },
	}
	buf := []byte{0x01, 0x02, 0x99, 0x00, 0x01}
	src := bitstream.New(buf)
	recs, err := seq.Decode(src, opContext(), src.Len())
	require.NoError(t, err)
	assert.Equal(t, []Record{op(1), op(2), Raw{0x99}, op(0)}, recs)
	assert.Equal(t, 32, src.Pos())

	size, err := ProbeAll(NewContext(), recs)
	require.NoError(t, err)
	assert.Equal(t, Bytes(4), size)
	dst := bitstream.Make(4)
	require.NoError(t, EncodeAll(dst, NewContext(), recs))
	assert.Equal(t, buf[:4], dst.Bytes())

	// without Stop the sequence runs to end
	seq.Stop = nil
	src = bitstream.New(buf)
	recs, err = seq.Decode(src, opContext(), src.Len())
	require.NoError(t, err)
	assert.Len(t, recs, 5)
	assert.True(t, src.AtEnd())
}

func TestSequenceUnknown(t *testing.T) {
	buf := []byte{0x01, 0x99}
	seq := Sequence{Category: opcodes, Key: peekByte}
	src := bitstream.New(buf)
	recs, err := seq.Decode(src, opContext(), src.Len())
	var ue *UnsupportedKindError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 0x99, ue.Code)
	assert.Equal(t, 8, ue.Pos)
	assert.Equal(t, []Record{op(1)}, recs)

	seq.Fallback = DecodeRaw(1)
	src = bitstream.New(buf)
	_, err = seq.Decode(src, opContext(WithStrict(true)), src.Len())
	require.ErrorAs(t, err, &ue)

	// no registry at all: everything falls back
	src = bitstream.New(buf)
	recs, err = seq.Decode(src, NewContext(), src.Len())
	require.NoError(t, err)
	assert.Equal(t, []Record{Raw{0x01}, Raw{0x99}}, recs)

	// a decoder that consumes nothing is an error
	seq.Fallback = DecodeRaw(0)
	src = bitstream.New(buf)
	_, err = seq.Decode(src, NewContext(), src.Len())
	assert.Error(t, err)
}

func TestEncodeRecordCounters(t *testing.T) {
	ctx := NewContext()
	recs := []nibbles{1, 2, 3}
	size, err := ProbeAll(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, Size(12), size)
	assert.Equal(t, 12, ctx.Get(nibbleBits))
	assert.Equal(t, 2, size.Bytes())
	assert.False(t, size.Whole())

	dst := bitstream.Make(2)
	require.NoError(t, EncodeAll(dst, ctx, recs))
	assert.Equal(t, []byte{0x12, 0x30}, dst.Bytes())
}

func TestEncodeRecordMismatch(t *testing.T) {
	dst := bitstream.Make(4)
	err := EncodeRecord(dst, NewContext(), badRecord{})
	var fe *FramingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 8, fe.Delta)
}

type badRecord struct{}

func (badRecord) Probe(ctx *Context) (Size, error) { return Bytes(1), nil }

func (badRecord) Encode(dst *bitstream.Stream, ctx *Context, size Size) error {
	return dst.WriteWord(0, 2)
}
