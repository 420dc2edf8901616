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

package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

func testContext() *codec.Context {
	return codec.NewContext(codec.WithRegistry(Category, Registry()))
}

func encodeList(t *testing.T, ctx *codec.Context, list []Action) []byte {
	t.Helper()
	size, err := ProbeList(ctx, list)
	require.NoError(t, err)
	dst := bitstream.Make(size.Bytes())
	require.NoError(t, EncodeList(dst, ctx, list))
	require.True(t, dst.AtEnd())
	return dst.Bytes()
}

func TestListRoundTrip(t *testing.T) {
	list := []Action{
		Basic(Play),
		&GotoFrame{Frame: 300},
		&GetURL{URL: "http://example.com/", Target: "_blank"},
		&SetTarget{Target: "clip"},
		&GotoLabel{Label: "intro"},
		Basic(Stop),
		Basic(End),
	}
	ctx := testContext()
	buf := encodeList(t, ctx, list)
	assert.Equal(t, []byte{0x06, 0x81, 0x02, 0x00, 0x2c, 0x01}, buf[:6])

	src := bitstream.New(buf)
	got, err := DecodeList(src, ctx, src.Len())
	require.NoError(t, err)
	assert.Equal(t, list, got)
	assert.True(t, src.AtEnd())
}

func TestUnknownOpcodes(t *testing.T) {
	buf := []byte{
		0x06,             // Play
		0x0a,             // unregistered, single byte
		0x96, 0x02, 0x00, // unregistered, two byte payload
		0x07, 0x07,
		0x00,
	}
	ctx := testContext()
	src := bitstream.New(buf)
	got, err := DecodeList(src, ctx, src.Len())
	require.NoError(t, err)
	assert.Equal(t, []Action{
		Basic(Play),
		Data{0x0a},
		Data{0x96, 0x02, 0x00, 0x07, 0x07},
		Basic(End),
	}, got)
	assert.Equal(t, uint8(0x96), got[2].Opcode())
	assert.Equal(t, buf, encodeList(t, ctx, got))

	strict := codec.NewContext(codec.WithRegistry(Category, Registry()), codec.WithStrict(true))
	src = bitstream.New(buf)
	_, err = DecodeList(src, strict, src.Len())
	var unsupported *codec.UnsupportedKindError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 0x0a, unsupported.Code)
	assert.Equal(t, 8, unsupported.Pos)
}

func TestNoRegistry(t *testing.T) {
	buf := []byte{0x06, 0x81, 0x02, 0x00, 0x01, 0x00, 0x00}
	ctx := codec.NewContext()
	src := bitstream.New(buf)
	got, err := DecodeList(src, ctx, src.Len())
	require.NoError(t, err)
	assert.Equal(t, []Action{Data(buf)}, got)
	assert.Equal(t, buf, encodeList(t, ctx, got))

	src = bitstream.New(nil)
	got, err = DecodeList(src, ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPayloadFraming(t *testing.T) {
	// GotoFrame declaring a three byte payload
	buf := []byte{0x81, 0x03, 0x00, 0x01, 0x00, 0x00}
	src := bitstream.New(buf)
	_, err := DecodeList(src, testContext(), src.Len())
	var framing *codec.FramingError
	require.ErrorAs(t, err, &framing)
	assert.Equal(t, "GotoFrame", framing.Record)
	assert.Equal(t, -8, framing.Delta)
	assert.True(t, codec.IsFatal(err))
}

func TestTruncated(t *testing.T) {
	buf := []byte{0x83, 0x04, 0x00, 'a', 0x00}
	src := bitstream.New(buf)
	_, err := DecodeList(src, testContext(), src.Len())
	var overrun *bitstream.OverrunError
	require.ErrorAs(t, err, &overrun)
}

func TestValidation(t *testing.T) {
	_, err := NewBasic(0x80)
	var verr *codec.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, codec.IsFatal(err))

	_, err = NewGotoFrame(70000)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int64(70000), verr.Value)

	g, err := NewGotoFrame(12)
	require.NoError(t, err)
	assert.Equal(t, uint16(12), g.Frame)

	_, err = Basic(0x90).Probe(codec.NewContext())
	require.ErrorAs(t, err, &verr)
}

func TestBasicString(t *testing.T) {
	assert.Equal(t, "Play", Basic(Play).String())
	assert.Equal(t, "Basic(0x1a)", Basic(0x1a).String())
}
