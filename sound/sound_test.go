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

package sound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

func roundTrip(t *testing.T, info *Info) []byte {
	t.Helper()
	ctx := codec.NewContext()
	size, err := info.Probe(ctx)
	require.NoError(t, err)
	dst := bitstream.Make(size.Bytes())
	require.NoError(t, codec.EncodeRecord(dst, ctx, info))

	src := bitstream.New(dst.Bytes())
	got, err := DecodeInfo(src, ctx)
	require.NoError(t, err)
	assert.True(t, src.AtEnd())
	assert.Equal(t, info, got)
	return dst.Bytes()
}

func TestInfoMinimal(t *testing.T) {
	info, err := NewInfo(3, Stop)
	require.NoError(t, err)
	buf := roundTrip(t, info)
	assert.Equal(t, []byte{0x03, 0x00, 0x20}, buf)
}

func TestInfoOptional(t *testing.T) {
	in, out := uint32(44100), uint32(88200)
	loops := uint16(4)
	l0, err := NewLevel(0, 0, MaxVolume)
	require.NoError(t, err)
	l1, err := NewLevel(44100, MaxVolume, 0)
	require.NoError(t, err)
	info := &Info{
		ID:        9,
		Mode:      Continue,
		InPoint:   &in,
		OutPoint:  &out,
		LoopCount: &loops,
		Envelope:  &Envelope{Levels: []Level{l0, l1}},
	}
	buf := roundTrip(t, info)
	assert.Len(t, buf, 3+4+4+2+1+2*levelSize)
	assert.Equal(t, byte(0x1f), buf[2])

	info.OutPoint = nil
	info.Envelope = nil
	buf = roundTrip(t, info)
	assert.Equal(t, byte(0x15), buf[2])
}

func TestValidation(t *testing.T) {
	var verr *codec.ValidationError
	_, err := NewInfo(0, Start)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sound id", verr.Field)

	_, err = NewInfo(1, Mode(3))
	require.ErrorAs(t, err, &verr)

	_, err = NewLevel(0, MaxVolume+1, 0)
	require.ErrorAs(t, err, &verr)

	_, err = (&Envelope{Levels: make([]Level, 256)}).Probe(codec.NewContext())
	require.ErrorAs(t, err, &verr)

	src := bitstream.New([]byte{0x01, 0x00, 0x70})
	_, err = DecodeInfo(src, codec.NewContext())
	require.ErrorAs(t, err, &verr)
	assert.False(t, codec.IsFatal(err))
}

func TestTruncatedEnvelope(t *testing.T) {
	src := bitstream.New([]byte{0x01, 0x00, 0x08, 0x02, 0x00, 0x00})
	_, err := DecodeInfo(src, codec.NewContext())
	var overrun *bitstream.OverrunError
	require.ErrorAs(t, err, &overrun)
	assert.True(t, codec.IsFatal(err))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "Continue", Continue.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
