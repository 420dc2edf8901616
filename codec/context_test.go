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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SnellerInc/swfcodec/bitstream"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry[Decoder]()
	_, ok := r.Resolve(1)
	assert.False(t, ok)

	first := DecodeRaw(1)
	second := DecodeRaw(2)
	r.Register(5, first)
	r.Register(1, first)
	r.Register(5, second)
	assert.Equal(t, []int{1, 5}, r.Codes())
	assert.Equal(t, 2, r.Len())

	// last registration wins
	dec, ok := r.Resolve(5)
	require.True(t, ok)
	rec, err := dec(bitstream.New([]byte{1, 2}), NewContext())
	require.NoError(t, err)
	assert.Equal(t, Raw{1, 2}, rec)

	c := r.Clone()
	c.Register(9, first)
	c.Unregister(1)
	assert.Equal(t, []int{1, 5}, r.Codes())
	assert.Equal(t, []int{5, 9}, c.Codes())

	var nilreg *Registry[Decoder]
	_, ok = nilreg.Resolve(1)
	assert.False(t, ok)
	assert.Equal(t, 0, nilreg.Len())
	assert.Nil(t, nilreg.Codes())
	assert.Equal(t, 0, nilreg.Clone().Len())

	var zero Registry[TagDecoder]
	zero.Register(1, DecodeOpaque)
	assert.Equal(t, 1, zero.Len())
}

func TestContextCounters(t *testing.T) {
	const width Var = "test.width"
	ctx := NewContext()
	_, ok := ctx.Lookup(width)
	assert.False(t, ok)
	assert.Equal(t, 0, ctx.Get(width))
	ctx.Set(width, 3)
	assert.Equal(t, 10, ctx.Add(width, 7))
	snap := ctx.Vars()
	ctx.Add(width, 1)
	assert.Equal(t, map[Var]int{width: 10}, snap)
	assert.Equal(t, 11, ctx.Get(width))

	ctx.Reset()
	_, ok = ctx.Lookup(width)
	assert.False(t, ok)

	ctx.Set(width, 1)
	ctx.Delete(width)
	assert.Empty(t, ctx.Vars())

	// a zero Context is usable
	var zero Context
	zero.Add(width, 2)
	assert.Equal(t, 2, zero.Get(width))
	assert.NotNil(t, zero.Logger())
	assert.Equal(t, 0, zero.Tags().Len())
}

func TestContextOptions(t *testing.T) {
	const cat Category = "test"
	reg := NewRegistry[Decoder]()
	tags := NewRegistry[TagDecoder]()
	l := zap.NewExample()
	ctx := NewContext(
		WithConfig(Config{LogUnknown: true, Compression: "zstd"}),
		WithStrict(true),
		WithLogger(l),
		WithTags(tags),
		WithRegistry(cat, reg),
	)
	assert.True(t, ctx.Strict())
	assert.Equal(t, Config{Strict: true, LogUnknown: true, Compression: "zstd"}, ctx.Config())
	assert.Same(t, l, ctx.Logger())
	assert.Same(t, tags, ctx.Tags())
	assert.Same(t, reg, ctx.Registry(cat))
	assert.Nil(t, ctx.Registry("other"))
	ctx.SetRegistry(cat, nil)
	assert.Nil(t, ctx.Registry(cat))

	// registries are preserved across Reset
	ctx.SetRegistry(cat, reg)
	ctx.Reset()
	assert.Same(t, reg, ctx.Registry(cat))
}

func TestConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("strict: true\nlog_unknown: true\ncompression: zstd\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{Strict: true, LogUnknown: true, Compression: "zstd"}, cfg)

	cfg, err = ParseConfig([]byte(`{"strict": false}`))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	_, err = ParseConfig([]byte("stirct: true\n"))
	assert.Error(t, err)
	_, err = ParseConfig([]byte("compression: lzma\n"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "codec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_unknown: true\n"), 0o644))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.LogUnknown)
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOpaqueLogging(t *testing.T) {
	input := []byte{0x43, 0x0c, 0xaa, 0xbb, 0xcc}
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := NewContext(WithLogger(zap.New(core)))
	_, err := DecodeStream(input, ctx)
	require.NoError(t, err)
	entries := logs.FilterMessage("captured unregistered record as opaque").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "tag", fields["category"])
	assert.Equal(t, int64(49), fields["code"])
	assert.Equal(t, int64(3), fields["length"])
	assert.Equal(t, ctx.Session().String(), fields["session"])

	core, logs = observer.New(zapcore.InfoLevel)
	ctx = NewContext(WithLogger(zap.New(core)), WithConfig(Config{LogUnknown: true}))
	_, err = DecodeStream(input, ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())

	core, logs = observer.New(zapcore.WarnLevel)
	ctx = NewContext(WithLogger(zap.New(core)), WithStrict(true))
	_, err = DecodeStream(input, ctx)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("rejecting unregistered record").Len())
}
