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

	"github.com/SnellerInc/swfcodec/compr"
)

func (c *Context) compression(algo string) string {
	if algo != "" {
		return algo
	}
	if c.config.Compression != "" {
		return c.config.Compression
	}
	return DefaultCompression
}

// EncodeCompressed encodes tags with EncodeStream
// and compresses the result with algo (or, if algo
// is empty, the configured compression). It returns
// the compressed body and the uncompressed size,
// which DecodeCompressed needs.
func EncodeCompressed(tags []Tag, ctx *Context, algo string) ([]byte, int, error) {
	name := ctx.compression(algo)
	comp := compr.Compression(name)
	if comp == nil {
		return nil, 0, fmt.Errorf("swfcodec: unknown compression %q", name)
	}
	body, err := EncodeStream(tags, ctx)
	if err != nil {
		return nil, 0, err
	}
	return comp.Compress(body, nil), len(body), nil
}

// DecodeCompressed decompresses a body of size
// uncompressed bytes and decodes it with DecodeStream.
func DecodeCompressed(buf []byte, size int, ctx *Context, algo string) ([]Tag, error) {
	name := ctx.compression(algo)
	dec := compr.Decompression(name)
	if dec == nil {
		return nil, fmt.Errorf("swfcodec: unknown compression %q", name)
	}
	if err := CheckRange("uncompressed size", int64(size), 0, MaxLength); err != nil {
		return nil, err
	}
	body := make([]byte, size)
	if err := dec.Decompress(buf, body); err != nil {
		return nil, fmt.Errorf("swfcodec: %s body: %w", name, err)
	}
	return DecodeStream(body, ctx)
}
