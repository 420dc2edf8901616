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

	"github.com/SnellerInc/swfcodec/bitstream"
)

// KeyFunc returns the discriminant of the next
// record in src without consuming it.
type KeyFunc func(src *bitstream.Stream, ctx *Context) (int, error)

// Sequence describes how a composite record
// decodes its list of polymorphic sub-records.
type Sequence struct {
	// Category selects the context registry.
	Category Category
	// Key reads the discriminant of the next record.
	Key KeyFunc
	// Fallback decodes records whose discriminant has
	// no registered decoder. It should preserve the
	// record verbatim. If Fallback is nil, unknown
	// records produce an *UnsupportedKindError.
	Fallback Decoder
	// Stop, if non-nil, ends the sequence after
	// a record for which it returns true.
	Stop func(r Record) bool
}

// Decode decodes records until the cursor reaches
// end or Stop accepts a record. The caller is
// responsible for checking the final position
// against its own declared length.
func (q *Sequence) Decode(src *bitstream.Stream, ctx *Context, end int) ([]Record, error) {
	var out []Record
	reg := ctx.Registry(q.Category)
	for src.Pos() < end {
		start := src.Pos()
		key, err := q.Key(src, ctx)
		if err != nil {
			return out, err
		}
		dec, ok := reg.Resolve(key)
		if !ok {
			if ctx.Strict() || q.Fallback == nil {
				return out, ctx.unsupported(q.Category, key, start)
			}
			dec = q.Fallback
		}
		r, err := dec(src, ctx)
		if err != nil {
			return out, err
		}
		if src.Pos() == start {
			return out, fmt.Errorf("swfcodec: %s decoder for code %d consumed no input", q.Category, key)
		}
		if !ok {
			if d, isDigest := r.(interface{ Digest() uint64 }); isDigest {
				ctx.opaque(q.Category, key, start, Size(src.Pos()-start).Bytes(), d.Digest())
			}
		}
		out = append(out, r)
		if q.Stop != nil && q.Stop(r) {
			break
		}
	}
	return out, nil
}

// EncodeAll encodes each record in order with EncodeRecord.
func EncodeAll[R Record](dst *bitstream.Stream, ctx *Context, records []R) error {
	for i := range records {
		if err := EncodeRecord(dst, ctx, records[i]); err != nil {
			return err
		}
	}
	return nil
}

// ProbeAll returns the sum of the probed
// sizes of records, probing them in order.
func ProbeAll[R Record](ctx *Context, records []R) (Size, error) {
	var total Size
	for i := range records {
		n, err := records[i].Probe(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
