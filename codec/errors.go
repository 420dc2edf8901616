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
	"errors"
	"fmt"

	"github.com/SnellerInc/swfcodec/bitstream"
)

// OverrunError is returned when a read or write
// runs past the end of the session buffer.
type OverrunError = bitstream.OverrunError

// FramingError is returned when the declared length
// of a record disagrees with the number of bits its
// codec actually consumed or produced.
type FramingError struct {
	Record string // record type
	Start  int    // bit offset of the record header
	Length int    // declared payload length in bytes
	Delta  int    // bits consumed minus bits declared
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("swfcodec: %s at bit %d declared %d bytes but codec was off by %d bits", e.Record, e.Start, e.Length, e.Delta)
}

// Fatal always returns true. Once a record's
// accounting is wrong the cursor can no longer
// be trusted.
func (e *FramingError) Fatal() bool { return true }

// ValidationError is returned by record constructors
// and setters when a field value is outside its domain.
// The record is left unchanged.
type ValidationError struct {
	Field string
	Min   int64
	Max   int64
	Value int64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("swfcodec: %s %d out of range %d..%d", e.Field, e.Value, e.Min, e.Max)
}

// Fatal always returns false; the caller can fix
// the field and retry.
func (e *ValidationError) Fatal() bool { return false }

// CheckRange returns a *ValidationError if v
// is outside [min, max] and nil otherwise.
func CheckRange(field string, v, min, max int64) error {
	if v < min || v > max {
		return &ValidationError{Field: field, Min: min, Max: max, Value: v}
	}
	return nil
}

// UnsupportedKindError is returned when a record
// kind has no registered decoder and cannot be
// captured verbatim (strict mode, or no fallback),
// or when a decoder meets a variant it does not
// implement.
type UnsupportedKindError struct {
	Category Category
	Code     int
	Pos      int // bit offset of the record
	// Variant names the unimplemented form of a
	// registered record kind; empty when the code
	// has no decoder at all.
	Variant string
}

func (e *UnsupportedKindError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("swfcodec: %s record %d at bit %d uses unsupported variant %q", e.Category, e.Code, e.Pos, e.Variant)
	}
	return fmt.Sprintf("swfcodec: no %s decoder registered for code %d (0x%x) at bit %d", e.Category, e.Code, e.Code, e.Pos)
}

// Fatal returns false: the record boundaries are
// still known when this error is produced.
func (e *UnsupportedKindError) Fatal() bool { return false }

// IsFatal returns true if err (or any error it wraps)
// aborts the whole session. Overrun and framing
// errors are fatal; validation and unsupported-kind
// errors are not.
func IsFatal(err error) bool {
	var f interface{ Fatal() bool }
	if errors.As(err, &f) {
		return f.Fatal()
	}
	return false
}
