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

package bitstream

import (
	"fmt"
)

// OverrunError is returned when an operation
// needs more bits than remain in the buffer.
// The cursor position is no longer meaningful
// once an OverrunError has been returned from
// a decoder, so the error is fatal to the session.
type OverrunError struct {
	Pos   int  // bit offset of the failed operation
	Want  int  // bits requested
	Have  int  // bits available
	Write bool // true if the operation was a write
	Seek  bool // true if the operation was a seek or skip
}

func (e *OverrunError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	} else if e.Seek {
		op = "seek"
	}
	return fmt.Sprintf("bitstream: %s of %d bits at bit %d overruns buffer (%d bits left)", op, e.Want, e.Pos, e.Have)
}

// Fatal always returns true.
func (e *OverrunError) Fatal() bool { return true }
