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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry maps a record discriminant (a tag
// type code, an action opcode, ...) to the
// decoder for that kind of record.
//
// A Registry is not synchronized. It may be
// shared by concurrent sessions as long as it
// is not modified while they run.
type Registry[D any] struct {
	decoders map[int]D
}

// NewRegistry returns an empty Registry.
func NewRegistry[D any]() *Registry[D] {
	return &Registry[D]{decoders: make(map[int]D)}
}

// Register associates code with dec.
// Registering a code twice replaces the
// previous decoder.
func (r *Registry[D]) Register(code int, dec D) {
	if r.decoders == nil {
		r.decoders = make(map[int]D)
	}
	r.decoders[code] = dec
}

// Unregister removes the decoder for code, if any.
func (r *Registry[D]) Unregister(code int) {
	delete(r.decoders, code)
}

// Resolve returns the decoder for code.
// It returns false when code is not registered
// or when r is nil.
func (r *Registry[D]) Resolve(code int) (D, bool) {
	if r == nil {
		var zero D
		return zero, false
	}
	dec, ok := r.decoders[code]
	return dec, ok
}

// Len returns the number of registered codes.
func (r *Registry[D]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.decoders)
}

// Codes returns the registered codes in ascending order.
func (r *Registry[D]) Codes() []int {
	if r == nil {
		return nil
	}
	codes := maps.Keys(r.decoders)
	slices.Sort(codes)
	return codes
}

// Clone returns a copy of r that can be
// extended without affecting r.
func (r *Registry[D]) Clone() *Registry[D] {
	if r == nil {
		return NewRegistry[D]()
	}
	return &Registry[D]{decoders: maps.Clone(r.decoders)}
}
