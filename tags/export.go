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

package tags

import (
	"github.com/SnellerInc/swfcodec/bitstream"
	"github.com/SnellerInc/swfcodec/codec"
)

// Symbol pairs an object identifier with
// the name it is exported under.
type Symbol struct {
	ID   uint16
	Name string
}

// Export makes objects available to other
// movies by name. Symbols keep their wire order;
// an identifier may appear more than once.
type Export struct {
	codec.Extended
	Symbols []Symbol
}

// Add validates and appends a symbol.
func (e *Export) Add(id int, name string) error {
	if err := checkID(id); err != nil {
		return err
	}
	e.Symbols = append(e.Symbols, Symbol{ID: uint16(id), Name: name})
	return nil
}

// Names returns the exported names by
// identifier. A later symbol with the same
// identifier replaces an earlier one.
func (e *Export) Names() map[uint16]string {
	m := make(map[uint16]string, len(e.Symbols))
	for _, s := range e.Symbols {
		m[s.ID] = s.Name
	}
	return m
}

func DecodeExport(src *bitstream.Stream, ctx *codec.Context, h codec.Header) (codec.Tag, error) {
	n, err := src.ReadWord(2, false)
	if err != nil {
		return nil, err
	}
	e := &Export{Extended: codec.Extended{Long: h.Forced()}}
	// each symbol takes at least three bytes
	if limit := (h.End() - src.Pos()) / 24; int(n) > limit {
		return nil, &codec.OverrunError{Pos: src.Pos(), Want: int(n) * 24, Have: h.End() - src.Pos()}
	}
	e.Symbols = make([]Symbol, n)
	for i := range e.Symbols {
		s := &e.Symbols[i]
		if s.ID, err = readID(src); err != nil {
			return nil, err
		}
		if s.Name, err = src.ReadString(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Export) Code() uint16 { return ExportCode }

func (e *Export) Probe(ctx *codec.Context) (codec.Size, error) {
	if err := codec.CheckRange("export count", int64(len(e.Symbols)), 0, 0xffff); err != nil {
		return 0, err
	}
	n := 2
	for _, s := range e.Symbols {
		n += 2 + codec.StringSize(s.Name)
	}
	return codec.Bytes(n), nil
}

func (e *Export) Encode(dst *bitstream.Stream, ctx *codec.Context, size codec.Size) error {
	if err := dst.WriteWord(int64(len(e.Symbols)), 2); err != nil {
		return err
	}
	for _, s := range e.Symbols {
		if err := dst.WriteWord(int64(s.ID), 2); err != nil {
			return err
		}
		if err := dst.WriteString(s.Name); err != nil {
			return err
		}
	}
	return nil
}
