// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"bytes"
	"encoding/binary"
	"sync/atomic"

	"golang.org/x/text/encoding/unicode"

	"github.com/bpowers/mapdata/internal/layout"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Coordinates is a read-only view of a run of coordinates in a mapped
// file. It is valid until the Reader that produced it is closed.
type Coordinates struct {
	b      []byte
	closed *atomic.Bool
}

func (c Coordinates) Len() int {
	return len(c.b) / layout.CoordinateSize
}

func (c Coordinates) At(i int) Coordinate {
	guard(c.closed)
	off := i * layout.CoordinateSize
	return layout.UnmarshalCoordinate(c.b[off : off+layout.CoordinateSize])
}

// Slice copies the coordinates onto the heap.
func (c Coordinates) Slice() []Coordinate {
	out := make([]Coordinate, c.Len())
	for i := range out {
		out[i] = c.At(i)
	}
	return out
}

func (c Coordinates) clone() Coordinates {
	guard(c.closed)
	return Coordinates{b: bytes.Clone(c.b)}
}

// Text is a read-only view of a UTF-16LE string in a mapped file. It is
// valid until the Reader that produced it is closed.
type Text struct {
	b      []byte
	closed *atomic.Bool
}

// Len returns the length in UTF-16 code units.
func (t Text) Len() int {
	return len(t.b) / layout.CharSize
}

func (t Text) IsEmpty() bool {
	return len(t.b) == 0
}

// At returns the i-th UTF-16 code unit.
func (t Text) At(i int) uint16 {
	guard(t.closed)
	return binary.LittleEndian.Uint16(t.b[i*layout.CharSize:])
}

// Bytes returns the raw UTF-16LE bytes. They must not be modified.
func (t Text) Bytes() []byte {
	guard(t.closed)
	return t.b
}

// String decodes the text into a Go string. Unpaired surrogates become
// U+FFFD.
func (t Text) String() string {
	if len(t.b) == 0 {
		return ""
	}
	guard(t.closed)
	s, err := utf16le.NewDecoder().Bytes(t.b)
	if err != nil {
		// the decoder replaces invalid input rather than failing
		return ""
	}
	return string(s)
}

// Equal reports whether t holds exactly s.
func (t Text) Equal(s string) bool {
	return t.String() == s
}

func (t Text) clone() Text {
	if len(t.b) == 0 {
		return Text{}
	}
	guard(t.closed)
	return Text{b: bytes.Clone(t.b)}
}
