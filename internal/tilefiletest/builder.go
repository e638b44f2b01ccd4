// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package tilefiletest builds synthetic map data files in memory. It is
// used by tests and by cmd/gen-testdata.
package tilefiletest

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"

	"github.com/bpowers/mapdata/internal/layout"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

type Property struct {
	Key   string
	Value string
}

// Feature describes a feature to be appended to a tile. An empty Label is
// written as "no label".
type Feature struct {
	ID          int64
	Type        layout.GeometryType
	Coordinates []layout.Coordinate
	Label       string
	Properties  []Property
}

// Builder accumulates tiles in directory order.
type Builder struct {
	tiles []*Tile
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Tile appends a new tile with the given id to the directory. Calling it
// twice with the same id produces a duplicate directory entry.
func (b *Builder) Tile(id int32) *Tile {
	t := &Tile{id: id}
	b.tiles = append(b.tiles, t)
	return t
}

type Tile struct {
	id       int32
	features []layout.Feature
	coords   []layout.Coordinate
	strings  []layout.StringEntry
	chars    []byte
}

// Add appends f, its coordinates and its strings to the tile.
func (t *Tile) Add(f Feature) *Tile {
	rec := layout.Feature{
		ID:               f.ID,
		GeometryType:     f.Type,
		CoordinateOffset: int32(len(t.coords)),
		CoordinateCount:  int32(len(f.Coordinates)),
		LabelOffset:      -1,
	}
	t.coords = append(t.coords, f.Coordinates...)
	// property keys must start at an even string index
	if len(t.strings)%2 != 0 {
		t.AddString("")
	}
	rec.PropertiesOffset = int32(len(t.strings))
	rec.PropertyCount = int32(len(f.Properties))
	for _, p := range f.Properties {
		t.AddString(p.Key)
		t.AddString(p.Value)
	}
	if f.Label != "" {
		rec.LabelOffset = int32(t.AddString(f.Label))
	}
	t.features = append(t.features, rec)
	return t
}

// AddRaw appends a feature record exactly as given, for building files
// with inconsistent offsets.
func (t *Tile) AddRaw(f layout.Feature) *Tile {
	t.features = append(t.features, f)
	return t
}

// AddString appends s to the string table and returns its index.
func (t *Tile) AddString(s string) int {
	encoded, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(fmt.Errorf("utf16 encode %q: %w", s, err))
	}
	t.strings = append(t.strings, layout.StringEntry{
		Offset: uint32(len(t.chars) / layout.CharSize),
		Length: uint32(len(encoded) / layout.CharSize),
	})
	t.chars = append(t.chars, encoded...)
	return len(t.strings) - 1
}

func (t *Tile) blockLen() int {
	n := layout.TileBlockHeaderSize +
		len(t.features)*layout.FeatureSize +
		len(t.coords)*layout.CoordinateSize +
		len(t.strings)*layout.StringEntrySize +
		len(t.chars)
	return n + padLen(n)
}

func (t *Tile) appendBlock(b []byte, off uint64) []byte {
	coordsOff := off + layout.TileBlockHeaderSize + uint64(len(t.features)*layout.FeatureSize)
	stringsOff := coordsOff + uint64(len(t.coords)*layout.CoordinateSize)
	charsOff := stringsOff + uint64(len(t.strings)*layout.StringEntrySize)

	b = layout.AppendTileBlockHeader(b, layout.TileBlockHeader{
		FeaturesCount:            uint32(len(t.features)),
		CoordinatesCount:         uint32(len(t.coords)),
		CoordinatesOffsetInBytes: coordsOff,
		StringsOffsetInBytes:     stringsOff,
		StringCount:              uint32(len(t.strings)),
		CharactersOffsetInBytes:  charsOff,
		CharactersCount:          uint32(len(t.chars) / layout.CharSize),
	})
	for _, f := range t.features {
		b = layout.AppendFeature(b, f)
	}
	for _, c := range t.coords {
		b = layout.AppendCoordinate(b, c)
	}
	for _, s := range t.strings {
		b = layout.AppendStringEntry(b, s)
	}
	b = append(b, t.chars...)
	// keep every tile block 8-byte aligned
	var zeroBuf [8]byte
	return append(b, zeroBuf[:padLen(len(t.chars))]...)
}

func padLen(n int) int {
	return (8 - n%8) % 8
}

// Bytes serializes the file.
func (b *Builder) Bytes() []byte {
	off := uint64(layout.FileHeaderSize + len(b.tiles)*layout.TileEntrySize)
	out := layout.AppendFileHeader(nil, layout.FileHeader{TileCount: uint64(len(b.tiles))})

	offsets := make([]uint64, len(b.tiles))
	for i, t := range b.tiles {
		offsets[i] = off
		off += uint64(t.blockLen())
	}
	for i, t := range b.tiles {
		out = layout.AppendTileEntry(out, layout.TileEntry{ID: t.id, OffsetInBytes: offsets[i]})
	}
	for i, t := range b.tiles {
		out = t.appendBlock(out, offsets[i])
	}
	if uint64(len(out)) != off {
		panic(fmt.Errorf("invariant broken: wrote %d bytes, expected %d", len(out), off))
	}
	return out
}

// WriteFile serializes the file to path, read-only.
func (b *Builder) WriteFile(path string) error {
	if err := os.WriteFile(path, b.Bytes(), 0o444); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}
	return nil
}
