// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"sync/atomic"

	"github.com/bpowers/mapdata/internal/layout"
)

type (
	Coordinate   = layout.Coordinate
	Feature      = layout.Feature
	GeometryType = layout.GeometryType
)

const (
	Point   = layout.Point
	Line    = layout.Line
	Polygon = layout.Polygon
)

// Tile is a view of one tile block. The feature, coordinate, string and
// character tables it points at are validated against the file length
// when the tile is located; per-feature offsets are validated on access.
type Tile struct {
	id       int32
	off      uint64
	header   layout.TileBlockHeader
	features []byte
	coords   []byte
	strings  []byte
	chars    []byte
	closed   *atomic.Bool
}

func newTile(data []byte, closed *atomic.Bool, e layout.TileEntry) (Tile, error) {
	hb, err := span(data, "tile block header", e.OffsetInBytes, 1, layout.TileBlockHeaderSize)
	if err != nil {
		return Tile{}, err
	}
	h := layout.UnmarshalTileBlockHeader(hb)

	t := Tile{
		id:     e.ID,
		off:    e.OffsetInBytes,
		header: h,
		closed: closed,
	}
	// the header fit, so this can't overflow
	featuresOff := e.OffsetInBytes + layout.TileBlockHeaderSize
	if t.features, err = span(data, "features", featuresOff, uint64(h.FeaturesCount), layout.FeatureSize); err != nil {
		return Tile{}, err
	}
	if t.coords, err = span(data, "coordinates", h.CoordinatesOffsetInBytes, uint64(h.CoordinatesCount), layout.CoordinateSize); err != nil {
		return Tile{}, err
	}
	if t.strings, err = span(data, "strings", h.StringsOffsetInBytes, uint64(h.StringCount), layout.StringEntrySize); err != nil {
		return Tile{}, err
	}
	if t.chars, err = span(data, "characters", h.CharactersOffsetInBytes, uint64(h.CharactersCount), layout.CharSize); err != nil {
		return Tile{}, err
	}
	return t, nil
}

func (t Tile) ID() int32 {
	return t.id
}

// Offset is the absolute byte offset of the tile block in the file.
func (t Tile) Offset() uint64 {
	return t.off
}

func (t Tile) Header() layout.TileBlockHeader {
	return t.header
}

func (t Tile) FeatureCount() int {
	return int(t.header.FeaturesCount)
}

// Feature decodes the i-th feature record of the tile.
func (t Tile) Feature(i int) (Feature, error) {
	guard(t.closed)
	b, err := subspan(t.features, "feature", int64(i), 1, layout.FeatureSize)
	if err != nil {
		return Feature{}, err
	}
	return layout.UnmarshalFeature(b), nil
}

// Coordinates returns the feature's coordinates without copying them.
func (t Tile) Coordinates(f Feature) (Coordinates, error) {
	guard(t.closed)
	b, err := subspan(t.coords, "feature coordinates", int64(f.CoordinateOffset), int64(f.CoordinateCount), layout.CoordinateSize)
	if err != nil {
		return Coordinates{}, err
	}
	return Coordinates{b: b, closed: t.closed}, nil
}

// Label returns the feature's label, or an empty Text if it has none.
func (t Tile) Label(f Feature) (Text, error) {
	if !f.HasLabel() {
		return Text{}, nil
	}
	return t.StringAt(int(f.LabelOffset))
}

// StringAt resolves entry i of the tile's string table.
func (t Tile) StringAt(i int) (Text, error) {
	guard(t.closed)
	eb, err := subspan(t.strings, "string entry", int64(i), 1, layout.StringEntrySize)
	if err != nil {
		return Text{}, err
	}
	e := layout.UnmarshalStringEntry(eb)
	b, err := span(t.chars, "string characters", uint64(e.Offset)*layout.CharSize, uint64(e.Length), layout.CharSize)
	if err != nil {
		return Text{}, err
	}
	return Text{b: b, closed: t.closed}, nil
}

// Property returns the raw key and value of the feature's p-th property.
func (t Tile) Property(f Feature, p int) (key, value Text, err error) {
	if p < 0 || p >= int(f.PropertyCount) {
		return Text{}, Text{}, formatErrorf("property", "index %d out of range (count %d)", p, f.PropertyCount)
	}
	return t.propertyPair(int(f.PropertiesOffset) + 2*p)
}

// propertyPair reads the key at string index i and the value after it.
// Keys always sit at even indices.
func (t Tile) propertyPair(i int) (key, value Text, err error) {
	if i%2 != 0 {
		return Text{}, Text{}, formatErrorf("property", "key at odd string index %d", i)
	}
	if key, err = t.StringAt(i); err != nil {
		return Text{}, Text{}, err
	}
	if value, err = t.StringAt(i + 1); err != nil {
		return Text{}, Text{}, err
	}
	return key, value, nil
}

// guard stops views from reading a mapping that has been unmapped, which
// would otherwise fault.
func guard(closed *atomic.Bool) {
	if closed != nil && closed.Load() {
		panic(ErrClosed)
	}
}
