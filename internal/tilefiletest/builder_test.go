// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tilefiletest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/mapdata/internal/layout"
)

func TestBuilder_Layout(t *testing.T) {
	b := NewBuilder()
	b.Tile(7).Add(Feature{
		ID:          1,
		Type:        layout.Point,
		Coordinates: []layout.Coordinate{{Lat: 1, Lon: 2}},
		Label:       "ab",
		Properties:  []Property{{Key: "name", Value: "x"}},
	})
	b.Tile(9)
	data := b.Bytes()

	require.Equal(t, uint64(2), layout.UnmarshalFileHeader(data).TileCount)
	e0 := layout.UnmarshalTileEntry(data[layout.FileHeaderSize:])
	e1 := layout.UnmarshalTileEntry(data[layout.FileHeaderSize+layout.TileEntrySize:])
	assert.Equal(t, int32(7), e0.ID)
	assert.Equal(t, int32(9), e1.ID)
	assert.Equal(t, uint64(layout.FileHeaderSize+2*layout.TileEntrySize), e0.OffsetInBytes)

	h := layout.UnmarshalTileBlockHeader(data[e0.OffsetInBytes:])
	assert.Equal(t, uint32(1), h.FeaturesCount)
	assert.Equal(t, uint32(1), h.CoordinatesCount)
	assert.Equal(t, uint32(3), h.StringCount)
	// "name" + "x" + "ab"
	assert.Equal(t, uint32(7), h.CharactersCount)
	assert.Zero(t, e1.OffsetInBytes%8)
	assert.Equal(t, uint64(len(data)), e1.OffsetInBytes+layout.TileBlockHeaderSize)

	f := layout.UnmarshalFeature(data[e0.OffsetInBytes+layout.TileBlockHeaderSize:])
	assert.Equal(t, int32(0), f.PropertiesOffset)
	assert.Equal(t, int32(2), f.LabelOffset)

	c := layout.UnmarshalCoordinate(data[h.CoordinatesOffsetInBytes:])
	assert.Equal(t, layout.Coordinate{Lat: 1, Lon: 2}, c)

	label := layout.UnmarshalStringEntry(data[h.StringsOffsetInBytes+2*layout.StringEntrySize:])
	assert.Equal(t, layout.StringEntry{Offset: 5, Length: 2}, label)
	charOff := h.CharactersOffsetInBytes + uint64(label.Offset)*layout.CharSize
	assert.Equal(t, []byte{'a', 0, 'b', 0}, data[charOff:charOff+4])
}

func TestBuilder_PropertiesStartEven(t *testing.T) {
	b := NewBuilder()
	tile := b.Tile(1)
	tile.Add(Feature{ID: 1, Label: "first"})
	tile.Add(Feature{ID: 2, Properties: []Property{{Key: "amenity", Value: "bench"}}})
	data := b.Bytes()

	e := layout.UnmarshalTileEntry(data[layout.FileHeaderSize:])
	second := layout.UnmarshalFeature(data[e.OffsetInBytes+layout.TileBlockHeaderSize+layout.FeatureSize:])
	assert.Zero(t, second.PropertiesOffset%2)
	assert.Equal(t, int32(-1), second.LabelOffset)
}
