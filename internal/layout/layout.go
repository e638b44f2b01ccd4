// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package layout defines the on-disk records of a tiled map data file.
//
// A file looks like:
//
//	┌────────────────────────┐
//	│ file header            │  TileCount u64
//	├────────────────────────┤
//	│ tile directory         │  TileCount × {ID i32, pad, OffsetInBytes u64}
//	├────────────────────────┤
//	│ tile block             │  one per directory entry, at OffsetInBytes
//	│   tile block header    │
//	│   features             │  FeaturesCount × MapFeature
//	│   ...                  │
//	│   coordinates          │  at CoordinatesOffsetInBytes
//	│   string entries       │  at StringsOffsetInBytes
//	│   characters (UTF-16)  │  at CharactersOffsetInBytes
//	├────────────────────────┤
//	│ tile block ...         │
//	└────────────────────────┘
//
// Everything is little-endian. Records are fixed size and keep their fields
// naturally aligned with explicit reserved padding:
//
//	TileBlockHeader (48 bytes)
//	 0               4               8
//	+---------------+---------------+
//	| featuresCount | coordsCount   |
//	+---------------+---------------+
//	| coordinatesOffsetInBytes      |
//	+-------------------------------+
//	| stringsOffsetInBytes          |
//	+---------------+---------------+
//	| stringCount   | reserved      |
//	+---------------+---------------+
//	| charactersOffsetInBytes       |
//	+---------------+---------------+
//	| charsCount    | reserved      |
//	+---------------+---------------+
//
//	MapFeature (32 bytes)
//	 0   1   2   3   4   5   6   7   8
//	+---+---+---+---+---+---+---+---+
//	| id (i64)                      |
//	+---+---+---+---+---+---+---+---+
//	|gt | reserved  | coordOffset   |
//	+---+---+---+---+---+---+---+---+
//	| coordCount    | labelOffset   |
//	+---+---+---+---+---+---+---+---+
//	| propsOffset   | propCount     |
//	+---+---+---+---+---+---+---+---+
//
// String entries point into the tile's character buffer in UTF-16 code
// units, not bytes.
package layout

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	FileHeaderSize      = 8
	TileEntrySize       = 16
	TileBlockHeaderSize = 48
	FeatureSize         = 32
	CoordinateSize      = 16
	StringEntrySize     = 8
	CharSize            = 2
)

// field offsets within each record
const (
	blockFeaturesCountOff = 0
	blockCoordsCountOff   = 4
	blockCoordsOffsetOff  = 8
	blockStringsOffsetOff = 16
	blockStringCountOff   = 24
	blockCharsOffsetOff   = 32
	blockCharsCountOff    = 40
	featureIDOff          = 0
	featureGeometryOff    = 8
	featureCoordOffsetOff = 12
	featureCoordCountOff  = 16
	featureLabelOffsetOff = 20
	featurePropsOffsetOff = 24
	featurePropCountOff   = 28
	tileEntryIDOff        = 0
	tileEntryOffsetOff    = 8
	stringEntryOffsetOff  = 0
	stringEntryLengthOff  = 4
	coordinateLatOff      = 0
	coordinateLonOff      = 8
)

// GeometryType is the kind of shape a feature's coordinates describe.
type GeometryType uint8

const (
	Point GeometryType = iota
	Line
	Polygon
)

func (t GeometryType) String() string {
	switch t {
	case Point:
		return "Point"
	case Line:
		return "Line"
	case Polygon:
		return "Polygon"
	default:
		return fmt.Sprintf("GeometryType(%d)", uint8(t))
	}
}

type FileHeader struct {
	TileCount uint64
}

type TileEntry struct {
	ID            int32
	OffsetInBytes uint64
}

type TileBlockHeader struct {
	FeaturesCount            uint32
	CoordinatesCount         uint32
	CoordinatesOffsetInBytes uint64
	StringsOffsetInBytes     uint64
	StringCount              uint32
	CharactersOffsetInBytes  uint64
	CharactersCount          uint32
}

type Feature struct {
	ID               int64
	GeometryType     GeometryType
	CoordinateOffset int32
	CoordinateCount  int32
	LabelOffset      int32
	PropertiesOffset int32
	PropertyCount    int32
}

// HasLabel reports whether the feature references a label string.
func (f Feature) HasLabel() bool {
	return f.LabelOffset >= 0
}

type Coordinate struct {
	Lat float64
	Lon float64
}

type StringEntry struct {
	Offset uint32
	Length uint32
}

// The Unmarshal functions expect b to hold at least a full record; callers
// are responsible for bounds checking against the mapping first.

func UnmarshalFileHeader(b []byte) FileHeader {
	_ = b[FileHeaderSize-1]
	return FileHeader{TileCount: binary.LittleEndian.Uint64(b[0:8])}
}

func UnmarshalTileEntry(b []byte) TileEntry {
	_ = b[TileEntrySize-1]
	return TileEntry{
		ID:            int32(binary.LittleEndian.Uint32(b[tileEntryIDOff:])),
		OffsetInBytes: binary.LittleEndian.Uint64(b[tileEntryOffsetOff:]),
	}
}

func UnmarshalTileBlockHeader(b []byte) TileBlockHeader {
	_ = b[TileBlockHeaderSize-1]
	return TileBlockHeader{
		FeaturesCount:            binary.LittleEndian.Uint32(b[blockFeaturesCountOff:]),
		CoordinatesCount:         binary.LittleEndian.Uint32(b[blockCoordsCountOff:]),
		CoordinatesOffsetInBytes: binary.LittleEndian.Uint64(b[blockCoordsOffsetOff:]),
		StringsOffsetInBytes:     binary.LittleEndian.Uint64(b[blockStringsOffsetOff:]),
		StringCount:              binary.LittleEndian.Uint32(b[blockStringCountOff:]),
		CharactersOffsetInBytes:  binary.LittleEndian.Uint64(b[blockCharsOffsetOff:]),
		CharactersCount:          binary.LittleEndian.Uint32(b[blockCharsCountOff:]),
	}
}

func UnmarshalFeature(b []byte) Feature {
	_ = b[FeatureSize-1]
	return Feature{
		ID:               int64(binary.LittleEndian.Uint64(b[featureIDOff:])),
		GeometryType:     GeometryType(b[featureGeometryOff]),
		CoordinateOffset: int32(binary.LittleEndian.Uint32(b[featureCoordOffsetOff:])),
		CoordinateCount:  int32(binary.LittleEndian.Uint32(b[featureCoordCountOff:])),
		LabelOffset:      int32(binary.LittleEndian.Uint32(b[featureLabelOffsetOff:])),
		PropertiesOffset: int32(binary.LittleEndian.Uint32(b[featurePropsOffsetOff:])),
		PropertyCount:    int32(binary.LittleEndian.Uint32(b[featurePropCountOff:])),
	}
}

func UnmarshalCoordinate(b []byte) Coordinate {
	_ = b[CoordinateSize-1]
	return Coordinate{
		Lat: math.Float64frombits(binary.LittleEndian.Uint64(b[coordinateLatOff:])),
		Lon: math.Float64frombits(binary.LittleEndian.Uint64(b[coordinateLonOff:])),
	}
}

func UnmarshalStringEntry(b []byte) StringEntry {
	_ = b[StringEntrySize-1]
	return StringEntry{
		Offset: binary.LittleEndian.Uint32(b[stringEntryOffsetOff:]),
		Length: binary.LittleEndian.Uint32(b[stringEntryLengthOff:]),
	}
}
