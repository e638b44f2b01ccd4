// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package layout

import (
	"encoding/binary"
	"math"
)

// The Append functions are the inverse of the Unmarshal functions. They
// exist so fixtures and test data can be produced; the reader never writes.

func AppendFileHeader(b []byte, h FileHeader) []byte {
	return binary.LittleEndian.AppendUint64(b, h.TileCount)
}

func AppendTileEntry(b []byte, e TileEntry) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(e.ID))
	b = binary.LittleEndian.AppendUint32(b, 0)
	return binary.LittleEndian.AppendUint64(b, e.OffsetInBytes)
}

func AppendTileBlockHeader(b []byte, h TileBlockHeader) []byte {
	b = binary.LittleEndian.AppendUint32(b, h.FeaturesCount)
	b = binary.LittleEndian.AppendUint32(b, h.CoordinatesCount)
	b = binary.LittleEndian.AppendUint64(b, h.CoordinatesOffsetInBytes)
	b = binary.LittleEndian.AppendUint64(b, h.StringsOffsetInBytes)
	b = binary.LittleEndian.AppendUint32(b, h.StringCount)
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = binary.LittleEndian.AppendUint64(b, h.CharactersOffsetInBytes)
	b = binary.LittleEndian.AppendUint32(b, h.CharactersCount)
	return binary.LittleEndian.AppendUint32(b, 0)
}

func AppendFeature(b []byte, f Feature) []byte {
	b = binary.LittleEndian.AppendUint64(b, uint64(f.ID))
	b = append(b, byte(f.GeometryType), 0, 0, 0)
	b = binary.LittleEndian.AppendUint32(b, uint32(f.CoordinateOffset))
	b = binary.LittleEndian.AppendUint32(b, uint32(f.CoordinateCount))
	b = binary.LittleEndian.AppendUint32(b, uint32(f.LabelOffset))
	b = binary.LittleEndian.AppendUint32(b, uint32(f.PropertiesOffset))
	return binary.LittleEndian.AppendUint32(b, uint32(f.PropertyCount))
}

func AppendCoordinate(b []byte, c Coordinate) []byte {
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(c.Lat))
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(c.Lon))
}

func AppendStringEntry(b []byte, e StringEntry) []byte {
	b = binary.LittleEndian.AppendUint32(b, e.Offset)
	return binary.LittleEndian.AppendUint32(b, e.Length)
}
