// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"github.com/paulmach/orb"
)

// BoundingBox is a geographic rectangle in decimal degrees. Its edges are
// inclusive.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// NewBoundingBox returns the box spanned by two corners given in any order.
func NewBoundingBox(lat1, lon1, lat2, lon2 float64) BoundingBox {
	return BoundingBox{
		MinLat: min(lat1, lat2),
		MinLon: min(lon1, lon2),
		MaxLat: max(lat1, lat2),
		MaxLon: max(lon1, lon2),
	}
}

// BoundingBoxFromBound converts an orb.Bound (lon/lat points) to a box.
func BoundingBoxFromBound(b orb.Bound) BoundingBox {
	return BoundingBox{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}

func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// Bound returns the box as an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// containsAny reports whether any vertex lies inside the box. Shapes whose
// edges cross the box with every vertex outside are not detected.
func (b BoundingBox) containsAny(coords Coordinates) bool {
	for i := 0; i < coords.Len(); i++ {
		if b.Contains(coords.At(i)) {
			return true
		}
	}
	return false
}
