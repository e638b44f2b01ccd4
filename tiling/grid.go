// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package tiling maps geographic bounding boxes to the tile identifiers a
// map data file is partitioned by.
package tiling

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const (
	// MaxZoom is the deepest zoom whose tile ids fit in an int32.
	MaxZoom = 15
	// DefaultZoom is the zoom level of the Grid used when a reader isn't
	// given an explicit index.
	DefaultZoom = 12

	// Web-Mercator tiles stop short of the poles.
	maxLatitude = 85.05112877980659
)

// Grid is the slippy-map tiling at a single zoom level. A tile's id is
// y<<Zoom | x, so ids grow west to east, then north to south.
type Grid struct {
	Zoom maptile.Zoom
}

func NewGrid(zoom int) (Grid, error) {
	if zoom < 0 || zoom > MaxZoom {
		return Grid{}, fmt.Errorf("zoom %d out of range [0, %d]", zoom, MaxZoom)
	}
	return Grid{Zoom: maptile.Zoom(zoom)}, nil
}

// ID returns the identifier of t, which must be at the grid's zoom.
func (g Grid) ID(t maptile.Tile) int32 {
	return int32(t.Y<<uint32(g.Zoom) | t.X)
}

// Tile is the inverse of ID.
func (g Grid) Tile(id int32) maptile.Tile {
	mask := uint32(1)<<uint32(g.Zoom) - 1
	return maptile.New(uint32(id)&mask, uint32(id)>>uint32(g.Zoom), g.Zoom)
}

// Bound returns the lon/lat extent of tile id.
func (g Grid) Bound(id int32) orb.Bound {
	return g.Tile(id).Bound()
}

// At returns the tile containing the given location.
func (g Grid) At(lat, lon float64) maptile.Tile {
	lat = clamp(lat, -maxLatitude, maxLatitude)
	lon = clamp(lon, -180, 180)
	t := maptile.At(orb.Point{lon, lat}, g.Zoom)
	last := uint32(1)<<uint32(g.Zoom) - 1
	if t.X > last {
		t.X = last
	}
	if t.Y > last {
		t.Y = last
	}
	return t
}

// TilesForBoundingBox returns every tile of the grid overlapping the box,
// row by row from the north-west corner, which is ascending id order.
// A box spanning the world names 4^Zoom tiles; call Count first when the
// box is not known to be small.
func (g Grid) TilesForBoundingBox(minLat, minLon, maxLat, maxLon float64) []int32 {
	nw, se := g.tileRange(minLat, minLon, maxLat, maxLon)
	ids := make([]int32, 0, g.Count(minLat, minLon, maxLat, maxLon))
	for y := nw.Y; y <= se.Y; y++ {
		for x := nw.X; x <= se.X; x++ {
			ids = append(ids, g.ID(maptile.New(x, y, g.Zoom)))
		}
	}
	return ids
}

// Count returns len(TilesForBoundingBox(...)) without building the ids.
func (g Grid) Count(minLat, minLon, maxLat, maxLon float64) int {
	nw, se := g.tileRange(minLat, minLon, maxLat, maxLon)
	return int(se.X-nw.X+1) * int(se.Y-nw.Y+1)
}

// Covers reports whether TilesForBoundingBox(...) would include id.
func (g Grid) Covers(id int32, minLat, minLon, maxLat, maxLon float64) bool {
	if id < 0 || uint32(id)>>(2*uint32(g.Zoom)) != 0 {
		return false
	}
	t := g.Tile(id)
	nw, se := g.tileRange(minLat, minLon, maxLat, maxLon)
	return t.X >= nw.X && t.X <= se.X && t.Y >= nw.Y && t.Y <= se.Y
}

// tileRange returns the north-west and south-east corner tiles of the box.
func (g Grid) tileRange(minLat, minLon, maxLat, maxLon float64) (nw, se maptile.Tile) {
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	return g.At(maxLat, minLon), g.At(minLat, maxLon)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
