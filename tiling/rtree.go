// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tiling

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minExtent keeps degenerate (point or line) boxes valid rtreego rects.
const minExtent = 1e-9

// RTree indexes the bounds of a known set of tiles, typically the tiles
// actually present in a file, so queries never name absent tiles.
type RTree struct {
	tree *rtreego.Rtree
}

type tileEntry struct {
	id    int32
	bound orb.Bound
}

// Bounds implements rtreego.Spatial.
func (e tileEntry) Bounds() rtreego.Rect {
	return rectFor(e.bound.Min.Lat(), e.bound.Min.Lon(), e.bound.Max.Lat(), e.bound.Max.Lon())
}

func rectFor(minLat, minLon, maxLat, maxLon float64) rtreego.Rect {
	point := rtreego.Point{minLon, minLat}
	lengths := []float64{
		max(maxLon-minLon, minExtent),
		max(maxLat-minLat, minExtent),
	}
	// lengths are positive, so NewRect can't fail
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// NewRTree indexes ids using the extents grid assigns them. Duplicate ids
// are indexed once.
func NewRTree(grid Grid, ids []int32) *RTree {
	seen := make(map[int32]struct{}, len(ids))
	objs := make([]rtreego.Spatial, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		objs = append(objs, tileEntry{id: id, bound: polarBound(grid, id)})
	}
	return &RTree{
		// 2D, min=25 children, max=50 children
		tree: rtreego.NewTree(2, 25, 50, objs...),
	}
}

// polarBound is the tile's extent, with the first and last rows stretched
// to the poles since Grid.At clamps latitudes beyond Web-Mercator into them.
func polarBound(grid Grid, id int32) orb.Bound {
	b := grid.Bound(id)
	last := uint32(1)<<uint32(grid.Zoom) - 1
	t := grid.Tile(id)
	if t.Y == 0 {
		b.Max[1] = 90
	}
	if t.Y == last {
		b.Min[1] = -90
	}
	return b
}

func (t *RTree) Len() int {
	return t.tree.Size()
}

// TilesForBoundingBox returns the indexed tiles intersecting the box in
// ascending id order.
func (t *RTree) TilesForBoundingBox(minLat, minLon, maxLat, maxLon float64) []int32 {
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	minLat, maxLat = clamp(minLat, -90, 90), clamp(maxLat, -90, 90)
	minLon, maxLon = clamp(minLon, -180, 180), clamp(maxLon, -180, 180)
	spatials := t.tree.SearchIntersect(rectFor(minLat, minLon, maxLat, maxLon))
	ids := make([]int32, 0, len(spatials))
	for _, s := range spatials {
		ids = append(ids, s.(tileEntry).id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
