// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tiling

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRTree_OnlyIndexedTiles(t *testing.T) {
	g := Grid{Zoom: 2}
	ne := g.ID(g.At(60, 100))
	sw := g.ID(g.At(-60, -100))
	require.NotEqual(t, ne, sw)

	idx := NewRTree(g, []int32{ne, sw, ne})
	assert.Equal(t, 2, idx.Len())

	// the grid names all 16 tiles, the tree only the two it knows about
	require.Len(t, g.TilesForBoundingBox(-85, -180, 85, 180), 16)
	assert.Equal(t, []int32{ne, sw}, sortedCopy(idx.TilesForBoundingBox(-85, -180, 85, 180)))

	assert.Equal(t, []int32{ne}, idx.TilesForBoundingBox(55, 95, 65, 105))
	assert.Empty(t, idx.TilesForBoundingBox(-10, -10, 10, 10))
}

func TestRTree_DegenerateBox(t *testing.T) {
	g := Grid{Zoom: 3}
	id := g.ID(g.At(10, 10))
	idx := NewRTree(g, []int32{id})
	assert.Equal(t, []int32{id}, idx.TilesForBoundingBox(10, 10, 10, 10))
}

func TestRTree_AgreesWithGrid(t *testing.T) {
	g := Grid{Zoom: 5}
	all := g.TilesForBoundingBox(-85, -180, 85, 180)
	idx := NewRTree(g, all)

	// a box strictly inside tile boundaries selects the same tiles from both
	want := sortedCopy(g.TilesForBoundingBox(41.1, 1.1, 42.9, 3.9))
	assert.Equal(t, want, idx.TilesForBoundingBox(41.1, 1.1, 42.9, 3.9))
}

func TestRTree_AgreesWithGridBeyondMercator(t *testing.T) {
	g := Grid{Zoom: 2}
	idx := NewRTree(g, g.TilesForBoundingBox(-85, -180, 85, 180))

	for name, box := range map[string][4]float64{
		"arctic":        {86, -10, 89, 10},
		"antarctic":     {-89, -100, -86, 100},
		"past the pole": {87, 100, 95, 170},
		"whole world":   {-90, -180, 90, 180},
	} {
		t.Run(name, func(t *testing.T) {
			want := sortedCopy(g.TilesForBoundingBox(box[0], box[1], box[2], box[3]))
			require.NotEmpty(t, want)
			assert.Equal(t, want, idx.TilesForBoundingBox(box[0], box[1], box[2], box[3]))
		})
	}
}

func sortedCopy(ids []int32) []int32 {
	out := append([]int32(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
