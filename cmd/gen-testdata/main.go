// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata writes a synthetic map data file to stdout. Tile ids follow
// tiling.Grid at the default zoom, so the file can be queried with
// `tilecat query` without extra flags.
package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/bpowers/mapdata/internal/layout"
	"github.com/bpowers/mapdata/internal/tilefiletest"
	"github.com/bpowers/mapdata/tiling"
)

const (
	nFeatures = 100000
	// features are scattered within this many degrees of a center
	spread = 0.5
)

var centers = []struct {
	name     string
	lat, lon float64
}{
	{"Andorra la Vella", 42.5063, 1.5218},
	{"Bucharest", 44.4268, 26.1025},
	{"Cluj-Napoca", 46.7712, 23.6236},
	{"Reykjavík", 64.1466, -21.9426},
}

var tags = []tilefiletest.Property{
	{Key: "highway", Value: "residential"},
	{Key: "building", Value: "yes"},
	{Key: "amenity", Value: "cafe"},
	{Key: "natural", Value: "water"},
	{Key: "landuse", Value: "forest"},
	{Key: "waterway", Value: "river"},
	{Key: "admin_level", Value: "8"},
	{Key: "water_point", Value: "yes"},
	{Key: "source", Value: "survey"},
}

func newRand() *rand.Rand {
	var seedBytes [8]byte
	crand.Read(seedBytes[:])
	seed := int64(binary.LittleEndian.Uint64(seedBytes[:]))
	return rand.New(rand.NewSource(seed))
}

func main() {
	rng := newRand()
	grid := tiling.Grid{Zoom: tiling.DefaultZoom}

	byTile := make(map[int32][]tilefiletest.Feature)
	for i := 0; i < nFeatures; i++ {
		c := centers[rng.Intn(len(centers))]
		f := tilefiletest.Feature{
			ID:   int64(i),
			Type: layout.GeometryType(rng.Intn(3)),
		}
		lat := c.lat + (rng.Float64()*2-1)*spread
		lon := c.lon + (rng.Float64()*2-1)*spread
		n := 1
		if f.Type != layout.Point {
			n = 2 + rng.Intn(8)
		}
		for j := 0; j < n; j++ {
			f.Coordinates = append(f.Coordinates, layout.Coordinate{
				Lat: lat + rng.Float64()*0.001,
				Lon: lon + rng.Float64()*0.001,
			})
		}
		if f.Type == layout.Polygon {
			f.Coordinates = append(f.Coordinates, f.Coordinates[0])
		}
		if rng.Intn(4) == 0 {
			f.Label = fmt.Sprintf("%s %d", c.name, i)
			f.Properties = append(f.Properties, tilefiletest.Property{Key: "name", Value: f.Label})
		}
		for _, j := range rng.Perm(len(tags))[:rng.Intn(3)] {
			f.Properties = append(f.Properties, tags[j])
		}

		id := grid.ID(grid.At(f.Coordinates[0].Lat, f.Coordinates[0].Lon))
		byTile[id] = append(byTile[id], f)
	}

	ids := make([]int32, 0, len(byTile))
	for id := range byTile {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	b := tilefiletest.NewBuilder()
	for _, id := range ids {
		t := b.Tile(id)
		for _, f := range byTile[id] {
			t.Add(f)
		}
	}
	if _, err := os.Stdout.Write(b.Bytes()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
