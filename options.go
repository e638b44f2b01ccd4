// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"io"
	"log/slog"

	"github.com/bpowers/mapdata/internal/mmap"
	"github.com/bpowers/mapdata/tiling"
)

// SpatialIndex names the tiles that may hold features inside a bounding
// box. No particular order is required, but the order it returns is the
// order ForEachFeature visits tiles in.
type SpatialIndex interface {
	TilesForBoundingBox(minLat, minLon, maxLat, maxLon float64) []int32
}

// CountingIndex is a SpatialIndex that can size and test its candidate set
// without building it. When such an index would name more tiles than the
// file holds, ForEachFeature walks the tile directory instead, keeping the
// ids the index covers in ascending order. tiling.Grid implements it.
type CountingIndex interface {
	SpatialIndex
	Count(minLat, minLon, maxLat, maxLon float64) int
	Covers(id int32, minLat, minLon, maxLat, maxLon float64) bool
}

// SpatialIndexFunc adapts a function to a SpatialIndex.
type SpatialIndexFunc func(minLat, minLon, maxLat, maxLon float64) []int32

func (f SpatialIndexFunc) TilesForBoundingBox(minLat, minLon, maxLat, maxLon float64) []int32 {
	return f(minLat, minLon, maxLat, maxLon)
}

// AccessPattern is the paging hint given to the kernel for the mapping.
type AccessPattern = mmap.AccessPattern

const (
	AccessDefault    = mmap.AccessDefault
	AccessRandom     = mmap.AccessRandom
	AccessSequential = mmap.AccessSequential
	AccessWillNeed   = mmap.AccessWillNeed
)

// Option configures a Reader.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	index     SpatialIndex
	rtreeGrid *tiling.Grid
	access    AccessPattern
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:  tiling.Grid{Zoom: tiling.DefaultZoom},
		access: AccessRandom,
	}
}

// WithLogger sets an optional logger. If not provided, no logging output
// will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithSpatialIndex replaces the default grid used to find candidate tiles.
func WithSpatialIndex(index SpatialIndex) Option {
	return func(opts *options) {
		if index != nil {
			opts.index = index
			opts.rtreeGrid = nil
		}
	}
}

// WithRTreeIndex indexes the bounds grid assigns to the tiles present in
// the file, so queries only ever name tiles the directory contains.
func WithRTreeIndex(grid tiling.Grid) Option {
	return func(opts *options) {
		opts.rtreeGrid = &grid
	}
}

// WithAccessPattern overrides the default random-access paging hint.
func WithAccessPattern(pattern AccessPattern) Option {
	return func(opts *options) {
		opts.access = pattern
	}
}
