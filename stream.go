// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// FeatureData is everything needed to render one feature. Label and
// Coordinates point into the mapped file and are only valid until the
// Reader is closed; use Clone to keep a feature longer.
type FeatureData struct {
	ID          int64
	Type        GeometryType
	Label       Text
	Coordinates Coordinates
	Properties  Properties
}

// Clone returns a copy of d that owns all of its memory.
func (d FeatureData) Clone() FeatureData {
	d.Label = d.Label.clone()
	d.Coordinates = d.Coordinates.clone()
	d.Properties = append(Properties(nil), d.Properties...)
	return d
}

// Visitor is called for each feature ForEachFeature finds. Returning false
// stops the iteration.
type Visitor func(FeatureData) bool

// ForEachFeature calls visit for every feature with at least one vertex
// inside box, tile by tile in the order the spatial index names them.
// Tiles the index names but the file lacks are skipped. Iteration stops
// at the first false returned by visit, or at the first malformed record,
// whose *FormatError is returned.
//
// A nil visit returns immediately. visit may call other Reader methods,
// which fail with ErrClosed once a concurrent Close has begun, but it must
// not call Close itself.
func (r *Reader) ForEachFeature(box BoundingBox, visit Visitor) error {
	if visit == nil {
		return nil
	}

	if !r.acquire() {
		return ErrClosed
	}
	defer r.release()

	for _, id := range r.candidates(box) {
		tile, err := r.locate(id)
		if errors.Is(err, ErrNotFound) {
			r.logger.Debug("skipping tile missing from directory", "tile", id)
			continue
		} else if err != nil {
			return err
		}

		more, err := r.visitTile(tile, box, visit)
		if err != nil {
			return fmt.Errorf("tile %d: %w", id, err)
		}
		if !more {
			return nil
		}
	}
	return nil
}

// candidates returns the tiles to visit for box, never more than the
// directory holds when the index is a CountingIndex.
func (r *Reader) candidates(box BoundingBox) []int32 {
	idx, ok := r.index.(CountingIndex)
	if !ok {
		return r.index.TilesForBoundingBox(box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	}
	n := idx.Count(box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	if n <= r.tileCount {
		return idx.TilesForBoundingBox(box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	}

	r.logger.Debug("walking tile directory", "candidates", n, "tiles", r.tileCount)
	var ids []int32
	for i := 0; i < r.tileCount; i++ {
		id := r.entry(i).ID
		if idx.Covers(id, box.MinLat, box.MinLon, box.MaxLat, box.MaxLon) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (r *Reader) visitTile(tile Tile, box BoundingBox, visit Visitor) (more bool, err error) {
	for i := 0; i < tile.FeatureCount(); i++ {
		f, err := tile.Feature(i)
		if err != nil {
			return false, err
		}
		coords, err := tile.Coordinates(f)
		if err != nil {
			return false, fmt.Errorf("feature %d: %w", f.ID, err)
		}
		if !box.containsAny(coords) {
			continue
		}

		label, err := tile.Label(f)
		if err != nil {
			return false, fmt.Errorf("feature %d label: %w", f.ID, err)
		}
		props, err := r.properties(tile, f)
		if err != nil {
			return false, fmt.Errorf("feature %d: %w", f.ID, err)
		}

		if !visit(FeatureData{
			ID:          f.ID,
			Type:        f.GeometryType,
			Label:       label,
			Coordinates: coords,
			Properties:  props,
		}) {
			return false, nil
		}
	}
	return true, nil
}

// properties decodes and canonicalizes a feature's properties. Unknown
// keys are dropped; for repeated keys the first value wins.
func (r *Reader) properties(tile Tile, f Feature) (Properties, error) {
	if f.PropertyCount < 0 {
		return nil, formatErrorf("properties", "negative property count %d", f.PropertyCount)
	}
	props := make(Properties, 0, f.PropertyCount)
	for p := 0; p < int(f.PropertyCount); p++ {
		rawKey, value, err := tile.Property(f, p)
		if err != nil {
			return nil, err
		}
		key, ok := canonicalizeText(rawKey)
		if !ok {
			if r.logger.Enabled(context.Background(), slog.LevelDebug) {
				r.logger.Debug("dropping unrecognized property", "feature", f.ID, "key", rawKey.String())
			}
			continue
		}
		if props.Has(key) {
			r.logger.Debug("dropping duplicate property", "feature", f.ID, "key", key)
			continue
		}
		props = append(props, Property{Key: key, Value: value.String()})
	}
	return props, nil
}
