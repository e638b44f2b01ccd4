// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mapdata reads tiled map feature files in place.
//
// A file is mapped read-only and never parsed up front: Open validates the
// header and tile directory, and everything else is decoded lazily from the
// mapping when a tile is located. Coordinates and labels are returned as
// views into the file; they stay valid until the Reader is closed.
//
// The usual entry point is ForEachFeature, which streams every feature with
// a vertex inside a bounding box:
//
//	r, err := mapdata.Open("andorra.data")
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	box := mapdata.NewBoundingBox(42.4, 1.4, 42.6, 1.6)
//	err = r.ForEachFeature(box, func(f mapdata.FeatureData) bool {
//		name, _ := f.Properties.Get(mapdata.Name)
//		fmt.Println(f.ID, f.Type, name)
//		return true
//	})
package mapdata
