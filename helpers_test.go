// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/mapdata/internal/tilefiletest"
)

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.data")
	require.NoError(t, os.WriteFile(path, data, 0o444))
	return path
}

func openTestFile(t *testing.T, b *tilefiletest.Builder, opts ...Option) *Reader {
	t.Helper()
	r, err := Open(writeTestFile(t, b.Bytes()), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
	})
	return r
}

// fixedIndex always names the same tiles, in order.
func fixedIndex(ids ...int32) SpatialIndex {
	return SpatialIndexFunc(func(_, _, _, _ float64) []int32 {
		return ids
	})
}

func coords(latLons ...float64) []Coordinate {
	if len(latLons)%2 != 0 {
		panic("coords expects lat/lon pairs")
	}
	out := make([]Coordinate, 0, len(latLons)/2)
	for i := 0; i < len(latLons); i += 2 {
		out = append(out, Coordinate{Lat: latLons[i], Lon: latLons[i+1]})
	}
	return out
}
