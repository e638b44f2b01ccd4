// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/mapdata/internal/tilefiletest"
)

func TestCanonicalize(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		key  Key
		want bool
	}{
		{"name", Name, true},
		{"Name", Name, true},
		{"admin_level", AdminLevel, true},
		{"water_point", WaterPoint, true},
		{"waterway", Waterway, true},
		{"water", Water, true},
		{"highway", Highway, true},
		{"unknown_tag", 0, false},
		{"NAME", 0, false},
		{"nAME", 0, false},
		{"Admin_Level", 0, false},
		{"name ", 0, false},
		{"", 0, false},
		{"a_really_long_key_that_matches_nothing", 0, false},
	} {
		key, ok := Canonicalize(tc.raw)
		assert.Equal(t, tc.want, ok, "Canonicalize(%q)", tc.raw)
		if tc.want {
			assert.Equal(t, tc.key, key, "Canonicalize(%q)", tc.raw)
		}
	}
}

func TestCanonicalize_EveryKey(t *testing.T) {
	keys := Keys()
	require.Len(t, keys, 14)
	for _, k := range keys {
		got, ok := Canonicalize(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "Key(200)", Key(200).String())
}

func TestCanonicalizeText_MatchesCanonicalize(t *testing.T) {
	raws := []string{"name", "amenity", "Water_point", "NAME", "ımportant", "unknown_tag", "ñame", "🗺name", "x"}
	b := tilefiletest.NewBuilder()
	tb := b.Tile(1)
	for _, raw := range raws {
		tb.AddString(raw)
	}
	r := openTestFile(t, b)
	tile, err := r.Tile(1)
	require.NoError(t, err)

	for i, raw := range raws {
		text, err := tile.StringAt(i)
		require.NoError(t, err)
		wantKey, wantOK := Canonicalize(raw)
		key, ok := canonicalizeText(text)
		assert.Equal(t, wantOK, ok, raw)
		assert.Equal(t, wantKey, key, raw)
	}
}

func TestCanonicalizeText_NoAllocs(t *testing.T) {
	b := tilefiletest.NewBuilder()
	b.Tile(1).AddString("landuse")
	r := openTestFile(t, b)
	tile, err := r.Tile(1)
	require.NoError(t, err)
	text, err := tile.StringAt(0)
	require.NoError(t, err)

	var key Key
	var ok bool
	allocs := testing.AllocsPerRun(10, func() {
		key, ok = canonicalizeText(text)
	})
	require.Zero(t, allocs)
	require.True(t, ok)
	require.Equal(t, Landuse, key)
}

func TestProperties(t *testing.T) {
	props := Properties{
		{Key: Name, Value: "Canillo"},
		{Key: Place, Value: "village"},
	}
	v, ok := props.Get(Place)
	assert.True(t, ok)
	assert.Equal(t, "village", v)
	_, ok = props.Get(Amenity)
	assert.False(t, ok)
	assert.True(t, props.Has(Name))
	assert.Equal(t, 2, props.Len())
	assert.Equal(t, map[Key]string{Name: "Canillo", Place: "village"}, props.Map())
}
