// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"fmt"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Key is one of the property names the reader recognizes. The set is
// closed: properties with any other key are dropped while decoding.
type Key uint8

const (
	AdminLevel Key = iota
	Amenity
	Boundary
	Building
	Highway
	Landuse
	Leisure
	Name
	Natural
	Place
	Railway
	Water
	Waterway
	WaterPoint
)

var keyNames = [...]string{
	AdminLevel: "Admin_level",
	Amenity:    "Amenity",
	Boundary:   "Boundary",
	Building:   "Building",
	Highway:    "Highway",
	Landuse:    "Landuse",
	Leisure:    "Leisure",
	Name:       "Name",
	Natural:    "Natural",
	Place:      "Place",
	Railway:    "Railway",
	Water:      "Water",
	Waterway:   "Waterway",
	WaterPoint: "Water_point",
}

// every canonical name is ASCII and at most this long
const maxKeyLen = 16

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = Key(k)
	}
	return m
}()

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// Keys returns every recognized key in declaration order.
func Keys() []Key {
	keys := make([]Key, len(keyNames))
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Canonicalize upper-cases the first character of raw and looks the result
// up among the recognized keys. The rest of raw must match exactly, so
// "name" and "Name" are recognized but "NAME" is not. ok is false for
// unrecognized keys, which callers skip.
func Canonicalize(raw string) (key Key, ok bool) {
	if raw == "" || len(raw) > maxKeyLen {
		return 0, false
	}
	first, size := utf8.DecodeRuneInString(raw)

	var buf [maxKeyLen + utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], unicode.ToUpper(first))
	n += copy(buf[n:], raw[size:])
	key, ok = keysByName[string(buf[:n])]
	return key, ok
}

// canonicalizeText is Canonicalize for a key still in the mapped file.
func canonicalizeText(t Text) (key Key, ok bool) {
	units := t.Len()
	if units == 0 || units > maxKeyLen {
		return 0, false
	}
	first, rest := rune(t.At(0)), 1
	if utf16.IsSurrogate(first) && units > 1 {
		first, rest = utf16.DecodeRune(first, rune(t.At(1))), 2
	}

	var buf [maxKeyLen + utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], unicode.ToUpper(first))
	for i := rest; i < units; i++ {
		u := t.At(i)
		if u >= utf8.RuneSelf {
			return 0, false
		}
		buf[n] = byte(u)
		n++
	}
	key, ok = keysByName[string(buf[:n])]
	return key, ok
}

type Property struct {
	Key   Key
	Value string
}

// Properties holds a feature's recognized properties in file order. Each
// key appears at most once.
type Properties []Property

func (p Properties) Len() int {
	return len(p)
}

func (p Properties) Get(key Key) (string, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return "", false
}

func (p Properties) Has(key Key) bool {
	_, ok := p.Get(key)
	return ok
}

// Map copies the properties into a map.
func (p Properties) Map() map[Key]string {
	m := make(map[Key]string, len(p))
	for _, prop := range p {
		m[prop.Key] = prop.Value
	}
	return m
}
