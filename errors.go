// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrNotFound is returned by Reader.Tile for ids missing from the
	// tile directory.
	ErrNotFound = errors.New("tile not found")
	// ErrInvalidFormat is matched by every error caused by offsets or
	// counts in the file that don't describe valid data.
	ErrInvalidFormat = errors.New("invalid map data format")
	// ErrClosed is returned by queries on a closed Reader. Views used
	// after Close panic with it.
	ErrClosed = errors.New("map data reader is closed")
)

// FormatError describes malformed or truncated data.
type FormatError struct {
	Op     string
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidFormat, e.Op, e.Detail)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

func formatErrorf(op, format string, args ...any) *FormatError {
	return &FormatError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// span returns count records of size bytes starting at off, or a
// FormatError if they don't lie entirely within data.
func span(data []byte, op string, off, count, size uint64) ([]byte, error) {
	hi, n := bits.Mul64(count, size)
	if hi != 0 {
		return nil, formatErrorf(op, "%d records of %d bytes overflow", count, size)
	}
	end, carry := bits.Add64(off, n, 0)
	if carry != 0 || end > uint64(len(data)) {
		return nil, formatErrorf(op, "off %d + len %d beyond bounds (%d)", off, n, len(data))
	}
	return data[off:end:end], nil
}

// subspan is span for the signed record indexes and counts stored in
// feature records.
func subspan(table []byte, op string, index, count int64, size uint64) ([]byte, error) {
	if index < 0 || count < 0 {
		return nil, formatErrorf(op, "negative index %d or count %d", index, count)
	}
	hi, off := bits.Mul64(uint64(index), size)
	if hi != 0 {
		return nil, formatErrorf(op, "index %d overflows", index)
	}
	return span(table, op, off, uint64(count), size)
}
