// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mapdata

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/mapdata/internal/layout"
	"github.com/bpowers/mapdata/internal/mmap"
	"github.com/bpowers/mapdata/tiling"
)

// Reader provides read-only access to a memory-mapped map data file.
//
// A Reader is safe for concurrent use. Close waits for in-flight calls to
// ForEachFeature to return before unmapping the file; once Close has begun,
// new calls fail with ErrClosed, including calls made from a Visitor.
type Reader struct {
	mu       sync.Mutex
	closing  bool
	inflight sync.WaitGroup

	mmap      *mmap.ReaderAt
	data      []byte
	directory []byte
	tileCount int
	index     SpatialIndex
	logger    *slog.Logger
}

// Open maps the file at path and validates that its header and tile
// directory are present. Errors opening or mapping the file are returned
// wrapped; a file too short for its own directory fails with an error
// matching ErrInvalidFormat.
func Open(path string, opts ...Option) (*Reader, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}

	r, err := newReader(m, options)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	if err := m.Advise(options.access); err != nil {
		// only a hint; reads work regardless
		r.logger.Debug("madvise failed", "path", path, "err", err)
	}

	r.logger.Info("opened map data file", "path", path, "tiles", r.tileCount, "bytes", len(r.data))
	return r, nil
}

func newReader(m *mmap.ReaderAt, options options) (*Reader, error) {
	data := m.Data()
	if len(data) < layout.FileHeaderSize {
		return nil, formatErrorf("file header", "data file too short: %d < %d", len(data), layout.FileHeaderSize)
	}

	header := layout.UnmarshalFileHeader(data)
	directory, err := span(data, "tile directory", layout.FileHeaderSize, header.TileCount, layout.TileEntrySize)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		mmap:      m,
		data:      data,
		directory: directory,
		tileCount: int(header.TileCount),
		index:     options.index,
		logger:    options.logger,
	}
	if options.rtreeGrid != nil {
		r.index = tiling.NewRTree(*options.rtreeGrid, r.tileIDs())
	}
	return r, nil
}

// Close unmaps the file once every in-flight call has returned. Views
// handed out by the Reader must not be used afterwards. Close must not be
// called from inside a Visitor, which would wait on itself.
func (r *Reader) Close() error {
	r.mu.Lock()
	r.closing = true
	r.mu.Unlock()

	r.inflight.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	r.directory = nil
	return r.mmap.Close()
}

// acquire registers an in-flight call, and fails once Close has begun.
// Every successful acquire must be paired with a release.
func (r *Reader) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closing {
		return false
	}
	r.inflight.Add(1)
	return true
}

func (r *Reader) release() {
	r.inflight.Done()
}

func (r *Reader) isClosing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closing
}

// TileCount returns the number of entries in the tile directory.
func (r *Reader) TileCount() int {
	return r.tileCount
}

// Size returns the length of the mapped file in bytes, or 0 once the
// Reader is closing.
func (r *Reader) Size() int {
	if !r.acquire() {
		return 0
	}
	defer r.release()
	return r.mmap.Len()
}

// TileIDs returns the ids in the tile directory, in directory order.
func (r *Reader) TileIDs() ([]int32, error) {
	if !r.acquire() {
		return nil, ErrClosed
	}
	defer r.release()
	return r.tileIDs(), nil
}

func (r *Reader) tileIDs() []int32 {
	ids := make([]int32, r.tileCount)
	for i := range ids {
		ids[i] = r.entry(i).ID
	}
	return ids
}

// Fingerprint hashes the entire mapped file. Two readers with the same
// fingerprint are reading the same bytes (with high probability).
func (r *Reader) Fingerprint() (uint64, error) {
	if !r.acquire() {
		return 0, ErrClosed
	}
	defer r.release()
	return farm.Fingerprint64(r.data), nil
}

func (r *Reader) entry(i int) layout.TileEntry {
	off := i * layout.TileEntrySize
	return layout.UnmarshalTileEntry(r.directory[off : off+layout.TileEntrySize])
}

// Tile finds the first directory entry for id and returns a view of its
// tile block. Tile ids absent from the directory produce ErrNotFound.
func (r *Reader) Tile(id int32) (Tile, error) {
	if !r.acquire() {
		return Tile{}, ErrClosed
	}
	defer r.release()
	return r.locate(id)
}

// locate scans the directory linearly; queries touch a handful of tiles,
// so no index is kept over it. Callers hold an in-flight reference.
func (r *Reader) locate(id int32) (Tile, error) {
	for i := 0; i < r.tileCount; i++ {
		e := r.entry(i)
		if e.ID == id {
			t, err := newTile(r.data, r.mmap.Closed(), e)
			if err != nil {
				return Tile{}, fmt.Errorf("tile %d: %w", id, err)
			}
			return t, nil
		}
	}
	return Tile{}, fmt.Errorf("tile %d: %w", id, ErrNotFound)
}
