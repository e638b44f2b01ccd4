// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap maps files read-only into memory.
//
// The mapped bytes are shared with the page cache and must never be written
// to. They stay valid until Close; afterwards Data returns nil and any slice
// obtained earlier refers to unmapped memory.
package mmap

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var (
	ErrClosed      = errors.New("mmap: mapping is closed")
	ErrInvalidSize = errors.New("mmap: invalid file size")
)

// AccessPattern is a hint to the kernel about how mapped pages are read.
type AccessPattern int

const (
	AccessDefault AccessPattern = iota
	AccessRandom
	AccessSequential
	AccessWillNeed
)

// ReaderAt is a read-only mapping of a whole file.
type ReaderAt struct {
	data   []byte
	closed atomic.Bool
}

// Open maps the file at path. An empty file produces a valid mapping with
// no data.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// the mapping holds its own reference to the file
	defer func() {
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}

	size := fi.Size()
	if size < 0 || int64(int(size)) != size {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size == 0 {
		return &ReaderAt{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap: %w", err)
	}

	return &ReaderAt{data: data}, nil
}

// Data returns the mapped bytes, or nil once the mapping is closed.
func (r *ReaderAt) Data() []byte {
	if r.closed.Load() {
		return nil
	}
	return r.data
}

func (r *ReaderAt) Len() int {
	return len(r.data)
}

// Closed returns the flag flipped by Close. Views into the mapping hold on
// to it so they can refuse to read unmapped memory.
func (r *ReaderAt) Closed() *atomic.Bool {
	return &r.closed
}

// Advise passes an access pattern hint to madvise(2).
func (r *ReaderAt) Advise(pattern AccessPattern) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if len(r.data) == 0 {
		return nil
	}

	var advice int
	switch pattern {
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	default:
		advice = unix.MADV_NORMAL
	}
	if err := unix.Madvise(r.data, advice); err != nil {
		return fmt.Errorf("madvise: %w", err)
	}
	return nil
}

// Close unmaps the file. It is safe to call more than once.
func (r *ReaderAt) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	data := r.data
	r.data = nil
	if data == nil {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
