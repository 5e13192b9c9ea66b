// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package plane

import (
	"io"
)

// Store is the memory a plane lives in.
//
// ReadAt and WriteAt follow io.ReaderAt and io.WriterAt.
type Store interface {
	io.ReaderAt
	io.WriterAt
	// Len returns the size of the store in bytes.
	Len() int
	// Fill sets every byte to v.
	Fill(v byte) error
}

// Buffer is a Store in host memory.
type Buffer []byte

// Len implements Store.
func (b Buffer) Len() int {
	return len(b)
}

// ReadAt implements io.ReaderAt.
func (b Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
func (b Buffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, io.ErrShortWrite
	}
	n := copy(b[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Fill implements Store.
func (b Buffer) Fill(v byte) error {
	for i := range b {
		b[i] = v
	}
	return nil
}
