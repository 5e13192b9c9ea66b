// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcpsram

import (
	"io"

	"github.com/GermanBionicSystems/epd/plane"
)

// Window is a range of the chip usable as a plane.Store.
type Window struct {
	d    *Dev
	base int
	n    int
}

// Base returns the chip address of the first byte.
func (w *Window) Base() int {
	return w.base
}

// Dev returns the chip holding the window.
func (w *Window) Dev() *Dev {
	return w.d
}

// Len implements plane.Store.
func (w *Window) Len() int {
	return w.n
}

// ReadAt implements io.ReaderAt.
func (w *Window) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off > int64(w.n) {
		return 0, io.EOF
	}
	n := min(len(p), w.n-int(off))
	if n == 0 {
		return 0, io.EOF
	}
	b, err := w.d.Read(w.base+int(off), n)
	if err != nil {
		return 0, err
	}
	copy(p, b)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
func (w *Window) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(w.n) {
		return 0, io.ErrShortWrite
	}
	n := min(len(p), w.n-int(off))
	if err := w.d.Write(w.base+int(off), p[:n]); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Fill implements plane.Store.
func (w *Window) Fill(v byte) error {
	return w.d.Erase(w.base, w.n, v)
}

var _ plane.Store = &Window{}
