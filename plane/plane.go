// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package plane

import (
	"errors"
	"fmt"
	"image"
)

// ErrSize is returned when a Store does not exactly cover a plane.
var ErrSize = errors.New("plane: store size mismatch")

// Format is the pixel packing of a plane.
type Format int

const (
	// Mono packs 8 pixels per byte, most significant bit first.
	Mono Format = iota
	// Packed2 packs 4 pixels of 2 bits per byte, most significant pair first.
	Packed2
)

// BitsPerPixel returns 1 or 2.
func (f Format) BitsPerPixel() int {
	if f == Packed2 {
		return 2
	}
	return 1
}

func (f Format) String() string {
	switch f {
	case Mono:
		return "Mono"
	case Packed2:
		return "Packed2"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FillPattern returns the byte that sets every pixel of a byte to v.
//
// For Mono, any non zero v gives 0xFF. For Packed2, v is masked to 2 bits and
// the result is one of 0x00, 0x55, 0xAA or 0xFF.
func FillPattern(f Format, v byte) byte {
	if f == Packed2 {
		return (v & 3) * 0x55
	}
	if v != 0 {
		return 0xFF
	}
	return 0x00
}

// Stride returns the number of bytes used by one row of w pixels.
//
// Rows are padded to a multiple of 8 pixels.
func Stride(w int, f Format) int {
	return (w + 7) / 8 * f.BitsPerPixel()
}

// Size returns the number of bytes needed to hold a w x h plane.
func Size(w, h int, f Format) int {
	return Stride(w, f) * h
}

// Addr locates a pixel in the backing store.
type Addr struct {
	// Index is the byte offset in the store.
	Index int
	// Shift is the bit position of the least significant bit of the pixel.
	Shift uint
	// Bits is the number of bits per pixel.
	Bits int
}

// Mask returns the bits of the byte at Index used by the pixel.
func (a Addr) Mask() byte {
	return byte((1<<a.Bits)-1) << a.Shift
}

// Plane is a bitmap of raw pixel values stored in a Store.
//
// Width and height are physical; coordinates passed to the drawing methods are
// logical and go through the rotation first. The size never changes after
// New.
type Plane struct {
	w, h     int
	f        Format
	stride   int
	rot      Rotation
	inverted bool
	s        Store
}

// New returns a plane of w x h pixels backed by s.
//
// s must be exactly Size(w, h, f) bytes long.
func New(w, h int, f Format, s Store) (*Plane, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("plane: invalid dimensions %dx%d", w, h)
	}
	if f != Mono && f != Packed2 {
		return nil, fmt.Errorf("plane: unknown format %s", f)
	}
	if n := Size(w, h, f); s.Len() != n {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrSize, s.Len(), n)
	}
	return &Plane{w: w, h: h, f: f, stride: Stride(w, f), s: s}, nil
}

// NewBuffer returns a plane backed by a new zeroed Buffer.
func NewBuffer(w, h int, f Format) (*Plane, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("plane: invalid dimensions %dx%d", w, h)
	}
	return New(w, h, f, make(Buffer, Size(w, h, f)))
}

func (p *Plane) String() string {
	return fmt.Sprintf("plane.Plane{%dx%d, %s, %s}", p.w, p.h, p.f, p.rot)
}

// Width returns the physical width.
func (p *Plane) Width() int { return p.w }

// Height returns the physical height.
func (p *Plane) Height() int { return p.h }

// Format returns the pixel packing.
func (p *Plane) Format() Format { return p.f }

// Stride returns the number of bytes per physical row.
func (p *Plane) Stride() int { return p.stride }

// Store returns the backing store.
func (p *Plane) Store() Store { return p.s }

// Inverted reports whether a cleared bit means the active color.
func (p *Plane) Inverted() bool { return p.inverted }

// SetInverted sets the polarity of the plane.
func (p *Plane) SetInverted(v bool) { p.inverted = v }

// Rotation returns the current rotation.
func (p *Plane) Rotation() Rotation { return p.rot }

// SetRotation changes how logical coordinates map to physical ones.
func (p *Plane) SetRotation(r Rotation) { p.rot = r & 3 }

// Bounds returns the logical bounds, swapped for odd rotations.
func (p *Plane) Bounds() image.Rectangle {
	if p.rot&1 != 0 {
		return image.Rect(0, 0, p.h, p.w)
	}
	return image.Rect(0, 0, p.w, p.h)
}

// physical maps logical coordinates to physical ones.
//
// Mirrored axes use the physical width, not the stride, so the padding at the
// end of each row is never reached whatever the rotation.
func (p *Plane) physical(x, y int) (int, int) {
	switch p.rot {
	case Rotate90:
		return p.w - 1 - y, x
	case Rotate180:
		return p.w - 1 - x, p.h - 1 - y
	case Rotate270:
		return y, p.h - 1 - x
	default:
		return x, y
	}
}

// Address returns where the logical pixel (x, y) is stored.
//
// It returns false when the coordinates are out of bounds.
func (p *Plane) Address(x, y int) (Addr, bool) {
	if !(image.Point{x, y}).In(p.Bounds()) {
		return Addr{}, false
	}
	px, py := p.physical(x, y)
	if p.f == Packed2 {
		return Addr{Index: py*p.stride + px/4, Shift: uint(3-px%4) * 2, Bits: 2}, true
	}
	return Addr{Index: py*p.stride + px/8, Shift: uint(7 - px%8), Bits: 1}, true
}

// SetPixel stores the raw value v at the logical pixel (x, y).
//
// Out of bounds coordinates are ignored.
func (p *Plane) SetPixel(x, y int, v byte) error {
	a, ok := p.Address(x, y)
	if !ok {
		return nil
	}
	var b [1]byte
	if _, err := p.s.ReadAt(b[:], int64(a.Index)); err != nil {
		return err
	}
	m := a.Mask()
	n := b[0]&^m | (v<<a.Shift)&m
	if n == b[0] {
		return nil
	}
	b[0] = n
	_, err := p.s.WriteAt(b[:], int64(a.Index))
	return err
}

// Pixel returns the raw value of the logical pixel (x, y), or 0 when out of
// bounds.
func (p *Plane) Pixel(x, y int) (byte, error) {
	a, ok := p.Address(x, y)
	if !ok {
		return 0, nil
	}
	var b [1]byte
	if _, err := p.s.ReadAt(b[:], int64(a.Index)); err != nil {
		return 0, err
	}
	return (b[0] & a.Mask()) >> a.Shift, nil
}

// Fill sets every byte of the plane to pattern, padding included.
func (p *Plane) Fill(pattern byte) error {
	return p.s.Fill(pattern)
}

// FillRect sets every logical pixel of the w x h rectangle at (x, y) to v.
//
// The rectangle is clipped to the logical bounds. Empty or fully outside
// rectangles do not touch the store.
func (p *Plane) FillRect(x, y, w, h int, v byte) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(p.Bounds())
	for j := r.Min.Y; j < r.Max.Y; j++ {
		for i := r.Min.X; i < r.Max.X; i++ {
			if err := p.SetPixel(i, j, v); err != nil {
				return err
			}
		}
	}
	return nil
}
