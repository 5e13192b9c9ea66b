// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/display"
)

// ColorModel implements display.Drawer and draw.Image.
//
// The palette holds the colors the panel can show.
func (d *Dev) ColorModel() color.Model {
	switch d.opts.Layout {
	case DualPlane:
		return color.Palette{White, Black, d.opts.Accent}
	case PackedQuad:
		return color.Palette{White, Black, Yellow, Red}
	default:
		return color.Palette{White, Black}
	}
}

// Bounds implements display.Drawer and draw.Image. It reflects the rotation.
func (d *Dev) Bounds() image.Rectangle {
	return d.black.Bounds()
}

// At implements image.Image. Read errors are reported as White.
func (d *Dev) At(x, y int) color.Color {
	c, _ := d.ColorAt(x, y)
	return c
}

// Set implements draw.Image.
//
// The first error is kept and returned by the next Display.
func (d *Dev) Set(x, y int, c color.Color) {
	if err := d.Pixel(x, y, d.opts.Classify(c)); err != nil && d.err == nil {
		d.err = err
	}
}

// Draw implements display.Drawer.
//
// The part of src covering dstRect is drawn then the panel is refreshed.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Draw(d, dstRect, src, srcPts, draw.Src)
	return d.Display()
}

// Halt implements conn.Resource. It puts the controller in deep sleep.
func (d *Dev) Halt() error {
	return d.PowerDown()
}

var _ display.Drawer = &Dev{}
var _ draw.Image = &Dev{}
