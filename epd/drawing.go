// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/GermanBionicSystems/epd/plane"
)

// Values of the 2 bit pixels of PackedQuad panels.
const (
	quadBlack  byte = 0b00
	quadWhite  byte = 0b01
	quadYellow byte = 0b10
	quadRed    byte = 0b11
)

func quadValue(c Color) (byte, bool) {
	switch c {
	case Black:
		return quadBlack, true
	case White:
		return quadWhite, true
	case Yellow:
		return quadYellow, true
	case Red:
		return quadRed, true
	}
	return 0, false
}

func bit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// plot calls f with each plane and the raw value c resolves to in it.
func (d *Dev) plot(c Color, f func(p *plane.Plane, v byte) error) error {
	if !c.valid() {
		return fmt.Errorf("%w: color %s", ErrInvalidArgument, c)
	}
	switch d.opts.Layout {
	case DualPlane:
		if err := f(d.black, bit((c == Black) != d.black.Inverted())); err != nil {
			return err
		}
		return f(d.color, bit((c == d.opts.Accent) != d.color.Inverted()))
	case PackedQuad:
		v, ok := quadValue(c)
		if !ok {
			return fmt.Errorf("%w: color %s on a quad color panel", ErrInvalidArgument, c)
		}
		return f(d.black, v)
	default:
		return f(d.black, bit((c != White) != d.black.Inverted()))
	}
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() plane.Rotation {
	return d.black.Rotation()
}

// SetRotation changes the orientation of all the drawing operations.
func (d *Dev) SetRotation(r plane.Rotation) {
	for _, p := range d.ram {
		if p != nil {
			p.SetRotation(r)
		}
	}
}

// Width returns the logical width, which depends on the rotation.
func (d *Dev) Width() int {
	return d.black.Bounds().Dx()
}

// Height returns the logical height, which depends on the rotation.
func (d *Dev) Height() int {
	return d.black.Bounds().Dy()
}

// Pixel sets the pixel at (x, y). Out of bounds coordinates are ignored.
func (d *Dev) Pixel(x, y int, c Color) error {
	return d.plot(c, func(p *plane.Plane, v byte) error {
		return p.SetPixel(x, y, v)
	})
}

// Fill sets every pixel.
func (d *Dev) Fill(c Color) error {
	return d.plot(c, func(p *plane.Plane, v byte) error {
		return p.Fill(plane.FillPattern(p.Format(), v))
	})
}

// FillRect sets the pixels of the w x h rectangle at (x, y), clipped to the
// panel.
func (d *Dev) FillRect(x, y, w, h int, c Color) error {
	return d.plot(c, func(p *plane.Plane, v byte) error {
		return p.FillRect(x, y, w, h, v)
	})
}

// Rect draws the outline of the w x h rectangle at (x, y).
func (d *Dev) Rect(x, y, w, h int, c Color) error {
	if w <= 0 || h <= 0 {
		return d.validate(c)
	}
	for _, r := range [...][4]int{
		{x, y, w, 1},
		{x, y + h - 1, w, 1},
		{x, y, 1, h},
		{x + w - 1, y, 1, h},
	} {
		if err := d.FillRect(r[0], r[1], r[2], r[3], c); err != nil {
			return err
		}
	}
	return nil
}

// HLine draws a horizontal line of w pixels starting at (x, y).
func (d *Dev) HLine(x, y, w int, c Color) error {
	return d.FillRect(x, y, w, 1, c)
}

// VLine draws a vertical line of h pixels starting at (x, y).
func (d *Dev) VLine(x, y, h int, c Color) error {
	return d.FillRect(x, y, 1, h, c)
}

// Line draws a line from (x0, y0) to (x1, y1), both ends included.
func (d *Dev) Line(x0, y0, x1, y1 int, c Color) error {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx - dy
	for {
		if err := d.Pixel(x0, y0, c); err != nil {
			return err
		}
		if x0 == x1 && y0 == y1 {
			return nil
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Text draws s with its top left corner at (x, y).
//
// Glyph pixels with at least half coverage are set. face defaults to
// basicfont.Face7x13.
func (d *Dev) Text(s string, x, y int, c Color, face font.Face) error {
	if face == nil {
		face = basicfont.Face7x13
	}
	if err := d.validate(c); err != nil {
		return err
	}
	b, _ := font.BoundString(face, s)
	r := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	if r.Empty() {
		return nil
	}
	mask := image.NewAlpha(r)
	dr := font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: fixed.P(0, 0)}
	dr.DrawString(s)
	ascent := face.Metrics().Ascent.Ceil()
	for my := r.Min.Y; my < r.Max.Y; my++ {
		for mx := r.Min.X; mx < r.Max.X; mx++ {
			if mask.AlphaAt(mx, my).A < 0x80 {
				continue
			}
			if err := d.Pixel(x+mx, y+ascent+my, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// validate checks c can be drawn without touching the planes.
func (d *Dev) validate(c Color) error {
	return d.plot(c, func(*plane.Plane, byte) error { return nil })
}

// ColorAt reads back the color of the pixel at (x, y).
func (d *Dev) ColorAt(x, y int) (Color, error) {
	v, err := d.black.Pixel(x, y)
	if err != nil {
		return White, err
	}
	switch d.opts.Layout {
	case PackedQuad:
		return [...]Color{quadBlack: Black, quadWhite: White, quadYellow: Yellow, quadRed: Red}[v], nil
	case DualPlane:
		cv, err := d.color.Pixel(x, y)
		if err != nil {
			return White, err
		}
		if (cv == 1) != d.color.Inverted() {
			return d.opts.Accent, nil
		}
	}
	if (v == 1) != d.black.Inverted() {
		return Black, nil
	}
	return White, nil
}

// Image replaces the content of the panel with img.
//
// img must have the logical size of the panel and be an *image.RGBA,
// *image.NRGBA or *image.Gray. Each pixel is mapped with Opts.Classify.
// Panels with their framebuffer in SRAM are not supported.
func (d *Dev) Image(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != d.Width() || b.Dy() != d.Height() {
		return fmt.Errorf("%w: image is %dx%d, panel is %dx%d", ErrInvalidArgument, b.Dx(), b.Dy(), d.Width(), d.Height())
	}
	if d.sram != nil {
		return fmt.Errorf("%w: Image with SRAM framebuffer", ErrUnsupported)
	}
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.Gray:
	default:
		return fmt.Errorf("%w: image type %T, want RGB or 8 bit gray", ErrInvalidArgument, img)
	}
	if err := d.Fill(White); err != nil {
		return err
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := d.opts.Classify(img.At(b.Min.X+x, b.Min.Y+y))
			if c == White {
				continue
			}
			if err := d.Pixel(x, y, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// classify is the default color policy.
func (d *Dev) classify(c color.Color) Color {
	return classify(d.opts.Layout, d.opts.Accent, c)
}

func classify(l Layout, accent Color, c color.Color) Color {
	if v, ok := c.(Color); ok {
		return v
	}
	quad := l == PackedQuad
	if g, ok := c.(color.Gray); ok {
		switch {
		case quad && g.Y < 0x40, !quad && g.Y < 0x80:
			return Black
		case quad && g.Y < 0x80:
			return Yellow
		case quad && g.Y < 0xC0:
			return Red
		}
		return White
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	switch {
	case quad && n.R >= 0x80 && n.G >= 0x80 && n.B < 0x80:
		return Yellow
	case n.G < 0x80 && n.R >= 0x80 && n.B < 0x80:
		if l == DualPlane {
			return accent
		}
		return Red
	case n.R < 0x80 && n.G < 0x80 && n.B < 0x80:
		return Black
	}
	return White
}

// shown returns the color a panel with layout l displays for c.
func shown(l Layout, accent Color, c Color) Color {
	switch l {
	case DualPlane:
		if c == accent || c == Black {
			return c
		}
		return White
	case PackedQuad:
		if _, ok := quadValue(c); ok {
			return c
		}
		return White
	default:
		if c == White {
			return White
		}
		return Black
	}
}

// Quantize returns img as a panel with layout l and the default color policy
// would show it. A Black accent selects Red, like in Opts.
func Quantize(img image.Image, l Layout, accent Color) *image.Paletted {
	if accent == Black {
		accent = Red
	}
	var pal color.Palette
	switch l {
	case DualPlane:
		pal = color.Palette{White, Black, accent}
	case PackedQuad:
		pal = color.Palette{White, Black, Yellow, Red}
	default:
		pal = color.Palette{White, Black}
	}
	b := img.Bounds()
	dst := image.NewPaletted(b, pal)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, shown(l, accent, classify(l, accent, img.At(x, y))))
		}
	}
	return dst
}
