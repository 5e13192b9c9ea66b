// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview renders a framebuffer in a terminal using ANSI color codes.
//
// An *epd.Dev is an image.Image, so the content of a panel can be checked
// without waiting for a refresh or without a panel at all.
package preview

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Opts represents the options available for this display.
type Opts struct {
	Palette *ansi256.Palette
	// Plain writes one character per pixel instead of colored blocks.
	Plain bool

	_ struct{}
}

// Dev writes images to a terminal.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	plain   bool

	buf bytes.Buffer
}

// New returns a Dev that writes to w.
func New(w io.Writer, opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{w: w, palette: *p, plain: opts.Plain}
}

// NewStdout returns a Dev that writes to the console.
//
// Colors are disabled when stdout is not a terminal.
func NewStdout() *Dev {
	fd := os.Stdout.Fd()
	plain := !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
	return New(colorable.NewColorableStdout(), &Opts{Plain: plain})
}

func (d *Dev) String() string {
	return "Preview"
}

// Render writes img row by row.
func (d *Dev) Render(img image.Image) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if !d.plain {
			_, _ = d.buf.WriteString("\033[0m")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if d.plain {
				_ = d.buf.WriteByte(Char(c))
			} else {
				_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBAModel.Convert(c).(color.NRGBA)))
			}
		}
		if !d.plain {
			_, _ = d.buf.WriteString("\033[0m")
		}
		_ = d.buf.WriteByte('\n')
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Char returns the character that stands for c in plain mode.
func Char(c color.Color) byte {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 0x80 {
		return ' '
	}
	r, g, b := n.R >= 0x80, n.G >= 0x80, n.B >= 0x80
	switch {
	case r && g && b:
		return '.'
	case !r && !g && !b:
		return '#'
	case r && g:
		return 'y'
	case r && !b:
		return 'r'
	default:
		return '+'
	}
}
