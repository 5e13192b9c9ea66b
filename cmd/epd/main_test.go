// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"testing"
	"time"

	"golang.org/x/image/font/basicfont"

	"github.com/GermanBionicSystems/epd/epd"
	"github.com/GermanBionicSystems/epd/epd/epdtest"
	"github.com/GermanBionicSystems/epd/spibus"
)

func TestLoadFace(t *testing.T) {
	f, err := loadFace("", 16)
	if err != nil || f != basicfont.Face7x13 {
		t.Errorf("loadFace(\"\") = %v, %v", f, err)
	}
	f, err = loadFace("go", 16)
	if err != nil {
		t.Fatal(err)
	}
	if h := f.Metrics().Height.Ceil(); h < 10 {
		t.Errorf("Go Regular line height = %d", h)
	}
	if _, err := loadFace("/nonexistent.ttf", 16); err == nil {
		t.Error("loadFace() with a missing file succeeded")
	}
}

func TestScene(t *testing.T) {
	img := scene(64, 32, "Hi", basicfont.Face7x13)
	if got := img.Bounds(); got != image.Rect(0, 0, 64, 32) {
		t.Fatalf("Bounds() = %v", got)
	}
	// Frame corner is white, its top edge black.
	if c := img.RGBAAt(0, 0); c.R != 0xFF || c.G != 0xFF || c.B != 0xFF {
		t.Errorf("corner = %v, want white", c)
	}
	if c := img.RGBAAt(32, 4); c.R > 0x40 || c.G > 0x40 {
		t.Errorf("frame = %v, want black", c)
	}
}

func TestChips(t *testing.T) {
	for name, c := range chips {
		t.Run(name, func(t *testing.T) {
			b := epdtest.NewBoard(&epdtest.Opts{NoReset: true})
			bus := spibus.New(b.Conn, &spibus.Opts{LockTimeout: 10 * time.Millisecond})
			d, err := c.open(bus, b.Pins(), 16, 8)
			if err != nil {
				t.Fatal(err)
			}
			if got := d.Bounds(); got != image.Rect(0, 0, 16, 8) {
				t.Errorf("Bounds() = %v", got)
			}
			if err := d.Image(scene(16, 8, "", basicfont.Face7x13)); err != nil {
				t.Fatal(err)
			}
			if got, _ := d.ColorAt(8, 0); got != epd.White {
				t.Errorf("ColorAt(8, 0) = %s, want White", got)
			}
		})
	}
}

func TestPreviewMatchesPanel(t *testing.T) {
	for name, c := range chips {
		t.Run(name, func(t *testing.T) {
			b := epdtest.NewBoard(&epdtest.Opts{NoReset: true})
			bus := spibus.New(b.Conn, &spibus.Opts{LockTimeout: 10 * time.Millisecond})
			d, err := c.open(bus, b.Pins(), 32, 16)
			if err != nil {
				t.Fatal(err)
			}
			if d.Layout() != c.layout {
				t.Fatalf("Layout() = %s, chip table says %s", d.Layout(), c.layout)
			}
			img := scene(32, 16, "Hi", basicfont.Face7x13)
			if err := d.Image(img); err != nil {
				t.Fatal(err)
			}
			q := epd.Quantize(img, c.layout, epd.Red)
			for y := 0; y < 16; y++ {
				for x := 0; x < 32; x++ {
					want, _ := d.ColorAt(x, y)
					if got := q.At(x, y); got != want {
						t.Fatalf("preview(%d, %d) = %v, panel shows %s", x, y, got, want)
					}
				}
			}
		})
	}
}
