// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1675_test

import (
	"image"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epd/epd"
	"github.com/GermanBionicSystems/epd/ssd1675"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI bus registry to find the first available SPI bus.
	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := ssd1675.NewHat(b, &ssd1675.EPD2in13v2) // Display config and size
	if err != nil {
		log.Fatalf("Failed to initialize driver: %v", err)
	}

	// Draw on it. Black text on a white background.
	img := image.NewRGBA(dev.Bounds())
	draw.Draw(img, img.Bounds(), &image.Uniform{epd.White}, image.Point{}, draw.Src)
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{epd.Black},
		Face: f,
		Dot:  fixed.P(0, img.Bounds().Dy()-1-f.Descent),
	}
	drawer.DrawString("Hello from periph!")

	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
}

func Example_partial() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := ssd1675.NewHat(b, &ssd1675.EPD2in13v2)
	if err != nil {
		log.Fatalf("Failed to initialize driver: %v", err)
	}
	if err := dev.Fill(epd.White); err != nil {
		log.Fatal(err)
	}
	if err := dev.Display(); err != nil {
		log.Fatal(err)
	}

	// Following refreshes only flip the pixels that changed.
	if err := dev.SetUpdateMode(ssd1675.Partial); err != nil {
		log.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := dev.FillRect(10, 10*i, 20, 8, epd.Black); err != nil {
			log.Fatal(err)
		}
		if err := dev.Display(); err != nil {
			log.Fatal(err)
		}
	}
}
