// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epd draws on an e-paper panel.
//
// Without -image it draws a demo scene with -text. With -preview nothing is
// sent to the panel, the content is printed in the terminal instead.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epd/epd"
	"github.com/GermanBionicSystems/epd/il91874"
	"github.com/GermanBionicSystems/epd/jd79661"
	"github.com/GermanBionicSystems/epd/plane"
	"github.com/GermanBionicSystems/epd/preview"
	"github.com/GermanBionicSystems/epd/spibus"
	"github.com/GermanBionicSystems/epd/ssd1675"
	"github.com/GermanBionicSystems/epd/ssd1680"
	"github.com/GermanBionicSystems/epd/uc8151d"
)

// chip opens a panel of a given size.
type chip struct {
	w, h   int
	layout epd.Layout
	open   func(b *spibus.Bus, pins *epd.Pins, w, h int) (*epd.Dev, error)
}

var chips = map[string]chip{
	"ssd1675": {122, 250, epd.Mono, func(b *spibus.Bus, pins *epd.Pins, w, h int) (*epd.Dev, error) {
		opts := ssd1675.Adafruit2in13
		opts.Width, opts.Height = w, h
		d, err := ssd1675.New(b, pins, &opts)
		if err != nil {
			return nil, err
		}
		return d.Dev, nil
	}},
	"ssd1680": {122, 250, epd.DualPlane, func(b *spibus.Bus, pins *epd.Pins, w, h int) (*epd.Dev, error) {
		d, err := ssd1680.New(b, pins, &ssd1680.Opts{Width: w, Height: h})
		if err != nil {
			return nil, err
		}
		return d.Dev, nil
	}},
	"ssd1680z": {122, 250, epd.DualPlane, func(b *spibus.Bus, pins *epd.Pins, w, h int) (*epd.Dev, error) {
		d, err := ssd1680.New(b, pins, &ssd1680.Opts{Width: w, Height: h, Variant: ssd1680.SSD1680Z})
		if err != nil {
			return nil, err
		}
		return d.Dev, nil
	}},
	"uc8151d": {128, 296, epd.DualPlane, func(b *spibus.Bus, pins *epd.Pins, w, h int) (*epd.Dev, error) {
		opts := uc8151d.Adafruit2in9Flexible
		opts.Width, opts.Height = w, h
		return uc8151d.New(b, pins, &opts)
	}},
	"il91874": {176, 264, epd.DualPlane, func(b *spibus.Bus, pins *epd.Pins, w, h int) (*epd.Dev, error) {
		opts := il91874.Adafruit2in7
		opts.Width, opts.Height = w, h
		return il91874.New(b, pins, &opts)
	}},
	"jd79661": {122, 250, epd.PackedQuad, func(b *spibus.Bus, pins *epd.Pins, w, h int) (*epd.Dev, error) {
		return jd79661.New(b, pins, &jd79661.Opts{Width: w, Height: h})
	}},
}

func chipNames() string {
	var names []string
	for n := range chips {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// loadFace returns the face used for the demo text. An empty path selects
// the built-in bitmap font, "go" the Go Regular TrueType font.
func loadFace(path string, size float64) (font.Face, error) {
	var ttf []byte
	switch path {
	case "":
		return basicfont.Face7x13, nil
	case "go":
		ttf = goregular.TTF
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		ttf = b
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// scene draws the demo: a frame, text and a row of accent dots.
func scene(w, h int, text string, face font.Face) *image.RGBA {
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	padding := 4.0
	dc.DrawRoundedRectangle(padding, padding, float64(w)-2*padding, float64(h)-2*padding, 8)
	dc.Stroke()

	dc.SetFontFace(face)
	dc.DrawStringAnchored(text, float64(w)/2, float64(h)/3, 0.5, 0.5)

	dc.SetRGB(1, 0, 0)
	r := float64(h) / 16
	for x := 3 * r; x < float64(w)-2*r; x += 3 * r {
		dc.DrawCircle(x, float64(h)*2/3, r)
	}
	dc.Fill()
	return dc.Image().(*image.RGBA)
}

// loadImage reads a PNG or JPEG file and scales it to w x h.
func loadImage(path string, w, h int) (*image.RGBA, error) {
	src, err := gg.LoadImage(path)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

func openPins(cs, dc, rst, busy, sramcs string) (*epd.Pins, error) {
	pins := &epd.Pins{}
	for _, l := range []struct {
		name string
		set  func(p gpio.PinIO)
	}{
		{cs, func(p gpio.PinIO) { pins.CS = p }},
		{dc, func(p gpio.PinIO) { pins.DC = p }},
		{rst, func(p gpio.PinIO) { pins.Reset = p }},
		{busy, func(p gpio.PinIO) { pins.Busy = p }},
		{sramcs, func(p gpio.PinIO) { pins.SRAMCS = p }},
	} {
		p, err := pin(l.name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			l.set(p)
		}
	}
	if pins.CS == nil || pins.DC == nil {
		return nil, errors.New("-cs and -dc are required")
	}
	return pins, nil
}

func mainImpl() error {
	chipName := flag.String("chip", "ssd1680", "controller: "+chipNames())
	width := flag.Int("width", 0, "panel width in pixels, 0 for the chip default")
	height := flag.Int("height", 0, "panel height in pixels, 0 for the chip default")
	var rot plane.Rotation
	flag.Var(&rot, "rotate", "rotation, 0 to 3 or in degrees")
	spiName := flag.String("spi", "", "SPI port to use")
	hz := physic.MegaHertz * 4
	flag.Var(&hz, "hz", "SPI clock")
	dcName := flag.String("dc", "GPIO22", "data/command pin")
	csName := flag.String("cs", "GPIO8", "panel chip select pin")
	rstName := flag.String("rst", "GPIO27", "reset pin, empty if not connected")
	busyName := flag.String("busy", "GPIO17", "busy pin, empty if not connected")
	sramName := flag.String("sramcs", "", "SRAM chip select pin, empty if not fitted")
	imgPath := flag.String("image", "", "PNG or JPEG file to show instead of the demo")
	text := flag.String("text", "Hello from periph!", "demo text")
	ttf := flag.String("ttf", "", "TrueType font for the demo text, \"go\" for Go Regular")
	size := flag.Float64("size", 16, "TrueType font size in points")
	pv := flag.Bool("preview", false, "print to the terminal instead of the panel")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	c, ok := chips[*chipName]
	if !ok {
		return fmt.Errorf("unknown chip %q, use one of %s", *chipName, chipNames())
	}
	if *width == 0 {
		*width = c.w
	}
	if *height == 0 {
		*height = c.h
	}
	w, h := *width, *height
	if rot&1 != 0 {
		w, h = h, w
	}

	var img *image.RGBA
	if *imgPath != "" {
		var err error
		if img, err = loadImage(*imgPath, w, h); err != nil {
			return err
		}
	} else {
		face, err := loadFace(*ttf, *size)
		if err != nil {
			return err
		}
		img = scene(w, h, *text, face)
	}

	if *pv {
		return preview.NewStdout().Render(epd.Quantize(img, c.layout, epd.Red))
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	p, err := spireg.Open(*spiName)
	if err != nil {
		return err
	}
	defer p.Close()
	b, err := spibus.Connect(p, hz, nil)
	if err != nil {
		return err
	}
	pins, err := openPins(*csName, *dcName, *rstName, *busyName, *sramName)
	if err != nil {
		return err
	}
	d, err := c.open(b, pins, *width, *height)
	if err != nil {
		return err
	}
	d.SetRotation(rot)
	log.Printf("%s", d)

	start := time.Now()
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	log.Printf("refreshed in %s", time.Since(start))
	return d.Halt()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "epd: %s.\n", err)
		os.Exit(1)
	}
}
