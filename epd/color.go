// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a logical color understood by the panels.
//
// Color implements color.Color so it can be used directly with image/draw.
type Color uint8

const (
	Black Color = iota
	White
	// Inverse draws in the active color of monochrome panels.
	Inverse
	Red
	Dark
	Light
	Yellow
	Orange

	numColors
)

var colorNames = [...]string{"black", "white", "inverse", "red", "dark", "light", "yellow", "orange"}

var colorValues = [...]color.NRGBA{
	Black:   {0, 0, 0, 255},
	White:   {255, 255, 255, 255},
	Inverse: {0, 0, 0, 255},
	Red:     {255, 0, 0, 255},
	Dark:    {64, 64, 64, 255},
	Light:   {192, 192, 192, 255},
	Yellow:  {255, 255, 0, 255},
	Orange:  {255, 128, 0, 255},
}

func (c Color) String() string {
	if c.valid() {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Set sets the Color to a value represented by the string s. Set implements
// the flag.Value interface.
func (c *Color) Set(s string) error {
	for i, n := range colorNames {
		if strings.EqualFold(n, s) {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("epd: unknown color %q", s)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	if !c.valid() {
		return 0, 0, 0, 0
	}
	return colorValues[c].RGBA()
}

func (c Color) valid() bool {
	return c < numColors
}
