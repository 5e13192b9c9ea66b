// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"fmt"
	"image/color"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/epd/mcpsram"
)

// Layout is the shape of the framebuffer.
type Layout int

const (
	// Mono uses one 1 bit plane for every color.
	Mono Layout = iota
	// DualPlane uses a black plane and an accent color plane, each sent to
	// its own controller RAM.
	DualPlane
	// PackedQuad uses a single plane of 2 bits per pixel holding black,
	// white, yellow and red.
	PackedQuad
)

func (l Layout) String() string {
	switch l {
	case Mono:
		return "Mono"
	case DualPlane:
		return "DualPlane"
	case PackedQuad:
		return "PackedQuad"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// PlaneOpts maps a color plane to a controller RAM.
type PlaneOpts struct {
	// Index is the controller RAM the plane is written to, 0 or 1.
	Index int
	// Inverted is true when a cleared bit shows the plane color.
	Inverted bool
}

// Opts describes a panel.
type Opts struct {
	// Width and Height are the physical size in pixels.
	Width  int
	Height int
	Layout Layout

	// Black and Color place the planes. With Mono and PackedQuad only Black
	// is used.
	Black PlaneOpts
	Color PlaneOpts
	// Accent is the color shown by the color plane. Defaults to Red.
	Accent Color

	// BusyLevel is the level of the busy line while the controller works.
	BusyLevel gpio.Level
	// BusyPoll is the interval between two reads of the busy line.
	BusyPoll time.Duration
	// BusyTimeout bounds a wait on the busy line.
	BusyTimeout time.Duration
	// BusyDelay is slept instead when there is no busy line.
	BusyDelay time.Duration

	// SingleByteTx frames every byte with its own chip select pulse.
	SingleByteTx bool

	// Mirror loads the Mono plane into the other RAM after each refresh, so
	// that RAM holds the previous image for differential waveforms.
	Mirror bool

	// SRAM describes the framebuffer chip used when Pins.SRAMCS is set.
	// Defaults to mcpsram.MCP23K256.
	SRAM *mcpsram.Opts

	// Classify maps image colors to panel colors in Image and Set. The default
	// thresholds every channel at 0x80.
	Classify func(c color.Color) Color
}

// Pins are the GPIO lines of a panel. Reset, Busy and SRAMCS are optional.
type Pins struct {
	CS     gpio.PinOut
	DC     gpio.PinOut
	Reset  gpio.PinOut
	Busy   gpio.PinIn
	SRAMCS gpio.PinOut
}

// State is the power state of a panel.
type State int

const (
	Uninitialized State = iota
	Idle
	Active
	Refreshing
	Sleeping
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Idle:
		return "Idle"
	case Active:
		return "Active"
	case Refreshing:
		return "Refreshing"
	case Sleeping:
		return "Sleeping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	defaultBusyPoll    = 10 * time.Millisecond
	defaultBusyTimeout = 40 * time.Second
	defaultBusyDelay   = 500 * time.Millisecond
)
