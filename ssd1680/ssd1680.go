// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1680

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/epd/epd"
	"github.com/GermanBionicSystems/epd/mcpsram"
	"github.com/GermanBionicSystems/epd/spibus"
)

// Commands
const (
	driverOutputControl            byte = 0x01
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	tempSensorSelect               byte = 0x18
	tempSensorRegWrite             byte = 0x1A
	masterActivation               byte = 0x20
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	writeRAMRed                    byte = 0x26
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

// Variant is the revision of the controller.
type Variant int

const (
	// SSD1680 has its RAM window offset by one byte.
	SSD1680 Variant = iota
	// SSD1680Z starts its RAM window at zero and uses the second display
	// mode for full refreshes.
	SSD1680Z
)

func (v Variant) String() string {
	switch v {
	case SSD1680:
		return "SSD1680"
	case SSD1680Z:
		return "SSD1680Z"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// FastDisplay defines if the display refreshes with the fast waveform.
type FastDisplay bool

const (
	// Normal uses the waveform stored for the measured temperature.
	Normal FastDisplay = false
	// Fast forces the waveform of a warm panel. It skips most of the
	// flashing but leaves more ghosting.
	Fast FastDisplay = true
)

// Opts definies the structure of the display configuration.
type Opts struct {
	Width   int
	Height  int
	Variant Variant
	// SRAM describes the framebuffer chip used when Pins.SRAMCS is set.
	SRAM *mcpsram.Opts
}

// Adafruit2in13 contains display configuration for the Adafruit 2.13"
// tri-color FeatherWing and Bonnet.
var Adafruit2in13 = Opts{
	Width:  122,
	Height: 250,
}

// Adafruit2in13Z contains display configuration for the later revision of
// the Adafruit 2.13" tri-color FeatherWing.
var Adafruit2in13Z = Opts{
	Width:   122,
	Height:  250,
	Variant: SSD1680Z,
}

// Adafruit2in9 contains display configuration for the Adafruit 2.9"
// tri-color FeatherWing.
var Adafruit2in9 = Opts{
	Width:  128,
	Height: 296,
}

// Dev is a tri-color SSD1680 panel.
type Dev struct {
	*epd.Dev
	p *profile
}

// New returns a SSD1680 panel on bus b.
func New(b *spibus.Bus, pins *epd.Pins, opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("ssd1680: opts are required")
	}
	p := &profile{opts: *opts}
	d, err := epd.New(b, pins, p, &epd.Opts{
		Width:     opts.Width,
		Height:    opts.Height,
		Layout:    epd.DualPlane,
		Black:     epd.PlaneOpts{Index: 0, Inverted: true},
		Color:     epd.PlaneOpts{Index: 1},
		BusyLevel: gpio.High,
		SRAM:      opts.SRAM,
	})
	if err != nil {
		return nil, err
	}
	return &Dev{Dev: d, p: p}, nil
}

// NewHat returns a panel on a Waveshare e-Paper HAT connected to p.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	b, err := spibus.Connect(p, 4*physic.MegaHertz, nil)
	if err != nil {
		return nil, err
	}
	return New(b, epd.HatPins(), opts)
}

// SetFast selects the waveform used by the following Display calls.
func (d *Dev) SetFast(fast FastDisplay) {
	d.p.fast = fast
}

// profile implements epd.Profile.
type profile struct {
	opts Opts
	fast FastDisplay
}

func (p *profile) PowerUp(ctrl epd.Controller) {
	ctrl.HardwareReset()
	initDisplay(ctrl, &p.opts)
	if p.fast {
		loadWarmTemperature(ctrl)
	}
}

func (p *profile) PowerDown(ctrl epd.Controller) {
	ctrl.Command(deepSleepMode, 0x01)
	ctrl.Sleep(100 * time.Millisecond)
}

func (p *profile) Update(ctrl epd.Controller) {
	turnOnDisplay(ctrl, p.updateFlags())
	if !ctrl.HasBusy() {
		ctrl.Sleep(3 * time.Second)
	}
}

func (p *profile) updateFlags() byte {
	switch {
	case p.fast == Fast:
		return 0xC7
	case p.opts.Variant == SSD1680Z:
		return 0xF7
	default:
		return 0xF4
	}
}

func (p *profile) WriteRAM(ctrl epd.Controller, index int) byte {
	switch index {
	case 0:
		return ctrl.CommandStart(writeRAMBW)
	case 1:
		return ctrl.CommandStart(writeRAMRed)
	}
	ctrl.Fail(epd.InvalidRAMIndex(index))
	return 0
}

func (p *profile) SetRAMAddress(ctrl epd.Controller, x, y int) {
	setCursor(ctrl, p.opts.Variant, x, y)
}

var _ epd.Profile = &profile{}
