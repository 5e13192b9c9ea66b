// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1675

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
	gateDrivingVoltageControl      byte = 0x03
	sourceDrivingVoltageControl    byte = 0x04
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	masterActivation               byte = 0x20
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	writeRAMRed                    byte = 0x26
	writeVcomRegister              byte = 0x2C
	writeLutRegister               byte = 0x32
	writeOTPSelection              byte = 0x37
	setDummyLinePeriod             byte = 0x3A
	setGateTime                    byte = 0x3B
	borderWaveformControl          byte = 0x3C
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
	setAnalogBlockControl          byte = 0x74
	setDigitalBlockControl         byte = 0x7E
)

// LUT contains the waveform that is used to program the display.
//
// The first 70 bytes are the waveform, followed by the gate voltage, the 3
// source voltages, the dummy line period and the gate time.
type LUT []byte

const (
	lutWaveform = 70
	lutSize     = 76
)

// PartialUpdate defines if the display should do a full update or just a partial update.
type PartialUpdate bool

const (
	// Full should update the complete display.
	Full PartialUpdate = false
	// Partial should update only partial parts of the display.
	Partial PartialUpdate = true
)

func (p PartialUpdate) String() string {
	if p {
		return "Partial"
	}
	return "Full"
}

// Set implements flag.Value.
func (p *PartialUpdate) Set(s string) error {
	switch s {
	case "full", "Full":
		*p = Full
	case "partial", "Partial":
		*p = Partial
	default:
		return fmt.Errorf("ssd1675: unknown update mode %q", s)
	}
	return nil
}

// Opts definies the structure of the display configuration.
type Opts struct {
	Width         int
	Height        int
	FullUpdate    LUT
	PartialUpdate LUT
	// Vcom is the value of the VCOM register in full update mode.
	Vcom byte
	// SRAM describes the framebuffer chip used when Pins.SRAMCS is set.
	SRAM *mcpsram.Opts
}

var fullLUT = LUT{
	0x80, 0x60, 0x40, 0x00, 0x00, 0x00, 0x00,
	0x10, 0x60, 0x20, 0x00, 0x00, 0x00, 0x00,
	0x80, 0x60, 0x40, 0x00, 0x00, 0x00, 0x00,
	0x10, 0x60, 0x20, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x03, 0x03, 0x00, 0x00, 0x02,
	0x09, 0x09, 0x00, 0x00, 0x02,
	0x03, 0x03, 0x00, 0x00, 0x02,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,

	0x15, 0x41, 0xA8, 0x32, 0x30, 0x0A,
}

var partialLUT = LUT{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

	0x0A, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,

	0x15, 0x41, 0xA8, 0x32, 0x30, 0x0A,
}

// EPD2in13v2 contains display configuration for the Waveshare 2in13v2.
var EPD2in13v2 = Opts{
	Width:         122,
	Height:        250,
	FullUpdate:    fullLUT,
	PartialUpdate: partialLUT,
	Vcom:          0x55,
}

// Adafruit2in13 contains display configuration for the Adafruit 2.13"
// monochrome FeatherWing and Bonnet.
var Adafruit2in13 = Opts{
	Width:         122,
	Height:        250,
	FullUpdate:    fullLUT,
	PartialUpdate: partialLUT,
	Vcom:          0x70,
}

// Dev is a monochrome SSD1675 panel.
type Dev struct {
	*epd.Dev
	p *profile
}

// New returns a SSD1675 panel on bus b.
func New(b *spibus.Bus, pins *epd.Pins, opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("ssd1675: opts are required")
	}
	if len(opts.FullUpdate) < lutSize {
		return nil, fmt.Errorf("ssd1675: full update LUT has %d bytes, want %d", len(opts.FullUpdate), lutSize)
	}
	if opts.PartialUpdate != nil && len(opts.PartialUpdate) < lutWaveform {
		return nil, fmt.Errorf("ssd1675: partial update LUT has %d bytes, want %d", len(opts.PartialUpdate), lutWaveform)
	}
	p := &profile{opts: *opts}
	d, err := epd.New(b, pins, p, &epd.Opts{
		Width:     opts.Width,
		Height:    opts.Height,
		Layout:    epd.Mono,
		Black:     epd.PlaneOpts{Index: 0, Inverted: true},
		BusyLevel: gpio.High,
		SRAM:      opts.SRAM,
		// The partial waveform compares against the previous image in RAM 1.
		Mirror: true,
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

// UpdateMode returns the refresh mode used by Display.
func (d *Dev) UpdateMode() PartialUpdate {
	return d.p.mode
}

// SetUpdateMode selects the refresh mode used by the following Display calls.
//
// Partial requires a partial update LUT.
func (d *Dev) SetUpdateMode(mode PartialUpdate) error {
	if mode == Partial && d.p.opts.PartialUpdate == nil {
		return fmt.Errorf("%w: no partial update LUT", epd.ErrUnsupported)
	}
	d.p.mode = mode
	return nil
}

// profile implements epd.Profile.
type profile struct {
	opts Opts
	mode PartialUpdate
}

func (p *profile) PowerUp(ctrl epd.Controller) {
	ctrl.HardwareReset()
	ctrl.Sleep(100 * time.Millisecond)
	initDisplayFull(ctrl, &p.opts)
	if p.mode == Partial {
		initDisplayPartial(ctrl, &p.opts)
	}
}

func (p *profile) PowerDown(ctrl epd.Controller) {
	ctrl.Command(deepSleepMode, 0x01)
	ctrl.Sleep(100 * time.Millisecond)
}

func (p *profile) Update(ctrl epd.Controller) {
	updateDisplay(ctrl, p.mode)
	if !ctrl.HasBusy() {
		ctrl.Sleep(3 * time.Second)
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
	setCursor(ctrl, x, y)
}

var _ epd.Profile = &profile{}
