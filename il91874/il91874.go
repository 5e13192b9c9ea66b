// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il91874

import (
	"errors"
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
	panelSetting           byte = 0x00
	powerSetting           byte = 0x01
	powerOff               byte = 0x02
	powerOn                byte = 0x04
	boosterSoftStart       byte = 0x06
	deepSleep              byte = 0x07
	dataStartTransmission  byte = 0x10
	displayRefresh         byte = 0x12
	dataStartTransmission2 byte = 0x13
	partialDisplayRefresh  byte = 0x16
	lutVCOM                byte = 0x20
	lutWW                  byte = 0x21
	lutBW                  byte = 0x22
	lutWB                  byte = 0x23
	lutBB                  byte = 0x24
	pllControl             byte = 0x30
	vcomDataInterval       byte = 0x50
	resolutionSetting      byte = 0x61
	vcmDCSetting           byte = 0x82
	// Undocumented command used in vendor example code.
	registerWrite byte = 0xF8
)

// LUT contains the waveforms that are used to program the display.
type LUT struct {
	VCOM []byte
	WW   []byte
	BW   []byte
	WB   []byte
	BB   []byte
}

// Opts definies the structure of the display configuration.
type Opts struct {
	Width  int
	Height int
	LUT    LUT
	// SRAM describes the framebuffer chip used when Pins.SRAMCS is set.
	SRAM *mcpsram.Opts
}

var adafruitLUT = LUT{
	VCOM: []byte{
		0x00, 0x00, 0x00, 0x1A, 0x1A, 0x00, 0x00, 0x01, 0x00, 0x0A, 0x0A, 0x00,
		0x00, 0x08, 0x00, 0x0E, 0x01, 0x0E, 0x01, 0x10, 0x00, 0x0A, 0x0A, 0x00,
		0x00, 0x08, 0x00, 0x04, 0x10, 0x00, 0x00, 0x05, 0x00, 0x03, 0x0E, 0x00,
		0x00, 0x0A, 0x00, 0x23, 0x00, 0x00, 0x00, 0x01,
	},
	WW: []byte{
		0x90, 0x1A, 0x1A, 0x00, 0x00, 0x01, 0x40, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x84, 0x0E, 0x01, 0x0E, 0x01, 0x10, 0x80, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x00, 0x04, 0x10, 0x00, 0x00, 0x05, 0x00, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0x00, 0x23, 0x00, 0x00, 0x00, 0x01,
	},
	BW: []byte{
		0xA0, 0x1A, 0x1A, 0x00, 0x00, 0x01, 0x00, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x84, 0x0E, 0x01, 0x0E, 0x01, 0x10, 0x90, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0xB0, 0x04, 0x10, 0x00, 0x00, 0x05, 0xB0, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0xC0, 0x23, 0x00, 0x00, 0x00, 0x01,
	},
	WB: []byte{
		0x90, 0x1A, 0x1A, 0x00, 0x00, 0x01, 0x20, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x84, 0x0E, 0x01, 0x0E, 0x01, 0x10, 0x10, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x00, 0x04, 0x10, 0x00, 0x00, 0x05, 0x00, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0x00, 0x23, 0x00, 0x00, 0x00, 0x01,
	},
	BB: []byte{
		0x90, 0x1A, 0x1A, 0x00, 0x00, 0x01, 0x40, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x84, 0x0E, 0x01, 0x0E, 0x01, 0x10, 0x80, 0x0A, 0x0A, 0x00, 0x00, 0x08,
		0x00, 0x04, 0x10, 0x00, 0x00, 0x05, 0x00, 0x03, 0x0E, 0x00, 0x00, 0x0A,
		0x00, 0x23, 0x00, 0x00, 0x00, 0x01,
	},
}

// Adafruit2in7 contains display configuration for the Adafruit 2.7"
// tri-color shield and FeatherWing.
var Adafruit2in7 = Opts{
	Width:  176,
	Height: 264,
	LUT:    adafruitLUT,
}

// New returns an IL91874 panel on bus b.
//
// The controller needs a chip select pulse around every byte.
func New(b *spibus.Bus, pins *epd.Pins, opts *Opts) (*epd.Dev, error) {
	if opts == nil {
		return nil, errors.New("il91874: opts are required")
	}
	l := &opts.LUT
	if len(l.VCOM) == 0 || len(l.WW) == 0 || len(l.BW) == 0 || len(l.WB) == 0 || len(l.BB) == 0 {
		return nil, errors.New("il91874: incomplete LUT")
	}
	return epd.New(b, pins, &profile{opts: *opts}, &epd.Opts{
		Width:        opts.Width,
		Height:       opts.Height,
		Layout:       epd.DualPlane,
		Black:        epd.PlaneOpts{Index: 0, Inverted: true},
		Color:        epd.PlaneOpts{Index: 1},
		BusyLevel:    gpio.Low,
		SingleByteTx: true,
		SRAM:         opts.SRAM,
	})
}

// NewHat returns a panel on a Waveshare e-Paper HAT connected to p.
func NewHat(p spi.Port, opts *Opts) (*epd.Dev, error) {
	b, err := spibus.Connect(p, 4*physic.MegaHertz, nil)
	if err != nil {
		return nil, err
	}
	return New(b, epd.HatPins(), opts)
}

// profile implements epd.Profile.
type profile struct {
	opts Opts
}

func (p *profile) PowerUp(ctrl epd.Controller) {
	ctrl.HardwareReset()
	ctrl.Sleep(200 * time.Millisecond)
	ctrl.Command(powerOn)
	ctrl.BusyWait()

	ctrl.Command(panelSetting, 0xAF)
	ctrl.Command(pllControl, 0x3A)
	ctrl.Command(powerSetting, 0x03, 0x00, 0x2B, 0x2B, 0x09)
	ctrl.Command(boosterSoftStart, 0x07, 0x07, 0x17)
	for _, r := range [][2]byte{{0x60, 0xA5}, {0x89, 0xA5}, {0x90, 0x00}, {0x93, 0xA2}, {0x73, 0x41}} {
		ctrl.Command(registerWrite, r[0], r[1])
	}
	ctrl.Command(vcmDCSetting, 0x12)
	ctrl.Command(vcomDataInterval, 0x87)

	l := &p.opts.LUT
	ctrl.Command(lutVCOM, l.VCOM...)
	ctrl.Command(lutWW, l.WW...)
	ctrl.Command(lutBW, l.BW...)
	ctrl.Command(lutWB, l.WB...)
	ctrl.Command(lutBB, l.BB...)

	w, h := p.opts.Width, p.opts.Height
	ctrl.Command(resolutionSetting, byte(w>>8), byte(w), byte(h>>8), byte(h))
	ctrl.Command(partialDisplayRefresh, 0x00)
}

func (p *profile) PowerDown(ctrl epd.Controller) {
	ctrl.Command(powerOff, 0x17)
	ctrl.BusyWait()
	// Deep sleep is only left with a reset pulse.
	if ctrl.HasReset() {
		ctrl.Command(deepSleep, 0xA5)
	}
}

func (p *profile) Update(ctrl epd.Controller) {
	ctrl.Command(displayRefresh)
	ctrl.BusyWait()
	if !ctrl.HasBusy() {
		ctrl.Sleep(16 * time.Second)
	}
}

func (p *profile) WriteRAM(ctrl epd.Controller, index int) byte {
	switch index {
	case 0:
		return ctrl.CommandStart(dataStartTransmission)
	case 1:
		return ctrl.CommandStart(dataStartTransmission2)
	}
	ctrl.Fail(epd.InvalidRAMIndex(index))
	return 0
}

func (p *profile) SetRAMAddress(ctrl epd.Controller, x, y int) {
}

var _ epd.Profile = &profile{}
