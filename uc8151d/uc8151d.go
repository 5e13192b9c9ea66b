// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uc8151d

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
	powerOff               byte = 0x02
	powerOn                byte = 0x04
	deepSleep              byte = 0x07
	dataStartTransmission  byte = 0x10
	displayRefresh         byte = 0x12
	dataStartTransmission2 byte = 0x13
	vcomDataInterval       byte = 0x50
)

// deepSleepCheck must follow the deep sleep command.
const deepSleepCheck byte = 0xA5

// Opts definies the structure of the display configuration.
type Opts struct {
	Width  int
	Height int
	// PanelSetting is the value of the panel setting register.
	PanelSetting byte
	// SRAM describes the framebuffer chip used when Pins.SRAMCS is set.
	SRAM *mcpsram.Opts
}

// Adafruit2in9Flexible contains display configuration for the Adafruit 2.9"
// flexible monochrome panel.
var Adafruit2in9Flexible = Opts{
	Width:        128,
	Height:       296,
	PanelSetting: 0x1F,
}

// New returns a UC8151D panel on bus b.
func New(b *spibus.Bus, pins *epd.Pins, opts *Opts) (*epd.Dev, error) {
	if opts == nil {
		return nil, errors.New("uc8151d: opts are required")
	}
	return epd.New(b, pins, &profile{opts: *opts}, &epd.Opts{
		Width:     opts.Width,
		Height:    opts.Height,
		Layout:    epd.DualPlane,
		Black:     epd.PlaneOpts{Index: 0, Inverted: true},
		Color:     epd.PlaneOpts{Index: 1, Inverted: true},
		BusyLevel: gpio.Low,
		SRAM:      opts.SRAM,
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
	ctrl.BusyWait()
	ctrl.Command(powerOn)
	ctrl.BusyWait()
	ctrl.Sleep(10 * time.Millisecond)

	ctrl.Command(panelSetting, p.opts.PanelSetting)
	// Border floating, data polarity inverted.
	ctrl.Command(vcomDataInterval, 0x97)
	ctrl.Sleep(50 * time.Millisecond)
}

func (p *profile) PowerDown(ctrl epd.Controller) {
	ctrl.Command(vcomDataInterval, 0xF7)
	ctrl.Command(powerOff)
	ctrl.BusyWait()
	ctrl.Command(deepSleep, deepSleepCheck)
}

func (p *profile) Update(ctrl epd.Controller) {
	ctrl.Command(displayRefresh)
	ctrl.Sleep(100 * time.Millisecond)
	ctrl.BusyWait()
	if !ctrl.HasBusy() {
		ctrl.Sleep(15 * time.Second)
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

// SetRAMAddress does nothing, the controller always starts at the origin.
func (p *profile) SetRAMAddress(ctrl epd.Controller, x, y int) {
}

var _ epd.Profile = &profile{}
