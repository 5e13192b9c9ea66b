// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jd79661

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
	panelSetting          byte = 0x00
	powerSetting          byte = 0x01
	powerOff              byte = 0x02
	powerOffSequence      byte = 0x03
	powerOn               byte = 0x04
	boosterSoftStart      byte = 0x06
	deepSleep             byte = 0x07
	dataStartTransmission byte = 0x10
	displayRefresh        byte = 0x12
	pllControl            byte = 0x30
	vcomDataInterval      byte = 0x50
	tconSetting           byte = 0x60
	resolutionSetting     byte = 0x61
)

// Opts definies the structure of the display configuration.
type Opts struct {
	Width  int
	Height int
	// SRAM describes the framebuffer chip used when Pins.SRAMCS is set.
	SRAM *mcpsram.Opts
}

// Adafruit2in13 contains display configuration for the Adafruit 2.13"
// quad-color FeatherWing.
var Adafruit2in13 = Opts{
	Width:  122,
	Height: 250,
}

// New returns a JD79661 panel on bus b, filled with white.
func New(b *spibus.Bus, pins *epd.Pins, opts *Opts) (*epd.Dev, error) {
	if opts == nil {
		return nil, errors.New("jd79661: opts are required")
	}
	d, err := epd.New(b, pins, &profile{opts: *opts}, &epd.Opts{
		Width:        opts.Width,
		Height:       opts.Height,
		Layout:       epd.PackedQuad,
		BusyLevel:    gpio.Low,
		SingleByteTx: true,
		SRAM:         opts.SRAM,
	})
	if err != nil {
		return nil, err
	}
	if err := d.Fill(epd.White); err != nil {
		return nil, err
	}
	return d, nil
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
	ctrl.Sleep(10 * time.Millisecond)

	// Undocumented commands come from the vendor initialization code.
	ctrl.Command(0x4D, 0x78)
	ctrl.Command(panelSetting, 0x8F, 0x29)
	ctrl.Command(powerSetting, 0x07, 0x00)
	ctrl.Command(powerOffSequence, 0x10, 0x54, 0x44)
	ctrl.Command(boosterSoftStart, 0x05, 0x00, 0x3F, 0x0A, 0x25, 0x12, 0x1A)
	ctrl.Command(vcomDataInterval, 0x37)
	ctrl.Command(tconSetting, 0x02, 0x02)
	// The source count is a multiple of 8.
	w, h := (p.opts.Width+7)/8*8, p.opts.Height
	ctrl.Command(resolutionSetting, byte(w>>8), byte(w), byte(h>>8), byte(h))
	ctrl.Command(0xE7, 0x1C)
	ctrl.Command(0xE3, 0x22)
	ctrl.Command(0xB4, 0xD0)
	ctrl.Command(0xB5, 0x03)
	ctrl.Command(0xE9, 0x01)
	ctrl.Command(pllControl, 0x08)
	ctrl.Command(powerOn)
	ctrl.BusyWait()
}

func (p *profile) PowerDown(ctrl epd.Controller) {
	// Deep sleep is only left with a reset pulse.
	if !ctrl.HasReset() {
		return
	}
	ctrl.Command(powerOff, 0x00)
	ctrl.BusyWait()
	ctrl.Command(deepSleep, 0xA5)
	ctrl.Sleep(100 * time.Millisecond)
}

func (p *profile) Update(ctrl epd.Controller) {
	ctrl.Command(displayRefresh, 0x00)
	ctrl.BusyWait()
	if !ctrl.HasBusy() {
		ctrl.Sleep(time.Second)
	}
}

// WriteRAM starts the transfer of the only RAM, whatever index is.
func (p *profile) WriteRAM(ctrl epd.Controller, index int) byte {
	return ctrl.CommandStart(dataStartTransmission)
}

func (p *profile) SetRAMAddress(ctrl epd.Controller, x, y int) {
}

var _ epd.Profile = &profile{}
