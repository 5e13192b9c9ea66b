// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1675

import (
	"github.com/GermanBionicSystems/epd/epd"
)

func initDisplayFull(ctrl epd.Controller, opts *Opts) {
	ctrl.BusyWait()
	ctrl.Command(swReset)
	ctrl.BusyWait()

	ctrl.Command(setAnalogBlockControl, 0x54)
	ctrl.Command(setDigitalBlockControl, 0x3B)

	h := opts.Height - 1
	ctrl.Command(driverOutputControl, byte(h), byte(h>>8), 0x00)

	// X increments, then Y.
	ctrl.Command(dataEntryModeSetting, 0x03)
	setWindow(ctrl, opts.Width, opts.Height)

	ctrl.Command(borderWaveformControl, 0x03)
	ctrl.Command(writeVcomRegister, opts.Vcom)

	lut := opts.FullUpdate
	ctrl.Command(gateDrivingVoltageControl, lut[70])
	ctrl.Command(sourceDrivingVoltageControl, lut[71:74]...)
	ctrl.Command(setDummyLinePeriod, lut[74])
	ctrl.Command(setGateTime, lut[75])
	ctrl.Command(writeLutRegister, lut[:lutWaveform]...)

	setCursor(ctrl, 0, h)
	ctrl.BusyWait()
}

func initDisplayPartial(ctrl epd.Controller, opts *Opts) {
	ctrl.Command(writeVcomRegister, 0x26)
	ctrl.BusyWait()

	ctrl.Command(writeLutRegister, opts.PartialUpdate[:lutWaveform]...)
	ctrl.Command(writeOTPSelection, 0x00, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00)

	ctrl.Command(displayUpdateControl2, 0xC0)
	ctrl.Command(masterActivation)
	ctrl.BusyWait()

	ctrl.Command(borderWaveformControl, 0x01)
}

func updateDisplay(ctrl epd.Controller, mode PartialUpdate) {
	if mode == Partial {
		ctrl.Command(displayUpdateControl2, 0xC7)
	} else {
		ctrl.Command(displayUpdateControl2, 0xF4)
	}
	ctrl.Command(masterActivation)
	ctrl.BusyWait()
}

// setWindow sets the RAM area to the whole panel.
func setWindow(ctrl epd.Controller, w, h int) {
	ctrl.Command(setRAMXAddressStartEndPosition, 0x00, byte((w+7)/8-1))
	ctrl.Command(setRAMYAddressStartEndPosition, 0x00, 0x00, byte(h-1), byte((h-1)>>8))
}

// setCursor positions the RAM address counter. x is in bytes.
func setCursor(ctrl epd.Controller, x, y int) {
	ctrl.Command(setRAMXAddressCounter, byte(x))
	ctrl.Command(setRAMYAddressCounter, byte(y), byte(y>>8))
}
