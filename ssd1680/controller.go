// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1680

import (
	"github.com/GermanBionicSystems/epd/epd"
)

func initDisplay(ctrl epd.Controller, opts *Opts) {
	ctrl.BusyWait()
	ctrl.Command(swReset)
	ctrl.BusyWait()

	h := opts.Height - 1
	ctrl.Command(driverOutputControl, byte(h), byte(h>>8), 0x00)
	ctrl.Command(dataEntryModeSetting, 0x03)

	x := xOffset(opts.Variant)
	ctrl.Command(setRAMXAddressStartEndPosition, byte(x), byte(x+(opts.Width+7)/8-1))
	ctrl.Command(setRAMYAddressStartEndPosition, 0x00, 0x00, byte(h), byte(h>>8))
}

// loadWarmTemperature makes the controller pick the waveform of a 100°C
// panel, which is the shortest one.
func loadWarmTemperature(ctrl epd.Controller) {
	// Internal sensor.
	ctrl.Command(tempSensorSelect, 0x80)

	ctrl.Command(displayUpdateControl2, 0x81)
	ctrl.Command(masterActivation)
	ctrl.BusyWait()

	ctrl.Command(tempSensorRegWrite, 0x64, 0x00)

	ctrl.Command(displayUpdateControl2, 0x91)
	ctrl.Command(masterActivation)
	ctrl.BusyWait()
}

// turnOnDisplay runs the display update sequence selected by flags.
func turnOnDisplay(ctrl epd.Controller, flags byte) {
	ctrl.Command(displayUpdateControl2, flags)
	ctrl.Command(masterActivation)
	ctrl.BusyWait()
}

// xOffset is the first RAM column in bytes. The SSD1680 panels are wired
// from the second source byte.
func xOffset(v Variant) int {
	if v == SSD1680Z {
		return 0
	}
	return 1
}

// setCursor positions the RAM address counter. x is in bytes.
func setCursor(ctrl epd.Controller, v Variant, x, y int) {
	ctrl.Command(setRAMXAddressCounter, byte(x+xOffset(v)))
	ctrl.Command(setRAMYAddressCounter, byte(y), byte(y>>8))
}
