// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"periph.io/x/host/v3/rpi"
)

// HatPins returns the lines of a Waveshare e-Paper HAT on a Raspberry Pi.
//
// host.Init must have been called first.
func HatPins() *Pins {
	return &Pins{
		DC:    rpi.P1_22,
		CS:    rpi.P1_24,
		Reset: rpi.P1_11,
		Busy:  rpi.P1_18,
	}
}
