// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"time"

	"github.com/GermanBionicSystems/epd/plane"
)

// StubSleep replaces sleep with f until the returned function is called.
func StubSleep(f func(time.Duration)) func() {
	prev := sleep
	sleep = f
	return func() { sleep = prev }
}

// Plane returns the plane written to RAM index i.
func (d *Dev) Plane(i int) *plane.Plane {
	return d.ram[i]
}
