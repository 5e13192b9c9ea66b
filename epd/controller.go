// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Controller is the command channel handed to a Profile.
//
// Errors are sticky: once an operation failed, the following ones are skipped
// and the error is reported by the Dev method that invoked the Profile.
type Controller interface {
	// Command sends cmd followed by data in one chip select frame.
	Command(cmd byte, data ...byte)
	// CommandStart sends cmd and leaves the panel selected so RAM data can
	// follow. It returns the byte clocked in while cmd was sent.
	CommandStart(cmd byte) byte
	// BusyWait blocks until the controller is idle.
	BusyWait()
	// HardwareReset pulses the reset line, if any.
	HardwareReset()
	// Sleep pauses for d.
	Sleep(d time.Duration)
	// HasBusy reports whether a busy line is connected.
	HasBusy() bool
	// HasReset reports whether a reset line is connected.
	HasReset() bool
	// Fail records err unless an error was already recorded.
	Fail(err error)
}

// Profile is the chip specific part of a driver.
//
// The Dev calls PowerUp, then SetRAMAddress(0, 0), then WriteRAM followed by
// the plane bytes for each controller RAM, then Update.
type Profile interface {
	// PowerUp wakes the controller and configures it.
	PowerUp(ctrl Controller)
	// PowerDown puts the controller in deep sleep.
	PowerDown(ctrl Controller)
	// Update starts the refresh and waits for it to complete.
	Update(ctrl Controller)
	// WriteRAM starts writing the controller RAM index with CommandStart and
	// returns its result.
	WriteRAM(ctrl Controller, index int) byte
	// SetRAMAddress moves the RAM address counter.
	SetRAMAddress(ctrl Controller, x, y int)
}

// UnimplementedProfile fails every operation with ErrNotImplemented.
//
// Embed it in a Profile under construction.
type UnimplementedProfile struct{}

// PowerUp implements Profile.
func (UnimplementedProfile) PowerUp(ctrl Controller) {
	ctrl.Fail(notImplemented("PowerUp"))
}

// PowerDown implements Profile.
func (UnimplementedProfile) PowerDown(ctrl Controller) {
	ctrl.Fail(notImplemented("PowerDown"))
}

// Update implements Profile.
func (UnimplementedProfile) Update(ctrl Controller) {
	ctrl.Fail(notImplemented("Update"))
}

// WriteRAM implements Profile.
func (UnimplementedProfile) WriteRAM(ctrl Controller, index int) byte {
	ctrl.Fail(notImplemented("WriteRAM"))
	return 0
}

// SetRAMAddress implements Profile.
func (UnimplementedProfile) SetRAMAddress(ctrl Controller, x, y int) {
	ctrl.Fail(notImplemented("SetRAMAddress"))
}

// errorHandler is the Controller of a Dev.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) Command(cmd byte, data ...byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.withBus(func() error {
		_, err := eh.d.command(cmd, data, true)
		return err
	})
}

func (eh *errorHandler) CommandStart(cmd byte) byte {
	if eh.err != nil {
		return 0
	}
	var r byte
	eh.err = eh.d.withBus(func() error {
		var err error
		r, err = eh.d.command(cmd, nil, false)
		return err
	})
	return r
}

func (eh *errorHandler) BusyWait() {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.busyWait()
}

func (eh *errorHandler) HardwareReset() {
	if eh.err != nil || eh.d.pins.Reset == nil {
		return
	}
	eh.rstOut(gpio.Low)
	eh.Sleep(100 * time.Millisecond)
	eh.rstOut(gpio.High)
	eh.Sleep(100 * time.Millisecond)
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.pins.Reset.Out(l)
}

func (eh *errorHandler) Sleep(d time.Duration) {
	if eh.err != nil {
		return
	}
	sleep(d)
}

func (eh *errorHandler) HasBusy() bool {
	return eh.d.pins.Busy != nil
}

func (eh *errorHandler) HasReset() bool {
	return eh.d.pins.Reset != nil
}

func (eh *errorHandler) Fail(err error) {
	if eh.err == nil {
		eh.err = err
	}
}

// take returns the recorded error and clears it.
func (eh *errorHandler) take() error {
	err := eh.err
	eh.err = nil
	return err
}

var _ Controller = &errorHandler{}
var _ Profile = UnimplementedProfile{}
