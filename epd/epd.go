// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/epd/mcpsram"
	"github.com/GermanBionicSystems/epd/plane"
	"github.com/GermanBionicSystems/epd/spibus"
)

var debug = os.Getenv("EPD_DEBUG") != ""

var sleep = time.Sleep

// Dev is an e-paper panel.
//
// Dev is not safe for concurrent use.
type Dev struct {
	b    *spibus.Bus
	pins Pins
	p    Profile
	opts Opts
	ctrl errorHandler

	sram *mcpsram.Dev
	// ram holds the planes by controller RAM index.
	ram   [2]*plane.Plane
	black *plane.Plane
	color *plane.Plane

	state State
	// held is set while the bus is locked for a multi step transfer.
	held bool
	// err is the first error reported by Set.
	err error
}

// New returns a panel driven by p.
//
// The planes are allocated in host memory, or in the SRAM chip when
// pins.SRAMCS is set. The panel is reset before returning.
func New(b *spibus.Bus, pins *Pins, p Profile, opts *Opts) (*Dev, error) {
	if pins == nil || pins.CS == nil || pins.DC == nil {
		return nil, errors.New("epd: CS and DC pins are required")
	}
	if opts == nil {
		return nil, errors.New("epd: opts are required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, opts.Width, opts.Height)
	}
	d := &Dev{b: b, pins: *pins, p: p, opts: *opts}
	d.ctrl.d = d
	if d.opts.Accent == Black {
		d.opts.Accent = Red
	}
	if !d.opts.Accent.valid() || d.opts.Accent == White {
		return nil, fmt.Errorf("%w: accent color %s", ErrInvalidArgument, d.opts.Accent)
	}
	if d.opts.BusyPoll <= 0 {
		d.opts.BusyPoll = defaultBusyPoll
	}
	if d.opts.BusyTimeout <= 0 {
		d.opts.BusyTimeout = defaultBusyTimeout
	}
	if d.opts.BusyDelay <= 0 {
		d.opts.BusyDelay = defaultBusyDelay
	}
	if d.opts.Classify == nil {
		d.opts.Classify = d.classify
	}
	if err := d.pins.CS.Out(gpio.High); err != nil {
		return nil, err
	}
	if err := d.pins.DC.Out(gpio.Low); err != nil {
		return nil, err
	}
	if d.pins.Busy != nil {
		if err := d.pins.Busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return nil, err
		}
	}
	if d.pins.SRAMCS != nil {
		// Streaming from the SRAM needs the byte clocked in on each transfer.
		if b.Duplex() == conn.Half {
			return nil, fmt.Errorf("%w: SRAM framebuffer on a half duplex bus", ErrUnsupported)
		}
		sopts := d.opts.SRAM
		if sopts == nil {
			sopts = &mcpsram.MCP23K256
		}
		s, err := mcpsram.New(b, d.pins.SRAMCS, sopts)
		if err != nil {
			return nil, err
		}
		d.sram = s
	}
	if err := d.allocate(); err != nil {
		return nil, err
	}
	if err := d.HardwareReset(); err != nil {
		return nil, err
	}
	return d, nil
}

// allocate creates the planes for the layout.
func (d *Dev) allocate() error {
	var indices []int
	format := plane.Mono
	switch d.opts.Layout {
	case Mono:
		indices = []int{d.opts.Black.Index}
	case DualPlane:
		if d.opts.Black.Index == d.opts.Color.Index {
			return fmt.Errorf("%w: black and color planes share RAM %d", ErrInvalidArgument, d.opts.Black.Index)
		}
		indices = []int{0, 1}
	case PackedQuad:
		indices = []int{d.opts.Black.Index}
		format = plane.Packed2
	default:
		return fmt.Errorf("%w: layout %s", ErrInvalidArgument, d.opts.Layout)
	}
	if d.opts.Mirror && d.opts.Layout != Mono {
		return fmt.Errorf("%w: mirroring a %s layout", ErrInvalidArgument, d.opts.Layout)
	}
	for _, i := range []int{d.opts.Black.Index, d.opts.Color.Index} {
		if i != 0 && i != 1 {
			return InvalidRAMIndex(i)
		}
	}
	size := plane.Size(d.opts.Width, d.opts.Height, format)
	for n, i := range indices {
		var s plane.Store
		if d.sram != nil {
			w, err := d.sram.Window(n*size, size)
			if err != nil {
				return fmt.Errorf("epd: framebuffer does not fit in SRAM: %w", err)
			}
			s = w
		} else {
			s = make(plane.Buffer, size)
		}
		p, err := plane.New(d.opts.Width, d.opts.Height, format, s)
		if err != nil {
			return err
		}
		d.ram[i] = p
	}
	d.black = d.ram[d.opts.Black.Index]
	d.black.SetInverted(d.opts.Black.Inverted)
	d.color = d.black
	if d.opts.Layout == DualPlane {
		d.color = d.ram[d.opts.Color.Index]
		d.color.SetInverted(d.opts.Color.Inverted)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %dx%d, %s}", d.b, d.opts.Width, d.opts.Height, d.opts.Layout)
}

// State returns the power state.
func (d *Dev) State() State {
	return d.state
}

// Layout returns the framebuffer layout.
func (d *Dev) Layout() Layout {
	return d.opts.Layout
}

// SRAM returns the framebuffer chip, or nil when the planes are in host
// memory.
func (d *Dev) SRAM() *mcpsram.Dev {
	return d.sram
}

// HardwareReset pulses the reset line. Without a reset line it only marks
// the panel idle.
func (d *Dev) HardwareReset() error {
	d.ctrl.HardwareReset()
	if err := d.ctrl.take(); err != nil {
		return err
	}
	d.state = Idle
	return nil
}

// PowerUp wakes the controller.
func (d *Dev) PowerUp() error {
	d.p.PowerUp(&d.ctrl)
	if err := d.ctrl.take(); err != nil {
		return fmt.Errorf("epd: power up failed: %w", err)
	}
	d.state = Active
	return nil
}

// PowerDown puts the controller in deep sleep. A hardware reset or PowerUp
// is needed to use it again.
func (d *Dev) PowerDown() error {
	d.p.PowerDown(&d.ctrl)
	if err := d.ctrl.take(); err != nil {
		return fmt.Errorf("epd: power down failed: %w", err)
	}
	d.state = Sleeping
	return nil
}

// Display sends the planes to the controller and refreshes the panel.
//
// It blocks until the refresh is complete. A failure is returned as is; the
// refresh is never retried.
func (d *Dev) Display() error {
	if err := d.err; err != nil {
		d.err = nil
		return err
	}
	if err := d.PowerUp(); err != nil {
		return err
	}
	d.p.SetRAMAddress(&d.ctrl, 0, 0)
	if err := d.ctrl.take(); err != nil {
		return fmt.Errorf("epd: set RAM address failed: %w", err)
	}
	for i, p := range d.ram {
		if p == nil {
			continue
		}
		if err := d.writePlane(i, p); err != nil {
			return fmt.Errorf("epd: writing RAM %d failed: %w", i, err)
		}
		sleep(2 * time.Millisecond)
	}
	d.state = Refreshing
	d.p.Update(&d.ctrl)
	if err := d.ctrl.take(); err != nil {
		return fmt.Errorf("epd: update failed: %w", err)
	}
	if d.opts.Mirror {
		if err := d.mirror(); err != nil {
			return err
		}
	}
	d.state = Idle
	return nil
}

// mirror copies the Mono plane into the RAM it is not displayed from.
func (d *Dev) mirror() error {
	d.p.SetRAMAddress(&d.ctrl, 0, 0)
	if err := d.ctrl.take(); err != nil {
		return fmt.Errorf("epd: set RAM address failed: %w", err)
	}
	i := 1 - d.opts.Black.Index
	if err := d.writePlane(i, d.black); err != nil {
		return fmt.Errorf("epd: writing RAM %d failed: %w", i, err)
	}
	return nil
}

// writePlane streams one plane into the controller RAM index.
func (d *Dev) writePlane(index int, p *plane.Plane) error {
	if w, ok := p.Store().(*mcpsram.Window); ok {
		return d.streamPlane(index, w)
	}
	data := make([]byte, p.Store().Len())
	if _, err := p.Store().ReadAt(data, 0); err != nil {
		return err
	}
	if err := d.b.Lock(); err != nil {
		return err
	}
	defer d.b.Unlock()
	d.held = true
	defer func() { d.held = false }()

	d.p.WriteRAM(&d.ctrl, index)
	if err := d.ctrl.take(); err != nil {
		return err
	}
	if err := d.pins.DC.Out(gpio.High); err != nil {
		return err
	}
	if err := d.write(data); err != nil {
		return err
	}
	return d.pins.CS.Out(gpio.High)
}

// streamPlane clocks the SRAM window straight into the controller.
//
// The SRAM is selected with a read pending while the panel receives its RAM
// write command, so the byte clocked in during each transfer is the one sent
// on the next.
func (d *Dev) streamPlane(index int, w *mcpsram.Window) error {
	s, err := w.Dev().BeginRead(w.Base())
	if err != nil {
		return err
	}
	defer s.Close()
	d.held = true
	defer func() { d.held = false }()

	v := d.p.WriteRAM(&d.ctrl, index)
	if err := d.ctrl.take(); err != nil {
		return err
	}
	if err := d.pins.DC.Out(gpio.High); err != nil {
		return err
	}
	for i := 0; i < w.Len(); i++ {
		if v, err = d.transfer(v); err != nil {
			return err
		}
	}
	if err := d.pins.CS.Out(gpio.High); err != nil {
		return err
	}
	return s.Close()
}

// withBus runs f with the bus locked, unless it is already held.
func (d *Dev) withBus(f func() error) error {
	if d.held {
		return f()
	}
	if err := d.b.Lock(); err != nil {
		return err
	}
	defer d.b.Unlock()
	return f()
}

// command sends cmd and data. The panel stays selected unless end is set.
func (d *Dev) command(cmd byte, data []byte, end bool) (byte, error) {
	if debug {
		log.Printf("epd: command %#02x % x", cmd, data)
	}
	if err := d.pins.CS.Out(gpio.High); err != nil {
		return 0, err
	}
	if err := d.pins.DC.Out(gpio.Low); err != nil {
		return 0, err
	}
	if err := d.pins.CS.Out(gpio.Low); err != nil {
		return 0, err
	}
	r, err := d.transfer(cmd)
	if err != nil {
		return 0, err
	}
	if len(data) != 0 {
		if err := d.pins.DC.Out(gpio.High); err != nil {
			return 0, err
		}
		if err := d.write(data); err != nil {
			return 0, err
		}
	}
	if end {
		if err := d.pins.CS.Out(gpio.High); err != nil {
			return 0, err
		}
	}
	return r, nil
}

// transfer exchanges one byte, framed by chip select in single byte mode.
func (d *Dev) transfer(w byte) (byte, error) {
	if !d.opts.SingleByteTx {
		return d.b.Transfer(w)
	}
	if err := d.pins.CS.Out(gpio.Low); err != nil {
		return 0, err
	}
	r, err := d.b.Transfer(w)
	if err != nil {
		return 0, err
	}
	return r, d.pins.CS.Out(gpio.High)
}

func (d *Dev) write(data []byte) error {
	if !d.opts.SingleByteTx {
		return d.b.Write(data)
	}
	for _, v := range data {
		if _, err := d.transfer(v); err != nil {
			return err
		}
	}
	return nil
}

// busyWait polls the busy line until it leaves BusyLevel.
//
// The elapsed time is accumulated from the poll interval so the bound holds
// even when sleep returns early.
func (d *Dev) busyWait() error {
	if d.pins.Busy == nil {
		sleep(d.opts.BusyDelay)
		return nil
	}
	var waited time.Duration
	for d.pins.Busy.Read() == d.opts.BusyLevel {
		if waited >= d.opts.BusyTimeout {
			return fmt.Errorf("%w after %s", ErrBusyTimeout, waited)
		}
		sleep(d.opts.BusyPoll)
		waited += d.opts.BusyPoll
	}
	return nil
}
