// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdtest emulates an e-paper panel, optionally fitted with a serial
// SRAM, on a fake SPI bus.
package epdtest

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/epd/epd"
	"github.com/GermanBionicSystems/epd/mcpsram/mcpsramtest"
	"github.com/GermanBionicSystems/epd/spibus/spibustest"
)

// Record is a command received by the panel with its data bytes.
type Record struct {
	Cmd  byte
	Data []byte
}

func (r Record) String() string {
	return fmt.Sprintf("{%#02x % x}", r.Cmd, r.Data)
}

// Panel records the commands clocked into a controller.
//
// Bytes clocked while DC is low start a new Record, bytes clocked while DC is
// high are appended to the last one.
type Panel struct {
	sync.Mutex
	DC *gpiotest.Pin
	// Ack is returned on MISO while the panel is selected. Controllers do not
	// drive MISO so it is normally left at zero.
	Ack byte
	// Records lists the commands received.
	Records []Record
	// Selects counts the chip select pulses.
	Selects int
}

// Select implements spibustest.Device.
func (p *Panel) Select(selected bool) {
	p.Lock()
	defer p.Unlock()
	if selected {
		p.Selects++
	}
}

// Transfer implements spibustest.Device.
func (p *Panel) Transfer(w byte) byte {
	p.Lock()
	defer p.Unlock()
	if p.DC.Read() == gpio.Low || len(p.Records) == 0 {
		p.Records = append(p.Records, Record{Cmd: w})
	} else {
		last := &p.Records[len(p.Records)-1]
		last.Data = append(last.Data, w)
	}
	return p.Ack
}

// Reset clears the records.
func (p *Panel) Reset() {
	p.Lock()
	defer p.Unlock()
	p.Records = nil
	p.Selects = 0
}

// Find returns the data of the last record of cmd.
func (p *Panel) Find(cmd byte) ([]byte, bool) {
	p.Lock()
	defer p.Unlock()
	for i := len(p.Records) - 1; i >= 0; i-- {
		if p.Records[i].Cmd == cmd {
			return p.Records[i].Data, true
		}
	}
	return nil, false
}

// Board is a panel with its lines and an optional SRAM.
type Board struct {
	Conn  *spibustest.Conn
	Panel *Panel
	// SRAM is nil unless requested.
	SRAM   *mcpsramtest.Chip
	CS     *spibustest.CSPin
	SRAMCS *spibustest.CSPin
	DC     *gpiotest.Pin
	Reset  *gpiotest.Pin
	Busy   *gpiotest.Pin
}

// Opts configures a Board.
type Opts struct {
	// SRAMSize and SRAMAddrBytes add an SRAM chip when SRAMSize is not zero.
	SRAMSize      int
	SRAMAddrBytes int
	// NoReset and NoBusy leave the optional lines unconnected.
	NoReset bool
	NoBusy  bool
	// MaxTxSize limits the size of a bus transaction.
	MaxTxSize int
}

// NewBoard returns an emulated board.
func NewBoard(opts *Opts) *Board {
	if opts == nil {
		opts = &Opts{}
	}
	dc := &gpiotest.Pin{N: "DC"}
	b := &Board{
		Panel: &Panel{DC: dc},
		DC:    dc,
	}
	b.CS = spibustest.NewCSPin("CS", b.Panel)
	b.Conn = &spibustest.Conn{CS: []*spibustest.CSPin{b.CS}, Max: opts.MaxTxSize}
	if opts.SRAMSize != 0 {
		n := opts.SRAMAddrBytes
		if n == 0 {
			n = 2
		}
		b.SRAM = mcpsramtest.New(opts.SRAMSize, n)
		b.SRAMCS = spibustest.NewCSPin("SRAMCS", b.SRAM)
		b.Conn.CS = append(b.Conn.CS, b.SRAMCS)
	}
	if !opts.NoReset {
		b.Reset = &gpiotest.Pin{N: "RST", L: gpio.High}
	}
	if !opts.NoBusy {
		b.Busy = &gpiotest.Pin{N: "BUSY"}
	}
	return b
}

// Pins returns the lines to pass to epd.New.
func (b *Board) Pins() *epd.Pins {
	p := &epd.Pins{CS: b.CS, DC: b.DC}
	if b.Reset != nil {
		p.Reset = b.Reset
	}
	if b.Busy != nil {
		p.Busy = b.Busy
	}
	if b.SRAMCS != nil {
		p.SRAMCS = b.SRAMCS
	}
	return p
}

// Call is an operation recorded by Controller.
type Call struct {
	Op   string
	Cmd  byte
	Data []byte
	D    time.Duration
}

func (c Call) String() string {
	switch c.Op {
	case "Command", "CommandStart":
		return fmt.Sprintf("%s(%#02x % x)", c.Op, c.Cmd, c.Data)
	case "Sleep":
		return fmt.Sprintf("Sleep(%s)", c.D)
	default:
		return c.Op + "()"
	}
}

// Cmd returns the Call recorded by Controller.Command.
func Cmd(cmd byte, data ...byte) Call {
	return Call{Op: "Command", Cmd: cmd, Data: data}
}

// Start returns the Call recorded by Controller.CommandStart.
func Start(cmd byte) Call {
	return Call{Op: "CommandStart", Cmd: cmd}
}

// Sleep returns the Call recorded by Controller.Sleep.
func Sleep(d time.Duration) Call {
	return Call{Op: "Sleep", D: d}
}

// Calls without arguments.
var (
	Busy  = Call{Op: "BusyWait"}
	Reset = Call{Op: "HardwareReset"}
)

// Controller records the operations of an epd.Profile.
type Controller struct {
	Calls []Call
	// NoBusy and NoReset are reported by HasBusy and HasReset.
	NoBusy  bool
	NoReset bool
	// Err is the first error passed to Fail.
	Err error
}

// Command implements epd.Controller.
func (c *Controller) Command(cmd byte, data ...byte) {
	c.Calls = append(c.Calls, Cmd(cmd, append([]byte(nil), data...)...))
}

// CommandStart implements epd.Controller.
func (c *Controller) CommandStart(cmd byte) byte {
	c.Calls = append(c.Calls, Start(cmd))
	return 0
}

// BusyWait implements epd.Controller.
func (c *Controller) BusyWait() {
	c.Calls = append(c.Calls, Busy)
}

// HardwareReset implements epd.Controller.
func (c *Controller) HardwareReset() {
	c.Calls = append(c.Calls, Reset)
}

// Sleep implements epd.Controller.
func (c *Controller) Sleep(d time.Duration) {
	c.Calls = append(c.Calls, Sleep(d))
}

// HasBusy implements epd.Controller.
func (c *Controller) HasBusy() bool {
	return !c.NoBusy
}

// HasReset implements epd.Controller.
func (c *Controller) HasReset() bool {
	return !c.NoReset
}

// Fail implements epd.Controller.
func (c *Controller) Fail(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

var _ epd.Controller = &Controller{}
