// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcpsram drives the Microchip 23K256 and 23LC1024 serial SRAM.
//
// These chips are found on e-paper breakout boards to hold the framebuffer
// when the host is short on memory. Every access is a SPI transaction framed
// by the chip select line; nothing is cached.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/22100F.pdf
package mcpsram

import (
	"errors"
	"fmt"
	"log"
	"os"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/epd/spibus"
)

// Commands
const (
	cmdWriteStatus byte = 0x01
	cmdWrite       byte = 0x02
	cmdRead        byte = 0x03
	cmdReadStatus  byte = 0x05
)

// Sequential mode with the HOLD function disabled.
const modeSequential byte = 0x43

// ErrRange is returned for accesses past the end of the chip.
var ErrRange = errors.New("mcpsram: address out of range")

var debug = os.Getenv("EPD_DEBUG") != ""

// Opts describes a chip.
type Opts struct {
	// Size is the capacity in bytes.
	Size int
	// AddrBytes is the width of the address field, 2 or 3 bytes.
	AddrBytes int
	// ChunkSize bounds the payload of a single transaction issued by Erase.
	ChunkSize int
}

// MCP23K256 is the 32 KiB chip with 16 bit addresses.
var MCP23K256 = Opts{
	Size:      32 * 1024,
	AddrBytes: 2,
	ChunkSize: 64,
}

// MCP23LC1024 is the 128 KiB chip with 24 bit addresses.
var MCP23LC1024 = Opts{
	Size:      128 * 1024,
	AddrBytes: 3,
	ChunkSize: 64,
}

// Dev is a handle to a serial SRAM chip.
type Dev struct {
	b    *spibus.Bus
	cs   gpio.PinOut
	opts Opts
}

// New returns a handle to the chip selected by cs on b and puts it in
// sequential mode.
//
// When opts is nil, MCP23K256 is assumed.
func New(b *spibus.Bus, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &MCP23K256
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("mcpsram: invalid size %d", opts.Size)
	}
	if opts.AddrBytes != 2 && opts.AddrBytes != 3 {
		return nil, fmt.Errorf("mcpsram: invalid address width %d", opts.AddrBytes)
	}
	if opts.Size > 1<<(8*opts.AddrBytes) {
		return nil, fmt.Errorf("mcpsram: %d bytes are not addressable with %d address bytes", opts.Size, opts.AddrBytes)
	}
	d := &Dev{b: b, cs: cs, opts: *opts}
	if d.opts.ChunkSize <= 0 {
		d.opts.ChunkSize = 64
	}
	if err := cs.Out(gpio.High); err != nil {
		return nil, err
	}
	err := d.tx(func() error {
		return b.Write([]byte{cmdWriteStatus, modeSequential})
	})
	if err != nil {
		return nil, fmt.Errorf("mcpsram: failed to set mode: %w", err)
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("mcpsram.Dev{%s, %d bytes}", d.cs, d.opts.Size)
}

// Size returns the capacity in bytes.
func (d *Dev) Size() int {
	return d.opts.Size
}

// Mode returns the content of the mode register.
func (d *Dev) Mode() (byte, error) {
	var r []byte
	err := d.tx(func() error {
		var err error
		r, err = d.b.WriteRead([]byte{cmdReadStatus}, 1)
		return err
	})
	if err != nil {
		return 0, err
	}
	return r[0], nil
}

// Read returns n bytes starting at addr.
func (d *Dev) Read(addr, n int) ([]byte, error) {
	if err := d.check(addr, n); err != nil {
		return nil, err
	}
	var r []byte
	err := d.tx(func() error {
		var err error
		r, err = d.b.WriteRead(d.header(cmdRead, addr), n)
		return err
	})
	if err != nil {
		return nil, err
	}
	if debug {
		log.Printf("mcpsram: read %d bytes at %#x", n, addr)
	}
	return r, nil
}

// Write stores buf at addr in a single transaction.
func (d *Dev) Write(addr int, buf []byte) error {
	if err := d.check(addr, len(buf)); err != nil {
		return err
	}
	w := append(d.header(cmdWrite, addr), buf...)
	if debug {
		log.Printf("mcpsram: write %d bytes at %#x", len(buf), addr)
	}
	return d.tx(func() error {
		return d.b.Write(w)
	})
}

// Erase writes n copies of v starting at addr, in chunks of Opts.ChunkSize
// bytes.
func (d *Dev) Erase(addr, n int, v byte) error {
	if err := d.check(addr, n); err != nil {
		return err
	}
	chunk := make([]byte, min(n, d.opts.ChunkSize))
	for i := range chunk {
		chunk[i] = v
	}
	for off := 0; off < n; off += len(chunk) {
		if err := d.Write(addr+off, chunk[:min(len(chunk), n-off)]); err != nil {
			return err
		}
	}
	return nil
}

// Read8 returns the byte at addr.
func (d *Dev) Read8(addr int) (byte, error) {
	b, err := d.Read(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Read16 returns the big endian word at addr.
func (d *Dev) Read16(addr int) (uint16, error) {
	b, err := d.Read(addr, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// Write8 stores v at addr.
func (d *Dev) Write8(addr int, v byte) error {
	return d.Write(addr, []byte{v})
}

// Write16 stores v at addr, big endian.
func (d *Dev) Write16(addr int, v uint16) error {
	return d.Write(addr, []byte{byte(v >> 8), byte(v)})
}

// Window returns a plane.Store covering [base, base+n).
func (d *Dev) Window(base, n int) (*Window, error) {
	if err := d.check(base, n); err != nil {
		return nil, err
	}
	return &Window{d: d, base: base, n: n}, nil
}

// Stream is a sequential read left open so the bytes can be clocked out by
// another chip sharing the bus.
//
// The bus stays locked until Close; the owner of the stream must use Bus for
// all its transfers in the meantime.
type Stream struct {
	d      *Dev
	closed bool
}

// BeginRead locks the bus, selects the chip and sends a read header for addr.
//
// The next byte clocked on the bus returns the content of addr, the one after
// addr+1 and so on.
func (d *Dev) BeginRead(addr int) (*Stream, error) {
	if err := d.check(addr, 0); err != nil {
		return nil, err
	}
	if err := d.b.Lock(); err != nil {
		return nil, err
	}
	if err := d.cs.Out(gpio.Low); err != nil {
		d.b.Unlock()
		return nil, err
	}
	if err := d.b.Write(d.header(cmdRead, addr)); err != nil {
		_ = d.cs.Out(gpio.High)
		d.b.Unlock()
		return nil, err
	}
	return &Stream{d: d}, nil
}

// Bus returns the locked bus.
func (s *Stream) Bus() *spibus.Bus {
	return s.d.b
}

// Close deselects the chip and unlocks the bus.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.d.cs.Out(gpio.High)
	s.d.b.Unlock()
	return err
}

func (d *Dev) check(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > d.opts.Size {
		return fmt.Errorf("%w: [%#x, %#x) on a %d bytes chip", ErrRange, addr, addr+n, d.opts.Size)
	}
	return nil
}

func (d *Dev) header(cmd byte, addr int) []byte {
	if d.opts.AddrBytes == 3 {
		return []byte{cmd, byte(addr >> 16), byte(addr >> 8), byte(addr)}
	}
	return []byte{cmd, byte(addr >> 8), byte(addr)}
}

// tx runs f with the bus locked and the chip selected.
func (d *Dev) tx(f func() error) error {
	if err := d.b.Lock(); err != nil {
		return err
	}
	defer d.b.Unlock()
	if err := d.cs.Out(gpio.Low); err != nil {
		return err
	}
	err := f()
	if err2 := d.cs.Out(gpio.High); err == nil {
		err = err2
	}
	return err
}
