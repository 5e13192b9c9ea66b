// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spibustest emulates a SPI bus shared by several chips, each with
// its own chip select line driven as a GPIO.
//
// Unlike spitest.Playback, which replays a fixed list of transactions, Conn
// hands every byte to the devices whose chip select is asserted and returns
// what they drive on MISO. This allows testing exchanges where the bytes read
// depend on the bytes written earlier.
package spibustest

import (
	"errors"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Device is a chip on the bus.
type Device interface {
	// Select is called when the chip select line changes.
	Select(selected bool)
	// Transfer is called for each byte clocked while selected and returns the
	// byte driven on MISO.
	Transfer(w byte) byte
}

// CSPin is an active low chip select line connected to a Device.
type CSPin struct {
	gpiotest.Pin
	Dev Device
}

// NewCSPin returns a deasserted chip select line for d.
func NewCSPin(name string, d Device) *CSPin {
	return &CSPin{Pin: gpiotest.Pin{N: name, L: gpio.High}, Dev: d}
}

// Out implements gpio.PinOut.
func (p *CSPin) Out(l gpio.Level) error {
	prev := p.Pin.Read()
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	if prev != l {
		p.Dev.Select(l == gpio.Low)
	}
	return nil
}

// Selected reports whether the line is asserted.
func (p *CSPin) Selected() bool {
	return p.Pin.Read() == gpio.Low
}

// Conn is a fake spi.Conn and spi.Port.
type Conn struct {
	sync.Mutex
	// CS lists the chip select lines of the devices on the bus.
	CS []*CSPin
	// D is the reported duplex. The zero value is full duplex.
	D conn.Duplex
	// Max is reported by MaxTxSize.
	Max int
	// Err, when set, is returned by the next Tx and cleared.
	Err error
	// Count is the number of Tx calls.
	Count int
	// Bytes is the number of bytes clocked.
	Bytes int
}

func (c *Conn) String() string {
	return "spibustest"
}

// Connect implements spi.Port.
func (c *Conn) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, errors.New("spibustest: only 8 bits words are supported")
	}
	return c, nil
}

// Duplex implements conn.Conn.
func (c *Conn) Duplex() conn.Duplex {
	if c.D == conn.DuplexUnknown {
		return conn.Full
	}
	return c.D
}

// MaxTxSize implements conn.Limits.
func (c *Conn) MaxTxSize() int {
	return c.Max
}

// Tx implements conn.Conn.
func (c *Conn) Tx(w, r []byte) error {
	c.Lock()
	defer c.Unlock()
	c.Count++
	if err := c.Err; err != nil {
		c.Err = nil
		return err
	}
	if len(r) != 0 && len(r) != len(w) {
		return errors.New("spibustest: read and write buffers differ in size")
	}
	if c.Max != 0 && len(w) > c.Max {
		return errors.New("spibustest: transaction too large")
	}
	for i, b := range w {
		var out byte
		for _, cs := range c.CS {
			if cs.Selected() {
				out |= cs.Dev.Transfer(b)
			}
		}
		if len(r) != 0 {
			r[i] = out
		}
	}
	c.Bytes += len(w)
	return nil
}

// TxPackets implements spi.Conn.
//
// KeepCS is ignored, chip selects are controlled by the CSPin lines.
func (c *Conn) TxPackets(p []spi.Packet) error {
	for _, pkt := range p {
		if err := c.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

var _ spi.Conn = &Conn{}
var _ spi.Port = &Conn{}
var _ conn.Limits = &Conn{}
var _ gpio.PinOut = &CSPin{}
