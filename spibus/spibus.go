// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spibus shares one SPI connection between the devices wired to it.
//
// An e-paper panel and its SRAM companion chip sit on the same bus and drive
// their own chip select lines. Every transaction must first take the bus with
// Lock and release it with Unlock. Lock gives up after Opts.LockTimeout
// instead of spinning forever when the bus is held elsewhere.
package spibus

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// ErrTimeout is returned when the bus could not be acquired in time.
var ErrTimeout = errors.New("spibus: timed out waiting for bus")

var debug = os.Getenv("EPD_DEBUG") != ""

// Opts configures a Bus.
type Opts struct {
	// LockTimeout bounds how long Lock waits for the bus.
	LockTimeout time.Duration
	// MaxTxSize overrides the largest single write. When zero the value
	// reported by conn.Limits is used, falling back to 4096 bytes.
	MaxTxSize int
}

// DefaultOpts is the recommended configuration.
var DefaultOpts = Opts{
	LockTimeout: time.Second,
}

// Bus is an exclusive handle on a SPI connection.
type Bus struct {
	c         spi.Conn
	sem       chan struct{}
	timeout   time.Duration
	maxTxSize int
	buf       [1]byte
}

// Connect configures the port once and returns a Bus using it.
//
// The devices supported here are all SPI mode 0 with 8 bit words. Chip select
// lines are driven as GPIOs by the device drivers.
func Connect(p spi.Port, f physic.Frequency, opts *Opts) (*Bus, error) {
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spibus: failed to connect: %w", err)
	}
	return New(c, opts), nil
}

// New wraps an already configured connection.
func New(c spi.Conn, opts *Opts) *Bus {
	if opts == nil {
		opts = &DefaultOpts
	}
	maxTxSize := opts.MaxTxSize
	if maxTxSize == 0 {
		if limits, ok := c.(conn.Limits); ok {
			maxTxSize = limits.MaxTxSize()
		}
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}
	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultOpts.LockTimeout
	}
	return &Bus{
		c:         c,
		sem:       make(chan struct{}, 1),
		timeout:   timeout,
		maxTxSize: maxTxSize,
	}
}

// Lock takes exclusive ownership of the bus.
func (b *Bus) Lock() error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}
	t := time.NewTimer(b.timeout)
	defer t.Stop()
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-t.C:
		return ErrTimeout
	}
}

// Unlock releases the bus. It must only be called after a successful Lock.
func (b *Bus) Unlock() {
	select {
	case <-b.sem:
	default:
		panic("spibus: Unlock of unlocked bus")
	}
}

// Write clocks out w, split into chunks the driver accepts.
//
// The caller must hold the bus.
func (b *Bus) Write(w []byte) error {
	if debug {
		log.Printf("spibus: write % x", w)
	}
	for len(w) > 0 {
		n := len(w)
		if n > b.maxTxSize {
			n = b.maxTxSize
		}
		if err := b.c.Tx(w[:n], nil); err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}

// Transfer clocks out one byte and returns the byte clocked in at the same
// time. On half duplex connections the byte is only written and 0 returned.
//
// The caller must hold the bus.
func (b *Bus) Transfer(w byte) (byte, error) {
	b.buf[0] = w
	if b.c.Duplex() == conn.Half {
		return 0, b.c.Tx(b.buf[:], nil)
	}
	var r [1]byte
	if err := b.c.Tx(b.buf[:], r[:]); err != nil {
		return 0, err
	}
	if debug {
		log.Printf("spibus: transfer %#02x -> %#02x", w, r[0])
	}
	return r[0], nil
}

// WriteRead writes w then clocks in n bytes while sending zeros.
//
// The caller must hold the bus and keep the device selected in between.
func (b *Bus) WriteRead(w []byte, n int) ([]byte, error) {
	if err := b.Write(w); err != nil {
		return nil, err
	}
	r := make([]byte, n)
	zeros := make([]byte, min(n, b.maxTxSize))
	for off := 0; off < n; {
		m := min(n-off, b.maxTxSize)
		if err := b.c.Tx(zeros[:m], r[off:off+m]); err != nil {
			return nil, err
		}
		off += m
	}
	return r, nil
}

// Duplex returns the duplex of the connection.
func (b *Bus) Duplex() conn.Duplex {
	return b.c.Duplex()
}

// MaxTxSize returns the largest single write issued on the connection.
func (b *Bus) MaxTxSize() int {
	return b.maxTxSize
}

func (b *Bus) String() string {
	return fmt.Sprintf("spibus.Bus{%s}", b.c)
}
