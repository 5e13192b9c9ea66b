// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcpsramtest emulates a Microchip serial SRAM for use with
// spibustest.Conn.
package mcpsramtest

import (
	"sync"
)

const (
	cmdRead  = 0x03
	cmdWrite = 0x02
	cmdRDSR  = 0x05
	cmdWRSR  = 0x01
)

type state int

const (
	idle state = iota
	command
	address
	data
	status
	writeStatus
)

// Chip is an emulated serial SRAM in sequential mode.
//
// Addresses wrap around at the end of Mem, like on the real chip.
type Chip struct {
	sync.Mutex
	// Mem is the memory array.
	Mem []byte
	// AddrBytes is the size of the address field, 2 or 3.
	AddrBytes int
	// Mode is the mode register.
	Mode byte
	// Transactions counts the times the chip was selected.
	Transactions int

	st    state
	cmd   byte
	addr  int
	nAddr int
}

// New returns an emulated chip of size bytes.
func New(size, addrBytes int) *Chip {
	return &Chip{Mem: make([]byte, size), AddrBytes: addrBytes}
}

// Select implements spibustest.Device.
func (c *Chip) Select(selected bool) {
	c.Lock()
	defer c.Unlock()
	if selected {
		c.Transactions++
		c.st = command
	} else {
		c.st = idle
	}
	c.addr = 0
	c.nAddr = 0
}

// Transfer implements spibustest.Device.
func (c *Chip) Transfer(w byte) byte {
	c.Lock()
	defer c.Unlock()
	switch c.st {
	case command:
		c.cmd = w
		switch w {
		case cmdRead, cmdWrite:
			c.st = address
		case cmdRDSR:
			c.st = status
		case cmdWRSR:
			c.st = writeStatus
		default:
			c.st = idle
		}
	case address:
		c.addr = c.addr<<8 | int(w)
		if c.nAddr++; c.nAddr == c.AddrBytes {
			c.addr %= len(c.Mem)
			c.st = data
		}
	case data:
		i := c.addr
		c.addr = (c.addr + 1) % len(c.Mem)
		if c.cmd == cmdRead {
			return c.Mem[i]
		}
		c.Mem[i] = w
	case status:
		return c.Mode
	case writeStatus:
		c.Mode = w
		c.st = idle
	}
	return 0
}
