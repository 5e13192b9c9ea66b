// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcpsram

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/epd/mcpsram/mcpsramtest"
	"github.com/GermanBionicSystems/epd/plane"
	"github.com/GermanBionicSystems/epd/spibus"
	"github.com/GermanBionicSystems/epd/spibus/spibustest"
)

type fixture struct {
	conn *spibustest.Conn
	chip *mcpsramtest.Chip
	bus  *spibus.Bus
	dev  *Dev
}

func newFixture(t *testing.T, opts *Opts, maxTx int) *fixture {
	t.Helper()
	chip := mcpsramtest.New(opts.Size, opts.AddrBytes)
	cs := spibustest.NewCSPin("SRAMCS", chip)
	c := &spibustest.Conn{CS: []*spibustest.CSPin{cs}, Max: maxTx}
	bus := spibus.New(c, &spibus.Opts{LockTimeout: 10 * time.Millisecond})
	dev, err := New(bus, cs, opts)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{conn: c, chip: chip, bus: bus, dev: dev}
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}

func TestNew(t *testing.T) {
	f := newFixture(t, &MCP23K256, 0)
	if f.chip.Mode != modeSequential {
		t.Errorf("mode = %#02x, want %#02x", f.chip.Mode, modeSequential)
	}
	if got, err := f.dev.Mode(); err != nil || got != modeSequential {
		t.Errorf("Mode() = %#02x, %v", got, err)
	}
	if f.dev.Size() != 32*1024 {
		t.Errorf("Size() = %d", f.dev.Size())
	}
	if _, err := New(f.bus, nil, &Opts{Size: 10, AddrBytes: 4}); err == nil {
		t.Error("New() with 4 address bytes succeeded")
	}
	if _, err := New(f.bus, nil, &Opts{Size: 128 * 1024, AddrBytes: 2}); err == nil {
		t.Error("New() with 128 KiB behind 16 bit addresses succeeded")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, opts := range []Opts{MCP23K256, MCP23LC1024} {
		for _, n := range []int{1, 63, 64, 65, 300} {
			for _, addr := range []int{0, opts.Size - n} {
				t.Run(fmt.Sprintf("%d/%d@%#x", opts.Size, n, addr), func(t *testing.T) {
					f := newFixture(t, &opts, 32)
					want := pattern(n)
					if err := f.dev.Write(addr, want); err != nil {
						t.Fatalf("Write() failed: %v", err)
					}
					got, err := f.dev.Read(addr, n)
					if err != nil {
						t.Fatalf("Read() failed: %v", err)
					}
					if diff := cmp.Diff(got, want); diff != "" {
						t.Errorf("Read() difference (-got +want):\n%s", diff)
					}
					if !bytes.Equal(f.chip.Mem[addr:addr+n], want) {
						t.Error("chip memory does not hold the written bytes")
					}
				})
			}
		}
	}
}

func TestWriteSingleTransaction(t *testing.T) {
	f := newFixture(t, &MCP23K256, 16)
	before := f.chip.Transactions
	if err := f.dev.Write(0x100, pattern(200)); err != nil {
		t.Fatal(err)
	}
	if got := f.chip.Transactions - before; got != 1 {
		t.Errorf("Write() used %d transactions, want 1", got)
	}
}

func TestErase(t *testing.T) {
	for _, n := range []int{0, 1, 64, 130} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			f := newFixture(t, &MCP23K256, 0)
			copy(f.chip.Mem, pattern(512))
			before := f.chip.Transactions
			if err := f.dev.Erase(10, n, 0xA5); err != nil {
				t.Fatal(err)
			}
			got, err := f.dev.Read(10, n)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, bytes.Repeat([]byte{0xA5}, n)); diff != "" {
				t.Errorf("Erase() difference (-got +want):\n%s", diff)
			}
			if f.chip.Mem[9] != pattern(512)[9] || f.chip.Mem[10+n] != pattern(512)[10+n] {
				t.Error("Erase() wrote outside of the range")
			}
			if got, want := f.chip.Transactions-before, (n+63)/64+1; got != want {
				t.Errorf("Erase() + Read() used %d transactions, want %d", got, want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	f := newFixture(t, &MCP23LC1024, 0)
	if err := f.dev.Write16(0x1FFFE, 0xBEEF); err != nil {
		t.Fatal(err)
	}
	if err := f.dev.Write8(0x10, 0x42); err != nil {
		t.Fatal(err)
	}
	if got, err := f.dev.Read16(0x1FFFE); err != nil || got != 0xBEEF {
		t.Errorf("Read16() = %#04x, %v", got, err)
	}
	if got, err := f.dev.Read8(0x1FFFF); err != nil || got != 0xEF {
		t.Errorf("Read8() = %#02x, %v", got, err)
	}
	if got, err := f.dev.Read8(0x10); err != nil || got != 0x42 {
		t.Errorf("Read8() = %#02x, %v", got, err)
	}
}

func TestRange(t *testing.T) {
	f := newFixture(t, &MCP23K256, 0)
	size := MCP23K256.Size
	for _, err := range []error{
		f.dev.Write(size-1, []byte{1, 2}),
		f.dev.Write(-1, []byte{1}),
		f.dev.Erase(size, 1, 0),
		func() error { _, err := f.dev.Read(size-3, 4); return err }(),
		func() error { _, err := f.dev.Read8(size); return err }(),
		func() error { _, err := f.dev.Window(size-10, 11); return err }(),
		func() error { _, err := f.dev.BeginRead(size + 1); return err }(),
	} {
		if !errors.Is(err, ErrRange) {
			t.Errorf("got %v, want %v", err, ErrRange)
		}
	}
}

func TestBusTimeout(t *testing.T) {
	f := newFixture(t, &MCP23K256, 0)
	if err := f.bus.Lock(); err != nil {
		t.Fatal(err)
	}
	defer f.bus.Unlock()
	if _, err := f.dev.Read(0, 4); !errors.Is(err, spibus.ErrTimeout) {
		t.Errorf("Read() on held bus = %v, want %v", err, spibus.ErrTimeout)
	}
	if err := f.dev.Write(0, []byte{1}); !errors.Is(err, spibus.ErrTimeout) {
		t.Errorf("Write() on held bus = %v, want %v", err, spibus.ErrTimeout)
	}
}

func TestStream(t *testing.T) {
	f := newFixture(t, &MCP23K256, 0)
	copy(f.chip.Mem[0x200:], []byte{0x11, 0x22, 0x33})
	s, err := f.dev.BeginRead(0x200)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.bus.Lock(); !errors.Is(err, spibus.ErrTimeout) {
		t.Errorf("bus not held by the stream: %v", err)
	}
	var got []byte
	for i := 0; i < 3; i++ {
		b, err := s.Bus().Transfer(0)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, b)
	}
	if diff := cmp.Diff(got, []byte{0x11, 0x22, 0x33}); diff != "" {
		t.Errorf("stream difference (-got +want):\n%s", diff)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := f.bus.Lock(); err != nil {
		t.Errorf("bus still held after Close(): %v", err)
	}
	f.bus.Unlock()
}

func TestWindow(t *testing.T) {
	f := newFixture(t, &MCP23K256, 0)
	w, err := f.dev.Window(0x1000, 4)
	if err != nil {
		t.Fatal(err)
	}
	p, err := plane.New(13, 2, plane.Mono, w)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Fill(0xFF); err != nil {
		t.Fatal(err)
	}
	if err := p.SetPixel(1, 1, 0); err != nil {
		t.Fatal(err)
	}
	if got := f.chip.Mem[0x1000+2]; got != 0xBF {
		t.Errorf("byte at row 1 = %#02x, want 0xbf", got)
	}
	if f.chip.Mem[0x1000-1] != 0 || f.chip.Mem[0x1000+4] != 0 {
		t.Error("window wrote outside of its range")
	}
	if v, err := p.Pixel(1, 1); err != nil || v != 0 {
		t.Errorf("Pixel() = %d, %v", v, err)
	}
	buf := make([]byte, 4)
	if n, err := w.ReadAt(buf, 2); n != 2 || err == nil {
		t.Errorf("ReadAt() past end = %d, %v", n, err)
	}
}
