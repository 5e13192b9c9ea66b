// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1680_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/GermanBionicSystems/epd/epd"
	"github.com/GermanBionicSystems/epd/epd/epdtest"
	"github.com/GermanBionicSystems/epd/spibus"
	"github.com/GermanBionicSystems/epd/ssd1680"
)

func TestDisplay(t *testing.T) {
	for _, tc := range []struct {
		name  string
		bopts epdtest.Opts
	}{
		{
			name:  "buffer",
			bopts: epdtest.Opts{NoReset: true},
		},
		{
			name:  "sram",
			bopts: epdtest.Opts{NoReset: true, SRAMSize: 0x8000, MaxTxSize: 64},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := epdtest.NewBoard(&tc.bopts)
			bus := spibus.New(b.Conn, &spibus.Opts{LockTimeout: 10 * time.Millisecond})
			d, err := ssd1680.New(bus, b.Pins(), &ssd1680.Adafruit2in13)
			if err != nil {
				t.Fatal(err)
			}
			if err := d.Fill(epd.White); err != nil {
				t.Fatal(err)
			}
			if err := d.FillRect(0, 0, 8, 1, epd.Black); err != nil {
				t.Fatal(err)
			}
			if err := d.FillRect(8, 0, 8, 1, epd.Red); err != nil {
				t.Fatal(err)
			}
			if err := d.Display(); err != nil {
				t.Fatal(err)
			}

			if data, _ := b.Panel.Find(0x4E); !bytes.Equal(data, []byte{1}) {
				t.Errorf("RAM X counter = % x, want 01", data)
			}
			black, _ := b.Panel.Find(0x24)
			color, _ := b.Panel.Find(0x26)
			if len(black) != 16*250 || len(color) != 16*250 {
				t.Fatalf("RAM sizes = %d, %d", len(black), len(color))
			}
			if !bytes.Equal(black[:3], []byte{0x00, 0xFF, 0xFF}) {
				t.Errorf("black RAM = % x...", black[:3])
			}
			if !bytes.Equal(color[:3], []byte{0x00, 0xFF, 0x00}) {
				t.Errorf("color RAM = % x...", color[:3])
			}
		})
	}
}
