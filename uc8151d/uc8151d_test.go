// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uc8151d

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/epd/epd"
	"github.com/GermanBionicSystems/epd/epd/epdtest"
	"github.com/GermanBionicSystems/epd/spibus"
)

func TestProfile(t *testing.T) {
	for _, tc := range []struct {
		name   string
		noBusy bool
		f      func(p *profile, ctrl epd.Controller)
		want   []epdtest.Call
	}{
		{
			name: "power up",
			f:    (*profile).PowerUp,
			want: []epdtest.Call{
				epdtest.Reset,
				epdtest.Busy,
				epdtest.Cmd(powerOn),
				epdtest.Busy,
				epdtest.Sleep(10 * time.Millisecond),
				epdtest.Cmd(panelSetting, 0x1F),
				epdtest.Cmd(vcomDataInterval, 0x97),
				epdtest.Sleep(50 * time.Millisecond),
			},
		},
		{
			name: "power down",
			f:    (*profile).PowerDown,
			want: []epdtest.Call{
				epdtest.Cmd(vcomDataInterval, 0xF7),
				epdtest.Cmd(powerOff),
				epdtest.Busy,
				epdtest.Cmd(deepSleep, 0xA5),
			},
		},
		{
			name: "update",
			f:    (*profile).Update,
			want: []epdtest.Call{
				epdtest.Cmd(displayRefresh),
				epdtest.Sleep(100 * time.Millisecond),
				epdtest.Busy,
			},
		},
		{
			name:   "update without busy line",
			noBusy: true,
			f:      (*profile).Update,
			want: []epdtest.Call{
				epdtest.Cmd(displayRefresh),
				epdtest.Sleep(100 * time.Millisecond),
				epdtest.Busy,
				epdtest.Sleep(15 * time.Second),
			},
		},
		{
			name: "ram",
			f: func(p *profile, ctrl epd.Controller) {
				p.SetRAMAddress(ctrl, 3, 4)
				p.WriteRAM(ctrl, 0)
				p.WriteRAM(ctrl, 1)
			},
			want: []epdtest.Call{
				epdtest.Start(dataStartTransmission),
				epdtest.Start(dataStartTransmission2),
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := epdtest.Controller{NoBusy: tc.noBusy}
			p := &profile{opts: Adafruit2in9Flexible}

			tc.f(p, &got)

			if diff := cmp.Diff(got.Calls, tc.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("difference (-got +want):\n%s", diff)
			}
			if got.Err != nil {
				t.Error(got.Err)
			}
		})
	}
}

func TestWriteRAMInvalid(t *testing.T) {
	var got epdtest.Controller
	(&profile{}).WriteRAM(&got, 2)
	if !errors.Is(got.Err, epd.ErrUnsupported) {
		t.Errorf("WriteRAM(2) = %v, want %v", got.Err, epd.ErrUnsupported)
	}
}

func TestDisplay(t *testing.T) {
	b := epdtest.NewBoard(&epdtest.Opts{NoReset: true})
	// The busy line is active low.
	b.Busy.L = gpio.High
	bus := spibus.New(b.Conn, &spibus.Opts{LockTimeout: 10 * time.Millisecond})
	d, err := New(bus, b.Pins(), &Opts{Width: 16, Height: 2, PanelSetting: 0x1F})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Fill(epd.White); err != nil {
		t.Fatal(err)
	}
	if err := d.Pixel(0, 0, epd.Black); err != nil {
		t.Fatal(err)
	}
	if err := d.Pixel(15, 1, epd.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.Display(); err != nil {
		t.Fatal(err)
	}
	if data, _ := b.Panel.Find(dataStartTransmission); !bytes.Equal(data, []byte{0x7F, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("DTM1 = % x", data)
	}
	if data, _ := b.Panel.Find(dataStartTransmission2); !bytes.Equal(data, []byte{0xFF, 0xFF, 0xFF, 0xFE}) {
		t.Errorf("DTM2 = % x", data)
	}
	if got := b.Panel.Records[0].Cmd; got != powerOn {
		t.Errorf("first command = %#x, want power on", got)
	}
}
