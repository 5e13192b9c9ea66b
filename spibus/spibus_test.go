// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spibus

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestConnect(t *testing.T) {
	p := &spitest.Playback{}
	b, err := Connect(p, physic.MegaHertz, nil)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if diff := cmp.Diff(b.String(), "spibus.Bus{playback}"); diff != "" {
		t.Errorf("String() difference (-got +want):\n%s", diff)
	}
	if got := b.MaxTxSize(); got != 4096 {
		t.Errorf("MaxTxSize() = %d, want 4096", got)
	}
	if _, err := Connect(p, physic.MegaHertz, nil); err == nil {
		t.Error("second Connect() succeeded")
	}
}

// connect returns a connection replaying ops.
func connect(t *testing.T, ops ...conntest.IO) (spi.Conn, *spitest.Playback) {
	t.Helper()
	p := &spitest.Playback{Playback: conntest.Playback{Ops: ops}}
	c, err := p.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	return c, p
}

func TestLock(t *testing.T) {
	c, _ := connect(t)
	b := New(c, &Opts{LockTimeout: 5 * time.Millisecond})

	if err := b.Lock(); err != nil {
		t.Fatalf("Lock() failed: %v", err)
	}
	if err := b.Lock(); !errors.Is(err, ErrTimeout) {
		t.Errorf("Lock() on held bus = %v, want %v", err, ErrTimeout)
	}
	b.Unlock()
	if err := b.Lock(); err != nil {
		t.Errorf("Lock() after Unlock() failed: %v", err)
	}
	b.Unlock()
}

func TestLockWaits(t *testing.T) {
	c, _ := connect(t)
	b := New(c, &Opts{LockTimeout: time.Second})
	if err := b.Lock(); err != nil {
		t.Fatal(err)
	}
	go func() {
		time.Sleep(5 * time.Millisecond)
		b.Unlock()
	}()
	if err := b.Lock(); err != nil {
		t.Errorf("Lock() failed: %v", err)
	}
	b.Unlock()
}

func TestUnlockUnlocked(t *testing.T) {
	c, _ := connect(t)
	b := New(c, nil)
	defer func() {
		if recover() == nil {
			t.Error("Unlock() of unlocked bus did not panic")
		}
	}()
	b.Unlock()
}

func TestWrite(t *testing.T) {
	c, p := connect(t,
		conntest.IO{W: []byte{1, 2, 3}},
		conntest.IO{W: []byte{4, 5, 6}},
		conntest.IO{W: []byte{7}},
	)
	b := New(c, &Opts{MaxTxSize: 3})
	if err := b.Write([]byte{1, 2, 3, 4, 5, 6, 7}); err != nil {
		t.Errorf("Write() failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Error(err)
	}
}

func TestTransfer(t *testing.T) {
	for _, tc := range []struct {
		name   string
		duplex conn.Duplex
		ops    []conntest.IO
		want   byte
	}{
		{
			name:   "full",
			duplex: conn.Full,
			ops:    []conntest.IO{{W: []byte{0x42}, R: []byte{0x99}}},
			want:   0x99,
		},
		{
			name:   "half",
			duplex: conn.Half,
			ops:    []conntest.IO{{W: []byte{0x42}}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, p := connect(t, tc.ops...)
			p.D = tc.duplex
			got, err := New(c, nil).Transfer(0x42)
			if err != nil {
				t.Fatalf("Transfer() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Transfer() = %#x, want %#x", got, tc.want)
			}
			if err := p.Close(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestWriteRead(t *testing.T) {
	c, p := connect(t,
		conntest.IO{W: []byte{0x03, 0x00}},
		conntest.IO{W: []byte{0x10}},
		conntest.IO{W: []byte{0, 0}, R: []byte{0xa, 0xb}},
		conntest.IO{W: []byte{0}, R: []byte{0xc}},
	)
	got, err := New(c, &Opts{MaxTxSize: 2}).WriteRead([]byte{0x03, 0x00, 0x10}, 3)
	if err != nil {
		t.Fatalf("WriteRead() failed: %v", err)
	}
	if diff := cmp.Diff(got, []byte{0xa, 0xb, 0xc}); diff != "" {
		t.Errorf("WriteRead() difference (-got +want):\n%s", diff)
	}
	if err := p.Close(); err != nil {
		t.Error(err)
	}
}
