// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcpsram_test

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epd/mcpsram"
	"github.com/GermanBionicSystems/epd/spibus"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI bus registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	b, err := spibus.Connect(p, 8*physic.MegaHertz, nil)
	if err != nil {
		log.Fatal(err)
	}
	d, err := mcpsram.New(b, gpioreg.ByName("GPIO6"), &mcpsram.MCP23K256)
	if err != nil {
		log.Fatalf("Failed to initialize SRAM: %v", err)
	}
	if err := d.Write(0x100, []byte("hello")); err != nil {
		log.Fatal(err)
	}
	buf, err := d.Read(0x100, 5)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", buf)
}
