// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for e-paper display drivers.
//
// The epd package holds the controller independent part: framebuffer planes,
// drawing, the refresh cycle and the busy line. Each controller family has its
// own package providing the command sequences, see ssd1675, ssd1680, uc8151d,
// il91874 and jd79661. Framebuffers can live in an external serial SRAM
// driven by mcpsram, sharing the SPI bus through spibus.
package devices
