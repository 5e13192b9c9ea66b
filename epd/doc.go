// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd implements the parts of e-paper display drivers that do not
// depend on the controller chip.
//
// A Dev holds the framebuffer planes, draws into them and sends them to the
// controller. The chip specific command sequences are provided by a Profile;
// the ssd1675, ssd1680, uc8151d, il91874 and jd79661 packages implement one
// each.
//
// Three framebuffer layouts are supported:
//
//   - Mono: one plane of 1 bit per pixel.
//   - DualPlane: a black plane and an accent (usually red) plane.
//   - PackedQuad: a single plane of 2 bits per pixel for four color panels.
//
// On boards fitted with a Microchip serial SRAM the planes live in the SRAM
// instead of host memory. When the panel is refreshed the SRAM content is
// streamed to the controller over the shared bus, without passing through
// host memory.
//
// Refreshing a panel takes seconds and cannot be aborted, so Display blocks
// until the controller is idle again. A failed refresh is reported and never
// retried.
package epd
