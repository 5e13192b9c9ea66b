// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package plane implements the bit-packed framebuffers of e-paper displays.
//
// A Plane stores one raw value per pixel, either 1 bit (Mono) or 2 bits
// (Packed2), row by row with the first pixel in the most significant bits.
// Rows are padded to a multiple of 8 pixels, which is what the display
// controllers expect when the RAM is streamed to them.
//
// The memory is abstracted by Store so the same addressing works on a host
// Buffer and on a window of an external SRAM chip.
package plane
