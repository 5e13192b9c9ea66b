// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jd79661 controls black, white, yellow and red e-paper panels built
// on the JD79661 controller.
//
// The framebuffer packs 4 pixels per byte, most significant pair first:
// 00 is black, 01 white, 10 yellow and 11 red.
package jd79661
