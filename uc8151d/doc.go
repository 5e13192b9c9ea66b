// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package uc8151d controls e-paper panels built on the UltraChip UC8151D
// controller.
//
// Both planes are inverted: a cleared bit shows black in the first RAM and
// the accent color in the second.
//
// Datasheet:
// https://cdn-learn.adafruit.com/assets/assets/000/099/573/original/UC8151D.pdf
package uc8151d
