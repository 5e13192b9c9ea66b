// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1675 controls monochrome e-paper panels built on the Solomon
// Systech SSD1675 controller, like the Waveshare 2.13" v2 and the Adafruit
// 2.13" monochrome FeatherWing.
//
// Both full and partial refresh waveforms are supported, see SetUpdateMode.
//
// Datasheet:
// https://cdn-learn.adafruit.com/assets/assets/000/092/748/original/SSD1675_0.pdf
package ssd1675
