// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1680 controls tri-color e-paper panels built on the Solomon
// Systech SSD1680 and SSD1680Z controllers.
//
// The black plane goes to the black and white RAM, the accent plane to the
// red RAM.
//
// Datasheet:
// https://cdn-learn.adafruit.com/assets/assets/000/097/631/original/SSD1680_Datasheet.pdf
package ssd1680
