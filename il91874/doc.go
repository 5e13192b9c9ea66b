// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package il91874 controls tri-color e-paper panels built on the Good Display
// IL91874 controller, like the Adafruit 2.7" shield.
//
// The controller latches every byte on the rising edge of its chip select, so
// the panel is driven in single byte mode.
package il91874
