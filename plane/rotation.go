// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package plane

import (
	"fmt"
	"strconv"
)

// Rotation is a number of clockwise quarter turns.
type Rotation int

const (
	NoRotation Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r {
	case NoRotation:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
}

// Set sets the Rotation to a value represented by the string s. Set
// implements the flag.Value interface.
//
// Both quarter turns (0-3) and degrees are accepted.
func (r *Rotation) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("plane: invalid rotation %q", s)
	}
	switch v {
	case 0, 1, 2, 3:
		*r = Rotation(v)
	case 90, 180, 270:
		*r = Rotation(v / 90)
	default:
		return fmt.Errorf("plane: invalid rotation %q", s)
	}
	return nil
}
