// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for undefined colors, unsupported image
	// formats and mismatched image sizes.
	ErrInvalidArgument = errors.New("epd: invalid argument")
	// ErrUnsupported is returned for operations the configuration cannot do,
	// like Image on an SRAM backed panel or a RAM index other than 0 or 1.
	ErrUnsupported = errors.New("epd: unsupported operation")
	// ErrNotImplemented is returned by UnimplementedProfile.
	ErrNotImplemented = errors.New("epd: not implemented")
	// ErrBusyTimeout is returned when the busy line did not clear in time.
	ErrBusyTimeout = errors.New("epd: timed out waiting for busy line")
)

func notImplemented(op string) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, op)
}

// InvalidRAMIndex returns the error reported by a Profile asked to write a RAM
// it does not have.
func InvalidRAMIndex(index int) error {
	return fmt.Errorf("%w: RAM index %d", ErrUnsupported, index)
}
