// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import (
	"errors"
	"fmt"
)

// Precondition errors. They are detected in memory before any bus traffic.
var (
	ErrNotInitialized     = errors.New("lcd: display is not initialized")
	ErrAlreadyInitialized = errors.New("lcd: display is already initialized")
	ErrOutOfRange         = errors.New("lcd: value out of range")
	ErrLength             = errors.New("lcd: invalid payload length")
	ErrClosed             = errors.New("lcd: display is closed")
)

// ErrUnsupported is returned at initialization time for display variants or
// modes that are not implemented.
var ErrUnsupported = errors.New("lcd: unsupported configuration")

// TransportError reports that the underlying bus write failed.
//
// When it is returned in the middle of a nibble sequence the controller is in
// an unknown state; the display must be initialized again to recover.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lcd: transport %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// OK collapses the result of an operation to a boolean, for callers that only
// care about success.
func OK(err error) bool {
	return err == nil
}
