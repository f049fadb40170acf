// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import "fmt"

// MaxRows is the maximum number of rows a Geometry can describe.
const MaxRows = 4

// Geometry describes the visible layout of a display: its size and the base
// controller address of each row.
//
// The unit of Width and Height is a character cell. For the character
// controllers LineOffset holds DDRAM addresses; for the graphic controllers
// it holds the first page of each text row.
type Geometry struct {
	Width      int
	Height     int
	LineOffset []byte
}

// Validate checks the Geometry invariants.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("lcd: invalid geometry %dx%d: %w", g.Width, g.Height, ErrUnsupported)
	}
	if g.Height > MaxRows || len(g.LineOffset) > MaxRows {
		return fmt.Errorf("lcd: geometry supports at most %d rows: %w", MaxRows, ErrUnsupported)
	}
	if len(g.LineOffset) < g.Height {
		return fmt.Errorf("lcd: geometry has %d line offsets for %d rows: %w", len(g.LineOffset), g.Height, ErrUnsupported)
	}
	return nil
}

// Contains reports whether (x, y) is a valid 0-based cursor position.
func (g Geometry) Contains(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Address returns LineOffset[y]+x for a valid position.
func (g Geometry) Address(x, y int) (byte, error) {
	if !g.Contains(x, y) {
		return 0, fmt.Errorf("lcd: position (%d,%d) outside %dx%d: %w", x, y, g.Width, g.Height, ErrOutOfRange)
	}
	return g.LineOffset[y] + byte(x), nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}
