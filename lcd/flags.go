// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import "fmt"

// Display control bits, as laid out in the HD44780 display on/off control
// instruction.
const (
	FlagDisplayOn byte = 0x04
	FlagCursorOn  byte = 0x02
	FlagBlinkOn   byte = 0x01
)

// Flags are the independently toggled display control settings.
//
// The hardware byte is computed by Byte at transmission time only.
type Flags struct {
	On     bool
	Cursor bool
	Blink  bool
}

// Byte returns the OR of the bits for all flags currently set.
func (f Flags) Byte() byte {
	var b byte
	if f.On {
		b |= FlagDisplayOn
	}
	if f.Cursor {
		b |= FlagCursorOn
	}
	if f.Blink {
		b |= FlagBlinkOn
	}
	return b
}

// WithOn returns a copy of f with only the display flag changed.
func (f Flags) WithOn(on bool) Flags {
	f.On = on
	return f
}

// WithCursor returns a copy of f with only the cursor and blink flags changed.
func (f Flags) WithCursor(visible, blinking bool) Flags {
	f.Cursor = visible
	f.Blink = blinking
	return f
}

// FlagsFromByte decodes a display control byte.
func FlagsFromByte(b byte) Flags {
	return Flags{On: b&FlagDisplayOn != 0, Cursor: b&FlagCursorOn != 0, Blink: b&FlagBlinkOn != 0}
}

func (f Flags) String() string {
	return fmt.Sprintf("Flags{On: %t, Cursor: %t, Blink: %t}", f.On, f.Cursor, f.Blink)
}
