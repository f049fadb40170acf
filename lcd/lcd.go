// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import (
	"io"

	"periph.io/x/conn/v3"
)

// Protocol delivers command and data bytes to a display controller.
//
// Implementations: hd44780.Nibble splits each byte in two strobed nibbles
// through an I/O expander, ssd1306.Framed prefixes each write with a control
// byte.
type Protocol interface {
	// Reset brings the controller bus interface into a known state. It is
	// called once at the start of the initialization sequence.
	Reset() error
	// WriteCommand sends controller instruction bytes.
	WriteCommand(cmd ...byte) error
	// WriteData sends bytes to the controller display or glyph memory.
	WriteData(p []byte) error
	// Backlight switches the backlight, or its closest equivalent, and
	// applies the change on the bus immediately.
	Backlight(on bool) error
}

// Display is the operation surface common to every driver in this module.
//
// Positions are 0-based: x is the column, y the text row.
type Display interface {
	conn.Resource
	io.Closer
	Geometry() Geometry
	Clear() error
	SetCursorPosition(x, y int) error
	WriteText(text string) error
	WriteTextAtLine(text string, row int) error
	SetCursorStyle(visible, blinking bool) error
	SetDisplayOn(on bool) error
	SetBacklightOn(on bool) error
	SetCustomGlyph(index int, rows []byte) error
	SetAllCustomGlyphs(p []byte) error
}

// Conn is the part of a transport a Protocol needs: a write-only Tx to a
// fixed target address. *i2c.Dev implements it.
type Conn interface {
	String() string
	Tx(w, r []byte) error
}

// WriteBytes performs one atomic write transaction of p.
func WriteBytes(c Conn, p []byte) error {
	if err := c.Tx(p, nil); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// WriteByte performs one atomic write transaction of a single byte.
func WriteByte(c Conn, v byte) error {
	return WriteBytes(c, []byte{v})
}
