// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// Layout describes how an I²C I/O expander backpack is wired to the LCD.
//
// RS, RW, EN and BL are bit masks of the expander output byte. The 4 data
// lines D4..D7 are consecutive bits starting at DataShift.
type Layout struct {
	Name      string
	RS        byte
	RW        byte
	EN        byte
	BL        byte
	DataShift uint

	// HasRegister is set for expanders with a register file. Each output
	// write is then prefixed with Register.
	HasRegister bool
	Register    byte

	// Setup is written once, before the reset handshake.
	Setup [][]byte
}

// PCF8574 is the layout of the common PCF8574 backpacks sold with LCD1602 and
// LCD2004 modules.
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
var PCF8574 = Layout{
	Name:      "PCF8574",
	RS:        0x01,
	RW:        0x02,
	EN:        0x04,
	BL:        0x08,
	DataShift: 4,
}

// MCP23008 is the layout of the I²C side of the Adafruit I2C/SPI LCD
// Backpack.
//
// https://www.adafruit.com/product/292
var MCP23008 = Layout{
	Name:        "MCP23008",
	RS:          0x02,
	EN:          0x04,
	BL:          0x80,
	DataShift:   3,
	HasRegister: true,
	Register:    mcp23008GPIO,
	// IODIR: all pins are outputs.
	Setup: [][]byte{{mcp23008IODIR, 0x00}},
}

const (
	mcp23008IODIR byte = 0x00
	mcp23008GPIO  byte = 0x09

	// DefaultPCF8574Address is the usual address of PCF8574T backpacks.
	// PCF8574AT based ones use 0x3f.
	DefaultPCF8574Address uint16 = 0x27
	// DefaultMCP23008Address is the address of the Adafruit backpack with no
	// jumper set.
	DefaultMCP23008Address uint16 = 0x20
)

// Frame composes an expander output byte carrying the low 4 bits of nibble
// on the data lines.
func (l *Layout) Frame(nibble byte, rs, bl bool) byte {
	f := (nibble & 0x0f) << l.DataShift
	if rs {
		f |= l.RS
	}
	if bl {
		f |= l.BL
	}
	return f
}

// DataNibble extracts the nibble carried by an expander output byte.
func (l *Layout) DataNibble(frame byte) byte {
	return (frame >> l.DataShift) & 0x0f
}
