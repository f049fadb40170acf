// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
)

// Instruction opcodes. See page 24 of the datasheet.
const (
	cmdClear          byte = 0x01
	cmdHome           byte = 0x02
	cmdEntryMode      byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdCursorShift    byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAM       byte = 0x40
	cmdSetDDRAM       byte = 0x80

	entryIncrement byte = 0x02
	entryShift     byte = 0x01

	shiftDisplay byte = 0x08
	shiftRight   byte = 0x04

	function8Bit   byte = 0x10
	function2Lines byte = 0x08
	function5x10   byte = 0x04

	// The pseudo-command used by the reset handshake, sent as a single high
	// nibble while the interface width is unknown.
	resetNibble byte = 0x03
	// Switches the interface to 4 bit, sent as a single high nibble.
	fourBitNibble byte = 0x02

	maxCGRAMAddress = 0x3f
	maxDDRAMAddress = 0x7f

	// In 2 line mode the DDRAM lines are 0x00-0x27 and 0x40-0x67.
	line0End   = 0x27
	line1Start = 0x40
	line1End   = 0x67
)

// Direction is the cursor movement after each character write.
type Direction byte

const (
	Decrement Direction = iota
	Increment
)

// BusWidth is the controller interface width.
type BusWidth byte

const (
	Bus4Bit BusWidth = iota
	Bus8Bit
)

// Lines is the controller line mode.
type Lines byte

const (
	OneLine Lines = iota
	TwoLines
)

// Dots is the character font height.
type Dots byte

const (
	Dots5x8 Dots = iota
	Dots5x10
)

// ClearCommand returns the clear display instruction.
func ClearCommand() byte {
	return cmdClear
}

// HomeCommand returns the return home instruction.
func HomeCommand() byte {
	return cmdHome
}

// EntryMode returns the entry mode set instruction.
func EntryMode(dir Direction, autoShift bool) (byte, error) {
	v := cmdEntryMode
	switch dir {
	case Decrement:
	case Increment:
		v |= entryIncrement
	default:
		return 0, fmt.Errorf("%s: unknown entry direction %d: %w", packageName, dir, lcd.ErrOutOfRange)
	}
	if autoShift {
		v |= entryShift
	}
	return v, nil
}

// DisplayControl returns the display on/off control instruction for flags.
func DisplayControl(flags lcd.Flags) byte {
	return cmdDisplayControl | flags.Byte()
}

// CursorShift returns the cursor or display shift instruction.
func CursorShift(display, right bool) byte {
	v := cmdCursorShift
	if display {
		v |= shiftDisplay
	}
	if right {
		v |= shiftRight
	}
	return v
}

// FunctionSet returns the function set instruction.
func FunctionSet(width BusWidth, lines Lines, dots Dots) (byte, error) {
	v := cmdFunctionSet
	switch width {
	case Bus4Bit:
	case Bus8Bit:
		v |= function8Bit
	default:
		return 0, fmt.Errorf("%s: unknown bus width %d: %w", packageName, width, lcd.ErrUnsupported)
	}
	switch lines {
	case OneLine:
	case TwoLines:
		v |= function2Lines
	default:
		return 0, fmt.Errorf("%s: unknown line mode %d: %w", packageName, lines, lcd.ErrUnsupported)
	}
	switch dots {
	case Dots5x8:
	case Dots5x10:
		v |= function5x10
	default:
		return 0, fmt.Errorf("%s: unknown font %d: %w", packageName, dots, lcd.ErrUnsupported)
	}
	return v, nil
}

// SetCGRAMAddress returns the instruction selecting a CGRAM address.
func SetCGRAMAddress(offset int) (byte, error) {
	if offset < 0 || offset > maxCGRAMAddress {
		return 0, fmt.Errorf("%s: CGRAM address %#x out of range: %w", packageName, offset, lcd.ErrOutOfRange)
	}
	return cmdSetCGRAM | byte(offset), nil
}

// SetDDRAMAddress returns the instruction selecting a DDRAM address.
func SetDDRAMAddress(offset int) (byte, error) {
	if offset < 0 || offset > maxDDRAMAddress {
		return 0, fmt.Errorf("%s: DDRAM address %#x out of range: %w", packageName, offset, lcd.ErrOutOfRange)
	}
	return cmdSetDDRAM | byte(offset), nil
}

// AdvanceDDRAM returns the address counter after n moves from addr in 2 line
// mode. The counter jumps from the end of a line to the start of the other.
func AdvanceDDRAM(addr byte, n int, increment bool) byte {
	for ; n > 0; n-- {
		switch {
		case increment && addr == line0End:
			addr = line1Start
		case increment && addr == line1End:
			addr = 0
		case increment:
			addr++
		case addr == 0:
			addr = line1End
		case addr == line1Start:
			addr = line0End
		default:
			addr--
		}
	}
	return addr & maxDDRAMAddress
}
