// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"fmt"

	"github.com/GermanBionicSystems/lcddrivers/lcd"
)

// Command opcodes. Page 28 of the datasheet lists them all.
const (
	cmdChargePump        = 0x8D
	cmdColumnAddr        = 0x21
	cmdComScanDec        = 0xC8
	cmdComScanInc        = 0xC0
	cmdDeactivateScroll  = 0x2E
	cmdActivateScroll    = 0x2F
	cmdDisplayAllOn      = 0xA5
	cmdDisplayAllResume  = 0xA4
	cmdDisplayOff        = 0xAE
	cmdDisplayOn         = 0xAF
	cmdInvertDisplay     = 0xA7
	cmdMemoryMode        = 0x20
	cmdNormalDisplay     = 0xA6
	cmdPageAddr          = 0x22
	cmdSegRemap          = 0xA0
	cmdSegRemapReversed  = 0xA1
	cmdSetComPins        = 0xDA
	cmdSetContrast       = 0x81
	cmdSetDisplayClock   = 0xD5
	cmdSetDisplayOffset  = 0xD3
	cmdSetMultiplex      = 0xA8
	cmdSetPrecharge      = 0xD9
	cmdSetStartLine      = 0x40
	cmdSetVcomDetect     = 0xDB
	memoryModeHorizontal = 0x00
)

// Variant is a supported panel size.
type Variant string

const (
	OLED128x64 Variant = "128x64"
	OLED128x32 Variant = "128x32"
)

// Variants returns the supported variants.
func Variants() []Variant {
	return []Variant{OLED128x64, OLED128x32}
}

// Size returns the panel size in pixels.
func (v Variant) Size() (w, h int, err error) {
	switch v {
	case OLED128x64:
		return 128, 64, nil
	case OLED128x32:
		return 128, 32, nil
	default:
		return 0, 0, fmt.Errorf("%s: variant %q: %w", packageName, string(v), lcd.ErrUnsupported)
	}
}

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value determines the number of refreshes between
// movement. The lower value, the higher speed.
const (
	FrameRate2   FrameRate = 7
	FrameRate3   FrameRate = 4
	FrameRate4   FrameRate = 5
	FrameRate5   FrameRate = 0
	FrameRate25  FrameRate = 6
	FrameRate64  FrameRate = 1
	FrameRate128 FrameRate = 2
	FrameRate256 FrameRate = 3
)

// Orientation is used for scrolling.
type Orientation byte

// Possible orientations for scrolling.
const (
	Left    Orientation = 0x27
	Right   Orientation = 0x26
	UpRight Orientation = 0x29
	UpLeft  Orientation = 0x2A
)

// DisplayPower returns the display on or off command.
func DisplayPower(on bool) byte {
	if on {
		return cmdDisplayOn
	}
	return cmdDisplayOff
}

// Contrast returns the two byte contrast command.
func Contrast(level byte) []byte {
	return []byte{cmdSetContrast, level}
}

// AllPixelsOn returns the command lighting every pixel regardless of the
// GDDRAM content, or resuming to it.
func AllPixelsOn(on bool) byte {
	if on {
		return cmdDisplayAllOn
	}
	return cmdDisplayAllResume
}

// InverseVideo returns the inverted or normal display command.
func InverseVideo(on bool) byte {
	if on {
		return cmdInvertDisplay
	}
	return cmdNormalDisplay
}

// ColumnRange returns the command limiting horizontal addressing to the
// columns start to end inclusive.
func ColumnRange(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > 127 {
		return nil, fmt.Errorf("%s: column range %d-%d: %w", packageName, start, end, lcd.ErrOutOfRange)
	}
	return []byte{cmdColumnAddr, byte(start), byte(end)}, nil
}

// PageRange returns the command limiting horizontal addressing to the pages
// start to end inclusive.
func PageRange(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > 7 {
		return nil, fmt.Errorf("%s: page range %d-%d: %w", packageName, start, end, lcd.ErrOutOfRange)
	}
	return []byte{cmdPageAddr, byte(start), byte(end)}, nil
}

// initCommands returns the full reset flow for a w x h panel. Page 64 of the
// datasheet has the recommended flow.
func initCommands(opts *Opts, w, h int, displayOn bool) []byte {
	// Set COM output scan direction; C0 means normal; C8 means reversed
	comScan := byte(cmdComScanDec)
	// See page 40.
	columnAddr := byte(cmdSegRemapReversed)
	if opts.MirrorVertical {
		comScan = cmdComScanInc
	}
	if opts.MirrorHorizontal {
		columnAddr = cmdSegRemap
	}
	// See page 40. 32 rows panels only wire every other COM line.
	hwLayout := byte(0x02)
	if !opts.Sequential && h != 32 {
		hwLayout |= 0x10
	}
	if opts.SwapTopBottom {
		hwLayout |= 0x20
	}

	// The problem with I²C is that it creates visible tear down. Page 23
	// pictures how to avoid it. For now default to max frequency.
	freq := byte(0xF0)

	return []byte{
		cmdDisplayOff,
		cmdSetDisplayOffset, 0x00,
		cmdSetStartLine,
		// RESET is column 127.
		columnAddr,
		comScan,
		cmdSetComPins, hwLayout,
		cmdSetContrast, 0xFF,
		// Use GDDRAM content, 1=lit.
		cmdDisplayAllResume,
		cmdNormalDisplay,
		// Power on reset value is 0x80.
		cmdSetDisplayClock, freq,
		// Page 62.
		cmdChargePump, 0x14,
		cmdSetPrecharge, 0xF1,
		// Page 32.
		cmdSetVcomDetect, 0x40,
		cmdDeactivateScroll,
		cmdSetMultiplex, byte(h - 1),
		cmdMemoryMode, memoryModeHorizontal,
		cmdColumnAddr, 0, byte(w - 1),
		cmdPageAddr, 0, byte(h/8 - 1),
		DisplayPower(displayOn),
	}
}
