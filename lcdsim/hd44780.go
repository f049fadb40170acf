// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GermanBionicSystems/lcddrivers/hd44780"
	"github.com/GermanBionicSystems/lcddrivers/internal/log"
	"github.com/GermanBionicSystems/lcddrivers/lcd"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ErrRead is returned for transactions with a read phase; the simulated
// expanders are write only.
var ErrRead = errors.New("lcdsim: reads are not supported")

const lineLength = 40

// Op is one byte decoded by the controller in 4 bit mode.
type Op struct {
	// RS is set for data bytes and clear for instructions.
	RS    bool
	Value byte
}

func (o Op) String() string {
	if o.RS {
		return fmt.Sprintf("D%#02x", o.Value)
	}
	return fmt.Sprintf("C%#02x", o.Value)
}

// HD44780 simulates an HD44780 controller behind an I/O expander. It
// implements i2c.Bus; the traffic of any address is accepted.
//
// The controller starts in 8 bit mode, as after power-on. Each falling edge
// of EN latches the data lines.
type HD44780 struct {
	layout   hd44780.Layout
	geometry lcd.Geometry

	out      byte
	iodir    []byte
	eightBit bool
	resets   int
	half     bool
	high     byte

	ddram     [128]byte
	cgram     [lcd.GlyphStoreSize]byte
	ac        byte
	inCGRAM   bool
	increment bool
	autoShift bool
	twoLines  bool
	shift     int
	flags     lcd.Flags

	decoded []Op
	txs     int
}

// NewHD44780 returns a powered up controller of cols x rows characters wired
// through layout.
func NewHD44780(layout hd44780.Layout, cols, rows int) (*HD44780, error) {
	v, err := hd44780.VariantFor(cols, rows)
	if err != nil {
		return nil, err
	}
	g, err := v.Geometry()
	if err != nil {
		return nil, err
	}
	s := &HD44780{layout: layout, geometry: g, eightBit: true, increment: true}
	for i := range s.ddram {
		s.ddram[i] = ' '
	}
	return s, nil
}

func (s *HD44780) String() string {
	return fmt.Sprintf("lcdsim.HD44780{%s, %s}", s.layout.Name, s.geometry)
}

// SetSpeed implements i2c.Bus.
func (s *HD44780) SetSpeed(f physic.Frequency) error {
	return nil
}

// Tx implements i2c.Bus.
func (s *HD44780) Tx(addr uint16, w, r []byte) error {
	if len(r) != 0 {
		return ErrRead
	}
	s.txs++
	if !s.layout.HasRegister {
		// Each byte of a PCF8574 write is latched on the outputs.
		for _, b := range w {
			s.output(b)
		}
		return nil
	}
	if len(w) != 2 {
		return fmt.Errorf("lcdsim: %s: want register and value, got % x", s.layout.Name, w)
	}
	switch w[0] {
	case s.layout.Register:
		s.output(w[1])
	case mcp23008IODIR:
		s.iodir = append(s.iodir[:0], w[1])
	default:
		return fmt.Errorf("lcdsim: %s: unsupported register %#x", s.layout.Name, w[0])
	}
	return nil
}

const mcp23008IODIR = 0x00

func (s *HD44780) output(v byte) {
	prev := s.out
	s.out = v
	if prev&s.layout.EN != 0 && v&s.layout.EN == 0 {
		s.latch(prev)
	}
}

func (s *HD44780) latch(frame byte) {
	nibble := s.layout.DataNibble(frame)
	rs := frame&s.layout.RS != 0
	if s.eightBit {
		// Only D4..D7 are wired; D0..D3 read as 0.
		s.exec(nibble<<4, rs)
		return
	}
	if !s.half {
		s.high = nibble
		s.half = true
		return
	}
	s.half = false
	v := s.high<<4 | nibble
	s.decoded = append(s.decoded, Op{RS: rs, Value: v})
	s.exec(v, rs)
}

func (s *HD44780) exec(v byte, rs bool) {
	if rs {
		s.writeData(v)
		return
	}
	switch {
	case v&0x80 != 0:
		s.ac = v & 0x7f
		s.inCGRAM = false
	case v&0x40 != 0:
		s.ac = v & 0x3f
		s.inCGRAM = true
	case v&0x20 != 0:
		if s.eightBit && v&0x10 != 0 {
			s.resets++
		}
		s.eightBit = v&0x10 != 0
		s.twoLines = v&0x08 != 0
		s.half = false
	case v&0x10 != 0:
		right := v&0x04 != 0
		if v&0x08 != 0 {
			s.shiftDisplay(right)
		} else {
			s.ac = hd44780.AdvanceDDRAM(s.ac, 1, right)
		}
	case v&0x08 != 0:
		s.flags = lcd.FlagsFromByte(v & 0x07)
	case v&0x04 != 0:
		s.increment = v&0x02 != 0
		s.autoShift = v&0x01 != 0
	case v&0x02 != 0:
		s.ac = 0
		s.inCGRAM = false
		s.shift = 0
	case v == 0x01:
		for i := range s.ddram {
			s.ddram[i] = ' '
		}
		s.ac = 0
		s.inCGRAM = false
		s.increment = true
		s.shift = 0
	default:
		log.Warn("lcdsim: unknown hd44780 instruction", "value", fmt.Sprintf("%#02x", v))
	}
}

func (s *HD44780) writeData(v byte) {
	if s.inCGRAM {
		s.cgram[s.ac&0x3f] = v & 0x1f
		if s.increment {
			s.ac = (s.ac + 1) & 0x3f
		} else {
			s.ac = (s.ac - 1) & 0x3f
		}
		return
	}
	s.ddram[s.ac&0x7f] = v
	s.ac = hd44780.AdvanceDDRAM(s.ac, 1, s.increment)
	if s.autoShift {
		// With I/D set the display shifts left so the cursor appears fixed.
		s.shiftDisplay(!s.increment)
	}
}

func (s *HD44780) shiftDisplay(right bool) {
	if right {
		s.shift--
	} else {
		s.shift++
	}
	s.shift = ((s.shift % lineLength) + lineLength) % lineLength
}

// Line returns the characters visible on row y, after display shift.
func (s *HD44780) Line(y int) string {
	if y < 0 || y >= s.geometry.Height {
		return ""
	}
	off := s.geometry.LineOffset[y]
	base := int(off & 0x40)
	start := int(off & 0x3f)
	var b strings.Builder
	for x := 0; x < s.geometry.Width; x++ {
		b.WriteRune(rune(s.ddram[base+(start+x+s.shift)%lineLength]))
	}
	return b.String()
}

// Lines returns every visible row.
func (s *HD44780) Lines() []string {
	out := make([]string, s.geometry.Height)
	for y := range out {
		out[y] = s.Line(y)
	}
	return out
}

// Geometry returns the simulated display geometry.
func (s *HD44780) Geometry() lcd.Geometry {
	return s.geometry
}

// CGRAM returns a copy of the glyph memory.
func (s *HD44780) CGRAM() []byte {
	return append([]byte(nil), s.cgram[:]...)
}

// Address returns the address counter and whether it points into CGRAM.
func (s *HD44780) Address() (byte, bool) {
	return s.ac, s.inCGRAM
}

// Backlight reports the backlight line of the expander.
func (s *HD44780) Backlight() bool {
	return s.out&s.layout.BL != 0
}

// Flags returns the display control flags.
func (s *HD44780) Flags() lcd.Flags {
	return s.flags
}

// FourBit reports whether the controller interface is in 4 bit mode.
func (s *HD44780) FourBit() bool {
	return !s.eightBit
}

// TwoLines reports whether the controller is in 2 line mode.
func (s *HD44780) TwoLines() bool {
	return s.twoLines
}

// Resets returns the number of 8 bit function set instructions received
// while in 8 bit mode.
func (s *HD44780) Resets() int {
	return s.resets
}

// Outputs reports whether the expander pins were configured as outputs. It
// is always true for expanders without direction register.
func (s *HD44780) Outputs() bool {
	if !s.layout.HasRegister {
		return true
	}
	return len(s.iodir) == 1 && s.iodir[0] == 0x00
}

// Decoded returns the bytes decoded in 4 bit mode.
func (s *HD44780) Decoded() []Op {
	return append([]Op(nil), s.decoded...)
}

// Transactions returns the number of bus transactions received.
func (s *HD44780) Transactions() int {
	return s.txs
}

var _ i2c.Bus = &HD44780{}
